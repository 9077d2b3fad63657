package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apierrors "github.com/diogo/chatloop/internal/errors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil",
			err:      nil,
			contains: nil,
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			contains: []string{"Request failed", "something broke"},
		},
		{
			name:     "auth error",
			err:      apierrors.NewBackendError(401, "https://api.example.com/v1/chat/completions", "bad key"),
			contains: []string{"HTTP Status: 401", "Endpoint: https://api.example.com", "api_key"},
		},
		{
			name:     "rate limit",
			err:      apierrors.NewBackendError(429, "https://api.example.com", "slow down"),
			contains: []string{"HTTP Status: 429", "rate limiting"},
		},
		{
			name:     "body wins over hint",
			err:      apierrors.NewBackendErrorWithBody(500, "https://api.example.com", "oops", "line one\nline two"),
			contains: []string{"line one\n  line two"},
		},
		{
			name:     "network error",
			err:      apierrors.NewNetworkError("chat", "https://api.example.com", errors.New("connection refused")),
			contains: []string{"connection refused", "proxy settings"},
		},
		{
			name:     "timeout",
			err:      fmt.Errorf("wrapped: %w", apierrors.NewTimeoutError("no response within 1s")),
			contains: []string{"request_timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err, "Request failed")
			if tt.err == nil && got != "" {
				t.Errorf("FormatError(nil) = %q, want empty", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}
