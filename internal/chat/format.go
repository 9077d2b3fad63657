package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/chatloop/internal/errors"
)

var (
	colorError   = lipgloss.Color("#f7768e")
	colorTextDim = lipgloss.Color("#565f89")
	colorPrimary = lipgloss.Color("#7aa2f7")
)

// LabelStyle is applied to the assistant label on terminals
var LabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

// SpinnerStyle colors the progress glyphs on terminals
var SpinnerStyle = lipgloss.NewStyle().Foreground(colorPrimary)

// FormatError renders err with whatever context the structured error types carry
func FormatError(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsAuthError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check the api_key setting or the provider's API key environment variable"))
		case apierrors.IsRateLimitError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The provider is rate limiting requests. Wait a moment and try again"))
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Raise request_timeout or check your connection"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and proxy settings"))
		}
	}

	return sb.String()
}
