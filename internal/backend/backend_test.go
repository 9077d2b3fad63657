package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		cfg      Config
		wantName string
	}{
		{Config{Provider: models.ProviderEcho}, models.ProviderEcho},
		{Config{Provider: models.ProviderOllama}, models.ProviderOllama},
		{Config{Provider: models.ProviderOpenAI, APIKey: "k"}, models.ProviderOpenAI},
		{Config{Provider: "", APIKey: "k"}, models.ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			b, err := New(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer b.Close()

			if b.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", b.Name(), tt.wantName)
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "anthropic"})
	if !errors.Is(err, apierrors.ErrUnknownProvider) {
		t.Errorf("error = %v, want ErrUnknownProvider", err)
	}
}

func TestNew_GeminiRequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: models.ProviderGemini})
	if !errors.Is(err, apierrors.ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Provider: models.ProviderOllama}
	if cfg.model() != models.DefaultModelFor(models.ProviderOllama) {
		t.Errorf("model() = %s", cfg.model())
	}
	if cfg.transportTimeout() != DefaultTransportTimeout {
		t.Errorf("transportTimeout() = %v", cfg.transportTimeout())
	}

	cfg.Model = "qwen2.5-coder"
	cfg.Timeout = 5 * time.Second
	if cfg.model() != "qwen2.5-coder" || cfg.transportTimeout() != 5*time.Second {
		t.Errorf("explicit values not honored: %+v", cfg)
	}
}

func TestEcho(t *testing.T) {
	e := NewEcho()

	got, err := e.Complete(context.Background(), []models.Message{
		models.NewSystemMessage("sys"),
		models.NewUserMessage("hello"),
		models.NewAssistantMessage("echo:hello"),
		models.NewUserMessage("hi again"),
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "echo:hi again" {
		t.Errorf("Complete() = %q, want %q", got, "echo:hi again")
	}

	got, _ = e.Complete(context.Background(), nil)
	if got != EchoPrefix {
		t.Errorf("Complete(nil) = %q, want %q", got, EchoPrefix)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Complete(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled Complete() error = %v", err)
	}
}
