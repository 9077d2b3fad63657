// Package backend implements the chat providers the loop can talk to.
package backend

import (
	"context"
	"fmt"
	"time"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// Backend turns a conversation into one assistant reply
type Backend interface {
	// Complete sends the whole transcript and returns the reply text
	Complete(ctx context.Context, messages []models.Message) (string, error)
	// Name identifies the provider
	Name() string
	// Close releases connections. It is safe to call more than once.
	Close() error
}

// Config selects and configures a provider
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	// Proxy is an http://, https:// or socks5:// URL applied to all requests
	Proxy string
	// Timeout is the transport-level deadline; 0 uses the provider default
	Timeout time.Duration
}

// DefaultTransportTimeout is used when Config.Timeout is zero
const DefaultTransportTimeout = 300 * time.Second

func (c Config) transportTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTransportTimeout
}

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return models.DefaultModelFor(c.Provider)
}

// New creates the backend named by cfg.Provider
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Provider {
	case models.ProviderOpenAI, "":
		return NewOpenAI(cfg)
	case models.ProviderGemini:
		return NewGemini(ctx, cfg)
	case models.ProviderOllama:
		return NewOllama(cfg)
	case models.ProviderEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("%w: %q", apierrors.ErrUnknownProvider, cfg.Provider)
	}
}
