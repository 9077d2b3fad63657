package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// Ollama talks to a local or remote Ollama server
type Ollama struct {
	client   *api.Client
	endpoint string
	model    string
}

// NewOllama creates an Ollama backend
func NewOllama(cfg Config) (*Ollama, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = models.DefaultOllamaBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, apierrors.NewConfigError("base_url", fmt.Sprintf("invalid Ollama URL %q", baseURL))
	}

	httpClient, err := newHTTPClient(cfg.Proxy, cfg.transportTimeout())
	if err != nil {
		return nil, err
	}

	cfg.Provider = models.ProviderOllama
	return &Ollama{
		client:   api.NewClient(u, httpClient),
		endpoint: strings.TrimRight(u.String(), "/") + "/api/chat",
		model:    cfg.model(),
	}, nil
}

// Name returns "ollama"
func (o *Ollama) Name() string {
	return models.ProviderOllama
}

// Close is a no-op
func (o *Ollama) Close() error {
	return nil
}

// Complete runs a non-streaming /api/chat request
func (o *Ollama) Complete(ctx context.Context, messages []models.Message) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: toOllamaMessages(messages),
		Stream:   &stream,
	}

	var reply strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if code, msg, ok := ollamaStatus(err); ok {
			return "", apierrors.NewBackendError(code, o.endpoint, msg)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", apierrors.NewNetworkError("chat", o.endpoint, err)
		}
		// the server reported an error in the body without a status the client kept
		return "", apierrors.NewBackendError(0, o.endpoint, err.Error())
	}

	if reply.Len() == 0 {
		return "", apierrors.ErrEmptyResponse
	}
	return reply.String(), nil
}

// ollamaStatus extracts the HTTP status from an api.StatusError in either form
func ollamaStatus(err error) (int, string, bool) {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, statusMessage(statusErr), true
	}
	var statusPtr *api.StatusError
	if errors.As(err, &statusPtr) && statusPtr != nil {
		return statusPtr.StatusCode, statusMessage(*statusPtr), true
	}
	return 0, "", false
}

func statusMessage(e api.StatusError) string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.Status
}

func toOllamaMessages(messages []models.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, api.Message{Role: m.Role.String(), Content: m.Content})
	}
	return out
}
