package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// GJSON paths into a chat completions response
const (
	PathContent      = "choices.0.message.content"
	PathFinishReason = "choices.0.finish_reason"
	PathErrorMessage = "error.message"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 8 << 20

// httpDoer is the subset of tls_client.HttpClient the OpenAI backend uses
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

// OpenAI talks to any OpenAI-compatible /chat/completions endpoint
type OpenAI struct {
	httpClient httpDoer
	endpoint   string
	apiKey     string
	model      string
	closeOnce  sync.Once
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewOpenAI creates an OpenAI-compatible backend
func NewOpenAI(cfg Config) (*OpenAI, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(cfg.transportTimeout() / time.Second)),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}
	if cfg.Proxy != "" {
		options = append(options, tls_client.WithProxyUrl(cfg.Proxy))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return newOpenAIWithClient(cfg, httpClient), nil
}

func newOpenAIWithClient(cfg Config, httpClient httpDoer) *OpenAI {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = models.DefaultOpenAIBaseURL
	}
	cfg.Provider = models.ProviderOpenAI

	return &OpenAI{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:     cfg.APIKey,
		model:      cfg.model(),
	}
}

// Name returns "openai"
func (o *OpenAI) Name() string {
	return models.ProviderOpenAI
}

// Close drops idle connections
func (o *OpenAI) Close() error {
	o.closeOnce.Do(o.httpClient.CloseIdleConnections)
	return nil
}

// Complete posts the transcript and returns choices[0].message.content
func (o *OpenAI) Complete(ctx context.Context, messages []models.Message) (string, error) {
	payload := chatRequest{
		Model:    o.model,
		Messages: make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role.String(), Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", apierrors.NewNetworkError("chat completion", o.endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apierrors.NewNetworkError("read response", o.endpoint, err)
	}

	return parseCompletion(resp.StatusCode, o.endpoint, data)
}

func parseCompletion(status int, endpoint string, body []byte) (string, error) {
	if status != http.StatusOK {
		msg := gjson.GetBytes(body, PathErrorMessage).String()
		if msg == "" {
			msg = http.StatusText(status)
		}
		return "", apierrors.NewBackendErrorWithBody(status, endpoint, msg, truncateBody(body))
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: response is not JSON", apierrors.ErrInvalidResponse)
	}

	content := gjson.GetBytes(body, PathContent)
	if !content.Exists() || content.String() == "" {
		reason := gjson.GetBytes(body, PathFinishReason).String()
		if reason != "" {
			return "", fmt.Errorf("%w (finish_reason=%s)", apierrors.ErrEmptyResponse, reason)
		}
		return "", apierrors.ErrEmptyResponse
	}

	return content.String(), nil
}

// Error bodies are kept for diagnostics but never in full.
func truncateBody(body []byte) string {
	const limit = 4096
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
