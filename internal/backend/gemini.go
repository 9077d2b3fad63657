package backend

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

const geminiEndpoint = "generativelanguage.googleapis.com"

// Gemini uses the Gemini API through the genai SDK
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini backend
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", apierrors.ErrMissingAPIKey)
	}

	httpClient, err := newHTTPClient(cfg.Proxy, cfg.transportTimeout())
	if err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	cfg.Provider = models.ProviderGemini
	return &Gemini{client: client, model: cfg.model()}, nil
}

// Name returns "gemini"
func (g *Gemini) Name() string {
	return models.ProviderGemini
}

// Close is a no-op; the SDK client holds no resources beyond its http.Client
func (g *Gemini) Close() error {
	return nil
}

// Complete sends the transcript; the system message travels as SystemInstruction
func (g *Gemini) Complete(ctx context.Context, messages []models.Message) (string, error) {
	contents, config := toGenaiContents(messages)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", apierrors.NewBackendError(apiErr.Code, geminiEndpoint, apiErr.Message)
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
			return "", apierrors.NewBackendError(apiErrPtr.Code, geminiEndpoint, apiErrPtr.Message)
		}
		return "", apierrors.NewNetworkError("generate content", geminiEndpoint, err)
	}

	text := resp.Text()
	if text == "" {
		return "", apierrors.ErrEmptyResponse
	}
	return text, nil
}

// toGenaiContents maps the transcript to genai contents. Assistant turns use the "model" role.
func toGenaiContents(messages []models.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, rest := models.SplitSystem(messages)

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.RoleUser
		if m.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	return contents, config
}
