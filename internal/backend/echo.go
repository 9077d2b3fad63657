package backend

import (
	"context"

	"github.com/diogo/chatloop/internal/models"
)

// EchoPrefix is prepended to the last user message by the echo backend
const EchoPrefix = "echo:"

// Echo replies with the last user message. It needs no network and is used for dry runs.
type Echo struct{}

// NewEcho creates an echo backend
func NewEcho() *Echo {
	return &Echo{}
}

// Complete returns EchoPrefix followed by the newest user message
func (e *Echo) Complete(ctx context.Context, messages []models.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	last, _ := models.LastUserContent(messages)
	return EchoPrefix + last, nil
}

// Name returns "echo"
func (e *Echo) Name() string {
	return models.ProviderEcho
}

// Close is a no-op
func (e *Echo) Close() error {
	return nil
}
