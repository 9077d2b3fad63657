// Package conversation keeps the ordered transcript sent to the backend on every turn.
package conversation

import (
	"sync"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// Buffer is the active conversation context.
// At most one system message exists and it is always at index 0.
type Buffer struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewBuffer creates an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// AppendSystem inserts the system prompt. The buffer must be empty.
func (b *Buffer) AppendSystem(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.messages) > 0 {
		return apierrors.ErrSystemNotFirst
	}
	b.messages = append(b.messages, models.NewSystemMessage(text))
	return nil
}

// AppendUser appends a user message
func (b *Buffer) AppendUser(text string) {
	b.append(models.NewUserMessage(text))
}

// AppendAssistant appends an assistant message
func (b *Buffer) AppendAssistant(text string) {
	b.append(models.NewAssistantMessage(text))
}

func (b *Buffer) append(m models.Message) {
	b.mu.Lock()
	b.messages = append(b.messages, m)
	b.mu.Unlock()
}

// Clear removes every message, the system prompt included
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.messages = nil
	b.mu.Unlock()
}

// DropLast removes and returns the newest message
func (b *Buffer) DropLast() (models.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.messages) == 0 {
		return models.Message{}, false
	}
	last := b.messages[len(b.messages)-1]
	b.messages = b.messages[:len(b.messages)-1]
	return last, true
}

// Snapshot returns a copy of the transcript as it is now.
// Later appends or a Clear never change a snapshot already handed out.
func (b *Buffer) Snapshot() []models.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of messages
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}
