package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/chatloop/internal/backend"
	"github.com/diogo/chatloop/internal/chat"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewBackend builds the chat provider.
	NewBackend func(ctx context.Context, cfg backend.Config) (backend.Backend, error)

	// Clipboard receives replies when copy_to_clipboard is set.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive enables terminal styling, markdown and Ctrl+C cancellation.
	Interactive bool

	// TerminalWidth is the output width used for markdown wrapping.
	TerminalWidth int
}

// NewDependencies creates a new Dependencies struct wired to the process terminal.
func NewDependencies() *Dependencies {
	interactive := chat.IsTerminal(os.Stdout)
	width := 0
	if interactive {
		width = chat.TerminalWidth(os.Stdout)
	}
	return &Dependencies{
		NewBackend:    backend.New,
		Clipboard:     clipboard.WriteAll,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Interactive:   interactive,
		TerminalWidth: width,
	}
}
