package render

import (
	"os"

	"github.com/diogo/chatloop/internal/config"
)

// OptionsFromConfig maps the markdown section of the user config onto renderer options.
// A configured width wins over termWidth. GLAMOUR_STYLE overrides the configured style.
func OptionsFromConfig(md config.MarkdownConfig, termWidth int) Options {
	opts := DefaultOptions()

	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	switch {
	case md.Width > 0:
		opts.Width = md.Width
	case termWidth > 0:
		opts.Width = termWidth
	}

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
