package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown through a single glamour renderer.
// glamour.TermRenderer is not safe for concurrent Render calls, so calls are serialized.
type Renderer struct {
	mu sync.Mutex
	tr *glamour.TermRenderer
}

// NewRenderer builds a renderer for opts. An unknown style path is an error.
func NewRenderer(opts Options) (*Renderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	tr, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

// Render renders content
func (r *Renderer) Render(content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tr.Render(content)
}

// newRenderer is replaced in tests
var newRenderer = NewRenderer

// Formatter returns a function that renders replies with opts.
// The renderer is built on first use and reused afterwards.
// Rendering failures fall back to the raw text so a reply is never lost.
func Formatter(opts Options) func(string) string {
	var (
		once sync.Once
		r    *Renderer
	)
	return func(content string) string {
		once.Do(func() {
			var err error
			if r, err = newRenderer(opts); err != nil {
				r = nil
			}
		})
		if r == nil {
			return content
		}
		out, err := r.Render(content)
		if err != nil {
			return content
		}
		return strings.Trim(out, "\n")
	}
}
