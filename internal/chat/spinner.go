package chat

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Glyphs is the frame set drawn while a reply is pending.
// spinner.Spinner names its frame period FPS; it holds the time between frames, not a rate.
var Glyphs = spinner.Spinner{
	Frames: []string{"⠇", "⠋", "⠙", "⠸", "⠴", "⠦", "⠇", "⠋"},
	FPS:    100 * time.Millisecond,
}

// progress draws one spinner frame per tick, overwriting the previous one in place
type progress struct {
	out    io.Writer
	frames []string
	style  *lipgloss.Style
	frame  int
}

func newProgress(out io.Writer, s spinner.Spinner, style *lipgloss.Style) *progress {
	return &progress{out: out, frames: s.Frames, style: style}
}

func (p *progress) enabled() bool {
	return p != nil && len(p.frames) > 0
}

// tick renders the next frame
func (p *progress) tick() {
	if !p.enabled() {
		return
	}
	glyph := p.frames[p.frame%len(p.frames)]
	if p.style != nil {
		glyph = p.style.Render(glyph)
	}
	fmt.Fprint(p.out, "\r"+glyph)
	p.frame++
}

// interval returns the time between frames, falling back to the default period
func interval(s spinner.Spinner) time.Duration {
	if s.FPS <= 0 {
		return Glyphs.FPS
	}
	return s.FPS
}
