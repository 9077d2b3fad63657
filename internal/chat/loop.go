// Package chat implements the interactive read/invoke/print loop.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/chatloop/internal/conversation"
	"github.com/diogo/chatloop/internal/invoke"
	"github.com/diogo/chatloop/internal/models"
	"github.com/diogo/chatloop/internal/prompts"
)

// Reserved input lines and fixed output text
const (
	ClearCommand   = "/clear"
	ExitCommand    = "exit"
	UserPrompt     = "我:"
	AssistantLabel = "ASSISTANT:"
	ClearedMessage = "context clear success!"
	GoodbyeMessage = "bye!"
	ErrorPrefix    = "error:"
)

// ErrInterrupted replaces the cancellation error when the user interrupts a pending request
var ErrInterrupted = errors.New("request interrupted")

// State is the loop's position in the conversation
type State int

const (
	AwaitingPromptSelection State = iota
	Idle
	Invoking
	Exited
)

func (s State) String() string {
	switch s {
	case AwaitingPromptSelection:
		return "awaiting-prompt-selection"
	case Idle:
		return "idle"
	case Invoking:
		return "invoking"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Formatter transforms assistant text before it is printed
type Formatter func(string) string

// Loop owns one interactive session: its transcript, its invoker and its I/O streams
type Loop struct {
	invoker  *invoke.Invoker
	registry *prompts.Registry
	buffer   *conversation.Buffer
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	logger   *zap.Logger

	sessionID    string
	template     string
	preselected  bool
	strict       bool
	interrupts   bool
	timeout      time.Duration
	spinner      spinner.Spinner
	spinnerStyle *lipgloss.Style
	label        string
	format       Formatter
	onExit       func() error
	onReply      func(string)

	mu    sync.RWMutex
	state State
}

// Option configures a Loop
type Option func(*Loop)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTemplate selects the template up front so no selection line is read
func WithTemplate(code string) Option {
	return func(l *Loop) {
		l.template = code
		l.preselected = true
	}
}

// WithStrictErrors reports failures on the error stream instead of recording them as replies
func WithStrictErrors(strict bool) Option {
	return func(l *Loop) {
		l.strict = strict
	}
}

// WithSpinner replaces the progress frames. A spinner without frames draws nothing.
func WithSpinner(s spinner.Spinner) Option {
	return func(l *Loop) {
		l.spinner = s
	}
}

// WithSpinnerStyle styles each progress frame
func WithSpinnerStyle(style lipgloss.Style) Option {
	return func(l *Loop) {
		l.spinnerStyle = &style
	}
}

// WithLabel replaces the text printed before each reply
func WithLabel(label string) Option {
	return func(l *Loop) {
		l.label = label
	}
}

// WithFormatter renders successful replies for display. The transcript keeps the raw text.
func WithFormatter(f Formatter) Option {
	return func(l *Loop) {
		l.format = f
	}
}

// WithErrorOutput sets the stream used for strict-mode failures
func WithErrorOutput(w io.Writer) Option {
	return func(l *Loop) {
		if w != nil {
			l.errOut = w
		}
	}
}

// WithExitHook runs fn when the user types the exit command
func WithExitHook(fn func() error) Option {
	return func(l *Loop) {
		l.onExit = fn
	}
}

// WithReplyHook runs fn with the raw text of every successful reply
func WithReplyHook(fn func(string)) Option {
	return func(l *Loop) {
		l.onReply = fn
	}
}

// WithTimeout bounds each backend call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) {
		l.timeout = d
	}
}

// WithInterrupts lets SIGINT cancel the pending request
func WithInterrupts(enabled bool) Option {
	return func(l *Loop) {
		l.interrupts = enabled
	}
}

// New creates a Loop that reads from in and writes to out
func New(backend invoke.Backend, registry *prompts.Registry, in io.Reader, out io.Writer, opts ...Option) *Loop {
	if registry == nil {
		registry = prompts.NewRegistry(prompts.Builtin()...)
	}
	l := &Loop{
		registry:  registry,
		buffer:    conversation.NewBuffer(),
		in:        in,
		out:       out,
		errOut:    os.Stderr,
		logger:    zap.NewNop(),
		sessionID: uuid.NewString(),
		spinner:   Glyphs,
		label:     AssistantLabel,
		state:     AwaitingPromptSelection,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(zap.String("session", l.sessionID))
	l.invoker = invoke.New(backend,
		invoke.WithTimeout(l.timeout),
		invoke.WithLogger(l.logger))
	return l
}

// SessionID identifies this loop in log output
func (l *Loop) SessionID() string {
	return l.sessionID
}

// State returns the current state
func (l *Loop) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Transcript returns a copy of the conversation so far
func (l *Loop) Transcript() []models.Message {
	return l.buffer.Snapshot()
}

// Run drives the session until the exit command, end of input, or ctx is done.
// End of input is a normal termination and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("session started")
	defer l.logger.Info("session ended")

	lines := newLineReader(l.in)

	if err := l.selectTemplate(lines); err != nil {
		return l.endOfInput(err)
	}
	l.setState(Idle)
	fmt.Fprintln(l.out, UserPrompt)

	for {
		if err := ctx.Err(); err != nil {
			l.setState(Exited)
			return err
		}
		line, err := lines.next()
		if err != nil {
			return l.endOfInput(err)
		}

		switch line {
		case ClearCommand:
			l.logger.Debug("transcript cleared", zap.Int("messages", l.buffer.Len()))
			l.buffer.Clear()
			fmt.Fprintln(l.out, ClearedMessage)
			fmt.Fprintln(l.out, UserPrompt)
		case ExitCommand:
			fmt.Fprintln(l.out, GoodbyeMessage)
			l.setState(Exited)
			if l.onExit != nil {
				if err := l.onExit(); err != nil {
					return fmt.Errorf("failed to close backend: %w", err)
				}
			}
			return nil
		default:
			l.turn(ctx, line)
		}
	}
}

// selectTemplate installs the system prompt. It returns the read error when input ended first.
func (l *Loop) selectTemplate(lines *lineReader) error {
	code := l.template
	if !l.preselected {
		fmt.Fprintf(l.out, "please choose a prompt [%s]\n", strings.Join(l.registry.Codes(), "/"))
		line, err := lines.next()
		if err != nil {
			return err
		}
		code = strings.TrimSpace(line)
	}

	tmpl, ok := l.registry.Lookup(code)
	if !ok {
		l.logger.Info("no template selected", zap.String("code", code))
		return nil
	}
	if err := l.buffer.AppendSystem(tmpl.Text); err != nil {
		l.logger.Warn("system prompt rejected", zap.Error(err))
		return nil
	}
	l.logger.Info("template selected", zap.String("code", tmpl.Code))
	return nil
}

func (l *Loop) endOfInput(err error) error {
	l.setState(Exited)
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}
	l.logger.Debug("input closed")
	return nil
}

// lineReader yields input lines of any length without their terminator
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(in)}
}

// next returns the next line. A final line without a newline is still returned; io.EOF follows it.
func (lr *lineReader) next() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// turn sends one user line and records the outcome
func (l *Loop) turn(ctx context.Context, text string) {
	l.buffer.AppendUser(text)
	l.setState(Invoking)
	defer l.setState(Idle)

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := l.invoker.Invoke(reqCtx, l.buffer.Snapshot())
	l.deliver(l.await(cancel, handle))
}

// await draws progress until the handle resolves
func (l *Loop) await(cancel context.CancelFunc, h *invoke.Handle) invoke.Result {
	select {
	case res := <-h.Done():
		return res
	default:
	}

	var interrupts chan os.Signal
	if l.interrupts {
		interrupts = make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
	}

	p := newProgress(l.out, l.spinner, l.spinnerStyle)
	p.tick()

	ticker := time.NewTicker(interval(l.spinner))
	defer ticker.Stop()

	interrupted := false
	for {
		select {
		case res := <-h.Done():
			if interrupted && res.Failed() && errors.Is(res.Err, context.Canceled) {
				res.Err = ErrInterrupted
			}
			return res
		case <-ticker.C:
			p.tick()
		case <-interrupts:
			l.logger.Info("request interrupted")
			interrupted = true
			cancel()
		}
	}
}

func (l *Loop) deliver(res invoke.Result) {
	if res.Failed() {
		l.logger.Warn("turn failed", zap.Error(res.Err), zap.Duration("duration", res.Duration))
		if l.strict {
			l.buffer.DropLast()
			fmt.Fprint(l.out, "\r")
			fmt.Fprintln(l.errOut, FormatError(res.Err, "Request failed"))
			fmt.Fprintln(l.out, UserPrompt)
			return
		}
		content := ErrorPrefix + res.Err.Error()
		l.buffer.AppendAssistant(content)
		l.printReply(content)
		return
	}

	l.buffer.AppendAssistant(res.Text)
	display := res.Text
	if l.format != nil {
		display = l.format(res.Text)
	}
	l.printReply(display)
	if l.onReply != nil {
		l.onReply(res.Text)
	}
}

func (l *Loop) printReply(content string) {
	fmt.Fprintln(l.out, "\r"+l.label+content)
	fmt.Fprintln(l.out, UserPrompt)
}
