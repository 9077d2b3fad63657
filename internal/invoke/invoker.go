// Package invoke runs backend calls off the interactive goroutine and hands the
// outcome back through a single-use handle.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// Backend is the chat capability the invoker drives
type Backend interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// BackendFunc adapts a function to Backend
type BackendFunc func(ctx context.Context, messages []models.Message) (string, error)

// Complete calls f
func (f BackendFunc) Complete(ctx context.Context, messages []models.Message) (string, error) {
	return f(ctx, messages)
}

// Result is the outcome of one invocation. Exactly one of Text or Err is meaningful.
type Result struct {
	Text     string
	Err      error
	Duration time.Duration
}

// Failed reports whether the invocation failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Handle resolves to the Result of one invocation
type Handle struct {
	done chan Result
}

// Done returns a channel that yields the result exactly once
func (h *Handle) Done() <-chan Result {
	return h.done
}

// Wait blocks until the result is available or ctx is done
func (h *Handle) Wait(ctx context.Context) Result {
	select {
	case res := <-h.done:
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

func resolved(res Result) *Handle {
	h := &Handle{done: make(chan Result, 1)}
	h.done <- res
	return h
}

// Invoker executes backend calls one at a time
type Invoker struct {
	backend  Backend
	timeout  time.Duration
	logger   *zap.Logger
	inFlight atomic.Bool
}

// Option configures an Invoker
type Option func(*Invoker)

// WithTimeout bounds every call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		i.timeout = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Invoker) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an Invoker for backend
func New(backend Backend, opts ...Option) *Invoker {
	i := &Invoker{
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke starts one backend call with messages and returns immediately.
// Failures, including panics inside the backend, are delivered as a failed Result.
// Calling Invoke while another call is outstanding yields ErrBusy.
func (i *Invoker) Invoke(ctx context.Context, messages []models.Message) *Handle {
	if !i.inFlight.CompareAndSwap(false, true) {
		return resolved(Result{Err: apierrors.ErrBusy})
	}

	h := &Handle{done: make(chan Result, 1)}
	go func() {
		res := i.call(ctx, messages)
		i.inFlight.Store(false)
		h.done <- res
	}()
	return h
}

func (i *Invoker) call(ctx context.Context, messages []models.Message) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: %v", apierrors.ErrBackendPanicked, r)}
		}
		res.Duration = time.Since(start)
		i.logger.Debug("invocation finished",
			zap.Int("messages", len(messages)),
			zap.Duration("duration", res.Duration),
			zap.Bool("failed", res.Failed()))
	}()

	callCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	text, err := i.backend.Complete(callCtx, messages)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = apierrors.NewTimeoutError(fmt.Sprintf("no response within %s", i.timeout))
		}
		i.logger.Warn("backend call failed", zap.Error(err))
		return Result{Err: err}
	}
	return Result{Text: text}
}
