package activity

import (
	"context"

	"go.uber.org/zap"
)

// Store appends entries to the timeline.
type Store interface {
	Append(ctx context.Context, e Entry) error
}

// Recorder turns committed changes into timeline entries. It is
// fire-and-forget: derivation or store failures are logged and swallowed
// so the primary mutation is never affected. Entries are at-most-once;
// a failed append is lost, not retried.
type Recorder struct {
	store Store
	log   *zap.Logger
}

func NewRecorder(store Store, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record derives and appends one entry for the change, if a rule matches.
// Calling it twice with the same change appends two entries.
func (r *Recorder) Record(ctx context.Context, c Change) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("activity derivation panicked", zap.Any("panic", rec))
		}
	}()
	e, ok := Derive(c)
	if !ok {
		return
	}
	if err := r.store.Append(ctx, e); err != nil {
		r.log.Error("activity append failed",
			zap.String("type", string(e.Type)),
			zap.Uint("client_id", e.ClientID),
			zap.Error(err))
	}
}

// Hook wraps a change as a post-commit callback for Hooks.
func (r *Recorder) Hook(c Change) func(context.Context) {
	return func(ctx context.Context) { r.Record(ctx, c) }
}

// Hooks is an ordered list of best-effort callbacks run after the primary
// write commits. Callbacks are isolated from each other: a panic in one
// does not stop the rest, and no callback can fail the caller.
type Hooks struct {
	fns []func(context.Context)
}

func (h *Hooks) Add(fn func(context.Context)) {
	h.fns = append(h.fns, fn)
}

func (h *Hooks) Run(ctx context.Context) {
	for _, fn := range h.fns {
		func() {
			defer func() { _ = recover() }()
			fn(ctx)
		}()
	}
}
