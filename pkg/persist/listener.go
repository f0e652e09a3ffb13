package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-dux/dux/pkg/dux"
)

// saveListener persists each observed state value. Save errors are
// logged rather than propagated: notification must never fail because a
// backend is down.
type saveListener[S dux.Store[S]] struct {
	storage Storage
	key     string
	logger  *slog.Logger
}

func (l saveListener[S]) OnChange(state S) {
	data, err := json.Marshal(state)
	if err != nil {
		l.logger.Error("marshal snapshot", "store", l.key, "error", err)
		return
	}
	if err := l.storage.Save(context.Background(), l.key, data); err != nil {
		l.logger.Error("save snapshot", "store", l.key, "error", err)
	}
}

// ListenOption configures Listen.
type ListenOption func(*listenConfig)

type listenConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report save failures.
// Default: slog.Default with a "persist" component.
func WithLogger(logger *slog.Logger) ListenOption {
	return func(c *listenConfig) { c.logger = logger }
}

// Listen persists every change of S in the current scope to storage,
// starting with the current value. Attaching twice for the same store
// type in one scope is a no-op.
func Listen[S dux.Store[S]](storage Storage, opts ...ListenOption) {
	cfg := listenConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default().With("component", "persist")
	}

	dux.InitListener[S](saveListener[S]{
		storage: storage,
		key:     Key[S](),
		logger:  cfg.logger,
	})
}

// Restore loads the snapshot for S, if any, into the current scope's
// Context. It reports whether a snapshot was found. Restoring an equal
// value notifies no one, per the usual reduce semantics.
func Restore[S dux.Store[S]](ctx context.Context, storage Storage) (bool, error) {
	data, ok, err := storage.Load(ctx, Key[S]())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var loaded S
	if err := json.Unmarshal(data, &loaded); err != nil {
		return false, fmt.Errorf("persist: decode snapshot: %w", err)
	}

	dux.GetOrInit[S]().Reduce(func(s *S) { *s = loaded })
	return true, nil
}
