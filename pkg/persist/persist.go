// Package persist saves store snapshots to external storage and
// restores them into the current scope.
//
// Snapshots are JSON. A store becomes persistent by attaching a save
// listener and, typically, restoring once at scope setup:
//
//	storage := persist.NewFileStorage("/var/lib/myapp/state")
//	if _, err := persist.Restore[Settings](ctx, storage); err != nil {
//	    return err
//	}
//	persist.Listen[Settings](storage)
package persist

import (
	"context"

	"github.com/go-dux/dux/pkg/dux"
)

// Storage is a keyed blob store. Implementations must be safe for
// concurrent use; keys are short path-like strings produced by Key.
type Storage interface {
	// Save writes data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load reads the value under key. ok is false when the key has
	// never been saved; err is reserved for storage failures.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
}

// Keyed overrides the storage key for a state type. Without it the
// key is the type name.
type Keyed interface {
	PersistKey() string
}

// Key returns the storage key for the state type S.
func Key[S any]() string {
	var zero S
	if k, ok := any(zero).(Keyed); ok {
		return k.PersistKey()
	}
	return dux.StoreName[S]()
}
