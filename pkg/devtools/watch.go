package devtools

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/go-dux/dux/pkg/dux"
)

// watchListener publishes each observed state value to a hub.
type watchListener[S dux.Store[S]] struct {
	hub   *Hub
	store string
}

func (l watchListener[S]) OnChange(state S) {
	data, err := json.Marshal(state)
	if err != nil {
		// Unmarshalable stores are still observable live; they just
		// cannot be streamed.
		slog.Default().Warn("devtools: marshal state", "store", l.store, "error", err)
		return
	}

	l.hub.Publish(Event{
		Store: l.store,
		Hash:  xxhash.Sum64(data),
		State: data,
		Time:  time.Now(),
	})
}

// Watch streams every change of S in the current scope to the hub,
// starting with the current value. Watching the same store type twice
// in one scope is a no-op.
func Watch[S dux.Store[S]](hub *Hub) {
	dux.InitListener[S](watchListener[S]{
		hub:   hub,
		store: dux.StoreName[S](),
	})
}
