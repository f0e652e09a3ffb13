// Package devtools exposes live state-change inspection for dux stores:
// a websocket stream of change events, latest-snapshot listing, and a
// Prometheus metrics endpoint, served over HTTP.
//
// Typical wiring, in the scope that owns the stores:
//
//	hub := devtools.NewHub()
//	devtools.Watch[AppState](hub)
//	devtools.Watch[Settings](hub)
//
//	srv := devtools.NewServer(hub)
//	go http.ListenAndServe("localhost:6342", srv.Router())
//
// The `dux tail` command connects to the /events endpoint and prints
// each change as it happens.
package devtools

import (
	"encoding/json"
	"time"
)

// Event is one observed state change of one store.
type Event struct {
	// Store is the state type's name.
	Store string `json:"store"`

	// Seq orders events across all stores on one hub.
	Seq uint64 `json:"seq"`

	// Hash is an xxhash fingerprint of State, letting clients detect
	// identical snapshots without comparing payloads.
	Hash uint64 `json:"hash"`

	// State is the JSON snapshot of the value after the change.
	State json.RawMessage `json:"state"`

	// Time is when the change was observed.
	Time time.Time `json:"time"`
}
