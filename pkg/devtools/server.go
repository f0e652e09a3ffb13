package devtools

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves a hub over HTTP:
//
//	GET /events  — websocket stream of state-change events
//	GET /stores  — latest snapshot per store, as JSON
//	GET /healthz — liveness probe
//	GET /metrics — Prometheus metrics
type Server struct {
	hub    *Hub
	router chi.Router
}

// NewServer builds the HTTP surface for hub.
func NewServer(hub *Hub) *Server {
	s := &Server{hub: hub}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/events", hub.HandleWebSocket)
	r.Get("/stores", s.handleStores)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Router returns the HTTP handler, ready to mount or serve. The
// inspector exposes full state snapshots; bind it to localhost or put
// it behind the application's own auth.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleStores(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.hub.Latest()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
