package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	geojson "github.com/paulmach/go.geojson"

	"streetnet"
)

// server exposes the running simulation to the rendering layer:
// latest snapshot on /update, transit stops on /stops, map center on /center.
type server struct {
	stops  []*geojson.Feature
	center streetnet.GeoPoint

	mu     sync.RWMutex
	latest streetnet.Snapshot
}

func newServer(stops []*geojson.Feature, center streetnet.GeoPoint) *server {
	return &server{
		stops:  stops,
		center: center,
	}
}

// consume stores every incoming snapshot as the latest one. Snapshots are
// immutable, so readers holding the previous value stay consistent.
func (s *server) consume(snapshots <-chan streetnet.Snapshot) {
	for snapshot := range snapshots {
		s.mu.Lock()
		s.latest = snapshot
		s.mu.Unlock()
	}
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Get("/update", s.handleUpdate)
	r.Get("/stops", s.handleStops)
	r.Get("/center", s.handleCenter)
	return r
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snapshot := s.latest
	s.mu.RUnlock()
	writeJSON(w, snapshot)
}

func (s *server) handleStops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.stops)
}

func (s *server) handleCenter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]float64{
		"lon": s.center.Lon,
		"lat": s.center.Lat,
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
