// Package server exposes the canvas compositing operations over a small
// REST surface: canvas lifecycle, layer management, export and snapshot
// persistence.
package server

import (
	"net/http"
	"sync"

	"github.com/canvix/canvix"
	"github.com/canvix/canvix/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oklog/ulid/v2"
)

// Server holds the canvases created through the API and the snapshot store
// the export results can be persisted to.
type Server struct {
	mu       sync.RWMutex
	canvases map[string]*canvix.Canvas
	store    store.SnapshotStore
}

// New returns a server persisting the snapshots into the given store.
func New(st store.SnapshotStore) *Server {
	return &Server{
		canvases: make(map[string]*canvix.Canvas),
		store:    st,
	}
}

// Router assembles the chi routing tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/canvases", s.handleCreateCanvas)
		r.Route("/canvases/{canvasID}", func(r chi.Router) {
			r.Get("/", s.handleGetCanvas)
			r.Post("/layers", s.handleAddLayer)
			r.Post("/layers/{layerID}/select", s.handleSelectLayer)
			r.Post("/layers/{layerID}/order", s.handleReorderLayer)
			r.Get("/export", s.handleExport)
			r.Post("/snapshots", s.handleCreateSnapshot)
			r.Get("/snapshots", s.handleListSnapshots)
		})
		r.Get("/snapshots/{snapshotID}", s.handleGetSnapshot)
		r.Delete("/snapshots/{snapshotID}", s.handleDeleteSnapshot)
	})
	return r
}

// addCanvas registers a canvas and returns its generated id.
func (s *Server) addCanvas(c *canvix.Canvas) string {
	id := ulid.Make().String()

	s.mu.Lock()
	s.canvases[id] = c
	s.mu.Unlock()

	return id
}

// canvas retrieves a registered canvas by id.
func (s *Server) canvas(id string) (*canvix.Canvas, bool) {
	s.mu.RLock()
	c, ok := s.canvases[id]
	s.mu.RUnlock()

	return c, ok
}

// canvasFromRequest resolves the {canvasID} route parameter, replying with
// 404 when the canvas does not exist.
func (s *Server) canvasFromRequest(w http.ResponseWriter, r *http.Request) (*canvix.Canvas, string, bool) {
	id := chi.URLParam(r, "canvasID")
	c, ok := s.canvas(id)
	if !ok {
		http.Error(w, "Canvas not found", http.StatusNotFound)
		return nil, id, false
	}
	return c, id, true
}
