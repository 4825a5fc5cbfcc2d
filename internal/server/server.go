// Package server exposes the read-state API over HTTP for the
// presentation layer.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"unread/internal/database"
	"unread/internal/feed"
	"unread/internal/model"
	"unread/internal/opml"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP boundary between the store and the presentation
// layer. It owns no entries itself; everything it returns is a
// transient copy of store rows.
type Server struct {
	store   database.Store
	syncer  *feed.Syncer
	sources feed.SourceFunc
	poller  *feed.Poller
	router  chi.Router
}

// New creates a new server.
func New(store database.Store, syncer *feed.Syncer, sources feed.SourceFunc, poller *feed.Poller) *Server {
	s := &Server{
		store:   store,
		syncer:  syncer,
		sources: sources,
		poller:  poller,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Get("/unread", s.handleUnread)
		r.Post("/mark-read", s.handleMarkRead)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/export-opml", s.handleExportOPML)
	})

	s.router = r
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and the background poller.
func (s *Server) Start(addr string) error {
	if s.poller != nil {
		s.poller.Start()
	}
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Stop stops the poller.
func (s *Server) Stop() {
	if s.poller != nil {
		s.poller.Stop()
	}
}

// --- API Handlers ---

func (s *Server) handleUnread(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.GetUnread()
	if err != nil {
		log.Printf("Error loading unread entries: %v", err)
		http.Error(w, "Failed to load entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GUID string `json:"guid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GUID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := s.store.MarkRead(req.GUID); err != nil {
		log.Printf("Error marking %s read: %v", req.GUID, err)
		http.Error(w, "Failed to mark read", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources()
	if err != nil {
		log.Printf("Error loading sources: %v", err)
		http.Error(w, "Failed to load feed list", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()
	retrieved := s.syncer.Sync(ctx, sources, s.store)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"retrieved": retrieved,
		"feeds":     len(sources),
	})
}

func (s *Server) handleExportOPML(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources()
	if err != nil {
		http.Error(w, "Failed to load feed list", http.StatusInternalServerError)
		return
	}
	data, err := opml.Export("unread feeds", sources)
	if err != nil {
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", "attachment; filename=feeds.opml")
	w.Write(data)
}
