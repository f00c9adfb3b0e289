package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) registerCoverRoutes() {
	// Served through chi directly; huma adds nothing for static bytes.
	s.router.Get("/covers/{file}", s.handleServeCover)
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if file == "" {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}

	key := strings.TrimSuffix(file, ".jpg")

	data, err := s.storage.Covers.Get(key)
	if err != nil {
		http.Error(w, "cover not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}
