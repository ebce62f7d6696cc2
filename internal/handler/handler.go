// Package handler is the HTTP boundary: URL and body parsing on the way
// in, DTO encoding and error mapping on the way out. No domain rules
// live here.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/logger"
	"github.com/forumkit/forumkit/internal/service"
)

type Handler struct {
	catalog service.CatalogService
	thread  service.ThreadService
	post    service.PostService
	vote    service.VoteService
	report  service.ReportService
	health  Pinger
}

func New(catalog service.CatalogService, thread service.ThreadService, post service.PostService, vote service.VoteService, report service.ReportService, health Pinger) *Handler {
	return &Handler{catalog, thread, post, vote, report, health}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("response encoding failed", "error", err)
	}
}

// idParam reads a chi URL parameter as an int64 id.
func idParam(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid " + name + ": must be an integer")
	}
	return value, nil
}

// pageParam reads the page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			return page
		}
	}
	return 1
}

func slugParam(r *http.Request) string {
	return r.URL.Query().Get("slug")
}
