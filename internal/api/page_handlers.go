package api

import (
	"encoding/json"
	"net/http"

	"mediabrowse/discovery/internal/domain"

	"github.com/go-chi/chi/v5"
)

type pageSummary struct {
	Kind  domain.MediaKind `json:"kind"`
	Title string           `json:"title"`
}

type visibilityRequest struct {
	Ratio float64 `json:"ratio"`
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	summaries := make([]pageSummary, 0)
	for _, kind := range s.pages.Kinds() {
		summaries = append(summaries, pageSummary{Kind: kind, Title: kind.GetPageTitle()})
	}
	RespondWithJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rails": s.pages.Home(),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromRequest(w, r)
	if !ok {
		return
	}

	if err := page.Mount(r.Context()); err != nil {
		respondWithLoadError(w, page, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromRequest(w, r)
	if !ok {
		return
	}

	if err := page.Select(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		respondWithLoadError(w, page, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromRequest(w, r)
	if !ok {
		return
	}

	if err := page.LoadMore(r.Context()); err != nil {
		respondWithLoadError(w, page, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromRequest(w, r)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Ratio < 0 || req.Ratio > 1 {
		RespondWithError(w, http.StatusBadRequest, "ratio must be between 0 and 1")
		return
	}

	if !page.Mounted() {
		RespondWithError(w, http.StatusConflict, "Page is not mounted")
		return
	}

	// A full queue means an observation is already pending.
	accepted := page.ReportVisibility(req.Ratio)
	RespondWithJSON(w, http.StatusAccepted, map[string]bool{"accepted": accepted})
}
