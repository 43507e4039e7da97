package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediabrowse/discovery/internal/browse"
	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Server exposes the category pages over HTTP.
type Server struct {
	pages *browse.Pages
}

func NewServer(pages *browse.Pages) *Server {
	return &Server{pages: pages}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleGetHome)
		r.Get("/pages", s.handleListPages)

		r.Route("/pages/{kind}", func(r chi.Router) {
			r.Get("/", s.handleGetPage)
			r.Post("/categories/{categoryID}", s.handleSelectCategory)
			r.Post("/more", s.handleLoadMore)
			r.Post("/visibility", s.handleVisibility)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).Round(time.Millisecond),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

// ListenAndServe runs the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("🛑 Shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) pageFromRequest(w http.ResponseWriter, r *http.Request) (*browse.Page, bool) {
	kind, ok := domain.ParseMediaKind(chi.URLParam(r, "kind"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Unknown page")
		return nil, false
	}
	page, ok := s.pages.Get(kind)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Unknown page")
		return nil, false
	}
	return page, true
}

// respondWithLoadError reports a failed remote load. The page stays usable;
// the view returned alongside reflects the unchanged state.
func respondWithLoadError(w http.ResponseWriter, page *browse.Page, err error) {
	if errors.Is(err, discovery.ErrUnknownCategory) {
		RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
		"error": err.Error(),
		"page":  page.View(),
	})
}
