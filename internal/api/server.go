// Package api exposes dataset generation over HTTP: uploads become queued
// jobs, artifacts are listed and downloaded per job.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/qagen/internal/config"
	"github.com/dgallion1/qagen/internal/llm"
	"github.com/dgallion1/qagen/internal/pipeline"
)

// Server is the HTTP API server for qagen.
type Server struct {
	router  chi.Router
	service *pipeline.Service
	gemini  *llm.Client
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *pipeline.Service, gemini *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		service: svc,
		gemini:  gemini,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ServeAPIKey, s.log))

		r.Post("/api/generate", s.handleGenerate)
		r.Get("/api/generate/{jobID}/status", s.handleGenerateStatus)
		r.Get("/api/generate/{jobID}/artifacts", s.handleListArtifacts)
		r.Get("/api/generate/{jobID}/artifacts/{name}", s.handleDownloadArtifact)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
