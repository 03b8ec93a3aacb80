package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.service.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	entries, err := os.ReadDir(job.ArtifactDir)
	if err != nil {
		if os.IsNotExist(err) {
			// The job has not written anything yet.
			entries = nil
		} else {
			jsonError(w, "failed to list artifacts", http.StatusInternalServerError)
			return
		}
	}

	type artifact struct {
		Name  string `json:"name"`
		Bytes int64  `json:"bytes"`
	}
	artifacts := []artifact{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{Name: e.Name(), Bytes: info.Size()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    jobID,
		"artifacts": artifacts,
	})
}

func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.service.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		jsonError(w, "invalid artifact name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(job.ArtifactDir, name)
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}
