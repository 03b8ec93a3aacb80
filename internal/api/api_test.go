package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/qagen/internal/config"
	"github.com/dgallion1/qagen/internal/pipeline"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) (*Server, *pipeline.Service) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := pipeline.NewService(&pipeline.Generator{Log: log}, log, 1, 10, time.Hour)

	cfg := config.Defaults()
	cfg.ServeAPIKey = testAPIKey
	cfg.OutputDir = t.TempDir()

	return NewServer(svc, nil, log, cfg), svc
}

func authGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_RejectsMissingAndWrongKey(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}
}

func TestGenerate_QueuesJob(t *testing.T) {
	s, svc := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("page one\n\npage two\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate", &body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}
	if svc.GetJob(resp.JobID) == nil {
		t.Error("expected job to be registered with the service")
	}
	if svc.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", svc.QueueDepth())
	}
}

func TestGenerate_RejectsUnsupportedExtension(t *testing.T) {
	s, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "sheet.xlsx")
	fw.Write([]byte("data"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate", &body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateStatus_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := authGet(t, s, "/api/generate/unknown/status")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestArtifacts_ListAndDownload(t *testing.T) {
	s, svc := newTestServer(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc_all.csv"), []byte("question,answer\nq,a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	job := pipeline.NewJob("doc.txt", nil)
	job.ArtifactDir = dir
	if err := svc.Submit(job); err != nil {
		t.Fatal(err)
	}

	rec := authGet(t, s, "/api/generate/"+job.ID+"/artifacts")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Artifacts []struct {
			Name string `json:"name"`
		} `json:"artifacts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Artifacts) != 1 || resp.Artifacts[0].Name != "doc_all.csv" {
		t.Fatalf("unexpected artifact list: %+v", resp.Artifacts)
	}

	rec = authGet(t, s, "/api/generate/"+job.ID+"/artifacts/doc_all.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("question,answer")) {
		t.Errorf("unexpected artifact body: %q", rec.Body.String())
	}

	rec = authGet(t, s, "/api/generate/"+job.ID+"/artifacts/missing.csv")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing artifact, got %d", rec.Code)
	}
}

func TestStats_UnavailableWithoutClient(t *testing.T) {
	s, _ := newTestServer(t)
	rec := authGet(t, s, "/api/stats/llm")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
