package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/qagen/internal/parser"
)

// Service runs generation jobs from a bounded queue. It backs the HTTP API:
// uploads become jobs, workers drain the queue, artifacts land under the
// job's directory.
type Service struct {
	jobs    *JobStore
	queue   chan *Job
	gen     *Generator
	log     *slog.Logger
	workers int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService wires a job queue in front of a generator.
func NewService(gen *Generator, log *slog.Logger, workers, queueSize int, jobTTL time.Duration) *Service {
	return &Service{
		jobs:    NewJobStore(jobTTL),
		queue:   make(chan *Job, queueSize),
		gen:     gen,
		log:     log,
		workers: workers,
	}
}

// Start launches worker goroutines.
func (s *Service) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-s.queue:
					if !ok {
						return
					}
					s.process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	close(s.queue)
	s.wg.Wait()
}

// Submit queues a new job for processing.
func (s *Service) Submit(job *Job) error {
	s.jobs.Put(job)
	select {
	case s.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", cap(s.queue))
	}
}

// GetJob returns a job by ID.
func (s *Service) GetJob(id string) *Job {
	return s.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (s *Service) QueueDepth() int {
	return len(s.queue)
}

// process runs the full generation pipeline for one job.
func (s *Service) process(ctx context.Context, job *Job) {
	log := s.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusParsing, "parsing")

	// The parser picks its strategy from the file extension, so the upload
	// goes to a scratch file keeping the original name.
	tmpDir, err := os.MkdirTemp("", "qagen-job-*")
	if err != nil {
		log.Error("create scratch dir failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	defer os.RemoveAll(tmpDir)

	docPath := filepath.Join(tmpDir, filepath.Base(job.Filename))
	if err := os.WriteFile(docPath, job.FileData(), 0o600); err != nil {
		log.Error("write scratch file failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.ReleaseFileData()

	pages, err := parser.ExtractPages(docPath)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetTotalPages(len(pages))
	log.Info("parsed document", "pages", len(pages))

	job.SetStatus(StatusGenerating, "generating")

	// Per-job generator copy so the progress hook can target this job.
	gen := *s.gen
	gen.OnPage = func(page, total int) {
		job.IncrPagesDone()
	}

	name := DocName(job.Filename)
	prefix := filepath.Join(job.ArtifactDir, name)
	res, err := gen.GeneratePages(ctx, pages, prefix)
	job.RecordResult(res)
	if err != nil {
		log.Error("generation aborted", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "generating")
		return
	}

	log.Info("generation complete",
		"records", res.Records,
		"failed_pages", res.FailedPages,
		"merged_path", res.MergedPath)

	switch {
	case res.Records == 0:
		job.AddError("no records generated")
		job.SetStatus(StatusFailed, "generating")
	case res.FailedPages > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
