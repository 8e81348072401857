// Package generator drives a submission through ingest and the batch
// orchestrator while publishing the job's progress.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sunthewhat/easy-cert-batch/internal/batch"
	"github.com/sunthewhat/easy-cert-batch/internal/ingest"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
	"github.com/sunthewhat/easy-cert-batch/internal/renderer"
)

var ErrInvalidMode = errors.New("invalid mode")

// ArchiveSink mirrors finished archives to external storage.
type ArchiveSink interface {
	Put(ctx context.Context, jobID string, archive []byte) (string, error)
}

// Submission is one uploaded file plus its mode.
type Submission struct {
	JobID    string
	Mode     string
	Filename string
	Data     []byte
}

type Service struct {
	orchestrator *batch.Orchestrator
	renderers    map[layout.Group]renderer.Renderer
	registry     *jobs.Registry
	sink         ArchiveSink
}

// NewService wires the pipeline. sink may be nil.
func NewService(orchestrator *batch.Orchestrator, renderers map[layout.Group]renderer.Renderer, registry *jobs.Registry, sink ArchiveSink) *Service {
	return &Service{
		orchestrator: orchestrator,
		renderers:    renderers,
		registry:     registry,
		sink:         sink,
	}
}

func (s *Service) Registry() *jobs.Registry {
	return s.registry
}

// Generate runs a submission to completion and returns the archive.
func (s *Service) Generate(ctx context.Context, sub Submission) (string, []byte, error) {
	job, err := s.claim(&sub)
	if err != nil {
		return sub.JobID, nil, err
	}

	if err := s.run(ctx, job, sub); err != nil {
		job.Fail(err)
		return job.ID, nil, err
	}

	archive, err := job.Take()
	return job.ID, archive, err
}

// Launch claims the job and runs it in the background, returning its id
// straight away.
func (s *Service) Launch(ctx context.Context, sub Submission) (string, error) {
	job, err := s.claim(&sub)
	if err != nil {
		return sub.JobID, err
	}

	job.Go(context.WithoutCancel(ctx), func(ctx context.Context, job *jobs.Job) error {
		return s.run(ctx, job, sub)
	})
	return job.ID, nil
}

func (s *Service) claim(sub *Submission) (*jobs.Job, error) {
	if sub.JobID == "" {
		sub.JobID = uuid.NewString()
	}
	if _, err := layout.ParseGroup(sub.Mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	return s.registry.Claim(sub.JobID)
}

func (s *Service) run(ctx context.Context, job *jobs.Job, sub Submission) error {
	logCtx := slog.With("job_id", job.ID, "mode", sub.Mode, "file", sub.Filename)

	group, err := layout.ParseGroup(sub.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	r, ok := s.renderers[group]
	if !ok {
		return fmt.Errorf("%w: no renderer configured for %s", ErrInvalidMode, group)
	}

	job.Uploading()
	table, err := ingest.Ingest(sub.Data, sub.Filename)
	if err != nil {
		logCtx.Warn("Upload rejected", "error", err)
		return err
	}

	logCtx.Info("Batch started", "rows", len(table.Rows), "columns", table.Columns)
	job.Processing(len(table.Rows))

	result, err := s.orchestrator.Run(ctx, table, group, r, job)
	if err != nil {
		logCtx.Warn("Batch failed", "error", err)
		return err
	}

	job.Finish(result.Archive)
	s.mirror(ctx, logCtx, job.ID, result.Archive)
	return nil
}

func (s *Service) mirror(ctx context.Context, logCtx *slog.Logger, jobID string, archive []byte) {
	if s.sink == nil {
		return
	}
	if _, err := s.sink.Put(ctx, jobID, archive); err != nil {
		logCtx.Error("Failed to mirror archive", "error", err)
	}
}
