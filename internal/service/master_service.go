package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/engine"
	"github.com/masterdesk/api/internal/model"
	"github.com/masterdesk/api/internal/store"
)

// ErrJobNotFound is returned when a polled job id was never created.
var ErrJobNotFound = errors.New("job not found")

const resultURLTTL = 24 * time.Hour

// MasterService owns the mastering job lifecycle: it creates jobs,
// launches one background execution per job, and is the only writer of
// job state after creation.
type MasterService struct {
	store     *store.JobStore
	engine    *engine.Engine
	storage   client.StorageClient // nil when object storage is not configured
	outputDir string
	timeout   time.Duration
}

// NewMasterService wires the supervisor. timeout bounds one engine run;
// without it a hung engine would hold its job in processing forever.
func NewMasterService(jobStore *store.JobStore, eng *engine.Engine, storage client.StorageClient, outputDir string, timeout time.Duration) *MasterService {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &MasterService{
		store:     jobStore,
		engine:    eng,
		storage:   storage,
		outputDir: outputDir,
		timeout:   timeout,
	}
}

// Submit creates a queued job and dispatches its execution without
// waiting for it. The caller gets the id back immediately and polls.
func (s *MasterService) Submit(ctx context.Context, req *model.MasterJobRequest) (*model.MasterJobResponse, error) {
	job := s.store.Create(req.SourceReference, req.Parameters)

	go s.process(job.ID)

	log.Printf("Master job %s queued for %s", job.ID, req.SourceReference)
	return &model.MasterJobResponse{
		JobID:  job.ID,
		Status: job.Status,
	}, nil
}

// GetStatus returns the current job snapshot with derived progress.
func (s *MasterService) GetStatus(jobID string) (*model.JobStatusResponse, error) {
	job, ok := s.store.Get(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}

	return &model.JobStatusResponse{
		JobID:           job.ID,
		Status:          job.Status,
		Progress:        job.Progress(),
		SourceReference: job.SourceReference,
		FinalMetrics:    job.FinalMetrics,
		Output:          job.Output,
		Error:           job.Error,
		Diagnostics:     job.Diagnostics,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}, nil
}

// process runs one job to a terminal state. It is the job's sole owner:
// no other goroutine touches the job's fields while it runs. The
// submitting request has already returned, so failures land in the job
// record rather than propagating anywhere.
func (s *MasterService) process(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.store.MarkProcessing(jobID) {
		return
	}

	job, ok := s.store.Get(jobID)
	if !ok {
		return
	}

	input, cleanup, err := resolveSource(ctx, s.storage, job.SourceReference)
	if err != nil {
		s.failJob(jobID, fmt.Sprintf("Source not available: %v", err), "")
		return
	}
	defer cleanup()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.failJob(jobID, fmt.Sprintf("Output directory not writable: %v", err), "")
		return
	}
	outputPath := filepath.Join(s.outputDir, jobID+".wav")

	result, err := s.engine.Master(ctx, input, outputPath, job.Parameters)
	if err != nil {
		var engErr *engine.EngineError
		var spawnErr *engine.SpawnError
		switch {
		case errors.As(err, &engErr):
			s.failJob(jobID, fmt.Sprintf("Mastering engine exited with code %d", engErr.ExitCode), engErr.Stderr)
		case errors.As(err, &spawnErr):
			s.failJob(jobID, fmt.Sprintf("Mastering engine could not be started: %v", spawnErr.Err), "")
		default:
			s.failJob(jobID, fmt.Sprintf("Mastering failed: %v", err), "")
		}
		return
	}

	artifact, err := s.publish(ctx, jobID, outputPath)
	if err != nil {
		s.failJob(jobID, fmt.Sprintf("Output handoff failed: %v", err), "")
		return
	}

	s.store.Complete(jobID, result.Metrics, artifact)
	log.Printf("Master job %s completed", jobID)
}

// publish hands the rendered file off to storage: an uploaded object
// plus a time-limited signed URL when R2 is configured, a static path
// under the local output dir otherwise.
func (s *MasterService) publish(ctx context.Context, jobID, outputPath string) (model.OutputArtifact, error) {
	if s.storage == nil {
		return model.OutputArtifact{URL: "/files/" + filepath.Base(outputPath)}, nil
	}

	f, err := os.Open(outputPath)
	if err != nil {
		return model.OutputArtifact{}, fmt.Errorf("open rendered output: %w", err)
	}
	defer f.Close()

	key := fmt.Sprintf("masters/%s.wav", jobID)
	if _, err := s.storage.Upload(ctx, key, f, "audio/wav"); err != nil {
		return model.OutputArtifact{}, err
	}

	signedURL, err := s.storage.GetSignedURL(ctx, key, resultURLTTL)
	if err != nil {
		return model.OutputArtifact{}, err
	}

	expiresAt := time.Now().Add(resultURLTTL)
	return model.OutputArtifact{
		URL:       signedURL,
		Key:       key,
		ExpiresAt: &expiresAt,
	}, nil
}

func (s *MasterService) failJob(jobID, message, diagnostics string) {
	s.store.Fail(jobID, message, diagnostics)
	log.Printf("Master job %s failed: %s", jobID, message)
}
