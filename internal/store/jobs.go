package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masterdesk/api/internal/model"
)

// JobStore holds every mastering job for the process lifetime. The map
// is guarded for concurrent insert/lookup; each job's fields are only
// ever advanced by its one owning execution goroutine, and reads hand
// out copies so pollers never share mutable state with that goroutine.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.MasteringJob
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*model.MasteringJob),
	}
}

// Create registers a new job in the queued state and returns a snapshot.
func (s *JobStore) Create(sourceRef string, params model.MasteringParameters) model.MasteringJob {
	now := time.Now()
	job := &model.MasteringJob{
		ID:              uuid.New().String(),
		Status:          model.JobStatusQueued,
		SourceReference: sourceRef,
		Parameters:      params,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return *job
}

// Get returns a copy of the job, or false if the id is unknown.
func (s *JobStore) Get(id string) (model.MasteringJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.MasteringJob{}, false
	}
	return *job, true
}

// MarkProcessing moves a queued job to processing. Transitions out of a
// terminal state are refused so observed status stays monotonic.
func (s *JobStore) MarkProcessing(id string) bool {
	return s.transition(id, func(job *model.MasteringJob) bool {
		if job.Status != model.JobStatusQueued {
			return false
		}
		job.Status = model.JobStatusProcessing
		return true
	})
}

// Complete moves a processing job to completed with its artifact and
// optional measured metrics. Metrics may be nil; the artifact may not.
func (s *JobStore) Complete(id string, metrics *model.AudioMetrics, output model.OutputArtifact) bool {
	return s.transition(id, func(job *model.MasteringJob) bool {
		if job.Status.IsTerminal() {
			return false
		}
		job.Status = model.JobStatusCompleted
		job.FinalMetrics = metrics
		job.Output = &output
		return true
	})
}

// Fail moves a job to error with a human-readable summary and the
// bounded diagnostic tail.
func (s *JobStore) Fail(id string, message, diagnostics string) bool {
	return s.transition(id, func(job *model.MasteringJob) bool {
		if job.Status.IsTerminal() {
			return false
		}
		job.Status = model.JobStatusError
		job.Error = &message
		job.Diagnostics = diagnostics
		return true
	})
}

func (s *JobStore) transition(id string, apply func(*model.MasteringJob) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	if !apply(job) {
		return false
	}
	job.UpdatedAt = time.Now()
	return true
}
