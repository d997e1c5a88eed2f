package analysis

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryJobStore keeps job records in process memory. It is the default for
// single-process deployments where DynamoDB is not configured.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*JobRecord
}

var _ JobRecorder = (*MemoryJobStore)(nil)
var _ JobUpdater = (*MemoryJobStore)(nil)

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*JobRecord)}
}

func (s *MemoryJobStore) PutPending(_ context.Context, job *JobRecord) error {
	if job == nil {
		return errors.New("analysis: job cannot be nil")
	}
	now := time.Now().UTC()
	job.Status = JobStatusPending
	job.CreatedAt = now.Format(time.RFC3339Nano)
	job.UpdatedAt = job.CreatedAt
	if job.ExpiresAt == 0 {
		job.ExpiresAt = now.Add(jobTTL).Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *job
	s.jobs[job.JobID] = &clone
	return nil
}

func (s *MemoryJobStore) MarkCompleted(_ context.Context, jobID string, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = JobStatusCompleted
	job.Report = report
	job.ErrorMessage = ""
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	return nil
}

func (s *MemoryJobStore) MarkFailed(_ context.Context, jobID string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = JobStatusFailed
	job.Report = nil
	job.ErrorMessage = errMsg
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	return nil
}

func (s *MemoryJobStore) GetJob(_ context.Context, jobID string) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	clone := *job
	return &clone, nil
}
