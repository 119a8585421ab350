// Package server exposes the research orchestrator and knowledge store over
// HTTP: job-style research runs, document ingestion and retrieval, grounded
// question answering, streaming chat and an MCP tool endpoint.
package server

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

// Runner runs one research question to completion.
type Runner interface {
	Run(ctx context.Context, question string) (string, research.State)
}

// Job tracks one research run from submission to completion.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Topic     string          `json:"topic"`
	Status    string          `json:"status"`
	Report    *string         `json:"report,omitempty"`
	State     *research.State `json:"state,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	statusPending   = "pending"
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

type CreateJobRequest struct {
	Topic string `json:"topic"`
}

// Service keeps jobs in memory; restarting the server loses history but not
// the knowledge store, which persists on its own.
type Service struct {
	runner Runner

	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	logs map[uuid.UUID]*MemoryLogHandler
}

func NewService(runner Runner) *Service {
	return &Service{
		runner: runner,
		jobs:   make(map[uuid.UUID]*Job),
		logs:   make(map[uuid.UUID]*MemoryLogHandler),
	}
}

func (s *Service) CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	now := time.Now()
	job := &Job{
		ID:        uuid.New(),
		Topic:     req.Topic,
		Status:    statusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	handler := NewMemoryLogHandler()

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.logs[job.ID] = handler
	s.mu.Unlock()

	go s.runWorker(job.ID, req.Topic, handler)

	snapshot := *job
	return &snapshot, nil
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

func (s *Service) ListJobs(ctx context.Context) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs
}

func (s *Service) GetJobLogs(ctx context.Context, id uuid.UUID) ([]LogEntry, bool) {
	s.mu.RLock()
	handler, ok := s.logs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return handler.Entries(), true
}

func (s *Service) runWorker(jobID uuid.UUID, topic string, handler *MemoryLogHandler) {
	ctx := context.Background()
	logger := slog.New(handler)

	s.updateJob(jobID, func(job *Job) {
		job.Status = statusRunning
	})

	logger.Info("research run started", "topic", topic)
	answer, state := s.runner.Run(ctx, topic)

	s.updateJob(jobID, func(job *Job) {
		job.State = &state
		job.Report = &answer
		if state.Err != "" {
			job.Status = statusFailed
			logger.Error("research run failed", "error", state.Err)
			return
		}
		job.Status = statusCompleted
		logger.Info("research run completed", "evidence_entries", len(state.Evidence))
	})
}

func (s *Service) updateJob(id uuid.UUID, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}
