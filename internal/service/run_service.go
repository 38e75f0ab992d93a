package service

import (
	"context"
	"sync"

	"salesiq/internal/domain"
	"salesiq/internal/etl"
)

// RunService triggers pipeline runs, serializing them per tenant. The store's
// advisory lock protects against other processes; this mutex protects against
// concurrent triggers inside this one (an upload landing while a watcher run
// is in flight).
type RunService interface {
	Run(ctx context.Context, tenantID string) (*domain.RunSummary, error)
}

type runService struct {
	pipeline *etl.Pipeline

	mu      sync.Mutex
	tenants map[string]*sync.Mutex
}

// NewRunService creates a RunService around the given pipeline.
func NewRunService(pipeline *etl.Pipeline) RunService {
	return &runService{
		pipeline: pipeline,
		tenants:  make(map[string]*sync.Mutex),
	}
}

func (s *runService) Run(ctx context.Context, tenantID string) (*domain.RunSummary, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()
	return s.pipeline.Run(ctx, tenantID)
}

func (s *runService) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.tenants[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenants[tenantID] = lock
	}
	return lock
}
