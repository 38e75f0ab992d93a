// Package monitor persists per-tenant pipeline status records for polling by
// presentation layers.
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"salesiq/internal/domain"
	"salesiq/internal/port"
)

// FileSink writes one JSON status file per tenant under a root directory.
// Writes go through a temp file and rename so pollers never read a torn
// record.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) port.StatusSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) path(tenantID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("pipeline_status_%s.json", tenantID))
}

// Update writes the tenant's status record. Failures are logged, never
// propagated: status reporting must not fail a pipeline run.
func (s *FileSink) Update(tenantID string, status domain.PipelineStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status.Timestamp = time.Now().UTC()
	data, err := json.Marshal(status)
	if err != nil {
		log.Printf("monitor: marshal status for %s: %v", tenantID, err)
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("monitor: %v", err)
		return
	}
	tmp := s.path(tenantID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("monitor: write status for %s: %v", tenantID, err)
		return
	}
	if err := os.Rename(tmp, s.path(tenantID)); err != nil {
		log.Printf("monitor: publish status for %s: %v", tenantID, err)
	}
}

// Get reads the tenant's current status, returning an Idle record when no run
// has ever been reported.
func (s *FileSink) Get(tenantID string) domain.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(tenantID))
	if err != nil {
		return domain.PipelineStatus{
			Step:    domain.StepStart,
			Status:  domain.RunIdle,
			Details: "Waiting for trigger",
		}
	}
	var status domain.PipelineStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return domain.PipelineStatus{
			Step:    domain.StepError,
			Status:  domain.RunIdle,
			Details: "Could not read status",
		}
	}
	return status
}
