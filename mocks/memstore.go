package mocks

import (
	"context"
	"sort"
	"sync"

	"salesiq/internal/domain"
)

// MemStore is an in-memory TransactionStore for pipeline and loader tests.
// It enforces the same (tenant, invoice) uniqueness the Postgres store does.
type MemStore struct {
	mu   sync.Mutex
	rows map[string][]domain.Transaction

	// AppendErr, when set, makes Append fail. Lets tests exercise the
	// store-unavailable path.
	AppendErr error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[string][]domain.Transaction)}
}

func (s *MemStore) EnsureSchema(ctx context.Context) error { return nil }

func (s *MemStore) DistinctInvoiceNos(ctx context.Context, tenantID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for _, t := range s.rows[tenantID] {
		out[t.InvoiceNo] = struct{}{}
	}
	return out, nil
}

func (s *MemStore) Append(ctx context.Context, tenantID string, rows []domain.Transaction) (int64, error) {
	if s.AppendErr != nil {
		return 0, s.AppendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make(map[string]struct{})
	for _, t := range s.rows[tenantID] {
		existing[t.InvoiceNo] = struct{}{}
	}
	var added int64
	for _, t := range rows {
		// Blank identifiers conflict too, same as the unique index.
		if _, ok := existing[t.InvoiceNo]; ok {
			continue
		}
		existing[t.InvoiceNo] = struct{}{}
		t.TenantID = tenantID
		s.rows[tenantID] = append(s.rows[tenantID], t)
		added++
	}
	return added, nil
}

func (s *MemStore) FetchByTenant(ctx context.Context, tenantID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Transaction(nil), s.rows[tenantID]...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TxnDate, out[j].TxnDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

func (s *MemStore) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.rows[tenantID]))
	delete(s.rows, tenantID)
	return n, nil
}

func (s *MemStore) WithTenantLock(ctx context.Context, tenantID string, fn func(context.Context) error) error {
	return fn(ctx)
}

// Count returns how many rows a tenant holds.
func (s *MemStore) Count(tenantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[tenantID])
}

// RecordingSink captures every status update for assertions.
type RecordingSink struct {
	mu      sync.Mutex
	history map[string][]domain.PipelineStatus
}

// NewRecordingSink creates an empty RecordingSink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{history: make(map[string][]domain.PipelineStatus)}
}

func (s *RecordingSink) Update(tenantID string, status domain.PipelineStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[tenantID] = append(s.history[tenantID], status)
}

func (s *RecordingSink) Get(tenantID string) domain.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history[tenantID]
	if len(h) == 0 {
		return domain.PipelineStatus{Status: domain.RunIdle}
	}
	return h[len(h)-1]
}

// History returns every update recorded for a tenant, oldest first.
func (s *RecordingSink) History(tenantID string) []domain.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PipelineStatus(nil), s.history[tenantID]...)
}

// RecordingArchiver remembers which files were archived without moving them.
type RecordingArchiver struct {
	mu    sync.Mutex
	Paths []string

	// Err, when set, makes Archive fail.
	Err error
}

func (a *RecordingArchiver) Archive(ctx context.Context, tenantID, path string) error {
	if a.Err != nil {
		return a.Err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Paths = append(a.Paths, path)
	return nil
}
