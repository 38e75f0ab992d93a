package port

import (
	"context"

	"salesiq/internal/domain"
)

// TransactionStore is the persistence contract the pipeline core requires.
// Every query is scoped by tenant; rows for one tenant are invisible to any
// other tenant's queries and dedup logic.
type TransactionStore interface {
	// EnsureSchema creates the transaction table and its unique index if the
	// store has never been written to.
	EnsureSchema(ctx context.Context) error

	// DistinctInvoiceNos returns the set of invoice identifiers already
	// persisted for a tenant.
	DistinctInvoiceNos(ctx context.Context, tenantID string) (map[string]struct{}, error)

	// Append inserts rows for a tenant and returns how many were actually
	// added. Rows colliding with an existing (tenant, invoice) pair are
	// silently dropped.
	Append(ctx context.Context, tenantID string, rows []domain.Transaction) (int64, error)

	// FetchByTenant returns every persisted row for a tenant, newest first.
	FetchByTenant(ctx context.Context, tenantID string) ([]domain.Transaction, error)

	// DeleteByTenant removes all rows for a tenant, leaving other tenants
	// untouched.
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)

	// WithTenantLock runs fn while holding a store-level exclusive lock for
	// the tenant, serializing the read-then-append window across processes.
	WithTenantLock(ctx context.Context, tenantID string, fn func(context.Context) error) error
}
