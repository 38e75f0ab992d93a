package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"salesiq/internal/domain"
	"salesiq/internal/port"
)

// appendChunk caps the rows per multi-row INSERT to stay well under the
// Postgres parameter limit.
const appendChunk = 500

type transactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionStore.
func NewTransactionRepo(db *sqlx.DB) port.TransactionStore {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) EnsureSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS sales_transactions (
	tenant_id      TEXT NOT NULL,
	invoice_no     TEXT NOT NULL,
	txn_date       TIMESTAMPTZ,
	customer_name  TEXT NOT NULL DEFAULT '',
	item_name      TEXT NOT NULL DEFAULT '',
	material_group TEXT NOT NULL DEFAULT '',
	qty            DOUBLE PRECISION NOT NULL DEFAULT 0,
	rate           DOUBLE PRECISION NOT NULL DEFAULT 0,
	amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
	city           TEXT NOT NULL DEFAULT '',
	state          TEXT NOT NULL DEFAULT '',
	financial_year TEXT NOT NULL DEFAULT '',
	month          TEXT NOT NULL DEFAULT '',
	igst           DOUBLE PRECISION NOT NULL DEFAULT 0,
	cgst           DOUBLE PRECISION NOT NULL DEFAULT 0,
	sgst           DOUBLE PRECISION NOT NULL DEFAULT 0,
	tax            DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_amount   DOUBLE PRECISION NOT NULL DEFAULT 0,
	extra          JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS sales_transactions_tenant_invoice_idx
	ON sales_transactions (tenant_id, invoice_no);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("transactionRepo.EnsureSchema: %w", err)
	}
	return nil
}

func (r *transactionRepo) DistinctInvoiceNos(ctx context.Context, tenantID string) (map[string]struct{}, error) {
	var nos []string
	err := r.db.SelectContext(ctx, &nos,
		"SELECT DISTINCT invoice_no FROM sales_transactions WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.DistinctInvoiceNos: %w", err)
	}
	set := make(map[string]struct{}, len(nos))
	for _, n := range nos {
		set[n] = struct{}{}
	}
	return set, nil
}

func (r *transactionRepo) Append(ctx context.Context, tenantID string, rows []domain.Transaction) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	var added int64
	for start := 0; start < len(rows); start += appendChunk {
		end := start + appendChunk
		if end > len(rows) {
			end = len(rows)
		}
		chunk := make([]domain.Transaction, end-start)
		copy(chunk, rows[start:end])
		for i := range chunk {
			chunk[i].TenantID = tenantID
			chunk[i].CreatedAt = now
		}

		// Conflict-ignore keeps the append idempotent even if two runs for
		// the same tenant slip past the advisory lock.
		query := `INSERT INTO sales_transactions (
			tenant_id, invoice_no, txn_date, customer_name, item_name,
			material_group, qty, rate, amount, city, state, financial_year,
			month, igst, cgst, sgst, tax, total_amount, extra, created_at
		) VALUES (
			:tenant_id, :invoice_no, :txn_date, :customer_name, :item_name,
			:material_group, :qty, :rate, :amount, :city, :state, :financial_year,
			:month, :igst, :cgst, :sgst, :tax, :total_amount, :extra, :created_at
		) ON CONFLICT (tenant_id, invoice_no) DO NOTHING`

		result, err := r.db.NamedExecContext(ctx, query, chunk)
		if err != nil {
			return added, fmt.Errorf("transactionRepo.Append: %w", err)
		}
		n, _ := result.RowsAffected()
		added += n
	}
	return added, nil
}

func (r *transactionRepo) FetchByTenant(ctx context.Context, tenantID string) ([]domain.Transaction, error) {
	var rows []domain.Transaction
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM sales_transactions
		 WHERE tenant_id = $1
		 ORDER BY txn_date DESC NULLS LAST, invoice_no`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.FetchByTenant: %w", err)
	}
	return rows, nil
}

func (r *transactionRepo) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sales_transactions WHERE tenant_id = $1", tenantID)
	if err != nil {
		return 0, fmt.Errorf("transactionRepo.DeleteByTenant: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// WithTenantLock serializes the loader's read-then-append window across
// processes with a per-tenant Postgres advisory lock. The lock is held on a
// dedicated connection; fn's own statements may use any pooled connection
// since mutual exclusion only depends on the lock key.
func (r *transactionRepo) WithTenantLock(ctx context.Context, tenantID string, fn func(context.Context) error) error {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("transactionRepo.WithTenantLock: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx,
		"SELECT pg_advisory_lock(hashtextextended('sales_transactions:' || $1, 0))", tenantID); err != nil {
		return fmt.Errorf("transactionRepo.WithTenantLock acquire: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx),
			"SELECT pg_advisory_unlock(hashtextextended('sales_transactions:' || $1, 0))", tenantID)
	}()

	return fn(ctx)
}
