// Package loader appends enriched batches to the shared store, deduplicating
// by invoice identifier per tenant.
package loader

import (
	"context"
	"log"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/domain"
	"salesiq/internal/port"
	"salesiq/internal/validator"
)

// Loader performs the incremental load stage.
type Loader struct {
	store   port.TransactionStore
	checker *validator.Engine
}

// New creates a Loader backed by the given store.
func New(store port.TransactionStore) *Loader {
	return &Loader{
		store:   store,
		checker: validator.NewEngine(validator.NewDefaultRegistry()),
	}
}

// Load stamps the tenant onto every row and appends the subset not yet
// persisted for that tenant. Rows whose invoice identifier already exists are
// silently dropped; re-running the pipeline on the same input is a no-op.
//
// Storage failures are logged and reported as zero rows added rather than
// failing the run: the source files remain unarchived, so the next run
// reattempts. The whole read-then-append window runs under a per-tenant store
// lock to keep the dedup invariant under concurrent runs.
func (l *Loader) Load(ctx context.Context, df dataframe.DataFrame, tenantID string) int64 {
	txns, hasInvoice := toTransactions(df)
	if len(txns) == 0 {
		return 0
	}

	// Quality issues are surfaced, never fatal. The spreadsheets are what
	// they are; the fix happens upstream.
	if issues := l.checker.Check(txns); len(issues) > 0 {
		errs, warns := validator.Summarize(issues)
		log.Printf("loader: %d quality errors, %d warnings in batch for tenant %s", errs, warns, tenantID)
		for _, issue := range issues {
			if issue.Severity == validator.SeverityError {
				log.Printf("loader: row %d [%s]: %s", issue.Row, issue.RuleKey, issue.Message)
			}
		}
	}

	var added int64
	err := l.store.WithTenantLock(ctx, tenantID, func(ctx context.Context) error {
		if err := l.store.EnsureSchema(ctx); err != nil {
			return err
		}

		toInsert := txns
		if hasInvoice {
			existing, err := l.store.DistinctInvoiceNos(ctx, tenantID)
			if err != nil {
				return err
			}
			toInsert = filterNew(txns, existing)
		} else {
			// Without an invoice column every row carries a blank
			// identifier and the store's uniqueness collapses them onto a
			// single row per tenant. Log it so the gap is visible.
			log.Printf("loader: batch for tenant %s has no invoice column, appending %d rows under a blank identifier", tenantID, len(txns))
		}
		if len(toInsert) == 0 {
			log.Printf("loader: no new records for tenant %s", tenantID)
			return nil
		}

		n, err := l.store.Append(ctx, tenantID, toInsert)
		if err != nil {
			return err
		}
		added = n
		log.Printf("loader: appended %d new records for tenant %s", added, tenantID)
		return nil
	})
	if err != nil {
		log.Printf("loader: store update failed for tenant %s: %v", tenantID, err)
		return 0
	}
	return added
}

// filterNew drops rows whose invoice identifier is already persisted, plus
// in-batch repeats of the same identifier. A blank identifier is a key like
// any other, so at most one blank-invoice row persists per tenant.
func filterNew(txns []domain.Transaction, existing map[string]struct{}) []domain.Transaction {
	seen := make(map[string]struct{}, len(txns))
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if _, ok := existing[t.InvoiceNo]; ok {
			continue
		}
		if _, ok := seen[t.InvoiceNo]; ok {
			continue
		}
		seen[t.InvoiceNo] = struct{}{}
		out = append(out, t)
	}
	return out
}
