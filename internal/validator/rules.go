package validator

import (
	"fmt"
	"strings"

	"salesiq/internal/domain"
	"salesiq/internal/etl/fiscal"
)

// NewDefaultRegistry returns a registry with the built-in rules.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(invoiceRequired{})
	r.Register(amountPresent{})
	r.Register(stateResolved{})
	r.Register(fiscalYearKnown{})
	return r
}

// invoiceRequired flags rows without a dedup key. Such rows insert on every
// run of the same file.
type invoiceRequired struct{}

func (invoiceRequired) RuleKey() string    { return "invoice_required" }
func (invoiceRequired) Severity() Severity { return SeverityError }
func (invoiceRequired) Check(row *domain.Transaction) (bool, string) {
	if strings.TrimSpace(row.InvoiceNo) == "" {
		return false, "row has no invoice number"
	}
	return true, ""
}

// amountPresent flags zero-value sales. Legitimate free-of-charge invoices
// exist, so this is a warning, not an error.
type amountPresent struct{}

func (amountPresent) RuleKey() string    { return "amount_present" }
func (amountPresent) Severity() Severity { return SeverityWarning }
func (amountPresent) Check(row *domain.Transaction) (bool, string) {
	if row.Amount == 0 {
		return false, fmt.Sprintf("invoice %s has zero amount", row.InvoiceNo)
	}
	return true, ""
}

// stateResolved flags rows whose state survived enrichment only as a
// sentinel. Tax for these rows was apportioned on the intra-state fallback.
type stateResolved struct{}

func (stateResolved) RuleKey() string    { return "state_resolved" }
func (stateResolved) Severity() Severity { return SeverityWarning }
func (stateResolved) Check(row *domain.Transaction) (bool, string) {
	state := strings.TrimSpace(row.State)
	if state == "" || strings.Contains(strings.ToUpper(state), "NOT FOUND") {
		return false, fmt.Sprintf("invoice %s has unresolved state (city %q)", row.InvoiceNo, row.City)
	}
	return true, ""
}

// fiscalYearKnown flags rows whose date never parsed; they fall outside every
// fiscal-year bucket on the dashboard.
type fiscalYearKnown struct{}

func (fiscalYearKnown) RuleKey() string    { return "fiscal_year_known" }
func (fiscalYearKnown) Severity() Severity { return SeverityWarning }
func (fiscalYearKnown) Check(row *domain.Transaction) (bool, string) {
	if row.FinancialYear == fiscal.UnknownFY {
		return false, fmt.Sprintf("invoice %s has unparseable date", row.InvoiceNo)
	}
	return true, ""
}
