// Package validator runs data-quality rules over converted transaction rows.
// Rules never block a load; they surface issues the spreadsheets carried in
// so an operator can chase them upstream.
package validator

import (
	"salesiq/internal/domain"
)

// Severity grades an issue. Errors mark rows that will behave badly
// downstream (no dedup key, zero-value sales); warnings mark rows the
// pipeline already papered over (sentinel states, unknown fiscal years).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one failed rule on one row.
type Issue struct {
	Row      int      `json:"row"`
	RuleKey  string   `json:"rule_key"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Rule is a single data-quality check applied to each row.
type Rule interface {
	Check(row *domain.Transaction) (ok bool, message string)
	RuleKey() string
	Severity() Severity
}
