package validator

import (
	"salesiq/internal/domain"
)

// Engine runs every registered rule over a batch of rows.
type Engine struct {
	registry *Registry
}

// NewEngine creates an Engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Check runs all rules against every row and collects the failures. Row
// indexes in the returned issues are zero-based positions in the batch.
func (e *Engine) Check(rows []domain.Transaction) []Issue {
	var issues []Issue
	rules := e.registry.All()
	for i := range rows {
		for _, rule := range rules {
			ok, msg := rule.Check(&rows[i])
			if ok {
				continue
			}
			issues = append(issues, Issue{
				Row:      i,
				RuleKey:  rule.RuleKey(),
				Severity: rule.Severity(),
				Message:  msg,
			})
		}
	}
	return issues
}

// Summarize counts issues by severity.
func Summarize(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		default:
			warnings++
		}
	}
	return errors, warnings
}
