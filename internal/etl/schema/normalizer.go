// Package schema maps the arbitrary column labels of uploaded spreadsheets
// onto the canonical attribute set the rest of the pipeline expects.
package schema

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/etl/frame"
)

// Canonical column names assigned by the fuzzy rename pass.
const (
	ColCity     = "CITY"
	ColState    = "STATE"
	ColCustomer = "CUSTOMER_NAME"
	ColItem     = "ITEMNAME"
	ColInvoice  = "INVOICE_NO"
)

// Rule matches a cleaned column label against a synonym set and renames it to
// Target. Rules are evaluated in slice order; only the first rule that matches
// a label applies, and each target is assigned at most once per batch.
type Rule struct {
	Target string
	// Tokens match as substrings of the cleaned label.
	Tokens []string
	// Exact match the whole cleaned label.
	Exact []string
	// Exclude vetoes the rule when any entry is a substring of the label.
	Exclude []string
}

// DefaultRules returns the rename rules in priority order:
// city, state, customer, item, invoice.
func DefaultRules() []Rule {
	return []Rule{
		{
			Target: ColCity,
			Tokens: []string{"CITY", "TOWN", "DISTRICT", "LOCATION", "STATION", "DESTINATION", "PLACE"},
		},
		{
			Target: ColState,
			Tokens: []string{"STATE", "REGION", "PROVINCE", "TERRITORY", "POS", "SUPPLY"},
		},
		{
			Target: ColCustomer,
			// Labels are matched post-cleanup, so "Bill To" arrives here with
			// the space already an underscore.
			Tokens: []string{"CUSTOMER", "PARTY", "BILL_TO", "BUYER", "DEBTOR"},
		},
		{
			Target:  ColItem,
			Tokens:  []string{"ITEM", "MATERIAL", "PRODUCT", "DESCRIPTION", "PART"},
			Exclude: []string{"GROUP"},
		},
		{
			Target:  ColInvoice,
			Tokens:  []string{"INVOICE", "BILL_NO", "DOC_NO", "VOUCHER"},
			Exact:   []string{"NO"},
			Exclude: []string{"DATE"},
		},
	}
}

func (r Rule) matches(label string) bool {
	for _, e := range r.Exclude {
		if strings.Contains(label, e) {
			return false
		}
	}
	for _, e := range r.Exact {
		if label == e {
			return true
		}
	}
	for _, t := range r.Tokens {
		if strings.Contains(label, t) {
			return true
		}
	}
	return false
}

// Normalizer rewrites batch headers.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer with the given rules, or the defaults when none
// are given.
func New(rules ...Rule) *Normalizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// CleanLabel uppercases and trims a label, drops periods, and replaces spaces
// with underscores so the result is safe as a storage identifier.
func CleanLabel(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	label = strings.ReplaceAll(label, ".", "")
	label = strings.ReplaceAll(label, " ", "_")
	return label
}

// NormalizeHeaders cleans every label, dedupes collisions from cleanup, and
// applies the fuzzy rename rules. It never fails; unmatched labels keep their
// cleaned form.
func (n *Normalizer) NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	used := map[string]bool{}
	for i, h := range headers {
		label := CleanLabel(h)
		// Two raw labels can clean to the same identifier; keep both columns.
		base := label
		for suffix := 2; used[label]; suffix++ {
			label = fmt.Sprintf("%s_%d", base, suffix)
		}
		used[label] = true
		out[i] = label
	}

	// Fuzzy rename pass. A label is tested against the rules in priority
	// order and only its first match applies; if that target was already
	// assigned (or already present as a column), the label stays as is.
	for i, label := range out {
		for _, r := range n.rules {
			if !r.matches(label) {
				continue
			}
			if label != r.Target && !used[r.Target] {
				used[r.Target] = true
				out[i] = r.Target
			}
			break
		}
	}
	return out
}

// Apply returns the batch with normalized headers. An empty batch is returned
// unchanged.
func (n *Normalizer) Apply(df dataframe.DataFrame) dataframe.DataFrame {
	if frame.IsEmpty(df) {
		return df
	}
	records := frame.Records(df)
	records[0] = n.NormalizeHeaders(records[0])
	return frame.FromRecords(records)
}
