// Package rules applies the material-group business rules: keyword exclusion
// and label remapping.
package rules

import (
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/config"
	"salesiq/internal/etl/frame"
)

// groupColumn is the canonical material-group label. Source files that spell
// it differently still land on a label containing GROUP after normalization,
// since the item rename rule deliberately skips those.
const groupColumn = "MATERIALGROUP"

// GroupRule is one compiled remapping rule.
type GroupRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Filter removes excluded material groups and standardizes the remaining
// group labels.
type Filter struct {
	exclude  []string
	mappings []GroupRule
}

// NewFilter compiles the configured mappings as case-insensitive regexes.
// An invalid pattern is skipped rather than aborting ingestion.
func NewFilter(exclude []string, mappings []config.GroupMapping) *Filter {
	f := &Filter{}
	for _, k := range exclude {
		f.exclude = append(f.exclude, strings.ToLower(k))
	}
	for _, m := range mappings {
		re, err := regexp.Compile("(?i)" + m.Pattern)
		if err != nil {
			continue
		}
		f.mappings = append(f.mappings, GroupRule{Pattern: re, Replacement: m.Replacement})
	}
	return f
}

// GroupColumn finds the material-group column of a batch, preferring the
// canonical name over any other label containing GROUP. Empty when absent.
func GroupColumn(df dataframe.DataFrame) string {
	if frame.HasColumn(df, groupColumn) {
		return groupColumn
	}
	for _, n := range df.Names() {
		if strings.Contains(n, "GROUP") {
			return n
		}
	}
	return ""
}

// Apply removes rows whose material group contains an exclusion keyword
// (case-insensitive substring; rows with an empty group are retained) and then
// rewrites group labels through the mapping rules in declared order. It
// returns the filtered batch and the number of excluded rows. A batch without
// a group column passes through untouched.
func (f *Filter) Apply(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	if frame.IsEmpty(df) {
		return df, 0
	}
	col := GroupColumn(df)
	if col == "" {
		return df, 0
	}

	groups := frame.Column(df, col)
	keep := make([]int, 0, len(groups))
	for i, g := range groups {
		if g == "" || !f.excluded(g) {
			keep = append(keep, i)
		}
	}
	excluded := len(groups) - len(keep)
	if excluded > 0 {
		df = frame.Subset(df, keep)
		if frame.IsEmpty(df) {
			return df, excluded
		}
		groups = frame.Column(df, col)
	}

	// Mappings chain deliberately: each rule scans the value as rewritten by
	// the rules before it, so a later rule can overwrite an earlier result.
	// The mapping list is order-sensitive, not confluent; see DESIGN.md.
	remapped := make([]string, len(groups))
	for i, g := range groups {
		for _, m := range f.mappings {
			if m.Pattern.MatchString(g) {
				g = m.Replacement
			}
		}
		remapped[i] = g
	}
	return frame.WithColumn(df, col, remapped), excluded
}

func (f *Filter) excluded(group string) bool {
	lower := strings.ToLower(group)
	for _, k := range f.exclude {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
