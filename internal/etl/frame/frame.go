// Package frame holds shared helpers over gota dataframes. Every pipeline
// stage passes batches around as a DataFrame of string series; types are only
// interpreted (dates, amounts) at the stage that needs them.
package frame

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Empty returns a zero-row, zero-column batch.
func Empty() dataframe.DataFrame {
	return dataframe.DataFrame{}
}

// IsEmpty reports whether the batch has no rows or no columns.
func IsEmpty(df dataframe.DataFrame) bool {
	return df.Nrow() == 0 || df.Ncol() == 0
}

// FromRecords builds a batch from a header row plus data rows. All columns are
// kept as strings; header-only or empty input yields an empty batch.
func FromRecords(records [][]string) dataframe.DataFrame {
	if len(records) < 2 {
		return Empty()
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

// HasColumn reports whether the batch has a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the values of a column, or nil when it is absent.
func Column(df dataframe.DataFrame, name string) []string {
	if !HasColumn(df, name) {
		return nil
	}
	return df.Col(name).Records()
}

// WithColumn returns the batch with the named column replaced (or appended).
// vals must have one entry per row.
func WithColumn(df dataframe.DataFrame, name string, vals []string) dataframe.DataFrame {
	return df.Mutate(series.New(vals, series.String, name))
}

// Subset returns the rows at the given indexes, preserving order.
func Subset(df dataframe.DataFrame, indexes []int) dataframe.DataFrame {
	if len(indexes) == 0 {
		return Empty()
	}
	return df.Subset(indexes)
}

// Select returns the batch restricted to the named columns, in that order.
func Select(df dataframe.DataFrame, names []string) dataframe.DataFrame {
	if len(names) == 0 {
		return Empty()
	}
	return df.Select(names)
}

// Records returns the header row followed by all data rows.
func Records(df dataframe.DataFrame) [][]string {
	if IsEmpty(df) {
		return nil
	}
	return df.Records()
}

// Concat stacks batches vertically, taking the union of their columns in
// first-seen order. Missing cells are filled with empty strings. Spreadsheet
// exports from different source systems rarely share an identical column set,
// so a plain RBind is not enough.
func Concat(frames []dataframe.DataFrame) dataframe.DataFrame {
	var nonEmpty []dataframe.DataFrame
	for _, df := range frames {
		if !IsEmpty(df) {
			nonEmpty = append(nonEmpty, df)
		}
	}
	if len(nonEmpty) == 0 {
		return Empty()
	}

	var union []string
	seen := map[string]bool{}
	for _, df := range nonEmpty {
		for _, n := range df.Names() {
			if !seen[n] {
				seen[n] = true
				union = append(union, n)
			}
		}
	}

	out := alignColumns(nonEmpty[0], union)
	for _, df := range nonEmpty[1:] {
		out = out.RBind(alignColumns(df, union))
	}
	return out
}

func alignColumns(df dataframe.DataFrame, union []string) dataframe.DataFrame {
	blanks := make([]string, df.Nrow())
	for _, n := range union {
		if !HasColumn(df, n) {
			df = WithColumn(df, n, blanks)
		}
	}
	return Select(df, union)
}
