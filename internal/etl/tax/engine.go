// Package tax apportions GST liability between the intra-state (CGST+SGST)
// and inter-state (IGST) regimes.
package tax

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/etl/frame"
)

// Columns written by the engine.
const (
	ColAmount      = "AMOUNT"
	ColState       = "STATE"
	ColIGST        = "IGST"
	ColCGST        = "CGST"
	ColSGST        = "SGST"
	ColTax         = "TAX"
	ColTotalAmount = "TOTALAMOUNT"
)

// rawTaxColumns are tax and total figures as reported by the source files.
// The engine is the sole authority for these values, so they are discarded
// before recomputation.
var rawTaxColumns = []string{
	ColTotalAmount, ColTax, ColIGST, ColCGST, ColSGST,
	"IGST_RATE", "CGST_RATE", "SGST_RATE",
	"GRAND_TOTAL", "NET_AMOUNT", "TOTAL_TAX",
	"ROUND_OFF",
}

// Engine computes tax columns from net amount and resolved state.
type Engine struct {
	// CompanyState is the selling entity's home jurisdiction, uppercase.
	CompanyState string
	// Rate is the combined GST rate as a fraction, e.g. 0.18.
	Rate float64
}

// Intra reports whether a resolved state falls under the intra-state regime.
// Unresolved states (blank, UNKNOWN, or the not-found sentinel) are treated
// as intra-state, the conservative default for a seller invoicing locally.
func (e Engine) Intra(state string) bool {
	s := strings.ToUpper(strings.TrimSpace(state))
	return s == "" || s == e.CompanyState || s == "UNKNOWN" || strings.Contains(s, "NOT FOUND")
}

// Apply discards raw tax columns and recomputes IGST, CGST, SGST, TAX and
// TOTALAMOUNT for every row. Amounts are plain floats; rounding is left to
// presentation layers. A batch without an AMOUNT column gets all-zero tax
// columns.
func (e Engine) Apply(df dataframe.DataFrame) dataframe.DataFrame {
	if frame.IsEmpty(df) {
		return df
	}

	var kept []string
	for _, n := range df.Names() {
		if !isRawTaxColumn(n) {
			kept = append(kept, n)
		}
	}
	df = frame.Select(df, kept)

	n := df.Nrow()
	igst := make([]float64, n)
	cgst := make([]float64, n)
	sgst := make([]float64, n)

	if frame.HasColumn(df, ColAmount) {
		amounts := frame.Column(df, ColAmount)
		var states []string
		if frame.HasColumn(df, ColState) {
			states = frame.Column(df, ColState)
		}
		for i := range amounts {
			amount := parseAmount(amounts[i])
			state := ""
			if states != nil {
				state = states[i]
			}
			if e.Intra(state) {
				cgst[i] = amount * e.Rate / 2
				sgst[i] = amount * e.Rate / 2
			} else {
				igst[i] = amount * e.Rate
			}
		}

		tax := make([]string, n)
		total := make([]string, n)
		for i := range amounts {
			t := igst[i] + cgst[i] + sgst[i]
			tax[i] = formatAmount(t)
			total[i] = formatAmount(parseAmount(amounts[i]) + t)
		}
		df = frame.WithColumn(df, ColIGST, formatAll(igst))
		df = frame.WithColumn(df, ColCGST, formatAll(cgst))
		df = frame.WithColumn(df, ColSGST, formatAll(sgst))
		df = frame.WithColumn(df, ColTax, tax)
		return frame.WithColumn(df, ColTotalAmount, total)
	}

	zeros := formatAll(make([]float64, n))
	for _, col := range []string{ColIGST, ColCGST, ColSGST, ColTax, ColTotalAmount} {
		df = frame.WithColumn(df, col, zeros)
	}
	return df
}

func isRawTaxColumn(name string) bool {
	for _, c := range rawTaxColumns {
		if name == c {
			return true
		}
	}
	return false
}

// parseAmount reads a numeric cell, tolerating thousands separators. Anything
// unparseable counts as zero.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAll(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatAmount(v)
	}
	return out
}
