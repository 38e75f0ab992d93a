package loader

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/domain"
	"salesiq/internal/etl/fiscal"
	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/rules"
	"salesiq/internal/etl/schema"
	"salesiq/internal/etl/tax"
)

// qtyColumns are accepted spellings of the quantity column, in preference
// order. Quantity has no fuzzy rename rule, so both common forms survive
// normalization.
var qtyColumns = []string{"QTY", "QUANTITY"}

// canonicalColumns are consumed into typed Transaction fields; everything
// else lands in Extra.
var canonicalColumns = map[string]bool{
	schema.ColInvoice:        true,
	schema.ColCustomer:       true,
	schema.ColItem:           true,
	schema.ColCity:           true,
	schema.ColState:          true,
	fiscal.ColDate:           true,
	fiscal.ColFinancialYear:  true,
	fiscal.ColMonth:          true,
	tax.ColAmount:            true,
	tax.ColIGST:              true,
	tax.ColCGST:              true,
	tax.ColSGST:              true,
	tax.ColTax:               true,
	tax.ColTotalAmount:       true,
	"QTY":                    true,
	"QUANTITY":               true,
	"RATE":                   true,
}

// toTransactions converts an enriched batch into transaction records.
// hasInvoice reports whether the batch carried an invoice identifier column.
func toTransactions(df dataframe.DataFrame) (txns []domain.Transaction, hasInvoice bool) {
	if frame.IsEmpty(df) {
		return nil, false
	}

	names := df.Names()
	records := frame.Records(df)[1:]
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	groupCol := rules.GroupColumn(df)
	_, hasInvoice = index[schema.ColInvoice]

	cell := func(row []string, col string) string {
		if i, ok := index[col]; ok {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	num := func(row []string, col string) float64 {
		return parseFloat(cell(row, col))
	}

	txns = make([]domain.Transaction, 0, len(records))
	for _, row := range records {
		t := domain.Transaction{
			InvoiceNo:     cell(row, schema.ColInvoice),
			CustomerName:  cell(row, schema.ColCustomer),
			ItemName:      cell(row, schema.ColItem),
			City:          cell(row, schema.ColCity),
			State:         cell(row, schema.ColState),
			FinancialYear: cell(row, fiscal.ColFinancialYear),
			Month:         cell(row, fiscal.ColMonth),
			Rate:          num(row, "RATE"),
			Amount:        num(row, tax.ColAmount),
			IGST:          num(row, tax.ColIGST),
			CGST:          num(row, tax.ColCGST),
			SGST:          num(row, tax.ColSGST),
			Tax:           num(row, tax.ColTax),
			TotalAmount:   num(row, tax.ColTotalAmount),
		}
		if groupCol != "" {
			t.MaterialGroup = cell(row, groupCol)
		}
		for _, q := range qtyColumns {
			if _, ok := index[q]; ok {
				t.Qty = num(row, q)
				break
			}
		}
		if d, ok := fiscal.ParseDate(cell(row, fiscal.ColDate)); ok {
			t.TxnDate = &d
		}

		extra := map[string]string{}
		for i, n := range names {
			if canonicalColumns[n] || n == groupCol {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				extra[n] = v
			}
		}
		if len(extra) > 0 {
			if raw, err := json.Marshal(extra); err == nil {
				t.Extra = raw
			}
		}
		txns = append(txns, t)
	}
	return txns, hasInvoice
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
