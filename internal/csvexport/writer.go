// Package csvexport renders persisted transactions as CSV for download.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"salesiq/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var columns = []string{
	"Invoice No",
	"Date",
	"Month",
	"Financial Year",
	"Customer Name",
	"Item Name",
	"Material Group",
	"Qty",
	"Rate",
	"Amount",
	"City",
	"State",
	"IGST",
	"CGST",
	"SGST",
	"Tax",
	"Total Amount",
}

// Writer wraps csv.Writer for exporting transactions as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteTransactions converts a batch of transactions to CSV rows and writes
// them.
func (w *Writer) WriteTransactions(txns []domain.Transaction) error {
	for i := range txns {
		if err := w.csv.Write(transactionToRow(&txns[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func transactionToRow(t *domain.Transaction) []string {
	date := ""
	if t.TxnDate != nil {
		date = t.TxnDate.Format("2006-01-02")
	}
	return []string{
		t.InvoiceNo,
		date,
		t.Month,
		t.FinancialYear,
		t.CustomerName,
		t.ItemName,
		t.MaterialGroup,
		num(t.Qty),
		num(t.Rate),
		num(t.Amount),
		t.City,
		t.State,
		num(t.IGST),
		num(t.CGST),
		num(t.SGST),
		num(t.Tax),
		num(t.TotalAmount),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
