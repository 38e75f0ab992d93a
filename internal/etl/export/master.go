// Package export writes the per-tenant enriched master workbook, a
// spreadsheet mirror of the persisted data for users who live in Excel.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"salesiq/internal/domain"
)

const sheetName = "Sheet1"

// preferredOrder puts the columns business users scan first at the left edge.
var preferredOrder = []string{
	"DATE", "MONTH", "FINANCIAL_YEAR", "INVOICE_NO", "CUSTOMER_NAME",
	"ITEMNAME", "QTY", "RATE", "AMOUNT",
}

var remainingOrder = []string{
	"MATERIALGROUP", "CITY", "STATE", "IGST", "CGST", "SGST", "TAX", "TOTALAMOUNT",
}

// WriteMaster writes all persisted rows for a tenant to path, newest first.
func WriteMaster(path string, rows []domain.Transaction) error {
	sorted := make([]domain.Transaction, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].TxnDate, sorted[j].TxnDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	f := excelize.NewFile()
	defer f.Close()

	header := append(append([]string{}, preferredOrder...), remainingOrder...)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("export.WriteMaster: %w", err)
	}

	for i, t := range sorted {
		var date string
		if t.TxnDate != nil {
			date = t.TxnDate.Format("2006-01-02")
		}
		row := []interface{}{
			date, t.Month, t.FinancialYear, t.InvoiceNo, t.CustomerName,
			t.ItemName, t.Qty, t.Rate, t.Amount,
			t.MaterialGroup, t.City, t.State, t.IGST, t.CGST, t.SGST, t.Tax, t.TotalAmount,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export.WriteMaster: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("export.WriteMaster: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export.WriteMaster: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export.WriteMaster: %w", err)
	}
	return nil
}
