package export_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesiq/internal/domain"
	"salesiq/internal/etl/export"
)

func TestWriteMaster(t *testing.T) {
	older := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := []domain.Transaction{
		{InvoiceNo: "INV-OLD", TxnDate: &older, CustomerName: "Acme", Amount: 100},
		{InvoiceNo: "INV-NEW", TxnDate: &newer, CustomerName: "Globex", Amount: 200},
		{InvoiceNo: "INV-NODATE", CustomerName: "Initech", Amount: 300},
	}

	path := filepath.Join(t.TempDir(), "out", "sales_master.xlsx")
	require.NoError(t, export.WriteMaster(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Business columns lead the header.
	assert.Equal(t, []string{"DATE", "MONTH", "FINANCIAL_YEAR", "INVOICE_NO", "CUSTOMER_NAME"},
		got[0][:5])

	// Newest first, undated rows last.
	assert.Equal(t, "INV-NEW", got[1][3])
	assert.Equal(t, "INV-OLD", got[2][3])
	assert.Equal(t, "INV-NODATE", got[3][3])
}

func TestWriteMaster_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_master.xlsx")
	require.NoError(t, export.WriteMaster(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, got, 1)
}
