package etl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesiq/internal/config"
	"salesiq/internal/domain"
	"salesiq/internal/etl"
	"salesiq/mocks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Data: config.DataConfig{Dir: t.TempDir()},
		Pipeline: config.PipelineConfig{
			FYStartMonth:    4,
			CompanyState:    "MAHARASHTRA",
			TaxRate:         0.18,
			ExcludeKeywords: []string{"SERVICE"},
			GroupMappings: []config.GroupMapping{
				{Pattern: "CRATE", Replacement: "CRATES"},
			},
		},
	}
}

func writeXLSX(t *testing.T, path string, records [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &vals))
	}
	require.NoError(t, f.SaveAs(path))
}

func seedInbox(t *testing.T, cfg *config.Config, tenantID string) {
	writeXLSX(t, filepath.Join(cfg.Data.RawDir(tenantID), "jan.xlsx"), [][]string{
		{"Invoice No.", "Party Name", "Item.Name", "Material Group", "City", "Date", "Qty", "Rate", "Amount"},
		{"INV-1", "Acme", "Crate 600x400", "Crate", "MUMBAI", "2024-01-15", "10", "100", "1000"},
		{"INV-2", "Globex", "AMC Visit", "Service Charges", "DELHI", "2024-01-20", "1", "500", "500"},
		{"INV-3", "Initech", "Pallet", "Pallet", "JAIPUR", "2024-02-01", "4", "500", "2000"},
	})
}

func TestPipeline_Run_FullFlow(t *testing.T) {
	cfg := testConfig(t)
	store := mocks.NewMemStore()
	sink := mocks.NewRecordingSink()
	archiver := &mocks.RecordingArchiver{}
	p := etl.New(cfg, store, sink, archiver)

	seedInbox(t, cfg, "tenant-a")

	summary, err := p.Run(context.Background(), "tenant-a")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesIngested)
	assert.Equal(t, 3, summary.RowsIngested)
	assert.Equal(t, 1, summary.RowsExcluded)
	assert.Equal(t, 2, summary.RowsAdded)
	assert.Equal(t, 1, summary.FilesArchived)
	assert.Len(t, archiver.Paths, 1)

	rows, err := store.FetchByTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byInvoice := map[string]domain.Transaction{}
	for _, r := range rows {
		byInvoice[r.InvoiceNo] = r
	}

	intra := byInvoice["INV-1"]
	assert.Equal(t, "Acme", intra.CustomerName)
	assert.Equal(t, "CRATES", intra.MaterialGroup)
	assert.Equal(t, "MAHARASHTRA", intra.State)
	assert.Equal(t, "FY23-24", intra.FinancialYear)
	assert.Equal(t, "JAN-24", intra.Month)
	assert.Equal(t, 90.0, intra.CGST)
	assert.Equal(t, 90.0, intra.SGST)
	assert.Equal(t, 0.0, intra.IGST)
	assert.Equal(t, 1180.0, intra.TotalAmount)

	inter := byInvoice["INV-3"]
	assert.Equal(t, "RAJASTHAN", inter.State)
	assert.Equal(t, 360.0, inter.IGST)
	assert.Equal(t, 0.0, inter.CGST)

	final := sink.Get("tenant-a")
	assert.Equal(t, domain.StepDone, final.Step)
	assert.Equal(t, domain.RunCompleted, final.Status)
	assert.Equal(t, 100, final.Progress)

	// Master workbook refresh happened.
	assert.FileExists(t, filepath.Join(cfg.Data.OutputDir("tenant-a"), "sales_master.xlsx"))
}

func TestPipeline_Run_NoFiles(t *testing.T) {
	cfg := testConfig(t)
	store := mocks.NewMemStore()
	sink := mocks.NewRecordingSink()
	archiver := &mocks.RecordingArchiver{}
	p := etl.New(cfg, store, sink, archiver)

	summary, err := p.Run(context.Background(), "tenant-a")

	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesIngested)
	assert.Empty(t, archiver.Paths)

	final := sink.Get("tenant-a")
	assert.Equal(t, domain.RunCompleted, final.Status)
	assert.Equal(t, "No new data", final.Details)
}

func TestPipeline_Run_RerunAddsNothingAndSkipsArchive(t *testing.T) {
	cfg := testConfig(t)
	store := mocks.NewMemStore()
	sink := mocks.NewRecordingSink()
	// The recording archiver leaves files in place, so the second run sees
	// the same input again.
	archiver := &mocks.RecordingArchiver{}
	p := etl.New(cfg, store, sink, archiver)

	seedInbox(t, cfg, "tenant-a")

	first, err := p.Run(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.Equal(t, 2, first.RowsAdded)

	second, err := p.Run(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsAdded)
	assert.Equal(t, 0, second.FilesArchived)
	// Archive ran only on the first pass.
	assert.Len(t, archiver.Paths, 1)
	assert.Equal(t, 2, store.Count("tenant-a"))
}

func TestPipeline_Run_TenantRequired(t *testing.T) {
	cfg := testConfig(t)
	p := etl.New(cfg, mocks.NewMemStore(), mocks.NewRecordingSink(), &mocks.RecordingArchiver{})

	_, err := p.Run(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}

func TestPipeline_Run_TenantIsolation(t *testing.T) {
	cfg := testConfig(t)
	store := mocks.NewMemStore()
	p := etl.New(cfg, store, mocks.NewRecordingSink(), &mocks.RecordingArchiver{})

	seedInbox(t, cfg, "tenant-a")

	_, err := p.Run(context.Background(), "tenant-a")
	require.NoError(t, err)

	// Tenant B's run sees nothing: inboxes and stored rows are scoped.
	summary, err := p.Run(context.Background(), "tenant-b")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesIngested)
	assert.Equal(t, 0, store.Count("tenant-b"))
}
