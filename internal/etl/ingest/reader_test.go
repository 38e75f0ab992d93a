package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesiq/internal/etl/ingest"
)

func writeXLSX(t *testing.T, path string, records [][]string) {
	t.Helper()
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

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xlsx", "~$a.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := ingest.ListFiles(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.xlsx"),
	}, files)
}

func TestListFiles_MissingDir(t *testing.T) {
	files, err := ingest.ListFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	writeXLSX(t, path, [][]string{
		{"Invoice No.", "Amount"},
		{"INV-1", "100"},
		{"INV-2", "200"},
	})

	df, err := ingest.ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"INV-1", "INV-2"}, df.Col("Invoice No.").Records())
}

func TestReadFile_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xlsx")
	writeXLSX(t, path, [][]string{{"Invoice No."}})

	df, err := ingest.ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
}

func TestReadFolder_UnionsColumnsAndSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeXLSX(t, filepath.Join(dir, "a.xlsx"), [][]string{
		{"Invoice No.", "Amount"},
		{"INV-1", "100"},
	})
	writeXLSX(t, filepath.Join(dir, "b.xlsx"), [][]string{
		{"Invoice No.", "City"},
		{"INV-2", "PUNE"},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.xlsx"), []byte("not a workbook"), 0o644))

	df, consumed, err := ingest.ReadFolder(dir)

	require.NoError(t, err)
	assert.Len(t, consumed, 2)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"INV-1", "INV-2"}, df.Col("Invoice No.").Records())
	assert.Equal(t, []string{"100", ""}, df.Col("Amount").Records())
	assert.Equal(t, []string{"", "PUNE"}, df.Col("City").Records())
}

func TestReadFolder_EmptyDir(t *testing.T) {
	df, consumed, err := ingest.ReadFolder(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, consumed)
	assert.Equal(t, 0, df.Nrow())
}
