package refmerge_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesiq/internal/domain"
	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/refmerge"
	"salesiq/internal/etl/schema"
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

func TestMerger_CityFallback(t *testing.T) {
	m := refmerge.New("") // no master

	df := frame.FromRecords([][]string{
		{schema.ColCustomer, schema.ColCity},
		{"Acme", "MUMBAI"},
		{"Globex", "Pune"},
		{"Initech", "ATLANTIS"},
	})

	got := m.Apply(df)

	assert.Equal(t, []string{"MAHARASHTRA", "MAHARASHTRA", domain.StateNotFound},
		got.Col(schema.ColState).Records())
}

func TestMerger_MasterWinsPerColumn(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "customer_master.xlsx")
	writeXLSX(t, master, [][]string{
		{"Customer Name", "City", "State"},
		{"Acme", "NAGPUR", "MAHARASHTRA"},
		{"Globex", "CHENNAI", ""},
	})

	m := refmerge.New(master)
	df := frame.FromRecords([][]string{
		{schema.ColCustomer, schema.ColCity, schema.ColState},
		{"acme", "MUMBAI", "DELHI"},
		{"GLOBEX", "", "TAMIL NADU"},
		{"Unknown Co", "JAIPUR", ""},
	})

	got := m.Apply(df)

	// Acme: master overrides both city and state.
	// Globex: master city wins, row state survives where master is silent.
	// Unknown Co: no master row, city fallback resolves the state.
	assert.Equal(t, []string{"NAGPUR", "CHENNAI", "JAIPUR"}, got.Col(schema.ColCity).Records())
	assert.Equal(t, []string{"MAHARASHTRA", "TAMIL NADU", "RAJASTHAN"}, got.Col(schema.ColState).Records())
}

func TestMerger_FirstMasterRowWins(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "customer_master.xlsx")
	writeXLSX(t, master, [][]string{
		{"Customer Name", "State"},
		{"Acme", "GUJARAT"},
		{"Acme", "PUNJAB"},
	})

	m := refmerge.New(master)
	df := frame.FromRecords([][]string{
		{schema.ColCustomer},
		{"Acme"},
	})

	got := m.Apply(df)

	assert.Equal(t, []string{"GUJARAT"}, got.Col(schema.ColState).Records())
}

func TestMerger_MasterWithoutCustomerColumn(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "customer_master.xlsx")
	writeXLSX(t, master, [][]string{
		{"City", "State"},
		{"MUMBAI", "MAHARASHTRA"},
	})

	m := refmerge.New(master)
	df := frame.FromRecords([][]string{
		{schema.ColCustomer, schema.ColCity},
		{"Acme", "DELHI"},
	})

	// Merge degrades to the city fallback; it never fails.
	got := m.Apply(df)

	assert.Equal(t, []string{"DELHI"}, got.Col(schema.ColState).Records())
}

func TestMerger_SentinelStateGetsRetried(t *testing.T) {
	m := refmerge.New("")

	df := frame.FromRecords([][]string{
		{schema.ColCustomer, schema.ColCity, schema.ColState},
		{"Acme", "SURAT", domain.StateNotFound},
	})

	got := m.Apply(df)

	assert.Equal(t, []string{"GUJARAT"}, got.Col(schema.ColState).Records())
}

func TestMerger_NoCityColumn(t *testing.T) {
	m := refmerge.New("")

	df := frame.FromRecords([][]string{
		{schema.ColCustomer},
		{"Acme"},
	})

	got := m.Apply(df)

	assert.Equal(t, []string{domain.StateNotFound}, got.Col(schema.ColState).Records())
}
