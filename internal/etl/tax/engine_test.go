package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesiq/internal/domain"
	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/tax"
)

func newEngine() tax.Engine {
	return tax.Engine{CompanyState: "MAHARASHTRA", Rate: 0.18}
}

func TestEngine_Intra(t *testing.T) {
	e := newEngine()

	assert.True(t, e.Intra("MAHARASHTRA"))
	assert.True(t, e.Intra(" maharashtra "))
	assert.True(t, e.Intra(""))
	assert.True(t, e.Intra("UNKNOWN"))
	assert.True(t, e.Intra(domain.StateNotFound))
	assert.False(t, e.Intra("DELHI"))
	assert.False(t, e.Intra("GUJARAT"))
}

func TestEngine_Apply_IntraState(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE"},
		{"INV-1", "1000", "MAHARASHTRA"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"0"}, got.Col(tax.ColIGST).Records())
	assert.Equal(t, []string{"90"}, got.Col(tax.ColCGST).Records())
	assert.Equal(t, []string{"90"}, got.Col(tax.ColSGST).Records())
	assert.Equal(t, []string{"180"}, got.Col(tax.ColTax).Records())
	assert.Equal(t, []string{"1180"}, got.Col(tax.ColTotalAmount).Records())
}

func TestEngine_Apply_InterState(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE"},
		{"INV-1", "2000", "DELHI"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"360"}, got.Col(tax.ColIGST).Records())
	assert.Equal(t, []string{"0"}, got.Col(tax.ColCGST).Records())
	assert.Equal(t, []string{"0"}, got.Col(tax.ColSGST).Records())
	assert.Equal(t, []string{"360"}, got.Col(tax.ColTax).Records())
	assert.Equal(t, []string{"2360"}, got.Col(tax.ColTotalAmount).Records())
}

func TestEngine_Apply_SentinelStateIsIntra(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE"},
		{"INV-1", "1000", domain.StateNotFound},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"90"}, got.Col(tax.ColCGST).Records())
	assert.Equal(t, []string{"0"}, got.Col(tax.ColIGST).Records())
}

func TestEngine_Apply_DropsRawTaxColumns(t *testing.T) {
	e := newEngine()
	// Stale source figures must not survive; the engine recomputes them.
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE", "IGST", "GRAND_TOTAL", "ROUND_OFF"},
		{"INV-1", "1000", "DELHI", "999", "9999", "0.4"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"180"}, got.Col(tax.ColIGST).Records())
	assert.False(t, frame.HasColumn(got, "GRAND_TOTAL"))
	assert.False(t, frame.HasColumn(got, "ROUND_OFF"))
}

func TestEngine_Apply_ThousandsSeparators(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE"},
		{"INV-1", "1,00,000", "DELHI"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"18000"}, got.Col(tax.ColIGST).Records())
}

func TestEngine_Apply_NoAmountColumn(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "STATE"},
		{"INV-1", "DELHI"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"0"}, got.Col(tax.ColIGST).Records())
	assert.Equal(t, []string{"0"}, got.Col(tax.ColTotalAmount).Records())
}

func TestEngine_Apply_ZeroAmount(t *testing.T) {
	e := newEngine()
	df := frame.FromRecords([][]string{
		{"INVOICE_NO", "AMOUNT", "STATE"},
		{"INV-1", "0", "DELHI"},
	})

	got := e.Apply(df)

	assert.Equal(t, []string{"0"}, got.Col(tax.ColTax).Records())
	assert.Equal(t, []string{"0"}, got.Col(tax.ColTotalAmount).Records())
}
