package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/schema"
)

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "ITEMNAME", schema.CleanLabel("  Item.Name. "))
	assert.Equal(t, "INVOICE_NO", schema.CleanLabel("Invoice No."))
	assert.Equal(t, "CITY/TOWN", schema.CleanLabel("City/Town"))
	assert.Equal(t, "BILL_TO_PARTY", schema.CleanLabel("bill to party"))
}

func TestNormalizeHeaders_FuzzyRename(t *testing.T) {
	n := schema.New()

	got := n.NormalizeHeaders([]string{
		"  Item.Name. ", "City/Town", "Invoice No.", "Party Name", "Region",
	})

	assert.Equal(t, []string{
		schema.ColItem, schema.ColCity, schema.ColInvoice, schema.ColCustomer, schema.ColState,
	}, got)
}

func TestNormalizeHeaders_SpacedSynonym(t *testing.T) {
	n := schema.New()

	// Cleanup turns the space into an underscore before rules run, so the
	// customer rule matches "Bill To" through its BILL_TO token.
	got := n.NormalizeHeaders([]string{"Bill To", "Amount"})
	assert.Equal(t, []string{schema.ColCustomer, "AMOUNT"}, got)
}

func TestNormalizeHeaders_PriorityOrder(t *testing.T) {
	n := schema.New()

	// "Destination State" contains both a city token (DESTINATION) and a
	// state token (STATE); the city rule wins because it ranks higher.
	got := n.NormalizeHeaders([]string{"Destination State"})
	assert.Equal(t, []string{schema.ColCity}, got)
}

func TestNormalizeHeaders_TargetAssignedOnce(t *testing.T) {
	n := schema.New()

	// Two labels match the city rule; only the first takes the canonical
	// name, the second keeps its cleaned form.
	got := n.NormalizeHeaders([]string{"City", "Town"})
	assert.Equal(t, []string{schema.ColCity, "TOWN"}, got)
}

func TestNormalizeHeaders_ExcludeVeto(t *testing.T) {
	n := schema.New()

	got := n.NormalizeHeaders([]string{"Material Group", "Invoice Date", "Material"})
	// GROUP vetoes the item rule, DATE vetoes the invoice rule.
	assert.Equal(t, []string{"MATERIAL_GROUP", "INVOICE_DATE", schema.ColItem}, got)
}

func TestNormalizeHeaders_ExactMatch(t *testing.T) {
	n := schema.New()

	got := n.NormalizeHeaders([]string{"No."})
	assert.Equal(t, []string{schema.ColInvoice}, got)
}

func TestNormalizeHeaders_CollisionSuffix(t *testing.T) {
	n := schema.New()

	// Both labels clean to AMOUNT; the duplicate gets a numeric suffix so no
	// column is dropped.
	got := n.NormalizeHeaders([]string{"Amount", "amount."})
	assert.Equal(t, []string{"AMOUNT", "AMOUNT_2"}, got)
}

func TestNormalizer_Apply(t *testing.T) {
	n := schema.New()
	df := frame.FromRecords([][]string{
		{"Invoice No.", "Party Name", "Amount"},
		{"INV-1", "Acme", "100"},
	})

	got := n.Apply(df)

	assert.Equal(t, []string{schema.ColInvoice, schema.ColCustomer, "AMOUNT"}, got.Names())
	assert.Equal(t, []string{"INV-1"}, got.Col(schema.ColInvoice).Records())
}

func TestNormalizer_Apply_Empty(t *testing.T) {
	n := schema.New()
	got := n.Apply(frame.Empty())
	assert.True(t, frame.IsEmpty(got))
}
