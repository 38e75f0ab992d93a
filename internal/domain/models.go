package domain

import (
	"encoding/json"
	"time"
)

// Sentinel values for geography that could not be resolved. These are stored
// verbatim so that dashboards can filter them out; they must never be
// aggregated as if they were a real city or state.
const (
	StateNotFound = "STATE NOT FOUND ⚠️"
	CityNotFound  = "City Not Found"
)

// Transaction is one line item of a sales invoice after the ETL pipeline has
// normalized, enriched, and tax-apportioned it.
type Transaction struct {
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	InvoiceNo     string          `db:"invoice_no" json:"invoice_no"`
	TxnDate       *time.Time      `db:"txn_date" json:"txn_date"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	ItemName      string          `db:"item_name" json:"item_name"`
	MaterialGroup string          `db:"material_group" json:"material_group"`
	Qty           float64         `db:"qty" json:"qty"`
	Rate          float64         `db:"rate" json:"rate"`
	Amount        float64         `db:"amount" json:"amount"`
	City          string          `db:"city" json:"city"`
	State         string          `db:"state" json:"state"`
	FinancialYear string          `db:"financial_year" json:"financial_year"`
	Month         string          `db:"month" json:"month"`
	IGST          float64         `db:"igst" json:"igst"`
	CGST          float64         `db:"cgst" json:"cgst"`
	SGST          float64         `db:"sgst" json:"sgst"`
	Tax           float64         `db:"tax" json:"tax"`
	TotalAmount   float64         `db:"total_amount" json:"total_amount"`
	Extra         json.RawMessage `db:"extra" json:"extra,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// PipelineStatus is the status record written by the orchestrator and polled
// by presentation layers. Consumers never write it.
type PipelineStatus struct {
	Step      StepName  `json:"step"`
	Status    RunState  `json:"status"`
	Details   string    `json:"details"`
	Progress  int       `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

// RunSummary reports the outcome of one pipeline run.
type RunSummary struct {
	TenantID      string `json:"tenant_id"`
	FilesIngested int    `json:"files_ingested"`
	RowsIngested  int    `json:"rows_ingested"`
	RowsExcluded  int    `json:"rows_excluded"`
	RowsAdded     int    `json:"rows_added"`
	FilesArchived int    `json:"files_archived"`
}
