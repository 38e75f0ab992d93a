package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"salesiq/internal/config"
	"salesiq/internal/csvexport"
	"salesiq/internal/domain"
	"salesiq/internal/port"
	"salesiq/internal/service"
)

// PipelineHandler exposes the ETL pipeline over HTTP: file upload triggers,
// manual runs, status polling, and tenant data access.
type PipelineHandler struct {
	runs   service.RunService
	store  port.TransactionStore
	status port.StatusSink
	data   config.DataConfig
}

// NewPipelineHandler creates a PipelineHandler.
func NewPipelineHandler(runs service.RunService, store port.TransactionStore, status port.StatusSink, data config.DataConfig) *PipelineHandler {
	return &PipelineHandler{runs: runs, store: store, status: status, data: data}
}

// Upload accepts one spreadsheet plus a tenant identifier, saves it to the
// tenant's inbox, and runs the pipeline synchronously.
func (h *PipelineHandler) Upload(c *gin.Context) {
	tenantID := strings.TrimSpace(c.PostForm("tenant_id"))
	if tenantID == "" {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		HandleError(c, domain.ErrNoFiles)
		return
	}
	if err := h.saveUpload(c, tenantID, file); err != nil {
		HandleError(c, err)
		return
	}
	h.runAndRespond(c, tenantID, 1)
}

// UploadBatch accepts many spreadsheets and runs the pipeline once for all of
// them.
func (h *PipelineHandler) UploadBatch(c *gin.Context) {
	tenantID := strings.TrimSpace(c.PostForm("tenant_id"))
	if tenantID == "" {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		HandleError(c, domain.ErrNoFiles)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		HandleError(c, domain.ErrNoFiles)
		return
	}

	saved := 0
	for _, file := range files {
		if err := h.saveUpload(c, tenantID, file); err != nil {
			continue
		}
		saved++
	}
	if saved == 0 {
		HandleError(c, domain.ErrNoFiles)
		return
	}
	h.runAndRespond(c, tenantID, saved)
}

// Run triggers a pipeline run over whatever already sits in the tenant's
// inbox.
func (h *PipelineHandler) Run(c *gin.Context) {
	var req struct {
		TenantID string `json:"tenant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	h.runAndRespond(c, req.TenantID, 0)
}

// Status returns the tenant's current pipeline status record.
func (h *PipelineHandler) Status(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	if tenantID == "" {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	RespondOK(c, h.status.Get(tenantID))
}

// Data returns every persisted transaction for a tenant, as JSON or as a CSV
// download when format=csv.
func (h *PipelineHandler) Data(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	if tenantID == "" {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	rows, err := h.store.FetchByTenant(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}
	if c.Query("format") == "csv" {
		h.writeCSV(c, tenantID, rows)
		return
	}
	RespondOK(c, rows)
}

func (h *PipelineHandler) writeCSV(c *gin.Context, tenantID string, rows []domain.Transaction) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_sales.csv", tenantID))
	c.Writer.Write(csvexport.BOM)

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteTransactions(rows); err != nil {
		return
	}
	w.Flush()
}

// Wipe deletes all persisted rows for one tenant, leaving other tenants
// untouched.
func (h *PipelineHandler) Wipe(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	if tenantID == "" {
		HandleError(c, domain.ErrTenantRequired)
		return
	}
	deleted, err := h.store.DeleteByTenant(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": deleted})
}

func (h *PipelineHandler) saveUpload(c *gin.Context, tenantID string, file *multipart.FileHeader) error {
	name := filepath.Base(file.Filename)
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return domain.ErrUnsupportedFile
	}
	dir := h.data.RawDir(tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return c.SaveUploadedFile(file, filepath.Join(dir, name))
}

func (h *PipelineHandler) runAndRespond(c *gin.Context, tenantID string, saved int) {
	summary, err := h.runs.Run(c.Request.Context(), tenantID)
	if err != nil {
		// The terminal Failed status already carries the detail; the HTTP
		// caller gets the sanitized envelope.
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, gin.H{
		"message": fmt.Sprintf("Ingested %d files and processed data for %s", saved, tenantID),
		"summary": summary,
	})
}
