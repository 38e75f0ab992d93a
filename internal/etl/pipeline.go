// Package etl sequences the ingestion pipeline: raw spreadsheets are
// normalized, filtered, enriched, merged against the customer master,
// tax-apportioned, and incrementally loaded into the shared store.
package etl

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/config"
	"salesiq/internal/domain"
	"salesiq/internal/etl/export"
	"salesiq/internal/etl/fiscal"
	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/ingest"
	"salesiq/internal/etl/loader"
	"salesiq/internal/etl/refmerge"
	"salesiq/internal/etl/rules"
	"salesiq/internal/etl/schema"
	"salesiq/internal/etl/tax"
	"salesiq/internal/port"
)

// Pipeline runs the full ETL sequence for one tenant at a time. Stages run
// strictly sequentially; only the load stage mutates shared state.
type Pipeline struct {
	data     config.DataConfig
	status   port.StatusSink
	store    port.TransactionStore
	archiver port.Archiver

	normalizer *schema.Normalizer
	filter     *rules.Filter
	enricher   fiscal.Enricher
	engine     tax.Engine
	loader     *loader.Loader
}

// New wires a Pipeline from configuration and collaborators.
func New(cfg *config.Config, store port.TransactionStore, status port.StatusSink, archiver port.Archiver) *Pipeline {
	return &Pipeline{
		data:       cfg.Data,
		status:     status,
		store:      store,
		archiver:   archiver,
		normalizer: schema.New(),
		filter:     rules.NewFilter(cfg.Pipeline.ExcludeKeywords, cfg.Pipeline.GroupMappings),
		enricher:   fiscal.Enricher{StartMonth: cfg.Pipeline.FYStartMonth},
		engine:     tax.Engine{CompanyState: cfg.Pipeline.CompanyState, Rate: cfg.Pipeline.TaxRate},
		loader:     loader.New(store),
	}
}

// Run executes one pipeline run for a tenant. It returns only on completion;
// any stage failure is converted into a terminal Failed status and returned.
// Callers must serialize runs per tenant (see service.RunService).
func (p *Pipeline) Run(ctx context.Context, tenantID string) (summary *domain.RunSummary, err error) {
	if tenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
		if err != nil {
			log.Printf("pipeline: run failed for tenant %s: %v", tenantID, err)
			p.report(tenantID, domain.StepError, domain.RunFailed, err.Error(), 0)
		}
	}()

	log.Printf("pipeline: starting run for tenant %s", tenantID)
	p.report(tenantID, domain.StepStart, domain.RunRunning, "Initializing pipeline", 0)

	if err := p.data.EnsureTenantDirs(tenantID); err != nil {
		return nil, err
	}
	summary = &domain.RunSummary{TenantID: tenantID}

	// Ingest
	p.report(tenantID, domain.StepIngest, domain.RunRunning, "Scanning raw folder", 10)
	df, files, err := ingest.ReadFolder(p.data.RawDir(tenantID))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("pipeline: no new files for tenant %s", tenantID)
		p.report(tenantID, domain.StepDone, domain.RunCompleted, "No new data", 100)
		return summary, nil
	}
	summary.FilesIngested = len(files)
	summary.RowsIngested = df.Nrow()
	p.report(tenantID, domain.StepIngest, domain.RunRunning,
		fmt.Sprintf("Loaded %d files", len(files)), 30)

	// Transform
	p.report(tenantID, domain.StepTransform, domain.RunRunning, "Standardizing and cleaning data", 50)
	df = p.normalizer.Apply(df)
	df, excluded := p.filter.Apply(df)
	summary.RowsExcluded = excluded
	if excluded > 0 {
		log.Printf("pipeline: excluded %d rows by material group keywords", excluded)
	}
	df = p.enricher.Apply(df)
	df = ensureCity(df)

	// Reference merge
	p.report(tenantID, domain.StepReference, domain.RunRunning, "Merging customer master", 60)
	merger := refmerge.New(p.data.MasterFile(tenantID))
	df = merger.Apply(df)

	// Taxes, after the merge so the resolved state drives the split.
	p.report(tenantID, domain.StepTransform, domain.RunRunning, "Calculating taxes", 65)
	df = p.engine.Apply(df)

	// Load
	p.report(tenantID, domain.StepLoad, domain.RunRunning, "Updating store", 75)
	added := p.loader.Load(ctx, df, tenantID)
	summary.RowsAdded = int(added)

	// Master workbook refresh is best-effort; a locked or unwritable file
	// must not fail the run.
	if err := p.exportMaster(ctx, tenantID); err != nil {
		log.Printf("pipeline: master export skipped for tenant %s: %v", tenantID, err)
	}

	// Archive only when rows landed; otherwise files stay put so a failed
	// dedup or malformed file does not silently vanish.
	if added > 0 {
		p.report(tenantID, domain.StepArchive, domain.RunRunning, "Moving files to archive", 90)
		summary.FilesArchived = p.archiveFiles(ctx, tenantID, files)
	}

	log.Printf("pipeline: run completed for tenant %s (%d records added)", tenantID, added)
	p.report(tenantID, domain.StepDone, domain.RunCompleted,
		fmt.Sprintf("Processed %d records", added), 100)
	return summary, nil
}

func (p *Pipeline) report(tenantID string, step domain.StepName, state domain.RunState, details string, progress int) {
	p.status.Update(tenantID, domain.PipelineStatus{
		Step:     step,
		Status:   state,
		Details:  details,
		Progress: progress,
	})
}

func (p *Pipeline) exportMaster(ctx context.Context, tenantID string) error {
	rows, err := p.store.FetchByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	path := filepath.Join(p.data.OutputDir(tenantID), "sales_master.xlsx")
	return export.WriteMaster(path, rows)
}

func (p *Pipeline) archiveFiles(ctx context.Context, tenantID string, files []string) int {
	archived := 0
	for _, f := range files {
		if err := p.archiver.Archive(ctx, tenantID, f); err != nil {
			log.Printf("pipeline: failed to archive %s: %v", filepath.Base(f), err)
			continue
		}
		archived++
	}
	return archived
}

// ensureCity guarantees a CITY column so the merge fallback and dashboards
// always have one to read.
func ensureCity(df dataframe.DataFrame) dataframe.DataFrame {
	if frame.IsEmpty(df) || frame.HasColumn(df, schema.ColCity) {
		return df
	}
	cities := make([]string, df.Nrow())
	for i := range cities {
		cities[i] = domain.CityNotFound
	}
	return frame.WithColumn(df, schema.ColCity, cities)
}
