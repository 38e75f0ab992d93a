package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"salesiq/internal/archive"
	"salesiq/internal/config"
	"salesiq/internal/etl"
	"salesiq/internal/monitor"
	"salesiq/internal/repository/postgres"
	"salesiq/internal/service"
)

// One-shot runner: process whatever sits in a tenant's inbox and exit.
func main() {
	tenantID := flag.String("tenant", "", "tenant identifier to process")
	flag.Parse()

	if err := run(*tenantID); err != nil {
		log.Fatal(err)
	}
}

func run(tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("usage: pipeline -tenant <id>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	archiver, err := archive.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize archiver: %w", err)
	}

	store := postgres.NewTransactionRepo(db)
	status := monitor.NewFileSink(filepath.Join(cfg.Data.Dir, "status"))
	runs := service.NewRunService(etl.New(cfg, store, status, archiver))

	summary, err := runs.Run(context.Background(), tenantID)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	log.Printf("tenant=%s files=%d rows=%d excluded=%d added=%d archived=%d",
		summary.TenantID,
		summary.FilesIngested,
		summary.RowsIngested,
		summary.RowsExcluded,
		summary.RowsAdded,
		summary.FilesArchived,
	)
	return nil
}
