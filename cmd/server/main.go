package main

import (
	"fmt"
	"log"
	"path/filepath"

	"salesiq/internal/archive"
	"salesiq/internal/config"
	"salesiq/internal/etl"
	"salesiq/internal/handler"
	"salesiq/internal/monitor"
	"salesiq/internal/repository/postgres"
	"salesiq/internal/router"
	"salesiq/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := postgres.NewTransactionRepo(db)
	status := monitor.NewFileSink(filepath.Join(cfg.Data.Dir, "status"))

	archiver, err := archive.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize archiver: %w", err)
	}

	pipeline := etl.New(cfg, store, status, archiver)
	runs := service.NewRunService(pipeline)

	pipelineH := handler.NewPipelineHandler(runs, store, status, cfg.Data)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(pipelineH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
