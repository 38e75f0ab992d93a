package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"salesiq/internal/archive"
	"salesiq/internal/config"
	"salesiq/internal/etl"
	"salesiq/internal/monitor"
	"salesiq/internal/repository/postgres"
	"salesiq/internal/service"
)

// settleDelay gives a copy-in-progress time to finish before the file is
// ingested. Excel writes are not atomic.
const settleDelay = 2 * time.Second

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

	archiver, err := archive.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize archiver: %w", err)
	}

	store := postgres.NewTransactionRepo(db)
	status := monitor.NewFileSink(filepath.Join(cfg.Data.Dir, "status"))
	runs := service.NewRunService(etl.New(cfg, store, status, archiver))

	w := &watcher{cfg: cfg, runs: runs, timers: make(map[string]*time.Timer)}
	return w.watch()
}

type watcher struct {
	cfg  *config.Config
	runs service.RunService

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (w *watcher) watch() error {
	rawRoot := filepath.Join(w.cfg.Data.Dir, "raw")
	if err := os.MkdirAll(rawRoot, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", rawRoot, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(rawRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rawRoot, err)
	}
	for _, tenantID := range w.tenants(rawRoot) {
		if err := fw.Add(filepath.Join(rawRoot, tenantID)); err != nil {
			log.Printf("failed to watch inbox for %s: %v", tenantID, err)
		}
	}

	// Backstop scan. An event can be missed across watcher restarts, and
	// files may predate the process.
	c := cron.New()
	if _, err := c.AddFunc("@every 5m", func() { w.rescan(rawRoot) }); err != nil {
		return fmt.Errorf("failed to schedule rescan: %w", err)
	}
	c.Start()
	defer c.Stop()

	w.rescan(rawRoot)
	log.Printf("Watching %s", rawRoot)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, rawRoot, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *watcher) handle(fw *fsnotify.Watcher, rawRoot string, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// A new tenant inbox appearing under the raw root.
	if filepath.Dir(event.Name) == rawRoot {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.Add(event.Name); err != nil {
				log.Printf("failed to watch %s: %v", event.Name, err)
			}
		}
		return
	}

	name := filepath.Base(event.Name)
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") || strings.HasPrefix(name, "~$") {
		return
	}
	w.schedule(filepath.Base(filepath.Dir(event.Name)))
}

// schedule queues a debounced run so that a batch of files dropped together
// triggers one pipeline run, not one per file.
func (w *watcher) schedule(tenantID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[tenantID]; ok {
		t.Reset(settleDelay)
		return
	}
	w.timers[tenantID] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, tenantID)
		w.mu.Unlock()
		w.trigger(tenantID)
	})
}

func (w *watcher) trigger(tenantID string) {
	summary, err := w.runs.Run(context.Background(), tenantID)
	if err != nil {
		log.Printf("pipeline run failed for %s: %v", tenantID, err)
		return
	}
	log.Printf("processed %s: files=%d added=%d", tenantID, summary.FilesIngested, summary.RowsAdded)
}

// rescan triggers runs for every tenant inbox that has files waiting.
func (w *watcher) rescan(rawRoot string) {
	for _, tenantID := range w.tenants(rawRoot) {
		entries, err := os.ReadDir(filepath.Join(rawRoot, tenantID))
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(strings.ToLower(name), ".xlsx") && !strings.HasPrefix(name, "~$") {
				w.schedule(tenantID)
				break
			}
		}
	}
}

func (w *watcher) tenants(rawRoot string) []string {
	entries, err := os.ReadDir(rawRoot)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}
