// Package ingest reads raw spreadsheet batches from a tenant's inbox folder.
package ingest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"salesiq/internal/etl/frame"
)

// ListFiles returns the .xlsx files in dir, sorted by name. Excel lock files
// ("~$...") are skipped. A missing directory yields no files, not an error.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ingest.ListFiles: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile reads the first sheet of a workbook into a batch. Ragged rows are
// padded to the header width; rows wider than the header are truncated.
func ReadFile(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return frame.Empty(), fmt.Errorf("ingest.ReadFile %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return frame.Empty(), fmt.Errorf("ingest.ReadFile %s: workbook has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return frame.Empty(), fmt.Errorf("ingest.ReadFile %s: %w", filepath.Base(path), err)
	}
	if len(rows) < 2 {
		return frame.Empty(), nil
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := make([]string, width)
		copy(rec, row)
		records = append(records, rec)
	}
	return frame.FromRecords(records), nil
}

// ReadFolder reads every workbook in dir and stacks them into one batch,
// taking the union of their columns. A file that fails to parse is logged and
// skipped; the other files still ingest. Returns the combined batch and the
// paths actually consumed.
func ReadFolder(dir string) (dataframe.DataFrame, []string, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return frame.Empty(), nil, err
	}
	var frames []dataframe.DataFrame
	var consumed []string
	for _, path := range files {
		df, err := ReadFile(path)
		if err != nil {
			log.Printf("ingest: skipping %s: %v", filepath.Base(path), err)
			continue
		}
		frames = append(frames, df)
		consumed = append(consumed, path)
		log.Printf("ingest: loaded %s (%d rows)", filepath.Base(path), df.Nrow())
	}
	return frame.Concat(frames), consumed, nil
}
