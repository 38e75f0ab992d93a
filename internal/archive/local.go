// Package archive moves consumed input files out of the raw folder so a
// later run cannot reprocess them.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"salesiq/internal/config"
	"salesiq/internal/port"
)

type localArchiver struct {
	data config.DataConfig
}

// NewLocal creates an Archiver that moves files into the tenant's processed
// folder.
func NewLocal(data config.DataConfig) port.Archiver {
	return &localArchiver{data: data}
}

func (a *localArchiver) Archive(ctx context.Context, tenantID, path string) error {
	dstDir := a.data.ProcessedDir(tenantID)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	dst := filepath.Join(dstDir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		// Rename fails across filesystems; fall back to copy-and-remove.
		if copyErr := copyFile(path, dst); copyErr != nil {
			return fmt.Errorf("archive %s: %w", filepath.Base(path), err)
		}
		return os.Remove(path)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
