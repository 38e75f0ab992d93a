package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesiq/internal/archive"
	"salesiq/internal/config"
)

func TestLocalArchiver_MovesFile(t *testing.T) {
	data := config.DataConfig{Dir: t.TempDir()}
	require.NoError(t, data.EnsureTenantDirs("tenant-a"))

	src := filepath.Join(data.RawDir("tenant-a"), "jan.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	a := archive.NewLocal(data)
	require.NoError(t, a.Archive(context.Background(), "tenant-a", src))

	assert.NoFileExists(t, src)
	moved, err := os.ReadFile(filepath.Join(data.ProcessedDir("tenant-a"), "jan.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(moved))
}

func TestLocalArchiver_MissingSource(t *testing.T) {
	data := config.DataConfig{Dir: t.TempDir()}

	a := archive.NewLocal(data)
	err := a.Archive(context.Background(), "tenant-a", filepath.Join(data.RawDir("tenant-a"), "nope.xlsx"))

	assert.Error(t, err)
}

func TestFromConfig_Modes(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Dir: t.TempDir()}}

	a, err := archive.FromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a)

	cfg.Archive.Mode = "ftp"
	_, err = archive.FromConfig(cfg)
	assert.Error(t, err)
}
