package monitor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesiq/internal/domain"
	"salesiq/internal/monitor"
)

func TestFileSink_UpdateAndGet(t *testing.T) {
	dir := t.TempDir()
	sink := monitor.NewFileSink(dir)

	sink.Update("tenant-a", domain.PipelineStatus{
		Step:     domain.StepLoad,
		Status:   domain.RunRunning,
		Details:  "Updating store",
		Progress: 75,
	})

	got := sink.Get("tenant-a")
	assert.Equal(t, domain.StepLoad, got.Step)
	assert.Equal(t, domain.RunRunning, got.Status)
	assert.Equal(t, 75, got.Progress)
	assert.False(t, got.Timestamp.IsZero())

	// One file per tenant, no temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline_status_tenant-a.json", entries[0].Name())
}

func TestFileSink_Get_NeverRan(t *testing.T) {
	sink := monitor.NewFileSink(t.TempDir())

	got := sink.Get("tenant-a")

	assert.Equal(t, domain.RunIdle, got.Status)
	assert.Equal(t, domain.StepStart, got.Step)
}

func TestFileSink_Get_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	sink := monitor.NewFileSink(dir)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "pipeline_status_tenant-a.json"), []byte("{nope"), 0o644))

	got := sink.Get("tenant-a")

	assert.Equal(t, domain.RunIdle, got.Status)
}

func TestFileSink_TenantsAreIndependent(t *testing.T) {
	sink := monitor.NewFileSink(t.TempDir())

	sink.Update("tenant-a", domain.PipelineStatus{Status: domain.RunCompleted})
	sink.Update("tenant-b", domain.PipelineStatus{Status: domain.RunFailed})

	assert.Equal(t, domain.RunCompleted, sink.Get("tenant-a").Status)
	assert.Equal(t, domain.RunFailed, sink.Get("tenant-b").Status)
}
