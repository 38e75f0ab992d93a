package archive

import (
	"fmt"

	"salesiq/internal/config"
	"salesiq/internal/port"
)

// FromConfig builds the archiver selected by archive.mode.
func FromConfig(cfg *config.Config) (port.Archiver, error) {
	switch cfg.Archive.Mode {
	case "", "local":
		return NewLocal(cfg.Data), nil
	case "s3":
		return NewS3(&cfg.Archive)
	default:
		return nil, fmt.Errorf("archive.FromConfig: unknown mode %q", cfg.Archive.Mode)
	}
}
