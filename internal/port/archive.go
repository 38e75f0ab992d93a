package port

import "context"

// Archiver moves a consumed input file to its processed location so the next
// run does not reingest it.
type Archiver interface {
	Archive(ctx context.Context, tenantID, path string) error
}
