// Package workers holds the background maintenance jobs of the folio
// authentication server. Each worker runs on its own ticker until the
// process context is cancelled.
package workers

import "context"

// Worker is a background job tied to the process lifetime. Run blocks
// until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
