// Package progress defines the observer boundary for transfer feedback.
//
// The pipeline reports through a single injected Reporter owned by the batch
// driver, so the transfer code never touches the console directly and no
// shared output state needs guarding while the pipeline stays sequential.
package progress

import "github.com/pithecene-io/courier/types"

// Reporter receives transfer lifecycle notifications.
//
// Each connection attempt for a file opens with FileStarted, followed by
// zero or more Progress calls with a non-decreasing percentage ending at
// exactly 100 on success. A retried file restarts from FileStarted.
// FileFinished fires once per file, after its final attempt. BatchDone is
// called once after the last file.
// Implementations are not required to be safe for concurrent use; the
// pipeline calls them from a single goroutine.
type Reporter interface {
	FileStarted(desc types.FileDescriptor)
	Progress(percent int)
	FileFinished(res types.FileResult)
	BatchDone(sum types.BatchSummary)
}

// Nop is a Reporter that discards all notifications.
type Nop struct{}

// FileStarted implements Reporter.
func (Nop) FileStarted(types.FileDescriptor) {}

// Progress implements Reporter.
func (Nop) Progress(int) {}

// FileFinished implements Reporter.
func (Nop) FileFinished(types.FileResult) {}

// BatchDone implements Reporter.
func (Nop) BatchDone(types.BatchSummary) {}

// Verify Nop implements Reporter.
var _ Reporter = Nop{}
