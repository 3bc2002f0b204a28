// Package batch walks a directory tree and delivers each regular file
// sequentially, waiting for a terminal outcome before starting the next.
package batch

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/pithecene-io/courier/deliver"
	"github.com/pithecene-io/courier/log"
	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/progress"
	"github.com/pithecene-io/courier/types"
)

// Deliverer ships one file to the remote endpoint, driving retries
// internally. *deliver.Deliverer satisfies this.
type Deliverer interface {
	Deliver(ctx context.Context, path string) deliver.Result
}

// Journal records terminal outcomes. *journal.Writer satisfies this.
type Journal interface {
	Append(types.FileResult) error
}

// Driver enumerates files under a root and invokes the Deliverer once per
// file, strictly sequentially. Reporter and Journal are optional.
type Driver struct {
	Deliverer Deliverer
	Reporter  progress.Reporter
	Journal   Journal
	Logger    *log.Logger
	Metrics   *metrics.Collector
}

func (d *Driver) reporter() progress.Reporter {
	if d.Reporter != nil {
		return d.Reporter
	}
	return progress.Nop{}
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.NewLogger(log.BatchMeta{})
}

// Run walks root depth-first and delivers every regular file found.
//
// Per-file failures are reported and the run continues. Three conditions
// abort the whole run: a directory enumeration error, a host resolution
// failure (there is no endpoint to retry against), and context
// cancellation. The summary covers files attempted up to that point.
func (d *Driver) Run(ctx context.Context, root string) (types.BatchSummary, error) {
	logger := d.logger()
	rep := d.reporter()
	var sum types.BatchSummary

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !types.IsRegular(entry) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		d.Metrics.IncFileAttempted()
		sum.Files++

		res := d.Deliverer.Deliver(ctx, path)
		fileRes := d.record(res, entry)

		if res.Outcome == types.OutcomeSuccess {
			sum.Succeeded++
			sum.BytesSent += res.BytesSent
			d.Metrics.IncFileSucceeded()
		} else {
			sum.Failed++
			d.Metrics.IncFileFailed()
		}

		rep.FileFinished(fileRes)

		if deliver.IsResolveError(res.Err) {
			return res.Err
		}
		return nil
	})

	if walkErr != nil {
		logger.Error("batch aborted", map[string]any{
			"root": root, "error": walkErr.Error(),
		})
	} else {
		logger.Info("batch complete", map[string]any{
			"files":      sum.Files,
			"succeeded":  sum.Succeeded,
			"failed":     sum.Failed,
			"bytes_sent": sum.BytesSent,
		})
	}

	rep.BatchDone(sum)
	return sum, walkErr
}

// record converts a delivery result into a journal record and appends it.
func (d *Driver) record(res deliver.Result, entry fs.DirEntry) types.FileResult {
	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}

	fileRes := types.NewFileResult(types.FileDescriptor{Path: res.Path, Size: size}, res.Outcome)
	fileRes.Attempts = res.Attempts
	fileRes.BytesSent = res.BytesSent
	fileRes.Checksum = res.Checksum
	if res.Err != nil {
		fileRes.Error = res.Err.Error()
	}

	if d.Journal != nil {
		if err := d.Journal.Append(fileRes); err != nil {
			d.logger().Warn("journal append failed", map[string]any{
				"path": res.Path, "error": err.Error(),
			})
		}
	}
	return fileRes
}
