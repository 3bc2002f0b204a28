// Package journal persists per-file delivery results to a local append-only
// log. Records are msgpack-encoded and framed with the same 4-byte
// big-endian length prefix the wire protocol uses, so the reader tolerates
// truncated tails from an interrupted batch without scanning heuristics.
package journal

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/types"
	"github.com/pithecene-io/courier/wire"
)

// MaxRecordSize bounds decoded journal records. Records are small; the
// bound protects the reader against a corrupt length prefix.
const MaxRecordSize = 1 * 1024 * 1024

// Writer appends delivery records to a journal file.
type Writer struct {
	f *os.File
}

// OpenWriter opens (creating if needed) the journal at path for appending.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// Append writes one record as a length-prefixed msgpack frame.
func (w *Writer) Append(res types.FileResult) error {
	payload, err := msgpack.Marshal(&res)
	if err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}
	if err := wire.WriteField(w.f, payload); err != nil {
		return fmt.Errorf("journal: append record: %w", err)
	}
	return nil
}

// Close flushes and closes the journal file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Reader iterates the records of a journal file in append order.
type Reader struct {
	r io.ReadCloser
}

// OpenReader opens the journal at path for reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &Reader{r: f}, nil
}

// Next returns the next record. io.EOF signals a clean end of journal;
// a *wire.FieldError signals a truncated or corrupt tail.
func (r *Reader) Next() (types.FileResult, error) {
	payload, err := wire.ReadField(r.r, MaxRecordSize)
	if err != nil {
		return types.FileResult{}, err
	}
	var res types.FileResult
	if err := msgpack.Unmarshal(payload, &res); err != nil {
		return types.FileResult{}, fmt.Errorf("journal: decode record: %w", err)
	}
	return res, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.r.Close()
}

// ReadAll loads every record from the journal at path.
func ReadAll(path string) ([]types.FileResult, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer iox.DiscardClose(r)

	var records []types.FileResult
	for {
		res, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, res)
	}
}

// Totals aggregates journal records into derived facts for the CLI.
type Totals struct {
	Files     int64            `json:"files"`
	Succeeded int64            `json:"succeeded"`
	Failed    int64            `json:"failed"`
	BytesSent int64            `json:"bytes_sent"`
	Attempts  int64            `json:"attempts"`
	ByOutcome map[string]int64 `json:"by_outcome"`
}

// Aggregate folds records into Totals.
func Aggregate(records []types.FileResult) Totals {
	totals := Totals{ByOutcome: make(map[string]int64)}
	for _, res := range records {
		totals.Files++
		totals.BytesSent += res.BytesSent
		totals.Attempts += int64(res.Attempts)
		totals.ByOutcome[string(res.Outcome)]++
		if res.Outcome == types.OutcomeSuccess {
			totals.Succeeded++
		} else {
			totals.Failed++
		}
	}
	return totals
}
