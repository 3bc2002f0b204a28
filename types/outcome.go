package types

import "time"

// TransferOutcome classifies the result of one delivery attempt.
// The terminal outcome of a delivery is the outcome of its last attempt.
type TransferOutcome string

const (
	// OutcomeSuccess indicates all protocol writes completed without a
	// local I/O error. The remote never acknowledges, so this is the only
	// definition of success.
	OutcomeSuccess TransferOutcome = "success"
	// OutcomeOpenFailed indicates the file could not be opened (or its
	// size does not fit the wire format). No connection bytes were written
	// and the delivery is not retried.
	OutcomeOpenFailed TransferOutcome = "open_failed"
	// OutcomeConnectionFailed indicates dialing the remote endpoint failed.
	OutcomeConnectionFailed TransferOutcome = "connection_failed"
	// OutcomeWriteFailed indicates a write to an established connection
	// failed partway. The connection is discarded.
	OutcomeWriteFailed TransferOutcome = "write_failed"
)

// Terminal reports whether the outcome ends a delivery without further
// attempts. Success always ends a delivery; open failures are never retried.
func (o TransferOutcome) Terminal() bool {
	return o == OutcomeSuccess || o == OutcomeOpenFailed
}

// FileResult is the journal record for one completed delivery.
type FileResult struct {
	// RecordVersion ties the record to the journal format version.
	RecordVersion string `msgpack:"record_version" json:"record_version"`
	// Descriptor identifies the file.
	Descriptor FileDescriptor `msgpack:"descriptor" json:"descriptor"`
	// Outcome is the terminal outcome of the delivery.
	Outcome TransferOutcome `msgpack:"outcome" json:"outcome"`
	// Attempts is the number of connection attempts made.
	Attempts int `msgpack:"attempts" json:"attempts"`
	// BytesSent is the payload byte count written on the final attempt.
	BytesSent int64 `msgpack:"bytes_sent" json:"bytes_sent"`
	// Checksum is the lowercase hex digest transmitted, empty on failure.
	Checksum string `msgpack:"checksum,omitempty" json:"checksum,omitempty"`
	// Error is the failure description, empty on success.
	Error string `msgpack:"error,omitempty" json:"error,omitempty"`
	// Ts is the completion time in RFC 3339 UTC.
	Ts string `msgpack:"ts" json:"ts"`
}

// NewFileResult stamps a FileResult with the record version and current time.
func NewFileResult(desc FileDescriptor, outcome TransferOutcome) FileResult {
	return FileResult{
		RecordVersion: Version,
		Descriptor:    desc,
		Outcome:       outcome,
		Ts:            time.Now().UTC().Format(time.RFC3339),
	}
}
