// Package metrics provides per-batch metrics collection.
//
// The Collector accumulates counters during a single batch run. It is a leaf
// package with no internal dependencies. All increment methods are
// nil-receiver safe so callers can run without a collector wired in.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all batch counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Files
	FilesAttempted int64
	FilesSucceeded int64
	FilesFailed    int64

	// Transfer
	BytesSent         int64
	ChecksumsComputed int64

	// Connection
	ConnectAttempts int64
	ConnectFailures int64
	WriteFailures   int64
	Retries         int64

	// Dimensions (informational, set at construction)
	BatchID string
	Remote  string
}

// Collector accumulates metrics during a single batch run.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	filesAttempted int64
	filesSucceeded int64
	filesFailed    int64

	bytesSent         int64
	checksumsComputed int64

	connectAttempts int64
	connectFailures int64
	writeFailures   int64
	retries         int64

	batchID string
	remote  string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(batchID, remote string) *Collector {
	return &Collector{batchID: batchID, remote: remote}
}

// --- Files ---

// IncFileAttempted records a file entering delivery.
func (c *Collector) IncFileAttempted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesAttempted++
	c.mu.Unlock()
}

// IncFileSucceeded records a delivered file.
func (c *Collector) IncFileSucceeded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesSucceeded++
	c.mu.Unlock()
}

// IncFileFailed records a file whose delivery ended in failure.
func (c *Collector) IncFileFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesFailed++
	c.mu.Unlock()
}

// --- Transfer ---

// AddBytesSent records payload bytes written to the connection.
func (c *Collector) AddBytesSent(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.bytesSent += n
	c.mu.Unlock()
}

// IncChecksumComputed records one digest computation.
func (c *Collector) IncChecksumComputed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.checksumsComputed++
	c.mu.Unlock()
}

// --- Connection ---

// IncConnectAttempt records one dial attempt.
func (c *Collector) IncConnectAttempt() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.connectAttempts++
	c.mu.Unlock()
}

// IncConnectFailure records a failed dial.
func (c *Collector) IncConnectFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.connectFailures++
	c.mu.Unlock()
}

// IncWriteFailure records a stream write failure on an established connection.
func (c *Collector) IncWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.writeFailures++
	c.mu.Unlock()
}

// IncRetry records a delay-then-reconnect cycle.
func (c *Collector) IncRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.retries++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		FilesAttempted: c.filesAttempted,
		FilesSucceeded: c.filesSucceeded,
		FilesFailed:    c.filesFailed,

		BytesSent:         c.bytesSent,
		ChecksumsComputed: c.checksumsComputed,

		ConnectAttempts: c.connectAttempts,
		ConnectFailures: c.connectFailures,
		WriteFailures:   c.writeFailures,
		Retries:         c.retries,

		BatchID: c.batchID,
		Remote:  c.remote,
	}
}
