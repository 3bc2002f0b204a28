// Package transfer drives the per-file wire protocol over an established
// connection: name field, raw size, payload chunks, checksum field.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pithecene-io/courier/checksum"
	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/progress"
	"github.com/pithecene-io/courier/types"
	"github.com/pithecene-io/courier/wire"
)

// ErrFileTooLarge is returned when a file's size does not fit the 4-byte
// size field of the wire format.
var ErrFileTooLarge = errors.New("file size exceeds wire format limit")

// OpenError indicates the file could not be prepared for sending.
// It is always returned before any bytes touch the connection, so the
// connection remains usable and the delivery is not retried.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("transfer: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// IsOpenError reports whether err is (or wraps) a file-open failure.
func IsOpenError(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}

// Result describes a completed transfer.
type Result struct {
	Descriptor types.FileDescriptor
	BytesSent  int64
	Checksum   string
}

// Session sends single files over already-connected streams.
// The zero value uses the default chunk size and a no-op reporter.
type Session struct {
	// ChunkSize is the payload chunk size; wire.DefaultChunkSize if zero.
	ChunkSize int
	// Reporter receives progress notifications; nil disables them.
	Reporter progress.Reporter
	// Metrics receives byte and checksum counters; nil disables them.
	Metrics *metrics.Collector
}

func (s *Session) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return wire.DefaultChunkSize
}

func (s *Session) reporter() progress.Reporter {
	if s.Reporter != nil {
		return s.Reporter
	}
	return progress.Nop{}
}

// Send transfers the file at path over conn.
//
// Protocol sequence, in strict order: length-prefixed name field, raw
// big-endian uint32 size, payload in fixed-size chunks with no per-chunk
// framing, length-prefixed hex checksum field. The digest accumulates over
// the payload chunks as they are streamed, so it is computed exactly once.
//
// An *OpenError is returned before any protocol bytes are written. Any
// other error means the connection is corrupted mid-field and must not be
// reused for a retry.
func (s *Session) Send(conn io.Writer, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &OpenError{Path: path, Err: err}
	}
	defer iox.DiscardClose(f)

	info, err := f.Stat()
	if err != nil {
		return Result{}, &OpenError{Path: path, Err: err}
	}
	size := info.Size()
	if size > math.MaxUint32 {
		return Result{}, &OpenError{Path: path, Err: ErrFileTooLarge}
	}

	desc := types.FileDescriptor{Path: path, Size: size}
	rep := s.reporter()
	rep.FileStarted(desc)

	if err := wire.WriteField(conn, []byte(path)); err != nil {
		return Result{}, fmt.Errorf("send name: %w", err)
	}
	if err := wire.WriteUint32(conn, uint32(size)); err != nil {
		return Result{}, fmt.Errorf("send size: %w", err)
	}

	hasher := checksum.New()
	buf := make([]byte, s.chunkSize())
	var sent int64

	for sent < size {
		n, readErr := f.Read(buf)
		if n > 0 {
			if err := wire.WriteChunk(conn, buf[:n]); err != nil {
				return Result{}, fmt.Errorf("send payload at offset %d: %w", sent, err)
			}
			hasher.Write(buf[:n])
			sent += int64(n)
			s.Metrics.AddBytesSent(int64(n))
			rep.Progress(int(100 * sent / size))
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return Result{}, fmt.Errorf("read %s at offset %d: %w", path, sent, readErr)
		}
	}
	if sent != size {
		// The size field already promised more bytes than the file holds;
		// the stream is out of sync and cannot be repaired.
		return Result{}, fmt.Errorf("short read on %s: sent %d of %d bytes", path, sent, size)
	}
	if size == 0 {
		rep.Progress(100)
	}

	sum := checksum.Hex(hasher)
	s.Metrics.IncChecksumComputed()

	if err := wire.WriteField(conn, []byte(sum)); err != nil {
		return Result{}, fmt.Errorf("send checksum: %w", err)
	}

	return Result{Descriptor: desc, BytesSent: sent, Checksum: sum}, nil
}
