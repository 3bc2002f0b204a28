// Package wire implements the courier frame codec.
//
// A frame field is a 4-byte big-endian unsigned length prefix followed by
// raw bytes. The file-size field is the exception: it is a raw 4-byte
// big-endian value with no prefix. Payload chunks carry no framing at all.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// LengthPrefixSize is the size of a field length prefix in bytes.
	LengthPrefixSize = 4
	// DefaultChunkSize is the payload chunk size used by transfer sessions
	// and by the checksum engine.
	DefaultChunkSize = 4096
	// MaxFieldSize bounds decoded field lengths (16 MiB). Fields on the
	// sending side (name, checksum) are far smaller; the bound protects
	// the journal reader against corrupt length prefixes.
	MaxFieldSize = 16 * 1024 * 1024
)

// WriteError represents a failed write to the underlying stream.
// No partial-field state is recoverable: once a WriteError occurs the
// connection must be discarded and the attempt aborted.
type WriteError struct {
	// Op names the field being written ("field", "uint32", "payload").
	Op string
	// Err is the underlying stream error.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("wire: write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err is (or wraps) a stream write failure.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// FieldErrorKind classifies field decoding errors.
type FieldErrorKind int

const (
	// FieldErrorPartial indicates a truncated length prefix or field body.
	FieldErrorPartial FieldErrorKind = iota
	// FieldErrorTooLarge indicates a length prefix exceeding the limit.
	FieldErrorTooLarge
)

// FieldError represents a field decoding error.
type FieldError struct {
	Kind FieldErrorKind
	Msg  string
	Err  error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// WriteField writes b as a length-prefixed field: a 4-byte big-endian
// length followed by the raw bytes.
func WriteField(w io.Writer, b []byte) error {
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(b)))
	if _, err := w.Write(prefix[:]); err != nil {
		return &WriteError{Op: "field", Err: err}
	}
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return &WriteError{Op: "field", Err: err}
	}
	return nil
}

// WriteUint32 writes v as a raw 4-byte big-endian value with no prefix.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return &WriteError{Op: "uint32", Err: err}
	}
	return nil
}

// WriteChunk writes one payload chunk as raw bytes with no framing.
func WriteChunk(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return &WriteError{Op: "payload", Err: err}
	}
	return nil
}

// ReadField reads one length-prefixed field from r.
// max bounds the accepted field length; pass MaxFieldSize unless the caller
// knows a tighter bound.
//
// Errors:
//   - io.EOF: stream ended cleanly before a prefix (no more fields)
//   - *FieldError with Kind=FieldErrorPartial: truncated prefix or body
//   - *FieldError with Kind=FieldErrorTooLarge: length exceeds max
func ReadField(r io.Reader, max uint32) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FieldError{
			Kind: FieldErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length > max {
		return nil, &FieldError{
			Kind: FieldErrorTooLarge,
			Msg:  fmt.Sprintf("field length %d exceeds maximum %d", length, max),
		}
	}

	field := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, field); err != nil {
			return nil, &FieldError{
				Kind: FieldErrorPartial,
				Msg:  "failed to read field body",
				Err:  err,
			}
		}
	}
	return field, nil
}

// ReadUint32 reads a raw 4-byte big-endian value with no prefix.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &FieldError{
			Kind: FieldErrorPartial,
			Msg:  "failed to read uint32",
			Err:  err,
		}
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
