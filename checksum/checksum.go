// Package checksum computes hex-encoded MD5 content digests.
//
// The digest is a fingerprint for integrity verification on the receiving
// side, not a security boundary; MD5 is what the wire protocol specifies.
package checksum

import (
	"crypto/md5" //nolint:gosec // protocol-mandated integrity digest, not auth
	"encoding/hex"
	"hash"
	"io"
	"os"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/wire"
)

// HexLength is the length of an encoded digest: 32 hex characters
// (two per byte of the 128-bit digest).
const HexLength = 2 * md5.Size

// New returns a streaming digest accumulator. Feed payload bytes with
// Write, then render with Hex.
func New() hash.Hash {
	return md5.New() //nolint:gosec
}

// Hex finalizes h and renders the digest as lowercase hexadecimal.
func Hex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// SumReader streams r through a digest accumulator in fixed-size chunks
// and returns the lowercase hex digest.
func SumReader(r io.Reader) (string, error) {
	h := New()
	buf := make([]byte, wire.DefaultChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return Hex(h), nil
}

// Sum opens path in binary mode and returns the hex digest of its full
// content. The file is read in fixed-size chunks so arbitrarily large
// files never load into memory at once.
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer iox.DiscardClose(f)
	return SumReader(f)
}
