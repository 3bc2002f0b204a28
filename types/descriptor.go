// Package types defines core domain types for the courier pipeline.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"fmt"
	"io/fs"
	"os"
)

// FileDescriptor identifies one file for the duration of a single transfer.
// Size is captured at transfer start and is not re-checked afterwards.
type FileDescriptor struct {
	// Path is the file path as enumerated by the batch driver.
	// It is transmitted verbatim as the name field on the wire.
	Path string `msgpack:"path" json:"path"`
	// Size is the total payload byte count.
	Size int64 `msgpack:"size" json:"size"`
}

// Describe stats path and builds a FileDescriptor for it.
// Returns an error if the path does not exist or is not a regular file.
func Describe(path string) (FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileDescriptor{}, err
	}
	if !info.Mode().IsRegular() {
		return FileDescriptor{}, fmt.Errorf("not a regular file: %s", path)
	}
	return FileDescriptor{Path: path, Size: info.Size()}, nil
}

// IsRegular reports whether a directory entry is a plain file
// (not a directory, symlink, socket, or device).
func IsRegular(d fs.DirEntry) bool {
	return d.Type().IsRegular()
}
