package media

import (
	"io"
)

// FileInfo is one directory entry as reported by the medium.
type FileInfo struct {
	Name string
	Size int64
}

// File is an open read-only file on a boot medium.
//
// Ownership of a File transfers to whoever holds it; this package and the
// extraction engine never close one. The backing medium must keep every
// opened File readable until the whole medium is released.
type File interface {
	io.ReaderAt
}

// Directory enumerates and opens the entries of a single directory.
type Directory interface {
	// ReadEntry returns the next entry, or io.EOF at end of directory.
	ReadEntry() (*FileInfo, error)
	// Open opens the named entry read-only.
	Open(name string) (File, error)
}

// Volume is a boot medium's file-system interface, the moral equivalent of
// the firmware simple-file-system protocol bound to a device handle.
type Volume interface {
	// OpenRoot opens the root directory of the volume.
	OpenRoot() (Directory, error)
	// Close releases the volume interface itself. Files opened through the
	// root directory remain readable after Close.
	Close() error
}
