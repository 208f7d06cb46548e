// Package vfat exposes a FAT12/16/32 filesystem image as a boot media
// volume. Removable boot media and EFI system partitions are FAT formatted,
// so this is the backend a real medium image ends up on.
package vfat

import (
	"fmt"
	"io"
	"os"

	"github.com/BiatuAutMiahn/wimboot/pkg/media/aferofs"
	"github.com/aligator/gofat"
)

// Volume is a FAT filesystem image opened as a boot volume.
type Volume struct {
	*aferofs.Volume

	closer io.Closer
}

// Open opens the named FAT image file.
func Open(name string) (*Volume, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	v, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	v.closer = f
	return v, nil
}

// New opens a FAT filesystem from the given reader.
func New(r io.ReadSeeker) (*Volume, error) {
	fs, err := gofat.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open FAT filesystem: %w", err)
	}
	return &Volume{Volume: aferofs.New(fs)}, nil
}

// Close releases the volume interface. The underlying image reader is kept
// open so that files opened through the root directory remain readable.
func (v *Volume) Close() error {
	return nil
}

// Release closes the underlying image file, if Open opened one. Only call
// this once every extracted file handle is no longer needed.
func (v *Volume) Release() error {
	if v.closer != nil {
		return v.closer.Close()
	}
	return nil
}
