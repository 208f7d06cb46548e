// Package iso exposes an ISO9660 image as a boot media volume.
package iso

import (
	"fmt"
	"io"
	"os"

	"github.com/BiatuAutMiahn/wimboot/pkg/media"
	"github.com/kdomanski/iso9660"
)

// Volume is an ISO9660 image opened as a boot volume.
type Volume struct {
	img    *iso9660.Image
	closer io.Closer
}

// Open opens the named ISO image file.
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

// New opens an ISO9660 image from the given reader.
func New(r io.ReaderAt) (*Volume, error) {
	img, err := iso9660.OpenImage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open ISO9660 image: %w", err)
	}
	return &Volume{img: img}, nil
}

// OpenRoot opens the root directory of the image.
func (v *Volume) OpenRoot() (media.Directory, error) {
	root, err := v.img.RootDir()
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}
	children, err := root.GetChildren()
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}
	return &rootDir{entries: children}, nil
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

type rootDir struct {
	entries []*iso9660.File
	next    int
}

func (d *rootDir) ReadEntry() (*media.FileInfo, error) {
	for d.next < len(d.entries) {
		f := d.entries[d.next]
		d.next++
		if f.IsDir() || f.Name() == "." || f.Name() == ".." {
			continue
		}
		return &media.FileInfo{Name: f.Name(), Size: f.Size()}, nil
	}
	return nil, io.EOF
}

func (d *rootDir) Open(name string) (media.File, error) {
	for _, f := range d.entries {
		if f.Name() == name {
			return &file{f: f}, nil
		}
	}
	return nil, fmt.Errorf("no such file %q", name)
}

// file adapts an ISO9660 file to io.ReaderAt. The iso9660 reader hands out a
// fresh stream per call, so each read re-seeks from the start of the file.
type file struct {
	f *iso9660.File
}

func (f *file) ReadAt(p []byte, off int64) (n int, err error) {
	r := f.f.Reader()
	if ra, ok := r.(io.ReaderAt); ok {
		return ra.ReadAt(p, off)
	}
	if _, err := io.CopyN(io.Discard, r, off); err != nil {
		return 0, err
	}
	return io.ReadFull(r, p)
}
