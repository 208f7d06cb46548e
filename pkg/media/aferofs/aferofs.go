// Package aferofs exposes any afero filesystem as a boot media volume.
package aferofs

import (
	"fmt"
	"io"
	"os"

	"github.com/BiatuAutMiahn/wimboot/pkg/media"
	"github.com/spf13/afero"
)

// Volume adapts an afero.Fs to media.Volume.
type Volume struct {
	fs afero.Fs
}

// New wraps an existing afero filesystem.
func New(fs afero.Fs) *Volume {
	return &Volume{fs: fs}
}

// Open exposes a host directory as a read-only boot volume.
func Open(dir string) *Volume {
	return &Volume{fs: afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))}
}

// OpenRoot opens the root directory of the volume.
func (v *Volume) OpenRoot() (media.Directory, error) {
	f, err := v.fs.Open("/")
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}

	return &rootDir{fs: v.fs, entries: infos}, nil
}

// Close releases the volume interface. Open files stay readable.
func (v *Volume) Close() error {
	return nil
}

type rootDir struct {
	fs      afero.Fs
	entries []os.FileInfo
	next    int
}

func (d *rootDir) ReadEntry() (*media.FileInfo, error) {
	for d.next < len(d.entries) {
		fi := d.entries[d.next]
		d.next++
		if fi.IsDir() {
			continue
		}
		return &media.FileInfo{Name: fi.Name(), Size: fi.Size()}, nil
	}
	return nil, io.EOF
}

func (d *rootDir) Open(name string) (media.File, error) {
	f, err := d.fs.Open("/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", name, err)
	}
	return f, nil
}
