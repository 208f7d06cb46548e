// Package vdisk holds the in-memory catalog of boot medium files that the
// virtual disk serves to the booted loader.
package vdisk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BiatuAutMiahn/wimboot/pkg/media"
	"github.com/apex/log"
	"github.com/fatih/color"
	lru "github.com/hashicorp/golang-lru"
)

const (
	// MaxFiles is the fixed capacity of the file table.
	MaxFiles = 8
	// NameLen is the fixed capacity of an entry name, terminator included.
	NameLen = 32

	// readCacheSize is the number of served chunks kept by the read cache.
	readCacheSize = 64
)

// BootColor highlights the resolved boot file in listings.
var BootColor = color.New(color.Bold, color.FgHiCyan).SprintfFunc()

// PatchColor highlights entries served with a patch hook attached.
var PatchColor = color.New(color.FgYellow).SprintfFunc()

// ErrTooManyFiles is returned when the file table capacity is exceeded.
var ErrTooManyFiles = errors.New("too many files")

// PatchFunc rewrites served bytes in place. The buffer was read from the
// given file offset; the rewrite must never change the buffer length.
type PatchFunc func(p []byte, off int64)

// Entry is one file of the virtual disk.
type Entry struct {
	Name string
	Size int64

	// Handle is the open file on the boot medium. Ownership transfers to
	// the catalog and its consumer; it is never closed here.
	Handle media.File

	patch PatchFunc
	cat   *Catalog
}

// SetPatch attaches a patch hook, applied in place after every read.
func (e *Entry) SetPatch(p PatchFunc) {
	e.patch = p
}

// Patched reports whether a patch hook is attached.
func (e *Entry) Patched() bool {
	return e.patch != nil
}

// ReadAt fills p with the served content of the entry starting at off,
// applying the patch hook when one is attached. The caller must keep
// off+len(p) within the recorded entry size.
func (e *Entry) ReadAt(p []byte, off int64) error {
	key := fmt.Sprintf("%s@%#x+%#x", e.Name, off, len(p))
	if e.cat != nil && e.cat.cache != nil {
		if v, ok := e.cat.cache.Get(key); ok {
			copy(p, v.([]byte))
			return nil
		}
	}

	if _, err := e.Handle.ReadAt(p, off); err != nil {
		return fmt.Errorf("failed to read from %q: %w", e.Name, err)
	}
	if e.patch != nil {
		e.patch(p, off)
	}

	if e.cat != nil && e.cat.cache != nil {
		chunk := make([]byte, len(p))
		copy(chunk, p)
		e.cat.cache.Add(key, chunk)
	}
	return nil
}

// Config is the catalog config.
type Config struct {
	DisableCache bool
}

// Catalog is the append-only, capacity-bound file table plus the resolved
// boot file name. It is populated once by a single extraction pass and read
// only afterwards.
type Catalog struct {
	files    []*Entry
	bootFile string
	cache    *lru.Cache
}

// New creates an empty catalog.
func New(c *Config) (*Catalog, error) {
	if c == nil {
		c = &Config{}
	}
	cat := &Catalog{}
	if !c.DisableCache {
		var err error
		cat.cache, err = lru.New(readCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vdisk read cache: %w", err)
		}
	}
	return cat, nil
}

// Add appends a new entry, enforcing the table capacity. Names longer than
// the fixed identifier capacity are truncated.
func (c *Catalog) Add(name string, size int64, f media.File) (*Entry, error) {
	if len(c.files) >= MaxFiles {
		return nil, ErrTooManyFiles
	}
	if len(name) >= NameLen {
		log.Debugf("truncating file name %q to %d bytes", name, NameLen-1)
		name = name[:NameLen-1]
	}
	e := &Entry{
		Name:   name,
		Size:   size,
		Handle: f,
		cat:    c,
	}
	c.files = append(c.files, e)
	return e, nil
}

// Files returns the entries in enumeration order.
func (c *Catalog) Files() []*Entry {
	return c.files
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.files)
}

// Lookup finds an entry by name, case-insensitively.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	for _, e := range c.files {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return nil, false
}

// SetBootFile records the boot file name. Only the first call takes effect.
func (c *Catalog) SetBootFile(name string) {
	if c.bootFile == "" {
		c.bootFile = name
	}
}

// BootFile returns the resolved boot file name, empty if none was found.
func (c *Catalog) BootFile() string {
	return c.bootFile
}
