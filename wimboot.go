// Package wimboot extracts the files of a boot medium into an in-memory
// catalog, classifying the platform boot loader, the boot configuration
// database and disk image files so they can be served through a virtual
// disk with content patches applied.
package wimboot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/BiatuAutMiahn/wimboot/pkg/media"
	"github.com/BiatuAutMiahn/wimboot/pkg/media/aferofs"
	"github.com/BiatuAutMiahn/wimboot/pkg/media/iso"
	"github.com/BiatuAutMiahn/wimboot/pkg/media/vfat"
	"github.com/BiatuAutMiahn/wimboot/pkg/patch"
	"github.com/BiatuAutMiahn/wimboot/pkg/vdisk"
)

// Config controls a single extraction run.
type Config struct {
	// RawBCD disables the ".exe" to ".efi" rewrite of BCD entries.
	RawBCD bool
	// Arch selects the boot architecture; empty means the build
	// architecture.
	Arch string
	// PatchWIM, when set, is attached to every WIM entry.
	PatchWIM vdisk.PatchFunc
	// DisableCache bypasses the served-chunk read cache.
	DisableCache bool
}

// Boot is an extracted boot medium: the populated file table and resolved
// boot file name, ready for the virtual disk consumer.
type Boot struct {
	*vdisk.Catalog

	closer io.Closer
}

// Open opens the named boot medium and extracts its root directory. The
// medium may be a FAT image, an ISO9660 image, or a plain directory.
func Open(name string, c *Config) (*Boot, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		cat, err := Extract(aferofs.Open(name), c)
		if err != nil {
			return nil, err
		}
		return &Boot{Catalog: cat}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	typ, err := detectMedia(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	var vol media.Volume
	switch typ {
	case VFAT:
		vol, err = vfat.New(f)
	case ISO9660:
		vol, err = iso.New(f)
	default:
		err = fmt.Errorf("unknown media type")
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	cat, err := Extract(vol, c)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Boot{Catalog: cat, closer: f}, nil
}

// Close releases the underlying medium image. The catalog's file handles
// become unreadable after Close, so only call it once they are no longer
// needed. If the Boot was built from Extract directly, Close has no effect.
func (b *Boot) Close() error {
	var err error
	if b.closer != nil {
		err = b.closer.Close()
		b.closer = nil
	}
	return err
}

// Extract enumerates the root directory of the given volume and populates
// the catalog. Any failure of the underlying medium is fatal to the run:
// an incomplete file table must never reach the virtual disk consumer.
func Extract(vol media.Volume, c *Config) (*vdisk.Catalog, error) {
	if c == nil {
		c = &Config{}
	}
	bootarch := bootArch(removableMediaPath(c.Arch))

	root, err := vol.OpenRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}

	// The volume interface is no longer needed once the root is open.
	vol.Close()

	cat, err := vdisk.New(&vdisk.Config{DisableCache: c.DisableCache})
	if err != nil {
		return nil, err
	}

	bcd := &patch.BCD{Disabled: c.RawBCD}

	for {
		fi, err := root.ReadEntry()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read root directory: %w", err)
		}

		if cat.Len() >= vdisk.MaxFiles {
			return nil, vdisk.ErrTooManyFiles
		}

		f, err := root.Open(fi.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", fi.Name, err)
		}

		entry, err := cat.Add(fi.Name, fi.Size, f)
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"name": entry.Name,
			"size": humanize.Bytes(uint64(entry.Size)),
		}).Debug("using file")

		switch {
		case strings.EqualFold(fi.Name, bootarch),
			strings.EqualFold(fi.Name, "bootmgfw.efi"):
			log.Debugf("found boot file %s", entry.Name)
			cat.SetBootFile(entry.Name)
		case strings.EqualFold(fi.Name, "BCD"):
			log.Debug("found BCD")
			entry.SetPatch(bcd.Patch)
		case hasWIMSuffix(fi.Name):
			log.Debugf("found WIM file %s", entry.Name)
			if c.PatchWIM != nil {
				entry.SetPatch(c.PatchWIM)
			}
		}
	}

	if cat.BootFile() == "" {
		return nil, fmt.Errorf("no %s or bootmgfw.efi found", bootarch)
	}
	return cat, nil
}

// hasWIMSuffix guards against names shorter than the suffix itself.
func hasWIMSuffix(name string) bool {
	return len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".wim")
}
