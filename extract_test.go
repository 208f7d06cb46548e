package wimboot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/BiatuAutMiahn/wimboot/pkg/media"
	"github.com/BiatuAutMiahn/wimboot/pkg/vdisk"
)

type fakeFile struct {
	data []byte
}

func (f *fakeFile) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(f.data).ReadAt(p, off)
}

type fakeVolume struct {
	names  []string
	closed bool
}

func (v *fakeVolume) OpenRoot() (media.Directory, error) {
	return &fakeDir{names: v.names}, nil
}

func (v *fakeVolume) Close() error {
	v.closed = true
	return nil
}

type fakeDir struct {
	names []string
	next  int
}

func (d *fakeDir) ReadEntry() (*media.FileInfo, error) {
	if d.next >= len(d.names) {
		return nil, io.EOF
	}
	name := d.names[d.next]
	d.next++
	return &media.FileInfo{Name: name, Size: 16}, nil
}

func (d *fakeDir) Open(name string) (media.File, error) {
	return &fakeFile{data: make([]byte, 16)}, nil
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		arch        string
		patchWIM    bool
		wantErr     string
		wantBoot    string
		wantPatched []string
	}{
		{
			name:     "arch default only",
			files:    []string{"BOOTX64.EFI"},
			arch:     "amd64",
			wantBoot: "BOOTX64.EFI",
		},
		{
			name:     "mixed case bootmgfw",
			files:    []string{"BootMgFw.EFI"},
			arch:     "amd64",
			wantBoot: "BootMgFw.EFI",
		},
		{
			name:     "first boot file wins",
			files:    []string{"bootmgfw.efi", "BOOTX64.EFI"},
			arch:     "amd64",
			wantBoot: "bootmgfw.efi",
		},
		{
			name:        "bcd gets the patch hook",
			files:       []string{"bootmgfw.efi", "bcd", "bcd.txt"},
			arch:        "amd64",
			wantBoot:    "bootmgfw.efi",
			wantPatched: []string{"bcd"},
		},
		{
			name:        "wim suffix gets the patch hook",
			files:       []string{"bootmgfw.efi", "INSTALL.WIM", "boot.wimx"},
			arch:        "amd64",
			patchWIM:    true,
			wantBoot:    "bootmgfw.efi",
			wantPatched: []string{"INSTALL.WIM"},
		},
		{
			name:     "arm64 default",
			files:    []string{"bootaa64.efi"},
			arch:     "arm64",
			wantBoot: "bootaa64.efi",
		},
		{
			name:    "empty medium",
			files:   []string{},
			arch:    "amd64",
			wantErr: "no BOOTX64.EFI or bootmgfw.efi found",
		},
		{
			name:    "no boot file",
			files:   []string{"BCD", "boot.sdi"},
			arch:    "amd64",
			wantErr: "no BOOTX64.EFI or bootmgfw.efi found",
		},
		{
			name: "too many files",
			files: []string{
				"bootmgfw.efi", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8",
			},
			arch:    "amd64",
			wantErr: "too many files",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Arch: tt.arch, DisableCache: true}
			if tt.patchWIM {
				c.PatchWIM = func(p []byte, off int64) {}
			}
			vol := &fakeVolume{names: tt.files}

			cat, err := Extract(vol, c)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			if !vol.closed {
				t.Error("Extract() did not release the volume interface")
			}
			if got := cat.BootFile(); got != tt.wantBoot {
				t.Errorf("BootFile() = %q, want %q", got, tt.wantBoot)
			}
			if cat.Len() != len(tt.files) {
				t.Errorf("Len() = %d, want %d", cat.Len(), len(tt.files))
			}
			for i, e := range cat.Files() {
				if e.Name != tt.files[i] {
					t.Errorf("Files()[%d] = %q, want %q (enumeration order)", i, e.Name, tt.files[i])
				}
			}
			var patched []string
			for _, e := range cat.Files() {
				if e.Patched() {
					patched = append(patched, e.Name)
				}
			}
			if fmt.Sprint(patched) != fmt.Sprint(tt.wantPatched) {
				t.Errorf("patched entries = %v, want %v", patched, tt.wantPatched)
			}
		})
	}
}

func TestExtractCapacityStopsBeforeOpen(t *testing.T) {
	names := make([]string, vdisk.MaxFiles+2)
	for i := range names {
		names[i] = fmt.Sprintf("file%d", i)
	}
	names[0] = "bootmgfw.efi"

	_, err := Extract(&fakeVolume{names: names}, &Config{Arch: "amd64"})
	if !errors.Is(err, vdisk.ErrTooManyFiles) {
		t.Fatalf("Extract() error = %v, want ErrTooManyFiles", err)
	}
}

func TestBootArch(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"x64 removable media path", `\EFI\BOOT\BOOTX64.EFI`, "BOOTX64.EFI"},
		{"aa64 removable media path", `\EFI\BOOT\BOOTAA64.EFI`, "BOOTAA64.EFI"},
		{"no separator", "BOOTX64.EFI", "BOOTX64.EFI"},
		{"trailing separator", `\EFI\BOOT\`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bootArch(tt.full); got != tt.want {
				t.Errorf("bootArch(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}

func TestRemovableMediaPath(t *testing.T) {
	tests := []struct {
		arch string
		want string
	}{
		{"amd64", `\EFI\BOOT\BOOTX64.EFI`},
		{"386", `\EFI\BOOT\BOOTIA32.EFI`},
		{"arm64", `\EFI\BOOT\BOOTAA64.EFI`},
		{"arm", `\EFI\BOOT\BOOTARM.EFI`},
	}
	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			if got := removableMediaPath(tt.arch); got != tt.want {
				t.Errorf("removableMediaPath(%q) = %q, want %q", tt.arch, got, tt.want)
			}
		})
	}
}
