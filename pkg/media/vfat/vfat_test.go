package vfat

import (
	"errors"
	"io"
	"os"
	"testing"
)

// TestImage is the path to a FAT test image.
// Create with: dd if=/dev/zero of=testdata/fat.img bs=1M count=16 && mkfs.vfat testdata/fat.img
const TestImage = "testdata/fat.img"

func skipIfNoTestImage(t testing.TB) {
	if _, err := os.Stat(TestImage); os.IsNotExist(err) {
		t.Skipf("test image not found at %s - create with mkfs.vfat", TestImage)
	}
}

func TestOpen(t *testing.T) {
	skipIfNoTestImage(t)

	v, err := Open(TestImage)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer v.Release()

	root, err := v.OpenRoot()
	if err != nil {
		t.Fatalf("OpenRoot() error = %v", err)
	}
	for {
		_, err := root.ReadEntry()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadEntry() error = %v", err)
		}
	}
}

func TestOpenNotFAT(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "garbage")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	f.Write(make([]byte, 4096))
	f.Seek(0, io.SeekStart)

	if _, err := New(f); err == nil {
		t.Error("New() error = nil, want error for non-FAT data")
	}
}
