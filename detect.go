package wimboot

import (
	"fmt"
	"io"
	"os"
)

// Type is the detected media type.
type Type uint8

const (
	UNKNOWN Type = iota
	VFAT
	ISO9660
)

func checkFAT(f *os.File) bool {
	f.Seek(0, io.SeekStart) // rewind file
	var sector [512]byte
	if _, err := io.ReadFull(f, sector[:]); err != nil {
		return false
	}
	// Valid jump instructions at the start of the boot sector.
	return (sector[0] == 0xEB && sector[2] == 0x90) || sector[0] == 0xE9
}

func checkISO(f *os.File) bool {
	// Volume descriptors start at sector 16; byte 0 is the descriptor type,
	// bytes 1-5 the standard identifier.
	var hdr [6]byte
	if _, err := f.ReadAt(hdr[:], 16*2048); err != nil {
		return false
	}
	return string(hdr[1:6]) == "CD001"
}

func detectMedia(f *os.File) (Type, error) {
	if checkISO(f) {
		return ISO9660, nil
	} else if checkFAT(f) {
		return VFAT, nil
	}
	return UNKNOWN, fmt.Errorf("failed to detect media type")
}
