// Package patch rewrites boot file content as it is served.
package patch

import (
	"unicode/utf16"

	"github.com/apex/log"
)

var (
	bcdSearch  = utf16le(".exe")
	bcdReplace = utf16le(".efi")
)

// BCD rewrites every ".exe" in boot configuration data to ".efi", so one
// BCD file can serve both BIOS and UEFI boot paths. Disabled leaves the
// data untouched (the raw-BCD toggle).
type BCD struct {
	Disabled bool
}

// Patch scans p for case-insensitive UTF-16LE occurrences of ".exe" and
// overwrites them in place with ".efi". Search and replacement are the same
// width, so the buffer layout is preserved exactly. Finding no occurrence
// is a normal outcome.
func (b *BCD) Patch(p []byte, off int64) {
	if b.Disabled {
		return
	}
	for i := 0; i+len(bcdSearch) <= len(p); i++ {
		if !equalFoldUTF16(p[i:i+len(bcdSearch)], bcdSearch) {
			continue
		}
		copy(p[i:], bcdReplace)
		log.Debugf("patched BCD at %#x: %q to %q", off+int64(i), ".exe", ".efi")
	}
}

// equalFoldUTF16 compares two equal-length UTF-16LE byte slices, folding
// ASCII case.
func equalFoldUTF16(p, token []byte) bool {
	for k := 0; k+1 < len(token); k += 2 {
		u := uint16(p[k]) | uint16(p[k+1])<<8
		t := uint16(token[k]) | uint16(token[k+1])<<8
		if u >= 'A' && u <= 'Z' {
			u += 'a' - 'A'
		}
		if u != t {
			return false
		}
	}
	return true
}

func utf16le(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}
