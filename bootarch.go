package wimboot

import (
	"runtime"
	"strings"
)

// Removable media default boot paths, per architecture.
const (
	removableMediaPathX64  = `\EFI\BOOT\BOOTX64.EFI`
	removableMediaPathIA32 = `\EFI\BOOT\BOOTIA32.EFI`
	removableMediaPathAA64 = `\EFI\BOOT\BOOTAA64.EFI`
	removableMediaPathArm  = `\EFI\BOOT\BOOTARM.EFI`
)

// removableMediaPath returns the default removable-media boot path for the
// given architecture, defaulting to the build architecture.
func removableMediaPath(arch string) string {
	if arch == "" {
		arch = runtime.GOARCH
	}
	switch strings.ToLower(arch) {
	case "386", "i386", "ia32":
		return removableMediaPathIA32
	case "arm64", "aarch64", "aa64":
		return removableMediaPathAA64
	case "arm":
		return removableMediaPathArm
	default:
		return removableMediaPathX64
	}
}

// bootArch returns the final component of a backslash-separated boot path,
// or the whole string when it has no separator. This is the file name
// treated as the default platform boot loader.
func bootArch(full string) string {
	name := full
	for i := 0; i < len(full); i++ {
		if full[i] == '\\' {
			name = full[i+1:]
		}
	}
	return name
}
