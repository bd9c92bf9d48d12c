//go:build !windows

package windows

import "github.com/shirou/gopsutil/host"

// Only useful to exercise the discovery from another OS, there is no MSVC to find here.
func nativeHostArch() (string, error) {
	return host.KernelArch()
}
