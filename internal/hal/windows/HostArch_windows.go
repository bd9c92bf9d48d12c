//go:build windows

package windows

import (
	"fmt"
	"os"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// https://learn.microsoft.com/en-us/windows/win32/sysinfo/image-file-machine-constants
const (
	IMAGE_FILE_MACHINE_I386  uint16 = 0x014c
	IMAGE_FILE_MACHINE_ARMNT uint16 = 0x01c4
	IMAGE_FILE_MACHINE_AMD64 uint16 = 0x8664
	IMAGE_FILE_MACHINE_ARM64 uint16 = 0xaa64
)

func nativeHostArch() (string, error) {
	if arch, err := nativeHostArchFromProcess(); err == nil {
		return arch, nil
	} else {
		base.LogVeryVerbose(LogWindows, "host: IsWow64Process2 failed: %v", err)
	}
	if arch, err := nativeHostArchFromRegistry(); err == nil {
		return arch, nil
	} else {
		base.LogVeryVerbose(LogWindows, "host: registry lookup failed: %v", err)
	}
	if arch, ok := os.LookupEnv("PROCESSOR_ARCHITEW6432"); ok {
		return arch, nil
	}
	if arch, ok := os.LookupEnv("PROCESSOR_ARCHITECTURE"); ok {
		return arch, nil
	}
	return "", fmt.Errorf("host: can't detect native architecture")
}

func nativeHostArchFromProcess() (string, error) {
	var processMachine, nativeMachine uint16
	if err := windows.IsWow64Process2(windows.CurrentProcess(), &processMachine, &nativeMachine); err != nil {
		return "", err
	}
	switch nativeMachine {
	case IMAGE_FILE_MACHINE_I386:
		return "x86", nil
	case IMAGE_FILE_MACHINE_ARMNT:
		return "arm", nil
	case IMAGE_FILE_MACHINE_AMD64:
		return "amd64", nil
	case IMAGE_FILE_MACHINE_ARM64:
		return "arm64", nil
	default:
		return "", fmt.Errorf("host: unknown image file machine 0x%04x", nativeMachine)
	}
}

func nativeHostArchFromRegistry() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Control\Session Manager\Environment`,
		registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	value, _, err := key.GetStringValue("PROCESSOR_ARCHITECTURE")
	return value, err
}
