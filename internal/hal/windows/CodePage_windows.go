//go:build windows

package windows

import (
	"github.com/poppolopoppo/msvcenv/internal/base"
	"golang.org/x/sys/windows"
)

var procGetOEMCP = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetOEMCP")

func GetOEMCodePage() uint32 {
	if err := procGetOEMCP.Find(); err != nil {
		base.LogVerbose(LogWindows, "decode: GetOEMCP is not available: %v", err)
		return CODEPAGE_UTF8
	}
	codePage, _, _ := procGetOEMCP.Call()
	return uint32(codePage)
}
