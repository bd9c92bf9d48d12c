//go:build !windows

package windows

func GetOEMCodePage() uint32 {
	return CODEPAGE_UTF8
}
