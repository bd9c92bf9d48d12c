package windows

import (
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
)

/***************************************
 * Architecture
 ***************************************/

// ArchType values are only produced by ArchNormalizer, see Arch.go.
type ArchType byte

const (
	ARCH_X86 ArchType = iota
	ARCH_AMD64
	ARCH_ARM
	ARCH_ARM64
	ARCH_IA64
)

func GetArchTypes() []ArchType {
	return []ArchType{
		ARCH_X86,
		ARCH_AMD64,
		ARCH_ARM,
		ARCH_ARM64,
		ARCH_IA64,
	}
}
func (x ArchType) String() string {
	switch x {
	case ARCH_X86:
		return "x86"
	case ARCH_AMD64:
		return "amd64"
	case ARCH_ARM:
		return "arm"
	case ARCH_ARM64:
		return "arm64"
	case ARCH_IA64:
		return "ia64"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}

// ToolsDir is the folder name used by the MSVC layout, ie bin\Hostx64\arm64.
func (x ArchType) ToolsDir() string {
	switch x {
	case ARCH_X86:
		return "x86"
	case ARCH_AMD64:
		return "x64"
	case ARCH_ARM:
		return "arm"
	case ARCH_ARM64:
		return "arm64"
	case ARCH_IA64:
		return "ia64"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *ArchType) Set(in string) (err error) {
	*x, err = DefaultArchNormalizer.Normalize(in)
	return
}
func (x ArchType) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *ArchType) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}

/***************************************
 * MSVC Edition
 ***************************************/

type MsvcEdition byte

const (
	MSVC_EDITION_ENTERPRISE MsvcEdition = iota
	MSVC_EDITION_PROFESSIONAL
	MSVC_EDITION_COMMUNITY
	MSVC_EDITION_BUILDTOOLS
	MSVC_EDITION_EXPRESS
)

func GetMsvcEditions() []MsvcEdition {
	return []MsvcEdition{
		MSVC_EDITION_ENTERPRISE,
		MSVC_EDITION_PROFESSIONAL,
		MSVC_EDITION_COMMUNITY,
		MSVC_EDITION_BUILDTOOLS,
		MSVC_EDITION_EXPRESS,
	}
}
func (x MsvcEdition) String() string {
	switch x {
	case MSVC_EDITION_ENTERPRISE:
		return "Enterprise"
	case MSVC_EDITION_PROFESSIONAL:
		return "Professional"
	case MSVC_EDITION_COMMUNITY:
		return "Community"
	case MSVC_EDITION_BUILDTOOLS:
		return "BuildTools"
	case MSVC_EDITION_EXPRESS:
		return "Express"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}

// ProductId is the last segment of vswhere productId, ie Microsoft.VisualStudio.Product.BuildTools.
func (x MsvcEdition) ProductId() string {
	switch x {
	case MSVC_EDITION_EXPRESS:
		return "WDExpress"
	default:
		return x.String()
	}
}
func (x *MsvcEdition) Set(in string) error {
	for _, it := range GetMsvcEditions() {
		if strings.EqualFold(it.String(), in) || strings.EqualFold(it.ProductId(), in) {
			*x = it
			return nil
		}
	}
	return base.MakeUnexpectedValueError(x, in)
}
func (x MsvcEdition) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *MsvcEdition) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
