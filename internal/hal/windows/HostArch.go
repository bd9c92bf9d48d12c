package windows

import "github.com/poppolopoppo/msvcenv/internal/base"

/***************************************
 * Host architecture
 ***************************************/

// HostArchProvider reports the native architecture of the machine, even from an emulated process.
type HostArchProvider interface {
	NativeHostArch() (string, error)
}

type HostArchProviderFunc func() (string, error)

func (x HostArchProviderFunc) NativeHostArch() (string, error) { return x() }

// FixedHostArch overrides detection, ie from configuration.
type FixedHostArch string

func (x FixedHostArch) NativeHostArch() (string, error) { return string(x), nil }

var DefaultHostArchProvider HostArchProvider = HostArchProviderFunc(nativeHostArch)

func DetectHostArch(provider HostArchProvider, normalizer ArchNormalizer) (ArchType, error) {
	raw, err := provider.NativeHostArch()
	if err != nil {
		return ARCH_X86, err
	}
	arch, err := normalizer.Normalize(raw)
	if err == nil {
		base.LogVeryVerbose(LogWindows, "host: native architecture is %v (%q)", arch, raw)
	}
	return arch, err
}
