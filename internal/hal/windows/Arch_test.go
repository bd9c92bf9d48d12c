package windows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchNormalizerSynonyms(t *testing.T) {
	for in, want := range map[string]ArchType{
		"AMD64":   ARCH_AMD64,
		"x86_64":  ARCH_AMD64,
		"EMT64":   ARCH_AMD64,
		"x64":     ARCH_AMD64,
		"i386":    ARCH_X86,
		"i686":    ARCH_X86,
		" x86 ":   ARCH_X86,
		"Itanium": ARCH_IA64,
		"ia64":    ARCH_IA64,
		"ARM":     ARCH_ARM,
		"aarch64": ARCH_ARM64,
		"ARM64":   ARCH_ARM64,
	} {
		got, err := DefaultArchNormalizer.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestArchNormalizerIsIdempotent(t *testing.T) {
	for _, arch := range GetArchTypes() {
		got, err := DefaultArchNormalizer.Normalize(arch.String())
		require.NoError(t, err)
		assert.Equal(t, arch, got)
	}
}

func TestArchNormalizerIsTotalOnSynonyms(t *testing.T) {
	canonical := GetArchTypes()
	for _, name := range DefaultArchNormalizer.Synonyms() {
		arch, err := DefaultArchNormalizer.Normalize(name)
		require.NoError(t, err, name)
		assert.Contains(t, canonical, arch)

		again, err := DefaultArchNormalizer.Normalize(arch.String())
		require.NoError(t, err)
		assert.Equal(t, arch, again)
	}
}

func TestArchNormalizerRejectsUnknown(t *testing.T) {
	_, err := DefaultArchNormalizer.Normalize("mips")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedArchitecture))

	var archErr *UnrecognizedArchitectureError
	require.True(t, errors.As(err, &archErr))
	assert.Equal(t, "mips", archErr.Arch)
}

func TestArchNormalizerCopiesItsTable(t *testing.T) {
	synonyms := map[string]ArchType{"X64": ARCH_AMD64}
	normalizer := NewArchNormalizer(synonyms)
	synonyms["ppc"] = ARCH_X86

	_, err := normalizer.Normalize("ppc")
	assert.Error(t, err)
	arch, err := normalizer.Normalize("x64")
	assert.NoError(t, err)
	assert.Equal(t, ARCH_AMD64, arch)
}

func TestArchTypeText(t *testing.T) {
	var arch ArchType
	require.NoError(t, arch.UnmarshalText([]byte("x86_64")))
	assert.Equal(t, ARCH_AMD64, arch)

	text, err := ARCH_ARM64.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "arm64", string(text))
	assert.Equal(t, "x64", ARCH_AMD64.ToolsDir())
}
