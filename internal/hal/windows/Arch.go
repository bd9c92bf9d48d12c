package windows

import (
	"sort"
	"strings"
)

/***************************************
 * Architecture Normalizer
 ***************************************/

// ArchNormalizer folds OS and vswhere spellings into ArchType, it is never mutated after construction.
type ArchNormalizer struct {
	synonyms map[string]ArchType
}

func NewArchNormalizer(synonyms map[string]ArchType) ArchNormalizer {
	result := ArchNormalizer{synonyms: make(map[string]ArchType, len(synonyms))}
	for name, arch := range synonyms {
		result.synonyms[strings.ToLower(name)] = arch
	}
	return result
}

var DefaultArchNormalizer = NewArchNormalizer(map[string]ArchType{
	"amd64":  ARCH_AMD64,
	"emt64":  ARCH_AMD64,
	"x86_64": ARCH_AMD64,
	"x64":    ARCH_AMD64,

	"i386": ARCH_X86,
	"i486": ARCH_X86,
	"i586": ARCH_X86,
	"i686": ARCH_X86,
	"x86":  ARCH_X86,

	"ia64":    ARCH_IA64,
	"itanium": ARCH_IA64,

	"arm": ARCH_ARM,

	"arm64":   ARCH_ARM64,
	"aarch64": ARCH_ARM64,
})

func (x ArchNormalizer) Normalize(in string) (ArchType, error) {
	if arch, ok := x.synonyms[strings.ToLower(strings.TrimSpace(in))]; ok {
		return arch, nil
	}
	return ARCH_X86, &UnrecognizedArchitectureError{Arch: in}
}

func (x ArchNormalizer) Synonyms() []string {
	result := make([]string, 0, len(x.synonyms))
	for name := range x.synonyms {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
