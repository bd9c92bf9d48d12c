package windows

import (
	"fmt"
	"math"
	"strings"
)

/***************************************
 * Host/Target pairs
 ***************************************/

type HostTarget struct {
	Host   ArchType
	Target ArchType
}

func (x HostTarget) String() string {
	return fmt.Sprintf("%v_%v", x.Host, x.Target)
}
func (x HostTarget) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *HostTarget) UnmarshalText(data []byte) error {
	host, target, ok := strings.Cut(string(data), "_")
	if !ok {
		return fmt.Errorf("invalid host/target pair %q", data)
	}
	if err := x.Host.Set(host); err != nil {
		return err
	}
	return x.Target.Set(target)
}

type HostTargetScript struct {
	Batch  string
	ClPath []string // relative to VC\Tools\MSVC\<tools version>
}

/***************************************
 * Host/Target tables
 ***************************************/

type HostTargetTable struct {
	Name       string
	Scripts    map[HostTarget]HostTargetScript
	AllHosts   map[ArchType][]ArchType // machine -> usable hosts, by precedence
	AllTargets map[ArchType][]ArchType // host -> buildable targets, by precedence
}

func (x *HostTargetTable) String() string { return x.Name }

func (x *HostTargetTable) Script(pair HostTarget) (HostTargetScript, bool) {
	script, ok := x.Scripts[pair]
	return script, ok
}

// CandidatePairs tries every host before moving to the next, targets are ordered inside a host.
func (x *HostTargetTable) CandidatePairs(machine ArchType) ([]HostTarget, error) {
	hosts, ok := x.AllHosts[machine]
	if !ok {
		return nil, &UnsupportedHostArchError{Machine: machine, Table: x.Name}
	}
	var result []HostTarget
	for _, host := range hosts {
		for _, target := range x.AllTargets[host] {
			pair := HostTarget{Host: host, Target: target}
			if _, ok := x.Scripts[pair]; ok {
				result = append(result, pair)
			}
		}
	}
	return result, nil
}

func clPath(host, target ArchType) []string {
	return []string{"bin", "Host" + host.ToolsDir(), target.ToolsDir()}
}

var HostTargetTable2022 = &HostTargetTable{
	Name: "2022",
	Scripts: map[HostTarget]HostTargetScript{
		{ARCH_AMD64, ARCH_AMD64}: {"vcvars64.bat", clPath(ARCH_AMD64, ARCH_AMD64)},
		{ARCH_AMD64, ARCH_X86}:   {"vcvarsamd64_x86.bat", clPath(ARCH_AMD64, ARCH_X86)},
		{ARCH_AMD64, ARCH_ARM}:   {"vcvarsamd64_arm.bat", clPath(ARCH_AMD64, ARCH_ARM)},
		{ARCH_AMD64, ARCH_ARM64}: {"vcvarsamd64_arm64.bat", clPath(ARCH_AMD64, ARCH_ARM64)},

		{ARCH_X86, ARCH_AMD64}: {"vcvarsx86_amd64.bat", clPath(ARCH_X86, ARCH_AMD64)},
		{ARCH_X86, ARCH_X86}:   {"vcvars32.bat", clPath(ARCH_X86, ARCH_X86)},
		{ARCH_X86, ARCH_ARM}:   {"vcvarsx86_arm.bat", clPath(ARCH_X86, ARCH_ARM)},
		{ARCH_X86, ARCH_ARM64}: {"vcvarsx86_arm64.bat", clPath(ARCH_X86, ARCH_ARM64)},

		{ARCH_ARM64, ARCH_AMD64}: {"vcvarsarm64_amd64.bat", clPath(ARCH_ARM64, ARCH_AMD64)},
		{ARCH_ARM64, ARCH_X86}:   {"vcvarsarm64_x86.bat", clPath(ARCH_ARM64, ARCH_X86)},
		{ARCH_ARM64, ARCH_ARM}:   {"vcvarsarm64_arm.bat", clPath(ARCH_ARM64, ARCH_ARM)},
		{ARCH_ARM64, ARCH_ARM64}: {"vcvarsarm64.bat", clPath(ARCH_ARM64, ARCH_ARM64)},
	},
	AllHosts: map[ArchType][]ArchType{
		ARCH_AMD64: {ARCH_AMD64, ARCH_X86},
		ARCH_X86:   {ARCH_X86},
		ARCH_ARM64: {ARCH_ARM64, ARCH_AMD64, ARCH_X86},
		ARCH_ARM:   {ARCH_X86},
	},
	AllTargets: map[ArchType][]ArchType{
		ARCH_AMD64: {ARCH_AMD64, ARCH_X86, ARCH_ARM64, ARCH_ARM},
		ARCH_X86:   {ARCH_X86, ARCH_AMD64, ARCH_ARM, ARCH_ARM64},
		ARCH_ARM64: {ARCH_ARM64, ARCH_AMD64, ARCH_ARM, ARCH_X86},
	},
}

// HostTargetTable2017 also covers 2019, neither ships arm64 hosted tools.
var HostTargetTable2017 = &HostTargetTable{
	Name: "2017",
	Scripts: map[HostTarget]HostTargetScript{
		{ARCH_AMD64, ARCH_AMD64}: {"vcvars64.bat", clPath(ARCH_AMD64, ARCH_AMD64)},
		{ARCH_AMD64, ARCH_X86}:   {"vcvarsamd64_x86.bat", clPath(ARCH_AMD64, ARCH_X86)},
		{ARCH_AMD64, ARCH_ARM}:   {"vcvarsamd64_arm.bat", clPath(ARCH_AMD64, ARCH_ARM)},
		{ARCH_AMD64, ARCH_ARM64}: {"vcvarsamd64_arm64.bat", clPath(ARCH_AMD64, ARCH_ARM64)},

		{ARCH_X86, ARCH_AMD64}: {"vcvarsx86_amd64.bat", clPath(ARCH_X86, ARCH_AMD64)},
		{ARCH_X86, ARCH_X86}:   {"vcvars32.bat", clPath(ARCH_X86, ARCH_X86)},
		{ARCH_X86, ARCH_ARM}:   {"vcvarsx86_arm.bat", clPath(ARCH_X86, ARCH_ARM)},
		{ARCH_X86, ARCH_ARM64}: {"vcvarsx86_arm64.bat", clPath(ARCH_X86, ARCH_ARM64)},
	},
	AllHosts: map[ArchType][]ArchType{
		ARCH_AMD64: {ARCH_AMD64, ARCH_X86},
		ARCH_X86:   {ARCH_X86},
		ARCH_ARM64: {ARCH_AMD64, ARCH_X86},
		ARCH_ARM:   {ARCH_X86},
	},
	AllTargets: map[ArchType][]ArchType{
		ARCH_AMD64: {ARCH_AMD64, ARCH_X86, ARCH_ARM64, ARCH_ARM},
		ARCH_X86:   {ARCH_X86, ARCH_AMD64, ARCH_ARM, ARCH_ARM64},
	},
}

type HostTargetTables struct {
	Modern *HostTargetTable // 14.3 and above
	Legacy *HostTargetTable // 14.1 and 14.2
}

var DefaultHostTargetTables = HostTargetTables{
	Modern: HostTargetTable2022,
	Legacy: HostTargetTable2017,
}

// ForVersion returns nil for toolchains older than 14.1.
func (x HostTargetTables) ForVersion(versionNumeric float64) *HostTargetTable {
	switch generation := int(math.Round(versionNumeric * 10)); {
	case generation >= 143:
		return x.Modern
	case generation >= 141:
		return x.Legacy
	default:
		return nil
	}
}

// CandidatePairs is empty without error for unsupported generations.
func (x HostTargetTables) CandidatePairs(versionNumeric float64, machine ArchType) ([]HostTarget, error) {
	if table := x.ForVersion(versionNumeric); table != nil {
		return table.CandidatePairs(machine)
	}
	return nil, nil
}
