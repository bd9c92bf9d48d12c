package windows

import (
	"bufio"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/spf13/afero"
)

/***************************************
 * MSVC layout
 ***************************************/

const MSVC_TOOLS_VERSION_FILE = "Microsoft.VCToolsVersion.default.txt"

func VcScriptsDir(vcDir string) string {
	return filepath.Join(vcDir, "Auxiliary", "Build")
}
func VcToolsVersionFile(vcDir string) string {
	return filepath.Join(VcScriptsDir(vcDir), MSVC_TOOLS_VERSION_FILE)
}
func VcToolsDir(vcDir, toolsVersion string) string {
	return filepath.Join(vcDir, "Tools", "MSVC", toolsVersion)
}

/***************************************
 * Installed Toolchain
 ***************************************/

type InstalledToolchain struct {
	Version          string
	VcDir            string
	ToolsVersion     string
	ToolsInstalledAt time.Time
	Pairs            []HostTarget
	Table            *HostTargetTable `json:"-" yaml:"-"`
}

func (x InstalledToolchain) Empty() bool {
	return len(x.Pairs) == 0
}
func (x InstalledToolchain) String() string {
	return x.Version + " (" + x.ToolsVersion + ")"
}
func (x InstalledToolchain) ScriptPath(pair HostTarget) (string, bool) {
	if x.Table == nil {
		return "", false
	}
	if script, ok := x.Table.Script(pair); ok {
		return filepath.Join(VcScriptsDir(x.VcDir), script.Batch), true
	}
	return "", false
}
func (x InstalledToolchain) CompilerPath(pair HostTarget) (string, bool) {
	if x.Table == nil {
		return "", false
	}
	if script, ok := x.Table.Script(pair); ok {
		path := append([]string{VcToolsDir(x.VcDir, x.ToolsVersion)}, script.ClPath...)
		return filepath.Join(append(path, "cl.exe")...), true
	}
	return "", false
}

// WithTarget keeps the pairs building for target, in the same order.
func (x InstalledToolchain) WithTarget(target ArchType) InstalledToolchain {
	result := x
	result.Pairs = nil
	for _, it := range x.Pairs {
		if it.Target == target {
			result.Pairs = append(result.Pairs, it)
		}
	}
	return result
}

/***************************************
 * Toolchain Validator
 ***************************************/

type ToolchainOptions struct {
	Fs              afero.Fs
	Tables          HostTargetTables
	AllowPrerelease bool
}

type ToolchainOptionFunc func(*ToolchainOptions)

func OptionToolchainFs(fs afero.Fs) ToolchainOptionFunc {
	return func(to *ToolchainOptions) {
		to.Fs = fs
	}
}
func OptionToolchainTables(tables HostTargetTables) ToolchainOptionFunc {
	return func(to *ToolchainOptions) {
		to.Tables = tables
	}
}
func OptionToolchainAllowPrerelease(enabled bool) ToolchainOptionFunc {
	return func(to *ToolchainOptions) {
		to.AllowPrerelease = enabled
	}
}

func newToolchainOptions(options ...ToolchainOptionFunc) (result ToolchainOptions) {
	result.Fs = afero.NewOsFs()
	result.Tables = DefaultHostTargetTables
	for _, it := range options {
		it(&result)
	}
	return
}

// FindInstalledToolchain returns an empty toolchain when the version is absent or incomplete,
// only an unknown machine architecture is an error.
func FindInstalledToolchain(catalog *MsvcCatalog, version string, machine ArchType, options ...ToolchainOptionFunc) (InstalledToolchain, error) {
	opts := newToolchainOptions(options...)
	return findInstalledToolchain(catalog, version, machine, &opts)
}

func findInstalledToolchain(catalog *MsvcCatalog, version string, machine ArchType, opts *ToolchainOptions) (result InstalledToolchain, err error) {
	result.Version = version

	instances := catalog.Find(version, true)
	if len(instances) == 0 && opts.AllowPrerelease {
		instances = catalog.Find(version, false)
	}
	if len(instances) == 0 {
		base.LogVerbose(LogWindows, "toolchain: msvc %s is not installed", version)
		return
	}

	instance := instances[0]
	result.VcDir = instance.VcDir
	result.Table = opts.Tables.ForVersion(instance.VersionNumeric)
	if result.Table == nil {
		base.LogVerbose(LogWindows, "toolchain: msvc %s is too old", version)
		return
	}

	markerFile := VcToolsVersionFile(instance.VcDir)
	if result.ToolsVersion, err = readFirstLine(opts.Fs, markerFile); err != nil || len(result.ToolsVersion) == 0 {
		base.LogVerbose(LogWindows, "toolchain: can't read tools version from %q: %v", markerFile, err)
		return result, nil
	}
	result.ToolsInstalledAt = fileTimestamp(opts.Fs, markerFile)

	candidates, err := result.Table.CandidatePairs(machine)
	if err != nil {
		return result, err
	}

	for _, pair := range candidates {
		script, _ := result.ScriptPath(pair)
		compiler, _ := result.CompilerPath(pair)
		switch {
		case !isFile(opts.Fs, script):
			base.LogVeryVerbose(LogWindows, "toolchain: msvc %s %v has no script %q", version, pair, script)
		case !isFile(opts.Fs, compiler):
			base.LogVeryVerbose(LogWindows, "toolchain: msvc %s %v has no compiler %q", version, pair, compiler)
		default:
			result.Pairs = append(result.Pairs, pair)
		}
	}

	base.LogVerbose(LogWindows, "toolchain: msvc %s (%s) supports %v", version, result.ToolsVersion, result.Pairs)
	return result, nil
}

// InstalledToolchains walks every version of the catalog, best first, keeping only usable ones.
func InstalledToolchains(catalog *MsvcCatalog, machine ArchType, options ...ToolchainOptionFunc) ([]InstalledToolchain, error) {
	opts := newToolchainOptions(options...)

	var result []InstalledToolchain
	for _, version := range catalog.Versions() {
		toolchain, err := findInstalledToolchain(catalog, version, machine, &opts)
		if err != nil {
			return nil, err
		}
		if !toolchain.Empty() {
			result = append(result, toolchain)
		}
	}
	return result, nil
}

func readFirstLine(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return strings.TrimSpace(strings.TrimPrefix(scanner.Text(), string(utf8BOM))), nil
	}
	return "", scanner.Err()
}

// fileTimestamp prefers the creation time when the real filesystem exposes it.
func fileTimestamp(fs afero.Fs, path string) time.Time {
	if _, ok := fs.(*afero.OsFs); ok {
		if ts, err := times.Stat(path); err == nil {
			if ts.HasBirthTime() {
				return ts.BirthTime()
			}
			return ts.ModTime()
		}
	}
	if info, err := fs.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
