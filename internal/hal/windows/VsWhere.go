package windows

import (
	"bytes"
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/afero"
)

/***************************************
 * VsWhere
 ***************************************/

// https://github.com/microsoft/vswhere/wiki/Find-VC
var VsWhereArgs = base.StringSet{
	"-all",
	"-products", "*",
	"-prerelease",
	"-format", "json",
	"-utf8",
}

type VsWhereEntry struct {
	InstallationPath    string `json:"installationPath"`
	InstallationVersion string `json:"installationVersion"`
	ProductId           string `json:"productId"`
	IsPrerelease        bool   `json:"isPrerelease"`
}

var utf8BOM = []byte("\xef\xbb\xbf")

type EnvironmentLookup = func(string) (string, bool)

// DefaultVsWhereLocations lists the installer folder first, then package managers. PATH is never scanned.
func DefaultVsWhereLocations(lookup EnvironmentLookup, explicit ...string) []string {
	result := append([]string{}, explicit...)
	for _, it := range []struct {
		Variable string
		Relative []string
	}{
		{"ProgramFiles(x86)", []string{"Microsoft Visual Studio", "Installer", "vswhere.exe"}},
		{"ProgramFiles", []string{"Microsoft Visual Studio", "Installer", "vswhere.exe"}},
		{"ChocolateyInstall", []string{"bin", "vswhere.exe"}},
		{"LOCALAPPDATA", []string{"Microsoft", "WinGet", "Links", "vswhere.exe"}},
		{"USERPROFILE", []string{"scoop", "shims", "vswhere.exe"}},
	} {
		if root, ok := lookup(it.Variable); ok && len(root) > 0 {
			result = append(result, filepath.Join(append([]string{root}, it.Relative...)...))
		}
	}
	return result
}

type VsWhere struct {
	Fs        afero.Fs
	Runner    internal_io.ProcessRunner
	Locations []string
}

func NewVsWhere(fs afero.Fs, runner internal_io.ProcessRunner, locations ...string) VsWhere {
	return VsWhere{
		Fs:        fs,
		Runner:    runner,
		Locations: locations,
	}
}

func (x VsWhere) Find() (string, bool) {
	for _, it := range x.Locations {
		if info, err := x.Fs.Stat(it); err == nil && !info.IsDir() {
			return it, true
		}
		base.LogDebug(LogWindows, "vswhere: %q not found", it)
	}
	return "", false
}

// Query returns nil without error whenever vswhere can't tell anything, no installation is a legit state.
func (x VsWhere) Query() ([]VsWhereEntry, error) {
	executable, ok := x.Find()
	if !ok {
		base.LogVerbose(LogWindows, "vswhere: executable not found in %v", x.Locations)
		return nil, nil
	}

	result, err := x.Runner.RunProcess(executable, VsWhereArgs)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			base.LogVerbose(LogWindows, "vswhere: failed to launch %q: %v", executable, err)
			return nil, nil
		}
		return nil, err
	}
	if !result.Success() {
		base.LogVerbose(LogWindows, "vswhere: %q exited with code %d", executable, result.ExitCode)
		return nil, nil
	}

	output := bytes.TrimSpace(bytes.TrimPrefix(result.Stdout, utf8BOM))
	if len(output) == 0 {
		base.LogVerbose(LogWindows, "vswhere: empty output")
		return nil, nil
	}

	var entries []VsWhereEntry
	if err := base.JsonUnmarshal(output, &entries); err != nil {
		base.LogVerbose(LogWindows, "vswhere: malformed json output: %v", err)
		return nil, nil
	}

	base.LogVeryVerbose(LogWindows, "vswhere: found %d installations", len(entries))
	return entries, nil
}
