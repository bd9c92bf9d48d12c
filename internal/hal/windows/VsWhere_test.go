package windows

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVsWhereOutput = `[
  {
    "instanceId": "a1b2c3d4",
    "installationPath": "C:\\Program Files\\Microsoft Visual Studio\\2022\\Professional",
    "installationVersion": "17.8.34330.188",
    "productId": "Microsoft.VisualStudio.Product.Professional",
    "isPrerelease": false,
    "catalog": { "productLineVersion": "2022" }
  },
  {
    "installationPath": "C:\\Program Files (x86)\\Microsoft Visual Studio\\2019\\BuildTools",
    "installationVersion": "16.11.33927.289",
    "productId": "Microsoft.VisualStudio.Product.BuildTools"
  }
]`

func TestDefaultVsWhereLocations(t *testing.T) {
	lookup := func(name string) (string, bool) {
		switch name {
		case "ProgramFiles(x86)":
			return testPath("pf86"), true
		case "USERPROFILE":
			return testPath("home"), true
		case "ProgramFiles":
			return "", true
		}
		return "", false
	}
	assert.Equal(t, []string{
		testPath("explicit", "vswhere.exe"),
		filepath.Join(testPath("pf86"), "Microsoft Visual Studio", "Installer", "vswhere.exe"),
		filepath.Join(testPath("home"), "scoop", "shims", "vswhere.exe"),
	}, DefaultVsWhereLocations(lookup, testPath("explicit", "vswhere.exe")))
}

func TestVsWhereQuery(t *testing.T) {
	memfs := afero.NewMemMapFs()
	exe := testPath("installer", "vswhere.exe")
	writeTestFile(t, memfs, exe, "MZ")

	var seenArgs base.StringSet
	runner := internal_io.ProcessRunnerFunc(func(executable string, arguments base.StringSet, options *internal_io.ProcessOptions) (internal_io.ProcessResult, error) {
		seenArgs = arguments
		return internal_io.ProcessResult{Stdout: []byte("\xef\xbb\xbf" + testVsWhereOutput)}, nil
	})

	entries, err := NewVsWhere(memfs, runner, testPath("missing", "vswhere.exe"), exe).Query()
	require.NoError(t, err)
	assert.Equal(t, VsWhereArgs, seenArgs)
	require.Len(t, entries, 2)
	assert.Equal(t, `C:\Program Files\Microsoft Visual Studio\2022\Professional`, entries[0].InstallationPath)
	assert.Equal(t, "17.8.34330.188", entries[0].InstallationVersion)
	assert.Equal(t, "Microsoft.VisualStudio.Product.BuildTools", entries[1].ProductId)
	assert.False(t, entries[1].IsPrerelease)
}

func TestVsWhereQueryAbsence(t *testing.T) {
	memfs := afero.NewMemMapFs()
	exe := testPath("vswhere.exe")

	// executable missing
	entries, err := NewVsWhere(memfs, nil, exe).Query()
	assert.NoError(t, err)
	assert.Nil(t, entries)

	writeTestFile(t, memfs, exe, "MZ")
	for name, result := range map[string]struct {
		Result internal_io.ProcessResult
		Err    error
	}{
		"not found":    {Err: &exec.Error{Name: exe, Err: exec.ErrNotFound}},
		"not exist":    {Err: &fs.PathError{Op: "fork/exec", Path: exe, Err: fs.ErrNotExist}},
		"exit code":    {Result: internal_io.ProcessResult{ExitCode: 87, Stdout: []byte(testVsWhereOutput)}},
		"empty output": {Result: internal_io.ProcessResult{Stdout: []byte(" \r\n")}},
		"malformed":    {Result: internal_io.ProcessResult{Stdout: []byte(`[{"installationPath": `)}},
	} {
		runner := internal_io.ProcessRunnerFunc(func(string, base.StringSet, *internal_io.ProcessOptions) (internal_io.ProcessResult, error) {
			return result.Result, result.Err
		})
		entries, err := NewVsWhere(memfs, runner, exe).Query()
		assert.NoError(t, err, name)
		assert.Nil(t, entries, name)
	}
}

func TestVsWhereQueryLaunchFailure(t *testing.T) {
	memfs := afero.NewMemMapFs()
	exe := testPath("vswhere.exe")
	writeTestFile(t, memfs, exe, "MZ")

	denied := &fs.PathError{Op: "fork/exec", Path: exe, Err: fs.ErrPermission}
	runner := internal_io.ProcessRunnerFunc(func(string, base.StringSet, *internal_io.ProcessOptions) (internal_io.ProcessResult, error) {
		return internal_io.ProcessResult{}, denied
	})

	_, err := NewVsWhere(memfs, runner, exe).Query()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}
