package io

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	helperProcessVar  = "MSVCENV_WANT_HELPER_PROCESS"
	helperDumpEnvArg  = "msvcenv-dump-env"
	ambientMarkerVar  = "MSVCENV_AMBIENT_MARKER"
	ambientMarkerText = "leaked"
)

// TestHelperProcess is not a real test, it is re-executed as a child by the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperProcessVar) != "1" {
		return
	}
	fmt.Fprint(os.Stdout, "KEY=value\r\n")
	fmt.Fprint(os.Stderr, "warning")
	os.Exit(3)
}

// TestHelperEnvironment is selected by argument since its environment must stay empty.
func TestHelperEnvironment(t *testing.T) {
	if len(os.Args) == 0 || os.Args[len(os.Args)-1] != helperDumpEnvArg {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv(ambientMarkerVar))
	os.Exit(0)
}

func TestRunProcessNeverInheritsParentEnvironment(t *testing.T) {
	t.Setenv(ambientMarkerVar, ambientMarkerText)

	onlyEmptyValues := NewProcessEnvironment()
	onlyEmptyValues.Set("INCLUDE")

	for name, env := range map[string]ProcessEnvironment{
		"empty":            NewProcessEnvironment(),
		"only empty value": onlyEmptyValues,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := RunProcess(os.Args[0],
				base.StringSet{"-test.run=^TestHelperEnvironment$", "--", helperDumpEnvArg},
				OptionProcessEnvironment(env))
			require.NoError(t, err)
			require.True(t, result.Success(), "stderr: %s", result.Stderr)
			assert.Empty(t, string(result.Stdout), "child saw the parent environment")
		})
	}
}

func TestRunProcessCapturesStreamsSeparately(t *testing.T) {
	result, err := RunProcess(os.Args[0],
		base.StringSet{"-test.run=TestHelperProcess"},
		OptionProcessExport(helperProcessVar, "1"))
	require.NoError(t, err)

	assert.Equal(t, "KEY=value\r\n", string(result.Stdout))
	assert.Equal(t, "warning", string(result.Stderr))
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Success())
	assert.GreaterOrEqual(t, int64(result.Duration), int64(0))
}

func TestRunProcessMissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.exe")
	_, err := RunProcess(missing, base.StringSet{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "unexpected error: %v", err)
}

func TestProcessRunnerFuncReceivesOptions(t *testing.T) {
	var seen ProcessOptions
	runner := ProcessRunnerFunc(func(executable string, arguments base.StringSet, options *ProcessOptions) (ProcessResult, error) {
		seen = *options
		return ProcessResult{Stdout: []byte(executable)}, nil
	})

	env := NewProcessEnvironment()
	env.Set("SystemRoot", `C:\Windows`)

	result, err := runner.RunProcess("cmd.exe", base.StringSet{"/c"},
		OptionProcessEnvironment(env),
		OptionProcessRawCommandLine(`cmd.exe /c "set"`),
		OptionProcessWorkingDir(`C:\`))
	require.NoError(t, err)

	assert.Equal(t, "cmd.exe", string(result.Stdout))
	assert.Equal(t, `cmd.exe /c "set"`, seen.RawCommandLine)
	assert.Equal(t, `C:\`, seen.WorkingDir)
	assert.True(t, env.Equals(seen.Environment))
}
