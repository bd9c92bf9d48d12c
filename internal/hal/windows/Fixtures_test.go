package windows

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testPath(elts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, elts...)...)
}

func writeTestFile(t *testing.T, fs afero.Fs, path string, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// makeTestInstall creates a VS layout with a script and a compiler for every pair.
func makeTestInstall(t *testing.T, fs afero.Fs, root string, toolsVersion string, table *HostTargetTable, pairs ...HostTarget) InstalledToolchain {
	t.Helper()
	vcDir := filepath.Join(root, "VC")
	require.NoError(t, fs.MkdirAll(vcDir, 0o755))
	writeTestFile(t, fs, VcToolsVersionFile(vcDir), toolsVersion+"\r\n")

	toolchain := InstalledToolchain{VcDir: vcDir, ToolsVersion: toolsVersion, Table: table}
	for _, pair := range pairs {
		script, ok := toolchain.ScriptPath(pair)
		require.True(t, ok)
		writeTestFile(t, fs, script, "@echo off")
		compiler, _ := toolchain.CompilerPath(pair)
		writeTestFile(t, fs, compiler, "MZ")
	}
	return toolchain
}

/***************************************
 * Scripted process runner
 ***************************************/

type testActivation struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

type testRunner struct {
	byScript map[string]testActivation
	calls    []string
}

func newTestRunner() *testRunner {
	return &testRunner{byScript: make(map[string]testActivation)}
}

func (x *testRunner) On(script string, activation testActivation) *testRunner {
	x.byScript[script] = activation
	return x
}

func (x *testRunner) RunProcess(executable string, arguments base.StringSet, options ...internal_io.ProcessOptionFunc) (internal_io.ProcessResult, error) {
	command := arguments.Join(" ")
	for script, activation := range x.byScript {
		if strings.Contains(command, `"`+script+`"`) || executable == script {
			x.calls = append(x.calls, script)
			return internal_io.ProcessResult{
				Stdout:   []byte(activation.Stdout),
				Stderr:   []byte(activation.Stderr),
				ExitCode: activation.ExitCode,
			}, activation.Err
		}
	}
	return internal_io.ProcessResult{}, fmt.Errorf("unexpected command %q %q", executable, command)
}

func testSetOutput(paths ...string) string {
	return strings.Join([]string{
		"Microsoft Visual Studio 2022 Developer Command Prompt v17.8.0",
		"ComSpec=C:\\Windows\\system32\\cmd.exe",
		"INCLUDE=" + testPath("VS", "include"),
		"PATH=" + strings.Join(paths, ";"),
		"VSCMD_ARG_app_plat=Desktop",
	}, "\r\n") + "\r\n"
}
