package windows

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscovery(t *testing.T) (*Discovery, *testRunner, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	vswhere := testPath("Installer", "vswhere.exe")
	writeTestFile(t, fs, vswhere, "MZ")

	root := testPath("VS", "2022", "Community")
	toolchain := makeTestInstall(t, fs, root, "14.38.33130", HostTargetTable2022,
		HostTarget{ARCH_AMD64, ARCH_AMD64},
		HostTarget{ARCH_AMD64, ARCH_ARM64})

	output := strings.Builder{}
	output.WriteString(`[{"installationPath":`)
	output.WriteString(strings.ReplaceAll(`"`+root+`"`, `\`, `\\`))
	output.WriteString(`,"installationVersion":"17.8.3","productId":"Microsoft.VisualStudio.Product.Community"}]`)

	runner := newTestRunner().On(vswhere, testActivation{Stdout: output.String()})
	for _, pair := range []HostTarget{{ARCH_AMD64, ARCH_AMD64}, {ARCH_AMD64, ARCH_ARM64}} {
		script, _ := toolchain.ScriptPath(pair)
		compiler, _ := toolchain.CompilerPath(pair)
		runner.On(script, testActivation{Stdout: testSetOutput(filepath.Dir(compiler))})
	}

	discovery := NewDiscovery(
		OptionDiscoveryFs(fs),
		OptionDiscoveryRunner(runner),
		OptionDiscoveryDecoder(Utf8TextDecoder),
		OptionDiscoveryHostArch(FixedHostArch("x64")),
		OptionDiscoveryVsWhere(vswhere),
		OptionDiscoveryBaseEnvironment(makeTestBaseEnvironment()))
	return discovery, runner, fs
}

func TestDiscoveryToolchains(t *testing.T) {
	discovery, _, _ := newTestDiscovery(t)

	catalog, err := discovery.Catalog()
	require.NoError(t, err)
	require.Len(t, catalog.Instances, 1)
	assert.Equal(t, MSVC_EDITION_COMMUNITY, catalog.Instances[0].Edition)

	toolchains, err := discovery.Toolchains()
	require.NoError(t, err)
	require.Len(t, toolchains, 1)
	assert.Equal(t, "14.3", toolchains[0].Version)
	assert.Len(t, toolchains[0].Pairs, 2)
}

func TestDiscoveryActivate(t *testing.T) {
	discovery, runner, _ := newTestDiscovery(t)

	activation, err := discovery.Activate("", "")
	require.NoError(t, err)
	require.True(t, activation.HasCompiler())
	assert.Equal(t, HostTarget{ARCH_AMD64, ARCH_AMD64}, activation.Pair())
	comspec, ok := activation.Variables.Lookup("ComSpec")
	assert.True(t, ok, "shell variables are kept: %v", activation.Variables.Names())
	assert.Equal(t, `C:\Windows\system32\cmd.exe`, comspec)

	activation, err = discovery.Activate("14.3", "aarch64")
	require.NoError(t, err)
	require.True(t, activation.HasCompiler())
	assert.Equal(t, HostTarget{ARCH_AMD64, ARCH_ARM64}, activation.Pair())
	assert.Len(t, runner.calls, 4, "vswhere then one script, twice")

	activation, err = discovery.Activate("14.2", "")
	require.NoError(t, err)
	assert.False(t, activation.HasCompiler())

	_, err = discovery.Activate("", "mips")
	assert.ErrorIs(t, err, ErrUnrecognizedArchitecture)
}

func TestDiscoveryKeepsModernPassthrough(t *testing.T) {
	discovery, runner, _ := newTestDiscovery(t)
	toolchains, err := discovery.Toolchains()
	require.NoError(t, err)
	require.Len(t, toolchains, 1)

	script, _ := toolchains[0].ScriptPath(HostTarget{ARCH_AMD64, ARCH_AMD64})
	compiler, _ := toolchains[0].CompilerPath(HostTarget{ARCH_AMD64, ARCH_AMD64})
	runner.On(script, testActivation{Stdout: testSetOutput(filepath.Dir(compiler)) + "ProgramFiles=C:\\Program Files\r\n"})

	minimal, err := discovery.ActivateToolchains(toolchains, discovery.BaseEnvironment, false)
	require.NoError(t, err)
	require.True(t, minimal.HasCompiler())
	_, ok := minimal.Variables.IndexOf("ProgramFiles")
	assert.False(t, ok)
	_, ok = minimal.Variables.IndexOf("ComSpec")
	assert.True(t, ok)

	modern, err := discovery.ActivateToolchains(toolchains, discovery.BaseEnvironment, true)
	require.NoError(t, err)
	programFiles, ok := modern.Variables.Lookup("ProgramFiles")
	assert.True(t, ok)
	assert.Equal(t, `C:\Program Files`, programFiles)
}

func TestNewDiscoveryModernOption(t *testing.T) {
	discovery := NewDiscovery(
		OptionDiscoveryFs(afero.NewMemMapFs()),
		OptionDiscoveryModern(true),
		OptionDiscoveryPassthrough("GOPATH"))
	assert.True(t, discovery.Modern)
	assert.True(t, discovery.Passthrough.Contains(BaseEnvironmentPassthrough...))
	assert.True(t, discovery.Passthrough.Contains("GOPATH"))
}
