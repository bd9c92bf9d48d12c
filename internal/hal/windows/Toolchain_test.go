package windows

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestCatalog(t *testing.T, fs afero.Fs, entries ...VsWhereEntry) *MsvcCatalog {
	t.Helper()
	catalog, err := BuildMsvcCatalog(fs, entries)
	require.NoError(t, err)
	return catalog
}

func TestFindInstalledToolchain(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := testPath("VS", "Professional")
	makeTestInstall(t, fs, root, "14.38.33130", HostTargetTable2022,
		HostTarget{ARCH_AMD64, ARCH_AMD64},
		HostTarget{ARCH_AMD64, ARCH_ARM64},
		HostTarget{ARCH_X86, ARCH_X86})

	// script without compiler is not usable
	toolchain := InstalledToolchain{VcDir: testPath("VS", "Professional", "VC"), ToolsVersion: "14.38.33130", Table: HostTargetTable2022}
	script, _ := toolchain.ScriptPath(HostTarget{ARCH_AMD64, ARCH_X86})
	writeTestFile(t, fs, script, "@echo off")

	catalog := makeTestCatalog(t, fs, VsWhereEntry{
		InstallationPath: root, InstallationVersion: "17.8.3", ProductId: "Microsoft.VisualStudio.Product.Professional",
	})

	found, err := FindInstalledToolchain(catalog, "14.3", ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	assert.Equal(t, "14.3", found.Version)
	assert.Equal(t, "14.38.33130", found.ToolsVersion)
	assert.Equal(t, toolchain.VcDir, found.VcDir)
	assert.Equal(t, []HostTarget{
		{ARCH_AMD64, ARCH_AMD64},
		{ARCH_AMD64, ARCH_ARM64},
		{ARCH_X86, ARCH_X86},
	}, found.Pairs)
	assert.False(t, found.ToolsInstalledAt.IsZero())

	compiler, ok := found.CompilerPath(HostTarget{ARCH_AMD64, ARCH_ARM64})
	require.True(t, ok)
	assert.Equal(t, testPath("VS", "Professional", "VC", "Tools", "MSVC", "14.38.33130", "bin", "Hostx64", "arm64", "cl.exe"), compiler)

	arm64 := found.WithTarget(ARCH_ARM64)
	assert.Equal(t, []HostTarget{{ARCH_AMD64, ARCH_ARM64}}, arm64.Pairs)
	assert.Len(t, found.Pairs, 3, "WithTarget must not alias")
}

func TestFindInstalledToolchainAbsence(t *testing.T) {
	fs := afero.NewMemMapFs()
	makeTestRoots(t, fs, "incomplete", "preview")
	require.NoError(t, fs.MkdirAll(testPath("preview", "VC"), 0o755))

	catalog := makeTestCatalog(t, fs,
		VsWhereEntry{InstallationPath: testPath("incomplete"), InstallationVersion: "16.11", ProductId: "Microsoft.VisualStudio.Product.BuildTools"},
		VsWhereEntry{InstallationPath: testPath("preview"), InstallationVersion: "17.10", ProductId: "Microsoft.VisualStudio.Product.Enterprise", IsPrerelease: true})

	// not installed
	toolchain, err := FindInstalledToolchain(catalog, "14.1", ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	assert.True(t, toolchain.Empty())

	// no marker file
	toolchain, err = FindInstalledToolchain(catalog, "14.2", ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	assert.True(t, toolchain.Empty())
	assert.Empty(t, toolchain.ToolsVersion)

	// empty marker file
	writeTestFile(t, fs, VcToolsVersionFile(testPath("incomplete", "VC")), "\r\n")
	toolchain, err = FindInstalledToolchain(catalog, "14.2", ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	assert.True(t, toolchain.Empty())

	// prerelease only
	toolchain, err = FindInstalledToolchain(catalog, "14.3", ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	assert.True(t, toolchain.Empty())
	assert.Empty(t, toolchain.VcDir)
}

func TestFindInstalledToolchainAllowPrerelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := testPath("preview")
	makeTestInstall(t, fs, root, "14.40.33807", HostTargetTable2022, HostTarget{ARCH_AMD64, ARCH_AMD64})

	catalog := makeTestCatalog(t, fs, VsWhereEntry{
		InstallationPath: root, InstallationVersion: "17.10", ProductId: "Microsoft.VisualStudio.Product.Enterprise", IsPrerelease: true,
	})

	toolchain, err := FindInstalledToolchain(catalog, "14.3", ARCH_AMD64,
		OptionToolchainFs(fs),
		OptionToolchainAllowPrerelease(true))
	require.NoError(t, err)
	assert.Equal(t, []HostTarget{{ARCH_AMD64, ARCH_AMD64}}, toolchain.Pairs)
}

func TestFindInstalledToolchainUnsupportedMachine(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := testPath("itanium")
	makeTestInstall(t, fs, root, "14.38.33130", HostTargetTable2022, HostTarget{ARCH_AMD64, ARCH_AMD64})

	catalog := makeTestCatalog(t, fs, VsWhereEntry{
		InstallationPath: root, InstallationVersion: "17.8", ProductId: "Microsoft.VisualStudio.Product.Community",
	})

	_, err := FindInstalledToolchain(catalog, "14.3", ARCH_IA64, OptionToolchainFs(fs))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedHostArch))
}

func TestInstalledToolchains(t *testing.T) {
	fs := afero.NewMemMapFs()
	makeTestInstall(t, fs, testPath("vs2022"), "14.38.33130", HostTargetTable2022, HostTarget{ARCH_AMD64, ARCH_AMD64})
	makeTestInstall(t, fs, testPath("vs2017"), "14.16.27023", HostTargetTable2017, HostTarget{ARCH_X86, ARCH_X86})
	makeTestRoots(t, fs, "vs2019")

	catalog := makeTestCatalog(t, fs,
		VsWhereEntry{InstallationPath: testPath("vs2017"), InstallationVersion: "15.9", ProductId: "Microsoft.VisualStudio.Product.BuildTools"},
		VsWhereEntry{InstallationPath: testPath("vs2019"), InstallationVersion: "16.11", ProductId: "Microsoft.VisualStudio.Product.Community"},
		VsWhereEntry{InstallationPath: testPath("vs2022"), InstallationVersion: "17.8", ProductId: "Microsoft.VisualStudio.Product.Community"})

	toolchains, err := InstalledToolchains(catalog, ARCH_AMD64, OptionToolchainFs(fs))
	require.NoError(t, err)
	require.Len(t, toolchains, 2)
	assert.Equal(t, "14.3", toolchains[0].Version)
	assert.Equal(t, "14.1", toolchains[1].Version)
	assert.Equal(t, []HostTarget{{ARCH_X86, ARCH_X86}}, toolchains[1].Pairs)
	assert.Same(t, HostTargetTable2017, toolchains[1].Table)
}
