package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigDir() string {
	return filepath.Join(os.TempDir(), "msvcenv-config-test")
}

func newTestLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		path := filepath.Join(testConfigDir(), name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return NewLoader(OptionLoaderFs(fs), OptionLoaderSearchPaths(testConfigDir()))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := newTestLoader(t, nil).Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.ConfigFile)
	assert.Empty(t, cfg.VsWhere)
	assert.Empty(t, cfg.HostArch)
	assert.False(t, cfg.Prerelease)
	assert.False(t, cfg.ModernEnv)
	assert.True(t, cfg.SkipTelemetry)
	assert.Equal(t, base.LOG_INFO, cfg.Level)
	assert.Equal(t, OUTPUT_TABLE, cfg.Format)
}

func TestLoadSearchedFile(t *testing.T) {
	cfg, err := newTestLoader(t, map[string]string{
		"msvcenv.yaml": "host_arch: arm64\nprerelease: true\npassthrough:\n  - CUSTOM_VAR\n  - OTHER_VAR\noutput: json\n",
	}).Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(testConfigDir(), "msvcenv.yaml"), cfg.ConfigFile)
	assert.Equal(t, "arm64", cfg.HostArch)
	assert.True(t, cfg.Prerelease)
	assert.Equal(t, []string{"CUSTOM_VAR", "OTHER_VAR"}, cfg.Passthrough)
	assert.Equal(t, OUTPUT_JSON, cfg.Format)
}

func TestLoadExplicitFile(t *testing.T) {
	loader := newTestLoader(t, map[string]string{
		"custom.json": `{"modern_env": true, "skip_telemetry": false, "log_level": "verbose"}`,
	})
	cfg, err := loader.Load(filepath.Join(testConfigDir(), "custom.json"))
	require.NoError(t, err)

	assert.True(t, cfg.ModernEnv)
	assert.False(t, cfg.SkipTelemetry)
	assert.Equal(t, base.LOG_VERBOSE, cfg.Level)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := newTestLoader(t, nil).Load(filepath.Join(testConfigDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("MSVCENV_HOST_ARCH", "x64")
	t.Setenv("MSVCENV_VSWHERE", "a.exe,b.exe")
	t.Setenv("MSVCENV_OUTPUT", "yaml")

	cfg, err := newTestLoader(t, map[string]string{
		"msvcenv.yaml": "host_arch: arm64\n",
	}).Load("")
	require.NoError(t, err)

	assert.Equal(t, "x64", cfg.HostArch)
	assert.Equal(t, []string{"a.exe", "b.exe"}, cfg.VsWhere)
	assert.Equal(t, OUTPUT_YAML, cfg.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := newTestLoader(t, map[string]string{
		"msvcenv.yaml": "output: xml\n",
	}).Load("")
	assert.ErrorContains(t, err, KEY_OUTPUT)

	_, err = newTestLoader(t, map[string]string{
		"msvcenv.yaml": "log_level: chatty\n",
	}).Load("")
	assert.ErrorContains(t, err, KEY_LOG_LEVEL)
}

func TestOutputFormatSet(t *testing.T) {
	var format OutputFormat
	require.NoError(t, format.Set("JSON"))
	assert.Equal(t, OUTPUT_JSON, format)
	assert.Error(t, format.Set("csv"))
}
