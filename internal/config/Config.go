package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var LogConfig = base.NewLogCategory("Config")

const (
	ENV_PREFIX  = "MSVCENV"
	CONFIG_NAME = "msvcenv"
)

const (
	KEY_VSWHERE        = "vswhere"
	KEY_HOST_ARCH      = "host_arch"
	KEY_PRERELEASE     = "prerelease"
	KEY_MODERN_ENV     = "modern_env"
	KEY_SKIP_TELEMETRY = "skip_telemetry"
	KEY_PASSTHROUGH    = "passthrough"
	KEY_LOG_LEVEL      = "log_level"
	KEY_OUTPUT         = "output"
)

/***************************************
 * Output Format
 ***************************************/

type OutputFormat string

const (
	OUTPUT_TABLE OutputFormat = "table"
	OUTPUT_JSON  OutputFormat = "json"
	OUTPUT_YAML  OutputFormat = "yaml"
)

func GetOutputFormats() []OutputFormat {
	return []OutputFormat{
		OUTPUT_TABLE,
		OUTPUT_JSON,
		OUTPUT_YAML,
	}
}
func (x OutputFormat) String() string { return string(x) }
func (x *OutputFormat) Set(in string) error {
	for _, it := range GetOutputFormats() {
		if strings.EqualFold(it.String(), in) {
			*x = it
			return nil
		}
	}
	return base.MakeUnexpectedValueError(x, in)
}

/***************************************
 * Config
 ***************************************/

type Config struct {
	VsWhere       []string `mapstructure:"vswhere"`
	HostArch      string   `mapstructure:"host_arch"`
	Prerelease    bool     `mapstructure:"prerelease"`
	ModernEnv     bool     `mapstructure:"modern_env"`
	SkipTelemetry bool     `mapstructure:"skip_telemetry"`
	Passthrough   []string `mapstructure:"passthrough"`
	LogLevel      string   `mapstructure:"log_level"`
	Output        string   `mapstructure:"output"`

	// set by Validate()
	Level  base.LogLevel `mapstructure:"-"`
	Format OutputFormat  `mapstructure:"-"`
	// empty when no file was found
	ConfigFile string `mapstructure:"-"`
}

func (x *Config) Validate() error {
	if err := x.Level.Set(x.LogLevel); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KEY_LOG_LEVEL, x.LogLevel, err)
	}
	if err := x.Format.Set(x.Output); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KEY_OUTPUT, x.Output, err)
	}
	return nil
}

/***************************************
 * Loader
 ***************************************/

type LoaderOptions struct {
	Fs          afero.Fs
	SearchPaths []string
}

type LoaderOptionFunc func(*LoaderOptions)

func OptionLoaderFs(fs afero.Fs) LoaderOptionFunc {
	return func(lo *LoaderOptions) {
		lo.Fs = fs
	}
}
func OptionLoaderSearchPaths(paths ...string) LoaderOptionFunc {
	return func(lo *LoaderOptions) {
		lo.SearchPaths = paths
	}
}

func DefaultSearchPaths() (result []string) {
	result = append(result, ".")
	if dir, err := os.UserConfigDir(); err == nil {
		result = append(result, filepath.Join(dir, CONFIG_NAME))
	}
	return
}

// Loader merges defaults < config file < MSVCENV_* environment < bound flags.
type Loader struct {
	v *viper.Viper
}

func NewLoader(options ...LoaderOptionFunc) *Loader {
	opts := LoaderOptions{
		Fs:          afero.NewOsFs(),
		SearchPaths: DefaultSearchPaths(),
	}
	for _, it := range options {
		it(&opts)
	}

	v := viper.New()
	v.SetFs(opts.Fs)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KEY_VSWHERE, []string{})
	v.SetDefault(KEY_HOST_ARCH, "")
	v.SetDefault(KEY_PRERELEASE, false)
	v.SetDefault(KEY_MODERN_ENV, false)
	v.SetDefault(KEY_SKIP_TELEMETRY, true)
	v.SetDefault(KEY_PASSTHROUGH, []string{})
	v.SetDefault(KEY_LOG_LEVEL, base.LOG_INFO.String())
	v.SetDefault(KEY_OUTPUT, OUTPUT_TABLE.String())

	v.SetConfigName(CONFIG_NAME)
	for _, it := range opts.SearchPaths {
		v.AddConfigPath(it)
	}

	return &Loader{v: v}
}

// Viper gives access to the underlying store, ie to bind cobra flags.
func (x *Loader) Viper() *viper.Viper { return x.v }

// Load reads configFile when given, else looks for an optional msvcenv.{yaml,toml,json} in search paths.
func (x *Loader) Load(configFile string) (*Config, error) {
	if len(configFile) > 0 {
		x.v.SetConfigFile(configFile)
	}

	if err := x.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case len(configFile) == 0 && errors.As(err, &notFound):
			base.LogVeryVerbose(LogConfig, "no config file found, using defaults and environment")
		case len(configFile) == 0 && errors.Is(err, fs.ErrNotExist):
			base.LogVeryVerbose(LogConfig, "no config file found, using defaults and environment")
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := x.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ConfigFile = x.v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base.LogVerbose(LogConfig, "loaded config (file: %q, log level: %v, output: %v)", cfg.ConfigFile, cfg.Level, cfg.Format)
	return &cfg, nil
}
