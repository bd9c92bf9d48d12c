package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/config"
	"github.com/poppolopoppo/msvcenv/internal/hal/windows"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/cobra"
)

var LogCommand = base.NewLogCategory("Command")

// ErrNoCompiler makes the process exit with code 1 when activation found nothing usable.
var ErrNoCompiler = errors.New("no usable msvc compiler found")

/***************************************
 * Command Flags
 ***************************************/

type CommandFlags struct {
	ConfigFile string
	Verbose    bool
	LogLevel   string
	Output     string
	VsWhere    []string
	HostArch   string
	Prerelease bool
	ModernEnv  bool
	Profiling  ProfilingMode
	ProfileDir string
}

/***************************************
 * Command Environment
 ***************************************/

// CommandEnvironment is shared by every sub command, it only lives for one invocation.
type CommandEnvironment struct {
	Flags  CommandFlags
	Loader *config.Loader
	Config *config.Config

	Stdout io.Writer
	Stderr io.Writer
	Lookup windows.EnvironmentLookup

	// appended last when creating a discovery, ie to inject a fake filesystem
	DiscoveryOptions []windows.DiscoveryOptionFunc

	profiler Profiler
}

type CommandEnvironmentOptionFunc func(*CommandEnvironment)

func OptionCommandOutput(stdout, stderr io.Writer) CommandEnvironmentOptionFunc {
	return func(ce *CommandEnvironment) {
		ce.Stdout = stdout
		ce.Stderr = stderr
	}
}
func OptionCommandLoader(loader *config.Loader) CommandEnvironmentOptionFunc {
	return func(ce *CommandEnvironment) {
		ce.Loader = loader
	}
}
func OptionCommandLookup(lookup windows.EnvironmentLookup) CommandEnvironmentOptionFunc {
	return func(ce *CommandEnvironment) {
		ce.Lookup = lookup
	}
}
func OptionCommandDiscovery(options ...windows.DiscoveryOptionFunc) CommandEnvironmentOptionFunc {
	return func(ce *CommandEnvironment) {
		ce.DiscoveryOptions = append(ce.DiscoveryOptions, options...)
	}
}

func NewCommandEnvironment(options ...CommandEnvironmentOptionFunc) *CommandEnvironment {
	result := &CommandEnvironment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Lookup:   os.LookupEnv,
		profiler: noopProfiler{},
	}
	for _, it := range options {
		it(result)
	}
	if result.Loader == nil {
		result.Loader = config.NewLoader()
	}
	return result
}

func (x *CommandEnvironment) prepare(cmd *cobra.Command) error {
	v := x.Loader.Viper()
	for key, flag := range map[string]string{
		config.KEY_LOG_LEVEL:  "log-level",
		config.KEY_OUTPUT:     "output",
		config.KEY_VSWHERE:    "vswhere",
		config.KEY_HOST_ARCH:  "host-arch",
		config.KEY_PRERELEASE: "prerelease",
		config.KEY_MODERN_ENV: "modern-env",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := x.Loader.Load(x.Flags.ConfigFile)
	if err != nil {
		return err
	}
	x.Config = cfg

	level := cfg.Level
	if x.Flags.Verbose && level > base.LOG_VERBOSE {
		level = base.LOG_VERBOSE
	}
	base.SetLogVisibleLevel(level)
	base.GetLogger().SetWriter(x.Stderr)

	x.profiler = StartProfiling(x.Flags.Profiling, x.Flags.ProfileDir)
	return nil
}

func (x *CommandEnvironment) finalize() {
	x.profiler.Stop()
	x.profiler = noopProfiler{}
}

func (x *CommandEnvironment) BaseEnvironment(modern bool) internal_io.ProcessEnvironment {
	return windows.NewBaseEnvironment(x.Lookup,
		windows.OptionBaseEnvironmentModern(modern),
		windows.OptionBaseEnvironmentSkipTelemetry(x.Config.SkipTelemetry),
		windows.OptionBaseEnvironmentPassthrough(x.Config.Passthrough...))
}

func (x *CommandEnvironment) NewDiscovery() *windows.Discovery {
	options := []windows.DiscoveryOptionFunc{
		windows.OptionDiscoveryVsWhere(windows.DefaultVsWhereLocations(x.Lookup, x.Config.VsWhere...)...),
		windows.OptionDiscoveryAllowPrerelease(x.Config.Prerelease),
		windows.OptionDiscoveryModern(x.Config.ModernEnv),
		windows.OptionDiscoveryPassthrough(x.Config.Passthrough...),
		windows.OptionDiscoveryBaseEnvironment(x.BaseEnvironment(x.Config.ModernEnv)),
		windows.OptionDiscoveryStderr(x.Stderr),
	}
	if len(x.Config.HostArch) > 0 {
		options = append(options, windows.OptionDiscoveryHostArch(windows.FixedHostArch(x.Config.HostArch)))
	}
	return windows.NewDiscovery(append(options, x.DiscoveryOptions...)...)
}

func (x *CommandEnvironment) Print(report Report) error {
	return WriteReport(x.Stdout, x.Config.Format, report)
}

/***************************************
 * Root Command
 ***************************************/

func NewRootCommand(env *CommandEnvironment) *cobra.Command {
	root := &cobra.Command{
		Use:           "msvcenv",
		Short:         "Find MSVC toolchains and print their activated environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			env.finalize()
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&env.Flags.ConfigFile, "config", "", "path to a config file (default: msvcenv.{yaml,toml,json} in . or the user config dir)")
	flags.BoolVarP(&env.Flags.Verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&env.Flags.LogLevel, "log-level", base.LOG_INFO.String(), "log level (env: MSVCENV_LOG_LEVEL)")
	flags.StringVarP(&env.Flags.Output, "output", "o", config.OUTPUT_TABLE.String(), "output format: table, json, yaml (env: MSVCENV_OUTPUT)")
	flags.StringSliceVar(&env.Flags.VsWhere, "vswhere", nil, "vswhere.exe locations tried before the default ones (env: MSVCENV_VSWHERE)")
	flags.StringVar(&env.Flags.HostArch, "host-arch", "", "override the native host architecture (env: MSVCENV_HOST_ARCH)")
	flags.BoolVar(&env.Flags.Prerelease, "prerelease", false, "fallback on prerelease instances (env: MSVCENV_PRERELEASE)")
	flags.BoolVar(&env.Flags.ModernEnv, "modern-env", false, "pass per-machine folders to activation scripts (env: MSVCENV_MODERN_ENV)")
	flags.Var(&env.Flags.Profiling, "profile", "profiling mode: none, block, cpu, goroutine, mem, mutex, trace")
	flags.StringVar(&env.Flags.ProfileDir, "profile-dir", ".", "output directory for profiles")

	root.AddCommand(
		NewListCommand(env),
		NewToolchainsCommand(env),
		NewActivateCommand(env),
		NewProbeCommand(env),
		NewVersionCommand(env))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, options ...CommandEnvironmentOptionFunc) int {
	env := NewCommandEnvironment(options...)
	root := NewRootCommand(env)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		env.finalize()
		base.LogError(LogCommand, "%v", err)
		return 1
	}
	return 0
}
