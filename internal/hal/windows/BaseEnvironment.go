package windows

import (
	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
)

/***************************************
 * Base environments
 ***************************************/

// Minimal set of variables needed by cmd.exe and vcvars*.bat.
var BaseEnvironmentPassthrough = base.StringSet{
	"ComSpec",
	"OS",
	"SystemDrive",
	"SystemRoot",
	"TEMP",
	"TMP",
	"USERPROFILE",
	"windir",
}

// Per-machine folders recent vcvars*.bat rely on to find the Windows SDK and vswhere.
var ModernEnvironmentPassthrough = base.StringSet{
	"ALLUSERSPROFILE",
	"APPDATA",
	"LOCALAPPDATA",
	"ProgramData",
	"ProgramFiles",
	"ProgramFiles(x86)",
	"ProgramW6432",
	"CommonProgramFiles",
	"CommonProgramFiles(x86)",
	"CommonProgramW6432",
	"PUBLIC",
	"PROCESSOR_ARCHITECTURE",
}

type BaseEnvironmentOptions struct {
	Modern        bool
	SkipTelemetry bool
	Passthrough   base.StringSet
}

type BaseEnvironmentOptionFunc func(*BaseEnvironmentOptions)

func OptionBaseEnvironmentModern(enabled bool) BaseEnvironmentOptionFunc {
	return func(beo *BaseEnvironmentOptions) {
		beo.Modern = enabled
	}
}
func OptionBaseEnvironmentSkipTelemetry(enabled bool) BaseEnvironmentOptionFunc {
	return func(beo *BaseEnvironmentOptions) {
		beo.SkipTelemetry = enabled
	}
}
func OptionBaseEnvironmentPassthrough(names ...string) BaseEnvironmentOptionFunc {
	return func(beo *BaseEnvironmentOptions) {
		beo.Passthrough.AppendUniq(names...)
	}
}

// NewBaseEnvironment copies a fixed list of variables from lookup, nothing else leaks from the caller.
func NewBaseEnvironment(lookup EnvironmentLookup, options ...BaseEnvironmentOptionFunc) internal_io.ProcessEnvironment {
	opts := BaseEnvironmentOptions{SkipTelemetry: true}
	for _, it := range options {
		it(&opts)
	}

	names := BaseEnvironmentPassthrough.Clone()
	if opts.Modern {
		names.AppendUniq(ModernEnvironmentPassthrough...)
	}
	names.AppendUniq(opts.Passthrough...)

	env := internal_io.NewProcessEnvironment()
	for _, name := range names {
		if value, ok := lookup(name); ok && len(value) > 0 {
			env.Set(name, value)
		}
	}

	root := systemRoot(env)
	env.Set("PATH",
		root+`\System32`,
		root+`\System32\Wbem`,
		root+`\System32\WindowsPowerShell\v1.0`)

	if opts.SkipTelemetry {
		env.Set("VSCMD_SKIP_SENDTELEMETRY", "1")
	}
	return env
}
