package windows

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/afero"
)

/***************************************
 * Activation whitelist
 ***************************************/

var ActivationPathVariables = base.StringSet{
	"INCLUDE",
	"LIB",
	"LIBPATH",
	"PATH",
}

var ActivationScalarVariables = base.StringSet{
	"VSCMD_ARG_app_plat",
	"VCINSTALLDIR",
	"VCToolsInstallDir",
	"VSCMD_SKIP_SENDTELEMETRY",
}

// Known vcvars*.bat failures, some of them still return 0. Leading blanks are ignored.
var ActivationErrorSignatures = []*regexp.Regexp{
	regexp.MustCompile(`^\s*VSINSTALLDIR variable is not set`),
	regexp.MustCompile(`^\s*The specified configuration type is missing`),
	regexp.MustCompile(`^\s*Error in script usage`),
	regexp.MustCompile(`^\s*ERROR:`),
	regexp.MustCompile(`^\s*!ERROR!`),
	regexp.MustCompile(`^\s*\[ERROR:`),
	regexp.MustCompile(`^\s*\[ERROR\]`),
	regexp.MustCompile(`^\s*Syntax:`),
}

const MSVC_COMPILER_EXE = "cl.exe"

/***************************************
 * Activation Environment
 ***************************************/

// ActivationEnvironment always defines every whitelisted variable, possibly empty.
// Host and Target are only meaningful when HasCompiler() is true.
type ActivationEnvironment struct {
	Variables    internal_io.ProcessEnvironment
	Version      string
	Host         ArchType
	Target       ArchType
	Script       string
	CompilerPath string
	Duration     time.Duration
	Warnings     []string
}

func NewActivationVariables(passthrough ...string) internal_io.ProcessEnvironment {
	env := internal_io.NewProcessEnvironment()
	for _, name := range ActivationPathVariables {
		env.Set(name)
	}
	for _, name := range ActivationScalarVariables {
		env.Set(name)
	}
	for _, name := range passthrough {
		if _, ok := env.IndexOf(name); !ok {
			env.Set(name)
		}
	}
	return env
}

func (x *ActivationEnvironment) HasCompiler() bool {
	return len(x.CompilerPath) > 0
}
func (x *ActivationEnvironment) Pair() HostTarget {
	return HostTarget{Host: x.Host, Target: x.Target}
}

// Fingerprint only covers the variables, two activations of the same toolchain should match.
func (x *ActivationEnvironment) Fingerprint() base.Fingerprint {
	fingerprint, err := base.FingerprintWriter(func(w io.Writer) error {
		for _, it := range x.Variables.Export() {
			if _, err := io.WriteString(w, it); err != nil {
				return err
			}
			if _, err := w.Write([]byte{0}); err != nil {
				return err
			}
		}
		return nil
	}, base.Fingerprint{})
	base.LogPanicIfFailed(LogWindows, err)
	return fingerprint
}

/***************************************
 * Activation output parsing
 ***************************************/

// ParseActivationOutput matches NAME= prefixes case-insensitively. Path lists are split on ';'
// with quotes and empty entries removed. Lines matching an error signature are returned apart.
func ParseActivationOutput(output string, passthrough ...string) (internal_io.ProcessEnvironment, []string) {
	env := NewActivationVariables(passthrough...)

	scalars := ActivationScalarVariables.Clone()
	scalars.AppendUniq(passthrough...)

	var matched []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}

		for _, re := range ActivationErrorSignatures {
			if re.MatchString(line) {
				matched = append(matched, line)
				break
			}
		}

		if name, value, ok := matchVariable(line, ActivationPathVariables); ok {
			env.Set(name, splitPathList(value)...)
		} else if name, value, ok := matchVariable(line, scalars); ok {
			if value = strings.TrimSpace(value); len(value) > 0 {
				env.Set(name, value)
			} else {
				env.Set(name)
			}
		}
	}
	return env, matched
}

func matchVariable(line string, names base.StringSet) (string, string, bool) {
	for _, name := range names {
		if len(line) > len(name) && line[len(name)] == '=' && strings.EqualFold(line[:len(name)], name) {
			return name, line[len(name)+1:], true
		}
	}
	return "", "", false
}

func splitPathList(value string) (result []string) {
	for _, it := range strings.Split(value, ";") {
		if it = base.TrimQuotes(it); len(it) > 0 {
			result = append(result, it)
		}
	}
	return
}

// FindCompiler looks for cl.exe in PATH order, like cmd.exe would.
func FindCompiler(fs afero.Fs, env internal_io.ProcessEnvironment) (string, bool) {
	paths, _ := env.Get("PATH")
	for _, dir := range paths {
		if compiler := filepath.Join(dir, MSVC_COMPILER_EXE); isFile(fs, compiler) {
			return compiler, true
		}
	}
	return "", false
}

/***************************************
 * Environment Extractor
 ***************************************/

type ExtractOptions struct {
	Fs          afero.Fs
	Runner      internal_io.ProcessRunner
	Decoder     TextDecoder
	Stderr      io.Writer
	Passthrough base.StringSet
}

type ExtractOptionFunc func(*ExtractOptions)

func OptionExtractFs(fs afero.Fs) ExtractOptionFunc {
	return func(eo *ExtractOptions) {
		eo.Fs = fs
	}
}
func OptionExtractRunner(runner internal_io.ProcessRunner) ExtractOptionFunc {
	return func(eo *ExtractOptions) {
		eo.Runner = runner
	}
}
func OptionExtractDecoder(decoder TextDecoder) ExtractOptionFunc {
	return func(eo *ExtractOptions) {
		eo.Decoder = decoder
	}
}
func OptionExtractStderr(dst io.Writer) ExtractOptionFunc {
	return func(eo *ExtractOptions) {
		eo.Stderr = dst
	}
}
func OptionExtractPassthrough(names ...string) ExtractOptionFunc {
	return func(eo *ExtractOptions) {
		eo.Passthrough.AppendUniq(names...)
	}
}

func newExtractOptions(options ...ExtractOptionFunc) (result ExtractOptions) {
	for _, it := range options {
		it(&result)
	}
	if result.Fs == nil {
		result.Fs = afero.NewOsFs()
	}
	if result.Runner == nil {
		result.Runner = internal_io.DefaultProcessRunner
	}
	if result.Decoder == nil {
		result.Decoder = OEMTextDecoder()
	}
	return
}

// ExtractEnvironment runs script under a copy of baseEnv. A detected error signature is only
// fatal when cl.exe can't be found on the resulting PATH.
func ExtractEnvironment(script string, args base.StringSet, baseEnv internal_io.ProcessEnvironment, options ...ExtractOptionFunc) (*ActivationEnvironment, error) {
	opts := newExtractOptions(options...)
	return extractEnvironment(script, args, baseEnv, &opts)
}

func extractEnvironment(script string, args base.StringSet, baseEnv internal_io.ProcessEnvironment, opts *ExtractOptions) (*ActivationEnvironment, error) {
	env := baseEnv.Clone()
	shell := ShellExecutable(env)
	command := ActivationCommand(script, args)

	base.LogVerbose(LogWindows, "extract: running %s", command)

	result, err := opts.Runner.RunProcess(shell, ShellArguments(command),
		internal_io.OptionProcessEnvironment(env),
		internal_io.OptionProcessRawCommandLine(ShellCommandLine(shell, command)))
	if err != nil {
		return nil, err
	}

	stderr, err := opts.Decoder.DecodeText(result.Stderr)
	if err != nil {
		return nil, err
	}
	if stderr = strings.TrimSpace(stderr); len(stderr) > 0 {
		base.LogWarning(LogWindows, "extract: %q wrote on stderr:\n%s", script, stderr)
		if opts.Stderr != nil {
			if _, err := io.WriteString(opts.Stderr, stderr+"\n"); err != nil {
				return nil, err
			}
		}
	}

	if !result.Success() {
		return nil, &ScriptExitError{Script: script, ExitCode: result.ExitCode, Stderr: stderr}
	}

	stdout, err := opts.Decoder.DecodeText(result.Stdout)
	if err != nil {
		return nil, err
	}

	variables, matched := ParseActivationOutput(stdout, opts.Passthrough...)
	compiler, found := FindCompiler(opts.Fs, variables)

	activation := &ActivationEnvironment{
		Variables:    variables,
		Script:       script,
		CompilerPath: compiler,
		Duration:     result.Duration,
	}

	if len(matched) > 0 {
		if !found {
			return nil, &ActivationFailedError{Script: script, Lines: matched}
		}
		for _, line := range matched {
			base.LogWarning(LogWindows, "extract: %q degraded but %s was found: %s", script, MSVC_COMPILER_EXE, line)
		}
		activation.Warnings = matched
	}
	return activation, nil
}
