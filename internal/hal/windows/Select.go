package windows

import (
	"time"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
)

/***************************************
 * Selection Orchestrator
 ***************************************/

// SelectToolchain tries every pair of toolchain in order until cl.exe is found on the activated PATH.
// Activation failures only skip the pair: when all pairs are exhausted the returned environment
// has no compiler and err is nil.
func SelectToolchain(toolchain InstalledToolchain, baseEnv internal_io.ProcessEnvironment, options ...ExtractOptionFunc) (*ActivationEnvironment, error) {
	opts := newExtractOptions(options...)
	return selectToolchain(time.Now(), toolchain, baseEnv, &opts)
}

// SelectFirstToolchain applies SelectToolchain on each toolchain, best first.
func SelectFirstToolchain(toolchains []InstalledToolchain, baseEnv internal_io.ProcessEnvironment, options ...ExtractOptionFunc) (*ActivationEnvironment, error) {
	opts := newExtractOptions(options...)
	startedAt := time.Now()

	for _, toolchain := range toolchains {
		activation, err := selectToolchain(startedAt, toolchain, baseEnv, &opts)
		if err != nil || activation.HasCompiler() {
			return activation, err
		}
	}
	return newEmptyActivation("", startedAt, &opts), nil
}

func selectToolchain(startedAt time.Time, toolchain InstalledToolchain, baseEnv internal_io.ProcessEnvironment, opts *ExtractOptions) (*ActivationEnvironment, error) {
	defer base.LogBenchmark(LogWindows, "select msvc %s", toolchain.Version).Close()

	for _, pair := range toolchain.Pairs {
		script, ok := toolchain.ScriptPath(pair)
		if !ok || !isFile(opts.Fs, script) {
			base.LogVerbose(LogWindows, "select: msvc %s %v skipped, missing script %q", toolchain.Version, pair, script)
			continue
		}

		activation, err := extractEnvironment(script, nil, baseEnv, opts)
		if err != nil {
			if IsActivationError(err) {
				base.LogVerbose(LogWindows, "select: msvc %s %v failed, trying next pair: %v", toolchain.Version, pair, err)
				continue
			}
			return nil, err
		}
		if !activation.HasCompiler() {
			base.LogVerbose(LogWindows, "select: msvc %s %v did not put %s on PATH", toolchain.Version, pair, MSVC_COMPILER_EXE)
			continue
		}

		activation.Version = toolchain.Version
		activation.Host = pair.Host
		activation.Target = pair.Target
		activation.Duration = time.Since(startedAt)

		base.LogClaim(LogWindows, "selected msvc %s %v in %v", activation.Version, pair, activation.Duration)
		return activation, nil
	}

	base.LogVerbose(LogWindows, "select: no usable pair for msvc %s", toolchain.Version)
	return newEmptyActivation(toolchain.Version, startedAt, opts), nil
}

func newEmptyActivation(version string, startedAt time.Time, opts *ExtractOptions) *ActivationEnvironment {
	return &ActivationEnvironment{
		Variables: NewActivationVariables(opts.Passthrough...),
		Version:   version,
		Duration:  time.Since(startedAt),
	}
}
