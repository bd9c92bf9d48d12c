package cmd

import (
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/poppolopoppo/msvcenv/internal/base"
)

var LogProfiling = base.NewLogCategory("Profiling")

/***************************************
 * Profiling Mode
 ***************************************/

type ProfilingMode byte

const (
	PROFILING_NONE ProfilingMode = iota
	PROFILING_BLOCK
	PROFILING_CPU
	PROFILING_GOROUTINE
	PROFILING_MEMORY
	PROFILING_MUTEX
	PROFILING_TRACE
)

func ProfilingModes() []ProfilingMode {
	return []ProfilingMode{
		PROFILING_NONE,
		PROFILING_BLOCK,
		PROFILING_CPU,
		PROFILING_GOROUTINE,
		PROFILING_MEMORY,
		PROFILING_MUTEX,
		PROFILING_TRACE,
	}
}
func (x ProfilingMode) Mode() func(*profile.Profile) {
	switch x {
	case PROFILING_BLOCK:
		return profile.BlockProfile
	case PROFILING_CPU:
		return profile.CPUProfile
	case PROFILING_GOROUTINE:
		return profile.GoroutineProfile
	case PROFILING_MEMORY:
		return profile.MemProfile
	case PROFILING_MUTEX:
		return profile.MutexProfile
	case PROFILING_TRACE:
		return profile.TraceProfile
	default:
		base.UnexpectedValue(x)
		return nil
	}
}
func (x ProfilingMode) String() string {
	switch x {
	case PROFILING_NONE:
		return "NONE"
	case PROFILING_BLOCK:
		return "BLOCK"
	case PROFILING_CPU:
		return "CPU"
	case PROFILING_GOROUTINE:
		return "GOROUTINE"
	case PROFILING_MEMORY:
		return "MEM"
	case PROFILING_MUTEX:
		return "MUTEX"
	case PROFILING_TRACE:
		return "TRACE"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *ProfilingMode) Set(in string) error {
	for _, it := range ProfilingModes() {
		if strings.EqualFold(it.String(), in) {
			*x = it
			return nil
		}
	}
	return base.MakeUnexpectedValueError(x, in)
}

// Type is needed by pflag.Value.
func (x *ProfilingMode) Type() string { return "ProfilingMode" }

/***************************************
 * Profiler
 ***************************************/

type Profiler interface {
	Stop()
}

type noopProfiler struct{}

func (noopProfiler) Stop() {}

func StartProfiling(mode ProfilingMode, outputDir string) Profiler {
	if mode == PROFILING_NONE {
		return noopProfiler{}
	}
	base.LogWarning(LogProfiling, "use %v profiling mode, output in %q", mode, outputDir)
	if mode == PROFILING_CPU {
		runtime.SetCPUProfileRate(300) // default is 100
	}
	return profile.Start(
		mode.Mode(),
		profile.NoShutdownHook,
		profile.Quiet,
		profile.ProfilePath(outputDir))
}
