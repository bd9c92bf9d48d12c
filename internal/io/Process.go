package io

import (
	"bytes"
	"errors"
	"os/exec"
	"time"

	"github.com/poppolopoppo/msvcenv/internal/base"
)

var LogProcess = base.NewLogCategory("Process")

/***************************************
 * Process Options
 ***************************************/

type ProcessOptions struct {
	Environment ProcessEnvironment
	WorkingDir  string
	// Verbatim command line handed to the OS, only honored on Windows where cmd.exe has its own quoting rules.
	RawCommandLine string
}

type ProcessOptionFunc func(*ProcessOptions)

func (x *ProcessOptions) Init(options ...ProcessOptionFunc) {
	x.Environment = NewProcessEnvironment()
	for _, it := range options {
		it(x)
	}
}

func OptionProcessEnvironment(environment ProcessEnvironment) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.Environment.Overwrite(environment)
	}
}
func OptionProcessExport(name string, values ...string) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.Environment.Append(name, values...)
	}
}
func OptionProcessWorkingDir(value string) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.WorkingDir = value
	}
}
func OptionProcessRawCommandLine(cmdline string) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.RawCommandLine = cmdline
	}
}

/***************************************
 * Process Result
 ***************************************/

// ProcessResult holds raw bytes: decoding is left to the caller since console output depends on the code page.
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

func (x ProcessResult) Success() bool {
	return x.ExitCode == 0
}

/***************************************
 * RunProcess
 ***************************************/

// ProcessRunner is substituted in tests to script child process outputs.
type ProcessRunner interface {
	RunProcess(executable string, arguments base.StringSet, options ...ProcessOptionFunc) (ProcessResult, error)
}

type ProcessRunnerFunc func(executable string, arguments base.StringSet, options *ProcessOptions) (ProcessResult, error)

func (x ProcessRunnerFunc) RunProcess(executable string, arguments base.StringSet, userOptions ...ProcessOptionFunc) (ProcessResult, error) {
	var options ProcessOptions
	options.Init(userOptions...)
	return x(executable, arguments, &options)
}

var DefaultProcessRunner ProcessRunner = ProcessRunnerFunc(RunProcess_Vanilla)

func RunProcess(executable string, arguments base.StringSet, userOptions ...ProcessOptionFunc) (ProcessResult, error) {
	return DefaultProcessRunner.RunProcess(executable, arguments, userOptions...)
}

// RunProcess_Vanilla blocks until the child exits. A non-zero exit code is not an error, launch failures are.
func RunProcess_Vanilla(executable string, arguments base.StringSet, options *ProcessOptions) (result ProcessResult, err error) {
	defer base.LogBenchmark(LogProcess, "Run(%q, %q)", executable, base.MakeStringer(func() string {
		return arguments.Join("\", \"")
	})).Close()

	cmd := exec.Command(executable, arguments...)
	// a nil Env would make the child inherit the parent environment
	cmd.Env = append([]string{}, options.Environment.Export()...)

	if len(options.WorkingDir) > 0 {
		cmd.Dir = options.WorkingDir
	}
	if len(options.RawCommandLine) > 0 {
		setRawCommandLine(cmd, options.RawCommandLine)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	base.LogTrace(LogProcess, "run %v:\n%#v", cmd, []any{cmd.Dir, executable, arguments, options.RawCommandLine})

	startedAt := time.Now()
	err = cmd.Run()
	result.Duration = time.Since(startedAt)
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		base.LogVeryVerbose(LogProcess, "%q exited with code %d", executable, result.ExitCode)
		err = nil
	}
	return
}
