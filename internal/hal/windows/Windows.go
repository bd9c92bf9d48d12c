package windows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
)

var LogWindows = base.NewLogCategory("Windows")

/***************************************
 * Errors
 ***************************************/

var (
	ErrUnrecognizedArchitecture = errors.New("unrecognized architecture")
	ErrUnrecognizedEdition      = errors.New("unrecognized msvc edition")
	ErrUnsupportedHostArch      = errors.New("unsupported host architecture")
	ErrActivationFailed         = errors.New("msvc activation failed")
	ErrScriptExit               = errors.New("activation script exited with an error")
)

type UnrecognizedArchitectureError struct {
	Arch string
}

func (x *UnrecognizedArchitectureError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnrecognizedArchitecture, x.Arch)
}
func (x *UnrecognizedArchitectureError) Unwrap() error { return ErrUnrecognizedArchitecture }

// EditionRankError means the edition table was edited without a rank, it can't come from user input.
type EditionRankError struct {
	Edition MsvcEdition
}

func (x *EditionRankError) Error() string {
	return fmt.Sprintf("%v: %v has no rank", ErrUnrecognizedEdition, x.Edition)
}
func (x *EditionRankError) Unwrap() error { return ErrUnrecognizedEdition }

type UnsupportedHostArchError struct {
	Machine ArchType
	Table   string
}

func (x *UnsupportedHostArchError) Error() string {
	return fmt.Sprintf("%v: %v is not a known host in %s table", ErrUnsupportedHostArch, x.Machine, x.Table)
}
func (x *UnsupportedHostArchError) Unwrap() error { return ErrUnsupportedHostArch }

type ActivationFailedError struct {
	Script string
	Lines  []string
}

func (x *ActivationFailedError) Error() string {
	return fmt.Sprintf("%v: %q\n%s", ErrActivationFailed, x.Script, strings.Join(x.Lines, "\n"))
}
func (x *ActivationFailedError) Unwrap() error { return ErrActivationFailed }

type ScriptExitError struct {
	Script   string
	ExitCode int
	Stderr   string
}

func (x *ScriptExitError) Error() string {
	return fmt.Sprintf("%v: %q returned %d\n%s", ErrScriptExit, x.Script, x.ExitCode, x.Stderr)
}
func (x *ScriptExitError) Unwrap() error { return ErrScriptExit }

// IsActivationError tells whether the error only condemns one host/target pair.
func IsActivationError(err error) bool {
	return errors.Is(err, ErrActivationFailed) || errors.Is(err, ErrScriptExit)
}
