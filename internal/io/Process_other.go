//go:build !windows

package io

import (
	"os/exec"

	"github.com/poppolopoppo/msvcenv/internal/base"
)

func setRawCommandLine(cmd *exec.Cmd, cmdline string) {
	base.LogDebug(LogProcess, "raw command line is only supported on windows, using arguments of %v instead of %q", cmd.Args, cmdline)
}
