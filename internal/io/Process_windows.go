//go:build windows

package io

import (
	"os/exec"
	"syscall"
)

func setRawCommandLine(cmd *exec.Cmd, cmdline string) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = cmdline
	cmd.SysProcAttr.HideWindow = true
}
