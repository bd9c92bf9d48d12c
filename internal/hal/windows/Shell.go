package windows

import (
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
)

/***************************************
 * Command shell
 ***************************************/

const DEFAULT_SYSTEMROOT = `C:\Windows`

// ShellExecutable resolves cmd.exe from the explicit environment, never from the current process.
func ShellExecutable(env internal_io.ProcessEnvironment) string {
	if comspec, ok := env.Lookup("ComSpec"); ok {
		return comspec
	}
	return systemRoot(env) + `\System32\cmd.exe`
}

func systemRoot(env internal_io.ProcessEnvironment) string {
	if root, ok := env.Lookup("SystemRoot"); ok {
		return root
	}
	return DEFAULT_SYSTEMROOT
}

// ActivationCommand runs the script then dumps the resulting environment: "<script>" <args> & set
func ActivationCommand(script string, args base.StringSet) string {
	sb := strings.Builder{}
	sb.WriteRune('"')
	sb.WriteString(script)
	sb.WriteRune('"')
	for _, it := range args {
		sb.WriteRune(' ')
		sb.WriteString(it)
	}
	sb.WriteString(" & set")
	return sb.String()
}

// ShellArguments uses /s so cmd.exe strips exactly the outer quotes of the command.
func ShellArguments(command string) base.StringSet {
	return base.StringSet{"/d", "/s", "/c", `"` + command + `"`}
}

// ShellCommandLine is given verbatim to CreateProcess, Go quoting rules would escape the inner quotes.
func ShellCommandLine(shell string, command string) string {
	return `"` + shell + `" ` + ShellArguments(command).Join(" ")
}
