package cmd

import (
	"fmt"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/hal/windows"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/cobra"
)

/***************************************
 * Activate
 ***************************************/

type ActivateReport struct {
	Version     string                         `json:"version" yaml:"version"`
	HostTarget  string                         `json:"host_target,omitempty" yaml:"host_target,omitempty"`
	Script      string                         `json:"script,omitempty" yaml:"script,omitempty"`
	Compiler    string                         `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	Duration    string                         `json:"duration" yaml:"duration"`
	Fingerprint base.Fingerprint               `json:"fingerprint" yaml:"fingerprint"`
	Warnings    []string                       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Variables   internal_io.ProcessEnvironment `json:"variables" yaml:"variables"`
}

func NewActivateReport(activation *windows.ActivationEnvironment) (result ActivateReport) {
	result = ActivateReport{
		Version:     activation.Version,
		Script:      activation.Script,
		Compiler:    activation.CompilerPath,
		Duration:    activation.Duration.String(),
		Fingerprint: activation.Fingerprint(),
		Warnings:    activation.Warnings,
		Variables:   activation.Variables,
	}
	if activation.HasCompiler() {
		result.HostTarget = activation.Pair().String()
	}
	return
}

func (x ActivateReport) Tables() []*Table {
	summary := NewTable("PROPERTY", "VALUE").
		Row("version", x.Version).
		Row("host_target", x.HostTarget).
		Row("script", x.Script).
		Row("compiler", x.Compiler).
		Row("duration", x.Duration).
		Row("fingerprint", x.Fingerprint.ShortString())
	for _, it := range x.Warnings {
		summary.Row("warning", it)
	}

	variables := NewTable("VARIABLE", "VALUE")
	for _, it := range x.Variables {
		variables.Row(it.Name.String(), it.Value())
	}
	return []*Table{summary, variables}
}

func NewActivateCommand(env *CommandEnvironment) *cobra.Command {
	var version, target string
	command := &cobra.Command{
		Use:   "activate",
		Short: "Run the best activation script and print the environment it defines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			activation, err := env.NewDiscovery().Activate(version, target)
			if err != nil {
				return err
			}
			if err := env.Print(NewActivateReport(activation)); err != nil {
				return err
			}
			if !activation.HasCompiler() {
				if len(version) > 0 {
					return fmt.Errorf("msvc %s: %w", version, ErrNoCompiler)
				}
				return ErrNoCompiler
			}
			return nil
		},
	}
	command.Flags().StringVar(&version, "version", "", "msvc version to activate, ie 14.3 (default: newest installed)")
	command.Flags().StringVar(&target, "target", "", "target architecture (default: the first one buildable by the host)")
	return command
}
