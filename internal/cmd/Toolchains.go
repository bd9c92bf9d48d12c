package cmd

import (
	"time"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/hal/windows"
	"github.com/spf13/cobra"
)

/***************************************
 * Toolchains
 ***************************************/

type ToolchainsReport struct {
	Machine    windows.ArchType             `json:"machine" yaml:"machine"`
	Toolchains []windows.InstalledToolchain `json:"toolchains" yaml:"toolchains"`
}

func (x ToolchainsReport) Tables() []*Table {
	tbl := NewTable("VERSION", "TOOLS", "INSTALLED", "HOST_TARGET", "VC DIR")
	for _, it := range x.Toolchains {
		installedAt := "-"
		if !it.ToolsInstalledAt.IsZero() {
			installedAt = it.ToolsInstalledAt.Format(time.DateOnly)
		}
		tbl.Row(
			it.Version,
			it.ToolsVersion,
			installedAt,
			base.JoinString(" ", it.Pairs...),
			it.VcDir)
	}
	return []*Table{tbl}
}

func NewToolchainsCommand(env *CommandEnvironment) *cobra.Command {
	return &cobra.Command{
		Use:   "toolchains",
		Short: "List installed MSVC versions usable on this machine with their host/target pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			discovery := env.NewDiscovery()
			machine, err := discovery.Machine()
			if err != nil {
				return err
			}
			toolchains, err := discovery.Toolchains()
			if err != nil {
				return err
			}
			return env.Print(ToolchainsReport{
				Machine:    machine,
				Toolchains: toolchains,
			})
		},
	}
}
