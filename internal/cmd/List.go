package cmd

import (
	"strconv"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/hal/windows"
	"github.com/spf13/cobra"
)

/***************************************
 * List
 ***************************************/

type ListReport struct {
	Instances []*windows.MsvcInstance `json:"instances" yaml:"instances"`
}

func (x ListReport) Tables() []*Table {
	tbl := NewTable("VERSION", "EDITION", "RELEASE", "RANK", "INSTALLATION", "VC DIR")
	for _, it := range x.Instances {
		tbl.Row(
			it.VersionWithEdition,
			it.Edition.String(),
			yesNo(it.IsRelease),
			strconv.Itoa(it.EditionRank),
			it.InstallationVersion,
			it.VcDir)
	}
	return []*Table{tbl}
}

func NewListCommand(env *CommandEnvironment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List MSVC instances reported by vswhere, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := env.NewDiscovery().Catalog()
			if err != nil {
				return err
			}
			base.LogVerbose(LogCommand, "found %d msvc instances", len(catalog.Instances))
			return env.Print(ListReport{Instances: catalog.Instances})
		},
	}
}
