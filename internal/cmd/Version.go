package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// set with -ldflags "-X github.com/poppolopoppo/msvcenv/internal/cmd.Version=..."
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type VersionReport struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func GetVersionReport() VersionReport {
	return VersionReport{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (x VersionReport) Tables() []*Table {
	return []*Table{NewTable("PROPERTY", "VALUE").
		Row("version", x.Version).
		Row("commit", x.GitCommit).
		Row("built", x.BuildDate).
		Row("go", x.GoVersion).
		Row("platform", x.Platform)}
}

func NewVersionCommand(env *CommandEnvironment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.Print(GetVersionReport())
		},
	}
}
