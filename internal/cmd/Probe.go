package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/hal/windows"
	"github.com/spf13/cobra"
)

/***************************************
 * Probe
 ***************************************/

// ProbeSample is one activation under one base environment.
type ProbeSample struct {
	Environment string           `json:"environment" yaml:"environment"`
	Iteration   int              `json:"iteration" yaml:"iteration"`
	Version     string           `json:"version" yaml:"version"`
	HostTarget  string           `json:"host_target,omitempty" yaml:"host_target,omitempty"`
	HasCompiler bool             `json:"has_compiler" yaml:"has_compiler"`
	Duration    time.Duration    `json:"duration_ns" yaml:"duration_ns"`
	Fingerprint base.Fingerprint `json:"fingerprint" yaml:"fingerprint"`
}

type ProbeReport struct {
	Host         base.HostPlatform `json:"host" yaml:"host"`
	Machine      windows.ArchType  `json:"machine" yaml:"machine"`
	Samples      []ProbeSample     `json:"samples" yaml:"samples"`
	Reproducible map[string]bool   `json:"reproducible" yaml:"reproducible"`
}

const (
	PROBE_MINIMAL = "minimal"
	PROBE_MODERN  = "modern"
)

// Finalize checks every sample of the same base environment produced the same variables.
func (x *ProbeReport) Finalize() {
	x.Reproducible = make(map[string]bool, 2)
	first := make(map[string]base.Fingerprint, 2)
	for _, it := range x.Samples {
		if fingerprint, ok := first[it.Environment]; ok {
			x.Reproducible[it.Environment] = x.Reproducible[it.Environment] && fingerprint == it.Fingerprint
		} else {
			first[it.Environment] = it.Fingerprint
			x.Reproducible[it.Environment] = true
		}
	}
}

func (x ProbeReport) Tables() []*Table {
	summary := NewTable("PROPERTY", "VALUE").
		Row("host", x.Host.String()).
		Row("kernel", x.Host.Kernel).
		Row("machine", x.Machine.String())
	for _, name := range []string{PROBE_MINIMAL, PROBE_MODERN} {
		if reproducible, ok := x.Reproducible[name]; ok {
			summary.Row("reproducible "+name, yesNo(reproducible))
		}
	}

	samples := NewTable("ENVIRONMENT", "#", "VERSION", "HOST_TARGET", "COMPILER", "DURATION", "FINGERPRINT")
	for _, it := range x.Samples {
		samples.Row(
			it.Environment,
			strconv.Itoa(it.Iteration),
			it.Version,
			it.HostTarget,
			yesNo(it.HasCompiler),
			it.Duration.Round(time.Millisecond).String(),
			it.Fingerprint.ShortString())
	}
	return []*Table{summary, samples}
}

func RunProbe(env *CommandEnvironment, repeat int) (*ProbeReport, error) {
	if repeat < 1 {
		return nil, fmt.Errorf("invalid probe repeat count: %d", repeat)
	}

	discovery := env.NewDiscovery()
	machine, err := discovery.Machine()
	if err != nil {
		return nil, err
	}
	toolchains, err := discovery.Toolchains()
	if err != nil {
		return nil, err
	}

	report := &ProbeReport{
		Host:    *base.GetCurrentHost(),
		Machine: machine,
	}
	for i := 0; i < repeat; i++ {
		for _, modern := range []bool{false, true} {
			name := PROBE_MINIMAL
			if modern {
				name = PROBE_MODERN
			}

			activation, err := discovery.ActivateToolchains(toolchains, env.BaseEnvironment(modern), modern)
			if err != nil {
				return nil, err
			}

			sample := ProbeSample{
				Environment: name,
				Iteration:   i,
				Version:     activation.Version,
				HasCompiler: activation.HasCompiler(),
				Duration:    activation.Duration,
				Fingerprint: activation.Fingerprint(),
			}
			if sample.HasCompiler {
				sample.HostTarget = activation.Pair().String()
			}
			base.LogVerbose(LogCommand, "probe %s #%d: %v in %v (%v)", name, i, sample.Version, sample.Duration, sample.Fingerprint.ShortString())
			report.Samples = append(report.Samples, sample)
		}
	}

	report.Finalize()
	return report, nil
}

func NewProbeCommand(env *CommandEnvironment) *cobra.Command {
	var repeat int
	command := &cobra.Command{
		Use:   "probe",
		Short: "Compare activations under the minimal and modern base environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := RunProbe(env, repeat)
			if err != nil {
				return err
			}
			return env.Print(report)
		},
	}
	command.Flags().IntVar(&repeat, "repeat", 1, "number of activations per base environment")
	return command
}
