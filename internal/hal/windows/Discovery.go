package windows

import (
	"io"
	"os"

	"github.com/poppolopoppo/msvcenv/internal/base"
	internal_io "github.com/poppolopoppo/msvcenv/internal/io"
	"github.com/spf13/afero"
)

/***************************************
 * Discovery
 ***************************************/

// Discovery wires every component for one run, it doesn't keep results between calls.
type Discovery struct {
	Fs              afero.Fs
	Normalizer      ArchNormalizer
	Tables          HostTargetTables
	Editions        MsvcEditionTable
	Versions        MsvcVersionTable
	VsWhere         VsWhere
	HostArch        HostArchProvider
	Runner          internal_io.ProcessRunner
	Decoder         TextDecoder
	BaseEnvironment internal_io.ProcessEnvironment
	Modern          bool
	// shell variables copied from the activation output, on top of the msvc whitelist
	Passthrough     base.StringSet
	AllowPrerelease bool
	Stderr          io.Writer
}

type DiscoveryOptionFunc func(*Discovery)

func OptionDiscoveryFs(fs afero.Fs) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Fs = fs
	}
}
func OptionDiscoveryRunner(runner internal_io.ProcessRunner) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Runner = runner
	}
}
func OptionDiscoveryDecoder(decoder TextDecoder) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Decoder = decoder
	}
}
func OptionDiscoveryHostArch(provider HostArchProvider) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.HostArch = provider
	}
}
func OptionDiscoveryVsWhere(locations ...string) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.VsWhere.Locations = locations
	}
}
func OptionDiscoveryBaseEnvironment(env internal_io.ProcessEnvironment) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.BaseEnvironment = env
	}
}
func OptionDiscoveryModern(enabled bool) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Modern = enabled
	}
}
func OptionDiscoveryPassthrough(names ...string) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Passthrough.AppendUniq(names...)
	}
}
func OptionDiscoveryAllowPrerelease(enabled bool) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.AllowPrerelease = enabled
	}
}
func OptionDiscoveryStderr(dst io.Writer) DiscoveryOptionFunc {
	return func(d *Discovery) {
		d.Stderr = dst
	}
}

// NewDiscovery defaults on the current machine: real filesystem, process environment and OEM code page.
func NewDiscovery(options ...DiscoveryOptionFunc) *Discovery {
	result := &Discovery{
		Fs:         afero.NewOsFs(),
		Normalizer: DefaultArchNormalizer,
		Tables:     DefaultHostTargetTables,
		Editions:   DefaultMsvcEditionTable,
		Versions:   DefaultMsvcVersionTable,
		HostArch:   DefaultHostArchProvider,
		Runner:     internal_io.DefaultProcessRunner,
		VsWhere: VsWhere{
			Locations: DefaultVsWhereLocations(os.LookupEnv),
		},
		Passthrough: BaseEnvironmentPassthrough.Clone(),
	}
	for _, it := range options {
		it(result)
	}
	result.VsWhere.Fs = result.Fs
	result.VsWhere.Runner = result.Runner
	if result.Decoder == nil {
		result.Decoder = OEMTextDecoder()
	}
	if result.BaseEnvironment == nil {
		result.BaseEnvironment = NewBaseEnvironment(os.LookupEnv, OptionBaseEnvironmentModern(result.Modern))
	}
	return result
}

func (x *Discovery) Machine() (ArchType, error) {
	return DetectHostArch(x.HostArch, x.Normalizer)
}

func (x *Discovery) Catalog() (*MsvcCatalog, error) {
	entries, err := x.VsWhere.Query()
	if err != nil {
		return nil, err
	}
	return BuildMsvcCatalog(x.Fs, entries,
		OptionCatalogEditions(x.Editions),
		OptionCatalogVersions(x.Versions))
}

func (x *Discovery) toolchainOptions() []ToolchainOptionFunc {
	return []ToolchainOptionFunc{
		OptionToolchainFs(x.Fs),
		OptionToolchainTables(x.Tables),
		OptionToolchainAllowPrerelease(x.AllowPrerelease),
	}
}
func (x *Discovery) extractOptions(modern bool) []ExtractOptionFunc {
	options := []ExtractOptionFunc{
		OptionExtractFs(x.Fs),
		OptionExtractRunner(x.Runner),
		OptionExtractDecoder(x.Decoder),
		OptionExtractStderr(x.Stderr),
		OptionExtractPassthrough(x.Passthrough...),
	}
	if modern {
		options = append(options, OptionExtractPassthrough(ModernEnvironmentPassthrough...))
	}
	return options
}

// Toolchains lists every installed version usable on this machine, best first.
func (x *Discovery) Toolchains() ([]InstalledToolchain, error) {
	catalog, err := x.Catalog()
	if err != nil {
		return nil, err
	}
	machine, err := x.Machine()
	if err != nil {
		return nil, err
	}
	return InstalledToolchains(catalog, machine, x.toolchainOptions()...)
}

// Activate selects the best toolchain, version and target are optional filters.
func (x *Discovery) Activate(version string, target string) (*ActivationEnvironment, error) {
	var toolchains []InstalledToolchain
	if len(version) > 0 {
		catalog, err := x.Catalog()
		if err != nil {
			return nil, err
		}
		machine, err := x.Machine()
		if err != nil {
			return nil, err
		}
		toolchain, err := FindInstalledToolchain(catalog, version, machine, x.toolchainOptions()...)
		if err != nil {
			return nil, err
		}
		toolchains = append(toolchains, toolchain)
	} else {
		var err error
		if toolchains, err = x.Toolchains(); err != nil {
			return nil, err
		}
	}

	if len(target) > 0 {
		arch, err := x.Normalizer.Normalize(target)
		if err != nil {
			return nil, err
		}
		for i, it := range toolchains {
			toolchains[i] = it.WithTarget(arch)
		}
	}

	return x.ActivateToolchains(toolchains, x.BaseEnvironment, x.Modern)
}

// ActivateToolchains lets the caller pick another base environment, ie to compare them.
// Modern also keeps the per-machine variables in the result.
func (x *Discovery) ActivateToolchains(toolchains []InstalledToolchain, baseEnv internal_io.ProcessEnvironment, modern bool) (*ActivationEnvironment, error) {
	return SelectFirstToolchain(toolchains, baseEnv, x.extractOptions(modern)...)
}
