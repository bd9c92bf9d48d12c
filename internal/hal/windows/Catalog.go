package windows

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/spf13/afero"
)

/***************************************
 * MSVC Edition table
 ***************************************/

type MsvcEditionTable struct {
	byProductId map[string]MsvcEdition
	ranks       map[MsvcEdition]int
}

func NewMsvcEditionTable(ranks map[MsvcEdition]int) MsvcEditionTable {
	result := MsvcEditionTable{
		byProductId: make(map[string]MsvcEdition, len(ranks)),
		ranks:       make(map[MsvcEdition]int, len(ranks)),
	}
	for edition, rank := range ranks {
		result.byProductId[edition.ProductId()] = edition
		result.ranks[edition] = rank
	}
	return result
}

var DefaultMsvcEditionTable = NewMsvcEditionTable(map[MsvcEdition]int{
	MSVC_EDITION_ENTERPRISE:   140,
	MSVC_EDITION_PROFESSIONAL: 130,
	MSVC_EDITION_COMMUNITY:    120,
	MSVC_EDITION_BUILDTOOLS:   110,
	MSVC_EDITION_EXPRESS:      100,
})

// Find expects a full vswhere productId, only its last segment is considered.
func (x MsvcEditionTable) Find(productId string) (MsvcEdition, bool) {
	if i := strings.LastIndexByte(productId, '.'); i >= 0 {
		productId = productId[i+1:]
	}
	edition, ok := x.byProductId[productId]
	return edition, ok
}
func (x MsvcEditionTable) Rank(edition MsvcEdition) int {
	return x.ranks[edition]
}

/***************************************
 * MSVC Version table
 ***************************************/

// MsvcVersionTable maps the Visual Studio major version to the toolset generation.
type MsvcVersionTable map[string]string

var DefaultMsvcVersionTable = MsvcVersionTable{
	"17": "14.3",
	"16": "14.2",
	"15": "14.1",
}

func (x MsvcVersionTable) Find(installationVersion string) (string, bool) {
	major, _, _ := strings.Cut(strings.TrimSpace(installationVersion), ".")
	version, ok := x[major]
	return version, ok
}

/***************************************
 * MSVC Instance
 ***************************************/

type MsvcInstance struct {
	VcDir               string
	Version             string
	VersionNumeric      float64
	VersionWithEdition  string
	IsRelease           bool
	Edition             MsvcEdition
	EditionRank         int
	InstallationPath    string
	InstallationVersion string
}

func (x *MsvcInstance) String() string {
	channel := "release"
	if !x.IsRelease {
		channel = "prerelease"
	}
	return strings.Join([]string{x.VersionWithEdition, x.Edition.String(), channel}, "-")
}

// CompareMsvcInstances puts the best instance first: newest, then release, then richest edition.
func CompareMsvcInstances(a, b *MsvcInstance) int {
	return base.CompareChain(
		base.Compare(b.VersionNumeric, a.VersionNumeric),
		base.CompareBool(b.IsRelease, a.IsRelease),
		base.Compare(b.EditionRank, a.EditionRank))
}

/***************************************
 * MSVC Catalog
 ***************************************/

type MsvcCatalogKey struct {
	Version string
	Release bool
}

type MsvcCatalog struct {
	Instances []*MsvcInstance
	Lookup    map[MsvcCatalogKey][]*MsvcInstance
}

func (x *MsvcCatalog) Find(version string, release bool) []*MsvcInstance {
	return x.Lookup[MsvcCatalogKey{Version: version, Release: release}]
}

// Versions lists every lookup key once, following the ranking of instances.
func (x *MsvcCatalog) Versions() base.StringSet {
	var result base.StringSet
	for _, it := range x.Instances {
		result.AppendUniq(it.Version, it.VersionWithEdition)
	}
	return result
}

type CatalogOptions struct {
	Editions MsvcEditionTable
	Versions MsvcVersionTable
}

type CatalogOptionFunc func(*CatalogOptions)

func OptionCatalogEditions(editions MsvcEditionTable) CatalogOptionFunc {
	return func(co *CatalogOptions) {
		co.Editions = editions
	}
}
func OptionCatalogVersions(versions MsvcVersionTable) CatalogOptionFunc {
	return func(co *CatalogOptions) {
		co.Versions = versions
	}
}

// BuildMsvcCatalog skips every record it can't use, only a broken edition table is an error.
func BuildMsvcCatalog(fs afero.Fs, entries []VsWhereEntry, options ...CatalogOptionFunc) (*MsvcCatalog, error) {
	opts := CatalogOptions{
		Editions: DefaultMsvcEditionTable,
		Versions: DefaultMsvcVersionTable,
	}
	for _, it := range options {
		it(&opts)
	}

	catalog := &MsvcCatalog{
		Instances: make([]*MsvcInstance, 0, len(entries)),
		Lookup:    make(map[MsvcCatalogKey][]*MsvcInstance, len(entries)),
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		instance, err := newMsvcInstance(fs, entry, seen, &opts)
		if err != nil {
			return nil, err
		}
		if instance != nil {
			base.LogVeryVerbose(LogWindows, "catalog: found msvc %v in %q", instance, instance.VcDir)
			catalog.Instances = append(catalog.Instances, instance)
		}
	}

	sort.SliceStable(catalog.Instances, func(i, j int) bool {
		return CompareMsvcInstances(catalog.Instances[i], catalog.Instances[j]) < 0
	})

	for _, it := range catalog.Instances {
		key := MsvcCatalogKey{Version: it.Version, Release: it.IsRelease}
		catalog.Lookup[key] = append(catalog.Lookup[key], it)
		if it.VersionWithEdition != it.Version {
			key.Version = it.VersionWithEdition
			catalog.Lookup[key] = append(catalog.Lookup[key], it)
		}
	}
	return catalog, nil
}

func newMsvcInstance(fs afero.Fs, entry VsWhereEntry, seen map[string]bool, opts *CatalogOptions) (*MsvcInstance, error) {
	root := strings.TrimRight(entry.InstallationPath, `\/`)
	if len(root) == 0 || !isDirectory(fs, root) {
		base.LogVerbose(LogWindows, "catalog: skip missing installation %q", entry.InstallationPath)
		return nil, nil
	}

	vcDir := filepath.Join(root, "VC")
	if !isDirectory(fs, vcDir) {
		base.LogVerbose(LogWindows, "catalog: skip installation without VC %q", root)
		return nil, nil
	}

	canonical := canonicalPath(fs, vcDir)
	if seen[canonical] {
		base.LogVerbose(LogWindows, "catalog: skip duplicate installation %q", vcDir)
		return nil, nil
	}
	seen[canonical] = true

	version, ok := opts.Versions.Find(entry.InstallationVersion)
	if !ok {
		base.LogVerbose(LogWindows, "catalog: skip unknown version %q in %q", entry.InstallationVersion, root)
		return nil, nil
	}
	versionNumeric, err := strconv.ParseFloat(version, 64)
	if err != nil {
		base.LogVerbose(LogWindows, "catalog: skip invalid version %q: %v", version, err)
		return nil, nil
	}

	edition, ok := opts.Editions.Find(entry.ProductId)
	if !ok {
		base.LogVerbose(LogWindows, "catalog: skip unknown product %q in %q", entry.ProductId, root)
		return nil, nil
	}
	rank := opts.Editions.Rank(edition)
	if rank == 0 {
		return nil, &EditionRankError{Edition: edition}
	}

	versionWithEdition := version
	if edition == MSVC_EDITION_EXPRESS && version == "14.1" {
		versionWithEdition = version + "Exp"
	}

	return &MsvcInstance{
		VcDir:               vcDir,
		Version:             version,
		VersionNumeric:      versionNumeric,
		VersionWithEdition:  versionWithEdition,
		IsRelease:           !entry.IsPrerelease,
		Edition:             edition,
		EditionRank:         rank,
		InstallationPath:    entry.InstallationPath,
		InstallationVersion: entry.InstallationVersion,
	}, nil
}

/***************************************
 * Filesystem helpers
 ***************************************/

func isDirectory(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}
func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

// canonicalPath only resolves symlinks on the real filesystem, windows paths are case-insensitive.
func canonicalPath(fs afero.Fs, path string) string {
	path = filepath.Clean(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if _, ok := fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			path = resolved
		}
	}
	return strings.ToLower(strings.TrimRight(path, `\/`))
}
