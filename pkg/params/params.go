// Package params loads and validates the harvest parameters document: the
// endpoints to query, the platforms with their areas of interest and
// product-level filter sets, and the general run settings.
package params

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// Month scopes accepted by general.month_scope.
const (
	// MonthScopeAll enumerates every month of the date grid.
	MonthScopeAll = "all"
	// MonthScopeFirst enumerates only the first month of the grid.
	MonthScopeFirst = "first"
)

// Document is the parsed parameters document.
type Document struct {
	General   General             `yaml:"general"`
	Endpoints map[string]Endpoint `yaml:"endpoints"`
	Platforms map[string]Platform `yaml:"platforms"`
	Reconcile Reconcile           `yaml:"reconcile"`

	// path is the file the document was read from; relative AOI paths
	// resolve against its directory.
	path string
}

// General holds run-wide settings.
type General struct {
	BaseOutputPath string `yaml:"base_output_path"`
	// LegacyBaseOutputPath accepts the misspelled key of older documents.
	LegacyBaseOutputPath string `yaml:"base_output_paht,omitempty"`

	Years              []int  `yaml:"years,omitempty"`
	MonthScope         string `yaml:"month_scope,omitempty"`
	LegacyDecemberWrap bool   `yaml:"legacy_december_wrap,omitempty"`
	TimeoutSeconds     int    `yaml:"timeout_seconds,omitempty"`
	Workers            int    `yaml:"workers,omitempty"`
	WriteEmpty         bool   `yaml:"write_empty,omitempty"`
	Verify             bool   `yaml:"verify,omitempty"`
}

// Endpoint is one DHuS mirror.
type Endpoint struct {
	APIURL   string `yaml:"api_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Legacy credential keys.
	Uname string `yaml:"uname,omitempty"`
	Pw    string `yaml:"pw,omitempty"`
}

// Platform groups the AOIs and product-level filter sets of one mission.
type Platform struct {
	// AOIs maps an area name to a footprint file reference.
	AOIs map[string]string `yaml:"aois"`
	// Kwargs maps a product-level name to the filters passed to the query API.
	Kwargs map[string]map[string]any `yaml:"kwargs"`
}

// Reconcile names the endpoints compared by the reconcile stage.
type Reconcile struct {
	Reference string `yaml:"reference,omitempty"`
	Candidate string `yaml:"candidate,omitempty"`
}

// Load reads, expands and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("params", fmt.Sprintf("cannot read %s", path), err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.path = path
	return doc, nil
}

// Parse decodes, expands and validates a document held in memory.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError("params", "malformed document", errors.WrapParse("yaml", "", err))
	}
	doc.normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize folds legacy keys into their current names, expands ${VAR}
// references and applies defaults.
func (d *Document) normalize() {
	if d.General.BaseOutputPath == "" {
		d.General.BaseOutputPath = d.General.LegacyBaseOutputPath
	}
	d.General.BaseOutputPath = os.ExpandEnv(d.General.BaseOutputPath)
	if len(d.General.Years) == 0 {
		d.General.Years = append([]int(nil), constants.DefaultYears...)
	}
	if d.General.MonthScope == "" {
		d.General.MonthScope = MonthScopeAll
	}
	if d.General.Workers <= 0 {
		d.General.Workers = constants.DefaultWorkers
	}

	for name, ep := range d.Endpoints {
		if ep.Username == "" {
			ep.Username = ep.Uname
		}
		if ep.Password == "" {
			ep.Password = ep.Pw
		}
		ep.APIURL = os.ExpandEnv(ep.APIURL)
		ep.Username = os.ExpandEnv(ep.Username)
		ep.Password = os.ExpandEnv(ep.Password)
		ep.Uname, ep.Pw = "", ""
		d.Endpoints[name] = ep
	}
}

// Validate reports every missing or malformed key as one ConfigError.
func (d *Document) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if d.General.BaseOutputPath == "" {
		add("general.base_output_path is required")
	}
	if d.General.MonthScope != MonthScopeAll && d.General.MonthScope != MonthScopeFirst {
		add("general.month_scope must be %q or %q, got %q", MonthScopeAll, MonthScopeFirst, d.General.MonthScope)
	}
	if d.General.TimeoutSeconds < 0 {
		add("general.timeout_seconds must not be negative")
	}
	years := make(map[int]bool, len(d.General.Years))
	for _, y := range d.General.Years {
		if y < 1 || y > 9999 {
			add("general.years contains invalid year %d", y)
		}
		if years[y] {
			add("general.years lists %d more than once", y)
		}
		years[y] = true
	}

	if len(d.Endpoints) == 0 {
		add("endpoints must define at least one endpoint")
	}
	hosts := make(map[string]string)
	for _, name := range d.EndpointNames() {
		ep := d.Endpoints[name]
		if ep.APIURL == "" {
			add("endpoints.%s.api_url is required", name)
			continue
		}
		host, err := HostOf(ep.APIURL)
		if err != nil {
			add("endpoints.%s.api_url: %v", name, err)
			continue
		}
		if other, dup := hosts[host]; dup {
			add("endpoints.%s and endpoints.%s share host %s", other, name, host)
		}
		hosts[host] = name
	}

	if len(d.Platforms) == 0 {
		add("platforms must define at least one platform")
	}
	for _, name := range d.PlatformNames() {
		p := d.Platforms[name]
		if !validSegment(name) {
			add("platforms.%s: name must be a single path segment", name)
		}
		if len(p.AOIs) == 0 {
			add("platforms.%s.aois is required", name)
		}
		for _, aoi := range p.AOINames() {
			if !validSegment(aoi) {
				add("platforms.%s.aois.%s: name must be a single path segment", name, aoi)
			}
			if strings.TrimSpace(p.AOIs[aoi]) == "" {
				add("platforms.%s.aois.%s needs a footprint reference", name, aoi)
			}
		}
		if len(p.Kwargs) == 0 {
			add("platforms.%s.kwargs is required", name)
		}
		for _, level := range p.LevelNames() {
			if !validSegment(level) {
				add("platforms.%s.kwargs.%s: name must be a single path segment", name, level)
			}
		}
	}

	for _, ref := range []struct{ key, name string }{
		{"reconcile.reference", d.Reconcile.Reference},
		{"reconcile.candidate", d.Reconcile.Candidate},
	} {
		if ref.name == "" {
			continue
		}
		if _, ok := d.Endpoints[ref.name]; !ok {
			add("%s names unknown endpoint %q", ref.key, ref.name)
		}
	}

	if len(problems) > 0 {
		return errors.NewConfigError("params", strings.Join(problems, "; "), nil)
	}
	return nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// Timeout returns the per-query timeout; zero means the client default.
func (d *Document) Timeout() time.Duration {
	return time.Duration(d.General.TimeoutSeconds) * time.Second
}

// EndpointNames returns endpoint names in sorted order.
func (d *Document) EndpointNames() []string {
	return sortedKeys(d.Endpoints)
}

// PlatformNames returns platform names in sorted order.
func (d *Document) PlatformNames() []string {
	return sortedKeys(d.Platforms)
}

// AOINames returns the platform's AOI names in sorted order.
func (p Platform) AOINames() []string {
	return sortedKeys(p.AOIs)
}

// LevelNames returns the platform's product-level names in sorted order.
func (p Platform) LevelNames() []string {
	return sortedKeys(p.Kwargs)
}

// FootprintPath resolves an AOI footprint reference against the document's directory.
func (d *Document) FootprintPath(ref string) string {
	ref = os.ExpandEnv(ref)
	if filepath.IsAbs(ref) || d.path == "" {
		return ref
	}
	return filepath.Join(filepath.Dir(d.path), ref)
}

// TitleFile returns the title file name written for the named endpoint.
func (d *Document) TitleFile(endpoint string) (string, error) {
	ep, ok := d.Endpoints[endpoint]
	if !ok {
		return "", errors.NewConfigError("params", fmt.Sprintf("unknown endpoint %q", endpoint), errors.ErrNotFound)
	}
	host, err := HostOf(ep.APIURL)
	if err != nil {
		return "", errors.NewConfigError("params", fmt.Sprintf("endpoints.%s.api_url", endpoint), err)
	}
	return host + constants.TitleFileExt, nil
}

// ReconcilePair returns the reference and candidate title file names,
// falling back to the historical colhub/scihub pair.
func (d *Document) ReconcilePair() (reference, candidate string, err error) {
	reference, candidate = constants.DefaultReferenceFile, constants.DefaultCandidateFile
	if d.Reconcile.Reference != "" {
		if reference, err = d.TitleFile(d.Reconcile.Reference); err != nil {
			return "", "", err
		}
	}
	if d.Reconcile.Candidate != "" {
		if candidate, err = d.TitleFile(d.Reconcile.Candidate); err != nil {
			return "", "", err
		}
	}
	return reference, candidate, nil
}

// HostOf extracts the host (with port, if any) from an API URL.
func HostOf(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", apiURL)
	}
	return u.Host, nil
}

// validSegment reports whether name can be used as one directory of the
// output layout without merging with or escaping other directories.
func validSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
