package harvest

import (
	"maps"
	"path/filepath"
	"strings"

	"github.com/colhub/hubsync/internal/opensearch"
)

// DirectoryKey identifies one output directory. It joins the harvest and
// reconcile stages: endpoint identity lives only in the file name.
type DirectoryKey struct {
	Platform string `json:"platform" yaml:"platform"`
	AOI      string `json:"aoi" yaml:"aoi"`
	Level    string `json:"level" yaml:"level"`
	Month    string `json:"month" yaml:"month"`
}

// Dir returns <base>/<platform>/<aoi>/<level>/<YYYYMM>.
func (k DirectoryKey) Dir(base string) string {
	return filepath.Join(base, k.Platform, k.AOI, k.Level, k.Month)
}

// String returns the slash-joined key.
func (k DirectoryKey) String() string {
	return strings.Join([]string{k.Platform, k.AOI, k.Level, k.Month}, "/")
}

// Job is one query against one endpoint. Treat it as immutable.
type Job struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	APIURL   string `json:"api_url" yaml:"api_url"`
	Username string `json:"-" yaml:"-"`
	Password string `json:"-" yaml:"-"`

	// Footprint is the resolved path of the AOI GeoJSON file.
	Footprint string         `json:"footprint" yaml:"footprint"`
	Range     DateRange      `json:"-" yaml:"-"`
	Kwargs    map[string]any `json:"kwargs,omitempty" yaml:"kwargs,omitempty"`

	Key        DirectoryKey `json:"key" yaml:"key"`
	OutputDir  string       `json:"output_dir" yaml:"output_dir"`
	OutputFile string       `json:"output_file" yaml:"output_file"`
}

// ID names the job in logs and reports.
func (j Job) ID() string {
	return j.Endpoint + ":" + j.Key.String()
}

// Path returns the title file the job writes.
func (j Job) Path() string {
	return filepath.Join(j.OutputDir, j.OutputFile)
}

// Query builds the catalog query for the job given its footprint WKT.
func (j Job) Query(wkt string) opensearch.Query {
	return opensearch.Query{
		Footprint: wkt,
		Start:     j.Range.Start,
		End:       j.Range.End,
		Kwargs:    maps.Clone(j.Kwargs),
	}
}
