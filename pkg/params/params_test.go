package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

const validDoc = `
general:
  base_output_path: /data/harvest
endpoints:
  colhub:
    api_url: https://colhub.met.no/
    username: alice
    password: secret
  scihub:
    api_url: https://scihub.copernicus.eu/dhus
    username: bob
    password: hunter2
platforms:
  Sentinel-1:
    aois:
      mainland: aoi/mainland.geojson
    kwargs:
      SLC_iw:
        producttype: SLC
        sensoroperationalmode: IW
reconcile:
  reference: colhub
  candidate: scihub
`

func TestParse_Defaults(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, "/data/harvest", doc.General.BaseOutputPath)
	assert.Equal(t, constants.DefaultYears, doc.General.Years)
	assert.Equal(t, MonthScopeAll, doc.General.MonthScope)
	assert.Equal(t, constants.DefaultWorkers, doc.General.Workers)
	assert.False(t, doc.General.WriteEmpty)
	assert.False(t, doc.General.LegacyDecemberWrap)
	assert.Equal(t, time.Duration(0), doc.Timeout())

	assert.Equal(t, []string{"colhub", "scihub"}, doc.EndpointNames())
	assert.Equal(t, []string{"Sentinel-1"}, doc.PlatformNames())
	assert.Equal(t, []string{"mainland"}, doc.Platforms["Sentinel-1"].AOINames())
	assert.Equal(t, []string{"SLC_iw"}, doc.Platforms["Sentinel-1"].LevelNames())
	assert.Equal(t, "SLC", doc.Platforms["Sentinel-1"].Kwargs["SLC_iw"]["producttype"])
}

func TestParse_LegacyKeys(t *testing.T) {
	doc, err := Parse([]byte(`
general:
  base_output_paht: /legacy/out
endpoints:
  colhub:
    api_url: https://colhub.met.no/
    uname: alice
    pw: secret
platforms:
  Sentinel-2:
    aois:
      svalbard: svalbard.geojson
    kwargs:
      L1C:
        producttype: S2MSI1C
`))
	require.NoError(t, err)

	assert.Equal(t, "/legacy/out", doc.General.BaseOutputPath)
	ep := doc.Endpoints["colhub"]
	assert.Equal(t, "alice", ep.Username)
	assert.Equal(t, "secret", ep.Password)
	assert.Empty(t, ep.Uname)
	assert.Empty(t, ep.Pw)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("HUBSYNC_TEST_OUT", "/expanded")
	t.Setenv("HUBSYNC_TEST_PW", "from-env")

	doc, err := Parse([]byte(`
general:
  base_output_path: ${HUBSYNC_TEST_OUT}/harvest
endpoints:
  colhub:
    api_url: https://colhub.met.no/
    username: alice
    password: ${HUBSYNC_TEST_PW}
platforms:
  Sentinel-1:
    aois:
      mainland: mainland.geojson
    kwargs:
      GRD:
        producttype: GRD
`))
	require.NoError(t, err)
	assert.Equal(t, "/expanded/harvest", doc.General.BaseOutputPath)
	assert.Equal(t, "from-env", doc.Endpoints["colhub"].Password)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			doc:     "general: [unterminated",
			wantMsg: "malformed document",
		},
		{
			name: "missing output path",
			doc: `
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "general.base_output_path is required",
		},
		{
			name: "no endpoints",
			doc: `
general: {base_output_path: /out}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "endpoints must define at least one endpoint",
		},
		{
			name: "relative api url",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "not-a-url"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "endpoints.a.api_url",
		},
		{
			name: "shared host",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://same.example/"}
  b: {api_url: "https://same.example/dhus"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "share host same.example",
		},
		{
			name: "bad month scope",
			doc: `
general: {base_output_path: /out, month_scope: weekly}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "general.month_scope",
		},
		{
			name: "platform without kwargs",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}}
`,
			wantMsg: "platforms.P.kwargs is required",
		},
		{
			name: "duplicate year",
			doc: `
general: {base_output_path: /out, years: [2019, 2020, 2019]}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "general.years lists 2019 more than once",
		},
		{
			name: "platform name with separator",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  x/y: {aois: {z: z.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "platforms.x/y: name must be a single path segment",
		},
		{
			name: "aoi escaping the output path",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {"..": x.geojson}, kwargs: {L: {producttype: X}}}
`,
			wantMsg: "platforms.P.aois..: name must be a single path segment",
		},
		{
			name: "level name is dot",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {".": {producttype: X}}}
`,
			wantMsg: "platforms.P.kwargs..: name must be a single path segment",
		},
		{
			name: "level name with backslash",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {'L\1C': {producttype: X}}}
`,
			wantMsg: "name must be a single path segment",
		},
		{
			name: "unknown reconcile endpoint",
			doc: `
general: {base_output_path: /out}
endpoints:
  a: {api_url: "https://a.example/"}
platforms:
  P: {aois: {x: x.geojson}, kwargs: {L: {producttype: X}}}
reconcile: {reference: missing}
`,
			wantMsg: `reconcile.reference names unknown endpoint "missing"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input_params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, filepath.Join(dir, "aoi", "mainland.geojson"), doc.FootprintPath("aoi/mainland.geojson"))
	assert.Equal(t, "/abs/x.geojson", doc.FootprintPath("/abs/x.geojson"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestTitleFileAndReconcilePair(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	name, err := doc.TitleFile("colhub")
	require.NoError(t, err)
	assert.Equal(t, "colhub.met.no.txt", name)

	_, err = doc.TitleFile("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	ref, cand, err := doc.ReconcilePair()
	require.NoError(t, err)
	assert.Equal(t, "colhub.met.no.txt", ref)
	assert.Equal(t, "scihub.copernicus.eu.txt", cand)

	doc.Reconcile = Reconcile{}
	ref, cand, err = doc.ReconcilePair()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultReferenceFile, ref)
	assert.Equal(t, constants.DefaultCandidateFile, cand)
}

func TestHostOf(t *testing.T) {
	host, err := HostOf("http://127.0.0.1:8080/dhus")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", host)

	_, err = HostOf("colhub.met.no")
	assert.Error(t, err)
}
