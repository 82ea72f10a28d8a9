// Package fixture provides a parameters document, fake catalog clients and
// a MockContext wired to them for command tests.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	hctx "github.com/colhub/hubsync/cmd/hubsync/context"
	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/internal/opensearch"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
)

// Hosts of the two fixture endpoints.
const (
	ReferenceHost = "colhub.met.no"
	CandidateHost = "scihub.copernicus.eu"
)

// Month is the only month the fixture document enumerates.
const Month = "201901"

const document = `
general:
  base_output_path: %s
  years: [2019]
  month_scope: first
endpoints:
  colhub:
    api_url: https://colhub.met.no/
    username: alice
    password: secret
  scihub:
    api_url: https://scihub.copernicus.eu/dhus
platforms:
  sentinel-1:
    aois:
      mainland: %s
    kwargs:
      GRD:
        producttype: GRD
reconcile:
  reference: colhub
  candidate: scihub
`

// Document writes an AOI file and returns a two-endpoint, one-job-per-endpoint
// document whose output goes under a temp directory.
func Document(t testing.TB) *params.Document {
	t.Helper()
	dir := t.TempDir()
	aoi := filepath.Join(dir, "mainland.geojson")
	if err := os.WriteFile(aoi, []byte(`{"type":"Point","coordinates":[10,60]}`), 0o644); err != nil {
		t.Fatalf("write aoi: %v", err)
	}
	doc, err := params.Parse([]byte(fmt.Sprintf(document, filepath.Join(dir, "output"), aoi)))
	if err != nil {
		t.Fatalf("parse fixture document: %v", err)
	}
	return doc
}

// Dir returns the fixture's single output directory.
func Dir(doc *params.Document) string {
	return filepath.Join(doc.General.BaseOutputPath, "sentinel-1", "mainland", "GRD", Month)
}

// Searcher serves a fixed title list and counts queries.
type Searcher struct {
	Titles []string
	// Total overrides the reported count when non-zero.
	Total int
	Err   error

	mu      sync.Mutex
	Queries []string
}

// Search returns the fixed titles.
func (s *Searcher) Search(_ context.Context, q opensearch.Query) (*opensearch.ProductSet, error) {
	s.mu.Lock()
	s.Queries = append(s.Queries, q.String())
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return &opensearch.ProductSet{Count: s.count(), Titles: append([]string(nil), s.Titles...)}, nil
}

// Verify compares retrieved against the reported count.
func (s *Searcher) Verify(_ context.Context, _ opensearch.Query, retrieved int) (bool, error) {
	return retrieved == s.count(), nil
}

func (s *Searcher) count() int {
	if s.Total != 0 {
		return s.Total
	}
	return len(s.Titles)
}

// Footprints resolves every AOI to the same polygon.
type Footprints struct{}

// WKT returns a fixed polygon.
func (Footprints) WKT(string) (string, error) {
	return "POLYGON ((10 60, 11 60, 11 61, 10 60))", nil
}

// Mock returns a MockContext serving doc with the given searchers.
func Mock(doc *params.Document, searchers map[string]harvest.Searcher, format string) *hctx.MockContext {
	rec := metrics.New()
	return &hctx.MockContext{
		ParamsFunc:       func() (*params.Document, error) { return doc, nil },
		SearchersFunc:    func(*params.Document) map[string]harvest.Searcher { return searchers },
		FootprintsFunc:   func() harvest.FootprintSource { return Footprints{} },
		MetricsFunc:      func() *metrics.Recorder { return rec },
		OutputFormatFunc: func() string { return format },
	}
}
