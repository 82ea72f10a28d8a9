// Package constants provides shared constants used throughout the hubsync codebase.
// This includes timeouts, pool widths, file permissions and the file names that
// make up the harvest output layout.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultQueryTimeout is the per-request timeout used by the OpenSearch client
	// when the parameters document does not set one
	DefaultQueryTimeout = 60 * time.Second

	// HarvestQueryTimeout is the timeout the harvest stage applies to every query
	HarvestQueryTimeout = 300 * time.Second

	// ShutdownTimeout bounds graceful shutdown after an interrupted run
	ShutdownTimeout = 5 * time.Second

	// FootprintCacheTTL is how long converted footprints stay cached
	FootprintCacheTTL = 30 * time.Minute

	// FootprintCacheCleanup is how often expired footprints are evicted
	FootprintCacheCleanup = time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define pool widths and paging
const (
	// DefaultWorkers is the width of the worker pool used by both stages
	DefaultWorkers = 4

	// PageSize is the number of entries requested per OpenSearch page
	PageSize = 100

	// FootprintDecimals is the WKT coordinate precision sent to the query API
	FootprintDecimals = 4
)

// Output layout constants
const (
	// TitleFileExt is appended to the endpoint host to name a title file
	TitleFileExt = ".txt"

	// DiffFileName is the per-directory difference file
	DiffFileName = "diff.txt"

	// MarkerFileName records that a directory has been reconciled
	MarkerFileName = ".reconcile.yaml"

	// DefaultParamsFile is the parameters document read when none is given
	DefaultParamsFile = "input_params.yaml"

	// DefaultReferenceFile is the reference title file when none is configured
	DefaultReferenceFile = "colhub.met.no.txt"

	// DefaultCandidateFile is the candidate title file when none is configured
	DefaultCandidateFile = "scihub.copernicus.eu.txt"
)

// Date grid constants
const (
	// DateLayout is the YYYYMMDD layout of query date ranges
	DateLayout = "20060102"

	// MonthLayout is the YYYYMM layout of month directory names
	MonthLayout = "200601"

	// QueryTimeLayout is the timestamp layout used inside OpenSearch range terms
	QueryTimeLayout = "2006-01-02T15:04:05Z"
)

// DefaultYears is the year span harvested when the parameters document omits it.
var DefaultYears = []int{2019, 2020}
