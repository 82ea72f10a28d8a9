package stage

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
)

// Selector narrows the enumerated jobs by key fields. Empty fields match
// every job.
type Selector struct {
	Endpoint string
	Platform string
	AOI      string
	Level    string
	Month    string
}

// AddFlags registers the selector flags on cmd.
func (s *Selector) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.Endpoint, "endpoint", "", "only jobs for this endpoint")
	cmd.Flags().StringVar(&s.Platform, "platform", "", "only jobs for this platform")
	cmd.Flags().StringVar(&s.AOI, "aoi", "", "only jobs for this area of interest")
	cmd.Flags().StringVar(&s.Level, "level", "", "only jobs for this product level")
	cmd.Flags().StringVar(&s.Month, "month", "", "only jobs for this month (YYYYMM)")
}

// Empty reports whether no field is set.
func (s Selector) Empty() bool {
	return s == Selector{}
}

// Validate checks that named endpoints and platforms exist in doc.
func (s Selector) Validate(doc *params.Document) error {
	if s.Endpoint != "" {
		if _, ok := doc.Endpoints[s.Endpoint]; !ok {
			return fmt.Errorf("unknown endpoint %q (have %v)", s.Endpoint, doc.EndpointNames())
		}
	}
	if s.Platform != "" {
		if _, ok := doc.Platforms[s.Platform]; !ok {
			return fmt.Errorf("unknown platform %q (have %v)", s.Platform, doc.PlatformNames())
		}
	}
	return nil
}

// Keep returns the job predicate, or nil when the selector is empty.
func (s Selector) Keep() func(harvest.Job) bool {
	if s.Empty() {
		return nil
	}
	return func(j harvest.Job) bool {
		return match(s.Endpoint, j.Endpoint) &&
			match(s.Platform, j.Key.Platform) &&
			match(s.AOI, j.Key.AOI) &&
			match(s.Level, j.Key.Level) &&
			match(s.Month, j.Key.Month)
	}
}

func match(want, got string) bool {
	return want == "" || want == got
}
