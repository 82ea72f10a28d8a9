package harvest

import (
	"time"

	"github.com/colhub/hubsync/pkg/constants"
)

// MonthScope selects which months of the grid are enumerated.
type MonthScope string

// Month scopes.
const (
	// ScopeAll enumerates every month of every configured year.
	ScopeAll MonthScope = "all"
	// ScopeFirst enumerates only the first month of the grid, one query per
	// combination, for quick endpoint spot checks.
	ScopeFirst MonthScope = "first"
)

// DateRange is one query window. End is exclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartString returns the start as YYYYMMDD.
func (r DateRange) StartString() string {
	return r.Start.Format(constants.DateLayout)
}

// EndString returns the end as YYYYMMDD.
func (r DateRange) EndString() string {
	return r.End.Format(constants.DateLayout)
}

// Month returns the YYYYMM directory name of the range.
func (r DateRange) Month() string {
	return r.Start.Format(constants.MonthLayout)
}

// String returns "YYYYMMDD-YYYYMMDD".
func (r DateRange) String() string {
	return r.StartString() + "-" + r.EndString()
}

// DateGrid produces monthly ranges over a set of years.
type DateGrid struct {
	Years []int
	Scope MonthScope
	// LegacyDecemberWrap ends December on January 1 of the same year, which
	// yields an inverted range. Kept so old output trees can be reproduced.
	LegacyDecemberWrap bool
}

// Ranges returns the grid's months in chronological order of the configured years.
func (g DateGrid) Ranges() []DateRange {
	years := g.Years
	if len(years) == 0 {
		years = constants.DefaultYears
	}

	var out []DateRange
	for _, y := range years {
		for m := time.January; m <= time.December; m++ {
			start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, 0)
			if m == time.December && g.LegacyDecemberWrap {
				end = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
			}
			out = append(out, DateRange{Start: start, End: end})
			if g.Scope == ScopeFirst {
				return out
			}
		}
	}
	return out
}
