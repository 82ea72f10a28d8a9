// Package harvest expands a parameters document into query jobs and runs
// them against the configured endpoints, writing one title file per job.
package harvest

import (
	"iter"
	"maps"

	"github.com/colhub/hubsync/pkg/errors"
	"github.com/colhub/hubsync/pkg/params"
)

var errNilDocument = errors.NewConfigError("harvest", "no parameters document", nil)

// Enumerator expands endpoints × platforms × AOIs × product levels × months
// into jobs. Every map is walked in sorted key order so the sequence is
// deterministic.
type Enumerator struct {
	doc  *params.Document
	grid DateGrid
}

// NewEnumerator builds an enumerator and its date grid from a validated document.
func NewEnumerator(doc *params.Document) (*Enumerator, error) {
	if doc == nil {
		return nil, errNilDocument
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &Enumerator{
		doc: doc,
		grid: DateGrid{
			Years:              doc.General.Years,
			Scope:              MonthScope(doc.General.MonthScope),
			LegacyDecemberWrap: doc.General.LegacyDecemberWrap,
		},
	}, nil
}

// Grid returns the date grid in use.
func (e *Enumerator) Grid() DateGrid {
	return e.grid
}

// Jobs lazily yields one job per combination, ordered endpoint, platform,
// AOI, product level, month.
func (e *Enumerator) Jobs() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		ranges := e.grid.Ranges()
		base := e.doc.General.BaseOutputPath

		for _, epName := range e.doc.EndpointNames() {
			ep := e.doc.Endpoints[epName]
			file, err := e.doc.TitleFile(epName)
			if err != nil {
				// Validate already rejected unusable URLs.
				continue
			}
			for _, platName := range e.doc.PlatformNames() {
				plat := e.doc.Platforms[platName]
				for _, aoi := range plat.AOINames() {
					footprint := e.doc.FootprintPath(plat.AOIs[aoi])
					for _, level := range plat.LevelNames() {
						for _, r := range ranges {
							key := DirectoryKey{Platform: platName, AOI: aoi, Level: level, Month: r.Month()}
							job := Job{
								Endpoint:   epName,
								APIURL:     ep.APIURL,
								Username:   ep.Username,
								Password:   ep.Password,
								Footprint:  footprint,
								Range:      r,
								Kwargs:     maps.Clone(plat.Kwargs[level]),
								Key:        key,
								OutputDir:  key.Dir(base),
								OutputFile: file,
							}
							if !yield(job) {
								return
							}
						}
					}
				}
			}
		}
	}
}

// Count returns the number of jobs Jobs yields without building them.
func (e *Enumerator) Count() int {
	perEndpoint := 0
	for _, name := range e.doc.PlatformNames() {
		p := e.doc.Platforms[name]
		perEndpoint += len(p.AOIs) * len(p.Kwargs)
	}
	return len(e.doc.Endpoints) * perEndpoint * len(e.grid.Ranges())
}

// Collect drains a job sequence into a slice.
func Collect(seq iter.Seq[Job]) []Job {
	var jobs []Job
	for j := range seq {
		jobs = append(jobs, j)
	}
	return jobs
}

// Filter narrows a job sequence to jobs matching keep.
func Filter(seq iter.Seq[Job], keep func(Job) bool) iter.Seq[Job] {
	return func(yield func(Job) bool) {
		for j := range seq {
			if keep(j) && !yield(j) {
				return
			}
		}
	}
}

