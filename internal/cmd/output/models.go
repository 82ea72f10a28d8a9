package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/report"
)

// ReportToData converts a run report into table rows, one per job.
func ReportToData(rep *report.Report) Data {
	d := Data{
		Title:   fmt.Sprintf("%s run %s", rep.Stage, rep.RunID),
		Headers: Headers("job", "status", "duration", "detail", "error"),
		Alignment: []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignLeft,
		},
		Footer: rep.Summary(),
	}
	for _, o := range rep.Outcomes {
		d.Rows = append(d.Rows, []string{
			o.ID,
			string(o.Status),
			o.Duration.Round(time.Millisecond).String(),
			formatDetail(o.Detail),
			o.Error,
		})
	}
	return d
}

// PlanEntry is one planned job as shown by the plan command.
type PlanEntry struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Path     string `json:"path" yaml:"path"`
}

// PlanEntries converts jobs into plan entries. Credentials are never included.
func PlanEntries(jobs []harvest.Job) []PlanEntry {
	entries := make([]PlanEntry, len(jobs))
	for i, j := range jobs {
		entries[i] = PlanEntry{
			Endpoint: j.Endpoint,
			Start:    j.Range.StartString(),
			End:      j.Range.EndString(),
			Path:     j.Path(),
		}
	}
	return entries
}

// PlanToData converts plan entries into table rows.
func PlanToData(entries []PlanEntry) Data {
	d := Data{
		Title:   "Harvest plan",
		Headers: Headers("endpoint", "start", "end", "path"),
		Footer:  strconv.Itoa(len(entries)) + " jobs",
	}
	for _, e := range entries {
		d.Rows = append(d.Rows, []string{e.Endpoint, e.Start, e.End, e.Path})
	}
	return d
}

// Render writes raw with the chosen formatter, using table for the tabular formats.
func Render(w io.Writer, format Format, raw any, table Data) error {
	if format.Tabular() {
		return NewFormatter(format).Format(w, table)
	}
	return NewFormatter(format).Format(w, raw)
}

func formatDetail(detail map[string]int) string {
	if len(detail) == 0 {
		return ""
	}
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(detail[k])
	}
	return strings.Join(parts, " ")
}
