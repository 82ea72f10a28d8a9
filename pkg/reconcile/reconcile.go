// Package reconcile compares the title files two mirrors produced for the
// same directory and records the candidate titles the reference lacks.
//
// Both files are sorted with `sort -n` ordering and walked in step like
// `comm -13`: the result is the sorted candidate multiset minus the
// reference, written to diff.txt only when non-empty. Every finished
// comparison also leaves a .reconcile.yaml marker.
package reconcile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/utc"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// Result describes one comparison.
type Result struct {
	Directory      string   `json:"directory" yaml:"directory"`
	Reference      string   `json:"reference" yaml:"reference"`
	Candidate      string   `json:"candidate" yaml:"candidate"`
	ReferenceLines int      `json:"reference_lines" yaml:"reference_lines"`
	CandidateLines int      `json:"candidate_lines" yaml:"candidate_lines"`
	Missing        []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	DiffWritten    bool     `json:"diff_written" yaml:"diff_written"`
}

// Status returns StatusMatch or StatusDiffers.
func (r *Result) Status() string {
	if len(r.Missing) == 0 {
		return StatusMatch
	}
	return StatusDiffers
}

// Detail flattens the result into report counters.
func (r *Result) Detail() map[string]int {
	written := 0
	if r.DiffWritten {
		written = 1
	}
	return map[string]int{
		"reference_lines": r.ReferenceLines,
		"candidate_lines": r.CandidateLines,
		"missing":         len(r.Missing),
		"diff_written":    written,
	}
}

// Reconciler compares one directory at a time. It holds no state between calls.
type Reconciler struct {
	opts *options
}

// New creates a Reconciler.
func New(opts ...Option) (*Reconciler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{opts: o}, nil
}

// Files returns the configured reference and candidate file names.
func (r *Reconciler) Files() (reference, candidate string) {
	return r.opts.reference, r.opts.candidate
}

// Reconcile compares the configured pair in dir.
func (r *Reconciler) Reconcile(dir string) (*Result, error) {
	return r.Compare(dir, r.opts.reference, r.opts.candidate)
}

// Compare sorts dir/reference and dir/candidate, writes the candidate lines
// missing from the reference to dir/diff.txt, and removes a stale diff.txt
// when nothing is missing. Running it twice on unchanged inputs leaves the
// same files behind.
func (r *Reconciler) Compare(dir, reference, candidate string) (*Result, error) {
	ref, err := readLines(filepath.Join(dir, reference))
	if err != nil {
		return nil, errors.NewReconcileError(dir, "cannot read reference "+reference, err)
	}
	cand, err := readLines(filepath.Join(dir, candidate))
	if err != nil {
		return nil, errors.NewReconcileError(dir, "cannot read candidate "+candidate, err)
	}

	sortLines(ref)
	sortLines(cand)

	res := &Result{
		Directory:      dir,
		Reference:      reference,
		Candidate:      candidate,
		ReferenceLines: len(ref),
		CandidateLines: len(cand),
		Missing:        missingLines(ref, cand),
	}

	diffPath := filepath.Join(dir, constants.DiffFileName)
	if len(res.Missing) > 0 {
		if err := writeAtomic(diffPath, joinLines(res.Missing)); err != nil {
			return nil, errors.NewReconcileError(dir, "cannot write diff", err)
		}
		res.DiffWritten = true
	} else if err := os.Remove(diffPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.NewReconcileError(dir, "cannot remove stale diff", err)
	}

	if r.opts.marker {
		m := &Marker{
			RunID:          r.opts.runID,
			Reference:      reference,
			Candidate:      candidate,
			ReferenceLines: res.ReferenceLines,
			CandidateLines: res.CandidateLines,
			Missing:        len(res.Missing),
			Status:         res.Status(),
			CompletedAt:    utc.Now(),
		}
		if err := WriteMarker(dir, m); err != nil {
			return nil, errors.NewReconcileError(dir, "cannot write marker", err)
		}
	}
	return res, nil
}

// readLines splits a file on '\n'. Line content is kept byte for byte,
// including any '\r'. A final line without a terminator still counts.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	br := bufio.NewReader(f)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimSuffix(line, "\n"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
	}
}

func joinLines(lines []string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
