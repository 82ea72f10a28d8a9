package reconcile

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// Marker statuses.
const (
	StatusMatch   = "match"
	StatusDiffers = "differs"
)

// Marker records a completed comparison. Its presence tells "compared, no
// discrepancy" apart from "never compared" when no diff file exists.
type Marker struct {
	RunID          string   `yaml:"run_id,omitempty"`
	Reference      string   `yaml:"reference"`
	Candidate      string   `yaml:"candidate"`
	ReferenceLines int      `yaml:"reference_lines"`
	CandidateLines int      `yaml:"candidate_lines"`
	Missing        int      `yaml:"missing"`
	Status         string   `yaml:"status"`
	CompletedAt    utc.Time `yaml:"completed_at"`
}

// WriteMarker replaces the marker in dir.
func WriteMarker(dir string, m *Marker) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.WrapParse("yaml", constants.MarkerFileName, err)
	}
	return writeAtomic(filepath.Join(dir, constants.MarkerFileName), data)
}

// ReadMarker loads the marker in dir. It returns errors.ErrNotFound when the
// directory has never been reconciled.
func ReadMarker(dir string) (*Marker, error) {
	path := filepath.Join(dir, constants.MarkerFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it into place, so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return errors.WrapWrite(path, err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapWrite(path, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapWrite(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWrite(path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return errors.WrapWrite(path, err)
	}
	return nil
}
