package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colhub/hubsync/cmd/hubsync/internal/fixture"
	"github.com/colhub/hubsync/pkg/constants"
)

func writeTitles(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReconcileCommand(t *testing.T) {
	doc := fixture.Document(t)
	dir := fixture.Dir(doc)
	writeTitles(t, dir, fixture.ReferenceHost+constants.TitleFileExt, "10\n9\n")
	writeTitles(t, dir, fixture.CandidateHost+constants.TitleFileExt, "9\n10\n11\n")

	other := filepath.Join(doc.General.BaseOutputPath, "sentinel-1", "mainland", "GRD", "201902")
	writeTitles(t, other, fixture.ReferenceHost+constants.TitleFileExt, "1\n")

	var buf bytes.Buffer
	cmd := NewCommand(fixture.Mock(doc, nil, "json"))
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var rep struct {
		Succeeded int `json:"succeeded"`
		Skipped   int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, 1, rep.Skipped)

	diff, err := os.ReadFile(filepath.Join(dir, constants.DiffFileName))
	require.NoError(t, err)
	assert.Equal(t, "11\n", string(diff))
}

func TestReconcileCommand_RootArgument(t *testing.T) {
	doc := fixture.Document(t)
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	writeTitles(t, dir, fixture.ReferenceHost+constants.TitleFileExt, "x\n")
	writeTitles(t, dir, fixture.CandidateHost+constants.TitleFileExt, "x\ny\n")

	cmd := NewCommand(fixture.Mock(doc, nil, "json"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.FileExists(t, filepath.Join(dir, constants.DiffFileName))
}

func TestReconcileCommand_MissingRoot(t *testing.T) {
	doc := fixture.Document(t)
	cmd := NewCommand(fixture.Mock(doc, nil, "json"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent")})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestReconcileCommand_Interrupted(t *testing.T) {
	doc := fixture.Document(t)
	dir := fixture.Dir(doc)
	writeTitles(t, dir, fixture.ReferenceHost+constants.TitleFileExt, "a\n")
	writeTitles(t, dir, fixture.CandidateHost+constants.TitleFileExt, "a\nb\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	cmd := NewCommand(fixture.Mock(doc, nil, "json"))
	cmd.SetOut(&buf)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(nil)
	err := cmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)

	var rep struct {
		Succeeded int `json:"succeeded"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, 0, rep.Succeeded)
	assert.NoFileExists(t, filepath.Join(dir, constants.DiffFileName))
}

func TestReconcileCommand_HelpDescribesDiffDirection(t *testing.T) {
	cmd := NewCommand(fixture.Mock(nil, nil, "json"))
	assert.Contains(t, cmd.Long, "candidate titles the\nreference lacks")
}
