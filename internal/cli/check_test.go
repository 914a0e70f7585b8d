package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skein-lang/skein/internal/store"
)

func docPath(name string) string {
	return filepath.Join("..", "..", "testdata", "docs", name)
}

func runCheckCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestCheckValidDocument(t *testing.T) {
	buf, err := runCheckCommand(t, "text", docPath("monoid.cue"))
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ monoid.cue")
	assert.Contains(t, output, "theorem comm2 [valid]")
}

func TestCheckValidDocumentJSON(t *testing.T) {
	buf, err := runCheckCommand(t, "json", docPath("monoid.cue"))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report CheckReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.True(t, report.Ok)
	assert.Equal(t, "monoid.cue", report.Document)
	assert.Empty(t, report.Diagnostics)
	assert.Len(t, report.Parts, 8)
}

func TestCheckBrokenDocument(t *testing.T) {
	buf, err := runCheckCommand(t, "text", docPath("broken.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "Rule undefined_rule not defined.")
	assert.Contains(t, output, "✗ broken.cue")
}

func TestCheckMissingDocument(t *testing.T) {
	buf, err := runCheckCommand(t, "text", docPath("nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E002")
}

func TestCheckRecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	buf, err := runCheckCommand(t, "json", docPath("monoid.cue"), "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report CheckReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.NotEmpty(t, report.RunID)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	run, err := s.GetRun(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "monoid.cue", run.Document)
	assert.Equal(t, 0, run.Invalid)
	assert.NotEmpty(t, run.Fingerprint)

	parts, err := s.RunParts(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Len(t, parts, 8)
}

func TestCheckFingerprintStableAcrossRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	for range 2 {
		_, err := runCheckCommand(t, "json", docPath("monoid.cue"), "--db", dbPath)
		require.NoError(t, err)
	}

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), "monoid.cue", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, runs[0].Fingerprint, runs[1].Fingerprint)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
	assert.Equal(t, int64(1), runs[0].Seq)
	assert.Equal(t, int64(0), runs[1].Seq)
}
