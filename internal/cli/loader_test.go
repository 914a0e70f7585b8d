package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocument(t *testing.T) {
	th, err := LoadDocument(docPath("monoid.cue"))
	require.NoError(t, err)
	assert.Equal(t, "monoid.cue", th.Name)
	assert.NotEmpty(t, th.Parts)
}

func TestLoadDocumentNotFound(t *testing.T) {
	_, err := LoadDocument(docPath("missing.cue"))
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDocumentNoTheory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cue")
	require.NoError(t, os.WriteFile(path, []byte(`other: {}`), 0o644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoTheory, loadErr.Code)
}

func TestLoadDocumentBadCUE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`theory: parts: [`), 0o644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeBuildFailed, loadErr.Code)
}

func TestLoadDocumentCompileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badterm.cue")
	src := `theory: parts: [{let: {name: "x", term: {gen: "nope"}}}]`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCompile, loadErr.Code)
	assert.Contains(t, loadErr.Message, "generator nope not declared")
}
