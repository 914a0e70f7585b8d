package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios against its
// golden report.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, "loading %s", path)

		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario, filepath.Dir(path))
		})
	}
}

func TestRenderReport(t *testing.T) {
	scenario := &Scenario{Name: "comm", Source: commSource, Ok: true}
	result, err := Run(scenario, "")
	require.NoError(t, err)

	report := string(renderReport(result))
	assert.Contains(t, report, "document: comm.cue\n")
	assert.Contains(t, report, "ok: true\n")
	assert.Contains(t, report, "  theorem comm2 [valid]\n")
	assert.Contains(t, report, "  apply [valid]\n")
	assert.NotContains(t, report, "diagnostics:")
}
