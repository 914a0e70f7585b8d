package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// renderReport produces the deterministic text form of a checking outcome
// compared against golden files. Source line numbers are deliberately
// omitted so that reformatting a document does not invalidate its golden
// file; parts and diagnostics appear in document order.
func renderReport(result *Result) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "document: %s\n", result.Theory.Name)
	fmt.Fprintf(&buf, "ok: %v\n", result.Check.Ok())
	fmt.Fprintf(&buf, "valid: %d\n", result.Check.Valid)
	fmt.Fprintf(&buf, "invalid: %d\n", result.Check.Invalid)

	buf.WriteString("parts:\n")
	for _, p := range result.Theory.Parts {
		info := p.Info()
		if info.Name != "" {
			fmt.Fprintf(&buf, "  %s %s [%s]\n", p.Kind(), info.Name, info.Status)
		} else {
			fmt.Fprintf(&buf, "  %s [%s]\n", p.Kind(), info.Status)
		}
	}

	if len(result.Theory.Diagnostics) > 0 {
		buf.WriteString("diagnostics:\n")
		for _, d := range result.Theory.Diagnostics {
			fmt.Fprintf(&buf, "  %s\n", d.Message)
		}
	}

	return buf.Bytes()
}

// RunWithGolden runs a scenario, verifies its assertions and compares the
// rendered report against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, baseDir string) {
	t.Helper()

	result, err := Run(scenario, baseDir)
	if err != nil {
		t.Fatalf("running scenario %s: %v", scenario.Name, err)
	}
	for _, err := range Verify(scenario, result) {
		t.Errorf("scenario %s: %v", scenario.Name, err)
	}

	AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against the golden file
// for the given name.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, renderReport(result))
}
