// Package harness runs document-checking conformance scenarios: YAML
// descriptions of a theory document and the checking outcome it must
// produce, with golden-file comparison of the full report.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/skein-lang/skein/internal/checker"
	"github.com/skein-lang/skein/internal/compiler"
	"github.com/skein-lang/skein/internal/theory"
)

// Result is the outcome of running a scenario.
type Result struct {
	Theory *theory.Theory
	Check  *checker.Result
}

// Run compiles the scenario's document and checks it. baseDir resolves a
// relative Document path; it is ignored for inline Source scenarios.
func Run(scenario *Scenario, baseDir string) (*Result, error) {
	var src []byte
	name := scenario.Name + ".cue"

	if scenario.Source != "" {
		src = []byte(scenario.Source)
	} else {
		path := scenario.Document
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: reading document: %w", scenario.Name, err)
		}
		src = data
		name = filepath.Base(path)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("scenario %s: building CUE value: %w", scenario.Name, err)
	}

	th, err := compiler.CompileDocument(name, value.LookupPath(cue.ParsePath("theory")))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: compiling document: %w", scenario.Name, err)
	}

	return &Result{Theory: th, Check: checker.Check(th)}, nil
}

// Verify checks every assertion of the scenario against a result. All
// failures are collected, not just the first.
func Verify(scenario *Scenario, result *Result) []error {
	var errs []error

	if result.Check.Ok() != scenario.Ok {
		errs = append(errs, fmt.Errorf("ok = %v, want %v (%d invalid parts)",
			result.Check.Ok(), scenario.Ok, result.Check.Invalid))
	}

	for i, a := range scenario.Assertions {
		switch a.Type {
		case AssertStatus:
			if err := verifyStatus(result.Theory, a); err != nil {
				errs = append(errs, fmt.Errorf("assertion %d: %w", i, err))
			}
		case AssertDiagnostic:
			if !hasDiagnostic(result.Theory, a.Message) {
				errs = append(errs, fmt.Errorf("assertion %d: no diagnostic %q", i, a.Message))
			}
		case AssertDiagnosticCount:
			if got := len(result.Theory.Diagnostics); got != a.Count {
				errs = append(errs, fmt.Errorf("assertion %d: %d diagnostics, want %d", i, got, a.Count))
			}
		}
	}
	return errs
}

func verifyStatus(th *theory.Theory, a Assertion) error {
	for _, p := range th.Parts {
		info := p.Info()
		if info.Name != a.Name {
			continue
		}
		if got := info.Status.String(); got != a.Status {
			return fmt.Errorf("part %s has status %s, want %s", a.Name, got, a.Status)
		}
		return nil
	}
	return fmt.Errorf("no part named %s", a.Name)
}

func hasDiagnostic(th *theory.Theory, message string) bool {
	for _, d := range th.Diagnostics {
		if d.Message == message {
			return true
		}
	}
	return false
}
