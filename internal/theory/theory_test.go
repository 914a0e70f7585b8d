package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/rule"
)

func makeRule(t *testing.T, name string) *rule.Rule {
	t.Helper()
	r, err := rule.New(graph.Gen("f", 1, 1), graph.Gen("g", 1, 1), name)
	require.NoError(t, err)
	return r
}

func TestAddAndLookupRule(t *testing.T) {
	th := New("doc.skein")
	th.AddRule(makeRule(t, "assoc"), 3)

	r, seq, ok := th.Rule("assoc")
	require.True(t, ok)
	assert.Equal(t, "assoc", r.Name)
	assert.Equal(t, 3, seq)

	_, _, ok = th.Rule("missing")
	assert.False(t, ok)
}

func TestRuleNamesBefore(t *testing.T) {
	th := New("doc.skein")
	th.AddRule(makeRule(t, "b"), 0)
	th.AddRule(makeRule(t, "a"), 2)
	th.AddRule(makeRule(t, "c"), 5)

	assert.Empty(t, th.RuleNamesBefore(0), "a rule is not usable at its own position")
	assert.Equal(t, []string{"b"}, th.RuleNamesBefore(1))
	assert.Equal(t, []string{"a", "b"}, th.RuleNamesBefore(3), "names come back sorted")
	assert.Equal(t, []string{"a", "b", "c"}, th.RuleNamesBefore(6))
}

func TestReport(t *testing.T) {
	th := New("doc.skein")
	th.Report(7, "something failed")
	th.Report(7, "something failed")

	require.Len(t, th.Diagnostics, 2, "the theory log itself never deduplicates")
	assert.Equal(t, "doc.skein:7: something failed", th.Diagnostics[0].String())
}

func TestAddGraph(t *testing.T) {
	th := New("doc.skein")
	th.AddGraph("id", graph.Identity())
	assert.Contains(t, th.Graphs, "id")
}

func TestPartInfo(t *testing.T) {
	parts := []Part{
		&GenPart{PartInfo: PartInfo{Line: 1, Name: "f"}},
		&LetPart{PartInfo: PartInfo{Line: 2, Name: "t"}},
		&RulePart{PartInfo: PartInfo{Line: 3, Name: "r"}},
		&TheoremPart{PartInfo: PartInfo{Line: 4, Name: "thm"}},
		&ProofStartPart{PartInfo: PartInfo{Line: 5}},
		&ApplyTacticPart{PartInfo: PartInfo{Line: 6}, Tactic: "rule"},
		&RewriteStepPart{PartInfo: PartInfo{Line: 7}, Side: SideLHS},
		&ProofQedPart{PartInfo: PartInfo{Line: 8}},
	}
	for i, p := range parts {
		assert.Equal(t, i+1, p.Info().Line)
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusUnchecked, "unchecked"},
		{StatusChecking, "checking"},
		{StatusValid, "valid"},
		{StatusInvalid, "invalid"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.status.String())
	}
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "lhs", SideLHS.String())
	assert.Equal(t, "rhs", SideRHS.String())
}
