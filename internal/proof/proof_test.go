package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/match"
	"github.com/skein-lang/skein/internal/rule"
	"github.com/skein-lang/skein/internal/theory"
)

// commRule builds m(x,y) = m(y,x) for a binary generator m.
func commRule(t *testing.T) *rule.Rule {
	t.Helper()
	lhs := graph.Gen("m", 2, 1)
	rhs := graph.Gen("m", 2, 1)
	in := rhs.Inputs()
	rhs.SetInputs([]int{in[1], in[0]})
	r, err := rule.New(lhs, rhs, "comm")
	require.NoError(t, err)
	return r
}

// commState returns a proof state whose single goal is the comm formula
// itself, with rule "comm" defined globally before the proof.
func commState(t *testing.T) (*theory.Theory, *ProofState) {
	t.Helper()
	th := theory.New("test")
	th.AddRule(commRule(t), 0)
	goal, err := rule.New(graph.Gen("m", 2, 1), graph.Gen("m", 2, 1), "")
	require.NoError(t, err)
	ps := New(th, 1, NewGoal(goal))
	return th, ps
}

func TestLookupRuleReturnsIndependentCopies(t *testing.T) {
	_, ps := commState(t)

	r1 := ps.LookupRule("comm")
	r2 := ps.LookupRule("comm")
	require.NotNil(t, r1)
	require.NotNil(t, r2)

	v := r1.LHS.AddVertex(graph.VertexData{})
	assert.False(t, r2.LHS.HasVertex(v) && r2.LHS.NumVertices() == r1.LHS.NumVertices(),
		"second lookup must not observe mutation of the first")
	assert.Equal(t, 3, r2.LHS.NumVertices())
}

func TestLookupRuleConverse(t *testing.T) {
	_, ps := commState(t)

	r := ps.LookupRule("-comm")
	require.NotNil(t, r)
	assert.Equal(t, "-comm", r.Name)

	// The converse of comm is comm with sides swapped; its lhs carries
	// the swapped input order.
	orig := ps.LookupRule("comm")
	assert.Equal(t, orig.RHS.NumEdges(), r.LHS.NumEdges())
}

func TestLookupRuleUndefined(t *testing.T) {
	th, ps := commState(t)

	assert.Nil(t, ps.LookupRule("undefined_rule"))
	assert.Nil(t, ps.LookupRule("undefined_rule"))

	require.Len(t, th.Diagnostics, 1, "repeated failures report once")
	assert.Equal(t, "Rule undefined_rule not defined.", th.Diagnostics[0].Message)
}

func TestLookupRuleForwardReference(t *testing.T) {
	th := theory.New("test")
	th.AddRule(commRule(t), 5)
	ps := New(th, 1)

	assert.Nil(t, ps.LookupRule("comm"))
	require.Len(t, th.Diagnostics, 1)
	assert.Equal(t, "Attempting to use rule comm before it is defined/proven (5 >= 1).", th.Diagnostics[0].Message)
}

func TestLookupRuleScopes(t *testing.T) {
	_, ps := commState(t)
	local, err := rule.New(graph.Gen("f", 1, 1), graph.Gen("g", 1, 1), "local")
	require.NoError(t, err)
	ps.context["local"] = local

	assert.NotNil(t, ps.LookupRuleIn("local", 0, ScopeLocal))
	assert.NotNil(t, ps.LookupRuleIn("comm", 0, ScopeGlobal))
	assert.Nil(t, ps.LookupRuleIn("comm", 0, ScopeLocal))
	assert.Nil(t, ps.LookupRuleIn("local", 0, ScopeGlobal))
}

func TestLookupRuleAssumption(t *testing.T) {
	_, ps := commState(t)
	assume, err := rule.New(graph.Gen("f", 1, 1), graph.Gen("g", 1, 1), "h")
	require.NoError(t, err)
	ps.goals[0].Assumptions["h"] = assume

	assert.NotNil(t, ps.LookupRuleIn("h", 0, ScopeLocal))
	assert.Nil(t, ps.LookupRuleIn("h", 1, ScopeLocal), "out-of-range goal index sees no assumptions")
}

func TestAddRuleToContext(t *testing.T) {
	_, ps := commState(t)

	ps.AddRuleToContext("comm")
	got := ps.TargetRule("comm")
	require.NotNil(t, got)

	// The context copy is independent of the global rule.
	got.LHS.AddVertex(graph.VertexData{})
	fresh := ps.LookupRuleIn("comm", 0, ScopeGlobal)
	assert.Equal(t, 3, fresh.LHS.NumVertices())
}

func TestTargetRule(t *testing.T) {
	_, ps := commState(t)

	top := ps.TargetRule("")
	require.NotNil(t, top)
	assert.Same(t, ps.goals[0].Formula, top)
	assert.Nil(t, ps.TargetRule("nope"))

	empty := New(theory.New("t"), 0)
	assert.Nil(t, empty.TargetRule(""))
}

func TestReplaceLHSPushesSubGoal(t *testing.T) {
	_, ps := commState(t)
	require.Equal(t, 1, ps.NumGoals())

	ps.ReplaceLHS(graph.Gen("m", 2, 1))
	require.Equal(t, 2, ps.NumGoals())

	ps.ReplaceLHS(graph.Gen("m", 2, 1))
	assert.Equal(t, 3, ps.NumGoals(), "each replacement stacks its own sub-goal")
}

func TestReplaceLHSBoundaryMismatch(t *testing.T) {
	th, ps := commState(t)
	before := ps.LHS().Canonical()

	ps.ReplaceLHS(graph.Gen("f", 1, 1))

	assert.Equal(t, 1, ps.NumGoals())
	assert.Equal(t, before, ps.LHS().Canonical(), "failed replacement changes nothing")
	assert.NotEmpty(t, th.Diagnostics)
}

func TestValidateAndCloseGoal(t *testing.T) {
	_, ps := commState(t)

	assert.NotNil(t, ps.ValidateGoal(0))
	assert.Nil(t, ps.ValidateGoal(1))
	assert.Nil(t, ps.ValidateGoal(-1))

	assert.False(t, ps.TryCloseGoal(3))
	assert.True(t, ps.TryCloseGoal(0))
	assert.Equal(t, 0, ps.NumGoals())
	assert.False(t, ps.TryCloseGoal(0))
}

func TestRewriteLHS1Comm(t *testing.T) {
	_, ps := commState(t)
	before := ps.LHS()

	require.True(t, ps.RewriteLHS1("comm", ""))

	after := ps.LHS()
	assert.Nil(t, match.FindIso(before, after), "swapped inputs are not port-isomorphic to the original")

	// Applying comm again restores the original up to isomorphism.
	require.True(t, ps.RewriteLHS1("comm", ""))
	assert.NotNil(t, match.FindIso(before, ps.LHS()))
}

func TestRewriteRHS1(t *testing.T) {
	_, ps := commState(t)
	require.True(t, ps.RewriteRHS1("comm", ""))
	require.True(t, ps.RewriteRHS1("comm", ""))
	assert.NotNil(t, ps.ValidateGoal(0))
}

func TestRewriteSeqCommitsEachStep(t *testing.T) {
	_, ps := commState(t)
	seq := ps.RewriteLHS("comm", "")

	m1, r1 := seq.Next()
	require.NotNil(t, m1)
	require.NotNil(t, r1)
	assert.Equal(t, r1.Codomain.Canonical(), ps.goals[0].Formula.LHS.Canonical(),
		"rewrite is committed before Next returns")

	m2, _ := seq.Next()
	require.NotNil(t, m2)
	assert.Same(t, ps.goals[0].Formula.LHS, m2.Codomain,
		"the second pull matches against the rewritten graph")
}

func TestRewriteSeqUndefinedRule(t *testing.T) {
	th, ps := commState(t)
	seq := ps.RewriteLHS("undefined_rule", "")
	m, _ := seq.Next()
	assert.Nil(t, m)
	require.Len(t, th.Diagnostics, 1)
	assert.Equal(t, "Rule undefined_rule not defined.", th.Diagnostics[0].Message)
}

func TestRewriteSeqNoMatch(t *testing.T) {
	_, ps := commState(t)
	other, err := rule.New(graph.Gen("f", 1, 1), graph.Gen("g", 1, 1), "fg")
	require.NoError(t, err)
	ps.context["fg"] = other

	seq := ps.RewriteLHS("fg", "")
	m, _ := seq.Next()
	assert.Nil(t, m)
	m, _ = seq.Next()
	assert.Nil(t, m, "an exhausted sequence stays exhausted")
}

func TestSnapshotCopiesGoalsOnly(t *testing.T) {
	_, ps := commState(t)
	ps.context["x"], _ = rule.New(nil, nil, "x")
	ps.report("stale")

	snap := ps.Snapshot(42)
	assert.Equal(t, 42, snap.Line)
	require.Equal(t, 1, snap.NumGoals())
	assert.Empty(t, snap.context)
	assert.Empty(t, snap.reported)

	snap.goals[0].Formula.LHS.AddVertex(graph.VertexData{})
	assert.Equal(t, 3, ps.goals[0].Formula.LHS.NumVertices())
}

func TestCopyIsDeep(t *testing.T) {
	_, ps := commState(t)
	ps.AddRuleToContext("comm")

	c := ps.Copy()
	c.goals[0].Formula.LHS.AddVertex(graph.VertexData{})
	c.context["comm"].LHS.AddVertex(graph.VertexData{})

	assert.Equal(t, 3, ps.goals[0].Formula.LHS.NumVertices())
	assert.Equal(t, 3, ps.context["comm"].LHS.NumVertices())
}

func TestSizes(t *testing.T) {
	_, ps := commState(t)
	assert.Equal(t, 4, ps.LHSSize(), "three vertices and one edge")
	assert.Equal(t, 4, ps.RHSSize())

	empty := New(theory.New("t"), 0)
	assert.Equal(t, 0, empty.LHSSize())
	assert.Nil(t, empty.LHS())
}

func TestGlobalRuleNames(t *testing.T) {
	th := theory.New("test")
	th.AddRule(commRule(t), 0)
	later, err := rule.New(graph.Gen("f", 1, 1), graph.Gen("g", 1, 1), "later")
	require.NoError(t, err)
	th.AddRule(later, 9)

	ps := New(th, 5)
	assert.Equal(t, []string{"comm"}, ps.GlobalRuleNames())
}
