package rules_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

var errBroken = errors.New("broken")

// plainRule has no hooks and reports once per module through Check.
type plainRule struct {
	rules.Base
}

func newPlainRule() *plainRule {
	return &plainRule{Base: rules.NewBase("TST-01", "Plain", "module level", rules.SeverityInfo)}
}

func (r *plainRule) Check(mod *ast.Module) ([]rules.Violation, error) {
	return []rules.Violation{r.ViolationAt(mod, 1, 1, "module %q", mod.Name)}, nil
}

// panicRule panics on every function.
type panicRule struct {
	rules.Base
}

func newPanicRule() *panicRule {
	return &panicRule{Base: rules.NewBase("TST-02", "Panic", "always panics", rules.SeverityError)}
}

func (r *panicRule) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *panicRule) CheckFunction(*ast.Function, rules.Site) ([]rules.Violation, error) {
	panic("boom")
}

// siteRule records what every procedure hook saw and fails on "Bad".
type siteRule struct {
	rules.Base

	sites []rules.Site
}

func newSiteRule() *siteRule {
	return &siteRule{Base: rules.NewBase("TST-03", "Site", "records sites", rules.SeverityWarning)}
}

func (r *siteRule) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *siteRule) CheckProcedure(p *ast.Procedure, site rules.Site) ([]rules.Violation, error) {
	r.sites = append(r.sites, site)
	if p.Name == "Bad" {
		return nil, errBroken
	}

	return []rules.Violation{r.Violation(site.Module, p, "procedure %s", p.Name)}, nil
}

// factsRule reports the number of collected routines.
type factsRule struct {
	rules.Base
}

func (r *factsRule) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *factsRule) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	return []rules.Violation{r.ViolationAt(f.Module, 0, 0, "%d routines, %d results",
		len(f.Functions.Routines()), len(f.DataFlow.Results()))}, nil
}

func testModule() *ast.Module {
	return &ast.Module{
		Name: "Test",
		Functions: []*ast.Function{
			{Loc: ast.At(2, 1), Routine: ast.Routine{Name: "F"}},
		},
		Procedures: []*ast.Procedure{
			{Loc: ast.At(9, 1), Routine: ast.Routine{Name: "Good"}},
			{Loc: ast.At(5, 1), Routine: ast.Routine{Name: "Bad"}},
		},
	}
}

func TestSeverityOrder(t *testing.T) {
	t.Parallel()

	levels := rules.Severities()
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].Rank(), levels[i-1].Rank())
		assert.True(t, levels[i].AtLeast(levels[i-1]))
		assert.False(t, levels[i-1].AtLeast(levels[i]))
	}

	s, err := rules.ParseSeverity(" warning ")
	require.NoError(t, err)
	assert.Equal(t, rules.SeverityWarning, s)

	_, err = rules.ParseSeverity("fatal")
	require.ErrorIs(t, err, rules.ErrUnknownSeverity)
	assert.False(t, rules.Severity("fatal").Valid())
}

func TestSortViolations(t *testing.T) {
	t.Parallel()

	vs := []rules.Violation{
		{ModuleName: "B", Line: 1, RuleCode: "X"},
		{ModuleName: "A", Line: 3, Column: 2, RuleCode: "Y"},
		{ModuleName: "A", Line: 3, Column: 2, RuleCode: "X", Message: "first"},
		{ModuleName: "A", Line: 3, Column: 1, RuleCode: "Z"},
		{ModuleName: "A", Line: 3, Column: 2, RuleCode: "X", Message: "second"},
	}

	rules.SortViolations(vs)

	got := make([]string, 0, len(vs))
	for _, v := range vs {
		got = append(got, v.ModuleName+v.RuleCode+v.Message)
	}

	assert.Equal(t, []string{"AZ", "AXfirst", "AXsecond", "AY", "BX"}, got)
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Source: []string{"  Перем А;  ", "Б = 1;"}}

	assert.Equal(t, "Перем А;", rules.Snippet(mod, 1))
	assert.Empty(t, rules.Snippet(mod, 0))
	assert.Empty(t, rules.Snippet(mod, 3))
	assert.Empty(t, rules.Snippet(nil, 1))
}

func TestEngineIsolatesRuleFailures(t *testing.T) {
	t.Parallel()

	site := newSiteRule()
	engine := rules.NewEngine([]rules.Rule{newPanicRule(), site, newPlainRule()})

	res := engine.Analyze(testModule())
	require.Error(t, res.Err())

	ruleErrs := res.RuleErrors()
	require.Len(t, ruleErrs, 2)
	assert.Equal(t, "TST-02", ruleErrs[0].Code)
	require.ErrorIs(t, ruleErrs[0], rules.ErrRulePanic)
	assert.Equal(t, "TST-03", ruleErrs[1].Code)
	require.ErrorIs(t, res.Err(), errBroken)

	// The plain rule and the healthy procedure are still reported, sorted by line.
	require.Len(t, res.Violations, 2)
	assert.Equal(t, "TST-01", res.Violations[0].RuleCode)
	assert.Equal(t, "TST-03", res.Violations[1].RuleCode)
	assert.Equal(t, uint(9), res.Violations[1].Line)
	assert.Equal(t, "Test", res.Violations[1].ModuleName)
}

func TestEngineSiteSnapshot(t *testing.T) {
	t.Parallel()

	site := newSiteRule()
	rules.NewEngine([]rules.Rule{site}).Analyze(testModule())

	require.Len(t, site.sites, 2)
	assert.Equal(t, "Good", site.sites[0].Routine)
	assert.Equal(t, "global.procedure:Good", site.sites[0].Scope)
	assert.False(t, site.sites[0].InLoop)
	assert.Equal(t, "Test", site.sites[0].Module.Name)
}

func TestEngineFactsHook(t *testing.T) {
	t.Parallel()

	r := &factsRule{Base: rules.NewBase("TST-04", "Facts", "facts", rules.SeverityInfo)}

	vs, err := r.Check(testModule())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "3 routines, 3 results", vs[0].Message)
	assert.Equal(t, uint(0), vs[0].Line)
}

func TestEngineNilModule(t *testing.T) {
	t.Parallel()

	res := rules.NewEngine([]rules.Rule{newPlainRule()}).Analyze(nil)
	require.NoError(t, res.Err())
	require.Len(t, res.Violations, 1)
	assert.Empty(t, res.Module)
}

func TestEngineDeterministic(t *testing.T) {
	t.Parallel()

	engine := rules.NewEngine([]rules.Rule{newSiteRule(), newPlainRule()})

	first := engine.Analyze(testModule()).Violations
	for range 5 {
		assert.Equal(t, first, engine.Analyze(testModule()).Violations)
	}
}
