package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/naming"
)

func moduleWith(names ...string) *ast.Module {
	mod := &ast.Module{Name: "Common"}
	for i, n := range names {
		mod.Variables = append(mod.Variables, &ast.VariableDeclaration{
			Loc:  ast.At(uint(i+1), 5),
			Name: n,
		})
	}

	return mod
}

func flagged(t *testing.T, r rules.Rule, names ...string) []string {
	t.Helper()

	res := rules.NewEngine([]rules.Rule{r}).Analyze(moduleWith(names...))
	require.NoError(t, res.Err())

	var out []string
	for _, v := range res.Violations {
		out = append(out, names[v.Line-1])
	}

	return out
}

func TestNoUnderscorePrefix_SingleViolation(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{
		Name: "Common",
		Variables: []*ast.VariableDeclaration{
			{Loc: ast.At(3, 5), Name: "_x"},
		},
		Source: []string{"", "", "    Перем _x;"},
	}

	res := rules.NewEngine([]rules.Rule{naming.NewNoUnderscorePrefix()}).Analyze(mod)
	require.NoError(t, res.Err())
	require.Len(t, res.Violations, 1)

	v := res.Violations[0]
	assert.Equal(t, "VAR-03", v.RuleCode)
	assert.Equal(t, rules.SeverityError, v.Severity)
	assert.Equal(t, uint(3), v.Line)
	assert.Equal(t, uint(5), v.Column)
	assert.Equal(t, "Common", v.ModuleName)
	assert.Equal(t, "Перем _x;", v.CodeSnippet)
	assert.Contains(t, v.Message, "_x")
}

func TestNoUnderscorePrefix_CheckMatchesEngine(t *testing.T) {
	t.Parallel()

	r := naming.NewNoUnderscorePrefix()
	mod := moduleWith("_a", "Good", "_b")

	direct, err := r.Check(mod)
	require.NoError(t, err)

	res := rules.NewEngine([]rules.Rule{r}).Analyze(mod)

	assert.Equal(t, res.Violations, direct)
	assert.Len(t, direct, 2)
}

func TestNoUnderscorePrefix_LocalDeclarations(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Procedures: []*ast.Procedure{{Routine: ast.Routine{
		Name: "Run",
		Body: []ast.Stmt{&ast.VariableDeclaration{Name: "_local"}},
	}}}}

	vs, err := naming.NewNoUnderscorePrefix().Check(mod)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, uint(0), vs[0].Line)
	assert.Equal(t, uint(0), vs[0].Column)
}

func TestMeaningfulName(t *testing.T) {
	t.Parallel()

	got := flagged(t, naming.NewMeaningfulName(),
		"Кол", "кол_товаров", "товары_сум", "КоличествоТоваровНаСкладе", "ОченьДлинноеИмяБезСмысла", "Товар")

	assert.Equal(t, []string{"Кол", "кол_товаров", "товары_сум", "ОченьДлинноеИмяБезСмысла"}, got)
}

func TestCamelCase(t *testing.T) {
	t.Parallel()

	got := flagged(t, naming.NewCamelCase(), "ИмяТовара", "имяТовара", "Имя_Товара", "Итог", "")

	assert.Equal(t, []string{"имяТовара", "Имя_Товара", ""}, got)
}

func TestMinLength(t *testing.T) {
	t.Parallel()

	got := flagged(t, naming.NewMinLength(nil), "i", "x", "Ю", "Ok", "N")
	assert.Equal(t, []string{"x", "Ю"}, got)

	got = flagged(t, naming.NewMinLength([]string{"x"}), "i", "x")
	assert.Equal(t, []string{"i"}, got)
}

func TestFlagNames(t *testing.T) {
	t.Parallel()

	got := flagged(t, naming.NewFlagNames(), "Флаг", "ЕстьОшибкиФлаг", "РежимРаботы", "statusCode", "Товар")

	assert.Equal(t, []string{"РежимРаботы", "statusCode"}, got)
}

func TestSeverityOverride(t *testing.T) {
	t.Parallel()

	r := naming.NewFlagNames()
	r.SetSeverity(rules.SeverityWarning)

	vs, err := r.Check(moduleWith("mode"))
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, rules.SeverityWarning, vs[0].Severity)
}
