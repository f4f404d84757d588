package rules

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// Violation is one rule failure.
type Violation struct {
	RuleCode    string   `json:"rule_code"              yaml:"rule_code"`
	RuleName    string   `json:"rule_name"              yaml:"rule_name"`
	Severity    Severity `json:"severity"               yaml:"severity"`
	ModuleName  string   `json:"module_name"            yaml:"module_name"`
	Line        uint     `json:"line"                   yaml:"line"`
	Column      uint     `json:"column"                 yaml:"column"`
	Message     string   `json:"message"                yaml:"message"`
	CodeSnippet string   `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
}

// CompareViolations orders by module, line, column and rule code.
func CompareViolations(a, b Violation) int {
	return cmp.Or(
		cmp.Compare(a.ModuleName, b.ModuleName),
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
		cmp.Compare(a.RuleCode, b.RuleCode),
	)
}

// SortViolations sorts vs in place with [CompareViolations]. Equal keys keep
// their traversal order.
func SortViolations(vs []Violation) {
	slices.SortStableFunc(vs, CompareViolations)
}

// Snippet returns the trimmed source line, or "" when the module carries no
// source or line is out of range.
func Snippet(mod *ast.Module, line uint) string {
	if mod == nil || line == 0 || line > uint(len(mod.Source)) {
		return ""
	}

	return strings.TrimSpace(mod.Source[line-1])
}
