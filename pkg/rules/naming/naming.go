// Package naming holds the variable naming rules.
package naming

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// Rule codes.
const (
	CodeMeaningful   = "VAR-01"
	CodeCamelCase    = "VAR-02"
	CodeNoUnderscore = "VAR-03"
	CodeMinLength    = "VAR-04"
	CodeFlagNames    = "VAR-05"
)

// Names longer than this must contain a domain marker.
const meaningfulMaxLength = 10

// DefaultLoopCounters are the single-letter names allowed by [MinLength].
var DefaultLoopCounters = []string{"i", "j", "k", "n", "m"}

var badAbbreviations = []string{
	"к", "ч", "с", "п", "р", "д", "в", "н", "т", "м",
	"кол", "кл", "ст", "стр", "ном", "сум", "об", "колво",
	"тчк", "знч", "спр", "док", "рег", "отч", "обр",
}

var goodMarkers = []string{
	"количество", "сумма", "цена", "наименование", "код",
	"идентификатор", "дата", "время", "период", "статус",
}

var flagWords = []string{
	"флаг", "признак", "состояние", "режим", "тип",
	"value", "flag", "status", "mode", "type",
}

var flagPrefixes = []string{
	"Есть", "Нет", "Можно", "Нельзя", "Нужно", "Требуется",
	"Разрешено", "Запрещено", "ЭтоАктивно", "ЭтоВыбрано",
	"ЭтоЗавершено", "Признак", "Флаг", "Состояние",
}

// MeaningfulName flags cryptic abbreviations and long names that carry no
// domain marker.
type MeaningfulName struct {
	rules.Base
}

// NewMeaningfulName creates VAR-01.
func NewMeaningfulName() *MeaningfulName {
	return &MeaningfulName{Base: rules.NewBase(CodeMeaningful,
		"Meaningful variable name",
		"A variable name should state its purpose in domain terms",
		rules.SeverityWarning)}
}

func (r *MeaningfulName) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *MeaningfulName) CheckVariable(decl *ast.VariableDeclaration, site rules.Site) ([]rules.Violation, error) {
	if !isCryptic(decl.Name) {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, decl,
		"variable '%s' does not convey its purpose; use full domain terms", decl.Name)}, nil
}

func isCryptic(name string) bool {
	lower := strings.ToLower(name)

	for _, bad := range badAbbreviations {
		if lower == bad || strings.HasPrefix(lower, bad+"_") || strings.HasSuffix(lower, "_"+bad) {
			return true
		}
	}

	if utf8.RuneCountInString(name) <= meaningfulMaxLength {
		return false
	}

	return !slices.ContainsFunc(goodMarkers, func(m string) bool {
		return strings.Contains(lower, m)
	})
}

// CamelCase requires compound names written together with each word capitalised.
type CamelCase struct {
	rules.Base
}

// NewCamelCase creates VAR-02.
func NewCamelCase() *CamelCase {
	return &CamelCase{Base: rules.NewBase(CodeCamelCase,
		"CamelCase for compound names",
		"Compound names are written together, each word starting with a capital letter",
		rules.SeverityWarning)}
}

func (r *CamelCase) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *CamelCase) CheckVariable(decl *ast.VariableDeclaration, site rules.Site) ([]rules.Violation, error) {
	if isCamelCase(decl.Name) {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, decl,
		"variable '%s' must be CamelCase: words written together, each capitalised", decl.Name)}, nil
}

func isCamelCase(name string) bool {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 || unicode.IsLower(first) {
		return false
	}

	return !strings.ContainsAny(name, " _")
}

// NoUnderscorePrefix forbids names starting with an underscore.
type NoUnderscorePrefix struct {
	rules.Base
}

// NewNoUnderscorePrefix creates VAR-03.
func NewNoUnderscorePrefix() *NoUnderscorePrefix {
	return &NoUnderscorePrefix{Base: rules.NewBase(CodeNoUnderscore,
		"No leading underscore",
		"Variable names must not start with an underscore",
		rules.SeverityError)}
}

func (r *NoUnderscorePrefix) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *NoUnderscorePrefix) CheckVariable(decl *ast.VariableDeclaration, site rules.Site) ([]rules.Violation, error) {
	if !strings.HasPrefix(decl.Name, "_") {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, decl,
		"variable '%s' starts with an underscore; remove it", decl.Name)}, nil
}

// MinLength forbids single-character names other than loop counters.
type MinLength struct {
	rules.Base

	counters []string
}

// NewMinLength creates VAR-04. Nil counters selects [DefaultLoopCounters].
func NewMinLength(counters []string) *MinLength {
	if counters == nil {
		counters = DefaultLoopCounters
	}

	lowered := make([]string, 0, len(counters))
	for _, c := range counters {
		lowered = append(lowered, strings.ToLower(c))
	}

	return &MinLength{
		Base: rules.NewBase(CodeMinLength,
			"Minimum name length",
			"Variable names must be longer than one character, loop counters excepted",
			rules.SeverityWarning),
		counters: lowered,
	}
}

func (r *MinLength) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *MinLength) CheckVariable(decl *ast.VariableDeclaration, site rules.Site) ([]rules.Violation, error) {
	if utf8.RuneCountInString(decl.Name) != 1 || slices.Contains(r.counters, strings.ToLower(decl.Name)) {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, decl,
		"variable '%s' is a single character; give it a meaningful name", decl.Name)}, nil
}

// FlagNames requires boolean flags to be named after their true state.
type FlagNames struct {
	rules.Base
}

// NewFlagNames creates VAR-05.
func NewFlagNames() *FlagNames {
	return &FlagNames{Base: rules.NewBase(CodeFlagNames,
		"Flag variable names",
		"Flag variables are named after their true state, e.g. ЕстьОшибки or ЭтоТоварТара",
		rules.SeverityInfo)}
}

func (r *FlagNames) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *FlagNames) CheckVariable(decl *ast.VariableDeclaration, site rules.Site) ([]rules.Violation, error) {
	if !looksLikeFlag(decl.Name) || hasFlagPrefix(decl.Name) {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, decl,
		"flag variable '%s' should be named after its true state, e.g. ЕстьОшибки", decl.Name)}, nil
}

func looksLikeFlag(name string) bool {
	lower := strings.ToLower(name)

	return slices.ContainsFunc(flagWords, func(w string) bool {
		return strings.Contains(lower, w)
	})
}

func hasFlagPrefix(name string) bool {
	return slices.ContainsFunc(flagPrefixes, func(p string) bool {
		return strings.HasPrefix(name, p)
	})
}
