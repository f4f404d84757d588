package rules

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

// registration is a rule with its hooks resolved.
type registration struct {
	rule  Rule
	fn    FunctionChecker
	proc  ProcedureChecker
	vars  VariableChecker
	facts FactsChecker
}

func register(r Rule) registration {
	reg := registration{rule: r}
	reg.fn, _ = r.(FunctionChecker)
	reg.proc, _ = r.(ProcedureChecker)
	reg.vars, _ = r.(VariableChecker)
	reg.facts, _ = r.(FactsChecker)

	return reg
}

func (r registration) hooked() bool {
	return r.fn != nil || r.proc != nil || r.vars != nil || r.facts != nil
}

// Checker is the visitor that bridges tree nodes to rule hooks. It must run
// under a [visitor.ContextVisitor] sharing ctx. Violations accumulate in
// traversal order; failures are recorded per rule and never stop the walk.
type Checker struct {
	ast.BaseVisitor

	ctx  *visitor.Context
	regs []registration
	mod  *ast.Module

	violations []Violation
	errs       []error
}

// NewChecker registers rules in order.
func NewChecker(ctx *visitor.Context, rules ...Rule) *Checker {
	c := &Checker{ctx: ctx, regs: make([]registration, 0, len(rules))}
	for _, r := range rules {
		c.regs = append(c.regs, register(r))
	}

	return c
}

func (c *Checker) site() Site {
	return Site{
		Module:      c.mod,
		Scope:       c.ctx.CurrentScope(),
		Routine:     c.ctx.CurrentRoutineName(),
		InLoop:      c.ctx.InLoop(),
		InCondition: c.ctx.InCondition(),
	}
}

// run invokes one hook, converting a panic or an error into a [RuleError].
func (c *Checker) run(code string, hook func() ([]Violation, error)) {
	defer func() {
		if r := recover(); r != nil {
			c.errs = append(c.errs, &RuleError{Code: code, Err: panicError(r)})
		}
	}()

	vs, err := hook()
	c.violations = append(c.violations, vs...)

	if err != nil {
		c.errs = append(c.errs, &RuleError{Code: code, Err: err})
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrRulePanic, err)
	}

	return fmt.Errorf("%w: %v", ErrRulePanic, r)
}

// VisitModule runs rules that expose no hooks through Check.
func (c *Checker) VisitModule(n *ast.Module) {
	c.mod = n
	c.violations = nil
	c.errs = nil

	for _, reg := range c.regs {
		if reg.hooked() {
			continue
		}

		c.run(reg.rule.Code(), func() ([]Violation, error) {
			return reg.rule.Check(n)
		})
	}
}

func (c *Checker) VisitFunction(n *ast.Function) {
	site := c.site()

	for _, reg := range c.regs {
		if reg.fn != nil {
			c.run(reg.rule.Code(), func() ([]Violation, error) {
				return reg.fn.CheckFunction(n, site)
			})
		}
	}
}

func (c *Checker) VisitProcedure(n *ast.Procedure) {
	site := c.site()

	for _, reg := range c.regs {
		if reg.proc != nil {
			c.run(reg.rule.Code(), func() ([]Violation, error) {
				return reg.proc.CheckProcedure(n, site)
			})
		}
	}
}

func (c *Checker) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	site := c.site()

	for _, reg := range c.regs {
		if reg.vars != nil {
			c.run(reg.rule.Code(), func() ([]Violation, error) {
				return reg.vars.CheckVariable(n, site)
			})
		}
	}
}

// CheckFacts runs the post-traversal hooks.
func (c *Checker) CheckFacts(facts *Facts) {
	for _, reg := range c.regs {
		if reg.facts != nil {
			c.run(reg.rule.Code(), func() ([]Violation, error) {
				return reg.facts.CheckFacts(facts)
			})
		}
	}
}

// Violations returns the accumulated violations in traversal order.
func (c *Checker) Violations() []Violation {
	return c.violations
}

// Err joins every recorded [RuleError].
func (c *Checker) Err() error {
	return errors.Join(c.errs...)
}
