package dataflow

import (
	"errors"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// Collector runs the analysis for each routine it meets during a traversal.
// Routines that fail are recorded and reported by Err.
type Collector struct {
	ast.BaseVisitor

	opts    []Option
	mod     *ast.Module
	results []*Result
	byNode  map[ast.RoutineNode]*Result
	errs    []error
}

// NewCollector creates a collector that analyzes routines with opts.
func NewCollector(opts ...Option) *Collector {
	return &Collector{
		opts:   opts,
		byNode: make(map[ast.RoutineNode]*Result),
	}
}

func (c *Collector) VisitModule(n *ast.Module) {
	c.mod = n
	c.results = nil
	c.byNode = make(map[ast.RoutineNode]*Result)
	c.errs = nil
}

func (c *Collector) VisitFunction(n *ast.Function) {
	c.analyze(n)
}

func (c *Collector) VisitProcedure(n *ast.Procedure) {
	c.analyze(n)
}

func (c *Collector) analyze(r ast.RoutineNode) {
	res, err := AnalyzeRoutine(c.mod, r, c.opts...)
	if err != nil {
		c.errs = append(c.errs, err)

		return
	}

	c.results = append(c.results, res)
	c.byNode[r] = res
}

// Results returns the per-routine results in traversal order.
func (c *Collector) Results() []*Result {
	return c.results
}

// Result returns the result for a routine declaration.
func (c *Collector) Result(r ast.RoutineNode) (*Result, bool) {
	res, ok := c.byNode[r]

	return res, ok
}

// Err joins the failures of every routine that could not be analyzed.
func (c *Collector) Err() error {
	return errors.Join(c.errs...)
}
