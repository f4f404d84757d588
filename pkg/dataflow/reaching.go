package dataflow

import (
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// DefaultMaxIterations bounds the number of block evaluations per routine.
const DefaultMaxIterations = 100_000

// ErrIterationBudget is returned when the fixpoint does not stabilise within
// the iteration budget.
var ErrIterationBudget = errors.New("reaching definitions did not converge")

// Origin tells what introduced a definition.
type Origin uint8

// Definition origins.
const (
	OriginParameter Origin = iota
	OriginModuleVariable
	OriginDeclaration
	OriginAssignment
	OriginLoopCounter
)

var originNames = [...]string{
	OriginParameter:      "parameter",
	OriginModuleVariable: "module variable",
	OriginDeclaration:    "declaration",
	OriginAssignment:     "assignment",
	OriginLoopCounter:    "loop counter",
}

func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}

	return "unknown"
}

// Definition is one point where a variable receives a value.
type Definition struct {
	ID     int
	Var    string
	Line   uint
	Column uint
	Origin Origin
	Block  int
	// Escapes is set for assignments whose value outlives the routine:
	// by-reference parameters and module variables.
	Escapes bool
	Node    ast.Node
}

// Use is one read of a variable together with the definitions that may reach it.
type Use struct {
	Var      string
	Line     uint
	Column   uint
	Block    int
	Reaching []int
	Node     *ast.VariableReference
}

// Option configures an analysis.
type Option func(*options)

type options struct {
	maxIterations int
}

// WithMaxIterations overrides [DefaultMaxIterations]. Non-positive values are ignored.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// AnalyzeRoutine computes reaching definitions for one routine of mod.
func AnalyzeRoutine(mod *ast.Module, r ast.RoutineNode, opts ...Option) (*Result, error) {
	o := options{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}

	g := Build(mod, r)
	name := r.Header().Name

	in, iterations, err := solve(g, o.maxIterations)
	if err != nil {
		return nil, fmt.Errorf("routine %s: %w", name, err)
	}

	res := &Result{
		Routine:    name,
		Node:       r,
		CFG:        g,
		Iterations: iterations,
	}
	res.collectUses(g, in)

	return res, nil
}

// Analyze computes reaching definitions for every routine of mod, functions
// first. A routine that fails does not prevent the others from being analyzed.
func Analyze(mod *ast.Module, opts ...Option) ([]*Result, error) {
	if mod == nil {
		return nil, nil
	}

	var (
		results []*Result
		errs    []error
	)

	run := func(r ast.RoutineNode) {
		res, err := AnalyzeRoutine(mod, r, opts...)
		if err != nil {
			errs = append(errs, err)

			return
		}

		results = append(results, res)
	}

	for _, f := range mod.Functions {
		if f != nil {
			run(f)
		}
	}

	for _, p := range mod.Procedures {
		if p != nil {
			run(p)
		}
	}

	return results, errors.Join(errs...)
}

func defID(i int) uint32 {
	if i < 0 || uint64(i) > math.MaxUint32 {
		panic(fmt.Sprintf("definition index %d out of range", i))
	}

	return uint32(i)
}

// transfer holds the per-block GEN and KILL sets.
type transfer struct {
	gen  *roaring.Bitmap
	kill *roaring.Bitmap
}

func transfers(g *CFG) []transfer {
	byVar := make(map[string]*roaring.Bitmap)

	for _, d := range g.Definitions {
		set, ok := byVar[d.Var]
		if !ok {
			set = roaring.New()
			byVar[d.Var] = set
		}

		set.Add(defID(d.ID))
	}

	out := make([]transfer, len(g.Blocks))

	for _, b := range g.Blocks {
		gen := roaring.New()
		kill := roaring.New()

		for _, ev := range b.Events {
			if ev.Kind != EventDef {
				continue
			}

			all := byVar[ev.Var]
			gen.AndNot(all)
			gen.Add(defID(ev.Def))
			kill.Or(all)
		}

		kill.AndNot(gen)
		out[b.ID] = transfer{gen: gen, kill: kill}
	}

	return out
}

// solve runs the worklist fixpoint and returns IN per block.
func solve(g *CFG, budget int) ([]*roaring.Bitmap, int, error) {
	tf := transfers(g)
	reachable := g.Reachable()

	in := make([]*roaring.Bitmap, len(g.Blocks))
	out := make([]*roaring.Bitmap, len(g.Blocks))

	for i := range g.Blocks {
		in[i] = roaring.New()
		out[i] = roaring.New()
	}

	queued := make([]bool, len(g.Blocks))
	queue := make([]*Block, 0, len(g.Blocks))

	for _, b := range g.Blocks {
		if reachable[b.ID] {
			queue = append(queue, b)
			queued[b.ID] = true
		}
	}

	iterations := 0

	for len(queue) > 0 {
		if iterations >= budget {
			return nil, iterations, fmt.Errorf("%w after %d iterations", ErrIterationBudget, iterations)
		}

		iterations++

		b := queue[0]
		queue = queue[1:]
		queued[b.ID] = false

		newIn := roaring.New()
		for _, p := range b.Preds {
			if reachable[p.ID] {
				newIn.Or(out[p.ID])
			}
		}

		newOut := roaring.AndNot(newIn, tf[b.ID].kill)
		newOut.Or(tf[b.ID].gen)

		in[b.ID] = newIn

		if newOut.Equals(out[b.ID]) {
			continue
		}

		out[b.ID] = newOut

		for _, s := range b.Succs {
			if reachable[s.ID] && !queued[s.ID] {
				queue = append(queue, s)
				queued[s.ID] = true
			}
		}
	}

	return in, iterations, nil
}
