package dataflow

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// Result holds the reaching definitions of one routine.
type Result struct {
	Routine    string
	Node       ast.RoutineNode
	CFG        *CFG
	Iterations int

	uses      []Use
	names     []string
	byVar     map[string][]int
	reachable []bool
}

func (r *Result) collectUses(g *CFG, in []*roaring.Bitmap) {
	byVarDefs := make(map[string]*roaring.Bitmap)
	r.byVar = make(map[string][]int)
	r.reachable = g.Reachable()

	note := func(name string) {
		if _, ok := r.byVar[name]; !ok {
			r.byVar[name] = nil
			r.names = append(r.names, name)
		}
	}

	for _, d := range g.Definitions {
		note(d.Var)

		set, ok := byVarDefs[d.Var]
		if !ok {
			set = roaring.New()
			byVarDefs[d.Var] = set
		}

		set.Add(defID(d.ID))
	}

	for _, b := range g.Blocks {
		live := in[b.ID].Clone()

		for _, ev := range b.Events {
			switch ev.Kind {
			case EventDef:
				if all, ok := byVarDefs[ev.Var]; ok {
					live.AndNot(all)
				}

				live.Add(defID(ev.Def))
			case EventUse:
				note(ev.Var)

				var reaching []int

				if all, ok := byVarDefs[ev.Var]; ok {
					for _, id := range roaring.And(live, all).ToArray() {
						reaching = append(reaching, int(id))
					}
				}

				ref, _ := ev.Node.(*ast.VariableReference)
				r.byVar[ev.Var] = append(r.byVar[ev.Var], len(r.uses))
				r.uses = append(r.uses, Use{
					Var:      ev.Var,
					Line:     ev.Line,
					Column:   ev.Column,
					Block:    b.ID,
					Reaching: reaching,
					Node:     ref,
				})
			}
		}
	}
}

// Definitions returns every definition of the routine in creation order.
func (r *Result) Definitions() []Definition {
	return r.CFG.Definitions
}

// Definition returns the definition with the given ID.
func (r *Result) Definition(id int) Definition {
	return r.CFG.Definitions[id]
}

// Variables returns each variable that is defined or used, in first-seen order.
func (r *Result) Variables() []string {
	return r.names
}

// Uses returns every use in block order, events in statement order within a block.
func (r *Result) Uses() []Use {
	return r.uses
}

// UsesOf returns the uses of one variable.
func (r *Result) UsesOf(name string) []Use {
	idx := r.byVar[name]
	out := make([]Use, 0, len(idx))

	for _, i := range idx {
		out = append(out, r.uses[i])
	}

	return out
}

// ReachingAt returns the definitions that reach u.
func (r *Result) ReachingAt(u Use) []Definition {
	out := make([]Definition, 0, len(u.Reaching))
	for _, id := range u.Reaching {
		out = append(out, r.CFG.Definitions[id])
	}

	return out
}

// DeadDefinitions returns the assignments whose value no use can observe.
// Assignments that escape the routine or sit in unreachable code are never
// reported.
func (r *Result) DeadDefinitions() []Definition {
	used := roaring.New()

	for _, u := range r.uses {
		for _, id := range u.Reaching {
			used.Add(defID(id))
		}
	}

	var out []Definition

	for _, d := range r.CFG.Definitions {
		if d.Origin != OriginAssignment || d.Escapes || !r.reachable[d.Block] {
			continue
		}

		if !used.Contains(defID(d.ID)) {
			out = append(out, d)
		}
	}

	return out
}

// UndefinedUses returns the uses no definition reaches, restricted to
// variables the routine defines somewhere. Names never defined in the
// routine are left alone since they may be globals of the platform. Uses in
// unreachable code are skipped.
func (r *Result) UndefinedUses() []Use {
	defined := make(map[string]struct{})
	for _, d := range r.CFG.Definitions {
		defined[d.Var] = struct{}{}
	}

	var out []Use

	for _, u := range r.uses {
		if len(u.Reaching) > 0 || !r.reachable[u.Block] {
			continue
		}

		if _, ok := defined[u.Var]; ok {
			out = append(out, u)
		}
	}

	return out
}
