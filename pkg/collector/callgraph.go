// Package collector gathers structural facts about a module during a single
// traversal: declared routines with their call graph, and every variable
// parameter, declaration and use site.
package collector

import "sort"

// CallCount pairs a routine name with the number of distinct callers.
type CallCount struct {
	Name  string `json:"name"  yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// CallGraph maps each caller to the ordered set of routines it calls.
// Callers and callees keep first-seen order; duplicate edges are ignored.
type CallGraph struct {
	callers []string
	callees []string
	edges   map[string][]string
	seen    map[string]map[string]struct{}
	known   map[string]struct{}
}

// NewCallGraph returns an empty graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		edges: make(map[string][]string),
		seen:  make(map[string]map[string]struct{}),
		known: make(map[string]struct{}),
	}
}

// AddCall records caller -> callee and reports whether the edge is new.
func (g *CallGraph) AddCall(caller, callee string) bool {
	set, ok := g.seen[caller]
	if !ok {
		set = make(map[string]struct{})
		g.seen[caller] = set
		g.callers = append(g.callers, caller)
	}

	if _, dup := set[callee]; dup {
		return false
	}

	set[callee] = struct{}{}
	g.edges[caller] = append(g.edges[caller], callee)

	if _, ok := g.known[callee]; !ok {
		g.known[callee] = struct{}{}
		g.callees = append(g.callees, callee)
	}

	return true
}

// Callers returns every routine with at least one outgoing edge, in first-seen order.
func (g *CallGraph) Callers() []string {
	return append([]string(nil), g.callers...)
}

// Callees returns the routines called by caller in first-seen order.
func (g *CallGraph) Callees(caller string) []string {
	return append([]string(nil), g.edges[caller]...)
}

// IsCalled reports whether any caller names callee.
func (g *CallGraph) IsCalled(callee string) bool {
	_, ok := g.known[callee]

	return ok
}

// Edges returns the number of distinct caller -> callee pairs.
func (g *CallGraph) Edges() int {
	n := 0
	for _, callees := range g.edges {
		n += len(callees)
	}

	return n
}

// InDegree returns the number of distinct callers of callee.
func (g *CallGraph) InDegree(callee string) int {
	n := 0

	for _, caller := range g.callers {
		if _, ok := g.seen[caller][callee]; ok {
			n++
		}
	}

	return n
}

// MostCalled returns up to limit callees ordered by in-degree, highest first.
// Ties keep the order in which callees were first seen. A non-positive limit
// returns every callee.
func (g *CallGraph) MostCalled(limit int) []CallCount {
	counts := make([]CallCount, 0, len(g.callees))
	for _, callee := range g.callees {
		counts = append(counts, CallCount{Name: callee, Count: g.InDegree(callee)})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	return counts
}

// Recursive returns the callers that call themselves, in caller order.
func (g *CallGraph) Recursive() []string {
	var out []string

	for _, caller := range g.callers {
		if _, ok := g.seen[caller][caller]; ok {
			out = append(out, caller)
		}
	}

	return out
}

// Map returns a copy of the adjacency lists.
func (g *CallGraph) Map() map[string][]string {
	out := make(map[string][]string, len(g.edges))
	for caller, callees := range g.edges {
		out[caller] = append([]string(nil), callees...)
	}

	return out
}
