package treeline

import (
	"sort"

	"github.com/treeline-dev/treeline/internal/record"
)

// Graph queries are read-only and deterministic: results come back
// sorted and independent of call order.

// DependenciesOf returns the module ids the given module imports from,
// sorted.
func (a *Analysis) DependenciesOf(id string) []string {
	var out []string
	for _, edge := range a.Graph.Edges {
		if edge.Source == id {
			out = append(out, edge.Target)
		}
	}
	return out
}

// DependentsOf returns the module ids that import from the given
// module, sorted.
func (a *Analysis) DependentsOf(id string) []string {
	var out []string
	for _, edge := range a.Graph.Edges {
		if edge.Target == id {
			out = append(out, edge.Source)
		}
	}
	sort.Strings(out)
	return out
}

// ExternalDependencies returns the distinct external import specifiers
// seen anywhere in the tree, sorted.
func (a *Analysis) ExternalDependencies() []string {
	seen := make(map[string]bool)
	for _, rec := range a.Records {
		for _, imp := range rec.Imports {
			if imp.Resolution.State == record.External {
				seen[imp.Specifier] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for spec := range seen {
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}

// Cycles returns the strongly connected components of the module graph
// with more than one member, each sorted internally, the list sorted
// by first member. Self-loops cannot occur since self-edges are
// dropped at build time.
func (a *Analysis) Cycles() [][]string {
	adj := make(map[string][]string)
	for _, edge := range a.Graph.Edges {
		adj[edge.Source] = append(adj[edge.Source], edge.Target)
	}

	// Tarjan's algorithm, iterative state kept per node.
	index := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	next := 0

	var components [][]string
	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			if len(comp) > 1 {
				sort.Strings(comp)
				components = append(components, comp)
			}
		}
	}

	for _, node := range a.Graph.Nodes {
		if _, seen := index[node.ID]; !seen {
			strongconnect(node.ID)
		}
	}

	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}
