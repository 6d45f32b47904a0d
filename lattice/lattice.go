// Package lattice provides a covering-relation graph view over a
// finite lattice whose elements are identified by dense integer index
// (Con(A) or Sub(A) in this module's domain): direct covers, maximal
// chains, coatoms, and an acyclicity sanity check.
//
// Grounded on gonum's graph.Node/graph.Nodes iterator contract
// (graph/nodes_edges.go) and graph/simple.NewDirectedGraph's
// map-of-maps adjacency (graph/simple/directed.go), adapted here to a
// dense int-keyed Node instead of an interface-boxed one since every
// lattice this module builds is small and already integer-indexed.
// The acyclicity check is Tarjan's strongly-connected-components
// algorithm (graph/topo/tarjan.go), rewritten over that adjacency:
// every strongly connected component of a genuine cover graph must be
// a singleton, so any component of size > 1 signals that the supplied
// Leq was not a valid partial order.
package lattice

import (
	"fmt"

	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Node identifies a lattice element by its position in the order
// supplied to Build.
type Node int

// LeqFunc reports whether element i is below-or-equal element j in the
// lattice's partial order.
type LeqFunc func(i, j int) bool

// Graph is the covering-relation digraph of a finite poset: an edge
// i->j means j covers i (i is an immediate predecessor of j).
type Graph struct {
	n     int
	up    map[int][]int // i -> elements that directly cover i
	down  map[int][]int // j -> elements directly covered by j
	leq   LeqFunc
}

// Build computes the covering relation of a poset on {0,...,n-1}
// ordered by leq: j covers i iff i<=j, i!=j, and no k exists with
// i<=k<=j and k distinct from both.
func Build(n int, leq LeqFunc) (*Graph, error) {
	if n < 0 {
		return nil, uaerr.New(uaerr.InvariantViolation, "lattice.Build",
			fmt.Sprintf("negative element count %d", n))
	}
	g := &Graph{n: n, up: make(map[int][]int), down: make(map[int][]int), leq: leq}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || !leq(i, j) {
				continue
			}
			covers := true
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				if leq(i, k) && leq(k, j) {
					covers = false
					break
				}
			}
			if covers {
				g.up[i] = append(g.up[i], j)
				g.down[j] = append(g.down[j], i)
			}
		}
	}
	return g, nil
}

// Cardinality returns the number of lattice elements.
func (g *Graph) Cardinality() int { return g.n }

// CoveredBy returns the elements that directly cover i.
func (g *Graph) CoveredBy(i int) []int { return g.up[i] }

// Covers returns the elements i directly covers.
func (g *Graph) Covers(i int) []int { return g.down[i] }

// Coatoms returns the elements directly covered by top: the
// meet-irreducible candidates just below the lattice's one.
func (g *Graph) Coatoms(top int) []int { return g.down[top] }

// AtomsOf returns the elements that directly cover bottom.
func (g *Graph) AtomsOf(bottom int) []int { return g.up[bottom] }

// MaximalChains enumerates every cover-chain from bottom to top, each
// chain a sequence of element indices starting at bottom and ending at
// top.
func (g *Graph) MaximalChains(bottom, top int) [][]int {
	var chains [][]int
	var walk func(path []int)
	walk = func(path []int) {
		cur := path[len(path)-1]
		if cur == top {
			chains = append(chains, append([]int(nil), path...))
			return
		}
		for _, next := range g.up[cur] {
			walk(append(path, next))
		}
	}
	walk([]int{bottom})
	return chains
}

// IsAcyclic reports whether the covering relation's graph has no
// strongly connected component of size greater than one, i.e. that leq
// was genuinely antisymmetric.
func (g *Graph) IsAcyclic() bool {
	for _, scc := range g.stronglyConnectedComponents() {
		if len(scc) > 1 {
			return false
		}
	}
	return true
}

// stronglyConnectedComponents computes SCCs of the cover graph via
// Tarjan's algorithm: a DFS that tracks each node's discovery index and
// low-link value on an explicit stack, popping a complete component
// whenever a node's low-link equals its own index.
func (g *Graph) stronglyConnectedComponents() [][]int {
	index := 0
	indices := make(map[int]int, g.n)
	lowlink := make(map[int]int, g.n)
	onStack := make(map[int]bool, g.n)
	var stack []int
	var sccs [][]int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.up[v] {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < g.n; v++ {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}
