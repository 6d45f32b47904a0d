// Package subalgebra implements the subalgebra-lattice engine (spec
// C8): generated-subuniverse closure, Sub(A) lattice construction, and
// join-irreducibles.
//
// Grounded on stat/combin's CombinationGenerator-style tuple
// enumeration (applied here to every operation's arity-tuples drawn
// from the growing workset) and on set/disjoint.go's workset
// bookkeeping idiom, already adapted once for package partition.
package subalgebra

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Budget bounds the work an algorithm in this package may perform
// before it reports Truncated (spec §5). A zero Budget means
// unbounded.
type Budget struct {
	MaxClosure     int // cap on generatedSubuniverse's workset growth steps
	MaxJoinClosure int // cap on the lattice join-closure's iteration count
}

// Subuniverse is a subset of {0,...,n-1} closed under every operation
// of some algebra, stored sorted ascending with no duplicates.
type Subuniverse []int

// contains reports whether x is a member of su, via binary search
// since su is kept sorted.
func (su Subuniverse) contains(x int) bool {
	i := sort.SearchInts(su, x)
	return i < len(su) && su[i] == x
}

// Equal reports whether su and o contain exactly the same elements.
func (su Subuniverse) Equal(o Subuniverse) bool {
	if len(su) != len(o) {
		return false
	}
	for i := range su {
		if su[i] != o[i] {
			return false
		}
	}
	return true
}

// Leq reports whether su is a subset of o.
func (su Subuniverse) Leq(o Subuniverse) bool {
	for _, x := range su {
		if !o.contains(x) {
			return false
		}
	}
	return true
}

func normalize(elems []int) Subuniverse {
	dedup := make(map[int]bool, len(elems))
	for _, e := range elems {
		dedup[e] = true
	}
	out := make([]int, 0, len(dedup))
	for e := range dedup {
		out = append(out, e)
	}
	sort.Ints(out)
	return out
}

// Union returns the subuniverse containing every element of su or o
// (not itself necessarily closed; callers pass it through
// GeneratedSubuniverse to re-close it).
func Union(su, o Subuniverse) Subuniverse {
	return normalize(append(append([]int(nil), su...), o...))
}

// Intersect returns the elements present in both su and o. The
// intersection of two subuniverses is automatically a subuniverse
// (spec §4.8), so no further closure is required.
func Intersect(su, o Subuniverse) Subuniverse {
	var out []int
	for _, x := range su {
		if o.contains(x) {
			out = append(out, x)
		}
	}
	return normalize(out)
}

// GeneratedSubuniverse computes the smallest subset of A's carrier
// closed under every operation and containing seed: workset = seed;
// repeat applying every operation to every tuple drawn from the
// workset, adding any new result, until a pass adds nothing. Constant
// (arity-0) operation outputs are always included.
func GeneratedSubuniverse(a *algebra.Algebra, seed []int, budget Budget) (Subuniverse, error) {
	n := a.Cardinality()
	for _, e := range seed {
		if e < 0 || e >= n {
			return nil, uaerr.New(uaerr.InvariantViolation, "subalgebra.GeneratedSubuniverse",
				fmt.Sprintf("generator %d out of range [0,%d)", e, n)).WithAlgebra(a.Name())
		}
	}
	in := make(map[int]bool, n)
	var members []int
	add := func(x int) bool {
		if in[x] {
			return false
		}
		in[x] = true
		members = append(members, x)
		return true
	}
	for _, e := range seed {
		add(e)
	}
	ops := a.Operations()
	for _, o := range ops {
		if o.Arity() == 0 {
			v, err := o.ValueAt(nil)
			if err == nil {
				add(v)
			}
		}
	}
	steps := 0
	for {
		grew := false
		for _, o := range ops {
			ar := o.Arity()
			if ar == 0 {
				continue
			}
			base := append([]int(nil), members...)
			sizes := make([]int, ar)
			for k := range sizes {
				sizes[k] = len(base)
			}
			gen := horner.NewTupleGenerator(sizes)
			for gen.Next() {
				idxTuple := gen.Tuple()
				args := make([]int, ar)
				for k, idx := range idxTuple {
					args[k] = base[idx]
				}
				v, err := o.ValueAt(args)
				if err != nil {
					continue
				}
				if add(v) {
					grew = true
				}
			}
		}
		steps++
		if budget.MaxClosure > 0 && steps > budget.MaxClosure {
			return nil, uaerr.New(uaerr.Truncated, "subalgebra.GeneratedSubuniverse",
				fmt.Sprintf("exceeded %d closure steps", budget.MaxClosure)).WithAlgebra(a.Name())
		}
		if !grew {
			break
		}
	}
	return normalize(members), nil
}

// Lattice is Sub(A): the lattice of subuniverses of A, ordered by
// inclusion, cached as the set of all subuniverses together with its
// derived join-irreducibles.
type Lattice struct {
	alg        *algebra.Algebra
	bottom     Subuniverse
	top        Subuniverse
	principals []Subuniverse
	all        []Subuniverse
}

func containsSub(list []Subuniverse, su Subuniverse) bool {
	for _, q := range list {
		if q.Equal(su) {
			return true
		}
	}
	return false
}

// Build computes Sub(A): the principal subalgebras <{x}> for each
// carrier element x, plus the empty-generated subuniverse (the
// constants), then their closure under the join operation <A u B>.
func Build(a *algebra.Algebra, budget Budget) (*Lattice, error) {
	n := a.Cardinality()
	bottom, err := GeneratedSubuniverse(a, nil, Budget{MaxClosure: budget.MaxClosure})
	if err != nil {
		return nil, err
	}
	full := make([]int, n)
	for i := range full {
		full[i] = i
	}
	top := normalize(full)

	var principals []Subuniverse
	if !containsSub(principals, bottom) {
		principals = append(principals, bottom)
	}
	for x := 0; x < n; x++ {
		gx, err := GeneratedSubuniverse(a, []int{x}, Budget{MaxClosure: budget.MaxClosure})
		if err != nil {
			return nil, err
		}
		if !containsSub(principals, gx) {
			principals = append(principals, gx)
		}
	}

	all := append([]Subuniverse(nil), principals...)
	queue := append([]Subuniverse(nil), all...)
	iterations := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, q := range all {
			joined := Union(p, q)
			closed, err := GeneratedSubuniverse(a, joined, Budget{MaxClosure: budget.MaxClosure})
			if err != nil {
				return nil, err
			}
			iterations++
			if budget.MaxJoinClosure > 0 && iterations > budget.MaxJoinClosure {
				return nil, uaerr.New(uaerr.Truncated, "subalgebra.Build",
					fmt.Sprintf("exceeded %d join-closure iterations", budget.MaxJoinClosure)).WithAlgebra(a.Name())
			}
			if !containsSub(all, closed) {
				all = append(all, closed)
				queue = append(queue, closed)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return lessSub(all[i], all[j]) })
	return &Lattice{alg: a, bottom: bottom, top: top, principals: principals, all: all}, nil
}

func lessSub(a, b Subuniverse) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Zero returns the bottom of Sub(A): the empty-generated subuniverse
// (the set of constants, or {} if A has no constants).
func (l *Lattice) Zero() Subuniverse { return l.bottom }

// One returns the top of Sub(A): the full carrier.
func (l *Lattice) One() Subuniverse { return l.top }

// Cardinality returns |Sub(A)|.
func (l *Lattice) Cardinality() int { return len(l.all) }

// Principals returns the de-duplicated principal subalgebras: the
// empty-generated subuniverse plus <{x}> for each carrier element x.
func (l *Lattice) Principals() []Subuniverse { return l.principals }

// AllSubuniverses returns every element of Sub(A), in the lattice's
// internal deterministic order (by size, then lexicographic).
func (l *Lattice) AllSubuniverses() []Subuniverse { return l.all }

// JoinIrreducibles returns the elements of Sub(A) not equal to the
// join of strictly smaller elements.
func (l *Lattice) JoinIrreducibles() []Subuniverse {
	var jis []Subuniverse
	for _, p := range l.all {
		if isJoinIrreducible(p, l.all) {
			jis = append(jis, p)
		}
	}
	return jis
}

func isJoinIrreducible(p Subuniverse, all []Subuniverse) bool {
	var below []Subuniverse
	for _, q := range all {
		if q.Equal(p) {
			continue
		}
		if q.Leq(p) {
			below = append(below, q)
		}
	}
	if len(below) == 0 {
		return true
	}
	acc := below[0]
	for _, q := range below[1:] {
		acc = Union(acc, q)
	}
	return !acc.Equal(p)
}

// Install wires a just-built Lattice into a's lazy Sub cache, so that
// a.Sub() returns this package's Lattice as an algebra.Lattice.
func Install(a *algebra.Algebra, budget Budget) {
	a.SetSubBuilder(func(a *algebra.Algebra) (algebra.Lattice, error) {
		return Build(a, budget)
	})
}
