// Package congruence implements the congruence-lattice engine (spec
// C7): principal congruence generation Cg(a,b), full-lattice
// enumeration by join-closure, join-irreducibles, atoms, and the
// distributivity/modularity tests.
//
// Grounded on package partition for the join/meet primitives and on
// gonum/graph/topo/tarjan.go's FIFO-worklist-with-visited-set
// traversal idiom, reused here for the principal-congruence BFS
// closure and the join-closure that builds the full lattice.
package congruence

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/partition"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Budget bounds the work an algorithm in this package may perform
// before it reports Truncated (spec §5). A zero Budget means
// unbounded.
type Budget struct {
	MaxMerges  int // cap on Cg's pair-merge count
	MaxClosure int // cap on the lattice join-closure's iteration count
}

// Cg computes the smallest congruence of A containing the pair (x,y):
// seed a FIFO workset with (x,y); while a pair remains, merge its
// endpoints into the working partition (skipping pairs already
// related); for every operation of A and every coordinate, substitute
// the merged pair into that coordinate with the remaining coordinates
// ranging over the whole carrier, and if the two results are not yet
// related, enqueue that pair. Operations and coordinates are scanned
// in the algebra's declared order (an Open Question in spec §9,
// resolved in DESIGN.md since no reference implementation was
// retrievable).
func Cg(a *algebra.Algebra, x, y int, budget Budget) (partition.Partition, error) {
	n := a.Cardinality()
	if x < 0 || x >= n || y < 0 || y >= n {
		return partition.Partition{}, uaerr.New(uaerr.OutOfRange, "congruence.Cg",
			fmt.Sprintf("pair (%d,%d) out of range [0,%d)", x, y, n)).WithAlgebra(a.Name())
	}
	pt := partition.Identity(n)
	if x == y {
		return pt, nil
	}
	queue := []pair{{x, y}}
	merges := 0
	ops := a.Operations()
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if pt.Related(p.a, p.b) {
			continue
		}
		merged, err := pt.Merge(p.a, p.b)
		if err != nil {
			return partition.Partition{}, err
		}
		pt = merged
		merges++
		if budget.MaxMerges > 0 && merges > budget.MaxMerges {
			return partition.Partition{}, uaerr.New(uaerr.Truncated, "congruence.Cg",
				fmt.Sprintf("exceeded %d merges", budget.MaxMerges)).WithAlgebra(a.Name())
		}
		for _, o := range ops {
			ar := o.Arity()
			if ar == 0 {
				continue
			}
			sizes := make([]int, ar-1)
			for k := range sizes {
				sizes[k] = n
			}
			for i := 0; i < ar; i++ {
				// When ar==1, sizes is empty and the generator
				// degenerates to a single empty tuple, so insertAt
				// below correctly produces [p.a]/[p.b].
				gen := horner.NewTupleGenerator(sizes)
				for gen.Next() {
					other := gen.Tuple()
					argsA := insertAt(other, i, p.a)
					argsB := insertAt(other, i, p.b)
					enqueueIfDistinct(&queue, pt, o, argsA, argsB)
				}
			}
		}
	}
	return pt, nil
}

type pair struct{ a, b int }

type opEvaluator interface {
	ValueAt(args []int) (int, error)
}

func enqueueIfDistinct(queue *[]pair, pt partition.Partition, o opEvaluator, argsA, argsB []int) {
	va, ea := o.ValueAt(argsA)
	vb, eb := o.ValueAt(argsB)
	if ea != nil || eb != nil {
		return
	}
	if va != vb && !pt.Related(va, vb) {
		*queue = append(*queue, pair{va, vb})
	}
}

func insertAt(other []int, i, v int) []int {
	args := make([]int, len(other)+1)
	copy(args, other[:i])
	args[i] = v
	copy(args[i+1:], other[i:])
	return args
}

// Lattice is Con(A): the lattice of congruences of A, ordered by
// refinement, cached as the set of all congruences together with its
// derived join-irreducibles and atoms.
type Lattice struct {
	alg        *algebra.Algebra
	zero, one  partition.Partition
	principals []partition.Partition
	all        []partition.Partition
}

// Build computes Con(A): principal congruences Cg(a,b) for all a<b,
// then their closure under pairwise join. An algebra with n=0 yields
// the one-element lattice {0=1} per spec §4.7.
func Build(a *algebra.Algebra, budget Budget) (*Lattice, error) {
	n := a.Cardinality()
	zero := partition.Identity(n)
	one := partition.One(n)
	if n <= 1 {
		return &Lattice{alg: a, zero: zero, one: one, principals: nil, all: []partition.Partition{zero}}, nil
	}
	var principals []partition.Partition
	seen := func(p partition.Partition, list []partition.Partition) bool {
		for _, q := range list {
			if p.Equal(q) {
				return true
			}
		}
		return false
	}
	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			cg, err := Cg(a, x, y, Budget{MaxMerges: budget.MaxMerges})
			if err != nil {
				return nil, err
			}
			if !seen(cg, principals) {
				principals = append(principals, cg)
			}
		}
	}
	all := []partition.Partition{zero}
	for _, p := range principals {
		if !seen(p, all) {
			all = append(all, p)
		}
	}
	// Close under pairwise join via FIFO worklist, mirroring
	// gonum/graph/topo's worklist traversal discipline.
	queue := append([]partition.Partition(nil), all...)
	iterations := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, q := range all {
			j, err := partition.Join(p, q)
			if err != nil {
				return nil, err
			}
			iterations++
			if budget.MaxClosure > 0 && iterations > budget.MaxClosure {
				return nil, uaerr.New(uaerr.Truncated, "congruence.Build",
					fmt.Sprintf("exceeded %d closure iterations", budget.MaxClosure)).WithAlgebra(a.Name())
			}
			if !seen(j, all) {
				all = append(all, j)
				queue = append(queue, j)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return lessPartition(all[i], all[j]) })
	return &Lattice{alg: a, zero: zero, one: one, principals: principals, all: all}, nil
}

// lessPartition orders partitions by number of blocks descending (zero
// first, one last), then by raw array for a deterministic tie-break.
func lessPartition(a, b partition.Partition) bool {
	if a.NumberOfBlocks() != b.NumberOfBlocks() {
		return a.NumberOfBlocks() > b.NumberOfBlocks()
	}
	ra, rb := a.RawArray(), b.RawArray()
	for i := range ra {
		if ra[i] != rb[i] {
			return ra[i] < rb[i]
		}
	}
	return false
}

// Zero returns the identity partition (the bottom of Con(A)).
func (l *Lattice) Zero() partition.Partition { return l.zero }

// One returns the all-in-one-block partition (the top of Con(A)).
func (l *Lattice) One() partition.Partition { return l.one }

// Cardinality returns |Con(A)|.
func (l *Lattice) Cardinality() int { return len(l.all) }

// Principals returns the de-duplicated list of principal congruences
// Cg(a,b) over all pairs a<b.
func (l *Lattice) Principals() []partition.Partition { return l.principals }

// AllCongruences returns every element of Con(A), in the lattice's
// internal deterministic order (by block count, then raw array).
func (l *Lattice) AllCongruences() []partition.Partition { return l.all }

// Atoms returns the minimal non-zero elements of Con(A).
func (l *Lattice) Atoms() []partition.Partition {
	var atoms []partition.Partition
	for _, p := range l.all {
		if p.Equal(l.zero) {
			continue
		}
		minimal := true
		for _, q := range l.all {
			if q.Equal(l.zero) || q.Equal(p) {
				continue
			}
			leq, _ := partition.Leq(q, p)
			if leq {
				minimal = false
				break
			}
		}
		if minimal {
			atoms = append(atoms, p)
		}
	}
	return atoms
}

// JoinIrreducibles returns the elements of Con(A) not equal to the
// join of strictly smaller elements.
func (l *Lattice) JoinIrreducibles() []partition.Partition {
	var jis []partition.Partition
	for _, p := range l.all {
		if isJoinIrreducible(p, l.all) {
			jis = append(jis, p)
		}
	}
	return jis
}

func isJoinIrreducible(p partition.Partition, all []partition.Partition) bool {
	var below []partition.Partition
	for _, q := range all {
		if q.Equal(p) {
			continue
		}
		leq, _ := partition.Leq(q, p)
		if leq {
			below = append(below, q)
		}
	}
	if len(below) == 0 {
		return true
	}
	acc := below[0]
	for _, q := range below[1:] {
		acc, _ = partition.Join(acc, q)
	}
	return !acc.Equal(p)
}

// IsDistributive reports whether Con(A) satisfies the distributive
// law on every triple of elements.
func (l *Lattice) IsDistributive() (bool, error) {
	for _, x := range l.all {
		for _, y := range l.all {
			for _, z := range l.all {
				yz, err := partition.Join(y, z)
				if err != nil {
					return false, err
				}
				lhs, err := partition.Meet(x, yz)
				if err != nil {
					return false, err
				}
				xy, err := partition.Meet(x, y)
				if err != nil {
					return false, err
				}
				xz, err := partition.Meet(x, z)
				if err != nil {
					return false, err
				}
				rhs, err := partition.Join(xy, xz)
				if err != nil {
					return false, err
				}
				if !lhs.Equal(rhs) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// IsModular reports whether Con(A) satisfies the modular law on every
// triple x<=z.
func (l *Lattice) IsModular() (bool, error) {
	for _, x := range l.all {
		for _, z := range l.all {
			leq, err := partition.Leq(x, z)
			if err != nil {
				return false, err
			}
			if !leq {
				continue
			}
			for _, y := range l.all {
				yz, err := partition.Meet(y, z)
				if err != nil {
					return false, err
				}
				lhs, err := partition.Join(x, yz)
				if err != nil {
					return false, err
				}
				xy, err := partition.Join(x, y)
				if err != nil {
					return false, err
				}
				rhs, err := partition.Meet(xy, z)
				if err != nil {
					return false, err
				}
				if !lhs.Equal(rhs) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// Install wires a just-built Lattice into a's lazy Con cache, so that
// a.Con() returns this package's Lattice as an algebra.Lattice.
func Install(a *algebra.Algebra, budget Budget) {
	a.SetConBuilder(func(a *algebra.Algebra) (algebra.Lattice, error) {
		return Build(a, budget)
	})
}
