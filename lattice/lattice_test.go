package lattice_test

import (
	"sort"
	"testing"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/lattice"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/subalgebra"
)

func boolLattice2(t *testing.T) *algebra.Algebra {
	t.Helper()
	meetSym, _ := op.NewSymbol("meet", 2)
	joinSym, _ := op.NewSymbol("join", 2)
	meet, _ := op.NewTableOperation(meetSym, 2, []int{0, 0, 0, 1})
	join, _ := op.NewTableOperation(joinSym, 2, []int{0, 1, 1, 1})
	a, err := algebra.New("B2", 2, []*op.Operation{meet, join})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// Sub(B2) forms the diamond {}, {0}, {1}, {0,1}: two incomparable
// atoms that are also coatoms.
func TestSubLatticeDiamondCovers(t *testing.T) {
	a := boolLattice2(t)
	sl, err := subalgebra.Build(a, subalgebra.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	all := sl.AllSubuniverses()
	n := len(all)
	g, err := lattice.Build(n, func(i, j int) bool { return all[i].Leq(all[j]) })
	if err != nil {
		t.Fatal(err)
	}
	if g.Cardinality() != n {
		t.Fatalf("Cardinality() = %d, want %d", g.Cardinality(), n)
	}
	if !g.IsAcyclic() {
		t.Fatal("cover graph of a genuine partial order must be acyclic")
	}

	bottomIdx, topIdx := -1, -1
	for i, su := range all {
		if len(su) == 0 {
			bottomIdx = i
		}
		if len(su) == 2 {
			topIdx = i
		}
	}
	if bottomIdx < 0 || topIdx < 0 {
		t.Fatalf("expected a bottom and a top among %v", all)
	}

	atoms := g.AtomsOf(bottomIdx)
	coatoms := g.Coatoms(topIdx)
	if len(atoms) != 2 {
		t.Fatalf("len(atoms) = %d, want 2", len(atoms))
	}
	if len(coatoms) != 2 {
		t.Fatalf("len(coatoms) = %d, want 2", len(coatoms))
	}
	sort.Ints(atoms)
	sort.Ints(coatoms)
	if atoms[0] != coatoms[0] || atoms[1] != coatoms[1] {
		t.Fatalf("atoms %v and coatoms %v should coincide in the diamond", atoms, coatoms)
	}

	chains := g.MaximalChains(bottomIdx, topIdx)
	if len(chains) != 2 {
		t.Fatalf("len(MaximalChains) = %d, want 2", len(chains))
	}
	for _, c := range chains {
		if len(c) != 3 {
			t.Fatalf("chain %v should have length 3 (bottom, atom, top)", c)
		}
	}
}

func TestTotalOrderHasOneMaximalChain(t *testing.T) {
	// A 4-element total order 0<1<2<3 has exactly one maximal chain.
	g, err := lattice.Build(4, func(i, j int) bool { return i <= j })
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsAcyclic() {
		t.Fatal("total order's cover graph must be acyclic")
	}
	chains := g.MaximalChains(0, 3)
	if len(chains) != 1 {
		t.Fatalf("len(MaximalChains) = %d, want 1", len(chains))
	}
	want := []int{0, 1, 2, 3}
	for i, v := range chains[0] {
		if v != want[i] {
			t.Fatalf("chain = %v, want %v", chains[0], want)
		}
	}
}
