package typefind_test

import (
	"testing"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/partition"
	"github.com/jamiewannenburg/uacalcsrc-sub007/typefind"
)

func semilattice2(t *testing.T) *algebra.Algebra {
	t.Helper()
	sym, _ := op.NewSymbol("meet", 2)
	o, err := op.NewTableOperation(sym, 2, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("S2", 2, []*op.Operation{o})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func boolLattice2(t *testing.T) *algebra.Algebra {
	t.Helper()
	meetSym, _ := op.NewSymbol("meet", 2)
	joinSym, _ := op.NewSymbol("join", 2)
	meet, err := op.NewTableOperation(meetSym, 2, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	join, err := op.NewTableOperation(joinSym, 2, []int{0, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("B2", 2, []*op.Operation{meet, join})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// discriminator2 is the ternary discriminator d(x,y,z) = z if x=y, else
// x, on a 2-element carrier.
func discriminator2(t *testing.T) *algebra.Algebra {
	t.Helper()
	sym, _ := op.NewSymbol("d", 3)
	// Horner order over (x,y,z), base 2: index = x*4+y*2+z.
	table := []int{0, 1, 0, 0, 1, 1, 0, 1}
	o, err := op.NewTableOperation(sym, 2, table)
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("D2", 2, []*op.Operation{o})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// cycle3 is a single 3-cycle unary operation, the standard type-1
// (unary) example: its only nontrivial polynomials are themselves
// unary, so no idempotent binary or minority ternary polynomial exists.
func cycle3(t *testing.T) *algebra.Algebra {
	t.Helper()
	sym, _ := op.NewSymbol("s", 1)
	o, err := op.NewTableOperation(sym, 3, []int{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("C3", 3, []*op.Operation{o})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// cyclicGroup3 is Z/3Z under addition mod 3, the standard type-2
// (affine) example: its term operations are all affine over the
// group, so the minority-term search in polynomial.go's classify
// should find no majority/boolean witness and fall through to affine.
func cyclicGroup3(t *testing.T) *algebra.Algebra {
	t.Helper()
	sym, _ := op.NewSymbol("+", 2)
	o, err := op.NewTableOperation(sym, 3, []int{0, 1, 2, 1, 2, 0, 2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("Z3", 3, []*op.Operation{o})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCyclicGroupTypeAffine(t *testing.T) {
	a := cyclicGroup3(t)
	alpha, beta := partition.Identity(3), partition.One(3)
	typ, err := typefind.FindType(a, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if typ != typefind.TypeAffine {
		t.Fatalf("FindType(Z3) = %d, want %d (affine)", typ, typefind.TypeAffine)
	}
}

func TestBooleanLatticeType4(t *testing.T) {
	a := boolLattice2(t)
	alpha, beta := partition.Identity(2), partition.One(2)
	typ, err := typefind.FindType(a, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if typ != typefind.TypeLattice {
		t.Fatalf("FindType(B2) = %d, want %d (lattice)", typ, typefind.TypeLattice)
	}
}

func TestSemilatticeType5(t *testing.T) {
	a := semilattice2(t)
	alpha, beta := partition.Identity(2), partition.One(2)
	typ, err := typefind.FindType(a, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if typ != typefind.TypeSemilattice {
		t.Fatalf("FindType(S2) = %d, want %d (semilattice)", typ, typefind.TypeSemilattice)
	}
}

func TestDiscriminatorType3(t *testing.T) {
	a := discriminator2(t)
	alpha, beta := partition.Identity(2), partition.One(2)
	st, cd, err := typefind.FindSubtrace(a, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if st.Type != typefind.TypeBoolean {
		t.Fatalf("FindType(D2) = %d, want %d (boolean)", st.Type, typefind.TypeBoolean)
	}
	if len(cd.MinimalSet) != 2 {
		t.Fatalf("minimal set size = %d, want 2", len(cd.MinimalSet))
	}
}

func TestUnaryCycleType1(t *testing.T) {
	a := cycle3(t)
	alpha, beta := partition.Identity(3), partition.One(3)
	typ, err := typefind.FindType(a, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if typ != typefind.TypeUnary {
		t.Fatalf("FindType(C3) = %d, want %d (unary)", typ, typefind.TypeUnary)
	}
}

func TestIsSubtraceAgreesWithFindSubtrace(t *testing.T) {
	a := boolLattice2(t)
	alpha, beta := partition.Identity(2), partition.One(2)
	ok, err := typefind.IsSubtrace(a, 0, 1, alpha, beta, typefind.Budget{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("IsSubtrace(0,1) = false, want true for the whole 2-element minimal set")
	}
}

func TestFindSubtraceRejectsNonCover(t *testing.T) {
	a := semilattice2(t)
	// alpha == beta: no block of beta splits across alpha, so there is
	// no prime quotient here.
	alpha := partition.Identity(2)
	if _, _, err := typefind.FindSubtrace(a, alpha, alpha, typefind.Budget{}); err == nil {
		t.Fatal("expected an error when alpha does not properly underlie beta")
	}
}
