package op_test

import (
	"testing"

	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
)

func TestCyclic3Commutative(t *testing.T) {
	// S1: cyclic group of order 3, table in Horner row-major order.
	sym, _ := op.NewSymbol("+", 2)
	o, err := op.NewTableOperation(sym, 3, []int{0, 1, 2, 1, 2, 0, 2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	comm, err := o.IsCommutative()
	if err != nil || !comm {
		t.Fatalf("cyclic-3 + should be commutative, got %v err %v", comm, err)
	}
	assoc, err := o.IsAssociative()
	if err != nil || !assoc {
		t.Fatalf("cyclic-3 + should be associative, got %v err %v", assoc, err)
	}
	idem, _ := o.IsIdempotent()
	if idem {
		t.Fatal("cyclic-3 + should not be idempotent")
	}
}

func TestBooleanLatticeMeetJoin(t *testing.T) {
	meetSym, _ := op.NewSymbol("meet", 2)
	meet, err := op.NewTableOperation(meetSym, 2, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	idem, err := meet.IsIdempotent()
	if err != nil || !idem {
		t.Fatalf("meet should be idempotent: %v %v", idem, err)
	}
	comm, _ := meet.IsCommutative()
	if !comm {
		t.Fatal("meet should be commutative")
	}
}

func TestDiscriminatorIsMaltsev(t *testing.T) {
	// S3: two-element discriminator d(x,y,z) = z if x=y else x.
	sym, _ := op.NewSymbol("d", 3)
	table := make([]int, 8)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				idx := x*4 + y*2 + z
				if x == y {
					table[idx] = z
				} else {
					table[idx] = x
				}
			}
		}
	}
	d, err := op.NewTableOperation(sym, 2, table)
	if err != nil {
		t.Fatal(err)
	}
	maltsev, err := d.IsMaltsev()
	if err != nil || !maltsev {
		t.Fatalf("discriminator should be Maltsev: %v %v", maltsev, err)
	}
}

func TestTableOperationUndefinedArity(t *testing.T) {
	sym, _ := op.NewSymbol("f", 2)
	if _, err := op.NewTableOperation(sym, 3, []int{0, 1}); err == nil {
		t.Fatal("expected InvariantViolation for wrong table length")
	}
}

func TestValueAtOutOfRange(t *testing.T) {
	sym, _ := op.NewSymbol("+", 2)
	o, _ := op.NewTableOperation(sym, 3, []int{0, 1, 2, 1, 2, 0, 2, 0, 1})
	if _, err := o.ValueAt([]int{0, 5}); err == nil {
		t.Fatal("expected OutOfRange error")
	}
}

func TestFunctionOperationPartial(t *testing.T) {
	sym, _ := op.NewSymbol("half", 1)
	o := op.NewFunctionOperation(sym, 4, func(args []int) (int, bool) {
		if args[0]%2 != 0 {
			return 0, false
		}
		return args[0] / 2, true
	})
	v, err := o.ValueAt([]int{2})
	if err != nil || v != 1 {
		t.Fatalf("half(2) = %d, %v", v, err)
	}
	if _, err := o.ValueAt([]int{3}); err == nil {
		t.Fatal("expected Undefined for odd input")
	}
	total, err := o.IsTotal()
	if err != nil || total {
		t.Fatalf("half should be partial: %v %v", total, err)
	}
}

func TestMakeTableThenLookup(t *testing.T) {
	sym, _ := op.NewSymbol("sq", 1)
	o := op.NewFunctionOperation(sym, 4, func(args []int) (int, bool) {
		return (args[0] * args[0]) % 4, true
	})
	if err := o.MakeTable(); err != nil {
		t.Fatal(err)
	}
	if !o.IsTableBacked() {
		t.Fatal("expected table-backed after MakeTable")
	}
	v, err := o.ValueAt([]int{3})
	if err != nil || v != 1 {
		t.Fatalf("sq(3) = %d, %v", v, err)
	}
}

func TestSymbolOrdering(t *testing.T) {
	a, _ := op.NewSymbol("a", 1)
	b, _ := op.NewSymbol("b", 2)
	if op.Compare(a, b) <= 0 {
		t.Fatal("higher arity symbol should sort first")
	}
	c, _ := op.NewSymbol("c", 1)
	if op.Compare(a, c) >= 0 {
		t.Fatal("same arity should order by name")
	}
}

func TestTypeRejectsDuplicate(t *testing.T) {
	a, _ := op.NewSymbol("f", 1)
	b, _ := op.NewSymbol("f", 1)
	if _, err := op.NewType(a, b); err == nil {
		t.Fatal("expected InvariantViolation for duplicate symbol")
	}
}

func TestAssociativeOnlyOnBinary(t *testing.T) {
	s, _ := op.NewSymbol("f", 3)
	if _, err := s.WithAssociative(true); err == nil {
		t.Fatal("expected error setting associative on non-binary symbol")
	}
}
