package horner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
)

func TestEncodeDecodeS4(t *testing.T) {
	// S4: encode([1,2,3], [4,5,6]) = (1*5+2)*6 + 3 = 45.
	k, err := horner.Encode([]int{1, 2, 3}, []int{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if k != 45 {
		t.Fatalf("encode = %d, want 45", k)
	}
	args, err := horner.Decode(45, []int{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, args); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripExhaustive(t *testing.T) {
	sizes := []int{2, 3, 4, 2}
	total := 1
	for _, s := range sizes {
		total *= s
	}
	for k := 0; k < total; k++ {
		args, err := horner.Decode(k, sizes)
		if err != nil {
			t.Fatal(err)
		}
		got, err := horner.Encode(args, sizes)
		if err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Fatalf("encode(decode(%d)) = %d", k, got)
		}
	}
	gen := horner.NewTupleGenerator(sizes)
	count := 0
	for gen.Next() {
		tup := append([]int(nil), gen.Tuple()...)
		k, err := horner.Encode(tup, sizes)
		if err != nil {
			t.Fatal(err)
		}
		if k != gen.Index() {
			t.Fatalf("tuple %v at index %d encodes to %d", tup, gen.Index(), k)
		}
		count++
	}
	if count != total {
		t.Fatalf("generator produced %d tuples, want %d", count, total)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	if _, err := horner.Decode(100, []int{4, 5, 6}); err == nil {
		t.Fatal("expected OutOfRange error")
	}
}

func TestLeftRightReverse(t *testing.T) {
	// Binary op on {0,1,2}: table[i*3+j] = i (projection on first arg).
	table := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
	rev, err := horner.LeftRightReverse(table, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	// reversed table should be projection on second arg: table'[i*3+j] = j
	want := []int{0, 1, 2, 0, 1, 2, 0, 1, 2}
	if diff := cmp.Diff(want, rev); diff != "" {
		t.Fatalf("LeftRightReverse mismatch (-want +got):\n%s", diff)
	}
}

func TestReverse(t *testing.T) {
	got := horner.Reverse([]int{1, 2, 3})
	if diff := cmp.Diff([]int{3, 2, 1}, got); diff != "" {
		t.Fatalf("Reverse mismatch (-want +got):\n%s", diff)
	}
}
