package partition_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jamiewannenburg/uacalcsrc-sub007/partition"
)

func TestIdentityAndOne(t *testing.T) {
	id := partition.Identity(4)
	if id.NumberOfBlocks() != 4 {
		t.Fatalf("identity blocks = %d, want 4", id.NumberOfBlocks())
	}
	one := partition.One(4)
	if one.NumberOfBlocks() != 1 {
		t.Fatalf("one blocks = %d, want 1", one.NumberOfBlocks())
	}
}

func TestJoinMeetS5(t *testing.T) {
	// S5: n=4, pi={{0,1},{2},{3}}, sigma={{0},{1,2},{3}}
	pi, err := partition.FromBlocks(4, [][]int{{0, 1}, {2}, {3}})
	if err != nil {
		t.Fatal(err)
	}
	sigma, err := partition.FromBlocks(4, [][]int{{0}, {1, 2}, {3}})
	if err != nil {
		t.Fatal(err)
	}
	join, err := partition.Join(pi, sigma)
	if err != nil {
		t.Fatal(err)
	}
	wantJoin, _ := partition.FromBlocks(4, [][]int{{0, 1, 2}, {3}})
	if !join.Equal(wantJoin) {
		t.Fatalf("join = %v, want %v", join, wantJoin)
	}
	meet, err := partition.Meet(pi, sigma)
	if err != nil {
		t.Fatal(err)
	}
	wantMeet := partition.Identity(4)
	if !meet.Equal(wantMeet) {
		t.Fatalf("meet = %v, want %v", meet, wantMeet)
	}
}

func TestLeq(t *testing.T) {
	pi, _ := partition.FromBlocks(4, [][]int{{0, 1}, {2}, {3}})
	join, _ := partition.Join(pi, pi)
	leq, err := partition.Leq(pi, join)
	if err != nil || !leq {
		t.Fatalf("pi should be <= join(pi,pi): %v %v", leq, err)
	}
	id := partition.Identity(4)
	leq2, _ := partition.Leq(id, pi)
	if !leq2 {
		t.Fatal("identity should be <= every partition")
	}
	one := partition.One(4)
	leq3, _ := partition.Leq(pi, one)
	if !leq3 {
		t.Fatal("every partition should be <= one")
	}
}

func TestLatticeLaws(t *testing.T) {
	n := 4
	a, _ := partition.FromBlocks(n, [][]int{{0, 1}, {2}, {3}})
	b, _ := partition.FromBlocks(n, [][]int{{0}, {1, 2}, {3}})
	c, _ := partition.FromBlocks(n, [][]int{{0}, {1}, {2, 3}})

	ab, _ := partition.Join(a, b)
	ba, _ := partition.Join(b, a)
	if !ab.Equal(ba) {
		t.Fatal("join not commutative")
	}

	abC1, _ := partition.Join(ab, c)
	bc, _ := partition.Join(b, c)
	aBC, _ := partition.Join(a, bc)
	if !abC1.Equal(aBC) {
		t.Fatal("join not associative")
	}

	mAB, _ := partition.Meet(a, b)
	absorbed, _ := partition.Join(mAB, a)
	if !absorbed.Equal(a) {
		t.Fatal("absorption law join(meet(a,b),a) != a failed")
	}

	leqJoin, _ := partition.Leq(a, ab)
	if !leqJoin {
		t.Fatal("a should be <= join(a,b)")
	}
	leqMeet, _ := partition.Leq(mAB, a)
	if !leqMeet {
		t.Fatal("meet(a,b) should be <= a")
	}
}

func TestFromRawArrayNormalizeIdempotent(t *testing.T) {
	pt, err := partition.FromBlocks(5, [][]int{{2, 0}, {1}, {4, 3}})
	if err != nil {
		t.Fatal(err)
	}
	pt2, err := partition.FromRawArray(pt.RawArray())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pt.RawArray(), pt2.RawArray()); diff != "" {
		t.Fatalf("normalize not idempotent (-got +want):\n%s", diff)
	}
}

func TestFromBlocksRejectsMissingElement(t *testing.T) {
	if _, err := partition.FromBlocks(3, [][]int{{0, 1}}); err == nil {
		t.Fatal("expected error for missing element 2")
	}
}

func TestFromBlocksRejectsDuplicate(t *testing.T) {
	if _, err := partition.FromBlocks(3, [][]int{{0, 1}, {1, 2}}); err == nil {
		t.Fatal("expected error for element in two blocks")
	}
}

func TestBlocksOrderedBySmallestElement(t *testing.T) {
	pt, _ := partition.FromBlocks(5, [][]int{{4, 2}, {0}, {3, 1}})
	blocks := pt.Blocks()
	want := [][]int{{0}, {1, 3}, {2, 4}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}
