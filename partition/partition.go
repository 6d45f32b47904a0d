// Package partition implements partitions of {0,...,n-1} (spec C6):
// congruences and subuniverse-closure worksets are both built on this
// representation.
//
// Grounded directly on gonum's set.DisjointSet / set.DisjointSetNode
// (rank-based union, path-compressed find), generalized from a
// map[interface{}]*Node over arbitrary keys to a dense []int32
// size/parent array indexed by carrier element, which is what lets two
// partitions compare equal in O(1) once normalized, as spec C6
// requires.
package partition

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Partition is a normalized partition of {0,...,n-1}. The internal
// array p has length n; for each index i, either p[i] = -size of i's
// block when i is the block's root (its smallest element), or
// p[i] = root index otherwise. This mirrors spec C6's canonical
// representation exactly, which is what gives partitions O(1)
// equality.
type Partition struct {
	n int
	p []int32
}

// Identity returns the partition of {0,...,n-1} into n singleton
// blocks (Con(A)'s zero element).
func Identity(n int) Partition {
	p := make([]int32, n)
	for i := range p {
		p[i] = -1
	}
	return Partition{n: n, p: p}
}

// One returns the partition of {0,...,n-1} into a single block
// (Con(A)'s one element).
func One(n int) Partition {
	if n == 0 {
		return Partition{n: 0, p: nil}
	}
	p := make([]int32, n)
	p[0] = int32(-n)
	for i := 1; i < n; i++ {
		p[i] = 0
	}
	return Partition{n: n, p: p}
}

// FromBlocks builds a Partition from an explicit list of blocks. Every
// element of {0,...,n-1} must appear in exactly one block.
func FromBlocks(n int, blocks [][]int) (Partition, error) {
	seen := make([]bool, n)
	pt := Identity(n)
	for _, block := range blocks {
		if len(block) == 0 {
			continue
		}
		for _, e := range block {
			if e < 0 || e >= n {
				return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromBlocks",
					fmt.Sprintf("element %d out of range [0,%d)", e, n))
			}
			if seen[e] {
				return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromBlocks",
					fmt.Sprintf("element %d appears in more than one block", e))
			}
			seen[e] = true
		}
		for _, e := range block[1:] {
			pt.union(block[0], e)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromBlocks",
				fmt.Sprintf("element %d missing from blocks", i))
		}
	}
	pt.normalize()
	return pt, nil
}

// FromRawArray validates and normalizes a raw array in the spec C6
// format (p[i] = -blockSize at the root, or the root index otherwise).
func FromRawArray(raw []int32) (Partition, error) {
	n := len(raw)
	p := append([]int32(nil), raw...)
	// Validate every index reaches a root, and roots are consistent.
	for i := 0; i < n; i++ {
		seen := map[int]bool{}
		j := i
		for p[j] >= 0 {
			if seen[j] {
				return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromRawArray",
					fmt.Sprintf("cycle detected reaching root from %d", i))
			}
			seen[j] = true
			j = int(p[j])
			if j < 0 || j >= n {
				return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromRawArray",
					fmt.Sprintf("index %d points outside carrier", i))
			}
		}
	}
	pt := Partition{n: n, p: p}
	pt.normalize()
	// Verify sum of block sizes equals n.
	total := 0
	for _, b := range pt.Blocks() {
		total += len(b)
	}
	if total != n {
		return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.FromRawArray",
			fmt.Sprintf("block sizes sum to %d, want %d", total, n))
	}
	return pt, nil
}

// Size returns n, the carrier size this partition is defined over.
func (pt Partition) Size() int { return pt.n }

// find returns the root of i's block, applying path compression. It
// must only be called on a Partition before it is treated as
// immutable input by callers outside this package; Join/Meet build
// fresh Partitions rather than mutating existing ones.
func (pt Partition) find(i int) int {
	for pt.p[i] >= 0 {
		if pt.p[pt.p[i]] >= 0 {
			pt.p[i] = pt.p[pt.p[i]]
		}
		i = int(pt.p[i])
	}
	return i
}

// union merges the blocks containing a and b by block size (the
// larger block's root becomes the new root), in the shape of gonum's
// set.DisjointSet.Union.
func (pt Partition) union(a, b int) {
	ra, rb := pt.find(a), pt.find(b)
	if ra == rb {
		return
	}
	sizeA, sizeB := -pt.p[ra], -pt.p[rb]
	if sizeA < sizeB {
		ra, rb = rb, ra
		sizeA, sizeB = sizeB, sizeA
	}
	pt.p[ra] = -(sizeA + sizeB)
	pt.p[rb] = int32(ra)
}

// normalize canonicalizes pt in place: the root of each block becomes
// its smallest element.
func (pt *Partition) normalize() {
	n := pt.n
	if n == 0 {
		return
	}
	roots := make([]int, n)
	for i := 0; i < n; i++ {
		roots[i] = pt.find(i)
	}
	// For each current root, find the minimum element in its block.
	minOf := make(map[int]int, n)
	sizeOf := make(map[int]int, n)
	for i := 0; i < n; i++ {
		r := roots[i]
		sizeOf[r]++
		if m, ok := minOf[r]; !ok || i < m {
			minOf[r] = i
		}
	}
	np := make([]int32, n)
	for i := 0; i < n; i++ {
		newRoot := minOf[roots[i]]
		if i == newRoot {
			np[i] = int32(-sizeOf[roots[i]])
		} else {
			np[i] = int32(newRoot)
		}
	}
	pt.p = np
}

// Blocks returns the partition's blocks, each sorted ascending, the
// list itself ordered by each block's smallest element.
func (pt Partition) Blocks() [][]int {
	if pt.n == 0 {
		return nil
	}
	byRoot := make(map[int][]int)
	var roots []int
	for i := 0; i < pt.n; i++ {
		r := pt.find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	sort.Ints(roots)
	blocks := make([][]int, len(roots))
	for k, r := range roots {
		blocks[k] = byRoot[r]
	}
	return blocks
}

// NumberOfBlocks returns the number of blocks in pt.
func (pt Partition) NumberOfBlocks() int {
	if pt.n == 0 {
		return 0
	}
	count := 0
	for i := 0; i < pt.n; i++ {
		if pt.p[i] < 0 {
			count++
		}
	}
	return count
}

// Related reports whether a and b are in the same block.
func (pt Partition) Related(a, b int) bool {
	return pt.find(a) == pt.find(b)
}

// RawArray returns the normalized raw array backing pt. The returned
// slice must not be mutated.
func (pt Partition) RawArray() []int32 { return pt.p }

// Equal reports whether pt and o are the same partition: their
// normalized raw arrays compare byte-for-byte equal, giving O(1)
// equality as spec C6 requires.
func (pt Partition) Equal(o Partition) bool {
	if pt.n != o.n {
		return false
	}
	for i := range pt.p {
		if pt.p[i] != o.p[i] {
			return false
		}
	}
	return true
}

// clone returns a deep copy of pt, usable as mutable working state for
// Join/Meet.
func (pt Partition) clone() Partition {
	return Partition{n: pt.n, p: append([]int32(nil), pt.p...)}
}

// Merge returns the partition obtained from pt by placing a and b in
// the same block (transitively merging the blocks that contain them).
// It is equivalent to, but cheaper than, Join(pt, the partition
// relating only a and b).
func (pt Partition) Merge(a, b int) (Partition, error) {
	if a < 0 || a >= pt.n || b < 0 || b >= pt.n {
		return Partition{}, uaerr.New(uaerr.OutOfRange, "Partition.Merge",
			fmt.Sprintf("elements %d,%d out of range [0,%d)", a, b, pt.n))
	}
	cp := pt.clone()
	cp.union(a, b)
	cp.normalize()
	return cp, nil
}

// Join computes the least upper bound of pt and o in the partition
// lattice via union-find over the disjoint union of both blocksets.
func Join(pt, o Partition) (Partition, error) {
	if pt.n != o.n {
		return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.Join",
			fmt.Sprintf("size mismatch %d vs %d", pt.n, o.n))
	}
	result := Identity(pt.n)
	for _, b := range pt.Blocks() {
		for _, e := range b[1:] {
			result.union(b[0], e)
		}
	}
	for _, b := range o.Blocks() {
		for _, e := range b[1:] {
			result.union(b[0], e)
		}
	}
	result.normalize()
	return result, nil
}

// Meet computes the greatest lower bound of pt and o: two elements are
// equivalent in the meet iff they are equivalent in both pt and o.
func Meet(pt, o Partition) (Partition, error) {
	if pt.n != o.n {
		return Partition{}, uaerr.New(uaerr.InvariantViolation, "partition.Meet",
			fmt.Sprintf("size mismatch %d vs %d", pt.n, o.n))
	}
	n := pt.n
	// Pair-key each element by (pt-root, o-root) and union elements
	// sharing a pair-key.
	type key struct{ a, b int }
	groups := make(map[key]int, n)
	result := Identity(n)
	for i := 0; i < n; i++ {
		k := key{pt.find(i), o.find(i)}
		if first, ok := groups[k]; ok {
			result.union(first, i)
		} else {
			groups[k] = i
		}
	}
	result.normalize()
	return result, nil
}

// Leq reports whether pt refines o: every block of pt is a subset of
// some block of o.
func Leq(pt, o Partition) (bool, error) {
	if pt.n != o.n {
		return false, uaerr.New(uaerr.InvariantViolation, "partition.Leq",
			fmt.Sprintf("size mismatch %d vs %d", pt.n, o.n))
	}
	seen := make(map[int]int, pt.n) // pt-root -> o-root
	for i := 0; i < pt.n; i++ {
		ptRoot := pt.find(i)
		oRoot := o.find(i)
		if want, ok := seen[ptRoot]; ok {
			if want != oRoot {
				return false, nil
			}
		} else {
			seen[ptRoot] = oRoot
		}
	}
	return true, nil
}

func (pt Partition) String() string {
	return fmt.Sprintf("%v", pt.Blocks())
}
