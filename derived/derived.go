// Package derived builds algebras from other algebras (spec C9):
// quotient A/theta, direct product A x B, power A^k, the subalgebra
// generated by a subuniverse, and reducts. Each derivation exposes the
// same *algebra.Algebra contract its parent does, so Con/Sub/term
// evaluation all work unchanged on the result.
//
// Grounded on algebra+op composition directly, in the spirit of
// graph/simple/weighted_directed.go's pattern of a derived structure
// that borrows its parent's node/edge storage by reference rather than
// copying it: every operation built here closes over its parent's
// *op.Operation values and calls through to them, never duplicating a
// table.
package derived

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/partition"
	"github.com/jamiewannenburg/uacalcsrc-sub007/subalgebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Quotient builds A/theta: the carrier is theta's blocks, canonicalized
// by each block's minimum element; every operation acts on
// representatives, which is well-defined because theta is assumed to
// be a congruence of a.
func Quotient(a *algebra.Algebra, theta partition.Partition) (*algebra.Algebra, error) {
	if theta.Size() != a.Cardinality() {
		return nil, uaerr.New(uaerr.InvariantViolation, "derived.Quotient",
			fmt.Sprintf("partition size %d != algebra size %d", theta.Size(), a.Cardinality())).WithAlgebra(a.Name())
	}
	blocks := theta.Blocks()
	numBlocks := len(blocks)
	elemToBlock := make([]int, a.Cardinality())
	for bi, block := range blocks {
		for _, e := range block {
			elemToBlock[e] = bi
		}
	}
	rep := make([]int, numBlocks)
	for bi, block := range blocks {
		rep[bi] = block[0]
	}

	newOps := make([]*op.Operation, len(a.Operations()))
	for oi, parentOp := range a.Operations() {
		parentOp := parentOp
		sym := parentOp.Symbol()
		fn := func(args []int) (int, bool) {
			parentArgs := make([]int, len(args))
			for i, blk := range args {
				parentArgs[i] = rep[blk]
			}
			v, err := parentOp.ValueAt(parentArgs)
			if err != nil {
				return 0, false
			}
			return elemToBlock[v], true
		}
		newOps[oi] = op.NewFunctionOperation(sym, numBlocks, fn)
	}
	name := fmt.Sprintf("%s/theta", a.Name())
	return algebra.New(name, numBlocks, newOps)
}

// sameSignature reports whether a and b share the same similarity type
// (spec's SignatureMismatch guard for Product/Reduct-like composition).
func sameSignature(a, b *algebra.Algebra) bool {
	return a.SimilarityType().Equal(b.SimilarityType())
}

// Product builds A x B with carrier size |A|*|B|, element (i,j) indexed
// as i*|B|+j, and every operation applied coordinatewise. A and B must
// share a similarity type.
func Product(a, b *algebra.Algebra) (*algebra.Algebra, error) {
	if !sameSignature(a, b) {
		return nil, uaerr.New(uaerr.SignatureMismatch, "derived.Product",
			fmt.Sprintf("%s and %s have different similarity types", a.Name(), b.Name()))
	}
	na, nb := a.Cardinality(), b.Cardinality()
	n := na * nb
	newOps := make([]*op.Operation, len(a.Operations()))
	for oi := range a.Operations() {
		aOp, bOp := a.Operations()[oi], b.Operations()[oi]
		sym := aOp.Symbol()
		ar := sym.Arity()
		fn := func(args []int) (int, bool) {
			aArgs := make([]int, ar)
			bArgs := make([]int, ar)
			for k, x := range args {
				aArgs[k] = x / nb
				bArgs[k] = x % nb
			}
			av, err := aOp.ValueAt(aArgs)
			if err != nil {
				return 0, false
			}
			bv, err := bOp.ValueAt(bArgs)
			if err != nil {
				return 0, false
			}
			return av*nb + bv, true
		}
		newOps[oi] = op.NewFunctionOperation(sym, n, fn)
	}
	name := fmt.Sprintf("%s x %s", a.Name(), b.Name())
	return algebra.New(name, n, newOps)
}

// Power builds the k-fold product A^k, carrier size n^k, index in
// Horner encoding over k coordinates of size n.
func Power(a *algebra.Algebra, k int) (*algebra.Algebra, error) {
	if k < 0 {
		return nil, uaerr.New(uaerr.InvariantViolation, "derived.Power",
			fmt.Sprintf("negative exponent %d", k))
	}
	n := a.Cardinality()
	size := 1
	for i := 0; i < k; i++ {
		size *= n
	}
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n
	}
	newOps := make([]*op.Operation, len(a.Operations()))
	for oi, parentOp := range a.Operations() {
		parentOp := parentOp
		sym := parentOp.Symbol()
		ar := sym.Arity()
		fn := func(args []int) (int, bool) {
			vecs := make([][]int, ar)
			for i, encoded := range args {
				v, err := horner.Decode(encoded, sizes)
				if err != nil {
					return 0, false
				}
				vecs[i] = v
			}
			result := make([]int, k)
			for c := 0; c < k; c++ {
				coordArgs := make([]int, ar)
				for i := 0; i < ar; i++ {
					coordArgs[i] = vecs[i][c]
				}
				v, err := parentOp.ValueAt(coordArgs)
				if err != nil {
					return 0, false
				}
				result[c] = v
			}
			idx, err := horner.Encode(result, sizes)
			if err != nil {
				return 0, false
			}
			return idx, true
		}
		newOps[oi] = op.NewFunctionOperation(sym, size, fn)
	}
	name := fmt.Sprintf("%s^%d", a.Name(), k)
	return algebra.New(name, size, newOps)
}

// Subalgebra builds the algebra <S>: carrier is a dense reindexing of
// su (su[i] is the parent element at child index i), each operation the
// restriction of the parent's, since su is assumed closed under every
// operation already (e.g. it came from subalgebra.GeneratedSubuniverse).
func Subalgebra(a *algebra.Algebra, su subalgebra.Subuniverse) (*algebra.Algebra, error) {
	childSize := len(su)
	indexOf := make(map[int]int, childSize)
	for ci, pe := range su {
		indexOf[pe] = ci
	}
	newOps := make([]*op.Operation, len(a.Operations()))
	for oi, parentOp := range a.Operations() {
		parentOp := parentOp
		sym := parentOp.Symbol()
		ar := sym.Arity()
		fn := func(args []int) (int, bool) {
			parentArgs := make([]int, ar)
			for i, childIdx := range args {
				parentArgs[i] = su[childIdx]
			}
			v, err := parentOp.ValueAt(parentArgs)
			if err != nil {
				return 0, false
			}
			ci, ok := indexOf[v]
			if !ok {
				return 0, false
			}
			return ci, true
		}
		newOps[oi] = op.NewFunctionOperation(sym, childSize, fn)
	}
	name := fmt.Sprintf("<%v> of %s", []int(su), a.Name())
	return algebra.New(name, childSize, newOps)
}

// Reduct builds the algebra on a's carrier keeping only the operations
// named in keep (matched by (name,arity)).
func Reduct(a *algebra.Algebra, keep []op.Symbol) (*algebra.Algebra, error) {
	var kept []*op.Operation
	for _, sym := range keep {
		o, err := a.Symbol(sym.Name(), sym.Arity())
		if err != nil {
			return nil, uaerr.New(uaerr.InvariantViolation, "derived.Reduct",
				fmt.Sprintf("no operation %s in %s", sym, a.Name())).WithAlgebra(a.Name())
		}
		kept = append(kept, o)
	}
	names := make([]string, len(keep))
	for i, s := range keep {
		names[i] = s.String()
	}
	sort.Strings(names)
	name := fmt.Sprintf("%s|%v", a.Name(), names)
	return algebra.New(name, a.Cardinality(), kept)
}
