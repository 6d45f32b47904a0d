// Package closure implements the term-closure witness search (spec
// C11): given an algebra's operations and a target identity (a Maltsev
// term, a Jonsson sequence, a near-unanimity term), attempt to find
// witness terms by bounded breadth-first enumeration of terms over the
// algebra's own operations, with duplicate-signature normalization,
// verifying each candidate's identity by exhaustive evaluation.
//
// Grounded on typefind's enumerateTerms (itself modeled on
// graph/topo/paton_cycles.go's fixed-point growth of a working set
// under a hard step bound) and on horner.TupleGenerator for the
// exhaustive-assignment verification loop every FindX function ends
// with.
package closure

import (
	"fmt"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/term"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Budget bounds the breadth-first term search: MaxDepth caps
// composition depth, MaxCandidates caps the total number of
// distinct-signature terms ever generated. A search that exhausts the
// budget reports ok=false with a nil error; it does not return
// Truncated.
type Budget struct {
	MaxDepth      int
	MaxCandidates int
}

func (b Budget) depth() int {
	if b.MaxDepth <= 0 {
		return 4
	}
	return b.MaxDepth
}

func (b Budget) candidates() int {
	if b.MaxCandidates <= 0 {
		return 2000
	}
	return b.MaxCandidates
}

// namedVars returns arity fresh variables v1..v{arity} and their
// VarTerm wrappers.
func namedVars(arity int) ([]term.Variable, []term.Term) {
	vars := make([]term.Variable, arity)
	terms := make([]term.Term, arity)
	for i := range vars {
		vars[i] = term.NewVariable(fmt.Sprintf("v%d", i+1))
		terms[i] = term.VarTerm{Var: vars[i]}
	}
	return vars, terms
}

// signature evaluates t on every assignment of vars to A's carrier, in
// Horner order, and returns the resulting value vector as a string key.
// Two terms with identical signatures compute the same operation, so
// deduplicating on signature is the "equational normalization" spec
// §4.11 calls for: it keeps the breadth-first frontier from re-deriving
// operations it has already found.
func signature(t term.Term, a *algebra.Algebra, vars []term.Variable) string {
	n := a.Cardinality()
	sizes := make([]int, len(vars))
	for i := range sizes {
		sizes[i] = n
	}
	gen := horner.NewTupleGenerator(sizes)
	sig := make([]byte, 0, gen.Len()*2)
	for gen.Next() {
		v, err := term.IntValueAt(t, a, vars, gen.Tuple())
		if err != nil {
			sig = append(sig, '?', ',')
			continue
		}
		sig = append(sig, byte('A'+v%26), byte(v/26), ',')
	}
	return string(sig)
}

// enumerateTerms performs the same bounded BFS over terms built from
// a's operations that typefind.enumerateTerms performs, duplicated
// here (rather than exported across packages) because it is the one
// piece of machinery both packages need independently and neither is a
// natural home for the other's exported surface.
func enumerateTerms(a *algebra.Algebra, arity int, budget Budget) []term.Term {
	vars, all := namedVars(arity)
	seen := map[string]bool{}
	dedup := func(ts []term.Term) []term.Term {
		var out []term.Term
		for _, t := range ts {
			sig := signature(t, a, vars)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, t)
		}
		return out
	}
	all = dedup(all)
	frontier := append([]term.Term(nil), all...)
	ops := a.Operations()
	maxCand := budget.candidates()
	for depth := 1; depth <= budget.depth() && len(all) < maxCand; depth++ {
		var next []term.Term
	opLoop:
		for _, o := range ops {
			sym := o.Symbol()
			ar := sym.Arity()
			if ar == 0 {
				t, err := term.NewTerm(sym, nil)
				if err == nil {
					next = append(next, t)
				}
				continue
			}
			if ar > 3 {
				continue
			}
			idx := make([]int, ar)
			for {
				usesFrontier := false
				children := make([]term.Term, ar)
				for i, k := range idx {
					children[i] = all[k]
					if k >= len(all)-len(frontier) {
						usesFrontier = true
					}
				}
				if usesFrontier {
					t, err := term.NewTerm(sym, children)
					if err == nil {
						next = append(next, t)
						if len(all)+len(next) >= maxCand {
							break opLoop
						}
					}
				}
				if !incrementTuple(idx, len(all)) {
					break
				}
			}
		}
		next = dedup(next)
		if len(next) == 0 {
			break
		}
		all = append(all, next...)
		frontier = next
	}
	return all
}

func incrementTuple(idx []int, base int) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < base {
			return true
		}
		idx[i] = 0
	}
	return false
}

func evalAt(t term.Term, a *algebra.Algebra, vars []term.Variable, args []int) (int, bool) {
	v, err := term.IntValueAt(t, a, vars, args)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FindMaltsevTerm searches a's term clone for a Maltsev term: ternary m
// with m(x,x,y)=y and m(y,x,x)=y for all x,y in the carrier. It returns
// the witness term and true on success, or a false ok with a nil error
// if the bounded search exhausted its candidates without finding one
// (absence is not itself an error: many algebras genuinely have no
// Maltsev term).
func FindMaltsevTerm(a *algebra.Algebra, budget Budget) (term.Term, bool, error) {
	vars, _ := namedVars(3)
	n := a.Cardinality()
	for _, t := range enumerateTerms(a, 3, budget) {
		ok := true
		for x := 0; x < n && ok; x++ {
			for y := 0; y < n && ok; y++ {
				v1, ok1 := evalAt(t, a, vars, []int{x, x, y})
				v2, ok2 := evalAt(t, a, vars, []int{y, x, x})
				if !ok1 || !ok2 || v1 != y || v2 != y {
					ok = false
				}
			}
		}
		if ok {
			return t, true, nil
		}
	}
	return nil, false, nil
}

// FindNearUnanimityTerm searches for a near-unanimity term of the given
// arity >= 3: t(y,x,...,x) = t(x,y,x,...,x) = ... = t(x,...,x,y) = x
// for all x,y, i.e. t agrees with majority-of-x whenever at most one
// argument differs from x.
func FindNearUnanimityTerm(a *algebra.Algebra, arity int, budget Budget) (term.Term, bool, error) {
	if arity < 3 {
		return nil, false, uaerr.New(uaerr.InvariantViolation, "closure.FindNearUnanimityTerm",
			fmt.Sprintf("arity %d must be >= 3", arity))
	}
	vars, _ := namedVars(arity)
	n := a.Cardinality()
	for _, t := range enumerateTerms(a, arity, budget) {
		if isNearUnanimity(t, a, vars, n) {
			return t, true, nil
		}
	}
	return nil, false, nil
}

func isNearUnanimity(t term.Term, a *algebra.Algebra, vars []term.Variable, n int) bool {
	arity := len(vars)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if x == y {
				continue
			}
			for pos := 0; pos < arity; pos++ {
				args := make([]int, arity)
				for i := range args {
					args[i] = x
				}
				args[pos] = y
				v, ok := evalAt(t, a, vars, args)
				if !ok || v != x {
					return false
				}
			}
		}
	}
	return true
}

// FindMajorityTerm is FindNearUnanimityTerm specialized to arity 3, the
// classic majority term m(x,x,y)=m(x,y,x)=m(y,x,x)=x.
func FindMajorityTerm(a *algebra.Algebra, budget Budget) (term.Term, bool, error) {
	return FindNearUnanimityTerm(a, 3, budget)
}

// JonssonSequence is a witness sequence d0,...,dn of ternary terms
// satisfying Jonsson's conditions for congruence distributivity:
// d0(x,y,z)=x, dn(x,y,z)=z, di(x,y,x)=x for every i, and alternately
// di(x,x,y)=d(i+1)(x,x,y) (i even) or di(x,y,y)=d(i+1)(x,y,y) (i odd).
type JonssonSequence []term.Term

// FindJonssonTerms searches for a Jonsson sequence of length at most
// maxLength (d0..d_{maxLength}) witnessing that A's variety is
// congruence-distributive. The search fixes d0=x and dn=z and looks
// for an assignment of the intermediate terms from the bounded
// ternary-term candidate pool satisfying the alternating conditions.
func FindJonssonTerms(a *algebra.Algebra, maxLength int, budget Budget) (JonssonSequence, bool, error) {
	if maxLength < 1 {
		return nil, false, uaerr.New(uaerr.InvariantViolation, "closure.FindJonssonTerms",
			fmt.Sprintf("maxLength %d must be >= 1", maxLength))
	}
	vars, vterms := namedVars(3)
	x, z := vterms[0], vterms[2]
	n := a.Cardinality()
	candidates := enumerateTerms(a, 3, budget)
	d0, dn := x, z
	for length := 1; length <= maxLength; length++ {
		seq := make(JonssonSequence, length+1)
		seq[0] = d0
		seq[length] = dn
		if length == 1 {
			if termsEqual(a, vars, d0, dn, n) {
				return seq, true, nil
			}
			continue
		}
		if ok := searchJonssonMiddle(a, vars, seq, 1, length, candidates, n); ok {
			return seq, true, nil
		}
	}
	return nil, false, nil
}

// searchJonssonMiddle fills seq[pos] from candidates and recurses,
// checking the alternating di(x,x,y)/di(x,y,y) agreement with the
// already-fixed neighbor seq[pos-1] as it goes, backtracking on
// failure. The search space is small because candidates is itself
// budget-bounded.
func searchJonssonMiddle(a *algebra.Algebra, vars []term.Variable, seq JonssonSequence, pos, length int, candidates []term.Term, n int) bool {
	if pos == length {
		return diAgrees(a, vars, seq[pos-1], seq[pos], pos-1, n) && everyFixesX(a, vars, seq, n)
	}
	for _, cand := range candidates {
		if !fixesX(cand, a, vars, n) {
			continue
		}
		if !diAgrees(a, vars, seq[pos-1], cand, pos-1, n) {
			continue
		}
		seq[pos] = cand
		if searchJonssonMiddle(a, vars, seq, pos+1, length, candidates, n) {
			return true
		}
	}
	seq[pos] = nil
	return false
}

func fixesX(t term.Term, a *algebra.Algebra, vars []term.Variable, n int) bool {
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			v, ok := evalAt(t, a, vars, []int{x, y, x})
			if !ok || v != x {
				return false
			}
		}
	}
	return true
}

func everyFixesX(a *algebra.Algebra, vars []term.Variable, seq JonssonSequence, n int) bool {
	for _, t := range seq {
		if !fixesX(t, a, vars, n) {
			return false
		}
	}
	return true
}

// diAgrees checks the Jonsson alternation condition between d_i=lhs and
// d_{i+1}=rhs at index i: agreement on (x,x,y) if i is even, on (x,y,y)
// if i is odd.
func diAgrees(a *algebra.Algebra, vars []term.Variable, lhs, rhs term.Term, i, n int) bool {
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			var args []int
			if i%2 == 0 {
				args = []int{x, x, y}
			} else {
				args = []int{x, y, y}
			}
			lv, ok1 := evalAt(lhs, a, vars, args)
			rv, ok2 := evalAt(rhs, a, vars, args)
			if !ok1 || !ok2 || lv != rv {
				return false
			}
		}
	}
	return true
}

func termsEqual(a *algebra.Algebra, vars []term.Variable, lhs, rhs term.Term, n int) bool {
	sizes := make([]int, len(vars))
	for i := range sizes {
		sizes[i] = n
	}
	gen := horner.NewTupleGenerator(sizes)
	for gen.Next() {
		lv, ok1 := evalAt(lhs, a, vars, gen.Tuple())
		rv, ok2 := evalAt(rhs, a, vars, gen.Tuple())
		if ok1 != ok2 || (ok1 && lv != rv) {
			return false
		}
	}
	return true
}
