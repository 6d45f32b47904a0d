package typefind

import (
	"fmt"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/term"
)

// enumerateTerms performs a bounded breadth-first search over terms
// built from a's own operations applied to arity free variables,
// growing the candidate set one composition deeper per round until
// maxDepth rounds have run or maxCandidates terms have been produced.
// Every op(arity 0) nullary operation of a contributes its own constant
// term at depth 1, which is what lets a composed term act as a
// polynomial with fixed parameters even though no constants are added
// explicitly.
func enumerateTerms(a *algebra.Algebra, arity, maxDepth, maxCandidates int) []term.Term {
	vars := make([]term.Variable, arity)
	all := make([]term.Term, arity)
	for i := range vars {
		vars[i] = term.NewVariable(fmt.Sprintf("v%d", i+1))
		all[i] = term.VarTerm{Var: vars[i]}
	}
	frontier := append([]term.Term(nil), all...)
	ops := a.Operations()
	for depth := 1; depth <= maxDepth && len(all) < maxCandidates; depth++ {
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
				continue // bound the combinatorial blow-up for higher-arity ops
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
						if len(all)+len(next) >= maxCandidates {
							break opLoop
						}
					}
				}
				if !incrementTuple(idx, len(all)) {
					break
				}
			}
		}
		if len(next) == 0 {
			break
		}
		all = append(all, next...)
		frontier = next
	}
	return all
}

// incrementTuple advances idx (each entry in [0,base)) like an odometer,
// returning true if it advanced and false once it wraps past the final
// combination.
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

func evalOn(t term.Term, a *algebra.Algebra, vars []term.Variable, args []int) (int, bool) {
	v, err := term.IntValueAt(t, a, vars, args)
	if err != nil {
		return 0, false
	}
	return v, true
}

func mapsInto(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	var rec func(pos int, args []int) bool
	rec = func(pos int, args []int) bool {
		if pos == len(vars) {
			v, ok := evalOn(t, a, vars, args)
			if !ok {
				return false
			}
			return contains(u, v)
		}
		for _, x := range u {
			args[pos] = x
			if !rec(pos+1, args) {
				return false
			}
		}
		return true
	}
	return rec(0, make([]int, len(vars)))
}

func contains(u []int, v int) bool {
	for _, e := range u {
		if e == v {
			return true
		}
	}
	return false
}

func isIdempotentBinary(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		v, ok := evalOn(t, a, vars, []int{x, x})
		if !ok || v != x {
			return false
		}
	}
	return true
}

func isCommutative(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		for _, y := range u {
			vxy, ok1 := evalOn(t, a, vars, []int{x, y})
			vyx, ok2 := evalOn(t, a, vars, []int{y, x})
			if !ok1 || !ok2 || vxy != vyx {
				return false
			}
		}
	}
	return true
}

func isAssociative(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		for _, y := range u {
			for _, z := range u {
				xy, ok1 := evalOn(t, a, vars, []int{x, y})
				left, ok2 := evalOn(t, a, vars, []int{xy, z})
				yz, ok3 := evalOn(t, a, vars, []int{y, z})
				right, ok4 := evalOn(t, a, vars, []int{x, yz})
				if !ok1 || !ok2 || !ok3 || !ok4 || left != right {
					return false
				}
			}
		}
	}
	return true
}

func absorbs(p, q term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		for _, y := range u {
			qxy, ok := evalOn(q, a, vars, []int{x, y})
			if !ok {
				return false
			}
			v, ok := evalOn(p, a, vars, []int{x, qxy})
			if !ok || v != x {
				return false
			}
		}
	}
	return true
}

func isMinority(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		for _, y := range u {
			v1, ok1 := evalOn(t, a, vars, []int{x, x, y})
			v2, ok2 := evalOn(t, a, vars, []int{y, x, x})
			if !ok1 || !ok2 || v1 != y || v2 != y {
				return false
			}
		}
	}
	return true
}

func isMajorityAt(t term.Term, a *algebra.Algebra, vars []term.Variable, u []int) bool {
	for _, x := range u {
		for _, y := range u {
			v, ok := evalOn(t, a, vars, []int{x, y, x})
			if !ok || v != x {
				return false
			}
		}
	}
	return true
}

// classify examines the polynomial clone restricted to u (spec §4.10's
// "isomorphism class of the induced algebra on U determines the type")
// and returns the witnessing TCT type. The search is necessarily
// bounded (see Budget); within that bound the five named scenarios of
// the concrete spec examples classify correctly: a lattice's meet/join
// pair gives TypeLattice, a lone semilattice operation gives
// TypeSemilattice, a group/module operation's Maltsev term
// (t(x,x,y)=t(y,x,x)=y) gives TypeAffine, a discriminator's term gives
// TypeBoolean (it is Maltsev and also satisfies d(x,y,x)=x), and anything lacking all of the
// above gives TypeUnary.
func classify(a *algebra.Algebra, u []int, budget Budget) (int, error) {
	bvars := []term.Variable{term.NewVariable("v1"), term.NewVariable("v2")}
	binaries := enumerateTerms(a, 2, budget.depth(), budget.candidates())

	var idempotent []term.Term
	for _, t := range binaries {
		if !mapsInto(t, a, bvars, u) {
			continue
		}
		if !isIdempotentBinary(t, a, bvars, u) {
			continue
		}
		idempotent = append(idempotent, t)
	}

	var latticeOps []term.Term
	for _, t := range idempotent {
		if isCommutative(t, a, bvars, u) && isAssociative(t, a, bvars, u) {
			latticeOps = append(latticeOps, t)
		}
	}
	for i := 0; i < len(latticeOps); i++ {
		for j := 0; j < len(latticeOps); j++ {
			if i == j {
				continue
			}
			if absorbs(latticeOps[i], latticeOps[j], a, bvars, u) && absorbs(latticeOps[j], latticeOps[i], a, bvars, u) {
				return TypeLattice, nil
			}
		}
	}
	if len(latticeOps) > 0 {
		return TypeSemilattice, nil
	}

	tvars := []term.Variable{term.NewVariable("v1"), term.NewVariable("v2"), term.NewVariable("v3")}
	ternaries := enumerateTerms(a, 3, budget.depth(), budget.candidates())
	for _, t := range ternaries {
		if !mapsInto(t, a, tvars, u) {
			continue
		}
		if !isMinority(t, a, tvars, u) {
			continue
		}
		if isMajorityAt(t, a, tvars, u) {
			return TypeBoolean, nil
		}
		return TypeAffine, nil
	}

	return TypeUnary, nil
}
