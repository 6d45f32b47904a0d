package derived

import (
	"fmt"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/term"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// FreeAlg is the free algebra F_V(k) of the variety generated by a
// finite algebra A with k free generators (spec §4.9): the subalgebra
// of A^(A^k) generated by the k projection tuples. Its elements
// correspond to terms modulo A's identities; TermForElement recovers a
// witness term for any element.
type FreeAlg struct {
	*algebra.Algebra
	terms []term.Term
}

// TermForElement returns a term whose value, under the generator
// assignment x_i -> the i-th free generator, equals the element at idx.
func (f *FreeAlg) TermForElement(idx int) (term.Term, error) {
	if idx < 0 || idx >= len(f.terms) {
		return nil, uaerr.New(uaerr.OutOfRange, "FreeAlg.TermForElement",
			fmt.Sprintf("index %d out of range [0,%d)", idx, len(f.terms)))
	}
	return f.terms[idx], nil
}

// FreeAlgebra constructs F_V(k): the index set of the ambient big
// product is A^k (every k-tuple over A's carrier), so the i-th
// generator is the projection element whose value at coordinate t is
// the i-th entry of the k-tuple t decodes to. The generated subalgebra
// is discovered lazily (BigProductAlgebra.GeneratedSubalgebra's
// closure, here inlined so each newly discovered element can be
// labelled with the term that produced it).
func FreeAlgebra(a *algebra.Algebra, k int, budget Budget) (*FreeAlg, error) {
	if budget.MaxElements <= 0 {
		budget.MaxElements = DefaultFreeAlgebraBudget
	}
	if k < 0 {
		return nil, uaerr.New(uaerr.InvariantViolation, "derived.FreeAlgebra",
			fmt.Sprintf("negative generator count %d", k))
	}
	n := a.Cardinality()
	m := 1
	for i := 0; i < k; i++ {
		m *= n
	}
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n
	}
	big := NewBigProductAlgebra(a, m)

	generators := make([]Element, k)
	genTerms := make([]term.Term, k)
	for i := 0; i < k; i++ {
		e := make(Element, m)
		for t := 0; t < m; t++ {
			tuple, err := horner.Decode(t, sizes)
			if err != nil {
				return nil, err
			}
			e[t] = tuple[i]
		}
		generators[i] = e
		genTerms[i] = term.VarTerm{Var: term.NewVariable(fmt.Sprintf("x%d", i+1))}
	}

	seen := make(map[string]int)
	var members []Element
	var terms []term.Term
	add := func(e Element, t term.Term) bool {
		key := e.key()
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = len(members)
		members = append(members, e)
		terms = append(terms, t)
		return true
	}
	for i, g := range generators {
		add(g.clone(), genTerms[i])
	}

	ops := a.Operations()
	for {
		grew := false
		for _, o := range ops {
			ar := o.Arity()
			if ar == 0 {
				continue
			}
			baseElems := append([]Element(nil), members...)
			baseTerms := append([]term.Term(nil), terms...)
			argSizes := make([]int, ar)
			for i := range argSizes {
				argSizes[i] = len(baseElems)
			}
			gen := horner.NewTupleGenerator(argSizes)
			for gen.Next() {
				idxTuple := gen.Tuple()
				args := make([]Element, ar)
				argTerms := make([]term.Term, ar)
				for i, idx := range idxTuple {
					args[i] = baseElems[idx]
					argTerms[i] = baseTerms[idx]
				}
				v, err := big.Apply(o.Symbol(), args)
				if err != nil {
					continue
				}
				t, terr := term.NewTerm(o.Symbol(), argTerms)
				if terr != nil {
					continue
				}
				if add(v, t) {
					grew = true
					if budget.MaxElements > 0 && len(members) > budget.MaxElements {
						return nil, uaerr.New(uaerr.Truncated, "derived.FreeAlgebra",
							"exceeded element budget").WithAlgebra(a.Name())
					}
				}
			}
		}
		if !grew {
			break
		}
	}

	childSize := len(members)
	newOps := make([]*op.Operation, len(ops))
	for oi, o := range ops {
		o := o
		sym := o.Symbol()
		ar := sym.Arity()
		fn := func(args []int) (int, bool) {
			elArgs := make([]Element, ar)
			for i, idx := range args {
				elArgs[i] = members[idx]
			}
			v, err := big.Apply(sym, elArgs)
			if err != nil {
				return 0, false
			}
			idx, ok := seen[v.key()]
			return idx, ok
		}
		newOps[oi] = op.NewFunctionOperation(sym, childSize, fn)
	}
	name := fmt.Sprintf("F_%s(%d)", a.Name(), k)
	alg, err := algebra.New(name, childSize, newOps)
	if err != nil {
		return nil, err
	}
	return &FreeAlg{Algebra: alg, terms: terms}, nil
}
