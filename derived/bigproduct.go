package derived

import (
	"strconv"
	"strings"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Budget bounds the work BigProductAlgebra's lazy closure may perform
// before reporting Truncated (spec §5, Open Question #3: a configurable
// element-count cap rather than a hard-coded constant).
type Budget struct {
	MaxElements int // cap on total discovered elements (0 = unbounded; FreeAlgebra uses DefaultFreeAlgebraBudget for 0)
}

// DefaultFreeAlgebraBudget is the default cap on FreeAlgebra's
// generated-subalgebra closure, chosen generously for small base
// algebras and small generator counts while still bounding runaway
// growth for larger inputs.
const DefaultFreeAlgebraBudget = 200000

// Element is a point of a BigProductAlgebra: a vector of base-algebra
// elements, one per coordinate of the (possibly unenumerable) index
// set.
type Element []int

func (e Element) key() string {
	var b strings.Builder
	for i, v := range e {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func (e Element) clone() Element { return append(Element(nil), e...) }

// BigProductAlgebra represents A^index without ever materializing its
// carrier (which has size |A|^index, routinely astronomically large):
// elements are int vectors of length index, and every operation is
// applied coordinatewise directly on those vectors. This is the
// representation FreeAlgebra builds on.
type BigProductAlgebra struct {
	base  *algebra.Algebra
	index int
}

// NewBigProductAlgebra returns the big product of base over an index
// set of size index.
func NewBigProductAlgebra(base *algebra.Algebra, index int) *BigProductAlgebra {
	return &BigProductAlgebra{base: base, index: index}
}

// Base returns the algebra each coordinate of an Element ranges over.
func (p *BigProductAlgebra) Base() *algebra.Algebra { return p.base }

// Index returns the number of coordinates each Element carries.
func (p *BigProductAlgebra) Index() int { return p.index }

// Apply evaluates the base operation named by sym coordinatewise on
// args, each of length p.Index().
func (p *BigProductAlgebra) Apply(sym op.Symbol, args []Element) (Element, error) {
	for _, e := range args {
		if len(e) != p.index {
			return nil, uaerr.New(uaerr.InvariantViolation, "BigProductAlgebra.Apply",
				"element length does not match index set size")
		}
	}
	o, err := p.base.Symbol(sym.Name(), sym.Arity())
	if err != nil {
		return nil, err
	}
	result := make(Element, p.index)
	coordArgs := make([]int, len(args))
	for c := 0; c < p.index; c++ {
		for i, a := range args {
			coordArgs[i] = a[c]
		}
		v, err := o.ValueAt(coordArgs)
		if err != nil {
			return nil, err
		}
		result[c] = v
	}
	return result, nil
}

// GeneratedSubalgebra computes the smallest set of Elements closed
// under every operation of p.Base() and containing seed, by the same
// workset-closure discipline as subalgebra.GeneratedSubuniverse,
// generalized from int members to Element vectors since the ambient
// carrier can't be enumerated.
func (p *BigProductAlgebra) GeneratedSubalgebra(seed []Element, budget Budget) ([]Element, error) {
	seen := make(map[string]bool)
	var members []Element
	add := func(e Element) bool {
		k := e.key()
		if seen[k] {
			return false
		}
		seen[k] = true
		members = append(members, e)
		return true
	}
	for _, e := range seed {
		add(e.clone())
	}
	ops := p.base.Operations()
	for {
		grew := false
		for _, o := range ops {
			ar := o.Arity()
			if ar == 0 {
				continue
			}
			base := append([]Element(nil), members...)
			sizes := make([]int, ar)
			for k := range sizes {
				sizes[k] = len(base)
			}
			gen := horner.NewTupleGenerator(sizes)
			for gen.Next() {
				idxTuple := gen.Tuple()
				args := make([]Element, ar)
				for k, idx := range idxTuple {
					args[k] = base[idx]
				}
				v, err := p.Apply(o.Symbol(), args)
				if err != nil {
					continue
				}
				if add(v) {
					grew = true
					if budget.MaxElements > 0 && len(members) > budget.MaxElements {
						return nil, uaerr.New(uaerr.Truncated, "BigProductAlgebra.GeneratedSubalgebra",
							"exceeded element budget").WithAlgebra(p.base.Name())
					}
				}
			}
		}
		if !grew {
			break
		}
	}
	return members, nil
}
