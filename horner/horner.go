// Package horner implements the canonical bijection between int-tuples
// and flat table indices used throughout this module to address
// operation tables, term-evaluation assignments, and generated-element
// worksets (spec C1).
//
// It is modeled on gonum's stat/combin.CombinationGenerator: a stateful
// generator walks a bounded combinatorial space one step at a time so
// callers can stop early between steps (step budgets, cancellation),
// rather than building the whole space up front.
package horner

import (
	"fmt"

	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Encode computes the Horner index of args under the mixed-radix sizes
// in sizes: k = ((args[0]*sizes[1] + args[1])*sizes[2] + ...). len(args)
// must equal len(sizes). Encode fails with OutOfRange if any
// args[i] >= sizes[i] or args[i] < 0.
func Encode(args, sizes []int) (int, error) {
	if len(args) != len(sizes) {
		return 0, uaerr.New(uaerr.OutOfRange, "horner.Encode",
			fmt.Sprintf("len(args)=%d, len(sizes)=%d", len(args), len(sizes)))
	}
	k := 0
	for i, a := range args {
		if a < 0 || a >= sizes[i] {
			return 0, uaerr.New(uaerr.OutOfRange, "horner.Encode",
				fmt.Sprintf("args[%d]=%d out of range [0,%d)", i, a, sizes[i]))
		}
		k = k*sizes[i] + a
	}
	return k, nil
}

// EncodeUniform is Encode specialized to sizes all equal to s:
// encode(args, s) = sum args[i]*s^(a-1-i).
func EncodeUniform(args []int, s, arity int) (int, error) {
	sizes := make([]int, arity)
	for i := range sizes {
		sizes[i] = s
	}
	return Encode(args, sizes)
}

// product returns the product of sizes. It does not check for
// overflow: a product beyond the range of int wraps silently.
func product(sizes []int) int {
	p := 1
	for _, s := range sizes {
		p *= s
	}
	return p
}

// Decode is the inverse of Encode: it recovers the tuple that produced
// index k under sizes. Fails with OutOfRange when k is outside
// [0, prod(sizes)).
func Decode(k int, sizes []int) ([]int, error) {
	total := product(sizes)
	if k < 0 || k >= total {
		return nil, uaerr.New(uaerr.OutOfRange, "horner.Decode",
			fmt.Sprintf("k=%d out of range [0,%d)", k, total))
	}
	args := make([]int, len(sizes))
	for i := len(sizes) - 1; i >= 0; i-- {
		args[i] = k % sizes[i]
		k /= sizes[i]
	}
	return args, nil
}

// DecodeUniform is Decode specialized to sizes all equal to s.
func DecodeUniform(k, s, arity int) ([]int, error) {
	sizes := make([]int, arity)
	for i := range sizes {
		sizes[i] = s
	}
	return Decode(k, sizes)
}

// Reverse returns the element-reverse of v, leaving v unmodified.
func Reverse(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// LeftRightReverse permutes a flat operation table of a uniform-arity
// operation (carrier size algSize, arity arity) so that argument order
// (x0,...,x{a-1}) becomes (x{a-1},...,x0). It is used to translate
// between the two table-layout conventions seen in imported algebras.
func LeftRightReverse(table []int, algSize, arity int) ([]int, error) {
	want := 1
	for i := 0; i < arity; i++ {
		want *= algSize
	}
	if len(table) != want {
		return nil, uaerr.New(uaerr.OutOfRange, "horner.LeftRightReverse",
			fmt.Sprintf("table length %d != %d^%d", len(table), algSize, arity))
	}
	out := make([]int, len(table))
	for k := 0; k < want; k++ {
		args, err := DecodeUniform(k, algSize, arity)
		if err != nil {
			return nil, err
		}
		rk, err := EncodeUniform(Reverse(args), algSize, arity)
		if err != nil {
			return nil, err
		}
		out[rk] = table[k]
	}
	return out, nil
}

// HashInts combines a slice of ints into a single int suitable for use
// as a map key's auxiliary hash, using the same left-to-right mixing
// discipline as Encode so that equal vectors always hash equal.
func HashInts(v []int) int {
	h := 17
	for _, x := range v {
		h = h*31 + x
	}
	return h
}

// TupleGenerator enumerates every tuple in [0,sizes[0]) x ... x
// [0,sizes[a-1]) in Horner order, one step at a time. It is the
// generator used to materialize operation tables, to enumerate term
// assignments, and to iterate a^k tuples in property checks. Modeled on
// gonum stat/combin.CombinationGenerator's Next/Combination pair.
type TupleGenerator struct {
	sizes   []int
	total   int
	index   int
	current []int
	started bool
}

// NewTupleGenerator returns a generator over the product of sizes.
func NewTupleGenerator(sizes []int) *TupleGenerator {
	return &TupleGenerator{
		sizes:   append([]int(nil), sizes...),
		total:   product(sizes),
		current: make([]int, len(sizes)),
	}
}

// Len returns the total number of tuples in the space.
func (g *TupleGenerator) Len() int { return g.total }

// Next advances the generator and reports whether Tuple() is valid.
func (g *TupleGenerator) Next() bool {
	if !g.started {
		g.started = true
		if g.total == 0 {
			return false
		}
		// index 0, current already zeroed.
		return true
	}
	g.index++
	if g.index >= g.total {
		return false
	}
	// Increment current in place (equivalent to decoding g.index, but
	// cheaper: carry-propagate from the rightmost coordinate).
	for i := len(g.sizes) - 1; i >= 0; i-- {
		g.current[i]++
		if g.current[i] < g.sizes[i] {
			break
		}
		g.current[i] = 0
	}
	return true
}

// Tuple returns the current tuple. The caller must not mutate the
// returned slice; it is reused across calls to Next.
func (g *TupleGenerator) Tuple() []int { return g.current }

// Index returns the Horner index of the current tuple.
func (g *TupleGenerator) Index() int { return g.index }

// Reset returns the generator to its start position.
func (g *TupleGenerator) Reset() {
	g.started = false
	g.index = 0
	for i := range g.current {
		g.current[i] = 0
	}
}
