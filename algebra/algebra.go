// Package algebra implements the finite-algebra kernel (spec C4): a
// named carrier of size n together with an ordered list of operations,
// plus the one-shot lazy caches (Con, Sub) every derived-algebra and
// analysis package attaches to.
//
// Grounded on gonum/graph/simple.NewUndirectedGraph's
// constructor-plus-invariant-panic shape and on gonum's own lazy-field
// caching convention (compute once under sync.Once, expose a read-only
// reference thereafter) used throughout mat and graph.
package algebra

import (
	"fmt"
	"sync"

	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Lattice is the minimal read-only contract algebra needs from the
// congruence/subalgebra lattice packages to cache them without
// creating an import cycle (congruence and subalgebra both import
// algebra, not the reverse). Builder is supplied by whichever package
// constructs the lattice.
type Lattice interface {
	Cardinality() int
}

// Algebra is a finite algebra A = <U,F>: U = {0,...,n-1}, F an ordered
// tuple of operations sharing carrier size n. Once constructed it is
// immutable except for its lazy Con/Sub caches.
type Algebra struct {
	name        string
	carrierSize int
	operations  []*op.Operation
	simType     op.Type

	conMu  sync.Mutex
	conVal Lattice
	conSet bool
	conFn  func(*Algebra) (Lattice, error)

	subMu  sync.Mutex
	subVal Lattice
	subSet bool
	subFn  func(*Algebra) (Lattice, error)
}

// New builds an Algebra from name, carrier size n, and ops. It fails
// with InvariantViolation if any operation's carrier size differs from
// n, or if two operations share a (name,arity) symbol.
func New(name string, n int, ops []*op.Operation) (*Algebra, error) {
	if n < 0 {
		return nil, uaerr.New(uaerr.InvariantViolation, "algebra.New",
			fmt.Sprintf("negative carrier size %d", n))
	}
	symbols := make([]op.Symbol, len(ops))
	for i, o := range ops {
		if o.CarrierSize() != n {
			return nil, uaerr.New(uaerr.InvariantViolation, "algebra.New",
				fmt.Sprintf("operation %s has carrier size %d, algebra has %d", o.Symbol(), o.CarrierSize(), n)).WithAlgebra(name)
		}
		symbols[i] = o.Symbol()
	}
	simType, err := op.NewType(symbols...)
	if err != nil {
		return nil, err
	}
	return &Algebra{
		name:        name,
		carrierSize: n,
		operations:  append([]*op.Operation(nil), ops...),
		simType:     simType,
	}, nil
}

// Name returns the algebra's name.
func (a *Algebra) Name() string { return a.name }

// Cardinality returns n, the size of the carrier.
func (a *Algebra) Cardinality() int { return a.carrierSize }

// Operations returns the algebra's operations in declaration order.
// The returned slice must not be mutated.
func (a *Algebra) Operations() []*op.Operation { return a.operations }

// SimilarityType returns the algebra's similarity type, derived from
// its operations in declaration order.
func (a *Algebra) SimilarityType() op.Type { return a.simType }

// Symbol looks up an operation by name and arity.
func (a *Algebra) Symbol(name string, arity int) (*op.Operation, error) {
	for _, o := range a.operations {
		if o.Symbol().Name() == name && o.Symbol().Arity() == arity {
			return o, nil
		}
	}
	return nil, uaerr.New(uaerr.InvariantViolation, "Algebra.Symbol",
		fmt.Sprintf("no operation %s/%d", name, arity)).WithAlgebra(a.name)
}

// SetConBuilder installs the function used to build Con(A) the first
// time Con is called. It must be called before the first Con() call;
// it exists so that package congruence (which imports algebra) can
// supply the builder without algebra importing congruence.
func (a *Algebra) SetConBuilder(fn func(*Algebra) (Lattice, error)) { a.conFn = fn }

// SetSubBuilder is SetConBuilder's analogue for Sub(A), supplied by
// package subalgebra.
func (a *Algebra) SetSubBuilder(fn func(*Algebra) (Lattice, error)) { a.subFn = fn }

// Con returns the algebra's congruence lattice, building it on first
// use and caching the result. A failed build (e.g. Truncated) is not
// cached, so a later call may retry, per spec §7.
func (a *Algebra) Con() (Lattice, error) {
	if a.conFn == nil {
		return nil, uaerr.New(uaerr.InvariantViolation, "Algebra.Con", "no congruence-lattice builder installed").WithAlgebra(a.name)
	}
	a.conMu.Lock()
	defer a.conMu.Unlock()
	if a.conSet {
		return a.conVal, nil
	}
	val, err := a.conFn(a)
	if err != nil {
		return nil, err
	}
	a.conVal, a.conSet = val, true
	return a.conVal, nil
}

// CachedCon returns the already-built Con(A) without triggering
// construction, and whether one is cached. It is the hook the uaio
// package's Extended writer style uses to decide whether to emit
// congruence data: per spec §6, Extended emits "any cached congruence
// data", not a freshly forced computation.
func (a *Algebra) CachedCon() (Lattice, bool) {
	a.conMu.Lock()
	defer a.conMu.Unlock()
	return a.conVal, a.conSet
}

// CachedSub is CachedCon's analogue for Sub(A).
func (a *Algebra) CachedSub() (Lattice, bool) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	return a.subVal, a.subSet
}

// Sub returns the algebra's subalgebra lattice, building it on first
// use and caching the result, under the same retry-on-failure policy
// as Con.
func (a *Algebra) Sub() (Lattice, error) {
	if a.subFn == nil {
		return nil, uaerr.New(uaerr.InvariantViolation, "Algebra.Sub", "no subalgebra-lattice builder installed").WithAlgebra(a.name)
	}
	a.subMu.Lock()
	defer a.subMu.Unlock()
	if a.subSet {
		return a.subVal, nil
	}
	val, err := a.subFn(a)
	if err != nil {
		return nil, err
	}
	a.subVal, a.subSet = val, true
	return a.subVal, nil
}
