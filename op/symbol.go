// Package op implements the operation model and similarity-type
// machinery (spec C2, C3): OperationSymbol, SimilarityType, and the
// Operation contract with its table/function/composite evaluator
// variants.
//
// Grounded on gonum/graph/simple's capability-interface-over-concrete-
// struct pattern and gonum's lazy, cached-flag style (a property is
// computed once, on first use, and the result is reused thereafter).
package op

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Symbol is an operation symbol: a name, an arity, and (for binary
// symbols only) whether the operation it names is known associative.
// Two symbols are equal iff their names and arities match.
type Symbol struct {
	name        string
	arity       int
	associative bool
}

// NewSymbol returns a Symbol with the given name and arity. Arity must
// be non-negative.
func NewSymbol(name string, arity int) (Symbol, error) {
	if arity < 0 {
		return Symbol{}, uaerr.New(uaerr.InvariantViolation, "op.NewSymbol",
			fmt.Sprintf("negative arity %d for %q", arity, name))
	}
	return Symbol{name: name, arity: arity}, nil
}

// MustNewSymbol is NewSymbol but panics on error; intended for
// constructing well-known symbols at init time where the arity is a
// compile-time constant.
func MustNewSymbol(name string, arity int) Symbol {
	s, err := NewSymbol(name, arity)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the symbol's name.
func (s Symbol) Name() string { return s.name }

// Arity returns the symbol's arity.
func (s Symbol) Arity() int { return s.arity }

// Associative reports whether the symbol is marked associative.
func (s Symbol) Associative() bool { return s.associative }

// WithAssociative returns a copy of s with its associative flag set.
// Associativity may only be set on binary symbols.
func (s Symbol) WithAssociative(assoc bool) (Symbol, error) {
	if assoc && s.arity != 2 {
		return Symbol{}, uaerr.New(uaerr.InvariantViolation, "Symbol.WithAssociative",
			fmt.Sprintf("symbol %q has arity %d, associativity only applies to arity 2", s.name, s.arity))
	}
	s.associative = assoc
	return s, nil
}

// Equal reports whether s and o name the same (name, arity) pair.
func (s Symbol) Equal(o Symbol) bool {
	return s.name == o.name && s.arity == o.arity
}

// Compare orders symbols by arity descending, then by name ascending.
// It returns a negative number, zero, or a positive number as s sorts
// before, equal to, or after o.
func Compare(s, o Symbol) int {
	if s.arity != o.arity {
		return o.arity - s.arity
	}
	switch {
	case s.name < o.name:
		return -1
	case s.name > o.name:
		return 1
	default:
		return 0
	}
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s/%d", s.name, s.arity)
}

// Type is an ordered sequence of OperationSymbols with unique
// (name,arity) pairs: the signature shared by like algebras (spec C3).
type Type struct {
	symbols []Symbol
}

// NewType builds a Type from symbols, preserving their order. It fails
// with InvariantViolation if two symbols share a (name,arity) pair.
func NewType(symbols ...Symbol) (Type, error) {
	type nameArity struct {
		name  string
		arity int
	}
	seen := make(map[nameArity]bool, len(symbols))
	cp := make([]Symbol, len(symbols))
	for i, s := range symbols {
		k := nameArity{s.Name(), s.Arity()}
		if seen[k] {
			return Type{}, uaerr.New(uaerr.InvariantViolation, "op.NewType",
				fmt.Sprintf("duplicate symbol %s", s))
		}
		seen[k] = true
		cp[i] = s
	}
	return Type{symbols: cp}, nil
}

// Symbols returns the type's symbols in declaration order. The
// returned slice must not be mutated.
func (t Type) Symbols() []Symbol { return t.symbols }

// Len returns the number of symbols in the type.
func (t Type) Len() int { return len(t.symbols) }

// Equal reports whether t and o list the same symbols in the same
// order.
func (t Type) Equal(o Type) bool {
	if len(t.symbols) != len(o.symbols) {
		return false
	}
	for i, s := range t.symbols {
		if !s.Equal(o.symbols[i]) {
			return false
		}
	}
	return true
}

// Symbol looks up a symbol by name and arity.
func (t Type) Symbol(name string, arity int) (Symbol, bool) {
	for _, s := range t.symbols {
		if s.name == name && s.arity == arity {
			return s, true
		}
	}
	return Symbol{}, false
}

// Sorted returns a copy of t's symbols ordered by Compare.
func (t Type) Sorted() []Symbol {
	cp := append([]Symbol(nil), t.symbols...)
	sort.Slice(cp, func(i, j int) bool { return Compare(cp[i], cp[j]) < 0 })
	return cp
}
