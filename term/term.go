// Package term implements the term language (spec C5): variables,
// non-variable terms, term evaluation against an algebra, term
// compilation to an Operation, and equations.
//
// Grounded on horner.TupleGenerator for assignment enumeration, and on
// op.Operation (via op.NewEvaluatorOperation) for compiled terms, since
// package op cannot itself depend on term without an import cycle.
// stringToTerm's recursive-descent-over-a-hand-rolled-lexer idiom is
// enriched from sentra-language-sentra/internal/parser (the teacher
// ships no parser of its own).
package term

import (
	"fmt"
	"sort"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Variable is a named term leaf, bound to a carrier element during
// evaluation.
type Variable struct{ name string }

// NewVariable returns the Variable named name.
func NewVariable(name string) Variable { return Variable{name: name} }

// Name returns the variable's name.
func (v Variable) Name() string { return v.name }

func (v Variable) String() string { return v.name }

// Term is either a Variable leaf or a NonVariableTerm application of
// an operation symbol to child terms.
type Term interface {
	isTerm()
	String() string
}

// VarTerm wraps a Variable as a Term.
type VarTerm struct{ Var Variable }

func (VarTerm) isTerm()          {}
func (t VarTerm) String() string { return t.Var.name }

// NonVariableTerm applies Symbol to Children; len(Children) must equal
// Symbol.Arity().
type NonVariableTerm struct {
	Symbol   op.Symbol
	Children []Term
}

func (NonVariableTerm) isTerm() {}

func (t NonVariableTerm) String() string {
	s := t.Symbol.Name() + "("
	for i, c := range t.Children {
		if i > 0 {
			s += ","
		}
		s += c.String()
	}
	return s + ")"
}

// NewTerm builds a NonVariableTerm, failing with InvariantViolation if
// the number of children doesn't match the symbol's arity.
func NewTerm(sym op.Symbol, children []Term) (Term, error) {
	if len(children) != sym.Arity() {
		return nil, uaerr.New(uaerr.InvariantViolation, "term.NewTerm",
			fmt.Sprintf("%s expects %d children, got %d", sym, sym.Arity(), len(children)))
	}
	return NonVariableTerm{Symbol: sym, Children: append([]Term(nil), children...)}, nil
}

// Variables returns t's free variables in leftmost-first order, each
// appearing once.
func Variables(t Term) []Variable {
	var out []Variable
	seen := map[string]bool{}
	var walk func(Term)
	walk = func(t Term) {
		switch x := t.(type) {
		case VarTerm:
			if !seen[x.Var.name] {
				seen[x.Var.name] = true
				out = append(out, x.Var)
			}
		case NonVariableTerm:
			for _, c := range x.Children {
				walk(c)
			}
		}
	}
	walk(t)
	return out
}

// IntValueAt evaluates term in algebra A with the i-th variable of
// orderedVars bound to args[i], by left-to-right postorder evaluation.
// It fails with Undefined if any internal operation is partial at the
// evaluated arguments, and with OutOfRange if a variable in the term
// isn't present in orderedVars.
func IntValueAt(t Term, a *algebra.Algebra, orderedVars []Variable, args []int) (int, error) {
	if len(orderedVars) != len(args) {
		return 0, uaerr.New(uaerr.OutOfRange, "term.IntValueAt",
			fmt.Sprintf("len(orderedVars)=%d, len(args)=%d", len(orderedVars), len(args)))
	}
	binding := make(map[string]int, len(orderedVars))
	for i, v := range orderedVars {
		binding[v.name] = args[i]
	}
	return evalWithBinding(t, a, binding)
}

func evalWithBinding(t Term, a *algebra.Algebra, binding map[string]int) (int, error) {
	switch x := t.(type) {
	case VarTerm:
		v, ok := binding[x.Var.name]
		if !ok {
			return 0, uaerr.New(uaerr.OutOfRange, "term.evalWithBinding",
				fmt.Sprintf("unbound variable %s", x.Var.name))
		}
		return v, nil
	case NonVariableTerm:
		childVals := make([]int, len(x.Children))
		for i, c := range x.Children {
			v, err := evalWithBinding(c, a, binding)
			if err != nil {
				return 0, err
			}
			childVals[i] = v
		}
		o, err := a.Symbol(x.Symbol.Name(), x.Symbol.Arity())
		if err != nil {
			return 0, err
		}
		return o.ValueAt(childVals)
	default:
		return 0, uaerr.New(uaerr.InvariantViolation, "term.evalWithBinding", "unknown term kind")
	}
}

// T_MAX bounds the carrier-size-to-the-arity product below which
// Compile eagerly materializes a table, matching spec C5's
// "implementation-defined threshold". Chosen generously enough to
// cover every concrete scenario in spec §8 while still bounding memory
// for compiled terms over larger free/power algebras.
const T_MAX = 1 << 20

// compiledTerm adapts a Term plus its ordered variables into the
// evaluator contract op.NewEvaluatorOperation expects.
type compiledTerm struct {
	t          Term
	a          *algebra.Algebra
	orderedVars []Variable
}

func (c *compiledTerm) EvalAt(args []int) (int, bool, error) {
	v, err := IntValueAt(c.t, c.a, c.orderedVars, args)
	if err != nil {
		if uaerr.Is(err, uaerr.Undefined) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return v, true, nil
}

// Compile produces a TermOperation of arity len(orderedVars) from t.
// When n^arity <= T_MAX it eagerly materializes a table; otherwise it
// evaluates on demand.
func Compile(t Term, orderedVars []Variable, a *algebra.Algebra) (*op.Operation, error) {
	arity := len(orderedVars)
	n := a.Cardinality()
	sym, err := op.NewSymbol("term", arity)
	if err != nil {
		return nil, err
	}
	size := 1
	overflow := false
	for i := 0; i < arity; i++ {
		size *= n
		if size > T_MAX {
			overflow = true
			break
		}
	}
	o := op.NewEvaluatorOperation(sym, n, &compiledTerm{t: t, a: a, orderedVars: orderedVars})
	if !overflow && size <= T_MAX {
		if err := o.MakeTable(); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Equation is an identity leftSide = rightSide over a shared variable
// set.
type Equation struct {
	Left, Right Term
}

// NewEquation builds an Equation.
func NewEquation(left, right Term) Equation { return Equation{Left: left, Right: right} }

// Variables returns the union of the left and right sides' free
// variables, left side first.
func (e Equation) Variables() []Variable {
	left := Variables(e.Left)
	right := Variables(e.Right)
	seen := map[string]bool{}
	var out []Variable
	for _, v := range left {
		if !seen[v.name] {
			seen[v.name] = true
			out = append(out, v)
		}
	}
	for _, v := range right {
		if !seen[v.name] {
			seen[v.name] = true
			out = append(out, v)
		}
	}
	return out
}

// Symbols returns the union of operation symbols appearing in either
// side, ordered by op.Compare.
func (e Equation) Symbols() []op.Symbol {
	seen := map[op.Symbol]bool{}
	var out []op.Symbol
	var walk func(Term)
	walk = func(t Term) {
		if nv, ok := t.(NonVariableTerm); ok {
			if !seen[nv.Symbol] {
				seen[nv.Symbol] = true
				out = append(out, nv.Symbol)
			}
			for _, c := range nv.Children {
				walk(c)
			}
		}
	}
	walk(e.Left)
	walk(e.Right)
	sort.Slice(out, func(i, j int) bool { return op.Compare(out[i], out[j]) < 0 })
	return out
}

// FindFailureMap iterates over every assignment of e's variables to
// elements of A (Horner-indexed over A's carrier), returning the first
// assignment under which Left and Right evaluate to different values,
// or nil if none exists. An Undefined evaluation on either side
// propagates as an error.
func (e Equation) FindFailureMap(a *algebra.Algebra) (map[Variable]int, error) {
	vars := e.Variables()
	n := a.Cardinality()
	sizes := make([]int, len(vars))
	for i := range sizes {
		sizes[i] = n
	}
	gen := horner.NewTupleGenerator(sizes)
	for gen.Next() {
		tuple := gen.Tuple()
		lv, err := IntValueAt(e.Left, a, vars, tuple)
		if err != nil {
			return nil, err
		}
		rv, err := IntValueAt(e.Right, a, vars, tuple)
		if err != nil {
			return nil, err
		}
		if lv != rv {
			m := make(map[Variable]int, len(vars))
			for i, v := range vars {
				m[v] = tuple[i]
			}
			return m, nil
		}
	}
	return nil, nil
}

// FindFailure is FindFailureMap reduced to a boolean: it reports
// whether e fails in A.
func FindFailure(e Equation, a *algebra.Algebra) (bool, error) {
	m, err := e.FindFailureMap(a)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
