package op

import (
	"fmt"
	"sync"

	"github.com/jamiewannenburg/uacalcsrc-sub007/horner"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// undefined is the table sentinel marking a cell as outside a partial
// operation's domain.
const undefined = -1

// evaluator is the narrow contract every Operation backing
// implementation (table, function, composite) satisfies. Term-backed
// operations are implemented in package term, which wraps a compiled
// term tree behind this same interface via NewEvaluatorOperation.
type evaluator interface {
	// evalAt computes the value of the operation at args, reporting
	// whether it is defined. args has already been validated for
	// length and range by Operation.ValueAt.
	evalAt(args []int) (value int, defined bool, err error)
}

// Operation is a finitary operation f: U^arity -> U on the carrier
// U={0,...,n-1} of some algebra. Its evaluator may be table-backed,
// function-backed, term-backed, or composite (spec C2); callers never
// see the distinction except through IsTableBacked/Table.
type Operation struct {
	symbol      Symbol
	carrierSize int
	ev          evaluator

	tableMu sync.Mutex
	table   []int // nil until MakeTable or a table-backed constructor

	flagsOnce sync.Once
	flags     computedFlags
	flagsErr  error
}

type computedFlags struct {
	idempotent, commutative, associative, totallySymmetric, maltsev, total bool
}

// NewTableOperation builds a table-backed Operation. table must have
// length carrierSize^symbol.Arity(), laid out in Horner order; a cell
// equal to -1 marks that tuple as outside the operation's domain, and
// every other cell must lie in [0,carrierSize).
func NewTableOperation(symbol Symbol, carrierSize int, table []int) (*Operation, error) {
	want := 1
	for i := 0; i < symbol.Arity(); i++ {
		want *= carrierSize
	}
	if len(table) != want {
		return nil, uaerr.New(uaerr.InvariantViolation, "op.NewTableOperation",
			fmt.Sprintf("%s: table length %d != %d^%d", symbol, len(table), carrierSize, symbol.Arity()))
	}
	for _, v := range table {
		if v != undefined && (v < 0 || v >= carrierSize) {
			return nil, uaerr.New(uaerr.InvariantViolation, "op.NewTableOperation",
				fmt.Sprintf("%s: table value %d out of range [0,%d)", symbol, v, carrierSize))
		}
	}
	cp := append([]int(nil), table...)
	o := &Operation{symbol: symbol, carrierSize: carrierSize, table: cp}
	o.ev = &tableEvaluator{o: o}
	return o, nil
}

// Func is the signature of a function-backed operation: given args
// (length == arity, each in [0,carrierSize)), it returns the result and
// whether it is defined.
type Func func(args []int) (value int, defined bool)

// NewFunctionOperation builds a function-backed Operation that computes
// its value on demand via fn.
func NewFunctionOperation(symbol Symbol, carrierSize int, fn Func) *Operation {
	o := &Operation{symbol: symbol, carrierSize: carrierSize}
	o.ev = &funcEvaluator{fn: fn}
	return o
}

// NewEvaluatorOperation builds an Operation around an arbitrary
// evaluator. It is the hook term-backed operations (package term) use
// to satisfy the Operation contract without op importing that package.
func NewEvaluatorOperation(symbol Symbol, carrierSize int, ev interface {
	EvalAt(args []int) (int, bool, error)
}) *Operation {
	o := &Operation{symbol: symbol, carrierSize: carrierSize}
	o.ev = adaptEvaluator{ev}
	return o
}

type adaptEvaluator struct {
	inner interface {
		EvalAt(args []int) (int, bool, error)
	}
}

func (a adaptEvaluator) evalAt(args []int) (int, bool, error) { return a.inner.EvalAt(args) }

type tableEvaluator struct{ o *Operation }

func (t *tableEvaluator) evalAt(args []int) (int, bool, error) {
	idx, err := horner.EncodeUniform(args, t.o.carrierSize, t.o.symbol.Arity())
	if err != nil {
		return 0, false, err
	}
	v := t.o.table[idx]
	return v, v != undefined, nil
}

type funcEvaluator struct{ fn Func }

func (f *funcEvaluator) evalAt(args []int) (int, bool, error) {
	v, ok := f.fn(args)
	return v, ok, nil
}

// Symbol returns the operation's symbol.
func (o *Operation) Symbol() Symbol { return o.symbol }

// Arity returns the operation's arity.
func (o *Operation) Arity() int { return o.symbol.Arity() }

// CarrierSize returns n, the size of the carrier this operation acts
// on.
func (o *Operation) CarrierSize() int { return o.carrierSize }

// IsTableBacked reports whether the operation currently has a
// materialized table (true from construction for table-backed
// operations, or after a call to MakeTable for any operation).
func (o *Operation) IsTableBacked() bool {
	o.tableMu.Lock()
	defer o.tableMu.Unlock()
	return o.table != nil
}

// Table returns the materialized table, or nil if MakeTable has not
// been called. The returned slice must not be mutated.
func (o *Operation) Table() []int {
	o.tableMu.Lock()
	defer o.tableMu.Unlock()
	return o.table
}

// ValueAt evaluates the operation at args. It fails with OutOfRange if
// len(args) != arity or any element is outside [0,carrierSize), and
// with Undefined if the operation is partial and undefined at args.
func (o *Operation) ValueAt(args []int) (int, error) {
	if len(args) != o.Arity() {
		return 0, uaerr.New(uaerr.OutOfRange, "Operation.ValueAt",
			fmt.Sprintf("%s: got %d args, want %d", o.symbol, len(args), o.Arity()))
	}
	for i, a := range args {
		if a < 0 || a >= o.carrierSize {
			return 0, uaerr.New(uaerr.OutOfRange, "Operation.ValueAt",
				fmt.Sprintf("%s: args[%d]=%d out of range [0,%d)", o.symbol, i, a, o.carrierSize))
		}
	}
	o.tableMu.Lock()
	table := o.table
	o.tableMu.Unlock()
	if table != nil {
		idx, err := horner.EncodeUniform(args, o.carrierSize, o.Arity())
		if err != nil {
			return 0, err
		}
		v := table[idx]
		if v == undefined {
			return 0, uaerr.New(uaerr.Undefined, "Operation.ValueAt",
				fmt.Sprintf("%s undefined at %v", o.symbol, args))
		}
		return v, nil
	}
	v, defined, err := o.ev.evalAt(args)
	if err != nil {
		return 0, err
	}
	if !defined {
		return 0, uaerr.New(uaerr.Undefined, "Operation.ValueAt",
			fmt.Sprintf("%s undefined at %v", o.symbol, args))
	}
	return v, nil
}

// ValueAtIndex is a convenience form of ValueAt for nullary-unaware
// callers that already have a Horner-encoded tuple index:
// ValueAtIndex(k) == ValueAt(decode(k, [n,...,n])).
func (o *Operation) ValueAtIndex(index int) (int, error) {
	args, err := horner.DecodeUniform(index, o.carrierSize, o.Arity())
	if err != nil {
		return 0, err
	}
	return o.ValueAt(args)
}

// MakeTable materializes the operation's table by evaluating it on
// every tuple in Horner order. It is idempotent: subsequent calls are
// no-ops, and subsequent ValueAt calls read from the table.
func (o *Operation) MakeTable() error {
	o.tableMu.Lock()
	defer o.tableMu.Unlock()
	if o.table != nil {
		return nil
	}
	size := 1
	for i := 0; i < o.Arity(); i++ {
		size *= o.carrierSize
	}
	table := make([]int, size)
	sizes := make([]int, o.Arity())
	for i := range sizes {
		sizes[i] = o.carrierSize
	}
	gen := horner.NewTupleGenerator(sizes)
	for gen.Next() {
		v, defined, err := o.ev.evalAt(gen.Tuple())
		if err != nil {
			return err
		}
		if defined {
			table[gen.Index()] = v
		} else {
			table[gen.Index()] = undefined
		}
	}
	o.table = table
	return nil
}

// IsTotal reports whether the operation is defined everywhere. It may
// call MakeTable as a side effect for function-backed operations that
// have not yet been tabulated, since totality can only be decided by
// exhaustive evaluation.
func (o *Operation) IsTotal() (bool, error) {
	if err := o.MakeTable(); err != nil {
		return false, err
	}
	for _, v := range o.table {
		if v == undefined {
			return false, nil
		}
	}
	return true, nil
}

func (o *Operation) computeFlags() error {
	var err error
	o.flagsOnce.Do(func() {
		err = o.doComputeFlags()
	})
	if err != nil {
		o.flagsErr = err
	}
	return o.flagsErr
}

func (o *Operation) doComputeFlags() error {
	n, a := o.carrierSize, o.Arity()
	f := computedFlags{idempotent: true, commutative: true, associative: true, totallySymmetric: true, maltsev: true, total: true}

	total, err := o.IsTotal()
	if err != nil {
		return err
	}
	f.total = total

	// idempotent: f(x,...,x) = x, defined for all arities >= 0.
	for x := 0; x < n; x++ {
		args := make([]int, a)
		for i := range args {
			args[i] = x
		}
		v, err := o.ValueAt(args)
		if err != nil {
			f.idempotent = false
			break
		}
		if v != x {
			f.idempotent = false
			break
		}
	}

	if a == 2 {
		for x := 0; x < n && (f.commutative || f.associative); x++ {
			for y := 0; y < n && (f.commutative || f.associative); y++ {
				vxy, e1 := o.ValueAt([]int{x, y})
				vyx, e2 := o.ValueAt([]int{y, x})
				if e1 != nil || e2 != nil || vxy != vyx {
					f.commutative = false
				}
				for z := 0; z < n && f.associative; z++ {
					fyz, e3 := o.ValueAt([]int{y, z})
					if e3 != nil {
						f.associative = false
						continue
					}
					left, e4 := o.ValueAt([]int{x, fyz})
					fxy, e5 := o.ValueAt([]int{x, y})
					if e4 != nil || e5 != nil {
						f.associative = false
						continue
					}
					right, e6 := o.ValueAt([]int{fxy, z})
					if e6 != nil || left != right {
						f.associative = false
					}
				}
			}
		}
	} else {
		f.commutative = false
		f.associative = false
	}

	if a == 3 {
		f.maltsev = true
		for x := 0; x < n && f.maltsev; x++ {
			for y := 0; y < n && f.maltsev; y++ {
				v1, e1 := o.ValueAt([]int{x, x, y})
				v2, e2 := o.ValueAt([]int{y, x, x})
				if e1 != nil || e2 != nil || v1 != y || v2 != y {
					f.maltsev = false
				}
			}
		}
	} else {
		f.maltsev = false
	}

	f.totallySymmetric = o.checkTotallySymmetric()

	o.flags = f
	return nil
}

// checkTotallySymmetric reports whether f is invariant under every
// permutation of its arguments, by exhaustive comparison against the
// identity permutation.
func (o *Operation) checkTotallySymmetric() bool {
	n, a := o.carrierSize, o.Arity()
	if a <= 1 {
		return true
	}
	perms := permutations(a)
	sizes := make([]int, a)
	for i := range sizes {
		sizes[i] = n
	}
	gen := horner.NewTupleGenerator(sizes)
	for gen.Next() {
		args := gen.Tuple()
		base, err := o.ValueAt(args)
		baseDefined := err == nil
		for _, p := range perms {
			permArgs := make([]int, a)
			for i, j := range p {
				permArgs[i] = args[j]
			}
			v, err := o.ValueAt(permArgs)
			if (err == nil) != baseDefined {
				return false
			}
			if err == nil && v != base {
				return false
			}
		}
	}
	return true
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	base := []int{0}
	for i := 1; i < n; i++ {
		base = append(base, i)
	}
	var result [][]int
	var rec func(prefix, remaining []int)
	rec = func(prefix, remaining []int) {
		if len(remaining) == 0 {
			result = append(result, append([]int(nil), prefix...))
			return
		}
		for i, x := range remaining {
			rest := make([]int, 0, len(remaining)-1)
			rest = append(rest, remaining[:i]...)
			rest = append(rest, remaining[i+1:]...)
			rec(append(prefix, x), rest)
		}
	}
	rec(nil, base)
	return result
}

// IsIdempotent reports whether f(x,...,x)=x for every x in the carrier.
func (o *Operation) IsIdempotent() (bool, error) {
	if err := o.computeFlags(); err != nil {
		return false, err
	}
	return o.flags.idempotent, nil
}

// IsCommutative reports whether f(x,y)=f(y,x) for all x,y. Always
// false for non-binary operations.
func (o *Operation) IsCommutative() (bool, error) {
	if err := o.computeFlags(); err != nil {
		return false, err
	}
	return o.flags.commutative, nil
}

// IsAssociative reports whether f(x,f(y,z))=f(f(x,y),z) for all x,y,z.
// Always false for non-binary operations.
func (o *Operation) IsAssociative() (bool, error) {
	if err := o.computeFlags(); err != nil {
		return false, err
	}
	return o.flags.associative, nil
}

// IsTotallySymmetric reports whether f is invariant under every
// permutation of its arguments.
func (o *Operation) IsTotallySymmetric() (bool, error) {
	if err := o.computeFlags(); err != nil {
		return false, err
	}
	return o.flags.totallySymmetric, nil
}

// IsMaltsev reports whether f is a Maltsev operation:
// f(x,x,y)=f(y,x,x)=y for all x,y. Always false for non-ternary
// operations.
func (o *Operation) IsMaltsev() (bool, error) {
	if err := o.computeFlags(); err != nil {
		return false, err
	}
	return o.flags.maltsev, nil
}

// CompareOps orders operations the way Compare orders their symbols:
// arity descending, then name ascending.
func CompareOps(a, b *Operation) int { return Compare(a.symbol, b.symbol) }
