package uaio

import (
	"fmt"
	"io"
	"os"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/congruence"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Style selects what Write emits (spec §6): Basic emits only operations
// and carrier; Extended also emits any cached congruence data.
type Style int

const (
	Basic Style = iota
	Extended
)

// errWriter accumulates the first write error across a sequence of
// printf calls, so callers can check it once at the end instead of
// threading an error return through every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteTo serializes a in the `.ua` format Read accepts, writing to w.
// It never forces computation of Con(A): Extended emits congruence data
// only when it is already cached on a (spec §6, "any cached congruence
// data").
func WriteTo(w io.Writer, a *algebra.Algebra, style Style) error {
	bw := &errWriter{w: w}
	bw.printf("<algebra>\n")
	bw.printf("<name>%s</name>\n", a.Name())
	bw.printf("<cardinality>%d</cardinality>\n", a.Cardinality())
	bw.printf("<basicAlgebra>\n")
	for _, o := range a.Operations() {
		if err := writeOp(bw, o); err != nil {
			return err
		}
	}
	bw.printf("</basicAlgebra>\n")
	if style == Extended {
		writeExtended(bw, a)
	}
	bw.printf("</algebra>\n")
	return bw.err
}

// writeOp materializes o's table (idempotent if already built) and
// emits it in the flattened Horner-order form Read expects.
func writeOp(bw *errWriter, o *op.Operation) error {
	if err := o.MakeTable(); err != nil {
		return err
	}
	bw.printf("<op>\n<name>%s</name>\n<arity>%d</arity>\n<opTable>\n", o.Symbol().Name(), o.Arity())
	for _, v := range o.Table() {
		bw.printf("%d\n", v)
	}
	bw.printf("</opTable>\n</op>\n")
	return bw.err
}

// Write creates path and serializes a into it.
func Write(a *algebra.Algebra, path string, style Style) error {
	f, err := os.Create(path)
	if err != nil {
		return uaerr.Wrap(uaerr.IOError, "uaio.Write", path, err)
	}
	defer f.Close()
	if err := WriteTo(f, a, style); err != nil {
		return err
	}
	return nil
}

// writeExtended appends the algebra's cached congruence lattice, if
// any, as a flat list of its normalized partition arrays. It is a
// diagnostic dump, not parsed back by Read: Extended's round-trip
// guarantee (spec R1) is carried entirely by the Basic section above.
func writeExtended(bw *errWriter, a *algebra.Algebra) {
	con, ok := a.CachedCon()
	if !ok {
		return
	}
	cl, ok := con.(*congruence.Lattice)
	if !ok {
		return
	}
	bw.printf("<congruenceLattice>\n<cardinality>%d</cardinality>\n", cl.Cardinality())
	for _, p := range cl.AllCongruences() {
		bw.printf("<partition>%v</partition>\n", p.RawArray())
	}
	bw.printf("</congruenceLattice>\n")
}
