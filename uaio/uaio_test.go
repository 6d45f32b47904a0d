package uaio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/congruence"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaio"
)

func boolAnd(t *testing.T) *algebra.Algebra {
	t.Helper()
	sym, err := op.NewSymbol("f", 2)
	if err != nil {
		t.Fatal(err)
	}
	// Horner order over (x,y), base 2: AND.
	o, err := op.NewTableOperation(sym, 2, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	a, err := algebra.New("B2", 2, []*op.Operation{o})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestWriteReadRoundTripBasic(t *testing.T) {
	a := boolAnd(t)
	var buf bytes.Buffer
	if err := uaio.WriteTo(&buf, a, uaio.Basic); err != nil {
		t.Fatal(err)
	}
	got, err := uaio.Read(&buf)
	if err != nil {
		t.Fatalf("Read(WriteTo(a)) failed: %v", err)
	}
	if got.Name() != a.Name() {
		t.Errorf("name = %q, want %q", got.Name(), a.Name())
	}
	if got.Cardinality() != a.Cardinality() {
		t.Errorf("cardinality = %d, want %d", got.Cardinality(), a.Cardinality())
	}
	if len(got.Operations()) != 1 {
		t.Fatalf("got %d operations, want 1", len(got.Operations()))
	}
	gotOp := got.Operations()[0]
	if err := gotOp.MakeTable(); err != nil {
		t.Fatal(err)
	}
	wantOp := a.Operations()[0]
	if err := wantOp.MakeTable(); err != nil {
		t.Fatal(err)
	}
	if !equalInts(gotOp.Table(), wantOp.Table()) {
		t.Errorf("table = %v, want %v", gotOp.Table(), wantOp.Table())
	}
}

func TestWriteReadRoundTripExtendedSkipsUnknownSection(t *testing.T) {
	a := boolAnd(t)
	// Force a real Con(A) to be cached so Extended emits its
	// <congruenceLattice> section.
	congruence.Install(a, congruence.Budget{})
	if _, err := a.Con(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := uaio.WriteTo(&buf, a, uaio.Extended); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<congruenceLattice>") {
		t.Fatalf("Extended output lacks the congruence section:\n%s", buf.String())
	}
	// Read does not recognize that section, so it must skip it and
	// still recover the Basic fields without erroring.
	got, err := uaio.Read(&buf)
	if err != nil {
		t.Fatalf("Read(WriteTo(a, Extended)) failed: %v", err)
	}
	if got.Cardinality() != 2 {
		t.Errorf("cardinality = %d, want 2", got.Cardinality())
	}
}

type stubLattice struct{ n int }

func (s stubLattice) Cardinality() int { return s.n }

func TestReadFixture(t *testing.T) {
	const src = `<algebra>
<name>B2</name>
<cardinality>2</cardinality>
<basicAlgebra>
<op>
<name>f</name>
<arity>2</arity>
<opTable>
0
0
0
1
</opTable>
</op>
</basicAlgebra>
</algebra>
`
	a, err := uaio.Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "B2" || a.Cardinality() != 2 {
		t.Fatalf("got name=%q cardinality=%d", a.Name(), a.Cardinality())
	}
}

func TestReadRejectsNegativeTableValue(t *testing.T) {
	const src = `<algebra>
<name>Bad</name>
<cardinality>2</cardinality>
<basicAlgebra>
<op>
<name>f</name>
<arity>2</arity>
<opTable>
0
-1
0
1
</opTable>
</op>
</basicAlgebra>
</algebra>
`
	if _, err := uaio.Read(strings.NewReader(src)); err == nil {
		t.Fatal("expected ParseError for negative table entry")
	}
}

func TestReadRejectsMalformedLine(t *testing.T) {
	const src = `<algebra>
<name>Bad</name>
<cardinality>2</cardinality>
not a tag at all
</algebra>
`
	if _, err := uaio.Read(strings.NewReader(src)); err == nil {
		t.Fatal("expected ParseError for a line that is neither a known tag nor an open/close tag")
	}
}

func TestReadSkipsUnrecognizedSection(t *testing.T) {
	const src = `<algebra>
<name>B2</name>
<cardinality>2</cardinality>
<basicAlgebra>
<op>
<name>f</name>
<arity>2</arity>
<opTable>
0
0
0
1
</opTable>
</op>
</basicAlgebra>
<congruenceLattice>
<cardinality>2</cardinality>
<partition>[0 0]</partition>
</congruenceLattice>
</algebra>
`
	a, err := uaio.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read should skip the unrecognized <congruenceLattice> section, got: %v", err)
	}
	if a.Name() != "B2" {
		t.Fatalf("name = %q, want B2", a.Name())
	}
}

func TestReadListEmptyStream(t *testing.T) {
	out, err := uaio.ReadList(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d algebras from an empty stream, want 0", len(out))
	}
}

func TestReadMace4Fixture(t *testing.T) {
	const src = `interpretation(2, [number=1], [
function(f, (_,_), [0,0,0,1]),
relation(R, (_), [1,0])
]).
`
	out, err := uaio.ReadMace4(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d algebras, want 1", len(out))
	}
	a := out[0]
	if a.Cardinality() != 2 {
		t.Fatalf("cardinality = %d, want 2", a.Cardinality())
	}
	if len(a.Operations()) != 1 {
		t.Fatalf("got %d operations, want 1 (the relation must be skipped)", len(a.Operations()))
	}
	o := a.Operations()[0]
	if o.Symbol().Name() != "f" || o.Arity() != 2 {
		t.Fatalf("got operation %s/%d, want f/2", o.Symbol().Name(), o.Arity())
	}
	if err := o.MakeTable(); err != nil {
		t.Fatal(err)
	}
	if !equalInts(o.Table(), []int{0, 0, 0, 1}) {
		t.Errorf("table = %v, want [0 0 0 1]", o.Table())
	}
}

func TestReadMace4RejectsBadCardinality(t *testing.T) {
	const src = `interpretation(x, [number=1], [
]).
`
	if _, err := uaio.ReadMace4(strings.NewReader(src)); err == nil {
		t.Fatal("expected ParseError for a non-numeric cardinality")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
