// Package uaio implements the external Reader/Writer collaborators
// spec §6 describes only at their interface: the native line-oriented
// `.ua`/`.alg` format, the Mace4 `interpretation(...)` grammar, and a
// Basic/Extended Writer. Spec §1 scopes file I/O as "external to the
// core", but a calculator with no working Reader cannot exercise any
// of the rest of the system end to end (round-trip property R1, the
// CLI surface §6), so this package is the concrete collaborator the
// core's boundary names.
//
// Grounded on bufio.Scanner line-at-a-time scanning, the style the
// pack's own table-driven test fixtures use to load inputs
// (graph/topo/*_test.go); term.StringToTerm's hand-rolled
// lexer-over-recursive-descent idiom is reused for the Mace4 grammar
// in mace4.go, since no parser-combinator library appears anywhere in
// the retrieval pack.
package uaio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/op"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// rawOp is the Reader boundary's operation shape (spec §6):
// (symbol, kind, optional table).
type rawOp struct {
	name  string
	arity int
	table []int // nil for Function kind
	isFn  bool
}

// rawAlgebra is the Reader boundary's algebra shape (spec §6):
// (name, cardinality, list of operations).
type rawAlgebra struct {
	name        string
	cardinality int
	ops         []rawOp
}

func (ra rawAlgebra) build() (*algebra.Algebra, error) {
	ops := make([]*op.Operation, len(ra.ops))
	for i, ro := range ra.ops {
		sym, err := op.NewSymbol(ro.name, ro.arity)
		if err != nil {
			return nil, err
		}
		if ro.isFn {
			fn, ok := builtinFunctions[ro.name]
			if !ok {
				return nil, uaerr.New(uaerr.IOError, "uaio.build",
					fmt.Sprintf("unknown builtin function operation %q", ro.name)).WithAlgebra(ra.name)
			}
			ops[i] = op.NewFunctionOperation(sym, ra.cardinality, fn)
			continue
		}
		o, err := op.NewTableOperation(sym, ra.cardinality, ro.table)
		if err != nil {
			return nil, err
		}
		ops[i] = o
	}
	return algebra.New(ra.name, ra.cardinality, ops)
}

// builtinFunctions is the small named registry Function-kind operations
// resolve against. File formats can only describe data, not code, so a
// Function-kind op in a file names one of these well-known operations
// rather than carrying an arbitrary closure.
var builtinFunctions = map[string]op.Func{
	"discriminator": func(args []int) (int, bool) {
		if len(args) != 3 {
			return 0, false
		}
		if args[0] == args[1] {
			return args[2], true
		}
		return args[0], true
	},
}

// Read parses the native line-oriented `.ua`/`.alg` format from r into
// an Algebra (spec §6). Recognized lexemes: a line starting with `%` is
// a comment and is skipped; `<tag>`/`</tag>` lines open/close
// `<algebra>`, `<basicAlgebra>`, `<op>`, `<opTable>` sections;
// `<name>...</name>` and `<arity>...</arity>` and `<cardinality>...
// </cardinality>` are single-line value tags; inside an open
// `<opTable>`, bare integer lines (one per line, Horner order) form the
// flattened table. Leading/trailing whitespace around names is
// trimmed; a negative integer anywhere a table value is expected is
// rejected with ParseError, since no table entry of a finite carrier
// can be negative (Open Question decision, see DESIGN.md).
func Read(r io.Reader) (*algebra.Algebra, error) {
	ra, err := readOne(bufio.NewScanner(r))
	if err != nil {
		return nil, err
	}
	return ra.build()
}

// ReadList parses a `.ua` stream containing zero or more consecutive
// top-level `<algebra>...</algebra>` sections.
func ReadList(r io.Reader) ([]*algebra.Algebra, error) {
	sc := bufio.NewScanner(r)
	var out []*algebra.Algebra
	for {
		ra, err := readOne(sc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		a, err := ra.build()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ReadFile opens path and parses a single algebra from it.
func ReadFile(path string) (*algebra.Algebra, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, uaerr.Wrap(uaerr.IOError, "uaio.ReadFile", path, err)
	}
	defer f.Close()
	a, err := Read(f)
	if err != nil {
		if ae, ok := err.(*uaerr.Error); ok {
			return nil, ae.WithAlgebra(path)
		}
		return nil, err
	}
	return a, nil
}

// ReadListFile opens path and parses every algebra in it.
func ReadListFile(path string) ([]*algebra.Algebra, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, uaerr.Wrap(uaerr.IOError, "uaio.ReadListFile", path, err)
	}
	defer f.Close()
	return ReadList(f)
}

type lineScanner interface {
	Scan() bool
	Text() string
}

// readOne scans forward to the next `<algebra>` tag and parses a single
// algebra section, returning io.EOF (not wrapped) if the stream is
// exhausted before one is found.
func readOne(sc lineScanner) (rawAlgebra, error) {
	var ra rawAlgebra
	foundAlgebra := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		switch {
		case line == "<algebra>":
			foundAlgebra = true
		case line == "</algebra>":
			if !foundAlgebra {
				return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.Read", "</algebra> without matching <algebra>")
			}
			return ra, nil
		case line == "<basicAlgebra>" || line == "</basicAlgebra>":
			// structural only; operations accumulate directly on ra.
		case strings.HasPrefix(line, "<name>"):
			ra.name = strings.TrimSpace(tagValue(line, "name"))
		case strings.HasPrefix(line, "<cardinality>"):
			n, err := parseNonNegative(tagValue(line, "cardinality"), "uaio.Read")
			if err != nil {
				return rawAlgebra{}, err
			}
			ra.cardinality = n
		case line == "<op>":
			ro, err := readOp(sc, ra.cardinality)
			if err != nil {
				return rawAlgebra{}, err
			}
			ra.ops = append(ra.ops, ro)
		default:
			if tag, ok := openTag(line); ok {
				// Unrecognized section, e.g. Extended's <congruenceLattice>
				// diagnostic dump: skip it rather than fail, since Read
				// only needs to recover the Basic fields (spec R1).
				if err := skipSection(sc, tag); err != nil {
					return rawAlgebra{}, err
				}
				continue
			}
			return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.Read",
				fmt.Sprintf("unexpected line %q", line))
		}
	}
	if foundAlgebra {
		return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.Read", "<algebra> missing closing tag")
	}
	return rawAlgebra{}, io.EOF
}

func readOp(sc lineScanner, cardinality int) (rawOp, error) {
	var ro rawOp
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		switch {
		case line == "</op>":
			return ro, nil
		case strings.HasPrefix(line, "<name>"):
			ro.name = strings.TrimSpace(tagValue(line, "name"))
		case strings.HasPrefix(line, "<arity>"):
			n, err := parseNonNegative(tagValue(line, "arity"), "uaio.readOp")
			if err != nil {
				return rawOp{}, err
			}
			ro.arity = n
		case line == "<kind>Function</kind>":
			ro.isFn = true
		case line == "<opTable>":
			table, err := readOpTable(sc, cardinality, ro.arity)
			if err != nil {
				return rawOp{}, err
			}
			ro.table = table
		default:
			return rawOp{}, uaerr.New(uaerr.ParseError, "uaio.readOp",
				fmt.Sprintf("unexpected line %q inside <op>", line))
		}
	}
	return rawOp{}, uaerr.New(uaerr.ParseError, "uaio.readOp", "<op> missing closing tag")
}

func readOpTable(sc lineScanner, cardinality, arity int) ([]int, error) {
	want := 1
	for i := 0; i < arity; i++ {
		want *= cardinality
	}
	table := make([]int, 0, want)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if line == "</opTable>" {
			if len(table) != want {
				return nil, uaerr.New(uaerr.ParseError, "uaio.readOpTable",
					fmt.Sprintf("table has %d entries, want %d^%d=%d", len(table), cardinality, arity, want))
			}
			return table, nil
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, uaerr.New(uaerr.ParseError, "uaio.readOpTable",
				fmt.Sprintf("expected integer table entry, got %q", line))
		}
		if v < 0 {
			return nil, uaerr.New(uaerr.ParseError, "uaio.readOpTable",
				fmt.Sprintf("negative table entry %d is not a valid carrier element", v))
		}
		table = append(table, v)
	}
	return nil, uaerr.New(uaerr.ParseError, "uaio.readOpTable", "<opTable> missing closing tag")
}

// openTag reports whether line is a bare opening tag "<word>" (not a
// closing tag, not a single-line value tag), returning the tag name.
func openTag(line string) (string, bool) {
	if !strings.HasPrefix(line, "<") || !strings.HasSuffix(line, ">") || strings.HasPrefix(line, "</") {
		return "", false
	}
	inner := line[1 : len(line)-1]
	if inner == "" || strings.ContainsAny(inner, "<>") {
		return "", false
	}
	return inner, true
}

// skipSection consumes lines up to and including the matching </tag>,
// tolerating nested same-named tags so a malformed stream still fails
// loudly instead of skipping past the enclosing </algebra>.
func skipSection(sc lineScanner, tag string) error {
	open := "<" + tag + ">"
	closeLine := "</" + tag + ">"
	depth := 1
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case open:
			depth++
		case closeLine:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return uaerr.New(uaerr.ParseError, "uaio.Read", fmt.Sprintf("<%s> missing closing tag", tag))
}

// tagValue extracts the text between <tag>...</tag> on a single line.
func tagValue(line, tag string) string {
	open := "<" + tag + ">"
	closeTag := "</" + tag + ">"
	s := strings.TrimPrefix(line, open)
	s = strings.TrimSuffix(s, closeTag)
	return s
}

func parseNonNegative(s, op string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, uaerr.New(uaerr.ParseError, op, fmt.Sprintf("expected non-negative integer, got %q", s))
	}
	return n, nil
}
