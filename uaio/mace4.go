package uaio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

// Mace4 model grammar, spec §6:
//
//	interpretation(N, [number=M], [
//	  function(F, (_,...,_), [v0,v1,...]),
//	  ...
//	]).
//
// N is the cardinality, F a function name, the blank-placeholder tuple
// in parentheses gives the arity (count of `_` entries), and the value
// list has length N^arity in Horner order. `relation(...)` entries are
// recognized and skipped: this module's Algebra has no relational
// component. Tokenization follows term.lex's hand-rolled-scanner idiom:
// punctuation characters are single-character tokens, everything else
// contiguous and non-space is a word token (a name, a number, or a
// lone `_`).

type mTokKind int

const (
	mWord mTokKind = iota
	mLParen
	mRParen
	mLBracket
	mRBracket
	mComma
	mEquals
	mDot
	mEOF
)

type mTok struct {
	kind mTokKind
	text string
	pos  int
}

var punct = map[byte]mTokKind{'(': mLParen, ')': mRParen, '[': mLBracket, ']': mRBracket, ',': mComma, '=': mEquals, '.': mDot}

func isMacePunct(c byte) bool {
	_, ok := punct[c]
	return ok
}

func mLex(s string) ([]mTok, error) {
	var toks []mTok
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case isMacePunct(c):
			toks = append(toks, mTok{punct[c], string(c), i})
			i++
		default:
			start := i
			for i < n && !unicode.IsSpace(rune(s[i])) && !isMacePunct(s[i]) {
				i++
			}
			if i == start {
				return nil, uaerr.New(uaerr.ParseError, "uaio.mLex",
					fmt.Sprintf("unexpected character %q at position %d", c, i))
			}
			toks = append(toks, mTok{mWord, s[start:i], start})
		}
	}
	toks = append(toks, mTok{mEOF, "", n})
	return toks, nil
}

type mParser struct {
	toks []mTok
	cur  int
}

func (p *mParser) peek() mTok { return p.toks[p.cur] }
func (p *mParser) advance() mTok {
	t := p.toks[p.cur]
	if p.cur < len(p.toks)-1 {
		p.cur++
	}
	return t
}
func (p *mParser) expect(k mTokKind, what string) (mTok, error) {
	if p.peek().kind != k {
		return mTok{}, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("expected %s at position %d, got %q", what, p.peek().pos, p.peek().text))
	}
	return p.advance(), nil
}

// ReadMace4 parses a stream of Mace4 `interpretation(...)` model
// descriptions, returning one Algebra per interpretation found.
func ReadMace4(r io.Reader) ([]*algebra.Algebra, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, uaerr.Wrap(uaerr.IOError, "uaio.ReadMace4", "", err)
	}
	toks, err := mLex(string(buf))
	if err != nil {
		return nil, err
	}
	p := &mParser{toks: toks}
	var out []*algebra.Algebra
	count := 0
	for p.peek().kind != mEOF {
		ra, err := p.parseInterpretation(count)
		if err != nil {
			return nil, err
		}
		count++
		a, err := ra.build()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		if p.peek().kind == mDot {
			p.advance()
		}
	}
	return out, nil
}

func (p *mParser) parseInterpretation(index int) (rawAlgebra, error) {
	kw, err := p.expect(mWord, "'interpretation'")
	if err != nil {
		return rawAlgebra{}, err
	}
	if kw.text != "interpretation" {
		return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("expected 'interpretation', got %q", kw.text))
	}
	if _, err := p.expect(mLParen, "("); err != nil {
		return rawAlgebra{}, err
	}
	nTok, err := p.expect(mWord, "cardinality")
	if err != nil {
		return rawAlgebra{}, err
	}
	n, err := strconv.Atoi(nTok.text)
	if err != nil || n < 0 {
		return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("invalid cardinality %q", nTok.text))
	}
	if _, err := p.expect(mComma, ","); err != nil {
		return rawAlgebra{}, err
	}
	if _, err := p.expect(mLBracket, "["); err != nil {
		return rawAlgebra{}, err
	}
	numberTag, err := p.expect(mWord, "'number'")
	if err != nil {
		return rawAlgebra{}, err
	}
	if numberTag.text != "number" {
		return rawAlgebra{}, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("expected 'number', got %q", numberTag.text))
	}
	if _, err := p.expect(mEquals, "="); err != nil {
		return rawAlgebra{}, err
	}
	modelNum, err := p.expect(mWord, "model number")
	if err != nil {
		return rawAlgebra{}, err
	}
	if _, err := p.expect(mRBracket, "]"); err != nil {
		return rawAlgebra{}, err
	}
	if _, err := p.expect(mComma, ","); err != nil {
		return rawAlgebra{}, err
	}
	if _, err := p.expect(mLBracket, "["); err != nil {
		return rawAlgebra{}, err
	}
	ra := rawAlgebra{name: fmt.Sprintf("mace4_%s", modelNum.text), cardinality: n}
	if p.peek().kind != mRBracket {
		for {
			ro, isFunction, err := p.parseEntry(n)
			if err != nil {
				return rawAlgebra{}, err
			}
			if isFunction {
				ra.ops = append(ra.ops, ro)
			}
			if p.peek().kind == mComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(mRBracket, "]"); err != nil {
		return rawAlgebra{}, err
	}
	if _, err := p.expect(mRParen, ")"); err != nil {
		return rawAlgebra{}, err
	}
	return ra, nil
}

// parseEntry parses one `function(...)` or `relation(...)` entry,
// reporting isFunction=false for a relation (which this module has no
// representation for and silently skips, since it carries no operation
// data).
func (p *mParser) parseEntry(n int) (rawOp, bool, error) {
	kw, err := p.expect(mWord, "'function' or 'relation'")
	if err != nil {
		return rawOp{}, false, err
	}
	isFunction := kw.text == "function"
	if !isFunction && kw.text != "relation" {
		return rawOp{}, false, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("expected 'function' or 'relation', got %q", kw.text))
	}
	if _, err := p.expect(mLParen, "("); err != nil {
		return rawOp{}, false, err
	}
	nameTok, err := p.expect(mWord, "name")
	if err != nil {
		return rawOp{}, false, err
	}
	if _, err := p.expect(mComma, ","); err != nil {
		return rawOp{}, false, err
	}
	arity, err := p.parseBlankTuple()
	if err != nil {
		return rawOp{}, false, err
	}
	if _, err := p.expect(mComma, ","); err != nil {
		return rawOp{}, false, err
	}
	if _, err := p.expect(mLBracket, "["); err != nil {
		return rawOp{}, false, err
	}
	want := 1
	for i := 0; i < arity; i++ {
		want *= n
	}
	var table []int
	if p.peek().kind != mRBracket {
		for {
			tok, err := p.expect(mWord, "integer value")
			if err != nil {
				return rawOp{}, false, err
			}
			v, err := strconv.Atoi(tok.text)
			if err != nil || v < 0 {
				return rawOp{}, false, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
					fmt.Sprintf("invalid table value %q", tok.text))
			}
			table = append(table, v)
			if p.peek().kind == mComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(mRBracket, "]"); err != nil {
		return rawOp{}, false, err
	}
	if _, err := p.expect(mRParen, ")"); err != nil {
		return rawOp{}, false, err
	}
	if !isFunction {
		return rawOp{}, false, nil
	}
	if len(table) != want {
		return rawOp{}, false, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
			fmt.Sprintf("function %s: table has %d entries, want %d^%d=%d", nameTok.text, len(table), n, arity, want))
	}
	return rawOp{name: nameTok.text, arity: arity, table: table}, true, nil
}

// parseBlankTuple parses "(_,...,_)" and returns the number of `_`
// placeholders, which is the operation's arity.
func (p *mParser) parseBlankTuple() (int, error) {
	if _, err := p.expect(mLParen, "("); err != nil {
		return 0, err
	}
	arity := 0
	if p.peek().kind != mRParen {
		for {
			tok, err := p.expect(mWord, "'_'")
			if err != nil {
				return 0, err
			}
			if !strings.HasPrefix(tok.text, "_") {
				return 0, uaerr.New(uaerr.ParseError, "uaio.mace4.parse",
					fmt.Sprintf("expected blank placeholder '_', got %q", tok.text))
			}
			arity++
			if p.peek().kind == mComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(mRParen, ")"); err != nil {
		return 0, err
	}
	return arity, nil
}
