package query

import (
	"fmt"
	"math"

	"github.com/V0ldek/rsonpath"
)

// SyntaxError is returned for malformed JSONPath text, per spec.md §7's
// QuerySyntaxError row (raised here, outside the core package, since the
// core automaton builder never sees raw query text).
type SyntaxError struct {
	Msg string
	Pos int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query syntax error at byte %d: %s", e.Pos, e.Msg)
}

// Kind reports rsonpath.KindQuerySyntaxError, so rsonpath.Kind classifies
// this error like the core package's own error types.
func (e *SyntaxError) Kind() rsonpath.ErrorKind { return rsonpath.KindQuerySyntaxError }

// Parse compiles JSONPath surface syntax into a rsonpath.Query. Supported
// grammar: `$`, `.name`, `..name`, `.*`, `..*`, `[i]`, `[*]`, `['name']`,
// `["name"]`, and `[start:end:step]` (any of the three may be omitted).
// Filter expressions (`?(...)`), unions (`[a,b]`), and negative indices
// are rejected as *rsonpath.QueryFeatureError — they are syntactically
// valid JSONPath this engine does not implement, not malformed text.
func Parse(src string) (rsonpath.Query, error) {
	toks, err := lex(src)
	if err != nil {
		return rsonpath.Query{}, &SyntaxError{Msg: err.Error()}
	}
	p := &parser{toks: toks}
	return p.parse()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token { return p.toks[p.pos] }
func (p *parser) advance()   { p.pos++ }

func (p *parser) parse() (rsonpath.Query, error) {
	if p.cur().kind != tokDollar {
		return rsonpath.Query{}, &SyntaxError{Msg: "query must start with '$'", Pos: p.cur().pos}
	}
	p.advance()

	var segs []rsonpath.Segment
	for p.cur().kind != tokEOF {
		switch p.cur().kind {
		case tokDot:
			p.advance()
			seg, err := p.parseDottedStep(rsonpath.SegmentChild)
			if err != nil {
				return rsonpath.Query{}, err
			}
			segs = append(segs, seg)
		case tokDotDot:
			p.advance()
			seg, err := p.parseDottedStep(rsonpath.SegmentDescendant)
			if err != nil {
				return rsonpath.Query{}, err
			}
			segs = append(segs, seg)
		case tokLBracket:
			seg, err := p.parseBracket(rsonpath.SegmentChild)
			if err != nil {
				return rsonpath.Query{}, err
			}
			segs = append(segs, seg)
		default:
			return rsonpath.Query{}, &SyntaxError{Msg: "expected '.', '..', or '['", Pos: p.cur().pos}
		}
	}
	return rsonpath.Query{Segments: segs}, nil
}

// parseDottedStep handles the token immediately after a single or double
// dot: a bare name, a wildcard, or a bracket (JSONPath allows `..['a']`
// as a synonym for `..a`).
func (p *parser) parseDottedStep(kind rsonpath.SegmentKind) (rsonpath.Segment, error) {
	switch p.cur().kind {
	case tokIdent:
		name := p.cur().text
		p.advance()
		return rsonpath.Segment{Kind: kind, Selector: rsonpath.NameSelector([]byte(name))}, nil
	case tokStar:
		p.advance()
		return rsonpath.Segment{Kind: kind, Selector: rsonpath.WildcardSelector()}, nil
	case tokLBracket:
		return p.parseBracket(kind)
	default:
		return rsonpath.Segment{}, &SyntaxError{Msg: "expected a name, '*', or '[' after '.'/ '..'", Pos: p.cur().pos}
	}
}

// parseBracket handles the contents of `[ ... ]`: a wildcard, a quoted
// name, a bare index, or a start:end:step slice. A comma after the first
// selector signals a union, which this engine's automaton (one selector per
// segment) does not represent; rejected as a feature gap rather than a
// syntax error, since `[0,1]` is valid JSONPath.
func (p *parser) parseBracket(kind rsonpath.SegmentKind) (rsonpath.Segment, error) {
	open := p.cur().pos
	p.advance() // consume '['

	if p.cur().kind == tokQuestion {
		return rsonpath.Segment{}, &rsonpath.QueryFeatureError{Msg: "filter expressions are not supported"}
	}

	var sel rsonpath.Selector
	switch p.cur().kind {
	case tokStar:
		p.advance()
		sel = rsonpath.WildcardSelector()
	case tokString:
		sel = rsonpath.NameSelector([]byte(p.cur().text))
		p.advance()
	case tokNumber, tokColon:
		var err error
		sel, err = p.parseIndexOrSlice()
		if err != nil {
			return rsonpath.Segment{}, err
		}
	default:
		return rsonpath.Segment{}, &SyntaxError{Msg: "expected '*', a quoted name, a number, or ':' inside '[...]'", Pos: p.cur().pos}
	}

	if p.cur().kind == tokComma {
		return rsonpath.Segment{}, &rsonpath.QueryFeatureError{Msg: "bracket unions ('[a,b]') are not supported"}
	}
	if p.cur().kind != tokRBracket {
		return rsonpath.Segment{}, &SyntaxError{Msg: "expected ']'", Pos: p.cur().pos}
	}
	p.advance()

	_ = open
	return rsonpath.Segment{Kind: kind, Selector: sel}, nil
}

// parseIndexOrSlice parses the index/slice grammar inside brackets,
// starting at either a number or a ':'. A single number with no colon is
// a plain index selector; any colon makes it a slice, with each of the
// three components optional (`[2:]`, `[:4]`, `[::2]`, ...).
func (p *parser) parseIndexOrSlice() (rsonpath.Selector, error) {
	hasStart := false
	var start int
	if p.cur().kind == tokNumber {
		n, err := p.parseNonNegativeInt()
		if err != nil {
			return rsonpath.Selector{}, err
		}
		start = n
		hasStart = true
	}

	if p.cur().kind != tokColon {
		if !hasStart {
			return rsonpath.Selector{}, &SyntaxError{Msg: "expected a number", Pos: p.cur().pos}
		}
		return rsonpath.IndexSelector(uint32(start)), nil
	}
	p.advance() // consume ':'

	end := math.MaxUint32
	if p.cur().kind == tokNumber {
		n, err := p.parseNonNegativeInt()
		if err != nil {
			return rsonpath.Selector{}, err
		}
		end = n
	}

	step := 1
	if p.cur().kind == tokColon {
		p.advance()
		if p.cur().kind == tokNumber {
			n, err := p.parseNonNegativeInt()
			if err != nil {
				return rsonpath.Selector{}, err
			}
			step = n
		}
	}

	return rsonpath.SliceSelector(uint32(start), uint32(end), uint32(step)), nil
}

func (p *parser) parseNonNegativeInt() (int, error) {
	tok := p.cur()
	if len(tok.text) > 0 && tok.text[0] == '-' {
		return 0, &rsonpath.QueryFeatureError{Msg: "negative indices are not supported"}
	}
	var v int
	for _, c := range []byte(tok.text) {
		v = v*10 + int(c-'0')
	}
	p.advance()
	return v, nil
}
