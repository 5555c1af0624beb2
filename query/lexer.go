// Package query turns JSONPath surface syntax (`$..a[0:4:2]`) into the
// segment list rsonpath.BuildAutomaton expects. It is a separable
// collaborator, not part of the engine's core (spec.md §1 scope note):
// the engine only ever consumes a rsonpath.Query value, and any surface
// syntax — or none, for callers that build a Query by hand — works
// equally well.
package query

import (
	"fmt"
)

type tokenKind int8

const (
	tokEOF tokenKind = iota
	tokDollar
	tokDot
	tokDotDot
	tokLBracket
	tokRBracket
	tokStar
	tokColon
	tokComma
	tokQuestion
	tokIdent
	tokNumber
	tokString
)

type token struct {
	kind tokenKind
	text string // raw source for idents/numbers; unescaped content for strings
	pos  int
}

// lex tokenizes a JSONPath expression. It rejects only bytes it has no
// token for and unterminated quoted names; unsupported *shapes* (filters,
// unions, negative indices) are rejected by the parser, which can attach
// better context to the error. Nothing after a '?' is tokenized, so a
// filter body's bytes never reach the byte check.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '$':
			toks = append(toks, token{kind: tokDollar, pos: i})
			i++
		case c == '.':
			if i+1 < n && src[i+1] == '.' {
				toks = append(toks, token{kind: tokDotDot, pos: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokDot, pos: i})
				i++
			}
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, pos: i})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, pos: i})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon, pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, pos: i})
			i++
		case c == '?':
			toks = append(toks, token{kind: tokQuestion, pos: i})
			i = n // the parser rejects the '?' itself; its filter body is skipped
		case c == '\'' || c == '"':
			s, next, err := lexQuoted(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i = next
		case c == '-' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < n && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			i++
			for i < n && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, fmt.Errorf("unexpected character %q at byte %d", c, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: n})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// lexQuoted reads a 'single' or "double" quoted bracket-name literal,
// unescaping \\ and the matching quote character. Unlike member.go's
// matching against raw document bytes, this runs over query source text,
// so the usual JSONPath escaping rules apply here even though the engine
// itself never decodes \uXXXX escapes in the document it scans.
func lexQuoted(src string, start int) (string, int, error) {
	quote := src[start]
	i := start + 1
	var out []byte
	for i < len(src) {
		c := src[i]
		if c == quote {
			return string(out), i + 1, nil
		}
		if c == '\\' && i+1 < len(src) && (src[i+1] == quote || src[i+1] == '\\') {
			out = append(out, src[i+1])
			i += 2
			continue
		}
		out = append(out, c)
		i++
	}
	return "", 0, fmt.Errorf("unterminated quoted name starting at byte %d", start)
}
