package query

import (
	"errors"
	"testing"

	"github.com/V0ldek/rsonpath"
)

func mustParse(t *testing.T, src string) rsonpath.Query {
	t.Helper()
	q, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return q
}

func eqSelector(a, b rsonpath.Selector) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case rsonpath.SelectorName:
		return string(a.Name) == string(b.Name)
	case rsonpath.SelectorIndex:
		return a.Index == b.Index
	case rsonpath.SelectorSlice:
		return a.Start == b.Start && a.End == b.End && a.Step == b.Step
	case rsonpath.SelectorWildcard:
		return true
	default:
		return false
	}
}

func eqSegments(a, b []rsonpath.Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || !eqSelector(a[i].Selector, b[i].Selector) {
			return false
		}
	}
	return true
}

func TestParseBareRoot(t *testing.T) {
	q := mustParse(t, "$")
	if len(q.Segments) != 0 {
		t.Errorf("Segments = %+v, want empty", q.Segments)
	}
}

func TestParseDottedNameChain(t *testing.T) {
	q := mustParse(t, "$.a.b")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.NameSelector([]byte("a"))},
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.NameSelector([]byte("b"))},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseDescendantName(t *testing.T) {
	q := mustParse(t, "$..a")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentDescendant, Selector: rsonpath.NameSelector([]byte("a"))},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseWildcards(t *testing.T) {
	q := mustParse(t, "$.*..*")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.WildcardSelector()},
		{Kind: rsonpath.SegmentDescendant, Selector: rsonpath.WildcardSelector()},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseBracketIndex(t *testing.T) {
	q := mustParse(t, "$[3]")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.IndexSelector(3)},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseBracketQuotedName(t *testing.T) {
	for _, src := range []string{`$['a']`, `$["a"]`} {
		q := mustParse(t, src)
		want := []rsonpath.Segment{
			{Kind: rsonpath.SegmentChild, Selector: rsonpath.NameSelector([]byte("a"))},
		}
		if !eqSegments(q.Segments, want) {
			t.Errorf("Parse(%q) Segments = %+v, want %+v", src, q.Segments, want)
		}
	}
}

func TestParseDescendantBracketSynonym(t *testing.T) {
	q := mustParse(t, "$..['a']")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentDescendant, Selector: rsonpath.NameSelector([]byte("a"))},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseBracketWildcard(t *testing.T) {
	q := mustParse(t, "$[*]")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.WildcardSelector()},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseSliceVariants(t *testing.T) {
	testCases := []struct {
		src  string
		want rsonpath.Selector
	}{
		{"$[1:4]", rsonpath.SliceSelector(1, 4, 1)},
		{"$[1:4:2]", rsonpath.SliceSelector(1, 4, 2)},
		{"$[:4]", rsonpath.SliceSelector(0, 4, 1)},
		{"$[2:]", rsonpath.SliceSelector(2, 4294967295, 1)},
		{"$[::2]", rsonpath.SliceSelector(0, 4294967295, 2)},
	}
	for _, tc := range testCases {
		q := mustParse(t, tc.src)
		if len(q.Segments) != 1 || !eqSelector(q.Segments[0].Selector, tc.want) {
			t.Errorf("Parse(%q).Segments = %+v, want selector %+v", tc.src, q.Segments, tc.want)
		}
	}
}

func TestParseComplexPath(t *testing.T) {
	q := mustParse(t, "$.store..book[0:2].title")
	want := []rsonpath.Segment{
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.NameSelector([]byte("store"))},
		{Kind: rsonpath.SegmentDescendant, Selector: rsonpath.NameSelector([]byte("book"))},
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.SliceSelector(0, 2, 1)},
		{Kind: rsonpath.SegmentChild, Selector: rsonpath.NameSelector([]byte("title"))},
	}
	if !eqSegments(q.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", q.Segments, want)
	}
}

func TestParseRejectsMissingDollar(t *testing.T) {
	_, err := Parse("a.b")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse: err = %v, want *SyntaxError", err)
	}
}

func TestParseRejectsUnterminatedBracket(t *testing.T) {
	_, err := Parse("$[0")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse: err = %v, want *SyntaxError", err)
	}
}

func TestParseRejectsUnterminatedQuote(t *testing.T) {
	_, err := Parse(`$['a`)
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse: err = %v, want *SyntaxError", err)
	}
}

func TestParseRejectsTrailingDot(t *testing.T) {
	_, err := Parse("$.")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse: err = %v, want *SyntaxError", err)
	}
}

// TestParseRejectsFilterExpression is spec.md §1's explicit non-goal:
// filter expressions are valid JSONPath this engine does not implement,
// so the parser must surface a feature gap, not a syntax error.
func TestParseRejectsFilterExpression(t *testing.T) {
	// The lexer stops at the '?' and leaves a filter body such as
	// `(@.price<10)` untokenized, so the parser's feature rejection fires
	// as soon as it sees '?' right after '['; a bare '?' exercises exactly
	// that path.
	_, err := Parse("$[?]")
	var featErr *rsonpath.QueryFeatureError
	if !errors.As(err, &featErr) {
		t.Fatalf("Parse: err = %v, want *rsonpath.QueryFeatureError", err)
	}
}

// TestParseRejectsBracketUnion is the same non-goal for `[a,b]`-style
// unions: syntactically valid JSONPath, but this engine's one-selector-
// per-segment automaton has no way to represent it.
func TestParseRejectsBracketUnion(t *testing.T) {
	_, err := Parse("$[0,1]")
	var featErr *rsonpath.QueryFeatureError
	if !errors.As(err, &featErr) {
		t.Fatalf("Parse: err = %v, want *rsonpath.QueryFeatureError", err)
	}
}

// TestParseRejectsNegativeIndex is the same non-goal for negative
// (from-the-end) indices.
func TestParseRejectsNegativeIndex(t *testing.T) {
	_, err := Parse("$[-1]")
	var featErr *rsonpath.QueryFeatureError
	if !errors.As(err, &featErr) {
		t.Fatalf("Parse: err = %v, want *rsonpath.QueryFeatureError", err)
	}
}

// TestParseKeepsZeroStepSliceForBuilder confirms the parser itself hands the raw
// step of 0 through rather than rejecting it, deferring to
// rsonpath.BuildAutomaton's own QueryFeatureError for that case
// (automaton_test.go's TestBuildAutomatonRejectsZeroStepSlice); Parse
// should succeed and simply produce the selector as written.
func TestParseKeepsZeroStepSliceForBuilder(t *testing.T) {
	q := mustParse(t, "$[0:4:0]")
	want := rsonpath.SliceSelector(0, 4, 0)
	if len(q.Segments) != 1 || !eqSelector(q.Segments[0].Selector, want) {
		t.Errorf("Segments = %+v, want a single slice selector %+v", q.Segments, want)
	}
	if _, err := rsonpath.BuildAutomaton(q); err == nil {
		t.Error("BuildAutomaton: want error for step == 0, got nil")
	}
}
