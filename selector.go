package rsonpath

// SelectorKind is a closed sum over the selectors spec.md §3 supports.
// Tagged variant, not an interface hierarchy (spec.md §9).
type SelectorKind uint8

const (
	SelectorName SelectorKind = iota
	SelectorIndex
	SelectorSlice
	SelectorWildcard
)

// Selector is one step's matching criterion. Only the fields relevant to
// Kind are meaningful; the zero value of the others is ignored.
type Selector struct {
	Kind SelectorKind

	// SelectorName
	Name []byte

	// SelectorIndex
	Index uint32

	// SelectorSlice: matches array element i iff
	// Start <= i < End && (i-Start) % Step == 0.
	Start uint32
	End   uint32
	Step  uint32
}

// NameSelector builds a Selector matching an object member by raw byte
// literal (spec.md §4.5).
func NameSelector(name []byte) Selector {
	return Selector{Kind: SelectorName, Name: name}
}

// IndexSelector builds a Selector matching the i-th element of an array.
func IndexSelector(i uint32) Selector {
	return Selector{Kind: SelectorIndex, Index: i}
}

// SliceSelector builds a Selector matching array elements
// [start, end) with the given step. Callers should route step == 0
// through the automaton builder, which rejects it as a QueryFeatureError
// per spec.md §9's open question, rather than constructing one directly.
func SliceSelector(start, end, step uint32) Selector {
	return Selector{Kind: SelectorSlice, Start: start, End: end, Step: step}
}

// WildcardSelector builds a Selector matching any child (or, as a
// descendant step, any descendant).
func WildcardSelector() Selector {
	return Selector{Kind: SelectorWildcard}
}

// appliesToObject reports whether this selector kind is meaningful when
// the containing frame is an object, per spec.md §4.6: "Name selectors
// only when the containing frame is an Object."
func (s Selector) appliesToObject() bool {
	return s.Kind == SelectorName || s.Kind == SelectorWildcard
}

// appliesToArray reports whether this selector kind is meaningful when
// the containing frame is an array, per spec.md §4.6: "Index and slice
// selectors apply only when the containing frame is an Array."
func (s Selector) appliesToArray() bool {
	return s.Kind == SelectorIndex || s.Kind == SelectorSlice || s.Kind == SelectorWildcard
}

// SegmentKind distinguishes a child step from a descendant step.
type SegmentKind uint8

const (
	SegmentChild SegmentKind = iota
	SegmentDescendant
)

// Segment is one step of a compiled query's input contract (spec.md §3):
// a (child|descendant, selector) pair. Root is implicit — the automaton's
// start state already represents the root value, so a query with zero
// segments (bare `$`) matches only the root.
type Segment struct {
	Kind     SegmentKind
	Selector Selector
}

// Query is the automaton builder's input contract: an ordered list of
// segments produced by an external JSONPath surface-syntax parser
// (spec.md §1 scope note; see package query for this repository's own
// minimal one).
type Query struct {
	Segments []Segment
}
