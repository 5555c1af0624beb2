package rsonpath

// EventKind tags the four structural event kinds of spec.md §2/§3. Closed
// sum, not an interface, per spec.md §9 "tagged variants, not inheritance".
type EventKind uint8

const (
	EventOpen EventKind = iota
	EventClose
	EventColon
	EventComma
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "Open"
	case EventClose:
		return "Close"
	case EventColon:
		return "Colon"
	case EventComma:
		return "Comma"
	default:
		return "Unknown"
	}
}

// Event is a structural position: one of `{ } [ ] : ,` found outside any
// string literal, per spec.md §3.
type Event struct {
	Kind   EventKind
	Offset int
}

// ringSize bounds the small preallocated arena the structural classifier
// refills in place, per spec.md §9 ("Arena for frames...a small
// preallocated vector suffices; no per-value allocation") and grounded on
// the fixed-size index arrays of stage1_find_marks.go/
// stage1_find_marks_amd64.go ([indexSize]uint32 reused across calls),
// adapted here to a synchronous pull cursor instead of their
// channel-fed producer (spec.md §5 forbids the coroutine/goroutine shape:
// "no suspension points").
const ringSize = 256

// structuralClassifier is the pull-based event cursor of spec.md §9's
// design note: "the classifier exposes next_block_of_events() that fills
// a small ring". next() drives it one event at a time; fill() is only
// called when the ring is exhausted.
type structuralClassifier struct {
	doc *Document
	qc  *quoteClassifier

	blockIdx int // next block to classify

	ring []Event
	pos  int
	n    int

	done bool
}

func newStructuralClassifier(doc *Document, caps Capabilities) *structuralClassifier {
	return &structuralClassifier{
		doc:  doc,
		qc:   newQuoteClassifier(caps),
		ring: make([]Event, ringSize),
	}
}

// isStructural reports whether b is one of the six structural bytes of
// spec.md §4.3.
func isStructural(b byte) bool {
	switch b {
	case '{', '}', '[', ']', ':', ',':
		return true
	default:
		return false
	}
}

func kindOf(b byte) EventKind {
	switch b {
	case '{', '[':
		return EventOpen
	case '}', ']':
		return EventClose
	case ':':
		return EventColon
	default:
		return EventComma
	}
}

// fill classifies blocks until the ring holds at least one event or the
// document is exhausted. It never holds more than blockSize events'
// worth of lookahead across a single fill, keeping memory amortized to
// O(1) per byte rather than O(document length) (spec.md §5).
func (s *structuralClassifier) fill() error {
	s.pos, s.n = 0, 0
	n := s.doc.NumBlocks()
	for s.n == 0 && s.blockIdx < n {
		start := s.blockIdx * blockSize
		block := s.doc.Block(start)
		inString := s.qc.classify(block)

		limit := blockSize
		if start+limit > s.doc.Len() {
			limit = s.doc.Len() - start
		}
		for i := 0; i < limit; i++ {
			if inString>>uint(i)&1 != 0 {
				continue
			}
			b := block[i]
			if !isStructural(b) {
				continue
			}
			s.ring[s.n] = Event{Kind: kindOf(b), Offset: start + i}
			s.n++
		}
		// The block is now fully consumed and the quote classifier's
		// carry has advanced past it — only safe to stop *here*, never
		// mid-block, since re-running qc.classify on a partially seen
		// block would double-advance its carry state.
		s.blockIdx++
		if s.n > len(s.ring)-blockSize {
			break
		}
	}
	if s.blockIdx >= n {
		s.done = true
	}
	return nil
}

// next returns the next structural event in increasing offset order, or
// ok=false once the document is exhausted.
func (s *structuralClassifier) next() (Event, bool, error) {
	for s.pos >= s.n {
		if s.done {
			return Event{}, false, nil
		}
		if err := s.fill(); err != nil {
			return Event{}, false, err
		}
		if s.n == 0 && s.done {
			return Event{}, false, nil
		}
	}
	ev := s.ring[s.pos]
	s.pos++
	return ev, true, nil
}
