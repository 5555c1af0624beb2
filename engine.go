/*
 * Copyright the rsonpath-go contributors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rsonpath

// runFrame is spec.md §4.7's run-stack entry: an automaton state paired
// with the depth at which it became active. entryDepth is non-decreasing
// from the bottom of the stack to the top, since a frame can only be
// pushed at the current depth and is popped once its value has ended:
// when the next value at that depth starts (fireTransitions) or when that
// depth's container closes (handleClose).
type runFrame struct {
	state      int
	entryDepth int
}

// Engine drives one Automaton over one Document, reporting matches to a
// Sink. Grounded on stage2_build_tape.go's iterative, non-recursive scope
// walk (a depth-tracked for loop over structural indices, no recursion),
// restructured here around automaton run-frames instead of tape slots.
type Engine struct {
	automaton *Automaton
	caps      Capabilities
}

// NewEngine detects the host's capabilities once and keeps them fixed for
// every Run on this engine, matching the teacher's construction-time-frozen
// dispatch (capability.go); each Run hands them to the classifiers it
// constructs via newStructuralClassifier.
func NewEngine(automaton *Automaton) *Engine {
	return &Engine{automaton: automaton, caps: DetectCapabilities()}
}

// runContext holds the mutable state of a single Run call. Kept separate
// from Engine so concurrent calls to Run on the same compiled Automaton
// never share mutable state, and so all per-run memory is released
// together when Run returns.
type runContext struct {
	doc   *Document
	autom *Automaton
	sink  Sink
	mode  Mode

	depth *depthStack
	run   []runFrame

	count int

	pendingAtomicStart int
	pendingAtomicCount int

	firstEvent      bool
	rootAccepts     bool
	rootIsComposite bool
}

// Run executes the engine over doc, reporting matches to sink in the given
// mode, and returns the total match count. If the sink signals Stop, Run
// returns the count so far alongside a *SinkAbortedError; callers should
// treat that as a normal early exit per spec.md §7, not a failure.
func (e *Engine) Run(doc *Document, mode Mode, sink Sink) (int, error) {
	rc := &runContext{
		doc:         doc,
		autom:       e.automaton,
		sink:        sink,
		mode:        mode,
		depth:       newDepthStack(),
		run:         []runFrame{{state: e.automaton.Start, entryDepth: 0}},
		firstEvent:  true,
		rootAccepts: e.automaton.States[e.automaton.Start].Accepts,
	}

	sc := newStructuralClassifier(doc, e.caps)

	for {
		ev, ok, err := sc.next()
		if err != nil {
			return rc.count, err
		}
		if !ok {
			break
		}

		if rc.pendingAtomicCount > 0 {
			if err := rc.finalizePendingAtomic(ev.Offset); err != nil {
				if _, aborted := err.(*SinkAbortedError); aborted {
					return rc.count, rc.finish(err)
				}
				return rc.count, err
			}
		}

		if rc.firstEvent {
			rc.firstEvent = false
			if rc.rootAccepts && ev.Kind == EventOpen {
				rc.rootIsComposite = true
				end, err := findMatchingClose(doc, ev.Offset)
				if err != nil {
					return rc.count, err
				}
				if stop, err := rc.emit(ev.Offset, end); err != nil {
					return rc.count, err
				} else if stop {
					return rc.count, rc.finish(&SinkAbortedError{})
				}
			}
		}

		switch ev.Kind {
		case EventOpen:
			if err := rc.handleOpen(ev); err != nil {
				if _, aborted := err.(*SinkAbortedError); aborted {
					return rc.count, rc.finish(err)
				}
				return rc.count, err
			}
		case EventClose:
			if err := rc.handleClose(ev); err != nil {
				return rc.count, err
			}
		case EventColon:
			if err := rc.handleColon(ev); err != nil {
				return rc.count, err
			}
		case EventComma:
			if err := rc.handleComma(ev); err != nil {
				return rc.count, err
			}
		}
	}

	// A bare `$` over an atomic root: no Open event ever started it, so the
	// whole trimmed document is the match.
	if rc.rootAccepts && !rc.rootIsComposite {
		start := skipWhitespaceForward(doc, 0)
		end := trimTrailingWhitespace(doc, start, doc.Len())
		if start < end {
			if stop, err := rc.emit(start, end); err != nil {
				return rc.count, err
			} else if stop {
				return rc.count, rc.finish(&SinkAbortedError{})
			}
		}
	}

	return rc.count, rc.finish(nil)
}

// finish calls OnCount exactly once, per sink.go's contract that OnCount
// is never called mid-run, then returns runErr unchanged so callers can
// still observe a SinkAborted condition.
func (rc *runContext) finish(runErr error) error {
	rc.sink.OnCount(rc.count)
	return runErr
}

// emit reports one match in whichever mode the run was started with, and
// reports whether the sink asked to stop.
func (rc *runContext) emit(start, end int) (stop bool, err error) {
	rc.count++
	var sig Signal
	switch rc.mode {
	case ModeSpans:
		sig = rc.sink.OnSpan(start, end)
	case ModeNodes:
		sig = rc.sink.OnNode(rc.doc.Slice(start, end))
	case ModeCount:
		sig = Continue
	default:
		return false, &InternalAssertionError{Msg: "unknown mode"}
	}
	return sig == Stop, nil
}

func (rc *runContext) finalizePendingAtomic(boundaryOffset int) error {
	end := trimTrailingWhitespace(rc.doc, rc.pendingAtomicStart, boundaryOffset)
	for i := 0; i < rc.pendingAtomicCount; i++ {
		stop, err := rc.emit(rc.pendingAtomicStart, end)
		if err != nil {
			return err
		}
		if stop {
			rc.pendingAtomicCount = 0
			return &SinkAbortedError{}
		}
	}
	rc.pendingAtomicCount = 0
	return nil
}

// handleOpen evaluates transitions against the composite value this Open
// starts. Per spec.md §5's ordering invariant ("results are emitted in
// strictly increasing value-start offset"), a composite match cannot wait
// for its own Close to be emitted — by then every match nested inside it
// would already have been reported, even though the parent's start offset
// is smaller. Instead its end is found immediately with a local forward
// scan (findMatchingClose) and it is emitted right here, before the engine
// moves on to any byte inside it.
func (rc *runContext) handleOpen(ev Event) error {
	curDepth := rc.depth.depth()
	accepts := rc.fireTransitions(curDepth)

	kind := kindFromByte(rc.doc.Byte(ev.Offset))

	if accepts > 0 {
		end, err := findMatchingClose(rc.doc, ev.Offset)
		if err != nil {
			return err
		}
		for i := 0; i < accepts; i++ {
			stop, err := rc.emit(ev.Offset, end)
			if err != nil {
				return err
			}
			if stop {
				return &SinkAbortedError{}
			}
		}
	}

	rc.depth.push(kind, ev.Offset)

	if kind == ContainerArray {
		rc.maybeAtomicValueStart(ev.Offset)
	}
	return nil
}

func (rc *runContext) handleClose(ev Event) error {
	closingDepth := rc.depth.depth()
	if rc.depth.top() == nil {
		return &InternalAssertionError{Msg: "Close with no open container"}
	}

	rc.popRunFramesAtOrAbove(closingDepth)
	rc.depth.pop()
	return nil
}

func (rc *runContext) handleColon(ev Event) error {
	start, end, err := extractPendingName(rc.doc, ev.Offset)
	if err != nil {
		return err
	}
	rc.depth.setPendingName(start, end)
	rc.maybeAtomicValueStart(ev.Offset)
	return nil
}

func (rc *runContext) handleComma(ev Event) error {
	rc.depth.onComma()
	if top := rc.depth.top(); top != nil && top.kind == ContainerArray {
		rc.maybeAtomicValueStart(ev.Offset)
	}
	return nil
}

// maybeAtomicValueStart peeks the first non-whitespace byte after a
// triggering structural event (an object's Colon, an array's Comma, or an
// array's own Open for its first element) and, if that byte begins an
// atomic value rather than a nested container, evaluates the automaton
// against it immediately. A composite value is left for the upcoming Open
// event to handle instead, so a value is never evaluated twice.
func (rc *runContext) maybeAtomicValueStart(afterOffset int) {
	i := skipWhitespaceForward(rc.doc, afterOffset+1)
	if i >= rc.doc.Len() {
		return
	}
	switch rc.doc.Byte(i) {
	case '{', '[', ']', '}':
		return
	}
	accepts := rc.fireTransitions(rc.depth.depth())
	if accepts > 0 {
		rc.pendingAtomicStart = i
		rc.pendingAtomicCount = accepts
	}
}

// fireTransitions evaluates every live run frame's outgoing transitions
// against the value currently being entered at curDepth, per spec.md
// §4.7: child transitions fire iff curDepth == entryDepth+1; descendant
// transitions fire for every frame with entryDepth < curDepth (strictly
// inside the frame's owning container — resolved from spec.md's glossary
// and the `$..*`-excludes-the-root boundary behavior in §8, in preference
// to a literally-read "<=" in §4.7's prose; see DESIGN.md). It pushes one
// new run frame per firing transition and returns how many of those
// targets are immediately accepting.
func (rc *runContext) fireTransitions(curDepth int) int {
	// Frames pushed at curDepth belong to earlier siblings of the value
	// being entered, which have ended; drop them so their transitions never
	// fire inside this value. Only the root frame has entryDepth 0.
	if curDepth > 0 {
		rc.popRunFramesAtOrAbove(curDepth)
	}

	top := rc.depth.top()
	haveKind := top != nil
	var containerKind ContainerKind
	if haveKind {
		containerKind = top.kind
	}

	var nameStart, nameEnd int
	haveName := false
	if haveKind && containerKind == ContainerObject {
		nameStart, nameEnd, haveName = rc.depth.takePendingName()
		if haveName {
			raw := string(rc.doc.Slice(nameStart, nameEnd))
			if top.seenNames == nil {
				top.seenNames = make(map[string]struct{})
			}
			if _, dup := top.seenNames[raw]; dup {
				// A later member shares an earlier one's name: the
				// earlier occurrence already won per spec.md §9, so a
				// Name-selector transition must not fire again here.
				// Wildcard transitions are unaffected (they don't test
				// haveName at all).
				haveName = false
			} else {
				top.seenNames[raw] = struct{}{}
			}
		}
	}
	var arrIndex uint32
	if haveKind && containerKind == ContainerArray {
		arrIndex = top.index
	}

	accepts := 0
	n := len(rc.run)
	for i := 0; i < n; i++ {
		rf := rc.run[i]
		state := &rc.autom.States[rf.state]

		if curDepth == rf.entryDepth+1 {
			for _, tr := range state.Child {
				if rc.selectorMatches(tr.Selector, haveKind, containerKind, haveName, nameStart, nameEnd, arrIndex) {
					rc.run = append(rc.run, runFrame{state: tr.Target, entryDepth: curDepth})
					if rc.autom.States[tr.Target].Accepts {
						accepts++
					}
				}
			}
		}
		if rf.entryDepth < curDepth {
			for _, tr := range state.Descendant {
				if rc.selectorMatches(tr.Selector, haveKind, containerKind, haveName, nameStart, nameEnd, arrIndex) {
					rc.run = append(rc.run, runFrame{state: tr.Target, entryDepth: curDepth})
					if rc.autom.States[tr.Target].Accepts {
						accepts++
					}
				}
			}
		}
	}
	return accepts
}

func (rc *runContext) selectorMatches(s Selector, haveKind bool, kind ContainerKind, haveName bool, nameStart, nameEnd int, arrIndex uint32) bool {
	if !haveKind {
		return false
	}
	switch s.Kind {
	case SelectorWildcard:
		return true
	case SelectorName:
		return kind == ContainerObject && haveName && matchesName(rc.doc.Slice(nameStart, nameEnd), s.Name)
	case SelectorIndex:
		return kind == ContainerArray && arrIndex == s.Index
	case SelectorSlice:
		if kind != ContainerArray || arrIndex < s.Start || arrIndex >= s.End {
			return false
		}
		return (arrIndex-s.Start)%s.Step == 0
	default:
		return false
	}
}

// popRunFramesAtOrAbove drops every run frame owned by a container at
// depth >= closingDepth. Safe to trim from the tail only: entryDepth is
// non-decreasing bottom-to-top (see runFrame's doc comment).
func (rc *runContext) popRunFramesAtOrAbove(closingDepth int) {
	i := len(rc.run)
	for i > 0 && rc.run[i-1].entryDepth >= closingDepth {
		i--
	}
	rc.run = rc.run[:i]
}

// findMatchingClose scans forward from a container's Open byte to the
// offset of its matching Close, tracking bracket depth and string state
// with the same backslash-parity rule as classifyBytewise. It touches only
// the bytes of the one subtree being measured, not the whole document; its
// cost is proportional to that subtree's size, so nested composite matches
// scan the same bytes once per enclosing match.
func findMatchingClose(doc *Document, openOffset int) (int, error) {
	depth := 1
	insideString := false
	oddBackslash := false
	for i := openOffset + 1; i < doc.Len(); i++ {
		b := doc.Byte(i)
		if insideString {
			switch {
			case b == '\\':
				oddBackslash = !oddBackslash
			case b == '"' && !oddBackslash:
				insideString = false
				oddBackslash = false
			default:
				oddBackslash = false
			}
			continue
		}
		switch b {
		case '"':
			insideString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, &InputError{Msg: "unterminated container", Offset: openOffset}
}

func kindFromByte(b byte) ContainerKind {
	if b == '{' {
		return ContainerObject
	}
	return ContainerArray
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func skipWhitespaceForward(doc *Document, i int) int {
	for i < doc.Len() && isSpace(doc.Byte(i)) {
		i++
	}
	return i
}

func trimTrailingWhitespace(doc *Document, start, end int) int {
	for end > start && isSpace(doc.Byte(end-1)) {
		end--
	}
	return end
}

// extractPendingName re-reads the raw bytes preceding a Colon event to
// recover the member name's interior span, per spec.md §4 ("the engine
// ... re-reads raw bytes for member-name extraction"). It scans backward
// over whitespace to the closing quote, then backward again over the name
// content to the matching unescaped opening quote, so an escaped quote
// (\") inside the name is never mistaken for its delimiter.
func extractPendingName(doc *Document, colonOffset int) (start, end int, err error) {
	i := colonOffset - 1
	for i >= 0 && isSpace(doc.Byte(i)) {
		i--
	}
	if i < 0 || doc.Byte(i) != '"' {
		return 0, 0, &InputError{Msg: "expected quoted name before ':'", Offset: colonOffset}
	}
	end = i

	j := i - 1
	for j >= 0 {
		if doc.Byte(j) == '"' {
			k := j - 1
			backslashes := 0
			for k >= 0 && doc.Byte(k) == '\\' {
				backslashes++
				k--
			}
			if backslashes%2 == 0 {
				return j + 1, end, nil
			}
			j = k
			continue
		}
		j--
	}
	return 0, 0, &InputError{Msg: "unterminated member name", Offset: colonOffset}
}
