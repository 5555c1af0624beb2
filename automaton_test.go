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

import "testing"

// TestBuildAutomatonBareRoot is spec.md §4.6: a zero-segment query yields a
// single state that already accepts, matching only the root value.
func TestBuildAutomatonBareRoot(t *testing.T) {
	a, err := BuildAutomaton(Query{})
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	if len(a.States) != 1 {
		t.Fatalf("len(States) = %d, want 1", len(a.States))
	}
	if a.Start != 0 {
		t.Errorf("Start = %d, want 0", a.Start)
	}
	if !a.States[0].Accepts {
		t.Errorf("States[0].Accepts = false, want true")
	}
	if len(a.States[0].Child) != 0 || len(a.States[0].Descendant) != 0 {
		t.Errorf("States[0] has transitions, want none")
	}
}

// TestBuildAutomatonOneStatePerSegment is spec.md §4.6's construction table:
// one new state per segment, wired as a Child or Descendant transition
// depending on the segment's kind, with only the final state accepting.
func TestBuildAutomatonOneStatePerSegment(t *testing.T) {
	q := Query{Segments: []Segment{
		{Kind: SegmentDescendant, Selector: NameSelector([]byte("a"))},
		{Kind: SegmentChild, Selector: WildcardSelector()},
	}}
	a, err := BuildAutomaton(q)
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	if len(a.States) != 3 {
		t.Fatalf("len(States) = %d, want 3", len(a.States))
	}
	if a.Start != 0 {
		t.Errorf("Start = %d, want 0", a.Start)
	}
	start := a.States[0]
	if len(start.Child) != 0 || len(start.Descendant) != 1 {
		t.Fatalf("start state transitions = %+v, want one Descendant", start)
	}
	if start.Descendant[0].Target != 1 {
		t.Errorf("start Descendant target = %d, want 1", start.Descendant[0].Target)
	}
	if start.Accepts {
		t.Errorf("start state accepts, want false")
	}

	mid := a.States[1]
	if len(mid.Descendant) != 0 || len(mid.Child) != 1 {
		t.Fatalf("mid state transitions = %+v, want one Child", mid)
	}
	if mid.Child[0].Target != 2 {
		t.Errorf("mid Child target = %d, want 2", mid.Child[0].Target)
	}
	if mid.Accepts {
		t.Errorf("mid state accepts, want false")
	}

	final := a.States[2]
	if !final.Accepts {
		t.Errorf("final state does not accept, want true")
	}
	if len(final.Child) != 0 || len(final.Descendant) != 0 {
		t.Errorf("final state has outgoing transitions, want none")
	}
}

// TestBuildAutomatonRejectsZeroStepSlice is spec.md §7/§9: a slice selector
// with step == 0 is syntactically well-formed but semantically undefined
// (the reference JSONPath grammar forbids it), so the automaton builder
// surfaces it as a QueryFeatureError rather than looping forever or
// silently matching nothing.
func TestBuildAutomatonRejectsZeroStepSlice(t *testing.T) {
	q := Query{Segments: []Segment{
		{Kind: SegmentChild, Selector: SliceSelector(0, 5, 0)},
	}}
	_, err := BuildAutomaton(q)
	if err == nil {
		t.Fatal("BuildAutomaton: want error, got nil")
	}
	if kind, ok := Kind(err); !ok || kind != KindQueryFeatureError {
		t.Errorf("Kind(err) = (%v, %v), want (KindQueryFeatureError, true)", kind, ok)
	}
}

// TestBuildAutomatonAcceptsNonZeroStepSlice is the positive counterpart:
// any step >= 1 is accepted, including a step greater than the span width.
func TestBuildAutomatonAcceptsNonZeroStepSlice(t *testing.T) {
	q := Query{Segments: []Segment{
		{Kind: SegmentChild, Selector: SliceSelector(0, 5, 7)},
	}}
	a, err := BuildAutomaton(q)
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	if len(a.States) != 2 || !a.States[1].Accepts {
		t.Fatalf("States = %+v, want 2 states with the second accepting", a.States)
	}
}

// TestBuildAutomatonLongChainIndicesAreSequential checks state indices
// stay a simple 0..n sequence across a longer query, since engine.go's
// runFrame bookkeeping addresses states by bare int index.
func TestBuildAutomatonLongChainIndicesAreSequential(t *testing.T) {
	q := Query{Segments: []Segment{
		{Kind: SegmentChild, Selector: NameSelector([]byte("a"))},
		{Kind: SegmentChild, Selector: IndexSelector(0)},
		{Kind: SegmentDescendant, Selector: WildcardSelector()},
		{Kind: SegmentChild, Selector: NameSelector([]byte("b"))},
	}}
	a, err := BuildAutomaton(q)
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	if len(a.States) != 5 {
		t.Fatalf("len(States) = %d, want 5", len(a.States))
	}
	for i := 0; i < 4; i++ {
		var target int
		switch {
		case len(a.States[i].Child) == 1:
			target = a.States[i].Child[0].Target
		case len(a.States[i].Descendant) == 1:
			target = a.States[i].Descendant[0].Target
		default:
			t.Fatalf("state %d has no single outgoing transition: %+v", i, a.States[i])
		}
		if target != i+1 {
			t.Errorf("state %d targets %d, want %d", i, target, i+1)
		}
		if a.States[i].Accepts {
			t.Errorf("state %d accepts, want only the final state to", i)
		}
	}
	if !a.States[4].Accepts {
		t.Errorf("final state does not accept, want true")
	}
}
