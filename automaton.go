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

// Transition is a (selector, target state) edge, per spec.md §3's
// automaton data model.
type Transition struct {
	Selector Selector
	Target   int
}

// State is one automaton state (spec.md §3): its child transitions, its
// descendant transitions (persistent — live at every depth greater than
// the state's entry depth, not just immediate children), and whether
// reaching it is itself a match.
type State struct {
	Child      []Transition
	Descendant []Transition
	Accepts    bool
}

// Automaton is the compiled form of a query (spec.md §3/§4.6): a directed
// graph with a designated start state and an accepting subset, expressed
// as tagged transitions rather than dynamic dispatch (spec.md §9).
type Automaton struct {
	States []State
	Start  int
}

// BuildAutomaton compiles a Query into an Automaton in one pass over its
// segment list, per spec.md §4.6's construction table: one state per
// segment boundary plus the start state, the final state marked
// accepting. A bare `$` (zero segments) yields a one-state automaton
// whose start state already accepts, matching the root value.
func BuildAutomaton(q Query) (*Automaton, error) {
	a := &Automaton{States: []State{{}}, Start: 0}
	cur := 0
	for _, seg := range q.Segments {
		if err := validateSelector(seg.Selector); err != nil {
			return nil, err
		}
		next := len(a.States)
		a.States = append(a.States, State{})
		tr := Transition{Selector: seg.Selector, Target: next}
		switch seg.Kind {
		case SegmentChild:
			a.States[cur].Child = append(a.States[cur].Child, tr)
		case SegmentDescendant:
			a.States[cur].Descendant = append(a.States[cur].Descendant, tr)
		default:
			return nil, &InternalAssertionError{Msg: "unknown segment kind"}
		}
		cur = next
	}
	a.States[cur].Accepts = true
	return a, nil
}

// validateSelector rejects selector shapes the automaton builder does
// not support, per spec.md §7's QueryFeatureError and §9's open question
// on step == 0.
func validateSelector(s Selector) error {
	if s.Kind == SelectorSlice && s.Step == 0 {
		return &QueryFeatureError{Msg: "slice step must be >= 1"}
	}
	return nil
}
