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

// Package rsonpath implements a single-pass, single-threaded JSONPath
// query engine over a byte buffer, without building an intermediate
// parse tree or decoding scalar values it does not need to inspect.
//
// The typical entry points are Compile, to turn a Query into a reusable
// Automaton, and Engine.Run (or the CountMatches/Nodes/Spans shortcuts),
// to execute it over a Document and collect matches through a Sink.
package rsonpath

// Compile builds a reusable Automaton from a Query, per spec.md §4.6. The
// result is safe to share across goroutines and across multiple Engine
// instances; it carries no per-run state.
func Compile(q Query) (*Automaton, error) {
	return BuildAutomaton(q)
}

// CountMatches runs q against doc and returns only the number of matches,
// without materializing spans or node bytes — the cheapest of the three
// modes, since the engine calls neither OnSpan nor OnNode and never slices
// out a matched value.
func CountMatches(doc *Document, q Query) (int, error) {
	autom, err := Compile(q)
	if err != nil {
		return 0, err
	}
	sink := &CountSink{}
	n, err := NewEngine(autom).Run(doc, ModeCount, sink)
	if err != nil {
		if k, ok := Kind(err); !ok || k != KindSinkAborted {
			return n, err
		}
	}
	return n, nil
}

// Spans runs q against doc and returns every match as a [start, end) byte
// range into doc, in document order.
func Spans(doc *Document, q Query) ([][2]int, error) {
	autom, err := Compile(q)
	if err != nil {
		return nil, err
	}
	sink := &SpanSink{}
	if _, err := NewEngine(autom).Run(doc, ModeSpans, sink); err != nil {
		if k, ok := Kind(err); !ok || k != KindSinkAborted {
			return nil, err
		}
	}
	return sink.Spans, nil
}

// Nodes runs q against doc and returns every match as an independently
// owned byte slice, in document order. Each slice is a copy: unlike the
// Sink.OnNode contract, the caller may retain these past the call.
func Nodes(doc *Document, q Query) ([][]byte, error) {
	autom, err := Compile(q)
	if err != nil {
		return nil, err
	}
	sink := &NodeSink{}
	if _, err := NewEngine(autom).Run(doc, ModeNodes, sink); err != nil {
		if k, ok := Kind(err); !ok || k != KindSinkAborted {
			return nil, err
		}
	}
	return sink.Nodes, nil
}
