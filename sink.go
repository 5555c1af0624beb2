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

// Signal is returned by every Sink callback to tell the engine whether to
// keep going, per spec.md §6 ("Each sink operation returns a
// Continue/Stop signal").
type Signal uint8

const (
	Continue Signal = iota
	Stop
)

// Sink receives matches as the engine finds them, in document order
// (spec.md §5 "Ordering"). The Mode passed to Engine.Run decides the
// per-match callback: OnSpan in ModeSpans, OnNode in ModeNodes, and
// neither in ModeCount. OnCount is called once at the very end with the
// final tally. Grounded on the
// teacher's ForEach(func(Iter) error) callback style
// (examples/simdjson_example.go), adapted to the Continue/Stop signal
// spec.md §6 specifies instead of a plain error return.
type Sink interface {
	// OnSpan reports a match as a byte range [start, end) into the
	// document that produced it.
	OnSpan(start, end int) Signal
	// OnNode reports a match as a borrowed view of D[start:end). The
	// slice is only valid until the next engine call; sinks that need to
	// retain it must copy.
	OnNode(b []byte) Signal
	// OnCount reports the final number of matches once the run
	// completes. It is never called mid-run.
	OnCount(n int) Signal
}

// Mode selects which Sink callback the engine drives per match.
type Mode uint8

const (
	ModeSpans Mode = iota
	ModeNodes
	ModeCount
)

// SpanSink implements Sink by recording (start, end) pairs, discarding
// OnNode/OnCount. Useful for tests and for callers who only need offsets.
type SpanSink struct {
	Spans [][2]int
}

func (s *SpanSink) OnSpan(start, end int) Signal {
	s.Spans = append(s.Spans, [2]int{start, end})
	return Continue
}
func (s *SpanSink) OnNode([]byte) Signal { return Continue }
func (s *SpanSink) OnCount(int) Signal   { return Continue }

// NodeSink implements Sink by recording materialized byte slices. The
// engine only guarantees OnNode's argument is valid until the next call,
// so NodeSink copies.
type NodeSink struct {
	Nodes [][]byte
}

func (s *NodeSink) OnSpan(int, int) Signal { return Continue }
func (s *NodeSink) OnNode(b []byte) Signal {
	cp := make([]byte, len(b))
	copy(cp, b)
	s.Nodes = append(s.Nodes, cp)
	return Continue
}
func (s *NodeSink) OnCount(int) Signal { return Continue }

// CountSink implements Sink by only tracking the final count.
type CountSink struct {
	Count int
}

func (s *CountSink) OnSpan(int, int) Signal { return Continue }
func (s *CountSink) OnNode([]byte) Signal   { return Continue }
func (s *CountSink) OnCount(n int) Signal {
	s.Count = n
	return Continue
}
