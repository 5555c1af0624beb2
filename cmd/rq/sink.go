package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/V0ldek/rsonpath"
)

// cliSink adapts rsonpath.Sink to the CLI's output contract (spec.md §6:
// "matching results go to standard output"): one line per match for
// nodes/spans, a single trailing line with the total for count.
type cliSink struct {
	mode rsonpath.Mode
	w    *bufio.Writer
}

func newCLISink(mode rsonpath.Mode, w io.Writer) *cliSink {
	return &cliSink{mode: mode, w: bufio.NewWriter(w)}
}

func (s *cliSink) OnSpan(start, end int) rsonpath.Signal {
	fmt.Fprintf(s.w, "%d %d\n", start, end)
	return rsonpath.Continue
}

func (s *cliSink) OnNode(b []byte) rsonpath.Signal {
	s.w.Write(b)
	s.w.WriteByte('\n')
	return rsonpath.Continue
}

func (s *cliSink) OnCount(n int) rsonpath.Signal {
	if s.mode == rsonpath.ModeCount {
		fmt.Fprintf(s.w, "%d\n", n)
	}
	return rsonpath.Continue
}

func (s *cliSink) flush() error { return s.w.Flush() }
