package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// readInput loads a FILE argument, transparently decompressing a
// ".zst"-suffixed file before returning its raw bytes. Compressed corpora
// are a named real use case for a multi-GB/s streaming query engine
// (SPEC_FULL.md §3); the teacher uses the same library
// (github.com/klauspost/compress) to compress a serialized tape on the
// way out, we use it to decompress a document on the way in.
func readInput(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return raw, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("initializing zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return out, nil
}
