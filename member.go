package rsonpath

import "bytes"

// matchesName implements spec.md §4.5: raw byte-for-byte comparison of a
// quoted name's interior bytes against a query's literal name, with no
// unicode normalization or \uXXXX decoding (spec.md §1 Non-goal 2).
func matchesName(raw []byte, literal []byte) bool {
	return bytes.Equal(raw, literal)
}
