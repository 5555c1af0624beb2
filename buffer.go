package rsonpath

// blockSize is the width, in bytes, of the aligned window the classifiers
// scan at a time. spec.md allows B in {32, 64}; 64 is used throughout so a
// single block always covers a uint64 bitmap one-to-one.
const blockSize = 64

// Document is a padded, read-only byte region addressable in aligned
// blocks of blockSize bytes. The padding lets the classifiers always read
// a full block past the logical end without bounds-checking every access,
// mirroring the tail-padding discipline in stage1_find_marks.go
// (paddingSpaces64) and stage1_find_marks_amd64.go's 128-byte safety copy
// for a short final block.
type Document struct {
	data    []byte // logical bytes followed by at least blockSize bytes of padding
	n       int    // logical length, data[n:] is padding
	nBlocks int    // number of full blockSize windows covering [0, n)
}

// NewDocument copies b into a padded buffer. The input is never retained;
// callers that already have spare capacity past len(b) may prefer
// WrapDocument to avoid the copy.
func NewDocument(b []byte) *Document {
	padded := make([]byte, len(b)+blockSize)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = ' '
	}
	return &Document{
		data:    padded,
		n:       len(b),
		nBlocks: (len(b) + blockSize - 1) / blockSize,
	}
}

// WrapDocument adapts an existing slice that already reserves at least
// blockSize bytes of trailing capacity, per spec.md §6 ("the caller may
// obtain this via memory mapping or by reading into an allocation that
// reserves the padding"). n is the logical length; b[n:] is padded with
// spaces in place up to cap(b) or n+blockSize, whichever is smaller.
func WrapDocument(b []byte, n int) (*Document, error) {
	if n > len(b) {
		return nil, &InputError{Msg: "logical length exceeds buffer length"}
	}
	if cap(b)-n < blockSize {
		return nil, &InputError{Msg: "buffer does not reserve a full block of tail padding"}
	}
	full := b[:n+blockSize]
	for i := n; i < len(full); i++ {
		full[i] = ' '
	}
	return &Document{
		data:    full,
		n:       n,
		nBlocks: (n + blockSize - 1) / blockSize,
	}, nil
}

// Len returns the logical length of the document, excluding padding.
func (d *Document) Len() int { return d.n }

// Byte returns the byte at absolute offset i. i may range over the padded
// region as well as the logical region, since callers legitimately peek
// one byte past the last structural event while skipping whitespace.
func (d *Document) Byte(i int) byte { return d.data[i] }

// Slice returns the raw bytes D[start:end). Both ends must be within the
// padded region; callers never slice past d.n+blockSize.
func (d *Document) Slice(start, end int) []byte { return d.data[start:end] }

// Block returns the aligned blockSize-byte window starting at i, which
// must be a multiple of blockSize and less than d.nBlocks*blockSize. The
// final block may include padding bytes.
func (d *Document) Block(i int) []byte { return d.data[i : i+blockSize] }

// NumBlocks returns the number of aligned blocks needed to cover Len().
func (d *Document) NumBlocks() int { return d.nBlocks }
