// Package ctok tokenizes C source into a dense, ordered, lossless sequence
// of tokens (§4.B, §4.C). It performs no semantic analysis of C: it is a
// pure lexical classifier over an immutable byte buffer.
package ctok

// Span is a zero-copy half-open view `[start, end)` into an immutable byte
// buffer. Span values never outlive the buffer they reference, and never
// mutate it. Slicing past the end of a Span's own range is a programmer
// error: Sub panics rather than returning an error, matching §4.A's
// "reading past end is a programmer error, not a runtime error".
type Span struct {
	buf        []byte
	start, end int
}

// NewSpan creates a Span over the whole of buf.
func NewSpan(buf []byte) Span {
	return Span{buf: buf, start: 0, end: len(buf)}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.end - s.start
}

// Start returns the absolute byte offset of the span's first byte.
func (s Span) Start() int {
	return s.start
}

// End returns the absolute byte offset one past the span's last byte.
func (s Span) End() int {
	return s.end
}

// ByteAt returns the byte at index i relative to the span. Panics if i is
// out of range.
func (s Span) ByteAt(i int) byte {
	if i < 0 || s.start+i >= s.end {
		panic("ctok: ByteAt index out of range")
	}

	return s.buf[s.start+i]
}

// Sub returns the sub-span `[start, end)` relative to the span's own
// coordinate space. Panics if the range is not `0 <= start <= end <= Len()`.
func (s Span) Sub(start, end int) Span {
	if start < 0 || end < start || s.start+end > s.end {
		panic("ctok: Sub range out of bounds")
	}

	return Span{buf: s.buf, start: s.start + start, end: s.start + end}
}

// Bytes returns the raw bytes covered by the span. The caller must not
// mutate the returned slice.
func (s Span) Bytes() []byte {
	return s.buf[s.start:s.end]
}

// String returns the span's bytes as a string (for diagnostics; not a hot path).
func (s Span) String() string {
	return string(s.Bytes())
}
