package cst

// Node is one entry in the flat CST node vector. StartTok/EndTok index the
// token slice the tree was built from, as a half-open range `[StartTok,
// EndTok)`. ByteStart/ByteLen mirror the same range in source-byte
// coordinates, for consumers that never look at the token slice at all.
type Node struct {
	Kind      Kind
	StartTok  uint32
	EndTok    uint32
	ByteStart int
	ByteLen   int
}
