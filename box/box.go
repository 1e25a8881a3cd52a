package box

// Type is a 4-byte ISO BMFF box tag, e.g. "ftyp", "moov", "trun".
type Type [4]byte

// Box is a single ISO BMFF box's payload: its own fields, excluding
// the 8-byte [size][tag] header which Tree adds.
type Box interface {
	// Type returns the box's 4-byte tag.
	Type() Type

	// Size returns the marshaled payload size in bytes, not counting
	// the 8-byte header. Must be computed without side effects so it
	// can be called once per box ahead of Marshal.
	Size() int

	// Marshal writes the payload (not the header) to buf starting at
	// *pos, advancing pos by exactly Size() bytes.
	Marshal(buf []byte, pos *int)
}

// Tree is a box together with its nested child boxes. Building a
// nested structure (Tree with Children) and calling Size()/Marshal()
// on the root is how every multi-box structure in this package is
// assembled — moov, moof, trak, traf, stbl, and so on are all Trees.
type Tree struct {
	Box      Box
	Children []Tree
}

// Size returns the full marshaled size of the tree, header included.
func (t *Tree) Size() int {
	total := 8 + t.Box.Size()
	for i := range t.Children {
		total += t.Children[i].Size()
	}
	return total
}

// Marshal writes the tree's header, payload, and children in order.
func (t *Tree) Marshal(buf []byte, pos *int) {
	size := t.Size()
	WriteUint32(buf, pos, uint32(size))
	typ := t.Box.Type()
	WriteBytes(buf, pos, typ[:])

	// A box whose own payload is empty (a pure container, e.g. moov,
	// trak, stbl) has size == 8; its Marshal is a no-op but we still
	// skip calling it so container boxes need not implement a
	// meaningful Marshal.
	if t.Box.Size() > 0 {
		t.Box.Marshal(buf, pos)
	}

	for i := range t.Children {
		t.Children[i].Marshal(buf, pos)
	}
}

// Encode allocates a buffer of exactly Size() bytes and marshals the
// tree into it.
func Encode(t Tree) []byte {
	buf := make([]byte, t.Size())
	pos := 0
	t.Marshal(buf, &pos)
	return buf
}
