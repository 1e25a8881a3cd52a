package muxer

import "testing"

// topLevelBox is a parsed top-level box: typ is its 4-byte tag, and
// payload is everything after its 8-byte header (its own fields plus
// any children, concatenated) — i.e. exactly what box.Tree.Marshal
// writes after the header for that node.
type topLevelBox struct {
	typ     string
	payload []byte
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// parseBoxes walks a flat concatenation of [size][tag][payload] boxes
// and returns each one.
func parseBoxes(t *testing.T, data []byte) []topLevelBox {
	t.Helper()
	var out []topLevelBox
	pos := 0
	for pos+8 <= len(data) {
		size := int(beUint32(data[pos : pos+4]))
		if size < 8 || pos+size > len(data) {
			t.Fatalf("malformed box at offset %d: size=%d remaining=%d", pos, size, len(data)-pos)
		}
		typ := string(data[pos+4 : pos+8])
		out = append(out, topLevelBox{typ: typ, payload: data[pos+8 : pos+size]})
		pos += size
	}
	return out
}

func splitTopLevelBoxes(t *testing.T, data []byte) []topLevelBox {
	t.Helper()
	return parseBoxes(t, data)
}

func boxTypesOf(boxes []topLevelBox) []string {
	out := make([]string, len(boxes))
	for i, b := range boxes {
		out[i] = b.typ
	}
	return out
}

// findBox returns the payload of the first direct child of container
// (a concatenation of boxes, as produced by parseBoxes) whose tag
// matches typ.
func findBox(t *testing.T, container []byte, typ string) []byte {
	t.Helper()
	for _, b := range parseBoxes(t, container) {
		if b.typ == typ {
			return b.payload
		}
	}
	t.Fatalf("box %q not found", typ)
	return nil
}

// findAllBoxes returns the payloads of every direct child of container
// whose tag matches typ, in order.
func findAllBoxes(t *testing.T, container []byte, typ string) [][]byte {
	t.Helper()
	var out [][]byte
	for _, b := range parseBoxes(t, container) {
		if b.typ == typ {
			out = append(out, b.payload)
		}
	}
	return out
}
