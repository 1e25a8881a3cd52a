// Package box implements low-level serialization of ISO BMFF boxes:
// a 4-byte big-endian size, a 4-byte tag, and a payload, with helpers
// for building the nested box trees that make up an fMP4 file.
package box

import "encoding/binary"

// WriteBytes writes len(p) bytes at buf[*pos:] and advances pos.
func WriteBytes(buf []byte, pos *int, p []byte) {
	*pos += copy(buf[*pos:], p)
}

// WriteByte writes a single byte.
func WriteByte(buf []byte, pos *int, v byte) {
	buf[*pos] = v
	*pos++
}

// WriteUint16 writes a big-endian uint16.
func WriteUint16(buf []byte, pos *int, v uint16) {
	binary.BigEndian.PutUint16(buf[*pos:], v)
	*pos += 2
}

// WriteUint32 writes a big-endian uint32.
func WriteUint32(buf []byte, pos *int, v uint32) {
	binary.BigEndian.PutUint32(buf[*pos:], v)
	*pos += 4
}

// WriteUint64 writes a big-endian uint64.
func WriteUint64(buf []byte, pos *int, v uint64) {
	binary.BigEndian.PutUint64(buf[*pos:], v)
	*pos += 8
}

// WriteString writes str followed by a single null terminator.
func WriteString(buf []byte, pos *int, str string) {
	WriteBytes(buf, pos, []byte(str))
	WriteByte(buf, pos, 0x00)
}
