package h264nal

type startCode struct {
	pos, length int
}

// findStartCodes locates every Annex-B start code in data, preferring
// the 4-byte form (00 00 00 01) over the 3-byte form (00 00 01) when
// both match at the same index.
func findStartCodes(data []byte) []startCode {
	var codes []startCode
	i := 0
	for i+3 <= len(data) {
		if data[i] == 0 && data[i+1] == 0 {
			if i+4 <= len(data) && data[i+2] == 0 && data[i+3] == 1 {
				codes = append(codes, startCode{pos: i, length: 4})
				i += 4
				continue
			}
			if data[i+2] == 1 {
				codes = append(codes, startCode{pos: i, length: 3})
				i += 3
				continue
			}
		}
		i++
	}
	return codes
}

// trimTrailingZeros strips zero-padding bytes immediately preceding
// the next start code; they are alignment padding, not NAL content.
func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

// AnnexBToAVCC converts Annex-B byte-stream H.264 (start-code
// delimited) into AVCC framing (4-byte big-endian length prefixes).
// Input with no start codes yields an empty, non-nil result.
func AnnexBToAVCC(data []byte) []byte {
	codes := findStartCodes(data)
	out := make([]byte, 0, len(data)+4*len(codes))

	for i, sc := range codes {
		start := sc.pos + sc.length
		end := len(data)
		if i+1 < len(codes) {
			end = codes[i+1].pos
		}
		nal := data[start:end]
		if i+1 < len(codes) {
			nal = trimTrailingZeros(nal)
		}

		var lenBuf [4]byte
		lenBuf[0] = byte(len(nal) >> 24)
		lenBuf[1] = byte(len(nal) >> 16)
		lenBuf[2] = byte(len(nal) >> 8)
		lenBuf[3] = byte(len(nal))
		out = append(out, lenBuf[:]...)
		out = append(out, nal...)
	}
	return out
}

// AVCCToAnnexB converts AVCC-framed H.264 (4-byte length prefixes)
// into Annex-B byte-stream form using the 4-byte start code for every
// NAL unit.
func AVCCToAnnexB(data []byte) []byte {
	out := make([]byte, 0, len(data))
	pos := 0
	for pos+4 <= len(data) {
		length := int(data[pos])<<24 | int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		pos += 4
		if pos+length > len(data) {
			break
		}
		out = append(out, 0x00, 0x00, 0x00, 0x01)
		out = append(out, data[pos:pos+length]...)
		pos += length
	}
	return out
}
