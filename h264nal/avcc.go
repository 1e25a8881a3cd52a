// Package h264nal implements the H.264 boundary utilities the muxer
// needs: Annex-B <-> AVCC conversion, and parsing/building the avcC
// decoder configuration record.
package h264nal

import "fmt"

// defaultProfile, defaultCompat, defaultLevel are used when the SPS is
// too short to read real profile/compat/level bytes from.
const (
	defaultProfile = 0x42
	defaultCompat  = 0x00
	defaultLevel   = 0x1e
)

// ExtractSPSPPS parses an AVC decoder configuration record and returns
// the first SPS and first PPS it carries. Any additional parameter
// sets are ignored (spec.md §9, open question 3): this muxer only
// ever emits a single SPS/PPS pair.
func ExtractSPSPPS(avcC []byte) (sps, pps []byte, err error) {
	if len(avcC) < 7 {
		return nil, nil, ErrAvcCTooShort
	}
	if avcC[0] != 1 {
		return nil, nil, ErrAvcCBadVersion
	}

	numSPS := int(avcC[5] & 0x1f)
	if numSPS < 1 {
		return nil, nil, ErrAvcCZeroSPS
	}

	pos := 6
	for i := 0; i < numSPS; i++ {
		if pos+2 > len(avcC) {
			return nil, nil, ErrAvcCTruncatedSPSLen
		}
		length := int(avcC[pos])<<8 | int(avcC[pos+1])
		pos += 2
		if pos+length > len(avcC) {
			return nil, nil, ErrAvcCTruncatedSPS
		}
		if i == 0 {
			sps = append([]byte(nil), avcC[pos:pos+length]...)
		}
		pos += length
	}

	if pos+1 > len(avcC) {
		return nil, nil, ErrAvcCTruncatedPPSCount
	}
	numPPS := int(avcC[pos])
	pos++
	if numPPS < 1 {
		return nil, nil, ErrAvcCZeroPPS
	}

	for i := 0; i < numPPS; i++ {
		if pos+2 > len(avcC) {
			return nil, nil, ErrAvcCTruncatedPPSLen
		}
		length := int(avcC[pos])<<8 | int(avcC[pos+1])
		pos += 2
		if pos+length > len(avcC) {
			return nil, nil, ErrAvcCTruncatedPPS
		}
		if i == 0 {
			pps = append([]byte(nil), avcC[pos:pos+length]...)
		}
		pos += length
	}

	return sps, pps, nil
}

// ProfileCompatLevel reads the profile_idc/profile_compatibility/level_idc
// triple from SPS bytes 1-3, falling back to a conservative default if
// the SPS is too short.
func ProfileCompatLevel(sps []byte) (profile, compat, level byte) {
	if len(sps) < 4 {
		return defaultProfile, defaultCompat, defaultLevel
	}
	return sps[1], sps[2], sps[3]
}

// BuildAvcC assembles a minimal avcC byte string (configurationVersion
// 1, a single SPS, a single PPS) suitable for round-tripping through
// ExtractSPSPPS.
func BuildAvcC(sps, pps []byte) ([]byte, error) {
	if len(sps) == 0 {
		return nil, fmt.Errorf("h264nal: empty SPS: %w", ErrAvcCZeroSPS)
	}
	if len(pps) == 0 {
		return nil, fmt.Errorf("h264nal: empty PPS: %w", ErrAvcCZeroPPS)
	}
	profile, compat, level := ProfileCompatLevel(sps)

	out := make([]byte, 0, 11+len(sps)+len(pps))
	out = append(out, 1, profile, compat, level, 0xff, 0xe1)
	out = append(out, byte(len(sps)>>8), byte(len(sps)))
	out = append(out, sps...)
	out = append(out, 1)
	out = append(out, byte(len(pps)>>8), byte(len(pps)))
	out = append(out, pps...)
	return out, nil
}
