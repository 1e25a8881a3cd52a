// Package aacconfig builds and parses the 2-byte MPEG-4 AudioSpecificConfig
// this muxer embeds in the esds descriptor, using the same bit-level
// approach as the teacher's MPEG4AudioConfig.
package aacconfig

import (
	"bytes"

	"github.com/icza/bitio"
)

// AACLC is the only audioObjectType this muxer ever synthesizes.
const AACLC = 2

// samplingFrequencyIndexTable is the ISO/IEC 14496-3 Table 1.16
// sampling-frequency index, keyed by rate in Hz.
var samplingFrequencyIndexTable = map[uint32]uint8{
	96000: 0,
	88200: 1,
	64000: 2,
	48000: 3,
	44100: 4,
	32000: 5,
	24000: 6,
	22050: 7,
	16000: 8,
	12000: 9,
	11025: 10,
	8000:  11,
	7350:  12,
}

// defaultSamplingFrequencyIndex is used for rates absent from the
// table (spec.md §4.3: "unknown rates fall back to index 3" = 48000).
const defaultSamplingFrequencyIndex = 3

// SamplingFrequencyIndex maps a sample rate to its ISO table index,
// falling back to index 3 (48kHz) for rates the table doesn't list.
func SamplingFrequencyIndex(sampleRate uint32) uint8 {
	if idx, ok := samplingFrequencyIndexTable[sampleRate]; ok {
		return idx
	}
	return defaultSamplingFrequencyIndex
}

// Build packs audioObjectType=2 (AAC-LC), the sampling-frequency index
// for sampleRate, and channelConfiguration (clamped to 7) into the
// 2-byte AudioSpecificConfig.
func Build(sampleRate uint32, channels uint16) []byte {
	chanConfig := channels
	if chanConfig > 7 {
		chanConfig = 7
	}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	w.WriteBits(uint64(AACLC), 5)                                  //nolint:errcheck
	w.WriteBits(uint64(SamplingFrequencyIndex(sampleRate)), 4) //nolint:errcheck
	w.WriteBits(uint64(chanConfig), 4)                             //nolint:errcheck
	// Pad the remaining 3 bits of the 2-byte result with zero.
	w.WriteBits(0, 3) //nolint:errcheck
	_ = w.Close()

	out := buf.Bytes()
	if len(out) < 2 {
		out = append(out, make([]byte, 2-len(out))...)
	}
	return out[:2]
}

// Decoded is the (audioObjectType, samplingFrequencyIndex,
// channelConfiguration) triple recovered from a 2-byte
// AudioSpecificConfig.
type Decoded struct {
	AudioObjectType          uint8
	SamplingFrequencyIndex   uint8
	ChannelConfiguration     uint8
}

// Decode parses the leading 13 bits of a 2-byte AudioSpecificConfig.
func Decode(asc []byte) Decoded {
	r := bitio.NewReader(bytes.NewReader(asc))
	objType, _ := r.ReadBits(5)
	freqIdx, _ := r.ReadBits(4)
	chanConfig, _ := r.ReadBits(4)
	return Decoded{
		AudioObjectType:        uint8(objType),
		SamplingFrequencyIndex: uint8(freqIdx),
		ChannelConfiguration:   uint8(chanConfig),
	}
}
