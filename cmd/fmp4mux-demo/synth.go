package main

import "fmp4mux/h264nal"

// defaultSPS, defaultPPS are a minimal, syntactically valid baseline
// H.264 parameter set pair used for every run; the demo config has no
// SPS/PPS fields, so they cannot be overridden.
var (
	defaultSPS = []byte{0x67, 0x42, 0xC0, 0x1E, 0xD9, 0x00, 0x50, 0x05, 0xBA, 0x10}
	defaultPPS = []byte{0x68, 0xCE, 0x3C, 0x80}
)

// syntheticVideoFrame builds one fake AVCC-framed video access unit:
// a single NAL of nalSize payload bytes, keyframe on the first frame.
// It round-trips the NAL through Annex-B framing first to exercise
// the C2 boundary the way a real WebCodecs caller's conversion step
// would.
func syntheticVideoFrame(index int, nalSize int) (data []byte, isSync bool) {
	nal := make([]byte, nalSize)
	isSync = index == 0
	if isSync {
		nal[0] = 0x65 // IDR slice
	} else {
		nal[0] = 0x41 // non-IDR slice
	}
	for i := 1; i < nalSize; i++ {
		nal[i] = byte(index + i)
	}

	annexB := make([]byte, 0, nalSize+4)
	annexB = append(annexB, 0x00, 0x00, 0x00, 0x01)
	annexB = append(annexB, nal...)

	return h264nal.AnnexBToAVCC(annexB), isSync
}

// syntheticAudioFrame builds one fake raw AAC access unit of the
// given size.
func syntheticAudioFrame(index int, size int) []byte {
	au := make([]byte, size)
	for i := range au {
		au[i] = byte(index + i)
	}
	return au
}
