// Package muxer assembles AVCC-framed H.264 video samples, and
// optional raw AAC audio samples, into a fragmented MP4 byte stream:
// one init segment (ftyp+moov) followed by any number of media
// segments (moof+mdat), per spec.md.
package muxer

// TrackConfig is the muxer's entire configuration surface. It is
// immutable once passed to Init.
type TrackConfig struct {
	VideoWidth, VideoHeight uint32

	// VideoTimescale defaults to 90000 if zero.
	VideoTimescale uint32

	// FragmentDurationMS is the auto-flush target segment length.
	FragmentDurationMS uint32

	// SPS, PPS are single NAL units without start codes. Both must be
	// non-empty.
	SPS, PPS []byte

	// Audio is configured if AudioSampleRate is non-zero.
	AudioSampleRate       uint32
	AudioChannels         uint16
	AudioTimescale        uint32 // defaults to AudioSampleRate if zero
	AudioSpecificConfig   []byte // auto-generated if absent
}

// HasAudio reports whether this config carries an audio track.
func (c TrackConfig) HasAudio() bool {
	return c.AudioSampleRate != 0
}

// resolvedVideoTimescale returns VideoTimescale, defaulting to 90000.
func (c TrackConfig) resolvedVideoTimescale() uint32 {
	if c.VideoTimescale == 0 {
		return 90000
	}
	return c.VideoTimescale
}

// resolvedAudioTimescale returns AudioTimescale, defaulting to the
// sample rate.
func (c TrackConfig) resolvedAudioTimescale() uint32 {
	if c.AudioTimescale == 0 {
		return c.AudioSampleRate
	}
	return c.AudioTimescale
}

// VideoSample is one pushed, AVCC-framed H.264 access unit.
type VideoSample struct {
	PTSTicks, DTSTicks uint64
	Data               []byte
	IsSync             bool
}

// AudioSample is one pushed, ADTS-less raw AAC access unit.
type AudioSample struct {
	PTSTicks      uint64
	Data          []byte
	DurationTicks uint32
}
