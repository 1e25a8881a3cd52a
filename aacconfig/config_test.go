package aacconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildIsTwoBytes(t *testing.T) {
	asc := Build(48000, 2)
	require.Len(t, asc, 2)
}

func TestSamplingFrequencyIndexTable(t *testing.T) {
	cases := []struct {
		rate uint32
		want uint8
	}{
		{96000, 0}, {88200, 1}, {64000, 2}, {48000, 3}, {44100, 4},
		{32000, 5}, {24000, 6}, {22050, 7}, {16000, 8}, {12000, 9},
		{11025, 10}, {8000, 11}, {7350, 12},
		{12345, 3}, // unknown rate falls back to index 3
	}
	for _, c := range cases {
		require.Equal(t, c.want, SamplingFrequencyIndex(c.rate), "rate %d", c.rate)
	}
}

func TestBuildDecodeRoundTrip(t *testing.T) {
	// Property 7.
	rates := []uint32{96000, 48000, 44100, 16000, 8000}
	channels := []uint16{1, 2, 6, 7, 8}
	for _, rate := range rates {
		for _, ch := range channels {
			asc := Build(rate, ch)
			d := Decode(asc)
			require.Equal(t, uint8(AACLC), d.AudioObjectType)
			require.Equal(t, SamplingFrequencyIndex(rate), d.SamplingFrequencyIndex)
			wantChan := ch
			if wantChan > 7 {
				wantChan = 7
			}
			require.Equal(t, uint8(wantChan), d.ChannelConfiguration)
		}
	}
}

func TestBuildKnownBytes(t *testing.T) {
	// 48kHz stereo AAC-LC: objType=00010, freqIdx=0011, chanConfig=0010, pad=000
	// bits: 0001 0001 1001 0000 -> bytes 0x11 0x90
	asc := Build(48000, 2)
	require.Equal(t, []byte{0x11, 0x90}, asc)
}
