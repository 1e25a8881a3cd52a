package h264nal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnexBToAVCC(t *testing.T) {
	// S5.
	in := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0xC0, 0x1E,
		0x00, 0x00, 0x00, 0x01, 0x68, 0xCE, 0x3C, 0x80,
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x04, 0x67, 0x42, 0xC0, 0x1E,
		0x00, 0x00, 0x00, 0x04, 0x68, 0xCE, 0x3C, 0x80,
	}
	require.Equal(t, want, AnnexBToAVCC(in))
}

func TestAnnexBToAVCCNoStartCodesYieldsEmpty(t *testing.T) {
	got := AnnexBToAVCC([]byte{0x01, 0x02, 0x03})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestAnnexBToAVCCPrefersFourByteStartCode(t *testing.T) {
	in := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0xAA}
	got := AnnexBToAVCC(in)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x02, 0x65, 0xAA}, got)
}

func TestAVCCAnnexBRoundTrip(t *testing.T) {
	// Property 5: annex_b_to_avcc(avcc_to_annex_b(x)) == x for a
	// canonical AVCC string whose NAL bytes contain no start-code
	// emulation prefixes.
	x := []byte{
		0x00, 0x00, 0x00, 0x04, 0x67, 0x42, 0xC0, 0x1E,
		0x00, 0x00, 0x00, 0x02, 0x65, 0xAA,
	}
	annexB := AVCCToAnnexB(x)
	roundTripped := AnnexBToAVCC(annexB)
	require.Equal(t, x, roundTripped)
}
