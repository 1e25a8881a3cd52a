package muxer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() TrackConfig {
	return TrackConfig{
		VideoWidth:          1280,
		VideoHeight:         720,
		VideoTimescale:      90000,
		FragmentDurationMS:  2000,
		SPS:                 []byte{0x67, 0x42, 0xC0, 0x1E, 0xD9, 0x00, 0x50, 0x05, 0xBA, 0x10},
		PPS:                 []byte{0x68, 0xCE, 0x3C, 0x80},
	}
}

// S1: video-only, single keyframe.
func TestSingleKeyframeSegment(t *testing.T) {
	m := New()
	require.NoError(t, m.Init(testConfig()))

	frame := []byte{0x00, 0x00, 0x00, 0x09, 0x65, 0, 0, 0, 0, 0, 0, 0, 0}
	require.NoError(t, m.PushVideo(frame, 0, true))

	file, err := m.GetCompleteFile()
	require.NoError(t, err)
	require.Equal(t, "ftyp", string(file[4:8]))

	segments := splitTopLevelBoxes(t, file)
	require.Contains(t, boxTypesOf(segments), "moov")

	m2 := New()
	require.NoError(t, m2.Init(testConfig()))
	require.NoError(t, m2.PushVideo(frame, 0, true))
	require.NoError(t, m2.ForceFlush())
	pending, err := m2.GetPendingSegments()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	seg := pending[0]
	top := splitTopLevelBoxes(t, seg)
	require.Equal(t, []string{"moof", "mdat"}, boxTypesOf(top))

	moof := top[0].payload
	require.Equal(t, uint32(1), beUint32(findBox(t, moof, "mfhd")[4:8])) // sequence_number

	traf := findBox(t, moof, "traf")
	tfdt := findBox(t, traf, "tfdt")
	// version(1 byte)=1, flags(3)=0, base_media_decode_time(8 bytes) at [4:12]
	require.Equal(t, uint64(0), beUint64(tfdt[4:12]))

	trun := findBox(t, traf, "trun")
	// fullbox(4) + sample_count(4) + data_offset(4) + duration(4) + size(4) + flags(4) + cts(4)
	sampleCount := beUint32(trun[4:8])
	require.Equal(t, uint32(1), sampleCount)
	duration := beUint32(trun[12:16])
	size := beUint32(trun[16:20])
	flags := beUint32(trun[20:24])
	require.Equal(t, uint32(3000), duration)
	require.Equal(t, uint32(13), size)
	require.Equal(t, uint32(0x02000000), flags)
}

// S2: 30 frames at 30fps in one segment.
func TestThirtyFrameSegment(t *testing.T) {
	m := New()
	require.NoError(t, m.Init(testConfig()))

	for i := 0; i < 30; i++ {
		frame := []byte{0x00, 0x00, 0x00, 0x01, 0x61}
		require.NoError(t, m.PushVideo(frame, uint64(i)*33333, i == 0))
	}
	require.NoError(t, m.ForceFlush())
	pending, err := m.GetPendingSegments()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	top := splitTopLevelBoxes(t, pending[0])
	moof := top[0].payload
	traf := findBox(t, moof, "traf")
	trun := findBox(t, traf, "trun")
	require.Equal(t, uint32(30), beUint32(trun[4:8]))
}

// S3: A/V with audio duration rounding.
func TestAudioDurationRounding(t *testing.T) {
	cfg := testConfig()
	cfg.AudioSampleRate = 48000
	cfg.AudioChannels = 2

	m := New()
	require.NoError(t, m.Init(cfg))

	for i := 0; i < 30; i++ {
		frame := []byte{0x00, 0x00, 0x00, 0x01, 0x61}
		require.NoError(t, m.PushVideo(frame, uint64(i)*33333, i == 0))
	}
	for i := 0; i < 90; i++ {
		require.NoError(t, m.PushAudio([]byte{0xAA, 0xBB}, uint64(i)*21333, 21333))
	}

	require.NoError(t, m.ForceFlush())
	pending, err := m.GetPendingSegments()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	top := splitTopLevelBoxes(t, pending[0])
	moof := top[0].payload
	trafs := findAllBoxes(t, moof, "traf")
	require.Len(t, trafs, 2)
	audioTrun := findBox(t, trafs[1], "trun")
	sampleCount := beUint32(audioTrun[4:8])
	require.Equal(t, uint32(90), sampleCount)
	firstDuration := beUint32(audioTrun[12:16])
	require.Equal(t, uint32(1024), firstDuration)

	require.Equal(t, uint64(90*1024), m.audioBaseMediaDecodeTime)
}

// S6: two-segment decode-time continuity.
func TestTwoSegmentDecodeTimeContinuity(t *testing.T) {
	cfg := testConfig()
	cfg.FragmentDurationMS = 500 // force two segments quickly
	m := New()
	require.NoError(t, m.Init(cfg))

	var i uint64
	for len(m.GetAllPending()) < 2 {
		frame := []byte{0x00, 0x00, 0x00, 0x01, 0x61}
		require.NoError(t, m.PushVideo(frame, i*33333, i == 0))
		i++
		if i > 1000 {
			t.Fatal("never flushed two segments")
		}
	}

	pending := m.GetAllPending()
	require.GreaterOrEqual(t, len(pending), 2)

	seg0Top := splitTopLevelBoxes(t, pending[0])
	seg1Top := splitTopLevelBoxes(t, pending[1])

	seg0Traf := findBox(t, seg0Top[0].payload, "traf")
	seg1Traf := findBox(t, seg1Top[0].payload, "traf")

	seg0Tfdt := findBox(t, seg0Traf, "tfdt")
	seg1Tfdt := findBox(t, seg1Traf, "tfdt")
	seg0Trun := findBox(t, seg0Traf, "trun")

	seg0TfdtValue := beUint64(seg0Tfdt[4:12])
	seg1TfdtValue := beUint64(seg1Tfdt[4:12])

	sampleCount := int(beUint32(seg0Trun[4:8]))
	var sum uint64
	for s := 0; s < sampleCount; s++ {
		off := 12 + s*16
		sum += uint64(beUint32(seg0Trun[off : off+4]))
	}

	require.Equal(t, seg0TfdtValue+sum, seg1TfdtValue)
}

func TestPushVideoBeforeInitFails(t *testing.T) {
	m := New()
	err := m.PushVideo([]byte{1, 2, 3}, 0, true)
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestFlushAndGetBeforeInitFail(t *testing.T) {
	m := New()
	require.ErrorIs(t, m.ForceFlush(), ErrNotInitialized)

	_, err := m.GetPendingSegments()
	require.ErrorIs(t, err, ErrNotInitialized)

	_, err = m.GetCompleteFile()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitTwiceFails(t *testing.T) {
	m := New()
	require.NoError(t, m.Init(testConfig()))
	err := m.Init(testConfig())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitMissingCodecParametersFails(t *testing.T) {
	cfg := testConfig()
	cfg.SPS = nil
	m := New()
	err := m.Init(cfg)
	require.ErrorIs(t, err, ErrMissingCodecParameters)
}

func TestPushAudioWithoutConfigFails(t *testing.T) {
	m := New()
	require.NoError(t, m.Init(testConfig()))
	err := m.PushAudio([]byte{1, 2}, 0, 21333)
	require.ErrorIs(t, err, ErrAudioNotConfigured)
}

func TestSequenceNumberMonotonic(t *testing.T) {
	cfg := testConfig()
	cfg.FragmentDurationMS = 500
	m := New()
	require.NoError(t, m.Init(cfg))

	for i := uint64(0); i < 60; i++ {
		frame := []byte{0x00, 0x00, 0x00, 0x01, 0x61}
		require.NoError(t, m.PushVideo(frame, i*33333, i == 0))
	}
	require.NoError(t, m.ForceFlush())
	pending := m.GetAllPending()
	require.GreaterOrEqual(t, len(pending), 2)

	var seqNums []uint32
	for _, seg := range pending {
		top := splitTopLevelBoxes(t, seg)
		mfhd := findBox(t, top[0].payload, "mfhd")
		seqNums = append(seqNums, beUint32(mfhd[4:8]))
	}
	for i := 1; i < len(seqNums); i++ {
		require.Equal(t, seqNums[i-1]+1, seqNums[i])
	}
	require.Equal(t, uint32(1), seqNums[0])
}

// GetAllPending is a test-only accessor that lets tests observe
// pending segments without draining them, unlike GetPendingSegments.
func (m *Muxer) GetAllPending() [][]byte {
	return m.pendingSegments
}
