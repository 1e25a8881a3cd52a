package muxer

// Muxer is a single-use, single-threaded fMP4 state machine: init
// once, push samples, drain segments. It performs no I/O; callers own
// all bytes it returns.
type Muxer struct {
	cfg         TrackConfig
	initialized bool
	initSegment []byte

	videoSamples []VideoSample
	audioSamples []AudioSample

	videoSequenceNumber     uint32
	videoBaseMediaDecodeTime uint64
	audioBaseMediaDecodeTime uint64

	pendingSegments [][]byte

	videoFrameCount uint64
	audioFrameCount uint64
}

// New returns a fresh, uninitialized Muxer.
func New() *Muxer {
	return &Muxer{videoSequenceNumber: 1}
}

// Init builds the init segment from cfg. It may succeed at most once
// per Muxer.
func (m *Muxer) Init(cfg TrackConfig) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	initSegment, err := BuildInitSegment(cfg)
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.initSegment = initSegment
	m.initialized = true
	return nil
}

// PushVideo appends one AVCC-framed video sample and triggers the
// auto-flush check.
func (m *Muxer) PushVideo(data []byte, timestampUS uint64, isSync bool) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	ticks := timestampUS * uint64(m.cfg.resolvedVideoTimescale()) / 1_000_000

	cp := make([]byte, len(data))
	copy(cp, data)

	m.videoSamples = append(m.videoSamples, VideoSample{
		PTSTicks: ticks,
		DTSTicks: ticks,
		Data:     cp,
		IsSync:   isSync,
	})
	m.videoFrameCount++

	m.maybeAutoFlush()
	return nil
}

// PushAudio appends one raw AAC access unit. Audio never triggers a
// flush on its own; it rides along with the video cadence.
func (m *Muxer) PushAudio(data []byte, timestampUS uint64, durationUS uint64) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if !m.cfg.HasAudio() {
		return ErrAudioNotConfigured
	}

	timescale := uint64(m.cfg.resolvedAudioTimescale())
	ptsTicks := timestampUS * timescale / 1_000_000
	// Round rather than truncate: a 1024-sample frame at 48kHz is
	// 21333us, which truncates to 1023 ticks and drifts A/V sync over
	// many frames.
	durationTicks := uint32((durationUS*timescale + 500_000) / 1_000_000)

	cp := make([]byte, len(data))
	copy(cp, data)

	m.audioSamples = append(m.audioSamples, AudioSample{
		PTSTicks:      ptsTicks,
		Data:          cp,
		DurationTicks: durationTicks,
	})
	m.audioFrameCount++
	return nil
}

func (m *Muxer) maybeAutoFlush() {
	if len(m.videoSamples) < 2 {
		return
	}
	first := m.videoSamples[0].DTSTicks
	last := m.videoSamples[len(m.videoSamples)-1].DTSTicks
	durationMS := (last - first) * 1000 / uint64(m.cfg.resolvedVideoTimescale())
	if durationMS >= uint64(m.cfg.FragmentDurationMS) {
		m.flush()
	}
}

// ForceFlush emits a segment from whatever is currently buffered,
// bypassing the duration threshold. It is a no-op if there are no
// buffered video samples.
func (m *Muxer) ForceFlush() error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if len(m.videoSamples) == 0 {
		return nil
	}
	m.flush()
	return nil
}

func (m *Muxer) flush() {
	videoDurations := videoSampleDurations(m.videoSamples)

	segment := buildSegment(
		m.videoSequenceNumber,
		m.videoSamples,
		videoDurations,
		m.videoBaseMediaDecodeTime,
		m.audioSamples,
		m.audioBaseMediaDecodeTime,
		m.cfg.HasAudio(),
	)

	// Advance cumulative decode time by the exact same sums just
	// serialized, so invariant 3 holds with no accumulated rounding.
	m.videoBaseMediaDecodeTime += sumDurations(videoDurations)
	m.audioBaseMediaDecodeTime += sumAudioDurations(m.audioSamples)
	m.videoSequenceNumber++

	m.videoSamples = nil
	m.audioSamples = nil

	m.pendingSegments = append(m.pendingSegments, segment)
}

// GetPendingSegments drains and returns the finished media segments
// without concatenation, for streaming callers.
func (m *Muxer) GetPendingSegments() ([][]byte, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	segments := m.pendingSegments
	m.pendingSegments = nil
	return segments, nil
}

// GetCompleteFile force-flushes, concatenates the init segment with
// every pending media segment in order, drains pending, and returns
// the whole byte string.
func (m *Muxer) GetCompleteFile() ([]byte, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if err := m.ForceFlush(); err != nil {
		return nil, err
	}

	total := len(m.initSegment)
	for _, s := range m.pendingSegments {
		total += len(s)
	}

	out := make([]byte, 0, total)
	out = append(out, m.initSegment...)
	for _, s := range m.pendingSegments {
		out = append(out, s...)
	}
	m.pendingSegments = nil
	return out, nil
}

// VideoFrameCount returns the number of video samples pushed so far.
func (m *Muxer) VideoFrameCount() uint64 { return m.videoFrameCount }

// AudioFrameCount returns the number of audio samples pushed so far.
func (m *Muxer) AudioFrameCount() uint64 { return m.audioFrameCount }
