package muxer

import "fmp4mux/box"

// fallbackSingleSampleDuration is used when a segment contains only
// one video sample and there is no adjacent interval to measure
// (3000 ticks = one frame at 30fps in a 90000 timescale).
const fallbackSingleSampleDuration = 3000

// videoSampleDurations computes each sample's duration by the
// interpolation rule in spec.md §4.4: the interval to the next
// sample, with the last sample reusing the previous interval (or the
// fallback constant for a single-sample segment). This is the single
// shared helper serialization and cumulative state update both use,
// so invariant 3 (exact tfdt continuity) cannot drift between them.
func videoSampleDurations(samples []VideoSample) []uint32 {
	n := len(samples)
	durations := make([]uint32, n)
	if n == 0 {
		return durations
	}
	if n == 1 {
		durations[0] = fallbackSingleSampleDuration
		return durations
	}
	for i := 0; i < n-1; i++ {
		durations[i] = uint32(samples[i+1].DTSTicks - samples[i].DTSTicks)
	}
	durations[n-1] = durations[n-2]
	return durations
}

// sumDurations sums a slice of per-sample tick durations; shared so
// the serialized trun sum and the cumulative decode-time advance can
// never independently diverge.
func sumDurations(durations []uint32) uint64 {
	var total uint64
	for _, d := range durations {
		total += uint64(d)
	}
	return total
}

func sumAudioDurations(samples []AudioSample) uint64 {
	var total uint64
	for _, s := range samples {
		total += uint64(s.DurationTicks)
	}
	return total
}

func videoSampleFlags(s VideoSample) uint32 {
	if s.IsSync {
		return box.SyncSampleFlags
	}
	return box.NonSyncSampleFlags
}

// buildMoof constructs the moof tree for one segment given the data
// offsets for video/audio within the following mdat. Called twice per
// segment: once with offset 0 to measure moof_size, once with the
// real offsets to produce the final bytes — trun's marshaled size
// never depends on the offset values, so both builds are the same
// size.
func buildMoof(
	sequenceNumber uint32,
	videoSamples []VideoSample,
	videoDurations []uint32,
	videoDataOffset int32,
	videoTfdt uint64,
	audioSamples []AudioSample,
	audioDataOffset int32,
	audioTfdt uint64,
	hasAudio bool,
) box.Tree {
	videoEntries := make([]box.TrunEntry, len(videoSamples))
	for i, s := range videoSamples {
		videoEntries[i] = box.TrunEntry{
			Duration:              videoDurations[i],
			Size:                   uint32(len(s.Data)),
			Flags:                  videoSampleFlags(s),
			CompositionTimeOffset: int32(s.PTSTicks) - int32(s.DTSTicks),
		}
	}

	videoTraf := box.Tree{
		Box: box.Traf(),
		Children: []box.Tree{
			{Box: box.Tfhd{TrackID: videoTrackID}},
			{Box: box.Tfdt{BaseMediaDecodeTime: videoTfdt}},
			{Box: box.Trun{
				Version:    1,
				Flags:      box.VideoTrunFlags,
				DataOffset: videoDataOffset,
				Entries:    videoEntries,
			}},
		},
	}

	children := []box.Tree{
		{Box: box.Mfhd{SequenceNumber: sequenceNumber}},
		videoTraf,
	}

	if hasAudio {
		audioEntries := make([]box.TrunEntry, len(audioSamples))
		for i, s := range audioSamples {
			audioEntries[i] = box.TrunEntry{Duration: s.DurationTicks, Size: uint32(len(s.Data))}
		}
		audioTraf := box.Tree{
			Box: box.Traf(),
			Children: []box.Tree{
				{Box: box.Tfhd{TrackID: audioTrackID}},
				{Box: box.Tfdt{BaseMediaDecodeTime: audioTfdt}},
				{Box: box.Trun{
					Version:    0,
					Flags:      box.AudioTrunFlags,
					DataOffset: audioDataOffset,
					Entries:    audioEntries,
				}},
			},
		}
		children = append(children, audioTraf)
	}

	return box.Tree{Box: box.Moof(), Children: children}
}

// buildSegment runs the two-pass moof construction and concatenates
// moof, mdat header, video sample data (in push order) and audio
// sample data (in push order).
func buildSegment(
	sequenceNumber uint32,
	videoSamples []VideoSample,
	videoDurations []uint32,
	videoTfdt uint64,
	audioSamples []AudioSample,
	audioTfdt uint64,
	hasAudio bool,
) []byte {
	var videoDataBytes, audioDataBytes int
	for _, s := range videoSamples {
		videoDataBytes += len(s.Data)
	}
	for _, s := range audioSamples {
		audioDataBytes += len(s.Data)
	}

	placeholder := buildMoof(sequenceNumber, videoSamples, videoDurations, 0, videoTfdt, audioSamples, 0, audioTfdt, hasAudio)
	moofSize := placeholder.Size()

	videoDataOffset := int32(moofSize + 8)
	audioDataOffset := videoDataOffset + int32(videoDataBytes)

	final := buildMoof(sequenceNumber, videoSamples, videoDurations, videoDataOffset, videoTfdt, audioSamples, audioDataOffset, audioTfdt, hasAudio)

	mdatSize := 8 + videoDataBytes + audioDataBytes
	out := box.Encode(final)

	mdatHeader := []byte{
		byte(mdatSize >> 24), byte(mdatSize >> 16), byte(mdatSize >> 8), byte(mdatSize),
		'm', 'd', 'a', 't',
	}
	out = append(out, mdatHeader...)
	for _, s := range videoSamples {
		out = append(out, s.Data...)
	}
	for _, s := range audioSamples {
		out = append(out, s.Data...)
	}
	return out
}
