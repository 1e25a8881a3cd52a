package muxer

import (
	"fmt"

	"fmp4mux/aacconfig"
	"fmp4mux/box"
	"fmp4mux/h264nal"
)

const (
	videoTrackID = 1
	audioTrackID = 2
)

// BuildInitSegment produces the ftyp+moov byte string for cfg. It
// fails if SPS or PPS is empty.
func BuildInitSegment(cfg TrackConfig) ([]byte, error) {
	if len(cfg.SPS) == 0 || len(cfg.PPS) == 0 {
		return nil, ErrMissingCodecParameters
	}

	ftyp := box.Tree{Box: box.Ftyp{
		MajorBrand:       "iso5",
		MinorVersion:     0,
		CompatibleBrands: []string{"iso5", "iso6", "mp41"},
	}}

	nextTrackID := uint32(2)
	if cfg.HasAudio() {
		nextTrackID = 3
	}

	moov := box.Tree{
		Box: box.Moov(),
		Children: []box.Tree{
			{Box: box.Mvhd{Timescale: cfg.resolvedVideoTimescale(), NextTrackID: nextTrackID}},
			buildMvex(cfg),
			buildVideoTrak(cfg),
		},
	}
	if cfg.HasAudio() {
		audioTrak, err := buildAudioTrak(cfg)
		if err != nil {
			return nil, err
		}
		moov.Children = append(moov.Children, audioTrak)
	}

	return append(box.Encode(ftyp), box.Encode(moov)...), nil
}

func buildMvex(cfg TrackConfig) box.Tree {
	children := []box.Tree{
		{Box: box.Trex{TrackID: videoTrackID}},
	}
	if cfg.HasAudio() {
		children = append(children, box.Tree{Box: box.Trex{TrackID: audioTrackID}})
	}
	return box.Tree{Box: box.Mvex(), Children: children}
}

func buildVideoTrak(cfg TrackConfig) box.Tree {
	profile, compat, level := h264nal.ProfileCompatLevel(cfg.SPS)

	avc1 := box.Tree{
		Box: box.Avc1{Width: uint16(cfg.VideoWidth), Height: uint16(cfg.VideoHeight)},
		Children: []box.Tree{
			{Box: box.AvcC{Profile: profile, Compat: compat, Level: level, SPS: cfg.SPS, PPS: cfg.PPS}},
			{Box: box.Btrt{MaxBitrate: 0, AvgBitrate: 0}},
		},
	}

	stbl := box.Tree{
		Box: box.Stbl(),
		Children: []box.Tree{
			{Box: box.Stsd(), Children: []box.Tree{avc1}},
			{Box: box.Stts{}},
			{Box: box.Stsc{}},
			{Box: box.Stsz{}},
			{Box: box.Stco{}},
		},
	}

	minf := box.Tree{
		Box: box.Minf(),
		Children: []box.Tree{
			{Box: box.Vmhd{}},
			{Box: box.Dinf(), Children: []box.Tree{{Box: box.Dref{}, Children: []box.Tree{{Box: box.Url{}}}}}},
			stbl,
		},
	}

	mdia := box.Tree{
		Box: box.Mdia(),
		Children: []box.Tree{
			{Box: box.Mdhd{Timescale: cfg.resolvedVideoTimescale()}},
			{Box: box.Hdlr{HandlerType: "vide", Name: "VideoHandler"}},
			minf,
		},
	}

	return box.Tree{
		Box: box.Trak(),
		Children: []box.Tree{
			{Box: box.Tkhd{TrackID: videoTrackID, Width: cfg.VideoWidth << 16, Height: cfg.VideoHeight << 16, Volume: 0}},
			mdia,
		},
	}
}

func buildAudioTrak(cfg TrackConfig) (box.Tree, error) {
	asc := cfg.AudioSpecificConfig
	if len(asc) == 0 {
		asc = aacconfig.Build(cfg.AudioSampleRate, cfg.AudioChannels)
	}
	if len(asc) == 0 {
		return box.Tree{}, fmt.Errorf("muxer: empty AudioSpecificConfig")
	}

	mp4a := box.Tree{
		Box: box.Mp4a{ChannelCount: cfg.AudioChannels, SampleRate: cfg.AudioSampleRate},
		Children: []box.Tree{
			{Box: box.NewEsds(asc)},
			{Box: box.Btrt{MaxBitrate: 0, AvgBitrate: 0}},
		},
	}

	stbl := box.Tree{
		Box: box.Stbl(),
		Children: []box.Tree{
			{Box: box.Stsd(), Children: []box.Tree{mp4a}},
			{Box: box.Stts{}},
			{Box: box.Stsc{}},
			{Box: box.Stsz{}},
			{Box: box.Stco{}},
		},
	}

	minf := box.Tree{
		Box: box.Minf(),
		Children: []box.Tree{
			{Box: box.Smhd{}},
			{Box: box.Dinf(), Children: []box.Tree{{Box: box.Dref{}, Children: []box.Tree{{Box: box.Url{}}}}}},
			stbl,
		},
	}

	mdia := box.Tree{
		Box: box.Mdia(),
		Children: []box.Tree{
			{Box: box.Mdhd{Timescale: cfg.resolvedAudioTimescale()}},
			{Box: box.Hdlr{HandlerType: "soun", Name: "SoundHandler"}},
			minf,
		},
	}

	return box.Tree{
		Box: box.Trak(),
		Children: []box.Tree{
			{Box: box.Tkhd{TrackID: audioTrackID, Width: 0, Height: 0, Volume: 0x0100}},
			mdia,
		},
	}, nil
}
