package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fmp4mux/muxer"
)

// demoConfig is the on-disk shape of fmp4mux-demo.yaml, read by
// viper and mapped onto muxer.TrackConfig.
type demoConfig struct {
	VideoWidth          uint32 `mapstructure:"video_width"`
	VideoHeight         uint32 `mapstructure:"video_height"`
	VideoTimescale      uint32 `mapstructure:"video_timescale"`
	FragmentDurationMS  uint32 `mapstructure:"fragment_duration_ms"`
	FrameCount          int    `mapstructure:"frame_count"`
	FrameIntervalUS     uint64 `mapstructure:"frame_interval_us"`
	NALSize             int    `mapstructure:"nal_size"`

	WithAudio         bool   `mapstructure:"with_audio"`
	AudioSampleRate   uint32 `mapstructure:"audio_sample_rate"`
	AudioChannels     uint16 `mapstructure:"audio_channels"`
	AudioFrameSize    int    `mapstructure:"audio_frame_size"`
	AudioIntervalUS   uint64 `mapstructure:"audio_interval_us"`

	OutDir string `mapstructure:"out_dir"`
}

func defaultDemoConfig() demoConfig {
	return demoConfig{
		VideoWidth:         1280,
		VideoHeight:        720,
		VideoTimescale:     90000,
		FragmentDurationMS: 2000,
		FrameCount:         60,
		FrameIntervalUS:    33333,
		NALSize:            256,
		WithAudio:          true,
		AudioSampleRate:    48000,
		AudioChannels:      2,
		AudioFrameSize:     512,
		AudioIntervalUS:    21333,
		OutDir:             ".",
	}
}

var muxCmd = &cobra.Command{
	Use:   "mux",
	Short: "Synthesize sample data and mux it into a playable fMP4 file",
	RunE:  runMux,
}

func runMux(cmd *cobra.Command, args []string) error {
	cfg := defaultDemoConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("fmp4mux-demo: decoding config: %w", err)
	}

	trackCfg := muxer.TrackConfig{
		VideoWidth:         cfg.VideoWidth,
		VideoHeight:        cfg.VideoHeight,
		VideoTimescale:     cfg.VideoTimescale,
		FragmentDurationMS: cfg.FragmentDurationMS,
		SPS:                defaultSPS,
		PPS:                defaultPPS,
	}
	if cfg.WithAudio {
		trackCfg.AudioSampleRate = cfg.AudioSampleRate
		trackCfg.AudioChannels = cfg.AudioChannels
	}

	m := muxer.New()
	if err := m.Init(trackCfg); err != nil {
		return fmt.Errorf("fmp4mux-demo: init: %w", err)
	}

	for i := 0; i < cfg.FrameCount; i++ {
		data, isSync := syntheticVideoFrame(i, cfg.NALSize)
		ts := uint64(i) * cfg.FrameIntervalUS
		if err := m.PushVideo(data, ts, isSync); err != nil {
			return fmt.Errorf("fmp4mux-demo: push video %d: %w", i, err)
		}

		if cfg.WithAudio {
			audioData := syntheticAudioFrame(i, cfg.AudioFrameSize)
			audioTS := uint64(i) * cfg.AudioIntervalUS
			if err := m.PushAudio(audioData, audioTS, cfg.AudioIntervalUS); err != nil {
				return fmt.Errorf("fmp4mux-demo: push audio %d: %w", i, err)
			}
		}
	}

	file, err := m.GetCompleteFile()
	if err != nil {
		return fmt.Errorf("fmp4mux-demo: get complete file: %w", err)
	}

	name := fmt.Sprintf("clip-%s.mp4", uuid.NewString())
	path := cfg.OutDir + string(os.PathSeparator) + name
	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("fmp4mux-demo: writing %s: %w", path, err)
	}

	log.Printf("fmp4mux-demo: wrote %s (%d bytes, %d video frames)", path, len(file), m.VideoFrameCount())
	return nil
}
