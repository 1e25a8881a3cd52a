package muxer

import "errors"

// Sentinel errors matching the taxonomy in spec.md §7. Call sites wrap
// these with fmt.Errorf("%w", ...) for additional context where
// useful, but callers should compare against these with errors.Is.
var (
	// ErrNotInitialized is returned by any push/flush/get call made
	// before Init succeeds.
	ErrNotInitialized = errors.New("muxer: not initialized")

	// ErrAlreadyInitialized is returned by a second call to Init; the
	// first init stands.
	ErrAlreadyInitialized = errors.New("muxer: already initialized")

	// ErrMissingCodecParameters is returned by Init when SPS or PPS is
	// empty.
	ErrMissingCodecParameters = errors.New("muxer: missing SPS or PPS")

	// ErrAudioNotConfigured is returned by PushAudio when the track
	// config has no audio fields set.
	ErrAudioNotConfigured = errors.New("muxer: audio not configured")
)
