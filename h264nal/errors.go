package h264nal

import "errors"

// Sentinel errors describing specific avcC malformations, wrapped with
// context via fmt.Errorf("%w", ...) at the call site.
var (
	ErrAvcCTooShort          = errors.New("h264nal: avcC shorter than 7 bytes")
	ErrAvcCBadVersion        = errors.New("h264nal: avcC configurationVersion is not 1")
	ErrAvcCZeroSPS           = errors.New("h264nal: avcC declares zero SPS")
	ErrAvcCTruncatedSPSLen   = errors.New("h264nal: avcC truncated reading SPS length")
	ErrAvcCTruncatedSPS      = errors.New("h264nal: avcC truncated reading SPS payload")
	ErrAvcCTruncatedPPSCount = errors.New("h264nal: avcC truncated reading PPS count")
	ErrAvcCTruncatedPPSLen   = errors.New("h264nal: avcC truncated reading PPS length")
	ErrAvcCTruncatedPPS      = errors.New("h264nal: avcC truncated reading PPS payload")
	ErrAvcCZeroPPS           = errors.New("h264nal: avcC declares zero PPS")
)
