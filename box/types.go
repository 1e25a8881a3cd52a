package box

func tag(s string) Type {
	var t Type
	copy(t[:], s)
	return t
}

// ---- ftyp ----

// Ftyp is the file type box.
type Ftyp struct {
	MajorBrand       string
	MinorVersion     uint32
	CompatibleBrands []string
}

func (f Ftyp) Type() Type { return tag("ftyp") }

func (f Ftyp) Size() int {
	return 4 + 4 + 4*len(f.CompatibleBrands)
}

func (f Ftyp) Marshal(buf []byte, pos *int) {
	WriteBytes(buf, pos, []byte(f.MajorBrand))
	WriteUint32(buf, pos, f.MinorVersion)
	for _, b := range f.CompatibleBrands {
		WriteBytes(buf, pos, []byte(b))
	}
}

// ---- mvhd ----

// Mvhd is the movie header box (version 0).
type Mvhd struct {
	Timescale   uint32
	Duration    uint32
	NextTrackID uint32
}

func (m Mvhd) Type() Type { return tag("mvhd") }

func (m Mvhd) Size() int {
	fb := FullBox{}
	return fb.Size() + 4 + 4 + 4 + 4 + 4 + 2 + 2 + 4 + 4 + 9*4 + 6*4 + 4
}

func (m Mvhd) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // creation_time
	WriteUint32(buf, pos, 0) // modification_time
	WriteUint32(buf, pos, m.Timescale)
	WriteUint32(buf, pos, m.Duration)
	WriteUint32(buf, pos, 0x00010000) // rate 1.0
	WriteUint16(buf, pos, 0x0100)     // volume 1.0
	WriteUint16(buf, pos, 0)          // reserved
	WriteUint32(buf, pos, 0)          // reserved[0]
	WriteUint32(buf, pos, 0)          // reserved[1]
	for _, v := range identityMatrix {
		WriteUint32(buf, pos, uint32(v))
	}
	for i := 0; i < 6; i++ {
		WriteUint32(buf, pos, 0) // pre_defined
	}
	WriteUint32(buf, pos, m.NextTrackID)
}

var identityMatrix = [9]int32{
	0x00010000, 0, 0,
	0, 0x00010000, 0,
	0, 0, 0x40000000,
}

// ---- tkhd ----

// Tkhd is the track header box (version 0, flags 0x000003).
type Tkhd struct {
	TrackID       uint32
	Width, Height uint32 // 16.16 fixed point
	Volume        uint16 // 0x0100 for audio, 0 for video
}

func (t Tkhd) Type() Type { return tag("tkhd") }

func (t Tkhd) Size() int {
	return FullBox{}.Size() + 4 + 4 + 4 + 4 + 4 + 2*4 + 2 + 2 + 2 + 2 + 9*4 + 4 + 4
}

func (t Tkhd) Marshal(buf []byte, pos *int) {
	FullBox{Version: 0, Flags: Flags24(0x000003)}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // creation_time
	WriteUint32(buf, pos, 0) // modification_time
	WriteUint32(buf, pos, t.TrackID)
	WriteUint32(buf, pos, 0) // reserved
	WriteUint32(buf, pos, 0) // duration
	WriteUint32(buf, pos, 0) // reserved2[0]
	WriteUint32(buf, pos, 0) // reserved2[1]
	WriteUint16(buf, pos, 0) // layer
	WriteUint16(buf, pos, 0) // alternate_group
	WriteUint16(buf, pos, t.Volume)
	WriteUint16(buf, pos, 0) // reserved3
	for _, v := range identityMatrix {
		WriteUint32(buf, pos, uint32(v))
	}
	WriteUint32(buf, pos, t.Width)
	WriteUint32(buf, pos, t.Height)
}

// ---- mdhd ----

// isoLangUnd is "und" packed as ISO 639-2/T: each letter is (c - 0x60),
// 5 bits each, with the high bit reserved at 0.
const isoLangUnd = uint16(0x55C4)

// Mdhd is the media header box (version 0).
type Mdhd struct {
	Timescale uint32
}

func (m Mdhd) Type() Type { return tag("mdhd") }

func (m Mdhd) Size() int {
	return FullBox{}.Size() + 4 + 4 + 4 + 4 + 2 + 2
}

func (m Mdhd) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // creation_time
	WriteUint32(buf, pos, 0) // modification_time
	WriteUint32(buf, pos, m.Timescale)
	WriteUint32(buf, pos, 0) // duration
	WriteUint16(buf, pos, isoLangUnd)
	WriteUint16(buf, pos, 0) // pre_defined
}

// ---- hdlr ----

// Hdlr is the handler reference box (version 0).
type Hdlr struct {
	HandlerType string // "vide" or "soun"
	Name        string
}

func (h Hdlr) Type() Type { return tag("hdlr") }

func (h Hdlr) Size() int {
	return FullBox{}.Size() + 4 + 4 + 3*4 + len(h.Name) + 1
}

func (h Hdlr) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // pre_defined
	WriteBytes(buf, pos, []byte(h.HandlerType))
	WriteUint32(buf, pos, 0) // reserved[0]
	WriteUint32(buf, pos, 0) // reserved[1]
	WriteUint32(buf, pos, 0) // reserved[2]
	WriteString(buf, pos, h.Name)
}

// ---- vmhd ----

// Vmhd is the video media header box (version 0, flags 1).
type Vmhd struct{}

func (v Vmhd) Type() Type { return tag("vmhd") }
func (v Vmhd) Size() int  { return FullBox{}.Size() + 2 + 2*3 }
func (v Vmhd) Marshal(buf []byte, pos *int) {
	FullBox{Version: 0, Flags: Flags24(1)}.Marshal(buf, pos)
	WriteUint16(buf, pos, 0) // graphicsmode
	WriteUint16(buf, pos, 0) // opcolor[0]
	WriteUint16(buf, pos, 0) // opcolor[1]
	WriteUint16(buf, pos, 0) // opcolor[2]
}

// ---- smhd ----

// Smhd is the sound media header box (version 0).
type Smhd struct{}

func (s Smhd) Type() Type { return tag("smhd") }
func (s Smhd) Size() int  { return FullBox{}.Size() + 2 + 2 }
func (s Smhd) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint16(buf, pos, 0) // balance
	WriteUint16(buf, pos, 0) // reserved
}

// ---- dref / url ----

// Dref is the data reference box (version 0); always holds exactly
// one self-contained url box.
type Dref struct{}

func (d Dref) Type() Type { return tag("dref") }
func (d Dref) Size() int  { return FullBox{}.Size() + 4 }
func (d Dref) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 1) // entry_count
}

// Url is a self-contained data entry url box (flags 1, no payload).
type Url struct{}

func (u Url) Type() Type { return tag("url ") }
func (u Url) Size() int  { return FullBox{}.Size() }
func (u Url) Marshal(buf []byte, pos *int) {
	FullBox{Version: 0, Flags: Flags24(1)}.Marshal(buf, pos)
}

// ---- stsd ----

// Stsd is the sample description box (version 0); always holds
// exactly one sample entry (avc1 or mp4a).
type Stsd struct{}

func (s Stsd) Type() Type { return tag("stsd") }
func (s Stsd) Size() int  { return FullBox{}.Size() + 4 }
func (s Stsd) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 1) // entry_count
}

// ---- empty sample tables ----

// Stts is the empty time-to-sample box (version 0, zero entries).
type Stts struct{}

func (s Stts) Type() Type                     { return tag("stts") }
func (s Stts) Size() int                      { return FullBox{}.Size() + 4 }
func (s Stts) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // entry_count
}

// Stsc is the empty sample-to-chunk box (version 0, zero entries).
type Stsc struct{}

func (s Stsc) Type() Type { return tag("stsc") }
func (s Stsc) Size() int  { return FullBox{}.Size() + 4 }
func (s Stsc) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // entry_count
}

// Stsz is the empty sample-size box (version 0, zero entries).
type Stsz struct{}

func (s Stsz) Type() Type { return tag("stsz") }
func (s Stsz) Size() int  { return FullBox{}.Size() + 4 + 4 }
func (s Stsz) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // sample_size
	WriteUint32(buf, pos, 0) // sample_count
}

// Stco is the empty chunk-offset box (version 0, zero entries).
type Stco struct{}

func (s Stco) Type() Type { return tag("stco") }
func (s Stco) Size() int  { return FullBox{}.Size() + 4 }
func (s Stco) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, 0) // entry_count
}

// ---- btrt ----

// Btrt is the bitrate box: fixed, static-value, no FullBox header.
type Btrt struct {
	BufferSizeDB, MaxBitrate, AvgBitrate uint32
}

func (b Btrt) Type() Type { return tag("btrt") }
func (b Btrt) Size() int  { return 4 + 4 + 4 }
func (b Btrt) Marshal(buf []byte, pos *int) {
	WriteUint32(buf, pos, b.BufferSizeDB)
	WriteUint32(buf, pos, b.MaxBitrate)
	WriteUint32(buf, pos, b.AvgBitrate)
}

// ---- avc1 / avcC ----

// Avc1 is the AVC video sample entry's fixed fields; the avcC (and
// btrt) boxes are attached as Tree children alongside it.
type Avc1 struct {
	Width, Height uint16
}

func (a Avc1) Type() Type { return tag("avc1") }
func (a Avc1) Size() int  { return 6 + 2 + 2 + 2 + 3*4 + 2 + 2 + 4 + 4 + 4 + 2 + 32 + 2 + 2 }
func (a Avc1) Marshal(buf []byte, pos *int) {
	for i := 0; i < 6; i++ {
		WriteByte(buf, pos, 0) // reserved
	}
	WriteUint16(buf, pos, 1) // data_reference_index
	WriteUint16(buf, pos, 0) // pre_defined
	WriteUint16(buf, pos, 0) // reserved
	for i := 0; i < 3; i++ {
		WriteUint32(buf, pos, 0) // pre_defined[3]
	}
	WriteUint16(buf, pos, a.Width)
	WriteUint16(buf, pos, a.Height)
	WriteUint32(buf, pos, 0x00480000) // horizresolution 72dpi
	WriteUint32(buf, pos, 0x00480000) // vertresolution 72dpi
	WriteUint32(buf, pos, 0)          // reserved
	WriteUint16(buf, pos, 1)          // frame_count
	for i := 0; i < 32; i++ {
		WriteByte(buf, pos, 0) // compressorname
	}
	WriteUint16(buf, pos, 0x0018) // depth
	WriteUint16(buf, pos, 0xFFFF) // pre_defined = -1
}

// AvcC is the AVC decoder configuration record box.
type AvcC struct {
	Profile, Compat, Level byte
	SPS, PPS               []byte
}

func (a AvcC) Type() Type { return tag("avcC") }
func (a AvcC) Size() int  { return 1 + 1 + 1 + 1 + 1 + 1 + 2 + len(a.SPS) + 1 + 2 + len(a.PPS) }
func (a AvcC) Marshal(buf []byte, pos *int) {
	WriteByte(buf, pos, 1) // configurationVersion
	WriteByte(buf, pos, a.Profile)
	WriteByte(buf, pos, a.Compat)
	WriteByte(buf, pos, a.Level)
	WriteByte(buf, pos, 0xff) // reserved(6)=111111, lengthSizeMinusOne=11
	WriteByte(buf, pos, 0xe1) // reserved(3)=111, numOfSequenceParameterSets=00001
	WriteUint16(buf, pos, uint16(len(a.SPS)))
	WriteBytes(buf, pos, a.SPS)
	WriteByte(buf, pos, 1) // numOfPictureParameterSets
	WriteUint16(buf, pos, uint16(len(a.PPS)))
	WriteBytes(buf, pos, a.PPS)
}

// ---- mp4a / esds ----

// Mp4a is the AAC audio sample entry's fixed fields; esds (and btrt)
// are attached as Tree children alongside it.
type Mp4a struct {
	ChannelCount uint16
	SampleRate   uint32 // Hz
}

func (m Mp4a) Type() Type { return tag("mp4a") }
func (m Mp4a) Size() int  { return 6 + 2 + 2*4 + 2 + 2 + 2 + 2 + 4 }
func (m Mp4a) Marshal(buf []byte, pos *int) {
	for i := 0; i < 6; i++ {
		WriteByte(buf, pos, 0) // reserved
	}
	WriteUint16(buf, pos, 1) // data_reference_index
	WriteUint32(buf, pos, 0) // reserved2[0]
	WriteUint32(buf, pos, 0) // reserved2[1]
	WriteUint16(buf, pos, m.ChannelCount)
	WriteUint16(buf, pos, 16) // sample_size
	WriteUint16(buf, pos, 0)  // pre_defined
	WriteUint16(buf, pos, 0)  // reserved3
	WriteUint32(buf, pos, m.SampleRate<<16)
}

// descriptor wraps payload in an ISO/IEC 14496-1 tag + expandable
// length header: lengths below 0x80 use one byte, otherwise a
// four-byte form with the high bit set on the first three.
func descriptor(t byte, payload []byte) []byte {
	length := len(payload)
	var out []byte
	if length < 0x80 {
		out = []byte{t, byte(length)}
	} else {
		out = []byte{
			t,
			byte(0x80 | ((length >> 21) & 0x7f)),
			byte(0x80 | ((length >> 14) & 0x7f)),
			byte(0x80 | ((length >> 7) & 0x7f)),
			byte(length & 0x7f),
		}
	}
	return append(out, payload...)
}

// aacBitrateBytes is the static 128000 bps value spec.md pins for both
// the max and average bitrate fields of the DecoderConfigDescriptor.
var aacBitrateBytes = []byte{0x00, 0x01, 0xF4, 0x00}

// Esds is the ES descriptor box wrapping an AudioSpecificConfig.
type Esds struct {
	payload []byte
}

// NewEsds builds the descriptor tree: ES_Descriptor(DecoderConfigDescriptor(
// DecoderSpecificInfo(asc)), SLConfigDescriptor).
func NewEsds(asc []byte) Esds {
	dsi := descriptor(0x05, asc)
	slc := descriptor(0x06, []byte{0x02})

	dcdPayload := []byte{0x40, 0x15, 0x00, 0x00, 0x00} // objectType, streamType|reserved, bufferSizeDB(24)
	dcdPayload = append(dcdPayload, aacBitrateBytes...) // maxBitrate
	dcdPayload = append(dcdPayload, aacBitrateBytes...) // avgBitrate
	dcdPayload = append(dcdPayload, dsi...)
	dcd := descriptor(0x04, dcdPayload)

	esPayload := []byte{0x00, 0x00, 0x00} // ES_ID(u16)=0, flags=0
	esPayload = append(esPayload, dcd...)
	esPayload = append(esPayload, slc...)
	es := descriptor(0x03, esPayload)

	return Esds{payload: es}
}

func (e Esds) Type() Type { return tag("esds") }
func (e Esds) Size() int  { return FullBox{}.Size() + len(e.payload) }
func (e Esds) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteBytes(buf, pos, e.payload)
}

// ---- mvex / trex ----

// Trex is the track extends box (version 0).
type Trex struct {
	TrackID uint32
}

func (t Trex) Type() Type { return tag("trex") }
func (t Trex) Size() int  { return FullBox{}.Size() + 4*5 }
func (t Trex) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, t.TrackID)
	WriteUint32(buf, pos, 1) // default_sample_description_index
	WriteUint32(buf, pos, 0) // default_sample_duration
	WriteUint32(buf, pos, 0) // default_sample_size
	WriteUint32(buf, pos, 0) // default_sample_flags
}

// ---- mfhd ----

// Mfhd is the movie fragment header box (version 0).
type Mfhd struct {
	SequenceNumber uint32
}

func (m Mfhd) Type() Type { return tag("mfhd") }
func (m Mfhd) Size() int  { return FullBox{}.Size() + 4 }
func (m Mfhd) Marshal(buf []byte, pos *int) {
	FullBox{}.Marshal(buf, pos)
	WriteUint32(buf, pos, m.SequenceNumber)
}

// ---- tfhd ----

// TfhdFlags is the literal tfhd flags value this format always uses:
// default-base-is-moof, no other per-track defaults.
const TfhdFlags = 0x020000

// Tfhd is the track fragment header box.
type Tfhd struct {
	TrackID uint32
}

func (t Tfhd) Type() Type { return tag("tfhd") }
func (t Tfhd) Size() int  { return FullBox{}.Size() + 4 }
func (t Tfhd) Marshal(buf []byte, pos *int) {
	FullBox{Version: 0, Flags: Flags24(TfhdFlags)}.Marshal(buf, pos)
	WriteUint32(buf, pos, t.TrackID)
}

// ---- tfdt ----

// Tfdt is the track fragment decode time box (version 1, 64-bit).
type Tfdt struct {
	BaseMediaDecodeTime uint64
}

func (t Tfdt) Type() Type { return tag("tfdt") }
func (t Tfdt) Size() int  { return FullBox{}.Size() + 8 }
func (t Tfdt) Marshal(buf []byte, pos *int) {
	FullBox{Version: 1}.Marshal(buf, pos)
	WriteUint64(buf, pos, t.BaseMediaDecodeTime)
}

// ---- trun ----

const (
	// VideoTrunFlags: data-offset | sample-duration | sample-size |
	// sample-flags | sample-composition-time-offsets present.
	VideoTrunFlags = 0x000F01
	// AudioTrunFlags: data-offset | sample-duration | sample-size present.
	AudioTrunFlags = 0x000301

	trunFlagDataOffset  = 0x000001
	trunFlagDuration    = 0x000100
	trunFlagSize        = 0x000200
	trunFlagSampleFlags = 0x000400
	trunFlagCTS         = 0x000800

	// SyncSampleFlags / NonSyncSampleFlags are the literal flags_i
	// words for video trun entries.
	SyncSampleFlags    = 0x02000000
	NonSyncSampleFlags = 0x01010000
)

// TrunEntry is one sample's per-entry fields in a trun box. Which
// fields are actually marshaled is controlled by the enclosing Trun's
// Flags.
type TrunEntry struct {
	Duration              uint32
	Size                   uint32
	Flags                  uint32
	CompositionTimeOffset int32
}

// Trun is the track run box.
type Trun struct {
	Version    uint8
	Flags      uint32
	DataOffset int32
	Entries    []TrunEntry
}

func (t Trun) fullBox() FullBox { return FullBox{Version: t.Version, Flags: Flags24(t.Flags)} }

func (t Trun) entrySize() int {
	size := 0
	if t.Flags&trunFlagDuration != 0 {
		size += 4
	}
	if t.Flags&trunFlagSize != 0 {
		size += 4
	}
	if t.Flags&trunFlagSampleFlags != 0 {
		size += 4
	}
	if t.Flags&trunFlagCTS != 0 {
		size += 4
	}
	return size
}

func (t Trun) Type() Type { return tag("trun") }

func (t Trun) Size() int {
	size := t.fullBox().Size() + 4 // sample_count
	if t.Flags&trunFlagDataOffset != 0 {
		size += 4
	}
	size += t.entrySize() * len(t.Entries)
	return size
}

func (t Trun) Marshal(buf []byte, pos *int) {
	t.fullBox().Marshal(buf, pos)
	WriteUint32(buf, pos, uint32(len(t.Entries)))
	if t.Flags&trunFlagDataOffset != 0 {
		WriteUint32(buf, pos, uint32(t.DataOffset))
	}
	for _, e := range t.Entries {
		if t.Flags&trunFlagDuration != 0 {
			WriteUint32(buf, pos, e.Duration)
		}
		if t.Flags&trunFlagSize != 0 {
			WriteUint32(buf, pos, e.Size)
		}
		if t.Flags&trunFlagSampleFlags != 0 {
			WriteUint32(buf, pos, e.Flags)
		}
		if t.Flags&trunFlagCTS != 0 {
			WriteUint32(buf, pos, uint32(e.CompositionTimeOffset))
		}
	}
}
