package box

// Container is a box with no payload of its own, just a tag and a
// list of children — moov, trak, mdia, minf, stbl, dinf, mvex, moof
// and traf are all pure containers in this format.
type Container struct {
	typ Type
}

// Type returns the container's tag.
func (c Container) Type() Type { return c.typ }

// Size is always 0; the container carries no payload.
func (c Container) Size() int { return 0 }

// Marshal is a no-op; Tree skips calling it because Size() == 0.
func (c Container) Marshal(buf []byte, pos *int) {}

func container(tag string) Container {
	var t Type
	copy(t[:], tag)
	return Container{typ: t}
}

// Moov is the movie box.
func Moov() Box { return container("moov") }

// Trak is a track box.
func Trak() Box { return container("trak") }

// Mdia is the media box.
func Mdia() Box { return container("mdia") }

// Minf is the media information box.
func Minf() Box { return container("minf") }

// Stbl is the sample table box.
func Stbl() Box { return container("stbl") }

// Dinf is the data information box.
func Dinf() Box { return container("dinf") }

// Mvex is the movie extends box.
func Mvex() Box { return container("mvex") }

// Moof is the movie fragment box.
func Moof() Box { return container("moof") }

// Traf is the track fragment box.
func Traf() Box { return container("traf") }
