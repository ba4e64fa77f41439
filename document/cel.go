package document

// CelData is the shared pixel storage owned by exactly one cel; a
// linked cel (see Cel) holds no CelData of its own and resolves to
// its target's CelData by lookup instead.
type CelData struct {
	Image *Image
}

// Cel is the content at one (layer, frame) intersection: either an
// owned CelData, or a link to another frame's cel on the same layer.
type Cel struct {
	Frame    int
	X, Y     int16
	Opacity  byte
	ZIndex   int16
	UserData UserData

	data          *CelData
	linked        bool
	linkedToFrame int
}

// NewCel returns a cel that owns img at offset (x, y).
func NewCel(x, y int16, img *Image) *Cel {
	return &Cel{X: x, Y: y, Opacity: 255, data: &CelData{Image: img}}
}

// NewLinkedCel returns a cel linked to targetFrame on the same
// layer. The target cel must not itself be linked; this constructor
// does not check that (the target may not exist yet when a linked
// cel is added), so a double link is only caught later, by
// Layer.ResolveImage returning an error.
func NewLinkedCel(targetFrame int) *Cel {
	return &Cel{Opacity: 255, linked: true, linkedToFrame: targetFrame}
}

// IsLinked reports whether this cel links to another frame rather
// than owning its own data.
func (c *Cel) IsLinked() bool {
	return c.linked
}

// LinkedToFrame returns the target frame and true if this cel is
// linked.
func (c *Cel) LinkedToFrame() (int, bool) {
	return c.linkedToFrame, c.linked
}

// Data returns the owned CelData, or nil if this cel is linked.
func (c *Cel) Data() *CelData {
	if c.linked {
		return nil
	}
	return c.data
}

// Clone returns an unlinked, deep copy of this cel. img is the
// resolved image to copy when c is linked (callers resolve via
// Layer.ResolveImage); for an owned cel, img may be nil and the
// cel's own image is cloned instead.
func (c *Cel) Clone(img *Image) *Cel {
	if img == nil && !c.linked {
		img = c.data.Image
	}
	return &Cel{
		Frame:    c.Frame,
		X:        c.X,
		Y:        c.Y,
		Opacity:  c.Opacity,
		ZIndex:   c.ZIndex,
		UserData: c.UserData,
		data:     &CelData{Image: img.Clone()},
	}
}
