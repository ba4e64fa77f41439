package document

import "fmt"

// LayerKind distinguishes the three layer variants. Layer is modelled
// as a single struct with a kind tag rather than an interface
// hierarchy so that flattening and index building can walk a single
// concrete type; only the fields relevant to a layer's Kind are used.
type LayerKind int

const (
	LayerKindImage LayerKind = iota
	LayerKindGroup
	LayerKindTilemap
)

// Layer is one node in the sprite's layer tree.
type Layer struct {
	Kind      LayerKind
	Name      string
	Flags     LayerFlags
	Opacity   byte
	BlendMode BlendMode
	Parent    *Layer // nil only for the root
	UserData  UserData

	// Children holds child layers for LayerKindGroup, bottom-to-top.
	Children []*Layer

	// Cels holds the frame->Cel mapping for LayerKindImage and
	// LayerKindTilemap layers.
	Cels map[int]*Cel

	// TilesetIndex and Grid apply only to LayerKindTilemap.
	TilesetIndex int
	Grid         Grid
}

func newLayer(kind LayerKind, name string) *Layer {
	l := &Layer{Kind: kind, Name: name, Opacity: 255, Flags: LayerVisible | LayerEditable}
	if kind != LayerKindGroup {
		l.Cels = make(map[int]*Cel)
	}
	return l
}

// NewImageLayer returns a new, parentless image layer.
func NewImageLayer(name string) *Layer {
	return newLayer(LayerKindImage, name)
}

// NewGroupLayer returns a new, parentless group layer.
func NewGroupLayer(name string) *Layer {
	return newLayer(LayerKindGroup, name)
}

// NewTilemapLayer returns a new, parentless tilemap layer referencing
// the tileset at tilesetIndex.
func NewTilemapLayer(name string, tilesetIndex int) *Layer {
	l := newLayer(LayerKindTilemap, name)
	l.TilesetIndex = tilesetIndex
	return l
}

// newRootLayer returns the hidden root group every sprite owns so
// that every layer has a parent.
func newRootLayer() *Layer {
	return newLayer(LayerKindGroup, "")
}

// AppendChild appends child to a group layer's children and sets its
// parent. It is an error to call this on a non-group layer.
func (l *Layer) AppendChild(child *Layer) error {
	if l.Kind != LayerKindGroup {
		return fmt.Errorf("document: cannot append child to non-group layer %q", l.Name)
	}
	child.Parent = l
	l.Children = append(l.Children, child)
	return nil
}

// Depth returns the layer's distance below the root (the root's
// direct children are at depth 0), matching the wire ChildLevel
// field.
func (l *Layer) Depth() int {
	d := 0
	for p := l.Parent; p != nil && p.Parent != nil; p = p.Parent {
		d++
	}
	return d
}

// FlattenDescendants returns this group's descendants in pre-order
// depth-first order (each group immediately followed by its
// contents), the same order used for on-wire layer indices (spec
// §4.2 step 1).
func (l *Layer) FlattenDescendants() []*Layer {
	var out []*Layer
	for _, c := range l.Children {
		out = append(out, c)
		if c.Kind == LayerKindGroup {
			out = append(out, c.FlattenDescendants()...)
		}
	}
	return out
}

// Cel returns the cel at frame and whether one exists. Only valid
// for LayerKindImage and LayerKindTilemap.
func (l *Layer) Cel(frame int) (*Cel, bool) {
	c, ok := l.Cels[frame]
	return c, ok
}

// AddCel sets (overwriting any existing) the cel at frame.
func (l *Layer) AddCel(frame int, cel *Cel) error {
	if l.Kind == LayerKindGroup {
		return fmt.Errorf("document: group layer %q cannot own cels", l.Name)
	}
	cel.Frame = frame
	l.Cels[frame] = cel
	return nil
}

// RemoveCel deletes the cel at frame, if any.
func (l *Layer) RemoveCel(frame int) {
	delete(l.Cels, frame)
}

// ShiftCels moves every cel at frame >= from by delta frames, used
// when frames are inserted or removed from the sprite. Cels that
// would land at a negative frame are dropped.
func (l *Layer) ShiftCels(from, delta int) {
	if l.Cels == nil || delta == 0 {
		return
	}
	shifted := make(map[int]*Cel, len(l.Cels))
	for frame, cel := range l.Cels {
		nf := frame
		if frame >= from {
			nf = frame + delta
		}
		if nf < 0 {
			continue
		}
		cel.Frame = nf
		if cel.linked && cel.linkedToFrame >= from {
			cel.linkedToFrame += delta
		}
		shifted[nf] = cel
	}
	l.Cels = shifted
}

// ResolveImage returns the pixel image in effect for this layer at
// frame, following a linked cel to its target. Per the model's
// invariant, a linked cel can only ever target an unlinked cel, so
// resolution never needs to follow more than one hop.
func (l *Layer) ResolveImage(frame int) (*Image, error) {
	cel, ok := l.Cel(frame)
	if !ok {
		return nil, fmt.Errorf("document: layer %q has no cel at frame %d", l.Name, frame)
	}
	if !cel.linked {
		return cel.data.Image, nil
	}
	target, ok := l.Cel(cel.linkedToFrame)
	if !ok {
		return nil, fmt.Errorf("document: layer %q cel at frame %d links to missing frame %d", l.Name, frame, cel.linkedToFrame)
	}
	if target.linked {
		return nil, fmt.Errorf("document: layer %q cel at frame %d links to another linked cel at frame %d", l.Name, frame, cel.linkedToFrame)
	}
	return target.data.Image, nil
}

// UnlinkCel replaces a linked cel with an owned copy of its target's
// image, per spec §3 ("Unlinking copies the target's image").
func (l *Layer) UnlinkCel(frame int) error {
	cel, ok := l.Cel(frame)
	if !ok {
		return fmt.Errorf("document: layer %q has no cel at frame %d", l.Name, frame)
	}
	if !cel.linked {
		return nil
	}
	img, err := l.ResolveImage(frame)
	if err != nil {
		return err
	}
	cel.linked = false
	cel.data = &CelData{Image: img.Clone()}
	return nil
}
