package document

import "fmt"

// LayerCelPair is one (layer, cel) hit at a given frame.
type LayerCelPair struct {
	Layer *Layer
	Cel   *Cel
}

// Sprite is the root aggregate: canvas, colour mode, frames, the
// layer tree, palettes, tilesets, tags, slices and attached
// UserData.
type Sprite struct {
	Width, Height    int
	Mode             ColorMode
	TransparentIndex byte
	PixelRatio       PixelRatio
	Grid             Grid

	Frames   []FrameInfo
	Root     *Layer
	Palettes []Palette
	Tilesets []*Tileset
	Tags     []*Tag
	Slices   []*Slice
	UserData UserData

	SourcePath string
	Modified   bool
}

const (
	minCanvasDim = 1
	maxCanvasDim = 65535
)

// NewSprite returns a new sprite with one frame (100ms), a hidden
// root layer group, and a single empty palette anchored at frame 0.
func NewSprite(width, height int, mode ColorMode) (*Sprite, error) {
	if width < minCanvasDim || width > maxCanvasDim || height < minCanvasDim || height > maxCanvasDim {
		return nil, fmt.Errorf("document: canvas dimensions %dx%d out of range [%d, %d]", width, height, minCanvasDim, maxCanvasDim)
	}
	return &Sprite{
		Width:      width,
		Height:     height,
		Mode:       mode,
		PixelRatio: PixelRatio{Width: 1, Height: 1},
		Frames:     []FrameInfo{{DurationMs: 100}},
		Root:       newRootLayer(),
		Palettes:   []Palette{NewPalette(0, 0)},
	}, nil
}

// FrameCount returns the number of frames.
func (s *Sprite) FrameCount() int {
	return len(s.Frames)
}

// AppendFrame appends a frame with the given duration and returns its
// index.
func (s *Sprite) AppendFrame(durationMs int) (int, error) {
	if durationMs <= 0 {
		return 0, fmt.Errorf("document: frame duration must be > 0, got %d", durationMs)
	}
	s.Frames = append(s.Frames, FrameInfo{DurationMs: durationMs})
	return len(s.Frames) - 1, nil
}

// InsertFrame inserts a frame at index at (0 <= at <= FrameCount),
// shifting cels on every layer at frame >= at by +1, per spec §4.4.
func (s *Sprite) InsertFrame(at int, durationMs int) error {
	if durationMs <= 0 {
		return fmt.Errorf("document: frame duration must be > 0, got %d", durationMs)
	}
	if at < 0 || at > len(s.Frames) {
		return fmt.Errorf("document: insert index %d out of range [0, %d]", at, len(s.Frames))
	}
	s.Frames = append(s.Frames, FrameInfo{})
	copy(s.Frames[at+1:], s.Frames[at:])
	s.Frames[at] = FrameInfo{DurationMs: durationMs}

	for _, l := range s.FlattenLayers() {
		l.ShiftCels(at, 1)
	}
	for i := range s.Palettes {
		if s.Palettes[i].Frame >= at {
			s.Palettes[i].Frame++
		}
	}
	return nil
}

// RemoveFrame removes the frame at index at. Removing the sprite's
// last remaining frame fails, per spec §3.
func (s *Sprite) RemoveFrame(at int) error {
	if len(s.Frames) <= 1 {
		return fmt.Errorf("document: cannot remove the last frame")
	}
	if at < 0 || at >= len(s.Frames) {
		return fmt.Errorf("document: remove index %d out of range [0, %d)", at, len(s.Frames))
	}
	s.Frames = append(s.Frames[:at], s.Frames[at+1:]...)

	for _, l := range s.FlattenLayers() {
		l.RemoveCel(at)
		l.ShiftCels(at+1, -1)
	}
	for i := range s.Palettes {
		if s.Palettes[i].Frame > at {
			s.Palettes[i].Frame--
		}
	}
	return nil
}

// PaletteAt returns the palette in effect at frame: the one with the
// greatest Frame <= frame. Palettes are kept sorted ascending by
// Frame, so callers must go through AppendPalette rather than
// mutating Palettes directly.
func (s *Sprite) PaletteAt(frame int) *Palette {
	var active *Palette
	for i := range s.Palettes {
		if s.Palettes[i].Frame <= frame {
			active = &s.Palettes[i]
		} else {
			break
		}
	}
	if active == nil && len(s.Palettes) > 0 {
		active = &s.Palettes[0]
	}
	return active
}

// AppendPalette inserts pal, keeping Palettes sorted ascending by
// Frame. A palette already anchored at pal.Frame is overwritten.
func (s *Sprite) AppendPalette(pal Palette) {
	for i := range s.Palettes {
		if s.Palettes[i].Frame == pal.Frame {
			s.Palettes[i] = pal
			return
		}
		if s.Palettes[i].Frame > pal.Frame {
			s.Palettes = append(s.Palettes, Palette{})
			copy(s.Palettes[i+1:], s.Palettes[i:])
			s.Palettes[i] = pal
			return
		}
	}
	s.Palettes = append(s.Palettes, pal)
}

// AppendTileset appends a tileset and returns its index.
func (s *Sprite) AppendTileset(t *Tileset) int {
	s.Tilesets = append(s.Tilesets, t)
	return len(s.Tilesets) - 1
}

// AppendTag appends a tag.
func (s *Sprite) AppendTag(t *Tag) {
	s.Tags = append(s.Tags, t)
}

// AppendSlice appends a slice.
func (s *Sprite) AppendSlice(sl *Slice) {
	s.Slices = append(s.Slices, sl)
}

// FlattenLayers returns every layer below the root in pre-order
// depth-first order (spec §4.2 step 1); this is both the on-wire
// layer index and the bottom-to-top drawing enumeration, since the
// source format's Children lists are already bottom-to-top.
func (s *Sprite) FlattenLayers() []*Layer {
	return s.Root.FlattenDescendants()
}

// CelsAtFrame returns every (layer, cel) pair present at frame, in
// flattened layer order.
func (s *Sprite) CelsAtFrame(frame int) []LayerCelPair {
	var out []LayerCelPair
	for _, l := range s.FlattenLayers() {
		if l.Kind == LayerKindGroup {
			continue
		}
		if c, ok := l.Cel(frame); ok {
			out = append(out, LayerCelPair{Layer: l, Cel: c})
		}
	}
	return out
}

// MarkClean clears the Modified flag, called by DecodeFile/EncodeFile
// on success.
func (s *Sprite) MarkClean(path string) {
	s.SourcePath = path
	s.Modified = false
}
