package document

// PaletteEntry is one colour slot in a Palette. Entry names are a
// deprecated, rarely-used field in the source format (spec §1
// Non-goals); they are not modelled here.
type PaletteEntry struct {
	Color Rgba32
}

// Palette is an ordered list of up to 256 colour entries, tagged with
// the first frame from which it takes effect.
type Palette struct {
	Frame   int
	Entries []PaletteEntry
}

// NewPalette returns a palette of size entries, anchored at frame.
func NewPalette(frame, size int) Palette {
	return Palette{Frame: frame, Entries: make([]PaletteEntry, size)}
}

// Size returns the number of entries.
func (p *Palette) Size() int {
	return len(p.Entries)
}

// Resize grows or shrinks the entry list, zero-filling any new slots.
func (p *Palette) Resize(n int) {
	if n == len(p.Entries) {
		return
	}
	if n < len(p.Entries) {
		p.Entries = p.Entries[:n]
		return
	}
	grown := make([]PaletteEntry, n)
	copy(grown, p.Entries)
	p.Entries = grown
}

// GetColor returns the colour at index and whether index is in range.
func (p *Palette) GetColor(index int) (Rgba32, bool) {
	if index < 0 || index >= len(p.Entries) {
		return Rgba32{}, false
	}
	return p.Entries[index].Color, true
}

// SetColor sets the colour at index, growing the palette if needed.
func (p *Palette) SetColor(index int, c Rgba32) {
	if index >= len(p.Entries) {
		p.Resize(index + 1)
	}
	p.Entries[index].Color = c
}

// FindClosest returns the index of the entry whose RGB channels are
// closest to target by Euclidean distance, ignoring alpha. Returns -1
// for an empty palette.
func (p *Palette) FindClosest(target Rgba32) int {
	best := -1
	bestDist := -1
	for i, e := range p.Entries {
		dr := int(e.Color.R) - int(target.R)
		dg := int(e.Color.G) - int(target.G)
		db := int(e.Color.B) - int(target.B)
		dist := dr*dr + dg*dg + db*db
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}
