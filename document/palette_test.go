package document

import "testing"

func TestPaletteResizeAndAccess(t *testing.T) {
	p := NewPalette(0, 2)
	p.SetColor(0, Rgba32{R: 1})
	p.SetColor(1, Rgba32{R: 2})

	p.Resize(4)
	if p.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", p.Size())
	}
	if c, ok := p.GetColor(1); !ok || c.R != 2 {
		t.Fatalf("GetColor(1) = %v, %v", c, ok)
	}
	if c, ok := p.GetColor(3); !ok || c != (Rgba32{}) {
		t.Fatalf("GetColor(3) = %v, %v, want zero value", c, ok)
	}

	p.Resize(1)
	if _, ok := p.GetColor(1); ok {
		t.Fatalf("GetColor(1) should be out of range after shrink")
	}
}

func TestPaletteFindClosest(t *testing.T) {
	p := NewPalette(0, 0)
	p.SetColor(0, Rgba32{R: 0, G: 0, B: 0})
	p.SetColor(1, Rgba32{R: 255, G: 255, B: 255})
	p.SetColor(2, Rgba32{R: 200, G: 10, B: 10})

	if got := p.FindClosest(Rgba32{R: 210, G: 5, B: 5}); got != 2 {
		t.Fatalf("FindClosest = %d, want 2", got)
	}
	if got := p.FindClosest(Rgba32{R: 10, G: 10, B: 10}); got != 0 {
		t.Fatalf("FindClosest = %d, want 0", got)
	}
}

func TestPaletteFindClosestEmpty(t *testing.T) {
	p := NewPalette(0, 0)
	if got := p.FindClosest(Rgba32{}); got != -1 {
		t.Fatalf("FindClosest on empty palette = %d, want -1", got)
	}
}
