package document

import "testing"

func TestNewSpriteDimensionBounds(t *testing.T) {
	if _, err := NewSprite(0, 10, ColorModeRGBA); err == nil {
		t.Fatal("expected error for width 0")
	}
	if _, err := NewSprite(65536, 10, ColorModeRGBA); err == nil {
		t.Fatal("expected error for width > 65535")
	}
	s, err := NewSprite(65535, 65535, ColorModeRGBA)
	if err != nil {
		t.Fatal(err)
	}
	if s.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", s.FrameCount())
	}
}

func TestLayerFlattenPreOrder(t *testing.T) {
	s, _ := NewSprite(1, 1, ColorModeRGBA)
	bg := NewImageLayer("bg")
	group := NewGroupLayer("fx")
	child1 := NewImageLayer("fx/a")
	child2 := NewImageLayer("fx/b")
	fg := NewImageLayer("fg")

	s.Root.AppendChild(bg)
	s.Root.AppendChild(group)
	group.AppendChild(child1)
	group.AppendChild(child2)
	s.Root.AppendChild(fg)

	flat := s.FlattenLayers()
	names := make([]string, len(flat))
	for i, l := range flat {
		names[i] = l.Name
	}
	want := []string{"bg", "fx", "fx/a", "fx/b", "fg"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
	if group.Depth() != 0 || child1.Depth() != 1 {
		t.Fatalf("depths: group=%d child1=%d", group.Depth(), child1.Depth())
	}
}

func TestLinkedCelResolutionAndUnlink(t *testing.T) {
	s, _ := NewSprite(1, 1, ColorModeRGBA)
	s.AppendFrame(100)
	l := NewImageLayer("L")
	s.Root.AppendChild(l)

	red, _ := NewImage(1, 1, ColorModeRGBA)
	red.SetPixelAt(0, 0, Rgba32{R: 255, A: 255})
	l.AddCel(0, NewCel(0, 0, red))
	l.AddCel(1, NewLinkedCel(0))

	img, err := l.ResolveImage(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.PixelAt(0, 0); got.R != 255 {
		t.Fatalf("resolved pixel = %+v, want red", got)
	}

	if err := l.UnlinkCel(1); err != nil {
		t.Fatal(err)
	}
	cel, _ := l.Cel(1)
	if cel.IsLinked() {
		t.Fatal("cel should be unlinked")
	}
	if cel.Data().Image.PixelAt(0, 0).R != 255 {
		t.Fatal("unlinked cel should carry a copy of the target's pixels")
	}
}

func TestInsertAndRemoveFrameShiftsCels(t *testing.T) {
	s, _ := NewSprite(1, 1, ColorModeRGBA)
	s.AppendFrame(100) // frames: 0, 1
	l := NewImageLayer("L")
	s.Root.AppendChild(l)

	img0, _ := NewImage(1, 1, ColorModeRGBA)
	img1, _ := NewImage(1, 1, ColorModeRGBA)
	l.AddCel(0, NewCel(0, 0, img0))
	l.AddCel(1, NewCel(0, 0, img1))

	if err := s.InsertFrame(1, 50); err != nil {
		t.Fatal(err)
	}
	if s.FrameCount() != 3 {
		t.Fatalf("FrameCount() = %d, want 3", s.FrameCount())
	}
	if _, ok := l.Cel(0); !ok {
		t.Fatal("cel at frame 0 should survive insert at 1")
	}
	if _, ok := l.Cel(1); ok {
		t.Fatal("no cel should exist at the newly inserted frame 1")
	}
	if _, ok := l.Cel(2); !ok {
		t.Fatal("cel formerly at frame 1 should now be at frame 2")
	}

	if err := s.RemoveFrame(1); err != nil {
		t.Fatal(err)
	}
	if s.FrameCount() != 2 {
		t.Fatalf("FrameCount() = %d, want 2", s.FrameCount())
	}
	if _, ok := l.Cel(1); !ok {
		t.Fatal("cel formerly at frame 2 should now be back at frame 1")
	}
}

func TestRemoveLastFrameFails(t *testing.T) {
	s, _ := NewSprite(1, 1, ColorModeRGBA)
	if err := s.RemoveFrame(0); err == nil {
		t.Fatal("expected error removing the only frame")
	}
}

func TestPaletteAtGreatestFrameLE(t *testing.T) {
	s, _ := NewSprite(1, 1, ColorModeIndexed)
	s.Palettes[0].SetColor(1, Rgba32{R: 1})
	p1 := NewPalette(5, 2)
	p1.SetColor(1, Rgba32{R: 2})
	s.AppendPalette(p1)

	if got := s.PaletteAt(0); got.Frame != 0 {
		t.Fatalf("PaletteAt(0).Frame = %d, want 0", got.Frame)
	}
	if got := s.PaletteAt(4); got.Frame != 0 {
		t.Fatalf("PaletteAt(4).Frame = %d, want 0", got.Frame)
	}
	if got := s.PaletteAt(5); got.Frame != 5 {
		t.Fatalf("PaletteAt(5).Frame = %d, want 5", got.Frame)
	}
	if got := s.PaletteAt(100); got.Frame != 5 {
		t.Fatalf("PaletteAt(100).Frame = %d, want 5", got.Frame)
	}
}
