package document

import "testing"

func TestCelCloneOwned(t *testing.T) {
	img, _ := NewImage(2, 2, ColorModeRGBA)
	img.SetPixelAt(0, 0, Rgba32{R: 9, A: 255})
	c := NewCel(3, 4, img)
	c.Frame = 2

	clone := c.Clone(nil)
	if clone.Frame != 2 || clone.X != 3 || clone.Y != 4 {
		t.Fatalf("clone metadata mismatch: %+v", clone)
	}
	clone.Data().Image.SetPixelAt(0, 0, Rgba32{R: 1, A: 255})
	if c.Data().Image.PixelAt(0, 0).R != 9 {
		t.Fatal("Clone should deep-copy the image, not alias it")
	}
}

func TestCelCloneLinked(t *testing.T) {
	c := NewLinkedCel(0)
	target, _ := NewImage(1, 1, ColorModeRGBA)
	target.SetPixelAt(0, 0, Rgba32{G: 200, A: 255})

	clone := c.Clone(target)
	if clone.IsLinked() {
		t.Fatal("cloning a linked cel with a resolved image should produce an owned cel")
	}
	if clone.Data().Image.PixelAt(0, 0).G != 200 {
		t.Fatal("cloned linked cel should carry the resolved target's pixels")
	}
}

func TestCelDataNilWhenLinked(t *testing.T) {
	c := NewLinkedCel(5)
	if c.Data() != nil {
		t.Fatal("Data() should be nil for a linked cel")
	}
	frame, linked := c.LinkedToFrame()
	if !linked || frame != 5 {
		t.Fatalf("LinkedToFrame() = %d, %v, want 5, true", frame, linked)
	}
}
