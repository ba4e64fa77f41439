package document

import "testing"

func TestTilesetAppendAndReplace(t *testing.T) {
	ts, err := NewTileset(8, 8, ColorModeRGBA, 1, "tiles")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (empty tile)", ts.Count())
	}

	tile, _ := NewImage(8, 8, ColorModeRGBA)
	idx, err := ts.Append(tile)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Fatalf("Append index = %d, want 1", idx)
	}

	if err := ts.Replace(0, tile); err == nil {
		t.Fatal("expected error replacing reserved index 0")
	}

	other, _ := NewImage(4, 4, ColorModeRGBA)
	if _, err := ts.Append(other); err == nil {
		t.Fatal("expected error appending mismatched tile size")
	}
}

func TestTileRefEncodeDecode(t *testing.T) {
	cases := []struct {
		index                    uint32
		flipX, flipY, rotate90   bool
	}{
		{1, false, false, false},
		{2, true, false, false},
		{5, false, true, true},
		{0x1FFFFFFF, true, true, true},
	}
	for _, c := range cases {
		cell := EncodeTileRef(c.index, c.flipX, c.flipY, c.rotate90)
		gotIndex, gotX, gotY, gotR := DecodeTileRef(cell)
		if gotIndex != c.index || gotX != c.flipX || gotY != c.flipY || gotR != c.rotate90 {
			t.Fatalf("round trip mismatch for %+v: got index=%d x=%v y=%v r=%v", c, gotIndex, gotX, gotY, gotR)
		}
	}
}
