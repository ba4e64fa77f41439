package document

import "fmt"

// Tileset is a fixed-size tile dictionary referenced by tilemap
// layers. Index 0 is reserved as the empty (transparent) tile and
// cannot be removed or overwritten in place.
type Tileset struct {
	TileWidth, TileHeight int
	Mode                  ColorMode
	BaseIndex             int
	Name                  string
	UserData              UserData
	Tiles                 []*Image
}

// NewTileset returns a tileset with its index-0 empty tile already
// present.
func NewTileset(tileWidth, tileHeight int, mode ColorMode, baseIndex int, name string) (*Tileset, error) {
	empty, err := NewImage(tileWidth, tileHeight, mode)
	if err != nil {
		return nil, err
	}
	return &Tileset{
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Mode:       mode,
		BaseIndex:  baseIndex,
		Name:       name,
		Tiles:      []*Image{empty},
	}, nil
}

// Count returns the number of tiles, including the empty tile at 0.
func (t *Tileset) Count() int {
	return len(t.Tiles)
}

func (t *Tileset) validateSize(img *Image) error {
	if img.Width != t.TileWidth || img.Height != t.TileHeight || img.Mode != t.Mode {
		return fmt.Errorf("document: tile size/mode %dx%d/%v does not match tileset %dx%d/%v",
			img.Width, img.Height, img.Mode, t.TileWidth, t.TileHeight, t.Mode)
	}
	return nil
}

// Append adds img as a new tile and returns its index.
func (t *Tileset) Append(img *Image) (int, error) {
	if err := t.validateSize(img); err != nil {
		return 0, err
	}
	t.Tiles = append(t.Tiles, img)
	return len(t.Tiles) - 1, nil
}

// Replace overwrites the tile at index. Index 0 (the empty tile)
// cannot be overwritten.
func (t *Tileset) Replace(index int, img *Image) error {
	if index == 0 {
		return fmt.Errorf("document: tile index 0 is reserved and cannot be replaced")
	}
	if index < 0 || index >= len(t.Tiles) {
		return fmt.Errorf("document: tile index %d out of range", index)
	}
	if err := t.validateSize(img); err != nil {
		return err
	}
	t.Tiles[index] = img
	return nil
}

// EncodeTileRef packs a tile index and orientation flags into a
// 32-bit cell value per spec §3 (low 29 bits index, high 3 bits
// flipX/flipY/rotate90).
func EncodeTileRef(index uint32, flipX, flipY, rotate90 bool) uint32 {
	cell := index & TileIndexMask
	if flipX {
		cell |= TileFlipXMask
	}
	if flipY {
		cell |= TileFlipYMask
	}
	if rotate90 {
		cell |= TileRotate90Mask
	}
	return cell
}

// DecodeTileRef unpacks a 32-bit cell value into a tile index and
// orientation flags.
func DecodeTileRef(cell uint32) (index uint32, flipX, flipY, rotate90 bool) {
	index = cell & TileIndexMask
	flipX = cell&TileFlipXMask != 0
	flipY = cell&TileFlipYMask != 0
	rotate90 = cell&TileRotate90Mask != 0
	return
}
