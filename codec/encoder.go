package codec

import (
	"io"

	"go.uber.org/zap"

	"github.com/aseform/asefile/binaryio"
	"github.com/aseform/asefile/document"
	"github.com/aseform/asefile/internal/zlibstream"
)

// Encoder serialises a document.Sprite to the Aseprite wire format.
// The zero value is ready to use.
type Encoder struct {
	Logger *zap.Logger
}

// NewEncoder returns an Encoder with a no-op logger.
func NewEncoder() *Encoder {
	return &Encoder{Logger: zap.NewNop()}
}

func (e *Encoder) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Encode writes sprite to w in a single pass (spec §4.2): a flattened
// layer index is built first, then each frame's chunks are emitted in
// the required order, with chunk and frame sizes back-patched once
// their bodies are known, followed by the file header.
func (e *Encoder) Encode(sprite *document.Sprite, w io.Writer) error {
	bw := binaryio.NewWriter()

	layers := sprite.FlattenLayers()
	layerIndexOf := make(map[*document.Layer]int, len(layers))
	for i, l := range layers {
		layerIndexOf[l] = i
	}

	bw.WriteZeros(128)

	for frameIdx := 0; frameIdx < sprite.FrameCount(); frameIdx++ {
		if err := e.encodeFrame(bw, sprite, layers, layerIndexOf, frameIdx); err != nil {
			return err
		}
	}

	e.backpatchFileHeader(bw, sprite)

	e.logger().Debug("encoded sprite",
		zap.Int("frames", sprite.FrameCount()),
		zap.Int("layers", len(layers)),
		zap.Int("tilesets", len(sprite.Tilesets)))

	_, err := bw.WriteTo(w)
	if err != nil {
		return newError(KindIO, "", err)
	}
	return nil
}

func (e *Encoder) encodeFrame(bw *binaryio.Writer, sprite *document.Sprite, layers []*document.Layer, layerIndexOf map[*document.Layer]int, frameIdx int) error {
	frameStart := bw.Pos()
	bw.WriteZeros(16)

	chunkCount := 0

	if frameIdx == 0 {
		for i, ts := range sprite.Tilesets {
			if err := e.encodeTilesetChunk(bw, ts, i); err != nil {
				return err
			}
			chunkCount++
		}
		for _, l := range layers {
			e.encodeLayerChunk(bw, l)
			chunkCount++
			if !l.UserData.IsEmpty() {
				e.encodeUserDataChunk(bw, l.UserData)
				chunkCount++
			}
		}

		e.encodePaletteChunk(bw, sprite.PaletteAt(0))
		chunkCount++

		if len(sprite.Tags) > 0 {
			e.encodeTagsChunk(bw, sprite.Tags)
			chunkCount++
			// Unlike layers/slices/cels, a UserData chunk follows every
			// tag unconditionally (even empty), since the decoder binds
			// by FIFO position against the Tags chunk's tag order.
			for _, t := range sprite.Tags {
				e.encodeUserDataChunk(bw, t.UserData)
				chunkCount++
			}
		}
		for _, sl := range sprite.Slices {
			e.encodeSliceChunk(bw, sl)
			chunkCount++
			if !sl.UserData.IsEmpty() {
				e.encodeUserDataChunk(bw, sl.UserData)
				chunkCount++
			}
		}
	} else {
		for i := range sprite.Palettes {
			if sprite.Palettes[i].Frame == frameIdx {
				e.encodePaletteChunk(bw, &sprite.Palettes[i])
				chunkCount++
			}
		}
	}

	for _, l := range layers {
		if l.Kind == document.LayerKindGroup {
			continue
		}
		cel, ok := l.Cel(frameIdx)
		if !ok {
			continue
		}
		if err := e.encodeCelChunk(bw, cel, layerIndexOf[l], l.Kind); err != nil {
			return err
		}
		chunkCount++
		if !cel.UserData.IsEmpty() {
			e.encodeUserDataChunk(bw, cel.UserData)
			chunkCount++
		}
	}

	frameEnd := bw.Pos()
	frameBytes := uint32(frameEnd - frameStart)

	bw.Seek(frameStart)
	bw.WriteDword(frameBytes)
	bw.WriteWord(frameMagic)
	bw.WriteWord(0xFFFF) // old chunk count: 0xFFFF signals "use new 32-bit count"
	bw.WriteWord(uint16(sprite.Frames[frameIdx].DurationMs))
	bw.WriteZeros(2)
	bw.WriteDword(uint32(chunkCount))
	bw.Seek(frameEnd)
	return nil
}

func (e *Encoder) beginChunk(bw *binaryio.Writer, typ uint16) int64 {
	start := bw.Pos()
	bw.WriteZeros(4)
	bw.WriteWord(typ)
	return start
}

func (e *Encoder) endChunk(bw *binaryio.Writer, start int64) {
	end := bw.Pos()
	bw.Seek(start)
	bw.WriteDword(uint32(end - start))
	bw.Seek(end)
}

func layerWireType(kind document.LayerKind) uint16 {
	switch kind {
	case document.LayerKindGroup:
		return layerTypeGroup
	case document.LayerKindTilemap:
		return layerTypeTilemap
	default:
		return layerTypeImage
	}
}

func (e *Encoder) encodeLayerChunk(bw *binaryio.Writer, l *document.Layer) {
	start := e.beginChunk(bw, chunkLayer)

	bw.WriteWord(uint16(l.Flags))
	bw.WriteWord(layerWireType(l.Kind))
	bw.WriteWord(uint16(l.Depth()))
	bw.WriteZeros(4)
	bw.WriteWord(uint16(l.BlendMode))
	bw.WriteByte(l.Opacity)
	bw.WriteZeros(3)
	bw.WriteString(l.Name)
	if l.Kind == document.LayerKindTilemap {
		bw.WriteDword(uint32(l.TilesetIndex))
	}

	e.endChunk(bw, start)
}

func (e *Encoder) encodeCelChunk(bw *binaryio.Writer, cel *document.Cel, layerIndex int, kind document.LayerKind) error {
	start := e.beginChunk(bw, chunkCel)

	bw.WriteWord(uint16(layerIndex))
	bw.WriteShort(cel.X)
	bw.WriteShort(cel.Y)
	bw.WriteByte(cel.Opacity)

	if cel.IsLinked() {
		target, _ := cel.LinkedToFrame()
		bw.WriteWord(celTypeLinked)
		bw.WriteShort(cel.ZIndex)
		bw.WriteZeros(5)
		bw.WriteWord(uint16(target))
		e.endChunk(bw, start)
		return nil
	}

	img := cel.Data().Image
	compressed, err := zlibstream.Compress(img.Pix)
	if err != nil {
		return newError(KindInvalidData, "zlib compress: "+err.Error(), err)
	}

	if kind == document.LayerKindTilemap {
		bw.WriteWord(celTypeCompressedTilemap)
		bw.WriteShort(cel.ZIndex)
		bw.WriteZeros(5)
		bw.WriteWord(uint16(img.Width))
		bw.WriteWord(uint16(img.Height))
		bw.WriteWord(32)
		bw.WriteDword(document.TileIndexMask)
		bw.WriteDword(document.TileFlipXMask)
		bw.WriteDword(document.TileFlipYMask)
		bw.WriteDword(document.TileRotate90Mask)
		bw.WriteZeros(10)
	} else {
		bw.WriteWord(celTypeCompressedImage)
		bw.WriteShort(cel.ZIndex)
		bw.WriteZeros(5)
		bw.WriteWord(uint16(img.Width))
		bw.WriteWord(uint16(img.Height))
	}
	bw.WriteBytes(compressed)

	e.endChunk(bw, start)
	return nil
}

func (e *Encoder) encodePaletteChunk(bw *binaryio.Writer, pal *document.Palette) {
	start := e.beginChunk(bw, chunkPalette)

	size := pal.Size()
	bw.WriteDword(uint32(size))
	if size > 0 {
		bw.WriteDword(0)
		bw.WriteDword(uint32(size - 1))
	} else {
		// No entries to write; fromIndex > toIndex signals an empty
		// range so the decoder's entry loop doesn't run.
		bw.WriteDword(1)
		bw.WriteDword(0)
	}
	bw.WriteZeros(8)

	for i := 0; i < size; i++ {
		c, _ := pal.GetColor(i)
		bw.WriteWord(0) // EntryFlags: no entry name written
		bw.WriteByte(c.R)
		bw.WriteByte(c.G)
		bw.WriteByte(c.B)
		bw.WriteByte(c.A)
	}

	e.endChunk(bw, start)
}

func (e *Encoder) encodeTagsChunk(bw *binaryio.Writer, tags []*document.Tag) {
	start := e.beginChunk(bw, chunkTags)

	bw.WriteWord(uint16(len(tags)))
	bw.WriteZeros(8)

	for _, t := range tags {
		bw.WriteWord(uint16(t.FromFrame))
		bw.WriteWord(uint16(t.ToFrame))
		bw.WriteByte(byte(t.Direction))
		bw.WriteWord(uint16(t.Repeat))
		bw.WriteZeros(6)
		bw.WriteByte(t.Color.R)
		bw.WriteByte(t.Color.G)
		bw.WriteByte(t.Color.B)
		bw.WriteZeros(1)
		bw.WriteString(t.Name)
	}

	e.endChunk(bw, start)
}

func (e *Encoder) encodeSliceChunk(bw *binaryio.Writer, sl *document.Slice) {
	start := e.beginChunk(bw, chunkSlice)

	has9Slice := sl.Has9Slice()
	hasPivot := sl.HasPivot()

	var flags uint32
	if has9Slice {
		flags |= sliceFlag9Slice
	}
	if hasPivot {
		flags |= sliceFlagPivot
	}

	bw.WriteDword(uint32(len(sl.Keys)))
	bw.WriteDword(flags)
	bw.WriteZeros(4)
	bw.WriteString(sl.Name)

	for _, k := range sl.Keys {
		bw.WriteDword(uint32(k.Frame))
		bw.WriteLong(k.X)
		bw.WriteLong(k.Y)
		bw.WriteDword(k.W)
		bw.WriteDword(k.H)
		if has9Slice {
			bw.WriteLong(k.CX)
			bw.WriteLong(k.CY)
			bw.WriteDword(k.CW)
			bw.WriteDword(k.CH)
		}
		if hasPivot {
			bw.WriteLong(k.PX)
			bw.WriteLong(k.PY)
		}
	}

	e.endChunk(bw, start)
}

func (e *Encoder) encodeTilesetChunk(bw *binaryio.Writer, ts *document.Tileset, index int) error {
	start := e.beginChunk(bw, chunkTileset)

	bw.WriteDword(uint32(index))
	bw.WriteDword(tilesetFlagEmbedTiles | tilesetFlagZeroIsEmpty)
	bw.WriteDword(uint32(ts.Count()))
	bw.WriteWord(uint16(ts.TileWidth))
	bw.WriteWord(uint16(ts.TileHeight))
	bw.WriteShort(int16(ts.BaseIndex))
	bw.WriteZeros(14)
	bw.WriteString(ts.Name)

	raw := make([]byte, 0, ts.Count()*ts.TileWidth*ts.TileHeight*ts.Mode.BytesPerPixel())
	for _, tile := range ts.Tiles {
		raw = append(raw, tile.Pix...)
	}
	compressed, err := zlibstream.Compress(raw)
	if err != nil {
		return newError(KindInvalidData, "zlib compress: "+err.Error(), err)
	}
	bw.WriteDword(uint32(len(compressed)))
	bw.WriteBytes(compressed)

	e.endChunk(bw, start)
	return nil
}

func (e *Encoder) encodeUserDataChunk(bw *binaryio.Writer, ud document.UserData) {
	start := e.beginChunk(bw, chunkUserData)

	var flags uint32
	if ud.HasText {
		flags |= userDataFlagText
	}
	if ud.HasColor {
		flags |= userDataFlagColor
	}
	bw.WriteDword(flags)
	if ud.HasText {
		bw.WriteString(ud.Text)
	}
	if ud.HasColor {
		bw.WriteByte(ud.Color.R)
		bw.WriteByte(ud.Color.G)
		bw.WriteByte(ud.Color.B)
		bw.WriteByte(ud.Color.A)
	}

	e.endChunk(bw, start)
}

func (e *Encoder) backpatchFileHeader(bw *binaryio.Writer, sprite *document.Sprite) {
	fileSize := uint32(bw.Len())
	flags := fileFlagLayerOpacityValid | fileFlagGroupOpacityValid
	pal0 := sprite.PaletteAt(0)

	bw.Seek(0)
	bw.WriteDword(fileSize)
	bw.WriteWord(fileMagic)
	bw.WriteWord(uint16(sprite.FrameCount()))
	bw.WriteWord(uint16(sprite.Width))
	bw.WriteWord(uint16(sprite.Height))
	bw.WriteWord(sprite.Mode.ColorDepthBits())
	bw.WriteDword(flags)
	bw.WriteWord(deprecatedSpeed)
	bw.WriteZeros(8)
	bw.WriteByte(sprite.TransparentIndex)
	bw.WriteZeros(3)
	bw.WriteWord(uint16(pal0.Size()))
	bw.WriteByte(sprite.PixelRatio.Width)
	bw.WriteByte(sprite.PixelRatio.Height)
	bw.WriteShort(sprite.Grid.X)
	bw.WriteShort(sprite.Grid.Y)
	bw.WriteWord(sprite.Grid.Width)
	bw.WriteWord(sprite.Grid.Height)
	bw.WriteZeros(84)

	bw.Seek(int64(fileSize))
}
