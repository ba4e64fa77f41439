package codec

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aseform/asefile/binaryio"
	"github.com/aseform/asefile/document"
	"github.com/aseform/asefile/internal/zlibstream"
)

// Decoder builds a document.Sprite from an Aseprite byte stream. The
// zero value is ready to use.
type Decoder struct {
	// Logger receives Debug-level diagnostics for skipped or ignored
	// chunks; a nil Logger behaves like zap.NewNop().
	Logger *zap.Logger
}

// NewDecoder returns a Decoder with a no-op logger.
func NewDecoder() *Decoder {
	return &Decoder{Logger: zap.NewNop()}
}

func (d *Decoder) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// decodeState carries the cross-chunk state threaded through one
// decode call: the flattened layer index, the User Data chain target,
// the pending-tag queue and the new-palette-seen flag (spec §4.3).
type decodeState struct {
	sprite *document.Sprite

	layerIndex []*document.Layer
	groupStack []*document.Layer

	lastTarget  *document.UserData
	pendingTags []*document.Tag

	foundNewPalette bool

	layerOpacityValid bool
	groupOpacityValid bool
}

func (s *decodeState) bindUserData(ud document.UserData) {
	var target *document.UserData
	if len(s.pendingTags) > 0 {
		target = &s.pendingTags[0].UserData
		s.pendingTags = s.pendingTags[1:]
	} else {
		target = s.lastTarget
	}
	if target != nil {
		*target = ud
	}
}

// Decode reads one Aseprite document from r.
func (d *Decoder) Decode(r io.ReadSeeker) (*document.Sprite, error) {
	br := binaryio.NewReader(r)

	sprite, state, err := d.decodeHeader(br)
	if err != nil {
		return nil, err
	}

	// decodeHeader has already sized sprite.Frames to the on-wire
	// FrameCount; decodeFrame seeds each frame's duration from the
	// previous frame's finalized duration, then applies its own.
	for i := 0; i < sprite.FrameCount(); i++ {
		if err := d.decodeFrame(br, state, i); err != nil {
			return nil, err
		}
	}
	return sprite, nil
}

func (d *Decoder) decodeHeader(br *binaryio.Reader) (*document.Sprite, *decodeState, error) {
	f := newFieldReader(br)

	_ = f.dword() // FileSize, not needed to build the document
	magic := f.word()
	frameCount := f.word()
	width := f.word()
	height := f.word()
	colorDepth := f.word()
	flags := f.dword()
	speed := f.word()
	f.skip(8) // reserved
	transparentIndex := f.byte_()
	f.skip(3) // padding
	_ = f.word() // NumColors: the 0x2019 chunk's NewSize is authoritative (see DESIGN.md)
	pixelWidth := f.byte_()
	pixelHeight := f.byte_()
	gridX := f.short()
	gridY := f.short()
	gridWidth := f.word()
	gridHeight := f.word()
	f.skip(84) // reserved

	if err := f.done(); err != nil {
		return nil, nil, err
	}
	if magic != fileMagic {
		return nil, nil, newError(KindInvalidFileMagic, fmt.Sprintf("found 0x%04X", magic), nil)
	}

	mode, ok := document.ColorModeFromDepthBits(colorDepth)
	if !ok {
		return nil, nil, newError(KindUnknownColorDepth, fmt.Sprintf("%d bits", colorDepth), nil)
	}

	sprite, err := document.NewSprite(int(width), int(height), mode)
	if err != nil {
		return nil, nil, newError(KindInvalidData, err.Error(), err)
	}
	sprite.TransparentIndex = transparentIndex
	sprite.PixelRatio = document.PixelRatio{Width: pixelWidth, Height: pixelHeight}
	sprite.Grid = document.Grid{X: gridX, Y: gridY, Width: gridWidth, Height: gridHeight}
	if speed > 0 {
		sprite.Frames[0].DurationMs = int(speed)
	}
	if frameCount > 0 {
		// sprite already has one frame from NewSprite; the loop below
		// appends frameCount-1 more, whose durations decodeFrame fills
		// in as it walks the stream.
		sprite.Frames = sprite.Frames[:1]
	}
	for i := 1; i < int(frameCount); i++ {
		sprite.Frames = append(sprite.Frames, document.FrameInfo{})
	}

	state := &decodeState{
		sprite:            sprite,
		layerOpacityValid: flags&fileFlagLayerOpacityValid != 0,
		groupOpacityValid: flags&fileFlagGroupOpacityValid != 0,
	}
	return sprite, state, nil
}

func (d *Decoder) decodeFrame(br *binaryio.Reader, state *decodeState, frameIdx int) error {
	frameStart, err := br.Pos()
	if err != nil {
		return wrapBinaryErr(err)
	}

	f := newFieldReader(br)
	frameBytes := f.dword()
	magic := f.word()
	oldChunkCount := f.word()
	durationMs := f.word()
	f.skip(2)
	newChunkCount := f.dword()
	if err := f.done(); err != nil {
		return err
	}
	if magic != frameMagic {
		return newError(KindBadFrameMagic, fmt.Sprintf("frame %d", frameIdx), nil)
	}
	if frameIdx > 0 {
		// A new frame duplicates the previous frame's effective
		// duration before this frame's own chunk duration is applied.
		state.sprite.Frames[frameIdx].DurationMs = state.sprite.Frames[frameIdx-1].DurationMs
	}
	if durationMs > 0 {
		state.sprite.Frames[frameIdx].DurationMs = int(durationMs)
	}

	chunkCount := int(newChunkCount)
	if chunkCount == 0 {
		chunkCount = int(oldChunkCount)
	}

	frameEnd := frameStart + int64(frameBytes)
	for c := 0; c < chunkCount; c++ {
		pos, err := br.Pos()
		if err != nil {
			return wrapBinaryErr(err)
		}
		if pos >= frameEnd {
			break
		}
		if err := d.decodeChunk(br, state, frameIdx); err != nil {
			return err
		}
	}
	return wrapBinaryErr(br.Seek(frameEnd))
}

func (d *Decoder) decodeChunk(br *binaryio.Reader, state *decodeState, frameIdx int) error {
	chunkStart, err := br.Pos()
	if err != nil {
		return wrapBinaryErr(err)
	}
	f := newFieldReader(br)
	size := f.dword()
	typ := f.word()
	if err := f.done(); err != nil {
		return err
	}

	var handlerErr error
	switch typ {
	case chunkOldPalette4:
		handlerErr = d.decodeOldPalette(br, state, frameIdx, false)
	case chunkOldPalette11:
		handlerErr = d.decodeOldPalette(br, state, frameIdx, true)
	case chunkLayer:
		handlerErr = d.decodeLayer(br, state)
	case chunkCel:
		handlerErr = d.decodeCel(br, state, frameIdx, chunkStart, int64(size))
	case chunkCelExtra, chunkColorProfile, chunkExternalFiles:
		d.logger().Debug("skipping reserved chunk", zap.Uint16("type", typ))
	case chunkTags:
		handlerErr = d.decodeTags(br, state)
	case chunkPalette:
		handlerErr = d.decodeNewPalette(br, state, frameIdx)
	case chunkUserData:
		handlerErr = d.decodeUserData(br, state)
	case chunkSlice:
		handlerErr = d.decodeSlice(br, state)
	case chunkTileset:
		handlerErr = d.decodeTileset(br, state, chunkStart, int64(size))
	default:
		d.logger().Debug("skipping unknown chunk type", zap.Uint16("type", typ))
	}
	if handlerErr != nil {
		return handlerErr
	}
	return wrapBinaryErr(br.Seek(chunkStart + int64(size)))
}

func (d *Decoder) decodeOldPalette(br *binaryio.Reader, state *decodeState, frameIdx int, scale6bit bool) error {
	if state.foundNewPalette {
		d.logger().Debug("ignoring old palette chunk: new palette already seen")
		return nil
	}
	f := newFieldReader(br)
	packetCount := f.word()
	if err := f.done(); err != nil {
		return err
	}

	pal := state.sprite.PaletteAt(frameIdx)
	index := 0
	for i := 0; i < int(packetCount); i++ {
		pf := newFieldReader(br)
		skip := pf.byte_()
		count := pf.byte_()
		if err := pf.done(); err != nil {
			return err
		}
		n := int(count)
		if n == 0 {
			n = 256
		}
		index += int(skip)
		for j := 0; j < n; j++ {
			cf := newFieldReader(br)
			r := cf.byte_()
			g := cf.byte_()
			b := cf.byte_()
			if err := cf.done(); err != nil {
				return err
			}
			if scale6bit {
				r = byte(int(r) * 255 / 63)
				g = byte(int(g) * 255 / 63)
				b = byte(int(b) * 255 / 63)
			}
			pal.SetColor(index, document.Rgba32{R: r, G: g, B: b, A: 255})
			index++
		}
	}
	return nil
}

func newDecodedLayer(kind document.LayerKind, name string) *document.Layer {
	switch kind {
	case document.LayerKindGroup:
		return document.NewGroupLayer(name)
	case document.LayerKindTilemap:
		return document.NewTilemapLayer(name, 0)
	default:
		return document.NewImageLayer(name)
	}
}

func (d *Decoder) decodeLayer(br *binaryio.Reader, state *decodeState) error {
	f := newFieldReader(br)
	flags := f.word()
	typ := f.word()
	childLevel := f.word()
	f.skip(4) // default width/height, ignored
	blendMode := f.word()
	opacity := f.byte_()
	f.skip(3)
	name := f.string_()
	if err := f.done(); err != nil {
		return err
	}

	var kind document.LayerKind
	switch typ {
	case layerTypeImage:
		kind = document.LayerKindImage
	case layerTypeGroup:
		kind = document.LayerKindGroup
	case layerTypeTilemap:
		kind = document.LayerKindTilemap
	default:
		return newError(KindInvalidData, fmt.Sprintf("unknown layer type %d", typ), nil)
	}

	layer := newDecodedLayer(kind, name)
	layer.Flags = document.LayerFlags(flags)
	layer.BlendMode = document.NormalizeBlendMode(blendMode)
	switch {
	case kind == document.LayerKindGroup && state.groupOpacityValid:
		layer.Opacity = opacity
	case kind != document.LayerKindGroup && state.layerOpacityValid:
		layer.Opacity = opacity
	default:
		layer.Opacity = 255
	}

	if kind == document.LayerKindTilemap {
		tf := newFieldReader(br)
		tilesetIndex := tf.dword()
		if err := tf.done(); err != nil {
			return err
		}
		if int(tilesetIndex) >= len(state.sprite.Tilesets) {
			return newError(KindInvalidData, fmt.Sprintf("tilemap layer references out-of-range tileset %d", tilesetIndex), nil)
		}
		layer.TilesetIndex = int(tilesetIndex)
	}

	if err := d.attachLayer(state, layer, int(childLevel)); err != nil {
		return err
	}
	state.layerIndex = append(state.layerIndex, layer)
	state.lastTarget = &layer.UserData
	return nil
}

func (d *Decoder) attachLayer(state *decodeState, layer *document.Layer, childLevel int) error {
	var parent *document.Layer
	if childLevel == 0 {
		parent = state.sprite.Root
	} else {
		if childLevel-1 >= len(state.groupStack) {
			return newError(KindInvalidData, fmt.Sprintf("layer child level %d out of order", childLevel), nil)
		}
		parent = state.groupStack[childLevel-1]
	}
	if err := parent.AppendChild(layer); err != nil {
		return newError(KindInvalidData, err.Error(), err)
	}

	if len(state.groupStack) > childLevel {
		state.groupStack = state.groupStack[:childLevel]
	}
	if layer.Kind == document.LayerKindGroup {
		state.groupStack = append(state.groupStack, layer)
	}
	return nil
}

func celImageMode(layer *document.Layer, spriteMode document.ColorMode) document.ColorMode {
	if layer.Kind == document.LayerKindTilemap {
		return document.ColorModeTilemap
	}
	return spriteMode
}

func readCompressed(br *binaryio.Reader, chunkStart, chunkSize int64, want int) ([]byte, error) {
	pos, err := br.Pos()
	if err != nil {
		return nil, wrapBinaryErr(err)
	}
	remaining := chunkStart + chunkSize - pos
	if remaining < 0 {
		remaining = 0
	}
	out, err := zlibstream.Decompress(br.LimitedReader(remaining), want)
	if err != nil {
		return nil, newError(KindInvalidData, "zlib decompress: "+err.Error(), err)
	}
	return out, nil
}

func (d *Decoder) decodeCel(br *binaryio.Reader, state *decodeState, frameIdx int, chunkStart, chunkSize int64) error {
	f := newFieldReader(br)
	layerIndex := f.word()
	x := f.short()
	y := f.short()
	opacity := f.byte_()
	celType := f.word()
	zIndex := f.short()
	f.skip(5)
	if err := f.done(); err != nil {
		return err
	}

	if int(layerIndex) >= len(state.layerIndex) {
		d.logger().Debug("dropping cel: layer index out of range", zap.Uint16("layerIndex", layerIndex))
		return nil
	}
	layer := state.layerIndex[layerIndex]

	var cel *document.Cel
	switch celType {
	case celTypeLinked:
		lf := newFieldReader(br)
		targetFrame := lf.word()
		if err := lf.done(); err != nil {
			return err
		}
		cel = document.NewLinkedCel(int(targetFrame))

	case celTypeRaw, celTypeCompressedImage:
		hf := newFieldReader(br)
		w := hf.word()
		h := hf.word()
		if err := hf.done(); err != nil {
			return err
		}
		mode := celImageMode(layer, state.sprite.Mode)
		want := int(w) * int(h) * mode.BytesPerPixel()

		var pix []byte
		var err error
		if celType == celTypeRaw {
			pix, err = br.ReadBytes(want)
			if err != nil {
				return wrapBinaryErr(err)
			}
		} else {
			pix, err = readCompressed(br, chunkStart, chunkSize, want)
			if err != nil {
				return err
			}
		}
		img, err := document.NewImageFromPixels(int(w), int(h), mode, pix)
		if err != nil {
			return newError(KindInvalidData, err.Error(), err)
		}
		cel = document.NewCel(x, y, img)

	case celTypeCompressedTilemap:
		hf := newFieldReader(br)
		w := hf.word()
		h := hf.word()
		hf.skip(2)  // bits per tile, always 32
		hf.skip(16) // index/flipX/flipY/rotate90 masks, fixed values
		hf.skip(10) // reserved
		if err := hf.done(); err != nil {
			return err
		}
		want := int(w) * int(h) * 4
		pix, err := readCompressed(br, chunkStart, chunkSize, want)
		if err != nil {
			return err
		}
		img, err := document.NewImageFromPixels(int(w), int(h), document.ColorModeTilemap, pix)
		if err != nil {
			return newError(KindInvalidData, err.Error(), err)
		}
		cel = document.NewCel(x, y, img)

	default:
		return newError(KindInvalidData, fmt.Sprintf("unknown cel type %d", celType), nil)
	}

	cel.X, cel.Y = x, y
	cel.Opacity = opacity
	cel.ZIndex = zIndex

	if err := layer.AddCel(frameIdx, cel); err != nil {
		return newError(KindInvalidData, err.Error(), err)
	}
	state.lastTarget = &cel.UserData
	return nil
}

func (d *Decoder) decodeTags(br *binaryio.Reader, state *decodeState) error {
	f := newFieldReader(br)
	count := f.word()
	f.skip(8)
	if err := f.done(); err != nil {
		return err
	}

	for i := 0; i < int(count); i++ {
		tf := newFieldReader(br)
		from := tf.word()
		to := tf.word()
		aniDir := tf.byte_()
		repeat := tf.word()
		tf.skip(6)
		r := tf.byte_()
		g := tf.byte_()
		b := tf.byte_()
		tf.skip(1)
		name := tf.string_()
		if err := tf.done(); err != nil {
			return err
		}

		tag := document.NewTag(name, int(from), int(to))
		tag.Direction = document.NormalizeAnimationDirection(aniDir)
		tag.Repeat = int(repeat)
		tag.Color = document.Rgba32{R: r, G: g, B: b, A: 255}

		state.sprite.AppendTag(tag)
		state.pendingTags = append(state.pendingTags, tag)
	}
	state.lastTarget = nil
	return nil
}

func (d *Decoder) decodeNewPalette(br *binaryio.Reader, state *decodeState, frameIdx int) error {
	f := newFieldReader(br)
	newSize := f.dword()
	fromIndex := f.dword()
	toIndex := f.dword()
	f.skip(8)
	if err := f.done(); err != nil {
		return err
	}

	pal := state.sprite.PaletteAt(frameIdx)
	if pal.Frame != frameIdx {
		fresh := document.NewPalette(frameIdx, pal.Size())
		copy(fresh.Entries, pal.Entries)
		state.sprite.AppendPalette(fresh)
		pal = state.sprite.PaletteAt(frameIdx)
	}
	if int(newSize) != pal.Size() {
		pal.Resize(int(newSize))
	}

	if toIndex >= fromIndex {
		for i := fromIndex; i <= toIndex; i++ {
			ef := newFieldReader(br)
			entryFlags := ef.word()
			r := ef.byte_()
			g := ef.byte_()
			b := ef.byte_()
			a := ef.byte_()
			if err := ef.done(); err != nil {
				return err
			}
			if entryFlags&1 != 0 {
				if _, err := br.ReadString(); err != nil {
					return wrapBinaryErr(err)
				}
			}
			pal.SetColor(int(i), document.Rgba32{R: r, G: g, B: b, A: a})
		}
	}
	state.foundNewPalette = true
	return nil
}

func (d *Decoder) decodeUserData(br *binaryio.Reader, state *decodeState) error {
	f := newFieldReader(br)
	flags := f.dword()
	if err := f.done(); err != nil {
		return err
	}

	var ud document.UserData
	if flags&userDataFlagText != 0 {
		text, err := br.ReadString()
		if err != nil {
			return wrapBinaryErr(err)
		}
		ud.SetText(text)
	}
	if flags&userDataFlagColor != 0 {
		cf := newFieldReader(br)
		r := cf.byte_()
		g := cf.byte_()
		b := cf.byte_()
		a := cf.byte_()
		if err := cf.done(); err != nil {
			return err
		}
		ud.SetColor(document.Rgba32{R: r, G: g, B: b, A: a})
	}
	// Bit 2 (properties) is deliberately not read; any bytes it would
	// occupy are skipped by decodeChunk's unconditional post-seek.
	state.bindUserData(ud)
	return nil
}

func (d *Decoder) decodeSlice(br *binaryio.Reader, state *decodeState) error {
	f := newFieldReader(br)
	keyCount := f.dword()
	flags := f.dword()
	f.skip(4)
	name := f.string_()
	if err := f.done(); err != nil {
		return err
	}

	has9Slice := flags&sliceFlag9Slice != 0
	hasPivot := flags&sliceFlagPivot != 0

	slice := document.NewSlice(name)
	for i := 0; i < int(keyCount); i++ {
		kf := newFieldReader(br)
		frame := kf.dword()
		x := kf.long()
		y := kf.long()
		w := kf.dword()
		h := kf.dword()
		key := document.SliceKey{Frame: int(frame), X: x, Y: y, W: w, H: h}

		if has9Slice {
			key.HasCenter = true
			key.CX = kf.long()
			key.CY = kf.long()
			key.CW = kf.dword()
			key.CH = kf.dword()
		}
		if hasPivot {
			key.HasPivot = true
			key.PX = kf.long()
			key.PY = kf.long()
		}
		if err := kf.done(); err != nil {
			return err
		}
		slice.AddKey(key)
	}
	state.sprite.AppendSlice(slice)
	state.lastTarget = &slice.UserData
	return nil
}

func (d *Decoder) decodeTileset(br *binaryio.Reader, state *decodeState, chunkStart, chunkSize int64) error {
	f := newFieldReader(br)
	tilesetIndex := f.dword()
	flags := f.dword()
	tileCount := f.dword()
	tileWidth := f.word()
	tileHeight := f.word()
	baseIndex := f.short()
	f.skip(14)
	name := f.string_()
	if err := f.done(); err != nil {
		return err
	}

	if flags&tilesetFlagExternalFile != 0 {
		ef := newFieldReader(br)
		ef.dword() // external file id
		ef.dword() // external tileset id
		if err := ef.done(); err != nil {
			return err
		}
	}

	ts, err := document.NewTileset(int(tileWidth), int(tileHeight), state.sprite.Mode, int(baseIndex), name)
	if err != nil {
		return newError(KindInvalidData, err.Error(), err)
	}

	if flags&tilesetFlagEmbedTiles != 0 {
		lf := newFieldReader(br)
		lf.dword() // compressed data length, unused: the payload is bounded by the chunk end
		if err := lf.done(); err != nil {
			return err
		}

		bpp := state.sprite.Mode.BytesPerPixel()
		tileStride := int(tileWidth) * int(tileHeight) * bpp
		want := int(tileCount) * tileStride
		all, err := readCompressed(br, chunkStart, chunkSize, want)
		if err != nil {
			return err
		}

		for i := 0; i < int(tileCount); i++ {
			start := i * tileStride
			tilePix := make([]byte, tileStride)
			copy(tilePix, all[start:start+tileStride])
			img, err := document.NewImageFromPixels(int(tileWidth), int(tileHeight), state.sprite.Mode, tilePix)
			if err != nil {
				return newError(KindInvalidData, err.Error(), err)
			}
			if i == 0 {
				ts.Tiles[0] = img
			} else if _, err := ts.Append(img); err != nil {
				return newError(KindInvalidData, err.Error(), err)
			}
		}
	}

	idx := state.sprite.AppendTileset(ts)
	if idx != int(tilesetIndex) {
		d.logger().Debug("tileset wire index does not match assigned position",
			zap.Uint32("wire", tilesetIndex), zap.Int("assigned", idx))
	}
	state.lastTarget = &ts.UserData
	return nil
}
