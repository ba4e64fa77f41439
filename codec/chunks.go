package codec

// File and frame magic numbers.
const (
	fileMagic  uint16 = 0xA5E0
	frameMagic uint16 = 0xF1FA
)

// Chunk type codes (spec §6).
const (
	chunkOldPalette4   uint16 = 0x0004
	chunkOldPalette11  uint16 = 0x0011
	chunkLayer         uint16 = 0x2004
	chunkCel           uint16 = 0x2005
	chunkCelExtra      uint16 = 0x2006
	chunkColorProfile  uint16 = 0x2007
	chunkExternalFiles uint16 = 0x2008
	chunkTags          uint16 = 0x2018
	chunkPalette       uint16 = 0x2019
	chunkUserData      uint16 = 0x2020
	chunkSlice         uint16 = 0x2022
	chunkTileset       uint16 = 0x2023
)

// File header flag bits.
const (
	fileFlagLayerOpacityValid uint32 = 1 << 0
	fileFlagGroupOpacityValid uint32 = 1 << 1
)

// Cel chunk types.
const (
	celTypeRaw               uint16 = 0
	celTypeLinked            uint16 = 1
	celTypeCompressedImage   uint16 = 2
	celTypeCompressedTilemap uint16 = 3
)

// UserData chunk flag bits.
const (
	userDataFlagText       uint32 = 1 << 0
	userDataFlagColor      uint32 = 1 << 1
	userDataFlagProperties uint32 = 1 << 2
)

// Slice chunk flag bits.
const (
	sliceFlag9Slice uint32 = 1 << 0
	sliceFlagPivot  uint32 = 1 << 1
)

// Tileset chunk flag bits.
const (
	tilesetFlagExternalFile uint32 = 1 << 0
	tilesetFlagEmbedTiles   uint32 = 1 << 1
	tilesetFlagZeroIsEmpty  uint32 = 1 << 2
)

// deprecatedSpeed is written to the file header's deprecated Speed
// field. On decode, a nonzero Speed only seeds frame 0's duration
// before that frame header's own duration is applied.
const deprecatedSpeed uint16 = 100

const (
	layerTypeImage   uint16 = 0
	layerTypeGroup   uint16 = 1
	layerTypeTilemap uint16 = 2
)
