package codec

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aseform/asefile/document"
)

// IsSupported reports whether path's extension is .ase or .aseprite,
// case-insensitively.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ase", ".aseprite":
		return true
	default:
		return false
	}
}

// DecodeFile decodes the Aseprite document at path. On success the
// returned Sprite has its source path recorded and is marked clean.
func DecodeFile(path string) (*document.Sprite, error) {
	if !IsSupported(path) {
		return nil, newError(KindUnsupportedFormat, filepath.Ext(path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, "", err)
	}
	defer f.Close()

	sprite, err := NewDecoder().Decode(f)
	if err != nil {
		return nil, err
	}
	sprite.MarkClean(path)
	return sprite, nil
}

// DecodeStream decodes an Aseprite document from r. The format is
// length-prefixed at file, frame and chunk granularity and assumes
// seekable access (spec §1 Non-goals), so r is buffered into memory
// first.
func DecodeStream(r io.Reader) (*document.Sprite, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(KindIO, "", err)
	}
	return NewDecoder().Decode(bytes.NewReader(data))
}

// EncodeFile encodes sprite and writes it to path. The bytes are
// written to a temporary file in the same directory and renamed into
// place on success, so a failed encode never leaves a partially
// written file at the destination path. On success sprite's
// destination path is recorded and it is marked clean.
func EncodeFile(sprite *document.Sprite, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".asefile-*.tmp")
	if err != nil {
		return newError(KindIO, "", err)
	}
	tmpPath := tmp.Name()

	if err := NewEncoder().Encode(sprite, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return newError(KindIO, "", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return newError(KindIO, "", err)
	}

	sprite.MarkClean(path)
	return nil
}

// EncodeStream encodes sprite and writes it to w.
func EncodeStream(sprite *document.Sprite, w io.Writer) error {
	return NewEncoder().Encode(sprite, w)
}
