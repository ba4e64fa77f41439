// Package zlibstream compresses and decompresses the RFC 1950 ZLIB
// streams used by the Aseprite format for cel pixel data and tileset
// tile data.
package zlibstream

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

var writerPool = sync.Pool{
	New: func() any { return zlib.NewWriter(io.Discard) },
}

// Compress returns p framed as a fresh ZLIB stream.
func Compress(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := writerPool.Get().(*zlib.Writer)
	zw.Reset(&buf)
	defer writerPool.Put(zw)

	if _, err := zw.Write(p); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates a ZLIB stream read from r into exactly want
// bytes. The source format tolerates a short compressed payload; any
// bytes beyond what the stream actually yields are left zero-filled
// rather than treated as an error.
func Decompress(r io.Reader, want int) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, want)
	if _, err := io.ReadFull(zr, out); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return out, nil
}
