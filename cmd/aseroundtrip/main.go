// Command aseroundtrip decodes an Aseprite document, re-encodes it in
// memory, and reports whether the result is byte-identical to the
// original — exercising the codec's idempotence property from the
// command line. It never writes the re-encoded bytes back to disk.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aseform/asefile/codec"
)

func main() {
	path := flag.String("file", "", "path to a .ase/.aseprite document (required)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var l *zap.Logger
	var err error
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "aseroundtrip: init logger: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync() //nolint:errcheck

	if *path == "" {
		l.Fatal("missing -file")
	}

	original, err := os.ReadFile(*path)
	if err != nil {
		l.Fatal("read", zap.String("path", *path), zap.Error(err))
	}

	dec := codec.NewDecoder()
	dec.Logger = l
	sprite, err := dec.Decode(bytes.NewReader(original))
	if err != nil {
		l.Fatal("decode", zap.String("path", *path), zap.Error(err))
	}

	enc := codec.NewEncoder()
	enc.Logger = l
	var buf bytes.Buffer
	if err := enc.Encode(sprite, &buf); err != nil {
		l.Fatal("encode", zap.String("path", *path), zap.Error(err))
	}

	identical := bytes.Equal(original, buf.Bytes())
	l.Info("round trip",
		zap.String("path", *path),
		zap.Int("originalBytes", len(original)),
		zap.Int("reencodedBytes", buf.Len()),
		zap.Bool("identical", identical))

	if !identical {
		fmt.Fprintf(os.Stderr, "aseroundtrip: %s: re-encoding differs (original %d bytes, re-encoded %d bytes)\n",
			*path, len(original), buf.Len())
		os.Exit(1)
	}
	fmt.Printf("aseroundtrip: %s: identical (%d bytes)\n", *path, len(original))
}
