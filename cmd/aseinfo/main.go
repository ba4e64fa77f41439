// Command aseinfo loads an Aseprite document and prints its structure:
// frame count and durations, the layer tree, tags, slices and palette
// sizes. It never rasterizes cel pixels; it reports counts, names and
// metadata only.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/aseform/asefile/codec"
	"github.com/aseform/asefile/document"
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
		fmt.Fprintf(os.Stderr, "aseinfo: init logger: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync() //nolint:errcheck

	if *path == "" {
		l.Fatal("missing -file")
	}
	if !codec.IsSupported(*path) {
		l.Fatal("unsupported extension", zap.String("path", *path))
	}

	f, err := os.Open(*path)
	if err != nil {
		l.Fatal("open", zap.String("path", *path), zap.Error(err))
	}
	defer f.Close()

	dec := codec.NewDecoder()
	dec.Logger = l

	sprite, err := dec.Decode(f)
	if err != nil {
		l.Fatal("decode", zap.String("path", *path), zap.Error(err))
	}
	sprite.MarkClean(*path)

	l.Info("decoded",
		zap.String("path", *path),
		zap.Int("width", sprite.Width),
		zap.Int("height", sprite.Height),
		zap.Int("frames", sprite.FrameCount()))

	printSprite(sprite)
}

func printSprite(sprite *document.Sprite) {
	fmt.Printf("sprite %dx%d mode=%v frames=%d\n", sprite.Width, sprite.Height, sprite.Mode, sprite.FrameCount())
	fmt.Printf("transparent index: %d, pixel ratio: %d:%d\n", sprite.TransparentIndex, sprite.PixelRatio.Width, sprite.PixelRatio.Height)

	fmt.Println("frames:")
	for i, f := range sprite.Frames {
		fmt.Printf("  %3d  %dms\n", i, f.DurationMs)
	}

	fmt.Println("layers:")
	printLayerTree(sprite.Root, 0)

	fmt.Printf("palettes: %d\n", len(sprite.Palettes))
	for _, p := range sprite.Palettes {
		fmt.Printf("  frame %d: %d entries\n", p.Frame, p.Size())
	}

	fmt.Printf("tilesets: %d\n", len(sprite.Tilesets))
	for i, ts := range sprite.Tilesets {
		fmt.Printf("  %d: %q %dx%d, %d tiles\n", i, ts.Name, ts.TileWidth, ts.TileHeight, ts.Count())
	}

	fmt.Printf("tags: %d\n", len(sprite.Tags))
	for _, t := range sprite.Tags {
		fmt.Printf("  %q [%d,%d] dir=%v repeat=%d\n", t.Name, t.FromFrame, t.ToFrame, t.Direction, t.Repeat)
	}

	fmt.Printf("slices: %d\n", len(sprite.Slices))
	for _, s := range sprite.Slices {
		fmt.Printf("  %q: %d keys, 9-slice=%v pivot=%v\n", s.Name, len(s.Keys), s.Has9Slice(), s.HasPivot())
	}
}

func printLayerTree(l *document.Layer, depth int) {
	for _, c := range l.Children {
		fmt.Printf("  %s%s (%v) opacity=%d cels=%d\n", strings.Repeat("  ", depth), c.Name, c.Kind, c.Opacity, len(c.Cels))
		if c.Kind == document.LayerKindGroup {
			printLayerTree(c, depth+1)
		}
	}
}
