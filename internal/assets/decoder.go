// Package assets owns the 256-slot image asset table: decoded RGBA
// bitmaps staged from the upload region, and the tile-extraction
// routine tilesets pull pixels from.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
)

// Decoder turns encoded image bytes into a raw 8-bit-per-channel RGBA
// raster. This is the external collaborator named in spec.md §6 — the
// coprocessor core never parses an image container format itself.
type Decoder interface {
	Decode(data []byte) (width, height int, rgba []byte, err error)
}

// PNGDecoder decodes PNG-encoded bytes using the standard library's
// image/png codec. PNG decoding sits outside this repo's core (the
// command interpreter and compositor); no library in the retrieved
// example pack targets PNG specifically (the WuFFS and WebP trees
// decode their own container formats), so the standard decoder is used
// here rather than reaching for an unrelated image stack. See
// DESIGN.md.
type PNGDecoder struct{}

// Decode implements Decoder.
func (PNGDecoder) Decode(data []byte) (int, int, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return width, height, rgba.Pix, nil
}
