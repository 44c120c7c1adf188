package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	_ "github.com/jsummers/gobmp"
)

// BMPDecoder decodes BMP-encoded bytes with github.com/jsummers/gobmp,
// giving the asset table a second real Decoder implementation besides
// the standard library's PNG path.
type BMPDecoder struct{}

// Decode implements Decoder.
func (BMPDecoder) Decode(data []byte) (int, int, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode bmp: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return width, height, rgba.Pix, nil
}
