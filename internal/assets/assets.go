package assets

import (
	"fmt"

	"sdhr-core/internal/pixel"
)

// SlotCount is the fixed number of image asset slots the table exposes
// (addressed by a single byte).
const SlotCount = 256

// Asset is a decoded 8-bit-per-channel RGBA raster staged for tile
// extraction. A zero-value Asset (Width == 0) is an undefined slot.
type Asset struct {
	Width  int
	Height int
	RGBA   []byte // len == Width*Height*4, row-major, R,G,B,A per pixel
}

// Defined reports whether the slot holds decoded pixel data.
func (a *Asset) Defined() bool {
	return a != nil && a.Width > 0 && a.Height > 0
}

// Table is the 256-slot image asset table. Assets are populated from
// bytes already staged in the upload region and never touched again
// until redefined or reset.
type Table struct {
	decoder Decoder
	slots   [SlotCount]Asset
}

// NewTable returns an empty asset table that decodes with decoder.
func NewTable(decoder Decoder) *Table {
	return &Table{decoder: decoder}
}

// Define decodes data and installs it at index, replacing whatever was
// there before.
func (t *Table) Define(index uint8, data []byte) error {
	width, height, rgba, err := t.decoder.Decode(data)
	if err != nil {
		return fmt.Errorf("define asset %d: %w", index, err)
	}
	t.slots[index] = Asset{Width: width, Height: height, RGBA: rgba}
	return nil
}

// Get returns the asset at index. The returned pointer is never nil;
// callers must check Defined.
func (t *Table) Get(index uint8) *Asset {
	return &t.slots[index]
}

// Reset clears every slot back to undefined.
func (t *Table) Reset() {
	t.slots = [SlotCount]Asset{}
}

// ExtractTile reads an xdim×ydim block of RGBA8888 pixels out of the
// asset starting at (xsource, ysource) and returns it as a flat
// row-major ARGB1555 tile, quantizing each channel down to 5 bits and
// folding the source alpha into a single opacity bit (MSB set when the
// source pixel's alpha is at least half of full scale).
//
// The caller is responsible for the tile's source offsets; this
// method only refuses reads that would run off the edge of the
// decoded raster (I3).
func (a *Asset) ExtractTile(xdim, ydim int, xsource, ysource uint64) ([]uint16, error) {
	if !a.Defined() {
		return nil, fmt.Errorf("extract tile: source asset is undefined")
	}
	if xsource+uint64(xdim) > uint64(a.Width) || ysource+uint64(ydim) > uint64(a.Height) {
		return nil, fmt.Errorf("extract tile: source rect [%d,%d]+[%d,%d] exceeds asset bounds %dx%d",
			xsource, ysource, xdim, ydim, a.Width, a.Height)
	}

	tile := make([]uint16, xdim*ydim)
	for y := 0; y < ydim; y++ {
		srcRow := (int(ysource)+y)*a.Width + int(xsource)
		for x := 0; x < xdim; x++ {
			p := (srcRow + x) * 4
			r, g, b, al := a.RGBA[p], a.RGBA[p+1], a.RGBA[p+2], a.RGBA[p+3]
			tile[y*xdim+x] = pixel.RGBA8888ToARGB1555(r, g, b, al)
		}
	}
	return tile, nil
}
