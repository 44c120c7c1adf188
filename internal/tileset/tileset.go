// Package tileset owns the 256-slot tileset table: fixed-size pixel
// blocks extracted from image assets, stored as packed ARGB1555
// rasters ready for a window to index into.
package tileset

import (
	"fmt"

	"sdhr-core/internal/assets"
)

// SlotCount is the fixed number of tileset slots.
const SlotCount = 256

// Offset is one (xoffset, yoffset) source-asset coordinate pair, as
// read either from the upload region or inline from a command
// payload.
type Offset struct {
	X uint16
	Y uint16
}

// Tileset is a fixed-size tile atlas: NumEntries tiles, each XDim×YDim
// pixels, packed consecutively in Pixels as ARGB1555.
type Tileset struct {
	XDim       uint8
	YDim       uint8
	NumEntries int // wire 0 means 256
	Pixels     []uint16
}

// Defined reports whether the slot holds an extracted tileset.
func (ts *Tileset) Defined() bool {
	return ts != nil && ts.NumEntries > 0
}

// Tile returns the packed ARGB1555 pixels for entry index, or an error
// if index is out of range (I2).
func (ts *Tileset) Tile(index int) ([]uint16, error) {
	if !ts.Defined() {
		return nil, fmt.Errorf("tile %d: tileset is undefined", index)
	}
	if index < 0 || index >= ts.NumEntries {
		return nil, fmt.Errorf("tile %d: out of range [0,%d)", index, ts.NumEntries)
	}
	tileLen := int(ts.XDim) * int(ts.YDim)
	start := index * tileLen
	return ts.Pixels[start : start+tileLen], nil
}

// Table is the 256-slot tileset table.
type Table struct {
	slots [SlotCount]Tileset
}

// NewTable returns an empty tileset table.
func NewTable() *Table {
	return &Table{}
}

// Get returns the tileset at index. The returned pointer is never
// nil; callers must check Defined.
func (t *Table) Get(index uint8) *Tileset {
	return &t.slots[index]
}

// Reset clears every slot, releasing all owned rasters.
func (t *Table) Reset() {
	t.slots = [SlotCount]Tileset{}
}

// wireEntries turns a wire num_entries byte into the entry count (0
// means 256, per spec.md §3).
func wireEntries(numEntries uint8) int {
	if numEntries == 0 {
		return 256
	}
	return int(numEntries)
}

// Define extracts numEntries tiles of xdim×ydim pixels from the asset
// at assetIndex, one tile per entry in offsets, and installs the
// result at index, releasing whatever tileset was there before.
//
// The Y asset offset for each tile is computed as offset.Y * xdim, not
// offset.Y * ydim — preserved from the source protocol exactly as
// documented; callers should expect mismatched extraction when
// xdim != ydim.
func (t *Table) Define(index uint8, assetTable *assets.Table, assetIndex uint8, xdim, ydim, numEntries uint8, offsets []Offset) error {
	entries := wireEntries(numEntries)
	if len(offsets) != entries {
		return fmt.Errorf("define tileset %d: got %d offset entries, want %d", index, len(offsets), entries)
	}

	asset := assetTable.Get(assetIndex)
	if !asset.Defined() {
		return fmt.Errorf("define tileset %d: asset %d is undefined", index, assetIndex)
	}

	tileLen := int(xdim) * int(ydim)
	pixels := make([]uint16, tileLen*entries)
	for i, off := range offsets {
		xsource := uint64(off.X) * uint64(xdim)
		ysource := uint64(off.Y) * uint64(xdim) // Q1 quirk: xdim, not ydim

		tile, err := asset.ExtractTile(int(xdim), int(ydim), xsource, ysource)
		if err != nil {
			return fmt.Errorf("define tileset %d: entry %d: %w", index, i, err)
		}
		copy(pixels[i*tileLen:], tile)
	}

	t.slots[index] = Tileset{XDim: xdim, YDim: ydim, NumEntries: entries, Pixels: pixels}
	return nil
}
