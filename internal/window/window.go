// Package window owns the 256-slot window table: viewport geometry,
// wrap/black policy, and the tile-grid index arrays a composited
// window draws from.
package window

import "fmt"

// SlotCount is the fixed number of window slots.
const SlotCount = 256

// MaxScreenXCount and MaxScreenYCount bound a window's visible area
// (I1): the logical scan-out is 640x360.
const (
	MaxScreenXCount = 640
	MaxScreenYCount = 360
)

// Cell identifies which tile of which tileset occupies one grid cell.
type Cell struct {
	TilesetIdx uint8
	TileIdx    uint8
}

// Window is one slot of the window table.
type Window struct {
	Enabled     bool
	BlackOrWrap bool // false = black outside grid, true = wrap

	ScreenXCount, ScreenYCount uint64
	ScreenXBegin, ScreenYBegin int64
	TileXBegin, TileYBegin     int64
	TileXDim, TileYDim         uint64
	TileXCount, TileYCount     uint64

	Tilesets    []uint8
	TileIndexes []uint8
}

// Defined reports whether the slot has been sized by DefineWindow.
func (w *Window) Defined() bool {
	return w != nil && len(w.Tilesets) > 0
}

// Table is the 256-slot window table.
type Table struct {
	slots [SlotCount]Window
}

// NewTable returns an empty window table.
func NewTable() *Table {
	return &Table{}
}

// Get returns the window at index. The returned pointer is never
// nil; callers must check Defined.
func (t *Table) Get(index uint8) *Window {
	return &t.slots[index]
}

// Reset clears every slot.
func (t *Table) Reset() {
	t.slots = [SlotCount]Window{}
}

// Define reinitializes the window at index from scratch: every field
// is set from the arguments, the two tile-grid arrays are reallocated
// to tileXCount*tileYCount (P4), and the window starts disabled.
//
// Validates I1: screen_xcount <= 640, screen_ycount <= 360.
func (t *Table) Define(index uint8, blackOrWrap bool, screenXCount, screenYCount uint64, screenXBegin, screenYBegin, tileXBegin, tileYBegin int64, tileXDim, tileYDim, tileXCount, tileYCount uint64) error {
	if screenXCount > MaxScreenXCount {
		return fmt.Errorf("define window %d: screen_xcount %d exceeds %d", index, screenXCount, MaxScreenXCount)
	}
	if screenYCount > MaxScreenYCount {
		return fmt.Errorf("define window %d: screen_ycount %d exceeds %d", index, screenYCount, MaxScreenYCount)
	}

	cellCount := tileXCount * tileYCount
	t.slots[index] = Window{
		BlackOrWrap:  blackOrWrap,
		ScreenXCount: screenXCount, ScreenYCount: screenYCount,
		ScreenXBegin: screenXBegin, ScreenYBegin: screenYBegin,
		TileXBegin: tileXBegin, TileYBegin: tileYBegin,
		TileXDim: tileXDim, TileYDim: tileYDim,
		TileXCount: tileXCount, TileYCount: tileYCount,
		Tilesets:    make([]uint8, cellCount),
		TileIndexes: make([]uint8, cellCount),
	}
	return nil
}

// CellIndex computes the flat index of grid cell (tx, ty) for a
// defined window, or an error if the cell lies outside the grid.
func (w *Window) CellIndex(tx, ty uint64) (int, error) {
	if tx >= w.TileXCount || ty >= w.TileYCount {
		return 0, fmt.Errorf("cell (%d,%d) outside grid %dx%d", tx, ty, w.TileXCount, w.TileYCount)
	}
	return int(ty*w.TileXCount + tx), nil
}

// Enable sets the enabled flag. Enabling an empty window (zero grid
// cells) is rejected.
func (w *Window) Enable(enabled bool) error {
	if enabled && !w.Defined() {
		return fmt.Errorf("enable window: window is empty")
	}
	w.Enabled = enabled
	return nil
}

// SetPosition updates the window's screen-space top-left corner.
func (w *Window) SetPosition(screenXBegin, screenYBegin int64) {
	w.ScreenXBegin = screenXBegin
	w.ScreenYBegin = screenYBegin
}

// AdjustView updates the window's view offset into its tile grid.
func (w *Window) AdjustView(tileXBegin, tileYBegin int64) {
	w.TileXBegin = tileXBegin
	w.TileYBegin = tileYBegin
}

// ShiftTiles shifts the entire grid by one cell in x and/or y,
// retaining the content pushed into the vacated edge row/column (no
// clearing). |xDir| and |yDir| must each be at most 1; the grid must
// be non-empty.
//
// The y_dir != 0 branches reproduce a source quirk verbatim: both the
// -1 and +1 cases copy from Tilesets into TileIndexes rather than
// shifting TileIndexes into itself. This is preserved exactly as
// observed; do not "fix" it.
func (w *Window) ShiftTiles(xDir, yDir int) error {
	if !w.Defined() {
		return fmt.Errorf("shift tiles: window is empty")
	}
	if xDir < -1 || xDir > 1 || yDir < -1 || yDir > 1 {
		return fmt.Errorf("shift tiles: direction out of range x=%d y=%d", xDir, yDir)
	}

	xCount, yCount := int(w.TileXCount), int(w.TileYCount)

	if xDir != 0 {
		for row := 0; row < yCount; row++ {
			base := row * xCount
			if xDir > 0 {
				for col := xCount - 1; col > 0; col-- {
					w.Tilesets[base+col] = w.Tilesets[base+col-1]
					w.TileIndexes[base+col] = w.TileIndexes[base+col-1]
				}
			} else {
				for col := 0; col < xCount-1; col++ {
					w.Tilesets[base+col] = w.Tilesets[base+col+1]
					w.TileIndexes[base+col] = w.TileIndexes[base+col+1]
				}
			}
		}
	}

	if yDir != 0 {
		if yDir > 0 {
			for row := yCount - 1; row > 0; row-- {
				srcBase, dstBase := (row-1)*xCount, row*xCount
				for col := 0; col < xCount; col++ {
					w.Tilesets[dstBase+col] = w.Tilesets[srcBase+col]
					w.TileIndexes[dstBase+col] = w.Tilesets[srcBase+col]
				}
			}
		} else {
			for row := 0; row < yCount-1; row++ {
				srcBase, dstBase := (row+1)*xCount, row*xCount
				for col := 0; col < xCount; col++ {
					w.Tilesets[dstBase+col] = w.Tilesets[srcBase+col]
					w.TileIndexes[dstBase+col] = w.Tilesets[srcBase+col]
				}
			}
		}
	}

	return nil
}
