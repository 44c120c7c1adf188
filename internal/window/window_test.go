package window

import "testing"

// P4 — after a successful Define(w, X, Y), tilesets/tile_indexes have
// length X*Y and the window is disabled.
func TestDefineAllocatesGridAndStartsDisabled(t *testing.T) {
	table := NewTable()
	if err := table.Define(0, false, 10, 10, 0, 0, 0, 0, 8, 8, 3, 4); err != nil {
		t.Fatalf("Define: %v", err)
	}
	w := table.Get(0)
	if len(w.Tilesets) != 12 || len(w.TileIndexes) != 12 {
		t.Errorf("grid length = %d/%d, want 12/12", len(w.Tilesets), len(w.TileIndexes))
	}
	if w.Enabled {
		t.Errorf("expected window to start disabled")
	}
}

// I1 — screen_xcount <= 640, screen_ycount <= 360.
func TestDefineRejectsOversizedScreen(t *testing.T) {
	table := NewTable()
	if err := table.Define(0, false, 641, 10, 0, 0, 0, 0, 8, 8, 1, 1); err == nil {
		t.Errorf("expected screen_xcount over 640 to be rejected")
	}
	if err := table.Define(0, false, 10, 361, 0, 0, 0, 0, 8, 8, 1, 1); err == nil {
		t.Errorf("expected screen_ycount over 360 to be rejected")
	}
	if err := table.Define(0, false, 640, 360, 0, 0, 0, 0, 8, 8, 1, 1); err != nil {
		t.Errorf("expected boundary values to be accepted: %v", err)
	}
}

func TestEnableRejectsEmptyWindow(t *testing.T) {
	table := NewTable()
	w := table.Get(0)
	if err := w.Enable(true); err == nil {
		t.Errorf("expected enabling an undefined window to fail")
	}
	if err := table.Define(0, false, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := table.Get(0).Enable(true); err != nil {
		t.Errorf("expected enabling a defined window to succeed: %v", err)
	}
}

func TestCellIndexBounds(t *testing.T) {
	table := NewTable()
	if err := table.Define(0, false, 10, 10, 0, 0, 0, 0, 8, 8, 3, 2); err != nil {
		t.Fatalf("Define: %v", err)
	}
	w := table.Get(0)
	idx, err := w.CellIndex(2, 1)
	if err != nil {
		t.Fatalf("CellIndex: %v", err)
	}
	if idx != 5 {
		t.Errorf("CellIndex(2,1) = %d, want 5", idx)
	}
	if _, err := w.CellIndex(3, 0); err == nil {
		t.Errorf("expected out-of-range cell to fail")
	}
}

// Q2 — ShiftTiles with y_dir == -1 or y_dir == +1 both copy from
// Tilesets into TileIndexes, not from TileIndexes into itself. The edge
// row left behind by the shift keeps its prior contents.
func TestShiftTilesYDirCopiesFromTilesets(t *testing.T) {
	cases := []struct {
		yDir            int
		wantTilesets    []uint8
		wantTileIndexes []uint8
	}{
		// Row 0 takes row 1 (its TileIndexes from Tilesets[1]); row 1 is the edge.
		{-1, []uint8{9, 9}, []uint8{9, 2}},
		// Row 1 takes row 0 (its TileIndexes from Tilesets[0]); row 0 is the edge.
		{1, []uint8{7, 7}, []uint8{1, 7}},
	}
	for _, tc := range cases {
		table := NewTable()
		if err := table.Define(0, false, 10, 10, 0, 0, 0, 0, 8, 8, 1, 2); err != nil {
			t.Fatalf("Define: %v", err)
		}
		w := table.Get(0)
		w.Tilesets[0], w.Tilesets[1] = 7, 9
		w.TileIndexes[0], w.TileIndexes[1] = 1, 2

		if err := w.ShiftTiles(0, tc.yDir); err != nil {
			t.Fatalf("ShiftTiles(0,%d): %v", tc.yDir, err)
		}

		for i := range w.TileIndexes {
			if w.Tilesets[i] != tc.wantTilesets[i] || w.TileIndexes[i] != tc.wantTileIndexes[i] {
				t.Errorf("y_dir=%d: cell %d = (%d,%d), want (%d,%d)", tc.yDir, i, w.Tilesets[i], w.TileIndexes[i], tc.wantTilesets[i], tc.wantTileIndexes[i])
			}
		}
	}
}

// P5 — shifting +1 then -1 in X is the identity on columns
// [0, tile_xcount-1) when the rightmost column was never read in
// between (X-only shifts touch only Tilesets/TileIndexes row-wise, so
// the Q2 Y quirk does not interfere).
func TestShiftTilesXRoundTripIsIdentityExceptLastColumn(t *testing.T) {
	table := NewTable()
	if err := table.Define(0, false, 10, 10, 0, 0, 0, 0, 8, 8, 4, 1); err != nil {
		t.Fatalf("Define: %v", err)
	}
	w := table.Get(0)
	wantTilesets := []uint8{10, 20, 30, 40}
	wantTileIndexes := []uint8{1, 2, 3, 4}
	copy(w.Tilesets, wantTilesets)
	copy(w.TileIndexes, wantTileIndexes)

	if err := w.ShiftTiles(1, 0); err != nil {
		t.Fatalf("ShiftTiles(+1,0): %v", err)
	}
	if err := w.ShiftTiles(-1, 0); err != nil {
		t.Fatalf("ShiftTiles(-1,0): %v", err)
	}

	for i := 0; i < len(wantTilesets)-1; i++ {
		if w.Tilesets[i] != wantTilesets[i] || w.TileIndexes[i] != wantTileIndexes[i] {
			t.Errorf("column %d = (%d,%d), want (%d,%d)", i, w.Tilesets[i], w.TileIndexes[i], wantTilesets[i], wantTileIndexes[i])
		}
	}
}

func TestShiftTilesRejectsEmptyWindow(t *testing.T) {
	table := NewTable()
	w := table.Get(0)
	if err := w.ShiftTiles(1, 0); err == nil {
		t.Errorf("expected shift on empty window to fail")
	}
}

func TestShiftTilesRejectsOutOfRangeDirection(t *testing.T) {
	table := NewTable()
	if err := table.Define(0, false, 10, 10, 0, 0, 0, 0, 8, 8, 2, 2); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := table.Get(0).ShiftTiles(2, 0); err == nil {
		t.Errorf("expected |x_dir| > 1 to fail")
	}
}
