// Package protocol parses the length-prefixed command stream the
// demultiplexer accumulates into a CommandBuffer and applies each
// record to the asset, tileset, and window tables.
package protocol

import (
	"encoding/binary"

	"sdhr-core/internal/assets"
	"sdhr-core/internal/debug"
	"sdhr-core/internal/memory"
	"sdhr-core/internal/tileset"
	"sdhr-core/internal/window"
)

// Interpreter applies one PROCESS pulse's worth of command records
// against the tables it was constructed with. It holds no state of
// its own across calls to Run beyond its table references.
type Interpreter struct {
	Shadow   *memory.Shadow
	Upload   *memory.Upload
	Assets   *assets.Table
	Tilesets *tileset.Table
	Windows  *window.Table
	Logger   *debug.Logger
}

func (ip *Interpreter) logSuccess(name string) {
	if ip.Logger != nil {
		ip.Logger.Logf(debug.ComponentInterpreter, debug.LogLevelInfo, "%s: Success!", name)
	}
}

// Run parses buf as a concatenation of length-prefixed records and
// applies each in order. It stops and returns the first error
// encountered (I6): no further records are applied once one fails.
func (ip *Interpreter) Run(buf []byte) error {
	pos := 0
	for pos < len(buf) {
		if pos+recordHeaderSize > len(buf) {
			return newProtocolError("truncated record header at offset %d", pos)
		}
		length := int(binary.LittleEndian.Uint16(buf[pos : pos+2]))
		if length < recordHeaderSize {
			return newProtocolError("record length %d at offset %d is smaller than the header", length, pos)
		}
		if pos+length > len(buf) {
			return newProtocolError("record at offset %d declares length %d but only %d bytes remain", pos, length, len(buf)-pos)
		}

		opcode := Opcode(buf[pos+2])
		payload := buf[pos+recordHeaderSize : pos+length]

		if err := ip.dispatch(opcode, payload); err != nil {
			return err
		}

		pos += length
	}
	return nil
}

func (ip *Interpreter) dispatch(opcode Opcode, payload []byte) error {
	switch opcode {
	case OpUploadData:
		if err := ip.handleUploadData(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPLOAD_DATA")
	case OpDefineImageAsset:
		if err := ip.handleDefineImageAsset(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_DEFINE_IMAGE_ASSET")
	case OpDefineTileset:
		if err := ip.handleDefineTileset(payload, false); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_DEFINE_TILESET")
	case OpDefineTilesetImmediate:
		if err := ip.handleDefineTileset(payload, true); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_DEFINE_TILESET_IMMEDIATE")
	case OpDefineWindow:
		if err := ip.handleDefineWindow(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_DEFINE_WINDOW")
	case OpUpdateWindowSetBoth:
		if err := ip.handleUpdateWindowSetBoth(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_SET_BOTH")
	case OpUpdateWindowSingleTileset:
		if err := ip.handleUpdateWindowSingleTileset(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_SINGLE_TILESET")
	case OpUpdateWindowShiftTiles:
		if err := ip.handleUpdateWindowShiftTiles(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_SHIFT_TILES")
	case OpUpdateWindowSetWindowPosition:
		if err := ip.handleUpdateWindowSetWindowPosition(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_SET_WINDOW_POSITION")
	case OpUpdateWindowAdjustWindowView:
		if err := ip.handleUpdateWindowAdjustWindowView(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_ADJUST_WINDOW_VIEW")
	case OpUpdateWindowEnable:
		if err := ip.handleUpdateWindowEnable(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_ENABLE")
	case OpUpdateWindowSetUpload:
		if err := ip.handleUpdateWindowSetUpload(payload); err != nil {
			return err
		}
		ip.logSuccess("SDHR_CMD_UPDATE_WINDOW_SET_UPLOAD")
	case OpReady:
		// Marker only, no state to change.
	case OpDefineImageAssetFilename, OpUploadDataFilename, OpSetBitmasks:
		// Q5 — declared but unimplemented: no filesystem asset loading in
		// this build (3, 15), no bitmask support (12). Logged, not applied.
		if ip.Logger != nil {
			ip.Logger.Logf(debug.ComponentInterpreter, debug.LogLevelWarning, "opcode %d is reserved, ignoring", opcode)
		}
	default:
		return newProtocolError("unrecognized opcode %d", opcode)
	}
	return nil
}

func wireEntryCount(numEntries uint8) int {
	if numEntries == 0 {
		return 256
	}
	return int(numEntries)
}

func (ip *Interpreter) handleUploadData(payload []byte) error {
	if len(payload) != 4 {
		return newProtocolError("UPLOAD_DATA: payload length %d, want 4", len(payload))
	}
	destMed, destHigh, sourceMed, numPages := payload[0], payload[1], payload[2], payload[3]

	if int(sourceMed)+int(numPages) > 256 {
		return newReferenceError("UPLOAD_DATA: source_med(%d)+num_256b_pages(%d) exceeds 256", sourceMed, numPages)
	}

	count := int(numPages) * 256
	staging := make([]byte, count)
	if err := ip.Shadow.ReadPage(sourceMed, count, staging); err != nil {
		return newReferenceError("UPLOAD_DATA: %v", err)
	}

	dest := memory.Offset(destHigh, destMed, 0)
	if err := ip.Upload.WriteAt(dest, staging); err != nil {
		return newReferenceError("UPLOAD_DATA: %v", err)
	}
	return nil
}

func (ip *Interpreter) handleDefineImageAsset(payload []byte) error {
	if len(payload) != 5 {
		return newProtocolError("DEFINE_IMAGE_ASSET: payload length %d, want 5", len(payload))
	}
	assetIdx, uploadMed, uploadHigh := payload[0], payload[1], payload[2]
	pageCount := binary.LittleEndian.Uint16(payload[3:5])

	offset := memory.Offset(uploadHigh, uploadMed, 0)
	data, err := ip.Upload.Slice(offset, uint64(pageCount)*256)
	if err != nil {
		return newReferenceError("DEFINE_IMAGE_ASSET: %v", err)
	}

	if err := ip.Assets.Define(assetIdx, data); err != nil {
		return newDecodeError(err)
	}
	return nil
}

func decodeOffsets(data []byte, entries int) ([]tileset.Offset, error) {
	if len(data) != entries*4 {
		return nil, newProtocolError("tileset offsets: got %d bytes, want %d", len(data), entries*4)
	}
	offsets := make([]tileset.Offset, entries)
	for i := range offsets {
		offsets[i] = tileset.Offset{
			X: binary.LittleEndian.Uint16(data[i*4 : i*4+2]),
			Y: binary.LittleEndian.Uint16(data[i*4+2 : i*4+4]),
		}
	}
	return offsets, nil
}

func (ip *Interpreter) handleDefineTileset(payload []byte, immediate bool) error {
	if len(payload) < 5 {
		return newProtocolError("DEFINE_TILESET: payload length %d, want at least 5", len(payload))
	}
	tilesetIdx, numEntries, xdim, ydim, assetIdx := payload[0], payload[1], payload[2], payload[3], payload[4]
	entries := wireEntryCount(numEntries)

	var offsetBytes []byte
	if immediate {
		offsetBytes = payload[5:]
	} else {
		if len(payload) != 7 {
			return newProtocolError("DEFINE_TILESET: payload length %d, want 7", len(payload))
		}
		dataMed, dataHigh := payload[5], payload[6]
		offset := memory.Offset(dataHigh, dataMed, 0)
		data, err := ip.Upload.Slice(offset, uint64(entries)*4)
		if err != nil {
			return newReferenceError("DEFINE_TILESET: %v", err)
		}
		offsetBytes = data
	}

	offsets, err := decodeOffsets(offsetBytes, entries)
	if err != nil {
		return err
	}

	if err := ip.Tilesets.Define(tilesetIdx, ip.Assets, assetIdx, xdim, ydim, numEntries, offsets); err != nil {
		return newReferenceError("%v", err)
	}
	return nil
}

func (ip *Interpreter) handleDefineWindow(payload []byte) error {
	const wantLen = 2 + 8*10
	if len(payload) != wantLen {
		return newProtocolError("DEFINE_WINDOW: payload length %d, want %d", len(payload), wantLen)
	}
	windowIdx := payload[0]
	blackOrWrap := payload[1] != 0

	u64 := func(off int) uint64 { return binary.LittleEndian.Uint64(payload[off : off+8]) }
	i64 := func(off int) int64 { return int64(u64(off)) }

	screenXCount := u64(2)
	screenYCount := u64(10)
	screenXBegin := i64(18)
	screenYBegin := i64(26)
	tileXBegin := i64(34)
	tileYBegin := i64(42)
	tileXDim := u64(50)
	tileYDim := u64(58)
	tileXCount := u64(66)
	tileYCount := u64(74)

	if err := ip.Windows.Define(windowIdx, blackOrWrap, screenXCount, screenYCount, screenXBegin, screenYBegin, tileXBegin, tileYBegin, tileXDim, tileYDim, tileXCount, tileYCount); err != nil {
		return newReferenceError("%v", err)
	}
	return nil
}

// validateCell checks a (tileset, tile_idx) pair against I2 for a
// window whose tile_xdim/tile_ydim are already known.
func validateCell(tilesets *tileset.Table, w *window.Window, tilesetIdx, tileIdx uint8) error {
	ts := tilesets.Get(tilesetIdx)
	if !ts.Defined() {
		return newReferenceError("tileset %d is undefined", tilesetIdx)
	}
	if uint64(ts.XDim) != w.TileXDim || uint64(ts.YDim) != w.TileYDim {
		return newReferenceError("tileset %d dims %dx%d do not match window tile dims %dx%d", tilesetIdx, ts.XDim, ts.YDim, w.TileXDim, w.TileYDim)
	}
	if int(tileIdx) >= ts.NumEntries {
		return newReferenceError("tile index %d out of range [0,%d) for tileset %d", tileIdx, ts.NumEntries, tilesetIdx)
	}
	return nil
}

// windowUpdateHeader decodes the common header shared by SET_BOTH,
// SET_UPLOAD, and SINGLE_TILESET.
type windowUpdateHeader struct {
	windowIdx            uint8
	tileXBegin, tileYBegin int64
	tileXCount, tileYCount uint64
}

func decodeWindowUpdateHeader(payload []byte) (windowUpdateHeader, []byte, error) {
	const headerLen = 1 + 8 + 8 + 8 + 8
	if len(payload) < headerLen {
		return windowUpdateHeader{}, nil, newProtocolError("window update: payload length %d, want at least %d", len(payload), headerLen)
	}
	h := windowUpdateHeader{
		windowIdx:  payload[0],
		tileXBegin: int64(binary.LittleEndian.Uint64(payload[1:9])),
		tileYBegin: int64(binary.LittleEndian.Uint64(payload[9:17])),
		tileXCount: binary.LittleEndian.Uint64(payload[17:25]),
		tileYCount: binary.LittleEndian.Uint64(payload[25:33]),
	}
	return h, payload[headerLen:], nil
}

func (ip *Interpreter) writeCellGrid(h windowUpdateHeader, cellTilesets, cellTileIndexes []uint8) error {
	w := ip.Windows.Get(h.windowIdx)
	if !w.Defined() {
		return newReferenceError("window %d is undefined", h.windowIdx)
	}

	cells := int(h.tileXCount * h.tileYCount)
	if len(cellTilesets) != cells || len(cellTileIndexes) != cells {
		return newProtocolError("window update: grid data length mismatch")
	}

	k := 0
	for y := uint64(0); y < h.tileYCount; y++ {
		for x := uint64(0); x < h.tileXCount; x++ {
			tx := uint64(h.tileXBegin) + x
			ty := uint64(h.tileYBegin) + y
			cellIdx, err := w.CellIndex(tx, ty)
			if err != nil {
				return newReferenceError("%v", err)
			}

			tsIdx, tileIdx := cellTilesets[k], cellTileIndexes[k]
			if err := validateCell(ip.Tilesets, w, tsIdx, tileIdx); err != nil {
				return err
			}
			w.Tilesets[cellIdx] = tsIdx
			w.TileIndexes[cellIdx] = tileIdx
			k++
		}
	}
	return nil
}

func (ip *Interpreter) handleUpdateWindowSetBoth(payload []byte) error {
	h, rest, err := decodeWindowUpdateHeader(payload)
	if err != nil {
		return err
	}
	cells := int(h.tileXCount * h.tileYCount)
	if len(rest) != cells*2 {
		return newProtocolError("UPDATE_WINDOW_SET_BOTH: data length %d, want %d", len(rest), cells*2)
	}
	tilesets := make([]uint8, cells)
	tileIndexes := make([]uint8, cells)
	for i := 0; i < cells; i++ {
		tilesets[i] = rest[i*2]
		tileIndexes[i] = rest[i*2+1]
	}
	return ip.writeCellGrid(h, tilesets, tileIndexes)
}

func (ip *Interpreter) handleUpdateWindowSetUpload(payload []byte) error {
	h, rest, err := decodeWindowUpdateHeader(payload)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return newProtocolError("UPDATE_WINDOW_SET_UPLOAD: payload length %d, want header+2", len(payload))
	}
	uploadMed, uploadHigh := rest[0], rest[1]

	cells := int(h.tileXCount * h.tileYCount)
	offset := memory.Offset(uploadHigh, uploadMed, 0)
	data, err := ip.Upload.Slice(offset, uint64(cells)*2)
	if err != nil {
		return newReferenceError("UPDATE_WINDOW_SET_UPLOAD: %v", err)
	}

	tilesets := make([]uint8, cells)
	tileIndexes := make([]uint8, cells)
	for i := 0; i < cells; i++ {
		tilesets[i] = data[i*2]
		tileIndexes[i] = data[i*2+1]
	}
	return ip.writeCellGrid(h, tilesets, tileIndexes)
}

func (ip *Interpreter) handleUpdateWindowSingleTileset(payload []byte) error {
	h, rest, err := decodeWindowUpdateHeader(payload)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return newProtocolError("UPDATE_WINDOW_SINGLE_TILESET: missing tileset_idx")
	}
	tilesetIdx := rest[0]
	data := rest[1:]

	cells := int(h.tileXCount * h.tileYCount)
	if len(data) != cells {
		return newProtocolError("UPDATE_WINDOW_SINGLE_TILESET: data length %d, want %d", len(data), cells)
	}

	tilesets := make([]uint8, cells)
	for i := range tilesets {
		tilesets[i] = tilesetIdx
	}
	return ip.writeCellGrid(h, tilesets, data)
}

func (ip *Interpreter) handleUpdateWindowShiftTiles(payload []byte) error {
	if len(payload) != 3 {
		return newProtocolError("UPDATE_WINDOW_SHIFT_TILES: payload length %d, want 3", len(payload))
	}
	windowIdx := payload[0]
	xDir := int(int8(payload[1]))
	yDir := int(int8(payload[2]))

	w := ip.Windows.Get(windowIdx)
	if err := w.ShiftTiles(xDir, yDir); err != nil {
		return newReferenceError("%v", err)
	}
	return nil
}

func (ip *Interpreter) handleUpdateWindowSetWindowPosition(payload []byte) error {
	if len(payload) != 17 {
		return newProtocolError("UPDATE_WINDOW_SET_WINDOW_POSITION: payload length %d, want 17", len(payload))
	}
	windowIdx := payload[0]
	screenXBegin := int64(binary.LittleEndian.Uint64(payload[1:9]))
	screenYBegin := int64(binary.LittleEndian.Uint64(payload[9:17]))

	w := ip.Windows.Get(windowIdx)
	if !w.Defined() {
		return newReferenceError("window %d is undefined", windowIdx)
	}
	w.SetPosition(screenXBegin, screenYBegin)
	return nil
}

func (ip *Interpreter) handleUpdateWindowAdjustWindowView(payload []byte) error {
	if len(payload) != 17 {
		return newProtocolError("UPDATE_WINDOW_ADJUST_WINDOW_VIEW: payload length %d, want 17", len(payload))
	}
	windowIdx := payload[0]
	tileXBegin := int64(binary.LittleEndian.Uint64(payload[1:9]))
	tileYBegin := int64(binary.LittleEndian.Uint64(payload[9:17]))

	w := ip.Windows.Get(windowIdx)
	if !w.Defined() {
		return newReferenceError("window %d is undefined", windowIdx)
	}
	w.AdjustView(tileXBegin, tileYBegin)
	return nil
}

func (ip *Interpreter) handleUpdateWindowEnable(payload []byte) error {
	if len(payload) != 2 {
		return newProtocolError("UPDATE_WINDOW_ENABLE: payload length %d, want 2", len(payload))
	}
	windowIdx, enabled := payload[0], payload[1]

	w := ip.Windows.Get(windowIdx)
	if err := w.Enable(enabled != 0); err != nil {
		return newReferenceError("%v", err)
	}
	return nil
}

