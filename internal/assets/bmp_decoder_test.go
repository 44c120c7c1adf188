package assets

import (
	"encoding/binary"
	"testing"
)

// encodeSolidBMP hand-builds an uncompressed 24-bit BMP (BITMAPFILEHEADER +
// BITMAPINFOHEADER, bottom-up row order) for a single solid color. gobmp only
// decodes, so there is no library encoder to round-trip against.
func encodeSolidBMP(w, h int, r, g, b byte) []byte {
	rowSize := ((w*3 + 3) / 4) * 4
	pixelDataSize := rowSize * h
	const headerSize = 14 + 40
	buf := make([]byte, headerSize+pixelDataSize)

	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[10:14], headerSize)

	binary.LittleEndian.PutUint32(buf[14:18], 40) // BITMAPINFOHEADER size
	binary.LittleEndian.PutUint32(buf[18:22], uint32(w))
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h)) // positive: bottom-up
	binary.LittleEndian.PutUint16(buf[26:28], 1)         // planes
	binary.LittleEndian.PutUint16(buf[28:30], 24)        // bpp
	binary.LittleEndian.PutUint32(buf[34:38], uint32(pixelDataSize))

	row := headerSize
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := row + x*3
			buf[off], buf[off+1], buf[off+2] = b, g, r // BGR
		}
		row += rowSize
	}
	return buf
}

func TestBMPDecoderDecode(t *testing.T) {
	data := encodeSolidBMP(4, 3, 0x10, 0x80, 0xF0)
	w, h, rgba, err := BMPDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 4 || h != 3 {
		t.Fatalf("got %dx%d, want 4x3", w, h)
	}
	if len(rgba) != w*h*4 {
		t.Fatalf("len(rgba) = %d, want %d", len(rgba), w*h*4)
	}
	if rgba[0] != 0x10 || rgba[1] != 0x80 || rgba[2] != 0xF0 || rgba[3] != 0xFF {
		t.Errorf("pixel 0 = %#v, want [0x10 0x80 0xF0 0xFF]", rgba[0:4])
	}
}

// BMPDecoder is a drop-in for the Decoder interface: the asset table
// doesn't care which codec produced the RGBA bytes.
func TestBMPDecoderThroughTable(t *testing.T) {
	table := NewTable(BMPDecoder{})
	data := encodeSolidBMP(2, 2, 0xFF, 0x00, 0x00)
	if err := table.Define(3, data); err != nil {
		t.Fatalf("Define: %v", err)
	}
	a := table.Get(3)
	if !a.Defined() {
		t.Fatalf("expected slot 3 to be defined")
	}
	if a.Width != 2 || a.Height != 2 {
		t.Errorf("got %dx%d, want 2x2", a.Width, a.Height)
	}
}
