// Package display provides the scan-out side of the pipeline: a
// framebuffer contract and backends that stand in for a DRM/KMS
// device, since this environment has no physical card to drive.
package display

// LogicalWidth and LogicalHeight are the compositor's logical
// coordinate space, before the 3x scan-out upscale.
const (
	LogicalWidth  = 640
	LogicalHeight = 360
	Scale         = 3
)

// Width and Height are the physical scan-out resolution.
const (
	Width  = LogicalWidth * Scale
	Height = LogicalHeight * Scale
)

// Framebuffer is a single ARGB8888 scan-out surface: four bytes per
// pixel, byte order B,G,R,A in memory (little-endian ARGB32), no
// padding between rows beyond Stride.
type Framebuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewFramebuffer allocates a zeroed (fully transparent black)
// framebuffer at the scan-out resolution.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{
		Width:  Width,
		Height: Height,
		Stride: Width * 4,
		Pix:    make([]byte, Width*Height*4),
	}
}

// Clear resets every pixel to opaque black.
func (f *Framebuffer) Clear() {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = 0, 0, 0, 0xFF
	}
}

// SetPixel writes one ARGB8888 pixel at (x, y). Out-of-bounds writes
// are silently dropped — the compositor does not clamp before calling,
// so this bound is what guards Q3's documented overrun.
func (f *Framebuffer) SetPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	off := y*f.Stride + x*4
	f.Pix[off], f.Pix[off+1], f.Pix[off+2], f.Pix[off+3] = b, g, r, a
}

// Backend is the display subsystem's external contract (§6): acquire
// a buffer to draw the next frame into, then present it. Acquire
// blocks until the previously presented buffer's flip has completed —
// the core's one blocking suspension point outside the packet read
// loop.
type Backend interface {
	Acquire() *Framebuffer
	Present()
	Close()
}
