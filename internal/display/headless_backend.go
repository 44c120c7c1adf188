package display

// HeadlessBackend is a single-buffer backend with synchronous,
// instantaneous flips. Used by tests and `-display headless`, where
// there is no window to actually present to.
type HeadlessBackend struct {
	buf *Framebuffer
}

// NewHeadlessBackend returns a ready-to-draw headless backend.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{buf: NewFramebuffer()}
}

// Acquire never blocks: the single buffer is always available.
func (h *HeadlessBackend) Acquire() *Framebuffer {
	return h.buf
}

// Present is a no-op; there is nothing to flip to.
func (h *HeadlessBackend) Present() {}

// Close releases the backend's buffer.
func (h *HeadlessBackend) Close() {
	h.buf = nil
}
