package display

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// vblankHz is the simulated page-flip rate; there is no physical
// display device in this environment, so a ticker stands in for the
// vertical blanking interval a real DRM/KMS backend would wait on.
const vblankHz = 60

// SDLBackend presents frames through an actual window using
// github.com/veandco/go-sdl2, double-buffering two Framebuffers and
// flipping them on a ticker goroutine to emulate vblank-driven page
// flips.
type SDLBackend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	mu          sync.Mutex
	front, back *Framebuffer
	flipPending bool

	flipDone chan struct{}
	stop     chan struct{}
	ticker   *time.Ticker
}

// NewSDLBackend opens a window titled title at the scan-out
// resolution and starts the vblank goroutine.
func NewSDLBackend(title string) (*SDLBackend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init SDL: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(Width), int32(Height), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		int32(Width), int32(Height))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	b := &SDLBackend{
		window:   window,
		renderer: renderer,
		texture:  texture,
		front:    NewFramebuffer(),
		back:     NewFramebuffer(),
		flipDone: make(chan struct{}, 1),
		stop:     make(chan struct{}),
		ticker:   time.NewTicker(time.Second / vblankHz),
	}
	b.flipDone <- struct{}{} // no flip in flight yet; Acquire should not block

	go b.vblankLoop()
	return b, nil
}

// Acquire blocks until the previously presented buffer's flip has
// completed, then returns the (now inactive) back buffer to draw
// into.
func (b *SDLBackend) Acquire() *Framebuffer {
	<-b.flipDone
	b.mu.Lock()
	back := b.back
	b.mu.Unlock()
	return back
}

// Present schedules a flip of the buffer last returned by Acquire; it
// is picked up and applied on the next vblank tick.
func (b *SDLBackend) Present() {
	b.mu.Lock()
	b.flipPending = true
	b.mu.Unlock()
}

func (b *SDLBackend) vblankLoop() {
	for {
		select {
		case <-b.stop:
			return
		case <-b.ticker.C:
			b.mu.Lock()
			pending := b.flipPending
			if pending {
				b.front, b.back = b.back, b.front
				b.flipPending = false
			}
			front := b.front
			b.mu.Unlock()

			if !pending {
				continue
			}

			if err := b.texture.Update(nil, front.Pix, front.Stride); err != nil {
				continue
			}
			b.renderer.Copy(b.texture, nil, nil)
			b.renderer.Present()
			b.flipDone <- struct{}{}
		}
	}
}

// Close stops the vblank goroutine and tears down the SDL window.
func (b *SDLBackend) Close() {
	b.ticker.Stop()
	close(b.stop)
	b.texture.Destroy()
	b.renderer.Destroy()
	b.window.Destroy()
	sdl.Quit()
}
