// Package compositor draws the enabled windows into a scan-out
// framebuffer, nearest-neighbor upscaling each window's unscaled
// raster by the scan-out's fixed 3x factor.
package compositor

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"sdhr-core/internal/display"
	"sdhr-core/internal/pixel"
	"sdhr-core/internal/tileset"
	"sdhr-core/internal/window"
)

// Compose clears fb and draws every enabled window from windows, in
// ascending slot order, so later windows overdraw earlier ones where
// opaque.
func Compose(windows *window.Table, tilesets *tileset.Table, fb *display.Framebuffer) {
	fb.Clear()
	for i := 0; i < window.SlotCount; i++ {
		w := windows.Get(uint8(i))
		if !w.Enabled {
			continue
		}
		composeWindow(w, tilesets, fb)
	}
}

func floorDivMod(a, b int64) (q, r int64) {
	q = a / b
	r = a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// composeWindow renders one window's unscaled raster, then hands it
// to github.com/nfnt/resize for the 3x nearest-neighbor upscale
// before blitting into fb.
func composeWindow(w *window.Window, tilesets *tileset.Table, fb *display.Framebuffer) {
	if w.ScreenXCount == 0 || w.ScreenYCount == 0 || w.TileXDim == 0 || w.TileYDim == 0 {
		return
	}

	xdim, ydim := int64(w.TileXDim), int64(w.TileYDim)
	xcount, ycount := int64(w.TileXCount), int64(w.TileYCount)

	raster := image.NewNRGBA(image.Rect(0, 0, int(w.ScreenXCount), int(w.ScreenYCount)))

	for ty := int64(0); ty < int64(w.ScreenYCount); ty++ {
		tileY := w.TileYBegin + ty
		tileYIndex, tileYOffset := floorDivMod(tileY, ydim)

		for tx := int64(0); tx < int64(w.ScreenXCount); tx++ {
			tileX := w.TileXBegin + tx
			tileXIndex, tileXOffset := floorDivMod(tileX, xdim)

			cellTx, cellTy := tileXIndex, tileYIndex
			outside := tileXIndex < 0 || tileXIndex >= xcount || tileYIndex < 0 || tileYIndex >= ycount
			if outside {
				if !w.BlackOrWrap {
					raster.SetNRGBA(int(tx), int(ty), color.NRGBA{A: 0xFF})
					continue
				}
				cellTx = ((tileXIndex % xcount) + xcount) % xcount
				cellTy = ((tileYIndex % ycount) + ycount) % ycount
			}

			cellIdx, err := w.CellIndex(uint64(cellTx), uint64(cellTy))
			if err != nil {
				continue
			}

			tsIdx, tileIdx := w.Tilesets[cellIdx], w.TileIndexes[cellIdx]
			ts := tilesets.Get(tsIdx)
			if !ts.Defined() {
				continue
			}
			tile, err := ts.Tile(int(tileIdx))
			if err != nil {
				continue
			}

			px := tile[tileYOffset*xdim+tileXOffset]
			if px&0x8000 == 0 {
				continue // transparent: leave the raster pixel fully transparent
			}

			r, g, b, a := pixel.ARGB1555ToARGB8888(px)
			raster.SetNRGBA(int(tx), int(ty), color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}

	scaled := resize.Resize(uint(int(w.ScreenXCount)*display.Scale), uint(int(w.ScreenYCount)*display.Scale), raster, resize.NearestNeighbor)
	blit(scaled, w, fb)
}

func blit(scaled image.Image, w *window.Window, fb *display.Framebuffer) {
	bounds := scaled.Bounds()
	baseX := int(w.ScreenXBegin) * display.Scale
	baseY := int(w.ScreenYBegin) * display.Scale

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r16, g16, b16, a16 := scaled.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a16 == 0 {
				continue
			}
			fb.SetPixel(baseX+x, baseY+y, uint8(r16>>8), uint8(g16>>8), uint8(b16>>8), uint8(a16>>8))
		}
	}
}
