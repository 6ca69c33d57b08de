// Package ebiten draws frames of the simulated display into an Ebiten window.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/gbatile/emu"
)

// Viewer scales the native 240x160 frame into the window.
type Viewer struct {
	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewViewer creates a viewer. The offscreen image is created on first draw.
func NewViewer() *Viewer {
	return &Viewer{}
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// DrawCachedFramebuffer renders pre-cached RGBA pixel data to the screen.
// The program goroutine publishes pixels to a shared framebuffer at each
// vertical blank, and the Ebiten Draw() thread renders them here.
func (v *Viewer) DrawCachedFramebuffer(screen *ebiten.Image, pixels []byte, stride, height int) {
	if height == 0 || stride != emu.ScreenWidth*4 {
		return
	}

	requiredLen := stride * height
	if len(pixels) < requiredLen {
		return
	}

	if v.offscreen == nil || v.offscreen.Bounds().Dy() != height {
		v.offscreen = ebiten.NewImage(emu.ScreenWidth, height)
	}

	v.offscreen.WritePixels(pixels[:requiredLen])

	// Largest scale that fits the window at the native aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(emu.ScreenWidth)
	nativeH := float64(height)

	scale := float64(screenW) / nativeW
	if s := float64(screenH) / nativeH; s < scale {
		scale = s
	}

	offsetX := (float64(screenW) - nativeW*scale) / 2
	offsetY := (float64(screenH) - nativeH*scale) / 2

	v.drawOpts = ebiten.DrawImageOptions{}
	v.drawOpts.GeoM.Scale(scale, scale)
	v.drawOpts.GeoM.Translate(offsetX, offsetY)
	v.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(v.offscreen, &v.drawOpts)
}
