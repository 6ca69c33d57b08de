package emu

import (
	"image"
	"image/color"
)

const (
	ScreenWidth  = 240
	ScreenHeight = 160
)

// PPU renders the state of the bus into a framebuffer. It reads registers,
// palette RAM and VRAM directly and never writes them.
//
// Affine rotation and scaling parameters are not modelled: affine
// backgrounds render with the identity transform.
type PPU struct {
	framebuffer *image.RGBA

	// Per-frame layer order, pre-allocated.
	layers []layer
}

// layer is one enabled background in drawing order.
type layer struct {
	num    int
	prio   int
	affine bool
}

// NewPPU creates a PPU with a cleared framebuffer.
func NewPPU() *PPU {
	return &PPU{
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		layers:      make([]layer, 0, 4),
	}
}

// Framebuffer returns the last rendered frame.
func (p *PPU) Framebuffer() *image.RGBA {
	return p.framebuffer
}

// --- Register helpers ---

func (b *Bus) dispcnt() uint16 {
	return b.ioReg16(regDISPCNT)
}

func (b *Bus) forcedBlank() bool {
	return b.dispcnt()&0x0080 != 0
}

func (b *Bus) videoMode() int {
	return int(b.dispcnt() & 0x07)
}

func (b *Bus) bgEnabled(n int) bool {
	return b.dispcnt()&(0x0100<<uint(n)) != 0
}

func (b *Bus) bgcnt(n int) uint16 {
	return b.ioReg16(regBG0CNT + uint32(n)*2)
}

// bgScroll returns the 9-bit scroll offsets of background n.
func (b *Bus) bgScroll(n int) (h, v int) {
	base := regBG0HOFS + uint32(n)*4
	return int(b.ioReg16(base) & 0x1FF), int(b.ioReg16(base+2) & 0x1FF)
}

// paletteColor converts a BGR555 palette entry to RGBA.
func (b *Bus) paletteColor(base, index int) color.RGBA {
	off := (base + index*2) & (paletteSize - 1)
	c := uint16(b.palette[off]) | uint16(b.palette[off+1])<<8
	r5 := uint8(c & 0x1F)
	g5 := uint8((c >> 5) & 0x1F)
	b5 := uint8((c >> 10) & 0x1F)
	return color.RGBA{
		R: r5<<3 | r5>>2,
		G: g5<<3 | g5>>2,
		B: b5<<3 | b5>>2,
		A: 0xFF,
	}
}

func (b *Bus) vramWord(off uint32) uint16 {
	return uint16(b.vram[off]) | uint16(b.vram[off+1])<<8
}
