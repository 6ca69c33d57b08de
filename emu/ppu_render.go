package emu

import (
	"image/color"
	"sort"
)

// bgTileLimit is the end of VRAM reachable by background tile fetches.
// The sprite charblocks above it read as transparent.
const bgTileLimit = 0x10000

// Render draws one frame from the current bus state.
func (p *PPU) Render(b *Bus) {
	if b.forcedBlank() {
		p.fill(color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
		return
	}

	switch mode := b.videoMode(); mode {
	case 0, 1, 2:
		p.renderTiled(b, mode)
	case 3:
		p.renderBitmap16(b, 0, ScreenWidth, ScreenHeight)
	case 4:
		p.renderBitmap8(b)
	case 5:
		var base uint32
		if b.dispcnt()&0x0010 != 0 {
			base = 0xA000
		}
		p.renderBitmap16(b, base, 160, 128)
	default:
		p.fill(b.paletteColor(0, 0))
	}
}

func (p *PPU) fill(c color.RGBA) {
	pix := p.framebuffer.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func (p *PPU) set(x, y int, c color.RGBA) {
	off := y*p.framebuffer.Stride + x*4
	pix := p.framebuffer.Pix
	pix[off] = c.R
	pix[off+1] = c.G
	pix[off+2] = c.B
	pix[off+3] = c.A
}

// renderTiled composites the enabled backgrounds of modes 0-2. Lower
// priority values draw in front; ties go to the lower background number.
func (p *PPU) renderTiled(b *Bus, mode int) {
	p.layers = p.layers[:0]
	for n := 0; n < 4; n++ {
		var affine bool
		switch mode {
		case 0:
		case 1:
			if n == 3 {
				continue
			}
			affine = n == 2
		case 2:
			if n < 2 {
				continue
			}
			affine = true
		}
		if !b.bgEnabled(n) {
			continue
		}
		p.layers = append(p.layers, layer{num: n, prio: int(b.bgcnt(n) & 0x03), affine: affine})
	}
	sort.SliceStable(p.layers, func(i, j int) bool {
		return p.layers[i].prio < p.layers[j].prio
	})

	backdrop := b.paletteColor(0, 0)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			c := backdrop
			for _, l := range p.layers {
				var idx int
				var ok bool
				if l.affine {
					idx, ok = p.sampleAffine(b, l.num, x, y)
				} else {
					idx, ok = p.sampleRegular(b, l.num, x, y)
				}
				if ok {
					c = b.paletteColor(0, idx)
					break
				}
			}
			p.set(x, y, c)
		}
	}
}

// bgMapSize returns the regular map dimensions in tiles from BGxCNT.
func bgMapSize(cnt uint16) (wTiles, hTiles int) {
	wTiles, hTiles = 32, 32
	size := (cnt >> 14) & 0x03
	if size&1 != 0 {
		wTiles = 64
	}
	if size&2 != 0 {
		hTiles = 64
	}
	return
}

// decodeTilePixel returns the color index for a pixel within a tile.
// tileAddr is the VRAM offset of the tile. px, py are 0-7 and hFlip, vFlip
// apply mirroring. 4bpp rows are 4 bytes with the left pixel in the low
// nibble; 8bpp rows are 8 bytes.
func (b *Bus) decodeTilePixel(tileAddr uint32, px, py int, hFlip, vFlip, color256 bool) (uint8, bool) {
	if vFlip {
		py = 7 - py
	}
	if hFlip {
		px = 7 - px
	}

	if color256 {
		addr := tileAddr + uint32(py*8+px)
		if addr >= bgTileLimit {
			return 0, false
		}
		return b.vram[addr], true
	}

	addr := tileAddr + uint32(py*4+px>>1)
	if addr >= bgTileLimit {
		return 0, false
	}
	v := b.vram[addr]
	if px&1 == 0 {
		return v & 0x0F, true // left pixel = low nibble
	}
	return v >> 4, true
}

// sampleRegular returns the BG palette index of screen pixel x, y on
// regular background n, or false when the pixel is transparent.
func (p *PPU) sampleRegular(b *Bus, n, x, y int) (int, bool) {
	cnt := b.bgcnt(n)
	cbb := uint32(cnt>>2) & 0x03
	sbb := uint32(cnt>>8) & 0x1F
	color256 := cnt&0x0080 != 0
	wTiles, hTiles := bgMapSize(cnt)

	hofs, vofs := b.bgScroll(n)
	px := (x + hofs) & (wTiles*8 - 1)
	py := (y + vofs) & (hTiles*8 - 1)
	tx, ty := px>>3, py>>3

	// Maps larger than 32x32 are stored as consecutive screenblocks:
	// 64x32 left|right, 32x64 top|bottom, 64x64 TL|TR|BL|BR.
	block := uint32(0)
	if tx >= 32 {
		block++
	}
	if ty >= 32 {
		if wTiles == 64 {
			block += 2
		} else {
			block++
		}
	}
	entryAddr := (sbb+block)*0x800 + uint32((ty&31)*32+(tx&31))*2
	if entryAddr+1 >= vramSize {
		return 0, false
	}
	entry := b.vramWord(entryAddr)

	tile := uint32(entry & 0x03FF)
	hFlip := entry&(1<<10) != 0
	vFlip := entry&(1<<11) != 0

	if color256 {
		ci, ok := b.decodeTilePixel(cbb*0x4000+tile*64, px&7, py&7, hFlip, vFlip, true)
		return int(ci), ok && ci != 0
	}
	ci, ok := b.decodeTilePixel(cbb*0x4000+tile*32, px&7, py&7, hFlip, vFlip, false)
	if !ok || ci == 0 {
		return 0, false
	}
	return int(entry>>12)*16 + int(ci), true
}

// sampleAffine returns the BG palette index of screen pixel x, y on affine
// background n under the identity transform.
func (p *PPU) sampleAffine(b *Bus, n, x, y int) (int, bool) {
	cnt := b.bgcnt(n)
	cbb := uint32(cnt>>2) & 0x03
	sbb := uint32(cnt>>8) & 0x1F
	wrap := cnt&0x2000 != 0
	edge := 16 << ((cnt >> 14) & 0x03) // tiles
	pxEdge := edge * 8

	px, py := x, y
	if wrap {
		px &= pxEdge - 1
		py &= pxEdge - 1
	} else if px >= pxEdge || py >= pxEdge {
		return 0, false
	}

	entryAddr := sbb*0x800 + uint32((py>>3)*edge+(px>>3))
	if entryAddr >= vramSize {
		return 0, false
	}
	tile := uint32(b.vram[entryAddr])

	ci, ok := b.decodeTilePixel(cbb*0x4000+tile*64, px&7, py&7, false, false, true)
	return int(ci), ok && ci != 0
}

// renderBitmap8 draws mode 4 from the page selected in DISPCNT.
func (p *PPU) renderBitmap8(b *Bus) {
	if !b.bgEnabled(2) {
		p.fill(b.paletteColor(0, 0))
		return
	}
	var base uint32
	if b.dispcnt()&0x0010 != 0 {
		base = 0xA000
	}
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			ci := b.vram[base+uint32(y*ScreenWidth+x)]
			p.set(x, y, b.paletteColor(0, int(ci)))
		}
	}
}

// renderBitmap16 draws a direct color bitmap of w by h pixels at base.
// Pixels outside the bitmap show the backdrop.
func (p *PPU) renderBitmap16(b *Bus, base uint32, w, h int) {
	backdrop := b.paletteColor(0, 0)
	if !b.bgEnabled(2) {
		p.fill(backdrop)
		return
	}
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if x >= w || y >= h {
				p.set(x, y, backdrop)
				continue
			}
			c := b.vramWord(base + uint32(y*w+x)*2)
			r5 := uint8(c & 0x1F)
			g5 := uint8((c >> 5) & 0x1F)
			b5 := uint8((c >> 10) & 0x1F)
			p.set(x, y, color.RGBA{r5<<3 | r5>>2, g5<<3 | g5>>2, b5<<3 | b5>>2, 0xFF})
		}
	}
}
