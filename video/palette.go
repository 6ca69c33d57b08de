package video

// PaletteEntries is the number of colors in each of the background and
// sprite palettes.
const PaletteEntries = 256

// Color555 packs 8-bit components into a BGR555 color.
func Color555(r, g, b uint8) uint16 {
	return uint16(r>>3) | uint16(g>>3)<<5 | uint16(b>>3)<<10
}

// RGB888 expands a BGR555 color to 8-bit components.
func RGB888(c uint16) (r, g, b uint8) {
	r5 := uint8(c & 0x1F)
	g5 := uint8((c >> 5) & 0x1F)
	b5 := uint8((c >> 10) & 0x1F)
	return r5<<3 | r5>>2, g5<<3 | g5>>2, b5<<3 | b5>>2
}

// setColor writes one palette entry. Indices outside the palette are ignored.
func setColor(mem Memory, base uint32, index int, c uint16) {
	if index < 0 || index >= PaletteEntries {
		return
	}
	mem.Write16(base+uint32(2*index), c&0x7FFF)
}
