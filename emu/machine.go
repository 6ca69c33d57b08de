package emu

import "image"

// Name is the display name of the simulated device.
const Name = "gbatile"

// Version is reported to frontends as the core version.
const Version = "0.1.0"

// CpuFastSet control word bits.
const (
	fastSetCount = 0x1FFFFF
	fastSetFill  = 1 << 24
)

// VCOUNT value latched at the start of vertical blank.
const vblankLine = 160

// Machine is a simulated handheld video subsystem. It provides the memory
// bus and the BIOS calls a program uses to drive the display, and renders
// one frame every time the program waits for vertical blank.
type Machine struct {
	*Bus
	ppu *PPU

	frames uint64

	// Called at the start of every vertical blank with the rendered frame.
	onVBlank func(frame *image.RGBA)
}

// NewMachine creates a machine with cleared memory.
func NewMachine() *Machine {
	return &Machine{
		Bus: NewBus(),
		ppu: NewPPU(),
	}
}

// SetVBlankHandler installs fn to be called with each rendered frame. The
// handler runs on the goroutine that called VBlankIntrWait and may block to
// pace the program.
func (m *Machine) SetVBlankHandler(fn func(frame *image.RGBA)) {
	m.onVBlank = fn
}

// VBlankIntrWait renders the current frame, runs vblank DMA and returns
// once the handler has seen the frame.
func (m *Machine) VBlankIntrWait() {
	m.ppu.Render(m.Bus)
	m.frames++
	m.setIOReg16(regVCOUNT, vblankLine)
	m.triggerDMA(dmaTimingVBlank)

	if m.onVBlank != nil {
		m.onVBlank(m.ppu.Framebuffer())
	}
}

// CpuFastSet copies or fills 32-bit units from src to dst. A source shorter
// than the requested count is padded with zeros. In fill mode the first
// word of src is repeated.
func (m *Machine) CpuFastSet(src []byte, dst uint32, control uint32) {
	count := control & fastSetCount
	fill := control&fastSetFill != 0

	var fillWord uint32
	if fill {
		fillWord = wordAt(src, 0)
	}

	dst &^= 3
	for i := uint32(0); i < count; i++ {
		v := fillWord
		if !fill {
			v = wordAt(src, int(i)*4)
		}
		m.Write32(dst+i*4, v)
	}
}

// wordAt returns the little-endian word at off, zero-padded past the end.
func wordAt(src []byte, off int) uint32 {
	var v uint32
	for k := 0; k < 4; k++ {
		if off+k < len(src) {
			v |= uint32(src[off+k]) << (8 * k)
		}
	}
	return v
}

// Frames returns the number of vertical blanks seen since creation.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Framebuffer returns the last rendered frame.
func (m *Machine) Framebuffer() *image.RGBA {
	return m.ppu.Framebuffer()
}

// Render draws the current bus state without advancing the frame count.
func (m *Machine) Render() *image.RGBA {
	m.ppu.Render(m.Bus)
	return m.ppu.Framebuffer()
}
