package emu

import "encoding/binary"

const (
	ewramSize   = 0x40000 // 256KB on-board work RAM
	iwramSize   = 0x8000  // 32KB on-chip work RAM
	ioSize      = 0x400
	paletteSize = 0x400 // 256 BG + 256 OBJ BGR555 entries
	vramSize    = 0x18000
	oamSize     = 0x400
)

// IO register offsets from 0x04000000.
const (
	regDISPCNT  = 0x000
	regDISPSTAT = 0x004
	regVCOUNT   = 0x006
	regBG0CNT   = 0x008
	regBG0HOFS  = 0x010
	regDMA3SAD  = 0x0D4
	regDMA3DAD  = 0x0D8
	regDMA3CNTL = 0x0DC
	regDMA3CNTH = 0x0DE
	regKEYINPUT = 0x130
)

// Bus is the flat memory-mapped address space of the video hardware.
//
// Address map:
//
//	0x02000000-0x0203FFFF  EWRAM (256KB, mirrored to 0x02FFFFFF)
//	0x03000000-0x03007FFF  IWRAM (32KB, mirrored to 0x03FFFFFF)
//	0x04000000-0x040003FF  I/O registers
//	0x05000000-0x050003FF  Palette RAM (BG at +0x000, OBJ at +0x200, mirrored)
//	0x06000000-0x06017FFF  VRAM (96KB, 0x06018000-0x0601FFFF mirrors the OBJ 32KB)
//	0x07000000-0x070003FF  OAM (mirrored)
//
// Accesses are little-endian and aligned down to their size. Unmapped reads
// return 0 and unmapped writes are dropped.
type Bus struct {
	ewram   [ewramSize]byte
	iwram   [iwramSize]byte
	io      [ioSize]byte
	palette [paletteSize]byte
	vram    [vramSize]byte
	oam     [oamSize]byte

	// Write counters, for tests and the register dump.
	writes16 uint64
	writes32 uint64
}

// NewBus creates a bus with all memory cleared.
func NewBus() *Bus {
	return &Bus{}
}

// region maps addr to its backing memory and the offset within it.
func (b *Bus) region(addr uint32) ([]byte, uint32) {
	switch addr >> 24 {
	case 0x02:
		return b.ewram[:], addr & (ewramSize - 1)
	case 0x03:
		return b.iwram[:], addr & (iwramSize - 1)
	case 0x04:
		off := addr & 0x00FFFFFF
		if off >= ioSize {
			return nil, 0
		}
		return b.io[:], off
	case 0x05:
		return b.palette[:], addr & (paletteSize - 1)
	case 0x06:
		off := addr & 0x1FFFF
		if off >= vramSize {
			off -= 0x8000
		}
		return b.vram[:], off
	case 0x07:
		return b.oam[:], addr & (oamSize - 1)
	}
	return nil, 0
}

// Mapped reports whether addr is backed by memory or registers.
func (b *Bus) Mapped(addr uint32) bool {
	mem, _ := b.region(addr)
	return mem != nil
}

// Read8 reads one byte. Used by the dump and tests.
func (b *Bus) Read8(addr uint32) uint8 {
	mem, off := b.region(addr)
	if mem == nil {
		return 0
	}
	return mem[off]
}

// Read16 reads a half-word.
func (b *Bus) Read16(addr uint32) uint16 {
	addr &^= 1
	mem, off := b.region(addr)
	if mem == nil {
		return 0
	}
	if addr>>24 == 0x04 {
		return b.readIO16(off)
	}
	return binary.LittleEndian.Uint16(mem[off:])
}

// Write16 writes a half-word.
func (b *Bus) Write16(addr uint32, value uint16) {
	addr &^= 1
	mem, off := b.region(addr)
	if mem == nil {
		return
	}
	b.writes16++
	if addr>>24 == 0x04 {
		b.writeIO16(off, value)
		return
	}
	binary.LittleEndian.PutUint16(mem[off:], value)
}

// Read32 reads a word.
func (b *Bus) Read32(addr uint32) uint32 {
	addr &^= 3
	mem, off := b.region(addr)
	if mem == nil {
		return 0
	}
	if addr>>24 == 0x04 {
		lo := uint32(b.readIO16(off))
		hi := uint32(b.readIO16(off + 2))
		return hi<<16 | lo
	}
	return binary.LittleEndian.Uint32(mem[off:])
}

// Write32 writes a word. I/O words are written low half first, so a DMA
// control word sees its count before the enable bit.
func (b *Bus) Write32(addr uint32, value uint32) {
	addr &^= 3
	mem, off := b.region(addr)
	if mem == nil {
		return
	}
	b.writes32++
	if addr>>24 == 0x04 {
		b.writeIO16(off, uint16(value))
		b.writeIO16(off+2, uint16(value>>16))
		return
	}
	binary.LittleEndian.PutUint32(mem[off:], value)
}

// Writes returns the number of 16-bit and 32-bit writes seen so far.
func (b *Bus) Writes() (w16, w32 uint64) {
	return b.writes16, b.writes32
}

// Reset clears all memory.
func (b *Bus) Reset() {
	b.ewram = [ewramSize]byte{}
	b.iwram = [iwramSize]byte{}
	b.io = [ioSize]byte{}
	b.palette = [paletteSize]byte{}
	b.vram = [vramSize]byte{}
	b.oam = [oamSize]byte{}
	b.writes16 = 0
	b.writes32 = 0
}

func (b *Bus) readIO16(off uint32) uint16 {
	if off+1 >= ioSize {
		return 0
	}
	switch off {
	case regKEYINPUT:
		// No keypad is attached: all keys released.
		return 0x03FF
	}
	return binary.LittleEndian.Uint16(b.io[off:])
}

func (b *Bus) writeIO16(off uint32, value uint16) {
	if off+1 >= ioSize {
		return
	}
	switch off {
	case regVCOUNT, regKEYINPUT:
		// read-only
		return
	case regDISPCNT:
		// GB_MODE is read-only and always clear.
		value &^= 0x0008
	}
	binary.LittleEndian.PutUint16(b.io[off:], value)

	if off == regDMA3CNTH && value&dmaEnable != 0 && dmaTiming(value) == dmaTimingImmediate {
		b.executeDMA3()
	}
}

// ioReg16 reads an I/O register as stored, bypassing read side effects.
func (b *Bus) ioReg16(off uint32) uint16 {
	return binary.LittleEndian.Uint16(b.io[off:])
}

func (b *Bus) setIOReg16(off uint32, value uint16) {
	binary.LittleEndian.PutUint16(b.io[off:], value)
}
