package emu

// DMA control (DMAxCNT_H) bits.
const (
	dmaDstShift = 5
	dmaSrcShift = 7
	dmaRepeat   = 1 << 9
	dmaWord     = 1 << 10
	dmaIRQ      = 1 << 14
	dmaEnable   = 1 << 15

	dmaTimingImmediate = 0
	dmaTimingVBlank    = 1
	dmaTimingHBlank    = 2
	dmaTimingSpecial   = 3
)

// Address control modes for source and destination.
const (
	dmaAddrInc    = 0
	dmaAddrDec    = 1
	dmaAddrFixed  = 2
	dmaAddrReload = 3 // destination only
)

func dmaTiming(ctrl uint16) uint16 {
	return (ctrl >> 12) & 0x03
}

// dmaStep moves an address by one unit according to its control mode.
func dmaStep(addr uint32, mode uint16, size uint32) uint32 {
	switch mode {
	case dmaAddrInc, dmaAddrReload:
		return addr + size
	case dmaAddrDec:
		return addr - size
	}
	return addr
}

// dmaPending reports whether DMA3 is enabled and waiting for timing t.
func (b *Bus) dmaPending(t uint16) bool {
	ctrl := b.ioReg16(regDMA3CNTH)
	return ctrl&dmaEnable != 0 && dmaTiming(ctrl) == t
}

// triggerDMA runs DMA3 if it is waiting for timing t.
func (b *Bus) triggerDMA(t uint16) {
	if b.dmaPending(t) {
		b.executeDMA3()
	}
}

// executeDMA3 performs the transfer programmed in the DMA3 registers. The
// CPU is halted while DMA runs, so the copy completes before returning.
func (b *Bus) executeDMA3() {
	sad := uint32(b.ioReg16(regDMA3SAD)) | uint32(b.ioReg16(regDMA3SAD+2))<<16
	dad := uint32(b.ioReg16(regDMA3DAD)) | uint32(b.ioReg16(regDMA3DAD+2))<<16
	ctrl := b.ioReg16(regDMA3CNTH)

	// Count of 0 means 0x10000
	length := uint32(b.ioReg16(regDMA3CNTL))
	if length == 0 {
		length = 0x10000
	}

	srcMode := (ctrl >> dmaSrcShift) & 0x03
	dstMode := (ctrl >> dmaDstShift) & 0x03

	size := uint32(2)
	if ctrl&dmaWord != 0 {
		size = 4
	}

	// Internal address registers are 28 (source) and 27 (destination) bits.
	sad &= 0x0FFFFFFF
	dad &= 0x07FFFFFF

	for i := uint32(0); i < length; i++ {
		if size == 4 {
			b.Write32(dad, b.Read32(sad))
		} else {
			b.Write16(dad, b.Read16(sad))
		}
		sad = dmaStep(sad, srcMode, size)
		dad = dmaStep(dad, dstMode, size)
	}

	if ctrl&dmaRepeat == 0 || dmaTiming(ctrl) == dmaTimingImmediate {
		b.setIOReg16(regDMA3CNTH, ctrl&^dmaEnable)
	}
}
