package video

import "fmt"

// MaxTransferUnits is the largest number of 32-bit units one transfer can
// move. The count field of both CpuFastSet and DMA3 is 16 bits wide.
const MaxTransferUnits = 0xFFFF

// CpuFastSet control word flags.
const (
	CpuSetDstInc   = 0 << 21
	CpuSetDstDec   = 1 << 21
	CpuSetDstFixed = 2 << 21
	CpuSetSrcInc   = 0 << 23
	CpuSetSrcDec   = 1 << 23
	CpuSetFill     = 1 << 24
	CpuSet16       = 0 << 26
	CpuSet32       = 1 << 26
	CpuSetCount    = 0x1FFFFF
)

// DMA control flags, as written to the upper half of DMAxCNT.
const (
	DMADstInc    = 0 << 21
	DMADstDec    = 1 << 21
	DMADstFixed  = 2 << 21
	DMADstReload = 3 << 21
	DMASrcInc    = 0 << 23
	DMASrcDec    = 1 << 23
	DMASrcFixed  = 2 << 23
	DMARepeat    = 1 << 25
	DMA16        = 0 << 26
	DMA32        = 1 << 26
	DMAImmediate = 0 << 28
	DMAVBlank    = 1 << 28
	DMAHBlank    = 2 << 28
	DMASpecial   = 3 << 28
	DMAIRQ       = 1 << 30
	DMAEnable    = 1 << 31
	DMACount     = 0xFFFF
)

// transferUnits returns the number of 32-bit units needed to move n bytes.
// A trailing partial unit is rounded up.
func transferUnits(n int) (uint32, error) {
	units := (n + 3) / 4
	if units > MaxTransferUnits {
		return 0, fmt.Errorf("%d bytes is %d units, ceiling is %d: %w", n, units, MaxTransferUnits, ErrLengthExceeded)
	}
	return uint32(units), nil
}

// FastCopy moves src to dst with the BIOS fast copy. The length is checked
// before anything is written. The CPU is halted for the duration of the
// copy, so there is no partial completion.
func FastCopy(bios BIOS, src []byte, dst uint32) error {
	units, err := transferUnits(len(src))
	if err != nil {
		return fmt.Errorf("fast copy to %08X: %w", dst, err)
	}
	if units == 0 {
		return nil
	}
	bios.CpuFastSet(src, dst, CpuSet32|CpuSetSrcInc|CpuSetDstInc|units)
	return nil
}

// DMA3Copy copies length bytes between two device addresses with DMA
// channel 3 in immediate word mode. The DMA controller halts the CPU until
// the copy ends, so the call returns once the data has moved.
func DMA3Copy(mem Memory, t *Table, src, dst uint32, length int) error {
	units, err := transferUnits(length)
	if err != nil {
		return fmt.Errorf("dma3 %08X -> %08X: %w", src, dst, err)
	}
	if units == 0 {
		return nil
	}
	mem.Write32(t.DMA3SAD, src)
	mem.Write32(t.DMA3DAD, dst)
	mem.Write32(t.DMA3CNT, units|DMADstInc|DMASrcInc|DMA32|DMAImmediate|DMAEnable)
	return nil
}
