package video

// Memory is the flat memory-mapped address space holding the video registers,
// palette RAM and VRAM. Accesses are little-endian and whole-unit.
type Memory interface {
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// BIOS provides the two console intrinsics the video layer depends on.
//
// VBlankIntrWait blocks until the display enters vertical blank. It cannot
// fail and cannot be cancelled.
//
// CpuFastSet copies src to dst in 32-bit units. The control word carries the
// unit count in its low bits and the CpuSet* mode flags. The call is
// synchronous: it either completes or never returns.
type BIOS interface {
	VBlankIntrWait()
	CpuFastSet(src []byte, dst uint32, control uint32)
}

// Platform is what a Video needs from the device: memory access and BIOS calls.
type Platform interface {
	Memory
	BIOS
}
