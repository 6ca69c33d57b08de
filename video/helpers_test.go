package video

import (
	"encoding/binary"
	"fmt"
)

// op is one recorded platform call.
type op struct {
	kind  string // "w16", "w32", "vblank", "fastset"
	addr  uint32
	value uint32
}

func (o op) String() string {
	return fmt.Sprintf("%s %08X=%X", o.kind, o.addr, o.value)
}

// fakePlatform is a sparse little-endian memory that records every write and
// BIOS call in order.
type fakePlatform struct {
	mem map[uint32]byte
	ops []op
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{mem: make(map[uint32]byte)}
}

func (f *fakePlatform) Read16(addr uint32) uint16 {
	return uint16(f.mem[addr]) | uint16(f.mem[addr+1])<<8
}

func (f *fakePlatform) Write16(addr uint32, value uint16) {
	f.ops = append(f.ops, op{"w16", addr, uint32(value)})
	f.mem[addr] = uint8(value)
	f.mem[addr+1] = uint8(value >> 8)
}

func (f *fakePlatform) Read32(addr uint32) uint32 {
	return uint32(f.Read16(addr)) | uint32(f.Read16(addr+2))<<16
}

func (f *fakePlatform) Write32(addr uint32, value uint32) {
	f.ops = append(f.ops, op{"w32", addr, value})
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	for i := uint32(0); i < 4; i++ {
		f.mem[addr+i] = b[i]
	}
}

func (f *fakePlatform) VBlankIntrWait() {
	f.ops = append(f.ops, op{kind: "vblank"})
}

func (f *fakePlatform) CpuFastSet(src []byte, dst uint32, control uint32) {
	f.ops = append(f.ops, op{"fastset", dst, control})
	count := control & CpuSetCount
	for i := uint32(0); i < count*4; i++ {
		var v byte
		if int(i) < len(src) {
			v = src[i]
		}
		f.mem[dst+i] = v
	}
}

// writes returns only the recorded memory writes.
func (f *fakePlatform) writes() []op {
	var w []op
	for _, o := range f.ops {
		if o.kind == "w16" || o.kind == "w32" {
			w = append(w, o)
		}
	}
	return w
}

func (f *fakePlatform) reset() {
	f.ops = nil
}

func newTestVideo() (*Video, *fakePlatform) {
	p := newFakePlatform()
	t := AGB
	v, err := New(p, &t)
	if err != nil {
		panic(err)
	}
	return v, p
}
