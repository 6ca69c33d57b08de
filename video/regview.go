package video

import (
	"encoding/binary"
	"fmt"
)

// Granularity is the access width used when a RegisterView is flushed to or
// loaded from hardware.
type Granularity int

const (
	HalfWord Granularity = 2
	Word     Granularity = 4
)

func (g Granularity) String() string {
	switch g {
	case HalfWord:
		return "halfword"
	case Word:
		return "word"
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// RegisterView mirrors one hardware register in a shadow buffer. Field writes
// touch only the shadow; Apply commits it and Load refreshes it.
//
// Some registers are write-only, so fields are composed in the shadow and
// never read-modify-written against live hardware.
type RegisterView struct {
	mem    Memory
	addr   uint32
	layout *Layout
	gran   Granularity
	buf    []byte
}

// NewRegisterView creates a view of the register at addr. The layout size
// must be a whole number of access units and addr must be aligned to them.
func NewRegisterView(mem Memory, addr uint32, layout *Layout, gran Granularity) (*RegisterView, error) {
	if gran != HalfWord && gran != Word {
		return nil, fmt.Errorf("%s at %08X: granularity %d: %w", layout.Name(), addr, int(gran), ErrLayout)
	}
	if layout.Size() == 0 || layout.Size()%int(gran) != 0 {
		return nil, fmt.Errorf("%s at %08X: size %d is not a whole number of %s units: %w",
			layout.Name(), addr, layout.Size(), gran, ErrLayout)
	}
	if addr%uint32(gran) != 0 {
		return nil, fmt.Errorf("%s at %08X: address not %s aligned: %w", layout.Name(), addr, gran, ErrLayout)
	}

	return &RegisterView{
		mem:    mem,
		addr:   addr,
		layout: layout,
		gran:   gran,
		buf:    make([]byte, layout.Size()),
	}, nil
}

// Address returns the hardware address of the register.
func (r *RegisterView) Address() uint32 {
	return r.addr
}

// Layout returns the shared layout descriptor.
func (r *RegisterView) Layout() *Layout {
	return r.layout
}

// Granularity returns the access width used by Apply and Load.
func (r *RegisterView) Granularity() Granularity {
	return r.gran
}

// Bytes returns a copy of the shadow buffer.
func (r *RegisterView) Bytes() []byte {
	b := make([]byte, len(r.buf))
	copy(b, r.buf)
	return b
}

// SetField stores v into the shadow buffer. Bits beyond the field width are
// dropped, as a hardware bit-field write would.
func (r *RegisterView) SetField(f FieldRef, v uint32) {
	unit := r.readUnit(f.offset, f.unit)
	unit &^= f.mask << f.shift
	unit |= (v & f.mask) << f.shift
	r.writeUnit(f.offset, f.unit, unit)
}

// GetField reads a field from the shadow buffer.
func (r *RegisterView) GetField(f FieldRef) uint32 {
	return (r.readUnit(f.offset, f.unit) >> f.shift) & f.mask
}

// Set stores v into the named field.
func (r *RegisterView) Set(name string, v uint32) error {
	f, ok := r.layout.Lookup(name)
	if !ok {
		return fmt.Errorf("%s.%s: %w", r.layout.Name(), name, ErrUnknownField)
	}
	r.SetField(f, v)
	return nil
}

// Get reads the named field.
func (r *RegisterView) Get(name string) (uint32, error) {
	f, ok := r.layout.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%s.%s: %w", r.layout.Name(), name, ErrUnknownField)
	}
	return r.GetField(f), nil
}

// Apply writes the shadow buffer to hardware one whole unit at a time.
func (r *RegisterView) Apply() {
	step := int(r.gran)
	for off := 0; off < len(r.buf); off += step {
		addr := r.addr + uint32(off)
		if r.gran == Word {
			r.mem.Write32(addr, binary.LittleEndian.Uint32(r.buf[off:]))
		} else {
			r.mem.Write16(addr, binary.LittleEndian.Uint16(r.buf[off:]))
		}
	}
}

// Load reads hardware into the shadow buffer one whole unit at a time.
func (r *RegisterView) Load() {
	step := int(r.gran)
	for off := 0; off < len(r.buf); off += step {
		addr := r.addr + uint32(off)
		if r.gran == Word {
			binary.LittleEndian.PutUint32(r.buf[off:], r.mem.Read32(addr))
		} else {
			binary.LittleEndian.PutUint16(r.buf[off:], r.mem.Read16(addr))
		}
	}
}

// Reset zeroes the shadow buffer. Hardware is untouched until Apply.
func (r *RegisterView) Reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
}

func (r *RegisterView) readUnit(off, unit int) uint32 {
	switch unit {
	case 1:
		return uint32(r.buf[off])
	case 2:
		return uint32(binary.LittleEndian.Uint16(r.buf[off:]))
	default:
		return binary.LittleEndian.Uint32(r.buf[off:])
	}
}

func (r *RegisterView) writeUnit(off, unit int, v uint32) {
	switch unit {
	case 1:
		r.buf[off] = uint8(v)
	case 2:
		binary.LittleEndian.PutUint16(r.buf[off:], uint16(v))
	default:
		binary.LittleEndian.PutUint32(r.buf[off:], v)
	}
}
