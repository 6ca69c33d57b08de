package video

import "fmt"

// Field describes one bit-field of a register. Offset is the byte offset of
// the storage unit holding the field, Unit its width in bytes (1, 2 or 4),
// Pos and Width the bit position and width within that unit.
type Field struct {
	Name   string
	Offset int
	Pos    uint
	Width  uint
	Unit   int
}

// FieldRef is a field resolved against a layout. Reads and writes through a
// FieldRef need no name lookup.
type FieldRef struct {
	offset int
	unit   int
	shift  uint
	mask   uint32
	valid  bool
}

// Valid reports whether the reference was resolved from a layout.
func (f FieldRef) Valid() bool {
	return f.valid
}

// Width returns the bit width of the field.
func (f FieldRef) Width() uint {
	w := uint(0)
	for m := f.mask; m != 0; m >>= 1 {
		w++
	}
	return w
}

// Layout is an ordered, read-only register layout descriptor. One layout is
// shared by every RegisterView of the same register kind.
type Layout struct {
	name   string
	fields []Field
	refs   []FieldRef
	index  map[string]int
	size   int
}

// NewLayout validates the fields and builds the accessor table.
func NewLayout(name string, fields ...Field) (*Layout, error) {
	l := &Layout{
		name:   name,
		fields: make([]Field, len(fields)),
		refs:   make([]FieldRef, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(l.fields, fields)

	for i, f := range fields {
		switch f.Unit {
		case 1, 2, 4:
		default:
			return nil, fmt.Errorf("%s.%s: unit of %d bytes: %w", name, f.Name, f.Unit, ErrLayout)
		}
		if f.Width == 0 || f.Pos+f.Width > uint(f.Unit*8) {
			return nil, fmt.Errorf("%s.%s: bits %d+%d do not fit a %d byte unit: %w",
				name, f.Name, f.Pos, f.Width, f.Unit, ErrLayout)
		}
		if f.Offset < 0 || f.Offset%f.Unit != 0 {
			return nil, fmt.Errorf("%s.%s: offset %d not aligned to unit: %w", name, f.Name, f.Offset, ErrLayout)
		}
		if _, dup := l.index[f.Name]; dup {
			return nil, fmt.Errorf("%s.%s: duplicate field: %w", name, f.Name, ErrLayout)
		}
		l.index[f.Name] = i

		var mask uint32 = 0xFFFFFFFF
		if f.Width < 32 {
			mask = 1<<f.Width - 1
		}
		l.refs[i] = FieldRef{
			offset: f.Offset,
			unit:   f.Unit,
			shift:  f.Pos,
			mask:   mask,
			valid:  true,
		}

		if end := f.Offset + f.Unit; end > l.size {
			l.size = end
		}
	}

	return l, nil
}

// MustLayout is NewLayout for package-level tables. It panics on error.
func MustLayout(name string, fields ...Field) *Layout {
	l, err := NewLayout(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the layout name.
func (l *Layout) Name() string {
	return l.name
}

// Size returns the storage footprint of the layout in bytes.
func (l *Layout) Size() int {
	return l.size
}

// Fields returns the fields in declaration order.
func (l *Layout) Fields() []Field {
	f := make([]Field, len(l.fields))
	copy(f, l.fields)
	return f
}

// Lookup resolves a field name.
func (l *Layout) Lookup(name string) (FieldRef, bool) {
	i, ok := l.index[name]
	if !ok {
		return FieldRef{}, false
	}
	return l.refs[i], true
}

// resolve looks up every name, failing on the first one missing.
func (l *Layout) resolve(names ...string) ([]FieldRef, error) {
	refs := make([]FieldRef, len(names))
	for i, n := range names {
		r, ok := l.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %w", l.name, n, ErrUnknownField)
		}
		refs[i] = r
	}
	return refs, nil
}

// halfword builds a single-bit-field entry stored in a 16-bit unit at offset 0.
func halfword(name string, pos, width uint) Field {
	return Field{Name: name, Offset: 0, Pos: pos, Width: width, Unit: 2}
}

// DISPCNT bit assignments.
//
//	bits 0-2  MODE     0-2 tiled, 3-5 bitmap
//	bit  3    GB_MODE  read-only
//	bit  4    PAGE     displayed page in modes 4 and 5
//	bit  5    OAM_HBL  OAM access during HBlank
//	bit  6    OBJ_1D   1D sprite tile mapping
//	bit  7    BLANK    forced blank
//	bits 8-12 BG0-BG3, OBJ layer enable
//	bits 13-15 WIN0, WIN1, WINOBJ
var DispCntLayout = MustLayout("DISPCNT",
	halfword("MODE", 0, 3),
	halfword("GB_MODE", 3, 1),
	halfword("PAGE", 4, 1),
	halfword("OAM_HBL", 5, 1),
	halfword("OBJ_1D", 6, 1),
	halfword("BLANK", 7, 1),
	halfword("BG0", 8, 1),
	halfword("BG1", 9, 1),
	halfword("BG2", 10, 1),
	halfword("BG3", 11, 1),
	halfword("OBJ", 12, 1),
	halfword("WIN0", 13, 1),
	halfword("WIN1", 14, 1),
	halfword("WINOBJ", 15, 1),
)

// BGCNT bit assignments.
//
//	bits 0-1   PRIO    drawing order
//	bits 2-3   CBB     charblock for tile data
//	bit  6     MOSAIC
//	bit  7     CM      0 = 4bpp, 1 = 8bpp
//	bits 8-12  SBB     screenblock for the map
//	bit  13    WRAP    affine wrapping
//	bits 14-15 SIZE    see MapSize
var BgCntLayout = MustLayout("BGCNT",
	halfword("PRIO", 0, 2),
	halfword("CBB", 2, 2),
	halfword("MOSAIC", 6, 1),
	halfword("CM", 7, 1),
	halfword("SBB", 8, 5),
	halfword("WRAP", 13, 1),
	halfword("SIZE", 14, 2),
)

// BgOfsLayout covers the BGxHOFS/BGxVOFS pair. Both registers are write-only.
var BgOfsLayout = MustLayout("BGOFS",
	Field{Name: "HOFS", Offset: 0, Pos: 0, Width: 16, Unit: 2},
	Field{Name: "VOFS", Offset: 2, Pos: 0, Width: 16, Unit: 2},
)
