package video

import (
	"encoding/binary"
	"fmt"
)

// EntryFormat selects the map entry encoding.
type EntryFormat int

const (
	// Regular entries are 2 bytes: tile index, flip flags and palette bank.
	Regular EntryFormat = 2
	// Affine entries are 1 byte: tile index only.
	Affine EntryFormat = 1
)

func (f EntryFormat) String() string {
	switch f {
	case Regular:
		return "regular"
	case Affine:
		return "affine"
	}
	return fmt.Sprintf("EntryFormat(%d)", int(f))
}

// screenblockSide is the edge of one screenblock in regular entries.
const screenblockSide = 32

// Entry is one map cell. Flips and palette bank only exist in regular maps.
type Entry struct {
	Tile    uint16
	HFlip   bool
	VFlip   bool
	Palette uint8
}

// Encode returns the 16-bit regular map entry:
//
//	bits 0-9   tile index
//	bit  10    horizontal flip
//	bit  11    vertical flip
//	bits 12-15 palette bank
//
// Out-of-range tile and palette values are truncated.
func (e Entry) Encode() uint16 {
	v := e.Tile & 0x03FF
	if e.HFlip {
		v |= 1 << 10
	}
	if e.VFlip {
		v |= 1 << 11
	}
	v |= uint16(e.Palette&0x0F) << 12
	return v
}

// DecodeEntry is the inverse of Entry.Encode.
func DecodeEntry(v uint16) Entry {
	return Entry{
		Tile:    v & 0x03FF,
		HFlip:   v&(1<<10) != 0,
		VFlip:   v&(1<<11) != 0,
		Palette: uint8(v >> 12),
	}
}

// MapStore owns the shadow copy of a background map starting at a
// screenblock. Maps bigger than 32x32 regular entries span consecutive
// screenblocks.
type MapStore struct {
	mem         Memory
	bios        BIOS
	base        uint32
	screenblock int
	width       int
	height      int
	format      EntryFormat
	buf         []byte
}

// NewMapStore creates a map of width by height tiles at screenblock. The
// size must match one of the hardware size classes and the map must fit in
// the screenblocks from screenblock on.
func NewMapStore(p Platform, t *Table, screenblock, width, height int, format EntryFormat) (*MapStore, error) {
	if screenblock < 0 || screenblock >= t.Screenblocks {
		return nil, fmt.Errorf("screenblock %d (have %d): %w", screenblock, t.Screenblocks, ErrBlockIndex)
	}
	if format != Regular && format != Affine {
		return nil, fmt.Errorf("screenblock %d: entry format %d: %w", screenblock, int(format), ErrLayout)
	}
	if !validMapSize(format, width, height) {
		return nil, fmt.Errorf("screenblock %d: %s map of %dx%d: %w", screenblock, format, width, height, ErrMapSize)
	}
	size := width * height * int(format)
	blocks := (size + int(t.ScreenblockSize) - 1) / int(t.ScreenblockSize)
	if screenblock+blocks > t.Screenblocks {
		return nil, fmt.Errorf("screenblock %d: map needs %d screenblocks (have %d): %w",
			screenblock, blocks, t.Screenblocks-screenblock, ErrBlockIndex)
	}
	return &MapStore{
		mem:         p,
		bios:        p,
		base:        t.ScreenblockAddr(screenblock),
		screenblock: screenblock,
		width:       width,
		height:      height,
		format:      format,
		buf:         make([]byte, size),
	}, nil
}

// validMapSize reports whether the hardware has a size class for the map.
// Regular maps are 32 or 64 tiles on each side, affine maps are square with
// an edge of 16, 32, 64 or 128 tiles.
func validMapSize(format EntryFormat, width, height int) bool {
	if format == Affine {
		if width != height {
			return false
		}
		switch width {
		case 16, 32, 64, 128:
			return true
		}
		return false
	}
	return (width == 32 || width == 64) && (height == 32 || height == 64)
}

// Screenblock returns the first screenblock of the map.
func (m *MapStore) Screenblock() int {
	return m.screenblock
}

// Address returns the hardware address of the map.
func (m *MapStore) Address() uint32 {
	return m.base
}

// Size returns the map dimensions in tiles.
func (m *MapStore) Size() (width, height int) {
	return m.width, m.height
}

// Format returns the entry format.
func (m *MapStore) Format() EntryFormat {
	return m.format
}

// Len returns the size of the backing buffer in bytes.
func (m *MapStore) Len() int {
	return len(m.buf)
}

// Bytes returns the backing buffer.
func (m *MapStore) Bytes() []byte {
	return m.buf
}

// Index returns the linear entry index of tile x, y.
//
// Regular maps are stored as 32x32 screenblocks: a 64 wide map keeps its
// right half in the next screenblock, and a 64x64 map keeps its bottom
// half two screenblocks on. Affine maps are plain row-major.
func (m *MapStore) Index(x, y int) int {
	if m.format == Affine {
		return m.width*y + x
	}

	n := y*screenblockSide + x
	if x >= screenblockSide {
		n += 0x03E0
	}
	if y >= screenblockSide && m.width >= 2*screenblockSide && m.height >= 2*screenblockSide {
		n += 0x0400
	}
	return n
}

// Offset returns the byte offset of tile x, y from the map base.
func (m *MapStore) Offset(x, y int) int {
	return m.Index(x, y) * int(m.format)
}

// Entry returns the shadow entry at x, y. Affine entries only carry Tile.
func (m *MapStore) Entry(x, y int) Entry {
	off := m.Offset(x, y)
	if off < 0 || off+int(m.format) > len(m.buf) {
		return Entry{}
	}
	if m.format == Affine {
		return Entry{Tile: uint16(m.buf[off])}
	}
	return DecodeEntry(binary.LittleEndian.Uint16(m.buf[off:]))
}

// SetTile stores e at x, y. With applyNow the entry is also written straight
// to map memory, which is far cheaper than a full Upload for a few cells.
//
// Map memory only takes 16-bit writes. An affine applyNow therefore writes
// the aligned byte pair from the shadow buffer: the neighbouring entry must
// already hold the intended value in the shadow, or hardware receives its
// stale shadow byte.
//
// Coordinates outside the buffer are ignored.
func (m *MapStore) SetTile(x, y int, e Entry, applyNow bool) {
	off := m.Offset(x, y)
	if off < 0 || off+int(m.format) > len(m.buf) {
		return
	}

	if m.format == Affine {
		m.buf[off] = uint8(e.Tile)
		if applyNow {
			pair := off &^ 1
			v := uint16(m.buf[pair])
			if pair+1 < len(m.buf) {
				v |= uint16(m.buf[pair+1]) << 8
			}
			m.mem.Write16(m.base+uint32(pair), v)
		}
		return
	}

	v := e.Encode()
	binary.LittleEndian.PutUint16(m.buf[off:], v)
	if applyNow {
		m.mem.Write16(m.base+uint32(off), v)
	}
}

// Fill sets every cell of the map to e in the shadow buffer.
func (m *MapStore) Fill(e Entry) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.SetTile(x, y, e, false)
		}
	}
}

// Upload copies the whole buffer to map memory.
func (m *MapStore) Upload() error {
	if err := FastCopy(m.bios, m.buf, m.base); err != nil {
		return fmt.Errorf("screenblock %d upload: %w", m.screenblock, err)
	}
	return nil
}
