package video

import "fmt"

// ColorMode is the tile color depth of a background.
type ColorMode uint32

const (
	Colors16  ColorMode = 0 // 4bpp, 16 palette banks of 16 colors
	Colors256 ColorMode = 1 // 8bpp, one palette of 256 colors
)

// MapSize is the BGCNT size class. Its meaning depends on the background kind.
//
//	size  regular         affine
//	0     32x32  256x256  16x16   128x128
//	1     64x32  512x256  32x32   256x256
//	2     32x64  256x512  64x64   512x512
//	3     64x64  512x512  128x128 1024x1024
type MapSize uint32

const (
	Size0 MapSize = iota
	Size1
	Size2
	Size3
)

// RegularTiles returns the map dimensions in tiles for a regular background.
func (s MapSize) RegularTiles() (w, h int) {
	w, h = 32, 32
	if s&1 != 0 {
		w = 64
	}
	if s&2 != 0 {
		h = 64
	}
	return
}

// AffineTiles returns the map edge in tiles for an affine background.
func (s MapSize) AffineTiles() int {
	return 16 << (s & 3)
}

// Background controls one background layer through its BGxCNT register.
// All state lives in the register's shadow buffer.
type Background struct {
	cnt *RegisterView
	num int

	prio, cbb, mosaic, cm, sbb, wrap, size FieldRef
}

// NewBackground wraps a BGxCNT register view.
func NewBackground(num int, cnt *RegisterView) (*Background, error) {
	refs, err := cnt.Layout().resolve("PRIO", "CBB", "MOSAIC", "CM", "SBB", "WRAP", "SIZE")
	if err != nil {
		return nil, fmt.Errorf("background %d: %w", num, err)
	}
	return &Background{
		cnt:    cnt,
		num:    num,
		prio:   refs[0],
		cbb:    refs[1],
		mosaic: refs[2],
		cm:     refs[3],
		sbb:    refs[4],
		wrap:   refs[5],
		size:   refs[6],
	}, nil
}

// Number returns the background number 0-3.
func (b *Background) Number() int {
	return b.num
}

// Register returns the wrapped control register.
func (b *Background) Register() *RegisterView {
	return b.cnt
}

// SetPriority sets the drawing order, 0 (front) to 3.
func (b *Background) SetPriority(prio int) {
	b.cnt.SetField(b.prio, uint32(prio)&0x03)
}

// SetCharblock selects the charblock (0-3) holding the tile data.
func (b *Background) SetCharblock(cbb int) {
	b.cnt.SetField(b.cbb, uint32(cbb)&0x03)
}

// SetMosaic enables the mosaic effect.
func (b *Background) SetMosaic(on bool) {
	b.cnt.SetField(b.mosaic, boolBit(on))
}

// SetColorMode selects 4bpp or 8bpp tiles.
func (b *Background) SetColorMode(cm ColorMode) {
	b.cnt.SetField(b.cm, uint32(cm)&0x01)
}

// SetScreenblock selects the screenblock (0-31) holding the map.
func (b *Background) SetScreenblock(sbb int) {
	b.cnt.SetField(b.sbb, uint32(sbb)&0x1F)
}

// SetWrap makes an affine background wrap at its edges. Regular backgrounds
// always wrap.
func (b *Background) SetWrap(on bool) {
	b.cnt.SetField(b.wrap, boolBit(on))
}

// SetSize sets the map size class.
func (b *Background) SetSize(size MapSize) {
	b.cnt.SetField(b.size, uint32(size)&0x03)
}

// Configure points the background at a tile store and a map store and sets
// the size class matching the map.
func (b *Background) Configure(tiles *TileStore, m *MapStore, cm ColorMode) {
	b.SetCharblock(tiles.Charblock())
	b.SetScreenblock(m.Screenblock())
	b.SetColorMode(cm)

	w, h := m.Size()
	if m.Format() == Affine {
		switch {
		case w <= 16:
			b.SetSize(Size0)
		case w <= 32:
			b.SetSize(Size1)
		case w <= 64:
			b.SetSize(Size2)
		default:
			b.SetSize(Size3)
		}
		return
	}
	var size MapSize
	if w > 32 {
		size |= Size1
	}
	if h > 32 {
		size |= Size2
	}
	b.SetSize(size)
}

// Apply commits the control register.
func (b *Background) Apply() {
	b.cnt.Apply()
}

// Reset zeroes the shadow register.
func (b *Background) Reset() {
	b.cnt.Reset()
}

// Scroll controls the BGxHOFS/BGxVOFS pair of a regular background. The
// registers are write-only, so the shadow is the only readable copy.
type Scroll struct {
	ofs        *RegisterView
	hofs, vofs FieldRef
}

// NewScroll wraps a BGxOFS register view.
func NewScroll(ofs *RegisterView) (*Scroll, error) {
	refs, err := ofs.Layout().resolve("HOFS", "VOFS")
	if err != nil {
		return nil, err
	}
	return &Scroll{ofs: ofs, hofs: refs[0], vofs: refs[1]}, nil
}

// Set stores the scroll offset in pixels. Hardware uses the low 9 bits.
func (s *Scroll) Set(h, v int) {
	s.ofs.SetField(s.hofs, uint32(h)&0x1FF)
	s.ofs.SetField(s.vofs, uint32(v)&0x1FF)
}

// Offset returns the shadow scroll offset.
func (s *Scroll) Offset() (h, v int) {
	return int(s.ofs.GetField(s.hofs)), int(s.ofs.GetField(s.vofs))
}

// Register returns the wrapped offset register.
func (s *Scroll) Register() *RegisterView {
	return s.ofs
}

// Apply commits the offset registers.
func (s *Scroll) Apply() {
	s.ofs.Apply()
}

// Reset zeroes the shadow offsets.
func (s *Scroll) Reset() {
	s.ofs.Reset()
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
