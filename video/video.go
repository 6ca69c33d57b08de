// Package video is a hardware-abstraction layer for a tiled 2D video
// subsystem. Backgrounds, tiles and maps are described through semantic
// setters on shadow copies of the hardware state, then committed to the
// memory-mapped registers and video memory of the device.
//
// Nothing here is safe for concurrent use. One goroutine owns a Video and
// everything created from it. Video memory should only be written during
// vertical blank, with the display blanked, or through the bulk transfer
// primitives.
package video

import "fmt"

// NamedRegister pairs a register view with its table entry.
type NamedRegister struct {
	Name      string
	View      *RegisterView
	WriteOnly bool
}

// Video is the composition root: it owns one view per hardware register in
// the table and the controllers built on them.
type Video struct {
	p     Platform
	table *Table

	Display *Display
	BG      [4]*Background
	Scroll  [4]*Scroll

	regs []NamedRegister
}

// New validates the table and creates every register view.
func New(p Platform, t *Table) (*Video, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("hardware table %q: %w", t.Version, err)
	}

	v := &Video{p: p, table: t}
	views := make(map[string]*RegisterView, len(t.Registers))
	for _, spec := range t.Registers {
		rv, err := NewRegisterView(p, spec.Address, spec.Layout, spec.Granularity)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", spec.Name, err)
		}
		views[spec.Name] = rv
		v.regs = append(v.regs, NamedRegister{Name: spec.Name, View: rv, WriteOnly: spec.WriteOnly})
	}

	var err error
	if v.Display, err = NewDisplay(views[RegDispCnt]); err != nil {
		return nil, err
	}
	for i := range v.BG {
		if v.BG[i], err = NewBackground(i, views[bgCntNames[i]]); err != nil {
			return nil, err
		}
		if v.Scroll[i], err = NewScroll(views[bgOfsNames[i]]); err != nil {
			return nil, fmt.Errorf("background %d scroll: %w", i, err)
		}
	}
	return v, nil
}

// Table returns the hardware table in use.
func (v *Video) Table() *Table {
	return v.table
}

// Registers returns every register view in table order.
func (v *Video) Registers() []NamedRegister {
	r := make([]NamedRegister, len(v.regs))
	copy(r, v.regs)
	return r
}

// Background returns background n.
func (v *Video) Background(n int) (*Background, error) {
	if n < 0 || n >= len(v.BG) {
		return nil, fmt.Errorf("background %d: %w", n, ErrBlockIndex)
	}
	return v.BG[n], nil
}

// Tiled returns a controller for tiled mode m (0-2).
func (v *Video) Tiled(m Mode) (*TiledDisplay, error) {
	if m > Mode2 {
		return nil, fmt.Errorf("mode %d is not a tiled mode: %w", m, ErrMode)
	}
	return &TiledDisplay{Display: v.Display, mode: m}, nil
}

// Mode1 returns the mode 1 controller: two regular backgrounds and one
// affine background.
func (v *Video) Mode1() *TiledDisplay {
	return &TiledDisplay{Display: v.Display, mode: Mode1}
}

// Mode4 returns the page-flipped 8bpp bitmap controller with its own canvas.
func (v *Video) Mode4() *BitmapDisplay {
	return &BitmapDisplay{
		Display: v.Display,
		Canvas:  NewCanvas(ScreenWidth, ScreenHeight),
		bios:    v.p,
		pages:   v.table.PageBase,
	}
}

// NewTileStore creates a tile store for charblock cb.
func (v *Video) NewTileStore(cb int) (*TileStore, error) {
	return NewTileStore(v.p, v.table, cb)
}

// NewMapStore creates a map store at screenblock sb.
func (v *Video) NewMapStore(sb, width, height int, format EntryFormat) (*MapStore, error) {
	return NewMapStore(v.p, v.table, sb, width, height, format)
}

// SetBGColor writes background palette entry index.
func (v *Video) SetBGColor(index int, c uint16) {
	setColor(v.p, v.table.BGPaletteBase, index, c)
}

// SetOBJColor writes sprite palette entry index.
func (v *Video) SetOBJColor(index int, c uint16) {
	setColor(v.p, v.table.OBJPaletteBase, index, c)
}

// WaitVBlank blocks until the next vertical blank.
func (v *Video) WaitVBlank() {
	v.p.VBlankIntrWait()
}

// CopyCharblock duplicates charblock from into charblock to with DMA3, for
// example to share background tiles with sprites.
func (v *Video) CopyCharblock(from, to int) error {
	t := v.table
	for _, cb := range []int{from, to} {
		if cb < 0 || cb >= t.Charblocks {
			return fmt.Errorf("charblock %d: %w", cb, ErrBlockIndex)
		}
	}
	return DMA3Copy(v.p, t, t.CharblockAddr(from), t.CharblockAddr(to), int(t.CharblockSize))
}

// CopyScreenblocks copies n consecutive screenblocks starting at from to the
// n screenblocks starting at to with DMA3.
func (v *Video) CopyScreenblocks(from, to, n int) error {
	t := v.table
	if n <= 0 || from < 0 || to < 0 || from+n > t.Screenblocks || to+n > t.Screenblocks {
		return fmt.Errorf("screenblocks %d..%d to %d: %w", from, from+n-1, to, ErrBlockIndex)
	}
	return DMA3Copy(v.p, t, t.ScreenblockAddr(from), t.ScreenblockAddr(to), n*int(t.ScreenblockSize))
}
