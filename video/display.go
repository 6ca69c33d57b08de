package video

import "fmt"

// Mode is the DISPCNT video mode.
type Mode uint32

const (
	Mode0 Mode = iota // four regular backgrounds
	Mode1             // BG0, BG1 regular, BG2 affine
	Mode2             // BG2, BG3 affine
	Mode3             // 16bpp bitmap
	Mode4             // 8bpp paletted bitmap, two pages
	Mode5             // 16bpp small bitmap, two pages
)

// Window selects one of the display windows.
type Window int

const (
	Win0 Window = iota
	Win1
	WinObj
)

// Display controls the global DISPCNT register.
type Display struct {
	cnt *RegisterView

	mode, page, oamHBlank, obj1D, blank, obj FieldRef
	bg                                       [4]FieldRef
	win                                      [3]FieldRef
}

// NewDisplay wraps a DISPCNT register view.
func NewDisplay(cnt *RegisterView) (*Display, error) {
	refs, err := cnt.Layout().resolve(
		"MODE", "PAGE", "OAM_HBL", "OBJ_1D", "BLANK", "OBJ",
		"BG0", "BG1", "BG2", "BG3",
		"WIN0", "WIN1", "WINOBJ",
	)
	if err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}
	return &Display{
		cnt:       cnt,
		mode:      refs[0],
		page:      refs[1],
		oamHBlank: refs[2],
		obj1D:     refs[3],
		blank:     refs[4],
		obj:       refs[5],
		bg:        [4]FieldRef{refs[6], refs[7], refs[8], refs[9]},
		win:       [3]FieldRef{refs[10], refs[11], refs[12]},
	}, nil
}

// Register returns the wrapped DISPCNT view.
func (d *Display) Register() *RegisterView {
	return d.cnt
}

// SetMode sets the video mode.
func (d *Display) SetMode(m Mode) {
	d.cnt.SetField(d.mode, uint32(m)&0x07)
}

// Mode returns the shadow video mode.
func (d *Display) Mode() Mode {
	return Mode(d.cnt.GetField(d.mode))
}

// EnableBG turns background n (0-3) on or off. Other numbers are ignored.
func (d *Display) EnableBG(n int, on bool) {
	if n < 0 || n >= len(d.bg) {
		return
	}
	d.cnt.SetField(d.bg[n], boolBit(on))
}

// BGEnabled reports the shadow enable flag of background n.
func (d *Display) BGEnabled(n int) bool {
	if n < 0 || n >= len(d.bg) {
		return false
	}
	return d.cnt.GetField(d.bg[n]) != 0
}

// EnableOBJ turns sprite rendering on or off.
func (d *Display) EnableOBJ(on bool) {
	d.cnt.SetField(d.obj, boolBit(on))
}

// SetOBJ1D selects 1D (true) or 2D sprite tile mapping.
func (d *Display) SetOBJ1D(on bool) {
	d.cnt.SetField(d.obj1D, boolBit(on))
}

// SetOAMHBlank allows OAM access during HBlank.
func (d *Display) SetOAMHBlank(on bool) {
	d.cnt.SetField(d.oamHBlank, boolBit(on))
}

// EnableWindow turns a window on or off.
func (d *Display) EnableWindow(w Window, on bool) {
	if w < Win0 || w > WinObj {
		return
	}
	d.cnt.SetField(d.win[w], boolBit(on))
}

// SetBlank forces the screen blank.
func (d *Display) SetBlank(on bool) {
	d.cnt.SetField(d.blank, boolBit(on))
}

// Blanked reports the shadow forced blank flag.
func (d *Display) Blanked() bool {
	return d.cnt.GetField(d.blank) != 0
}

// SetPage selects the displayed bitmap page in modes 4 and 5.
func (d *Display) SetPage(p int) {
	d.cnt.SetField(d.page, uint32(p)&0x01)
}

// Page returns the shadow page select.
func (d *Display) Page() int {
	return int(d.cnt.GetField(d.page))
}

// Apply commits DISPCNT.
func (d *Display) Apply() {
	d.cnt.Apply()
}

// Reset zeroes the shadow DISPCNT.
func (d *Display) Reset() {
	d.cnt.Reset()
}

// initMode brings the display to a known configuration without ever showing
// an intermediate one: blank with everything else cleared, configure while
// blanked, then un-blank. Each step is committed.
func (d *Display) initMode(m Mode, configure func()) {
	d.cnt.Reset()
	d.SetBlank(true)
	d.cnt.Apply()

	d.SetMode(m)
	if configure != nil {
		configure()
	}
	d.cnt.Apply()

	d.SetBlank(false)
	d.cnt.Apply()
}

// TiledDisplay runs the display in one of the tiled modes.
type TiledDisplay struct {
	*Display
	mode Mode
}

// Init blanks, selects the tiled mode with the given backgrounds enabled,
// and un-blanks.
func (t *TiledDisplay) Init(layers ...int) error {
	for _, n := range layers {
		if n < 0 || n > 3 {
			return fmt.Errorf("background %d: %w", n, ErrBlockIndex)
		}
	}
	t.initMode(t.mode, func() {
		for _, n := range layers {
			t.EnableBG(n, true)
		}
	})
	return nil
}

// BitmapDisplay runs mode 4: a 240x160 8bpp bitmap with two pages. Drawing
// goes to Canvas, Show moves it to the hidden page and flips.
type BitmapDisplay struct {
	*Display
	Canvas *Canvas

	bios  BIOS
	pages [2]uint32
	page  int
}

// Init blanks, selects mode 4 on page 0 with BG2 enabled, and un-blanks.
func (b *BitmapDisplay) Init() {
	b.page = 0
	b.initMode(Mode4, func() {
		b.SetPage(0)
		b.EnableBG(2, true)
	})
}

// VisiblePage returns the page currently shown.
func (b *BitmapDisplay) VisiblePage() int {
	return b.page
}

// Show copies the canvas to the hidden page, waits for vertical blank and
// flips pages, so a half-written frame is never displayed.
func (b *BitmapDisplay) Show() error {
	b.page = b.Page()
	hidden := 1 - b.page

	if err := FastCopy(b.bios, b.Canvas.Pix, b.pages[hidden]); err != nil {
		return fmt.Errorf("page %d: %w", hidden, err)
	}
	b.bios.VBlankIntrWait()

	b.SetPage(hidden)
	b.Apply()
	b.page = hidden
	return nil
}
