package video

import "fmt"

// RegisterSpec places a layout at a hardware address.
type RegisterSpec struct {
	Name        string
	Address     uint32
	Layout      *Layout
	Granularity Granularity

	// WriteOnly registers read back undefined values, so their views are
	// never loaded from hardware.
	WriteOnly bool
}

// Table is the hardware configuration: every register the video layer
// touches and the video memory geometry. Alternate hardware revisions swap
// only the table.
type Table struct {
	Version   string
	Registers []RegisterSpec

	VRAMBase       uint32 // tile, map and bitmap memory
	VRAMSize       uint32
	BGPaletteBase  uint32 // 256 BGR555 entries
	OBJPaletteBase uint32 // 256 BGR555 entries
	PageBase       [2]uint32

	CharblockSize   uint32
	Charblocks      int // 0-3 background tiles, 4-5 sprite tiles
	ScreenblockSize uint32
	Screenblocks    int

	DMA3SAD uint32
	DMA3DAD uint32
	DMA3CNT uint32
}

// Register names used by Video.
const (
	RegDispCnt = "DISPCNT"
	RegBG0Cnt  = "BG0CNT"
	RegBG1Cnt  = "BG1CNT"
	RegBG2Cnt  = "BG2CNT"
	RegBG3Cnt  = "BG3CNT"
	RegBG0Ofs  = "BG0OFS"
	RegBG1Ofs  = "BG1OFS"
	RegBG2Ofs  = "BG2OFS"
	RegBG3Ofs  = "BG3OFS"
)

var bgCntNames = [4]string{RegBG0Cnt, RegBG1Cnt, RegBG2Cnt, RegBG3Cnt}
var bgOfsNames = [4]string{RegBG0Ofs, RegBG1Ofs, RegBG2Ofs, RegBG3Ofs}

// AGB is the address map of the first handheld revision.
var AGB = Table{
	Version: "agb-1",
	Registers: []RegisterSpec{
		{RegDispCnt, 0x04000000, DispCntLayout, HalfWord, false},
		{RegBG0Cnt, 0x04000008, BgCntLayout, HalfWord, false},
		{RegBG1Cnt, 0x0400000A, BgCntLayout, HalfWord, false},
		{RegBG2Cnt, 0x0400000C, BgCntLayout, HalfWord, false},
		{RegBG3Cnt, 0x0400000E, BgCntLayout, HalfWord, false},
		{RegBG0Ofs, 0x04000010, BgOfsLayout, HalfWord, true},
		{RegBG1Ofs, 0x04000014, BgOfsLayout, HalfWord, true},
		{RegBG2Ofs, 0x04000018, BgOfsLayout, HalfWord, true},
		{RegBG3Ofs, 0x0400001C, BgOfsLayout, HalfWord, true},
	},

	VRAMBase:       0x06000000,
	VRAMSize:       0x18000,
	BGPaletteBase:  0x05000000,
	OBJPaletteBase: 0x05000200,
	PageBase:       [2]uint32{0x06000000, 0x0600A000},

	CharblockSize:   0x4000,
	Charblocks:      6,
	ScreenblockSize: 0x800,
	Screenblocks:    32,

	DMA3SAD: 0x040000D4,
	DMA3DAD: 0x040000D8,
	DMA3CNT: 0x040000DC,
}

// Register returns the spec for the named register.
func (t *Table) Register(name string) (RegisterSpec, bool) {
	for _, r := range t.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return RegisterSpec{}, false
}

// Validate checks the table once at startup.
func (t *Table) Validate() error {
	if t.Version == "" {
		return fmt.Errorf("missing version: %w", ErrTable)
	}

	seen := make(map[string]bool, len(t.Registers))
	for _, r := range t.Registers {
		if seen[r.Name] {
			return fmt.Errorf("%s: duplicate register: %w", r.Name, ErrTable)
		}
		seen[r.Name] = true
		if r.Layout == nil {
			return fmt.Errorf("%s: missing layout: %w", r.Name, ErrTable)
		}
		if r.Granularity != HalfWord && r.Granularity != Word {
			return fmt.Errorf("%s: granularity %d: %w", r.Name, int(r.Granularity), ErrTable)
		}
		if r.Address%uint32(r.Granularity) != 0 || r.Layout.Size()%int(r.Granularity) != 0 {
			return fmt.Errorf("%s: %s access does not fit address %08X size %d: %w",
				r.Name, r.Granularity, r.Address, r.Layout.Size(), ErrTable)
		}
	}

	required := append([]string{RegDispCnt}, bgCntNames[:]...)
	required = append(required, bgOfsNames[:]...)
	for _, name := range required {
		if !seen[name] {
			return fmt.Errorf("%s: register missing: %w", name, ErrTable)
		}
	}

	if t.CharblockSize == 0 || t.ScreenblockSize == 0 || t.Charblocks <= 0 || t.Screenblocks <= 0 {
		return fmt.Errorf("block geometry unset: %w", ErrTable)
	}
	if uint32(t.Charblocks)*t.CharblockSize > t.VRAMSize {
		return fmt.Errorf("%d charblocks of %d bytes exceed VRAM: %w", t.Charblocks, t.CharblockSize, ErrTable)
	}
	if uint32(t.Screenblocks)*t.ScreenblockSize > t.VRAMSize {
		return fmt.Errorf("%d screenblocks of %d bytes exceed VRAM: %w", t.Screenblocks, t.ScreenblockSize, ErrTable)
	}
	for i, p := range t.PageBase {
		if p < t.VRAMBase || p+ScreenWidth*ScreenHeight > t.VRAMBase+t.VRAMSize {
			return fmt.Errorf("page %d at %08X outside VRAM: %w", i, p, ErrTable)
		}
	}
	return nil
}

// CharblockAddr returns the hardware address of a charblock.
func (t *Table) CharblockAddr(cb int) uint32 {
	return t.VRAMBase + uint32(cb)*t.CharblockSize
}

// ScreenblockAddr returns the hardware address of a screenblock.
func (t *Table) ScreenblockAddr(sb int) uint32 {
	return t.VRAMBase + uint32(sb)*t.ScreenblockSize
}
