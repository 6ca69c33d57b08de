package video_test

import (
	"image/color"
	"testing"

	"github.com/user-none/gbatile/emu"
	"github.com/user-none/gbatile/video"
)

func newMachineVideo(t *testing.T) (*video.Video, *emu.Machine) {
	t.Helper()
	m := emu.NewMachine()
	tbl := video.AGB
	v, err := video.New(m, &tbl)
	if err != nil {
		t.Fatalf("video.New: %v", err)
	}
	return v, m
}

func TestMode1_RendersMapOnMachine(t *testing.T) {
	v, m := newMachineVideo(t)

	v.SetBGColor(0, video.Color555(255, 255, 255))
	v.SetBGColor(1, video.Color555(0, 0, 0))

	tiles, _ := v.NewTileStore(0)
	tile := video.NewTile(2, 1)
	tile.FillRect(8, 0, 8, 8, 1)
	tiles.Assemble(tile, 0)

	bgMap, _ := v.NewMapStore(16, 64, 64, video.Regular)
	bg := v.BG[0]
	bg.Configure(tiles, bgMap, video.Colors256)
	bg.Apply()
	if err := v.Mode1().Init(0); err != nil {
		t.Fatalf("Init: %v", err)
	}

	bgMap.SetTile(2, 1, video.Entry{Tile: 1}, true)
	if err := tiles.Upload(); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	v.WaitVBlank()

	fb := m.Framebuffer()
	if c := fb.RGBAAt(16, 8); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected black tile at (16,8), got %v", c)
	}
	if c := fb.RGBAAt(0, 0); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white backdrop at (0,0), got %v", c)
	}
}

func TestMode1_RightHalfOfWideMap(t *testing.T) {
	v, m := newMachineVideo(t)
	v.SetBGColor(2, video.Color555(255, 0, 0))

	tiles, _ := v.NewTileStore(0)
	tile := video.NewTile(1, 1)
	tile.Fill(2)
	tiles.Assemble(tile, 3)
	tiles.Upload()

	bgMap, _ := v.NewMapStore(16, 64, 64, video.Regular)
	bgMap.SetTile(33, 1, video.Entry{Tile: 3}, true)

	bg := v.BG[0]
	bg.Configure(tiles, bgMap, video.Colors256)
	bg.Apply()
	v.Scroll[0].Set(32*8, 0)
	v.Scroll[0].Apply()
	v.Mode1().Init(0)
	v.WaitVBlank()

	if c := m.Framebuffer().RGBAAt(8, 8); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected tile (33,1) on screen at (8,8), got %v", c)
	}
}

func TestMode4_ShowFlipsOnMachine(t *testing.T) {
	v, m := newMachineVideo(t)
	v.SetBGColor(1, video.Color555(0, 255, 0))

	d := v.Mode4()
	d.Init()
	d.Canvas.FillRect(10, 10, 4, 4, 1)
	if err := d.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	// Show waits for vblank before flipping; render the flipped state.
	fb := m.Render()
	if c := fb.RGBAAt(11, 11); c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("expected green on page 1, got %v", c)
	}
	if m.Read16(0x04000000)&0x10 == 0 {
		t.Error("expected page 1 displayed")
	}
}

func TestCopyCharblock_OnMachine(t *testing.T) {
	v, m := newMachineVideo(t)
	tiles, _ := v.NewTileStore(0)
	tiles.Bytes()[0x123] = 0x5A
	tiles.Upload()

	if err := v.CopyCharblock(0, 4); err != nil {
		t.Fatalf("CopyCharblock: %v", err)
	}
	if b := m.Read8(0x06010123); b != 0x5A {
		t.Errorf("expected copied byte 0x5A, got 0x%02X", b)
	}
}
