package adapter

import (
	"image/color"
	"testing"
	"time"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/gbatile/emu"
)

func newTestCore(t *testing.T, src string) *Core {
	t.Helper()
	f := &Factory{}
	e, err := f.CreateEmulator([]byte(src), emucore.RegionNTSC)
	if err != nil {
		t.Fatalf("CreateEmulator: %v", err)
	}
	c, ok := e.(*Core)
	if !ok {
		t.Fatalf("expected *Core, got %T", e)
	}
	t.Cleanup(c.Close)
	return c
}

// closeWithin fails the test if Close does not return in time.
func closeWithin(t *testing.T, c *Core, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Close did not return")
	}
}

func TestFactory_SystemInfo(t *testing.T) {
	info := (&Factory{}).SystemInfo()
	if len(info.Extensions) != 1 || info.Extensions[0] != ".lua" {
		t.Errorf("expected .lua extension, got %v", info.Extensions)
	}
	if info.ScreenWidth != emu.ScreenWidth || info.MaxScreenHeight != emu.ScreenHeight {
		t.Errorf("expected %dx%d, got %dx%d", emu.ScreenWidth, emu.ScreenHeight, info.ScreenWidth, info.MaxScreenHeight)
	}
	if info.CoreName != emu.Name {
		t.Errorf("expected core name %q, got %q", emu.Name, info.CoreName)
	}
}

func TestFactory_RejectsSyntaxError(t *testing.T) {
	if _, err := (&Factory{}).CreateEmulator([]byte("this is not lua"), emucore.RegionNTSC); err == nil {
		t.Error("expected error for source that does not parse")
	}
}

func TestCore_DoesNotRunBeforeFirstFrame(t *testing.T) {
	c := newTestCore(t, `gba.bg_palette(0, gba.color(255, 0, 0))`)
	time.Sleep(10 * time.Millisecond)
	if got := c.machine.Read16(0x05000000); got != 0 {
		t.Errorf("expected program idle before RunFrame, palette 0x%04X", got)
	}
}

func TestCore_RunFrameAdvancesOneVBlank(t *testing.T) {
	c := newTestCore(t, `
		gba.bg_palette(0, gba.color(255, 0, 0))
		while gba.vsync() do end
	`)

	for i := 1; i <= 3; i++ {
		c.RunFrame()
		if c.machine.Frames() != uint64(i) {
			t.Errorf("frame %d: expected %d vblanks, got %d", i, i, c.machine.Frames())
		}
	}

	fb := c.GetFramebuffer()
	if len(fb) != emu.ScreenWidth*emu.ScreenHeight*4 || c.GetFramebufferStride() != emu.ScreenWidth*4 {
		t.Fatalf("unexpected framebuffer: %d bytes, stride %d", len(fb), c.GetFramebufferStride())
	}
	if got := (color.RGBA{fb[0], fb[1], fb[2], fb[3]}); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected red backdrop, got %v", got)
	}
	if c.GetActiveHeight() != emu.ScreenHeight {
		t.Errorf("expected height %d, got %d", emu.ScreenHeight, c.GetActiveHeight())
	}
}

func TestCore_FinishedProgramKeepsLastFrame(t *testing.T) {
	c := newTestCore(t, `gba.vsync()`)
	c.RunFrame()
	c.RunFrame()
	c.RunFrame()
	if c.machine.Frames() != 1 {
		t.Errorf("expected 1 vblank, got %d", c.machine.Frames())
	}
}

func TestCore_CloseUnwindsProgramThatNeverPolls(t *testing.T) {
	c := newTestCore(t, `while true do gba.vsync() end`)
	c.RunFrame()
	c.RunFrame()
	closeWithin(t, c, 2*time.Second)
}

func TestCore_CloseBeforeFirstFrame(t *testing.T) {
	c := newTestCore(t, `while true do gba.vsync() end`)
	closeWithin(t, c, 2*time.Second)
	if c.machine.Frames() != 0 {
		t.Errorf("expected no frames, got %d", c.machine.Frames())
	}
}

func TestCore_ReadMemory(t *testing.T) {
	c := newTestCore(t, `gba.mode1():init(0)`)
	c.RunFrame()

	buf := make([]byte, 2)
	if n := c.ReadMemory(0x04000000, buf); n != 2 {
		t.Fatalf("expected 2 bytes, got %d", n)
	}
	if buf[0] != 0x01 || buf[1] != 0x01 {
		t.Errorf("expected DISPCNT 0x0101, got %02X%02X", buf[1], buf[0])
	}

	if n := c.ReadMemory(0x040003FE, make([]byte, 4)); n != 2 {
		t.Errorf("expected read to stop at the end of I/O, got %d bytes", n)
	}
}

func TestCore_Timing(t *testing.T) {
	c := newTestCore(t, ``)
	if tm := c.GetTiming(); tm.FPS != 60 || tm.Scanlines != 228 {
		t.Errorf("unexpected timing %+v", tm)
	}
	c.SetRegion(emucore.RegionPAL)
	if c.GetRegion() != emucore.RegionPAL {
		t.Errorf("expected PAL region, got %v", c.GetRegion())
	}
	if c.GetAudioSamples() != nil {
		t.Error("expected no audio")
	}
}
