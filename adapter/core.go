package adapter

import (
	"image"
	"log"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/gbatile/emu"
	"github.com/user-none/gbatile/script"
	"github.com/user-none/gbatile/ui"
	"github.com/user-none/gbatile/video"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Core)(nil)
var _ emucore.MemoryInspector = (*Core)(nil)

const (
	programName = "program.lua"
	sampleRate  = 48000

	fps       = 60
	scanlines = 228 // 160 visible + 68 vblank
)

// Core runs one Lua program on a simulated machine in lockstep with the
// frontend: each RunFrame lets the program run to its next vertical blank.
type Core struct {
	machine *emu.Machine
	video   *video.Video
	control *ui.ProgramControl
	region  emucore.Region
}

// NewCore compiles src and prepares it to run. Source that does not parse is
// rejected here rather than on the first frame.
func NewCore(name string, src []byte, region emucore.Region) (*Core, error) {
	if err := script.Compile(name, string(src)); err != nil {
		return nil, err
	}

	m := emu.NewMachine()
	tbl := video.AGB
	v, err := video.New(m, &tbl)
	if err != nil {
		return nil, err
	}

	c := &Core{
		machine: m,
		video:   v,
		control: ui.NewLockstepControl(),
		region:  region,
	}
	m.SetVBlankHandler(func(*image.RGBA) {
		c.control.VBlank()
	})

	c.control.Start(func() error {
		err := script.RunSource(v, name, src, c.control.Running)
		if err != nil {
			log.Printf("Warning: program stopped: %v", err)
		}
		return err
	})
	return c, nil
}

// RunFrame lets the program run until its next vertical blank. Once the
// program has returned the last frame stays on screen.
func (c *Core) RunFrame() {
	c.control.Step()
}

// SetInput is ignored: programs have no input surface.
func (c *Core) SetInput(player int, buttons uint32) {}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (c *Core) GetFramebuffer() []byte {
	return c.machine.Framebuffer().Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (c *Core) GetFramebufferStride() int {
	return c.machine.Framebuffer().Stride
}

// GetActiveHeight returns the display height.
func (c *Core) GetActiveHeight() int {
	return emu.ScreenHeight
}

// GetAudioSamples returns no samples; the machine has no sound.
func (c *Core) GetAudioSamples() []int16 {
	return nil
}

// GetRegion returns the region the frontend selected.
func (c *Core) GetRegion() emucore.Region {
	return c.region
}

// SetRegion records the region. Timing is the same for every region.
func (c *Core) SetRegion(region emucore.Region) {
	c.region = region
}

// GetTiming returns the frame rate and scanline count.
func (c *Core) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       fps,
		Scanlines: scanlines,
	}
}

// SetOption is a no-op; the core has no options.
func (c *Core) SetOption(key string, value string) {}

// Close stops the program and waits for it to unwind.
func (c *Core) Close() {
	c.control.Stop()
	c.control.Wait()
}

// ReadMemory reads from the bus into buf and returns the number of bytes
// read. Reading stops at the first unmapped address.
func (c *Core) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if !c.machine.Mapped(cur) {
			return count
		}
		buf[i] = c.machine.Read8(cur)
		count++
	}
	return count
}
