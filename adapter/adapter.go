package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/gbatile/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for Lua video programs. The "ROM"
// a frontend loads is the program source.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            emu.Name,
		ConsoleName:     "Tile Video Programs",
		Extensions:      []string{".lua"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.ScreenHeight,
		AspectRatio:     float64(emu.ScreenWidth) / float64(emu.ScreenHeight),
		SampleRate:      sampleRate,
		Players:         1,
		DataDirName:     emu.Name,
		CoreName:        emu.Name,
		CoreVersion:     emu.Version,
	}
}

// CreateEmulator compiles the program and returns a core that runs it. The
// program does not start until the first RunFrame.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	return NewCore(programName, rom, region)
}

// DetectRegion always reports NTSC timing. Programs carry no header, so the
// bool return is false.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emucore.RegionNTSC, false
}
