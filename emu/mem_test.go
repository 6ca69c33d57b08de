package emu

import "testing"

func TestBus_VRAMWordLittleEndian(t *testing.T) {
	bus := NewBus()
	bus.Write32(0x06000000, 0x11223344)
	if v := bus.Read8(0x06000000); v != 0x44 {
		t.Errorf("expected low byte 0x44, got 0x%02X", v)
	}
	if v := bus.Read8(0x06000003); v != 0x11 {
		t.Errorf("expected high byte 0x11, got 0x%02X", v)
	}
	if v := bus.Read16(0x06000002); v != 0x1122 {
		t.Errorf("expected 0x1122, got 0x%04X", v)
	}
}

func TestBus_UnalignedAccessAlignsDown(t *testing.T) {
	bus := NewBus()
	bus.Write16(0x06000101, 0xBEEF)
	if v := bus.Read16(0x06000100); v != 0xBEEF {
		t.Errorf("expected 0xBEEF at aligned address, got 0x%04X", v)
	}
	bus.Write32(0x06000206, 0xCAFEF00D)
	if v := bus.Read32(0x06000204); v != 0xCAFEF00D {
		t.Errorf("expected 0xCAFEF00D at aligned address, got 0x%08X", v)
	}
}

func TestBus_VRAMObjMirror(t *testing.T) {
	bus := NewBus()
	bus.Write16(0x06010000, 0x1234)
	if v := bus.Read16(0x06018000); v != 0x1234 {
		t.Errorf("expected mirror of 0x06010000, got 0x%04X", v)
	}
}

func TestBus_WRAMMirror(t *testing.T) {
	bus := NewBus()
	bus.Write32(0x02000010, 0xA5A5A5A5)
	if v := bus.Read32(0x02040010); v != 0xA5A5A5A5 {
		t.Errorf("expected EWRAM mirror, got 0x%08X", v)
	}
	bus.Write16(0x03000020, 0x5A5A)
	if v := bus.Read16(0x03008020); v != 0x5A5A {
		t.Errorf("expected IWRAM mirror, got 0x%04X", v)
	}
}

func TestBus_UnmappedIgnored(t *testing.T) {
	bus := NewBus()
	bus.Write32(0x08000000, 0xFFFFFFFF)
	if v := bus.Read32(0x08000000); v != 0 {
		t.Errorf("expected unmapped read 0, got 0x%08X", v)
	}
	w16, w32 := bus.Writes()
	if w16 != 0 || w32 != 0 {
		t.Errorf("expected no counted writes, got %d/%d", w16, w32)
	}
}

func TestBus_IOWordSplitsIntoHalves(t *testing.T) {
	bus := NewBus()
	bus.Write32(0x04000008, 0x1F041C08) // BG0CNT, BG1CNT
	if v := bus.Read16(0x04000008); v != 0x1C08 {
		t.Errorf("expected BG0CNT 0x1C08, got 0x%04X", v)
	}
	if v := bus.Read16(0x0400000A); v != 0x1F04 {
		t.Errorf("expected BG1CNT 0x1F04, got 0x%04X", v)
	}
}

func TestBus_DispCntGBModeReadOnly(t *testing.T) {
	bus := NewBus()
	bus.Write16(0x04000000, 0xFFFF)
	if v := bus.Read16(0x04000000); v != 0xFFF7 {
		t.Errorf("expected GB_MODE cleared (0xFFF7), got 0x%04X", v)
	}
}

func TestBus_ReadOnlyRegisters(t *testing.T) {
	bus := NewBus()
	bus.Write16(0x04000006, 0x0050)
	if v := bus.Read16(0x04000006); v != 0 {
		t.Errorf("expected VCOUNT unchanged, got 0x%04X", v)
	}
	if v := bus.Read16(0x04000130); v != 0x03FF {
		t.Errorf("expected KEYINPUT 0x03FF, got 0x%04X", v)
	}
}

func TestBus_WriteCounters(t *testing.T) {
	bus := NewBus()
	bus.Write16(0x05000000, 1)
	bus.Write16(0x05000002, 2)
	bus.Write32(0x06000000, 3)
	w16, w32 := bus.Writes()
	if w16 != 2 {
		t.Errorf("expected 2 half-word writes, got %d", w16)
	}
	if w32 != 1 {
		t.Errorf("expected 1 word write, got %d", w32)
	}

	bus.Reset()
	w16, w32 = bus.Writes()
	if w16 != 0 || w32 != 0 {
		t.Errorf("expected counters cleared, got %d/%d", w16, w32)
	}
	if v := bus.Read16(0x05000000); v != 0 {
		t.Errorf("expected palette cleared, got 0x%04X", v)
	}
}

func TestBus_Mapped(t *testing.T) {
	bus := NewBus()
	tests := []struct {
		addr uint32
		want bool
	}{
		{0x02000000, true},
		{0x04000000, true},
		{0x040003FF, true},
		{0x04000400, false},
		{0x06017FFF, true},
		{0x00000000, false},
		{0x08000000, false},
	}
	for _, tt := range tests {
		if got := bus.Mapped(tt.addr); got != tt.want {
			t.Errorf("Mapped(%08X): expected %v, got %v", tt.addr, tt.want, got)
		}
	}
}
