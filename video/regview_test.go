package video

import (
	"errors"
	"testing"
)

func TestRegisterView_SetFieldMasksValue(t *testing.T) {
	p := newFakePlatform()
	rv, err := NewRegisterView(p, 0x04000008, BgCntLayout, HalfWord)
	if err != nil {
		t.Fatalf("NewRegisterView: %v", err)
	}

	if err := rv.Set("PRIO", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := rv.Get("PRIO"); v != 3 {
		t.Errorf("expected PRIO 3 after masking, got %d", v)
	}
	if v, _ := rv.Get("CBB"); v != 0 {
		t.Errorf("expected neighbouring CBB untouched, got %d", v)
	}
}

func TestRegisterView_FieldsDoNotOverlap(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000008, BgCntLayout, HalfWord)

	rv.Set("SBB", 0x1F)
	rv.Set("CBB", 2)
	rv.Set("SIZE", 3)
	rv.Set("SBB", 16)

	for name, want := range map[string]uint32{"SBB": 16, "CBB": 2, "SIZE": 3, "PRIO": 0, "WRAP": 0} {
		if v, _ := rv.Get(name); v != want {
			t.Errorf("%s: expected %d, got %d", name, want, v)
		}
	}
	if b := rv.Bytes(); b[0] != 0x08 || b[1] != 0xD0 {
		t.Errorf("expected shadow bytes 08 D0, got %02X %02X", b[0], b[1])
	}
}

func TestRegisterView_ShadowOnlyUntilApply(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000000, DispCntLayout, HalfWord)

	rv.Set("MODE", 4)
	if len(p.ops) != 0 {
		t.Fatalf("expected no hardware writes before Apply, got %v", p.ops)
	}

	rv.Apply()
	if len(p.ops) != 1 || p.ops[0] != (op{"w16", 0x04000000, 4}) {
		t.Errorf("expected one half-word write of 4, got %v", p.ops)
	}
}

func TestRegisterView_ApplyLoadRoundTrip(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000000, DispCntLayout, HalfWord)
	rv.Set("MODE", 1)
	rv.Set("BG0", 1)
	rv.Set("BLANK", 1)
	before := rv.Bytes()
	rv.Apply()

	rv.Reset()
	if v, _ := rv.Get("MODE"); v != 0 {
		t.Fatalf("expected MODE 0 after Reset, got %d", v)
	}
	rv.Load()

	after := rv.Bytes()
	if string(before) != string(after) {
		t.Errorf("expected %X after Load, got %X", before, after)
	}
}

func TestRegisterView_ResetDoesNotTouchHardware(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000000, DispCntLayout, HalfWord)
	rv.Set("MODE", 3)
	rv.Apply()
	p.reset()

	rv.Reset()
	if len(p.ops) != 0 {
		t.Errorf("expected no writes from Reset, got %v", p.ops)
	}
	if p.Read16(0x04000000) != 3 {
		t.Errorf("expected hardware to keep MODE 3, got %d", p.Read16(0x04000000))
	}
}

func TestRegisterView_WordGranularity(t *testing.T) {
	p := newFakePlatform()
	rv, err := NewRegisterView(p, 0x04000010, BgOfsLayout, Word)
	if err != nil {
		t.Fatalf("NewRegisterView: %v", err)
	}
	rv.Set("HOFS", 0x12)
	rv.Set("VOFS", 0x34)
	rv.Apply()

	if len(p.ops) != 1 {
		t.Fatalf("expected one word write, got %v", p.ops)
	}
	if p.ops[0] != (op{"w32", 0x04000010, 0x00340012}) {
		t.Errorf("expected w32 04000010=340012, got %v", p.ops[0])
	}
}

func TestRegisterView_HalfWordGranularitySplits(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000010, BgOfsLayout, HalfWord)
	rv.Set("HOFS", 0x12)
	rv.Set("VOFS", 0x34)
	rv.Apply()

	want := []op{{"w16", 0x04000010, 0x12}, {"w16", 0x04000012, 0x34}}
	if len(p.ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, p.ops)
	}
	for i := range want {
		if p.ops[i] != want[i] {
			t.Errorf("write %d: expected %v, got %v", i, want[i], p.ops[i])
		}
	}
}

func TestRegisterView_UnknownField(t *testing.T) {
	p := newFakePlatform()
	rv, _ := NewRegisterView(p, 0x04000000, DispCntLayout, HalfWord)
	if err := rv.Set("NOPE", 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if _, err := rv.Get("NOPE"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewRegisterView_Validation(t *testing.T) {
	p := newFakePlatform()
	if _, err := NewRegisterView(p, 0x04000002, BgOfsLayout, Word); !errors.Is(err, ErrLayout) {
		t.Errorf("expected misaligned word view to fail, got %v", err)
	}
	if _, err := NewRegisterView(p, 0x04000000, DispCntLayout, Word); !errors.Is(err, ErrLayout) {
		t.Errorf("expected 2 byte layout with word access to fail, got %v", err)
	}
	if _, err := NewRegisterView(p, 0x04000000, DispCntLayout, Granularity(3)); !errors.Is(err, ErrLayout) {
		t.Errorf("expected bad granularity to fail, got %v", err)
	}
}

func TestGranularity_String(t *testing.T) {
	if HalfWord.String() != "halfword" || Word.String() != "word" {
		t.Errorf("unexpected names %q %q", HalfWord, Word)
	}
	if s := Granularity(8).String(); s != "Granularity(8)" {
		t.Errorf("expected Granularity(8), got %q", s)
	}
}
