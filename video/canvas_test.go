package video

import "testing"

func TestCanvas_Clipping(t *testing.T) {
	c := NewCanvas(16, 8)
	c.Pixel(-1, 0, 1)
	c.Pixel(16, 0, 1)
	c.FillRect(12, 6, 10, 10, 2)

	if c.At(15, 7) != 2 || c.At(12, 6) != 2 {
		t.Error("expected clipped rectangle drawn inside canvas")
	}
	if c.At(11, 6) != 0 {
		t.Error("expected pixel left of rectangle untouched")
	}
	if c.At(20, 20) != 0 {
		t.Error("expected 0 outside canvas")
	}
}

func TestCanvas_Lines(t *testing.T) {
	c := NewCanvas(8, 8)
	c.HLine(1, 2, 3, 5)
	c.VLine(6, 0, 8, 7)
	for x := 1; x < 4; x++ {
		if c.At(x, 2) != 5 {
			t.Errorf("expected hline at (%d,2)", x)
		}
	}
	if c.At(4, 2) != 0 {
		t.Error("expected hline to stop at length")
	}
	if c.At(6, 7) != 7 {
		t.Error("expected vline to reach bottom")
	}
}

func TestCanvas_Text(t *testing.T) {
	c := NewCanvas(32, 16)
	c.Text("A", 0, 0, 1)

	var n int
	for _, p := range c.Pix {
		if p == 1 {
			n++
		} else if p != 0 {
			t.Fatalf("expected only color 1 or 0, got %d", p)
		}
	}
	if n == 0 {
		t.Error("expected glyph pixels drawn")
	}
	for y := 0; y < 16; y++ {
		for x := 8; x < 32; x++ {
			if c.At(x, y) != 0 {
				t.Fatalf("expected one glyph width, pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestTextWidth(t *testing.T) {
	if w := TextWidth("0123"); w != 28 {
		t.Errorf("expected 28, got %d", w)
	}
}

func TestTile_Cells(t *testing.T) {
	tile := NewTile(17, 1)
	if tile.Cells() != 17 || tile.Width != 136 || tile.Height != 8 {
		t.Errorf("unexpected tile %dx%d with %d cells", tile.Width, tile.Height, tile.Cells())
	}
}
