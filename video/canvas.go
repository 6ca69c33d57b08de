package video

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Screen size in pixels.
const (
	ScreenWidth  = 240
	ScreenHeight = 160
)

// TileSize is the edge length of one tile cell in pixels.
const TileSize = 8

// Canvas is an 8bpp paletted pixel buffer, one byte per pixel holding a
// palette index. Drawing is clipped to the canvas.
type Canvas struct {
	Pix    []byte
	Width  int
	Height int
}

// NewCanvas allocates a zeroed canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Pix:    make([]byte, width*height),
		Width:  width,
		Height: height,
	}
}

// Pixel sets one pixel.
func (c *Canvas) Pixel(x, y int, color uint8) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pix[y*c.Width+x] = color
}

// At returns the palette index at x, y, or 0 outside the canvas.
func (c *Canvas) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Width+x]
}

// Fill sets every pixel.
func (c *Canvas) Fill(color uint8) {
	for i := range c.Pix {
		c.Pix[i] = color
	}
}

// FillRect fills the w by h rectangle at x, y.
func (c *Canvas) FillRect(x, y, w, h int, color uint8) {
	r := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, c.Width, c.Height))
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := c.Pix[py*c.Width : (py+1)*c.Width]
		for px := r.Min.X; px < r.Max.X; px++ {
			row[px] = color
		}
	}
}

// HLine draws a horizontal line of length w.
func (c *Canvas) HLine(x, y, w int, color uint8) {
	c.FillRect(x, y, w, 1, color)
}

// VLine draws a vertical line of length h.
func (c *Canvas) VLine(x, y, h int, color uint8) {
	c.FillRect(x, y, 1, h, color)
}

// textFace is the bitmap face used by Text. Glyphs are 7x13 with the
// baseline 11 pixels below the top.
var textFace = basicfont.Face7x13

// Text draws s with its top-left corner at x, y. Covered pixels take color,
// the rest are left alone.
func (c *Canvas) Text(s string, x, y int, color uint8) {
	mask := image.NewAlpha(image.Rect(0, 0, c.Width, c.Height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: textFace,
		Dot:  fixed.P(x, y+textFace.Ascent),
	}
	d.DrawString(s)

	for i, a := range mask.Pix {
		if a >= 0x80 {
			c.Pix[i] = color
		}
	}
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

// Tile is a canvas sized in whole 8x8 cells. Multi-cell tiles are split into
// cells row-major when assembled into a TileStore.
type Tile struct {
	Canvas
	CellsW int
	CellsH int
}

// NewTile allocates a tile of cellsW by cellsH cells.
func NewTile(cellsW, cellsH int) *Tile {
	return &Tile{
		Canvas: *NewCanvas(cellsW*TileSize, cellsH*TileSize),
		CellsW: cellsW,
		CellsH: cellsH,
	}
}

// Cells returns the number of cells in the tile.
func (t *Tile) Cells() int {
	return t.CellsW * t.CellsH
}

// cell copies the 64 pixels of cell cx, cy into dst.
func (t *Tile) cell(dst []byte, cx, cy int) {
	for row := 0; row < TileSize; row++ {
		src := (cy*TileSize+row)*t.Width + cx*TileSize
		copy(dst[row*TileSize:(row+1)*TileSize], t.Pix[src:src+TileSize])
	}
}
