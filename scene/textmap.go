package scene

import (
	"fmt"
	"math/rand"

	"github.com/user-none/gbatile/video"
)

// Text map layout: one tile strip holding a blank cell followed by the
// hex digits, shown on a 64x64 8bpp map at screenblock 16.
const (
	textMapGlyphs      = " 0123456789ABCDEF"
	textMapScreenblock = 16
	textMapSize        = 64
	textMapScroll      = 4
)

func init() {
	register(Scene{
		Name:        "textmap",
		Description: "mode 1 text tiles on a 64x64 map, diagonal cells redrawn each frame",
		Run:         runTextMap,
	})
}

// TextMap is the state of the text map demo.
type TextMap struct {
	Tiles *video.TileStore
	Map   *video.MapStore
}

// SetupTextMap renders the glyph strip, uploads it and the map, and turns on
// BG0 in mode 1.
func SetupTextMap(v *video.Video) (*TextMap, error) {
	v.SetBGColor(0, video.Color555(255, 255, 255))
	v.SetBGColor(1, video.Color555(0, 0, 0))

	tiles, err := v.NewTileStore(0)
	if err != nil {
		return nil, err
	}
	bgMap, err := v.NewMapStore(textMapScreenblock, textMapSize, textMapSize, video.Regular)
	if err != nil {
		return nil, err
	}

	disp := v.Mode1()
	disp.Reset()
	disp.SetBlank(true)
	disp.Apply()

	strip := video.NewTile(len(textMapGlyphs), 1)
	drawGlyphs(strip, textMapGlyphs, 1)
	tiles.Assemble(strip, 0)
	if err := tiles.Upload(); err != nil {
		return nil, fmt.Errorf("text map tiles: %w", err)
	}

	// Digits 4..0 down the diagonal.
	for i := 1; i <= 5; i++ {
		bgMap.SetTile(i, i, video.Entry{Tile: uint16(6 - i)}, false)
	}
	if err := bgMap.Upload(); err != nil {
		return nil, fmt.Errorf("text map: %w", err)
	}

	bg := v.BG[0]
	bg.Reset()
	bg.Configure(tiles, bgMap, video.Colors256)
	bg.Apply()

	if err := disp.Init(0); err != nil {
		return nil, err
	}

	v.Scroll[0].Set(textMapScroll, textMapScroll)
	v.Scroll[0].Apply()

	return &TextMap{Tiles: tiles, Map: bgMap}, nil
}

// drawGlyphs draws one character into each cell of strip. basicfont glyphs
// are 7x13, so only the top of each glyph fits an 8x8 cell; they are drawn
// shifted up to keep the digit bodies.
func drawGlyphs(strip *video.Tile, glyphs string, color uint8) {
	for i, r := range []rune(glyphs) {
		strip.Text(string(r), i*video.TileSize, -3, color)
	}
}

// Step puts random glyphs on the diagonal cells.
func (t *TextMap) Step(rng *rand.Rand) {
	for i := 1; i <= 5; i++ {
		t.Map.SetTile(i, i, video.Entry{Tile: uint16(1 + rng.Intn(len(textMapGlyphs)-1))}, false)
	}
}

func runTextMap(v *video.Video, rng *rand.Rand, running func() bool) error {
	tm, err := SetupTextMap(v)
	if err != nil {
		return err
	}
	for running() {
		tm.Step(rng)
		v.WaitVBlank()
		if err := tm.Map.Upload(); err != nil {
			return err
		}
	}
	return nil
}
