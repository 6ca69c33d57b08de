package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/user-none/gbatile/video"
)

// Userdata type names.
const (
	typeTile      = "gba.tile"
	typeCharblock = "gba.charblock"
	typeMap       = "gba.map"
	typeBG        = "gba.bg"
	typeTiled     = "gba.tiled"
	typeBitmap    = "gba.bitmap"
	typeError     = "gba.error"
)

func (r *Runtime) register() {
	L := r.L

	gba := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"color":          r.color,
		"bg_palette":     r.bgPalette,
		"obj_palette":    r.objPalette,
		"tile":           r.newTile,
		"charblock":      r.newCharblock,
		"map":            r.newMap,
		"bg":             r.bg,
		"mode1":          r.mode1,
		"mode4":          r.mode4,
		"vsync":          r.vsync,
		"running":        r.isRunning,
		"copy_charblock": r.copyCharblock,
	})
	L.SetField(gba, "WIDTH", lua.LNumber(video.ScreenWidth))
	L.SetField(gba, "HEIGHT", lua.LNumber(video.ScreenHeight))
	L.SetGlobal("gba", gba)

	canvasMethods := map[string]lua.LGFunction{
		"pixel": canvasPixel,
		"fill":  canvasFill,
		"rect":  canvasRect,
		"hline": canvasHLine,
		"vline": canvasVLine,
		"text":  canvasText,
	}

	errMT := L.NewTypeMetatable(typeError)
	L.SetField(errMT, "__tostring", L.NewFunction(errorString))

	r.typ(typeTile, canvasMethods, nil)
	r.typ(typeCharblock, map[string]lua.LGFunction{
		"assemble": charblockAssemble,
		"upload":   charblockUpload,
		"clear":    charblockClear,
		"index":    charblockIndex,
	}, nil)
	r.typ(typeMap, map[string]lua.LGFunction{
		"set":    mapSet,
		"get":    mapGet,
		"fill":   mapFill,
		"upload": mapUpload,
		"index":  mapIndex,
	}, nil)
	r.typ(typeBG, map[string]lua.LGFunction{
		"configure": bgConfigure,
		"priority":  bgPriority,
		"mosaic":    bgMosaic,
		"wrap":      bgWrap,
		"scroll":    bgScroll,
		"apply":     bgApply,
		"reset":     bgReset,
	}, nil)
	r.typ(typeTiled, map[string]lua.LGFunction{
		"init":  tiledInit,
		"blank": tiledBlank,
		"apply": tiledApply,
	}, nil)
	r.typ(typeBitmap, map[string]lua.LGFunction{
		"init": bitmapInit,
		"show": bitmapShow,
		"page": bitmapPage,
	}, canvasMethods)
}

// typ registers a userdata metatable whose __index holds methods and, if
// given, extra.
func (r *Runtime) typ(name string, methods, extra map[string]lua.LGFunction) {
	L := r.L
	mt := L.NewTypeMetatable(name)
	index := L.SetFuncs(L.NewTable(), methods)
	if extra != nil {
		L.SetFuncs(index, extra)
	}
	L.SetField(mt, "__index", index)
}

func (r *Runtime) push(name string, v interface{}) int {
	L := r.L
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(name))
	L.Push(ud)
	return 1
}

// check returns argument n as userdata of the named type.
func check[T any](L *lua.LState, n int, name string) T {
	ud := L.CheckUserData(n)
	v, ok := ud.Value.(T)
	if !ok {
		L.ArgError(n, name+" expected")
	}
	return v
}

// raise throws err into Lua as a gba.error userdata. Scripts can catch it
// with pcall and print it with tostring.
func raise(L *lua.LState, err error) {
	if err == nil {
		return
	}
	ud := L.NewUserData()
	ud.Value = &hostError{where: L.Where(1), err: err}
	L.SetMetatable(ud, L.GetTypeMetatable(typeError))
	L.Error(ud, 0)
}

func errorString(L *lua.LState) int {
	L.Push(lua.LString(check[*hostError](L, 1, typeError).Error()))
	return 1
}

// --- gba table ---

func (r *Runtime) color(L *lua.LState) int {
	c := video.Color555(uint8(L.CheckInt(1)), uint8(L.CheckInt(2)), uint8(L.CheckInt(3)))
	L.Push(lua.LNumber(c))
	return 1
}

func (r *Runtime) bgPalette(L *lua.LState) int {
	r.video.SetBGColor(L.CheckInt(1), uint16(L.CheckInt(2)))
	return 0
}

func (r *Runtime) objPalette(L *lua.LState) int {
	r.video.SetOBJColor(L.CheckInt(1), uint16(L.CheckInt(2)))
	return 0
}

func (r *Runtime) newTile(L *lua.LState) int {
	w, h := L.CheckInt(1), L.CheckInt(2)
	if w <= 0 || h <= 0 {
		L.ArgError(1, "tile size must be positive")
	}
	return r.push(typeTile, video.NewTile(w, h))
}

func (r *Runtime) newCharblock(L *lua.LState) int {
	s, err := r.video.NewTileStore(L.CheckInt(1))
	raise(L, err)
	return r.push(typeCharblock, s)
}

func (r *Runtime) newMap(L *lua.LState) int {
	format := video.Regular
	switch f := L.OptString(4, "regular"); f {
	case "regular":
	case "affine":
		format = video.Affine
	default:
		L.ArgError(4, "format must be regular or affine")
	}
	m, err := r.video.NewMapStore(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), format)
	raise(L, err)
	return r.push(typeMap, m)
}

// bgHandle pairs a background with its scroll registers.
type bgHandle struct {
	bg     *video.Background
	scroll *video.Scroll
}

func (r *Runtime) bg(L *lua.LState) int {
	n := L.CheckInt(1)
	bg, err := r.video.Background(n)
	raise(L, err)
	return r.push(typeBG, &bgHandle{bg: bg, scroll: r.video.Scroll[n]})
}

func (r *Runtime) mode1(L *lua.LState) int {
	return r.push(typeTiled, r.video.Mode1())
}

func (r *Runtime) mode4(L *lua.LState) int {
	return r.push(typeBitmap, r.video.Mode4())
}

func (r *Runtime) vsync(L *lua.LState) int {
	r.video.WaitVBlank()
	L.Push(lua.LBool(r.running()))
	return 1
}

// isRunning reports running() without waiting for vertical blank, for loops
// that already wait through show.
func (r *Runtime) isRunning(L *lua.LState) int {
	L.Push(lua.LBool(r.running()))
	return 1
}

func (r *Runtime) copyCharblock(L *lua.LState) int {
	raise(L, r.video.CopyCharblock(L.CheckInt(1), L.CheckInt(2)))
	return 0
}

// --- canvas methods, shared by tiles and the mode 4 bitmap ---

func checkCanvas(L *lua.LState) *video.Canvas {
	ud := L.CheckUserData(1)
	switch v := ud.Value.(type) {
	case *video.Tile:
		return &v.Canvas
	case *video.BitmapDisplay:
		return v.Canvas
	}
	L.ArgError(1, "tile or bitmap expected")
	return nil
}

func checkColor(L *lua.LState, n int) uint8 {
	return uint8(L.CheckInt(n))
}

func canvasPixel(L *lua.LState) int {
	checkCanvas(L).Pixel(L.CheckInt(2), L.CheckInt(3), checkColor(L, 4))
	return 0
}

func canvasFill(L *lua.LState) int {
	checkCanvas(L).Fill(checkColor(L, 2))
	return 0
}

func canvasRect(L *lua.LState) int {
	checkCanvas(L).FillRect(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), L.CheckInt(5), checkColor(L, 6))
	return 0
}

func canvasHLine(L *lua.LState) int {
	checkCanvas(L).HLine(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), checkColor(L, 5))
	return 0
}

func canvasVLine(L *lua.LState) int {
	checkCanvas(L).VLine(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), checkColor(L, 5))
	return 0
}

func canvasText(L *lua.LState) int {
	checkCanvas(L).Text(L.CheckString(2), L.CheckInt(3), L.CheckInt(4), checkColor(L, 5))
	return 0
}

// --- charblock ---

func charblockAssemble(L *lua.LState) int {
	s := check[*video.TileStore](L, 1, typeCharblock)
	t := check[*video.Tile](L, 2, typeTile)
	s.Assemble(t, L.OptInt(3, 0))
	return 0
}

func charblockUpload(L *lua.LState) int {
	raise(L, check[*video.TileStore](L, 1, typeCharblock).Upload())
	return 0
}

func charblockClear(L *lua.LState) int {
	check[*video.TileStore](L, 1, typeCharblock).Clear()
	return 0
}

func charblockIndex(L *lua.LState) int {
	L.Push(lua.LNumber(check[*video.TileStore](L, 1, typeCharblock).Charblock()))
	return 1
}

// --- map ---

// mapSet is m:set(x, y, tile [, apply [, hflip, vflip, palette]]).
func mapSet(L *lua.LState) int {
	m := check[*video.MapStore](L, 1, typeMap)
	e := video.Entry{
		Tile:    uint16(L.CheckInt(4)),
		HFlip:   L.OptBool(6, false),
		VFlip:   L.OptBool(7, false),
		Palette: uint8(L.OptInt(8, 0)),
	}
	m.SetTile(L.CheckInt(2), L.CheckInt(3), e, L.OptBool(5, false))
	return 0
}

func mapGet(L *lua.LState) int {
	m := check[*video.MapStore](L, 1, typeMap)
	L.Push(lua.LNumber(m.Entry(L.CheckInt(2), L.CheckInt(3)).Tile))
	return 1
}

func mapFill(L *lua.LState) int {
	m := check[*video.MapStore](L, 1, typeMap)
	m.Fill(video.Entry{Tile: uint16(L.CheckInt(2)), Palette: uint8(L.OptInt(3, 0))})
	return 0
}

func mapUpload(L *lua.LState) int {
	raise(L, check[*video.MapStore](L, 1, typeMap).Upload())
	return 0
}

func mapIndex(L *lua.LState) int {
	L.Push(lua.LNumber(check[*video.MapStore](L, 1, typeMap).Screenblock()))
	return 1
}

// --- backgrounds ---

// bgConfigure is bg:configure(charblock, map [, colors]) with colors 16 or 256.
func bgConfigure(L *lua.LState) int {
	h := check[*bgHandle](L, 1, typeBG)
	tiles := check[*video.TileStore](L, 2, typeCharblock)
	m := check[*video.MapStore](L, 3, typeMap)
	cm := video.Colors256
	switch L.OptInt(4, 256) {
	case 256:
	case 16:
		cm = video.Colors16
	default:
		L.ArgError(4, "colors must be 16 or 256")
	}
	h.bg.Configure(tiles, m, cm)
	return 0
}

func bgPriority(L *lua.LState) int {
	check[*bgHandle](L, 1, typeBG).bg.SetPriority(L.CheckInt(2))
	return 0
}

func bgMosaic(L *lua.LState) int {
	check[*bgHandle](L, 1, typeBG).bg.SetMosaic(L.CheckBool(2))
	return 0
}

func bgWrap(L *lua.LState) int {
	check[*bgHandle](L, 1, typeBG).bg.SetWrap(L.CheckBool(2))
	return 0
}

// bgScroll sets and commits the scroll offset.
func bgScroll(L *lua.LState) int {
	h := check[*bgHandle](L, 1, typeBG)
	h.scroll.Set(L.CheckInt(2), L.CheckInt(3))
	h.scroll.Apply()
	return 0
}

func bgApply(L *lua.LState) int {
	check[*bgHandle](L, 1, typeBG).bg.Apply()
	return 0
}

func bgReset(L *lua.LState) int {
	check[*bgHandle](L, 1, typeBG).bg.Reset()
	return 0
}

// --- display ---

// tiledInit is d:init(bg...) with the backgrounds to enable.
func tiledInit(L *lua.LState) int {
	d := check[*video.TiledDisplay](L, 1, typeTiled)
	var layers []int
	for i := 2; i <= L.GetTop(); i++ {
		layers = append(layers, L.CheckInt(i))
	}
	raise(L, d.Init(layers...))
	return 0
}

func tiledBlank(L *lua.LState) int {
	check[*video.TiledDisplay](L, 1, typeTiled).SetBlank(L.CheckBool(2))
	return 0
}

func tiledApply(L *lua.LState) int {
	check[*video.TiledDisplay](L, 1, typeTiled).Apply()
	return 0
}

func bitmapInit(L *lua.LState) int {
	check[*video.BitmapDisplay](L, 1, typeBitmap).Init()
	return 0
}

func bitmapShow(L *lua.LState) int {
	raise(L, check[*video.BitmapDisplay](L, 1, typeBitmap).Show())
	return 0
}

func bitmapPage(L *lua.LState) int {
	L.Push(lua.LNumber(check[*video.BitmapDisplay](L, 1, typeBitmap).VisiblePage()))
	return 1
}
