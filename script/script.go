// Package script runs Lua programs against a Video. Scripts get a global
// gba table whose functions create tile stores, maps, backgrounds and
// display controllers as userdata with methods.
//
//	local tiles = gba.charblock(0)
//	local t = gba.tile(17, 1)
//	t:text(" 0123456789ABCDEF", 0, 0, 1)
//	tiles:assemble(t, 0)
//	tiles:upload()
//	while gba.vsync() do ... end
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/user-none/gbatile/video"
)

// Runtime binds one Lua state to a Video.
type Runtime struct {
	L       *lua.LState
	video   *video.Video
	running func() bool
}

// New creates a runtime with the standard Lua libraries and the gba table.
// vsync in scripts waits for vertical blank and then returns running().
func New(v *video.Video, running func() bool) *Runtime {
	if running == nil {
		running = func() bool { return true }
	}
	r := &Runtime{
		L:       lua.NewState(),
		video:   v,
		running: running,
	}
	r.register()
	return r
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.L.Close()
}

// DoString runs a chunk of Lua source.
func (r *Runtime) DoString(name, src string) error {
	fn, err := r.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	r.L.Push(fn)
	if err := r.L.PCall(0, lua.MultRet, nil); err != nil {
		if he := asHostError(err); he != nil {
			return fmt.Errorf("script %s: %w", name, he)
		}
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// hostError carries a video layer error through Lua. It is raised as
// userdata so the Go error, and its sentinel, survive the trip.
type hostError struct {
	where string
	err   error
}

func (e *hostError) Error() string {
	if e.where == "" {
		return e.err.Error()
	}
	return e.where + " " + e.err.Error()
}

func (e *hostError) Unwrap() error {
	return e.err
}

// asHostError returns the hostError a Lua error was raised with, or nil.
func asHostError(err error) *hostError {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return nil
	}
	ud, ok := apiErr.Object.(*lua.LUserData)
	if !ok {
		return nil
	}
	he, _ := ud.Value.(*hostError)
	return he
}

// Compile checks that src parses as Lua without running it.
func Compile(name, src string) error {
	L := lua.NewState()
	defer L.Close()
	if _, err := L.Load(strings.NewReader(src), name); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// Run loads the Lua file at path and runs it to completion against v.
func Run(v *video.Video, path string, running func() bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return RunSource(v, path, src, running)
}

// RunSource runs the Lua program src, named name in error messages, to
// completion against v.
func RunSource(v *video.Video, name string, src []byte, running func() bool) error {
	r := New(v, running)
	defer r.Close()
	return r.DoString(name, string(src))
}
