// Package cli runs a video program in a window. The program runs on its own
// goroutine against the simulated machine; the Ebiten thread only draws the
// frames it publishes.
package cli

import (
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emubridge "github.com/user-none/gbatile/bridge/ebiten"
	"github.com/user-none/gbatile/emu"
	"github.com/user-none/gbatile/ui"
	"github.com/user-none/gbatile/video"
)

// FPS is the vertical blank rate the runner paces programs to.
const FPS = 60

// Program drives the display until running returns false.
type Program func(v *video.Video, running func() bool) error

// Runner wraps a program for windowed mode.
type Runner struct {
	viewer *emubridge.Viewer
	video  *video.Video

	control           *ui.ProgramControl
	sharedFramebuffer *ui.SharedFramebuffer

	frameTime     time.Duration
	lastFrameTime time.Time
}

// NewRunner creates the machine and video layer for table t and starts
// program on its own goroutine.
func NewRunner(t *video.Table, program Program) (*Runner, error) {
	m := emu.NewMachine()
	v, err := video.New(m, t)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		viewer:            emubridge.NewViewer(),
		video:             v,
		control:           ui.NewProgramControl(),
		sharedFramebuffer: ui.NewSharedFramebuffer(),
		frameTime:         time.Second / FPS,
		lastFrameTime:     time.Now(),
	}
	m.SetVBlankHandler(r.onVBlank)

	r.control.Start(func() error {
		err := program(r.video, r.control.Running)
		if err != nil {
			log.Printf("Warning: program stopped: %v", err)
		}
		return err
	})

	return r, nil
}

// Close stops the program at its next vertical blank and waits for its
// goroutine to exit. It returns the error the program ended with, if any.
func (r *Runner) Close() error {
	r.control.Stop()
	return r.control.Wait()
}

// onVBlank runs on the program goroutine at each vertical blank. It
// publishes the frame, sleeps out the rest of the frame time and then
// passes the pause and stop gate.
func (r *Runner) onVBlank(frame *image.RGBA) {
	r.sharedFramebuffer.Update(frame.Pix, frame.Stride, frame.Bounds().Dy())

	sleepTime := r.frameTime - time.Since(r.lastFrameTime)
	if sleepTime > time.Millisecond {
		time.Sleep(sleepTime)
	}
	r.lastFrameTime = time.Now()

	r.control.VBlank()
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !ebiten.IsFocused() {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if r.control.IsPaused() {
			r.control.Resume()
		} else {
			r.control.Pause()
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	pixels, stride, height := r.sharedFramebuffer.Read()
	if height == 0 {
		return
	}
	r.viewer.DrawCachedFramebuffer(screen, pixels, stride, height)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.viewer.Layout(outsideWidth, outsideHeight)
}
