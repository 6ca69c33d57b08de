package ui

import (
	"runtime"
	"sync"

	"github.com/user-none/gbatile/emu"
)

// SharedFramebuffer holds pixel data written by the program goroutine at
// each vertical blank and read by Ebiten's Draw() method. Uses separate write
// and read buffers so the program can publish a new frame while Draw uses
// the read copy.
type SharedFramebuffer struct {
	mu          sync.Mutex
	writePixels []byte // Written by the program goroutine under lock
	readPixels  []byte // Snapshot copied on Read for safe external use
	stride      int
	height      int
	frames      uint64
}

// NewSharedFramebuffer creates a pre-allocated framebuffer.
func NewSharedFramebuffer() *SharedFramebuffer {
	return &SharedFramebuffer{
		writePixels: make([]byte, emu.ScreenWidth*emu.ScreenHeight*4),
		readPixels:  make([]byte, emu.ScreenWidth*emu.ScreenHeight*4),
	}
}

// Update copies framebuffer data from the program goroutine.
func (sf *SharedFramebuffer) Update(pixels []byte, stride, height int) {
	sf.mu.Lock()
	n := stride * height
	if n > len(sf.writePixels) {
		n = len(sf.writePixels)
	}
	if n > len(pixels) {
		n = len(pixels)
	}
	copy(sf.writePixels[:n], pixels[:n])
	sf.stride = stride
	sf.height = height
	sf.frames++
	sf.mu.Unlock()
}

// Read returns a snapshot of the current framebuffer state.
// Copies the write buffer into the read buffer under the lock,
// then returns the read buffer which is safe to use without holding the lock.
func (sf *SharedFramebuffer) Read() (pixels []byte, stride, height int) {
	sf.mu.Lock()
	stride = sf.stride
	height = sf.height
	n := stride * height
	if n > len(sf.writePixels) {
		n = len(sf.writePixels)
	}
	if n > 0 {
		copy(sf.readPixels[:n], sf.writePixels[:n])
	}
	pixels = sf.readPixels
	sf.mu.Unlock()
	return
}

// Frames returns the number of frames published so far.
func (sf *SharedFramebuffer) Frames() uint64 {
	sf.mu.Lock()
	n := sf.frames
	sf.mu.Unlock()
	return n
}

// ProgramControl runs a program on its own goroutine and gates it at
// vertical blank. The program side calls VBlank from its vblank hook, which
// every wait for vertical blank passes through. The controlling side pauses,
// resumes, steps and stops the program without ever waiting on it, except
// in Step and Wait.
//
// A free-running program runs until paused. A lockstep program only runs
// from a Step call to its next vertical blank.
type ProgramControl struct {
	mu   sync.Mutex
	cond *sync.Cond

	lockstep bool
	budget   int // frames a lockstep program may still start
	paused   bool
	stopped  bool
	parked   bool // program goroutine is waiting in the gate
	frames   uint64

	started  bool
	finished bool
	done     chan struct{}
	err      error
}

// NewProgramControl creates a control for a free-running program.
func NewProgramControl() *ProgramControl {
	pc := &ProgramControl{done: make(chan struct{})}
	pc.cond = sync.NewCond(&pc.mu)
	return pc
}

// NewLockstepControl creates a control for a program advanced by Step.
func NewLockstepControl() *ProgramControl {
	pc := NewProgramControl()
	pc.lockstep = true
	return pc
}

// Start runs program on a new goroutine. A lockstep program does not begin
// until the first Step. Start must be called once.
func (pc *ProgramControl) Start(program func() error) {
	pc.mu.Lock()
	pc.started = true
	pc.mu.Unlock()

	go func() {
		var err error
		defer func() {
			pc.mu.Lock()
			pc.err = err
			pc.finished = true
			pc.parked = false
			pc.cond.Broadcast()
			pc.mu.Unlock()
			close(pc.done)
		}()
		if !pc.gate() {
			return
		}
		err = program()
	}()
}

// gate blocks the program goroutine while it may not run. It returns false
// once the program has been stopped.
func (pc *ProgramControl) gate() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	for !pc.stopped && (pc.paused || (pc.lockstep && pc.budget == 0)) {
		pc.parked = true
		pc.cond.Broadcast()
		pc.cond.Wait()
	}
	pc.parked = false
	if pc.stopped {
		return false
	}
	if pc.lockstep {
		pc.budget--
	}
	return true
}

// VBlank is called on the program goroutine at every vertical blank. It
// parks the program while paused or out of steps, and ends the goroutine
// once the program has been stopped, running its deferred calls.
func (pc *ProgramControl) VBlank() {
	pc.mu.Lock()
	pc.frames++
	pc.cond.Broadcast()
	pc.mu.Unlock()

	if !pc.gate() {
		runtime.Goexit()
	}
}

// Step lets a lockstep program run to its next vertical blank and waits for
// it to get there. It returns false when no frame was produced because the
// program has finished or was never started.
func (pc *ProgramControl) Step() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.started || pc.finished || pc.stopped {
		return false
	}
	start := pc.frames
	pc.budget++
	pc.cond.Broadcast()
	for pc.frames == start && !pc.finished {
		pc.cond.Wait()
	}
	return pc.frames != start
}

// Pause asks the program to park at its next vertical blank. It does not
// wait for the program to get there.
func (pc *ProgramControl) Pause() {
	pc.mu.Lock()
	pc.paused = true
	pc.mu.Unlock()
}

// Resume releases a paused program.
func (pc *ProgramControl) Resume() {
	pc.mu.Lock()
	pc.paused = false
	pc.cond.Broadcast()
	pc.mu.Unlock()
}

// IsPaused reports whether a pause has been requested.
func (pc *ProgramControl) IsPaused() bool {
	pc.mu.Lock()
	p := pc.paused
	pc.mu.Unlock()
	return p
}

// Parked reports whether the program goroutine is waiting at the gate.
func (pc *ProgramControl) Parked() bool {
	pc.mu.Lock()
	p := pc.parked
	pc.mu.Unlock()
	return p
}

// Stop ends the program at its next vertical blank, or right away if it is
// parked. Running returns false from now on.
func (pc *ProgramControl) Stop() {
	pc.mu.Lock()
	pc.stopped = true
	pc.cond.Broadcast()
	pc.mu.Unlock()
}

// Running reports whether the program should keep going. Programs use it as
// their loop condition.
func (pc *ProgramControl) Running() bool {
	pc.mu.Lock()
	r := !pc.stopped
	pc.mu.Unlock()
	return r
}

// Frames returns the number of vertical blanks the program has reached.
func (pc *ProgramControl) Frames() uint64 {
	pc.mu.Lock()
	n := pc.frames
	pc.mu.Unlock()
	return n
}

// Done is closed when the program goroutine has exited.
func (pc *ProgramControl) Done() <-chan struct{} {
	return pc.done
}

// Wait blocks until the program goroutine has exited and returns the error
// the program returned. A program ended by Stop returns nil.
func (pc *ProgramControl) Wait() error {
	<-pc.done
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.err
}
