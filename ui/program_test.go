package ui

import (
	"errors"
	"testing"
	"time"
)

func TestSharedFramebuffer_UpdateRead(t *testing.T) {
	sf := NewSharedFramebuffer()
	if _, _, h := sf.Read(); h != 0 {
		t.Errorf("expected empty framebuffer, got height %d", h)
	}

	pixels := make([]byte, 240*160*4)
	pixels[0] = 0x11
	pixels[len(pixels)-1] = 0x22
	sf.Update(pixels, 240*4, 160)

	got, stride, height := sf.Read()
	if stride != 960 || height != 160 {
		t.Errorf("expected 960x160, got %dx%d", stride, height)
	}
	if got[0] != 0x11 || got[len(pixels)-1] != 0x22 {
		t.Error("expected pixels copied")
	}
	if sf.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", sf.Frames())
	}

	// The snapshot is independent of later updates.
	pixels[0] = 0x33
	sf.Update(pixels, 240*4, 160)
	if got[0] != 0x11 {
		t.Error("expected snapshot unchanged until next Read")
	}
}

func TestSharedFramebuffer_ClampsOversize(t *testing.T) {
	sf := NewSharedFramebuffer()
	sf.Update(make([]byte, 16), 240*4, 160)
	if _, _, h := sf.Read(); h != 160 {
		t.Errorf("expected height recorded, got %d", h)
	}
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// loopProgram calls VBlank forever, like a program that loops on Show
// without checking running.
func loopProgram(pc *ProgramControl) func() error {
	return func() error {
		for {
			pc.VBlank()
		}
	}
}

func TestProgramControl_StopUnwindsProgramThatNeverPolls(t *testing.T) {
	pc := NewProgramControl()
	cleaned := make(chan struct{})
	pc.Start(func() error {
		defer close(cleaned)
		return loopProgram(pc)()
	})
	waitFor(t, "frames", func() bool { return pc.Frames() > 3 })

	pc.Stop()
	select {
	case <-pc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("program did not stop")
	}
	select {
	case <-cleaned:
	default:
		t.Error("expected program defers to run")
	}
	if err := pc.Wait(); err != nil {
		t.Errorf("expected nil error after stop, got %v", err)
	}
	if pc.Running() {
		t.Error("expected Running false after Stop")
	}
}

func TestProgramControl_PauseParksAtVBlank(t *testing.T) {
	pc := NewProgramControl()
	pc.Start(loopProgram(pc))
	waitFor(t, "frames", func() bool { return pc.Frames() > 0 })

	pc.Pause()
	if !pc.IsPaused() {
		t.Error("expected IsPaused after Pause")
	}
	waitFor(t, "park", pc.Parked)
	n := pc.Frames()
	time.Sleep(20 * time.Millisecond)
	if pc.Frames() != n {
		t.Errorf("expected no frames while paused, got %d more", pc.Frames()-n)
	}

	pc.Resume()
	waitFor(t, "resume", func() bool { return pc.Frames() > n })

	pc.Stop()
	if err := pc.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestProgramControl_PauseAfterExitDoesNotBlock(t *testing.T) {
	pc := NewProgramControl()
	pc.Start(func() error { return nil })
	<-pc.Done()

	returned := make(chan struct{})
	go func() {
		pc.Pause()
		pc.Resume()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Pause blocked after the program exited")
	}
}

func TestProgramControl_StopWhilePaused(t *testing.T) {
	pc := NewProgramControl()
	pc.Start(loopProgram(pc))
	pc.Pause()
	waitFor(t, "park", pc.Parked)

	pc.Stop()
	select {
	case <-pc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("paused program did not stop")
	}
}

func TestProgramControl_ReturnsProgramError(t *testing.T) {
	pc := NewProgramControl()
	want := errors.New("boom")
	pc.Start(func() error { return want })
	if err := pc.Wait(); err != want {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestProgramControl_LockstepStep(t *testing.T) {
	pc := NewLockstepControl()
	var ran int
	pc.Start(func() error {
		for i := 0; i < 3; i++ {
			ran++
			pc.VBlank()
		}
		return nil
	})

	time.Sleep(10 * time.Millisecond)
	if pc.Frames() != 0 {
		t.Fatal("expected lockstep program to wait for the first Step")
	}

	for i := 1; i <= 3; i++ {
		if !pc.Step() {
			t.Fatalf("step %d: expected a frame", i)
		}
		if pc.Frames() != uint64(i) || ran != i {
			t.Errorf("step %d: expected %d frames, got %d (ran %d)", i, i, pc.Frames(), ran)
		}
	}
	// The fourth step lets the program return without another frame.
	if pc.Step() {
		t.Error("expected no frame once the program returns")
	}
	if pc.Step() {
		t.Error("expected Step to refuse a finished program")
	}
}

func TestProgramControl_StopBeforeFirstStep(t *testing.T) {
	pc := NewLockstepControl()
	called := false
	pc.Start(func() error {
		called = true
		return nil
	})
	pc.Stop()
	pc.Wait()
	if called {
		t.Error("expected program never to run")
	}
	if pc.Step() {
		t.Error("expected Step to refuse a stopped program")
	}
}
