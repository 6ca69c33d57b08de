package scene

import (
	"math/rand"

	"github.com/user-none/gbatile/video"
)

func init() {
	register(Scene{
		Name:        "sweep",
		Description: "mode 4 page-flipped bitmap with a sweeping line",
		Run:         runSweep,
	})
}

// Sweep draws a vertical line that moves one column per frame across the
// mode 4 bitmap, inverting the colors each time it wraps.
type Sweep struct {
	Display *video.BitmapDisplay
	Col     int
	Color   uint8
}

// SetupSweep sets a black and white palette, enters mode 4 and shows a
// greeting.
func SetupSweep(v *video.Video) (*Sweep, error) {
	v.SetBGColor(0, video.Color555(255, 255, 255))
	v.SetBGColor(1, video.Color555(0, 0, 0))

	d := v.Mode4()
	d.Init()
	d.Canvas.Text("Hello World", 16, 16, 1)
	if err := d.Show(); err != nil {
		return nil, err
	}
	return &Sweep{Display: d, Color: 1}, nil
}

// Step draws the next frame into the canvas without showing it.
func (s *Sweep) Step() {
	c := s.Display.Canvas
	c.Fill(1 - s.Color)
	c.Text("SWEEP", 16, 16, s.Color)
	c.VLine(s.Col, 0, video.ScreenHeight, s.Color)

	s.Col++
	if s.Col >= video.ScreenWidth {
		s.Col = 0
		s.Color = 1 - s.Color
	}
}

func runSweep(v *video.Video, _ *rand.Rand, running func() bool) error {
	s, err := SetupSweep(v)
	if err != nil {
		return err
	}
	for running() {
		s.Step()
		if err := s.Display.Show(); err != nil {
			return err
		}
	}
	return nil
}
