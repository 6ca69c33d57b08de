// Package scene holds demo programs that drive the video layer. Each scene
// sets up the display and then loops once per frame until told to stop.
package scene

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/user-none/gbatile/video"
)

// Scene is a runnable demo program.
type Scene struct {
	Name        string
	Description string

	// Run sets up the display and loops, one iteration per vertical blank,
	// while running returns true.
	Run func(v *video.Video, rng *rand.Rand, running func() bool) error
}

var registry = map[string]Scene{}

func register(s Scene) {
	registry[s.Name] = s
}

// ByName returns the named scene.
func ByName(name string) (Scene, error) {
	s, ok := registry[name]
	if !ok {
		return Scene{}, fmt.Errorf("unknown scene %q (have %v)", name, Names())
	}
	return s, nil
}

// Names returns every registered scene name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Frames returns a running func that allows n frames, then stops.
func Frames(n int) func() bool {
	return func() bool {
		n--
		return n >= 0
	}
}
