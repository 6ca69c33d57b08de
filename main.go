package main

import (
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/gbatile/cli"
	"github.com/user-none/gbatile/emu"
	"github.com/user-none/gbatile/scene"
	"github.com/user-none/gbatile/script"
	"github.com/user-none/gbatile/video"
)

func main() {
	sceneName := flag.String("scene", "textmap", "demo scene: "+strings.Join(scene.Names(), ", "))
	scriptPath := flag.String("script", "", "path to a Lua script (overrides -scene)")
	scale := flag.Int("scale", 3, "initial window scale")
	seed := flag.Int64("seed", 0, "random seed for scenes (0 uses the clock)")
	flag.Parse()

	if *scale < 1 {
		log.Fatalf("Invalid scale: %d", *scale)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var program cli.Program
	title := emu.Name
	if *scriptPath != "" {
		path := *scriptPath
		program = func(v *video.Video, running func() bool) error {
			return script.Run(v, path, running)
		}
		title += " - " + path
	} else {
		s, err := scene.ByName(*sceneName)
		if err != nil {
			log.Fatal(err)
		}
		rng := rand.New(rand.NewSource(*seed))
		program = func(v *video.Video, running func() bool) error {
			return s.Run(v, rng, running)
		}
		title += " - " + s.Name
	}

	table := video.AGB
	runner, err := cli.NewRunner(&table, program)
	if err != nil {
		log.Fatalf("Failed to initialize video: %v", err)
	}

	ebiten.SetWindowSize(emu.ScreenWidth*(*scale), emu.ScreenHeight*(*scale))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cli.FPS)

	runErr := ebiten.RunGame(runner)
	if err := runner.Close(); err != nil {
		log.Printf("Program error: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
