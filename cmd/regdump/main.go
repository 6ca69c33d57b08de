// Command regdump runs a scene or script headless for a number of frames,
// then prints the video registers and optionally saves the last frame.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/user-none/gbatile/emu"
	"github.com/user-none/gbatile/inspect"
	"github.com/user-none/gbatile/scene"
	"github.com/user-none/gbatile/script"
	"github.com/user-none/gbatile/video"
)

func main() {
	sceneName := flag.String("scene", "textmap", "demo scene: "+strings.Join(scene.Names(), ", "))
	scriptPath := flag.String("script", "", "path to a Lua script (overrides -scene)")
	frames := flag.Int("frames", 60, "number of frames to run")
	pngPath := flag.String("png", "", "write the last frame to this PNG file")
	seed := flag.Int64("seed", 1, "random seed for scenes")
	colorMode := flag.String("color", "auto", "styled output: auto, always, or never")
	load := flag.Bool("load", true, "read registers back from hardware before printing (write-only registers print their shadow)")
	flag.Parse()

	var styled bool
	switch *colorMode {
	case "auto":
		styled = term.IsTerminal(int(os.Stdout.Fd()))
	case "always":
		styled = true
	case "never":
	default:
		log.Fatalf("Invalid color mode: %s (use auto, always, or never)", *colorMode)
	}

	m := emu.NewMachine()
	table := video.AGB
	v, err := video.New(m, &table)
	if err != nil {
		log.Fatalf("Failed to initialize video: %v", err)
	}

	running := scene.Frames(*frames)
	if *scriptPath != "" {
		err = script.Run(v, *scriptPath, running)
	} else {
		var s scene.Scene
		s, err = scene.ByName(*sceneName)
		if err != nil {
			log.Fatal(err)
		}
		err = s.Run(v, rand.New(rand.NewSource(*seed)), running)
	}
	if err != nil {
		log.Fatalf("Program failed: %v", err)
	}

	styles := inspect.PlainStyles()
	if styled {
		styles = inspect.NewStyles()
	}
	d := inspect.NewDumper(os.Stdout, styles)
	d.Load = *load
	if err := d.Registers(v.Registers()); err != nil {
		log.Fatal(err)
	}

	w16, w32 := m.Writes()
	fmt.Printf("frames=%d writes16=%d writes32=%d\n", m.Frames(), w16, w32)

	if *pngPath != "" {
		if err := writePNG(*pngPath, m); err != nil {
			log.Fatalf("Failed to write PNG: %v", err)
		}
	}
}

func writePNG(path string, m *emu.Machine) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m.Render()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
