// Command standalone runs Lua video programs in the eblitui desktop
// frontend.
package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/gbatile/adapter"
)

func main() {
	scriptPath := flag.String("script", "", "path to a Lua program (opens UI if not provided)")
	flag.Parse()

	factory := &adapter.Factory{}

	if *scriptPath != "" {
		if err := standalone.RunDirect(factory, *scriptPath, "auto", map[string]string{}); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
