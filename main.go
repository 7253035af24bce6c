// Command fc-nes runs the emulator core against a ROM file in a desktop
// window, optionally restoring a save state before it starts.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/55utah/fc-nes/nes"
	"github.com/55utah/fc-nes/ui"
)

func main() {
	statePath := flag.String("state", "", "optional save state to restore before running")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: fc-nes [-state save.bin] <rom.nes>")
	}
	romPath := flag.Arg(0)

	console, err := nes.NewConsole(romPath)
	if err != nil {
		log.Fatalf("loading %s: %v", romPath, err)
	}

	if *statePath != "" {
		data, err := os.ReadFile(*statePath)
		if err != nil {
			log.Fatalf("reading save state %s: %v", *statePath, err)
		}
		state, err := nes.DecodeSaveState(data)
		if err != nil {
			log.Printf("save state %s: %v, starting cold", *statePath, err)
		} else if err := console.Restore(state); err != nil {
			log.Printf("restoring %s: %v, starting cold", *statePath, err)
		}
	}

	ui.OpenWindow(console)
}
