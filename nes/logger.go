package nes

import (
	"log"
	"os"
)

// diag is the package-level diagnostic logger referenced by the ROM
// loader. It writes to stderr with a package prefix so host output
// (video/audio) never gets interleaved with it on stdout.
var diag = log.New(os.Stderr, "nes: ", log.LstdFlags)
