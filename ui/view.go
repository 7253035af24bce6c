package ui

import (
	"time"

	"github.com/55utah/fc-nes/nes"
)

var stop bool
var timestamp time.Time

// RunView drives the console at wall-clock speed by feeding it the real
// elapsed time between ticks, rather than a fixed per-frame cycle budget,
// so a slow host frame doesn't desync audio from video.
func RunView(console *nes.Console) {
	timestamp = time.Now()
	for !stop {
		RunStep(console)
	}
}

func RunStep(console *nes.Console) {
	now := time.Now()
	console.StepSeconds(now.Sub(timestamp).Seconds())
	timestamp = now
}
