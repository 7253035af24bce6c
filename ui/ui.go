// Package ui hosts the fyne window, key mapping, and portaudio playback
// that sit outside the emulation core. It only ever calls the exported
// Console surface.
package ui

import (
	"image"
	"time"

	"fyne.io/fyne"
	"fyne.io/fyne/app"
	"fyne.io/fyne/canvas"
	"fyne.io/fyne/driver/desktop"

	"github.com/55utah/fc-nes/nes"
)

// keyParse maps a fyne key name to a button bit index into the
// Button*-ordered layout controller.go documents, or -1 for keys the pad
// doesn't use.
func keyParse(ev *fyne.KeyEvent) int {
	switch ev.Name {
	case "J":
		return 0 // A
	case "K":
		return 1 // B
	case "U":
		return 2 // Select
	case "I":
		return 3 // Start
	case "W":
		return 4 // Up
	case "S":
		return 5 // Down
	case "A":
		return 6 // Left
	case "D":
		return 7 // Right
	}
	return -1
}

var ctrl1 byte

// OpenWindow creates the fyne window, starts the emulation and audio
// goroutines, and blocks running the event loop until the window closes.
func OpenWindow(console *nes.Console) {
	const scale = 2

	myApp := app.New()
	w := myApp.NewWindow("fc-nes")
	w.Resize(fyne.NewSize(256*scale, 240*scale))
	myCanvas := w.Canvas()

	go RunView(console)

	audio := NewAudio()
	go audio.RunAudio(console)

	if deskCanvas, ok := myCanvas.(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if index := keyParse(ev); index >= 0 {
				ctrl1 |= 1 << uint(index)
				console.SetButtons1(ctrl1)
			}
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if index := keyParse(ev); index >= 0 {
				ctrl1 &^= 1 << uint(index)
				console.SetButtons1(ctrl1)
			}
		})
	}

	go changeContent(myCanvas, func() image.Image {
		return Resize(console.Buffer(), 256, 240, scale)
	})

	w.ShowAndRun()
}

func changeContent(can fyne.Canvas, getFrame func() image.Image) {
	for {
		// approximates a 60fps refresh without pacing off vsync
		time.Sleep(time.Millisecond * 16)
		can.SetContent(canvas.NewImageFromImage(getFrame()))
	}
}
