package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVBlankSetsStatusAndTriggersNMI checks that, with PPUCTRL bit 7 set,
// the first dot of scanline 241 sets PPUSTATUS bit 7 and schedules an NMI
// shortly after.
func TestVBlankSetsStatusAndTriggersNMI(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	ppu := console.PPU
	ppu.writeRegister(0x2000, 0x80) // PPUCTRL bit 7: generate NMI at vblank

	for !(ppu.ScanLine == 241 && ppu.Cycle == 1) {
		ppu.Step()
	}
	assert.True(t, ppu.nmiOccurred)

	fired := false
	for i := 0; i < 20; i++ {
		ppu.Step()
		if console.CPU.interrupt == interruptNMI {
			fired = true
			break
		}
	}
	assert.True(t, fired, "NMI should be pending shortly after vblank starts")
}

func TestFramebufferIs256x240EveryVblank(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	bounds := console.Buffer().Bounds()
	assert.Equal(t, 256, bounds.Dx())
	assert.Equal(t, 240, bounds.Dy())

	ppu := console.PPU
	for !(ppu.ScanLine == 241 && ppu.Cycle == 1) { // vblank start swaps front/back
		ppu.Step()
	}
	bounds = console.Buffer().Bounds()
	assert.Equal(t, 256, bounds.Dx())
	assert.Equal(t, 240, bounds.Dy())
}

// TestPPUSTATUSReadClearsVblankAndWriteToggle covers $2002's read side
// effects: it clears the vblank flag and resets the scroll/address write
// toggle.
func TestPPUSTATUSReadClearsVblankAndWriteToggle(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	ppu := console.PPU
	ppu.nmiOccurred = true
	ppu.w = 1

	status := ppu.readRegister(0x2002)
	assert.NotZero(t, status&0x80)
	assert.False(t, ppu.nmiOccurred)
	assert.EqualValues(t, 0, ppu.w)
}
