package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOAMDMAStall checks that writing $4014 queues a CPU stall of 513
// (even-aligned) or 514 (odd-aligned) cycles.
func TestOAMDMAStall(t *testing.T) {
	console := newTestConsole([]byte{0xEA, 0xEA}) // CPU.Cycles is set directly below to pick the alignment
	console.CPU.Cycles = 0
	console.triggerOAMDMA(0x02)
	assert.EqualValues(t, 513, console.CPU.stall)

	console.CPU.stall = 0
	console.CPU.Cycles = 1 // odd
	console.triggerOAMDMA(0x02)
	assert.EqualValues(t, 514, console.CPU.stall)
}

func TestOAMDMACopiesPageIntoOAM(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	for i := 0; i < 256; i++ {
		console.RAM[0x0200+i] = byte(i)
	}
	console.triggerOAMDMA(0x02)
	for i := 0; i < 256; i++ {
		assert.EqualValues(t, byte(i), console.PPU.oamData[i])
	}
}

func TestControllerRoundTripsButtonBitmask(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	console.SetButtons1(ButtonA | ButtonRight)

	console.Controller1.Write(1) // strobe on: latches, always reads bit 0
	assert.EqualValues(t, 1, console.Controller1.Read())
	console.Controller1.Write(0) // strobe off: shifts through the latch

	assert.EqualValues(t, 1, console.Controller1.Read()) // A
	for i := 0; i < 5; i++ {
		console.Controller1.Read() // B, Select, Start, Up, Down
	}
	assert.EqualValues(t, 0, console.Controller1.Read()) // Left
	assert.EqualValues(t, 1, console.Controller1.Read()) // Right
}
