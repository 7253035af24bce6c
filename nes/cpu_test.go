package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCPUInstructionCycleAccounting checks that after each instruction
// the cycle counter advances by exactly its documented cost.
func TestCPUInstructionCycleAccounting(t *testing.T) {
	console := newTestConsole([]byte{
		0xA9, 0x05, // LDA #$05      (2 cycles)
		0x85, 0x10, // STA $10       (3 cycles)
		0xA6, 0x10, // LDX $10       (3 cycles)
		0xEA,       // NOP           (2 cycles)
	})
	cpu := console.CPU

	c := cpu.Step()
	assert.EqualValues(t, 2, c)
	assert.EqualValues(t, 0x05, cpu.A)

	c = cpu.Step()
	assert.EqualValues(t, 3, c)
	assert.EqualValues(t, 0x05, cpu.Memory.Read(0x10))

	c = cpu.Step()
	assert.EqualValues(t, 3, c)
	assert.EqualValues(t, 0x05, cpu.X)

	c = cpu.Step()
	assert.EqualValues(t, 2, c)
}

// TestConsoleStepAdvancesPPUThreeXAndAPUOnceX is the Console-level half of
// property 1: PPU dots and APU cycles track 3c/c against the CPU's c.
func TestConsoleStepAdvancesPPUThreeXAndAPUOnceX(t *testing.T) {
	console := newTestConsole([]byte{0xEA}) // NOP, 2 cycles
	startDot, startLine := console.PPU.Cycle, console.PPU.ScanLine
	startAPUCycle := console.APU.cycle

	cycles := console.Step()
	assert.EqualValues(t, 2, cycles)

	dotsAdvanced := (console.PPU.ScanLine-startLine)*341 + (console.PPU.Cycle - startDot)
	assert.EqualValues(t, 3*cycles, dotsAdvanced)
	assert.EqualValues(t, uint64(cycles), console.APU.cycle-startAPUCycle)
}

func TestCPUResetSetsProgramCounterFromVector(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	assert.EqualValues(t, 0x8000, console.CPU.PC)
}

func TestTriggerIRQRespectsInterruptDisableFlag(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	console.CPU.I = 1
	console.CPU.TriggerIRQ()
	assert.EqualValues(t, interruptNone, console.CPU.interrupt)

	console.CPU.I = 0
	console.CPU.TriggerIRQ()
	assert.EqualValues(t, interruptIRQ, console.CPU.interrupt)
}

// TestNMITakesPriorityOverLaterIRQ guards the fix in TriggerIRQ: an IRQ
// raised after an NMI is already pending must not clobber the NMI, since
// NMI is non-maskable and higher priority.
func TestNMITakesPriorityOverLaterIRQ(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	console.CPU.I = 0
	console.CPU.TriggerNMI()
	console.CPU.TriggerIRQ()
	assert.EqualValues(t, interruptNMI, console.CPU.interrupt)

	console.CPU.Step()
	assert.EqualValues(t, 0x8100, console.CPU.PC) // serviced via the NMI vector
}

func TestIRQVectorsToIRQHandler(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	console.CPU.I = 0
	console.CPU.TriggerIRQ()
	c := console.CPU.Step()
	assert.EqualValues(t, 7, c)
	assert.EqualValues(t, 0x8200, console.CPU.PC)
}
