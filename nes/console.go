package nes

import (
	"image"

	"github.com/55utah/fc-nes/mapper"
)

// Console wires a cartridge's CPU/PPU/APU/mapper together into one
// runnable machine.
type Console struct {
	CPU         *CPU
	PPU         *PPU
	APU         *APU
	Cartridge   *Cartridge
	Controller1 *Controller
	Controller2 *Controller
	Mapper      mapper.Mapper
	RAM         [2048]byte
}

// NewConsole loads path and assembles a ready-to-run machine.
func NewConsole(path string) (*Console, error) {
	cart, err := LoadCartridge(path)
	if err != nil {
		return nil, err
	}
	return newConsole(cart)
}

// NewConsoleFromImage is NewConsole without touching the filesystem, used
// by hosts that already have the ROM bytes (embedded test fixtures, a
// file picker that reads into memory first).
func NewConsoleFromImage(data []byte) (*Console, error) {
	cart, err := ParseCartridge(data)
	if err != nil {
		return nil, err
	}
	return newConsole(cart)
}

func newConsole(cart *Cartridge) (*Console, error) {
	m, err := mapper.New(cart.toMapperCartridge())
	if err != nil {
		return nil, &RomError{Kind: RomUnsupportedMapper, Reason: err.Error()}
	}

	console := &Console{
		Cartridge:   cart,
		Controller1: NewController(),
		Controller2: NewController(),
		Mapper:      m,
	}
	console.CPU = NewCPU(console)
	console.PPU = NewPPU(console)
	console.APU = NewAPU(console)
	return console, nil
}

func (console *Console) Reset() {
	console.CPU.Reset()
	console.PPU.Reset()
}

// Step advances the machine by one CPU instruction's worth of time,
// running the PPU three dots and the APU one cycle per CPU cycle.
func (console *Console) Step() int64 {
	cpuCycles := console.CPU.Step()
	for i := int64(0); i < cpuCycles*3; i++ {
		console.PPU.Step()
	}
	for i := int64(0); i < cpuCycles; i++ {
		console.APU.Step()
	}
	return cpuCycles
}

func (console *Console) StepSeconds(seconds float64) {
	cycles := int64(CPUFrequency * seconds)
	for cycles > 0 {
		cycles -= console.Step()
	}
}

// SetButtons1/2 take a bitmask built from the Button* constants, the same
// representation the Controller itself stores.
func (console *Console) SetButtons1(buttons byte) {
	console.Controller1.SetButtons(buttons)
}

func (console *Console) SetButtons2(buttons byte) {
	console.Controller2.SetButtons(buttons)
}

func (console *Console) Buffer() *image.RGBA {
	return console.PPU.front
}

// triggerOAMDMA performs the $4014 256-byte OAM copy and stalls the CPU
// for the 513 (or 514, on an odd CPU cycle) cycles real hardware spends
// with the bus held for the transfer.
func (console *Console) triggerOAMDMA(value byte) {
	console.PPU.writeDMA(value)
	cycles := 513
	if console.CPU.Cycles%2 == 1 {
		cycles = 514
	}
	console.CPU.stall += cycles
}
