package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMMC5Fixture() *mmc5 {
	cart := &Cartridge{
		PRG:      make([]byte, 0x20000),
		CHR:      make([]byte, 0x20000),
		MapperID: 5,
	}
	return newMMC5(cart)
}

func TestMMC5ScanlineIRQFiresAtCompare(t *testing.T) {
	m := newMMC5Fixture()
	m.CPUWrite(0x5203, 20)
	m.CPUWrite(0x5204, 0x80) // enable

	for scanline := 0; scanline < 20; scanline++ {
		assert.False(t, m.Step(ScanlineState{Scanline: scanline, Dot: 0, RenderingEnabled: true}))
	}
	assert.True(t, m.Step(ScanlineState{Scanline: 20, Dot: 0, RenderingEnabled: true}))
}

func TestMMC5IRQDisabledNeverFires(t *testing.T) {
	m := newMMC5Fixture()
	m.CPUWrite(0x5203, 5)
	// $5204 never written: irqEnable stays false.
	irq := m.Step(ScanlineState{Scanline: 5, Dot: 0, RenderingEnabled: true})
	assert.False(t, irq)
}

func TestMMC5ReadingStatusClearsPending(t *testing.T) {
	m := newMMC5Fixture()
	m.CPUWrite(0x5203, 1)
	m.CPUWrite(0x5204, 0x80)
	m.Step(ScanlineState{Scanline: 1, Dot: 0, RenderingEnabled: true})
	assert.True(t, m.pendingIRQ)

	status := m.CPURead(0x5204)
	assert.NotZero(t, status&0x80)
	assert.False(t, m.pendingIRQ)
}

func TestMMC5FillModeNametable(t *testing.T) {
	m := newMMC5Fixture()
	m.CPUWrite(0x5106, 0x42)
	m.CPUWrite(0x5107, 0x3)
	m.CPUWrite(0x5105, 0xFF) // all four tables -> fill mode (0b11 each)

	tile := m.PPURead(0x2000, PPUFetch{Kind: FetchNametableByte})
	assert.EqualValues(t, 0x42, tile)

	attr := m.PPURead(0x23C0, PPUFetch{Kind: FetchAttributeByte})
	assert.EqualValues(t, 0xFF, attr)
}

func TestMMC5Sprite8x16DetectionFollowsCtrlAndMask(t *testing.T) {
	m := newMMC5Fixture()
	m.NotifyPPUCtrl(0x20) // bit 5 set: 8x16 sprites
	m.NotifyPPUMask(0x00) // rendering off
	assert.False(t, m.sprite8x16)

	m.NotifyPPUMask(0x08) // background rendering on
	assert.True(t, m.sprite8x16)
}

func TestMMC5SRAMWriteProtectGatesWrites(t *testing.T) {
	m := newMMC5Fixture()
	m.CPUWrite(0x6000, 0xAA)
	assert.EqualValues(t, 0, m.CPURead(0x6000))

	m.CPUWrite(0x5102, 0x2)
	m.CPUWrite(0x5103, 0x1)
	m.CPUWrite(0x6000, 0xAA)
	assert.EqualValues(t, 0xAA, m.CPURead(0x6000))
}
