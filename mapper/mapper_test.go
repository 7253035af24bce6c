package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDispatchesKnownIDs(t *testing.T) {
	for _, id := range []byte{0, 1, 2, 3, 4, 5, 9} {
		cart := &Cartridge{PRG: make([]byte, 0x8000), CHR: make([]byte, 0x2000), MapperID: uint16(id)}
		m, err := New(cart)
		assert.NoError(t, err)
		assert.NotNil(t, m)
	}
}

func TestNewRejectsUnknownID(t *testing.T) {
	cart := &Cartridge{PRG: make([]byte, 0x8000), MapperID: 200}
	_, err := New(cart)
	assert.Error(t, err)
	var unsupported *UnsupportedMapperError
	assert.ErrorAs(t, err, &unsupported)
}

func TestMirrorAddressHorizontal(t *testing.T) {
	assert.EqualValues(t, 0x0000, MirrorAddress(MirrorHorizontal, 0x2000))
	assert.EqualValues(t, 0x0000, MirrorAddress(MirrorHorizontal, 0x2400))
	assert.EqualValues(t, 0x0400, MirrorAddress(MirrorHorizontal, 0x2800))
	assert.EqualValues(t, 0x0400, MirrorAddress(MirrorHorizontal, 0x2C00))
}

func TestMirrorAddressVertical(t *testing.T) {
	assert.EqualValues(t, 0x0000, MirrorAddress(MirrorVertical, 0x2000))
	assert.EqualValues(t, 0x0400, MirrorAddress(MirrorVertical, 0x2400))
	assert.EqualValues(t, 0x0000, MirrorAddress(MirrorVertical, 0x2800))
	assert.EqualValues(t, 0x0400, MirrorAddress(MirrorVertical, 0x2C00))
}

func TestMaskBankPowerOfTwoWraps(t *testing.T) {
	var logged bool
	assert.Equal(t, 1, maskBank(5, 4, &logged))
	assert.True(t, logged)
}

func TestMaskBankNonPowerOfTwoWraps(t *testing.T) {
	var logged bool
	assert.Equal(t, 2, maskBank(5, 3, &logged))
}

func TestNROMFixedLastBankAtC000(t *testing.T) {
	prg := make([]byte, 0x8000) // two 16 KiB banks
	prg[0x4000] = 0xEE
	cart := &Cartridge{PRG: prg, MapperID: 0}
	m := newNROM(cart)
	assert.EqualValues(t, 0xEE, m.CPURead(0xC000))
}

func TestCNROMSwitchesCHRBankOnAnyWrite(t *testing.T) {
	chr := make([]byte, 0x4000) // two 8 KiB banks
	for i := range chr[0x2000:] {
		chr[0x2000+i] = 0x7
	}
	cart := &Cartridge{PRG: make([]byte, 0x8000), CHR: chr, MapperID: 3}
	m := newCNROM(cart)
	assert.EqualValues(t, 0, m.PPURead(0x0000, PPUFetch{}))
	m.CPUWrite(0x8000, 1)
	assert.EqualValues(t, 0x7, m.PPURead(0x0000, PPUFetch{}))
}

func TestMMC1ControlSetsMirroringAndModes(t *testing.T) {
	cart := &Cartridge{PRG: make([]byte, 0x20000), CHR: make([]byte, 0x4000), MapperID: 1}
	m := newMMC1(cart)

	writeMMC1(m, 0x8000, 0x0F) // prgMode=3, chrMode=0, mirroring=horizontal
	assert.Equal(t, MirrorHorizontal, m.Mirroring())
	assert.EqualValues(t, 3, m.prgMode)
}

// writeMMC1 performs the five-bit serial load sequence real hardware
// requires to land a byte in an MMC1 register.
func writeMMC1(m *mmc1, addr uint16, value byte) {
	for i := 0; i < 5; i++ {
		m.CPUWrite(addr, (value>>uint(i))&1)
	}
}

func TestMMC3IRQFiresAfterCounterReachesZero(t *testing.T) {
	cart := &Cartridge{PRG: make([]byte, 0x8000*4), CHR: make([]byte, 0x2000*8), MapperID: 4}
	m := newMMC3(cart)
	m.CPUWrite(0xC000, 2) // IRQ latch = 2
	m.CPUWrite(0xC001, 0) // reload flag
	m.CPUWrite(0xE001, 0) // IRQ enable

	s := ScanlineState{Scanline: 0, Dot: 260, RenderingEnabled: true}
	assert.False(t, m.Step(s)) // reload to 2
	assert.False(t, m.Step(ScanlineState{Scanline: 1, Dot: 260, RenderingEnabled: true}))
	assert.True(t, m.Step(ScanlineState{Scanline: 2, Dot: 260, RenderingEnabled: true}))
}
