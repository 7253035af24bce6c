package mapper

// mmc3 implements mapper id 4: eight bank registers selected by a bank-
// select/bank-data register pair at $8000/$8001, plus a scanline counter
// clocked from PPU A12 rising edges, approximated per the nesdev wiki as
// "once per scanline, at the dot where the sprite pattern fetches begin".
type mmc3 struct {
	prg []byte
	chr []byte

	sram [0x2000]byte

	regIndex byte
	registers [8]byte
	prgMode   byte
	chrMode   byte

	irqLatch      byte
	irqCounter    byte
	irqEnable     bool
	irqReloadFlag bool
	irqPending    bool

	prgOffsets [4]int
	chrOffsets [8]int

	mirroring Mirroring
}

func newMMC3(cart *Cartridge) *mmc3 {
	chr := cart.CHR
	if len(chr) == 0 {
		chr = make([]byte, 0x2000)
	}
	m := &mmc3{prg: cart.PRG, chr: chr, mirroring: cart.Mirroring}
	m.prgOffsets[0] = m.getPrgOffset(0)
	m.prgOffsets[1] = m.getPrgOffset(1)
	m.prgOffsets[2] = m.getPrgOffset(-2)
	m.prgOffsets[3] = m.getPrgOffset(-1)
	return m
}

func (m *mmc3) getPrgOffset(value int) int {
	if value >= 0x80 {
		value -= 0x100
	}
	count := len(m.prg) / 0x2000
	offset := (value % count) * 0x2000
	if offset < 0 {
		offset += len(m.prg)
	}
	return offset
}

func (m *mmc3) getChrOffset(value int) int {
	if value >= 0x80 {
		value -= 0x100
	}
	count := len(m.chr) / 0x400
	if count == 0 {
		return 0
	}
	offset := (value % count) * 0x400
	if offset < 0 {
		offset += len(m.chr)
	}
	return offset
}

func (m *mmc3) setBankSelect(value byte) {
	m.regIndex = value & 7
	m.prgMode = (value >> 6) & 1
	m.chrMode = (value >> 7) & 1
	m.calculateBank()
}

func (m *mmc3) setBankData(value byte) {
	m.registers[m.regIndex] = value
	m.calculateBank()
}

func (m *mmc3) setMirroring(value byte) {
	if value&1 != 0 {
		m.mirroring = MirrorHorizontal
	} else {
		m.mirroring = MirrorVertical
	}
}

func (m *mmc3) writeRegister(addr uint16, value byte) {
	even := addr%2 == 0
	switch {
	case addr <= 0x9fff && even:
		m.setBankSelect(value)
	case addr <= 0x9fff:
		m.setBankData(value)
	case addr <= 0xbfff && even:
		m.setMirroring(value)
	case addr <= 0xbfff:
		// PRG-RAM write protect, not modeled.
	case addr <= 0xdfff && even:
		m.irqLatch = value
	case addr <= 0xdfff:
		m.irqCounter = 0
		m.irqReloadFlag = true
	case even:
		m.irqEnable = false
		m.irqPending = false
	default:
		m.irqEnable = true
	}
}

func (m *mmc3) calculateBank() {
	if m.prgMode == 0 {
		m.prgOffsets[0] = m.getPrgOffset(int(m.registers[6]))
		m.prgOffsets[1] = m.getPrgOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.getPrgOffset(-2)
		m.prgOffsets[3] = m.getPrgOffset(-1)
	} else {
		m.prgOffsets[0] = m.getPrgOffset(-2)
		m.prgOffsets[1] = m.getPrgOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.getPrgOffset(int(m.registers[6]))
		m.prgOffsets[3] = m.getPrgOffset(-1)
	}

	if m.chrMode == 0 {
		m.chrOffsets[0] = m.getChrOffset(int(m.registers[0]) & 0xFE)
		m.chrOffsets[1] = m.getChrOffset(int(m.registers[0]) | 0x01)
		m.chrOffsets[2] = m.getChrOffset(int(m.registers[1]) & 0xFE)
		m.chrOffsets[3] = m.getChrOffset(int(m.registers[1]) | 0x01)
		m.chrOffsets[4] = m.getChrOffset(int(m.registers[2]))
		m.chrOffsets[5] = m.getChrOffset(int(m.registers[3]))
		m.chrOffsets[6] = m.getChrOffset(int(m.registers[4]))
		m.chrOffsets[7] = m.getChrOffset(int(m.registers[5]))
	} else {
		m.chrOffsets[0] = m.getChrOffset(int(m.registers[2]))
		m.chrOffsets[1] = m.getChrOffset(int(m.registers[3]))
		m.chrOffsets[2] = m.getChrOffset(int(m.registers[4]))
		m.chrOffsets[3] = m.getChrOffset(int(m.registers[5]))
		m.chrOffsets[4] = m.getChrOffset(int(m.registers[0]) & 0xFE)
		m.chrOffsets[5] = m.getChrOffset(int(m.registers[0]) | 0x01)
		m.chrOffsets[6] = m.getChrOffset(int(m.registers[1]) & 0xFE)
		m.chrOffsets[7] = m.getChrOffset(int(m.registers[1]) | 0x01)
	}
}

func (m *mmc3) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000:
		addr -= 0x8000
		bank := addr / 0x2000
		offset := addr % 0x2000
		return m.prg[m.prgOffsets[bank]+int(offset)]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		logUnmapped("cpu", addr)
		return 0
	}
}

func (m *mmc3) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000:
		m.writeRegister(addr, value)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	default:
		logUnmapped("cpu", addr)
	}
}

func (m *mmc3) PPURead(addr uint16, _ PPUFetch) byte {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return 0
	}
	bank := addr / 0x400
	offset := addr % 0x400
	return m.chr[m.chrOffsets[bank]+int(offset)]
}

func (m *mmc3) PPUWrite(addr uint16, value byte) {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return
	}
	bank := addr / 0x400
	offset := addr % 0x400
	m.chr[m.chrOffsets[bank]+int(offset)] = value
}

// Step approximates the A12 rising-edge clock at PPU dot 260 of each
// visible/pre-render scanline while rendering is on, per the nesdev
// wiki's "simplest correct implementation" note.
func (m *mmc3) Step(s ScanlineState) bool {
	if s.RenderingEnabled && s.Scanline >= -1 && s.Scanline <= 239 && s.Dot == 260 {
		m.clockIRQCounter()
	}
	return m.irqPending
}

func (m *mmc3) clockIRQCounter() {
	if m.irqCounter == 0 || m.irqReloadFlag {
		m.irqCounter = m.irqLatch
		m.irqReloadFlag = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnable {
		m.irqPending = true
	}
}

func (m *mmc3) HasExtendedNametableMapping() bool { return false }
func (m *mmc3) Mirroring() Mirroring              { return m.mirroring }
func (m *mmc3) NotifyPPUCtrl(byte)                {}
func (m *mmc3) NotifyPPUMask(byte)                {}

func (m *mmc3) Snapshot() State {
	s := State{
		Kind:            4,
		Mirroring:       m.mirroring,
		BankSelectIndex: m.regIndex,
		Registers:       m.registers,
		IRQLatch:        m.irqLatch,
		IRQCounter:      m.irqCounter,
		IRQEnable:       m.irqEnable,
		IRQReloadFlag:   m.irqReloadFlag,
		PRGMode:         m.prgMode,
		CHRMode:         m.chrMode,
	}
	s.SRAM = append(s.SRAM, m.sram[:]...)
	return s
}

func (m *mmc3) Restore(s State) {
	m.mirroring = s.Mirroring
	m.regIndex = s.BankSelectIndex
	m.registers = s.Registers
	m.irqLatch = s.IRQLatch
	m.irqCounter = s.IRQCounter
	m.irqEnable = s.IRQEnable
	m.irqReloadFlag = s.IRQReloadFlag
	m.prgMode = s.PRGMode
	m.chrMode = s.CHRMode
	copy(m.sram[:], s.SRAM)
	m.calculateBank()
}
