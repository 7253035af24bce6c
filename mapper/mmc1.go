package mapper

// mmc1 implements mapper id 1: a 5-bit serial shift register loaded one
// bit per $8000-$FFFF write, dispatched to one of four internal registers
// once the fifth bit arrives.
type mmc1 struct {
	prg []byte
	chr []byte

	sram [0x2000]byte

	shiftRegister byte
	ctrlRegister  byte
	prgMode       byte
	chrMode       byte
	chrBank0      byte
	chrBank1      byte
	prgBank       byte

	prgOffsets [2]int
	chrOffsets [2]int

	mirroring Mirroring
}

func newMMC1(cart *Cartridge) *mmc1 {
	chr := cart.CHR
	if len(chr) == 0 {
		chr = make([]byte, 0x2000)
	}
	m := &mmc1{
		prg:           cart.PRG,
		chr:           chr,
		shiftRegister: 0x10,
		mirroring:     cart.Mirroring,
	}
	m.prgOffsets[1] = m.getPrgOffset(-1)
	return m
}

func (m *mmc1) writeRegister(addr uint16, value byte) {
	switch {
	case addr <= 0x9fff:
		m.writeControl(value)
	case addr <= 0xbfff:
		m.writeCHRBank0(value)
	case addr <= 0xdfff:
		m.writeCHRBank1(value)
	default:
		m.writePRGBank(value)
	}
}

func (m *mmc1) writeControl(value byte) {
	m.ctrlRegister = value
	m.prgMode = (value >> 2) & 0x3
	m.chrMode = (value >> 4) & 1
	switch value & 0x3 {
	case 0:
		m.mirroring = MirrorSingle0
	case 1:
		m.mirroring = MirrorSingle1
	case 2:
		m.mirroring = MirrorVertical
	case 3:
		m.mirroring = MirrorHorizontal
	}
	m.updateOffsets()
}

func (m *mmc1) writeCHRBank0(value byte) {
	m.chrBank0 = value
	m.updateOffsets()
}

func (m *mmc1) writeCHRBank1(value byte) {
	m.chrBank1 = value
	m.updateOffsets()
}

func (m *mmc1) writePRGBank(value byte) {
	m.prgBank = value & 0x0f
	m.updateOffsets()
}

func (m *mmc1) loadRegister(addr uint16, value byte) {
	if value&0x80 == 0x80 {
		m.shiftRegister = 0x10
		m.writeControl(m.ctrlRegister | 0x0c)
		return
	}
	complete := m.shiftRegister&1 == 1
	m.shiftRegister |= (value & 1) << 5
	m.shiftRegister >>= 1
	if complete {
		m.writeRegister(addr, m.shiftRegister)
		m.shiftRegister = 0x10
	}
}

func (m *mmc1) getPrgOffset(value int) int {
	if value >= 0x80 {
		value -= 0x100
	}
	count := len(m.prg) / 0x4000
	offset := (value % count) * 0x4000
	if offset < 0 {
		offset += len(m.prg)
	}
	return offset
}

func (m *mmc1) getChrOffset(value int) int {
	if value >= 0x80 {
		value -= 0x100
	}
	count := len(m.chr) / 0x1000
	if count == 0 {
		return 0
	}
	offset := (value % count) * 0x1000
	if offset < 0 {
		offset += len(m.chr)
	}
	return offset
}

func (m *mmc1) updateOffsets() {
	switch m.prgMode {
	case 0, 1:
		m.prgOffsets[0] = m.getPrgOffset(int(m.prgBank & 0xFE))
		m.prgOffsets[1] = m.getPrgOffset(int(m.prgBank | 0x01))
	case 2:
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = m.getPrgOffset(int(m.prgBank))
	case 3:
		m.prgOffsets[0] = m.getPrgOffset(int(m.prgBank))
		m.prgOffsets[1] = m.getPrgOffset(-1)
	}
	switch m.chrMode {
	case 0:
		m.chrOffsets[0] = m.getChrOffset(int(m.chrBank0 & 0xFE))
		m.chrOffsets[1] = m.getChrOffset(int(m.chrBank0 | 0x01))
	case 1:
		m.chrOffsets[0] = m.getChrOffset(int(m.chrBank0))
		m.chrOffsets[1] = m.getChrOffset(int(m.chrBank1))
	}
}

func (m *mmc1) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000:
		addr -= 0x8000
		bank := addr / 0x4000
		offset := addr % 0x4000
		return m.prg[m.prgOffsets[bank]+int(offset)]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		logUnmapped("cpu", addr)
		return 0
	}
}

func (m *mmc1) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000:
		m.loadRegister(addr, value)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	default:
		logUnmapped("cpu", addr)
	}
}

func (m *mmc1) PPURead(addr uint16, _ PPUFetch) byte {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return 0
	}
	bank := addr / 0x1000
	offset := addr % 0x1000
	return m.chr[m.chrOffsets[bank]+int(offset)]
}

func (m *mmc1) PPUWrite(addr uint16, value byte) {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return
	}
	bank := addr / 0x1000
	offset := addr % 0x1000
	m.chr[m.chrOffsets[bank]+int(offset)] = value
}

func (m *mmc1) Step(ScanlineState) bool           { return false }
func (m *mmc1) HasExtendedNametableMapping() bool { return false }
func (m *mmc1) Mirroring() Mirroring              { return m.mirroring }
func (m *mmc1) NotifyPPUCtrl(byte)                {}
func (m *mmc1) NotifyPPUMask(byte)                {}

func (m *mmc1) Snapshot() State {
	s := State{
		Kind:          1,
		Mirroring:     m.mirroring,
		ShiftRegister: m.shiftRegister,
		CtrlRegister:  m.ctrlRegister,
		PRGMode:       m.prgMode,
		CHRMode:       m.chrMode,
		CHRBank0:      m.chrBank0,
		CHRBank1:      m.chrBank1,
		PRGBankReg:    m.prgBank,
	}
	s.SRAM = append(s.SRAM, m.sram[:]...)
	return s
}

func (m *mmc1) Restore(s State) {
	m.mirroring = s.Mirroring
	m.shiftRegister = s.ShiftRegister
	m.ctrlRegister = s.CtrlRegister
	m.prgMode = s.PRGMode
	m.chrMode = s.CHRMode
	m.chrBank0 = s.CHRBank0
	m.chrBank1 = s.CHRBank1
	m.prgBank = s.PRGBankReg
	copy(m.sram[:], s.SRAM)
	m.updateOffsets()
}
