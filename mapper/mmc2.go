package mapper

// mmc2 implements mapper id 9: latch-driven CHR bank selection, the one
// board whose CHR bank switches itself as a side effect of the PPU simply
// reading a particular tile address (used by Punch-Out!! to swap in the
// boxer's face mid-tile-fetch, no CPU write involved). Built directly from
// the latch-address table, in the same Read/Write-switch style as the
// simpler mappers in this package.
type mmc2 struct {
	prg []byte
	chr []byte

	sram [0x2000]byte

	latch1, latch2 byte // 0 or 1

	prgBank byte // 4 low bits, 8 KiB window at $8000-$9FFF
	chr1A   byte // latch1==0 candidate for $0000-$0FFF
	chr1B   byte // latch1==1 candidate
	chr2A   byte // latch2==0 candidate for $1000-$1FFF
	chr2B   byte // latch2==1 candidate

	mirroring Mirroring
}

func newMMC2(cart *Cartridge) *mmc2 {
	chr := cart.CHR
	if len(chr) == 0 {
		chr = make([]byte, 0x2000)
	}
	return &mmc2{prg: cart.PRG, chr: chr, mirroring: cart.Mirroring}
}

func (m *mmc2) prgBankCount() int { return len(m.prg) / 0x2000 }
func (m *mmc2) chrBankCount() int { return len(m.chr) / 0x1000 }

func (m *mmc2) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xA000:
		// Fixed last 24 KiB: three 8 KiB banks counted from the end.
		count := m.prgBankCount()
		offset := int(addr - 0xA000)
		bank := count - 3 + int(offset/0x2000)
		return m.prg[bank*0x2000+offset%0x2000]
	case addr >= 0x8000:
		count := m.prgBankCount()
		var masked bool
		bank := maskBank(int(m.prgBank), count, &masked)
		return m.prg[bank*0x2000+int(addr-0x8000)]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		logUnmapped("cpu", addr)
		return 0
	}
}

func (m *mmc2) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0xF000:
		if value&1 != 0 {
			m.mirroring = MirrorHorizontal
		} else {
			m.mirroring = MirrorVertical
		}
	case addr >= 0xE000:
		m.chr2B = value & 0x1f
	case addr >= 0xD000:
		m.chr2A = value & 0x1f
	case addr >= 0xC000:
		m.chr1B = value & 0x1f
	case addr >= 0xB000:
		m.chr1A = value & 0x1f
	case addr >= 0xA000:
		m.prgBank = value & 0x0f
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	default:
		logUnmapped("cpu", addr)
	}
}

func (m *mmc2) chrBank1k(bank byte) int {
	count := m.chrBankCount()
	var masked bool
	return maskBank(int(bank), count, &masked)
}

func (m *mmc2) PPURead(addr uint16, fetch PPUFetch) byte {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return 0
	}

	var value byte
	if addr < 0x1000 {
		bank := m.chr1A
		if m.latch1 == 1 {
			bank = m.chr1B
		}
		value = m.chr[m.chrBank1k(bank)*0x1000+int(addr)]
	} else {
		off := addr - 0x1000
		bank := m.chr2A
		if m.latch2 == 1 {
			bank = m.chr2B
		}
		value = m.chr[m.chrBank1k(bank)*0x1000+int(off)]
	}

	// Latches update after the read returns, and only for generic/pattern
	// fetches that land exactly on the documented trigger tile addresses.
	_ = fetch
	switch addr {
	case 0x0FD8:
		m.latch1 = 0
	case 0x0FE8:
		m.latch1 = 1
	}
	if addr >= 0x1FD8 && addr <= 0x1FDF {
		m.latch2 = 0
	} else if addr >= 0x1FE8 && addr <= 0x1FEF {
		m.latch2 = 1
	}
	return value
}

func (m *mmc2) PPUWrite(addr uint16, value byte) {
	if addr >= 0x2000 {
		logUnmapped("ppu", addr)
		return
	}
	// MMC2's CHR is ROM on every real board; writes are dropped.
	_ = value
}

func (m *mmc2) Step(ScanlineState) bool           { return false }
func (m *mmc2) HasExtendedNametableMapping() bool { return false }
func (m *mmc2) Mirroring() Mirroring              { return m.mirroring }
func (m *mmc2) NotifyPPUCtrl(byte)                {}
func (m *mmc2) NotifyPPUMask(byte)                {}

func (m *mmc2) Snapshot() State {
	s := State{
		Kind:      9,
		Mirroring: m.mirroring,
		Latch1:    m.latch1,
		Latch2:    m.latch2,
		PRGReg:    m.prgBank,
		CHR1A:     m.chr1A,
		CHR1B:     m.chr1B,
		CHR2A:     m.chr2A,
		CHR2B:     m.chr2B,
	}
	s.SRAM = append(s.SRAM, m.sram[:]...)
	return s
}

func (m *mmc2) Restore(s State) {
	m.mirroring = s.Mirroring
	m.latch1 = s.Latch1
	m.latch2 = s.Latch2
	m.prgBank = s.PRGReg
	m.chr1A = s.CHR1A
	m.chr1B = s.CHR1B
	m.chr2A = s.CHR2A
	m.chr2B = s.CHR2B
	copy(m.sram[:], s.SRAM)
}
