package mapper

// cnrom implements mapper id 3: fixed 16 or 32 KiB PRG (no PRG banking at
// all) and a single switchable 8 KiB CHR bank, selected by any CPU write
// to $8000-$FFFF (only the low 2 bits normally matter, but boards vary in
// how many bits they decode, so the full byte is masked against the bank
// count like every other board in this package). Built from the
// nesdev-documented CNROM register in the same style as the sibling NROM
// file.
type cnrom struct {
	cart     *Cartridge
	chr      []byte
	sram     [0x2000]byte
	prgBanks int
	chrBank  int
	masked   bool
}

func newCNROM(cart *Cartridge) *cnrom {
	chr := cart.CHR
	if len(chr) == 0 {
		chr = make([]byte, 0x2000)
	}
	return &cnrom{
		cart:     cart,
		chr:      chr,
		prgBanks: len(cart.PRG) / 0x4000,
	}
}

func (m *cnrom) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000:
		offset := int(addr-0x8000) % len(m.cart.PRG)
		return m.cart.PRG[offset]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		logUnmapped("cpu", addr)
		return 0
	}
}

func (m *cnrom) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000:
		count := len(m.chr) / 0x2000
		m.chrBank = maskBank(int(value), count, &m.masked)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	default:
		logUnmapped("cpu", addr)
	}
}

func (m *cnrom) PPURead(addr uint16, _ PPUFetch) byte {
	if addr < 0x2000 {
		return m.chr[m.chrBank*0x2000+int(addr)]
	}
	logUnmapped("ppu", addr)
	return 0
}

func (m *cnrom) PPUWrite(addr uint16, value byte) {
	if addr < 0x2000 {
		m.chr[m.chrBank*0x2000+int(addr)] = value
		return
	}
	logUnmapped("ppu", addr)
}

func (m *cnrom) Step(ScanlineState) bool           { return false }
func (m *cnrom) HasExtendedNametableMapping() bool { return false }
func (m *cnrom) Mirroring() Mirroring              { return m.cart.Mirroring }
func (m *cnrom) NotifyPPUCtrl(byte)                {}
func (m *cnrom) NotifyPPUMask(byte)                {}

func (m *cnrom) Snapshot() State {
	s := State{Kind: 3, Mirroring: m.cart.Mirroring, CHRBank: m.chrBank}
	s.SRAM = append(s.SRAM, m.sram[:]...)
	return s
}

func (m *cnrom) Restore(s State) {
	m.chrBank = s.CHRBank
	copy(m.sram[:], s.SRAM)
}
