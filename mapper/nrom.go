package mapper

// nrom implements mapper ids 0 (NROM) and 2 (UNROM-style): no CHR
// banking (NROM has none; UNROM's CHR is always CHR-RAM, fixed), and a
// single switchable 16 KiB PRG window at $8000 with the last 16 KiB fixed
// at $C000. NROM boards never write the bank register, so the one piece
// of mutable state is harmless to share between the two ids.
type nrom struct {
	cart     *Cartridge
	chr      []byte
	sram     [0x2000]byte
	prgBanks int
	prgBank  int
	masked   bool
}

func newNROM(cart *Cartridge) *nrom {
	chr := cart.CHR
	if len(chr) == 0 {
		chr = make([]byte, 0x2000)
	}
	return &nrom{
		cart:     cart,
		chr:      chr,
		prgBanks: len(cart.PRG) / 0x4000,
	}
}

func (m *nrom) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xC000:
		last := m.prgBanks - 1
		return m.cart.PRG[last*0x4000+int(addr-0xC000)]
	case addr >= 0x8000:
		bank := maskBank(m.prgBank, m.prgBanks, &m.masked)
		return m.cart.PRG[bank*0x4000+int(addr-0x8000)]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		logUnmapped("cpu", addr)
		return 0
	}
}

func (m *nrom) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000:
		m.prgBank = int(value)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	default:
		logUnmapped("cpu", addr)
	}
}

func (m *nrom) PPURead(addr uint16, _ PPUFetch) byte {
	if addr < 0x2000 {
		return m.chr[addr]
	}
	logUnmapped("ppu", addr)
	return 0
}

func (m *nrom) PPUWrite(addr uint16, value byte) {
	if addr < 0x2000 {
		m.chr[addr] = value
		return
	}
	logUnmapped("ppu", addr)
}

func (m *nrom) Step(ScanlineState) bool                  { return false }
func (m *nrom) HasExtendedNametableMapping() bool        { return false }
func (m *nrom) Mirroring() Mirroring                     { return m.cart.Mirroring }
func (m *nrom) NotifyPPUCtrl(byte)                       {}
func (m *nrom) NotifyPPUMask(byte)                       {}

func (m *nrom) Snapshot() State {
	s := State{Kind: byte(m.cart.MapperID), Mirroring: m.cart.Mirroring, PRGBank: m.prgBank}
	s.SRAM = append(s.SRAM, m.sram[:]...)
	return s
}

func (m *nrom) Restore(s State) {
	m.prgBank = s.PRGBank
	copy(m.sram[:], s.SRAM)
}
