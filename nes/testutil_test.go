package nes

// buildNROM assembles a minimal single-16KiB-PRG-bank, single-8KiB-CHR
// iNES image with the given program placed at the start of PRG (mapped to
// $8000) and the reset vector pointed at it, so tests can drive the real
// bus/CPU/PPU/mapper stack without needing an external ROM fixture.
func buildNROM(program []byte) []byte {
	prg := make([]byte, 0x4000)
	copy(prg, program)
	// Reset vector -> $8000 (offset 0 of this bank).
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	// NMI vector -> $8100, IRQ/BRK vector -> $8200, distinct so tests can
	// tell which one fired.
	prg[0x3FFA] = 0x00
	prg[0x3FFB] = 0x81
	prg[0x3FFE] = 0x00
	prg[0x3FFF] = 0x82

	chr := make([]byte, 0x2000)

	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append(append([]byte{}, header...), prg...)
	data = append(data, chr...)
	return data
}

func newTestConsole(program []byte) *Console {
	console, err := NewConsoleFromImage(buildNROM(program))
	if err != nil {
		panic(err)
	}
	return console
}
