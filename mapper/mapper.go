// Package mapper implements cartridge-side address translation: the CPU
// and PPU address-decoder logic that varies per board (NROM, MMC1, CNROM,
// MMC3, MMC2, MMC5). A Mapper never references the console, CPU, or PPU
// directly — it is handed raw PRG/CHR bytes at construction and is polled
// once per PPU dot for an IRQ request, which keeps the package free of the
// import cycle a back-reference to the owning console would create.
package mapper

import (
	"fmt"
	"log"
)

// Mirroring selects how the PPU's four logical 1 KiB nametables are
// projected onto the PPU's 2 KiB of physical VRAM.
type Mirroring int

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingle0
	MirrorSingle1
	MirrorFourScreen
)

// mirrorLookup maps (mirroring mode, logical nametable index 0-3) to a
// physical page index 0-1 (or 0-3 for four-screen). The PPU's nametable
// array is 2 KiB, so four-screen pages 2-3 fold back onto pages 0-1.
var mirrorLookup = [5][4]uint16{
	{0, 0, 1, 1}, // horizontal
	{0, 1, 0, 1}, // vertical
	{0, 0, 0, 0}, // single-screen, page 0
	{1, 1, 1, 1}, // single-screen, page 1
	{0, 1, 2, 3}, // four-screen
}

// MirrorAddress resolves a PPU nametable address ($2000-$2FFF) to an
// offset into 2 KiB (or, for four-screen, 4 KiB) of physical VRAM.
func MirrorAddress(mode Mirroring, addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400
	return mirrorLookup[mode][table]*0x0400 + offset
}

// FetchKind tells a mapper why the PPU is reading a given PPU-bus address,
// so MMC5-style mappers can answer correctly without inferring intent from
// the address alone (fill-mode nametable bytes vs. fill-mode attribute
// bytes look identical as addresses but must return different values).
type FetchKind int

const (
	FetchGeneric FetchKind = iota // CPU access via $2007, or save-state probing
	FetchNametableByte
	FetchAttributeByte
	FetchPatternLow
	FetchPatternHigh
)

// PPUFetch carries the fetch context described above, plus whether the
// pattern-table fetch is for a sprite (vs. background) tile — the detail
// MMC5's 8x16-sprite CHR-set switch needs.
type PPUFetch struct {
	Kind   FetchKind
	Sprite bool
}

// ScanlineState is handed to Step once per PPU dot.
type ScanlineState struct {
	Scanline         int // -1 (pre-render) .. 260
	Dot              int // 0 .. 340
	RenderingEnabled bool
}

// Mapper is the address-decode contract every cartridge board implements.
type Mapper interface {
	CPURead(addr uint16) byte
	CPUWrite(addr uint16, value byte)
	PPURead(addr uint16, fetch PPUFetch) byte
	PPUWrite(addr uint16, value byte)

	// Step is called once per PPU dot and returns whether the mapper's
	// IRQ line is currently asserted.
	Step(s ScanlineState) bool

	// HasExtendedNametableMapping reports whether $2000-$2FFF PPU
	// accesses must be routed through PPURead/PPUWrite directly instead
	// of the PPU's own mirrored 2 KiB nametable array.
	HasExtendedNametableMapping() bool

	// Mirroring is consulted by the PPU when HasExtendedNametableMapping
	// is false.
	Mirroring() Mirroring

	// NotifyPPUCtrl/NotifyPPUMask let a mapper shadow $2000/$2001 without
	// those writes ever reaching PPURead/PPUWrite (they are PPU-internal
	// registers, not PPU-bus addresses).
	NotifyPPUCtrl(value byte)
	NotifyPPUMask(value byte)

	Snapshot() State
	Restore(State)
}

// UnsupportedMapperError is returned by New when the cartridge names a
// mapper id this package has no implementation for.
type UnsupportedMapperError struct{ ID uint16 }

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("mapper: unsupported mapper id %d", e.ID)
}

// Cartridge is the immutable PRG/CHR/mirroring data a Mapper banks over.
// It mirrors nes.Cartridge's fields rather than importing the nes package,
// again to keep this package free of the cycle.
type Cartridge struct {
	PRG         []byte
	CHR         []byte // empty means 8 KiB of CHR-RAM
	Mirroring   Mirroring
	HasBattery  bool
	MapperID    uint16
	SubmapperID byte
}

// New constructs the concrete mapper named by cart.MapperID.
func New(cart *Cartridge) (Mapper, error) {
	switch cart.MapperID {
	case 0, 2:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 3:
		return newCNROM(cart), nil
	case 4:
		return newMMC3(cart), nil
	case 9:
		return newMMC2(cart), nil
	case 5:
		return newMMC5(cart), nil
	default:
		return nil, &UnsupportedMapperError{ID: cart.MapperID}
	}
}

// maskBank clamps a bank index into [0, count), masking with (count-1)
// when count is a power of two and falling back to modulo otherwise.
// logged is an in/out per-mapper-instance flag so the diagnostic only
// fires once.
func maskBank(index, count int, logged *bool) int {
	if count <= 0 {
		return 0
	}
	if index < 0 || index >= count {
		if logged != nil && !*logged {
			log.Printf("mapper: bank index %d out of range (count=%d), masking", index, count)
			*logged = true
		}
	}
	if count&(count-1) == 0 {
		return index & (count - 1)
	}
	m := index % count
	if m < 0 {
		m += count
	}
	return m
}

func logUnmapped(side string, addr uint16) {
	log.Printf("mapper: unmapped %s address $%04X", side, addr)
}
