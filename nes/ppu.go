package nes

import (
	"image"

	"github.com/55utah/fc-nes/mapper"
)

// PPU renders the background and sprite layers and drives the NMI line.
// PPU-bus reads call into the mapper package directly, rather than
// through a plain address-only interface, so boards like MMC5 can see
// fetch context (nametable byte vs. attribute byte, sprite vs. background
// pattern) that a bare address can't carry.
type PPU struct {
	console *Console

	Cycle    int
	ScanLine int
	Frame    int

	paletteData [32]byte
	NameTable   [2048]byte
	oamData     [256]byte
	front       *image.RGBA
	back        *image.RGBA

	register byte

	nmiOccurred bool
	nmiOutput   bool
	nmiPrevious bool
	nmiDelay    byte

	v uint16 // current VRAM address, 15 bits
	t uint16 // temporary VRAM address, 15 bits
	x byte   // fine X scroll, 3 bits
	w byte   // first/second write toggle
	f byte

	nameTableByte      byte
	attributeTableByte byte
	lowTileByte        byte
	highTileByte       byte
	tileData           uint64

	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]byte
	spritePriorities [8]byte
	spriteIndexes    [8]byte

	// $2000 PPUCTRL
	flagNameTable       byte
	flagIncrement       byte
	flagSpriteTable     byte
	flagBackgroundTable byte
	flagSpriteSize      byte
	flagMasterSlave     byte

	// $2001 PPUMASK
	flagDisplayMode    byte
	flagShowLeftBack   byte
	flagShowLeftSprite byte
	flagShowBack       byte
	flagShowSprite     byte

	// $2002 PPUSTATUS
	flagSpriteOverflow byte
	flagSpriteZeroHit  byte

	oamAddress   byte
	bufferedData byte
}

func NewPPU(console *Console) *PPU {
	ppu := PPU{console: console}
	ppu.front = image.NewRGBA(image.Rect(0, 0, 256, 240))
	ppu.back = image.NewRGBA(image.Rect(0, 0, 256, 240))
	ppu.Reset()
	return &ppu
}

func (ppu *PPU) Reset() {
	ppu.flagNameTable = 0
	ppu.flagBackgroundTable = 0
	ppu.writeOAMAddr(0)
	ppu.Cycle = 340
	ppu.ScanLine = 240
	ppu.Frame = 0
}

func (ppu *PPU) tick() {
	if ppu.nmiDelay > 0 {
		ppu.nmiDelay--
		if ppu.nmiDelay == 0 && ppu.nmiOutput && ppu.nmiOccurred {
			ppu.console.CPU.TriggerNMI()
		}
	}

	if ppu.flagShowBack != 0 || ppu.flagShowSprite != 0 {
		if ppu.f == 1 && ppu.ScanLine == 261 && ppu.Cycle == 339 {
			ppu.Cycle = 0
			ppu.ScanLine = 0
			ppu.Frame++
			ppu.f ^= 1
			return
		}
	}
	ppu.Cycle++
	if ppu.Cycle > 340 {
		ppu.Cycle = 0
		ppu.ScanLine++
		if ppu.ScanLine > 261 {
			ppu.ScanLine = 0
			ppu.Frame++
			ppu.f ^= 1
		}
	}
}

// mapperScanline translates the internal 0..261 counter (pre-render line
// at 261) to the -1..260 convention the mapper package's ScanlineState
// uses, matching how nesdev documentation numbers the pre-render line.
func (ppu *PPU) mapperScanline() int {
	if ppu.ScanLine == 261 {
		return -1
	}
	return ppu.ScanLine
}

func (ppu *PPU) Step() {
	ppu.tick()

	renderEnable := ppu.flagShowBack > 0 || ppu.flagShowSprite > 0

	visibleLine := ppu.ScanLine >= 0 && ppu.ScanLine < 240
	preLine := ppu.ScanLine == 261
	renderLine := visibleLine || preLine

	visibleCycle := ppu.Cycle > 0 && ppu.Cycle <= 256
	preFetchCycle := ppu.Cycle >= 321 && ppu.Cycle <= 336
	fetchCycle := preFetchCycle || visibleCycle

	if renderEnable {
		if visibleLine && visibleCycle {
			ppu.renderPixel()
		}
		if renderLine && fetchCycle {
			ppu.tileData <<= 4
			switch ppu.Cycle % 8 {
			case 1:
				ppu.fetchNameTableByte()
			case 3:
				ppu.fetchAttributeTableByte()
			case 5:
				ppu.fetchLowTileByte()
			case 7:
				ppu.fetchHighTileByte()
			case 0:
				ppu.storeTileData()
			}
		}

		if preLine && ppu.Cycle >= 280 && ppu.Cycle <= 304 {
			ppu.copyY()
		}

		if renderLine {
			if fetchCycle && ppu.Cycle%8 == 0 {
				ppu.incrementX()
			}
			if ppu.Cycle == 256 {
				ppu.incrementY()
			}
			if ppu.Cycle == 257 {
				ppu.copyX()
			}
		}
	}

	if ppu.ScanLine == 241 && ppu.Cycle == 1 {
		ppu.setVBank()
	}

	if renderEnable {
		if ppu.Cycle == 257 {
			if visibleLine {
				ppu.evaluateSprites()
			} else {
				ppu.spriteCount = 0
			}
		}
	}

	if preLine && ppu.Cycle == 1 {
		ppu.clearVBank()
		ppu.flagSpriteZeroHit = 0
		ppu.flagSpriteOverflow = 0
	}

	if ppu.console.Mapper.Step(mapper.ScanlineState{
		Scanline:         ppu.mapperScanline(),
		Dot:              ppu.Cycle,
		RenderingEnabled: renderEnable,
	}) {
		ppu.console.CPU.TriggerIRQ()
	}
}

func (ppu *PPU) renderPixel() {
	x := ppu.Cycle - 1
	y := ppu.ScanLine

	background := ppu.backgroundPixel()
	i, sprite := ppu.spritePixel()

	if x < 8 && ppu.flagShowLeftBack == 0 {
		background = 0
	}
	if x < 8 && ppu.flagShowLeftSprite == 0 {
		sprite = 0
	}

	b := background%4 != 0
	s := sprite%4 != 0

	var color byte
	if !b && !s {
		color = 0
	} else if !b && s {
		color = sprite | 0x10
	} else if b && !s {
		color = background
	} else {
		if ppu.spriteIndexes[i] == 0 && x < 255 {
			ppu.flagSpriteZeroHit = 1
		}
		if ppu.spritePriorities[i] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	paletteIndex := ppu.ReadPalette(uint16(color) % 64)
	c := Palette[paletteIndex]

	ppu.back.SetRGBA(x, y, c)
}

func (ppu *PPU) spritePixel() (byte, byte) {
	if ppu.flagShowSprite == 0 {
		return 0, 0
	}
	for i := 0; i < ppu.spriteCount; i++ {
		x := ppu.spritePositions[i]
		offset := ppu.Cycle - 1 - int(x)
		if offset < 0 || offset > 7 {
			continue
		}
		offset = 7 - offset
		color := byte((ppu.spritePatterns[i] >> byte(offset*4)) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return byte(i), color
	}
	return 0, 0
}

func (ppu *PPU) evaluateSprites() {
	var h int
	if ppu.flagSpriteSize == 0 {
		h = 8
	} else {
		h = 16
	}

	count := 0
	for i := 0; i < 64; i++ {
		y := ppu.oamData[i*4+0]
		a := ppu.oamData[i*4+2]
		x := ppu.oamData[i*4+3]
		row := ppu.ScanLine - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			ppu.spritePatterns[count] = ppu.fetchSpritePattern(i, row)
			ppu.spritePositions[count] = x
			ppu.spritePriorities[count] = (a >> 5) & 1
			ppu.spriteIndexes[count] = byte(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		ppu.flagSpriteOverflow = 1
	}
	ppu.spriteCount = count
}

func (ppu *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := ppu.oamData[i*4+1]
	attribute := ppu.oamData[i*4+2]

	var address uint16
	if ppu.flagSpriteSize == 0 {
		if attribute&0x80 == 0x80 {
			row = 7 - row
		}
		table := ppu.flagSpriteTable
		address = 0x1000*uint16(table) + uint16(tile)*16 + uint16(row)
	} else {
		if attribute&0x80 == 0x80 {
			row = 15 - row
		}
		table := tile & 1
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = 0x1000*uint16(table) + uint16(tile)*16 + uint16(row)
	}

	lowTileByte := ppu.readBus(address, mapper.PPUFetch{Kind: mapper.FetchPatternLow, Sprite: true})
	highTileByte := ppu.readBus(address+8, mapper.PPUFetch{Kind: mapper.FetchPatternHigh, Sprite: true})

	high := (attribute & 3) << 2

	var data uint32
	for i := 0; i < 8; i++ {
		var p1, p2 byte
		if attribute&0x40 == 0x40 {
			p1 = (lowTileByte & 1) << 0
			p2 = (highTileByte & 1) << 1
			lowTileByte >>= 1
			highTileByte >>= 1
		} else {
			p1 = (lowTileByte & 0x80) >> 7
			p2 = (highTileByte & 0x80) >> 6
			lowTileByte <<= 1
			highTileByte <<= 1
		}
		data <<= 4
		data |= uint32(high | p1 | p2)
	}

	return data
}

func (ppu *PPU) backgroundPixel() byte {
	if ppu.flagShowBack == 0 {
		return 0
	}
	renderTileData := uint32(ppu.tileData >> 32)
	data := renderTileData >> ((7 - ppu.x) * 4)
	return byte(data & 0x0F)
}

func (ppu *PPU) fetchNameTableByte() {
	v := ppu.v
	address := 0x2000 | (v & 0x0fff)
	ppu.nameTableByte = ppu.readBus(address, mapper.PPUFetch{Kind: mapper.FetchNametableByte})
}

func (ppu *PPU) fetchAttributeTableByte() {
	v := ppu.v
	address := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	shift := ((v >> 4) & 4) | (v & 2)
	value := ppu.readBus(address, mapper.PPUFetch{Kind: mapper.FetchAttributeByte})
	ppu.attributeTableByte = ((value >> shift) & 3) << 2
}

func (ppu *PPU) copyX() {
	// v: ....A.. ...BCDEF <- t: ....A.. ...BCDEF
	ppu.v = (ppu.v & 0xfbe0) | (ppu.t & 0x41f)
}

func (ppu *PPU) copyY() {
	// v: GHIA.BC DEF..... <- t: GHIA.BC DEF.....
	ppu.v = (ppu.v & 0x841f) | (ppu.t & 0x7be0)
}

func (ppu *PPU) incrementX() {
	if (ppu.v & 0x001F) == 31 {
		ppu.v &= 0xFFE0
		ppu.v ^= 0x0400
	} else {
		ppu.v++
	}
}

func (ppu *PPU) incrementY() {
	v := ppu.v
	if v&0x7000 != 0x7000 {
		ppu.v += 0x1000
	} else {
		ppu.v &= 0x8fff
		y := (v & 0x03e0) >> 5
		if y == 29 {
			y = 0
			ppu.v ^= 0x0800
		} else if y == 31 {
			y = 0
		} else {
			y++
		}
		ppu.v = (ppu.v & 0xFC1F) | (y << 5)
	}
}

func (ppu *PPU) storeTileData() {
	var data uint32

	for i := 0; i < 8; i++ {
		a := ppu.attributeTableByte
		p1 := (ppu.lowTileByte & 0x80) >> 7
		p2 := (ppu.highTileByte & 0x80) >> 6
		ppu.lowTileByte <<= 1
		ppu.highTileByte <<= 1
		data <<= 4
		data |= uint32(a | p1 | p2)
	}
	ppu.tileData |= uint64(data)
}

func (ppu *PPU) fetchLowTileByte() {
	table := ppu.flagBackgroundTable
	tile := ppu.nameTableByte
	fineY := (ppu.v >> 12) & 7
	address := 0x1000*uint16(table) + uint16(tile)*16 + fineY
	ppu.lowTileByte = ppu.readBus(address, mapper.PPUFetch{Kind: mapper.FetchPatternLow})
}

func (ppu *PPU) fetchHighTileByte() {
	table := ppu.flagBackgroundTable
	tile := ppu.nameTableByte
	fineY := (ppu.v >> 12) & 7
	address := 0x1000*uint16(table) + uint16(tile)*16 + fineY
	ppu.highTileByte = ppu.readBus(address+8, mapper.PPUFetch{Kind: mapper.FetchPatternHigh})
}

func (ppu *PPU) setVBank() {
	ppu.front, ppu.back = ppu.back, ppu.front
	ppu.nmiOccurred = true
	ppu.nmiChange()
}

func (ppu *PPU) clearVBank() {
	ppu.nmiOccurred = false
	ppu.nmiChange()
}

func (ppu *PPU) readRegister(address uint16) byte {
	switch address {
	case 0x2002:
		return ppu.readStatus()
	case 0x2004:
		return ppu.readOAMData()
	case 0x2007:
		return ppu.readData()
	}
	return 0
}

// https://wiki.nesdev.org/w/index.php?title=PPU_registers
func (ppu *PPU) writeRegister(addr uint16, value byte) {
	ppu.register = value
	switch addr {
	case 0x2000:
		ppu.writeControl(value)
	case 0x2001:
		ppu.writeMask(value)
	case 0x2003:
		ppu.writeOAMAddr(value)
	case 0x2004:
		ppu.writeOAMData(value)
	case 0x2005:
		ppu.writeScroll(value)
	case 0x2006:
		ppu.writeAddress(value)
	case 0x2007:
		ppu.writeData(value)
	}
}

// writeDMA performs the 256-byte $4014 OAM copy; the CPU-cycle stall that
// accompanies it on real hardware is modeled by Console.triggerOAMDMA,
// the caller of this method.
func (ppu *PPU) writeDMA(value byte) {
	cpu := ppu.console.CPU
	address := uint16(value) << 8
	for i := 0; i < 256; i++ {
		ppu.oamData[ppu.oamAddress] = cpu.Read(address)
		ppu.oamAddress++
		address++
	}
}

func (ppu *PPU) readOAMData() byte {
	data := ppu.oamData[ppu.oamAddress]
	if (ppu.oamAddress & 0x03) == 0x02 {
		data = data & 0xE3
	}
	return data
}

func (ppu *PPU) writeOAMData(value byte) {
	ppu.oamData[ppu.oamAddress] = value
	ppu.oamAddress++
}

func (ppu *PPU) writeOAMAddr(value byte) {
	ppu.oamAddress = value
}

// $2005, written twice.
func (ppu *PPU) writeScroll(value byte) {
	if ppu.w == 0 {
		// t: ....... ...ABCDE <- d: ABCDE...
		// x:              FGH <- d: .....FGH
		ppu.t = (ppu.t & uint16(0xffe0)) | (uint16(value) >> 3)
		ppu.x = value & 0x7
		ppu.w = 1
	} else {
		// t: .CBA..HG FED..... = d: HGFEDCBA
		ppu.t = (ppu.t & 0x8FFF) | ((uint16(value) & 0x07) << 12)
		ppu.t = (ppu.t & 0xFC1F) | ((uint16(value) & 0xF8) << 2)
		ppu.w = 0
	}
}

// $2006, written twice.
func (ppu *PPU) writeAddress(value byte) {
	if ppu.w == 0 {
		// t: ..FEDCBA ........ = d: ..FEDCBA
		// t: .X...... ........ = 0
		ppu.t = (ppu.t & 0x80ff) | (uint16(value&0x3f) << 8)
		ppu.w = 1
	} else {
		// t: ....... ABCDEFGH <- d: ABCDEFGH
		// v: <...all bits...> <- t: <...all bits...>
		ppu.t = (ppu.t & uint16(0xff00)) | uint16(value)
		ppu.v = ppu.t
		ppu.w = 0
	}
}

// Read/Write give the CPU-facing $2007 register access to the same bus
// the internal fetch helpers use, just with generic fetch context.
func (ppu *PPU) Read(address uint16) byte {
	return ppu.readBus(address, mapper.PPUFetch{Kind: mapper.FetchGeneric})
}

func (ppu *PPU) Write(address uint16, value byte) {
	ppu.writeBus(address, value)
}

// $2007 PPUDATA read.
func (ppu *PPU) readData() byte {
	value := ppu.Read(ppu.v)
	if ppu.v%0x4000 < 0x3F00 {
		buffered := ppu.bufferedData
		ppu.bufferedData = value
		value = buffered
	} else {
		ppu.bufferedData = ppu.Read(ppu.v - 0x1000)
	}
	if ppu.flagIncrement == 0 {
		ppu.v += 1
	} else {
		ppu.v += 32
	}
	return value
}

// $2007 PPUDATA write.
func (ppu *PPU) writeData(value byte) {
	ppu.Write(ppu.v, value)
	if ppu.flagIncrement == 0 {
		ppu.v += 1
	} else {
		ppu.v += 32
	}
}

// $2002 PPUSTATUS read.
func (ppu *PPU) readStatus() byte {
	result := ppu.register & 0x1f
	result |= ppu.flagSpriteOverflow << 5
	result |= ppu.flagSpriteZeroHit << 6
	if ppu.nmiOccurred {
		result |= 1 << 7
	}
	ppu.nmiOccurred = false
	ppu.nmiChange()

	ppu.w = 0
	return result
}

func (ppu *PPU) writeMask(value byte) {
	ppu.flagDisplayMode = value & 1
	ppu.flagShowLeftBack = (value >> 1) & 1
	ppu.flagShowLeftSprite = (value >> 2) & 1
	ppu.flagShowBack = (value >> 3) & 1
	ppu.flagShowSprite = (value >> 4) & 1
	ppu.console.Mapper.NotifyPPUMask(value)
}

// https://github.com/dustpg/BlogFM/issues/15
func (ppu *PPU) writeControl(value byte) {
	ppu.flagNameTable = value & 0b11
	ppu.flagIncrement = (value >> 2) & 1
	ppu.flagSpriteTable = (value >> 3) & 1
	ppu.flagBackgroundTable = (value >> 4) & 1
	ppu.flagSpriteSize = (value >> 5) & 1
	ppu.flagMasterSlave = (value >> 6) & 1

	ppu.nmiOutput = (value>>7)&1 == 1
	ppu.nmiChange()

	// t: ....BA.. ........ = d: ......BA
	ppu.t = (ppu.t & uint16(0xf3ff)) | (uint16((value & 0x3)) << 10)

	ppu.console.Mapper.NotifyPPUCtrl(value)
}

func (ppu *PPU) ReadPalette(addr uint16) byte {
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}
	return ppu.paletteData[addr]
}

func (ppu *PPU) WritePalette(addr uint16, value byte) {
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}
	ppu.paletteData[addr] = value
}

func (ppu *PPU) nmiChange() {
	nmi := ppu.nmiOutput && ppu.nmiOccurred
	if nmi && !ppu.nmiPrevious {
		ppu.nmiDelay = 15
	}
	ppu.nmiPrevious = nmi
}

// readBus/writeBus resolve a PPU-bus address ($0000-$3FFF) to pattern
// data (always the mapper's call), nametable data (the mapper's call
// only when it claims extended nametable mapping, otherwise the PPU's
// own mirrored 2 KiB array via the mapper's Mirroring()), or palette RAM.
func (ppu *PPU) readBus(address uint16, fetch mapper.PPUFetch) byte {
	address %= 0x4000
	switch {
	case address < 0x2000:
		return ppu.console.Mapper.PPURead(address, fetch)
	case address < 0x3F00:
		if ppu.console.Mapper.HasExtendedNametableMapping() {
			return ppu.console.Mapper.PPURead(address, fetch)
		}
		mode := ppu.console.Mapper.Mirroring()
		return ppu.NameTable[mapper.MirrorAddress(mode, address)%2048]
	default:
		return ppu.ReadPalette((address - 0x3F00) % 32)
	}
}

func (ppu *PPU) writeBus(address uint16, value byte) {
	address %= 0x4000
	switch {
	case address < 0x2000:
		ppu.console.Mapper.PPUWrite(address, value)
	case address < 0x3F00:
		if ppu.console.Mapper.HasExtendedNametableMapping() {
			ppu.console.Mapper.PPUWrite(address, value)
			return
		}
		mode := ppu.console.Mapper.Mirroring()
		ppu.NameTable[mapper.MirrorAddress(mode, address)%2048] = value
	default:
		ppu.WritePalette((address-0x3F00)%32, value)
	}
}

// PPUState is the gob-encodable snapshot of everything Reset/Step mutate,
// including both framebuffers so a restored console redraws exactly what
// it last displayed until the next frame completes rather than a blank or
// partial image.
type PPUState struct {
	Cycle    int
	ScanLine int
	Frame    int

	PaletteData [32]byte
	NameTable   [2048]byte
	OAMData     [256]byte
	FrontPix    []byte
	BackPix     []byte

	Register byte

	NMIOccurred bool
	NMIOutput   bool
	NMIPrevious bool
	NMIDelay    byte

	V, T uint16
	X, W, F byte

	NameTableByte      byte
	AttributeTableByte byte
	LowTileByte        byte
	HighTileByte       byte
	TileData           uint64

	SpriteCount      int
	SpritePatterns   [8]uint32
	SpritePositions  [8]byte
	SpritePriorities [8]byte
	SpriteIndexes    [8]byte

	FlagNameTable       byte
	FlagIncrement       byte
	FlagSpriteTable     byte
	FlagBackgroundTable byte
	FlagSpriteSize      byte
	FlagMasterSlave     byte

	FlagDisplayMode    byte
	FlagShowLeftBack   byte
	FlagShowLeftSprite byte
	FlagShowBack       byte
	FlagShowSprite     byte

	FlagSpriteOverflow byte
	FlagSpriteZeroHit  byte

	OAMAddress   byte
	BufferedData byte
}

// Snapshot captures ppu's state for save-state round-tripping.
func (ppu *PPU) Snapshot() PPUState {
	frontPix := make([]byte, len(ppu.front.Pix))
	copy(frontPix, ppu.front.Pix)
	backPix := make([]byte, len(ppu.back.Pix))
	copy(backPix, ppu.back.Pix)
	return PPUState{
		Cycle:               ppu.Cycle,
		ScanLine:            ppu.ScanLine,
		Frame:               ppu.Frame,
		PaletteData:         ppu.paletteData,
		NameTable:           ppu.NameTable,
		OAMData:             ppu.oamData,
		FrontPix:            frontPix,
		BackPix:             backPix,
		Register:            ppu.register,
		NMIOccurred:         ppu.nmiOccurred,
		NMIOutput:           ppu.nmiOutput,
		NMIPrevious:         ppu.nmiPrevious,
		NMIDelay:            ppu.nmiDelay,
		V:                   ppu.v,
		T:                   ppu.t,
		X:                   ppu.x,
		W:                   ppu.w,
		F:                   ppu.f,
		NameTableByte:       ppu.nameTableByte,
		AttributeTableByte:  ppu.attributeTableByte,
		LowTileByte:         ppu.lowTileByte,
		HighTileByte:        ppu.highTileByte,
		TileData:            ppu.tileData,
		SpriteCount:         ppu.spriteCount,
		SpritePatterns:      ppu.spritePatterns,
		SpritePositions:     ppu.spritePositions,
		SpritePriorities:    ppu.spritePriorities,
		SpriteIndexes:       ppu.spriteIndexes,
		FlagNameTable:       ppu.flagNameTable,
		FlagIncrement:       ppu.flagIncrement,
		FlagSpriteTable:     ppu.flagSpriteTable,
		FlagBackgroundTable: ppu.flagBackgroundTable,
		FlagSpriteSize:      ppu.flagSpriteSize,
		FlagMasterSlave:     ppu.flagMasterSlave,
		FlagDisplayMode:     ppu.flagDisplayMode,
		FlagShowLeftBack:    ppu.flagShowLeftBack,
		FlagShowLeftSprite:  ppu.flagShowLeftSprite,
		FlagShowBack:        ppu.flagShowBack,
		FlagShowSprite:      ppu.flagShowSprite,
		FlagSpriteOverflow:  ppu.flagSpriteOverflow,
		FlagSpriteZeroHit:   ppu.flagSpriteZeroHit,
		OAMAddress:          ppu.oamAddress,
		BufferedData:        ppu.bufferedData,
	}
}

// Restore replaces ppu's mutable state with a previously captured Snapshot.
func (ppu *PPU) Restore(s PPUState) {
	ppu.Cycle = s.Cycle
	ppu.ScanLine = s.ScanLine
	ppu.Frame = s.Frame
	ppu.paletteData = s.PaletteData
	ppu.NameTable = s.NameTable
	ppu.oamData = s.OAMData
	if len(s.FrontPix) == len(ppu.front.Pix) {
		copy(ppu.front.Pix, s.FrontPix)
	}
	if len(s.BackPix) == len(ppu.back.Pix) {
		copy(ppu.back.Pix, s.BackPix)
	}
	ppu.register = s.Register
	ppu.nmiOccurred = s.NMIOccurred
	ppu.nmiOutput = s.NMIOutput
	ppu.nmiPrevious = s.NMIPrevious
	ppu.nmiDelay = s.NMIDelay
	ppu.v = s.V
	ppu.t = s.T
	ppu.x = s.X
	ppu.w = s.W
	ppu.f = s.F
	ppu.nameTableByte = s.NameTableByte
	ppu.attributeTableByte = s.AttributeTableByte
	ppu.lowTileByte = s.LowTileByte
	ppu.highTileByte = s.HighTileByte
	ppu.tileData = s.TileData
	ppu.spriteCount = s.SpriteCount
	ppu.spritePatterns = s.SpritePatterns
	ppu.spritePositions = s.SpritePositions
	ppu.spritePriorities = s.SpritePriorities
	ppu.spriteIndexes = s.SpriteIndexes
	ppu.flagNameTable = s.FlagNameTable
	ppu.flagIncrement = s.FlagIncrement
	ppu.flagSpriteTable = s.FlagSpriteTable
	ppu.flagBackgroundTable = s.FlagBackgroundTable
	ppu.flagSpriteSize = s.FlagSpriteSize
	ppu.flagMasterSlave = s.FlagMasterSlave
	ppu.flagDisplayMode = s.FlagDisplayMode
	ppu.flagShowLeftBack = s.FlagShowLeftBack
	ppu.flagShowLeftSprite = s.FlagShowLeftSprite
	ppu.flagShowBack = s.FlagShowBack
	ppu.flagShowSprite = s.FlagShowSprite
	ppu.flagSpriteOverflow = s.FlagSpriteOverflow
	ppu.flagSpriteZeroHit = s.FlagSpriteZeroHit
	ppu.oamAddress = s.OAMAddress
	ppu.bufferedData = s.BufferedData
}
