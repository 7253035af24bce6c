package nes

import (
	"fmt"
)

// Interrupt vectors, two bytes each.
const (
	NMI   = 0xfffa
	RESET = 0xfffc
	IRQ   = 0xfffe
	BRK   = 0xfffe
)

const CPUFrequency = 1789773

const (
	interruptNone = iota
	interruptNMI
	interruptIRQ
)

// Addressing modes.
const (
	_ = iota
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeAccumulator
	modeImmediate
	modeImplied
	modeIndexedIndirect
	modeIndirect
	modeIndirectIndexed
	modeRelative
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
)

var instructionModes = [256]byte{
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	1, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 8, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 13, 13, 6, 3, 6, 3, 2, 2, 3, 3,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 13, 13, 6, 3, 6, 3, 2, 2, 3, 3,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
}

var instructionSizes = [256]byte{
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	3, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	1, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	1, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 0, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 0, 3, 0, 0,
	2, 2, 2, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
}

var instructionCycles = [256]byte{
	7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
}

var instructionPageCycles = [256]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
}

var instructionNames = [256]string{
	"BRK", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO",
	"PHP", "ORA", "ASL", "ANC", "NOP", "ORA", "ASL", "SLO",
	"BPL", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO",
	"CLC", "ORA", "NOP", "SLO", "NOP", "ORA", "ASL", "SLO",
	"JSR", "AND", "KIL", "RLA", "BIT", "AND", "ROL", "RLA",
	"PLP", "AND", "ROL", "ANC", "BIT", "AND", "ROL", "RLA",
	"BMI", "AND", "KIL", "RLA", "NOP", "AND", "ROL", "RLA",
	"SEC", "AND", "NOP", "RLA", "NOP", "AND", "ROL", "RLA",
	"RTI", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE",
	"PHA", "EOR", "LSR", "ALR", "JMP", "EOR", "LSR", "SRE",
	"BVC", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE",
	"CLI", "EOR", "NOP", "SRE", "NOP", "EOR", "LSR", "SRE",
	"RTS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA",
	"PLA", "ADC", "ROR", "ARR", "JMP", "ADC", "ROR", "RRA",
	"BVS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA",
	"SEI", "ADC", "NOP", "RRA", "NOP", "ADC", "ROR", "RRA",
	"NOP", "STA", "NOP", "SAX", "STY", "STA", "STX", "SAX",
	"DEY", "NOP", "TXA", "XAA", "STY", "STA", "STX", "SAX",
	"BCC", "STA", "KIL", "AHX", "STY", "STA", "STX", "SAX",
	"TYA", "STA", "TXS", "TAS", "SHY", "STA", "SHX", "AHX",
	"LDY", "LDA", "LDX", "LAX", "LDY", "LDA", "LDX", "LAX",
	"TAY", "LDA", "TAX", "LAX", "LDY", "LDA", "LDX", "LAX",
	"BCS", "LDA", "KIL", "LAX", "LDY", "LDA", "LDX", "LAX",
	"CLV", "LDA", "TSX", "LAS", "LDY", "LDA", "LDX", "LAX",
	"CPY", "CMP", "NOP", "DCP", "CPY", "CMP", "DEC", "DCP",
	"INY", "CMP", "DEX", "AXS", "CPY", "CMP", "DEC", "DCP",
	"BNE", "CMP", "KIL", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CLD", "CMP", "NOP", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CPX", "SBC", "NOP", "ISC", "CPX", "SBC", "INC", "ISC",
	"INX", "SBC", "NOP", "SBC", "CPX", "SBC", "INC", "ISC",
	"BEQ", "SBC", "KIL", "ISC", "NOP", "SBC", "INC", "ISC",
	"SED", "SBC", "NOP", "ISC", "NOP", "SBC", "INC", "ISC",
}

func (cpu *CPU) createTable() {
	cpu.table = [256]func(*stepInfo){
		cpu.brk, cpu.ora, cpu.kil, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.php, cpu.ora, cpu.asl, cpu.anc, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.bpl, cpu.ora, cpu.kil, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.clc, cpu.ora, cpu.nop, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.jsr, cpu.and, cpu.kil, cpu.rla, cpu.bit, cpu.and, cpu.rol, cpu.rla,
		cpu.plp, cpu.and, cpu.rol, cpu.anc, cpu.bit, cpu.and, cpu.rol, cpu.rla,
		cpu.bmi, cpu.and, cpu.kil, cpu.rla, cpu.nop, cpu.and, cpu.rol, cpu.rla,
		cpu.sec, cpu.and, cpu.nop, cpu.rla, cpu.nop, cpu.and, cpu.rol, cpu.rla,
		cpu.rti, cpu.eor, cpu.kil, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.pha, cpu.eor, cpu.lsr, cpu.alr, cpu.jmp, cpu.eor, cpu.lsr, cpu.sre,
		cpu.bvc, cpu.eor, cpu.kil, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.cli, cpu.eor, cpu.nop, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.rts, cpu.adc, cpu.kil, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.pla, cpu.adc, cpu.ror, cpu.arr, cpu.jmp, cpu.adc, cpu.ror, cpu.rra,
		cpu.bvs, cpu.adc, cpu.kil, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.sei, cpu.adc, cpu.nop, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.nop, cpu.sta, cpu.nop, cpu.sax, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.dey, cpu.nop, cpu.txa, cpu.xaa, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.bcc, cpu.sta, cpu.kil, cpu.ahx, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.tya, cpu.sta, cpu.txs, cpu.tas, cpu.shy, cpu.sta, cpu.shx, cpu.ahx,
		cpu.ldy, cpu.lda, cpu.ldx, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.tay, cpu.lda, cpu.tax, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.bcs, cpu.lda, cpu.kil, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.clv, cpu.lda, cpu.tsx, cpu.las, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.cpy, cpu.cmp, cpu.nop, cpu.dcp, cpu.cpy, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.iny, cpu.cmp, cpu.dex, cpu.axs, cpu.cpy, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.bne, cpu.cmp, cpu.kil, cpu.dcp, cpu.nop, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.cld, cpu.cmp, cpu.nop, cpu.dcp, cpu.nop, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.cpx, cpu.sbc, cpu.nop, cpu.isc, cpu.cpx, cpu.sbc, cpu.inc, cpu.isc,
		cpu.inx, cpu.sbc, cpu.nop, cpu.sbc, cpu.cpx, cpu.sbc, cpu.inc, cpu.isc,
		cpu.beq, cpu.sbc, cpu.kil, cpu.isc, cpu.nop, cpu.sbc, cpu.inc, cpu.isc,
		cpu.sed, cpu.sbc, cpu.nop, cpu.isc, cpu.nop, cpu.sbc, cpu.inc, cpu.isc,
	}
}

func NewCPU(console *Console) *CPU {
	cpu := CPU{Memory: NewCPUMemory(console)}
	cpu.createTable()
	cpu.Reset()
	return &cpu
}

type CPU struct {
	Memory
	Cycles    uint64
	PC        uint16
	SP        byte
	A         byte
	X         byte
	Y         byte
	C         byte // carry
	Z         byte // zero
	I         byte // interrupt disable
	D         byte // decimal, unused on the NES 6502
	B         byte // break
	U         byte // unused
	V         byte // overflow
	N         byte // negative
	interrupt byte
	table     [256]func(*stepInfo)
	stall     int // cycles left to idle, set by OAMDMA/DMC bus grabs
}

type stepInfo struct {
	address uint16
	pc      uint16
	mode    byte
}

func (cpu *CPU) Read16(addr uint16) uint16 {
	low := cpu.Read(addr)
	high := cpu.Read(addr + 1)
	return (uint16(high) << 8) | uint16(low)
}

// read16bug reproduces the 6502's indirect-JMP page-wrap bug: JMP ($10FF)
// reads $10FF and $1000, not $1100, because the low-byte increment never
// carries into the high byte.
func (cpu *CPU) read16bug(address uint16) uint16 {
	a := address
	b := (a & 0xFF00) | uint16(byte(a)+1)
	lo := cpu.Read(a)
	hi := cpu.Read(b)
	return (uint16(hi) << 8) | uint16(lo)
}

func (cpu *CPU) push(value byte) {
	cpu.Write(0x100|uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) push16(value uint16) {
	hi := value >> 8
	lo := value & 0xff
	cpu.push(byte(hi))
	cpu.push(byte(lo))
}

func (cpu *CPU) pull() byte {
	cpu.SP++
	return cpu.Read(0x100 | uint16(cpu.SP))
}

func (cpu *CPU) pull16() uint16 {
	lo := uint16(cpu.pull())
	hi := uint16(cpu.pull())
	return (hi << 8) | lo
}

func (cpu *CPU) setZ(value byte) {
	if value == 0 {
		cpu.Z = 1
	} else {
		cpu.Z = 0
	}
}

func (cpu *CPU) setN(value byte) {
	if value&0x80 != 0 {
		cpu.N = 1
	} else {
		cpu.N = 0
	}
}

func (cpu *CPU) setZN(value byte) {
	cpu.setN(value)
	cpu.setZ(value)
}

func (cpu *CPU) getFlags() byte {
	var flags byte
	flags |= cpu.C << 0
	flags |= cpu.Z << 1
	flags |= cpu.I << 2
	flags |= cpu.D << 3
	flags |= cpu.B << 4
	flags |= cpu.U << 5
	flags |= cpu.V << 6
	flags |= cpu.N << 7
	return flags
}

func (cpu *CPU) setFlags(p byte) {
	cpu.C = (p >> 0) & 1
	cpu.Z = (p >> 1) & 1
	cpu.I = (p >> 2) & 1
	cpu.D = (p >> 3) & 1
	cpu.B = (p >> 4) & 1
	cpu.U = (p >> 5) & 1
	cpu.V = (p >> 6) & 1
	cpu.N = (p >> 7) & 1
}

// TriggerIRQ raises the maskable interrupt line, unless the interrupt
// disable flag is set or an NMI is already pending — NMI always takes
// priority over IRQ and must never be clobbered by a later IRQ arriving
// before the CPU next steps.
func (cpu *CPU) TriggerIRQ() {
	if cpu.I == 0 && cpu.interrupt != interruptNMI {
		cpu.interrupt = interruptIRQ
	}
}

func (cpu *CPU) TriggerNMI() {
	cpu.interrupt = interruptNMI
}

func (cpu *CPU) irq() {
	cpu.push16(cpu.PC)
	cpu.push(cpu.getFlags())
	cpu.PC = cpu.Read16(IRQ)
	cpu.I = 1
	cpu.Cycles += 7
}

func (cpu *CPU) nmi() {
	cpu.push16(cpu.PC)
	cpu.push(cpu.getFlags())
	cpu.PC = cpu.Read16(NMI)
	cpu.I = 1
	cpu.Cycles += 7
}

func (cpu *CPU) addBranchCycles(info *stepInfo) {
	cpu.Cycles++
	if cpu.pageDiff(info.pc, info.address) {
		cpu.Cycles++
	}
}

func (cpu *CPU) pageDiff(old uint16, new uint16) bool {
	return old&0xff00 != new&0xff00
}

func (cpu *CPU) Reset() {
	cpu.PC = cpu.Read16(RESET)
	cpu.Cycles = 0
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = 0xfd
	cpu.setFlags(0x24)
}

// CPUState is the gob-encodable snapshot of everything Reset/Step mutate.
// The dispatch table and Memory bus are rebuilt by NewCPU, not saved.
type CPUState struct {
	Cycles    uint64
	PC        uint16
	SP        byte
	A         byte
	X         byte
	Y         byte
	C         byte
	Z         byte
	I         byte
	D         byte
	B         byte
	U         byte
	V         byte
	N         byte
	Interrupt byte
	Stall     int
}

// Snapshot captures cpu's state for save-state round-tripping.
func (cpu *CPU) Snapshot() CPUState {
	return CPUState{
		Cycles:    cpu.Cycles,
		PC:        cpu.PC,
		SP:        cpu.SP,
		A:         cpu.A,
		X:         cpu.X,
		Y:         cpu.Y,
		C:         cpu.C,
		Z:         cpu.Z,
		I:         cpu.I,
		D:         cpu.D,
		B:         cpu.B,
		U:         cpu.U,
		V:         cpu.V,
		N:         cpu.N,
		Interrupt: cpu.interrupt,
		Stall:     cpu.stall,
	}
}

// Restore replaces cpu's mutable state with a previously captured Snapshot.
func (cpu *CPU) Restore(s CPUState) {
	cpu.Cycles = s.Cycles
	cpu.PC = s.PC
	cpu.SP = s.SP
	cpu.A = s.A
	cpu.X = s.X
	cpu.Y = s.Y
	cpu.C = s.C
	cpu.Z = s.Z
	cpu.I = s.I
	cpu.D = s.D
	cpu.B = s.B
	cpu.U = s.U
	cpu.V = s.V
	cpu.N = s.N
	cpu.interrupt = s.Interrupt
	cpu.stall = s.Stall
}

// LogReg prints one disassembled instruction plus register state, in the
// nestest log column layout, for callers that want to trace execution.
func LogReg(cpu *CPU) {
	opcode := cpu.Read(cpu.PC)
	bytes := instructionSizes[opcode]
	name := instructionNames[opcode]
	w0 := fmt.Sprintf("%02X", cpu.Read(cpu.PC+0))
	w1 := fmt.Sprintf("%02X", cpu.Read(cpu.PC+1))
	w2 := fmt.Sprintf("%02X", cpu.Read(cpu.PC+2))

	if bytes < 2 {
		w1 = "  "
	}
	if bytes < 3 {
		w2 = "  "
	}
	fmt.Printf(
		"%4X  %s %s %s  %s %28s"+
			"A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
		cpu.PC, w0, w1, w2, name, "",
		cpu.A, cpu.X, cpu.Y, cpu.getFlags(), cpu.SP, cpu.Cycles)
}

// Step decodes and runs one instruction, returning the number of CPU
// cycles it took. A pending OAMDMA/DMC stall consumes one cycle per call
// without touching the opcode stream. A pending NMI or IRQ is serviced
// instead of an instruction and takes 7 cycles.
func (cpu *CPU) Step() int64 {
	if cpu.stall > 0 {
		cpu.stall--
		return 1
	}

	if cpu.interrupt != interruptNone {
		if cpu.interrupt == interruptIRQ {
			cpu.irq()
		} else if cpu.interrupt == interruptNMI {
			cpu.nmi()
		}
		cpu.interrupt = interruptNone
		return 7
	}

	opcode := cpu.Read(cpu.PC)
	mode := instructionModes[opcode]
	lastCycles := cpu.Cycles

	var address uint16
	var pageCrossed bool

	switch mode {
	case modeAbsolute:
		address = cpu.Read16(cpu.PC + 1)
	case modeAbsoluteX:
		address = cpu.Read16(cpu.PC+1) + uint16(cpu.X)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.X), address)
	case modeAbsoluteY:
		address = cpu.Read16(cpu.PC+1) + uint16(cpu.Y)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.Y), address)
	case modeAccumulator:
		address = 0
	case modeImmediate:
		address = cpu.PC + 1
	case modeImplied:
		address = 0
	case modeIndexedIndirect:
		address = cpu.read16bug(uint16(cpu.Read(cpu.PC+1) + cpu.X))
	case modeIndirect:
		address = cpu.read16bug(cpu.Read16(cpu.PC + 1))
	case modeIndirectIndexed:
		address = cpu.read16bug(uint16(cpu.Read(cpu.PC+1))) + uint16(cpu.Y)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.Y), address)
	case modeRelative:
		offset := uint16(cpu.Read(cpu.PC + 1))
		if offset < 0x80 {
			address = cpu.PC + 2 + offset
		} else {
			address = cpu.PC + 2 + offset - 0x100
		}
	case modeZeroPage:
		address = uint16(cpu.Read(cpu.PC+1)) & 0xff
	case modeZeroPageX:
		address = uint16(cpu.Read(cpu.PC+1) + cpu.X)
		address = address & 0xff
	case modeZeroPageY:
		address = uint16(cpu.Read(cpu.PC+1) + cpu.Y)
		address = address & 0xff
	default:
		panic("unknown address mode.")
	}

	size := instructionSizes[opcode]
	cpu.PC += uint16(size)

	pageCycles := instructionPageCycles[opcode]

	cpu.Cycles += uint64(instructionCycles[opcode])
	if pageCrossed {
		cpu.Cycles += uint64(pageCycles)
	}

	info := &stepInfo{address, cpu.PC, mode}

	cpu.table[opcode](info)

	return int64(cpu.Cycles - lastCycles)
}

// LDA - load "A"
func (cpu *CPU) lda(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A = value
	cpu.setZN(value)
}

// LDX - load "X"
func (cpu *CPU) ldx(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.X = value
	cpu.setZN(value)
}

// LDY - load "Y"
func (cpu *CPU) ldy(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.Y = value
	cpu.setZN(value)
}

// STA - store "A"
func (cpu *CPU) sta(info *stepInfo) {
	cpu.Write(info.address, cpu.A)
}

// STX - store "X"
func (cpu *CPU) stx(info *stepInfo) {
	cpu.Write(info.address, cpu.X)
}

// STY - store "Y"
func (cpu *CPU) sty(info *stepInfo) {
	cpu.Write(info.address, cpu.Y)
}

// addWithCarry is ADC's core, factored out so RRA can reuse it after its
// own rotate.
func (cpu *CPU) addWithCarry(b byte) {
	a := cpu.A
	c := cpu.C
	cpu.A = a + b + c
	cpu.setZN(cpu.A)
	if int(a)+int(b)+int(c) > 0xFF {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
	if (a^b)&0x80 == 0 && (a^cpu.A)&0x80 != 0 {
		cpu.V = 1
	} else {
		cpu.V = 0
	}
}

// subtractWithCarry is SBC's core, factored out so ISC can reuse it after
// its own increment.
func (cpu *CPU) subtractWithCarry(b byte) {
	a := cpu.A
	c := cpu.C
	cpu.A = a - b - (1 - c)
	cpu.setZN(cpu.A)
	if int(a)-int(b)-int(1-c) >= 0 {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
	if (a^b)&0x80 != 0 && (a^cpu.A)&0x80 != 0 {
		cpu.V = 1
	} else {
		cpu.V = 0
	}
}

// ADC - add with carry -- A = A + M + C
func (cpu *CPU) adc(info *stepInfo) {
	cpu.addWithCarry(cpu.Read(info.address))
}

// SBC - subtract with carry -- A = A - M - (1 - C)
func (cpu *CPU) sbc(info *stepInfo) {
	cpu.subtractWithCarry(cpu.Read(info.address))
}

// INC - Increment memory
func (cpu *CPU) inc(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.Write(info.address, value+1)
	cpu.setZN(value + 1)
}

// DEC - Decrement memory
func (cpu *CPU) dec(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.Write(info.address, value-1)
	cpu.setZN(value - 1)
}

// AND - A & memory
func (cpu *CPU) and(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A = cpu.A & value
	cpu.setZN(cpu.A)
}

// ORA - A | memory
func (cpu *CPU) ora(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A |= value
	cpu.setZN(cpu.A)
}

// EOR - A ^ memory
func (cpu *CPU) eor(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A ^= value
	cpu.setZN(cpu.A)
}

// INX - Increment X
func (cpu *CPU) inx(info *stepInfo) {
	cpu.X++
	cpu.setZN(cpu.X)
}

// DEX - Decrement X
func (cpu *CPU) dex(info *stepInfo) {
	cpu.X--
	cpu.setZN(cpu.X)
}

// INY - Increment Y
func (cpu *CPU) iny(info *stepInfo) {
	cpu.Y++
	cpu.setZN(cpu.Y)
}

// DEY - Decrement Y
func (cpu *CPU) dey(info *stepInfo) {
	cpu.Y--
	cpu.setZN(cpu.Y)
}

// TAX - Transfer A to X
func (cpu *CPU) tax(info *stepInfo) {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
}

// TXA - Transfer X to A
func (cpu *CPU) txa(info *stepInfo) {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
}

// TAY - Transfer A to Y
func (cpu *CPU) tay(info *stepInfo) {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
}

// TYA - Transfer Y to A
func (cpu *CPU) tya(info *stepInfo) {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
}

// TSX - Transfer SP to X
func (cpu *CPU) tsx(info *stepInfo) {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
}

// TXS - Transfer X to SP
func (cpu *CPU) txs(info *stepInfo) {
	cpu.SP = cpu.X
}

// CLC - Clear Carry
func (cpu *CPU) clc(info *stepInfo) {
	cpu.C = 0
}

// SEC - Set Carry
func (cpu *CPU) sec(info *stepInfo) {
	cpu.C = 1
}

// CLD - Clear Decimal
func (cpu *CPU) cld(info *stepInfo) {
	cpu.D = 0
}

// SED - Set Decimal
func (cpu *CPU) sed(info *stepInfo) {
	cpu.D = 1
}

// CLV - Clear Overflow
func (cpu *CPU) clv(info *stepInfo) {
	cpu.V = 0
}

// CLI - Clear Interrupt-disable
func (cpu *CPU) cli(info *stepInfo) {
	cpu.I = 0
}

// SEI - Set Interrupt-disable
func (cpu *CPU) sei(info *stepInfo) {
	cpu.I = 1
}

func (cpu *CPU) compare(a, b byte) {
	cpu.setZN(a - b)
	if a >= b {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
}

// CMP - Compare memory with A
func (cpu *CPU) cmp(info *stepInfo) {
	cpu.compare(cpu.A, cpu.Read(info.address))
}

// CPX - Compare memory with X
func (cpu *CPU) cpx(info *stepInfo) {
	cpu.compare(cpu.X, cpu.Read(info.address))
}

// CPY - Compare memory with Y
func (cpu *CPU) cpy(info *stepInfo) {
	cpu.compare(cpu.Y, cpu.Read(info.address))
}

// BIT - Bit test memory with A
func (cpu *CPU) bit(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.setZ(cpu.A & value)
	cpu.V = (value >> 6) & 1
	cpu.N = (value >> 7) & 1
}

// ASL - Arithmetic Shift Left --  C <- |7|6|5|4|3|2|1|0| <- 0
func (cpu *CPU) asl(info *stepInfo) {
	if info.mode == modeAccumulator {
		cpu.C = (cpu.A >> 7) & 1
		cpu.A <<= 1
		cpu.setZN(cpu.A)
	} else {
		value := cpu.Read(info.address)
		cpu.C = (value >> 7) & 1
		value <<= 1
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// LSR - Logical Shift Right
func (cpu *CPU) lsr(info *stepInfo) {
	if info.mode == modeAccumulator {
		cpu.C = cpu.A & 1
		cpu.A >>= 1
		cpu.setZN(cpu.A)
	} else {
		value := cpu.Read(info.address)
		cpu.C = value & 1
		value >>= 1
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// ROL - Rotate Left
func (cpu *CPU) rol(info *stepInfo) {
	if info.mode == modeAccumulator {
		c := cpu.C
		cpu.C = (cpu.A >> 7) & 1
		cpu.A = (cpu.A << 1) | c
		cpu.setZN(cpu.A)
	} else {
		c := cpu.C
		value := cpu.Read(info.address)
		cpu.C = (value >> 7) & 1
		value = (value << 1) | c
		cpu.setZN(value)
		cpu.Write(info.address, value)
	}
}

// ROR - Rotate Right
func (cpu *CPU) ror(info *stepInfo) {
	if info.mode == modeAccumulator {
		c := cpu.C
		cpu.C = cpu.A & 1
		cpu.A = (cpu.A >> 1) | (c << 7)
		cpu.setZN(cpu.A)
	} else {
		c := cpu.C
		value := cpu.Read(info.address)
		cpu.C = value & 1
		value = (value >> 1) | (c << 7)
		cpu.setZN(value)
		cpu.Write(info.address, value)
	}
}

// PHA - Push A
func (cpu *CPU) pha(info *stepInfo) {
	cpu.push(cpu.A)
}

// PLA - Pull(Pop) A
func (cpu *CPU) pla(info *stepInfo) {
	cpu.A = cpu.pull()
	cpu.setZN(cpu.A)
}

// PHP - Push Processor-status
func (cpu *CPU) php(info *stepInfo) {
	cpu.push(cpu.getFlags() | 0x10)
}

// PLP - Pull Processor-status
func (cpu *CPU) plp(info *stepInfo) {
	cpu.setFlags(cpu.pull()&0xef | 0x20)
}

// JMP - Jump
func (cpu *CPU) jmp(info *stepInfo) {
	cpu.PC = info.address
}

// BEQ - Branch if Equal
func (cpu *CPU) beq(info *stepInfo) {
	if cpu.Z > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BNE - Branch if Not Equal
func (cpu *CPU) bne(info *stepInfo) {
	if cpu.Z == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BCS - Branch if Carry Set
func (cpu *CPU) bcs(info *stepInfo) {
	if cpu.C > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BCC - Branch if Carry Clear
func (cpu *CPU) bcc(info *stepInfo) {
	if cpu.C == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BMI - Branch if Minus
func (cpu *CPU) bmi(info *stepInfo) {
	if cpu.N > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BPL - Branch if Plus
func (cpu *CPU) bpl(info *stepInfo) {
	if cpu.N == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BVS - Branch if Overflow Set
func (cpu *CPU) bvs(info *stepInfo) {
	if cpu.V > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BVC - Branch if Overflow Clear
func (cpu *CPU) bvc(info *stepInfo) {
	if cpu.V == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// JSR - Jump to Subroutine
func (cpu *CPU) jsr(info *stepInfo) {
	cpu.push16(cpu.PC - 1)
	cpu.PC = info.address
}

// RTS - Return from Subroutine
func (cpu *CPU) rts(info *stepInfo) {
	cpu.PC = cpu.pull16() + 1
}

// NOP - do nothing
func (cpu *CPU) nop(info *stepInfo) {}

// BRK - force break
func (cpu *CPU) brk(info *stepInfo) {
	cpu.push(byte(cpu.PC >> 8))
	cpu.push(byte(cpu.PC) & 0xff)
	cpu.push(cpu.getFlags() | 0x10)
	cpu.I = 1
	cpu.PC = cpu.Read16(IRQ)
}

// RTI - Return from Interrupt
func (cpu *CPU) rti(info *stepInfo) {
	cpu.setFlags(cpu.pull()&0xef | 0x20)
	cpu.PC = cpu.pull16()
}

// KIL/JAM - locks up the CPU on real hardware. No program that wants to
// run relies on reaching one, so this stays a no-op rather than modeling
// the lockup.
func (cpu *CPU) kil(info *stepInfo) {}

// SLO - ASL memory, then OR the result into A.
func (cpu *CPU) slo(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.C = (value >> 7) & 1
	value <<= 1
	cpu.Write(info.address, value)
	cpu.A |= value
	cpu.setZN(cpu.A)
}

// ANC/AAC - AND memory into A, then copy the result's sign bit into carry.
func (cpu *CPU) anc(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A &= value
	cpu.setZN(cpu.A)
	cpu.C = (cpu.A >> 7) & 1
}

// SRE - LSR memory, then EOR the result into A.
func (cpu *CPU) sre(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.C = value & 1
	value >>= 1
	cpu.Write(info.address, value)
	cpu.A ^= value
	cpu.setZN(cpu.A)
}

// SAX/AAX - store A & X.
func (cpu *CPU) sax(info *stepInfo) {
	cpu.Write(info.address, cpu.A&cpu.X)
}

// RLA - ROL memory, then AND the result into A.
func (cpu *CPU) rla(info *stepInfo) {
	c := cpu.C
	value := cpu.Read(info.address)
	cpu.C = (value >> 7) & 1
	value = (value << 1) | c
	cpu.Write(info.address, value)
	cpu.A &= value
	cpu.setZN(cpu.A)
}

// ALR/ASR - AND memory into A, then LSR A.
func (cpu *CPU) alr(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A &= value
	cpu.C = cpu.A & 1
	cpu.A >>= 1
	cpu.setZN(cpu.A)
}

// RRA - ROR memory, then ADC the result into A.
func (cpu *CPU) rra(info *stepInfo) {
	c := cpu.C
	value := cpu.Read(info.address)
	cpu.C = value & 1
	value = (value >> 1) | (c << 7)
	cpu.Write(info.address, value)
	cpu.addWithCarry(value)
}

// ARR - AND memory into A, then ROR A; carry/overflow come out of bits 6
// and 5 of the rotated result, not the usual ROR carry-out.
func (cpu *CPU) arr(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A &= value
	c := cpu.C
	cpu.A = (cpu.A >> 1) | (c << 7)
	cpu.setZN(cpu.A)
	cpu.C = (cpu.A >> 6) & 1
	cpu.V = ((cpu.A >> 6) ^ (cpu.A >> 5)) & 1
}

// XAA/ANE - behavior depends on analog bus noise on real hardware. No
// emulator produces results worth relying on, so this stays a no-op.
func (cpu *CPU) xaa(info *stepInfo) {}

// AHX/SHA - same bus-noise dependency as XAA; left as a no-op.
func (cpu *CPU) ahx(info *stepInfo) {}

// SHX - same bus-noise dependency as XAA; left as a no-op.
func (cpu *CPU) shx(info *stepInfo) {}

// SHY - same bus-noise dependency as XAA; left as a no-op.
func (cpu *CPU) shy(info *stepInfo) {}

// TAS/XAS - same bus-noise dependency as XAA; left as a no-op.
func (cpu *CPU) tas(info *stepInfo) {}

// LAX - load A and X with the same memory value.
func (cpu *CPU) lax(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.A = value
	cpu.X = value
	cpu.setZN(value)
}

// LAS/LAR - AND memory with SP, loading the result into A, X, and SP.
func (cpu *CPU) las(info *stepInfo) {
	value := cpu.Read(info.address) & cpu.SP
	cpu.A = value
	cpu.X = value
	cpu.SP = value
	cpu.setZN(value)
}

// DCP - DEC memory, then CMP A against the result.
func (cpu *CPU) dcp(info *stepInfo) {
	value := cpu.Read(info.address) - 1
	cpu.Write(info.address, value)
	cpu.compare(cpu.A, value)
}

// ISC/ISB - INC memory, then SBC the result from A.
func (cpu *CPU) isc(info *stepInfo) {
	value := cpu.Read(info.address) + 1
	cpu.Write(info.address, value)
	cpu.subtractWithCarry(value)
}

// AXS/SBX - X = (A & X) - memory, with carry set when no borrow occurred.
func (cpu *CPU) axs(info *stepInfo) {
	value := cpu.Read(info.address)
	and := cpu.A & cpu.X
	if and >= value {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
	cpu.X = and - value
	cpu.setZN(cpu.X)
}
