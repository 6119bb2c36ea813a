package m6502

import (
	"fmt"
	"strings"
)

// Family selects the instruction set the CPU decodes with.
type Family int

const (
	NMOS6502  Family = iota // MOS 6502, undocumented opcodes included
	CMOS65C02               // WDC 65C02
)

func (f Family) String() string {
	switch f {
	case NMOS6502:
		return "6502"
	case CMOS65C02:
		return "65C02"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily accepts "6502"/"nmos" and "65c02"/"cmos".
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "6502", "nmos":
		return NMOS6502, nil
	case "65c02", "cmos":
		return CMOS65C02, nil
	}
	return 0, fmt.Errorf("unknown CPU family %q", s)
}

// FamilyMask is a set of families.
type FamilyMask uint8

const (
	NMOS FamilyMask = 1 << NMOS6502
	CMOS FamilyMask = 1 << CMOS65C02
	Both            = NMOS | CMOS
)

// Has reports whether f is in the mask.
func (m FamilyMask) Has(f Family) bool {
	return m&(1<<f) != 0
}

// AddressingMode is how an instruction finds its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX               // (zp,X)
	IndirectY               // (zp),Y
	ZeroPageIndirect        // (zp), 65C02
	AbsoluteIndexedIndirect // (abs,X), 65C02
	ZeroPageRelative        // zp,rel for BBR/BBS, 65C02
)

var modeNames = [...]string{
	"implied", "accumulator", "immediate", "zeropage", "zeropage,X", "zeropage,Y",
	"relative", "absolute", "absolute,X", "absolute,Y", "indirect", "(indirect,X)",
	"(indirect),Y", "(zeropage)", "(absolute,X)", "zeropage,relative",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("AddressingMode(%d)", int(m))
}

// Size returns the instruction length in bytes for the mode.
func (m AddressingMode) Size() uint16 {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect, AbsoluteIndexedIndirect, ZeroPageRelative:
		return 3
	}
	return 2
}

// operation executes one instruction. operand is the effective address the
// addressing mode resolved to: the immediate byte's address for Immediate,
// the branch target for Relative, the zero page address for
// ZeroPageRelative and 0 for Implied/Accumulator.
type operation func(c *CPU, mode AddressingMode, operand uint16) error

// Instruction is one decoded opcode for one family. Entries are built once
// and never modified.
type Instruction struct {
	Opcode     byte
	Mnemonic   string
	Mode       AddressingMode
	Size       uint16
	Cycles     int        // base cycles
	PageCross  bool       // +1 cycle when indexing crosses a page
	Documented bool       // false for NMOS undocumented opcodes and 65C02 reserved NOPs
	Families   FamilyMask // families on which this opcode means the same thing
	Family     Family

	// JMP (ind) fetches the pointer high byte from the same page as the low
	// byte when the pointer sits at $xxFF.
	IndirectPageBug bool
	// ADC/SBC take one more cycle with D set.
	DecimalCycle bool

	execute operation
}

func (in *Instruction) String() string {
	return fmt.Sprintf("%02X %s %s", in.Opcode, in.Mnemonic, in.Mode)
}

// entry is a row of the static tables.
type entry struct {
	mnemonic string
	mode     AddressingMode
	cycles   int
	execute  operation
	flags    entryFlag
}

type entryFlag uint8

const (
	pageCross entryFlag = 1 << iota
	indirectBug
	undocumented
)

// base is the documented NMOS instruction set, which the 65C02 inherits.
var base = map[byte]entry{
	0x00: {"BRK", Implied, 7, (*CPU).brk, 0},
	0x01: {"ORA", IndirectX, 6, (*CPU).ora, 0},
	0x05: {"ORA", ZeroPage, 3, (*CPU).ora, 0},
	0x06: {"ASL", ZeroPage, 5, (*CPU).asl, 0},
	0x08: {"PHP", Implied, 3, (*CPU).php, 0},
	0x09: {"ORA", Immediate, 2, (*CPU).ora, 0},
	0x0A: {"ASL", Accumulator, 2, (*CPU).asl, 0},
	0x0D: {"ORA", Absolute, 4, (*CPU).ora, 0},
	0x0E: {"ASL", Absolute, 6, (*CPU).asl, 0},
	0x10: {"BPL", Relative, 2, (*CPU).bpl, 0},
	0x11: {"ORA", IndirectY, 5, (*CPU).ora, pageCross},
	0x15: {"ORA", ZeroPageX, 4, (*CPU).ora, 0},
	0x16: {"ASL", ZeroPageX, 6, (*CPU).asl, 0},
	0x18: {"CLC", Implied, 2, (*CPU).clc, 0},
	0x19: {"ORA", AbsoluteY, 4, (*CPU).ora, pageCross},
	0x1D: {"ORA", AbsoluteX, 4, (*CPU).ora, pageCross},
	0x1E: {"ASL", AbsoluteX, 7, (*CPU).asl, 0},
	0x20: {"JSR", Absolute, 6, (*CPU).jsr, 0},
	0x21: {"AND", IndirectX, 6, (*CPU).and, 0},
	0x24: {"BIT", ZeroPage, 3, (*CPU).bit, 0},
	0x25: {"AND", ZeroPage, 3, (*CPU).and, 0},
	0x26: {"ROL", ZeroPage, 5, (*CPU).rol, 0},
	0x28: {"PLP", Implied, 4, (*CPU).plp, 0},
	0x29: {"AND", Immediate, 2, (*CPU).and, 0},
	0x2A: {"ROL", Accumulator, 2, (*CPU).rol, 0},
	0x2C: {"BIT", Absolute, 4, (*CPU).bit, 0},
	0x2D: {"AND", Absolute, 4, (*CPU).and, 0},
	0x2E: {"ROL", Absolute, 6, (*CPU).rol, 0},
	0x30: {"BMI", Relative, 2, (*CPU).bmi, 0},
	0x31: {"AND", IndirectY, 5, (*CPU).and, pageCross},
	0x35: {"AND", ZeroPageX, 4, (*CPU).and, 0},
	0x36: {"ROL", ZeroPageX, 6, (*CPU).rol, 0},
	0x38: {"SEC", Implied, 2, (*CPU).sec, 0},
	0x39: {"AND", AbsoluteY, 4, (*CPU).and, pageCross},
	0x3D: {"AND", AbsoluteX, 4, (*CPU).and, pageCross},
	0x3E: {"ROL", AbsoluteX, 7, (*CPU).rol, 0},
	0x40: {"RTI", Implied, 6, (*CPU).rti, 0},
	0x41: {"EOR", IndirectX, 6, (*CPU).eor, 0},
	0x45: {"EOR", ZeroPage, 3, (*CPU).eor, 0},
	0x46: {"LSR", ZeroPage, 5, (*CPU).lsr, 0},
	0x48: {"PHA", Implied, 3, (*CPU).pha, 0},
	0x49: {"EOR", Immediate, 2, (*CPU).eor, 0},
	0x4A: {"LSR", Accumulator, 2, (*CPU).lsr, 0},
	0x4C: {"JMP", Absolute, 3, (*CPU).jmp, 0},
	0x4D: {"EOR", Absolute, 4, (*CPU).eor, 0},
	0x4E: {"LSR", Absolute, 6, (*CPU).lsr, 0},
	0x50: {"BVC", Relative, 2, (*CPU).bvc, 0},
	0x51: {"EOR", IndirectY, 5, (*CPU).eor, pageCross},
	0x55: {"EOR", ZeroPageX, 4, (*CPU).eor, 0},
	0x56: {"LSR", ZeroPageX, 6, (*CPU).lsr, 0},
	0x58: {"CLI", Implied, 2, (*CPU).cli, 0},
	0x59: {"EOR", AbsoluteY, 4, (*CPU).eor, pageCross},
	0x5D: {"EOR", AbsoluteX, 4, (*CPU).eor, pageCross},
	0x5E: {"LSR", AbsoluteX, 7, (*CPU).lsr, 0},
	0x60: {"RTS", Implied, 6, (*CPU).rts, 0},
	0x61: {"ADC", IndirectX, 6, (*CPU).adc, 0},
	0x65: {"ADC", ZeroPage, 3, (*CPU).adc, 0},
	0x66: {"ROR", ZeroPage, 5, (*CPU).ror, 0},
	0x68: {"PLA", Implied, 4, (*CPU).pla, 0},
	0x69: {"ADC", Immediate, 2, (*CPU).adc, 0},
	0x6A: {"ROR", Accumulator, 2, (*CPU).ror, 0},
	0x6C: {"JMP", Indirect, 5, (*CPU).jmp, indirectBug},
	0x6D: {"ADC", Absolute, 4, (*CPU).adc, 0},
	0x6E: {"ROR", Absolute, 6, (*CPU).ror, 0},
	0x70: {"BVS", Relative, 2, (*CPU).bvs, 0},
	0x71: {"ADC", IndirectY, 5, (*CPU).adc, pageCross},
	0x75: {"ADC", ZeroPageX, 4, (*CPU).adc, 0},
	0x76: {"ROR", ZeroPageX, 6, (*CPU).ror, 0},
	0x78: {"SEI", Implied, 2, (*CPU).sei, 0},
	0x79: {"ADC", AbsoluteY, 4, (*CPU).adc, pageCross},
	0x7D: {"ADC", AbsoluteX, 4, (*CPU).adc, pageCross},
	0x7E: {"ROR", AbsoluteX, 7, (*CPU).ror, 0},
	0x81: {"STA", IndirectX, 6, (*CPU).sta, 0},
	0x84: {"STY", ZeroPage, 3, (*CPU).sty, 0},
	0x85: {"STA", ZeroPage, 3, (*CPU).sta, 0},
	0x86: {"STX", ZeroPage, 3, (*CPU).stx, 0},
	0x88: {"DEY", Implied, 2, (*CPU).dey, 0},
	0x8A: {"TXA", Implied, 2, (*CPU).txa, 0},
	0x8C: {"STY", Absolute, 4, (*CPU).sty, 0},
	0x8D: {"STA", Absolute, 4, (*CPU).sta, 0},
	0x8E: {"STX", Absolute, 4, (*CPU).stx, 0},
	0x90: {"BCC", Relative, 2, (*CPU).bcc, 0},
	0x91: {"STA", IndirectY, 6, (*CPU).sta, 0},
	0x94: {"STY", ZeroPageX, 4, (*CPU).sty, 0},
	0x95: {"STA", ZeroPageX, 4, (*CPU).sta, 0},
	0x96: {"STX", ZeroPageY, 4, (*CPU).stx, 0},
	0x98: {"TYA", Implied, 2, (*CPU).tya, 0},
	0x99: {"STA", AbsoluteY, 5, (*CPU).sta, 0},
	0x9A: {"TXS", Implied, 2, (*CPU).txs, 0},
	0x9D: {"STA", AbsoluteX, 5, (*CPU).sta, 0},
	0xA0: {"LDY", Immediate, 2, (*CPU).ldy, 0},
	0xA1: {"LDA", IndirectX, 6, (*CPU).lda, 0},
	0xA2: {"LDX", Immediate, 2, (*CPU).ldx, 0},
	0xA4: {"LDY", ZeroPage, 3, (*CPU).ldy, 0},
	0xA5: {"LDA", ZeroPage, 3, (*CPU).lda, 0},
	0xA6: {"LDX", ZeroPage, 3, (*CPU).ldx, 0},
	0xA8: {"TAY", Implied, 2, (*CPU).tay, 0},
	0xA9: {"LDA", Immediate, 2, (*CPU).lda, 0},
	0xAA: {"TAX", Implied, 2, (*CPU).tax, 0},
	0xAC: {"LDY", Absolute, 4, (*CPU).ldy, 0},
	0xAD: {"LDA", Absolute, 4, (*CPU).lda, 0},
	0xAE: {"LDX", Absolute, 4, (*CPU).ldx, 0},
	0xB0: {"BCS", Relative, 2, (*CPU).bcs, 0},
	0xB1: {"LDA", IndirectY, 5, (*CPU).lda, pageCross},
	0xB4: {"LDY", ZeroPageX, 4, (*CPU).ldy, 0},
	0xB5: {"LDA", ZeroPageX, 4, (*CPU).lda, 0},
	0xB6: {"LDX", ZeroPageY, 4, (*CPU).ldx, 0},
	0xB8: {"CLV", Implied, 2, (*CPU).clv, 0},
	0xB9: {"LDA", AbsoluteY, 4, (*CPU).lda, pageCross},
	0xBA: {"TSX", Implied, 2, (*CPU).tsx, 0},
	0xBC: {"LDY", AbsoluteX, 4, (*CPU).ldy, pageCross},
	0xBD: {"LDA", AbsoluteX, 4, (*CPU).lda, pageCross},
	0xBE: {"LDX", AbsoluteY, 4, (*CPU).ldx, pageCross},
	0xC0: {"CPY", Immediate, 2, (*CPU).cpy, 0},
	0xC1: {"CMP", IndirectX, 6, (*CPU).cmp, 0},
	0xC4: {"CPY", ZeroPage, 3, (*CPU).cpy, 0},
	0xC5: {"CMP", ZeroPage, 3, (*CPU).cmp, 0},
	0xC6: {"DEC", ZeroPage, 5, (*CPU).dec, 0},
	0xC8: {"INY", Implied, 2, (*CPU).iny, 0},
	0xC9: {"CMP", Immediate, 2, (*CPU).cmp, 0},
	0xCA: {"DEX", Implied, 2, (*CPU).dex, 0},
	0xCC: {"CPY", Absolute, 4, (*CPU).cpy, 0},
	0xCD: {"CMP", Absolute, 4, (*CPU).cmp, 0},
	0xCE: {"DEC", Absolute, 6, (*CPU).dec, 0},
	0xD0: {"BNE", Relative, 2, (*CPU).bne, 0},
	0xD1: {"CMP", IndirectY, 5, (*CPU).cmp, pageCross},
	0xD5: {"CMP", ZeroPageX, 4, (*CPU).cmp, 0},
	0xD6: {"DEC", ZeroPageX, 6, (*CPU).dec, 0},
	0xD8: {"CLD", Implied, 2, (*CPU).cld, 0},
	0xD9: {"CMP", AbsoluteY, 4, (*CPU).cmp, pageCross},
	0xDD: {"CMP", AbsoluteX, 4, (*CPU).cmp, pageCross},
	0xDE: {"DEC", AbsoluteX, 7, (*CPU).dec, 0},
	0xE0: {"CPX", Immediate, 2, (*CPU).cpx, 0},
	0xE1: {"SBC", IndirectX, 6, (*CPU).sbc, 0},
	0xE4: {"CPX", ZeroPage, 3, (*CPU).cpx, 0},
	0xE5: {"SBC", ZeroPage, 3, (*CPU).sbc, 0},
	0xE6: {"INC", ZeroPage, 5, (*CPU).inc, 0},
	0xE8: {"INX", Implied, 2, (*CPU).inx, 0},
	0xE9: {"SBC", Immediate, 2, (*CPU).sbc, 0},
	0xEA: {"NOP", Implied, 2, (*CPU).nop, 0},
	0xEC: {"CPX", Absolute, 4, (*CPU).cpx, 0},
	0xED: {"SBC", Absolute, 4, (*CPU).sbc, 0},
	0xEE: {"INC", Absolute, 6, (*CPU).inc, 0},
	0xF0: {"BEQ", Relative, 2, (*CPU).beq, 0},
	0xF1: {"SBC", IndirectY, 5, (*CPU).sbc, pageCross},
	0xF5: {"SBC", ZeroPageX, 4, (*CPU).sbc, 0},
	0xF6: {"INC", ZeroPageX, 6, (*CPU).inc, 0},
	0xF8: {"SED", Implied, 2, (*CPU).sed, 0},
	0xF9: {"SBC", AbsoluteY, 4, (*CPU).sbc, pageCross},
	0xFD: {"SBC", AbsoluteX, 4, (*CPU).sbc, pageCross},
	0xFE: {"INC", AbsoluteX, 7, (*CPU).inc, 0},
}

// rmwModes are the seven column encodings shared by the NMOS combined
// read-modify-write opcodes.
var rmwModes = [...]struct {
	offset byte
	mode   AddressingMode
	cycles int
}{
	{0x03, IndirectX, 8},
	{0x07, ZeroPage, 5},
	{0x0F, Absolute, 6},
	{0x13, IndirectY, 8},
	{0x17, ZeroPageX, 6},
	{0x1B, AbsoluteY, 7},
	{0x1F, AbsoluteX, 7},
}

// nmosUndocumented fills the holes of the NMOS table.
func nmosUndocumented() map[byte]entry {
	t := map[byte]entry{
		0x0B: {"ANC", Immediate, 2, (*CPU).anc, 0},
		0x2B: {"ANC", Immediate, 2, (*CPU).anc, 0},
		0x4B: {"ALR", Immediate, 2, (*CPU).alr, 0},
		0x6B: {"ARR", Immediate, 2, (*CPU).arr, 0},
		0x8B: {"XAA", Immediate, 2, (*CPU).xaa, 0},
		0xAB: {"LXA", Immediate, 2, (*CPU).lxa, 0},
		0xCB: {"SBX", Immediate, 2, (*CPU).sbx, 0},
		0xEB: {"SBC", Immediate, 2, (*CPU).sbc, 0},

		0x83: {"SAX", IndirectX, 6, (*CPU).sax, 0},
		0x87: {"SAX", ZeroPage, 3, (*CPU).sax, 0},
		0x8F: {"SAX", Absolute, 4, (*CPU).sax, 0},
		0x97: {"SAX", ZeroPageY, 4, (*CPU).sax, 0},

		0xA3: {"LAX", IndirectX, 6, (*CPU).lax, 0},
		0xA7: {"LAX", ZeroPage, 3, (*CPU).lax, 0},
		0xAF: {"LAX", Absolute, 4, (*CPU).lax, 0},
		0xB3: {"LAX", IndirectY, 5, (*CPU).lax, pageCross},
		0xB7: {"LAX", ZeroPageY, 4, (*CPU).lax, 0},
		0xBF: {"LAX", AbsoluteY, 4, (*CPU).lax, pageCross},

		0x93: {"SHA", IndirectY, 6, (*CPU).sha, 0},
		0x9F: {"SHA", AbsoluteY, 5, (*CPU).sha, 0},
		0x9B: {"TAS", AbsoluteY, 5, (*CPU).tas, 0},
		0x9C: {"SHY", AbsoluteX, 5, (*CPU).shy, 0},
		0x9E: {"SHX", AbsoluteY, 5, (*CPU).shx, 0},
		0xBB: {"LAS", AbsoluteY, 4, (*CPU).las, pageCross},

		0x80: {"NOP", Immediate, 2, (*CPU).nop, 0},
		0x82: {"NOP", Immediate, 2, (*CPU).nop, 0},
		0x89: {"NOP", Immediate, 2, (*CPU).nop, 0},
		0xC2: {"NOP", Immediate, 2, (*CPU).nop, 0},
		0xE2: {"NOP", Immediate, 2, (*CPU).nop, 0},
		0x04: {"NOP", ZeroPage, 3, (*CPU).nop, 0},
		0x44: {"NOP", ZeroPage, 3, (*CPU).nop, 0},
		0x64: {"NOP", ZeroPage, 3, (*CPU).nop, 0},
		0x0C: {"NOP", Absolute, 4, (*CPU).nop, 0},
	}
	for _, op := range []byte{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		t[op] = entry{"NOP", Implied, 2, (*CPU).nop, 0}
	}
	for _, op := range []byte{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		t[op] = entry{"NOP", ZeroPageX, 4, (*CPU).nop, 0}
	}
	for _, op := range []byte{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		t[op] = entry{"NOP", AbsoluteX, 4, (*CPU).nop, pageCross}
	}
	for _, op := range []byte{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		t[op] = entry{"JAM", Implied, 2, (*CPU).jam, 0}
	}
	groups := []struct {
		row      byte
		mnemonic string
		execute  operation
	}{
		{0x00, "SLO", (*CPU).slo},
		{0x20, "RLA", (*CPU).rla},
		{0x40, "SRE", (*CPU).sre},
		{0x60, "RRA", (*CPU).rra},
		{0xC0, "DCP", (*CPU).dcp},
		{0xE0, "ISC", (*CPU).isc},
	}
	for _, g := range groups {
		for _, m := range rmwModes {
			t[g.row+m.offset] = entry{g.mnemonic, m.mode, m.cycles, g.execute, 0}
		}
	}
	return t
}

// cmosOverrides replaces or fills the 65C02 entries that differ from base.
func cmosOverrides() map[byte]entry {
	t := map[byte]entry{
		0x6C: {"JMP", Indirect, 6, (*CPU).jmp, 0},
		0x7C: {"JMP", AbsoluteIndexedIndirect, 6, (*CPU).jmp, 0},
		0x1E: {"ASL", AbsoluteX, 6, (*CPU).asl, pageCross},
		0x3E: {"ROL", AbsoluteX, 6, (*CPU).rol, pageCross},
		0x5E: {"LSR", AbsoluteX, 6, (*CPU).lsr, pageCross},
		0x7E: {"ROR", AbsoluteX, 6, (*CPU).ror, pageCross},

		0x04: {"TSB", ZeroPage, 5, (*CPU).tsb, 0},
		0x0C: {"TSB", Absolute, 6, (*CPU).tsb, 0},
		0x14: {"TRB", ZeroPage, 5, (*CPU).trb, 0},
		0x1C: {"TRB", Absolute, 6, (*CPU).trb, 0},

		0x12: {"ORA", ZeroPageIndirect, 5, (*CPU).ora, 0},
		0x32: {"AND", ZeroPageIndirect, 5, (*CPU).and, 0},
		0x52: {"EOR", ZeroPageIndirect, 5, (*CPU).eor, 0},
		0x72: {"ADC", ZeroPageIndirect, 5, (*CPU).adc, 0},
		0x92: {"STA", ZeroPageIndirect, 5, (*CPU).sta, 0},
		0xB2: {"LDA", ZeroPageIndirect, 5, (*CPU).lda, 0},
		0xD2: {"CMP", ZeroPageIndirect, 5, (*CPU).cmp, 0},
		0xF2: {"SBC", ZeroPageIndirect, 5, (*CPU).sbc, 0},

		0x1A: {"INC", Accumulator, 2, (*CPU).inc, 0},
		0x3A: {"DEC", Accumulator, 2, (*CPU).dec, 0},
		0x34: {"BIT", ZeroPageX, 4, (*CPU).bit, 0},
		0x3C: {"BIT", AbsoluteX, 4, (*CPU).bit, pageCross},
		0x89: {"BIT", Immediate, 2, (*CPU).bit, 0},

		0x5A: {"PHY", Implied, 3, (*CPU).phy, 0},
		0x7A: {"PLY", Implied, 4, (*CPU).ply, 0},
		0xDA: {"PHX", Implied, 3, (*CPU).phx, 0},
		0xFA: {"PLX", Implied, 4, (*CPU).plx, 0},

		0x64: {"STZ", ZeroPage, 3, (*CPU).stz, 0},
		0x74: {"STZ", ZeroPageX, 4, (*CPU).stz, 0},
		0x9C: {"STZ", Absolute, 4, (*CPU).stz, 0},
		0x9E: {"STZ", AbsoluteX, 5, (*CPU).stz, 0},

		0x80: {"BRA", Relative, 2, (*CPU).bra, 0},
		0xCB: {"WAI", Implied, 3, (*CPU).wai, 0},
		0xDB: {"STP", Implied, 3, (*CPU).stp, 0},

		0x02: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0x22: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0x42: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0x62: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0x82: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0xC2: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0xE2: {"NOP", Immediate, 2, (*CPU).nop, undocumented},
		0x44: {"NOP", ZeroPage, 3, (*CPU).nop, undocumented},
		0x54: {"NOP", ZeroPageX, 4, (*CPU).nop, undocumented},
		0xD4: {"NOP", ZeroPageX, 4, (*CPU).nop, undocumented},
		0xF4: {"NOP", ZeroPageX, 4, (*CPU).nop, undocumented},
		0x5C: {"NOP", Absolute, 8, (*CPU).nop, undocumented},
		0xDC: {"NOP", Absolute, 4, (*CPU).nop, undocumented},
		0xFC: {"NOP", Absolute, 4, (*CPU).nop, undocumented},
	}
	for i := byte(0); i < 8; i++ {
		t[0x07+i<<4] = entry{fmt.Sprintf("RMB%d", i), ZeroPage, 5, (*CPU).rmb, 0}
		t[0x87+i<<4] = entry{fmt.Sprintf("SMB%d", i), ZeroPage, 5, (*CPU).smb, 0}
		t[0x0F+i<<4] = entry{fmt.Sprintf("BBR%d", i), ZeroPageRelative, 5, (*CPU).bbr, 0}
		t[0x8F+i<<4] = entry{fmt.Sprintf("BBS%d", i), ZeroPageRelative, 5, (*CPU).bbs, 0}
	}
	// Remaining x3 and xB columns are single-cycle NOPs.
	for hi := 0; hi < 0x100; hi += 0x10 {
		for _, lo := range []int{0x03, 0x0B} {
			op := byte(hi | lo)
			if _, ok := t[op]; ok {
				continue
			}
			t[op] = entry{"NOP", Implied, 1, (*CPU).nop, undocumented}
		}
	}
	return t
}

var tables [2][256]*Instruction

func init() {
	nmos := nmosUndocumented()
	cmos := cmosOverrides()
	for op := 0; op < 256; op++ {
		b := byte(op)
		if e, ok := base[b]; ok {
			tables[NMOS6502][op] = newInstruction(b, NMOS6502, e, true)
		} else if e, ok := nmos[b]; ok {
			tables[NMOS6502][op] = newInstruction(b, NMOS6502, e, false)
		}
		if e, ok := cmos[b]; ok {
			tables[CMOS65C02][op] = newInstruction(b, CMOS65C02, e, e.flags&undocumented == 0)
		} else if e, ok := base[b]; ok {
			tables[CMOS65C02][op] = newInstruction(b, CMOS65C02, e, true)
		}
	}
	for op := 0; op < 256; op++ {
		n, c := tables[NMOS6502][op], tables[CMOS65C02][op]
		if n == nil || c == nil {
			panic(&DecodeError{Opcode: byte(op), Family: familyOf(n == nil)})
		}
		if n.Documented && c.Documented && n.Mnemonic == c.Mnemonic && n.Mode == c.Mode {
			n.Families, c.Families = Both, Both
		}
	}
}

func familyOf(nmosMissing bool) Family {
	if nmosMissing {
		return NMOS6502
	}
	return CMOS65C02
}

func newInstruction(opcode byte, f Family, e entry, documented bool) *Instruction {
	in := &Instruction{
		Opcode:     opcode,
		Mnemonic:   e.mnemonic,
		Mode:       e.mode,
		Size:       e.mode.Size(),
		Cycles:     e.cycles,
		PageCross:  e.flags&pageCross != 0,
		Documented: documented,
		Families:   FamilyMask(1 << f),
		Family:     f,
		execute:    e.execute,
	}
	if f == NMOS6502 {
		in.IndirectPageBug = e.flags&indirectBug != 0
	}
	if f == CMOS65C02 && (e.mnemonic == "ADC" || e.mnemonic == "SBC") {
		in.DecimalCycle = true
	}
	return in
}

// Decode returns the instruction opcode denotes for family. It is total: on
// both families every opcode has an entry.
func Decode(opcode byte, family Family) *Instruction {
	if family != NMOS6502 && family != CMOS65C02 {
		return nil
	}
	return tables[family][opcode]
}
