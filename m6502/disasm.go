package m6502

import (
	"fmt"
	"strings"
)

// Disassembly is one decoded instruction as it sits in memory.
type Disassembly struct {
	Address     uint16
	Bytes       []byte
	Instruction *Instruction
	Text        string // e.g. "LDA ($12),Y"
}

func (d Disassembly) String() string {
	hex := make([]string, len(d.Bytes))
	for i, b := range d.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-8s  %s", d.Address, strings.Join(hex, " "), d.Text)
}

// Next returns the address of the following instruction.
func (d Disassembly) Next() uint16 {
	return d.Address + uint16(len(d.Bytes))
}

// Disassemble decodes the instruction at address with the CPU's current
// family. It does not change CPU state or count cycles.
func (c *CPU) Disassemble(address uint16) (Disassembly, error) {
	return DisassembleAt(c.bus, address, c.family)
}

// DisassembleAt decodes the instruction at address. Memory is read with
// inspection accesses so device state is left alone.
func DisassembleAt(bus *Bus, address uint16, family Family) (Disassembly, error) {
	opcode, err := bus.Read(address, false)
	if err != nil {
		return Disassembly{}, err
	}
	in := Decode(opcode, family)
	if in == nil {
		return Disassembly{}, &DecodeError{Opcode: opcode, Family: family}
	}
	data := []byte{opcode}
	for i := uint16(1); i < in.Size; i++ {
		b, err := bus.Read(address+i, false)
		if err != nil {
			return Disassembly{}, err
		}
		data = append(data, b)
	}
	return Disassembly{
		Address:     address,
		Bytes:       data,
		Instruction: in,
		Text:        format(in, address, data),
	}, nil
}

func format(in *Instruction, address uint16, data []byte) string {
	var nn uint16
	if len(data) == 3 {
		nn = uint16(data[1]) | uint16(data[2])<<8
	}
	name := in.Mnemonic
	switch in.Mode {
	case Implied:
		return name
	case Accumulator:
		return name + " A"
	case Immediate:
		return fmt.Sprintf("%s #$%02X", name, data[1])
	case ZeroPage:
		return fmt.Sprintf("%s $%02X", name, data[1])
	case ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", name, data[1])
	case ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", name, data[1])
	case Relative:
		return fmt.Sprintf("%s $%04X", name, address+2+uint16(int8(data[1])))
	case Absolute:
		return fmt.Sprintf("%s $%04X", name, nn)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", name, nn)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", name, nn)
	case Indirect:
		return fmt.Sprintf("%s ($%04X)", name, nn)
	case IndirectX:
		return fmt.Sprintf("%s ($%02X,X)", name, data[1])
	case IndirectY:
		return fmt.Sprintf("%s ($%02X),Y", name, data[1])
	case ZeroPageIndirect:
		return fmt.Sprintf("%s ($%02X)", name, data[1])
	case AbsoluteIndexedIndirect:
		return fmt.Sprintf("%s ($%04X,X)", name, nn)
	case ZeroPageRelative:
		return fmt.Sprintf("%s $%02X,$%04X", name, data[1], address+3+uint16(int8(data[2])))
	}
	return name
}
