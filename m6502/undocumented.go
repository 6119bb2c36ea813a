package m6502

// NMOS undocumented opcodes.
// Reference: http://www.oxyron.de/html/opcodes02.html
//
// The unstable ones (XAA, LXA) use 0xEE as the "magic" constant and the
// unstable stores (SHA, SHX, SHY, TAS) model the high byte corruption on a
// page crossing.

const magic = 0xEE

// SLO - ASL then ORA.
func (c *CPU) slo(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.shiftLeft)
	if err != nil {
		return err
	}
	c.a |= x
	c.setNZ(c.a)
	return nil
}

// RLA - ROL then AND.
func (c *CPU) rla(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.rotateLeft)
	if err != nil {
		return err
	}
	c.a &= x
	c.setNZ(c.a)
	return nil
}

// SRE - LSR then EOR.
func (c *CPU) sre(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.shiftRight)
	if err != nil {
		return err
	}
	c.a ^= x
	c.setNZ(c.a)
	return nil
}

// RRA - ROR then ADC.
func (c *CPU) rra(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.rotateRight)
	if err != nil {
		return err
	}
	c.add(x)
	return nil
}

// SAX - Store A AND X.
func (c *CPU) sax(mode AddressingMode, operand uint16) error {
	return c.write(operand, c.a&c.x)
}

// LAX - LDA and LDX.
func (c *CPU) lax(mode AddressingMode, operand uint16) error {
	x, err := c.load(operand)
	c.a, c.x = x, x
	return err
}

// DCP - DEC then CMP.
func (c *CPU) dcp(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, func(x byte) byte { return x - 1 })
	if err != nil {
		return err
	}
	c.p.c = c.a >= x
	c.setNZ(c.a - x)
	return nil
}

// ISC - INC then SBC.
func (c *CPU) isc(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, func(x byte) byte { return x + 1 })
	if err != nil {
		return err
	}
	c.sub(x)
	return nil
}

// ANC - AND, then C := N.
func (c *CPU) anc(mode AddressingMode, operand uint16) error {
	if err := c.and(mode, operand); err != nil {
		return err
	}
	c.p.c = c.p.n
	return nil
}

// ALR - AND then LSR A.
func (c *CPU) alr(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a = c.shiftRight(c.a & x)
	c.setNZ(c.a)
	return nil
}

// ARR - AND then ROR A, C from bit 6 and V from bit 6 XOR bit 5.
func (c *CPU) arr(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a = c.rotateRight(c.a & x)
	c.setNZ(c.a)
	c.p.c = c.a&0x40 != 0
	c.p.v = (c.a>>6^c.a>>5)&1 != 0
	return nil
}

// SBX - X := (A AND X) - operand, setting flags like CMP.
func (c *CPU) sbx(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	t := c.a & c.x
	c.p.c = t >= x
	c.x = t - x
	c.setNZ(c.x)
	return nil
}

// XAA - A := (A OR magic) AND X AND operand.
func (c *CPU) xaa(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a = (c.a | magic) & c.x & x
	c.setNZ(c.a)
	return nil
}

// LXA - A, X := (A OR magic) AND operand.
func (c *CPU) lxa(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a = (c.a | magic) & x
	c.x = c.a
	c.setNZ(c.a)
	return nil
}

// LAS - A, X, S := memory AND S.
func (c *CPU) las(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.s &= x
	c.a, c.x = c.s, c.s
	c.setNZ(c.s)
	return nil
}

// storeHigh writes value AND (high byte of the unindexed address + 1). A
// page crossing replaces the high byte of the target with the stored value.
func (c *CPU) storeHigh(operand uint16, index byte, value byte) error {
	base := operand - uint16(index)
	value &= byte(base>>8) + 1
	if base&0xFF00 != operand&0xFF00 {
		operand = uint16(value)<<8 | operand&0x00FF
	}
	return c.write(operand, value)
}

// SHA - Store A AND X AND (H+1).
func (c *CPU) sha(mode AddressingMode, operand uint16) error {
	return c.storeHigh(operand, c.y, c.a&c.x)
}

// SHX - Store X AND (H+1).
func (c *CPU) shx(mode AddressingMode, operand uint16) error {
	return c.storeHigh(operand, c.y, c.x)
}

// SHY - Store Y AND (H+1).
func (c *CPU) shy(mode AddressingMode, operand uint16) error {
	return c.storeHigh(operand, c.x, c.y)
}

// TAS - S := A AND X, then SHA.
func (c *CPU) tas(mode AddressingMode, operand uint16) error {
	c.s = c.a & c.x
	return c.storeHigh(operand, c.y, c.s)
}

// JAM - Lock up the CPU until reset.
func (c *CPU) jam(mode AddressingMode, operand uint16) error {
	c.halted = true
	c.pc = c.lastPC
	return nil
}
