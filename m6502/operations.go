package m6502

// modify applies f to the accumulator or to the byte at operand.
func (c *CPU) modify(mode AddressingMode, operand uint16, f func(byte) byte) (byte, error) {
	if mode == Accumulator {
		c.a = f(c.a)
		return c.a, nil
	}
	x, err := c.read(operand)
	if err != nil {
		return 0, err
	}
	x = f(x)
	if err := c.write(operand, x); err != nil {
		return 0, err
	}
	return x, nil
}

func (c *CPU) shiftLeft(x byte) byte {
	c.p.c = x&0x80 != 0
	return x << 1
}

func (c *CPU) shiftRight(x byte) byte {
	c.p.c = x&0x01 != 0
	return x >> 1
}

func (c *CPU) rotateLeft(x byte) byte {
	in := byte(c.carry())
	c.p.c = x&0x80 != 0
	return x<<1 | in
}

func (c *CPU) rotateRight(x byte) byte {
	in := byte(c.carry()) << 7
	c.p.c = x&0x01 != 0
	return x>>1 | in
}

func (c *CPU) compare(reg byte, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.p.c = reg >= x
	c.setNZ(reg - x)
	return nil
}

// load reads the operand and updates N and Z.
func (c *CPU) load(operand uint16) (byte, error) {
	x, err := c.read(operand)
	if err != nil {
		return 0, err
	}
	c.setNZ(x)
	return x, nil
}

// ADC - Add with Carry.
func (c *CPU) adc(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.add(x)
	return nil
}

// AND - And.
func (c *CPU) and(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a &= x
	c.setNZ(c.a)
	return nil
}

// ASL - Arithmetic Shift Left.
func (c *CPU) asl(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.shiftLeft)
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// BCC - Branch on Carry Clear.
func (c *CPU) bcc(mode AddressingMode, operand uint16) error {
	c.branch(!c.p.c, operand)
	return nil
}

// BCS - Branch on Carry Set.
func (c *CPU) bcs(mode AddressingMode, operand uint16) error {
	c.branch(c.p.c, operand)
	return nil
}

// BEQ - Branch on Equal.
func (c *CPU) beq(mode AddressingMode, operand uint16) error {
	c.branch(c.p.z, operand)
	return nil
}

// BIT - test BITS. The immediate form only touches Z.
func (c *CPU) bit(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.setZ(c.a & x)
	if mode != Immediate {
		c.setN(x)
		c.p.v = x&0x40 != 0
	}
	return nil
}

// BMI - Branch on Minus.
func (c *CPU) bmi(mode AddressingMode, operand uint16) error {
	c.branch(c.p.n, operand)
	return nil
}

// BNE - Branch on Not Equal.
func (c *CPU) bne(mode AddressingMode, operand uint16) error {
	c.branch(!c.p.z, operand)
	return nil
}

// BPL - Branch on Plus.
func (c *CPU) bpl(mode AddressingMode, operand uint16) error {
	c.branch(!c.p.n, operand)
	return nil
}

// BRA - Branch Always.
func (c *CPU) bra(mode AddressingMode, operand uint16) error {
	c.branch(true, operand)
	return nil
}

// BRK - Force Interrupt. The return address skips the padding byte after
// the opcode.
func (c *CPU) brk(mode AddressingMode, operand uint16) error {
	c.pc++
	return c.interrupt(irqVector, true)
}

// BVC - Branch on Overflow Clear.
func (c *CPU) bvc(mode AddressingMode, operand uint16) error {
	c.branch(!c.p.v, operand)
	return nil
}

// BVS - Branch on Overflow Set.
func (c *CPU) bvs(mode AddressingMode, operand uint16) error {
	c.branch(c.p.v, operand)
	return nil
}

// BBR - Branch on Bit Reset.
func (c *CPU) bbr(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.branch(x&(1<<(c.inst.Opcode>>4&7)) == 0, c.target)
	return nil
}

// BBS - Branch on Bit Set.
func (c *CPU) bbs(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.branch(x&(1<<(c.inst.Opcode>>4&7)) != 0, c.target)
	return nil
}

// CLC - Clear Carry.
func (c *CPU) clc(mode AddressingMode, operand uint16) error {
	c.p.c = false
	return nil
}

// CLD - Clear Decimal.
func (c *CPU) cld(mode AddressingMode, operand uint16) error {
	c.p.d = false
	return nil
}

// CLI - Clear Interrupt.
func (c *CPU) cli(mode AddressingMode, operand uint16) error {
	c.p.i = false
	return nil
}

// CLV - Clear Overflow.
func (c *CPU) clv(mode AddressingMode, operand uint16) error {
	c.p.v = false
	return nil
}

// CMP - Compare Accumulator.
func (c *CPU) cmp(mode AddressingMode, operand uint16) error {
	return c.compare(c.a, operand)
}

// CPX - Compare X Register.
func (c *CPU) cpx(mode AddressingMode, operand uint16) error {
	return c.compare(c.x, operand)
}

// CPY - Compare Y Register.
func (c *CPU) cpy(mode AddressingMode, operand uint16) error {
	return c.compare(c.y, operand)
}

// DEC - Decrement Memory, or A on the 65C02.
func (c *CPU) dec(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, func(x byte) byte { return x - 1 })
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// DEX - Decrement X Register.
func (c *CPU) dex(mode AddressingMode, operand uint16) error {
	c.x--
	c.setNZ(c.x)
	return nil
}

// DEY - Decrement Y Register.
func (c *CPU) dey(mode AddressingMode, operand uint16) error {
	c.y--
	c.setNZ(c.y)
	return nil
}

// EOR - Exclusive OR.
func (c *CPU) eor(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a ^= x
	c.setNZ(c.a)
	return nil
}

// INC - Increment Memory, or A on the 65C02.
func (c *CPU) inc(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, func(x byte) byte { return x + 1 })
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// INX - Increment X Register.
func (c *CPU) inx(mode AddressingMode, operand uint16) error {
	c.x++
	c.setNZ(c.x)
	return nil
}

// INY - Increment Y Register.
func (c *CPU) iny(mode AddressingMode, operand uint16) error {
	c.y++
	c.setNZ(c.y)
	return nil
}

// JMP - Jump.
func (c *CPU) jmp(mode AddressingMode, operand uint16) error {
	c.pc = operand
	return nil
}

// JSR - Jump to Subroutine. Pushes the address of its own last byte.
func (c *CPU) jsr(mode AddressingMode, operand uint16) error {
	if err := c.push16(c.pc - 1); err != nil {
		return err
	}
	c.pc = operand
	return nil
}

// LDA - Load Accumulator.
func (c *CPU) lda(mode AddressingMode, operand uint16) error {
	x, err := c.load(operand)
	c.a = x
	return err
}

// LDX - Load X Register.
func (c *CPU) ldx(mode AddressingMode, operand uint16) error {
	x, err := c.load(operand)
	c.x = x
	return err
}

// LDY - Load Y Register.
func (c *CPU) ldy(mode AddressingMode, operand uint16) error {
	x, err := c.load(operand)
	c.y = x
	return err
}

// LSR - Logical Shift Right.
func (c *CPU) lsr(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.shiftRight)
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// NOP - No Operation. Forms with a memory operand still read it.
func (c *CPU) nop(mode AddressingMode, operand uint16) error {
	switch mode {
	case Implied, Accumulator, Immediate:
		return nil
	}
	_, err := c.read(operand)
	return err
}

// ORA - Logical Inclusive OR.
func (c *CPU) ora(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.a |= x
	c.setNZ(c.a)
	return nil
}

// PHA - Push Accumulator.
func (c *CPU) pha(mode AddressingMode, operand uint16) error {
	return c.push(c.a)
}

// PHP - Push Processor Status, with B set.
func (c *CPU) php(mode AddressingMode, operand uint16) error {
	return c.push(c.p.encode(true))
}

// PHX - Push X Register.
func (c *CPU) phx(mode AddressingMode, operand uint16) error {
	return c.push(c.x)
}

// PHY - Push Y Register.
func (c *CPU) phy(mode AddressingMode, operand uint16) error {
	return c.push(c.y)
}

// PLA - Pull Accumulator.
func (c *CPU) pla(mode AddressingMode, operand uint16) error {
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.a = x
	c.setNZ(x)
	return nil
}

// PLP - Pull Processor Status.
func (c *CPU) plp(mode AddressingMode, operand uint16) error {
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.p.decodeFrom(x)
	return nil
}

// PLX - Pull X Register.
func (c *CPU) plx(mode AddressingMode, operand uint16) error {
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.x = x
	c.setNZ(x)
	return nil
}

// PLY - Pull Y Register.
func (c *CPU) ply(mode AddressingMode, operand uint16) error {
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.y = x
	c.setNZ(x)
	return nil
}

// RMB - Reset Memory Bit.
func (c *CPU) rmb(mode AddressingMode, operand uint16) error {
	mask := byte(1) << (c.inst.Opcode >> 4 & 7)
	_, err := c.modify(mode, operand, func(x byte) byte { return x &^ mask })
	return err
}

// ROL - Rotate Left.
func (c *CPU) rol(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.rotateLeft)
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// ROR - Rotate Right.
func (c *CPU) ror(mode AddressingMode, operand uint16) error {
	x, err := c.modify(mode, operand, c.rotateRight)
	if err != nil {
		return err
	}
	c.setNZ(x)
	return nil
}

// RTI - Return from Interrupt.
func (c *CPU) rti(mode AddressingMode, operand uint16) error {
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.p.decodeFrom(x)
	pc, err := c.pop16()
	if err != nil {
		return err
	}
	c.pc = pc
	return nil
}

// RTS - Return from Subroutine.
func (c *CPU) rts(mode AddressingMode, operand uint16) error {
	pc, err := c.pop16()
	if err != nil {
		return err
	}
	c.pc = pc + 1
	return nil
}

// SBC - Subtract with Carry.
func (c *CPU) sbc(mode AddressingMode, operand uint16) error {
	x, err := c.read(operand)
	if err != nil {
		return err
	}
	c.sub(x)
	return nil
}

// SEC - Set Carry.
func (c *CPU) sec(mode AddressingMode, operand uint16) error {
	c.p.c = true
	return nil
}

// SED - Set Decimal.
func (c *CPU) sed(mode AddressingMode, operand uint16) error {
	c.p.d = true
	return nil
}

// SEI - Set Interrupt Disable.
func (c *CPU) sei(mode AddressingMode, operand uint16) error {
	c.p.i = true
	return nil
}

// SMB - Set Memory Bit.
func (c *CPU) smb(mode AddressingMode, operand uint16) error {
	mask := byte(1) << (c.inst.Opcode >> 4 & 7)
	_, err := c.modify(mode, operand, func(x byte) byte { return x | mask })
	return err
}

// STA - Store Accumulator.
func (c *CPU) sta(mode AddressingMode, operand uint16) error {
	return c.write(operand, c.a)
}

// STP - Stop the clock until reset.
func (c *CPU) stp(mode AddressingMode, operand uint16) error {
	c.halted = true
	return nil
}

// STX - Store X Register.
func (c *CPU) stx(mode AddressingMode, operand uint16) error {
	return c.write(operand, c.x)
}

// STY - Store Y Register.
func (c *CPU) sty(mode AddressingMode, operand uint16) error {
	return c.write(operand, c.y)
}

// STZ - Store Zero.
func (c *CPU) stz(mode AddressingMode, operand uint16) error {
	return c.write(operand, 0)
}

// TAX - Transfer Accumulator to X.
func (c *CPU) tax(mode AddressingMode, operand uint16) error {
	c.x = c.a
	c.setNZ(c.x)
	return nil
}

// TAY - Transfer Accumulator to Y.
func (c *CPU) tay(mode AddressingMode, operand uint16) error {
	c.y = c.a
	c.setNZ(c.y)
	return nil
}

// TRB - Test and Reset Bits.
func (c *CPU) trb(mode AddressingMode, operand uint16) error {
	_, err := c.modify(mode, operand, func(x byte) byte {
		c.setZ(c.a & x)
		return x &^ c.a
	})
	return err
}

// TSB - Test and Set Bits.
func (c *CPU) tsb(mode AddressingMode, operand uint16) error {
	_, err := c.modify(mode, operand, func(x byte) byte {
		c.setZ(c.a & x)
		return x | c.a
	})
	return err
}

// TSX - Transfer Stack Pointer to X.
func (c *CPU) tsx(mode AddressingMode, operand uint16) error {
	c.x = c.s
	c.setNZ(c.x)
	return nil
}

// TXA - Transfer X to Accumulator.
func (c *CPU) txa(mode AddressingMode, operand uint16) error {
	c.a = c.x
	c.setNZ(c.a)
	return nil
}

// TXS - Transfer X to Stack Pointer.
func (c *CPU) txs(mode AddressingMode, operand uint16) error {
	c.s = c.x
	return nil
}

// TYA - Transfer Y to Accumulator.
func (c *CPU) tya(mode AddressingMode, operand uint16) error {
	c.a = c.y
	c.setNZ(c.a)
	return nil
}

// WAI - Wait for Interrupt.
func (c *CPU) wai(mode AddressingMode, operand uint16) error {
	c.waiting = true
	return nil
}
