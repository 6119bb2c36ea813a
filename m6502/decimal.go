package m6502

// Decimal mode arithmetic. Results and flags follow
// http://www.6502.org/tutorials/decimal_mode.html: the NMOS part leaves N, V
// and Z as by-products of its binary adder, the 65C02 computes valid N and Z
// at the cost of one cycle.

func (c *CPU) carry() int {
	if c.p.c {
		return 1
	}
	return 0
}

// addBinary adds v and the carry to A.
func (c *CPU) addBinary(v byte) {
	a := c.a
	sum := uint16(a) + uint16(v) + uint16(c.carry())
	res := byte(sum)
	c.p.c = sum > 0xFF
	// checks whether the value overflown by xor.
	c.p.v = (a^res)&(v^res)&0x80 != 0
	c.a = res
	c.setNZ(res)
}

// subBinary subtracts v and the borrow from A.
func (c *CPU) subBinary(v byte) {
	c.addBinary(^v)
}

// addDecimal is ADC with D set. nmos selects the NMOS flag behavior.
func (c *CPU) addDecimal(v byte, nmos bool) {
	a := c.a
	carry := c.carry()
	al := int(a&0x0F) + int(v&0x0F) + carry
	if al >= 0x0A {
		al = ((al + 0x06) & 0x0F) + 0x10
	}
	// N and V come from the signed sum of the adjusted nibbles.
	signed := int(int8(a&0xF0)) + int(int8(v&0xF0)) + al
	sum := int(a&0xF0) + int(v&0xF0) + al
	if sum >= 0xA0 {
		sum += 0x60
	}
	res := byte(sum)
	c.p.c = sum >= 0x100
	c.p.v = signed < -128 || signed > 127
	if nmos {
		c.p.n = byte(signed)&0x80 != 0
		c.p.z = a+v+byte(carry) == 0
	} else {
		c.setNZ(res)
	}
	c.a = res
}

// subDecimal is SBC with D set. C and V always follow the binary
// subtraction; the NMOS part also takes N and Z from it.
func (c *CPU) subDecimal(v byte, nmos bool) {
	a := c.a
	borrow := 1 - c.carry()
	diff := int(a) - int(v) - borrow
	bin := byte(diff)

	al := int(a&0x0F) - int(v&0x0F) - borrow
	var res byte
	if nmos {
		if al < 0 {
			al = ((al - 0x06) & 0x0F) - 0x10
		}
		r := int(a&0xF0) - int(v&0xF0) + al
		if r < 0 {
			r -= 0x60
		}
		res = byte(r)
		c.setNZ(bin)
	} else {
		r := diff
		if r < 0 {
			r -= 0x60
		}
		if al < 0 {
			r -= 0x06
		}
		res = byte(r)
		c.setNZ(res)
	}
	c.p.c = diff >= 0
	c.p.v = (a^v)&(a^bin)&0x80 != 0
	c.a = res
}

// add is the ADC datapath shared by ADC and RRA.
func (c *CPU) add(v byte) {
	switch {
	case !c.p.d:
		c.addBinary(v)
	case c.inst.DecimalCycle:
		c.addDecimal(v, false)
		c.extra++
	default:
		c.addDecimal(v, true)
	}
}

// sub is the SBC datapath shared by SBC and ISC.
func (c *CPU) sub(v byte) {
	switch {
	case !c.p.d:
		c.subBinary(v)
	case c.inst.DecimalCycle:
		c.subDecimal(v, false)
		c.extra++
	default:
		c.subDecimal(v, true)
	}
}
