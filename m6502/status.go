package m6502

// Processor status flag bits.
const (
	FlagCarry     byte = 1 << 0
	FlagZero      byte = 1 << 1
	FlagInterrupt byte = 1 << 2
	FlagDecimal   byte = 1 << 3
	FlagBreak     byte = 1 << 4
	FlagUnused    byte = 1 << 5
	FlagOverflow  byte = 1 << 6
	FlagNegative  byte = 1 << 7
)

// status holds the processor flags. Break and the unused bit only exist on
// the stack, so they are not stored here.
type status struct {
	c bool // carry
	z bool // zero
	i bool // IRQ disable
	d bool // decimal
	v bool // overflow
	n bool // negative
}

// encode encodes the status to a byte. The unused bit always reads as 1;
// brk selects the Break bit, which is set only when BRK or PHP push it.
func (s *status) encode(brk bool) byte {
	res := FlagUnused
	if s.c {
		res |= FlagCarry
	}
	if s.z {
		res |= FlagZero
	}
	if s.i {
		res |= FlagInterrupt
	}
	if s.d {
		res |= FlagDecimal
	}
	if brk {
		res |= FlagBreak
	}
	if s.v {
		res |= FlagOverflow
	}
	if s.n {
		res |= FlagNegative
	}
	return res
}

// decodeFrom decodes a byte to the status. Break and unused are dropped.
func (s *status) decodeFrom(data byte) {
	s.c = data&FlagCarry != 0
	s.z = data&FlagZero != 0
	s.i = data&FlagInterrupt != 0
	s.d = data&FlagDecimal != 0
	s.v = data&FlagOverflow != 0
	s.n = data&FlagNegative != 0
}

// flagString renders p as NV-BDIZC with dots for clear bits.
func flagString(p byte) string {
	b := []byte("NV-BDIZC")
	for i := range b {
		if p&(0x80>>uint(i)) == 0 {
			b[i] = '.'
		}
	}
	return string(b)
}
