package m6502

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// CPU emulates the MOS 6502 and the WDC 65C02.
// References:
//   http://www.6502.org/tutorials/6502opcodes.html
//   http://www.6502.org/tutorials/decimal_mode.html
//   http://www.oxyron.de/html/opcodes02.html

const (
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	interruptCycles = 7
)

// registers is everything a failed Step has to put back.
type registers struct {
	a  byte   // Accumulator register
	x  byte   // Index register
	y  byte   // Index register
	s  byte   // Stack pointer
	pc uint16 // Program counter
	p  status // Processor status flag bits
}

type pendingWrite struct {
	address uint16
	data    byte
}

type CPU struct {
	registers
	bus    *Bus
	family Family

	period  time.Duration // one clock cycle
	cycles  uint64
	elapsed time.Duration

	lastPC     uint16
	lastOpcode byte
	executed   bool // the last Step ran an opcode
	waiting    bool // WAI
	halted     bool // STP or JAM

	// Per step scratch.
	inst     *Instruction
	extra    int    // cycles on top of inst.Cycles
	target   uint16 // branch target for ZeroPageRelative
	serviced uint16 // vector of the interrupt taken by this step
	writes   [4]pendingWrite
	nwrites  int
}

// NewCPU creates a CPU wired to bus. Call Reset before stepping.
func NewCPU(bus *Bus, family Family) *CPU {
	return &CPU{bus: bus, family: family}
}

// Reset performs the reset sequence: registers to their power-on values, PC
// loaded from the reset vector and the cycle count back to zero. Memory is
// left alone.
func (c *CPU) Reset() error {
	pc, err := c.bus.Read16(resetVector, true)
	if err != nil {
		return errors.Wrap(err, "reading reset vector")
	}
	c.a, c.x, c.y = 0, 0, 0
	c.s = 0xFF
	c.p = status{}
	c.p.decodeFrom(FlagUnused | FlagInterrupt)
	c.pc = pc
	c.lastPC, c.lastOpcode = 0, 0
	c.executed = false
	c.waiting = false
	c.halted = false
	c.nwrites = 0
	c.cycles = 0
	c.elapsed = 0
	glog.V(1).Infof("CPU reset: family=%s, PC=0x%04x", c.family, c.pc)
	return nil
}

// SetProgramCounter moves execution to pc.
func (c *CPU) SetProgramCounter(pc uint16) {
	c.pc = pc
}

// ProgramCounter returns the current PC.
func (c *CPU) ProgramCounter() uint16 {
	return c.pc
}

// SetClockPeriod sets the emulated duration of one cycle. Zero means the
// cycle count is tracked without emulated time.
func (c *CPU) SetClockPeriod(d time.Duration) {
	c.period = d
}

func (c *CPU) ClockPeriod() time.Duration { return c.period }

// Cycles returns the cycles executed since the last reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// ElapsedTime returns the emulated time those cycles took.
func (c *CPU) ElapsedTime() time.Duration { return c.elapsed }

// SetBehavior switches the instruction set. It takes effect at the next
// decode.
func (c *CPU) SetBehavior(f Family) {
	c.family = f
}

func (c *CPU) Behavior() Family { return c.family }

// Halted reports whether STP or a JAM opcode stopped the CPU.
func (c *CPU) Halted() bool { return c.halted }

// Waiting reports whether WAI is parking the CPU.
func (c *CPU) Waiting() bool { return c.waiting }

// Bus returns the bus the CPU is attached to.
func (c *CPU) Bus() *Bus { return c.bus }

func (c *CPU) read(address uint16) (byte, error) {
	return c.bus.Read(address, true)
}

// read16Wrap reads a word whose high byte comes from the same page.
func (c *CPU) read16Wrap(address uint16) (uint16, error) {
	l, err := c.read(address)
	if err != nil {
		return 0, err
	}
	h, err := c.read(address&0xFF00 | uint16(byte(address)+1))
	if err != nil {
		return 0, err
	}
	return uint16(h)<<8 | uint16(l), nil
}

// write buffers a write until the step commits.
func (c *CPU) write(address uint16, data byte) error {
	if c.nwrites == len(c.writes) {
		return errors.Errorf("too many writes in one step at PC=0x%04x", c.lastPC)
	}
	c.writes[c.nwrites] = pendingWrite{address, data}
	c.nwrites++
	return nil
}

func (c *CPU) flush() error {
	n := c.nwrites
	c.nwrites = 0
	for _, w := range c.writes[:n] {
		if err := c.bus.Write(w.address, w.data); err != nil {
			return err
		}
	}
	return nil
}

// setN sets whether the x is negative or positive.
func (c *CPU) setN(x byte) {
	c.p.n = x&0x80 != 0
}

// setZ sets whether the x is 0 or not.
func (c *CPU) setZ(x byte) {
	c.p.z = x == 0
}

func (c *CPU) setNZ(x byte) {
	c.setN(x)
	c.setZ(x)
}

// push pushes data to stack.
// "With the 6502, the stack is always on page one ($100-$1FF) and works top down."
func (c *CPU) push(x byte) error {
	if err := c.write(0x100|uint16(c.s), x); err != nil {
		return err
	}
	c.s--
	return nil
}

func (c *CPU) push16(x uint16) error {
	if err := c.push(byte(x >> 8)); err != nil {
		return err
	}
	return c.push(byte(x))
}

// pop pops data from stack.
func (c *CPU) pop() (byte, error) {
	c.s++
	return c.read(0x100 | uint16(c.s))
}

func (c *CPU) pop16() (uint16, error) {
	l, err := c.pop()
	if err != nil {
		return 0, err
	}
	h, err := c.pop()
	if err != nil {
		return 0, err
	}
	return uint16(h)<<8 | uint16(l), nil
}

// interrupt pushes PC and status and jumps through vector. brk selects the
// B bit of the pushed status.
func (c *CPU) interrupt(vector uint16, brk bool) error {
	if err := c.push16(c.pc); err != nil {
		return err
	}
	if err := c.push(c.p.encode(brk)); err != nil {
		return err
	}
	c.p.i = true
	if c.family == CMOS65C02 {
		c.p.d = false
	}
	pc, err := c.bus.Read16(vector, true)
	if err != nil {
		return err
	}
	c.pc = pc
	return nil
}

// pendingInterrupt returns the vector of the interrupt to service now, if any.
// NMI wins over IRQ and IRQ is ignored while I is set.
func (c *CPU) pendingInterrupt() (uint16, bool) {
	if c.bus.takeNmi() {
		return nmiVector, true
	}
	if !c.p.i && c.bus.takeIrq() {
		return irqVector, true
	}
	return 0, false
}

// account adds n cycles to the counters.
func (c *CPU) account(n int) {
	c.cycles += uint64(n)
	c.elapsed += time.Duration(n) * c.period
}

// Step executes a single instruction, or services one pending interrupt, and
// returns the cycles it took. A failed step leaves registers and memory as
// they were before it.
func (c *CPU) Step() (int, error) {
	executed := c.executed
	c.executed = false
	if c.halted {
		c.account(1)
		return 1, nil
	}
	if c.waiting {
		if !c.bus.IsIrqAsserted() && !c.bus.IsNmiAsserted() {
			c.account(1)
			return 1, nil
		}
		c.waiting = false
	}
	saved := c.registers
	lastPC, lastOpcode := c.lastPC, c.lastOpcode
	c.nwrites = 0
	c.extra = 0
	c.serviced = 0
	cycles, err := c.step()
	if err == nil {
		err = c.flush()
	}
	if err != nil {
		c.registers = saved
		c.lastPC, c.lastOpcode = lastPC, lastOpcode
		c.executed = executed
		c.nwrites = 0
		// An interrupt that was not serviced stays pending.
		switch c.serviced {
		case nmiVector:
			c.bus.AssertNmi()
		case irqVector:
			c.bus.AssertIrq()
		}
		return 0, err
	}
	c.account(cycles)
	return cycles, nil
}

func (c *CPU) step() (int, error) {
	if vector, ok := c.pendingInterrupt(); ok {
		c.serviced = vector
		if err := c.interrupt(vector, false); err != nil {
			return 0, errors.Wrapf(err, "interrupt 0x%04x", vector)
		}
		return interruptCycles, nil
	}
	opcode, err := c.read(c.pc)
	if err != nil {
		return 0, err
	}
	in := Decode(opcode, c.family)
	if in == nil {
		return 0, &DecodeError{Opcode: opcode, Family: c.family}
	}
	c.inst = in
	c.lastPC = c.pc
	c.lastOpcode = opcode
	c.executed = true
	operand, crossed, err := c.resolve(in)
	if err != nil {
		return 0, err
	}
	c.pc += in.Size
	if err := in.execute(c, in.Mode, operand); err != nil {
		return 0, errors.Wrapf(err, "%s at 0x%04x", in.Mnemonic, c.lastPC)
	}
	cycles := in.Cycles + c.extra
	if crossed && in.PageCross {
		cycles++
	}
	return cycles, nil
}

// resolve computes the effective address of in's operand. crossed reports an
// indexed access that moved to another page.
func (c *CPU) resolve(in *Instruction) (operand uint16, crossed bool, err error) {
	pc := c.pc
	switch in.Mode {
	case Implied, Accumulator:
		return 0, false, nil
	case Immediate:
		return pc + 1, false, nil
	case ZeroPage:
		data, err := c.read(pc + 1)
		return uint16(data), false, err
	case ZeroPageX:
		data, err := c.read(pc + 1)
		// If the address exceeds 0xFF (page crossed), back to 0x00
		return uint16(data + c.x), false, err
	case ZeroPageY:
		data, err := c.read(pc + 1)
		return uint16(data + c.y), false, err
	case Relative:
		data, err := c.read(pc + 1)
		return pc + 2 + uint16(int8(data)), false, err
	case Absolute:
		data, err := c.bus.Read16(pc+1, true)
		return data, false, err
	case AbsoluteX:
		data, err := c.bus.Read16(pc+1, true)
		operand = data + uint16(c.x)
		return operand, data&0xFF00 != operand&0xFF00, err
	case AbsoluteY:
		data, err := c.bus.Read16(pc+1, true)
		operand = data + uint16(c.y)
		return operand, data&0xFF00 != operand&0xFF00, err
	case Indirect:
		p, err := c.bus.Read16(pc+1, true)
		if err != nil {
			return 0, false, err
		}
		if in.IndirectPageBug {
			operand, err = c.read16Wrap(p)
		} else {
			operand, err = c.bus.Read16(p, true)
		}
		return operand, false, err
	case IndirectX:
		p, err := c.read(pc + 1)
		if err != nil {
			return 0, false, err
		}
		operand, err = c.read16Wrap(uint16(p + c.x))
		return operand, false, err
	case IndirectY:
		p, err := c.read(pc + 1)
		if err != nil {
			return 0, false, err
		}
		data, err := c.read16Wrap(uint16(p))
		operand = data + uint16(c.y)
		return operand, data&0xFF00 != operand&0xFF00, err
	case ZeroPageIndirect:
		p, err := c.read(pc + 1)
		if err != nil {
			return 0, false, err
		}
		operand, err = c.read16Wrap(uint16(p))
		return operand, false, err
	case AbsoluteIndexedIndirect:
		p, err := c.bus.Read16(pc+1, true)
		if err != nil {
			return 0, false, err
		}
		operand, err = c.bus.Read16(p+uint16(c.x), true)
		return operand, false, err
	case ZeroPageRelative:
		zp, err := c.read(pc + 1)
		if err != nil {
			return 0, false, err
		}
		rel, err := c.read(pc + 2)
		c.target = pc + 3 + uint16(int8(rel))
		return uint16(zp), false, err
	}
	return 0, false, &DecodeError{Opcode: in.Opcode, Family: in.Family}
}

// branch takes a branch to target when cond holds: one extra cycle, and one
// more when target is on another page than the next instruction.
func (c *CPU) branch(cond bool, target uint16) {
	if !cond {
		return
	}
	c.extra++
	if c.pc&0xFF00 != target&0xFF00 {
		c.extra++
	}
	c.pc = target
}

// State returns a snapshot of the registers.
func (c *CPU) State() State {
	return State{
		A:        c.a,
		X:        c.x,
		Y:        c.y,
		SP:       c.s,
		P:        c.p.encode(false),
		PC:       c.pc,
		LastPC:   c.lastPC,
		Opcode:   c.lastOpcode,
		Executed: c.executed,
		Cycles:   c.cycles,
		Family:   c.family,
		Waiting:  c.waiting,
		Halted:   c.halted,
	}
}
