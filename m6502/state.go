package m6502

import "fmt"

// State is a snapshot of the CPU registers taken between steps.
type State struct {
	A, X, Y  byte
	SP       byte
	P        byte // status as PHP would push it, minus the B bit
	PC       uint16
	LastPC   uint16 // address of the last executed opcode
	Opcode   byte   // last executed opcode
	Executed bool   // the last step ran Opcode rather than an interrupt or idle cycle
	Cycles   uint64
	Family   Family
	Waiting  bool
	Halted   bool
}

// Flag reports whether every bit of f is set in P.
func (s State) Flag(f byte) bool {
	return s.P&f == f
}

func (s State) String() string {
	return fmt.Sprintf("PC=0x%04x, A=0x%02x, X=0x%02x, Y=0x%02x, S=0x%02x, P=%s, CYC=%d",
		s.PC, s.A, s.X, s.Y, s.SP, flagString(s.P), s.Cycles)
}
