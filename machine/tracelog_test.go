package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jyane/j6502/m6502"
)

func TestTraceLogRing(t *testing.T) {
	tl := NewTraceLog(3)
	for i := 0; i < 5; i++ {
		tl.Append(m6502.State{PC: uint16(i)})
	}
	states := tl.States()
	if len(states) != 3 || tl.Len() != 3 {
		t.Fatalf("len: got=%d, want=3", len(states))
	}
	for i, s := range states {
		if want := uint16(i + 2); s.PC != want {
			t.Errorf("state %d: got PC=%d, want=%d", i, s.PC, want)
		}
	}
	tl.Reset()
	if tl.Len() != 0 || len(tl.States()) != 0 {
		t.Errorf("after Reset: got=%d states", tl.Len())
	}
}

func TestTraceLogDisabled(t *testing.T) {
	tl := NewTraceLog(0)
	tl.Append(m6502.State{})
	if tl.Len() != 0 {
		t.Errorf("len: got=%d, want=0", tl.Len())
	}
}

func TestTraceLogWriteTo(t *testing.T) {
	tl := NewTraceLog(4)
	tl.Append(m6502.State{LastPC: 0x0300, Opcode: 0xA9, PC: 0x0302, A: 0x42})
	tl.Append(m6502.State{LastPC: 0x0302, Opcode: 0xEA, PC: 0x0303, A: 0x42})
	var buf bytes.Buffer
	if _, err := tl.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got=%d, want=2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "0300  A9  PC=0x0302, A=0x42") {
		t.Errorf("line 0: got=%q", lines[0])
	}
}
