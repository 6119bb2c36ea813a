package machine

import (
	"fmt"
	"io"
	"sync"

	"github.com/jyane/j6502/m6502"
)

// TraceLog keeps the most recent CPU states in a ring.
type TraceLog struct {
	mu     sync.Mutex
	states []m6502.State
	next   int
	full   bool
}

// NewTraceLog creates a trace log holding up to size states. A size below
// one disables tracing.
func NewTraceLog(size int) *TraceLog {
	if size < 0 {
		size = 0
	}
	return &TraceLog{states: make([]m6502.State, size)}
}

// Append records s, dropping the oldest state when full.
func (t *TraceLog) Append(s m6502.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.states) == 0 {
		return
	}
	t.states[t.next] = s
	t.next++
	if t.next == len(t.states) {
		t.next = 0
		t.full = true
	}
}

// Len returns the number of recorded states.
func (t *TraceLog) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return len(t.states)
	}
	return t.next
}

// States returns the recorded states, oldest first.
func (t *TraceLog) States() []m6502.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]m6502.State(nil), t.states[:t.next]...)
	}
	out := make([]m6502.State, 0, len(t.states))
	out = append(out, t.states[t.next:]...)
	return append(out, t.states[:t.next]...)
}

// Reset forgets every recorded state.
func (t *TraceLog) Reset() {
	t.mu.Lock()
	t.next = 0
	t.full = false
	t.mu.Unlock()
}

// WriteTo writes the states, oldest first, one per line.
func (t *TraceLog) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range t.States() {
		n, err := fmt.Fprintf(w, "%04X  %02X  %s\n", s.LastPC, s.Opcode, s)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
