// Package devices implements the memory-mapped peripherals of the Veronica
// computer.
package devices

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/jyane/j6502/m6502"
)

// VIA register offsets.
const (
	RegORB   = iota // output register B
	RegORA          // output register A, keyboard code
	RegDDRB         // data direction B
	RegDDRA         // data direction A
	RegT1CL         // timer 1 counter
	RegT1CH
	RegT1LL // timer 1 latch
	RegT1LH
	RegT2CL // timer 2 counter
	RegT2CH
	RegSR   // shift register
	RegACR  // auxiliary control
	RegPCR  // peripheral control
	RegIFR  // interrupt flags
	RegIER  // interrupt enable
	RegORAH // ORA without handshake

	viaSize
)

// IFRCA1 is the interrupt flag raised when a key code lands in ORA.
const IFRCA1 = 0x02

// KeyRelease prefixes the code of a released key, as on a PS/2 keyboard.
const KeyRelease = 0xF0

// DefaultKeyRate spaces key codes out so the CPU can take an IRQ for each.
const DefaultKeyRate = 15 * time.Millisecond

// InterruptLine is where the VIA raises its IRQ. *m6502.Bus implements it.
type InterruptLine interface {
	AssertIrq()
}

// VIA is a minimal MOS 6522 whose port A is wired to a keyboard. The
// registers are plain storage; only the keyboard path has behaviour.
type VIA struct {
	start uint16
	line  InterruptLine
	rate  time.Duration

	mu    sync.Mutex
	regs  [viaSize]byte
	queue []byte

	stop chan struct{}
	done chan struct{}
}

var _ m6502.Device = (*VIA)(nil)

// NewVIA creates a VIA at [start, start+15] raising interrupts on line. A
// zero rate means DefaultKeyRate.
func NewVIA(start uint16, line InterruptLine, rate time.Duration) *VIA {
	if rate <= 0 {
		rate = DefaultKeyRate
	}
	return &VIA{start: start, line: line, rate: rate}
}

func (v *VIA) StartAddress() uint16 { return v.start }
func (v *VIA) EndAddress() uint16   { return v.start + viaSize - 1 }
func (v *VIA) Name() string         { return "VIA" }

func (v *VIA) String() string {
	return fmt.Sprintf("MOS 6522 VIA @ 0x%04x", v.start)
}

// Read returns a register. A CPU read of ORA acknowledges the key
// interrupt.
func (v *VIA) Read(offset uint16, cpuAccess bool) (byte, error) {
	if offset >= viaSize {
		return 0, &m6502.AccessError{Name: v.Name(), Address: int(v.start) + int(offset), Msg: "unknown register"}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	data := v.regs[offset]
	if cpuAccess && (offset == RegORA || offset == RegORAH) {
		v.regs[RegIFR] &^= IFRCA1
	}
	return data, nil
}

// Write stores a register.
func (v *VIA) Write(offset uint16, data byte) error {
	if offset >= viaSize {
		return &m6502.AccessError{Name: v.Name(), Address: int(v.start) + int(offset), Write: true, Msg: "unknown register"}
	}
	v.mu.Lock()
	v.regs[offset] = data
	v.mu.Unlock()
	return nil
}

// Reset clears the registers and drops queued keys.
func (v *VIA) Reset() error {
	v.mu.Lock()
	v.regs = [viaSize]byte{}
	v.queue = v.queue[:0]
	v.mu.Unlock()
	return nil
}

// KeyPressed queues the code of a pressed key.
func (v *VIA) KeyPressed(code byte) {
	v.mu.Lock()
	v.queue = append(v.queue, code)
	v.mu.Unlock()
}

// KeyReleased queues KeyRelease followed by code.
func (v *VIA) KeyReleased(code byte) {
	v.mu.Lock()
	v.queue = append(v.queue, KeyRelease, code)
	v.mu.Unlock()
}

// Pending returns the number of queued key codes.
func (v *VIA) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

// Deliver moves the next queued code into ORA, flags CA1 and raises IRQ.
// It reports whether there was a code.
func (v *VIA) Deliver() bool {
	v.mu.Lock()
	if len(v.queue) == 0 {
		v.mu.Unlock()
		return false
	}
	code := v.queue[0]
	v.queue = v.queue[1:]
	v.regs[RegORA] = code
	v.regs[RegIFR] |= IFRCA1
	v.mu.Unlock()
	if glog.V(2) {
		glog.Infof("VIA key code 0x%02x", code)
	}
	v.line.AssertIrq()
	return true
}

// Start delivers queued keys every rate on its own goroutine until Stop.
func (v *VIA) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil {
		return
	}
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go v.poll(v.stop, v.done)
}

// Stop ends delivery and waits for the goroutine to exit.
func (v *VIA) Stop() {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.stop, v.done = nil, nil
	v.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (v *VIA) poll(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(v.rate)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.Deliver()
		}
	}
}
