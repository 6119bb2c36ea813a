package m6502

import (
	"fmt"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// OpenBus is the value read from an address no device claims.
const OpenBus byte = 0x00

const addressSpace = 0x10000

// Mapping describes one registered device.
type Mapping struct {
	Device   Device
	Priority int
	seq      uint64 // registration order, later wins priority ties
}

func (m *Mapping) String() string {
	return fmt.Sprintf("0x%04x-0x%04x %-8s priority=%d",
		m.Device.StartAddress(), m.Device.EndAddress(), m.Device.Name(), m.Priority)
}

// Bus owns the 64KB address space of the CPU. Devices are registered by
// reference; the Bus never owns their storage.
//
// Address space
//   Every address resolves to the claiming device with the highest priority.
//   Equal priorities resolve to the most recently registered device.
//   Unclaimed reads return OpenBus; unclaimed writes are dropped.
//
// The IRQ and NMI lines may be asserted from any goroutine.
type Bus struct {
	start    int
	end      int
	mappings []*Mapping
	lookup   [addressSpace]*Mapping
	seq      uint64

	irq atomic.Bool
	nmi atomic.Bool
}

// NewBus creates a bus spanning [start, end].
func NewBus(start, end int) (*Bus, error) {
	if start < 0 || end >= addressSpace || start > end {
		return nil, &RangeError{Name: "bus", Start: start, End: end, Msg: "invalid bus bounds"}
	}
	return &Bus{start: start, end: end}, nil
}

// StartAddress returns the lowest address on the bus.
func (b *Bus) StartAddress() int { return b.start }

// EndAddress returns the highest address on the bus.
func (b *Bus) EndAddress() int { return b.end }

// Register adds d to the bus at its declared range.
func (b *Bus) Register(d Device, priority int) error {
	start, end := int(d.StartAddress()), int(d.EndAddress())
	switch {
	case start > end:
		return &RangeError{Name: d.Name(), Start: start, End: end, Msg: "start is after end"}
	case start < b.start || end > b.end:
		return &RangeError{Name: d.Name(), Start: start, End: end,
			Msg: fmt.Sprintf("outside bus bounds 0x%04x-0x%04x", b.start, b.end)}
	case b.find(d) >= 0:
		return &RangeError{Name: d.Name(), Start: start, End: end, Msg: "device already registered"}
	}
	b.seq++
	m := &Mapping{Device: d, Priority: priority, seq: b.seq}
	b.mappings = append(b.mappings, m)
	for a := start; a <= end; a++ {
		if cur := b.lookup[a]; cur == nil || outranks(m, cur) {
			b.lookup[a] = m
		}
	}
	glog.V(1).Infof("Registered %v", m)
	return nil
}

// Unregister removes d from the bus. It is a no-op if d is not registered.
func (b *Bus) Unregister(d Device) {
	i := b.find(d)
	if i < 0 {
		return
	}
	m := b.mappings[i]
	b.mappings = append(b.mappings[:i], b.mappings[i+1:]...)
	for a := int(d.StartAddress()); a <= int(d.EndAddress()); a++ {
		if b.lookup[a] == m {
			b.lookup[a] = b.resolve(uint16(a))
		}
	}
	glog.V(1).Infof("Unregistered %v", m)
}

// outranks reports whether a wins an address over b.
func outranks(a, b *Mapping) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.seq > b.seq
}

// resolve scans every mapping for the winner at address.
func (b *Bus) resolve(address uint16) *Mapping {
	var best *Mapping
	for _, m := range b.mappings {
		if address < m.Device.StartAddress() || address > m.Device.EndAddress() {
			continue
		}
		if best == nil || outranks(m, best) {
			best = m
		}
	}
	return best
}

func (b *Bus) find(d Device) int {
	for i, m := range b.mappings {
		if m.Device == d {
			return i
		}
	}
	return -1
}

// Devices returns the current registrations in registration order.
func (b *Bus) Devices() []Mapping {
	res := make([]Mapping, len(b.mappings))
	for i, m := range b.mappings {
		res[i] = *m
	}
	return res
}

// DeviceAt returns the device answering for address, or nil.
func (b *Bus) DeviceAt(address uint16) Device {
	if m := b.lookup[address]; m != nil {
		return m.Device
	}
	return nil
}

// Read reads a byte. cpuAccess is false for inspection reads.
func (b *Bus) Read(address uint16, cpuAccess bool) (byte, error) {
	m := b.lookup[address]
	if m == nil {
		if glog.V(1) {
			glog.Infof("Open bus read: address=0x%04x", address)
		}
		return OpenBus, nil
	}
	data, err := m.Device.Read(address-m.Device.StartAddress(), cpuAccess)
	if err != nil {
		return 0, errors.Wrapf(err, "bus read 0x%04x", address)
	}
	return data, nil
}

// Read16 reads a little-endian word at address and address+1.
func (b *Bus) Read16(address uint16, cpuAccess bool) (uint16, error) {
	l, err := b.Read(address, cpuAccess)
	if err != nil {
		return 0, err
	}
	h, err := b.Read(address+1, cpuAccess)
	if err != nil {
		return 0, err
	}
	return uint16(h)<<8 | uint16(l), nil
}

// Write writes a byte.
func (b *Bus) Write(address uint16, data byte) error {
	m := b.lookup[address]
	if m == nil {
		return nil
	}
	if err := m.Device.Write(address-m.Device.StartAddress(), data); err != nil {
		return errors.Wrapf(err, "bus write 0x%04x", address)
	}
	return nil
}

// ResetDevices resets every registered device.
func (b *Bus) ResetDevices() error {
	var errs ErrorSet
	for _, m := range b.mappings {
		if err := m.Device.Reset(); err != nil {
			errs.Append(errors.Wrapf(err, "%s", m.Device.Name()))
		}
	}
	return errs.Err()
}

// AssertIrq raises the shared interrupt request line.
func (b *Bus) AssertIrq() { b.irq.Store(true) }

// ClearIrq lowers the interrupt request line.
func (b *Bus) ClearIrq() { b.irq.Store(false) }

// IsIrqAsserted reports the state of the interrupt request line.
func (b *Bus) IsIrqAsserted() bool { return b.irq.Load() }

// AssertNmi latches a non-maskable interrupt.
func (b *Bus) AssertNmi() { b.nmi.Store(true) }

// ClearNmi drops a latched non-maskable interrupt.
func (b *Bus) ClearNmi() { b.nmi.Store(false) }

// IsNmiAsserted reports whether a non-maskable interrupt is pending.
func (b *Bus) IsNmiAsserted() bool { return b.nmi.Load() }

// takeIrq consumes a pending IRQ, returning whether there was one.
func (b *Bus) takeIrq() bool { return b.irq.CompareAndSwap(true, false) }

// takeNmi consumes a pending NMI, returning whether there was one.
func (b *Bus) takeNmi() bool { return b.nmi.CompareAndSwap(true, false) }

// LoadProgram writes program to consecutive addresses starting at start.
func LoadProgram(b *Bus, start uint16, program []byte) error {
	addr := start
	for i, data := range program {
		if err := b.Write(addr, data); err != nil {
			return errors.Wrapf(err, "loading program byte %d", i)
		}
		addr++
	}
	return nil
}
