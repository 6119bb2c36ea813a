package m6502

import (
	"fmt"

	"github.com/golang/glog"
)

// Memory is a flat block of bytes occupying [start, end] on the bus. It is
// either RAM or, when read-only, ROM.
type Memory struct {
	start    uint16
	end      uint16
	data     []byte
	readOnly bool
	strict   bool // fail ROM writes instead of dropping them
}

var _ Device = (*Memory)(nil)

func newMemory(start, end uint16, readOnly bool) (*Memory, error) {
	if start > end {
		return nil, &RangeError{Name: memoryName(readOnly), Start: int(start), End: int(end), Msg: "start is after end"}
	}
	return &Memory{
		start:    start,
		end:      end,
		data:     make([]byte, int(end)-int(start)+1),
		readOnly: readOnly,
	}, nil
}

// NewRAM creates a read-write memory block covering [start, end].
func NewRAM(start, end uint16) (*Memory, error) {
	return newMemory(start, end, false)
}

func memoryName(readOnly bool) string {
	if readOnly {
		return "ROM"
	}
	return "RAM"
}

// SetStrict decides what a write to ROM does: with strict set it fails with
// an AccessError, otherwise it is dropped.
func (m *Memory) SetStrict(strict bool) {
	m.strict = strict
}

// ReadOnly reports whether m is ROM.
func (m *Memory) ReadOnly() bool {
	return m.readOnly
}

func (m *Memory) StartAddress() uint16 { return m.start }
func (m *Memory) EndAddress() uint16   { return m.end }
func (m *Memory) Name() string         { return memoryName(m.readOnly) }

func (m *Memory) String() string {
	return fmt.Sprintf("%s[0x%04x-0x%04x]", m.Name(), m.start, m.end)
}

// Read reads the byte at offset.
func (m *Memory) Read(offset uint16, cpuAccess bool) (byte, error) {
	if int(offset) >= len(m.data) {
		return 0, m.outOfRange(offset, false)
	}
	return m.data[offset], nil
}

// Write writes data at offset.
func (m *Memory) Write(offset uint16, data byte) error {
	if int(offset) >= len(m.data) {
		return m.outOfRange(offset, true)
	}
	if m.readOnly {
		if m.strict {
			return &AccessError{Name: m.Name(), Address: int(m.start) + int(offset), Write: true, Msg: "read-only memory"}
		}
		if glog.V(2) {
			glog.Infof("Dropped ROM write: address=0x%04x, data=0x%02x", int(m.start)+int(offset), data)
		}
		return nil
	}
	m.data[offset] = data
	return nil
}

func (m *Memory) outOfRange(offset uint16, write bool) error {
	return &AccessError{
		Name:    m.Name(),
		Address: int(m.start) + int(offset),
		Write:   write,
		Msg:     fmt.Sprintf("offset 0x%04x outside 0x%04x-byte region", offset, len(m.data)),
	}
}

// Reset does nothing: memory contents survive every reset. Cold resets clear
// RAM with Fill.
func (m *Memory) Reset() error {
	return nil
}

// Fill overwrites the whole region with b.
func (m *Memory) Fill(b byte) {
	for i := range m.data {
		m.data[i] = b
	}
}

// Load copies data into the region starting at offset. It ignores the
// read-only flag, which is how ROM images get in.
func (m *Memory) Load(offset uint16, data []byte) error {
	if int(offset)+len(data) > len(m.data) {
		return m.outOfRange(uint16(min(int(offset)+len(data)-1, 0xFFFF)), true)
	}
	copy(m.data[offset:], data)
	return nil
}

// Bytes returns a copy of the region.
func (m *Memory) Bytes() []byte {
	b := make([]byte, len(m.data))
	copy(b, m.data)
	return b
}
