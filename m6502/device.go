package m6502

// Device is anything that can be addressed on the Bus: memory as well as
// memory-mapped peripherals.
//
// Offsets handed to Read and Write are relative to StartAddress. cpuAccess is
// false for inspection reads (disassembler, memory dumps); devices whose
// registers change state when read must leave that state alone in this case.
type Device interface {
	Read(offset uint16, cpuAccess bool) (byte, error)
	Write(offset uint16, data byte) error
	Reset() error
	StartAddress() uint16
	EndAddress() uint16
	Name() string
}

// Size returns the number of addresses d claims.
func Size(d Device) int {
	return int(d.EndAddress()) - int(d.StartAddress()) + 1
}
