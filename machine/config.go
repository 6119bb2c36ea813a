// Package machine assembles the Veronica computer from the m6502 core and
// its peripherals, and drives it.
package machine

import (
	"fmt"
	"time"

	"github.com/jyane/j6502/devices"
	"github.com/jyane/j6502/m6502"
)

// Memory map of the Veronica.
const (
	BusStart = 0x0000
	BusEnd   = 0xFFFF
	ROMStart = 0xF000
	ROMEnd   = 0xFFFF
	VIAStart = 0xE000
)

// DefaultLoadAddress is where programs are loaded when none is given.
const DefaultLoadAddress = 0x0300

// DefaultTraceSize is the number of states kept by the trace log.
const DefaultTraceSize = 256

// clockPeriods[n] is the clock period for a speed of n MHz.
var clockPeriods = [...]time.Duration{0, 1000, 500, 333, 250, 200, 167, 143, 125}

// MaxSpeed is the fastest selectable clock in MHz.
const MaxSpeed = len(clockPeriods) - 1

// SpeedPeriod returns the clock period for a speed in MHz.
func SpeedPeriod(mhz int) (time.Duration, error) {
	if mhz < 1 || mhz > MaxSpeed {
		return 0, fmt.Errorf("speed must be between 1 and %d MHz, got %d", MaxSpeed, mhz)
	}
	return clockPeriods[mhz] * time.Nanosecond, nil
}

// Config holds everything needed to build a Veronica.
type Config struct {
	Family      m6502.Family
	ClockPeriod time.Duration
	// Unthrottled runs as fast as the host allows.
	Unthrottled bool
	// StrictROM turns writes to ROM into faults instead of dropping them.
	StrictROM bool
	// HaltOnBreak stops Run once a BRK has executed and vectored.
	HaltOnBreak bool
	TraceSize   int
	KeyRate     time.Duration
}

// DefaultConfig returns a 1MHz 65C02 Veronica.
func DefaultConfig() Config {
	return Config{
		Family:      m6502.CMOS65C02,
		ClockPeriod: clockPeriods[1] * time.Nanosecond,
		TraceSize:   DefaultTraceSize,
		KeyRate:     devices.DefaultKeyRate,
	}
}
