package machine

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/jyane/j6502/devices"
	"github.com/jyane/j6502/m6502"
)

func newTestVeronica(t *testing.T, cfg Config, program ...byte) *Veronica {
	t.Helper()
	v, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.LoadProgram(program, DefaultLoadAddress); err != nil {
		t.Fatal(err)
	}
	return v
}

func unthrottled() Config {
	cfg := DefaultConfig()
	cfg.Unthrottled = true
	return cfg
}

func newROM(t *testing.T, fill byte) *m6502.Memory {
	t.Helper()
	rom, err := m6502.NewROM(ROMStart, ROMEnd, bytes.NewReader(bytes.Repeat([]byte{fill}, ROMEnd-ROMStart+1)))
	if err != nil {
		t.Fatal(err)
	}
	return rom
}

func TestSpeedPeriod(t *testing.T) {
	tests := []struct {
		mhz  int
		want time.Duration
		ok   bool
	}{
		{1, time.Microsecond, true},
		{2, 500 * time.Nanosecond, true},
		{8, 125 * time.Nanosecond, true},
		{0, 0, false},
		{9, 0, false},
	}
	for _, test := range tests {
		got, err := SpeedPeriod(test.mhz)
		if (err == nil) != test.ok || got != test.want {
			t.Errorf("SpeedPeriod(%d): got=%v, %v, want=%v", test.mhz, got, err, test.want)
		}
	}
}

func TestNewMemoryMap(t *testing.T) {
	v, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		address uint16
		want    string
	}{
		{0x0000, "RAM"},
		{0xDFFF, "RAM"},
		{0xE000, "VIA"},
		{0xE00F, "VIA"},
		{0xE010, "RAM"},
		{0xEFFF, "GPU"},
		{0xF000, "RAM"},
	}
	for _, test := range tests {
		if got := v.bus.DeviceAt(test.address).Name(); got != test.want {
			t.Errorf("0x%04x: got=%s, want=%s", test.address, got, test.want)
		}
	}
	if got := v.State().Family; got != m6502.CMOS65C02 {
		t.Errorf("family: got=%s, want=65C02", got)
	}
}

func TestSetROM(t *testing.T) {
	v, _ := New(DefaultConfig())
	first := newROM(t, 0xEA)
	if err := v.SetROM(first); err != nil {
		t.Fatal(err)
	}
	second := newROM(t, 0x60)
	if err := v.SetROM(second); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Peek(0xF123, 1); got[0] != 0x60 {
		t.Errorf("after swap: got=0x%02x, want=0x60", got[0])
	}
	if len(v.Mappings()) != 4 {
		t.Errorf("mappings: got=%d, want=4", len(v.Mappings()))
	}
	// Writes to ROM are dropped.
	v.LoadProgram([]byte{0x00}, 0xF000)
	if got, _ := v.Peek(0xF000, 1); got[0] != 0x60 {
		t.Errorf("ROM write: got=0x%02x, want=0x60", got[0])
	}
}

func TestSetROMRejectsWrongBlock(t *testing.T) {
	v, _ := New(DefaultConfig())
	rom := newROM(t, 0xEA)
	if err := v.SetROM(rom); err != nil {
		t.Fatal(err)
	}
	ram, _ := m6502.NewRAM(0x0000, 0x00FF)
	window, _ := m6502.NewRAM(ROMStart, ROMEnd)
	small, _ := m6502.NewROM(0xF800, 0xFFFF, bytes.NewReader(make([]byte, 0x0800)))
	shifted, _ := m6502.NewROM(0xE000, 0xEFFF, bytes.NewReader(make([]byte, 0x1000)))
	tests := []struct {
		name     string
		rom      *m6502.Memory
		mismatch bool
	}{
		{"RAM", ram, false},
		{"RAM over the ROM window", window, false},
		{"small ROM", small, true},
		{"shifted ROM", shifted, false},
	}
	for _, test := range tests {
		err := v.SetROM(test.rom)
		var sme *m6502.SizeMismatchError
		var re *m6502.RangeError
		switch {
		case test.mismatch && !errors.As(err, &sme):
			t.Errorf("%s: got err=%v, want *SizeMismatchError", test.name, err)
		case !test.mismatch && !errors.As(err, &re):
			t.Errorf("%s: got err=%v, want *RangeError", test.name, err)
		}
		if v.ROM() != rom {
			t.Errorf("%s: ROM replaced by %v", test.name, v.ROM())
		}
		if got, _ := v.Peek(0xF000, 1); got[0] != 0xEA {
			t.Errorf("%s: old ROM: got=0x%02x, want=0xea", test.name, got[0])
		}
	}
}

func TestLoadROMFileSizeMismatch(t *testing.T) {
	v, _ := New(DefaultConfig())
	v.SetROM(newROM(t, 0xEA))
	path := t.TempDir() + "/short.rom"
	if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	err := v.LoadROMFile(path)
	var sme *m6502.SizeMismatchError
	if !errors.As(err, &sme) || sme.Want != 4096 || sme.Got != 100 {
		t.Fatalf("LoadROMFile: got=%v, want size mismatch 4096/100", err)
	}
	if got, _ := v.Peek(0xF000, 1); got[0] != 0xEA {
		t.Errorf("old ROM: got=0x%02x, want=0xea", got[0])
	}
}

func TestResetCold(t *testing.T) {
	v := newTestVeronica(t, DefaultConfig(), 0xA9, 0x42, 0x85, 0x10) // LDA #$42; STA $10
	v.Step()
	v.Step()
	if got, _ := v.Peek(0x0010, 1); got[0] != 0x42 {
		t.Fatalf("STA: got=0x%02x, want=0x42", got[0])
	}
	if v.Trace().Len() != 2 {
		t.Errorf("trace: got=%d, want=2", v.Trace().Len())
	}
	if err := v.Reset(false); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Peek(0x0010, 1); got[0] != 0x42 {
		t.Errorf("warm reset cleared RAM")
	}
	if v.Trace().Len() != 0 {
		t.Errorf("trace after reset: got=%d, want=0", v.Trace().Len())
	}
	if err := v.Reset(true); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Peek(0x0010, 1); got[0] != 0x00 {
		t.Errorf("cold reset: got=0x%02x, want=0", got[0])
	}
}

func TestResetVector(t *testing.T) {
	v, _ := New(DefaultConfig())
	rom := newROM(t, 0xEA)
	rom.Load(0x0FFC, []byte{0x00, 0xF8})
	v.SetROM(rom)
	if err := v.Reset(false); err != nil {
		t.Fatal(err)
	}
	if got := v.ProgramCounter(); got != 0xF800 {
		t.Errorf("PC: got=0x%04x, want=0xf800", got)
	}
}

// LDX #0; INX; BNE -3; STP
var countLoop = []byte{0xA2, 0x00, 0xE8, 0xD0, 0xFD, 0xDB}

func TestRunBreakpointAndHalt(t *testing.T) {
	v := newTestVeronica(t, unthrottled(), countLoop...)
	v.AddBreakpoint(0x0305)
	stop, err := v.Run(context.Background())
	if err != nil || stop != StopBreakpoint {
		t.Fatalf("Run: got=%s, %v, want=breakpoint", stop, err)
	}
	s := v.State()
	if s.PC != 0x0305 || s.X != 0 {
		t.Errorf("at breakpoint: got %v", s)
	}
	// Resuming from a breakpoint executes it.
	stop, err = v.Run(context.Background())
	if err != nil || stop != StopHalted {
		t.Fatalf("Run: got=%s, %v, want=halted", stop, err)
	}
	if got := v.Breakpoints(); len(got) != 1 || got[0] != 0x0305 {
		t.Errorf("Breakpoints: got=%v", got)
	}
	v.RemoveBreakpoint(0x0305)
	if got := v.Breakpoints(); len(got) != 0 {
		t.Errorf("Breakpoints after remove: got=%v", got)
	}
}

func TestRunHaltOnBreak(t *testing.T) {
	cfg := unthrottled()
	cfg.HaltOnBreak = true
	v := newTestVeronica(t, cfg, 0xA9, 0x01, 0x00) // LDA #1; BRK
	stop, err := v.Run(context.Background())
	if err != nil || stop != StopBreak {
		t.Fatalf("Run: got=%s, %v, want=BRK", stop, err)
	}
	if s := v.State(); s.LastPC != 0x0302 || s.Opcode != 0x00 {
		t.Errorf("after BRK: got %v", s)
	}
}

func TestRunHaltOnBreakIgnoresInterrupts(t *testing.T) {
	cfg := unthrottled()
	cfg.HaltOnBreak = true
	v, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	v.LoadProgram([]byte{0x00, 0x03}, 0xFFFA)
	v.LoadProgram([]byte{0xEA, 0xEA, 0xDB}, 0x0300) // NOP; NOP; STP
	// The first step services the NMI; reset leaves opcode 0x00 behind.
	v.bus.AssertNmi()
	stop, err := v.Run(context.Background())
	if err != nil || stop != StopHalted {
		t.Fatalf("Run: got=%s, %v, want=halted", stop, err)
	}
	if s := v.State(); s.LastPC != 0x0302 || s.Opcode != 0xDB {
		t.Errorf("after STP: got %v", s)
	}
}

func TestRunFault(t *testing.T) {
	cfg := unthrottled()
	cfg.StrictROM = true
	v := newTestVeronica(t, cfg, 0xA9, 0x01, 0x8D, 0x00, 0xF0) // LDA #1; STA $F000
	v.SetROM(newROM(t, 0xEA))
	stop, err := v.Run(context.Background())
	var ae *m6502.AccessError
	if stop != StopFault || !errors.As(err, &ae) {
		t.Fatalf("Run: got=%s, %v, want access fault", stop, err)
	}
	if s := v.State(); s.PC != 0x0302 || s.A != 0x01 {
		t.Errorf("after fault: got %v, want PC at the STA", s)
	}
}

func TestRunThrottled(t *testing.T) {
	v := newTestVeronica(t, DefaultConfig(), 0x4C, 0x00, 0x03) // JMP $0300
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	stop, err := v.Run(ctx)
	if err != nil || stop != StopCancelled {
		t.Fatalf("Run: got=%s, %v, want=cancelled", stop, err)
	}
	cycles := v.State().Cycles
	// 1MHz for 50ms is 50000 cycles; allow for a slow host but not for
	// running free.
	limit := uint64(time.Since(start)/time.Microsecond) + 2*uint64(slice/time.Microsecond)
	if cycles == 0 || cycles > limit {
		t.Errorf("cycles: got=%d, want between 1 and %d", cycles, limit)
	}
}

func TestKeyboardInterrupt(t *testing.T) {
	// Main loop spins; the handler copies ORA to $10 and returns.
	program := []byte{
		0x58,             // 0300 CLI
		0x4C, 0x01, 0x03, // 0301 JMP $0301
		0xAD, 0x01, 0xE0, // 0304 LDA $E001
		0x85, 0x10,       // 0307 STA $10
		0x40,             // 0309 RTI
	}
	v, err := New(unthrottled())
	if err != nil {
		t.Fatal(err)
	}
	v.LoadProgram([]byte{0x04, 0x03}, 0xFFFE)
	v.LoadProgram(program, 0x0300)
	v.VIA().KeyPressed(0x41)
	if !v.VIA().Deliver() {
		t.Fatal("Deliver: nothing queued")
	}
	v.AddBreakpoint(0x0309)
	stop, err := v.Run(context.Background())
	if err != nil || stop != StopBreakpoint {
		t.Fatalf("Run: got=%s, %v", stop, err)
	}
	if got, _ := v.Peek(0x0010, 1); got[0] != 0x41 {
		t.Errorf("handler stored 0x%02x, want=0x41", got[0])
	}
	if ifr, _ := v.Peek(0xE000+devices.RegIFR, 1); ifr[0]&devices.IFRCA1 != 0 {
		t.Errorf("IFR: got=0x%02x, want CA1 acknowledged", ifr[0])
	}
}

func TestDisassembleAndPeekHaveNoSideEffects(t *testing.T) {
	v := newTestVeronica(t, DefaultConfig(), 0xAD, 0x01, 0xE0) // LDA $E001
	v.VIA().KeyPressed(0x20)
	v.VIA().Deliver()
	ds, err := v.Disassemble(0x0300, 2)
	if err != nil || len(ds) != 2 || ds[0].Text != "LDA $E001" || ds[1].Address != 0x0303 {
		t.Fatalf("Disassemble: got=%v, %v", ds, err)
	}
	v.Peek(0xE000, 16)
	if ifr, _ := v.Peek(0xE000+devices.RegIFR, 1); ifr[0]&devices.IFRCA1 == 0 {
		t.Error("inspection read acknowledged the key interrupt")
	}
	if v.State().Cycles != 0 {
		t.Error("Disassemble counted cycles")
	}
}

func TestSetBehaviorAndSpeed(t *testing.T) {
	v := newTestVeronica(t, DefaultConfig(), 0x1A) // INC A on 65C02, NOP on 6502
	v.SetBehavior(m6502.NMOS6502)
	v.Step()
	if s := v.State(); s.A != 0 || s.Family != m6502.NMOS6502 {
		t.Errorf("6502 0x1A: got %v", s)
	}
	if err := v.SetSpeed(2); err != nil {
		t.Fatal(err)
	}
	if err := v.SetSpeed(20); err == nil {
		t.Error("SetSpeed(20): got nil error")
	}
}
