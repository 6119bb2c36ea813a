package machine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/jyane/j6502/devices"
	"github.com/jyane/j6502/m6502"
)

// Stop says why Run returned.
type Stop int

const (
	StopCancelled Stop = iota
	StopBreakpoint
	StopBreak // a BRK executed with HaltOnBreak set
	StopHalted
	StopFault
)

func (s Stop) String() string {
	switch s {
	case StopCancelled:
		return "cancelled"
	case StopBreakpoint:
		return "breakpoint"
	case StopBreak:
		return "BRK"
	case StopHalted:
		return "halted"
	case StopFault:
		return "fault"
	}
	return "unknown"
}

// slice is how much emulated time Run executes per wall clock tick.
const slice = 10 * time.Millisecond

const opBRK = 0x00

// Veronica is blondihack's 6502 homebrew computer: 64KB of RAM, a 4KB ROM
// at the top of memory, a text GPU and a VIA with a keyboard on port A.
type Veronica struct {
	mu          sync.Mutex
	cfg         Config
	bus         *m6502.Bus
	cpu         *m6502.CPU
	ram         *m6502.Memory
	rom         *m6502.Memory
	gpu         *devices.GPU
	via         *devices.VIA
	trace       *TraceLog
	breakpoints map[uint16]bool
}

// New builds a Veronica without a ROM.
func New(cfg Config) (*Veronica, error) {
	bus, err := m6502.NewBus(BusStart, BusEnd)
	if err != nil {
		return nil, err
	}
	ram, err := m6502.NewRAM(BusStart, BusEnd)
	if err != nil {
		return nil, err
	}
	cpu := m6502.NewCPU(bus, cfg.Family)
	cpu.SetClockPeriod(cfg.ClockPeriod)
	v := &Veronica{
		cfg:         cfg,
		bus:         bus,
		cpu:         cpu,
		ram:         ram,
		gpu:         devices.NewGPU(devices.GPUAddress, cpu),
		via:         devices.NewVIA(VIAStart, bus, cfg.KeyRate),
		trace:       NewTraceLog(cfg.TraceSize),
		breakpoints: make(map[uint16]bool),
	}
	// RAM sits underneath everything else.
	if err := bus.Register(ram, 0); err != nil {
		return nil, err
	}
	if err := bus.Register(v.gpu, 1); err != nil {
		return nil, err
	}
	if err := bus.Register(v.via, 1); err != nil {
		return nil, err
	}
	if err := v.Reset(false); err != nil {
		return nil, err
	}
	return v, nil
}

// SetROM replaces the ROM. rom must be read-only and cover exactly
// [ROMStart, ROMEnd]. On failure the previous ROM stays mapped.
func (v *Veronica) SetROM(rom *m6502.Memory) error {
	if err := checkROM(rom); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	rom.SetStrict(v.cfg.StrictROM)
	old := v.rom
	if old != nil {
		v.bus.Unregister(old)
	}
	if err := v.bus.Register(rom, 1); err != nil {
		err = errors.Wrap(err, "mapping ROM")
		if old != nil {
			if rerr := v.bus.Register(old, 1); rerr != nil {
				return m6502.ErrorSet{err, errors.Wrap(rerr, "restoring previous ROM")}
			}
		}
		return err
	}
	v.rom = rom
	glog.Infof("Mapped %v", rom)
	return nil
}

func checkROM(rom *m6502.Memory) error {
	start, end := int(rom.StartAddress()), int(rom.EndAddress())
	if !rom.ReadOnly() {
		return &m6502.RangeError{Name: rom.Name(), Start: start, End: end, Msg: "not a ROM"}
	}
	if size := end - start + 1; size != ROMEnd-ROMStart+1 {
		return &m6502.SizeMismatchError{Want: ROMEnd - ROMStart + 1, Got: size}
	}
	if start != ROMStart {
		return &m6502.RangeError{Name: rom.Name(), Start: start, End: end, Msg: "ROM must be mapped at 0xf000"}
	}
	return nil
}

// LoadROMFile maps the ROM image at path. The image must be exactly 4KB.
func (v *Veronica) LoadROMFile(path string) error {
	rom, err := m6502.LoadROMFile(ROMStart, ROMEnd, path)
	if err != nil {
		return err
	}
	return v.SetROM(rom)
}

// LoadProgram writes program to memory at start, resets the CPU and points
// it at start. Memory is not cleared.
func (v *Veronica) LoadProgram(program []byte, start uint16) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := m6502.LoadProgram(v.bus, start, program); err != nil {
		return err
	}
	glog.Infof("Loaded %d bytes at address 0x%04x", len(program), start)
	if err := v.cpu.Reset(); err != nil {
		return err
	}
	v.cpu.SetProgramCounter(start)
	return nil
}

// Reset resets the devices and then the CPU. A cold reset also clears RAM.
func (v *Veronica) Reset(cold bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cold {
		v.ram.Fill(0)
	}
	v.bus.ClearIrq()
	v.bus.ClearNmi()
	var errs m6502.ErrorSet
	errs.Append(v.bus.ResetDevices(), v.cpu.Reset())
	v.trace.Reset()
	if err := errs.Err(); err != nil {
		return err
	}
	glog.V(1).Infof("Veronica reset (cold=%t)", cold)
	return nil
}

// Step executes one instruction and records the resulting state.
func (v *Veronica) Step() (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.step()
}

func (v *Veronica) step() (int, error) {
	cycles, err := v.cpu.Step()
	if err != nil {
		return 0, err
	}
	v.trace.Append(v.cpu.State())
	return cycles, nil
}

// shouldStop is checked after every step, so Run always makes progress even
// when started on a breakpoint.
func (v *Veronica) shouldStop() (Stop, bool) {
	switch {
	case v.cpu.Halted():
		return StopHalted, true
	case v.breakpoints[v.cpu.ProgramCounter()]:
		return StopBreakpoint, true
	case v.cfg.HaltOnBreak && v.stoppedOnBreak():
		return StopBreak, true
	}
	return 0, false
}

// stoppedOnBreak reports whether the last step executed a BRK. Interrupt
// service and idle steps leave the opcode of an earlier instruction behind.
func (v *Veronica) stoppedOnBreak() bool {
	s := v.cpu.State()
	return s.Executed && s.Opcode == opBRK
}

// runSlice steps until budget cycles have run or a stop condition hits.
func (v *Veronica) runSlice(budget int) (Stop, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for cycles := 0; cycles < budget; {
		n, err := v.step()
		if err != nil {
			return StopFault, true, err
		}
		cycles += n
		if stop, ok := v.shouldStop(); ok {
			return stop, true, nil
		}
	}
	return 0, false, nil
}

// Run executes until ctx is done, a breakpoint or BRK is reached, the CPU
// halts or a step faults. Throttled runs execute one slice of emulated time
// per tick of wall clock time.
func (v *Veronica) Run(ctx context.Context) (Stop, error) {
	v.via.Start()
	defer v.via.Stop()

	v.mu.Lock()
	period := v.cpu.ClockPeriod()
	v.mu.Unlock()
	budget := 1 << 16
	var tick <-chan time.Time
	if !v.cfg.Unthrottled && period > 0 {
		budget = int(slice / period)
		ticker := time.NewTicker(slice)
		defer ticker.Stop()
		tick = ticker.C
	}
	glog.V(1).Infof("Run: %d cycles per slice", budget)
	for {
		stop, done, err := v.runSlice(budget)
		if done {
			if err != nil {
				glog.Errorf("Run stopped: %v", err)
			} else {
				glog.V(1).Infof("Run stopped: %s at 0x%04x", stop, v.ProgramCounter())
			}
			return stop, err
		}
		if tick == nil {
			select {
			case <-ctx.Done():
				return StopCancelled, nil
			default:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return StopCancelled, nil
		case <-tick:
		}
	}
}

// AddBreakpoint stops Run when the PC reaches address.
func (v *Veronica) AddBreakpoint(address uint16) {
	v.mu.Lock()
	v.breakpoints[address] = true
	v.mu.Unlock()
}

func (v *Veronica) RemoveBreakpoint(address uint16) {
	v.mu.Lock()
	delete(v.breakpoints, address)
	v.mu.Unlock()
}

// Breakpoints returns the breakpoint addresses in ascending order.
func (v *Veronica) Breakpoints() []uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	res := make([]uint16, 0, len(v.breakpoints))
	for a := range v.breakpoints {
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// SetBehavior switches the CPU between the 6502 and 65C02 instruction sets.
func (v *Veronica) SetBehavior(f m6502.Family) {
	v.mu.Lock()
	v.cpu.SetBehavior(f)
	v.mu.Unlock()
	glog.Infof("CPU behavior set to %s", f)
}

// SetSpeed sets the clock to mhz.
func (v *Veronica) SetSpeed(mhz int) error {
	period, err := SpeedPeriod(mhz)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.cpu.SetClockPeriod(period)
	v.mu.Unlock()
	return nil
}

// State returns the CPU registers.
func (v *Veronica) State() m6502.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cpu.State()
}

func (v *Veronica) ProgramCounter() uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cpu.ProgramCounter()
}

// Disassemble disassembles n instructions from address without side effects.
func (v *Veronica) Disassemble(address uint16, n int) ([]m6502.Disassembly, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	res := make([]m6502.Disassembly, 0, n)
	for i := 0; i < n; i++ {
		d, err := v.cpu.Disassemble(address)
		if err != nil {
			return res, err
		}
		res = append(res, d)
		address = d.Next()
	}
	return res, nil
}

// Peek reads n bytes from address without side effects. Addresses wrap.
func (v *Veronica) Peek(address uint16, n int) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	res := make([]byte, n)
	for i := range res {
		b, err := v.bus.Read(address+uint16(i), false)
		if err != nil {
			return nil, err
		}
		res[i] = b
	}
	return res, nil
}

// Mappings returns the devices on the bus.
func (v *Veronica) Mappings() []m6502.Mapping {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bus.Devices()
}

func (v *Veronica) GPU() *devices.GPU  { return v.gpu }
func (v *Veronica) VIA() *devices.VIA  { return v.via }
func (v *Veronica) Trace() *TraceLog   { return v.trace }
func (v *Veronica) ROM() *m6502.Memory { return v.rom }
func (v *Veronica) RAM() *m6502.Memory { return v.ram }
func (v *Veronica) Config() Config     { return v.cfg }
