package machine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/jyane/j6502/m6502"
)

// DebugConsole drives a Veronica from text commands.
// commands:
//   s, step [n|nd]:
//     execute n steps, printing the CPU after each with the d suffix.
//   p, print [cpu|bus|trace|stack]:
//     print.
//   br, break addr:
//     set a break point. "br -addr" removes it, "br" lists them.
//   d, dis [addr] [n]:
//     disassemble.
//   m, mem addr [n]:
//     dump memory.
//   k, key code:
//     press and release a key.
//   r, reset [cold]:
//     reset.
//   cpu nmos|cmos:
//     switch the instruction set.
//   speed mhz:
//     set the clock speed.
//   run:
//     run until a break point, BRK or halt.
//   screenshot file:
//     write the screen as PNG.
//   q, quit:
//     quit.
type DebugConsole struct {
	v   *Veronica
	in  *bufio.Reader
	out io.Writer
}

var stepArg = regexp.MustCompile(`^([0-9]+)(d?)$`)

// NewDebugConsole reads commands from in and writes to out.
func NewDebugConsole(v *Veronica, in io.Reader, out io.Writer) *DebugConsole {
	return &DebugConsole{v: v, in: bufio.NewReader(in), out: out}
}

// Run reads and executes commands until quit, end of input or ctx is done.
func (c *DebugConsole) Run(ctx context.Context) error {
	for {
		fmt.Fprintf(c.out, "Debugger mode, 'q' to quit \n>> ")
		line, err := c.in.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		quit, cerr := c.Execute(ctx, line)
		if cerr != nil {
			fmt.Fprintln(c.out, cerr)
		}
		if quit || err == io.EOF {
			return nil
		}
	}
}

// Execute runs one command line and reports whether it was quit.
func (c *DebugConsole) Execute(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "s", "step":
		return false, c.stepCommand(args)
	case "p", "print":
		return false, c.printCommand(args)
	case "br", "break":
		return false, c.breakPointCommand(args)
	case "d", "dis":
		return false, c.disCommand(args)
	case "m", "mem":
		return false, c.memCommand(args)
	case "k", "key":
		return false, c.keyCommand(args)
	case "r", "reset":
		cold := len(args) > 1 && args[1] == "cold"
		if err := c.v.Reset(cold); err != nil {
			return false, err
		}
		c.basePrint()
		return false, nil
	case "cpu":
		if len(args) < 2 {
			fmt.Fprintln(c.out, c.v.State().Family)
			return false, nil
		}
		f, err := m6502.ParseFamily(args[1])
		if err != nil {
			return false, err
		}
		c.v.SetBehavior(f)
		return false, nil
	case "speed":
		if len(args) < 2 {
			return false, errors.New("usage: speed mhz")
		}
		mhz, err := strconv.Atoi(args[1])
		if err != nil {
			return false, errors.Wrap(err, "speed")
		}
		return false, c.v.SetSpeed(mhz)
	case "run":
		stop, err := c.v.Run(ctx)
		c.basePrint()
		fmt.Fprintf(c.out, "Stopped: %s\n", stop)
		return false, err
	case "screenshot":
		if len(args) < 2 {
			return false, errors.New("usage: screenshot file")
		}
		return false, c.screenshot(args[1])
	case "q", "quit":
		fmt.Fprintln(c.out, "Quitting.")
		return true, nil
	}
	return false, fmt.Errorf("Unknown command %s", strings.TrimSpace(line))
}

// parseAddress accepts 1234, $1234 and 0x1234, all hexadecimal.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	a, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "bad address %q", s)
	}
	return uint16(a), nil
}

// count parses args[i] as a decimal count, or returns def.
func count(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad count %q", args[i])
	}
	return n, nil
}

func (c *DebugConsole) basePrint() {
	s := c.v.State()
	fmt.Fprintln(c.out, "--------------------------------------------------")
	fmt.Fprintf(c.out, "Executed cycles: %d\n", s.Cycles)
	if d, err := c.v.Disassemble(s.LastPC, 1); err == nil && len(d) > 0 {
		fmt.Fprintf(c.out, "Last: %v\n", d[0])
	}
	fmt.Fprintf(c.out, "CPU:  %v\n", s)
}

func (c *DebugConsole) stepCommand(args []string) error {
	n, debug := 1, false
	if len(args) > 1 {
		m := stepArg.FindStringSubmatch(args[1])
		if m == nil {
			return fmt.Errorf("bad step count %q", args[1])
		}
		n, _ = strconv.Atoi(m[1])
		debug = m[2] == "d"
	}
	total := 0
	for i := 0; i < n; i++ {
		cycles, err := c.v.Step()
		if debug || err != nil {
			c.basePrint() // Print data before it dies.
		}
		if err != nil {
			return err
		}
		total += cycles
		if c.checkBreak() {
			break
		}
	}
	if !debug {
		c.basePrint()
	}
	fmt.Fprintf(c.out, "Executed %d CPU cycles.\n", total)
	return nil
}

func (c *DebugConsole) checkBreak() bool {
	pc := c.v.ProgramCounter()
	for _, b := range c.v.Breakpoints() {
		if b == pc {
			fmt.Fprintf(c.out, "Break at: 0x%04x\n", pc)
			return true
		}
	}
	return false
}

func (c *DebugConsole) printCommand(args []string) error {
	if len(args) < 2 {
		c.basePrint()
		return nil
	}
	switch args[1] {
	case "c", "cpu":
		fmt.Fprintf(c.out, "%+v\n", c.v.State())
	case "b", "bus":
		for _, m := range c.v.Mappings() {
			fmt.Fprintln(c.out, &m)
		}
	case "t", "trace":
		_, err := c.v.Trace().WriteTo(c.out)
		return err
	case "st", "stack":
		return c.printStack()
	default:
		return fmt.Errorf("Unknown print target %s", args[1])
	}
	return nil
}

func (c *DebugConsole) printStack() error {
	data, err := c.v.Peek(0x0100, 256)
	if err != nil {
		return err
	}
	sp := c.v.State().SP
	for i, b := range data {
		mark := " "
		if byte(i) == sp {
			mark = "<"
		}
		fmt.Fprintf(c.out, "0x%04x: 0x%02x%s ", 0x0100|i, b, mark)
		if i%8 == 7 {
			fmt.Fprintln(c.out)
		}
	}
	return nil
}

func (c *DebugConsole) breakPointCommand(args []string) error {
	if len(args) < 2 {
		for _, b := range c.v.Breakpoints() {
			fmt.Fprintf(c.out, "0x%04x\n", b)
		}
		return nil
	}
	if strings.HasPrefix(args[1], "-") {
		a, err := parseAddress(args[1][1:])
		if err != nil {
			return err
		}
		c.v.RemoveBreakpoint(a)
		return nil
	}
	a, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	c.v.AddBreakpoint(a)
	return nil
}

func (c *DebugConsole) disCommand(args []string) error {
	address := c.v.ProgramCounter()
	if len(args) > 1 {
		a, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		address = a
	}
	n, err := count(args, 2, 10)
	if err != nil {
		return err
	}
	ds, err := c.v.Disassemble(address, n)
	for _, d := range ds {
		fmt.Fprintln(c.out, d)
	}
	return err
}

func (c *DebugConsole) memCommand(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: mem addr [n]")
	}
	address, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	n, err := count(args, 2, 16)
	if err != nil {
		return err
	}
	data, err := c.v.Peek(address, n)
	if err != nil {
		return err
	}
	for i := 0; i < len(data); i += 16 {
		end := min(i+16, len(data))
		fmt.Fprintf(c.out, "%04X: % X\n", address+uint16(i), data[i:end])
	}
	return nil
}

func (c *DebugConsole) keyCommand(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: key code")
	}
	code, err := parseAddress(args[1])
	if err != nil || code > 0xFF {
		return fmt.Errorf("bad key code %q", args[1])
	}
	c.v.VIA().KeyPressed(byte(code))
	c.v.VIA().KeyReleased(byte(code))
	return nil
}

func (c *DebugConsole) screenshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.v.GPU().WritePNG(f, 2); err != nil {
		f.Close()
		return err
	}
	glog.Infof("Wrote screenshot to %s", path)
	return f.Close()
}
