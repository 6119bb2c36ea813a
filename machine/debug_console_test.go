package machine

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jyane/j6502/m6502"
)

func newTestConsole(t *testing.T, program ...byte) (*DebugConsole, *Veronica, *bytes.Buffer) {
	t.Helper()
	v := newTestVeronica(t, unthrottled(), program...)
	var out bytes.Buffer
	return NewDebugConsole(v, strings.NewReader(""), &out), v, &out
}

func TestDebugConsoleStep(t *testing.T) {
	c, v, out := newTestConsole(t, countLoop...)
	if _, err := c.Execute(context.Background(), "s 3"); err != nil {
		t.Fatal(err)
	}
	if s := v.State(); s.PC != 0x0302 || s.X != 1 {
		t.Errorf("after s 3: got %v", s)
	}
	if !strings.Contains(out.String(), "Executed 7 CPU cycles.") {
		t.Errorf("output: got=%q", out.String())
	}
	out.Reset()
	if _, err := c.Execute(context.Background(), "step 2d"); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out.String(), "CPU:  PC="); got != 2 {
		t.Errorf("debug steps printed %d states, want=2", got)
	}
	if _, err := c.Execute(context.Background(), "s x"); err == nil {
		t.Error("s x: got nil error")
	}
}

func TestDebugConsoleBreak(t *testing.T) {
	c, v, out := newTestConsole(t, countLoop...)
	ctx := context.Background()
	for _, line := range []string{"br 0x0305", "br $0302", "br -0302", "br"} {
		if _, err := c.Execute(ctx, line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if got := v.Breakpoints(); len(got) != 1 || got[0] != 0x0305 {
		t.Fatalf("Breakpoints: got=%v", got)
	}
	if !strings.Contains(out.String(), "0x0305\n") {
		t.Errorf("br listing: got=%q", out.String())
	}
	c.Execute(ctx, "s 1000")
	if got := v.ProgramCounter(); got != 0x0305 {
		t.Errorf("step to break: got PC=0x%04x, want=0x0305", got)
	}
	if !strings.Contains(out.String(), "Break at: 0x0305") {
		t.Errorf("output: got=%q", out.String())
	}
	out.Reset()
	if _, err := c.Execute(ctx, "run"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Stopped: halted") {
		t.Errorf("run: got=%q", out.String())
	}
}

func TestDebugConsoleInspect(t *testing.T) {
	c, _, out := newTestConsole(t, 0xA9, 0x42, 0x85, 0x10)
	ctx := context.Background()
	tests := []struct {
		line string
		want string
	}{
		{"dis 0300 2", "0300  A9 42     LDA #$42"},
		{"d", "0302  85 10     STA $10"},
		{"mem 0300 4", "0300: A9 42 85 10"},
		{"p bus", "0xe000-0xe00f VIA"},
		{"p cpu", "PC=0x0300"},
		{"p stack", "0x01ff: 0x00<"},
		{"cpu", "65C02"},
	}
	for _, test := range tests {
		out.Reset()
		if _, err := c.Execute(ctx, test.line); err != nil {
			t.Fatalf("%s: %v", test.line, err)
		}
		if !strings.Contains(out.String(), test.want) {
			t.Errorf("%s: got=%q, want to contain %q", test.line, out.String(), test.want)
		}
	}
	for _, line := range []string{"mem", "mem zz", "dis 0300 0", "p nothing", "bogus"} {
		if _, err := c.Execute(ctx, line); err == nil {
			t.Errorf("%s: got nil error", line)
		}
	}
}

func TestDebugConsoleMachineCommands(t *testing.T) {
	c, v, _ := newTestConsole(t, 0xA9, 0x42, 0x85, 0x10)
	ctx := context.Background()
	c.Execute(ctx, "s 2")
	for _, line := range []string{"cpu nmos", "speed 4", "k 41", "p trace", "reset cold"} {
		if _, err := c.Execute(ctx, line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if s := v.State(); s.Family != m6502.NMOS6502 {
		t.Errorf("cpu nmos: got=%s", s.Family)
	}
	if got := v.VIA().Pending(); got != 0 {
		// reset drops queued keys
		t.Errorf("pending keys after reset: got=%d, want=0", got)
	}
	if got, _ := v.Peek(0x0010, 1); got[0] != 0 {
		t.Errorf("reset cold: got=0x%02x, want=0", got[0])
	}
	for _, line := range []string{"cpu z80", "speed 0", "speed x", "k 100"} {
		if _, err := c.Execute(ctx, line); err == nil {
			t.Errorf("%s: got nil error", line)
		}
	}
}

func TestDebugConsoleScreenshot(t *testing.T) {
	c, _, _ := newTestConsole(t)
	path := filepath.Join(t.TempDir(), "screen.png")
	if _, err := c.Execute(context.Background(), "screenshot "+path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 512 {
		t.Errorf("width: got=%d, want=512", img.Bounds().Dx())
	}
}

func TestDebugConsoleRun(t *testing.T) {
	v := newTestVeronica(t, unthrottled(), 0xEA, 0xEA)
	var out bytes.Buffer
	c := NewDebugConsole(v, strings.NewReader("s\n\nbogus\ns\nq\ns\n"), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := v.ProgramCounter(); got != 0x0302 {
		t.Errorf("PC: got=0x%04x, want=0x0302", got)
	}
	if !strings.Contains(out.String(), "Unknown command bogus") || !strings.Contains(out.String(), "Quitting.") {
		t.Errorf("output: got=%q", out.String())
	}
}
