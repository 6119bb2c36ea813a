package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jyane/j6502/m6502"
	"github.com/jyane/j6502/machine"
)

var (
	romPath     = flag.String("rom", "", "path to a 4KB ROM image mapped at 0xF000")
	programPath = flag.String("program", "", "path to a program loaded into RAM")
	loadAddress = flag.String("load-address", "0x0300", "address the program is loaded at")
	cpu         = flag.String("cpu", "65c02", "instruction set: 6502 or 65c02")
	speed       = flag.Int("speed", 1, "clock speed in MHz (1-8)")
	unthrottled = flag.Bool("unthrottled", false, "run as fast as possible")
	debug       = flag.Bool("debug", false, "run as debug mode")
	strictROM   = flag.Bool("strict-rom", false, "fault on writes to ROM")
	haltOnBreak = flag.Bool("halt-on-brk", false, "stop when a BRK executes")
	traceSize   = flag.Int("trace", machine.DefaultTraceSize, "number of CPU states kept in the trace log")
	screenshot  = flag.String("screenshot", "", "write the screen as PNG to this file on exit")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	statsAddr   = flag.String("statsview", "", "serve runtime statistics at this address, e.g. localhost:12600")
)

// errStopped ends the terminal host once the machine stops by itself.
var errStopped = errors.New("machine stopped")

func config() (machine.Config, error) {
	cfg := machine.DefaultConfig()
	family, err := m6502.ParseFamily(*cpu)
	if err != nil {
		return cfg, err
	}
	period, err := machine.SpeedPeriod(*speed)
	if err != nil {
		return cfg, err
	}
	cfg.Family = family
	cfg.ClockPeriod = period
	cfg.Unthrottled = *unthrottled
	cfg.StrictROM = *strictROM
	cfg.HaltOnBreak = *haltOnBreak
	cfg.TraceSize = *traceSize
	return cfg, nil
}

func load(v *machine.Veronica) error {
	if *romPath != "" {
		if err := v.LoadROMFile(*romPath); err != nil {
			return err
		}
		if err := v.Reset(true); err != nil {
			return err
		}
	}
	if *programPath == "" {
		return nil
	}
	start, err := strconv.ParseUint(*loadAddress, 0, 16)
	if err != nil {
		return errors.Wrapf(err, "bad load address %q", *loadAddress)
	}
	program, err := os.ReadFile(*programPath)
	if err != nil {
		return err
	}
	return v.LoadProgram(program, uint16(start))
}

func run(ctx context.Context, v *machine.Veronica) error {
	if *debug {
		return machine.NewDebugConsole(v, os.Stdin, os.Stdout).Run(ctx)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stop, err := v.Run(ctx)
		if err != nil {
			return err
		}
		if stop == machine.StopCancelled {
			return nil
		}
		glog.Infof("Stopped: %s, %v", stop, v.State())
		return errStopped
	})
	g.Go(func() error {
		return machine.NewTerminalHost(v.VIA(), os.Stdin).Run(ctx)
	})
	err := g.Wait()
	if err == errStopped || err == machine.ErrInterrupt {
		return nil
	}
	return err
}

func writeScreenshot(v *machine.Veronica, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return v.GPU().WritePNG(f, 2)
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatal("Failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatal("Failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *statsAddr != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(*statsAddr))
			statsview.New().Start()
		}()
		fmt.Fprintf(os.Stderr, "stats server available at %s/debug/statsview\n", *statsAddr)
	}
	cfg, err := config()
	if err != nil {
		glog.Fatalln("Invalid flags: ", err)
	}
	v, err := machine.New(cfg)
	if err != nil {
		glog.Fatalln("Failed to initiate Veronica: ", err)
	}
	if err := load(v); err != nil {
		glog.Fatalln("Failed to load: ", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, v); err != nil {
		glog.Errorf("Veronica stopped: %v", err)
	}
	if *screenshot != "" {
		if err := writeScreenshot(v, *screenshot); err != nil {
			glog.Errorf("Failed to write screenshot: %v", err)
		}
	}
}
