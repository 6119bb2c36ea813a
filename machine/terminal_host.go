package machine

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/jyane/j6502/devices"
)

// ErrInterrupt is returned by TerminalHost.Run when the user types Ctrl-C.
var ErrInterrupt = errors.New("interrupted")

const ctrlC = 0x03

// Keyboard codes for the keys a terminal can send. Letters and digits are
// their upper case ASCII codes.
const (
	KeyBackspace = 0x08
	KeyEnter     = 0x0A
	KeyEscape    = 0x1B
)

// KeyCode maps a byte typed on a terminal to a keyboard code.
func KeyCode(b byte) (byte, bool) {
	switch {
	case b == '\r' || b == '\n':
		return KeyEnter, true
	case b == 0x7F || b == 0x08:
		return KeyBackspace, true
	case b == 0x1B:
		return KeyEscape, true
	case b >= 'a' && b <= 'z':
		return b - 'a' + 'A', true
	case b >= ' ' && b < 0x7F:
		return b, true
	}
	return 0, false
}

// TerminalHost feeds keys typed on a terminal into the VIA keyboard queue.
type TerminalHost struct {
	via *devices.VIA
	in  io.Reader
}

// NewTerminalHost reads keys from in. When in is a terminal it is put in
// raw mode while Run is active.
func NewTerminalHost(via *devices.VIA, in io.Reader) *TerminalHost {
	return &TerminalHost{via: via, in: in}
}

// Run forwards keys until ctx is done, input ends or Ctrl-C is typed. A read
// blocked on the terminal is abandoned when ctx is done.
func (h *TerminalHost) Run(ctx context.Context) error {
	if f, ok := h.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		old, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(err, "setting raw mode")
		}
		defer func() {
			if err := term.Restore(fd, old); err != nil {
				glog.Warningf("Failed to restore terminal: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := make(chan byte)
	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := h.in.Read(buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err == io.EOF {
				return nil
			}
			return err
		case b := <-keys:
			if b == ctrlC {
				return ErrInterrupt
			}
			code, ok := KeyCode(b)
			if !ok {
				glog.V(2).Infof("Ignoring terminal byte 0x%02x", b)
				continue
			}
			h.via.KeyPressed(code)
			h.via.KeyReleased(code)
		}
	}
}
