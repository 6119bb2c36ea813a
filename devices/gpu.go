package devices

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/jyane/j6502/m6502"
	"golang.org/x/image/draw"
)

// GPUAddress is the single bus address of the Veronica GPU.
const GPUAddress = 0xEFFF

// Screen geometry.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
	TextColumns  = 64
	TextRows     = 30
)

// GPU commands. Each is followed by one argument byte.
const (
	CmdClearScreen = 0x01
	CmdPlotChar    = 0x02
	CmdPlotString  = 0x03
	CmdForeground  = 0x04
	CmdBackground  = 0x05
	CmdCursorX     = 0x06
	CmdCursorY     = 0x07
)

// VGA timing: a 25.175MHz pixel clock, 800 clocks per line, 524 lines per
// frame of which 44 are vertical blank.
const (
	pixelClock  = time.Second / 25175000
	frameTime   = 800 * 524 * pixelClock
	vblankTime  = 800 * 44 * pixelClock
	colourWhite = 0x3F
)

// Clock supplies emulated time. *m6502.CPU implements it.
type Clock interface {
	ElapsedTime() time.Duration
}

// Palette is the GPU's 64 colours: two bits each of red, green and blue.
var Palette = func() color.Palette {
	p := make(color.Palette, 64)
	for i := range p {
		p[i] = color.RGBA{
			R: uint8((i & 0x03) * 255 / 3),
			G: uint8((i >> 2 & 0x03) * 255 / 3),
			B: uint8((i >> 4 & 0x03) * 255 / 3),
			A: 0xFF,
		}
	}
	return p
}()

// GPU is the Veronica text GPU. The CPU drives it by writing a command
// byte and then its argument to one address; reading that address tells
// whether the display is in vertical blank.
type GPU struct {
	address uint16

	mu      sync.Mutex
	clock   Clock
	img     *image.Paletted
	command byte
	fg, bg  byte
	cursorX byte
	cursorY byte
}

var _ m6502.Device = (*GPU)(nil)

// NewGPU creates a GPU at address. clock may be nil until SetClock.
func NewGPU(address uint16, clock Clock) *GPU {
	g := &GPU{
		address: address,
		clock:   clock,
		img:     image.NewPaletted(image.Rect(0, 0, ScreenWidth, ScreenHeight), Palette),
	}
	g.Reset()
	return g
}

// SetClock sets the time source for the blanking status.
func (g *GPU) SetClock(clock Clock) {
	g.mu.Lock()
	g.clock = clock
	g.mu.Unlock()
}

func (g *GPU) StartAddress() uint16 { return g.address }
func (g *GPU) EndAddress() uint16   { return g.address }
func (g *GPU) Name() string         { return "GPU" }

func (g *GPU) String() string {
	return fmt.Sprintf("Veronica GPU @ 0x%04x", g.address)
}

// Reset clears the screen to white and restores the default colours.
func (g *GPU) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fill(colourWhite)
	g.command = 0
	g.cursorX, g.cursorY = 0, 0
	g.fg, g.bg = 0x00, colourWhite
	return nil
}

// Read returns 0xFF during vertical blank and 0x00 otherwise.
func (g *GPU) Read(offset uint16, cpuAccess bool) (byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var now time.Duration
	if g.clock != nil {
		now = g.clock.ElapsedTime()
	}
	if now%frameTime <= vblankTime {
		return 0xFF, nil
	}
	return 0x00, nil
}

// Write feeds one byte of the command protocol.
func (g *GPU) Write(offset uint16, data byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.command {
	case CmdClearScreen:
		g.fill(data)
	case CmdPlotChar:
		g.plot(data)
	case CmdPlotString:
		if data == '\n' {
			g.cursorX = 0
			g.cursorY = (g.cursorY + 1) % TextRows
			break
		}
		g.plot(data)
		g.cursorX++
		if g.cursorX >= TextColumns {
			g.cursorX = 0
			g.cursorY++
			if g.cursorY >= TextRows {
				g.cursorY = 0
			}
		}
	case CmdForeground:
		g.fg = data
	case CmdBackground:
		g.bg = data
	case CmdCursorX:
		g.cursorX = data
	case CmdCursorY:
		g.cursorY = data
	}
	if g.command == 0 {
		g.command = data
	} else {
		g.command = 0
	}
	return nil
}

func (g *GPU) fill(c byte) {
	idx := c & 0x3F
	for i := range g.img.Pix {
		g.img.Pix[i] = idx
	}
}

// plot draws ch at the cursor. Glyphs off screen are clipped.
func (g *GPU) plot(ch byte) {
	if ch > '~' {
		return
	}
	fg, bg := g.fg&0x3F, g.bg&0x3F
	x0 := int(g.cursorX) * 4
	y := int(g.cursorY) * 8
	for row := 0; row < 4; row++ {
		pixels := font[int(ch)*4+row]
		for bit := 7; bit >= 0; bit-- {
			x := x0 + (7-bit)%4
			c := bg
			if pixels>>uint(bit)&1 == 1 {
				c = fg
			}
			g.img.SetColorIndex(x, y, c)
			if bit == 4 {
				y++
			}
		}
		y++
	}
}

// Cursor returns the text cursor position.
func (g *GPU) Cursor() (x, y byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursorX, g.cursorY
}

// Image returns a copy of the screen.
func (g *GPU) Image() *image.Paletted {
	g.mu.Lock()
	defer g.mu.Unlock()
	img := image.NewPaletted(g.img.Rect, g.img.Palette)
	copy(img.Pix, g.img.Pix)
	return img
}

// WritePNG encodes the screen as PNG, scaled up by scale.
func (g *GPU) WritePNG(w io.Writer, scale int) error {
	src := g.Image()
	if scale <= 1 {
		return png.Encode(w, src)
	}
	dst := image.NewRGBA(image.Rect(0, 0, ScreenWidth*scale, ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
