package devices

import (
	"bytes"
	"image/png"
	"testing"
	"time"
)

type testClock time.Duration

func (c *testClock) ElapsedTime() time.Duration { return time.Duration(*c) }

func send(g *GPU, data ...byte) {
	for _, b := range data {
		g.Write(0, b)
	}
}

func TestGPUReset(t *testing.T) {
	g := NewGPU(GPUAddress, nil)
	img := g.Image()
	if img.Bounds().Dx() != ScreenWidth || img.Bounds().Dy() != ScreenHeight {
		t.Fatalf("bounds: got=%v", img.Bounds())
	}
	if got := img.ColorIndexAt(10, 10); got != colourWhite {
		t.Errorf("background: got=%d, want=%d", got, colourWhite)
	}
}

func TestGPUClearScreen(t *testing.T) {
	g := NewGPU(GPUAddress, nil)
	send(g, CmdClearScreen, 0x03)
	img := g.Image()
	for _, p := range [][2]int{{0, 0}, {255, 239}, {100, 50}} {
		if got := img.ColorIndexAt(p[0], p[1]); got != 0x03 {
			t.Errorf("pixel %v: got=%d, want=3", p, got)
		}
	}
}

func TestGPUPlotString(t *testing.T) {
	g := NewGPU(GPUAddress, nil)
	send(g, CmdForeground, 0x30, CmdBackground, 0x00, CmdCursorX, 62)
	send(g, CmdPlotString, '!', CmdPlotString, '!', CmdPlotString, '!')
	if x, y := g.Cursor(); x != 1 || y != 1 {
		t.Errorf("cursor after wrap: got=(%d, %d), want=(1, 1)", x, y)
	}
	send(g, CmdPlotString, '\n')
	if x, y := g.Cursor(); x != 0 || y != 2 {
		t.Errorf("cursor after newline: got=(%d, %d), want=(0, 2)", x, y)
	}
	// '!' is 0x00,0x44,0x40,0x40: column 1 lit on scanlines 2, 3, 4 and 6.
	img := g.Image()
	x0 := 62 * 4
	for y := 0; y < 8; y++ {
		want := uint8(0x00)
		if y == 2 || y == 3 || y == 4 || y == 6 {
			want = 0x30
		}
		if got := img.ColorIndexAt(x0+1, y); got != want {
			t.Errorf("'!' scanline %d: got=%d, want=%d", y, got, want)
		}
		if got := img.ColorIndexAt(x0, y); got != 0x00 {
			t.Errorf("'!' column 0 scanline %d: got=%d, want=0", y, got)
		}
	}
}

func TestGPUVerticalBlank(t *testing.T) {
	var clock testClock
	g := NewGPU(GPUAddress, &clock)
	tests := []struct {
		at   time.Duration
		want byte
	}{
		{0, 0xFF},
		{vblankTime, 0xFF},
		{vblankTime + 1, 0x00},
		{frameTime - 1, 0x00},
		{frameTime + 10, 0xFF},
	}
	for _, test := range tests {
		clock = testClock(test.at)
		if got, _ := g.Read(0, true); got != test.want {
			t.Errorf("at %v: got=0x%02x, want=0x%02x", test.at, got, test.want)
		}
	}
}

func TestGPUWritePNG(t *testing.T) {
	g := NewGPU(GPUAddress, nil)
	var buf bytes.Buffer
	if err := g.WritePNG(&buf, 2); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2*ScreenWidth || img.Bounds().Dy() != 2*ScreenHeight {
		t.Errorf("bounds: got=%v", img.Bounds())
	}
}
