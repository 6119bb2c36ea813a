package devices

import (
	"sync/atomic"
	"testing"
	"time"
)

type testLine struct {
	asserted atomic.Int32
}

func (l *testLine) AssertIrq() { l.asserted.Add(1) }

func TestVIAKeyDelivery(t *testing.T) {
	line := &testLine{}
	via := NewVIA(0xE000, line, 0)
	if via.EndAddress() != 0xE00F {
		t.Errorf("EndAddress: got=0x%04x, want=0xe00f", via.EndAddress())
	}
	via.KeyPressed(0x1C)
	via.KeyReleased(0x1C)
	if got := via.Pending(); got != 3 {
		t.Fatalf("Pending: got=%d, want=3", got)
	}
	want := []byte{0x1C, KeyRelease, 0x1C}
	for i, code := range want {
		if !via.Deliver() {
			t.Fatalf("Deliver %d: nothing delivered", i)
		}
		// Inspection reads leave the flag alone.
		if ifr, _ := via.Read(RegIFR, false); ifr&IFRCA1 == 0 {
			t.Errorf("code %d: IFR=0x%02x, want CA1 set", i, ifr)
		}
		if got, _ := via.Read(RegORA, false); got != code {
			t.Errorf("code %d: ORA=0x%02x, want=0x%02x", i, got, code)
		}
		if ifr, _ := via.Read(RegIFR, false); ifr&IFRCA1 == 0 {
			t.Errorf("code %d: inspection read cleared CA1", i)
		}
		if got, _ := via.Read(RegORA, true); got != code {
			t.Errorf("code %d: ORA=0x%02x, want=0x%02x", i, got, code)
		}
		if ifr, _ := via.Read(RegIFR, false); ifr&IFRCA1 != 0 {
			t.Errorf("code %d: CPU read of ORA left CA1 set", i)
		}
	}
	if via.Deliver() {
		t.Error("Deliver on an empty queue: got true")
	}
	if got := line.asserted.Load(); got != 3 {
		t.Errorf("IRQ assertions: got=%d, want=3", got)
	}
}

func TestVIARegisters(t *testing.T) {
	via := NewVIA(0xE000, &testLine{}, 0)
	for r := uint16(0); r < viaSize; r++ {
		if err := via.Write(r, byte(r)+0x40); err != nil {
			t.Fatal(err)
		}
	}
	for r := uint16(0); r < viaSize; r++ {
		if got, _ := via.Read(r, false); got != byte(r)+0x40 {
			t.Errorf("register %d: got=0x%02x, want=0x%02x", r, got, byte(r)+0x40)
		}
	}
	if _, err := via.Read(viaSize, true); err == nil {
		t.Error("Read past the registers: got nil error")
	}
	via.KeyPressed(0x10)
	via.Reset()
	if got, _ := via.Read(RegACR, false); got != 0 || via.Pending() != 0 {
		t.Errorf("after Reset: ACR=0x%02x pending=%d", got, via.Pending())
	}
}

func TestVIAStartStop(t *testing.T) {
	line := &testLine{}
	via := NewVIA(0xE000, line, time.Millisecond)
	via.KeyPressed(0x20)
	via.Start()
	via.Start()
	deadline := time.Now().Add(5 * time.Second)
	for via.Pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	via.Stop()
	via.Stop()
	if via.Pending() != 0 || line.asserted.Load() != 1 {
		t.Errorf("got pending=%d asserted=%d, want 0 and 1", via.Pending(), line.asserted.Load())
	}
}
