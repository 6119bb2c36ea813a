package m6502

import "testing"

func TestDisassemble(t *testing.T) {
	tests := []struct {
		family Family
		code   []byte
		want   string
	}{
		{NMOS6502, []byte{0xA9, 0x12}, "LDA #$12"},
		{NMOS6502, []byte{0x0A}, "ASL A"},
		{NMOS6502, []byte{0xEA}, "NOP"},
		{NMOS6502, []byte{0xB5, 0x80}, "LDA $80,X"},
		{NMOS6502, []byte{0xB6, 0x80}, "LDX $80,Y"},
		{NMOS6502, []byte{0x8D, 0x00, 0x90}, "STA $9000"},
		{NMOS6502, []byte{0x7D, 0x34, 0x12}, "ADC $1234,X"},
		{NMOS6502, []byte{0x6C, 0x00, 0x34}, "JMP ($3400)"},
		{NMOS6502, []byte{0xA1, 0x20}, "LDA ($20,X)"},
		{NMOS6502, []byte{0xB1, 0x20}, "LDA ($20),Y"},
		{NMOS6502, []byte{0xD0, 0xFE}, "BNE $0200"},
		{NMOS6502, []byte{0x10, 0x10}, "BPL $0212"},
		{NMOS6502, []byte{0xA7, 0x10}, "LAX $10"},
		{CMOS65C02, []byte{0xB2, 0x20}, "LDA ($20)"},
		{CMOS65C02, []byte{0x7C, 0x00, 0x40}, "JMP ($4000,X)"},
		{CMOS65C02, []byte{0x8F, 0x12, 0x03}, "BBS0 $12,$0206"},
		{CMOS65C02, []byte{0xA7, 0x10}, "SMB2 $10"},
	}
	for _, test := range tests {
		cpu, _ := newTestCPU(t, test.family, test.code...)
		d, err := cpu.Disassemble(0x0200)
		if err != nil {
			t.Fatalf("Disassemble % X: %v", test.code, err)
		}
		if d.Text != test.want {
			t.Errorf("Disassemble % X: got=%q, want=%q", test.code, d.Text, test.want)
		}
		if len(d.Bytes) != len(test.code) || d.Next() != 0x0200+uint16(len(test.code)) {
			t.Errorf("Disassemble % X: got %d bytes", test.code, len(d.Bytes))
		}
		if cpu.Cycles() != 0 || cpu.pc != 0x0200 {
			t.Errorf("Disassemble % X changed CPU state", test.code)
		}
	}
}

func TestDisassembleUsesInspectionReads(t *testing.T) {
	bus := newTestBus(t)
	d := newTestDevice("dev", 0x0000, 0xFFFF, 0xAD)
	bus.Register(d, 0)
	if _, err := DisassembleAt(bus, 0x1000, NMOS6502); err != nil {
		t.Fatal(err)
	}
	if d.cpuReads != 0 || d.peeks != 3 {
		t.Errorf("reads: got cpu=%d inspection=%d, want cpu=0 inspection=3", d.cpuReads, d.peeks)
	}
}

// Disassembly and execution must agree on every instruction length.
func TestDisassembleMatchesStep(t *testing.T) {
	control := map[string]bool{
		"BRK": true, "JMP": true, "JSR": true, "RTS": true, "RTI": true,
		"JAM": true, "STP": true, "WAI": true,
	}
	for _, family := range []Family{NMOS6502, CMOS65C02} {
		for op := 0; op < 256; op++ {
			in := Decode(byte(op), family)
			if control[in.Mnemonic] || in.Mode == Relative || in.Mode == ZeroPageRelative {
				continue
			}
			cpu, _ := newTestCPU(t, family, byte(op), 0x10, 0x30)
			d, err := cpu.Disassemble(0x0200)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := cpu.Step(); err != nil {
				t.Fatalf("%s 0x%02x: %v", family, op, err)
			}
			if cpu.pc != d.Next() {
				t.Errorf("%s 0x%02x %s: step PC=0x%04x, disassembly next=0x%04x", family, op, d.Text, cpu.pc, d.Next())
			}
		}
	}
}
