package board

import "testing"

func TestPinEncoding(t *testing.T) {
	testCases := []struct {
		group uintptr
		bit   uint8
		mask  uint8
		name  string
	}{
		{PINB, 5, 0x20, "PB5"},
		{PIND, 0, 0x01, "PD0"},
		{PINL, 7, 0x80, "PL7"},
		{TinyPINB, 3, 0x08, "PB3"},
	}

	for _, tc := range testCases {
		p := New(tc.group, tc.bit)
		if p.Reg() != tc.group {
			t.Errorf("%s: Reg() = 0x%x, expected 0x%x", tc.name, p.Reg(), tc.group)
		}
		if p.Bit() != tc.bit {
			t.Errorf("%s: Bit() = %d, expected %d", tc.name, p.Bit(), tc.bit)
		}
		if p.Mask() != tc.mask {
			t.Errorf("%s: Mask() = 0x%02x, expected 0x%02x", tc.name, p.Mask(), tc.mask)
		}
		if p.String() != tc.name {
			t.Errorf("String() = %q, expected %q", p.String(), tc.name)
		}
	}
}

func TestPinMaskSingleBit(t *testing.T) {
	for bit := uint8(0); bit < 8; bit++ {
		m := New(PINC, bit).Mask()
		if m == 0 || m&(m-1) != 0 {
			t.Errorf("bit %d: mask 0x%02x does not have exactly one bit set", bit, m)
		}
	}
}

func TestIsAtomic(t *testing.T) {
	for _, g := range []uintptr{PINA, PINB, PIND, PING, TinyPINA, TinyPINB} {
		if !IsAtomic(g) {
			t.Errorf("group 0x%x should be in the sbi/cbi window", g)
		}
	}
	for _, g := range []uintptr{PINH, PINJ, PINK, PINL} {
		if IsAtomic(g) {
			t.Errorf("group 0x%x should be outside the sbi/cbi window", g)
		}
	}
}

func TestUnknownGroupString(t *testing.T) {
	p := New(0x1f0, 2)
	if p.String() != "pin(0x1f02)" {
		t.Errorf("String() = %q", p.String())
	}
}
