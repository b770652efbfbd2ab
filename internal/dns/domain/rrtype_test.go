package domain

import "testing"

func TestRRType_IsValid(t *testing.T) {
	valid := []RRType{RRTypeA, RRTypeNS, RRTypeCNAME, RRTypeSOA, RRTypePTR, RRTypeMX,
		RRTypeTXT, RRTypeAAAA, RRTypeSRV, RRTypeOPT, RRTypeSVCB, RRTypeHTTPS, RRTypeANY, RRTypeCAA}
	for _, rt := range valid {
		if !rt.IsValid() {
			t.Errorf("Expected %s (%d) to be valid", rt, uint16(rt))
		}
	}

	invalid := []RRType{0, 3, 99, 999}
	for _, rt := range invalid {
		if rt.IsValid() {
			t.Errorf("Expected %d to be invalid", uint16(rt))
		}
	}
}

func TestRRType_String(t *testing.T) {
	tests := []struct {
		rrtype   RRType
		expected string
	}{
		{RRTypeA, "A"},
		{RRTypeAAAA, "AAAA"},
		{RRTypeSOA, "SOA"},
		{RRTypeCAA, "CAA"},
		{RRType(999), "UNKNOWN(999)"},
	}

	for _, tt := range tests {
		if got := tt.rrtype.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestRRTypeFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected RRType
	}{
		{"A", RRTypeA},
		{"aaaa", RRTypeAAAA},
		{"Mx", RRTypeMX},
		{"TXT", RRTypeTXT},
		{"bogus", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := RRTypeFromString(tt.input); got != tt.expected {
			t.Errorf("RRTypeFromString(%q): expected %d, got %d", tt.input, uint16(tt.expected), uint16(got))
		}
	}
}

func TestRRType_RoundTrip(t *testing.T) {
	for rt, name := range rrTypeNames {
		if got := RRTypeFromString(name); got != rt {
			t.Errorf("Expected %q to round trip to %d, got %d", name, uint16(rt), uint16(got))
		}
	}
}
