package rdata

import (
	"bytes"
	"testing"
)

func TestCAAData_RoundTrip(t *testing.T) {
	input := `0 issue "letsencrypt.org"`

	encoded, err := encodeCAAData(input)
	if err != nil {
		t.Fatalf("encodeCAAData returned error: %v", err)
	}

	expected := []byte{0, 5}
	expected = append(expected, "issue"...)
	expected = append(expected, "letsencrypt.org"...)
	if !bytes.Equal(encoded, expected) {
		t.Errorf("encodeCAAData = %v, want %v", encoded, expected)
	}

	decoded, err := decodeCAAData(encoded)
	if err != nil {
		t.Fatalf("decodeCAAData returned error: %v", err)
	}
	if decoded != input {
		t.Errorf("round trip produced %q, want %q", decoded, input)
	}
}

func TestEncodeCAAData_ValueWithSpaces(t *testing.T) {
	encoded, err := encodeCAAData(`0 iodef "mailto:security@example.com some extra"`)
	if err != nil {
		t.Fatalf("encodeCAAData returned error: %v", err)
	}

	decoded, err := decodeCAAData(encoded)
	if err != nil {
		t.Fatalf("decodeCAAData returned error: %v", err)
	}
	if decoded != `0 iodef "mailto:security@example.com some extra"` {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestEncodeCAAData_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too few fields", input: "0 issue"},
		{name: "flag not a number", input: `x issue "ca.example.net"`},
		{name: "flag overflows uint8", input: `256 issue "ca.example.net"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := encodeCAAData(tt.input); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeCAAData_Invalid(t *testing.T) {
	if _, err := decodeCAAData([]byte{0}); err == nil {
		t.Error("expected error for one byte CAA data, got nil")
	}
	if _, err := decodeCAAData([]byte{0, 10, 'a', 'b'}); err == nil {
		t.Error("expected error for tag length past the end, got nil")
	}
}
