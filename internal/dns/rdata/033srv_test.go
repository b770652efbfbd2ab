package rdata

import (
	"bytes"
	"testing"

	"github.com/nameplane/dnswire/internal/dns/domain"
)

func TestSRVData_RoundTrip(t *testing.T) {
	input := "10 20 5060 sip.example.com."

	encoded, err := encodeSRVData(input, nil)
	if err != nil {
		t.Fatalf("encodeSRVData returned error: %v", err)
	}

	if !bytes.Equal(encoded[:6], []byte{0, 10, 0, 20, 0x13, 0xC4}) {
		t.Errorf("fixed fields = %v, want %v", encoded[:6], []byte{0, 10, 0, 20, 0x13, 0xC4})
	}

	decoded, err := decodeSRVData(encoded)
	if err != nil {
		t.Fatalf("decodeSRVData returned error: %v", err)
	}
	if decoded != input {
		t.Errorf("round trip produced %q, want %q", decoded, input)
	}
}

func TestEncodeSRVData_RelativeTarget(t *testing.T) {
	origin := domain.NameWithLabels([]string{"example", "com"})

	encoded, err := encodeSRVData("0 5 8080 backend", &origin)
	if err != nil {
		t.Fatalf("encodeSRVData returned error: %v", err)
	}

	decoded, err := decodeSRVData(encoded)
	if err != nil {
		t.Fatalf("decodeSRVData returned error: %v", err)
	}
	if decoded != "0 5 8080 backend.example.com." {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestEncodeSRVData_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too few fields", input: "10 20 sip.example.com."},
		{name: "port overflows uint16", input: "10 20 70000 sip.example.com."},
		{name: "non numeric weight", input: "10 x 5060 sip.example.com."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := encodeSRVData(tt.input, nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeSRVData_Truncated(t *testing.T) {
	if _, err := decodeSRVData([]byte{0, 10, 0, 20}); err == nil {
		t.Error("expected error for truncated SRV data, got nil")
	}
}
