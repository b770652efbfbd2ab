package rdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

// encodeMXData encodes an MX record string into its binary representation.
func encodeMXData(data string, origin *domain.Name) ([]byte, error) {
	// data = "10 mail.example.com."
	parts := strings.Fields(data)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid MX record format (expected: preference exchange): %s", data)
	}

	pref, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid MX preference: %s", parts[0])
	}

	exchange, err := encodeNameData(parts[1], origin)
	if err != nil {
		return nil, fmt.Errorf("invalid MX exchange: %w", err)
	}

	e := wire.NewEncoder()
	e.EmitUint16(uint16(pref))
	e.EmitBytes(exchange)
	return e.Bytes(), nil
}

// decodeMXData decodes MX record data from the given byte slice.
func decodeMXData(b []byte) (string, error) {
	d := wire.NewDecoder(b)

	pref, err := d.ReadUint16()
	if err != nil {
		return "", fmt.Errorf("invalid MX data length: %w", err)
	}
	exchange, err := readNameText(d)
	if err != nil {
		return "", fmt.Errorf("invalid MX exchange: %w", err)
	}

	return fmt.Sprintf("%d %s", pref, exchange), nil
}
