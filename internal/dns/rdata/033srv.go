package rdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

// encodeSRVData encodes an SRV record string into its binary representation.
func encodeSRVData(data string, origin *domain.Name) ([]byte, error) {
	// data = "priority weight port target"
	parts := strings.Fields(data)
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid SRV record format (expected 4 fields): %s", data)
	}

	e := wire.NewEncoder()
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseUint(parts[i], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid SRV field %d: %v", i, err)
		}
		e.EmitUint16(uint16(val))
	}

	target, err := encodeNameData(parts[3], origin)
	if err != nil {
		return nil, fmt.Errorf("invalid SRV target: %w", err)
	}
	e.EmitBytes(target)
	return e.Bytes(), nil
}

// decodeSRVData decodes SRV record data from the given byte slice.
func decodeSRVData(b []byte) (string, error) {
	d := wire.NewDecoder(b)

	var fields [3]uint16
	for i := range fields {
		v, err := d.ReadUint16()
		if err != nil {
			return "", fmt.Errorf("invalid SRV data length: %w", err)
		}
		fields[i] = v
	}
	target, err := readNameText(d)
	if err != nil {
		return "", fmt.Errorf("invalid SRV target: %w", err)
	}

	return fmt.Sprintf("%d %d %d %s", fields[0], fields[1], fields[2], target), nil
}
