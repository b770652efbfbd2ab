package rdata

import (
	"fmt"
	"strings"

	"github.com/nameplane/dnswire/internal/dns/wire"
)

// encodeTXTData encodes a TXT record string into its binary representation.
// Multiple character strings are separated by semicolons, see RFC 1035
// section 3.3.14.
func encodeTXTData(data string) ([]byte, error) {
	segments := strings.Split(data, ";")
	e := wire.NewEncoder()
	emitted := 0
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if err := e.EmitCharacterData(segment); err != nil {
			return nil, fmt.Errorf("TXT segment of %d bytes: %w", len(segment), err)
		}
		emitted++
	}
	if emitted == 0 {
		return nil, fmt.Errorf("TXT record must contain at least one segment")
	}
	return e.Bytes(), nil
}

// decodeTXTData decodes TXT record data back into semicolon separated
// presentation form.
func decodeTXTData(b []byte) (string, error) {
	d := wire.NewDecoder(b)
	var segments []string
	for d.Remaining() > 0 {
		s, err := d.ReadCharacterData()
		if err != nil {
			return "", fmt.Errorf("invalid TXT segment: %w", err)
		}
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("TXT record contains no segments")
	}
	return strings.Join(segments, "; "), nil
}
