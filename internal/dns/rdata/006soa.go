package rdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

// encodeSOAData encodes an SOA record string into its binary representation.
func encodeSOAData(data string, origin *domain.Name) ([]byte, error) {
	// data = "mname rname serial refresh retry expire minimum"
	parts := strings.Fields(data)
	if len(parts) != 7 {
		return nil, fmt.Errorf("invalid SOA record format (expected 7 fields): %s", data)
	}

	// mname is the primary name server for the zone
	mname, err := encodeNameData(parts[0], origin)
	if err != nil {
		return nil, fmt.Errorf("invalid SOA mname: %w", err)
	}

	// rname is the zone contact mailbox with '@' already folded into a dot
	rname, err := encodeNameData(parts[1], origin)
	if err != nil {
		return nil, fmt.Errorf("invalid SOA rname: %w", err)
	}

	// serial, refresh, retry, expire, minimum
	e := wire.NewEncoder()
	e.EmitBytes(mname)
	e.EmitBytes(rname)
	for i := 0; i < 5; i++ {
		val, err := strconv.ParseUint(parts[i+2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid SOA field %d: %v", i+2, err)
		}
		e.EmitUint32(uint32(val))
	}
	return e.Bytes(), nil
}

// decodeSOAData decodes an SOA record from its binary representation.
func decodeSOAData(b []byte) (string, error) {
	d := wire.NewDecoder(b)

	mname, err := readNameText(d)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, err := readNameText(d)
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %w", err)
	}

	var u32 [5]uint32
	for i := range u32 {
		v, err := d.ReadUint32()
		if err != nil {
			return "", fmt.Errorf("SOA record missing integer fields: %w", err)
		}
		u32[i] = v
	}

	return fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname, u32[0], u32[1], u32[2], u32[3], u32[4]), nil
}
