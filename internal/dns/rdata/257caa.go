package rdata

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeCAAData encodes a CAA record string into its binary representation.
func encodeCAAData(data string) ([]byte, error) {
	// data = "0 issue \"letsencrypt.org\""
	parts := strings.Fields(data)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid CAA record format (expected: flag tag \"value\"): %s", data)
	}

	flag, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid CAA flag: %v", err)
	}

	tag := parts[1]
	if len(tag) > 255 {
		return nil, fmt.Errorf("CAA tag too long")
	}

	// Value is everything after the tag, minus surrounding quotes.
	value := strings.Trim(strings.Join(parts[2:], " "), "\"")

	encoded := []byte{byte(flag), byte(len(tag))}
	encoded = append(encoded, tag...)
	encoded = append(encoded, value...)
	return encoded, nil
}

// decodeCAAData decodes the binary representation of a CAA record into
// its string format. The value portion is opaque (domain, mailto: or
// https: URI) and passes through unchanged.
func decodeCAAData(b []byte) (string, error) {
	if len(b) < 2 {
		return "", fmt.Errorf("invalid CAA record length: %d", len(b))
	}

	flag := b[0]
	tagLen := int(b[1])
	if len(b) < 2+tagLen {
		return "", fmt.Errorf("invalid CAA tag length: %d", tagLen)
	}
	tag := string(b[2 : 2+tagLen])
	value := string(b[2+tagLen:])

	return fmt.Sprintf("%d %s \"%s\"", flag, tag, value), nil
}
