package rdata

import (
	"fmt"
	"net"

	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

// encodeNameData converts a presentation form name into uncompressed
// wire format. A single name can never match its own suffix dictionary,
// so a fresh encoder guarantees no pointers in the output.
func encodeNameData(text string, origin *domain.Name) ([]byte, error) {
	name, err := domain.ParseName(text, origin)
	if err != nil {
		return nil, fmt.Errorf("invalid domain name %q: %w", text, err)
	}
	e := wire.NewEncoder()
	if err := wire.EncodeName(e, name); err != nil {
		return nil, fmt.Errorf("encoding domain name %q: %w", text, err)
	}
	return e.Bytes(), nil
}

// decodeNameData reads one wire format name from the front of b and
// renders it fully qualified.
func decodeNameData(b []byte) (string, error) {
	return readNameText(wire.NewDecoder(b))
}

// readNameText reads one name from the decoder in presentation form,
// for rdata layouts with fields after the name. The root is rendered
// as "." so the output always re-parses as fully qualified (a null MX
// exchange is the one place zone data legitimately names the root).
func readNameText(d *wire.Decoder) (string, error) {
	name, err := wire.DecodeName(d)
	if err != nil {
		return "", err
	}
	if name.IsRoot() {
		return ".", nil
	}
	return name.String(), nil
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// isIPv6 checks whether the provided net.IP is a valid IPv6 address
// that is not a mapped IPv4 address.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
