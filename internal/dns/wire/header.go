package wire

import "fmt"

// HeaderLen is the fixed size of a DNS message header.
const HeaderLen = 12

// Header flag bits, in the second 16 bit word of the header.
const (
	FlagResponse           uint16 = 1 << 15
	FlagAuthoritative      uint16 = 1 << 10
	FlagTruncated          uint16 = 1 << 9
	FlagRecursionDesired   uint16 = 1 << 8
	FlagRecursionAvailable uint16 = 1 << 7
)

// Header is the fixed 12 byte DNS message header: the transaction ID,
// the packed flag word, and the four section counts.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// IsResponse reports whether the QR bit marks this message as a
// response.
func (h Header) IsResponse() bool {
	return h.Flags&FlagResponse != 0
}

// RecursionDesired reports whether the RD bit is set.
func (h Header) RecursionDesired() bool {
	return h.Flags&FlagRecursionDesired != 0
}

// OpCode extracts the four bit operation code from the flag word.
func (h Header) OpCode() uint8 {
	return uint8((h.Flags >> 11) & 0xF)
}

// RCode extracts the four bit response code from the flag word.
func (h Header) RCode() uint8 {
	return uint8(h.Flags & 0xF)
}

// DecodeHeader reads the fixed message header.
func DecodeHeader(d *Decoder) (Header, error) {
	var h Header
	fields := []*uint16{&h.ID, &h.Flags, &h.QDCount, &h.ANCount, &h.NSCount, &h.ARCount}
	for _, f := range fields {
		v, err := d.ReadUint16()
		if err != nil {
			return Header{}, fmt.Errorf("decoding header: %w", err)
		}
		*f = v
	}
	return h, nil
}

// EncodeHeader writes the fixed message header.
func EncodeHeader(e *Encoder, h Header) {
	e.EmitUint16(h.ID)
	e.EmitUint16(h.Flags)
	e.EmitUint16(h.QDCount)
	e.EmitUint16(h.ANCount)
	e.EmitUint16(h.NSCount)
	e.EmitUint16(h.ARCount)
}
