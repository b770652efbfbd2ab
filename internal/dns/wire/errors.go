package wire

import "errors"

// Sentinel errors for wire format violations. Call sites wrap these
// with positional context; match with errors.Is.
var (
	// ErrBufferExhausted is returned when a read runs past the end of
	// the message buffer.
	ErrBufferExhausted = errors.New("buffer exhausted")

	// ErrReservedLabelBits is returned when a label length byte uses
	// the reserved 0x80 or 0x40 upper bit patterns.
	ErrReservedLabelBits = errors.New("reserved label type bits set")

	// ErrPointerLoop is returned when a name follows more compression
	// pointers than maxPointerChain allows.
	ErrPointerLoop = errors.New("too many compression pointers")

	// ErrLabelTooLong is returned when a label exceeds MaxLabelOctets.
	ErrLabelTooLong = errors.New("label exceeds 63 octets")

	// ErrNameTooLong is returned when an encoded name exceeds
	// MaxNameOctets.
	ErrNameTooLong = errors.New("name exceeds 255 octets")

	// ErrCharacterDataTooLong is returned when a character string is
	// too long for its single length octet.
	ErrCharacterDataTooLong = errors.New("character data exceeds 255 octets")
)
