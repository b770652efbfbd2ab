// Package wire implements the RFC 1035 wire format for domain names
// and query messages: length prefixed labels, message compression
// pointers, and the question section layout described in sections 4.1.2
// and 4.1.4.
package wire

import (
	"fmt"

	"github.com/nameplane/dnswire/internal/dns/domain"
)

// RFC 1035 section 2.3.4 size limits.
const (
	// MaxLabelOctets is the longest label the 6 usable bits of a length
	// octet can describe.
	MaxLabelOctets = 63

	// MaxNameOctets bounds the encoded form of a full name, including
	// length octets and the root terminator.
	MaxNameOctets = 255

	// maxPointerChain bounds how many compression pointers one name may
	// follow before the decoder declares a loop. Well formed messages
	// need one pointer per name; ten tolerates deep legitimate chains
	// while stopping crafted cycles.
	maxPointerChain = 10

	// maxPointerOffset is the largest message offset a 14 bit pointer
	// can address.
	maxPointerOffset = 0x3FFF

	labelTypeMask    = 0xC0
	labelTypePointer = 0xC0
	pointerFlag      = uint16(0xC000)
)

// nameParseState enumerates the decoder states for one domain name.
// Every label starts at LabelLengthOrPointer; the top two bits of the
// next octet select the following state.
type nameParseState int

const (
	stateLabelLengthOrPointer nameParseState = iota
	stateLabel
	statePointer
	stateRoot
)

// DecodeName reads one domain name from the decoder's current
// position. Plain labels are consumed in place; a compression pointer
// terminates the name, with the pointed-at suffix decoded through an
// independent cursor so the caller's position advances exactly past the
// pointer itself.
func DecodeName(d *Decoder) (domain.Name, error) {
	return decodeName(d, 0)
}

func decodeName(d *Decoder, depth int) (domain.Name, error) {
	var labels []string
	state := stateLabelLengthOrPointer
	for {
		switch state {
		case stateLabelLengthOrPointer:
			b, ok := d.Peek()
			switch {
			case !ok || b == 0:
				state = stateRoot
			case b&labelTypeMask == labelTypePointer:
				state = statePointer
			case b&labelTypeMask == 0:
				state = stateLabel
			default:
				// 0x80 and 0x40 label types were never assigned.
				return domain.Name{}, fmt.Errorf("label type byte 0x%02x at offset %d: %w", b, d.Offset(), ErrReservedLabelBits)
			}

		case stateLabel:
			label, err := d.ReadCharacterData()
			if err != nil {
				return domain.Name{}, err
			}
			labels = append(labels, label)
			state = stateLabelLengthOrPointer

		case statePointer:
			v, err := d.ReadUint16()
			if err != nil {
				return domain.Name{}, err
			}
			if depth >= maxPointerChain {
				return domain.Name{}, fmt.Errorf("following pointer to offset %d: %w", v&maxPointerOffset, ErrPointerLoop)
			}
			suffix, err := decodeName(d.CloneAt(v&maxPointerOffset), depth+1)
			if err != nil {
				return domain.Name{}, err
			}
			// A pointer is always the last element of a name.
			labels = append(labels, suffix.Labels()...)
			return domain.NameWithLabels(labels), nil

		case stateRoot:
			if _, err := d.Pop(); err != nil {
				return domain.Name{}, err
			}
			return domain.NameWithLabels(labels), nil
		}
	}
}

// EncodeName writes a domain name at the encoder's current position,
// compressing against everything emitted earlier in the message. The
// name is walked suffix by suffix, most specific first: the first
// suffix already in the dictionary is replaced by a pointer to its
// earlier occurrence and ends the name. Only when no suffix matches is
// the name written in full with a zero terminator.
//
// On failure the bytes emitted so far remain in the buffer; callers
// that need a clean message must discard the encoder.
func EncodeName(e *Encoder, n domain.Name) error {
	start := e.Len()
	labels := n.Labels()
	for len(labels) > 0 {
		if off, ok := e.SuffixOffset(labels); ok {
			e.EmitUint16(pointerFlag | off)
			return nil
		}
		label := labels[0]
		if len(label) > MaxLabelOctets {
			return fmt.Errorf("label of %d octets: %w", len(label), ErrLabelTooLong)
		}
		e.RecordSuffix(labels, e.Len())
		if err := e.EmitCharacterData(label); err != nil {
			return err
		}
		labels = labels[1:]
	}
	e.EmitByte(0)
	if written := e.Len() - start; written > MaxNameOctets {
		return fmt.Errorf("name of %d octets: %w", written, ErrNameTooLong)
	}
	return nil
}
