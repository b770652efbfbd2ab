package wire

import (
	"fmt"

	"github.com/nameplane/dnswire/internal/dns/domain"
)

// DecodeQuestion reads one question section entry: a name followed by
// the query type and class.
func DecodeQuestion(d *Decoder) (domain.Question, error) {
	name, err := DecodeName(d)
	if err != nil {
		return domain.Question{}, fmt.Errorf("decoding question name: %w", err)
	}
	qtype, err := d.ReadUint16()
	if err != nil {
		return domain.Question{}, fmt.Errorf("decoding question type: %w", err)
	}
	qclass, err := d.ReadUint16()
	if err != nil {
		return domain.Question{}, fmt.Errorf("decoding question class: %w", err)
	}
	return domain.Question{
		Name:  name,
		Type:  domain.RRType(qtype),
		Class: domain.RRClass(qclass),
	}, nil
}

// EncodeQuestion writes one question section entry. The name takes
// part in message compression like any other.
func EncodeQuestion(e *Encoder, q domain.Question) error {
	if err := EncodeName(e, q.Name); err != nil {
		return fmt.Errorf("encoding question name: %w", err)
	}
	e.EmitUint16(uint16(q.Type))
	e.EmitUint16(uint16(q.Class))
	return nil
}
