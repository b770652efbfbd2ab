package domain

import "fmt"

// Record represents an authoritative DNS resource record as loaded from
// zone data. Data holds the wire-encoded rdata; Text holds the
// presentation form it was built from.
type Record struct {
	Name  Name
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
	Text  string
}

// NewRecord constructs a Record and validates its fields.
func NewRecord(name Name, rrtype RRType, class RRClass, ttl uint32, data []byte, text string) (Record, error) {
	r := Record{
		Name:  name,
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
		Text:  text,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks whether the Record fields are structurally and
// semantically valid.
func (r Record) Validate() error {
	if r.Name.IsRoot() {
		return fmt.Errorf("record owner name must not be the root")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("invalid RRType: %d", uint16(r.Type))
	}
	if !r.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", uint16(r.Class))
	}
	if r.Text == "" && len(r.Data) == 0 {
		return fmt.Errorf("either Text or Data must be set")
	}
	return nil
}
