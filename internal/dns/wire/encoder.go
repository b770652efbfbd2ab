package wire

import (
	"encoding/binary"
	"fmt"
)

// Encoder is an append-only writer for a DNS message. Alongside the
// output buffer it keeps the compression dictionary: every label
// suffix emitted so far, mapped to the offset where its first
// occurrence begins, so later names can point at it instead of
// repeating it.
type Encoder struct {
	buf      []byte
	pointers map[string]uint16
}

// NewEncoder returns an empty encoder with a fresh compression
// dictionary. The dictionary is scoped to one message; never reuse an
// encoder across messages.
func NewEncoder() *Encoder {
	return &Encoder{pointers: make(map[string]uint16)}
}

// Len returns the number of bytes written so far, which is also the
// offset the next emitted byte will occupy.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns the message built so far. The slice aliases the
// encoder's internal buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// EmitByte appends a single byte.
func (e *Encoder) EmitByte(b byte) {
	e.buf = append(e.buf, b)
}

// EmitUint16 appends two bytes in big endian order.
func (e *Encoder) EmitUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

// EmitUint32 appends four bytes in big endian order.
func (e *Encoder) EmitUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

// EmitBytes appends raw bytes unframed.
func (e *Encoder) EmitBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// EmitCharacterData appends a character string: one length octet
// followed by the bytes. Strings over 255 octets do not fit the length
// octet and fail with ErrCharacterDataTooLong.
func (e *Encoder) EmitCharacterData(s string) error {
	if len(s) > 255 {
		return fmt.Errorf("character data of %d octets: %w", len(s), ErrCharacterDataTooLong)
	}
	e.buf = append(e.buf, byte(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

// SuffixOffset looks up a previously emitted label suffix, returning
// the offset of its first occurrence.
func (e *Encoder) SuffixOffset(labels []string) (uint16, bool) {
	off, ok := e.pointers[suffixKey(labels)]
	return off, ok
}

// RecordSuffix remembers that the given label suffix begins at offset.
// Offsets that do not fit a 14 bit pointer are not recorded; the suffix
// simply stays uncompressible. The first recorded offset for a suffix
// wins.
func (e *Encoder) RecordSuffix(labels []string, offset int) {
	if offset >= maxPointerOffset {
		return
	}
	key := suffixKey(labels)
	if _, ok := e.pointers[key]; ok {
		return
	}
	e.pointers[key] = uint16(offset)
}

// suffixKey serializes a label sequence into a map key. Each label is
// prefixed with its length as two bytes so that no concatenation of
// different sequences can collide.
func suffixKey(labels []string) string {
	n := 0
	for _, label := range labels {
		n += 2 + len(label)
	}
	key := make([]byte, 0, n)
	for _, label := range labels {
		key = binary.BigEndian.AppendUint16(key, uint16(len(label)))
		key = append(key, label...)
	}
	return string(key)
}
