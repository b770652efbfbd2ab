package wire

import (
	"encoding/binary"
	"fmt"
)

// Decoder is a read cursor over a raw DNS message. It never copies the
// underlying buffer; CloneAt produces an independent cursor over the
// same bytes so compression pointers can be followed without losing the
// caller's position.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// CloneAt returns a new decoder over the same buffer positioned at
// offset. Offsets past the end of the buffer are legal; the first read
// will fail with ErrBufferExhausted.
func (d *Decoder) CloneAt(offset uint16) *Decoder {
	return &Decoder{buf: d.buf, off: int(offset)}
}

// Offset returns the current cursor position.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Peek returns the next byte without consuming it, reporting false when
// the buffer is exhausted.
func (d *Decoder) Peek() (byte, bool) {
	if d.off >= len(d.buf) {
		return 0, false
	}
	return d.buf[d.off], true
}

// Pop consumes and returns the next byte.
func (d *Decoder) Pop() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, fmt.Errorf("reading byte at offset %d: %w", d.off, ErrBufferExhausted)
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

// ReadUint16 consumes two bytes as a big endian unsigned integer.
func (d *Decoder) ReadUint16() (uint16, error) {
	if d.off+2 > len(d.buf) {
		return 0, fmt.Errorf("reading uint16 at offset %d: %w", d.off, ErrBufferExhausted)
	}
	v := binary.BigEndian.Uint16(d.buf[d.off : d.off+2])
	d.off += 2
	return v, nil
}

// ReadUint32 consumes four bytes as a big endian unsigned integer.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.off+4 > len(d.buf) {
		return 0, fmt.Errorf("reading uint32 at offset %d: %w", d.off, ErrBufferExhausted)
	}
	v := binary.BigEndian.Uint32(d.buf[d.off : d.off+4])
	d.off += 4
	return v, nil
}

// ReadBytes consumes n bytes and returns them as a fresh slice.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || d.off+n > len(d.buf) {
		return nil, fmt.Errorf("reading %d bytes at offset %d: %w", n, d.off, ErrBufferExhausted)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.off:d.off+n])
	d.off += n
	return out, nil
}

// ReadCharacterData consumes a character string: one length octet
// followed by that many bytes.
func (d *Decoder) ReadCharacterData() (string, error) {
	length, err := d.Pop()
	if err != nil {
		return "", err
	}
	n := int(length)
	if d.off+n > len(d.buf) {
		return "", fmt.Errorf("reading %d character data bytes at offset %d: %w", n, d.off, ErrBufferExhausted)
	}
	s := string(d.buf[d.off : d.off+n])
	d.off += n
	return s, nil
}
