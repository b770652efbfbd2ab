package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	original := Header{
		ID:      0xBEEF,
		Flags:   FlagResponse | FlagRecursionDesired | FlagRecursionAvailable,
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 4,
	}

	e := NewEncoder()
	EncodeHeader(e, original)
	assert.Equal(t, HeaderLen, e.Len())

	got, err := DecodeHeader(NewDecoder(e.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestHeader_FlagAccessors(t *testing.T) {
	h := Header{Flags: FlagResponse | FlagRecursionDesired | 0x7800 | 0x0003}

	assert.True(t, h.IsResponse())
	assert.True(t, h.RecursionDesired())
	assert.Equal(t, uint8(0xF), h.OpCode())
	assert.Equal(t, uint8(3), h.RCode())

	q := Header{Flags: 0}
	assert.False(t, q.IsResponse())
	assert.False(t, q.RecursionDesired())
	assert.Equal(t, uint8(0), q.OpCode())
	assert.Equal(t, uint8(0), q.RCode())
}

func TestDecodeHeader_Truncated(t *testing.T) {
	_, err := DecodeHeader(NewDecoder([]byte{0x12, 0x34, 0x00}))
	assert.ErrorIs(t, err, ErrBufferExhausted)
}

func TestEncodeHeader_WireLayout(t *testing.T) {
	e := NewEncoder()
	EncodeHeader(e, Header{ID: 0x0102, Flags: 0x0100, QDCount: 1})

	assert.Equal(t, []byte{
		0x01, 0x02,
		0x01, 0x00,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
	}, e.Bytes())
}
