package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
)

func TestEncodeDWord(t *testing.T) {
	c := New()
	out := c.Encode(domain.Value{Kind: domain.KindDWord, Bytes: []byte{0xef, 0xbe, 0xad, 0xde}})
	assert.Equal(t, "3735928559", out) // 0xdeadbeef
}

func TestDecodeDWordHex(t *testing.T) {
	c := New()
	raw, ok := c.Decode("0xdeadbeef", domain.AddressEntry{Kind: domain.KindDWord})
	require.True(t, ok)
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, raw)
}

func TestDecodeDWordDecimal(t *testing.T) {
	c := New()
	raw, ok := c.Decode("3735928559", domain.AddressEntry{Kind: domain.KindDWord})
	require.True(t, ok)
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, raw)
}

func TestDecodeIntegerRejectsGarbage(t *testing.T) {
	c := New()
	_, ok := c.Decode("not a number", domain.AddressEntry{Kind: domain.KindDWord})
	assert.False(t, ok)
}

func TestByteArrayRoundTrip(t *testing.T) {
	c := New()
	out := c.Encode(domain.Value{Kind: domain.KindByteArray, Bytes: []byte{0xde, 0xad, 0xbe, 0xef}})
	assert.Equal(t, "0xde 0xad 0xbe 0xef", out)

	raw, ok := c.Decode(out, domain.AddressEntry{Kind: domain.KindByteArray})
	require.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, raw)
}

func TestFloatRoundTrip(t *testing.T) {
	c := New()
	v := domain.Value{Kind: domain.KindFloat}
	raw, ok := c.Decode("3.5", domain.AddressEntry{Kind: domain.KindFloat})
	require.True(t, ok)
	v.Bytes = raw

	assert.Equal(t, "3.5", c.Encode(v))
}

func TestStringZeroTerminatedTruncatesAtNul(t *testing.T) {
	c := New()
	out := c.Encode(domain.Value{
		Kind:           domain.KindString,
		Bytes:          []byte("abc\x00def"),
		ZeroTerminated: true,
	})
	assert.Equal(t, "abc", out)
}

func TestStringZeroTerminatedLeadingNul(t *testing.T) {
	c := New()
	out := c.Encode(domain.Value{
		Kind:           domain.KindString,
		Bytes:          []byte("\x00rest"),
		ZeroTerminated: true,
	})
	assert.Equal(t, "\x00", out)
}
