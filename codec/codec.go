// Package codec implements the Value Codec (C10): the bidirectional
// mapping between a typed Value and its byte representation, and the
// parser for user-entered strings into bytes.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

// Ensure valueCodec implements domain.CodecServiceIface.
var _ domain.CodecServiceIface = (*valueCodec)(nil)

type valueCodec struct{}

// New constructs C10.
func New() domain.CodecServiceIface {
	return &valueCodec{}
}

// Encode renders v's bytes into the display form for its kind: hex-pair
// tokens for ByteArray, C-locale decimal for numbers, decoded text for
// String. A scalar kind whose Bytes is shorter than its fixed width
// (a malformed Value) renders as "" rather than panicking.
func (c *valueCodec) Encode(v domain.Value) string {
	if width := v.Kind.Width(); width > 0 && len(v.Bytes) < width {
		return ""
	}

	switch v.Kind {
	case domain.KindByte:
		return strconv.FormatUint(uint64(v.Bytes[0]), 10)
	case domain.KindWord:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint16(v.Bytes)), 10)
	case domain.KindDWord:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(v.Bytes)), 10)
	case domain.KindQWord:
		return strconv.FormatUint(binary.LittleEndian.Uint64(v.Bytes), 10)
	case domain.KindFloat:
		bits := binary.LittleEndian.Uint32(v.Bytes)
		return strconv.FormatFloat(float64(math.Float32frombits(bits)), 'f', -1, 32)
	case domain.KindDouble:
		bits := binary.LittleEndian.Uint64(v.Bytes)
		return strconv.FormatFloat(math.Float64frombits(bits), 'f', -1, 64)
	case domain.KindString:
		return decodeStringBytes(v.Bytes, v.ZeroTerminated)
	case domain.KindByteArray:
		return encodeByteArray(v.Bytes)
	default:
		return ""
	}
}

// Decode parses input for entry.Kind, returning ok=false when the value
// cannot be parsed for that kind.
func (c *valueCodec) Decode(input string, entry domain.AddressEntry) ([]byte, bool) {
	switch entry.Kind {
	case domain.KindByte, domain.KindWord, domain.KindDWord, domain.KindQWord:
		return decodeInteger(input, entry.Kind)
	case domain.KindFloat:
		return decodeFloat32(input)
	case domain.KindDouble:
		return decodeFloat64(input)
	case domain.KindString:
		return encodeString(input, entry.Unicode), true
	case domain.KindByteArray:
		return decodeByteArray(input)
	default:
		return nil, false
	}
}

func decodeInteger(input string, kind domain.ValueKind) ([]byte, bool) {
	input = strings.TrimSpace(input)

	base := 10
	trimmed := input
	if strings.HasPrefix(strings.ToLower(input), "0x") {
		base = 16
		trimmed = input[2:]
	}

	n, err := strconv.ParseUint(trimmed, base, kind.Width()*8)
	if err != nil {
		return nil, false
	}

	buf := make([]byte, kind.Width())
	switch kind.Width() {
	case 1:
		buf[0] = byte(n)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(n))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(n))
	case 8:
		binary.LittleEndian.PutUint64(buf, n)
	}

	return buf, true
}

func decodeFloat32(input string) ([]byte, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 32)
	if err != nil {
		return nil, false
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
	return buf, true
}

func decodeFloat64(input string) ([]byte, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return nil, false
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	return buf, true
}

// encodeByteArray renders raw bytes as space-separated "0x??" tokens.
func encodeByteArray(raw []byte) string {
	tokens := make([]string, len(raw))
	for i, b := range raw {
		tokens[i] = fmt.Sprintf("0x%02x", b)
	}
	return strings.Join(tokens, " ")
}

// decodeByteArray parses space-separated "0x??" tokens back into bytes.
func decodeByteArray(input string) ([]byte, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, false
	}

	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(strings.ToLower(f), "0x")
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, false
		}
		out = append(out, byte(v))
	}

	return out, true
}

// encodeString renders input as raw bytes; unicode requests UTF-8 code
// units (the codec does not attempt to normalize).
func encodeString(input string, unicode bool) []byte {
	return []byte(input)
}

// decodeStringBytes applies zero-terminated semantics the same way the
// Expression & Symbol Services do: if set and the first byte is NUL, the
// result is the literal "\x00"; else truncate at the first NUL.
func decodeStringBytes(raw []byte, zeroTerminated bool) string {
	if zeroTerminated && len(raw) > 0 && raw[0] == 0 {
		return "\x00"
	}
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i])
		}
	}
	return string(raw)
}
