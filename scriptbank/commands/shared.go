// Package commands implements the eleven named scripts of the Custom
// Script Bank (C6): typed single/multi address read & write, register and
// float-register dumps, stack/frame walking, hex-dump, and
// convenience-variable parsing. There is no debugger-side extension
// process to delegate to, so each script composes plain gdb commands
// through the gateway and parses the CLI text response itself, the same
// way the Expression & Symbol Services (C7) and Injection Service (C8) do.
package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

var (
	cannotAccessPattern  = regexp.MustCompile(`Cannot access memory`)
	assignResultPattern  = regexp.MustCompile(`\$\d+\s*=\s*(.*)`)
	registerLinePattern  = regexp.MustCompile(`^(\S+)\s+(\S.*?)\s*$`)
)

func errInvalidPayload(name string) error {
	return fmt.Errorf("%s: invalid request payload type", name)
}

// sendCLI issues command through the gateway with the CLI-output wrapper
// and returns the trimmed text, or ok=false when the gateway rejected it.
func sendCLI(gw domain.GatewayServiceIface, command string) (string, bool) {
	resp, ok := gw.SendCommand(command, domain.CommandOptions{CLIOutput: true})
	if !ok {
		return "", false
	}
	return resp.Text, true
}

// readRawBytes issues "x/<n>b <expr>" and parses the tab-delimited hex
// byte cells gdb renders per row, mirroring symbol.readRawBytes.
func readRawBytes(gw domain.GatewayServiceIface, expr string, n int) ([]byte, error) {
	text, ok := sendCLI(gw, fmt.Sprintf("x/%db %s", n, expr))
	if !ok {
		return nil, fmt.Errorf("x/%db %s: gateway rejected command", n, expr)
	}
	if cannotAccessPattern.MatchString(text) {
		return nil, fmt.Errorf("%s: unreadable", expr)
	}

	var out []byte
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Split(line, "\t")
		for _, f := range fields[1:] {
			f = strings.TrimSpace(f)
			if !strings.HasPrefix(f, "0x") {
				continue
			}
			v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), 16, 8)
			if err != nil {
				continue
			}
			out = append(out, byte(v))
			if len(out) == n {
				return out, nil
			}
		}
	}

	return out, nil
}

// readEntry reads entry's value from its own Address field, matching the
// Kind/Length/Unicode/ZeroTerm semantics of symbol.ReadByExpression but
// without the restricted-expression check, since address-table rows carry
// resolved addresses rather than arbitrary user expressions.
func readEntry(gw domain.GatewayServiceIface, entry domain.AddressEntry) (string, error) {
	switch entry.Kind {
	case domain.KindByteArray:
		if entry.Length <= 0 {
			return "", fmt.Errorf("invalid length")
		}
		raw, err := readRawBytes(gw, entry.Address, entry.Length)
		if err != nil {
			return "", err
		}
		return bytesToTokens(raw), nil

	case domain.KindString:
		byteLen := entry.Length
		if entry.Unicode {
			byteLen *= 2
		}
		if byteLen <= 0 {
			return "", fmt.Errorf("invalid length")
		}
		raw, err := readRawBytes(gw, entry.Address, byteLen)
		if err != nil {
			return "", err
		}
		return decodeString(raw, entry.ZeroTerm), nil

	default:
		width := entry.Kind.Width()
		if width <= 0 {
			return "", fmt.Errorf("invalid kind")
		}
		raw, err := readRawBytes(gw, entry.Address, width)
		if err != nil {
			return "", err
		}
		return bytesToTokens(raw), nil
	}
}

// bytesToTokens renders raw bytes as the space-separated "0x??" token list
// the codec's ByteArray decoder expects.
func bytesToTokens(raw []byte) string {
	tokens := make([]string, len(raw))
	for i, b := range raw {
		tokens[i] = fmt.Sprintf("0x%02x", b)
	}
	return strings.Join(tokens, " ")
}

// decodeString applies zero-terminated semantics: if set and the first
// byte is NUL, the result is the literal "\x00"; else the string is
// truncated at the first NUL (or returned whole if none is found).
func decodeString(raw []byte, zeroTerm bool) string {
	if zeroTerm && len(raw) > 0 && raw[0] == 0 {
		return "\x00"
	}
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

// parseHexUint parses a "0x..." gdb address literal.
func parseHexUint(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	return v, err == nil
}
