// Package symbol implements the Expression & Symbol Services (C7):
// restricted-expression checking, symbol<->address conversion, disassembly
// ranges, closest-instruction search, and expression-based typed reads.
package symbol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

const bytesPerInstructionWindow = 30

var (
	cannotAccessPattern   = regexp.MustCompile(`Cannot access memory`)
	addrWithSymbolPattern = regexp.MustCompile(`(0x[0-9a-fA-F]+)\s*<([^>]+)>`)
	hexAddrPattern        = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	disasRowPattern       = regexp.MustCompile(`^\s*(0x[0-9a-fA-F]+)(?:\s*<[^>]*>)?:\t([0-9a-fA-F ]+)\t(.*)$`)
)

// Ensure expressionService implements domain.SymbolServiceIface.
var _ domain.SymbolServiceIface = (*expressionService)(nil)

type expressionService struct {
	gateway domain.GatewayServiceIface
}

// New constructs C7. gateway is the Command Gateway used to issue probe
// commands against the live debugger.
func New(gateway domain.GatewayServiceIface) domain.SymbolServiceIface {
	return &expressionService{gateway: gateway}
}

// IsRestricted reports whether expr would trigger the debugger's
// value-history side effect: a bare "$" not wrapped as a quoted literal or
// a brace-enclosed array, or empty/whitespace input.
func (s *expressionService) IsRestricted(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		return false
	}
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return false
	}
	return strings.Contains(trimmed, "$")
}

func (s *expressionService) probe(expr string) (string, bool) {
	resp, ok := s.gateway.SendCommand(fmt.Sprintf("x/b %s", expr), domain.CommandOptions{CLIOutput: true})
	if !ok {
		return "", false
	}
	return resp.Text, true
}

// SymbolToAddress executes x/b <expr>. If the debugger reports an
// unreadable address, it returns (_, false). If the output carries an
// angle-bracketed symbol, the leading hex address is returned; otherwise
// the bare hex address. Unreachable expressions (unparseable output) are
// returned unchanged for the caller to treat opaquely.
func (s *expressionService) SymbolToAddress(expr string, check bool) (string, bool) {
	if check && s.IsRestricted(expr) {
		return expr, false
	}

	text, ok := s.probe(expr)
	if !ok {
		return expr, false
	}
	if cannotAccessPattern.MatchString(text) {
		return "", false
	}
	if m := addrWithSymbolPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if addr := hexAddrPattern.FindString(text); addr != "" {
		return addr, true
	}
	return expr, true
}

// AddressToSymbol is the same probe as SymbolToAddress, but returns the
// symbol (optionally address-qualified) instead of the bare address.
func (s *expressionService) AddressToSymbol(expr string, includeAddress bool, check bool) (string, bool) {
	if check && s.IsRestricted(expr) {
		return expr, false
	}

	text, ok := s.probe(expr)
	if !ok {
		return expr, false
	}
	if cannotAccessPattern.MatchString(text) {
		return "", false
	}
	if m := addrWithSymbolPattern.FindStringSubmatch(text); m != nil {
		if includeAddress {
			return fmt.Sprintf("%s <%s>", m[1], m[2]), true
		}
		return m[2], true
	}
	if addr := hexAddrPattern.FindString(text); addr != "" {
		return addr, true
	}
	return expr, true
}

// DisassembleRange disassembles [startExpr, endSpec), where endSpec is
// either "+N" (N bytes beyond start) or an absolute end address, and
// returns rows in ascending address order.
func (s *expressionService) DisassembleRange(startExpr, endSpec string) ([]domain.DisassemblyRow, error) {
	cmd := fmt.Sprintf("disas /r %s,%s", startExpr, endSpec)

	resp, ok := s.gateway.SendCommand(cmd, domain.CommandOptions{CLIOutput: true})
	if !ok {
		return nil, fmt.Errorf("symbol: disassemble %s,%s: gateway rejected command", startExpr, endSpec)
	}

	var rows []domain.DisassemblyRow
	for _, line := range strings.Split(resp.Text, "\n") {
		m := disasRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, domain.DisassemblyRow{
			Address:  m[1],
			Bytes:    strings.TrimSpace(m[2]),
			Mnemonic: strings.TrimSpace(m[3]),
		})
	}

	return rows, nil
}

// FindClosestInstruction disassembles a window of n*30 bytes on the
// requested side of addr and returns the address of the nth instruction.
// On window underflow (fewer than n instructions found before a memory
// region boundary), the edge of the disassembled window is returned
// instead.
func (s *expressionService) FindClosestInstruction(addr string, n int, dir domain.InstructionDirection) (string, error) {
	window := n * bytesPerInstructionWindow

	var startExpr, endSpec string
	if dir == domain.DirectionNext {
		startExpr = addr
		endSpec = fmt.Sprintf("+%d", window)
	} else {
		startExpr = fmt.Sprintf("%s-%d", addr, window)
		endSpec = addr
	}

	rows, err := s.DisassembleRange(startExpr, endSpec)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return addr, nil
	}

	if dir == domain.DirectionNext {
		if n-1 < len(rows) {
			return rows[n-1].Address, nil
		}
		return rows[len(rows)-1].Address, nil
	}

	if n-1 < len(rows) {
		return rows[len(rows)-1-(n-1)].Address, nil
	}
	return rows[0].Address, nil
}

// InfoAboutAddress runs "info symbol <expr>" and returns the trimmed text.
func (s *expressionService) InfoAboutAddress(expr string) (string, error) {
	resp, ok := s.gateway.SendCommand(fmt.Sprintf("info symbol %s", expr), domain.CommandOptions{CLIOutput: true})
	if !ok {
		return "", fmt.Errorf("symbol: info symbol %s: gateway rejected command", expr)
	}
	return strings.TrimSpace(resp.Text), nil
}

// ReadByExpression reads entry's value from expr's resolved address via a
// raw "x/" command, respecting Kind, Length, Unicode and ZeroTerm. Invalid
// length or a restricted expression yields "??".
func (s *expressionService) ReadByExpression(expr string, entry domain.AddressEntry, check bool) (string, error) {
	if check && s.IsRestricted(expr) {
		return "??", nil
	}

	switch entry.Kind {
	case domain.KindByteArray:
		if entry.Length <= 0 {
			return "??", nil
		}
		return s.readBytes(expr, entry.Length)

	case domain.KindString:
		byteLen := entry.Length
		if entry.Unicode {
			byteLen *= 2
		}
		if byteLen <= 0 {
			return "??", nil
		}
		raw, err := s.readRawBytes(expr, byteLen)
		if err != nil {
			return "??", nil
		}
		return decodeString(raw, entry.ZeroTerm), nil

	default:
		width := entry.Kind.Width()
		if width <= 0 {
			return "??", nil
		}
		return s.readBytes(expr, width)
	}
}

// readBytes reads n bytes and formats them as a space-separated "0x??" token
// list, the form the codec's ByteArray decoder expects.
func (s *expressionService) readBytes(expr string, n int) (string, error) {
	raw, err := s.readRawBytes(expr, n)
	if err != nil {
		return "??", nil
	}

	tokens := make([]string, len(raw))
	for i, b := range raw {
		tokens[i] = fmt.Sprintf("0x%02x", b)
	}

	return strings.Join(tokens, " "), nil
}

// readRawBytes issues "x/<n>b <expr>" and parses the tab-delimited hex byte
// cells gdb renders per row.
func (s *expressionService) readRawBytes(expr string, n int) ([]byte, error) {
	resp, ok := s.gateway.SendCommand(fmt.Sprintf("x/%db %s", n, expr), domain.CommandOptions{CLIOutput: true})
	if !ok {
		return nil, fmt.Errorf("symbol: x/%db %s: gateway rejected command", n, expr)
	}
	if cannotAccessPattern.MatchString(resp.Text) {
		return nil, fmt.Errorf("symbol: %s: unreadable", expr)
	}

	var out []byte
	for _, line := range strings.Split(resp.Text, "\n") {
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
