package commands

import (
	"fmt"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

const (
	readRegistersName      = "pince-read-registers"
	readFloatRegistersName = "pince-read-float-registers"
)

// eflagsBit names the eflags bit position for each single-bit flag the
// original tool exposes alongside the full register dump.
var eflagsBit = map[string]uint{
	"cf": 0, "pf": 2, "af": 4, "zf": 6,
	"sf": 7, "tf": 8, "if": 9, "df": 10, "of": 11,
}

// readRegisters implements "read-registers": a mapping of general
// registers and segment registers to gdb's text rendering of their values,
// plus single-bit flags ("0"/"1") decoded from the eflags value, built
// from "info registers".
type readRegisters struct{}

func NewReadRegisters() domain.ScriptIface { return &readRegisters{} }

func (readRegisters) Name() string { return readRegistersName }

func (readRegisters) Invoke(req domain.ScriptRequest) (interface{}, error) {
	text, ok := sendCLI(req.Gateway, "info registers")
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", readRegistersName)
	}

	out := parseRegisterLines(text)

	if eflags, ok := out["eflags"]; ok {
		if v, ok := parseHexUint(strings.Fields(eflags)[0]); ok {
			for flag, bit := range eflagsBit {
				if v&(1<<bit) != 0 {
					out[flag] = "1"
				} else {
					out[flag] = "0"
				}
			}
		}
	}

	return out, nil
}

// readFloatRegisters implements "read-float-registers": st0..7 and
// xmm0..7 mapped to gdb's rendering of their value.
type readFloatRegisters struct{}

func NewReadFloatRegisters() domain.ScriptIface { return &readFloatRegisters{} }

func (readFloatRegisters) Name() string { return readFloatRegistersName }

func (readFloatRegisters) Invoke(req domain.ScriptRequest) (interface{}, error) {
	names := "st0 st1 st2 st3 st4 st5 st6 st7 xmm0 xmm1 xmm2 xmm3 xmm4 xmm5 xmm6 xmm7"

	text, ok := sendCLI(req.Gateway, "info registers "+names)
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", readFloatRegistersName)
	}

	return parseRegisterLines(text), nil
}

// parseRegisterLines turns "info registers" output into a name->value
// map; the value is the rest of the line after the register name (all of
// gdb's columns, e.g. "0x1    1"), kept as raw text since registers
// differ in type (hex, decimal, vector struct literal, ...).
func parseRegisterLines(text string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		m := registerLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out[m[1]] = m[2]
	}
	return out
}
