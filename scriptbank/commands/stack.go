package commands

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

const (
	getStackTraceInfoName       = "pince-get-stack-trace-info"
	getStackInfoName            = "pince-get-stack-info"
	getFrameReturnAddressesName = "pince-get-frame-return-addresses"
	getFrameInfoName            = "pince-get-frame-info"

	stackDumpQWords = 32
)

var (
	btFramePattern = regexp.MustCompile(`^#(\d+)\s+(0x[0-9a-fA-F]+) in (\S+)`)
	frameAtPattern = regexp.MustCompile(`frame at (0x[0-9a-fA-F]+)`)
)

// StackTraceEntry pairs a symbolized return address with its frame address
// and stack-pointer offset.
type StackTraceEntry struct {
	ReturnAddress string // "<addr> <symbol>"
	FrameAddress  string // "<addr>(rsp+0x<offset>)"
}

type getStackTraceInfo struct{}

func NewGetStackTraceInfo() domain.ScriptIface { return &getStackTraceInfo{} }

func (getStackTraceInfo) Name() string { return getStackTraceInfoName }

// Invoke walks "bt" for return addresses and symbols, then "info frame N"
// per level for the frame's own address, reporting it relative to $rsp.
func (getStackTraceInfo) Invoke(req domain.ScriptRequest) (interface{}, error) {
	btText, ok := sendCLI(req.Gateway, "bt")
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getStackTraceInfoName)
	}

	rspText, ok := sendCLI(req.Gateway, "print/x $rsp")
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getStackTraceInfoName)
	}
	rsp, _ := parseHexUint(firstAssignValue(rspText))

	var out []StackTraceEntry
	for _, line := range strings.Split(btText, "\n") {
		m := btFramePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level, addr, symbol := m[1], m[2], m[3]

		frameAddress := addr
		if frameText, ok := sendCLI(req.Gateway, "info frame "+level); ok {
			if fm := frameAtPattern.FindStringSubmatch(frameText); fm != nil {
				frameAddress = fm[1]
			}
		}

		entry := StackTraceEntry{ReturnAddress: fmt.Sprintf("%s <%s>", addr, symbol)}
		if fv, ok := parseHexUint(frameAddress); ok && rsp != 0 {
			entry.FrameAddress = fmt.Sprintf("%s(rsp+0x%x)", frameAddress, fv-rsp)
		} else {
			entry.FrameAddress = frameAddress
		}
		out = append(out, entry)
	}

	return out, nil
}

// StackCell is one row of a stack dump: stack-pointer offset plus the hex,
// integer, and float interpretations of the qword at that address.
type StackCell struct {
	PointerOffset string
	HexQWord      string
	IntRepr       string
	FloatRepr     string
}

type getStackInfo struct{}

func NewGetStackInfo() domain.ScriptIface { return &getStackInfo{} }

func (getStackInfo) Name() string { return getStackInfoName }

// Invoke dumps stackDumpQWords giant words starting at $rsp and decodes
// each as hex, unsigned decimal, and IEEE-754 double.
func (getStackInfo) Invoke(req domain.ScriptRequest) (interface{}, error) {
	text, ok := sendCLI(req.Gateway, fmt.Sprintf("x/%dxg $rsp", stackDumpQWords))
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getStackInfoName)
	}

	rspText, ok := sendCLI(req.Gateway, "print/x $rsp")
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getStackInfoName)
	}
	rsp, _ := parseHexUint(firstAssignValue(rspText))

	var out []StackCell
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "0x") {
			continue
		}
		addr, ok := parseHexUint(strings.TrimSuffix(fields[0], ":"))
		if !ok {
			continue
		}

		for _, f := range fields[1:] {
			v, ok := parseHexUint(strings.TrimSpace(f))
			if !ok {
				continue
			}
			out = append(out, StackCell{
				PointerOffset: fmt.Sprintf("0x%x(rsp+0x%x)", addr, addr-rsp),
				HexQWord:      fmt.Sprintf("0x%016x", v),
				IntRepr:       strconv.FormatUint(v, 10),
				FloatRepr:     strconv.FormatFloat(math.Float64frombits(v), 'g', -1, 64),
			})
			addr += 8
		}
	}

	return out, nil
}

type getFrameReturnAddresses struct{}

func NewGetFrameReturnAddresses() domain.ScriptIface { return &getFrameReturnAddresses{} }

func (getFrameReturnAddresses) Name() string { return getFrameReturnAddressesName }

func (getFrameReturnAddresses) Invoke(req domain.ScriptRequest) (interface{}, error) {
	text, ok := sendCLI(req.Gateway, "bt")
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getFrameReturnAddressesName)
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := btFramePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s <%s>", m[2], m[3]))
	}

	return out, nil
}

type getFrameInfo struct{}

func NewGetFrameInfo() domain.ScriptIface { return &getFrameInfo{} }

func (getFrameInfo) Name() string { return getFrameInfoName }

func (getFrameInfo) Invoke(req domain.ScriptRequest) (interface{}, error) {
	frameIndex, ok := req.Payload.(int)
	if !ok {
		return nil, errInvalidPayload(getFrameInfoName)
	}

	text, ok := sendCLI(req.Gateway, fmt.Sprintf("info frame %d", frameIndex))
	if !ok {
		return nil, fmt.Errorf("%s: gateway rejected command", getFrameInfoName)
	}

	return strings.TrimSpace(text), nil
}

// firstAssignValue extracts the value half of a "$N = ..." gdb response.
func firstAssignValue(text string) string {
	m := assignResultPattern.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(m[1])
}
