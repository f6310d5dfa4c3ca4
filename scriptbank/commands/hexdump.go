package commands

import (
	"fmt"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

const hexDumpName = "pince-hex-dump"

// HexDumpRequest asks for count bytes starting at addr.
type HexDumpRequest struct {
	Address string
	Count   int
}

// hexDump implements "hex-dump": each byte is independently attempted, so
// an unreadable byte becomes "??" without tainting its neighbors.
type hexDump struct{}

func NewHexDump() domain.ScriptIface { return &hexDump{} }

func (hexDump) Name() string { return hexDumpName }

func (hexDump) Invoke(req domain.ScriptRequest) (interface{}, error) {
	r, ok := req.Payload.(HexDumpRequest)
	if !ok {
		return nil, errInvalidPayload(hexDumpName)
	}

	out := make([]string, r.Count)
	for i := 0; i < r.Count; i++ {
		text, ok := sendCLI(req.Gateway, fmt.Sprintf("x/1xb %s+%d", r.Address, i))
		if !ok {
			out[i] = "??"
			continue
		}
		if cannotAccessPattern.MatchString(text) {
			out[i] = "??"
			continue
		}

		token := extractHexByte(text)
		if token == "" {
			out[i] = "??"
			continue
		}
		out[i] = token
	}

	return out, nil
}

// extractHexByte pulls the single hex byte cell out of an "x/1xb" response
// line and renders it as a lowercase two-digit token without "0x".
func extractHexByte(text string) string {
	fields := strings.Split(text, "\t")
	if len(fields) < 2 {
		return ""
	}
	f := strings.TrimSpace(fields[len(fields)-1])
	if !strings.HasPrefix(f, "0x") {
		return ""
	}
	token := strings.ToLower(strings.TrimPrefix(f, "0x"))
	if len(token) == 1 {
		token = "0" + token
	}
	return token
}
