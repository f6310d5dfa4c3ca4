package symbol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
)

type fakeGateway struct {
	response domain.Response
	ok       bool
	lastCmd  string
}

func (g *fakeGateway) Setup(domain.SessionIface) {}

func (g *fakeGateway) SendCommand(command string, opts domain.CommandOptions) (domain.Response, bool) {
	g.lastCmd = command
	return g.response, g.ok
}

func TestIsRestricted(t *testing.T) {
	s := New(&fakeGateway{})

	assert.True(t, s.IsRestricted(""))
	assert.True(t, s.IsRestricted("   "))
	assert.True(t, s.IsRestricted("$rax"))
	assert.False(t, s.IsRestricted(`"$rax"`))
	assert.False(t, s.IsRestricted("{$rax}"))
	assert.False(t, s.IsRestricted("main"))
}

func TestSymbolToAddressWithSymbol(t *testing.T) {
	gw := &fakeGateway{ok: true, response: domain.Response{Text: "0x401020 <main+16>:\t0x00\n"}}
	s := New(gw)

	addr, ok := s.SymbolToAddress("main+16", true)
	assert.True(t, ok)
	assert.Equal(t, "0x401020", addr)
}

func TestSymbolToAddressUnreadable(t *testing.T) {
	gw := &fakeGateway{ok: true, response: domain.Response{Text: "Cannot access memory at address 0x0\n"}}
	s := New(gw)

	_, ok := s.SymbolToAddress("0x0", true)
	assert.False(t, ok)
}

func TestSymbolToAddressRestrictedRejected(t *testing.T) {
	s := New(&fakeGateway{})

	addr, ok := s.SymbolToAddress("$", true)
	assert.False(t, ok)
	assert.Equal(t, "$", addr)
}

func TestAddressToSymbolIncludeAddress(t *testing.T) {
	gw := &fakeGateway{ok: true, response: domain.Response{Text: "0x401020 <main+16>:\t0x00\n"}}
	s := New(gw)

	out, ok := s.AddressToSymbol("0x401020", true, true)
	assert.True(t, ok)
	assert.Equal(t, "0x401020 <main+16>", out)

	out, ok = s.AddressToSymbol("0x401020", false, true)
	assert.True(t, ok)
	assert.Equal(t, "main+16", out)
}

func TestDisassembleRangeParsesRows(t *testing.T) {
	transcript := strings.Join([]string{
		"Dump of assembler code:",
		"   0x0000000000401020 <main+0>:\t48 89 e5\tmov    rbp,rsp",
		"   0x0000000000401023 <main+3>:\t90\tnop",
		"End of assembler dump.",
	}, "\n")

	gw := &fakeGateway{ok: true, response: domain.Response{Text: transcript}}
	s := New(gw)

	rows, err := s.DisassembleRange("main", "+8")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0x0000000000401020", rows[0].Address)
	assert.Equal(t, "mov    rbp,rsp", rows[0].Mnemonic)
}

func TestFindClosestInstructionNext(t *testing.T) {
	transcript := strings.Join([]string{
		"   0x1000 <f+0>:\t90\tnop",
		"   0x1001 <f+1>:\t90\tnop",
		"   0x1002 <f+2>:\t90\tnop",
	}, "\n")
	gw := &fakeGateway{ok: true, response: domain.Response{Text: transcript}}
	s := New(gw)

	addr, err := s.FindClosestInstruction("0x1000", 2, domain.DirectionNext)
	require.NoError(t, err)
	assert.Equal(t, "0x1001", addr)
}

func TestReadByExpressionRestrictedYieldsPlaceholder(t *testing.T) {
	s := New(&fakeGateway{})

	out, err := s.ReadByExpression("$", domain.AddressEntry{Kind: domain.KindDWord}, true)
	require.NoError(t, err)
	assert.Equal(t, "??", out)
}

func TestReadByExpressionByteArray(t *testing.T) {
	gw := &fakeGateway{ok: true, response: domain.Response{Text: "0x1000:\t0xde\t0xad\n"}}
	s := New(gw)

	out, err := s.ReadByExpression("0x1000", domain.AddressEntry{Kind: domain.KindByteArray, Length: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, "0xde 0xad", out)
}
