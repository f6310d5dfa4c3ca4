package gateway

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
)

type fakeWorkspace struct {
	cmdScript   string
	sendBlob    []byte
	recvBlob    []byte
	recvTruncs  int
}

func (w *fakeWorkspace) Pid() uint32                      { return 1 }
func (w *fakeWorkspace) Root() string                     { return "/tmp/pince-dcl/1" }
func (w *fakeWorkspace) CommandScriptPath() string        { return "/tmp/pince-dcl/1/cmd.script" }
func (w *fakeWorkspace) SendBlobPath() string             { return "/tmp/pince-dcl/1/send.blob" }
func (w *fakeWorkspace) RecvBlobPath() string             { return "/tmp/pince-dcl/1/recv.blob" }
func (w *fakeWorkspace) AsyncLogPath() string             { return "/tmp/pince-dcl/1/async.log" }
func (w *fakeWorkspace) StatusPath() string               { return "/tmp/pince-dcl/1/status.txt" }
func (w *fakeWorkspace) Create() error                    { return nil }
func (w *fakeWorkspace) TruncateRecvBlob() error          { w.recvTruncs++; w.recvBlob = nil; return nil }
func (w *fakeWorkspace) WriteCommandScript(c string) error { w.cmdScript = c; return nil }
func (w *fakeWorkspace) WriteSendBlob(p []byte) error     { w.sendBlob = p; return nil }
func (w *fakeWorkspace) ReadRecvBlob() ([]byte, error)    { return w.recvBlob, nil }

type fakeTransport struct {
	sourced  string
	cli      bool
	control  []byte
	response string
}

func (t *fakeTransport) Start(string, []string, string) error { return nil }
func (t *fakeTransport) Source(path string, cliOutput bool) error {
	t.sourced = path
	t.cli = cliOutput
	return nil
}
func (t *fakeTransport) Control(b byte) error { t.control = append(t.control, b); return nil }
func (t *fakeTransport) NextChunk() (string, error) { return t.response, nil }
func (t *fakeTransport) Close() error               { return nil }
func (t *fakeTransport) Reader() io.Reader { return nil }

type fakeObserver struct{}

func (o *fakeObserver) Setup(func(domain.InferiorState), func(string)) {}
func (o *fakeObserver) ScanChunk(chunk, marker string) (string, string) {
	return chunk, ""
}
func (o *fakeObserver) DetectTransition(string) (domain.InferiorState, bool) {
	return domain.StateUnknown, false
}

type fakeSession struct {
	state domain.InferiorState
	ws    *fakeWorkspace
	tr    *fakeTransport
	ob    *fakeObserver
}

func (s *fakeSession) Pid() uint32                    { return 1 }
func (s *fakeSession) Arch() domain.InferiorArch       { return domain.Arch64 }
func (s *fakeSession) State() domain.InferiorState     { return s.state }
func (s *fakeSession) SetState(st domain.InferiorState) { s.state = st }
func (s *fakeSession) Workspace() domain.WorkspaceIface { return s.ws }
func (s *fakeSession) Transport() domain.TransportIface { return s.tr }
func (s *fakeSession) Gateway() domain.GatewayServiceIface { return nil }
func (s *fakeSession) Observer() domain.ObserverServiceIface { return s.ob }
func (s *fakeSession) WaitForState(targets ...domain.InferiorState) domain.InferiorState {
	return s.state
}
func (s *fakeSession) PushAsyncOutput(string)                { }
func (s *fakeSession) AsyncOutputChannel() <-chan string     { return nil }

func newFakeSession(state domain.InferiorState) *fakeSession {
	return &fakeSession{
		state: state,
		ws:    &fakeWorkspace{},
		tr:    &fakeTransport{response: "^done\n(gdb) \n"},
		ob:    &fakeObserver{},
	}
}

func TestSendCommandNoSessionReturnsFalse(t *testing.T) {
	g := New()
	_, ok := g.SendCommand("print 1", domain.CommandOptions{})
	assert.False(t, ok)
}

func TestSendCommandRejectedWhileRunning(t *testing.T) {
	g := New()
	sess := newFakeSession(domain.StateRunning)
	g.Setup(sess)

	_, ok := g.SendCommand("print 1", domain.CommandOptions{})
	assert.False(t, ok)
}

func TestSendCommandSucceedsWhileStopped(t *testing.T) {
	g := New()
	sess := newFakeSession(domain.StateStopped)
	g.Setup(sess)

	resp, ok := g.SendCommand("print 1", domain.CommandOptions{})
	require.True(t, ok)
	assert.Equal(t, "^done\n(gdb)", resp.Text)
	assert.Equal(t, "print 1", sess.ws.cmdScript)
	assert.Equal(t, sess.ws.CommandScriptPath(), sess.tr.sourced)
}

func TestSendCommandControlAllowedWhileRunning(t *testing.T) {
	g := New()
	sess := newFakeSession(domain.StateRunning)
	g.Setup(sess)

	_, ok := g.SendCommand("\x03", domain.CommandOptions{Control: true})
	assert.True(t, ok)
	assert.Equal(t, []byte{0x03}, sess.tr.control)
}

func TestSendCommandControlRejectedWhileStopped(t *testing.T) {
	g := New()
	sess := newFakeSession(domain.StateStopped)
	g.Setup(sess)

	_, ok := g.SendCommand("\x03", domain.CommandOptions{Control: true})
	assert.False(t, ok)
}

func TestSendCommandWithFileTruncatesRecvBlob(t *testing.T) {
	g := New()
	sess := newFakeSession(domain.StateStopped)
	sess.ws.recvBlob = []byte("stale")
	g.Setup(sess)

	_, ok := g.SendCommand("pince-read", domain.CommandOptions{RecvWithFile: true})
	require.True(t, ok)
	assert.Equal(t, 1, sess.ws.recvTruncs)
}
