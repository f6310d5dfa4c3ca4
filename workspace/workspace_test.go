package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
	"github.com/korcankaraokcu/pince/sysio"
)

func newTestWorkspace(pid uint32) domain.WorkspaceIface {
	io := sysio.NewIOService(domain.IOMemFileService)
	return New("/pince-dcl", pid, io)
}

func TestCreateIsIdempotent(t *testing.T) {
	ws := newTestWorkspace(42)

	require.NoError(t, ws.Create())
	require.NoError(t, ws.Create())

	assert.Equal(t, "/pince-dcl/42/cmd.script", ws.CommandScriptPath())
	assert.Equal(t, "/pince-dcl/42/send.blob", ws.SendBlobPath())
	assert.Equal(t, "/pince-dcl/42/recv.blob", ws.RecvBlobPath())
	assert.Equal(t, "/pince-dcl/42/async.log", ws.AsyncLogPath())
	assert.Equal(t, "/pince-dcl/42/status.txt", ws.StatusPath())
}

func TestWriteCommandScriptAndSendBlob(t *testing.T) {
	ws := newTestWorkspace(7)
	require.NoError(t, ws.Create())

	require.NoError(t, ws.WriteCommandScript("print 1+1"))
	require.NoError(t, ws.WriteSendBlob([]byte{0x01, 0x02}))
}

func TestTruncateRecvBlobClearsStaleData(t *testing.T) {
	io := sysio.NewIOService(domain.IOMemFileService)
	ws := New("/pince-dcl", 9, io)
	require.NoError(t, ws.Create())

	require.NoError(t, io.WriteFile(ws.RecvBlobPath(), []byte("stale"), 0666))
	require.NoError(t, ws.TruncateRecvBlob())

	data, err := ws.ReadRecvBlob()
	require.NoError(t, err)
	assert.Empty(t, data)
}
