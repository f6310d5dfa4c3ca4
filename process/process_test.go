package process

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	svc := NewProcessProbeService()

	assert.True(t, svc.IsValid(uint32(os.Getpid())))
	assert.False(t, svc.IsValid(0))
}

func TestIsTracedNoTracer(t *testing.T) {
	svc := NewProcessProbeService()

	_, traced := svc.IsTraced(uint32(os.Getpid()))
	assert.False(t, traced)
}

func TestCanAttachRequiresPrivilege(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("ptrace attach test requires root")
	}

	cmd := exec.Command("sleep", "5")
	require.NoError(t, cmd.Start())
	defer cmd.Process.Kill()

	svc := NewProcessProbeService()
	assert.True(t, svc.CanAttach(uint32(cmd.Process.Pid)))
	assert.True(t, svc.IsValid(uint32(cmd.Process.Pid)))
}

func TestReadStatusMissingPid(t *testing.T) {
	_, err := readStatus(1 << 30)
	assert.Error(t, err)
}
