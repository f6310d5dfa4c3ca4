package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/korcankaraokcu/pince/domain"
)

func TestDetectTransitionStopped(t *testing.T) {
	o := New()

	state, ok := o.DetectTransition(`*stopped,reason="breakpoint-hit",stopped-threads="all"`)
	assert.True(t, ok)
	assert.Equal(t, domain.StateStopped, state)
}

func TestDetectTransitionRunning(t *testing.T) {
	o := New()

	state, ok := o.DetectTransition(`*running,thread-id="all"`)
	assert.True(t, ok)
	assert.Equal(t, domain.StateRunning, state)
}

func TestDetectTransitionNone(t *testing.T) {
	o := New()

	_, ok := o.DetectTransition(`~"no transition here\n"`)
	assert.False(t, ok)
}

func TestScanChunkSplitsOnCommandEcho(t *testing.T) {
	var async string
	o := New()
	o.Setup(nil, func(s string) { async = s })

	chunk := "*running,thread-id=\"all\"\n&\"source /tmp/pince-dcl/1/cmd.script\\n\"\n^done\n(gdb) \n"
	response, noise := o.ScanChunk(chunk, "/tmp/pince-dcl/1/cmd.script")

	assert.Contains(t, response, "^done")
	assert.Contains(t, noise, "running")
	assert.Equal(t, async, noise)
}

func TestScanChunkNoMarkerReturnsWholeChunkAsResponse(t *testing.T) {
	o := New()

	response, noise := o.ScanChunk("^done\n(gdb) \n", "/tmp/pince-dcl/1/cmd.script")
	assert.Equal(t, "^done\n(gdb) \n", response)
	assert.Empty(t, noise)
}
