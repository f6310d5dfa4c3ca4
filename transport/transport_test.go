package transport

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadUntilFenceStopsAtSentinel(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("=thread-group-started\nvalue=5\n(gdb) \nnot reached\n"))

	chunk, err := readUntilFence(r)
	assert.NoError(t, err)
	assert.Contains(t, chunk, "value=5")
	assert.Contains(t, chunk, "(gdb)")
	assert.NotContains(t, chunk, "not reached")
}

func TestReadUntilFencePropagatesEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("partial output with no fence"))

	chunk, err := readUntilFence(r)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "partial output with no fence", chunk)
}
