package sysio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
)

func TestMemFileServiceRoundTrip(t *testing.T) {
	svc := NewIOService(domain.IOMemFileService)

	require.NoError(t, svc.MkdirAll("/ws/123", 0777))
	require.NoError(t, svc.WriteFile("/ws/123/send.blob", []byte("hello"), 0666))

	data, err := svc.ReadFile("/ws/123/send.blob")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, svc.Truncate("/ws/123/send.blob"))
	data, err = svc.ReadFile("/ws/123/send.blob")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestMemFileServiceRemove(t *testing.T) {
	svc := NewIOService(domain.IOMemFileService)

	require.NoError(t, svc.WriteFile("/ws/x", []byte("x"), 0666))
	require.NoError(t, svc.Remove("/ws/x"))

	_, err := svc.ReadFile("/ws/x")
	assert.Error(t, err)
}
