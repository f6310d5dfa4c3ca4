package scriptbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korcankaraokcu/pince/domain"
)

type fakeScript struct {
	name string
}

func (s *fakeScript) Name() string { return s.name }
func (s *fakeScript) Invoke(domain.ScriptRequest) (interface{}, error) { return nil, nil }

func TestRegisterAndLookup(t *testing.T) {
	b := New()

	require.NoError(t, b.Register(&fakeScript{name: "pince-read-single-address"}))

	s, ok := b.Lookup("pince-read-single-address")
	require.True(t, ok)
	assert.Equal(t, "pince-read-single-address", s.Name())
}

func TestRegisterDuplicateFails(t *testing.T) {
	b := New()

	require.NoError(t, b.Register(&fakeScript{name: "pince-hex-dump"}))
	err := b.Register(&fakeScript{name: "pince-hex-dump"})
	assert.Error(t, err)
}

func TestLookupMissing(t *testing.T) {
	b := New()

	_, ok := b.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestNamesListsAllRegistered(t *testing.T) {
	b := New()
	require.NoError(t, b.Register(&fakeScript{name: "pince-a"}))
	require.NoError(t, b.Register(&fakeScript{name: "pince-b"}))

	assert.ElementsMatch(t, []string{"pince-a", "pince-b"}, b.Names())
}
