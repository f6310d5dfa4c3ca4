// Package scriptbank implements the Custom Script Bank (C6): a registry of
// named scripted commands (implemented in Go, each composing plain gdb
// commands through the gateway), keyed by name in a radix tree the way the
// teacher indexes its filesystem handlers.
package scriptbank

import (
	"errors"
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

// Ensure scriptBankService implements domain.ScriptBankServiceIface.
var _ domain.ScriptBankServiceIface = (*scriptBankService)(nil)

type scriptBankService struct {
	mu   sync.RWMutex
	tree *iradix.Tree
}

// New constructs C6 with an empty registry.
func New() domain.ScriptBankServiceIface {
	return &scriptBankService{tree: iradix.New()}
}

func (b *scriptBankService) Register(s domain.ScriptIface) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := s.Name()
	if _, ok := b.tree.Get([]byte(name)); ok {
		logrus.Errorf("scriptbank: %s already registered", name)
		return errors.New("script already registered")
	}

	tree, _, _ := b.tree.Insert([]byte(name), s)
	b.tree = tree

	return nil
}

func (b *scriptBankService) Lookup(name string) (domain.ScriptIface, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.tree.Get([]byte(name))
	if !ok {
		return nil, false
	}

	return v.(domain.ScriptIface), true
}

func (b *scriptBankService) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var names []string
	b.tree.Root().Walk(func(key []byte, val interface{}) bool {
		names = append(names, string(key))
		return false
	})

	return names
}
