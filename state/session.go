// Package state implements the Session (the single attached-target value)
// and the attach/detach lifecycle manager (C11) that wires C1-C5 together
// for one pid at a time.
package state

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

// asyncQueueDepth bounds the backlog of async records waiting for the
// async-output watcher to drain; a full queue drops the incoming record
// rather than blocking the State Observer.
const asyncQueueDepth = 64

// Ensure session implements domain.SessionIface.
var _ domain.SessionIface = (*session)(nil)

// session holds the locking discipline the teacher's containerStateService
// uses for its id table: a mutex guarding plain fields, plus a condition
// variable built on the same lock for the blocking-wait edge.
type session struct {
	pid  uint32
	arch domain.InferiorArch

	mu    sync.Mutex
	cond  *sync.Cond
	state domain.InferiorState

	ws domain.WorkspaceIface
	tr domain.TransportIface
	gw domain.GatewayServiceIface
	ob domain.ObserverServiceIface

	asyncCh chan string
}

func newSession(
	pid uint32,
	ws domain.WorkspaceIface,
	tr domain.TransportIface,
	gw domain.GatewayServiceIface,
	ob domain.ObserverServiceIface,
) *session {

	s := &session{
		pid:     pid,
		ws:      ws,
		tr:      tr,
		gw:      gw,
		ob:      ob,
		asyncCh: make(chan string, asyncQueueDepth),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *session) Pid() uint32 { return s.pid }

func (s *session) Arch() domain.InferiorArch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arch
}

func (s *session) setArch(a domain.InferiorArch) {
	s.mu.Lock()
	s.arch = a
	s.mu.Unlock()
}

func (s *session) State() domain.InferiorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState updates the session's state and wakes every WaitForState
// caller, mirroring status_changed_condition.notify_all() in the original.
func (s *session) SetState(st domain.InferiorState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *session) Workspace() domain.WorkspaceIface       { return s.ws }
func (s *session) Transport() domain.TransportIface       { return s.tr }
func (s *session) Gateway() domain.GatewayServiceIface    { return s.gw }
func (s *session) Observer() domain.ObserverServiceIface  { return s.ob }

func (s *session) WaitForState(targets ...domain.InferiorState) domain.InferiorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		for _, t := range targets {
			if s.state == t {
				return s.state
			}
		}
		s.cond.Wait()
	}
}

// PushAsyncOutput queues text for the async-output watcher. A full queue
// means nobody is draining it; rather than block the State Observer (which
// would stall every command response behind it), the record is dropped.
func (s *session) PushAsyncOutput(text string) {
	select {
	case s.asyncCh <- text:
	default:
		logrus.Warnf("state: async output queue full for pid %d, dropping record", s.pid)
	}
}

func (s *session) AsyncOutputChannel() <-chan string { return s.asyncCh }
