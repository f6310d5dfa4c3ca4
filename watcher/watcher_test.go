package watcher

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/korcankaraokcu/pince/domain"
)

type fakeProbe struct {
	valid int32
}

func (p *fakeProbe) CanAttach(uint32) bool           { return true }
func (p *fakeProbe) IsTraced(uint32) (string, bool)  { return "", false }
func (p *fakeProbe) IsValid(uint32) bool             { return atomic.LoadInt32(&p.valid) != 0 }

type fakeSession struct {
	mu        sync.Mutex
	state     domain.InferiorState
	cond      *sync.Cond
	asyncCh   chan string
}

func newFakeSession() *fakeSession {
	s := &fakeSession{state: domain.StateStopped, asyncCh: make(chan string, 8)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *fakeSession) Pid() uint32              { return 1 }
func (s *fakeSession) Arch() domain.InferiorArch { return domain.Arch64 }

func (s *fakeSession) State() domain.InferiorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *fakeSession) SetState(st domain.InferiorState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *fakeSession) Workspace() domain.WorkspaceIface       { return nil }
func (s *fakeSession) Transport() domain.TransportIface       { return nil }
func (s *fakeSession) Gateway() domain.GatewayServiceIface    { return nil }
func (s *fakeSession) Observer() domain.ObserverServiceIface  { return nil }

func (s *fakeSession) WaitForState(targets ...domain.InferiorState) domain.InferiorState {
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

func (s *fakeSession) PushAsyncOutput(text string)           { s.asyncCh <- text }
func (s *fakeSession) AsyncOutputChannel() <-chan string     { return s.asyncCh }

func TestExitWatcherFiresOnInvalidPid(t *testing.T) {
	probe := &fakeProbe{valid: 1}
	sess := newFakeSession()

	w := New(probe)
	w.Setup(sess)

	fired := make(chan struct{})
	w.StartExitWatcher(func() { close(fired) })

	atomic.StoreInt32(&probe.valid, 0)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("exit watcher did not fire")
	}

	w.StopAll()
}

func TestStatusWatcherDispatchesEdges(t *testing.T) {
	sess := newFakeSession()
	sess.state = domain.StateStopped

	w := New(&fakeProbe{})
	w.Setup(sess)

	var stopped, running int32
	w.StartStatusWatcher(
		func() { atomic.AddInt32(&stopped, 1) },
		func() { atomic.AddInt32(&running, 1) },
	)

	sess.SetState(domain.StateRunning)
	time.Sleep(50 * time.Millisecond)
	sess.SetState(domain.StateExited)

	w.StopAll()
	assert.GreaterOrEqual(t, atomic.LoadInt32(&running), int32(1))
}

func TestAsyncOutputWatcherForwardsText(t *testing.T) {
	sess := newFakeSession()
	w := New(&fakeProbe{})
	w.Setup(sess)

	received := make(chan string, 1)
	w.StartAsyncOutputWatcher(func(s string) { received <- s })

	sess.PushAsyncOutput("=thread-exited,id=\"1\"")

	select {
	case text := <-received:
		assert.Contains(t, text, "thread-exited")
	case <-time.After(time.Second):
		t.Fatal("async watcher did not forward text")
	}

	w.StopAll()
}
