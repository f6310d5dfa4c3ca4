// Package watcher implements the Watcher Threads (C9): four independent,
// long-lived observer loops, none of which holds the gateway lock while
// idle.
package watcher

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

const (
	exitPollInterval   = 10 * time.Millisecond // ~100Hz
	refresherWarnFloor = 100 * time.Millisecond
)

// Ensure watcherService implements domain.WatcherServiceIface.
var _ domain.WatcherServiceIface = (*watcherService)(nil)

type watcherService struct {
	probe   domain.ProcessProbeServiceIface
	session domain.SessionIface

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New constructs C9. probe backs the exit watcher's liveness poll.
func New(probe domain.ProcessProbeServiceIface) domain.WatcherServiceIface {
	return &watcherService{probe: probe}
}

func (w *watcherService) Setup(session domain.SessionIface) {
	w.session = session
}

func (w *watcherService) stopCh() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop == nil {
		w.stop = make(chan struct{})
	}
	return w.stop
}

// StartExitWatcher polls liveness at ~100Hz. The poll tick itself never
// blocks on the liveness check: it signals a dedicated checker goroutine,
// mirroring the teacher's reap-avoidance pattern of keeping a blocking
// syscall off the poll loop.
func (w *watcherService) StartExitWatcher(onExit func()) {
	stop := w.stopCh()
	signal := make(chan struct{}, 1)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(exitPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case signal <- struct{}{}:
				default:
				}
			}
		}
	}()

	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-stop:
				return
			case <-signal:
				pid := w.session.Pid()
				if !w.probe.IsValid(pid) {
					logrus.Infof("watcher: pid %d no longer valid", pid)
					w.session.SetState(domain.StateExited)
					if onExit != nil {
						onExit()
					}
					return
				}
			}
		}
	}()
}

// StartStatusWatcher blocks on the session's state condition and emits
// onStopped/onRunning on each edge.
func (w *watcherService) StartStatusWatcher(onStopped func(), onRunning func()) {
	stop := w.stopCh()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		last := domain.StateUnknown
		for {
			select {
			case <-stop:
				return
			default:
			}

			var targets []domain.InferiorState
			for _, st := range []domain.InferiorState{domain.StateStopped, domain.StateRunning, domain.StateExited} {
				if st != last {
					targets = append(targets, st)
				}
			}
			state := w.session.WaitForState(targets...)
			last = state
			switch state {
			case domain.StateStopped:
				if onStopped != nil {
					onStopped()
				}
			case domain.StateRunning:
				if onRunning != nil {
					onRunning()
				}
			case domain.StateExited:
				return
			}
		}
	}()
}

// StartAsyncOutputWatcher delivers buffered async text as it arrives.
func (w *watcherService) StartAsyncOutputWatcher(onAsyncOutput func(string)) {
	stop := w.stopCh()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ch := w.session.AsyncOutputChannel()
		for {
			select {
			case <-stop:
				return
			case text := <-ch:
				if onAsyncOutput != nil {
					onAsyncOutput(text)
				}
			}
		}
	}()
}

// StartRefresher publishes a refresh edge on the given interval while
// autoUpdate() is true and the session is Stopped. Intervals in (0, 100ms)
// log a warning but proceed; an interval of zero means "as fast as
// possible".
func (w *watcherService) StartRefresher(interval func() time.Duration, autoUpdate func() bool, onRefresh func()) {
	stop := w.stopCh()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		warned := false
		for {
			select {
			case <-stop:
				return
			default:
			}

			d := interval()
			if d > 0 && d < refresherWarnFloor && !warned {
				logrus.Warnf("watcher: refresh interval %v is below the recommended floor of %v", d, refresherWarnFloor)
				warned = true
			}

			if d > 0 {
				select {
				case <-stop:
					return
				case <-time.After(d):
				}
			}

			if autoUpdate() && w.session.State() == domain.StateStopped && onRefresh != nil {
				onRefresh()
			}
		}
	}()
}

// StopAll waits for every loop to exit. The status watcher only exits on
// StateExited, so callers must drive the session to that state (detach
// does this) before calling StopAll.
func (w *watcherService) StopAll() {
	w.mu.Lock()
	if w.stop != nil {
		close(w.stop)
	}
	w.mu.Unlock()

	w.wg.Wait()

	w.mu.Lock()
	w.stop = nil
	w.mu.Unlock()
}
