package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
	"github.com/korcankaraokcu/pince/gateway"
	"github.com/korcankaraokcu/pince/observer"
	"github.com/korcankaraokcu/pince/transport"
	"github.com/korcankaraokcu/pince/workspace"
)

// Ensure sessionService implements domain.SessionServiceIface.
var _ domain.SessionServiceIface = (*sessionService)(nil)

type sessionService struct {
	mu      sync.RWMutex
	current *session

	probe domain.ProcessProbeServiceIface
	io    domain.IOServiceIface

	workspaceRoot string
	debuggerPath  string
	debuggerArgs  []string

	// Collaborator constructors, overridable in tests so Attach can be
	// exercised without spawning a real pty-backed debugger subprocess.
	newWorkspace func(root string, pid uint32, io domain.IOServiceIface) domain.WorkspaceIface
	newTransport func() domain.TransportIface
	newObserver  func() domain.ObserverServiceIface
	newGateway   func() domain.GatewayServiceIface
}

// New constructs the attach/detach lifecycle manager. workspaceRoot is the
// parent directory for per-pid workspaces (C2); debuggerPath/debuggerArgs
// launch the transport's debugger subprocess (C3).
func New(
	probe domain.ProcessProbeServiceIface,
	io domain.IOServiceIface,
	workspaceRoot string,
	debuggerPath string,
	debuggerArgs []string,
) domain.SessionServiceIface {

	return &sessionService{
		probe:         probe,
		io:            io,
		workspaceRoot: workspaceRoot,
		debuggerPath:  debuggerPath,
		debuggerArgs:  debuggerArgs,
		newWorkspace:  workspace.New,
		newTransport:  transport.New,
		newObserver:   observer.New,
		newGateway:    gateway.New,
	}
}

// Attach implements spec.md §4.11: record pid, create the workspace, spawn
// the transport, wait for the initial prompt, configure the debugger
// (logging, attach), probe the architecture, then continue the inferior.
// No tool path is exported and no custom-script module is sourced.
func (svc *sessionService) Attach(pid uint32) (domain.SessionIface, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.current != nil {
		return nil, fmt.Errorf("state: pid %d already attached, detach first", svc.current.Pid())
	}

	if tracer, traced := svc.probe.IsTraced(pid); traced {
		return nil, fmt.Errorf("state: pid %d is already traced by %s", pid, tracer)
	}
	if !svc.probe.CanAttach(pid) {
		return nil, fmt.Errorf("state: attach denied for pid %d", pid)
	}

	ws := svc.newWorkspace(svc.workspaceRoot, pid, svc.io)
	if err := ws.Create(); err != nil {
		return nil, fmt.Errorf("state: create workspace: %w", err)
	}

	tr := svc.newTransport()
	if err := tr.Start(svc.debuggerPath, svc.debuggerArgs, ws.Root()); err != nil {
		return nil, fmt.Errorf("state: start transport: %w", err)
	}

	ob := svc.newObserver()
	gw := svc.newGateway()
	sess := newSession(pid, ws, tr, gw, ob)

	ob.Setup(sess.SetState, sess.PushAsyncOutput)
	gw.Setup(sess)

	if err := svc.configure(sess, pid); err != nil {
		tr.Close()
		return nil, err
	}

	svc.current = sess
	logrus.Infof("state: attached to pid %d (%s)", pid, sess.Arch())

	return sess, nil
}

// configure drives the gdb-configuration sequence of Attach. It returns an
// error on the first rejected command; the caller is responsible for
// tearing down the transport. There is no debugger-side extension module
// to source here: the Custom Script Bank (C6) is implemented entirely in
// Go, composing plain gdb commands through the gateway like every other
// component does.
func (svc *sessionService) configure(sess *session, pid uint32) error {
	gw := sess.gw

	steps := []struct {
		label   string
		command string
	}{
		{"enable async log file", fmt.Sprintf("set logging file %s", sess.ws.AsyncLogPath())},
		{"enable logging", "set logging on"},
		{"attach inferior", fmt.Sprintf("attach %d", pid)},
	}

	for _, step := range steps {
		if _, ok := gw.SendCommand(step.command, domain.CommandOptions{}); !ok {
			return fmt.Errorf("state: %s failed", step.label)
		}
	}

	sess.setArch(probeArch(gw))

	if _, ok := gw.SendCommand("c", domain.CommandOptions{}); !ok {
		logrus.Warnf("state: continuing inferior after attach failed for pid %d", pid)
	}

	return nil
}

// probeArch asks whether $rax is a defined convenience variable: "void"
// means it isn't, which only happens on a 32-bit inferior (gdb has no rax
// register to report).
func probeArch(gw domain.GatewayServiceIface) domain.InferiorArch {
	resp, ok := gw.SendCommand("print $rax", domain.CommandOptions{CLIOutput: true})
	if ok && strings.Contains(resp.Text, "void") {
		return domain.Arch32
	}
	return domain.Arch64
}

// Detach sends EOF to the transport, closes it, and clears the current
// session. Idempotent: detaching with no session attached is a no-op.
func (svc *sessionService) Detach() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.current == nil {
		return nil
	}

	sess := svc.current
	svc.current = nil

	err := sess.tr.Close()
	sess.SetState(domain.StateExited)

	if err != nil {
		logrus.Warnf("state: transport close for pid %d: %v", sess.Pid(), err)
		return fmt.Errorf("state: detach pid %d: %w", sess.Pid(), err)
	}

	logrus.Infof("state: detached from pid %d", sess.Pid())
	return nil
}

func (svc *sessionService) Current() (domain.SessionIface, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if svc.current == nil {
		return nil, false
	}
	return svc.current, true
}
