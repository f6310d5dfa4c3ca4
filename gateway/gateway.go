// Package gateway implements the Command Gateway (C5): single-threaded
// serialization of commands to the debugger transport, with two response
// channels (inline text vs file blob) and state-gating.
package gateway

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

// Ensure commandGatewayService implements domain.GatewayServiceIface.
var _ domain.GatewayServiceIface = (*commandGatewayService)(nil)

type commandGatewayService struct {
	mu      sync.Mutex
	session domain.SessionIface
}

// New constructs C5. Setup must be called before SendCommand is used.
func New() domain.GatewayServiceIface {
	return &commandGatewayService{}
}

func (g *commandGatewayService) Setup(session domain.SessionIface) {
	g.session = session
}

// SendCommand serializes command against the single gateway lock, enforcing
// that non-control commands may not be issued while the inferior is
// Running. ok is false for every guard rejection, matching the "None"
// outcomes of the Python reference.
func (g *commandGatewayService) SendCommand(command string, opts domain.CommandOptions) (domain.Response, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session == nil {
		return domain.Response{}, false
	}

	state := g.session.State()
	if !opts.Control && state == domain.StateRunning {
		return domain.Response{}, false
	}
	if opts.Control && state != domain.StateRunning {
		return domain.Response{}, false
	}

	ws := g.session.Workspace()
	tr := g.session.Transport()
	ob := g.session.Observer()

	if opts.Control {
		if err := tr.Control([]byte(command)[0]); err != nil {
			logrus.Errorf("gateway: control send failed: %v", err)
			return domain.Response{}, false
		}
		return domain.Response{}, true
	}

	if opts.SendWithFile {
		payload, ok := opts.Payload.([]byte)
		if !ok {
			logrus.Errorf("gateway: send-with-file requested but payload is not []byte")
			return domain.Response{}, false
		}
		if err := ws.WriteSendBlob(payload); err != nil {
			logrus.Errorf("gateway: write send blob: %v", err)
			return domain.Response{}, false
		}
	}

	if opts.RecvWithFile || opts.CLIOutput {
		if err := ws.TruncateRecvBlob(); err != nil {
			logrus.Errorf("gateway: truncate recv blob: %v", err)
			return domain.Response{}, false
		}
	}

	if err := ws.WriteCommandScript(command); err != nil {
		logrus.Errorf("gateway: write command script: %v", err)
		return domain.Response{}, false
	}

	if err := tr.Source(ws.CommandScriptPath(), opts.CLIOutput); err != nil {
		logrus.Errorf("gateway: source command script: %v", err)
		return domain.Response{}, false
	}

	chunk, err := tr.NextChunk()
	if err != nil {
		logrus.Errorf("gateway: reading response: %v", err)
	}

	if _, ok := ob.DetectTransition(chunk); ok {
		logrus.Debugf("gateway: observed state transition in command response")
	}

	responseText, _ := ob.ScanChunk(chunk, ws.CommandScriptPath())

	if opts.RecvWithFile {
		blob, err := ws.ReadRecvBlob()
		if err != nil {
			logrus.Errorf("gateway: read recv blob: %v", err)
			return domain.Response{}, false
		}
		return domain.Response{Blob: blob}, true
	}

	if opts.CLIOutput {
		blob, err := ws.ReadRecvBlob()
		if err != nil {
			logrus.Errorf("gateway: read recv blob: %v", err)
			return domain.Response{}, false
		}
		return domain.Response{Text: strings.TrimSpace(string(blob))}, true
	}

	return domain.Response{Text: strings.TrimSpace(responseText)}, true
}
