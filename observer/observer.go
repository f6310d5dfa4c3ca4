// Package observer implements the State Observer (C4): a background reader
// that scans captured transport output for async status records and for the
// per-command echo fence, splitting command-echo output from asynchronous
// noise. It holds no locks that could block the Command Gateway.
package observer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

var (
	stoppedPattern = regexp.MustCompile(`stopped-threads="all"`)
	runningPattern = regexp.MustCompile(`\*running,thread-id="all"`)
)

// Ensure stateObserverService implements domain.ObserverServiceIface.
var _ domain.ObserverServiceIface = (*stateObserverService)(nil)

type stateObserverService struct {
	onStateChange func(domain.InferiorState)
	onAsyncOutput func(string)
}

// New constructs C4.
func New() domain.ObserverServiceIface {
	return &stateObserverService{}
}

func (o *stateObserverService) Setup(onStateChange func(domain.InferiorState), onAsyncOutput func(string)) {
	o.onStateChange = onStateChange
	o.onAsyncOutput = onAsyncOutput
}

// ScanChunk splits chunk on the echo of "source <cmd.script>", the literal
// marker the debugger logs back when it executes a sourced command file.
// Everything before the marker is async noise from before this command was
// issued; everything after is the command's own response.
func (o *stateObserverService) ScanChunk(chunk, commandScriptPath string) (string, string) {
	marker := fmt.Sprintf("source %s", commandScriptPath)

	idx := strings.Index(chunk, marker)
	if idx == -1 {
		return chunk, ""
	}

	async := chunk[:idx]
	response := chunk[idx+len(marker):]

	if o.onAsyncOutput != nil && strings.TrimSpace(async) != "" {
		o.onAsyncOutput(async)
	}

	return response, async
}

// DetectTransition classifies a chunk's async status records, if any, and
// notifies the registered state-change callback.
func (o *stateObserverService) DetectTransition(chunk string) (domain.InferiorState, bool) {
	var state domain.InferiorState

	switch {
	case stoppedPattern.MatchString(chunk):
		state = domain.StateStopped
	case runningPattern.MatchString(chunk):
		state = domain.StateRunning
	default:
		return domain.StateUnknown, false
	}

	if o.onStateChange != nil {
		o.onStateChange(state)
	}

	return state, true
}
