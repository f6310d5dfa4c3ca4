//
// Copyright 2019-2020 Nestybox, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package domain

// InferiorState is the observed run-state of the attached target. It forms
// edges: Running<->Stopped while attached, and anything->Exited once the
// pid stops being valid.
type InferiorState int

const (
	StateUnknown InferiorState = iota
	StateRunning
	StateStopped
	StateExited
)

func (s InferiorState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// InferiorArch is the bitness of the attached target, probed once at
// attach time by checking whether $rax is a defined convenience variable.
type InferiorArch int

const (
	Arch32 InferiorArch = iota
	Arch64
)

// SessionIface is the single attached-target value owned by the DCL. At
// most one Session is live at a time; it is created by Attach and
// destroyed by Detach or by the exit watcher firing.
type SessionIface interface {
	Pid() uint32
	Arch() InferiorArch
	State() InferiorState
	SetState(InferiorState)

	Workspace() WorkspaceIface
	Transport() TransportIface
	Gateway() GatewayServiceIface
	Observer() ObserverServiceIface

	// WaitForState blocks until the session's state becomes one of the
	// given targets, or the session is torn down.
	WaitForState(targets ...InferiorState) InferiorState

	// PushAsyncOutput queues text captured by the State Observer for the
	// async-output watcher to deliver via AsyncOutputChannel.
	PushAsyncOutput(text string)
	AsyncOutputChannel() <-chan string
}

// SessionServiceIface is the top-level attach/detach lifecycle manager.
type SessionServiceIface interface {
	Attach(pid uint32) (SessionIface, error)
	Detach() error
	Current() (SessionIface, bool)
}
