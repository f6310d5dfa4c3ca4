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

import "io"

// Fence is the sentinel marking the end of a debugger response batch.
const Fence = "(gdb)"

// TransportIface is C3: the exclusive servant of the Command Gateway. It
// owns the long-lived debugger subprocess, spawned under a pseudo-terminal
// with local echo disabled and an unbounded read timeout.
type TransportIface interface {
	// Start spawns the debugger binary under a pty and waits for the
	// initial prompt.
	Start(debuggerPath string, args []string, workDir string) error

	// Source asks the debugger to execute the given command file via
	// "source <path>" (or "cli-output source <path>" when cliOutput is
	// true, which routes output into the recv blob instead of in-band).
	Source(scriptPath string, cliOutput bool) error

	// Control sends a literal control character (e.g. interrupt).
	Control(b byte) error

	// NextChunk blocks until the next fence and returns the raw
	// fence-delimited chunk captured since the previous one, for the
	// State Observer to scan.
	NextChunk() (string, error)

	Close() error

	// Reader exposes the underlying pty master for components (such as
	// the State Observer) that need to consume raw bytes directly.
	Reader() io.Reader
}
