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

// CommandOptions configures a single Command Gateway request.
type CommandOptions struct {
	// Control marks this as a control-character send (e.g. interrupt)
	// rather than a regular sourced command.
	Control bool

	// CLIOutput requests the "cli-output source" wrapper so readable CLI
	// text is routed into the recv blob.
	CLIOutput bool

	// SendWithFile serializes Payload into the workspace's send blob
	// before issuing the command.
	SendWithFile bool
	Payload      interface{}

	// RecvWithFile requests that the response be deserialized from the
	// workspace's recv blob instead of read in-band.
	RecvWithFile bool
}

// Response is the result of a gateway command: either an in-band trimmed
// text response or a raw blob for the caller to deserialize.
type Response struct {
	Text string
	Blob []byte
}

// GatewayServiceIface is C5: single-threaded serialization of commands with
// two response channels (inline text vs file blob). A non-control command
// may only begin when state is Stopped or Unknown; control commands may be
// issued while Running. At most one command is ever in flight.
type GatewayServiceIface interface {
	Setup(session SessionIface)

	// SendCommand returns (response, ok). ok is false when there is no
	// session, or the session is Running and the command is not a
	// control command — the "none" outcomes of spec.md §7.
	SendCommand(command string, opts CommandOptions) (Response, bool)
}
