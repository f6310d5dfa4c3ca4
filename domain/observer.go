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

// AsyncRecord is the parsed form of a single State-Observer detection: the
// raw matched text and the InferiorState it indicates. Isolating parsing
// into a value like this lets the pattern matching be unit-tested against
// captured transcripts without a live transport.
type AsyncRecord struct {
	Raw   string
	State InferiorState
}

// ObserverServiceIface is C4: a background reader that scans captured
// transport output for async status records and for the per-command fence,
// splitting command-echo output from asynchronous noise.
type ObserverServiceIface interface {
	// Setup wires the observer to the session it watches.
	Setup(onStateChange func(InferiorState), onAsyncOutput func(string))

	// ScanChunk inspects one fence-delimited chunk of transport output,
	// split on the literal "source <cmd.script>" echo marker, and
	// returns the in-band command response text (everything after the
	// marker) and the async text (portions of the chunk not attributable
	// to the current command).
	ScanChunk(chunk, commandScriptPath string) (response string, async string)

	// DetectTransition classifies a chunk's async status records, if any.
	DetectTransition(chunk string) (InferiorState, bool)
}
