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

// ProcessProbeServiceIface implements C1: non-intrusive attach-testing and
// tracer detection against a pid, without leaving the target stopped.
type ProcessProbeServiceIface interface {
	// CanAttach pulses a ptrace ATTACH/DETACH against pid and reports
	// whether attaching is possible. Side-effect free beyond the pulse.
	CanAttach(pid uint32) bool

	// IsTraced returns the name of the process currently tracing pid, if
	// any, read from the target's /proc/<pid>/status TracerPid field.
	IsTraced(pid uint32) (string, bool)

	// IsValid reports whether pid still names a live process.
	IsValid(pid uint32) bool
}
