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

import "time"

// WatcherServiceIface is C9: the four long-lived, independent cooperative
// observer loops. None of them holds the gateway lock while sleeping.
type WatcherServiceIface interface {
	Setup(session SessionIface)

	// StartExitWatcher polls IsValid at ~100Hz and emits onExit once.
	StartExitWatcher(onExit func())

	// StartStatusWatcher blocks on the session's state condition and
	// emits onStopped/onRunning on each edge.
	StartStatusWatcher(onStopped func(), onRunning func())

	// StartAsyncOutputWatcher emits buffered async text as it arrives.
	StartAsyncOutputWatcher(onAsyncOutput func(string))

	// StartRefresher publishes a refresh edge on the given interval
	// while autoUpdate() is true and the session is Stopped. An interval
	// of zero means "as fast as possible"; values in (0, 0.1) log a
	// warning but proceed.
	StartRefresher(interval func() time.Duration, autoUpdate func() bool, onRefresh func())

	StopAll()
}
