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

import "errors"

// ErrNotImplemented is returned by InjectServiceIface.AdvancedInject; the
// advanced injection path is explicitly unimplemented (spec.md §4.8, §9).
var ErrNotImplemented = errors.New("advanced injection not implemented")

// InjectServiceIface is C8: dlopen/__libc_dlopen_mode call-injection with a
// fallback chain. It reports only success/failure; it does not manage the
// resulting handle.
type InjectServiceIface interface {
	Inject(libraryPath string) (bool, error)
	AdvancedInject(libraryPath string) error
}
