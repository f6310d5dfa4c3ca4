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

// ScriptRequest carries the caller's request payload and the gateway a
// script uses to compose and issue gdb commands.
type ScriptRequest struct {
	Gateway GatewayServiceIface
	Payload interface{}
}

// ScriptIface is one named script from the Custom Script Bank (C6) — e.g.
// "pince-read-single-address". Each composes one or more plain gdb
// commands through req.Gateway and parses the CLI text response itself.
type ScriptIface interface {
	Name() string
	// Invoke issues the script's gdb commands through req.Gateway and
	// returns the parsed result.
	Invoke(req ScriptRequest) (interface{}, error)
}

// ScriptBankServiceIface registers and looks up named custom scripts.
type ScriptBankServiceIface interface {
	Register(s ScriptIface) error
	Lookup(name string) (ScriptIface, bool)
	Names() []string
}
