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

// CodecServiceIface is C10: the bidirectional mapping between a typed
// Value and its byte representation, and the parser for user-entered
// strings into bytes.
type CodecServiceIface interface {
	// Encode renders a Value's bytes into the display/wire string for
	// its kind (hex pairs for ByteArray, decimal/C-locale for numbers,
	// decoded text for String).
	Encode(v Value) string

	// Decode parses a user-entered string into bytes for the given kind
	// (and, for String/ByteArray, length/encoding attributes on entry).
	// Returns ok=false when the input cannot be parsed for that kind.
	Decode(input string, entry AddressEntry) ([]byte, bool)
}
