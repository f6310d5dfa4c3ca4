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

// InstructionDirection selects which side of an address Closest Instruction
// search looks on.
type InstructionDirection int

const (
	DirectionNext InstructionDirection = iota
	DirectionPrevious
)

// SymbolServiceIface is C7: expression/symbol conversion, instruction
// neighbor search, disassembly ranges and info-about-address.
type SymbolServiceIface interface {
	// IsRestricted reports whether expr would trigger the debugger's
	// value-history side effect (bare "$", or empty/whitespace), unless
	// it is wrapped as a quoted literal or a brace-enclosed array.
	IsRestricted(expr string) bool

	SymbolToAddress(expr string, check bool) (string, bool)
	AddressToSymbol(expr string, includeAddress bool, check bool) (string, bool)

	DisassembleRange(startExpr, endSpec string) ([]DisassemblyRow, error)

	FindClosestInstruction(addr string, n int, dir InstructionDirection) (string, error)

	InfoAboutAddress(expr string) (string, error)

	ReadByExpression(expr string, entry AddressEntry, check bool) (string, error)
}
