// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

const (
	INSTRUCTION_INVALID InstructionType = iota

	// @value
	INSTRUCTION_ADDRESS

	// (name)
	INSTRUCTION_LABEL

	// dest=comp;jump
	INSTRUCTION_COMPUTE
)

const (
	// First address handed out to an unresolved variable reference
	ADDR_VARIABLES uint16 = 16

	// Highest address an address instruction can carry
	ADDR_MAX uint16 = 32767
)
