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

import (
	"fmt"
)

type InstructionType uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// A single statement from the source text. Symbol holds the name or literal
// of an address instruction or label declaration; Dest/Comp/Jump hold the
// mnemonic fields of a compute instruction, with "null" standing in for an
// omitted dest or jump.
type Instruction struct {
	Type     InstructionType
	Symbol   string
	Dest     string
	Comp     string
	Jump     string
	Position Cursor
}

type SymTable struct {
	Source string
	Symbols map[uint16]int64
	Labels map[uint16]string
}

type TokenError interface {
	GetPosition() Cursor
}

type InvalidSymbolError struct {
	Position Cursor
	Received string
}

func (err *InvalidSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownMnemonicError struct {
	Position Cursor
	Field    string
	Received string
}

func (err *UnknownMnemonicError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown %s mnemonic '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Field,
		err.Received,
	)
}

type OversizedAddressError struct {
	Required uint16
	Received uint16
}

func (err *OversizedAddressError) Error() string {
	return fmt.Sprintf(
		"Address exceeds allowed range\n\twant:0-%d\n\thave:%d",
		err.Required,
		err.Received,
	)
}

type OversizedProgramError struct{}

func (err *OversizedProgramError) Error() string {
	return "Program exceeds addressable memory"
}
