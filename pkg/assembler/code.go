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
	"strings"

	"github.com/lassandro/gohack/pkg/encoding"
)

// dest |ddd| A=4 D=2 M=1
//
// Every ordering of a destination set encodes the same bits, so each
// multi-register spelling appears once per permutation
var destCodes = map[string]uint16{
	"null": 0b000,
	"M":    0b001,
	"D":    0b010,
	"MD":   0b011,
	"DM":   0b011,
	"A":    0b100,
	"AM":   0b101,
	"MA":   0b101,
	"AD":   0b110,
	"DA":   0b110,
	"AMD":  0b111,
	"ADM":  0b111,
	"DAM":  0b111,
	"DMA":  0b111,
	"MAD":  0b111,
	"MDA":  0b111,
}

// comp |zx|nx|zy|ny|f|no| x = D, y = A or M
//
// Keyed by the register form: lookups replace M with A first, and the
// operand-select bit is derived from the presence of M in the source text
var compCodes = map[string]uint16{
	"0":   0b101010,
	"1":   0b111111,
	"-1":  0b111010,
	"D":   0b001100,
	"A":   0b110000,
	"!D":  0b001101,
	"!A":  0b110001,
	"-D":  0b001111,
	"-A":  0b110011,
	"D+1": 0b011111,
	"A+1": 0b110111,
	"D-1": 0b001110,
	"A-1": 0b110010,
	"D+A": 0b000010,
	"D-A": 0b010011,
	"A-D": 0b000111,
	"D&A": 0b000000,
	"D|A": 0b010101,
}

// jump |jjj| less=4 equal=2 greater=1
var jumpCodes = map[string]uint16{
	"null": 0b000,
	"JGT":  0b001,
	"JEQ":  0b010,
	"JGE":  0b011,
	"JLT":  0b100,
	"JNE":  0b101,
	"JLE":  0b110,
	"JMP":  0b111,
}

// @value |0|vvvvvvvvvvvvvvv            | Load value into A
// ----   [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func EncodeAddress(address uint16) (string, error) {
	if address > ADDR_MAX {
		return "", &OversizedAddressError{ADDR_MAX, address}
	}

	return encoding.EncodeWord(address), nil
}

// dest=comp;jump |111|a|cccccc|ddd|jjj | Compute, store, branch
// ----           [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func EncodeComputation(inst *Instruction) (string, error) {
	dest, exists := destCodes[inst.Dest]

	if !exists {
		return "", &UnknownMnemonicError{inst.Position, "dest", inst.Dest}
	}

	comp, exists := compCodes[strings.ReplaceAll(inst.Comp, "M", "A")]

	if !exists {
		return "", &UnknownMnemonicError{inst.Position, "comp", inst.Comp}
	}

	jump, exists := jumpCodes[inst.Jump]

	if !exists {
		return "", &UnknownMnemonicError{inst.Position, "jump", inst.Jump}
	}

	var scratch uint16 = 0b111

	scratch <<= 1
	if strings.ContainsRune(inst.Comp, 'M') {
		scratch |= 0x1
	}

	scratch <<= 6
	scratch |= comp

	scratch <<= 3
	scratch |= dest

	scratch <<= 3
	scratch |= jump

	return encoding.EncodeWord(scratch), nil
}
