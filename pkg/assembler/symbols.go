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

// Names fixed by the architecture: the virtual machine pointers, the
// sixteen numbered registers, and the two device regions
var predefined = map[string]uint16{
	"SP":   0,
	"LCL":  1,
	"ARG":  2,
	"THIS": 3,
	"THAT": 4,

	"R0":  0,
	"R1":  1,
	"R2":  2,
	"R3":  3,
	"R4":  4,
	"R5":  5,
	"R6":  6,
	"R7":  7,
	"R8":  8,
	"R9":  9,
	"R10": 10,
	"R11": 11,
	"R12": 12,
	"R13": 13,
	"R14": 14,
	"R15": 15,

	"SCREEN": 16384,
	"KBD":    24576,
}

type SymbolTable struct {
	symbols map[string]uint16
}

func NewSymbolTable() *SymbolTable {
	table := &SymbolTable{
		symbols: make(map[string]uint16, len(predefined)),
	}

	for name, address := range predefined {
		table.symbols[name] = address
	}

	return table
}

func (table *SymbolTable) Contains(name string) bool {
	_, exists := table.symbols[name]
	return exists
}

// Returns the address bound to name. Every symbol is bound before emission
// begins, so a missing name is a programming error and panics.
func (table *SymbolTable) Get(name string) uint16 {
	address, exists := table.symbols[name]

	if !exists {
		panic("Unresolved symbol: " + name)
	}

	return address
}

// Binds name to address unconditionally. Callers check Contains first so
// that the first binding of a name wins.
func (table *SymbolTable) Insert(name string, address uint16) {
	table.symbols[name] = address
}
