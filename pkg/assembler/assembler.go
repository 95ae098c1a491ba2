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
	"bufio"
	"io"
	"strings"

	"github.com/lassandro/gohack/pkg/encoding"
)

func isSpace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\v' ||
		char == '\f' || char == '\r'
}

// Symbols are letters, digits, '_', '.', '$', ':', and cannot begin with a
// digit
func parseSymbol(ident string) bool {
	if len(ident) == 0 {
		return false
	}

	for i := 0; i < len(ident); i++ {
		char := ident[i]

		switch {
		case char >= 'a' && char <= 'z':
		case char >= 'A' && char <= 'Z':
		case char >= '0' && char <= '9':
			if i == 0 {
				return false
			}
		case char == '_' || char == '.' || char == '$' || char == ':':
		default:
			return false
		}
	}

	return true
}

// Classifies one whitespace-squeezed statement and extracts its fields:
//
//	@value       address instruction, value a symbol or base-10 literal
//	(name)       label declaration
//	dest=comp    compute instruction, '=dest' and ';jump' optional
//	comp;jump
//
// An omitted dest or jump field holds the mnemonic "null" so that every
// compute instruction indexes all three encoder tables.
func parseStatement(text string, position Cursor) (Instruction, error) {
	var inst Instruction
	inst.Position = position

	if at := strings.IndexByte(text, '@'); at >= 0 {
		inst.Type = INSTRUCTION_ADDRESS
		inst.Symbol = text[at+1:]

		if _, numeric := encoding.DecodeAddress(inst.Symbol); numeric {
			return inst, nil
		}

		if !parseSymbol(inst.Symbol) {
			return inst, &InvalidSymbolError{position, inst.Symbol}
		}

		return inst, nil
	}

	if open := strings.IndexByte(text, '('); open >= 0 {
		if close := strings.IndexByte(text, ')'); close > open {
			inst.Type = INSTRUCTION_LABEL
			inst.Symbol = text[open+1 : close]

			if !parseSymbol(inst.Symbol) {
				return inst, &InvalidSymbolError{position, inst.Symbol}
			}

			return inst, nil
		}
	}

	inst.Type = INSTRUCTION_COMPUTE
	inst.Dest = "null"
	inst.Jump = "null"

	rest := text

	if dest, tail, found := strings.Cut(rest, "="); found {
		inst.Dest = dest
		rest = tail
	}

	if comp, jump, found := strings.Cut(rest, ";"); found {
		rest = comp
		inst.Jump = jump
	}

	inst.Comp = rest

	return inst, nil
}

func AssembleHackSource(input io.Reader, symtable *SymTable) (result []string, errs []error) {
	var instructions []Instruction

	var builder strings.Builder
	var scanner = bufio.NewScanner(input)

	var cursor = Cursor{Line: 1, Column: 0, Size: 0, Byte: 0}

	errs = make([]error, 0)

	// Process:
	// - Strip comments and whitespace
	// - Classify statements and gather their fields
	for scanner.Scan() {
		line := scanner.Text()

		code := line

		if comment := strings.Index(code, "//"); comment >= 0 {
			code = code[:comment]
		}

		start := 0
		for start < len(code) && isSpace(code[start]) {
			start++
		}

		end := len(code)
		for end > start && isSpace(code[end-1]) {
			end--
		}

		if start == end {
			cursor.Line++
			cursor.Byte += int64(len(line) + 1)
			cursor.LineByte += int64(len(line) + 1)
			continue
		}

		// Whitespace is insignificant anywhere in a statement, so the
		// squeezed text is what gets classified ("A = M ; JMP" == "A=M;JMP")
		builder.Reset()
		builder.Grow(end - start)

		for i := start; i < end; i++ {
			if !isSpace(code[i]) {
				builder.WriteByte(code[i])
			}
		}

		position := Cursor{
			Line:     cursor.Line,
			Column:   start + 1,
			Byte:     cursor.LineByte + int64(start),
			Size:     int64(end - start),
			LineByte: cursor.LineByte,
		}

		inst, err := parseStatement(builder.String(), position)

		if err != nil {
			errs = append(errs, err)
		} else {
			instructions = append(instructions, inst)
		}

		cursor.Line++
		cursor.Byte += int64(len(line) + 1)
		cursor.LineByte += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	symbols := NewSymbolTable()

	// Label pass
	// - Bind each first label declaration to the address of the next real
	//   instruction
	// - Labels occupy no address themselves
	var program int = 0

	for i := range instructions {
		inst := &instructions[i]

		if inst.Type == INSTRUCTION_LABEL {
			if symbols.Contains(inst.Symbol) {
				continue
			}

			if program > int(ADDR_MAX) {
				errs = append(errs, &OversizedProgramError{})
				return nil, errs
			}

			symbols.Insert(inst.Symbol, uint16(program))

			if symtable != nil {
				symtable.Labels[uint16(program)] = inst.Symbol
			}

			continue
		}

		program++
	}

	if program > int(ADDR_MAX)+1 {
		errs = append(errs, &OversizedProgramError{})
		return nil, errs
	}

	// Variable pass
	// - Bind numeric references to their literal value
	// - Bind anything still unknown to the next free variable address, in
	//   order of first appearance
	var variable int = int(ADDR_VARIABLES)

	for i := range instructions {
		inst := &instructions[i]

		if inst.Type != INSTRUCTION_ADDRESS || symbols.Contains(inst.Symbol) {
			continue
		}

		if value, numeric := encoding.DecodeAddress(inst.Symbol); numeric {
			symbols.Insert(inst.Symbol, value)
			continue
		}

		if variable > int(ADDR_MAX) {
			errs = append(errs, &OversizedProgramError{})
			return nil, errs
		}

		symbols.Insert(inst.Symbol, uint16(variable))
		variable++
	}

	// Emission pass
	// - One line of machine code per real instruction, none per label
	// - Any encoding failure discards the whole image
	result = make([]string, 0, program)
	program = 0

	for i := range instructions {
		inst := &instructions[i]

		var line string
		var err error

		switch inst.Type {
		case INSTRUCTION_LABEL:
			continue

		case INSTRUCTION_ADDRESS:
			line, err = EncodeAddress(symbols.Get(inst.Symbol))

		case INSTRUCTION_COMPUTE:
			line, err = EncodeComputation(inst)
		}

		if err != nil {
			errs = append(errs, err)
		} else {
			result = append(result, line)
		}

		if symtable != nil {
			symtable.Symbols[uint16(program)] = inst.Position.LineByte
		}

		program++
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return result, errs
}
