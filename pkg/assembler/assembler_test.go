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

package assembler_test

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/lassandro/gohack/pkg/assembler"
)

type testCase struct {
	Name     string
	Input    string
	Output   []string
	SymTable *assembler.SymTable
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	var result []string
	var errs []error
	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if test.SymTable != nil {
		symtable.Symbols = make(map[uint16]int64)
		symtable.Labels = make(map[uint16]string)
		symtarget = &symtable
	}

	result, errs = assembler.AssembleHackSource(
		strings.NewReader(test.Input), symtarget,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	if have := len(result); have != len(test.Output) {
		t.Fatalf(
			"Invalid image length\n"+
				"want:%d\n"+
				"have:%d",
			len(test.Output),
			have,
		)
	}

	for i, want := range test.Output {
		if have := result[i]; have != want {
			t.Fatalf(
				"Instruction encoding mismatch\n"+
					"want:%s (test.Output[%d])\n"+
					"have:%s",
				want,
				i,
				have,
			)
		}
	}

	if test.SymTable != nil {
		for addr, want := range test.SymTable.Symbols {
			have, exists := symtable.Symbols[addr]

			if !exists {
				t.Fatalf(
					"Missing symtable encoding\n"+
						"want:%d (test.SymTable.Symbols[%#04x])\n"+
						"have:nil",
					want,
					addr,
				)
			} else if have != want {
				t.Fatalf(
					"Symtable encoding mismatch\n"+
						"want:%d (test.SymTable.Symbols[%#04x])\n"+
						"have:%d",
					want,
					addr,
					have,
				)
			}
		}

		for addr, have := range symtable.Symbols {
			_, exists := test.SymTable.Symbols[addr]

			if !exists {
				t.Fatalf(
					"Unexpected symtable encoding\n"+
						"want: nil\n"+
						"have: %d (symtable.Symbols[%#04x])",
					have,
					addr,
				)
			}
		}

		for addr, want := range test.SymTable.Labels {
			have, exists := symtable.Labels[addr]

			if !exists {
				t.Fatalf(
					"Missing symtable encoding\n"+
						"want:%s (test.SymTable.Labels[%#04x])\n"+
						"have:nil",
					want,
					addr,
				)
			} else if have != want {
				t.Fatalf(
					"Symtable encoding mismatch\n"+
						"want:%s (test.SymTable.Labels[%#04x])\n"+
						"have:%s",
					want,
					addr,
					have,
				)
			}
		}

		for addr, have := range symtable.Labels {
			_, exists := test.SymTable.Labels[addr]

			if !exists {
				t.Fatalf(
					"Unexpected symtable encoding\n"+
						"want: nil\n"+
						"have: %s (symtable.Labels[%#04x])",
					have,
					addr,
				)
			}
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	file := strings.NewReader(test.Input)

	_, errs := assembler.AssembleHackSource(file, nil)

	if test.Error == nil {
		panic("Fail case missing error value")
	}

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if len(errs) > 1 {
		errTypes := make([]reflect.Type, 0, len(errs))
		for _, err := range errs {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			errs[0],
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

// @value |0|vvvvvvvvvvvvvvv               | Load value into A
// ----   [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestAddress(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Literal Zero",
			Input:  `@0`,
			Output: []string{"0000000000000000"},
		},
		{
			Name:   "Literal",
			Input:  `@2`,
			Output: []string{"0000000000000010"},
		},
		{
			Name:   "Literal Max",
			Input:  `@32767`,
			Output: []string{"0111111111111111"},
		},
		{
			Name:   "Embedded Whitespace",
			Input:  `@ 1 7`,
			Output: []string{"0000000000010001"},
		},
		{
			Name:   "Surrounding Whitespace",
			Input:  "\t  @2  \t",
			Output: []string{"0000000000000010"},
		},
		{
			Name:   "Inline Comment",
			Input:  `@2 // load two`,
			Output: []string{"0000000000000010"},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Empty Symbol",
			Input: `@`,
			Error: &assembler.InvalidSymbolError{},
		},
		{
			Name:  "Leading Digit",
			Input: `@2x`,
			Error: &assembler.InvalidSymbolError{},
		},
		{
			Name:  "Invalid Character",
			Input: `@x-y`,
			Error: &assembler.InvalidSymbolError{},
		},
	})
}

// Literals longer than five digits, or above 32767, clamp to address zero.
// The reference toolchain behaves this way and programs depend on it, so the
// policy is pinned here.
func TestAddressClamp(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Value Overflow",
			Input:  `@32768`,
			Output: []string{"0000000000000000"},
		},
		{
			Name:   "Digit Overflow",
			Input:  `@123456`,
			Output: []string{"0000000000000000"},
		},
		{
			Name:   "Digit Overflow Leading Zero",
			Input:  `@032767`,
			Output: []string{"0000000000000000"},
		},
		{
			Name:   "No Underflow",
			Input:  `@99999`,
			Output: []string{"0000000000000000"},
		},
	})
}

// SP=0 LCL=1 ARG=2 THIS=3 THAT=4 R0-R15=0-15 SCREEN=16384 KBD=24576
func TestPredefinedSymbols(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Pointers",
			Input: "@SP\n@LCL\n@ARG\n@THIS\n@THAT",
			Output: []string{
				"0000000000000000",
				"0000000000000001",
				"0000000000000010",
				"0000000000000011",
				"0000000000000100",
			},
		},
		{
			Name: "Registers",
			Input: ("@R0\n@R1\n@R2\n@R3\n@R4\n@R5\n@R6\n@R7\n" +
				"@R8\n@R9\n@R10\n@R11\n@R12\n@R13\n@R14\n@R15"),
			Output: []string{
				"0000000000000000",
				"0000000000000001",
				"0000000000000010",
				"0000000000000011",
				"0000000000000100",
				"0000000000000101",
				"0000000000000110",
				"0000000000000111",
				"0000000000001000",
				"0000000000001001",
				"0000000000001010",
				"0000000000001011",
				"0000000000001100",
				"0000000000001101",
				"0000000000001110",
				"0000000000001111",
			},
		},
		{
			Name:  "Devices",
			Input: "@SCREEN\n@KBD",
			Output: []string{
				"0100000000000000",
				"0110000000000000",
			},
		},
		{
			Name:   "Case Sensitive",
			Input:  `@r0`,
			Output: []string{"0000000000010000"},
		},
	})
}

// dest=comp;jump |111|a|cccccc|ddd|jjj    | Compute, store, branch
// ----           [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestComputation(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Constant",
			Input:  `D=0`,
			Output: []string{"1110101010010000"},
		},
		{
			Name:   "Register Copy",
			Input:  `D=A`,
			Output: []string{"1110110000010000"},
		},
		{
			Name:   "Memory Read",
			Input:  `D=M`,
			Output: []string{"1111110000010000"},
		},
		{
			Name:   "Memory Write",
			Input:  `M=D`,
			Output: []string{"1110001100001000"},
		},
		{
			Name:   "Memory Increment",
			Input:  `M=M+1`,
			Output: []string{"1111110111001000"},
		},
		{
			Name:   "Register Sum",
			Input:  `D=D+A`,
			Output: []string{"1110000010010000"},
		},
		{
			Name:   "Memory Difference",
			Input:  `D=D-M`,
			Output: []string{"1111010011010000"},
		},
		{
			Name:   "Complement",
			Input:  `D=!M`,
			Output: []string{"1111110001010000"},
		},
		{
			Name:   "Bare Computation",
			Input:  `D-M`,
			Output: []string{"1111010011000000"},
		},
		{
			Name:   "Jump Only",
			Input:  `0;JMP`,
			Output: []string{"1110101010000111"},
		},
		{
			Name:   "Conditional Jump",
			Input:  `D;JGT`,
			Output: []string{"1110001100000001"},
		},
		{
			Name:   "Full Statement",
			Input:  `AD=D&M;JNE`,
			Output: []string{"1111000000110101"},
		},
		{
			Name:   "Embedded Whitespace",
			Input:  `A = M ; J M P`,
			Output: []string{"1111110000100111"},
		},
		{
			Name:   "Inline Comment",
			Input:  `D=M // read the cell`,
			Output: []string{"1111110000010000"},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Unknown Dest",
			Input: `X=D`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Empty Dest",
			Input: `=D+1`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Unknown Comp",
			Input: `D=D+2`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Reversed Comp",
			Input: `D=1+D`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Unknown Jump",
			Input: `D;JXX`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Empty Jump",
			Input: `D;`,
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "Unterminated Label",
			Input: `(FOO`,
			Error: &assembler.UnknownMnemonicError{},
		},
	})
}

// Every ordering of a multi-register destination encodes the same bits
func TestDestinationPermutations(t *testing.T) {
	permutations := map[string][]string{
		"MD":  {"MD", "DM"},
		"AM":  {"AM", "MA"},
		"AD":  {"AD", "DA"},
		"AMD": {"AMD", "ADM", "DAM", "DMA", "MAD", "MDA"},
	}

	for canon, spellings := range permutations {
		want, err := assembler.EncodeComputation(&assembler.Instruction{
			Type: assembler.INSTRUCTION_COMPUTE,
			Dest: canon,
			Comp: "D+1",
			Jump: "null",
		})

		if err != nil {
			t.Fatal(err)
		}

		for _, spelling := range spellings {
			have, err := assembler.EncodeComputation(&assembler.Instruction{
				Type: assembler.INSTRUCTION_COMPUTE,
				Dest: spelling,
				Comp: "D+1",
				Jump: "null",
			})

			if err != nil {
				t.Fatal(err)
			}

			if have != want {
				t.Fatalf(
					"Destination order changed encoding\n"+
						"want:%s (dest %s)\n"+
						"have:%s (dest %s)",
					want,
					canon,
					have,
					spelling,
				)
			}
		}
	}
}

// Sweeps the full mnemonic space: every encoding is sixteen binary digits,
// carries the 111 opcode prefix, and sets the source-select bit exactly when
// the computation references M
func TestComputationTable(t *testing.T) {
	comps := []string{
		"0", "1", "-1",
		"D", "A", "M",
		"!D", "!A", "!M",
		"-D", "-A", "-M",
		"D+1", "A+1", "M+1",
		"D-1", "A-1", "M-1",
		"D+A", "D+M",
		"D-A", "D-M",
		"A-D", "M-D",
		"D&A", "D&M",
		"D|A", "D|M",
	}

	dests := []string{
		"null", "M", "D", "A",
		"MD", "DM", "AM", "MA", "AD", "DA",
		"AMD", "ADM", "DAM", "DMA", "MAD", "MDA",
	}

	jumps := []string{
		"null", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP",
	}

	for _, comp := range comps {
		for _, dest := range dests {
			for _, jump := range jumps {
				have, err := assembler.EncodeComputation(
					&assembler.Instruction{
						Type: assembler.INSTRUCTION_COMPUTE,
						Dest: dest,
						Comp: comp,
						Jump: jump,
					},
				)

				if err != nil {
					t.Fatal(err)
				}

				if len(have) != 16 {
					t.Fatalf(
						"Invalid encoding length\nwant:16\nhave:%d (%s)",
						len(have),
						have,
					)
				}

				if have[:3] != "111" {
					t.Fatalf(
						"Missing opcode prefix\nwant:111\nhave:%s",
						have[:3],
					)
				}

				var want byte = '0'
				if strings.Contains(comp, "M") {
					want = '1'
				}

				if have[3] != want {
					t.Fatalf(
						"Source-select mismatch for %s=%s;%s\n"+
							"want:%c\nhave:%c",
						dest,
						comp,
						jump,
						want,
						have[3],
					)
				}
			}
		}
	}
}

// Address words round-trip for the whole 15-bit space
func TestEncodeAddress(t *testing.T) {
	for addr := uint16(0); addr <= assembler.ADDR_MAX; addr++ {
		line, err := assembler.EncodeAddress(addr)

		if err != nil {
			t.Fatal(err)
		}

		if len(line) != 16 {
			t.Fatalf(
				"Invalid encoding length\nwant:16\nhave:%d (%s)",
				len(line),
				line,
			)
		}

		if line[0] != '0' {
			t.Fatalf(
				"Invalid instruction bit\nwant:0\nhave:%c (%s)",
				line[0],
				line,
			)
		}

		value, err := strconv.ParseUint(line, 2, 16)

		if err != nil {
			t.Fatal(err)
		}

		if uint16(value) != addr {
			t.Fatalf(
				"Address round-trip mismatch\nwant:%d\nhave:%d (%s)",
				addr,
				value,
				line,
			)
		}
	}

	_, err := assembler.EncodeAddress(assembler.ADDR_MAX + 1)

	if reflect.TypeOf(err) != reflect.TypeOf(&assembler.OversizedAddressError{}) {
		t.Fatalf(
			"Oversized address produced error of incorrect type"+
				"\nwant:%T\nhave:%T",
			&assembler.OversizedAddressError{},
			err,
		)
	}
}

// (name) binds to the address of the next real instruction and emits nothing
func TestLabels(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Backward Reference",
			Input: "(LOOP)\n@LOOP\n0;JMP",
			Output: []string{
				"0000000000000000",
				"1110101010000111",
			},
		},
		{
			Name:  "Forward Reference",
			Input: "@END\n0;JMP\n(END)",
			Output: []string{
				"0000000000000010",
				"1110101010000111",
			},
		},
		{
			Name: "Interspersed",
			Input: ("(START)\n" +
				"@2\n" +
				"D=A\n" +
				"(MID)\n" +
				"@MID\n" +
				"0;JMP\n" +
				"(END)\n" +
				"@END"),
			Output: []string{
				"0000000000000010",
				"1110110000010000",
				"0000000000000010",
				"1110101010000111",
				"0000000000000100",
			},
		},
		{
			Name:  "Duplicate Keeps First",
			Input: "(HERE)\n@HERE\n(HERE)\n0;JMP",
			Output: []string{
				"0000000000000000",
				"1110101010000111",
			},
		},
		{
			Name:  "Predefined Name Wins",
			Input: "(R5)\n@R5\n0;JMP",
			Output: []string{
				"0000000000000101",
				"1110101010000111",
			},
		},
		{
			Name:  "Trailing Label",
			Input: "@0\n(END)",
			Output: []string{
				"0000000000000000",
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Leading Digit",
			Input: `(1LOOP)`,
			Error: &assembler.InvalidSymbolError{},
		},
		{
			Name:  "Empty Label",
			Input: `()`,
			Error: &assembler.InvalidSymbolError{},
		},
	})
}

// Unknown symbols become variables at 16, 17, ... in first-appearance order
func TestVariables(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Sequential Allocation",
			Input: "@foo\n@bar",
			Output: []string{
				"0000000000010000",
				"0000000000010001",
			},
		},
		{
			Name:  "Reuse Keeps First Address",
			Input: "@foo\n@bar\n@foo",
			Output: []string{
				"0000000000010000",
				"0000000000010001",
				"0000000000010000",
			},
		},
		{
			Name:  "Case Sensitive",
			Input: "@foo\n@FOO",
			Output: []string{
				"0000000000010000",
				"0000000000010001",
			},
		},
		{
			Name:  "Literals Do Not Allocate",
			Input: "@foo\n@5\n@bar",
			Output: []string{
				"0000000000010000",
				"0000000000000101",
				"0000000000010001",
			},
		},
		{
			Name:  "Labels Resolve First",
			Input: "@x\n(x)\n@x",
			Output: []string{
				"0000000000000001",
				"0000000000000001",
			},
		},
		{
			Name:  "Specials Allowed",
			Input: "@obj.field$0:tmp\n@_x",
			Output: []string{
				"0000000000010000",
				"0000000000010001",
			},
		},
	})
}

func TestComments(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Comment Only",
			Input:  `// Lorem Ipsum`,
			Output: []string{},
		},
		{
			Name: "Multiple Comments",
			Input: ("// Lorem Ipsum\n" +
				"   // Lorem Ipsum\n" +
				"// Lorem Ipsum // Lorem Ipsum"),
			Output: []string{},
		},
		{
			Name:   "Blank Lines",
			Input:  "\n\n   \n\t\n",
			Output: []string{},
		},
		{
			Name: "Comments With Statements",
			Input: ("// header\n" +
				"\n" +
				"@2 // address\n" +
				"D=A // computation\n" +
				"// trailer"),
			Output: []string{
				"0000000000000010",
				"1110110000010000",
			},
		},
	})
}

func TestPrograms(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Add Two And Three",
			Input: "@2\nD=A\n@3\nD=D+A\n@0\nM=D",
			Output: []string{
				"0000000000000010",
				"1110110000010000",
				"0000000000000011",
				"1110000010010000",
				"0000000000000000",
				"1110001100001000",
			},
		},
		{
			Name: "Max Of R0 And R1",
			Input: ("// Computes R2 = max(R0, R1)\n" +
				"@R0\n" +
				"D=M\n" +
				"@R1\n" +
				"D=D-M\n" +
				"@OUTPUT_FIRST\n" +
				"D;JGT\n" +
				"@R1\n" +
				"D=M\n" +
				"@OUTPUT_D\n" +
				"0;JMP\n" +
				"(OUTPUT_FIRST)\n" +
				"@R0\n" +
				"D=M\n" +
				"(OUTPUT_D)\n" +
				"@R2\n" +
				"M=D\n" +
				"(INFINITE_LOOP)\n" +
				"@INFINITE_LOOP\n" +
				"0;JMP"),
			Output: []string{
				"0000000000000000",
				"1111110000010000",
				"0000000000000001",
				"1111010011010000",
				"0000000000001010",
				"1110001100000001",
				"0000000000000001",
				"1111110000010000",
				"0000000000001100",
				"1110101010000111",
				"0000000000000000",
				"1111110000010000",
				"0000000000000010",
				"1110001100001000",
				"0000000000001110",
				"1110101010000111",
			},
		},
	})
}

func TestIdempotence(t *testing.T) {
	input := ("@i\n" +
		"M=1\n" +
		"(LOOP)\n" +
		"@i\n" +
		"MD=M+1\n" +
		"@100\n" +
		"D=D-A\n" +
		"@LOOP\n" +
		"D;JLT")

	first, errs := assembler.AssembleHackSource(strings.NewReader(input), nil)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	second, errs := assembler.AssembleHackSource(strings.NewReader(input), nil)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	want := strings.Join(first, "\n")
	have := strings.Join(second, "\n")

	if want != have {
		t.Fatalf(
			"Assembly is not deterministic\nwant:%s\nhave:%s",
			want,
			have,
		)
	}
}

func TestProgramSize(t *testing.T) {
	t.Run("Oversized Program", func(t *testing.T) {
		input := strings.Repeat("@1\n", 1<<15+1)

		_, errs := assembler.AssembleHackSource(strings.NewReader(input), nil)

		if len(errs) != 1 {
			t.Fatalf(
				"Invalid error count\nwant:1\nhave:%d",
				len(errs),
			)
		}

		want := &assembler.OversizedProgramError{}

		if reflect.TypeOf(errs[0]) != reflect.TypeOf(want) {
			t.Fatalf(
				"Produced error of incorrect type\nwant:%T\nhave:%T",
				want,
				errs[0],
			)
		}
	})

	t.Run("Exhausted Variables", func(t *testing.T) {
		var builder strings.Builder

		// Addresses 16 through 32767 hold one variable each; one more must
		// fail
		for i := 0; i < 1<<15-int(assembler.ADDR_VARIABLES)+1; i++ {
			fmt.Fprintf(&builder, "@v%d\n", i)
		}

		_, errs := assembler.AssembleHackSource(
			strings.NewReader(builder.String()), nil,
		)

		if len(errs) != 1 {
			t.Fatalf(
				"Invalid error count\nwant:1\nhave:%d",
				len(errs),
			)
		}

		want := &assembler.OversizedProgramError{}

		if reflect.TypeOf(errs[0]) != reflect.TypeOf(want) {
			t.Fatalf(
				"Produced error of incorrect type\nwant:%T\nhave:%T",
				want,
				errs[0],
			)
		}
	})
}

func TestSymtable(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Symtable",
			/*
				+  8	(BEGIN)
				+  9	@counter
				+  6	M=M+1
				+  7	@BEGIN
				+  5	0;JMP
				----
				= 35
			*/
			Input: ("(BEGIN)\n" +
				"@counter\n" +
				"M=M+1\n" +
				"@BEGIN\n" +
				"0;JMP"),
			Output: []string{
				"0000000000010000",
				"1111110111001000",
				"0000000000000000",
				"1110101010000111",
			},
			SymTable: &assembler.SymTable{
				Symbols: map[uint16]int64{
					0x0000: 8,  // @counter
					0x0001: 17, // M=M+1
					0x0002: 23, // @BEGIN
					0x0003: 30, // 0;JMP
				},
				Labels: map[uint16]string{
					0x0000: "BEGIN",
				},
			},
		},
	})
}
