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

package machine

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/lassandro/gohack/pkg/encoding"
)

func (mc *MachineState) Reset() {
	mc.A = 0x0000
	mc.D = 0x0000
	mc.PC = 0x0000

	for i, _ := range mc.RAM {
		mc.RAM[i] = 0x0000
	}
}

// Loads a program image of sixteen-digit binary lines into instruction
// memory, resetting registers and data memory
func (mc *Machine) LoadHack(reader io.Reader) error {
	mc.State.Reset()

	for i, _ := range mc.State.ROM {
		mc.State.ROM[i] = 0x0000
	}

	scanner := bufio.NewScanner(reader)
	index := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 {
			continue
		}

		if index >= MEM_SIZE {
			return errors.New("Program exceeds instruction memory")
		}

		value, err := encoding.DecodeBinary(line)

		if err != nil {
			return err
		}

		mc.State.ROM[index] = value
		index++
	}

	return scanner.Err()
}

// Maps terminal bytes onto the keyboard character set
func translateKey(key byte) uint16 {
	switch key {
	case '\r', '\n':
		return KEY_NEWLINE
	case '\b', 0x7F:
		return KEY_BACKSPACE
	case 0x1B:
		return KEY_ESC
	default:
		return uint16(key)
	}
}

func (mc *Machine) read(addr uint16) uint16 {
	addr &= MEM_SIZE - 1

	// The keyboard register latches the pending terminal byte, or zero when
	// no key is held. Without a device attached it reads back whatever the
	// host stored there.
	if addr == DEV_KBD && mc.Devices != nil && mc.Devices.Keyboard != nil {
		key, err := mc.Devices.Keyboard.ReadByte()

		if err == io.EOF {
			mc.State.RAM[DEV_KBD] = 0
		} else if err != nil {
			panic(err)
		} else {
			mc.State.RAM[DEV_KBD] = translateKey(key)
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.RAM[addr]
}

func (mc *Machine) write(addr uint16, value uint16) {
	addr &= MEM_SIZE - 1

	// The keyboard register is read-only
	if addr != DEV_KBD {
		mc.State.RAM[addr] = value
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) Step() {
	instruction := mc.State.ROM[mc.State.PC&(MEM_SIZE-1)]

	mc.State.PC++

	// @value |0|v v v v v v v v v v v v v v v | Load value into A
	// ----   [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	if instruction>>15 == 0 {
		mc.State.A = instruction
	} else {
		// dest=comp;jump |1 1 1|a|c c c c c c|d d d|j j j| Compute
		// ----           [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
		address := mc.State.A

		x := mc.State.D

		var y uint16

		if instruction&COMP_A != 0 {
			y = mc.read(address)
		} else {
			y = address
		}

		if instruction&COMP_ZX != 0 {
			x = 0
		}

		if instruction&COMP_NX != 0 {
			x = ^x
		}

		if instruction&COMP_ZY != 0 {
			y = 0
		}

		if instruction&COMP_NY != 0 {
			y = ^y
		}

		var out uint16

		if instruction&COMP_F != 0 {
			out = x + y
		} else {
			out = x & y
		}

		if instruction&COMP_NO != 0 {
			out = ^out
		}

		// Memory writes land at the address held before any destination
		// updates
		if instruction&DEST_M != 0 {
			mc.write(address, out)
		}

		if instruction&DEST_D != 0 {
			mc.State.D = out
		}

		if instruction&DEST_A != 0 {
			mc.State.A = out
		}

		jump := false

		if instruction&JUMP_LT != 0 && out>>15 == 1 {
			jump = true
		}

		if instruction&JUMP_EQ != 0 && out == 0 {
			jump = true
		}

		if instruction&JUMP_GT != 0 && out != 0 && out>>15 == 0 {
			jump = true
		}

		// Branches land on the address register as updated this step
		if jump {
			mc.State.PC = mc.State.A
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}
