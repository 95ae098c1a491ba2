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

// Fifteen address bits select words of instruction and data memory
const MEM_SIZE = 1 << 15

const (
	DEV_SCREEN uint16 = 0x4000
	DEV_KBD    uint16 = 0x6000
)

const (
	SCREEN_WIDTH  = 512
	SCREEN_HEIGHT = 256

	// One word holds sixteen pixels, lowest bit leftmost
	SCREEN_WORDS = SCREEN_WIDTH * SCREEN_HEIGHT / 16
)

// dest=comp;jump |1 1 1|a|c c c c c c|d d d|j j j|
// ----           [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
const (
	// Select memory input over the address register
	COMP_A uint16 = 1 << 12

	// Zero the first operand
	COMP_ZX uint16 = 1 << 11

	// Complement the first operand
	COMP_NX uint16 = 1 << 10

	// Zero the second operand
	COMP_ZY uint16 = 1 << 9

	// Complement the second operand
	COMP_NY uint16 = 1 << 8

	// Add the operands instead of ANDing them
	COMP_F uint16 = 1 << 7

	// Complement the output
	COMP_NO uint16 = 1 << 6

	DEST_A uint16 = 1 << 5
	DEST_D uint16 = 1 << 4
	DEST_M uint16 = 1 << 3

	JUMP_LT uint16 = 1 << 2
	JUMP_EQ uint16 = 1 << 1
	JUMP_GT uint16 = 1 << 0
)

// Values the keyboard register reports for keys with no character code
const (
	KEY_NEWLINE   uint16 = 128
	KEY_BACKSPACE uint16 = 129
	KEY_LEFT      uint16 = 130
	KEY_UP        uint16 = 131
	KEY_RIGHT     uint16 = 132
	KEY_DOWN      uint16 = 133
	KEY_HOME      uint16 = 134
	KEY_END       uint16 = 135
	KEY_PAGEUP    uint16 = 136
	KEY_PAGEDOWN  uint16 = 137
	KEY_INSERT    uint16 = 138
	KEY_DELETE    uint16 = 139
	KEY_ESC       uint16 = 140
	KEY_F1        uint16 = 141
	KEY_F2        uint16 = 142
	KEY_F3        uint16 = 143
	KEY_F4        uint16 = 144
	KEY_F5        uint16 = 145
	KEY_F6        uint16 = 146
	KEY_F7        uint16 = 147
	KEY_F8        uint16 = 148
	KEY_F9        uint16 = 149
	KEY_F10       uint16 = 150
	KEY_F11       uint16 = 151
	KEY_F12       uint16 = 152
)
