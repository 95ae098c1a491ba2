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

package encoding

import (
	"errors"
	"fmt"
	"strconv"
)

// Decodes a base-10 address literal in the format: 123
//
// Oversized literals do not fail: anything longer than five digits or with a
// value above 32767 decodes to address zero.
func DecodeAddress(s string) (uint16, bool) {
	if len(s) == 0 {
		return 0, false
	}

	for _, char := range s {
		if char < '0' || char > '9' {
			return 0, false
		}
	}

	if len(s) > 5 {
		return 0, true
	}

	var result uint32 = 0

	for _, char := range s {
		result = result*10 + uint32(char-'0')

		if result > 32767 {
			return 0, true
		}
	}

	return uint16(result), true
}

// Decodes a line of machine code text in the format: 0000000000000010
func DecodeBinary(s string) (uint16, error) {
	if len(s) != 16 {
		return 0, errors.New("Invalid binary string")
	}

	result, err := strconv.ParseUint(s, 2, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Encodes a word as sixteen binary digits, most significant bit first
func EncodeWord(value uint16) string {
	return fmt.Sprintf("%016b", value)
}
