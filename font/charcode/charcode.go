// seehuhn.de/go/pdftext - extract text and tables from PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package charcode describes how byte strings in PDF content streams
// are split into character codes.
package charcode

import "bytes"

// Range is a range of character codes.  Low and High must have the
// same length, and a byte string matches if every byte lies between
// the corresponding bytes of Low and High.
type Range struct {
	Low, High []byte
}

// CodeSpaceRange describes the ranges of byte sequences which are valid
// character codes for a given encoding.
type CodeSpaceRange []Range

var (
	// Simple is the code space range for simple fonts: one-byte codes.
	Simple = CodeSpaceRange{{Low: []byte{0x00}, High: []byte{0xFF}}}

	// UCS2 is the code space range for two-byte codes.
	UCS2 = CodeSpaceRange{{Low: []byte{0x00, 0x00}, High: []byte{0xFF, 0xFF}}}
)

// Match returns the length of the code at the start of s, or 0 if no
// range matches.
func (c CodeSpaceRange) Match(s []byte) int {
	for _, r := range c {
		k := len(r.Low)
		if len(s) < k {
			continue
		}
		ok := true
		for i := 0; i < k; i++ {
			if s[i] < r.Low[i] || s[i] > r.High[i] {
				ok = false
				break
			}
		}
		if ok {
			return k
		}
	}
	return 0
}

// Decode returns the numeric value of the code at the start of s,
// together with the number of bytes consumed.  If no range matches,
// Decode consumes one byte, so that scanning always makes progress,
// and returns -1.
func (c CodeSpaceRange) Decode(s []byte) (int64, int) {
	k := c.Match(s)
	if k == 0 {
		if len(s) == 0 {
			return -1, 0
		}
		return -1, 1
	}
	var val int64
	for i := 0; i < k; i++ {
		val = val<<8 | int64(s[i])
	}
	return val, k
}

// CodeLen returns the length of the byte sequences in the range, or -1
// if the ranges disagree.
func (c CodeSpaceRange) CodeLen() int {
	if len(c) == 0 {
		return -1
	}
	k := len(c[0].Low)
	for _, r := range c[1:] {
		if len(r.Low) != k {
			return -1
		}
	}
	return k
}

// Contains reports whether code is a valid code of the range.
func (c CodeSpaceRange) Contains(code []byte) bool {
	k := c.Match(code)
	return k == len(code)
}

// Equal reports whether two code space ranges list the same ranges in
// the same order.
func (c CodeSpaceRange) Equal(other CodeSpaceRange) bool {
	if len(c) != len(other) {
		return false
	}
	for i, r := range c {
		if !bytes.Equal(r.Low, other[i].Low) ||
			!bytes.Equal(r.High, other[i].High) {
			return false
		}
	}
	return true
}
