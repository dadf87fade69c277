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

package lzw

import (
	"bytes"
	"testing"
)

// packCodes packs 9-bit codes MSB-first into bytes.
func packCodes(codes []int) []byte {
	var out []byte
	var acc uint32
	bits := 0
	for _, c := range codes {
		acc = acc<<9 | uint32(c)
		bits += 9
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>uint(bits)))
		}
	}
	if bits > 0 {
		out = append(out, byte(acc<<uint(8-bits)))
	}
	return out
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name  string
		codes []int
		want  []byte
	}{
		{
			name:  "simple",
			codes: []int{256, 'A', 'B', 257},
			want:  []byte("AB"),
		},
		{
			// code 258 refers to the entry created by the previous
			// code, the KwKwK special case
			name:  "kwkwk",
			codes: []int{256, 'A', 258, 257},
			want:  []byte("AAA"),
		},
		{
			name:  "reuse",
			codes: []int{256, 'A', 'B', 258, 257},
			want:  []byte("ABAB"),
		},
		{
			// a missing EOD marker is tolerated
			name:  "no EOD",
			codes: []int{256, 'X', 'Y'},
			want:  []byte("XY"),
		},
		{
			name:  "clear mid-stream",
			codes: []int{256, 'A', 'B', 256, 'C', 257},
			want:  []byte("ABC"),
		},
	}
	for _, test := range cases {
		for _, early := range []bool{true, false} {
			got, err := Decode(packCodes(test.codes), early)
			if err != nil {
				t.Errorf("%s: %v", test.name, err)
				continue
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("%s (early=%v): got %q, want %q",
					test.name, early, got, test.want)
			}
		}
	}
}

func TestDecodeBadCode(t *testing.T) {
	// code 300 has never been defined
	_, err := Decode(packCodes([]int{256, 300, 257}), true)
	if err == nil {
		t.Error("expected error for undefined code")
	}
}
