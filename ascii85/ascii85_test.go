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

package ascii85

import (
	"bytes"
	"testing"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"F*2M7", []byte("sure")},
		{"<~F*2M7~>", []byte("sure")},
		{"F*2\nM 7\t~>", []byte("sure")},
		{"F*2M7ARTY*", []byte("sureeasy")},
		{"z", []byte{0, 0, 0, 0}},
		{"zz~>", []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		// partial trailing group: two digits keep one byte
		{"5l", []byte("a")},
		{"~>", nil},
		{"", nil},
	}
	for _, test := range cases {
		got, err := Decode([]byte(test.in))
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("%q: got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		"ab\xffcd",  // invalid byte
		"abzde",     // z inside a group
		"abcd~",     // '~' without '>'
		"s8W-\"",    // group value out of range
	}
	for _, in := range cases {
		if _, err := Decode([]byte(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}
