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

package charcode

import "testing"

func TestSimple(t *testing.T) {
	if k := Simple.Match([]byte{0x41}); k != 1 {
		t.Errorf("got %d", k)
	}
	val, k := Simple.Decode([]byte{0x41, 0x42})
	if val != 0x41 || k != 1 {
		t.Errorf("got %d, %d", val, k)
	}
}

func TestUCS2(t *testing.T) {
	val, k := UCS2.Decode([]byte{0x30, 0x42, 0x00})
	if val != 0x3042 || k != 2 {
		t.Errorf("got %#x, %d", val, k)
	}
	// a truncated final code still consumes one byte
	val, k = UCS2.Decode([]byte{0x30})
	if val != -1 || k != 1 {
		t.Errorf("got %d, %d", val, k)
	}
}

func TestMixedWidth(t *testing.T) {
	// one-byte codes 0x00-0x80, two-byte codes 0x81xx-0xFExx
	cs := CodeSpaceRange{
		{Low: []byte{0x00}, High: []byte{0x80}},
		{Low: []byte{0x81, 0x40}, High: []byte{0xFE, 0xFC}},
	}
	val, k := cs.Decode([]byte{0x41})
	if val != 0x41 || k != 1 {
		t.Errorf("got %#x, %d", val, k)
	}
	val, k = cs.Decode([]byte{0x82, 0x50})
	if val != 0x8250 || k != 2 {
		t.Errorf("got %#x, %d", val, k)
	}
	if cs.CodeLen() != -1 {
		t.Errorf("mixed ranges must report -1")
	}
}
