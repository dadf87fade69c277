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

package cmap

import (
	"strings"
	"testing"
)

func TestPredefinedIdentity(t *testing.T) {
	cm := Predefined("Identity-H")
	if cm == nil {
		t.Fatal("Identity-H not recognized")
	}
	if cm.Vertical() {
		t.Error("Identity-H is horizontal")
	}
	codes := cm.Decode([]byte{0x00, 0x41, 0x30, 0x42})
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(codes))
	}
	if codes[0].CID != 0x41 || codes[1].CID != 0x3042 {
		t.Errorf("wrong CIDs %d %d", codes[0].CID, codes[1].CID)
	}

	if cm := Predefined("Identity-V"); cm == nil || !cm.Vertical() {
		t.Error("Identity-V must be vertical")
	}
	if cm := Predefined("OneByteIdentityH"); cm == nil {
		t.Error("OneByteIdentityH not recognized")
	} else if codes := cm.Decode([]byte{7}); codes[0].CID != 7 {
		t.Error("one-byte identity broken")
	}
}

func TestPredefinedNamed(t *testing.T) {
	cm := Predefined("UniGB-UCS2-H")
	if cm == nil {
		t.Fatal("UniGB-UCS2-H not recognized")
	}
	codes := cm.Decode([]byte{0x4E, 0x2D})
	if len(codes) != 1 || codes[0].CID != 0x4E2D {
		t.Errorf("wrong decoding %v", codes)
	}
}

const toUnicodeSrc = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0001> <0041>
<0002> <00420043>
endbfchar
1 beginbfrange
<0010> <0012> <0061>
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestReadToUnicode(t *testing.T) {
	tu, err := ReadToUnicode(strings.NewReader(toUnicodeSrc))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		code int64
		want string
		ok   bool
	}{
		{0x0001, "A", true},
		{0x0002, "BC", true},
		{0x0010, "a", true},
		{0x0011, "b", true},
		{0x0012, "c", true},
		{0x0099, "", false},
	}
	for _, test := range cases {
		got, ok := tu.Lookup(test.code)
		if ok != test.ok || got != test.want {
			t.Errorf("code %#x: got %q/%v, want %q/%v",
				test.code, got, ok, test.want, test.ok)
		}
	}
}

func TestToUnicodeNil(t *testing.T) {
	var tu *ToUnicode
	if _, ok := tu.Lookup(1); ok {
		t.Error("nil map must not resolve")
	}
}

const cidCMapSrc = `%!PS-Adobe-3.0 Resource-CMap
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Test) /Ordering (Simple) /Supplement 0 >> def
/CMapName /Test-Simple-H def
/CMapType 1 def
/WMode 0 def
1 begincodespacerange
<00> <FF>
endcodespacerange
1 begincidchar
<20> 1
endcidchar
1 begincidrange
<41> <5A> 10
endcidrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestReadCIDCMap(t *testing.T) {
	cm, err := Read(strings.NewReader(cidCMapSrc))
	if err != nil {
		t.Fatal(err)
	}
	if cm.Name != "Test-Simple-H" {
		t.Errorf("wrong name %q", cm.Name)
	}
	if cm.Vertical() {
		t.Error("WMode 0 is horizontal")
	}

	codes := cm.Decode([]byte{0x20, 0x41, 0x42, 0x5A})
	want := []CID{1, 10, 11, 35}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i, w := range want {
		if codes[i].CID != w {
			t.Errorf("code %d: got %d, want %d", i, codes[i].CID, w)
		}
	}
}
