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

package truetype

import (
	"encoding/binary"
	"testing"
)

// buildFont assembles a minimal sfnt file with a single cmap table.
func buildFont(cmapTable []byte) []byte {
	header := make([]byte, 12)
	binary.BigEndian.PutUint32(header, 0x00010000)
	binary.BigEndian.PutUint16(header[4:], 1) // numTables

	entry := make([]byte, 16)
	copy(entry, "cmap")
	binary.BigEndian.PutUint32(entry[8:], 28) // offset
	binary.BigEndian.PutUint32(entry[12:], uint32(len(cmapTable)))

	res := append(header, entry...)
	return append(res, cmapTable...)
}

// cmapHeader wraps one subtable with the cmap table header.
func cmapHeader(platformID, encodingID uint16, sub []byte) []byte {
	head := make([]byte, 12)
	binary.BigEndian.PutUint16(head[2:], 1) // numTables
	binary.BigEndian.PutUint16(head[4:], platformID)
	binary.BigEndian.PutUint16(head[6:], encodingID)
	binary.BigEndian.PutUint32(head[8:], 12) // subtable offset
	return append(head, sub...)
}

func TestFormat0(t *testing.T) {
	sub := make([]byte, 6+256)
	binary.BigEndian.PutUint16(sub, 0) // format
	sub[6+'A'] = 17
	sub[6+'B'] = 18

	cm, err := ParseCmap(buildFont(cmapHeader(1, 0, sub)))
	if err != nil {
		t.Fatal(err)
	}
	if cm.CodeToGID['A'] != 17 || cm.CodeToGID['B'] != 18 {
		t.Errorf("wrong mapping: %v", cm.CodeToGID)
	}
	if cm.GIDToRune[17] != 'A' {
		t.Errorf("wrong inversion: %v", cm.GIDToRune)
	}
}

func TestFormat4(t *testing.T) {
	// one segment mapping 0x41-0x43 to glyphs 5-7, plus the final
	// 0xFFFF segment
	segCount := 2
	sub := make([]byte, 14+2*segCount+2+2*segCount+2*segCount+2*segCount)
	binary.BigEndian.PutUint16(sub, 4) // format
	binary.BigEndian.PutUint16(sub[6:], uint16(2*segCount))

	endBase := 14
	startBase := endBase + 2*segCount + 2
	deltaBase := startBase + 2*segCount
	rangeBase := deltaBase + 2*segCount

	binary.BigEndian.PutUint16(sub[endBase:], 0x43)
	binary.BigEndian.PutUint16(sub[endBase+2:], 0xFFFF)
	binary.BigEndian.PutUint16(sub[startBase:], 0x41)
	binary.BigEndian.PutUint16(sub[startBase+2:], 0xFFFF)
	// idDelta: gid = code + delta mod 65536, here delta = -60
	binary.BigEndian.PutUint16(sub[deltaBase:], 0x10000+5-0x41)
	binary.BigEndian.PutUint16(sub[deltaBase+2:], 1)
	binary.BigEndian.PutUint16(sub[rangeBase:], 0)
	binary.BigEndian.PutUint16(sub[rangeBase+2:], 0)

	cm, err := ParseCmap(buildFont(cmapHeader(3, 1, sub)))
	if err != nil {
		t.Fatal(err)
	}
	for code, gid := range map[uint32]uint16{0x41: 5, 0x42: 6, 0x43: 7} {
		if cm.CodeToGID[code] != gid {
			t.Errorf("code %#x: got %d, want %d", code, cm.CodeToGID[code], gid)
		}
	}
	if cm.GIDToRune[6] != 'B' {
		t.Errorf("wrong inversion: %v", cm.GIDToRune)
	}
	if cm.Symbolic {
		t.Error("a (3,1) subtable is not symbolic")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	sub := make([]byte, 8)
	binary.BigEndian.PutUint16(sub, 6) // format 6 is skipped
	_, err := ParseCmap(buildFont(cmapHeader(3, 1, sub)))
	if err == nil {
		t.Error("expected an error for an unsupported subtable")
	}
}
