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

package jbig2

import (
	"bytes"
	"testing"
)

// buildSegment assembles one segment with a one-byte page association
// and no referred-to segments.
func buildSegment(number uint32, tp uint8, data []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{
		byte(number >> 24), byte(number >> 16), byte(number >> 8), byte(number),
	})
	buf.WriteByte(tp & 0x3F)
	buf.WriteByte(0) // no referred-to segments
	buf.WriteByte(1) // page 1
	n := len(data)
	buf.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(data)
	return buf.Bytes()
}

func TestParseSegments(t *testing.T) {
	var stream []byte
	stream = append(stream, buildSegment(0, 48, []byte{1, 2, 3, 4})...) // page info
	stream = append(stream, buildSegment(1, 38, []byte{5, 6})...)      // generic region

	segs, err := ParseSegments(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Type != 48 || segs[1].Type != 38 {
		t.Errorf("wrong types %d %d", segs[0].Type, segs[1].Type)
	}
	if !bytes.Equal(segs[1].Data, []byte{5, 6}) {
		t.Errorf("wrong data %v", segs[1].Data)
	}
	if segs[0].PageAssoc != 1 {
		t.Errorf("wrong page association %d", segs[0].PageAssoc)
	}
}

func TestTruncatedSegment(t *testing.T) {
	seg := buildSegment(0, 48, []byte{1, 2, 3, 4})
	_, err := ParseSegments(seg[:len(seg)-2])
	if err == nil {
		t.Error("expected an error for truncated data")
	}
}
