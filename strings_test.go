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

package pdftext

import (
	"bytes"
	"testing"
)

func TestPDFDocEncode(t *testing.T) {
	buf, ok := pdfDocEncode("hello")
	if !ok || !bytes.Equal(buf, []byte("hello")) {
		t.Errorf("got %q, %v", buf, ok)
	}

	buf, ok = pdfDocEncode("Größe")
	if !ok || !bytes.Equal(buf, []byte{'G', 'r', 0xF6, 0xDF, 'e'}) {
		t.Errorf("got %x, %v", buf, ok)
	}

	if _, ok := pdfDocEncode("日本語"); ok {
		t.Error("CJK text is not representable in PDFDocEncoding")
	}
}

func TestTextString(t *testing.T) {
	// UTF-16BE with byte order mark
	s := String{0xFE, 0xFF, 0x00, 'H', 0x00, 'i', 0x30, 0x42}
	if got := TextString(s); got != "Hiあ" {
		t.Errorf("got %q", got)
	}

	// PDFDocEncoding
	if got := TextString(String("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}
	if got := TextString(String{0x83}); got != "…" {
		t.Errorf("got %q", got)
	}
}
