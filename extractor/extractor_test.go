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

package extractor

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdftext/table"
)

// buildPDF assembles a one-page document with the given content
// stream.
func buildPDF(content string) []byte {
	var buf bytes.Buffer
	offsets := make(map[int]int)
	buf.WriteString("%PDF-1.7\n")

	add := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	add(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]
/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>`)
	offsets[4] = buf.Len()
	fmt.Fprintf(&buf, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(content), content)
	add(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for num := 1; num <= 5; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

// TestHelloText covers the whole pipeline: document, interpreter and
// layout analysis.
func TestHelloText(t *testing.T) {
	data := buildPDF("BT /F1 12 Tf 100 700 Td (Hello) Tj ET")

	text, err := ExtractText(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello\n\f" {
		t.Errorf("got %q, want %q", text, "Hello\n\f")
	}
}

func TestHelloGlyphs(t *testing.T) {
	data := buildPDF("BT /F1 12 Tf 100 700 Td (Hello) Tj ET")

	var pages []*AnalyzedPage
	for page, err := range ExtractPages(data, nil) {
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, page)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	chars := pages[0].Chars
	if len(chars) != 5 {
		t.Fatalf("expected one glyph per letter, got %d", len(chars))
	}
	first := chars[0]
	if math.Abs(first.BBox.LLx-100) > 1e-6 {
		t.Errorf("wrong first glyph x0: %g", first.BBox.LLx)
	}
	if math.Abs(first.BBox.URx-(100+0.722*12)) > 1e-6 {
		t.Errorf("wrong first glyph x1: %g", first.BBox.URx)
	}
}

func TestPageSelection(t *testing.T) {
	data := buildPDF("BT /F1 12 Tf 100 700 Td (Hello) Tj ET")

	// selecting a page which does not exist extracts nothing
	opt := &Options{PageNumbers: map[int]bool{5: true}}
	text, err := ExtractText(data, opt)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("got %q", text)
	}
}

// TestTables draws a 2x2 ruled grid with one letter per cell and runs
// the full extraction pipeline plus the table reconstructor.
func TestTables(t *testing.T) {
	content := `
100 100 m 300 100 l S
100 200 m 300 200 l S
100 300 m 300 300 l S
100 100 m 100 300 l S
200 100 m 200 300 l S
300 100 m 300 300 l S
BT /F1 12 Tf 140 240 Td (A) Tj ET
BT /F1 12 Tf 240 240 Td (B) Tj ET
BT /F1 12 Tf 140 140 Td (C) Tj ET
BT /F1 12 Tf 240 140 Td (D) Tj ET
`
	data := buildPDF(content)

	var pages []*AnalyzedPage
	for page, err := range ExtractPages(data, nil) {
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, page)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	tables := ExtractTables(pages[0], table.DefaultSettings())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	got := tables[0].Content(nil)
	want := [][]string{{"A", "B"}, {"C", "D"}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("table content (-want +got):\n%s", d)
	}
}

// TestReadingOrderColumns checks that two columns come out left
// column first.
func TestReadingOrderColumns(t *testing.T) {
	content := `
BT /F1 12 Tf 400 700 Td (right) Tj ET
BT /F1 12 Tf 100 700 Td (left) Tj ET
`
	data := buildPDF(content)
	text, err := ExtractText(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "left\nright\n\f" {
		t.Errorf("got %q", text)
	}
}
