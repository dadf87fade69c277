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
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testScanner(contents string) *Scanner {
	return NewScanner(strings.NewReader(contents))
}

// oneByteReader returns one byte per Read call, to exercise tokens
// which straddle buffer boundaries.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestReadObject(t *testing.T) {
	cases := []struct {
		in   string
		want Object
	}{
		{"null", nil},
		{"true", Boolean(true)},
		{"false", Boolean(false)},
		{"0", Integer(0)},
		{"+17", Integer(17)},
		{"-98", Integer(-98)},
		{"34.5", Real(34.5)},
		{"-.002", Real(-0.002)},
		{"4.", Real(4)},
		{"/Name1", Name("Name1")},
		{"/A;Name_With-Various***Characters?", Name("A;Name_With-Various***Characters?")},
		{"/Lime#20Green", Name("Lime Green")},
		{"/paired#28#29parentheses", Name("paired()parentheses")},
		{"/A#42", Name("AB")},
		// an invalid hex escape passes through literally
		{"/bad#xb", Name("bad#xb")},
		{"(string)", String("string")},
		{"(nested (brackets) balance)", String("nested (brackets) balance")},
		{`(escapes: \n\r\t\b\f\(\)\\ done)`, String("escapes: \n\r\t\b\f()\\ done")},
		{`(octal \101\41\7)`, String("octal A!\007")},
		{"(split \\\nline)", String("split line")},
		{"<901FA3>", String([]byte{0x90, 0x1F, 0xA3})},
		// an odd trailing digit is padded with zero
		{"<901FA>", String([]byte{0x90, 0x1F, 0xA0})},
		{"<90 1f\nA3>", String([]byte{0x90, 0x1F, 0xA3})},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
		{"[/a [/b (c)]]", Array{Name("a"), Array{Name("b"), String("c")}}},
		{"<< /A 1 /B (x) >>", Dict{"A": Integer(1), "B": String("x")}},
		{"<< /Null null >>", Dict{}},
		{"<< /R 12 0 R >>", Dict{"R": NewReference(12, 0)}},
		{"[1 0 R 2 5 R]", Array{NewReference(1, 0), NewReference(2, 5)}},
		{"% comment\n42", Integer(42)},
		{"BT", Operator("BT")},
	}
	for _, test := range cases {
		s := testScanner(test.in)
		got, err := s.ReadObject()
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.want, got); d != "" {
			t.Errorf("%q: diff (-want +got):\n%s", test.in, d)
		}
	}
}

// TestKeywordAtEOF checks that a keyword whose final byte is the last
// byte of the stream is still tokenized.
func TestKeywordAtEOF(t *testing.T) {
	s := testScanner("/Im1 Do")
	obj, err := s.ReadObject()
	if err != nil || obj != Name("Im1") {
		t.Fatalf("got %v, %v", obj, err)
	}
	obj, err = s.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj != Operator("Do") {
		t.Errorf("expected operator Do, got %v", obj)
	}
	_, err = s.ReadObject()
	if err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

// TestScannerBoundaries feeds input one byte at a time, so that every
// token crosses an internal buffer boundary.
func TestScannerBoundaries(t *testing.T) {
	in := "<< /Length 12 0 R /Filter /FlateDecode >> stream"
	s := NewScanner(&oneByteReader{data: []byte(in)})
	obj, err := s.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	want := Dict{
		"Length": NewReference(12, 0),
		"Filter": Name("FlateDecode"),
	}
	if d := cmp.Diff(want, obj); d != "" {
		t.Errorf("diff (-want +got):\n%s", d)
	}
	kw, err := s.ReadObject()
	if err != nil || kw != Operator("stream") {
		t.Errorf("got %v, %v", kw, err)
	}
}

// TestCMapKeywordBoundary checks that a CMap-shaped stream with more
// than 4 KiB of leading comments, fed one byte per read so that every
// keyword crosses a read boundary, still yields all keywords.
func TestCMapKeywordBoundary(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("begincmap\n")
	// pad with comment lines to just over 4 KiB
	for sb.Len() < 4090 {
		sb.WriteString("% padding padding padding padding padding\n")
	}
	sb.WriteString("3 beginbfchar\n")
	sb.WriteString("<0001> <0041>\n<0002> <0042>\n<0003> <0043>\n")
	sb.WriteString("endbfchar\n")
	sb.WriteString("2 beginbfchar\n<0004> <0044>\n<0005> <0045>\nendbfchar\n")
	sb.WriteString("1 beginbfchar\n<0006> <0046>\nendbfchar\n")
	sb.WriteString("endcmap\nend end\n")

	s := NewScanner(&oneByteReader{data: []byte(sb.String())})
	var bfchar, end int
	for {
		obj, err := s.ReadObject()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		switch obj {
		case Operator("beginbfchar"):
			bfchar++
		case Operator("end"):
			end++
		}
	}
	if bfchar != 3 {
		t.Errorf("expected 3 beginbfchar keywords, got %d", bfchar)
	}
	if end != 2 {
		t.Errorf("expected 2 end keywords, got %d", end)
	}
}

func TestUnterminatedString(t *testing.T) {
	s := testScanner("(no closing bracket")
	_, err := s.ReadObject()
	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestInlineImageData(t *testing.T) {
	// the "EI" near the start is followed by a non-whitespace byte
	// and must not terminate the data
	s := testScanner(" \x00EI\x02x binary EI Q")
	data, err := s.ReadInlineImageData()
	if err != nil {
		t.Fatal(err)
	}
	want := "\x00EI\x02x binary"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
	obj, err := s.ReadObject()
	if err != nil || obj != Operator("Q") {
		t.Errorf("expected Q after image data, got %v, %v", obj, err)
	}
}

func FuzzScanner(f *testing.F) {
	f.Add("1 0 obj << /A [1 2 3] >> endobj")
	f.Add("(string \\( with \\901 escapes)")
	f.Add("<</Nested<</Deep[<0102>]>>>>")
	f.Add("/Name#20#6z")
	f.Add("%%EOF")
	f.Fuzz(func(t *testing.T, in string) {
		s := testScanner(in)
		for i := 0; i < 100; i++ {
			_, err := s.ReadObject()
			if err != nil {
				break
			}
		}
	})
}
