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

package font

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdftext"
)

type fakeGetter map[pdftext.Reference]pdftext.Object

func (g fakeGetter) Get(ref pdftext.Reference) (pdftext.Object, error) {
	if obj, ok := g[ref]; ok {
		return obj, nil
	}
	return nil, &pdftext.ObjectNotFoundError{Ref: ref}
}

func TestGlyphToRune(t *testing.T) {
	cases := []struct {
		name string
		want rune
		ok   bool
	}{
		{"A", 'A', true},
		{"exclam", '!', true},
		{"adieresis", 'ä', true},
		{"fi", 'ﬁ', true},
		{"uni0041", 'A', true},
		{"u1F600", 0x1F600, true},
		{"A.sc", 'A', true},
		{"g123456", 0, false},
	}
	for _, test := range cases {
		got, ok := GlyphToRune(test.name)
		if ok != test.ok || (ok && got != test.want) {
			t.Errorf("%q: got %q/%v, want %q/%v",
				test.name, got, ok, test.want, test.ok)
		}
	}
}

func TestStandardEncodings(t *testing.T) {
	if WinAnsiEncoding['A'] != "A" || WinAnsiEncoding[0xE9] != "eacute" {
		t.Error("WinAnsi table broken")
	}
	if StandardEncoding[39] != "quoteright" || WinAnsiEncoding[39] != "quotesingle" {
		t.Error("apostrophe differs between Standard and WinAnsi")
	}
	if MacRomanEncoding[0x8A] != "adieresis" {
		t.Error("MacRoman table broken")
	}
}

func TestSimpleFont(t *testing.T) {
	g := fakeGetter{}
	dict := pdftext.Dict{
		"Type":     pdftext.Name("Font"),
		"Subtype":  pdftext.Name("Type1"),
		"BaseFont": pdftext.Name("Helvetica"),
		"Encoding": pdftext.Name("WinAnsiEncoding"),
	}
	f, err := Read(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	glyphs := f.Decode(pdftext.String("Hi"))
	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs", len(glyphs))
	}
	if glyphs[0].Text != "H" || glyphs[1].Text != "i" {
		t.Errorf("wrong text %q %q", glyphs[0].Text, glyphs[1].Text)
	}
	// Helvetica metrics: H=722, i=222
	if glyphs[0].Width != 722 || glyphs[1].Width != 222 {
		t.Errorf("wrong widths %g %g", glyphs[0].Width, glyphs[1].Width)
	}
	if !glyphs[0].OneByte {
		t.Error("simple font codes are single bytes")
	}
}

func TestDifferencesEncoding(t *testing.T) {
	g := fakeGetter{}
	dict := pdftext.Dict{
		"Subtype":  pdftext.Name("Type1"),
		"BaseFont": pdftext.Name("Helvetica"),
		"Encoding": pdftext.Dict{
			"BaseEncoding": pdftext.Name("WinAnsiEncoding"),
			"Differences": pdftext.Array{
				pdftext.Integer(65), pdftext.Name("adieresis"),
				pdftext.Name("odieresis"),
			},
		},
	}
	f, err := Read(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	glyphs := f.Decode(pdftext.String{65, 66, 67})
	want := []string{"ä", "ö", "C"}
	for i, w := range want {
		if glyphs[i].Text != w {
			t.Errorf("code %d: got %q, want %q", 65+i, glyphs[i].Text, w)
		}
	}
}

func TestExplicitWidths(t *testing.T) {
	g := fakeGetter{
		pdftext.NewReference(7, 0): pdftext.Integer(512),
	}
	dict := pdftext.Dict{
		"Subtype":   pdftext.Name("Type1"),
		"BaseFont":  pdftext.Name("Nonstandard"),
		"FirstChar": pdftext.Integer(65),
		"LastChar":  pdftext.Integer(67),
		// an indirect width and a null width
		"Widths": pdftext.Array{
			pdftext.Integer(600),
			pdftext.NewReference(7, 0),
			nil,
		},
		"FontDescriptor": pdftext.Dict{
			"MissingWidth": pdftext.Integer(333),
		},
	}
	f, err := Read(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	glyphs := f.Decode(pdftext.String{65, 66, 67, 68})
	got := []float64{glyphs[0].Width, glyphs[1].Width, glyphs[2].Width, glyphs[3].Width}
	// the null width and the unlisted code fall back to MissingWidth
	want := []float64{600, 512, 333, 333}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("widths (-want +got):\n%s", d)
	}
}

func TestCompositeWidths(t *testing.T) {
	g := fakeGetter{}
	dict := pdftext.Dict{
		"Subtype":  pdftext.Name("Type0"),
		"BaseFont": pdftext.Name("Test-Identity-H"),
		"Encoding": pdftext.Name("Identity-H"),
		"DescendantFonts": pdftext.Array{
			pdftext.Dict{
				"Subtype": pdftext.Name("CIDFontType2"),
				"DW":      pdftext.Integer(800),
				"W": pdftext.Array{
					// 1 -> [500 600], then 10..12 -> 450
					pdftext.Integer(1),
					pdftext.Array{pdftext.Integer(500), pdftext.Integer(600)},
					pdftext.Integer(10), pdftext.Integer(12), pdftext.Integer(450),
				},
			},
		},
	}
	f, err := Read(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsComposite() {
		t.Error("expected a composite font")
	}

	glyphs := f.Decode(pdftext.String{0, 1, 0, 2, 0, 11, 0, 99})
	got := make([]float64, len(glyphs))
	for i, gl := range glyphs {
		got[i] = gl.Width
	}
	want := []float64{500, 600, 450, 800}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("widths (-want +got):\n%s", d)
	}
	if glyphs[0].CID != 1 || glyphs[3].CID != 99 {
		t.Errorf("wrong CIDs %d %d", glyphs[0].CID, glyphs[3].CID)
	}
	if glyphs[0].OneByte {
		t.Error("two-byte codes must not trigger word spacing")
	}
}

func TestStandardMetricsAliases(t *testing.T) {
	if StandardMetrics("ABCDEF+Helvetica") != helveticaMetrics {
		t.Error("subset tag not stripped")
	}
	if StandardMetrics("ArialMT") != helveticaMetrics {
		t.Error("Arial alias missing")
	}
	if StandardMetrics("NoSuchFont") != nil {
		t.Error("unexpected metrics")
	}
	if courierMetrics.Width("anything") != 600 {
		t.Error("Courier is monospaced")
	}
}
