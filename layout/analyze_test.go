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

package layout

import (
	"testing"

	"seehuhn.de/go/pdftext/interp"
)

// word lays out the letters of s starting at (x, y) with the given
// glyph width and height.
func word(s string, x, y, w, h float64) []*interp.Char {
	var res []*interp.Char
	for i, r := range s {
		x0 := x + float64(i)*w
		res = append(res, &interp.Char{
			BBox:    box(x0, y, x0+w, y+h),
			Text:    string(r),
			Upright: true,
			Adv:     w,
		})
	}
	return res
}

func TestLineGrouping(t *testing.T) {
	var chars []*interp.Char
	chars = append(chars, word("Hello", 100, 700, 6, 10)...)
	chars = append(chars, word("world", 140, 700, 6, 10)...) // same line, word gap
	chars = append(chars, word("below", 100, 650, 6, 10)...) // distant line

	res, err := Analyze(chars, nil)
	if err != nil {
		t.Fatal(err)
	}
	var lines []*TextLine
	for _, b := range res.Boxes {
		lines = append(lines, b.Lines...)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := lines[0].Text(); got != "Hello world\n" {
		t.Errorf("got %q", got)
	}
	if got := lines[1].Text(); got != "below\n" {
		t.Errorf("got %q", got)
	}
}

// TestLineMonotonic checks that characters appear in non-decreasing
// position along the flow axis, even when emitted out of order.
func TestLineMonotonic(t *testing.T) {
	chars := word("ab", 100, 700, 6, 10)
	chars = append(chars, word("c", 88, 700, 6, 10)...) // emitted late, lies first

	res, err := Analyze(chars, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Boxes) != 1 || len(res.Boxes[0].Lines) != 1 {
		t.Fatalf("expected a single line")
	}
	line := res.Boxes[0].Lines[0]
	lastX := -1.0
	for _, it := range line.Items {
		if it.Char == nil {
			continue
		}
		if it.Char.BBox.LLx < lastX {
			t.Fatalf("character positions not monotonic")
		}
		lastX = it.Char.BBox.LLx
	}
	if got := line.Text(); got != "cab\n" {
		t.Errorf("got %q", got)
	}
}

func TestBoxGrouping(t *testing.T) {
	var chars []*interp.Char
	// two paragraph lines with a tight gap, and a separate paragraph
	chars = append(chars, word("first line", 100, 700, 6, 10)...)
	chars = append(chars, word("second one", 100, 688, 6, 10)...)
	chars = append(chars, word("far away", 100, 400, 6, 10)...)

	res, err := Analyze(chars, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(res.Boxes))
	}
	if got := res.Boxes[0].Text(); got != "first line\nsecond one\n" {
		t.Errorf("got %q", got)
	}
	if res.Boxes[0].Index != 0 || res.Boxes[1].Index != 1 {
		t.Error("wrong reading-order indices")
	}
}

// TestReadingOrder puts two columns on the page; with the default
// BoxesFlow the left column is read before the right column.
func TestReadingOrder(t *testing.T) {
	var chars []*interp.Char
	chars = append(chars, word("right top", 300, 700, 6, 10)...)
	chars = append(chars, word("left top", 100, 700, 6, 10)...)
	chars = append(chars, word("left bottom", 100, 688, 6, 10)...)
	chars = append(chars, word("right bottom", 300, 688, 6, 10)...)

	res, err := Analyze(chars, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Root == nil {
		t.Fatal("missing reading-order tree")
	}
	var texts []string
	for _, b := range res.Boxes {
		texts = append(texts, b.Text())
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 boxes, got %d: %q", len(texts), texts)
	}
	if texts[0] != "left top\nleft bottom\n" {
		t.Errorf("left column must come first, got %q", texts)
	}
}

func TestVerticalDetection(t *testing.T) {
	var chars []*interp.Char
	for i, r := range "縦書き" {
		y1 := 700 - float64(i)*10
		chars = append(chars, &interp.Char{
			BBox:    box(100, y1-10, 110, y1),
			Text:    string(r),
			Upright: false,
		})
	}

	params := DefaultParams()
	params.DetectVertical = true
	res, err := Analyze(chars, params)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(res.Boxes))
	}
	b := res.Boxes[0]
	if !b.Vertical {
		t.Error("box should be vertical")
	}
	if got := b.Text(); got != "縦書き\n" {
		t.Errorf("got %q", got)
	}
}

func TestBoxesFlowValidation(t *testing.T) {
	params := DefaultParams()
	params.BoxesFlow = 1.5
	_, err := Analyze(nil, params)
	if err == nil {
		t.Error("expected an error for BoxesFlow outside [-1, 1]")
	}
}
