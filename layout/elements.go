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
	"strings"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdftext/interp"
)

// Item is an element with a bounding box.
type Item interface {
	BBox() rect.Rect
}

// Char wraps one glyph for layout analysis.
type Char struct {
	*interp.Char
}

// BBox implements the [Item] interface.
func (c Char) BBox() rect.Rect {
	return c.Char.BBox
}

// LineItem is one element of a text line: either a glyph or a virtual
// annotation (space or newline) inserted by the analysis.
type LineItem struct {
	// Char is nil for virtual annotations.
	Char *interp.Char

	// Anno is the text of a virtual annotation, " " or "\n".
	Anno string
}

// Text returns the text of the item.
func (it LineItem) Text() string {
	if it.Char != nil {
		return it.Char.Text
	}
	return it.Anno
}

// TextLine is a sequence of glyphs on a common baseline, including
// virtual spaces and a trailing virtual newline.
type TextLine struct {
	Box      rect.Rect
	Vertical bool
	Items    []LineItem
}

// BBox implements the [Item] interface.
func (l *TextLine) BBox() rect.Rect {
	return l.Box
}

// Text returns the text of the line, including the trailing newline.
func (l *TextLine) Text() string {
	var sb strings.Builder
	for _, it := range l.Items {
		sb.WriteString(it.Text())
	}
	return sb.String()
}

// Height returns the perpendicular extent of the line.
func (l *TextLine) Height() float64 {
	if l.Vertical {
		return l.Box.URx - l.Box.LLx
	}
	return l.Box.URy - l.Box.LLy
}

// TextBox is a group of text lines forming a paragraph.  Horizontal
// and vertical boxes are distinct: the two writing directions never
// merge into one box.
type TextBox struct {
	Box      rect.Rect
	Vertical bool
	Lines    []*TextLine

	// Index is the position of the box in reading order.
	Index int
}

// BBox implements the [Item] interface.
func (b *TextBox) BBox() rect.Rect {
	return b.Box
}

// Text returns the text of all lines of the box.
func (b *TextBox) Text() string {
	var sb strings.Builder
	for _, l := range b.Lines {
		sb.WriteString(l.Text())
	}
	return sb.String()
}

// GroupDirection labels an internal node of the reading-order tree.
type GroupDirection int

const (
	// LRTB groups left-to-right, top-to-bottom content.
	LRTB GroupDirection = iota

	// TBRL groups top-to-bottom, right-to-left (vertical) content.
	TBRL
)

// Group is an internal node of the binary reading-order tree.  Leaves
// are *TextBox values, internal nodes *Group values.
type Group struct {
	Box       rect.Rect
	Direction GroupDirection
	A, B      Item
}

// BBox implements the [Item] interface.
func (g *Group) BBox() rect.Rect {
	return g.Box
}

// Result holds the outcome of analyzing one page.
type Result struct {
	// Boxes lists the text boxes in reading order.
	Boxes []*TextBox

	// Root is the reading-order tree.  A page with a single box has
	// that box as its root; Root is nil if the page has no boxes, or
	// if the clustering was disabled and the page has several boxes.
	Root Item
}

// Text returns the page text: the text of all boxes in reading order,
// concatenated without separators, with a trailing form feed.
func (r *Result) Text() string {
	var sb strings.Builder
	for _, b := range r.Boxes {
		sb.WriteString(b.Text())
	}
	sb.WriteString("\f")
	return sb.String()
}

func joinRect(a, b rect.Rect) rect.Rect {
	if a.LLx > b.LLx {
		a.LLx = b.LLx
	}
	if a.LLy > b.LLy {
		a.LLy = b.LLy
	}
	if a.URx < b.URx {
		a.URx = b.URx
	}
	if a.URy < b.URy {
		a.URy = b.URy
	}
	return a
}

func area(r rect.Rect) float64 {
	return (r.URx - r.LLx) * (r.URy - r.LLy)
}
