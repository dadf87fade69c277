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

package interp

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdftext"
)

// Char is one positioned glyph, in user space coordinates.
type Char struct {
	// BBox is the glyph bounding box.
	BBox rect.Rect

	// Text is the Unicode text of the glyph.
	Text string

	// FontName and FontSize describe the font as selected by Tf,
	// with FontSize scaled to user space.
	FontName string
	FontSize float64

	// Upright is false for glyphs rendered under a rotating or
	// flipping transformation.
	Upright bool

	// Adv is the glyph advance in user space.
	Adv float64

	// CID is the character identifier within the font.
	CID uint32

	// MCID and MCTag identify the enclosing marked-content sequence,
	// if any.  MCID is -1 outside of marked content.
	MCID  int
	MCTag pdftext.Name

	// Fill and Stroke are the color tokens active when the glyph was
	// shown.
	Fill   Color
	Stroke Color
}

// Point is a point in user space.
type Point struct {
	X, Y float64
}

// Subpath is one connected part of a path.  Closed is set by the "h"
// operator and by the "re" rectangle shorthand.
type Subpath struct {
	Points []Point
	Closed bool

	// Rect is set when the subpath came from a "re" operator.
	Rect bool
}

// Path is the current path at painting time, already transformed to
// user space.  Curves are reduced to their end points; for edge
// detection only the endpoints matter.
type Path struct {
	Subpaths []Subpath
}

// PaintKind describes how a path painting operator uses the path.
type PaintKind int

const (
	PaintStroke PaintKind = 1 << iota
	PaintFill
	PaintEvenOdd
)

// Device receives the positioned output of the interpreter.
type Device interface {
	// BeginPage is called before the first operator of a page.
	BeginPage(page *pdftext.Page, ctm matrix.Matrix)

	// EndPage is called after the last operator of a page.
	EndPage(page *pdftext.Page)

	// Char is called once per CID of every text-showing operator.
	Char(ch *Char)

	// Paint is called for every path painting operator, with the
	// user-space path.  It is not called for the "n" operator.
	Paint(path *Path, kind PaintKind, g *GraphicsState)

	// Image is called for images, both XObjects and inline images.
	Image(name pdftext.Name, dict pdftext.Dict, data []byte, g *GraphicsState)
}

// NullDevice discards all output.  It can be embedded to implement
// devices which only care about some callbacks.
type NullDevice struct{}

func (NullDevice) BeginPage(page *pdftext.Page, ctm matrix.Matrix) {}

func (NullDevice) EndPage(page *pdftext.Page) {}

func (NullDevice) Char(ch *Char) {}

func (NullDevice) Paint(path *Path, kind PaintKind, g *GraphicsState) {}

func (NullDevice) Image(name pdftext.Name, dict pdftext.Dict, data []byte, g *GraphicsState) {}
