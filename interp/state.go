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

	"seehuhn.de/go/pdftext"
	"seehuhn.de/go/pdftext/font"
)

// Color is a color operand as it appears in the content stream.  The
// engine carries colors as tokens and does not convert between color
// spaces.
type Color struct {
	Space   pdftext.Name
	Values  []float64
	Pattern pdftext.Name
}

// GraphicsState is the part of the graphics state which the q/Q
// operators save and restore.
type GraphicsState struct {
	CTM matrix.Matrix

	LineWidth  float64
	LineCap    int
	LineJoin   int
	MiterLimit float64
	DashArray  []float64
	DashPhase  float64

	StrokeColor Color
	FillColor   Color

	Flatness        float64
	RenderingIntent pdftext.Name

	// text state fields live in the graphics state so that q/Q
	// preserves them
	CharSpacing  float64 // Tc
	WordSpacing  float64 // Tw
	HorizScaling float64 // Tz, stored as a fraction (100 -> 1.0)
	Leading      float64 // TL, stored negated for use in T*
	Font         *font.Font
	FontName     pdftext.Name
	FontSize     float64
	RenderMode   int     // Tr
	Rise         float64 // Ts
}

// newGraphicsState returns the graphics state at the start of a page.
func newGraphicsState(ctm matrix.Matrix) *GraphicsState {
	return &GraphicsState{
		CTM:          ctm,
		LineWidth:    1,
		MiterLimit:   10,
		HorizScaling: 1,
		StrokeColor:  Color{Space: "DeviceGray", Values: []float64{0}},
		FillColor:    Color{Space: "DeviceGray", Values: []float64{0}},
		Flatness:     1,
	}
}

// Clone returns an independent copy of the state.
func (g *GraphicsState) Clone() *GraphicsState {
	res := *g
	res.DashArray = append([]float64(nil), g.DashArray...)
	res.StrokeColor.Values = append([]float64(nil), g.StrokeColor.Values...)
	res.FillColor.Values = append([]float64(nil), g.FillColor.Values...)
	return &res
}

// transform applies a matrix to a point.
func transform(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
