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

// Package layout groups positioned glyphs into text lines, text boxes
// and a reading order.
package layout

import (
	"errors"
	"fmt"
)

// Params controls the layout analysis.  The zero value is not useful;
// use [DefaultParams] as a starting point.
type Params struct {
	// LineOverlap is the minimum perpendicular overlap, as a fraction
	// of the smaller glyph height, for two glyphs to share a line.
	LineOverlap float64

	// CharMargin is the maximum gap along the flow direction, as a
	// fraction of the glyph width, for two glyphs to share a line.
	CharMargin float64

	// WordMargin is the gap, as a fraction of the glyph width, beyond
	// which a virtual space is inserted between two glyphs.
	WordMargin float64

	// LineMargin is the maximum perpendicular gap, as a fraction of
	// the line height, for two lines to share a text box.
	LineMargin float64

	// BoxesFlow blends horizontal and vertical position when ordering
	// text boxes.  The value must be between -1 (vertical position
	// dominates) and +1 (horizontal position dominates).  If
	// NoBoxesFlow is set the reading-order clustering is skipped
	// entirely.
	BoxesFlow float64

	// NoBoxesFlow disables the reading-order clustering; boxes are
	// returned in the order they were found.
	NoBoxesFlow bool

	// DetectVertical enables the detection of vertical writing.
	DetectVertical bool

	// AllTexts enables layout analysis for text inside figures.
	AllTexts bool
}

// DefaultParams returns the default layout parameters.
func DefaultParams() *Params {
	return &Params{
		LineOverlap: 0.5,
		CharMargin:  2.0,
		WordMargin:  0.1,
		LineMargin:  0.5,
		BoxesFlow:   0.5,
	}
}

var errBoxesFlow = errors.New("BoxesFlow must be between -1 and +1")

// Check validates the parameter values.
func (p *Params) Check() error {
	if p.BoxesFlow < -1 || p.BoxesFlow > 1 {
		return fmt.Errorf("%w, got %g", errBoxesFlow, p.BoxesFlow)
	}
	return nil
}
