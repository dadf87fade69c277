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

import "strings"

// builtinMetrics holds glyph widths (in 1/1000 em) for the standard
// 14 fonts, keyed by glyph name.  The tables cover the printable ASCII
// glyph set from the AFM files; other glyphs fall back to the font's
// missing width.
type builtinMetrics struct {
	widths       map[string]float64
	missingWidth float64
	ascent       float64
	descent      float64
}

// StandardMetrics returns the metrics for one of the standard 14 fonts,
// or nil if the name is not one of them.  Subset tags ("ABCDEF+") and
// the common alias names (Arial, TimesNewRoman, CourierNew) are
// accepted.
func StandardMetrics(baseFont string) *builtinMetrics {
	name := baseFont
	if idx := strings.IndexByte(name, '+'); idx == 6 {
		name = name[7:]
	}

	switch name {
	case "Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
		"CourierNew", "CourierNew,Bold", "CourierNew,Italic",
		"CourierNew,BoldItalic":
		return courierMetrics
	case "Helvetica", "Helvetica-Oblique", "Arial", "ArialMT",
		"Arial,Italic", "Arial-ItalicMT":
		return helveticaMetrics
	case "Helvetica-Bold", "Helvetica-BoldOblique", "Arial,Bold",
		"Arial-BoldMT", "Arial,BoldItalic", "Arial-BoldItalicMT":
		return helveticaBoldMetrics
	case "Times-Roman", "Times-Italic", "TimesNewRoman",
		"TimesNewRomanPSMT", "TimesNewRoman,Italic":
		return timesMetrics
	case "Times-Bold", "Times-BoldItalic", "TimesNewRoman,Bold",
		"TimesNewRoman,BoldItalic":
		return timesBoldMetrics
	case "Symbol":
		return symbolMetrics
	case "ZapfDingbats":
		return dingbatsMetrics
	default:
		return nil
	}
}

// Width returns the width of the named glyph.
func (m *builtinMetrics) Width(glyphName string) float64 {
	if w, ok := m.widths[glyphName]; ok {
		return w
	}
	return m.missingWidth
}

func widthTable(ws []float64) map[string]float64 {
	m := make(map[string]float64, len(asciiNames))
	for i, name := range asciiNames {
		m[name] = ws[i]
	}
	return m
}

var courierMetrics = &builtinMetrics{
	widths:       map[string]float64{},
	missingWidth: 600,
	ascent:       629,
	descent:      -157,
}

func init() {
	// Courier is monospaced
	for _, name := range asciiNames {
		courierMetrics.widths[name] = 600
	}
}

var helveticaMetrics = &builtinMetrics{
	widths: widthTable([]float64{
		278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584,
		278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556,
		278, 278, 584, 584, 584, 556, 1015,
		667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833,
		722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611,
		278, 278, 278, 469, 556, 333,
		556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833,
		556, 556, 556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500,
		334, 260, 334, 584,
	}),
	missingWidth: 500,
	ascent:       718,
	descent:      -207,
}

var helveticaBoldMetrics = &builtinMetrics{
	widths: widthTable([]float64{
		278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584,
		278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556,
		333, 333, 584, 584, 584, 611, 975,
		722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833,
		722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611,
		333, 278, 333, 584, 556, 333,
		556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889,
		611, 611, 611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500,
		389, 280, 389, 584,
	}),
	missingWidth: 556,
	ascent:       718,
	descent:      -207,
}

var timesMetrics = &builtinMetrics{
	widths: widthTable([]float64{
		250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564,
		250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
		278, 278, 564, 564, 564, 444, 921,
		722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889,
		722, 722, 556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611,
		333, 278, 333, 469, 500, 333,
		444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778,
		500, 500, 500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444,
		480, 200, 480, 541,
	}),
	missingWidth: 500,
	ascent:       683,
	descent:      -217,
}

var timesBoldMetrics = &builtinMetrics{
	widths: widthTable([]float64{
		250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570,
		250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
		333, 333, 570, 570, 570, 500, 930,
		722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944,
		722, 778, 611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667,
		333, 278, 333, 581, 500, 333,
		500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833,
		556, 500, 556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444,
		394, 220, 394, 520,
	}),
	missingWidth: 500,
	ascent:       683,
	descent:      -217,
}

// Symbol and ZapfDingbats use non-Latin glyph sets; a uniform fallback
// width keeps text positioning plausible without the full AFM tables.
var symbolMetrics = &builtinMetrics{
	widths:       map[string]float64{"space": 250},
	missingWidth: 550,
	ascent:       673,
	descent:      -222,
}

var dingbatsMetrics = &builtinMetrics{
	widths:       map[string]float64{"space": 278},
	missingWidth: 750,
	ascent:       692,
	descent:      -140,
}
