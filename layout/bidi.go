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

	"golang.org/x/text/unicode/bidi"
)

// BidiOptions controls the plain-text output phase.  Reordering is
// applied after line assembly and never influences the geometry of the
// layout objects.
type BidiOptions struct {
	// Reorder applies the Unicode bidirectional algorithm to each
	// line, so that right-to-left text reads correctly in a plain
	// left-to-right string.
	Reorder bool

	// ShapeArabic replaces Arabic letters by their contextual
	// presentation forms before reordering.
	ShapeArabic bool
}

// RenderText converts a line of logically-ordered text to its visual
// order.
func RenderText(s string, opt *BidiOptions) string {
	if opt == nil || !opt.Reorder {
		return s
	}
	if opt.ShapeArabic {
		s = shapeArabic(s)
	}

	var sb strings.Builder
	for _, line := range splitKeepEnds(s) {
		text, end := line, ""
		if n := strings.TrimRight(line, "\r\n"); len(n) < len(line) {
			text, end = n, line[len(n):]
		}
		sb.WriteString(reorderLine(text))
		sb.WriteString(end)
	}
	return sb.String()
}

func splitKeepEnds(s string) []string {
	var res []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			res = append(res, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		res = append(res, s[start:])
	}
	return res
}

func reorderLine(s string) string {
	if s == "" {
		return s
	}
	p := &bidi.Paragraph{}
	p.SetString(s)
	ordering, err := p.Order()
	if err != nil {
		return s
	}

	var sb strings.Builder
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = reverseRunes(text)
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	// paired punctuation mirrors under reversal
	for i, r := range runes {
		if m, ok := mirrored[r]; ok {
			runes[i] = m
		}
	}
	return string(runes)
}

var mirrored = map[rune]rune{
	'(': ')', ')': '(', '[': ']', ']': '[', '{': '}', '}': '{',
	'<': '>', '>': '<', '«': '»', '»': '«',
}

// == Arabic presentation forms ==========================================

// arabicForms lists the presentation forms of the basic Arabic letters
// as [isolated, final, initial, medial].  Letters with only two forms
// repeat the isolated/final pair.
var arabicForms = map[rune][4]rune{
	'ء': {0xFE80, 0xFE80, 0xFE80, 0xFE80}, // hamza
	'آ': {0xFE81, 0xFE82, 0xFE81, 0xFE82}, // alef madda
	'أ': {0xFE83, 0xFE84, 0xFE83, 0xFE84}, // alef hamza above
	'ؤ': {0xFE85, 0xFE86, 0xFE85, 0xFE86}, // waw hamza
	'إ': {0xFE87, 0xFE88, 0xFE87, 0xFE88}, // alef hamza below
	'ئ': {0xFE89, 0xFE8A, 0xFE8B, 0xFE8C}, // yeh hamza
	'ا': {0xFE8D, 0xFE8E, 0xFE8D, 0xFE8E}, // alef
	'ب': {0xFE8F, 0xFE90, 0xFE91, 0xFE92}, // beh
	'ة': {0xFE93, 0xFE94, 0xFE93, 0xFE94}, // teh marbuta
	'ت': {0xFE95, 0xFE96, 0xFE97, 0xFE98}, // teh
	'ث': {0xFE99, 0xFE9A, 0xFE9B, 0xFE9C}, // theh
	'ج': {0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0}, // jeem
	'ح': {0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4}, // hah
	'خ': {0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8}, // khah
	'د': {0xFEA9, 0xFEAA, 0xFEA9, 0xFEAA}, // dal
	'ذ': {0xFEAB, 0xFEAC, 0xFEAB, 0xFEAC}, // thal
	'ر': {0xFEAD, 0xFEAE, 0xFEAD, 0xFEAE}, // reh
	'ز': {0xFEAF, 0xFEB0, 0xFEAF, 0xFEB0}, // zain
	'س': {0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4}, // seen
	'ش': {0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8}, // sheen
	'ص': {0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC}, // sad
	'ض': {0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0}, // dad
	'ط': {0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4}, // tah
	'ظ': {0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8}, // zah
	'ع': {0xFEC9, 0xFECA, 0xFECB, 0xFECC}, // ain
	'غ': {0xFECD, 0xFECE, 0xFECF, 0xFED0}, // ghain
	'ف': {0xFED1, 0xFED2, 0xFED3, 0xFED4}, // feh
	'ق': {0xFED5, 0xFED6, 0xFED7, 0xFED8}, // qaf
	'ك': {0xFED9, 0xFEDA, 0xFEDB, 0xFEDC}, // kaf
	'ل': {0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0}, // lam
	'م': {0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4}, // meem
	'ن': {0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8}, // noon
	'ه': {0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC}, // heh
	'و': {0xFEED, 0xFEEE, 0xFEED, 0xFEEE}, // waw
	'ى': {0xFEEF, 0xFEF0, 0xFEEF, 0xFEF0}, // alef maksura
	'ي': {0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4}, // yeh
}

// rightJoining letters connect only to the preceding letter.
var rightJoining = map[rune]bool{
	'آ': true, 'أ': true, 'ؤ': true, 'إ': true,
	'ا': true, 'ة': true, 'د': true, 'ذ': true,
	'ر': true, 'ز': true, 'و': true, 'ى': true,
}

// lamAlef maps the second letter of a lam-alef pair to the ligature's
// [isolated, final] forms.
var lamAlef = map[rune][2]rune{
	'آ': {0xFEF5, 0xFEF6},
	'أ': {0xFEF7, 0xFEF8},
	'إ': {0xFEF9, 0xFEFA},
	'ا': {0xFEFB, 0xFEFC},
}

func isArabicLetter(r rune) bool {
	_, ok := arabicForms[r]
	return ok
}

// joinsLeft reports whether the letter connects to the following
// letter.
func joinsLeft(r rune) bool {
	return isArabicLetter(r) && !rightJoining[r] && r != 'ء'
}

// shapeArabic replaces Arabic letters by their contextual presentation
// forms, including the lam-alef ligatures.  Non-Arabic characters pass
// through unchanged.
func shapeArabic(s string) string {
	runes := []rune(s)
	var res []rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		forms, ok := arabicForms[r]
		if !ok {
			res = append(res, r)
			continue
		}

		prevJoins := i > 0 && joinsLeft(runes[i-1])

		// lam-alef forms a mandatory ligature
		if r == 'ل' && i+1 < len(runes) {
			if lig, ok := lamAlef[runes[i+1]]; ok {
				if prevJoins {
					res = append(res, lig[1])
				} else {
					res = append(res, lig[0])
				}
				i++
				continue
			}
		}

		nextJoins := i+1 < len(runes) && isArabicLetter(runes[i+1]) &&
			joinsLeft(r)

		switch {
		case prevJoins && nextJoins:
			res = append(res, forms[3])
		case prevJoins:
			res = append(res, forms[1])
		case nextJoins:
			res = append(res, forms[2])
		default:
			res = append(res, forms[0])
		}
	}
	return string(res)
}
