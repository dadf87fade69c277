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

import "unicode/utf16"

// pdfDocEncode converts a string to PDFDocEncoding.  The second return
// value is false if the string contains characters which cannot be
// represented.
func pdfDocEncode(s string) ([]byte, bool) {
	res := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 32 && r <= 126:
			res = append(res, byte(r))
		case r >= 0xA1 && r <= 0xFF && r != 0xAD:
			res = append(res, byte(r))
		case r == '\n':
			res = append(res, 10)
		case r == '\r':
			res = append(res, 13)
		case r == '\t':
			res = append(res, 9)
		default:
			if b, ok := docEncodeSpecial[r]; ok {
				res = append(res, b)
			} else {
				return nil, false
			}
		}
	}
	return res, true
}

// docEncodeSpecial maps the characters which PDFDocEncoding stores in
// the 0x18-0x1F and 0x80-0x9E ranges and at 0xA0.
var docEncodeSpecial = map[rune]byte{
	'˘': 0x18, // breve
	'ˇ': 0x19, // caron
	'ˆ': 0x1A, // circumflex
	'˙': 0x1B, // dot above
	'˝': 0x1C, // double acute
	'˛': 0x1D, // ogonek
	'˚': 0x1E, // ring above
	'˜': 0x1F, // small tilde
	'•': 0x80, // bullet
	'†': 0x81, // dagger
	'‡': 0x82, // double dagger
	'…': 0x83, // ellipsis
	'—': 0x84, // em dash
	'–': 0x85, // en dash
	'ƒ': 0x86, // florin
	'⁄': 0x87, // fraction slash
	'‹': 0x88,
	'›': 0x89,
	'−': 0x8A, // minus
	'‰': 0x8B, // per mille
	'„': 0x8C,
	'“': 0x8D,
	'”': 0x8E,
	'‘': 0x8F,
	'’': 0x90,
	'‚': 0x91,
	'™': 0x92, // trade mark
	'ﬁ': 0x93, // fi ligature
	'ﬂ': 0x94, // fl ligature
	'Ł': 0x95,
	'Œ': 0x96,
	'Š': 0x97,
	'Ÿ': 0x98,
	'Ž': 0x99,
	'ı': 0x9A,
	'ł': 0x9B,
	'œ': 0x9C,
	'š': 0x9D,
	'ž': 0x9E,
	'€': 0xA0, // euro
}

// TextString decodes a PDF text string: UTF-16BE with BOM, UTF-8 with
// BOM (PDF 2.0), or PDFDocEncoding otherwise.
func TextString(s String) string {
	if len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF {
		var u []uint16
		for i := 2; i+1 < len(s); i += 2 {
			u = append(u, uint16(s[i])<<8|uint16(s[i+1]))
		}
		return string(utf16.Decode(u))
	}
	if len(s) >= 3 && s[0] == 0xEF && s[1] == 0xBB && s[2] == 0xBF {
		return string(s[3:])
	}
	res := make([]rune, 0, len(s))
	for _, b := range s {
		res = append(res, docDecode[b])
	}
	return string(res)
}

// docDecode is the inverse of PDFDocEncoding for single bytes.
var docDecode = func() [256]rune {
	var res [256]rune
	for i := range res {
		res[i] = rune(i)
	}
	for r, b := range docEncodeSpecial {
		res[b] = r
	}
	res[0xAD] = '�'
	return res
}()
