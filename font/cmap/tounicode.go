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

package cmap

import (
	"fmt"
	"io"
	"unicode/utf16"

	"seehuhn.de/go/postscript"
)

// ToUnicode maps character codes to Unicode strings.  The map is built
// from the bfchar and bfrange commands of an embedded, CMap-shaped
// ToUnicode stream.
type ToUnicode struct {
	singles map[int64][]rune
	ranges  []bfRange
}

type bfRange struct {
	first, last int64
	codeLen     int

	// exactly one of the two is used
	base []rune   // consecutive values starting at base
	list [][]rune // explicit value per code
}

// ReadToUnicode parses a ToUnicode CMap stream.
func ReadToUnicode(r io.Reader) (*ToUnicode, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, err
	}

	if tp, ok := raw["CMapType"].(postscript.Integer); ok && tp != 2 && tp != 0 {
		return nil, fmt.Errorf("cmap: invalid CMapType %d", tp)
	}
	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("cmap: unsupported ToUnicode format")
	}

	res := &ToUnicode{
		singles: make(map[int64][]rune),
	}

	for _, c := range codeMap.BfChars {
		if len(c.Src) == 0 {
			continue
		}
		rr, err := toRunes(c.Dst)
		if err != nil {
			continue
		}
		res.singles[codeValue(c.Src)] = rr
	}
	for _, r := range codeMap.BfRanges {
		if len(r.Low) != len(r.High) || len(r.Low) == 0 {
			continue
		}
		br := bfRange{
			first:   codeValue(r.Low),
			last:    codeValue(r.High),
			codeLen: len(r.Low),
		}
		switch dst := r.Dst.(type) {
		case postscript.String:
			rr, err := toRunes(dst)
			if err != nil {
				continue
			}
			br.base = rr
		case postscript.Array:
			for _, elem := range dst {
				rr, err := toRunes(elem)
				if err != nil {
					rr = nil
				}
				br.list = append(br.list, rr)
			}
		default:
			continue
		}
		res.ranges = append(res.ranges, br)
	}

	return res, nil
}

// Lookup returns the Unicode string for a character code.
func (tu *ToUnicode) Lookup(code int64) (string, bool) {
	if tu == nil {
		return "", false
	}
	if rr, ok := tu.singles[code]; ok {
		return string(rr), true
	}
	for _, br := range tu.ranges {
		if code < br.first || code > br.last {
			continue
		}
		idx := code - br.first
		if br.list != nil {
			if idx < int64(len(br.list)) && br.list[idx] != nil {
				return string(br.list[idx]), true
			}
			return "", false
		}
		if len(br.base) == 0 {
			return "", false
		}
		// the final code point of the base string is incremented
		rr := make([]rune, len(br.base))
		copy(rr, br.base)
		rr[len(rr)-1] += rune(idx)
		return string(rr), true
	}
	return "", false
}

func codeValue(code []byte) int64 {
	var val int64
	for _, b := range code {
		val = val<<8 | int64(b)
	}
	return val
}

// toRunes converts a big-endian UTF-16 byte string to runes.
func toRunes(obj postscript.Object) ([]rune, error) {
	dst, ok := obj.(postscript.String)
	if !ok {
		return nil, fmt.Errorf("cmap: unexpected type %T", obj)
	}
	var u []uint16
	for i := 0; i+1 < len(dst); i += 2 {
		u = append(u, uint16(dst[i])<<8|uint16(dst[i+1]))
	}
	return utf16.Decode(u), nil
}
