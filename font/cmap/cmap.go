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

// Package cmap implements the CMaps which map character codes to CIDs,
// and the ToUnicode maps which map character codes to text.
package cmap

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/pdftext/font/charcode"
)

// CID is a character identifier within a character collection.
type CID = uint32

// Single maps one character code to a CID.
type Single struct {
	Code  []byte
	Value CID
}

// Range maps a contiguous range of character codes to consecutive CIDs.
type Range struct {
	First, Last []byte
	Value       CID
}

// CMap maps character codes to CIDs.
type CMap struct {
	Name  string
	WMode int // 0 = horizontal, 1 = vertical

	CS charcode.CodeSpaceRange

	// identity, if non-zero, short-circuits the lookup: every code of
	// the given byte length maps to its numeric value.
	identity int

	singles map[string]CID
	ranges  []Range
}

// Code is one decoded character code.
type Code struct {
	// CID is the character identifier the code maps to.
	CID CID

	// Value is the numeric value of the code bytes.
	Value int64

	// Bytes are the code bytes within the string.
	Bytes []byte
}

// Predefined returns the CMap for a predefined CMap name, or nil if the
// name is not recognized.
//
// The identity CMaps (Identity-H/V, DLIdent-H/V, OneByteIdentityH/V)
// are implemented exactly.  For the Adobe character collection CMaps
// (e.g. UniGB-UCS2-H) the code-to-CID table is approximated by the
// two-byte identity, which preserves code boundaries and widths.
func Predefined(name string) *CMap {
	wMode := 0
	if strings.HasSuffix(name, "-V") || strings.HasSuffix(name, "V") {
		wMode = 1
	}

	switch name {
	case "Identity-H", "Identity-V", "DLIdent-H", "DLIdent-V":
		return &CMap{
			Name:     name,
			WMode:    wMode,
			CS:       charcode.UCS2,
			identity: 2,
		}
	case "OneByteIdentityH", "OneByteIdentityV":
		return &CMap{
			Name:     name,
			WMode:    wMode,
			CS:       charcode.Simple,
			identity: 1,
		}
	}

	// the predefined CMaps for CJK character collections all use
	// "-H"/"-V" suffixes
	if strings.HasSuffix(name, "-H") || strings.HasSuffix(name, "-V") {
		return &CMap{
			Name:     name,
			WMode:    wMode,
			CS:       charcode.UCS2,
			identity: 2,
		}
	}

	return nil
}

// Read parses an embedded CMap stream.
func Read(r io.Reader) (*CMap, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, err
	}

	res := &CMap{
		singles: make(map[string]CID),
	}

	if name, _ := raw["CMapName"].(postscript.Name); name != "" {
		res.Name = string(name)
	}
	if wMode, _ := raw["WMode"].(postscript.Integer); wMode == 1 {
		res.WMode = 1
	}

	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("cmap: unsupported CMap format")
	}

	// A CMap may be defined in terms of a predefined one.
	if codeMap.UseCMap != "" {
		if parent := Predefined(string(codeMap.UseCMap)); parent != nil {
			res.identity = parent.identity
			res.CS = parent.CS
		}
	}

	for _, entry := range codeMap.CodeSpaceRanges {
		if len(entry.Low) != len(entry.High) || len(entry.Low) == 0 {
			continue
		}
		res.CS = append(res.CS, charcode.Range{Low: entry.Low, High: entry.High})
	}
	if len(res.CS) == 0 {
		res.CS = charcode.UCS2
	}

	for _, entry := range codeMap.CidChars {
		if len(entry.Src) == 0 {
			continue
		}
		cid, ok := entry.Dst.(postscript.Integer)
		if !ok || cid < 0 || cid > 0xFFFF_FFFF {
			continue
		}
		res.singles[string(entry.Src)] = CID(cid)
	}
	for _, entry := range codeMap.CidRanges {
		if len(entry.Low) != len(entry.High) || len(entry.Low) == 0 {
			continue
		}
		cid, ok := entry.Dst.(postscript.Integer)
		if !ok || cid < 0 || cid > 0xFFFF_FFFF {
			continue
		}
		res.ranges = append(res.ranges, Range{
			First: entry.Low,
			Last:  entry.High,
			Value: CID(cid),
		})
	}

	return res, nil
}

// Decode splits a byte string into character codes and maps each code
// to its CID.  Codes outside the code space consume one byte and map
// to CID 0.
func (c *CMap) Decode(s []byte) []Code {
	var res []Code
	for len(s) > 0 {
		k := c.CS.Match(s)
		if k == 0 {
			res = append(res, Code{CID: 0, Value: int64(s[0]), Bytes: s[:1]})
			s = s[1:]
			continue
		}
		code := s[:k]
		var val int64
		for _, b := range code {
			val = val<<8 | int64(b)
		}
		res = append(res, Code{
			CID:   c.lookup(code, val),
			Value: val,
			Bytes: code,
		})
		s = s[k:]
	}
	return res
}

func (c *CMap) lookup(code []byte, val int64) CID {
	if cid, ok := c.singles[string(code)]; ok {
		return cid
	}
	for _, r := range c.ranges {
		if len(code) != len(r.First) {
			continue
		}
		if bytes.Compare(code, r.First) >= 0 && bytes.Compare(code, r.Last) <= 0 {
			var delta, first int64
			for i := range code {
				delta = delta<<8 | int64(code[i])
				first = first<<8 | int64(r.First[i])
			}
			return r.Value + CID(delta-first)
		}
	}
	if c.identity > 0 && len(code) == c.identity {
		return CID(val)
	}
	return 0
}

// Vertical reports whether the CMap selects vertical writing.
func (c *CMap) Vertical() bool {
	return c.WMode == 1
}
