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

// Package font converts the byte strings of text-showing operators into
// CIDs, glyph widths and Unicode text.
package font

import (
	"bytes"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/pdftext"
	"seehuhn.de/go/pdftext/font/cmap"
	"seehuhn.de/go/pdftext/font/truetype"
)

// Glyph is one decoded glyph of a text-showing operator.
type Glyph struct {
	// CID identifies the glyph within the font.
	CID cmap.CID

	// Code is the numeric value of the character code.
	Code int64

	// Text is the Unicode text the glyph represents.
	Text string

	// Width is the unscaled glyph advance, in 1/1000 text space units.
	Width float64

	// OneByte is set when the character code was a single byte.  Word
	// spacing only applies to the single-byte code 32.
	OneByte bool
}

// Font maps character codes to glyphs.
type Font struct {
	// Name is the PostScript name of the font.
	Name string

	// Subtype is the font dictionary subtype, e.g. "Type1" or "Type0".
	Subtype pdftext.Name

	cmap  *cmap.CMap      // composite fonts; nil for simple fonts
	toUni *cmap.ToUnicode // optional, keyed by character code

	// simple font state
	encoding     *[256]string
	simpleWidths *[256]float64
	metrics      *builtinMetrics

	// embedded TrueType mappings
	codeToGID map[uint32]uint16
	gidToRune map[uint16]rune

	// composite font state
	cidWidths    map[cmap.CID]float64
	defaultWidth float64

	// Type3 glyph widths are given in glyph space
	glyphSpaceScale float64

	vertical bool

	// Ascent and Descent are in 1/1000 text space units.
	Ascent  float64
	Descent float64
}

// Vertical reports whether the font uses vertical writing mode.
func (f *Font) Vertical() bool {
	return f.vertical
}

// IsComposite reports whether the font is a composite (Type0) font.
func (f *Font) IsComposite() bool {
	return f.cmap != nil
}

// IsType3 reports whether the font is a Type3 font.  Glyph procedures
// of Type3 fonts are not executed; only metrics are available.
func (f *Font) IsType3() bool {
	return f.Subtype == "Type3"
}

// Read loads a font from its font dictionary.
func Read(r pdftext.Getter, dict pdftext.Dict) (*Font, error) {
	subtype, err := pdftext.GetName(r, dict["Subtype"])
	if err != nil {
		return nil, err
	}

	f := &Font{
		Subtype:      subtype,
		defaultWidth: 1000,
	}
	if baseFont, err := pdftext.GetName(r, dict["BaseFont"]); err == nil {
		f.Name = string(baseFont)
	}

	if tu, err := pdftext.GetStream(r, dict["ToUnicode"]); err == nil && tu != nil {
		if data, err := pdftext.DecodeStream(r, tu, 0); err == nil {
			if parsed, err := cmap.ReadToUnicode(bytes.NewReader(data)); err == nil {
				f.toUni = parsed
			}
		}
	}

	if subtype == "Type0" {
		err = f.readComposite(r, dict)
	} else {
		err = f.readSimple(r, dict)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// readComposite loads a Type0 font with its descendant CIDFont.
func (f *Font) readComposite(r pdftext.Getter, dict pdftext.Dict) error {
	// the encoding entry selects the CMap
	encObj, err := pdftext.Resolve(r, dict["Encoding"])
	if err != nil {
		return err
	}
	switch enc := encObj.(type) {
	case pdftext.Name:
		f.cmap = cmap.Predefined(string(enc))
	case *pdftext.Stream:
		data, err := pdftext.DecodeStream(r, enc, 0)
		if err == nil {
			if parsed, err := cmap.Read(bytes.NewReader(data)); err == nil {
				f.cmap = parsed
			}
		}
		if f.cmap == nil {
			if name, _ := enc.Dict["CMapName"].(pdftext.Name); name != "" {
				f.cmap = cmap.Predefined(string(name))
			}
		}
	}
	if f.cmap == nil {
		f.cmap = cmap.Predefined("Identity-H")
	}
	f.vertical = f.cmap.Vertical()

	desc, err := pdftext.GetArray(r, dict["DescendantFonts"])
	if err != nil || len(desc) == 0 {
		return nil
	}
	cidFont, err := pdftext.GetDict(r, desc[0])
	if err != nil || cidFont == nil {
		return nil
	}

	if dw, err := pdftext.GetNumber(r, cidFont["DW"]); err == nil && dw > 0 {
		f.defaultWidth = dw
	}
	if wArr, err := pdftext.GetArray(r, cidFont["W"]); err == nil && wArr != nil {
		f.cidWidths = parseCIDWidths(r, wArr)
	}
	f.readDescriptor(r, cidFont)

	// an embedded font program can supply Unicode values when there is
	// no ToUnicode map
	if f.toUni == nil {
		if data := f.fontProgram(r, cidFont); data != nil {
			_, f.gidToRune = embeddedTrueTypeMaps(data)
		}
	}

	return nil
}

// parseCIDWidths reads a /W array.  Both forms are accepted:
// "c [w1 w2 ...]" assigns individual widths starting at CID c, and
// "c1 c2 w" assigns w to the whole CID range.  Indirect elements are
// resolved, and null widths fall back to the default width.
func parseCIDWidths(r pdftext.Getter, wArr pdftext.Array) map[cmap.CID]float64 {
	res := make(map[cmap.CID]float64)
	i := 0
	for i < len(wArr) {
		first, err := pdftext.GetInt(r, wArr[i])
		if err != nil || i+1 >= len(wArr) {
			break
		}
		next, err := pdftext.Resolve(r, wArr[i+1])
		if err != nil {
			break
		}
		switch x := next.(type) {
		case pdftext.Array:
			for j, elem := range x {
				w, err := pdftext.GetNumber(r, elem)
				if err != nil {
					continue
				}
				res[cmap.CID(int(first)+j)] = w
			}
			i += 2
		case pdftext.Integer, pdftext.Real:
			if i+2 >= len(wArr) {
				return res
			}
			last := int64(0)
			switch y := x.(type) {
			case pdftext.Integer:
				last = int64(y)
			case pdftext.Real:
				last = int64(y)
			}
			w, err := pdftext.GetNumber(r, wArr[i+2])
			if err == nil && last >= int64(first) && last-int64(first) < 65536 {
				for c := int64(first); c <= last; c++ {
					res[cmap.CID(c)] = w
				}
			}
			i += 3
		case nil:
			i += 2
		default:
			return res
		}
	}
	return res
}

// readSimple loads a font with a single-byte encoding.
func (f *Font) readSimple(r pdftext.Getter, dict pdftext.Dict) error {
	f.metrics = StandardMetrics(f.Name)

	// encoding: a name, or a dict with BaseEncoding and Differences
	base := &StandardEncoding
	if f.Subtype == "TrueType" {
		base = &WinAnsiEncoding
	}
	encObj, _ := pdftext.Resolve(r, dict["Encoding"])
	switch enc := encObj.(type) {
	case pdftext.Name:
		if e := builtinEncoding(string(enc)); e != nil {
			base = e
		}
	case pdftext.Dict:
		if name, err := pdftext.GetName(r, enc["BaseEncoding"]); err == nil {
			if e := builtinEncoding(string(name)); e != nil {
				base = e
			}
		}
		if diff, err := pdftext.GetArray(r, enc["Differences"]); err == nil && diff != nil {
			custom := *base
			code := 0
			for _, elem := range diff {
				elem, err := pdftext.Resolve(r, elem)
				if err != nil {
					continue
				}
				switch x := elem.(type) {
				case pdftext.Integer:
					code = int(x)
				case pdftext.Name:
					if code >= 0 && code < 256 {
						custom[code] = string(x)
						code++
					}
				}
			}
			base = &custom
		}
	}
	f.encoding = base

	// explicit widths
	firstChar, errFC := pdftext.GetInt(r, dict["FirstChar"])
	widthsArr, errW := pdftext.GetArray(r, dict["Widths"])
	if errFC == nil && errW == nil && widthsArr != nil {
		var ws [256]float64
		for i := range ws {
			ws[i] = -1
		}
		for j, elem := range widthsArr {
			code := int(firstChar) + j
			if code < 0 || code > 255 {
				continue
			}
			elem, err := pdftext.Resolve(r, elem)
			if err != nil || elem == nil {
				// null widths fall back to the font's default
				continue
			}
			if w, err := pdftext.GetNumber(r, elem); err == nil {
				ws[code] = w
			}
		}
		f.simpleWidths = &ws
	}

	f.readDescriptor(r, dict)

	if f.Subtype == "Type3" {
		if fm, err := pdftext.GetArray(r, dict["FontMatrix"]); err == nil && len(fm) >= 4 {
			if a, err := pdftext.GetNumber(r, fm[0]); err == nil && a != 0 {
				f.glyphSpaceScale = a * 1000
			}
		}
		if f.glyphSpaceScale == 0 {
			f.glyphSpaceScale = 1
		}
	}

	// TrueType fonts without a ToUnicode map fall back to the cmap
	// table of the embedded font program
	if f.Subtype == "TrueType" && f.toUni == nil {
		if data := f.fontProgram(r, dict); data != nil {
			f.codeToGID, f.gidToRune = embeddedTrueTypeMaps(data)
		}
	}

	return nil
}

// readDescriptor extracts metrics and the default width from the font
// descriptor.
func (f *Font) readDescriptor(r pdftext.Getter, dict pdftext.Dict) {
	fd, err := pdftext.GetDict(r, dict["FontDescriptor"])
	if err != nil || fd == nil {
		if f.metrics != nil {
			f.Ascent = f.metrics.ascent
			f.Descent = f.metrics.descent
		} else {
			f.Ascent = 750
			f.Descent = -250
		}
		return
	}
	if a, err := pdftext.GetNumber(r, fd["Ascent"]); err == nil && a != 0 {
		f.Ascent = a
	} else {
		f.Ascent = 750
	}
	if d, err := pdftext.GetNumber(r, fd["Descent"]); err == nil && d != 0 {
		f.Descent = d
	} else {
		f.Descent = -250
	}
	if mw, err := pdftext.GetNumber(r, fd["MissingWidth"]); err == nil && mw > 0 {
		if f.Subtype != "Type0" {
			f.defaultWidth = mw
		}
	}
}

// fontProgram returns the decoded bytes of an embedded font file.
func (f *Font) fontProgram(r pdftext.Getter, dict pdftext.Dict) []byte {
	fd, err := pdftext.GetDict(r, dict["FontDescriptor"])
	if err != nil || fd == nil {
		return nil
	}
	for _, key := range []pdftext.Name{"FontFile2", "FontFile3", "FontFile"} {
		stm, err := pdftext.GetStream(r, fd[key])
		if err != nil || stm == nil {
			continue
		}
		data, err := pdftext.DecodeStream(r, stm, 0)
		if err != nil {
			continue
		}
		return data
	}
	return nil
}

// embeddedTrueTypeMaps recovers code and Unicode mappings from the cmap
// table of a TrueType font program.  The raw subtable parser handles
// formats 0, 2 and 4 including symbol fonts; for other formats the
// sfnt library's best-subtable selection is used.
func embeddedTrueTypeMaps(data []byte) (map[uint32]uint16, map[uint16]rune) {
	if tt, err := truetype.ParseCmap(data); err == nil {
		return tt.CodeToGID, tt.GIDToRune
	}

	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	sub, err := info.CMapTable.GetBest()
	if err != nil || sub == nil {
		return nil, nil
	}
	codeToGID := make(map[uint32]uint16)
	gidToRune := make(map[uint16]rune)
	for r := rune(0x20); r <= 0xFFFF; r++ {
		gid := sub.Lookup(r)
		if gid == 0 {
			continue
		}
		codeToGID[uint32(r)] = uint16(gid)
		if old, ok := gidToRune[uint16(gid)]; !ok || r < old {
			gidToRune[uint16(gid)] = r
		}
	}
	return codeToGID, gidToRune
}

// Decode splits a string into glyphs.  The returned glyphs carry the
// CID, the Unicode text and the unscaled advance width.
func (f *Font) Decode(s pdftext.String) []Glyph {
	if f.cmap != nil {
		return f.decodeComposite(s)
	}
	return f.decodeSimple(s)
}

func (f *Font) decodeComposite(s pdftext.String) []Glyph {
	codes := f.cmap.Decode(s)
	res := make([]Glyph, 0, len(codes))
	for _, c := range codes {
		g := Glyph{
			CID:     c.CID,
			Code:    c.Value,
			Width:   f.defaultWidth,
			OneByte: len(c.Bytes) == 1,
		}
		if w, ok := f.cidWidths[c.CID]; ok {
			g.Width = w
		}
		if text, ok := f.toUni.Lookup(c.Value); ok {
			g.Text = text
		} else if r, ok := f.gidToRune[uint16(c.CID)]; ok {
			g.Text = string(r)
		} else if c.Value >= 0x20 && c.Value <= 0xFFFF {
			// identity-mapped fonts frequently store Unicode directly
			g.Text = string(rune(c.Value))
		} else {
			g.Text = "�"
		}
		res = append(res, g)
	}
	return res
}

func (f *Font) decodeSimple(s pdftext.String) []Glyph {
	res := make([]Glyph, 0, len(s))
	for _, b := range s {
		g := Glyph{
			CID:     cmap.CID(b),
			Code:    int64(b),
			OneByte: true,
		}

		var glyphName string
		if f.encoding != nil {
			glyphName = f.encoding[b]
		}

		g.Width = f.simpleWidth(b, glyphName)
		if f.Subtype == "Type3" {
			g.Width *= f.glyphSpaceScale
		}

		if text, ok := f.toUni.Lookup(int64(b)); ok {
			g.Text = text
		} else if r, ok := GlyphToRune(glyphName); ok {
			g.Text = string(r)
		} else if r, ok := f.trueTypeRune(b); ok {
			g.Text = string(r)
		} else if b >= 0x20 && b < 0x7F {
			g.Text = string(rune(b))
		} else {
			g.Text = "�"
		}

		res = append(res, g)
	}
	return res
}

func (f *Font) simpleWidth(code byte, glyphName string) float64 {
	if f.simpleWidths != nil && f.simpleWidths[code] >= 0 {
		return f.simpleWidths[code]
	}
	if f.metrics != nil && glyphName != "" {
		return f.metrics.Width(glyphName)
	}
	if f.metrics != nil {
		return f.metrics.missingWidth
	}
	return f.defaultWidth
}

// trueTypeRune maps a character code through the cmap of an embedded
// TrueType font.  Symbol fonts mirror one-byte codes to U+F000..U+F0FF.
func (f *Font) trueTypeRune(code byte) (rune, bool) {
	if f.codeToGID == nil {
		return 0, false
	}
	gid, ok := f.codeToGID[uint32(code)]
	if !ok {
		gid, ok = f.codeToGID[0xF000+uint32(code)]
	}
	if !ok {
		return 0, false
	}
	r, ok := f.gidToRune[gid]
	return r, ok
}
