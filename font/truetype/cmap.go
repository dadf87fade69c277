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

// Package truetype reads the "cmap" table of embedded TrueType fonts.
// Only the subtable formats 0, 2 and 4 are interpreted; other formats
// are skipped.  The mappings are used to recover Unicode text for
// fonts without a ToUnicode map.
package truetype

import (
	"encoding/binary"
	"errors"
)

// Cmap holds the character mappings recovered from a font file.
type Cmap struct {
	// CodeToGID maps character codes of the selected subtable to glyph
	// ids.  For Windows Unicode subtables the code is the Unicode code
	// point; for Windows Symbol subtables it includes the 0xF0xx form.
	CodeToGID map[uint32]uint16

	// GIDToRune is the inversion of the best Unicode-carrying
	// subtable.  Multiple codes mapping to one glyph keep the
	// smallest code.
	GIDToRune map[uint16]rune

	// Symbolic is set when the mapping came from a (3,0) Windows
	// Symbol subtable.
	Symbolic bool
}

var (
	errNoCmap    = errors.New("truetype: no cmap table")
	errCorrupted = errors.New("truetype: font file corrupted")
)

type encodingRecord struct {
	platformID uint16
	encodingID uint16
	offset     uint32
}

// ParseCmap locates and parses the "cmap" table of a TrueType or
// OpenType font file.
func ParseCmap(data []byte) (*Cmap, error) {
	cmapData, err := findTable(data, "cmap")
	if err != nil {
		return nil, err
	}
	if len(cmapData) < 4 {
		return nil, errCorrupted
	}

	numTables := int(binary.BigEndian.Uint16(cmapData[2:4]))
	if len(cmapData) < 4+8*numTables || numTables > 100 {
		return nil, errCorrupted
	}
	var records []encodingRecord
	for i := 0; i < numTables; i++ {
		base := 4 + 8*i
		records = append(records, encodingRecord{
			platformID: binary.BigEndian.Uint16(cmapData[base:]),
			encodingID: binary.BigEndian.Uint16(cmapData[base+2:]),
			offset:     binary.BigEndian.Uint32(cmapData[base+4:]),
		})
	}

	// Preference order: Windows Unicode, Windows Symbol, Unicode
	// platform, Macintosh.
	candidates := [][2]uint16{
		{3, 10}, {3, 1}, {3, 0}, {0, 6}, {0, 4}, {0, 3}, {0, 2}, {0, 1}, {0, 0}, {1, 0},
	}
	for _, cand := range candidates {
		for _, rec := range records {
			if rec.platformID != cand[0] || rec.encodingID != cand[1] {
				continue
			}
			if int64(rec.offset) >= int64(len(cmapData)) {
				continue
			}
			sub, err := parseSubtable(cmapData[rec.offset:])
			if err != nil {
				// unsupported subtable formats are skipped
				continue
			}
			return buildCmap(sub, rec.platformID, rec.encodingID), nil
		}
	}
	return nil, errNoCmap
}

func buildCmap(codeToGID map[uint32]uint16, platformID, encodingID uint16) *Cmap {
	res := &Cmap{
		CodeToGID: codeToGID,
		GIDToRune: make(map[uint16]rune),
		Symbolic:  platformID == 3 && encodingID == 0,
	}
	for code, gid := range codeToGID {
		r := codeToRune(code, platformID, encodingID)
		if r < 0 {
			continue
		}
		if old, ok := res.GIDToRune[gid]; !ok || r < old {
			res.GIDToRune[gid] = r
		}
	}
	return res
}

func codeToRune(code uint32, platformID, encodingID uint16) rune {
	switch {
	case platformID == 0 || (platformID == 3 && encodingID >= 1):
		return rune(code)
	case platformID == 3 && encodingID == 0:
		// symbol fonts mirror the codes into U+F000..U+F0FF
		if code >= 0xF000 && code <= 0xF0FF {
			return rune(code & 0xFF)
		}
		return rune(code)
	case platformID == 1 && code < 256:
		// Mac Roman overlaps Latin-1 in the ASCII range
		if code < 128 {
			return rune(code)
		}
		return -1
	default:
		return -1
	}
}

// findTable returns the contents of the named sfnt table.
func findTable(data []byte, name string) ([]byte, error) {
	if len(data) < 12 {
		return nil, errCorrupted
	}
	scaler := binary.BigEndian.Uint32(data)
	switch scaler {
	case 0x00010000, 0x74727565, 0x4F54544F: // TrueType, 'true', 'OTTO'
		// pass
	case 0x74746366: // 'ttcf': TrueType collection, use the first font
		if len(data) < 16 {
			return nil, errCorrupted
		}
		off := binary.BigEndian.Uint32(data[12:])
		if int64(off)+12 > int64(len(data)) {
			return nil, errCorrupted
		}
		return findTable(data[off:], name)
	default:
		return nil, errCorrupted
	}

	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if numTables > 512 || len(data) < 12+16*numTables {
		return nil, errCorrupted
	}
	for i := 0; i < numTables; i++ {
		base := 12 + 16*i
		if string(data[base:base+4]) != name {
			continue
		}
		offset := binary.BigEndian.Uint32(data[base+8:])
		length := binary.BigEndian.Uint32(data[base+12:])
		if int64(offset)+int64(length) > int64(len(data)) {
			return nil, errCorrupted
		}
		return data[offset : offset+length], nil
	}
	return nil, errNoCmap
}

func parseSubtable(data []byte) (map[uint32]uint16, error) {
	if len(data) < 2 {
		return nil, errCorrupted
	}
	format := binary.BigEndian.Uint16(data)
	switch format {
	case 0:
		return parseFormat0(data)
	case 2:
		return parseFormat2(data)
	case 4:
		return parseFormat4(data)
	default:
		return nil, errors.New("truetype: unsupported cmap subtable format")
	}
}

// parseFormat0 reads a byte encoding table: 256 one-byte codes.
func parseFormat0(data []byte) (map[uint32]uint16, error) {
	if len(data) < 6+256 {
		return nil, errCorrupted
	}
	res := make(map[uint32]uint16)
	for code := 0; code < 256; code++ {
		gid := data[6+code]
		if gid != 0 {
			res[uint32(code)] = uint16(gid)
		}
	}
	return res, nil
}

// parseFormat2 reads a high-byte mapping table, used for CJK encodings
// with mixed 8/16-bit codes.
func parseFormat2(data []byte) (map[uint32]uint16, error) {
	if len(data) < 6+512 {
		return nil, errCorrupted
	}
	subHeaderKeys := make([]int, 256)
	maxSubHeader := 0
	for i := 0; i < 256; i++ {
		k := int(binary.BigEndian.Uint16(data[6+2*i:])) / 8
		subHeaderKeys[i] = k
		if k > maxSubHeader {
			maxSubHeader = k
		}
	}

	subHeaderBase := 6 + 512
	if len(data) < subHeaderBase+8*(maxSubHeader+1) {
		return nil, errCorrupted
	}

	res := make(map[uint32]uint16)
	readSubHeader := func(k int) (firstCode, entryCount, idDelta int, rangeBase int) {
		base := subHeaderBase + 8*k
		firstCode = int(binary.BigEndian.Uint16(data[base:]))
		entryCount = int(binary.BigEndian.Uint16(data[base+2:]))
		idDelta = int(int16(binary.BigEndian.Uint16(data[base+4:])))
		idRangeOffset := int(binary.BigEndian.Uint16(data[base+6:]))
		// the range offset is relative to its own position
		rangeBase = base + 6 + idRangeOffset
		return
	}

	for high := 0; high < 256; high++ {
		k := subHeaderKeys[high]
		if k == 0 {
			if high >= 256 {
				continue
			}
			// single-byte code
			firstCode, entryCount, idDelta, rangeBase := readSubHeader(0)
			idx := high - firstCode
			if idx < 0 || idx >= entryCount {
				continue
			}
			pos := rangeBase + 2*idx
			if pos+2 > len(data) {
				continue
			}
			gid := int(binary.BigEndian.Uint16(data[pos:]))
			if gid != 0 {
				gid = (gid + idDelta) & 0xFFFF
			}
			if gid != 0 {
				res[uint32(high)] = uint16(gid)
			}
			continue
		}

		firstCode, entryCount, idDelta, rangeBase := readSubHeader(k)
		for low := firstCode; low < firstCode+entryCount; low++ {
			pos := rangeBase + 2*(low-firstCode)
			if low > 255 || pos+2 > len(data) {
				break
			}
			gid := int(binary.BigEndian.Uint16(data[pos:]))
			if gid != 0 {
				gid = (gid + idDelta) & 0xFFFF
			}
			if gid != 0 {
				code := uint32(high)<<8 | uint32(low)
				res[code] = uint16(gid)
			}
		}
	}
	return res, nil
}

// parseFormat4 reads a segment mapping to delta values, the most common
// format for Unicode encodings.
func parseFormat4(data []byte) (map[uint32]uint16, error) {
	if len(data) < 14 {
		return nil, errCorrupted
	}
	segCountX2 := int(binary.BigEndian.Uint16(data[6:]))
	if segCountX2%2 != 0 {
		return nil, errCorrupted
	}
	segCount := segCountX2 / 2
	if segCount > 100_000 {
		return nil, errCorrupted
	}
	need := 14 + 2*segCount // endCode
	need += 2               // reservedPad
	need += 2 * segCount    // startCode
	need += 2 * segCount    // idDelta
	need += 2 * segCount    // idRangeOffset
	if len(data) < need {
		return nil, errCorrupted
	}

	endBase := 14
	startBase := endBase + 2*segCount + 2
	deltaBase := startBase + 2*segCount
	rangeBase := deltaBase + 2*segCount

	res := make(map[uint32]uint16)
	total := 0
	for k := 0; k < segCount; k++ {
		a := int(binary.BigEndian.Uint16(data[startBase+2*k:]))
		b := int(binary.BigEndian.Uint16(data[endBase+2*k:]))
		if b < a {
			return nil, errCorrupted
		}
		total += b - a + 1
		if total > 70_000 {
			// a reasonable maximum is 65536
			return nil, errCorrupted
		}

		idDelta := int(int16(binary.BigEndian.Uint16(data[deltaBase+2*k:])))
		idRangeOffset := int(binary.BigEndian.Uint16(data[rangeBase+2*k:]))
		for code := a; code <= b; code++ {
			if code == 0xFFFF {
				continue
			}
			var gid int
			if idRangeOffset == 0 {
				gid = (code + idDelta) & 0xFFFF
			} else {
				pos := rangeBase + 2*k + idRangeOffset + 2*(code-a)
				if pos+2 > len(data) {
					continue
				}
				gid = int(binary.BigEndian.Uint16(data[pos:]))
				if gid != 0 {
					gid = (gid + idDelta) & 0xFFFF
				}
			}
			if gid != 0 {
				res[uint32(code)] = uint16(gid)
			}
		}
	}
	return res, nil
}
