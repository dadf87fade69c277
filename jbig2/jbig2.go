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

// Package jbig2 parses the segment framing of JBIG2 embedded streams,
// as used by the PDF JBIG2Decode filter.  Only the segment headers are
// interpreted; decoding the arithmetic-coded bitmap data is left to an
// external decoder.
package jbig2

import (
	"encoding/binary"
	"errors"
	"io"
)

// Segment is one segment of a JBIG2 stream.
type Segment struct {
	Number        uint32
	Type          uint8
	PageAssoc     uint32
	ReferredTo    []uint32
	RetainBits    []byte
	Data          []byte
	DataUnknownLn bool
}

var (
	errRetainBits = errors.New("jbig2: malformed referred-to segment list")
)

// ParseSegments splits an embedded JBIG2 stream into segments.
//
// Embedded streams (as found in PDF files) omit the file header and
// consist of a plain sequence of segments.
func ParseSegments(data []byte) ([]*Segment, error) {
	var res []*Segment
	pos := 0
	for pos < len(data) {
		seg, n, err := parseSegment(data[pos:])
		if err != nil {
			return nil, err
		}
		res = append(res, seg)
		pos += n
		if seg.DataUnknownLn {
			// unknown data length is only allowed for the last
			// immediate generic region segment
			break
		}
	}
	return res, nil
}

func parseSegment(data []byte) (*Segment, int, error) {
	if len(data) < 11 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	seg := &Segment{}
	seg.Number = binary.BigEndian.Uint32(data[0:4])
	flags := data[4]
	seg.Type = flags & 0x3F
	pageAssoc4 := flags&0x40 != 0

	pos := 5

	// referred-to segment count and retain bits
	rts := data[pos]
	count := int(rts >> 5)
	if count == 7 {
		if len(data) < pos+4 {
			return nil, 0, io.ErrUnexpectedEOF
		}
		count = int(binary.BigEndian.Uint32(data[pos:pos+4]) & 0x1FFFFFFF)
		pos += 4
		retainLen := (count + 8) / 8
		if len(data) < pos+retainLen {
			return nil, 0, io.ErrUnexpectedEOF
		}
		seg.RetainBits = data[pos : pos+retainLen]
		pos += retainLen
	} else {
		pos++
	}
	if count > 1<<20 {
		return nil, 0, errRetainBits
	}

	// referred-to segment numbers; the field width depends on the
	// segment's own number
	var refSize int
	switch {
	case seg.Number <= 256:
		refSize = 1
	case seg.Number <= 65536:
		refSize = 2
	default:
		refSize = 4
	}
	for i := 0; i < count; i++ {
		if len(data) < pos+refSize {
			return nil, 0, io.ErrUnexpectedEOF
		}
		var ref uint32
		switch refSize {
		case 1:
			ref = uint32(data[pos])
		case 2:
			ref = uint32(binary.BigEndian.Uint16(data[pos : pos+2]))
		default:
			ref = binary.BigEndian.Uint32(data[pos : pos+4])
		}
		seg.ReferredTo = append(seg.ReferredTo, ref)
		pos += refSize
	}

	// page association
	if pageAssoc4 {
		if len(data) < pos+4 {
			return nil, 0, io.ErrUnexpectedEOF
		}
		seg.PageAssoc = binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
	} else {
		if len(data) < pos+1 {
			return nil, 0, io.ErrUnexpectedEOF
		}
		seg.PageAssoc = uint32(data[pos])
		pos++
	}

	// data length
	if len(data) < pos+4 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	dataLen := binary.BigEndian.Uint32(data[pos : pos+4])
	pos += 4

	if dataLen == 0xFFFFFFFF {
		seg.DataUnknownLn = true
		seg.Data = data[pos:]
		return seg, len(data), nil
	}
	if uint32(len(data)-pos) < dataLen {
		return nil, 0, io.ErrUnexpectedEOF
	}
	seg.Data = data[pos : pos+int(dataLen)]
	pos += int(dataLen)

	return seg, pos, nil
}
