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

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/image/ccitt"
)

// decodeASCIIHex decodes the ASCIIHexDecode filter.  Whitespace is
// skipped, ">" terminates the data, and an odd trailing digit is padded
// with zero.
func decodeASCIIHex(data []byte) ([]byte, error) {
	var res []byte
	first := true
	var hi byte
	for pos, b := range data {
		if b == '>' {
			break
		}
		if class[b] == space {
			continue
		}
		v, ok := hexVal(b)
		if !ok {
			return nil, &DecodeError{
				Filter: "ASCIIHexDecode",
				Pos:    int64(pos),
				Err:    errors.New("invalid hex digit"),
			}
		}
		if first {
			hi = v << 4
			first = false
		} else {
			res = append(res, hi|v)
			first = true
		}
	}
	if !first {
		res = append(res, hi)
	}
	return res, nil
}

// decodeRunLength decodes the RunLengthDecode filter: a length byte
// 0..127 copies the following length+1 bytes, 129..255 repeats the
// following byte 257-length times, and 128 ends the data.
func decodeRunLength(data []byte) ([]byte, error) {
	var res []byte
	pos := 0
	for pos < len(data) {
		n := int(data[pos])
		pos++
		switch {
		case n == 128:
			return res, nil
		case n < 128:
			end := pos + n + 1
			if end > len(data) {
				return nil, &DecodeError{
					Filter: "RunLengthDecode",
					Pos:    int64(pos),
					Err:    io.ErrUnexpectedEOF,
				}
			}
			res = append(res, data[pos:end]...)
			pos = end
		default:
			if pos >= len(data) {
				return nil, &DecodeError{
					Filter: "RunLengthDecode",
					Pos:    int64(pos),
					Err:    io.ErrUnexpectedEOF,
				}
			}
			for i := 0; i < 257-n; i++ {
				res = append(res, data[pos])
			}
			pos++
		}
	}
	// missing end-of-data marker is tolerated
	return res, nil
}

// decodeCCITT decodes the CCITTFaxDecode filter using the Group 3/4 bit
// decoder from golang.org/x/image/ccitt.
func decodeCCITT(data []byte, parms Dict) ([]byte, error) {
	k := 0
	columns := 1728
	rows := 0
	blackIs1 := false
	byteAlign := false
	if parms != nil {
		if val, ok := parms["K"].(Integer); ok {
			k = int(val)
		}
		if val, ok := parms["Columns"].(Integer); ok && val > 0 {
			columns = int(val)
		}
		if val, ok := parms["Rows"].(Integer); ok && val > 0 {
			rows = int(val)
		}
		if val, ok := parms["BlackIs1"].(Boolean); ok {
			blackIs1 = bool(val)
		}
		if val, ok := parms["EncodedByteAlign"].(Boolean); ok {
			byteAlign = bool(val)
		}
	}

	var sf ccitt.SubFormat
	switch {
	case k < 0:
		sf = ccitt.Group4
	case k == 0:
		sf = ccitt.Group3
	default:
		// mixed one/two-dimensional Group 3 data
		return nil, &UnsupportedError{Feature: "CCITTFax K>0"}
	}

	h := rows
	if h == 0 {
		// unknown height; decode until the data runs out
		h = 1 << 20
	}
	opts := &ccitt.Options{
		Invert: blackIs1,
		Align:  byteAlign,
	}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, h, opts)
	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, &DecodeError{Filter: "CCITTFaxDecode", Err: err}
	}
	// EOFB inside the data simply ends the bitmap
	return out, nil
}
