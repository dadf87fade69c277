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

// Package lzw implements the LZW variant used by the PDF LZWDecode
// filter: MSB-first codes of 9 to 12 bits, code 256 clears the table
// and code 257 marks the end of data.  The standard library decoder is
// not usable here because PDF streams may set EarlyChange=0, while
// compress/lzw hard-codes the early code-width change.
package lzw

import (
	"errors"
	"io"
)

const (
	clearCode = 256
	eodCode   = 257
	firstCode = 258
	maxWidth  = 12
)

var (
	errBadCode = errors.New("lzw: invalid code")
)

// Decode decompresses data.  earlyChange selects whether the code width
// increases one code before the table is full (the PDF default).
func Decode(data []byte, earlyChange bool) ([]byte, error) {
	d := &decoder{
		data:        data,
		earlyChange: earlyChange,
	}
	d.reset()
	return d.run()
}

type decoder struct {
	data        []byte
	pos         int   // next byte to read
	bits        uint32
	nBits       int

	earlyChange bool
	width       int

	// the code table; entries below 256 are implicit single bytes
	suffix [1 << maxWidth]byte
	prefix [1 << maxWidth]uint16
	length [1 << maxWidth]int
	next   int

	out []byte
}

func (d *decoder) reset() {
	d.width = 9
	d.next = firstCode
}

// limit returns the code value at which the code width grows.
func (d *decoder) limit() int {
	lim := 1 << d.width
	if d.earlyChange {
		lim--
	}
	return lim
}

func (d *decoder) readCode() (int, error) {
	for d.nBits < d.width {
		if d.pos >= len(d.data) {
			return 0, io.EOF
		}
		d.bits = d.bits<<8 | uint32(d.data[d.pos])
		d.pos++
		d.nBits += 8
	}
	d.nBits -= d.width
	code := int(d.bits>>uint(d.nBits)) & (1<<d.width - 1)
	return code, nil
}

// expand writes the byte sequence for code to d.out.
func (d *decoder) expand(code int) {
	start := len(d.out)
	n := 1
	if code >= firstCode {
		n = d.length[code]
	}
	d.out = append(d.out, make([]byte, n)...)
	for i := n - 1; i >= 0; i-- {
		if code < 256 {
			d.out[start+i] = byte(code)
		} else {
			d.out[start+i] = d.suffix[code]
			code = int(d.prefix[code])
		}
	}
}

func (d *decoder) run() ([]byte, error) {
	prev := -1
	for {
		code, err := d.readCode()
		if err == io.EOF {
			// missing EOD marker is tolerated
			return d.out, nil
		} else if err != nil {
			return nil, err
		}

		switch {
		case code == clearCode:
			d.reset()
			prev = -1
			continue
		case code == eodCode:
			return d.out, nil
		case code < 256 || (code < d.next && code >= firstCode):
			startLen := len(d.out)
			d.expand(code)
			if prev >= 0 && d.next < 1<<maxWidth {
				d.addEntry(prev, d.out[startLen])
			}
			prev = code
		case code == d.next && prev >= 0 && d.next < 1<<maxWidth:
			// the KwKwK case: the new entry is prev + first byte of prev
			startLen := len(d.out)
			d.expand(prev)
			first := d.out[startLen]
			d.out = append(d.out, first)
			d.addEntry(prev, first)
			prev = code
		default:
			return nil, errBadCode
		}

		if d.next >= d.limit() && d.width < maxWidth {
			d.width++
		}
	}
}

func (d *decoder) addEntry(prev int, b byte) {
	d.prefix[d.next] = uint16(prev)
	d.suffix[d.next] = b
	n := 1
	if prev >= firstCode {
		n = d.length[prev]
	}
	d.length[d.next] = n + 1
	d.next++
}
