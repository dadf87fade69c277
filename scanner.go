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
	"fmt"
	"io"
	"math"
	"strconv"
)

// A Scanner breaks PDF data into tokens and objects.  The same grammar
// is used for objects in the file body, for content streams and for
// CMap data; only the dispatch of operator keywords differs between
// these uses.
//
// The scanner pulls bytes from an io.Reader through a small internal
// buffer, so tokens which straddle buffer boundaries are handled
// transparently.
type Scanner struct {
	src       io.Reader
	buf       []byte
	pos, used int
	ahead     []byte
	total     int64

	// err is the first error returned by src.Read().  Once an error has
	// been returned, all subsequent calls to refill() will return err.
	err error
}

// NewScanner returns a new scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		src: r,
		buf: make([]byte, 512),
	}
}

// Pos returns the offset of the next unread byte, relative to the start
// of the scanner's input.
func (s *Scanner) Pos() int64 {
	return s.total - int64(len(s.ahead))
}

// scannerError indicates a syntax error in the input.
type scannerError struct {
	reason string
}

func (err *scannerError) Error() string {
	return err.reason
}

// ReadObject returns the next complete object from the input.  Arrays
// and dictionaries are collected into [Array] and [Dict] values, and
// runs of the form "n g R" are folded into [Reference] values.
// Operator keywords terminate collection and are returned as
// [Operator] values.
func (s *Scanner) ReadObject() (Object, error) {
	type stackEntry struct {
		isDict bool
		data   []Object
	}
	var stack []*stackEntry
	for {
		obj, err := s.Next()
		if err != nil {
			if err == io.EOF && len(stack) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}

	retry:
		switch obj {
		case Operator("<<"):
			stack = append(stack, &stackEntry{isDict: true})
		case Operator(">>"):
			if len(stack) == 0 || !stack[len(stack)-1].isDict {
				return nil, &scannerError{"unexpected '>>'"}
			}
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(entry.data)%2 != 0 {
				return nil, &scannerError{"dict with odd number of items"}
			}
			dict := Dict{}
			for i := 0; i < len(entry.data); i += 2 {
				key, ok := entry.data[i].(Name)
				if !ok {
					return nil, &scannerError{"unexpected dict key"}
				}
				val := entry.data[i+1]
				if val == nil {
					continue
				}
				dict[key] = val
			}
			obj = dict
			goto retry
		case Operator("["):
			stack = append(stack, &stackEntry{})
		case Operator("]"):
			if len(stack) == 0 || stack[len(stack)-1].isDict {
				return nil, &scannerError{"unexpected ']'"}
			}
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			obj = Array(entry.data)
			goto retry
		case Operator("R"):
			// Two preceding integers and the keyword R form an
			// indirect reference.
			var data []Object
			if len(stack) > 0 {
				data = stack[len(stack)-1].data
			}
			n := len(data)
			if n >= 2 {
				num, ok1 := data[n-2].(Integer)
				gen, ok2 := data[n-1].(Integer)
				if ok1 && ok2 && num > 0 && num <= math.MaxUint32 &&
					gen >= 0 && gen <= math.MaxUint16 {
					stack[len(stack)-1].data = data[:n-2]
					obj = NewReference(uint32(num), uint16(gen))
					goto retry
				}
			}
			if len(stack) == 0 {
				return obj, nil
			}
			return nil, &scannerError{"unpaired reference keyword"}
		default:
			if len(stack) == 0 {
				return obj, nil
			}
			if _, isOp := obj.(Operator); isOp {
				return nil, &scannerError{
					fmt.Sprintf("unexpected keyword %q", obj)}
			}
			stack[len(stack)-1].data = append(stack[len(stack)-1].data, obj)
		}
	}
}

// Next returns the next token from the input.  Structural tokens
// ("[", "]", "<<", ">>", "{", "}") and keywords are returned as
// [Operator] values.
func (s *Scanner) Next() (Object, error) {
	err := s.skipWhiteSpace()
	if err != nil {
		return nil, err
	}
	b, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '(':
		return s.readString()
	case '<':
		bb := s.peekN(2)
		if string(bb) == "<<" {
			s.skipRequiredByte('<')
			s.skipRequiredByte('<')
			return Operator("<<"), nil
		}
		return s.readHexString()
	case '>':
		bb := s.peekN(2)
		if string(bb) == ">>" {
			s.skipRequiredByte('>')
			s.skipRequiredByte('>')
			return Operator(">>"), nil
		}
		err := s.err
		if err == nil {
			err = &scannerError{"unexpected '>'"}
		}
		return nil, err
	case '/':
		s.skipRequiredByte('/')
		return s.readName()
	case '[', ']', '{', '}':
		s.nextByte()
		return Operator([]byte{b}), nil
	case ')':
		s.nextByte()
		return nil, &scannerError{"unexpected ')'"}
	default:
		s.nextByte()
		opBytes := []byte{b}
		if class[b] == regular {
			for {
				b, err := s.peek()
				if err == io.EOF {
					break
				} else if err != nil {
					return nil, err
				}
				if class[b] != regular {
					break
				}
				s.nextByte()
				opBytes = append(opBytes, b)
			}
		}

		x, err := parseNumber(opBytes)
		if err == nil {
			return x, nil
		}

		switch string(opBytes) {
		case "false":
			return Boolean(false), nil
		case "true":
			return Boolean(true), nil
		case "null":
			return nil, nil
		}

		return Operator(opBytes), nil
	}
}

func (s *Scanner) readString() (String, error) {
	err := s.skipRequiredByte('(')
	if err != nil {
		return nil, err
	}
	var res []byte
	bracketLevel := 1
	ignoreLF := false
	for {
		b, err := s.nextByte()
		if err == io.EOF {
			// Unterminated string: surface one error; the caller can
			// continue scanning at the next token.
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, err
		}
		if ignoreLF && b == 10 {
			ignoreLF = false
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			bracketLevel++
			res = append(res, b)
		case ')':
			bracketLevel--
			if bracketLevel == 0 {
				return String(res), nil
			}
			res = append(res, b)
		case '\\':
			b, err = s.nextByte()
			if err != nil {
				return nil, io.ErrUnexpectedEOF
			}
			switch b {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '(':
				res = append(res, '(')
			case ')':
				res = append(res, ')')
			case '\\':
				res = append(res, '\\')
			case 10: // line continuation
				// ignore
			case 13: // CR or CR+LF
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := b - '0'
				for i := 0; i < 2; i++ {
					b, err = s.peek()
					if err == io.EOF {
						break
					} else if err != nil {
						return nil, err
					}
					if b < '0' || b > '7' {
						break
					}
					s.nextByte()
					oct = oct*8 + (b - '0')
				}
				res = append(res, oct)
			default:
				res = append(res, b)
			}
		default:
			res = append(res, b)
		}
	}
}

func (s *Scanner) readHexString() (String, error) {
	err := s.skipRequiredByte('<')
	if err != nil {
		return nil, err
	}

	var res []byte
	first := true
	var hi byte
readLoop:
	for {
		b, err := s.nextByte()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, err
		}
		var lo byte
		switch {
		case b == '>':
			break readLoop
		case b <= 32:
			continue
		case b >= '0' && b <= '9':
			lo = b - '0'
		case b >= 'A' && b <= 'F':
			lo = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			lo = b - 'a' + 10
		default:
			return nil, &scannerError{fmt.Sprintf("invalid hex digit %q", b)}
		}
		if first {
			hi = lo << 4
			first = false
		} else {
			res = append(res, hi|lo)
			first = true
		}
	}
	if !first {
		// odd number of digits, the last digit is padded with 0
		res = append(res, hi)
	}

	return String(res), nil
}

// readName reads a PDF name object (without the leading slash).
// A '#' which is not followed by two hex digits is kept literally.
func (s *Scanner) readName() (Name, error) {
	var name []byte
	for {
		b, err := s.peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}

		if b == '#' {
			bb := s.peekN(3)
			if len(bb) == 3 && isHexDigit(bb[1]) && isHexDigit(bb[2]) {
				s.nextByte()
				hi, _ := hexVal(s.mustNextByte())
				lo, _ := hexVal(s.mustNextByte())
				name = append(name, hi<<4|lo)
				continue
			}
			name = append(name, '#')
			s.nextByte()
			continue
		}
		if class[b] != regular {
			break
		}
		name = append(name, b)
		s.nextByte()
	}
	return Name(name), nil
}

// ReadInlineImageData reads the binary payload of an inline image.
// The scanner must be positioned directly after the "ID" keyword.  The
// payload extends up to the next "EI" keyword which is preceded by
// whitespace and followed by whitespace or the end of input.
func (s *Scanner) ReadInlineImageData() ([]byte, error) {
	// a single whitespace byte separates ID from the data
	if b, err := s.peek(); err == nil && class[b] == space {
		s.nextByte()
		if b == 13 {
			if b2, err := s.peek(); err == nil && b2 == 10 {
				s.nextByte()
			}
		}
	}

	var data []byte
	for {
		b, err := s.nextByte()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, err
		}
		data = append(data, b)

		n := len(data)
		if n < 3 || data[n-2] != 'E' || data[n-1] != 'I' {
			continue
		}
		if class[data[n-3]] != space {
			continue
		}
		next := s.peekN(1)
		if len(next) == 0 || class[next[0]] == space || class[next[0]] == delimiter {
			// strip the separator and the EI keyword
			return data[:n-3], nil
		}
	}
}

// skipWhiteSpace skips all input (including comments) until a
// non-whitespace character is found.
func (s *Scanner) skipWhiteSpace() error {
	for {
		b, err := s.peek()
		if err != nil {
			return err
		}
		if class[b] == space {
			s.nextByte()
		} else if b == '%' {
			s.skipComment()
		} else {
			return nil
		}
	}
}

// skipComment skips everything from a % to the end of the line.
func (s *Scanner) skipComment() {
	err := s.skipRequiredByte('%')
	if err != nil {
		return
	}

	for {
		b, err := s.peek()
		if b == 10 || b == 13 || err != nil {
			break
		}
		s.nextByte()
	}
}

func (s *Scanner) skipRequiredByte(expected byte) error {
	seen, err := s.nextByte()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	} else if err != nil {
		return err
	}
	if seen != expected {
		return &scannerError{fmt.Sprintf("expected %q, got %q", expected, seen)}
	}
	return nil
}

func (s *Scanner) peek() (byte, error) {
	if len(s.ahead) == 0 {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[0], nil
}

func (s *Scanner) peekN(n int) []byte {
	for len(s.ahead) < n {
		b, err := s.readByte()
		if err != nil {
			return s.ahead
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[:n]
}

func (s *Scanner) nextByte() (byte, error) {
	if len(s.ahead) > 0 {
		b := s.ahead[0]
		copy(s.ahead, s.ahead[1:])
		s.ahead = s.ahead[:len(s.ahead)-1]
		return b, nil
	}
	return s.readByte()
}

func (s *Scanner) mustNextByte() byte {
	b, err := s.nextByte()
	if err != nil {
		return 0
	}
	return b
}

// readByte reads the next byte from the underlying reader.
// It is the caller's responsibility to check the read-ahead buffer first.
func (s *Scanner) readByte() (byte, error) {
	for s.pos >= s.used {
		err := s.refill()
		if err != nil {
			return 0, err
		}
	}

	b := s.buf[s.pos]
	s.pos++
	s.total++

	return b, nil
}

// refill reads more data from the underlying reader into the buffer.
// This is the only place where the underlying reader is called.
func (s *Scanner) refill() error {
	if s.err != nil {
		return s.err
	}
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	n, err := s.src.Read(s.buf[s.used:])
	s.used += n
	if err != nil {
		s.err = err
		if n > 0 {
			err = nil
		}
	}
	return err
}

func parseNumber(s []byte) (Object, error) {
	x, err := strconv.ParseInt(string(s), 10, 64)
	if err == nil {
		return Integer(x), nil
	}

	isSimple := true
	for i, c := range s {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			isSimple = false
			break
		}
	}

	if isSimple {
		y, err := strconv.ParseFloat(string(s), 64)
		if err == nil && !math.IsInf(y, 0) && !math.IsNaN(y) {
			return Real(y), nil
		}
	}

	return nil, &scannerError{fmt.Sprintf("invalid number %q", s)}
}

func isHexDigit(b byte) bool {
	_, ok := hexVal(b)
	return ok
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	default:
		return 0, false
	}
}

type characterClass byte

const (
	regular characterClass = iota
	space
	delimiter
)

var class = func() [256]characterClass {
	var res [256]characterClass
	for _, b := range []byte{0, 9, 10, 12, 13, 32} {
		res[b] = space
	}
	for _, b := range []byte("%()/<>[]{}") {
		res[b] = delimiter
	}
	return res
}()
