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
	"fmt"
	"io"
	"math"
)

// xrefEntry describes the location of one indirect object.
type xrefEntry struct {
	// Pos is the byte offset of the object for ordinary in-use
	// entries, and -1 otherwise.
	Pos int64

	Generation uint16

	// InStream, if non-zero, is the object stream which contains the
	// object.  Idx is the position within that stream.
	InStream Reference
	Idx      int
}

func (e *xrefEntry) IsFree() bool {
	return e.Pos < 0 && e.InStream == 0
}

// findXRef locates the "startxref" marker near the end of the file and
// returns the byte offset of the first cross-reference section.
func (r *Reader) findXRef() (int64, error) {
	pos := r.lastOccurrence("startxref")
	if pos < 0 {
		return 0, &MalformedFileError{Err: errors.New("startxref not found")}
	}
	s := NewScanner(bytes.NewReader(r.buf[pos+len("startxref"):]))
	obj, err := s.Next()
	if err != nil {
		return 0, &MalformedFileError{Err: err, Pos: pos}
	}
	start, ok := obj.(Integer)
	if !ok || start < 0 || int64(start) >= r.size {
		return 0, &MalformedFileError{
			Err: fmt.Errorf("invalid startxref value %v", obj),
			Pos: pos,
		}
	}
	return int64(start), nil
}

// lastOccurrence returns the offset of the last occurrence of pat in
// the file, searching the final 1024 bytes first and widening the
// window on failure.  It returns -1 if pat is not present.
func (r *Reader) lastOccurrence(pat string) int {
	window := 1024
	for {
		start := len(r.buf) - window
		if start < 0 {
			start = 0
		}
		idx := bytes.LastIndex(r.buf[start:], []byte(pat))
		if idx >= 0 {
			return start + idx
		}
		if start == 0 {
			return -1
		}
		window *= 4
	}
}

// readXRefChain parses the cross-reference section at start and all
// sections reachable through /Prev (and /XRefStm for hybrid files).
// Entries from newer sections take precedence over older ones.
func (r *Reader) readXRefChain(start int64) (Dict, error) {
	var trailer Dict
	seen := map[int64]bool{}
	todo := []int64{start}
	for len(todo) > 0 {
		pos := todo[0]
		todo = todo[1:]
		if seen[pos] || pos < 0 || pos >= r.size {
			continue
		}
		seen[pos] = true

		sectTrailer, err := r.readXRefSection(pos)
		if err != nil {
			return nil, err
		}
		if trailer == nil {
			trailer = sectTrailer
		}

		// The /XRefStm offset of a hybrid file takes precedence over
		// /Prev, so it is queued first.
		if x, ok := sectTrailer["XRefStm"].(Integer); ok {
			todo = append(todo, int64(x))
		}
		if prev, ok := sectTrailer["Prev"].(Integer); ok {
			todo = append(todo, int64(prev))
		}
	}
	if trailer == nil {
		return nil, &MalformedFileError{Err: errors.New("missing trailer")}
	}
	return trailer, nil
}

func (r *Reader) readXRefSection(pos int64) (Dict, error) {
	s := NewScanner(bytes.NewReader(r.buf[pos:]))
	obj, err := s.Next()
	if err != nil {
		return nil, &MalformedFileError{Err: err, Pos: pos}
	}
	if obj == Operator("xref") {
		return r.readClassicXRef(s, pos)
	}
	return r.readXRefStream(pos)
}

// readClassicXRef reads a classic cross-reference table, i.e. the
// keyword "xref" followed by subsections of 20-byte entries, followed
// by the keyword "trailer" and the trailer dictionary.
func (r *Reader) readClassicXRef(s *Scanner, base int64) (Dict, error) {
	for {
		obj, err := s.Next()
		if err != nil {
			return nil, &MalformedFileError{Err: err, Pos: base}
		}
		if obj == Operator("trailer") {
			break
		}

		first, ok := obj.(Integer)
		if !ok || first < 0 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("malformed xref subsection start %v", obj),
				Pos: base,
			}
		}
		count, err := s.Next()
		if err != nil {
			return nil, &MalformedFileError{Err: err, Pos: base}
		}
		n, ok := count.(Integer)
		if !ok || n < 0 || int64(first)+int64(n) > math.MaxUint32 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("malformed xref subsection length %v", count),
				Pos: base,
			}
		}

		for i := Integer(0); i < n; i++ {
			number := uint32(first + i)
			offObj, err := s.Next()
			if err != nil {
				return nil, &MalformedFileError{Err: err, Pos: base}
			}
			genObj, err := s.Next()
			if err != nil {
				return nil, &MalformedFileError{Err: err, Pos: base}
			}
			tpObj, err := s.Next()
			if err != nil {
				return nil, &MalformedFileError{Err: err, Pos: base}
			}
			off, ok1 := offObj.(Integer)
			gen, ok2 := genObj.(Integer)
			if !ok1 || !ok2 || gen < 0 || gen > math.MaxUint16 {
				return nil, &MalformedFileError{
					Err: errors.New("malformed xref entry"),
					Pos: base,
				}
			}
			var entry *xrefEntry
			switch tpObj {
			case Operator("n"):
				entry = &xrefEntry{Pos: int64(off), Generation: uint16(gen)}
			case Operator("f"):
				entry = &xrefEntry{Pos: -1, Generation: uint16(gen)}
			default:
				return nil, &MalformedFileError{
					Err: fmt.Errorf("malformed xref entry type %v", tpObj),
					Pos: base,
				}
			}
			r.setXRefEntry(number, entry)
		}
	}

	trailer, err := s.ReadObject()
	if err != nil {
		return nil, &MalformedFileError{Err: err, Pos: base}
	}
	dict, ok := trailer.(Dict)
	if !ok {
		return nil, &MalformedFileError{
			Err: errors.New("malformed trailer"),
			Pos: base,
		}
	}
	return dict, nil
}

// readXRefStream reads a cross-reference stream, i.e. an indirect
// stream object with /Type /XRef.
func (r *Reader) readXRefStream(pos int64) (Dict, error) {
	stm, _, err := r.readStreamAt(pos)
	if err != nil {
		return nil, err
	}
	if tp, _ := stm.Dict["Type"].(Name); tp != "XRef" {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("expected XRef stream, got type %q", tp),
			Pos: pos,
		}
	}

	data, err := DecodeStream(nullGetter{}, stm, 0)
	if err != nil {
		return nil, err
	}

	wArr, _ := stm.Dict["W"].(Array)
	if len(wArr) < 3 {
		return nil, &MalformedFileError{
			Err: errors.New("missing or malformed /W"),
			Pos: pos,
		}
	}
	var w [3]int
	rowLen := 0
	for i := 0; i < 3; i++ {
		wi, ok := wArr[i].(Integer)
		if !ok || wi < 0 || wi > 8 {
			return nil, &MalformedFileError{
				Err: errors.New("malformed /W entry"),
				Pos: pos,
			}
		}
		w[i] = int(wi)
		rowLen += int(wi)
	}
	if rowLen == 0 {
		return nil, &MalformedFileError{Err: errors.New("empty /W"), Pos: pos}
	}

	size, _ := stm.Dict["Size"].(Integer)
	var index []Integer
	if idxArr, ok := stm.Dict["Index"].(Array); ok {
		for _, elem := range idxArr {
			i, ok := elem.(Integer)
			if !ok {
				return nil, &MalformedFileError{
					Err: errors.New("malformed /Index"),
					Pos: pos,
				}
			}
			index = append(index, i)
		}
	} else {
		index = []Integer{0, size}
	}
	if len(index)%2 != 0 {
		return nil, &MalformedFileError{
			Err: errors.New("malformed /Index"),
			Pos: pos,
		}
	}

	readField := func(row []byte, k int) (uint64, []byte) {
		var val uint64
		for i := 0; i < k; i++ {
			val = val<<8 | uint64(row[i])
		}
		return val, row[k:]
	}

	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		if first < 0 || count < 0 || int64(first)+int64(count) > math.MaxUint32 {
			return nil, &MalformedFileError{
				Err: errors.New("malformed /Index range"),
				Pos: pos,
			}
		}
		for j := Integer(0); j < count; j++ {
			if len(data) < rowLen {
				return nil, &MalformedFileError{
					Err: io.ErrUnexpectedEOF,
					Pos: pos,
				}
			}
			row := data[:rowLen]
			data = data[rowLen:]

			tp := uint64(1) // the default when w[0] == 0
			if w[0] > 0 {
				tp, row = readField(row, w[0])
			}
			f2, row := readField(row, w[1])
			f3, _ := readField(row, w[2])

			number := uint32(first + j)
			var entry *xrefEntry
			switch tp {
			case 0:
				entry = &xrefEntry{Pos: -1, Generation: uint16(f3)}
			case 1:
				entry = &xrefEntry{Pos: int64(f2), Generation: uint16(f3)}
			case 2:
				if f2 > math.MaxUint32 || f3 > math.MaxInt32 {
					continue
				}
				entry = &xrefEntry{
					Pos:      -1,
					InStream: NewReference(uint32(f2), 0),
					Idx:      int(f3),
				}
			default:
				// entries of unknown type are skipped: the object
				// number is resolved from an older section, if any,
				// and is otherwise not found
				continue
			}
			r.setXRefEntry(number, entry)
		}
	}

	return stm.Dict, nil
}

// setXRefEntry records an entry unless a newer section has already
// claimed the object number.
func (r *Reader) setXRefEntry(number uint32, entry *xrefEntry) {
	if _, exists := r.xref[number]; !exists {
		r.xref[number] = entry
	}
}

// nullGetter resolves every reference to the null object.  It is used
// while parsing cross-reference streams, before the resolver is ready.
type nullGetter struct{}

func (nullGetter) Get(ref Reference) (Object, error) {
	return nil, nil
}

// rebuildXRef linearly scans the file for "n g obj" markers and
// "trailer" dictionaries, and synthesizes a cross-reference table from
// them.  This is the last resort for damaged files.
func (r *Reader) rebuildXRef() (Dict, error) {
	r.xref = make(map[uint32]*xrefEntry)
	var trailer Dict

	lineStart := int64(0)
	for lineStart < r.size {
		rest := r.buf[lineStart:]
		if num, gen, ok := parseObjMarker(rest); ok {
			// Later definitions win during a rebuild: incremental
			// updates append the newer version of an object.
			r.xref[num] = &xrefEntry{Pos: lineStart, Generation: gen}
		} else if bytes.HasPrefix(rest, []byte("trailer")) {
			s := NewScanner(bytes.NewReader(rest[len("trailer"):]))
			if obj, err := s.ReadObject(); err == nil {
				if dict, ok := obj.(Dict); ok {
					trailer = dict
				}
			}
		}

		idx := bytes.IndexAny(rest, "\r\n")
		if idx < 0 {
			break
		}
		lineStart += int64(idx) + 1
	}

	if trailer == nil {
		// No trailer found; synthesize one from the first /Type
		// /Catalog object in the file.
		bestPos := int64(-1)
		for number, entry := range r.xref {
			if bestPos >= 0 && entry.Pos >= bestPos {
				continue
			}
			obj, err := r.parseObjectAt(entry.Pos, NewReference(number, entry.Generation))
			if err != nil {
				continue
			}
			if dict, ok := obj.(Dict); ok {
				if tp, _ := dict["Type"].(Name); tp == "Catalog" {
					trailer = Dict{
						"Root": NewReference(number, entry.Generation),
					}
					bestPos = entry.Pos
				}
			}
		}
	}
	if trailer == nil {
		return nil, &MalformedFileError{Err: errors.New("no objects found")}
	}
	return trailer, nil
}

// parseObjMarker matches the start of an indirect object,
// "<number> <generation> obj", at the beginning of buf.
func parseObjMarker(buf []byte) (uint32, uint16, bool) {
	i := 0
	num := uint64(0)
	numDigits := 0
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		num = num*10 + uint64(buf[i]-'0')
		if num > math.MaxUint32 {
			return 0, 0, false
		}
		i++
		numDigits++
	}
	if numDigits == 0 || i >= len(buf) || buf[i] != ' ' {
		return 0, 0, false
	}
	i++
	gen := uint64(0)
	genDigits := 0
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		gen = gen*10 + uint64(buf[i]-'0')
		if gen > math.MaxUint16 {
			return 0, 0, false
		}
		i++
		genDigits++
	}
	if genDigits == 0 {
		return 0, 0, false
	}
	if !bytes.HasPrefix(buf[i:], []byte(" obj")) {
		return 0, 0, false
	}
	rest := buf[i+4:]
	if len(rest) > 0 && class[rest[0]] == regular {
		return 0, 0, false
	}
	return uint32(num), uint16(gen), true
}
