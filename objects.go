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
	"sort"
	"strconv"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/geom/rect"
)

// Object represents an object in a PDF file.  The concrete types are
// [Integer], [Real], [Boolean], [Name], [String], [Array], [Dict],
// [*Stream], [Reference] and [Operator].  The nil interface represents
// the PDF null object.
type Object interface{}

// Integer represents an integer constant in a PDF file.
type Integer int64

// Real represents a real number in a PDF file.
type Real float64

// Boolean represents a boolean value in a PDF file.
type Boolean bool

// Name represents a name object in a PDF file.
type Name string

// String represents a raw string in a PDF file.
type String []byte

// Array represents an array of objects in a PDF file.
type Array []Object

// Dict represents a dictionary object in a PDF file.
type Dict map[Name]Object

// Operator is a content-stream operator keyword, e.g. "Tj" or "re".
// Operators only occur when scanning content streams.
type Operator string

// Stream represents a stream object in a PDF file.  Raw holds the
// still-encoded stream payload; use [DecodeStream] to apply the filter
// chain.
type Stream struct {
	Dict Dict
	Raw  []byte
}

// Reference represents a reference to an indirect object in a PDF file.
// The lower 32 bits hold the object number, the next 16 bits the
// generation number.
type Reference uint64

// NewReference creates a reference with the given object and generation
// number.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(number) | Reference(generation)<<32
}

// Number returns the object number of the reference.
func (r Reference) Number() uint32 {
	return uint32(r)
}

// Generation returns the generation number of the reference.
func (r Reference) Generation() uint16 {
	return uint16(r >> 32)
}

func (r Reference) String() string {
	return strconv.FormatUint(uint64(r.Number()), 10) + " " +
		strconv.FormatUint(uint64(r.Generation()), 10) + " R"
}

// Getter gives read access to the objects of a PDF file.
type Getter interface {
	// Get resolves a reference to the referenced object.  Resolution is
	// deterministic: repeated calls with the same reference return
	// equal objects.
	Get(ref Reference) (Object, error)
}

// Resolve resolves references to indirect objects until a direct object
// is reached.  Reference chains terminate after a fixed number of steps
// so that reference loops lead to nil instead of an infinite loop.
func Resolve(r Getter, obj Object) (Object, error) {
	count := 0
	for {
		ref, isRef := obj.(Reference)
		if !isRef {
			return obj, nil
		}
		count++
		if count > 16 {
			return nil, nil
		}
		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}
}

func resolveAs[T Object](r Getter, obj Object) (T, error) {
	var zero T
	obj, err := Resolve(r, obj)
	if err != nil {
		return zero, err
	}
	if obj == nil {
		return zero, nil
	}
	val, ok := obj.(T)
	if !ok {
		return zero, &MalformedFileError{
			Err: fmt.Errorf("expected %T but got %T", zero, obj),
		}
	}
	return val, nil
}

// GetArray resolves obj and checks that it is an array.
func GetArray(r Getter, obj Object) (Array, error) {
	return resolveAs[Array](r, obj)
}

// GetBoolean resolves obj and checks that it is a boolean.
func GetBoolean(r Getter, obj Object) (Boolean, error) {
	return resolveAs[Boolean](r, obj)
}

// GetDict resolves obj and checks that it is a dictionary.
func GetDict(r Getter, obj Object) (Dict, error) {
	return resolveAs[Dict](r, obj)
}

// GetInt resolves obj and checks that it is an integer.
func GetInt(r Getter, obj Object) (Integer, error) {
	return resolveAs[Integer](r, obj)
}

// GetName resolves obj and checks that it is a name.
func GetName(r Getter, obj Object) (Name, error) {
	return resolveAs[Name](r, obj)
}

// GetString resolves obj and checks that it is a string.
func GetString(r Getter, obj Object) (String, error) {
	return resolveAs[String](r, obj)
}

// GetStream resolves obj and checks that it is a stream.
func GetStream(r Getter, obj Object) (*Stream, error) {
	return resolveAs[*Stream](r, obj)
}

// GetNumber resolves obj and converts it to a float64.  Both Integer
// and Real objects are accepted.
func GetNumber(r Getter, obj Object) (float64, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected number but got %T", obj),
		}
	}
}

// GetDictTyped resolves obj to a dictionary and, if the dictionary has a
// /Type entry, checks that it equals tp.
func GetDictTyped(r Getter, obj Object, tp Name) (Dict, error) {
	dict, err := GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}
	if haveTp, ok := dict["Type"].(Name); ok && haveTp != tp {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("expected dict type %q but got %q", tp, haveTp),
		}
	}
	return dict, nil
}

// GetRectangle resolves obj to a rectangle.  The returned rectangle is
// normalized so that LLx<=URx and LLy<=URy, repairing files which store
// the corners in the wrong order.
func GetRectangle(r Getter, obj Object) (rect.Rect, error) {
	arr, err := GetArray(r, obj)
	if err != nil {
		return rect.Rect{}, err
	}
	if len(arr) != 4 {
		return rect.Rect{}, &MalformedFileError{Err: errNoRectangle}
	}
	var coord [4]float64
	for i, elem := range arr {
		coord[i], err = GetNumber(r, elem)
		if err != nil {
			return rect.Rect{}, &MalformedFileError{Err: errNoRectangle}
		}
	}
	res := rect.Rect{LLx: coord[0], LLy: coord[1], URx: coord[2], URy: coord[3]}
	if res.LLx > res.URx {
		res.LLx, res.URx = res.URx, res.LLx
	}
	if res.LLy > res.URy {
		res.LLy, res.URy = res.URy, res.LLy
	}
	return res, nil
}

// DecodeStream decodes the payload of a stream object, applying the
// filters listed in the /Filter entry in order.  numFilters>0 limits
// decoding to the first numFilters filters of the chain.
func DecodeStream(r Getter, s *Stream, numFilters int) ([]byte, error) {
	filters, err := extractFilterInfo(r, s.Dict)
	if err != nil {
		return nil, err
	}
	data := s.Raw
	for i, fi := range filters {
		if numFilters > 0 && i >= numFilters {
			break
		}
		data, err = fi.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Format serializes an object in PDF syntax.  This is used by the
// round-trip tests and for debugging; the library never writes PDF
// files.
func Format(obj Object) string {
	switch x := obj.(type) {
	case nil:
		return "null"
	case Boolean:
		if x {
			return "true"
		}
		return "false"
	case Integer:
		return strconv.FormatInt(int64(x), 10)
	case Real:
		s := strconv.FormatFloat(float64(x), 'f', -1, 64)
		if !containsByte(s, '.') {
			s += "."
		}
		return s
	case Name:
		return formatName(x)
	case String:
		return formatString(x)
	case Array:
		res := "["
		for i, elem := range x {
			if i > 0 {
				res += " "
			}
			res += Format(elem)
		}
		return res + "]"
	case Dict:
		keys := maps.Keys(x)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		res := "<<"
		for _, key := range keys {
			res += formatName(key) + " " + Format(x[key])
		}
		return res + ">>"
	case Reference:
		return x.String()
	case Operator:
		return string(x)
	case *Stream:
		return Format(x.Dict) + " stream"
	default:
		panic(fmt.Sprintf("unexpected object type %T", obj))
	}
}

func formatName(n Name) string {
	res := []byte{'/'}
	for i := 0; i < len(n); i++ {
		b := n[i]
		if b <= 32 || b == '/' || b == '%' || b == '#' ||
			b == '(' || b == ')' || b == '<' || b == '>' ||
			b == '[' || b == ']' || b == '{' || b == '}' || b >= 127 {
			res = append(res, '#', hexDigit(b>>4), hexDigit(b&15))
		} else {
			res = append(res, b)
		}
	}
	return string(res)
}

func formatString(s String) string {
	res := []byte{'('}
	for _, b := range s {
		switch b {
		case '(', ')', '\\':
			res = append(res, '\\', b)
		case '\n':
			res = append(res, '\\', 'n')
		case '\r':
			res = append(res, '\\', 'r')
		default:
			res = append(res, b)
		}
	}
	return string(append(res, ')'))
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'A' + b - 10
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

