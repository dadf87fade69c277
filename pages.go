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
	"errors"
	"fmt"
	"iter"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// Page describes one page of a PDF file.
type Page struct {
	// Ref is the reference of the page object, if the page was reached
	// through a reference.
	Ref Reference

	// Dict is the page dictionary.
	Dict Dict

	// MediaBox and CropBox are normalized so that the lower left
	// corner has the smaller coordinates.
	MediaBox rect.Rect
	CropBox  rect.Rect

	// Rotate is the clockwise display rotation, one of 0, 90, 180, 270.
	Rotate int

	// Resources is the (possibly inherited) resource dictionary.
	Resources Dict

	r *Reader
}

// letterPaper is used when a page tree fails to declare a MediaBox.
var letterPaper = rect.Rect{LLx: 0, LLy: 0, URx: 612, URy: 792}

// inherited holds the page attributes which are inherited from
// ancestors in the page tree.
type inherited struct {
	Resources Dict
	MediaBox  Object
	CropBox   Object
	Rotate    Object
}

// Pages iterates over the pages of the document in document order.
// Damage localized to one subtree yields an error for that position and
// iteration continues with the remaining pages.
func (r *Reader) Pages() iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		catalog, err := r.Catalog()
		if err != nil {
			yield(nil, err)
			return
		}
		seen := make(map[Reference]bool)
		r.walkPageTree(catalog["Pages"], &inherited{}, seen, yield)
	}
}

// walkPageTree recursively visits a page-tree node.  The return value
// is false if the consumer stopped the iteration.
func (r *Reader) walkPageTree(node Object, inh *inherited, seen map[Reference]bool, yield func(*Page, error) bool) bool {
	var ref Reference
	if x, isRef := node.(Reference); isRef {
		if seen[x] {
			// a cycle in the page tree ends the branch
			return yield(nil, &MalformedFileError{
				Err: fmt.Errorf("page tree cycle at %s", x),
			})
		}
		seen[x] = true
		defer delete(seen, x)
		ref = x
	}

	dict, err := GetDict(r, node)
	if err != nil {
		return yield(nil, err)
	}
	if dict == nil {
		return yield(nil, &MalformedFileError{
			Err: errors.New("missing page tree node"),
		})
	}

	sub := &inherited{
		Resources: inh.Resources,
		MediaBox:  inh.MediaBox,
		CropBox:   inh.CropBox,
		Rotate:    inh.Rotate,
	}
	if res, ok := dict["Resources"]; ok {
		if resDict, err := GetDict(r, res); err == nil && resDict != nil {
			sub.Resources = resDict
		}
	}
	if mb, ok := dict["MediaBox"]; ok {
		sub.MediaBox = mb
	}
	if cb, ok := dict["CropBox"]; ok {
		sub.CropBox = cb
	}
	if rot, ok := dict["Rotate"]; ok {
		sub.Rotate = rot
	}

	tp, _ := dict["Type"].(Name)
	switch tp {
	case "Pages":
		kids, err := GetArray(r, dict["Kids"])
		if err != nil {
			return yield(nil, err)
		}
		for _, kid := range kids {
			if !r.walkPageTree(kid, sub, seen, yield) {
				return false
			}
		}
		return true
	case "Page":
		page, err := r.makePage(ref, dict, sub)
		return yield(page, err)
	default:
		return yield(nil, &MalformedFileError{
			Err: fmt.Errorf("unexpected page tree node type %q", tp),
		})
	}
}

func (r *Reader) makePage(ref Reference, dict Dict, inh *inherited) (*Page, error) {
	page := &Page{
		Ref:       ref,
		Dict:      dict,
		Resources: inh.Resources,
		r:         r,
	}

	if inh.MediaBox != nil {
		box, err := GetRectangle(r, inh.MediaBox)
		if err == nil {
			page.MediaBox = box
		}
	}
	if page.MediaBox == (rect.Rect{}) {
		page.MediaBox = letterPaper
	}

	page.CropBox = page.MediaBox
	if inh.CropBox != nil {
		box, err := GetRectangle(r, inh.CropBox)
		if err == nil {
			page.CropBox = box
		}
	}

	if inh.Rotate != nil {
		rot, err := GetInt(r, inh.Rotate)
		if err == nil {
			page.Rotate = ((int(rot) % 360) + 360) % 360
		}
	}

	return page, nil
}

// Contents returns the decoded content stream of the page.  Multiple
// content streams are concatenated, separated by a newline so that
// tokens from adjacent streams do not merge.
func (p *Page) Contents() ([]byte, error) {
	contents, err := Resolve(p.r, p.Dict["Contents"])
	if err != nil {
		return nil, err
	}
	switch x := contents.(type) {
	case nil:
		return nil, nil
	case *Stream:
		return DecodeStream(p.r, x, 0)
	case Array:
		var parts [][]byte
		for _, elem := range x {
			stm, err := GetStream(p.r, elem)
			if err != nil {
				return nil, err
			}
			if stm == nil {
				continue
			}
			data, err := DecodeStream(p.r, stm, 0)
			if err != nil {
				return nil, err
			}
			parts = append(parts, data)
		}
		return joinStreams(parts), nil
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("unexpected type %T for page contents", contents),
		}
	}
}

func joinStreams(parts [][]byte) []byte {
	total := 0
	for _, part := range parts {
		total += len(part) + 1
	}
	res := make([]byte, 0, total)
	for _, part := range parts {
		res = append(res, part...)
		res = append(res, '\n')
	}
	return res
}

// NumPages returns the number of pages of the document.
func (r *Reader) NumPages() (int, error) {
	catalog, err := r.Catalog()
	if err != nil {
		return 0, err
	}
	pages, err := GetDict(r, catalog["Pages"])
	if err != nil {
		return 0, err
	}
	n, err := GetInt(r, pages["Count"])
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// pageLabelRange describes one entry of the /PageLabels number tree.
type pageLabelRange struct {
	first  int // index of the first page of the range
	style  Name
	prefix string
	start  int
}

// PageLabel returns the display label of the page with the given
// 0-based index.  If the document has no /PageLabels entry, the
// error is [ErrNoPageLabels].
func (r *Reader) PageLabel(pageIndex int) (string, error) {
	r.mu.Lock()
	labels := r.pageLabels
	r.mu.Unlock()
	if labels == nil {
		var err error
		labels, err = r.readPageLabels()
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		r.pageLabels = labels
		r.mu.Unlock()
	}

	var active *pageLabelRange
	for _, lr := range labels {
		if lr.first > pageIndex {
			break
		}
		active = lr
	}
	if active == nil {
		// pages before the first range have empty labels
		return "", nil
	}

	value := active.start + (pageIndex - active.first)
	label := active.prefix
	switch active.style {
	case "D":
		label += fmt.Sprintf("%d", value)
	case "R":
		label += strings.ToUpper(toRoman(value))
	case "r":
		label += toRoman(value)
	case "A":
		label += strings.ToUpper(toAlpha(value))
	case "a":
		label += toAlpha(value)
	}
	return label, nil
}

// readPageLabels collects the /PageLabels number tree into a sorted
// slice of ranges.
func (r *Reader) readPageLabels() ([]*pageLabelRange, error) {
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	rootObj, ok := catalog["PageLabels"]
	if !ok {
		return nil, ErrNoPageLabels
	}

	var res []*pageLabelRange
	seen := make(map[Reference]bool)
	err = r.walkNumberTree(rootObj, seen, func(key Integer, val Object) error {
		dict, err := GetDict(r, val)
		if err != nil || dict == nil {
			return err
		}
		lr := &pageLabelRange{
			first: int(key),
			start: 1,
		}
		if style, ok := dict["S"].(Name); ok {
			lr.style = style
		}
		if prefix, ok := dict["P"].(String); ok {
			lr.prefix = TextString(prefix)
		}
		if start, ok := dict["St"].(Integer); ok && start >= 1 {
			lr.start = int(start)
		}
		res = append(res, lr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrNoPageLabels
	}
	return res, nil
}

// walkNumberTree visits the leaves of a number tree in key order.
func (r *Reader) walkNumberTree(node Object, seen map[Reference]bool, visit func(Integer, Object) error) error {
	if ref, isRef := node.(Reference); isRef {
		if seen[ref] {
			return nil
		}
		seen[ref] = true
	}
	dict, err := GetDict(r, node)
	if err != nil || dict == nil {
		return err
	}

	if nums, err := GetArray(r, dict["Nums"]); err == nil && nums != nil {
		for i := 0; i+1 < len(nums); i += 2 {
			key, err := GetInt(r, nums[i])
			if err != nil {
				continue
			}
			err = visit(key, nums[i+1])
			if err != nil {
				return err
			}
		}
	}

	if kids, err := GetArray(r, dict["Kids"]); err == nil {
		for _, kid := range kids {
			err = r.walkNumberTree(kid, seen, visit)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func toRoman(n int) string {
	if n <= 0 || n >= 4000 {
		return fmt.Sprintf("%d", n)
	}
	var (
		values  = []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
		symbols = []string{"m", "cm", "d", "cd", "c", "xc", "l", "xl", "x", "ix", "v", "iv", "i"}
	)
	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}

func toAlpha(n int) string {
	if n <= 0 {
		return ""
	}
	// 1 -> "a", ..., 26 -> "z", 27 -> "aa", ...
	letter := byte('a' + (n-1)%26)
	count := (n-1)/26 + 1
	return strings.Repeat(string(letter), count)
}
