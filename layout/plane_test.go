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

package layout

import (
	"testing"

	"seehuhn.de/go/geom/rect"
)

type testItem struct {
	box rect.Rect
}

func (it *testItem) BBox() rect.Rect {
	return it.box
}

func box(x0, y0, x1, y1 float64) rect.Rect {
	return rect.Rect{LLx: x0, LLy: y0, URx: x1, URy: y1}
}

func TestPlaneFind(t *testing.T) {
	p := NewPlane[*testItem](10)
	a := &testItem{box(0, 0, 5, 5)}
	b := &testItem{box(100, 100, 110, 105)}
	c := &testItem{box(3, 3, 8, 8)}
	p.Extend([]*testItem{a, b, c})

	ids, items := p.Find(box(0, 0, 10, 10))
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != a || items[1] != c {
		t.Error("wrong items or wrong order")
	}

	p.Remove(ids[0])
	if p.Len() != 2 {
		t.Errorf("wrong length %d", p.Len())
	}
	_, items = p.Find(box(0, 0, 10, 10))
	if len(items) != 1 || items[0] != c {
		t.Error("remove did not take effect")
	}
}

func TestPlaneDuplicates(t *testing.T) {
	// multiset semantics: the same rectangle may be stored twice and
	// removal deletes exactly one copy
	p := NewPlane[*testItem](10)
	a := &testItem{box(0, 0, 5, 5)}
	id1 := p.Add(a)
	p.Add(a)

	p.Remove(id1)
	_, items := p.Find(box(0, 0, 10, 10))
	if len(items) != 1 {
		t.Errorf("expected 1 remaining copy, got %d", len(items))
	}
}

func TestPlaneAny(t *testing.T) {
	p := NewPlane[*testItem](10)
	p.Add(&testItem{box(0, 0, 5, 5)})

	hit := p.Any(box(4, 4, 6, 6), func(*testItem) bool { return true })
	if !hit {
		t.Error("expected a hit")
	}
	miss := p.Any(box(50, 50, 60, 60), func(*testItem) bool { return true })
	if miss {
		t.Error("expected no hit")
	}
}

func TestPlaneNeighbors(t *testing.T) {
	p := NewPlane[*testItem](10)
	var ids []int
	for i := 0; i < 5; i++ {
		x := float64(i) * 20
		ids = append(ids, p.Add(&testItem{box(x, 0, x+5, 5)}))
	}

	near := p.Neighbors(box(0, 0, 5, 5), 2, map[int]bool{ids[0]: true})
	if len(near) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(near))
	}
	if near[0] != ids[1] || near[1] != ids[2] {
		t.Errorf("wrong neighbors %v", near)
	}
}
