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
	"math"
	"sort"

	"seehuhn.de/go/geom/rect"
)

// Plane is a uniform-grid spatial index.  Each item is stored in every
// grid cell its bounding box touches.  The plane has multiset
// semantics: Remove deletes by identity, using the stable id assigned
// at insertion.
type Plane[T Item] struct {
	gridSize float64
	cells    map[[2]int][]planeEntry[T]
	ids      map[int]T
	nextID   int
}

type planeEntry[T Item] struct {
	id   int
	item T
}

// NewPlane creates a spatial index with the given grid cell size.
func NewPlane[T Item](gridSize float64) *Plane[T] {
	if gridSize <= 0 {
		gridSize = 50
	}
	return &Plane[T]{
		gridSize: gridSize,
		cells:    make(map[[2]int][]planeEntry[T]),
		ids:      make(map[int]T),
	}
}

// Len returns the number of items in the plane.
func (p *Plane[T]) Len() int {
	return len(p.ids)
}

// Add inserts an item and returns its stable id.
func (p *Plane[T]) Add(item T) int {
	id := p.nextID
	p.nextID++
	p.ids[id] = item
	p.forCells(item.BBox(), func(key [2]int) {
		p.cells[key] = append(p.cells[key], planeEntry[T]{id: id, item: item})
	})
	return id
}

// Extend inserts all items.
func (p *Plane[T]) Extend(items []T) {
	for _, item := range items {
		p.Add(item)
	}
}

// Remove deletes the item with the given id.
func (p *Plane[T]) Remove(id int) {
	item, ok := p.ids[id]
	if !ok {
		return
	}
	delete(p.ids, id)
	p.forCells(item.BBox(), func(key [2]int) {
		entries := p.cells[key]
		for i, e := range entries {
			if e.id == id {
				p.cells[key] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	})
}

// Find returns the ids and items intersecting the query rectangle, in
// insertion order.
func (p *Plane[T]) Find(q rect.Rect) ([]int, []T) {
	var ids []int
	seen := map[int]bool{}
	p.forCells(q, func(key [2]int) {
		for _, e := range p.cells[key] {
			if seen[e.id] {
				continue
			}
			if intersects(e.item.BBox(), q) {
				seen[e.id] = true
				ids = append(ids, e.id)
			}
		}
	})
	sort.Ints(ids)
	items := make([]T, len(ids))
	for i, id := range ids {
		items[i] = p.ids[id]
	}
	return ids, items
}

// Any reports whether any item intersecting the query rectangle
// satisfies the predicate.  The common path allocates nothing.
func (p *Plane[T]) Any(q rect.Rect, pred func(T) bool) bool {
	x0, y0 := p.cellIndex(q.LLx, q.LLy)
	x1, y1 := p.cellIndex(q.URx, q.URy)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, e := range p.cells[[2]int{cx, cy}] {
				if intersects(e.item.BBox(), q) && pred(e.item) {
					return true
				}
			}
		}
	}
	return false
}

// Neighbors returns up to k items closest to the query rectangle by
// bounding-box distance, not including items with ids in exclude.
// The search expands ring by ring around the query rectangle.
func (p *Plane[T]) Neighbors(q rect.Rect, k int, exclude map[int]bool) []int {
	type cand struct {
		id   int
		dist float64
	}
	var found []cand
	seen := map[int]bool{}

	collect := func(grow float64) {
		area := rect.Rect{
			LLx: q.LLx - grow, LLy: q.LLy - grow,
			URx: q.URx + grow, URy: q.URy + grow,
		}
		p.forCells(area, func(key [2]int) {
			for _, e := range p.cells[key] {
				if seen[e.id] || exclude[e.id] {
					continue
				}
				seen[e.id] = true
				found = append(found, cand{
					id:   e.id,
					dist: boxDistance(q, e.item.BBox()),
				})
			}
		})
	}

	grow := p.gridSize
	for len(found) < k && len(found) < len(p.ids)-len(exclude) {
		collect(grow)
		grow *= 2
		if grow > 1e9 {
			break
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].id < found[j].id
	})
	if len(found) > k {
		found = found[:k]
	}
	ids := make([]int, len(found))
	for i, c := range found {
		ids[i] = c.id
	}
	return ids
}

// Get returns the item with the given id.
func (p *Plane[T]) Get(id int) (T, bool) {
	item, ok := p.ids[id]
	return item, ok
}

// Items returns all ids in insertion order.
func (p *Plane[T]) Items() []int {
	ids := make([]int, 0, len(p.ids))
	for id := range p.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (p *Plane[T]) cellIndex(x, y float64) (int, int) {
	return int(math.Floor(x / p.gridSize)), int(math.Floor(y / p.gridSize))
}

func (p *Plane[T]) forCells(r rect.Rect, fn func([2]int)) {
	x0, y0 := p.cellIndex(r.LLx, r.LLy)
	x1, y1 := p.cellIndex(r.URx, r.URy)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			fn([2]int{cx, cy})
		}
	}
}

func intersects(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx &&
		a.LLy <= b.URy && b.LLy <= a.URy
}

// boxDistance is the gap between two rectangles: zero if they touch or
// overlap, otherwise the Euclidean distance between the closest edges.
func boxDistance(a, b rect.Rect) float64 {
	dx := math.Max(0, math.Max(b.LLx-a.URx, a.LLx-b.URx))
	dy := math.Max(0, math.Max(b.LLy-a.URy, a.LLy-b.URy))
	return math.Hypot(dx, dy)
}
