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

package table

import (
	"sort"
)

// intersection is a crossing point of vertical and horizontal edges.
// The edge id lists are sorted and unique, so that cell-boundary
// detection is deterministic.
type intersection struct {
	x, y  float64
	vEdge []int // ids of the vertical edges through the point
	hEdge []int // ids of the horizontal edges through the point
}

type pointKey struct {
	x, y float64
}

// findIntersections runs a sweep over the page and records every point
// where a vertical and a horizontal edge cross, within the tolerances.
// The sweep moves from the top of the page downwards; a vertical edge
// becomes active slightly before its top and stays active slightly
// past its bottom.  Events at equal height process insertions first,
// then queries, then removals, so an edge is active at its exact
// boundary.
func findIntersections(edges []Edge, settings *Settings) map[pointKey]*intersection {
	xTol, yTol := settings.XTol, settings.YTol

	const (
		evAdd = iota
		evQuery
		evRemove
	)
	type event struct {
		y    float64
		kind int
		edge int // index into edges
	}

	var events []event
	for i, e := range edges {
		if e.Horizontal {
			events = append(events, event{y: e.Y0, kind: evQuery, edge: i})
		} else {
			events = append(events, event{y: e.Y1 + yTol, kind: evAdd, edge: i})
			events = append(events, event{y: e.Y0 - yTol, kind: evRemove, edge: i})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].y != events[j].y {
			return events[i].y > events[j].y
		}
		if events[i].kind != events[j].kind {
			return events[i].kind < events[j].kind
		}
		return edges[events[i].edge].ID < edges[events[j].edge].ID
	})

	// the active set is kept sorted by x
	var active []int
	insertActive := func(idx int) {
		x := edges[idx].X0
		pos := sort.Search(len(active), func(i int) bool {
			if edges[active[i]].X0 != x {
				return edges[active[i]].X0 > x
			}
			return edges[active[i]].ID >= edges[idx].ID
		})
		active = append(active, 0)
		copy(active[pos+1:], active[pos:])
		active[pos] = idx
	}
	removeActive := func(idx int) {
		for i, a := range active {
			if a == idx {
				active = append(active[:i], active[i+1:]...)
				return
			}
		}
	}

	res := make(map[pointKey]*intersection)
	for _, ev := range events {
		switch ev.kind {
		case evAdd:
			insertActive(ev.edge)
		case evRemove:
			removeActive(ev.edge)
		case evQuery:
			h := edges[ev.edge]
			for _, vi := range active {
				v := edges[vi]
				if v.X0 < h.X0-xTol || v.X0 > h.X1+xTol {
					continue
				}
				// the horizontal edge must cross within the vertical
				// edge's extended span
				if h.Y0 > v.Y1+yTol || h.Y0 < v.Y0-yTol {
					continue
				}
				key := pointKey{x: v.X0, y: h.Y0}
				pt, ok := res[key]
				if !ok {
					pt = &intersection{x: v.X0, y: h.Y0}
					res[key] = pt
				}
				pt.vEdge = insertID(pt.vEdge, v.ID)
				pt.hEdge = insertID(pt.hEdge, h.ID)
			}
		}
	}
	return res
}

// insertID inserts id into a sorted id list, keeping it unique.  Lower
// ids sort first on both axes.
func insertID(ids []int, id int) []int {
	pos := sort.SearchInts(ids, id)
	if pos < len(ids) && ids[pos] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	return ids
}

func sharesID(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Cell is an axis-aligned rectangle bounded on all four sides by
// edges.
type Cell struct {
	X0, Y0, X1, Y1 float64
}

// findCells enumerates the cells of the intersection grid.  For each
// intersection point, the nearest connected point below and to the
// right are found, and the cell closes if the fourth corner exists and
// is connected to both.
func findCells(points map[pointKey]*intersection) []Cell {
	list := make([]*intersection, 0, len(points))
	for _, pt := range points {
		list = append(list, pt)
	}
	// top-to-bottom, left-to-right over the grid
	sort.Slice(list, func(i, j int) bool {
		if list[i].y != list[j].y {
			return list[i].y > list[j].y
		}
		return list[i].x < list[j].x
	})

	var cells []Cell
	for _, p := range list {
		// intersections directly below which share a vertical edge
		var below []*intersection
		for _, q := range list {
			if q.x == p.x && q.y < p.y && sharesID(p.vEdge, q.vEdge) {
				below = append(below, q)
			}
		}
		sort.Slice(below, func(i, j int) bool { return below[i].y > below[j].y })

		// intersections directly right which share a horizontal edge
		var right []*intersection
		for _, q := range list {
			if q.y == p.y && q.x > p.x && sharesID(p.hEdge, q.hEdge) {
				right = append(right, q)
			}
		}
		sort.Slice(right, func(i, j int) bool { return right[i].x < right[j].x })

	search:
		for _, b := range below {
			for _, r := range right {
				corner, ok := points[pointKey{x: r.x, y: b.y}]
				if !ok {
					continue
				}
				if !sharesID(corner.hEdge, b.hEdge) {
					continue
				}
				if !sharesID(corner.vEdge, r.vEdge) {
					continue
				}
				cells = append(cells, Cell{
					X0: p.x, Y0: b.y, X1: r.x, Y1: p.y,
				})
				break search
			}
		}
	}
	return cells
}

// cornerPoints returns the four corners of a cell.
func (c Cell) cornerPoints() [4]pointKey {
	return [4]pointKey{
		{c.X0, c.Y0}, {c.X1, c.Y0}, {c.X0, c.Y1}, {c.X1, c.Y1},
	}
}

