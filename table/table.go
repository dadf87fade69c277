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
	"strings"

	"seehuhn.de/go/pdftext/interp"
	"seehuhn.de/go/pdftext/layout"
)

// Table is a connected group of cells, with a row and column skeleton
// derived from the cell coordinates.
type Table struct {
	// Cells lists the cells, sorted top-to-bottom, left-to-right.
	Cells []Cell

	// Rows and Cols hold the clustered row top and column left
	// coordinates, rows from top to bottom, columns left to right.
	Rows []float64
	Cols []float64

	// X0, Y0, X1, Y1 is the bounding box of the table.
	X0, Y0, X1, Y1 float64

	chars     map[int][]*interp.Char // cell index -> assigned characters
	direction TextDirection
}

// Extract finds the tables of one page from its painted paths and,
// optionally, its characters.
func Extract(paths []*interp.Path, lineWidths []float64, chars []*interp.Char, settings *Settings) []*Table {
	if settings == nil {
		settings = DefaultSettings()
	}

	eps := settings.XTol
	if settings.YTol > eps {
		eps = settings.YTol
	}
	edges := EdgesFromPaths(paths, lineWidths, eps)
	if settings.TextEdges {
		edges = append(edges, TextDerivedEdges(chars)...)
	}
	edges = MergeEdges(edges, settings)

	points := findIntersections(edges, settings)
	cells := findCells(points)
	tables := groupCells(cells, settings)

	for _, t := range tables {
		t.direction = settings.Direction
		t.buildSkeleton(settings)
		t.assignChars(chars)
	}
	return tables
}

// groupCells groups corner-sharing cells into tables.  Components with
// fewer than two cells are discarded.  Tables are sorted by their
// top-left corner, top first.
func groupCells(cells []Cell, settings *Settings) []*Table {
	n := len(cells)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	// cells share a corner when any of their corner points coincide
	byCorner := make(map[pointKey][]int)
	for i, c := range cells {
		for _, pt := range c.cornerPoints() {
			byCorner[pt] = append(byCorner[pt], i)
		}
	}
	for _, group := range byCorner {
		for _, other := range group[1:] {
			ra, rb := find(group[0]), find(other)
			if ra != rb {
				parent[rb] = ra
			}
		}
	}

	components := make(map[int][]Cell)
	for i, c := range cells {
		root := find(i)
		components[root] = append(components[root], c)
	}

	var res []*Table
	for _, cs := range components {
		if len(cs) < 2 {
			continue
		}
		sort.Slice(cs, func(i, j int) bool {
			if cs[i].Y1 != cs[j].Y1 {
				return cs[i].Y1 > cs[j].Y1
			}
			return cs[i].X0 < cs[j].X0
		})
		t := &Table{Cells: cs}
		t.X0, t.Y0, t.X1, t.Y1 = cs[0].X0, cs[0].Y0, cs[0].X1, cs[0].Y1
		for _, c := range cs[1:] {
			if c.X0 < t.X0 {
				t.X0 = c.X0
			}
			if c.Y0 < t.Y0 {
				t.Y0 = c.Y0
			}
			if c.X1 > t.X1 {
				t.X1 = c.X1
			}
			if c.Y1 > t.Y1 {
				t.Y1 = c.Y1
			}
		}
		res = append(res, t)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Y1 != res[j].Y1 {
			return res[i].Y1 > res[j].Y1
		}
		return res[i].X0 < res[j].X0
	})
	return res
}

// buildSkeleton clusters the cell tops and lefts into the row and
// column coordinates.
func (t *Table) buildSkeleton(settings *Settings) {
	t.Rows = clusterCoords(t.Cells, func(c Cell) float64 { return c.Y1 },
		settings.YTol, true)
	t.Cols = clusterCoords(t.Cells, func(c Cell) float64 { return c.X0 },
		settings.XTol, false)
}

func clusterCoords(cells []Cell, get func(Cell) float64, tol float64, descending bool) []float64 {
	vals := make([]float64, 0, len(cells))
	for _, c := range cells {
		vals = append(vals, get(c))
	}
	sort.Float64s(vals)

	var out []float64
	for _, v := range vals {
		if len(out) == 0 || v-out[len(out)-1] > tol {
			out = append(out, v)
		}
	}
	if descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// assignChars assigns each character to the cell containing its
// center.  Assignment is deterministic and independent of character
// order: cells are probed in their sorted order, and the first match
// wins.  A sweep over y keeps only vertically matching cells active
// for the inner scan.
func (t *Table) assignChars(chars []*interp.Char) {
	t.chars = make(map[int][]*interp.Char)
	if len(chars) == 0 {
		return
	}

	type charPos struct {
		c    *interp.Char
		x, y float64
	}
	ordered := make([]charPos, 0, len(chars))
	for _, c := range chars {
		ordered = append(ordered, charPos{
			c: c,
			x: (c.BBox.LLx + c.BBox.URx) / 2,
			y: (c.BBox.LLy + c.BBox.URy) / 2,
		})
	}
	// top-to-bottom sweep
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].y != ordered[j].y {
			return ordered[i].y > ordered[j].y
		}
		return ordered[i].x < ordered[j].x
	})

	// cells sorted by top edge, descending; a short linear scan over
	// the active window suffices because tables have few rows
	type idxCell struct {
		idx  int
		cell Cell
	}
	cs := make([]idxCell, len(t.Cells))
	for i, c := range t.Cells {
		cs[i] = idxCell{idx: i, cell: c}
	}
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].cell.Y1 != cs[j].cell.Y1 {
			return cs[i].cell.Y1 > cs[j].cell.Y1
		}
		if cs[i].cell.X0 != cs[j].cell.X0 {
			return cs[i].cell.X0 < cs[j].cell.X0
		}
		return cs[i].idx < cs[j].idx
	})

	start := 0
	for _, cp := range ordered {
		// cells whose top is above the character stay in the window
		for start < len(cs) && cs[start].cell.Y0 > cp.y {
			start++
		}
		for i := start; i < len(cs); i++ {
			c := cs[i].cell
			if c.Y1 < cp.y {
				continue
			}
			if cp.x >= c.X0 && cp.x <= c.X1 && cp.y >= c.Y0 && cp.y <= c.Y1 {
				t.chars[cs[i].idx] = append(t.chars[cs[i].idx], cp.c)
				break
			}
		}
	}
}

// CellIndex returns the grid position of a cell.
func (t *Table) CellIndex(c Cell) (row, col int) {
	row = nearestIndex(t.Rows, c.Y1)
	col = nearestIndex(t.Cols, c.X0)
	return row, col
}

func nearestIndex(vals []float64, v float64) int {
	best, bestDist := 0, -1.0
	for i, x := range vals {
		d := v - x
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// CellText extracts the text of the i-th cell, using the same line and
// word formation rules as the layout analyzer, restricted to the cell
// rectangle.
func (t *Table) CellText(i int, params *layout.Params) string {
	chars := t.chars[i]
	if len(chars) == 0 {
		return ""
	}
	if params == nil {
		params = layout.DefaultParams()
		params.NoBoxesFlow = true
	}
	if t.direction == TTB {
		p := *params
		p.DetectVertical = true
		params = &p
	}
	res, err := layout.Analyze(chars, params)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range res.Boxes {
		sb.WriteString(b.Text())
	}
	text := strings.TrimRight(sb.String(), "\n")
	if t.direction == RTL {
		text = layout.RenderText(text, &layout.BidiOptions{Reorder: true})
	}
	return text
}

// Content returns the table text as a row/column grid.
func (t *Table) Content(params *layout.Params) [][]string {
	if len(t.Rows) == 0 || len(t.Cols) == 0 {
		return nil
	}
	grid := make([][]string, len(t.Rows))
	for i := range grid {
		grid[i] = make([]string, len(t.Cols))
	}
	for i, c := range t.Cells {
		row, col := t.CellIndex(c)
		text := t.CellText(i, params)
		if grid[row][col] == "" {
			grid[row][col] = text
		}
	}
	return grid
}
