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
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdftext/interp"
)

// line builds a path with one straight segment.
func line(x0, y0, x1, y1 float64) *interp.Path {
	return &interp.Path{Subpaths: []interp.Subpath{{
		Points: []interp.Point{{X: x0, Y: y0}, {X: x1, Y: y1}},
	}}}
}

// glyph places one character with its center at (x, y).
func glyph(text string, x, y float64) *interp.Char {
	return &interp.Char{
		BBox:    rect.Rect{LLx: x - 3, LLy: y - 4, URx: x + 3, URy: y + 4},
		Text:    text,
		Upright: true,
	}
}

// gridPaths builds the ruling lines of a 200x100 frame with one
// vertical split at x=100 and one horizontal split at y=50.
func gridPaths() []*interp.Path {
	return []*interp.Path{
		line(0, 0, 200, 0),     // bottom
		line(0, 50, 200, 50),   // middle
		line(0, 100, 200, 100), // top
		line(0, 0, 0, 100),     // left
		line(100, 0, 100, 100), // middle
		line(200, 0, 200, 100), // right
	}
}

func TestMergeEdges(t *testing.T) {
	// two collinear fragments with a small gap merge into one edge
	edges := []Edge{
		{Horizontal: true, X0: 0, Y0: 50, X1: 90, Y1: 50},
		{Horizontal: true, X0: 91, Y0: 50.5, X1: 200, Y1: 50.5},
	}
	merged := MergeEdges(edges, DefaultSettings())
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged edge, got %d", len(merged))
	}
	if merged[0].X0 != 0 || merged[0].X1 != 200 {
		t.Errorf("wrong span %g..%g", merged[0].X0, merged[0].X1)
	}
}

func TestIntersections(t *testing.T) {
	edges := MergeEdges(EdgesFromPaths(gridPaths(), nil, 2), DefaultSettings())
	points := findIntersections(edges, DefaultSettings())
	// a 3x3 grid of crossings
	if len(points) != 9 {
		t.Fatalf("expected 9 intersections, got %d", len(points))
	}
	pt, ok := points[pointKey{x: 100, y: 50}]
	if !ok {
		t.Fatal("missing center intersection")
	}
	if len(pt.vEdge) != 1 || len(pt.hEdge) != 1 {
		t.Errorf("wrong edge lists %v %v", pt.vEdge, pt.hEdge)
	}
}

func TestCells(t *testing.T) {
	edges := MergeEdges(EdgesFromPaths(gridPaths(), nil, 2), DefaultSettings())
	points := findIntersections(edges, DefaultSettings())
	cells := findCells(points)
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d: %v", len(cells), cells)
	}
}

// TestTable2x2 reconstructs a 2x2 table with one glyph per cell.
func TestTable2x2(t *testing.T) {
	chars := []*interp.Char{
		glyph("A", 50, 75), glyph("B", 150, 75),
		glyph("C", 50, 25), glyph("D", 150, 25),
	}
	tables := Extract(gridPaths(), nil, chars, nil)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	tab := tables[0]
	if len(tab.Cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(tab.Cells))
	}
	if len(tab.Rows) != 2 || len(tab.Cols) != 2 {
		t.Fatalf("wrong skeleton %v %v", tab.Rows, tab.Cols)
	}

	got := tab.Content(nil)
	want := [][]string{{"A", "B"}, {"C", "D"}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("content (-want +got):\n%s", d)
	}
}

// TestOpenGridNoCell checks that a missing side prevents the cell from
// closing.
func TestOpenGridNoCell(t *testing.T) {
	paths := []*interp.Path{
		line(0, 0, 200, 0),
		line(0, 100, 200, 100),
		line(0, 0, 0, 100),
		// right side missing
	}
	tables := Extract(paths, nil, nil, nil)
	if len(tables) != 0 {
		t.Errorf("expected no tables, got %d", len(tables))
	}
}

// TestSingleCellDiscarded checks that isolated single cells do not
// count as tables.
func TestSingleCellDiscarded(t *testing.T) {
	paths := []*interp.Path{
		line(0, 0, 100, 0),
		line(0, 100, 100, 100),
		line(0, 0, 0, 100),
		line(100, 0, 100, 100),
	}
	tables := Extract(paths, nil, nil, nil)
	if len(tables) != 0 {
		t.Errorf("expected no tables, got %d", len(tables))
	}
}

// TestTableOrder checks that tables sort by their top left corner.
func TestTableOrder(t *testing.T) {
	var paths []*interp.Path
	// an upper and a lower 1x2 table
	addGrid := func(yBase float64) {
		paths = append(paths,
			line(0, yBase, 200, yBase),
			line(0, yBase+50, 200, yBase+50),
			line(0, yBase, 0, yBase+50),
			line(100, yBase, 100, yBase+50),
			line(200, yBase, 200, yBase+50),
		)
	}
	addGrid(0)
	addGrid(300)

	tables := Extract(paths, nil, nil, nil)
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].Y1 != 350 || tables[1].Y1 != 50 {
		t.Errorf("wrong order: %g before %g", tables[0].Y1, tables[1].Y1)
	}
}

func TestCellSidesCovered(t *testing.T) {
	edges := MergeEdges(EdgesFromPaths(gridPaths(), nil, 2), DefaultSettings())
	points := findIntersections(edges, DefaultSettings())
	cells := findCells(points)

	// every cell side must lie on a merged edge with no gap
	for _, c := range cells {
		coveredH := 0
		coveredV := 0
		for _, e := range edges {
			if e.Horizontal && (e.Y0 == c.Y0 || e.Y0 == c.Y1) &&
				e.X0 <= c.X0 && e.X1 >= c.X1 {
				coveredH++
			}
			if !e.Horizontal && (e.X0 == c.X0 || e.X0 == c.X1) &&
				e.Y0 <= c.Y0 && e.Y1 >= c.Y1 {
				coveredV++
			}
		}
		if coveredH < 2 || coveredV < 2 {
			t.Errorf("cell %v has uncovered sides", c)
		}
	}
}
