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

// Package table reconstructs tables from the ruling lines of a page.
package table

import (
	"math"
	"sort"

	"seehuhn.de/go/pdftext/interp"
)

// TextDirection selects the reading direction of cell text.
type TextDirection int

const (
	// LTR reads cell text left to right.
	LTR TextDirection = iota

	// RTL reads cell text right to left.
	RTL

	// TTB reads cell text top to bottom.
	TTB
)

// Settings controls table detection.
type Settings struct {
	// XTol and YTol are the merge and connection tolerances in the
	// horizontal and vertical direction.
	XTol, YTol float64

	// TextEdges adds edges derived from the text layout (baselines
	// and left margins) to the ruling lines.
	TextEdges bool

	// Direction selects the reading direction for cell text.
	Direction TextDirection
}

// DefaultSettings returns the default table settings.
func DefaultSettings() *Settings {
	return &Settings{
		XTol: 2,
		YTol: 2,
	}
}

// EdgeSource records where an edge came from.
type EdgeSource int

const (
	// SourceRuling marks edges from stroked or filled ruling lines.
	SourceRuling EdgeSource = iota

	// SourceText marks edges derived from text positions.
	SourceText

	// SourceSynthetic marks edges added during reconstruction.
	SourceSynthetic
)

// Edge is an axis-aligned segment.  Horizontal edges have Y0 == Y1,
// vertical edges X0 == X1; coordinates are normalized so that X0 <= X1
// and Y0 <= Y1.
type Edge struct {
	ID         int
	Horizontal bool
	X0, Y0     float64
	X1, Y1     float64
	Thickness  float64
	Source     EdgeSource
}

// EdgesFromPaths extracts axis-aligned edges from painted paths.  A
// segment counts as axis-aligned when its extent across the axis is at
// most eps.  Rectangles contribute their four sides; thin filled
// rectangles degenerate to a single edge on their center line.
func EdgesFromPaths(paths []*interp.Path, lineWidths []float64, eps float64) []Edge {
	var res []Edge
	for i, path := range paths {
		width := 1.0
		if i < len(lineWidths) {
			width = lineWidths[i]
		}
		for _, sp := range path.Subpaths {
			pts := sp.Points
			if sp.Rect && len(pts) == 4 {
				res = appendRectEdges(res, pts, width, eps)
				continue
			}
			n := len(pts)
			for j := 0; j+1 < n; j++ {
				res = appendSegment(res, pts[j], pts[j+1], width, eps)
			}
			if sp.Closed && n > 2 {
				res = appendSegment(res, pts[n-1], pts[0], width, eps)
			}
		}
	}
	return res
}

func appendRectEdges(res []Edge, pts []interp.Point, width, eps float64) []Edge {
	x0 := math.Min(pts[0].X, pts[2].X)
	x1 := math.Max(pts[0].X, pts[2].X)
	y0 := math.Min(pts[0].Y, pts[2].Y)
	y1 := math.Max(pts[0].Y, pts[2].Y)

	// A filled hairline rectangle is really a ruling line.
	if y1-y0 <= eps {
		cy := (y0 + y1) / 2
		return append(res, Edge{
			Horizontal: true,
			X0:         x0, Y0: cy, X1: x1, Y1: cy,
			Thickness: y1 - y0,
			Source:    SourceRuling,
		})
	}
	if x1-x0 <= eps {
		cx := (x0 + x1) / 2
		return append(res, Edge{
			Horizontal: false,
			X0:         cx, Y0: y0, X1: cx, Y1: y1,
			Thickness: x1 - x0,
			Source:    SourceRuling,
		})
	}

	res = append(res,
		Edge{Horizontal: true, X0: x0, Y0: y0, X1: x1, Y1: y0,
			Thickness: width, Source: SourceRuling},
		Edge{Horizontal: true, X0: x0, Y0: y1, X1: x1, Y1: y1,
			Thickness: width, Source: SourceRuling},
		Edge{Horizontal: false, X0: x0, Y0: y0, X1: x0, Y1: y1,
			Thickness: width, Source: SourceRuling},
		Edge{Horizontal: false, X0: x1, Y0: y0, X1: x1, Y1: y1,
			Thickness: width, Source: SourceRuling},
	)
	return res
}

func appendSegment(res []Edge, a, b interp.Point, width, eps float64) []Edge {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)
	switch {
	case dy <= eps && dx > eps:
		y := (a.Y + b.Y) / 2
		return append(res, Edge{
			Horizontal: true,
			X0:         math.Min(a.X, b.X), Y0: y,
			X1: math.Max(a.X, b.X), Y1: y,
			Thickness: width,
			Source:    SourceRuling,
		})
	case dx <= eps && dy > eps:
		x := (a.X + b.X) / 2
		return append(res, Edge{
			Horizontal: false,
			X0:         x, Y0: math.Min(a.Y, b.Y),
			X1: x, Y1: math.Max(a.Y, b.Y),
			Thickness: width,
			Source:    SourceRuling,
		})
	default:
		return res
	}
}

// TextDerivedEdges adds edges along the baselines and left margins of
// the characters, so that unruled tables can still be reconstructed.
func TextDerivedEdges(chars []*interp.Char) []Edge {
	var res []Edge
	for _, c := range chars {
		b := c.BBox
		res = append(res,
			Edge{Horizontal: true, X0: b.LLx, Y0: b.LLy,
				X1: b.URx, Y1: b.LLy, Source: SourceText},
			Edge{Horizontal: false, X0: b.LLx, Y0: b.LLy,
				X1: b.LLx, Y1: b.URy, Source: SourceText},
		)
	}
	return res
}

// MergeEdges clusters edges of equal orientation along their principal
// coordinate and joins overlapping or nearly touching spans.  The
// resulting edges have consecutive ids in a deterministic order.
func MergeEdges(edges []Edge, settings *Settings) []Edge {
	var horiz, vert []Edge
	for _, e := range edges {
		if e.Horizontal {
			horiz = append(horiz, e)
		} else {
			vert = append(vert, e)
		}
	}

	merged := mergeOneAxis(horiz, true, settings.YTol, settings.XTol)
	merged = append(merged, mergeOneAxis(vert, false, settings.XTol, settings.YTol)...)
	for i := range merged {
		merged[i].ID = i
	}
	return merged
}

// mergeOneAxis merges edges of one orientation.  posTol clusters the
// principal coordinate, joinTol closes gaps along the edge.
func mergeOneAxis(edges []Edge, horizontal bool, posTol, joinTol float64) []Edge {
	if len(edges) == 0 {
		return nil
	}

	pos := func(e Edge) float64 {
		if horizontal {
			return e.Y0
		}
		return e.X0
	}
	span := func(e Edge) (float64, float64) {
		if horizontal {
			return e.X0, e.X1
		}
		return e.Y0, e.Y1
	}

	sort.SliceStable(edges, func(i, j int) bool {
		if pos(edges[i]) != pos(edges[j]) {
			return pos(edges[i]) < pos(edges[j])
		}
		s0, _ := span(edges[i])
		t0, _ := span(edges[j])
		return s0 < t0
	})

	var res []Edge
	i := 0
	for i < len(edges) {
		// one cluster of nearby principal coordinates
		j := i + 1
		for j < len(edges) && pos(edges[j])-pos(edges[j-1]) <= posTol {
			j++
		}
		cluster := edges[i:j]

		// average the principal coordinate, then join spans
		var sum float64
		for _, e := range cluster {
			sum += pos(e)
		}
		p := sum / float64(len(cluster))

		start, end := span(cluster[0])
		thickness := cluster[0].Thickness
		source := cluster[0].Source
		flush := func() {
			res = append(res, makeEdge(horizontal, p, start, end, thickness, source))
		}
		for _, e := range cluster[1:] {
			s, t := span(e)
			if s <= end+joinTol {
				if t > end {
					end = t
				}
				if e.Thickness > thickness {
					thickness = e.Thickness
				}
			} else {
				flush()
				start, end = s, t
				thickness = e.Thickness
				source = e.Source
			}
		}
		flush()

		i = j
	}
	return res
}

func makeEdge(horizontal bool, p, start, end, thickness float64, source EdgeSource) Edge {
	if horizontal {
		return Edge{Horizontal: true, X0: start, Y0: p, X1: end, Y1: p,
			Thickness: thickness, Source: source}
	}
	return Edge{Horizontal: false, X0: p, Y0: start, X1: p, Y1: end,
		Thickness: thickness, Source: source}
}
