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
	"container/heap"
	"math"
	"sort"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdftext/interp"
)

// Analyze groups the glyphs of one page into lines, boxes and a
// reading order.
func Analyze(chars []*interp.Char, params *Params) (*Result, error) {
	if params == nil {
		params = DefaultParams()
	}
	if err := params.Check(); err != nil {
		return nil, err
	}

	lines := groupLines(chars, params)
	boxes := groupBoxes(lines, params)

	res := &Result{}
	if params.NoBoxesFlow || len(boxes) <= 1 {
		res.Boxes = boxes
		for i, b := range boxes {
			b.Index = i
		}
		if len(boxes) == 1 {
			res.Root = boxes[0]
		}
		return res, nil
	}

	root := clusterBoxes(boxes, params)
	res.Root = root
	res.Boxes = collectBoxes(root, params)
	for i, b := range res.Boxes {
		b.Index = i
	}
	return res, nil
}

// groupLines splits the glyph sequence into text lines.  A glyph joins
// the current line while its perpendicular overlap with the line and
// its gap along the flow axis stay within the margins; otherwise a new
// line starts.
func groupLines(chars []*interp.Char, params *Params) []*TextLine {
	var lines []*TextLine
	var cur []*interp.Char
	var curBox rect.Rect
	curVertical := false

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, finishLine(cur, curVertical, params))
			cur = nil
		}
	}

	for _, c := range chars {
		if c.Text == "" {
			continue
		}
		vertical := params.DetectVertical && !c.Upright
		if len(cur) > 0 && vertical == curVertical &&
			joinsLine(curBox, c.BBox, curVertical, params) {
			cur = append(cur, c)
			curBox = joinRect(curBox, c.BBox)
			continue
		}
		flush()
		cur = append(cur, c)
		curBox = c.BBox
		curVertical = vertical
	}
	flush()
	return lines
}

// joinsLine reports whether a glyph with bounding box cb belongs to
// the line with bounding box lb.
func joinsLine(lb, cb rect.Rect, vertical bool, params *Params) bool {
	if vertical {
		overlap := math.Min(lb.URx, cb.URx) - math.Max(lb.LLx, cb.LLx)
		minWidth := math.Min(lb.URx-lb.LLx, cb.URx-cb.LLx)
		if overlap < params.LineOverlap*minWidth {
			return false
		}
		gap := math.Max(lb.LLy-cb.URy, cb.LLy-lb.URy)
		return gap <= params.CharMargin*(cb.URy-cb.LLy)
	}
	overlap := math.Min(lb.URy, cb.URy) - math.Max(lb.LLy, cb.LLy)
	minHeight := math.Min(lb.URy-lb.LLy, cb.URy-cb.LLy)
	if overlap < params.LineOverlap*minHeight {
		return false
	}
	gap := math.Max(lb.LLx-cb.URx, cb.LLx-lb.URx)
	return gap <= params.CharMargin*(cb.URx-cb.LLx)
}

// finishLine sorts the glyphs along the flow axis, inserts virtual
// spaces at word gaps and the trailing newline, and computes the
// bounding box.
func finishLine(chars []*interp.Char, vertical bool, params *Params) *TextLine {
	if vertical {
		sort.SliceStable(chars, func(i, j int) bool {
			return chars[i].BBox.URy > chars[j].BBox.URy
		})
	} else {
		sort.SliceStable(chars, func(i, j int) bool {
			return chars[i].BBox.LLx < chars[j].BBox.LLx
		})
	}

	line := &TextLine{Vertical: vertical}
	box := chars[0].BBox
	for i, c := range chars {
		if i > 0 {
			prev := chars[i-1]
			var gap, width float64
			if vertical {
				gap = prev.BBox.LLy - c.BBox.URy
				width = c.BBox.URy - c.BBox.LLy
			} else {
				gap = c.BBox.LLx - prev.BBox.URx
				width = c.BBox.URx - c.BBox.LLx
			}
			if gap > params.WordMargin*width {
				line.Items = append(line.Items, LineItem{Anno: " "})
			}
		}
		line.Items = append(line.Items, LineItem{Char: c})
		box = joinRect(box, c.BBox)
	}
	line.Items = append(line.Items, LineItem{Anno: "\n"})
	line.Box = box
	return line
}

// groupBoxes fuses lines into text boxes.  Lines merge when their
// perpendicular gap is at most LineMargin times the line height and
// they overlap along the flow axis.  Horizontal and vertical lines
// never merge.
func groupBoxes(lines []*TextLine, params *Params) []*TextBox {
	n := len(lines)
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
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	plane := NewPlane[*TextLine](50)
	idToIdx := make(map[int]int, n)
	for i, l := range lines {
		id := plane.Add(l)
		idToIdx[id] = i
	}

	for i, l := range lines {
		margin := params.LineMargin * l.Height()
		var q rect.Rect
		if l.Vertical {
			q = rect.Rect{
				LLx: l.Box.LLx - margin, LLy: l.Box.LLy,
				URx: l.Box.URx + margin, URy: l.Box.URy,
			}
		} else {
			q = rect.Rect{
				LLx: l.Box.LLx, LLy: l.Box.LLy - margin,
				URx: l.Box.URx, URy: l.Box.URy + margin,
			}
		}
		ids, items := plane.Find(q)
		for k, other := range items {
			j := idToIdx[ids[k]]
			if j == i || other.Vertical != l.Vertical {
				continue
			}
			// require positive overlap along the flow axis
			if l.Vertical {
				if math.Min(l.Box.URy, other.Box.URy) <=
					math.Max(l.Box.LLy, other.Box.LLy) {
					continue
				}
			} else {
				if math.Min(l.Box.URx, other.Box.URx) <=
					math.Max(l.Box.LLx, other.Box.LLx) {
					continue
				}
			}
			union(i, j)
		}
	}

	groups := make(map[int][]*TextLine)
	var order []int
	for i, l := range lines {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], l)
	}

	var res []*TextBox
	for _, root := range order {
		ls := groups[root]
		b := &TextBox{Vertical: ls[0].Vertical}
		if b.Vertical {
			// right-to-left column order
			sort.SliceStable(ls, func(i, j int) bool {
				if ls[i].Box.URx != ls[j].Box.URx {
					return ls[i].Box.URx > ls[j].Box.URx
				}
				return ls[i].Box.URy > ls[j].Box.URy
			})
		} else {
			sort.SliceStable(ls, func(i, j int) bool {
				if ls[i].Box.URy != ls[j].Box.URy {
					return ls[i].Box.URy > ls[j].Box.URy
				}
				return ls[i].Box.LLx < ls[j].Box.LLx
			})
		}
		b.Lines = ls
		box := ls[0].Box
		for _, l := range ls[1:] {
			box = joinRect(box, l.Box)
		}
		b.Box = box
		res = append(res, b)
	}
	return res
}

// == reading-order clustering ===========================================

// clusterNode is a live node during hierarchical clustering.
type clusterNode struct {
	item     Item
	vertical bool
	seq      int // insertion order, used as tie break
}

// BBox implements the [Item] interface.
func (n *clusterNode) BBox() rect.Rect {
	return n.item.BBox()
}

// mergeCand is a candidate merge in the frontier heap.  dist is the
// area-based merge cost; the pair is lazily revalidated when popped.
type mergeCand struct {
	dist     float64
	seqA     int
	idA, idB int
	bbox     rect.Rect
}

type candHeap []mergeCand

func (h candHeap) Len() int { return len(h) }

func (h candHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	if h[i].seqA != h[j].seqA {
		return h[i].seqA < h[j].seqA
	}
	if h[i].bbox.LLx != h[j].bbox.LLx {
		return h[i].bbox.LLx < h[j].bbox.LLx
	}
	return h[i].bbox.LLy < h[j].bbox.LLy
}

func (h candHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candHeap) Push(x any) { *h = append(*h, x.(mergeCand)) }

func (h *candHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// mergeDist is the cost of merging two nodes: the area of the joint
// bounding box which is covered by neither node.
func mergeDist(a, b Item) float64 {
	j := joinRect(a.BBox(), b.BBox())
	return area(j) - area(a.BBox()) - area(b.BBox())
}

// clusterBoxes builds the reading-order tree by repeatedly merging the
// closest pair of nodes.  A frontier heap holds each node's current
// best candidate; stale entries are discarded when popped.
func clusterBoxes(boxes []*TextBox, params *Params) Item {
	plane := NewPlane[*clusterNode](100)
	seq := 0

	pushNearest := func(h *candHeap, id int, n *clusterNode) {
		near := plane.Neighbors(n.BBox(), 2, map[int]bool{id: true})
		for _, otherID := range near {
			other, ok := plane.Get(otherID)
			if !ok {
				continue
			}
			heap.Push(h, mergeCand{
				dist: mergeDist(n, other),
				seqA: n.seq,
				idA:  id,
				idB:  otherID,
				bbox: joinRect(n.BBox(), other.BBox()),
			})
		}
	}

	ids := make(map[int]*clusterNode)
	h := &candHeap{}
	for _, b := range boxes {
		n := &clusterNode{item: b, vertical: b.Vertical, seq: seq}
		seq++
		id := plane.Add(n)
		ids[id] = n
	}
	for id, n := range ids {
		pushNearest(h, id, n)
	}

	for plane.Len() > 1 {
		if h.Len() == 0 {
			// re-seed the frontier from the remaining nodes
			for _, id := range plane.Items() {
				if n, ok := plane.Get(id); ok {
					pushNearest(h, id, n)
				}
			}
			if h.Len() == 0 {
				break
			}
		}
		cand := heap.Pop(h).(mergeCand)
		a, okA := plane.Get(cand.idA)
		b, okB := plane.Get(cand.idB)
		if !okA && !okB {
			continue
		}
		if !okA || !okB {
			// one endpoint died; recompute for the survivor
			if okA {
				pushNearest(h, cand.idA, a)
			} else {
				pushNearest(h, cand.idB, b)
			}
			continue
		}

		first, second := orderChildren(a, b, params)
		dir := LRTB
		if a.vertical && b.vertical {
			dir = TBRL
		}
		merged := &clusterNode{
			item: &Group{
				Box:       joinRect(a.BBox(), b.BBox()),
				Direction: dir,
				A:         first.item,
				B:         second.item,
			},
			vertical: a.vertical && b.vertical,
			seq:      seq,
		}
		seq++

		plane.Remove(cand.idA)
		plane.Remove(cand.idB)
		id := plane.Add(merged)
		pushNearest(h, id, merged)
	}

	rest := plane.Items()
	if len(rest) == 0 {
		return nil
	}
	root, _ := plane.Get(rest[0])
	// disconnected leftovers chain onto the root in id order
	for _, id := range rest[1:] {
		n, _ := plane.Get(id)
		dir := LRTB
		if root.vertical && n.vertical {
			dir = TBRL
		}
		root = &clusterNode{
			item: &Group{
				Box:       joinRect(root.BBox(), n.BBox()),
				Direction: dir,
				A:         root.item,
				B:         n.item,
			},
			vertical: root.vertical && n.vertical,
		}
	}
	return root.item
}

// orderChildren decides which child comes first in reading order.
func orderChildren(a, b *clusterNode, params *Params) (*clusterNode, *clusterNode) {
	if flowKey(a, params) <= flowKey(b, params) {
		return a, b
	}
	return b, a
}

// flowKey blends horizontal and vertical position, weighted by
// BoxesFlow.
func flowKey(n *clusterNode, params *Params) float64 {
	box := n.BBox()
	if n.vertical {
		return -(1-params.BoxesFlow)*box.URx - (1+params.BoxesFlow)*box.URy
	}
	return (1-params.BoxesFlow)*box.LLx - (1+params.BoxesFlow)*box.URy
}

// collectBoxes flattens the tree into reading order.
func collectBoxes(root Item, params *Params) []*TextBox {
	var res []*TextBox
	var walk func(Item)
	walk = func(node Item) {
		switch x := node.(type) {
		case *TextBox:
			res = append(res, x)
		case *Group:
			walk(x.A)
			walk(x.B)
		case *clusterNode:
			walk(x.item)
		}
	}
	walk(root)
	return res
}
