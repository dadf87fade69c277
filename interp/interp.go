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

// Package interp walks page content streams and reports positioned
// glyphs, paths and images to a device.
package interp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdftext"
	"seehuhn.de/go/pdftext/font"
)

// Interpreter executes page content streams.  One interpreter holds no
// cross-page state except for its resource caches, so a single
// interpreter can process the pages of a document one after another.
type Interpreter struct {
	r   pdftext.Getter
	dev Device

	// Warnings collects recoverable problems, e.g. unknown operators.
	Warnings []error

	fontByRef  map[pdftext.Reference]*font.Font
	xobjActive map[pdftext.Reference]bool
}

// New creates an interpreter which reports to the given device.
func New(r pdftext.Getter, dev Device) *Interpreter {
	return &Interpreter{
		r:          r,
		dev:        dev,
		fontByRef:  make(map[pdftext.Reference]*font.Font),
		xobjActive: make(map[pdftext.Reference]bool),
	}
}

// ProcessPage interprets the content stream of one page.  Content
// syntax errors truncate the rest of the page but are not fatal.
func (ip *Interpreter) ProcessPage(page *pdftext.Page) error {
	content, err := page.Contents()
	if err != nil {
		return err
	}

	// move the crop box origin to (0, 0) and apply the page rotation
	box := page.CropBox
	ctm := matrix.Translate(-box.LLx, -box.LLy)
	switch page.Rotate {
	case 90:
		ctm = ctm.Mul(matrix.RotateDeg(-90)).
			Mul(matrix.Translate(0, box.URx-box.LLx))
	case 180:
		ctm = ctm.Mul(matrix.RotateDeg(180)).
			Mul(matrix.Translate(box.URx-box.LLx, box.URy-box.LLy))
	case 270:
		ctm = ctm.Mul(matrix.RotateDeg(90)).
			Mul(matrix.Translate(box.URy-box.LLy, 0))
	}

	ip.dev.BeginPage(page, ctm)
	err = ip.ProcessContent(content, page.Resources, ctm)
	ip.dev.EndPage(page)
	return err
}

// ProcessContent interprets a raw content stream with the given
// resource dictionary, without the page begin/end callbacks.
func (ip *Interpreter) ProcessContent(content []byte, resources pdftext.Dict, ctm matrix.Matrix) error {
	rn := &runner{
		ip:  ip,
		g:   newGraphicsState(ctm),
		res: resources,
	}
	rn.mcid = -1
	return rn.exec(content)
}

type runner struct {
	ip  *Interpreter
	res pdftext.Dict

	g      *GraphicsState
	gStack []*GraphicsState

	// text object state
	tm, tlm matrix.Matrix
	inText  bool

	// the current path, already transformed by the CTM, and the
	// current point in untransformed coordinates
	path     Path
	cur      Point
	curValid bool
	pendClip bool

	mcid  int
	mcTag pdftext.Name
	mc    []mcEntry
}

type mcEntry struct {
	mcid int
	tag  pdftext.Name
}

// exec runs one content stream.  A syntax error truncates the stream.
func (rn *runner) exec(content []byte) error {
	s := pdftext.NewScanner(bytes.NewReader(content))
	var args []pdftext.Object
	for {
		obj, err := s.ReadObject()
		if err == io.EOF {
			return nil
		} else if err != nil {
			rn.warn(fmt.Errorf("content stream: %w", err))
			return nil
		}

		op, isOp := obj.(pdftext.Operator)
		if !isOp {
			args = append(args, obj)
			continue
		}

		err = rn.dispatch(op, args, s)
		if err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			rn.warn(fmt.Errorf("operator %s: %w", op, err))
		}
		args = args[:0]
	}
}

var errStop = errors.New("content stream truncated")

var errTooFewArgs = errors.New("not enough arguments")

func (rn *runner) warn(err error) {
	rn.ip.Warnings = append(rn.ip.Warnings, err)
}

func (rn *runner) dispatch(op pdftext.Operator, args []pdftext.Object, s *pdftext.Scanner) error {
	g := rn.g
	switch op {

	// == General graphics state =========================================

	case "q":
		rn.gStack = append(rn.gStack, g.Clone())
	case "Q":
		if len(rn.gStack) == 0 {
			// the stack bottom is pinned; an unmatched Q is recoverable
			return errors.New("unmatched Q")
		}
		rn.g = rn.gStack[len(rn.gStack)-1]
		rn.gStack = rn.gStack[:len(rn.gStack)-1]
	case "cm":
		m, err := matrixArgs(args)
		if err != nil {
			return err
		}
		g.CTM = m.Mul(g.CTM)
	case "w":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.LineWidth = x
	case "J":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.LineCap = int(x)
	case "j":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.LineJoin = int(x)
	case "M":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.MiterLimit = x
	case "d":
		if len(args) < 2 {
			return errTooFewArgs
		}
		arr, _ := args[0].(pdftext.Array)
		g.DashArray = g.DashArray[:0]
		for _, elem := range arr {
			if v, ok := realValue(elem); ok {
				g.DashArray = append(g.DashArray, v)
			}
		}
		if v, ok := realValue(args[1]); ok {
			g.DashPhase = v
		}
	case "ri":
		if len(args) < 1 {
			return errTooFewArgs
		}
		if name, ok := args[0].(pdftext.Name); ok {
			g.RenderingIntent = name
		}
	case "i":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.Flatness = x
	case "gs":
		if len(args) < 1 {
			return errTooFewArgs
		}
		name, ok := args[0].(pdftext.Name)
		if !ok {
			return fmt.Errorf("unexpected type %T for graphics state name", args[0])
		}
		return rn.applyExtGState(name)

	// == Path construction ==============================================

	case "m":
		x, y, err := numArgs2(args)
		if err != nil {
			return err
		}
		rn.moveTo(x, y)
	case "l":
		x, y, err := numArgs2(args)
		if err != nil {
			return err
		}
		rn.lineTo(x, y)
	case "c":
		if len(args) < 6 {
			return errTooFewArgs
		}
		x, _ := realValue(args[4])
		y, _ := realValue(args[5])
		rn.lineTo(x, y)
	case "v", "y":
		// the missing control point comes from the current point ("v")
		// or the end point ("y"); only the endpoint is kept
		if len(args) < 4 {
			return errTooFewArgs
		}
		x, _ := realValue(args[2])
		y, _ := realValue(args[3])
		rn.lineTo(x, y)
	case "h":
		rn.closePath()
	case "re":
		if len(args) < 4 {
			return errTooFewArgs
		}
		x, _ := realValue(args[0])
		y, _ := realValue(args[1])
		w, _ := realValue(args[2])
		h, _ := realValue(args[3])
		rn.appendRect(x, y, w, h)

	// == Path painting ==================================================

	case "S":
		rn.paint(PaintStroke)
	case "s":
		rn.closePath()
		rn.paint(PaintStroke)
	case "f", "F":
		rn.paint(PaintFill)
	case "f*":
		rn.paint(PaintFill | PaintEvenOdd)
	case "B":
		rn.paint(PaintFill | PaintStroke)
	case "B*":
		rn.paint(PaintFill | PaintStroke | PaintEvenOdd)
	case "b":
		rn.closePath()
		rn.paint(PaintFill | PaintStroke)
	case "b*":
		rn.closePath()
		rn.paint(PaintFill | PaintStroke | PaintEvenOdd)
	case "n":
		rn.clearPath()

	// == Clipping =======================================================

	case "W", "W*":
		rn.pendClip = true

	// == Color ==========================================================

	case "CS":
		if len(args) < 1 {
			return errTooFewArgs
		}
		if name, ok := args[0].(pdftext.Name); ok {
			g.StrokeColor = Color{Space: name}
		}
	case "cs":
		if len(args) < 1 {
			return errTooFewArgs
		}
		if name, ok := args[0].(pdftext.Name); ok {
			g.FillColor = Color{Space: name}
		}
	case "SC", "SCN":
		g.StrokeColor = colorOperands(g.StrokeColor.Space, args)
	case "sc", "scn":
		g.FillColor = colorOperands(g.FillColor.Space, args)
	case "G":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.StrokeColor = Color{Space: "DeviceGray", Values: []float64{x}}
	case "g":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.FillColor = Color{Space: "DeviceGray", Values: []float64{x}}
	case "RG":
		vals, err := numArgsN(args, 3)
		if err != nil {
			return err
		}
		g.StrokeColor = Color{Space: "DeviceRGB", Values: vals}
	case "rg":
		vals, err := numArgsN(args, 3)
		if err != nil {
			return err
		}
		g.FillColor = Color{Space: "DeviceRGB", Values: vals}
	case "K":
		vals, err := numArgsN(args, 4)
		if err != nil {
			return err
		}
		g.StrokeColor = Color{Space: "DeviceCMYK", Values: vals}
	case "k":
		vals, err := numArgsN(args, 4)
		if err != nil {
			return err
		}
		g.FillColor = Color{Space: "DeviceCMYK", Values: vals}

	// == Text objects and state =========================================

	case "BT":
		rn.tm = matrix.Identity
		rn.tlm = matrix.Identity
		rn.inText = true
	case "ET":
		rn.inText = false
	case "Tc":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.CharSpacing = x
	case "Tw":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.WordSpacing = x
	case "Tz":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.HorizScaling = x / 100
	case "TL":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.Leading = -x
	case "Tf":
		if len(args) < 2 {
			return errTooFewArgs
		}
		name, ok1 := args[0].(pdftext.Name)
		size, ok2 := realValue(args[1])
		if !ok1 || !ok2 {
			return fmt.Errorf("unexpected types %T %T for font", args[0], args[1])
		}
		g.FontName = name
		g.FontSize = size
		g.Font = rn.lookupFont(name)
	case "Tr":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.RenderMode = int(x)
	case "Ts":
		x, err := numArg(args, 0)
		if err != nil {
			return err
		}
		g.Rise = x

	// == Text positioning ===============================================

	case "Td":
		x, y, err := numArgs2(args)
		if err != nil {
			return err
		}
		rn.tlm = matrix.Translate(x, y).Mul(rn.tlm)
		rn.tm = rn.tlm
	case "TD":
		x, y, err := numArgs2(args)
		if err != nil {
			return err
		}
		g.Leading = y
		rn.tlm = matrix.Translate(x, y).Mul(rn.tlm)
		rn.tm = rn.tlm
	case "Tm":
		m, err := matrixArgs(args)
		if err != nil {
			return err
		}
		rn.tm = m
		rn.tlm = m
	case "T*":
		rn.tlm = matrix.Translate(0, g.Leading).Mul(rn.tlm)
		rn.tm = rn.tlm

	// == Text showing ===================================================

	case "Tj":
		if len(args) < 1 {
			return errTooFewArgs
		}
		str, ok := args[0].(pdftext.String)
		if !ok {
			return fmt.Errorf("unexpected type %T for text string", args[0])
		}
		rn.showText(str)
	case "'":
		if len(args) < 1 {
			return errTooFewArgs
		}
		str, ok := args[0].(pdftext.String)
		if !ok {
			return fmt.Errorf("unexpected type %T for text string", args[0])
		}
		rn.tlm = matrix.Translate(0, g.Leading).Mul(rn.tlm)
		rn.tm = rn.tlm
		rn.showText(str)
	case "\"":
		if len(args) < 3 {
			return errTooFewArgs
		}
		aw, ok1 := realValue(args[0])
		ac, ok2 := realValue(args[1])
		str, ok3 := args[2].(pdftext.String)
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf("unexpected operands for \" operator")
		}
		g.WordSpacing = aw
		g.CharSpacing = ac
		rn.tlm = matrix.Translate(0, g.Leading).Mul(rn.tlm)
		rn.tm = rn.tlm
		rn.showText(str)
	case "TJ":
		if len(args) < 1 {
			return errTooFewArgs
		}
		arr, ok := args[0].(pdftext.Array)
		if !ok {
			return fmt.Errorf("unexpected type %T for text array", args[0])
		}
		for _, frag := range arr {
			switch frag := frag.(type) {
			case pdftext.String:
				rn.showText(frag)
			case pdftext.Integer, pdftext.Real:
				n, _ := realValue(frag)
				shift := -n / 1000 * g.FontSize * g.HorizScaling
				if g.Font != nil && g.Font.Vertical() {
					rn.tm = matrix.Translate(0, shift).Mul(rn.tm)
				} else {
					rn.tm = matrix.Translate(shift, 0).Mul(rn.tm)
				}
			}
		}

	// == XObjects and images ============================================

	case "Do":
		if len(args) < 1 {
			return errTooFewArgs
		}
		name, ok := args[0].(pdftext.Name)
		if !ok {
			return fmt.Errorf("unexpected type %T for XObject name", args[0])
		}
		return rn.doXObject(name)
	case "BI":
		return rn.inlineImage(s)
	case "ID", "EI":
		// handled by inlineImage; stray keywords are ignored

	// == Marked content =================================================

	case "BMC":
		if len(args) < 1 {
			return errTooFewArgs
		}
		tag, _ := args[0].(pdftext.Name)
		rn.beginMarkedContent(tag, nil)
	case "BDC":
		if len(args) < 2 {
			return errTooFewArgs
		}
		tag, _ := args[0].(pdftext.Name)
		props := rn.propertyList(args[1])
		rn.beginMarkedContent(tag, props)
	case "EMC":
		if len(rn.mc) > 0 {
			rn.mc = rn.mc[:len(rn.mc)-1]
		}
		if len(rn.mc) > 0 {
			top := rn.mc[len(rn.mc)-1]
			rn.mcid, rn.mcTag = top.mcid, top.tag
		} else {
			rn.mcid, rn.mcTag = -1, ""
		}
	case "MP", "DP":
		// marked-content points carry no glyphs

	// == Shading ========================================================

	case "sh":
		// shading fills are invisible to text and table extraction

	default:
		return fmt.Errorf("unknown operator %q", op)
	}
	return nil
}

// == operand helpers ====================================================

func realValue(obj pdftext.Object) (float64, bool) {
	switch x := obj.(type) {
	case pdftext.Integer:
		return float64(x), true
	case pdftext.Real:
		return float64(x), true
	default:
		return 0, false
	}
}

func numArg(args []pdftext.Object, i int) (float64, error) {
	if len(args) <= i {
		return 0, errTooFewArgs
	}
	x, ok := realValue(args[i])
	if !ok {
		return 0, fmt.Errorf("unexpected type %T for number", args[i])
	}
	return x, nil
}

func numArgs2(args []pdftext.Object) (float64, float64, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return 0, 0, err
	}
	y, err := numArg(args, 1)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func numArgsN(args []pdftext.Object, n int) ([]float64, error) {
	if len(args) < n {
		return nil, errTooFewArgs
	}
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		x, ok := realValue(args[i])
		if !ok {
			return nil, fmt.Errorf("unexpected type %T for number", args[i])
		}
		res[i] = x
	}
	return res, nil
}

func matrixArgs(args []pdftext.Object) (matrix.Matrix, error) {
	if len(args) < 6 {
		return matrix.Matrix{}, errTooFewArgs
	}
	var m matrix.Matrix
	for i := 0; i < 6; i++ {
		x, ok := realValue(args[i])
		if !ok {
			return matrix.Matrix{}, fmt.Errorf("unexpected type %T in matrix", args[i])
		}
		m[i] = x
	}
	return m, nil
}

// colorOperands reads SC/SCN operands: numbers with an optional
// trailing pattern name.
func colorOperands(space pdftext.Name, args []pdftext.Object) Color {
	res := Color{Space: space}
	for _, arg := range args {
		switch x := arg.(type) {
		case pdftext.Integer, pdftext.Real:
			v, _ := realValue(x)
			res.Values = append(res.Values, v)
		case pdftext.Name:
			res.Pattern = x
		}
	}
	return res
}

// == path helpers =======================================================

func (rn *runner) moveTo(x, y float64) {
	rn.path.Subpaths = append(rn.path.Subpaths, Subpath{})
	rn.addPoint(x, y)
}

func (rn *runner) lineTo(x, y float64) {
	if len(rn.path.Subpaths) == 0 {
		rn.path.Subpaths = append(rn.path.Subpaths, Subpath{})
	}
	rn.addPoint(x, y)
}

func (rn *runner) addPoint(x, y float64) {
	ux, uy := transform(rn.g.CTM, x, y)
	last := &rn.path.Subpaths[len(rn.path.Subpaths)-1]
	last.Points = append(last.Points, Point{X: ux, Y: uy})
	rn.cur = Point{X: x, Y: y}
	rn.curValid = true
}

func (rn *runner) closePath() {
	if len(rn.path.Subpaths) > 0 {
		rn.path.Subpaths[len(rn.path.Subpaths)-1].Closed = true
	}
}

func (rn *runner) appendRect(x, y, w, h float64) {
	var sp Subpath
	for _, pt := range [][2]float64{
		{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h},
	} {
		ux, uy := transform(rn.g.CTM, pt[0], pt[1])
		sp.Points = append(sp.Points, Point{X: ux, Y: uy})
	}
	sp.Closed = true
	sp.Rect = true
	rn.path.Subpaths = append(rn.path.Subpaths, sp)
	rn.cur = Point{X: x, Y: y}
	rn.curValid = true
}

func (rn *runner) paint(kind PaintKind) {
	if len(rn.path.Subpaths) > 0 {
		path := rn.path
		rn.ip.dev.Paint(&path, kind, rn.g)
	}
	rn.clearPath()
}

func (rn *runner) clearPath() {
	rn.path = Path{}
	rn.curValid = false
	rn.pendClip = false
}

// == resources ==========================================================

func (rn *runner) resource(kind, name pdftext.Name) pdftext.Object {
	if rn.res == nil {
		return nil
	}
	sub, err := pdftext.GetDict(rn.ip.r, rn.res[kind])
	if err != nil || sub == nil {
		return nil
	}
	return sub[name]
}

// lookupFont resolves a font name, caching loaded fonts by reference.
func (rn *runner) lookupFont(name pdftext.Name) *font.Font {
	obj := rn.resource("Font", name)
	if obj == nil {
		rn.warn(fmt.Errorf("undefined font %s", name))
		return nil
	}
	if ref, isRef := obj.(pdftext.Reference); isRef {
		if f, ok := rn.ip.fontByRef[ref]; ok {
			return f
		}
		dict, err := pdftext.GetDict(rn.ip.r, ref)
		if err != nil || dict == nil {
			rn.warn(fmt.Errorf("cannot load font %s", name))
			return nil
		}
		f, err := font.Read(rn.ip.r, dict)
		if err != nil {
			rn.warn(fmt.Errorf("font %s: %w", name, err))
			f = nil
		}
		rn.ip.fontByRef[ref] = f
		return f
	}
	dict, err := pdftext.GetDict(rn.ip.r, obj)
	if err != nil || dict == nil {
		return nil
	}
	f, err := font.Read(rn.ip.r, dict)
	if err != nil {
		rn.warn(fmt.Errorf("font %s: %w", name, err))
		return nil
	}
	return f
}

func (rn *runner) applyExtGState(name pdftext.Name) error {
	dict, err := pdftext.GetDict(rn.ip.r, rn.resource("ExtGState", name))
	if err != nil || dict == nil {
		return fmt.Errorf("undefined graphics state %s", name)
	}
	for key, val := range dict {
		switch key {
		case "LW":
			if lw, err := pdftext.GetNumber(rn.ip.r, val); err == nil {
				rn.g.LineWidth = lw
			}
		case "Font":
			arr, err := pdftext.GetArray(rn.ip.r, val)
			if err != nil || len(arr) != 2 {
				continue
			}
			if size, err := pdftext.GetNumber(rn.ip.r, arr[1]); err == nil {
				rn.g.FontSize = size
			}
			if dict, err := pdftext.GetDict(rn.ip.r, arr[0]); err == nil && dict != nil {
				if f, err := font.Read(rn.ip.r, dict); err == nil {
					rn.g.Font = f
				}
			}
		default:
			// remaining entries do not influence extraction
		}
	}
	return nil
}

func (rn *runner) propertyList(arg pdftext.Object) pdftext.Dict {
	switch x := arg.(type) {
	case pdftext.Dict:
		return x
	case pdftext.Name:
		dict, err := pdftext.GetDict(rn.ip.r, rn.resource("Properties", x))
		if err == nil {
			return dict
		}
	}
	return nil
}

func (rn *runner) beginMarkedContent(tag pdftext.Name, props pdftext.Dict) {
	mcid := -1
	if props != nil {
		if id, ok := props["MCID"].(pdftext.Integer); ok {
			mcid = int(id)
		}
	}
	rn.mc = append(rn.mc, mcEntry{mcid: mcid, tag: tag})
	rn.mcid, rn.mcTag = mcid, tag
}

// == XObjects ===========================================================

func (rn *runner) doXObject(name pdftext.Name) error {
	obj := rn.resource("XObject", name)
	ref, _ := obj.(pdftext.Reference)
	stm, err := pdftext.GetStream(rn.ip.r, obj)
	if err != nil || stm == nil {
		return fmt.Errorf("undefined XObject %s", name)
	}

	subtype, _ := stm.Dict["Subtype"].(pdftext.Name)
	switch subtype {
	case "Image":
		data, err := pdftext.DecodeStream(rn.ip.r, stm, 0)
		if err != nil {
			// image data errors do not abort the page
			data = nil
		}
		rn.ip.dev.Image(name, stm.Dict, data, rn.g)
		return nil
	case "Form":
		if ref != 0 {
			if rn.ip.xobjActive[ref] {
				return fmt.Errorf("recursive form XObject %s", name)
			}
			rn.ip.xobjActive[ref] = true
			defer delete(rn.ip.xobjActive, ref)
		}

		data, err := pdftext.DecodeStream(rn.ip.r, stm, 0)
		if err != nil {
			return err
		}

		formRes := rn.res
		if sub, err := pdftext.GetDict(rn.ip.r, stm.Dict["Resources"]); err == nil && sub != nil {
			formRes = sub
		}

		sub := &runner{
			ip:   rn.ip,
			res:  formRes,
			g:    rn.g.Clone(),
			mcid: rn.mcid,
		}
		if fm, err := pdftext.GetArray(rn.ip.r, stm.Dict["Matrix"]); err == nil && len(fm) == 6 {
			var m matrix.Matrix
			ok := true
			for i := range m {
				v, err := pdftext.GetNumber(rn.ip.r, fm[i])
				if err != nil {
					ok = false
					break
				}
				m[i] = v
			}
			if ok {
				sub.g.CTM = m.Mul(sub.g.CTM)
			}
		}
		return sub.exec(data)
	default:
		return fmt.Errorf("unknown XObject subtype %q", subtype)
	}
}

// inlineImage reads "BI <dict entries> ID <raw bytes> EI".
func (rn *runner) inlineImage(s *pdftext.Scanner) error {
	dict := pdftext.Dict{}
	for {
		obj, err := s.ReadObject()
		if err != nil {
			return errStop
		}
		if obj == pdftext.Operator("ID") {
			break
		}
		key, ok := obj.(pdftext.Name)
		if !ok {
			return fmt.Errorf("unexpected inline image key %v", obj)
		}
		val, err := s.ReadObject()
		if err != nil {
			return errStop
		}
		dict[key] = val
	}

	data, err := s.ReadInlineImageData()
	if err != nil {
		return errStop
	}
	rn.ip.dev.Image("", dict, data, rn.g)
	return nil
}

// == text showing =======================================================

// showText decodes a string with the current font and emits one Char
// per CID.  The sum of the emitted advances equals the text matrix
// displacement.
func (rn *runner) showText(str pdftext.String) {
	g := rn.g
	fs := g.FontSize
	hs := g.HorizScaling

	if g.Font == nil {
		// resource lookup failures map the bytes to replacement
		// characters with zero advance
		rn.warn(errors.New("text shown without a valid font"))
		for range str {
			trm := matrix.Matrix{fs * hs, 0, 0, fs, 0, g.Rise}.
				Mul(rn.tm).Mul(g.CTM)
			rn.emitChar("�", 0, 0, 0, trm, false)
		}
		return
	}

	vertical := g.Font.Vertical()
	for _, gl := range g.Font.Decode(str) {
		w0 := gl.Width / 1000
		adv := w0*fs + g.CharSpacing
		if gl.OneByte && gl.Code == 32 {
			adv += g.WordSpacing
		}
		if !vertical {
			adv *= hs
		}

		trm := matrix.Matrix{fs * hs, 0, 0, fs, 0, g.Rise}.
			Mul(rn.tm).Mul(g.CTM)
		rn.emitChar(gl.Text, uint32(gl.CID), w0, adv, trm, vertical)

		if vertical {
			rn.tm = matrix.Translate(0, -adv).Mul(rn.tm)
		} else {
			rn.tm = matrix.Translate(adv, 0).Mul(rn.tm)
		}
	}
}

// emitChar computes the user-space bounding box of one glyph and calls
// the device.  adv is the advance in text space, including character
// and word spacing.
func (rn *runner) emitChar(text string, cid uint32, w0, adv float64, trm matrix.Matrix, vertical bool) {
	g := rn.g

	var asc, desc float64 = 0.75, -0.25
	if g.Font != nil {
		asc = g.Font.Ascent / 1000
		desc = g.Font.Descent / 1000
	}

	var corners [4][2]float64
	if vertical {
		corners = [4][2]float64{
			{-w0 / 2, -w0}, {w0 / 2, -w0}, {-w0 / 2, 0}, {w0 / 2, 0},
		}
	} else {
		corners = [4][2]float64{
			{0, desc}, {w0, desc}, {0, asc}, {w0, asc},
		}
	}

	bbox := rect.Rect{}
	for i, c := range corners {
		x, y := transform(trm, c[0], c[1])
		if i == 0 {
			bbox = rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
			continue
		}
		if x < bbox.LLx {
			bbox.LLx = x
		}
		if x > bbox.URx {
			bbox.URx = x
		}
		if y < bbox.LLy {
			bbox.LLy = y
		}
		if y > bbox.URy {
			bbox.URy = y
		}
	}

	upright := trm[0]*trm[3] > 0 && trm[1]*trm[2] <= 0

	// The user-space advance is the displacement of the glyph origin.
	// trm contains the extra factor diag(fs*hs, fs), which has to be
	// divided out before applying the advance vector.
	var advUser float64
	fs := nonZero(g.FontSize)
	if vertical {
		f := adv / fs
		advUser = math.Hypot(f*trm[2], f*trm[3])
	} else {
		f := adv / (fs * nonZero(g.HorizScaling))
		advUser = math.Hypot(f*trm[0], f*trm[1])
	}

	ch := &Char{
		BBox:     bbox,
		Text:     text,
		FontName: fontDisplayName(g),
		FontSize: math.Abs(trm[3]),
		Upright:  upright,
		Adv:      advUser,
		CID:      cid,
		MCID:     rn.mcid,
		MCTag:    rn.mcTag,
		Fill:     g.FillColor,
		Stroke:   g.StrokeColor,
	}
	rn.ip.dev.Char(ch)
}

func fontDisplayName(g *GraphicsState) string {
	if g.Font != nil && g.Font.Name != "" {
		return g.Font.Name
	}
	return string(g.FontName)
}

func nonZero(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x
}
