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

// Package extractor composes the document reader, the content
// interpreter and the layout analyzer into a one-call API for text and
// table extraction.
package extractor

import (
	"iter"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdftext"
	"seehuhn.de/go/pdftext/interp"
	"seehuhn.de/go/pdftext/layout"
	"seehuhn.de/go/pdftext/table"
)

// Options controls the extraction pipeline.
type Options struct {
	// Password opens encrypted files.
	Password string

	// ReadPassword is consulted for further attempts if Password is
	// wrong; see [pdftext.ReaderOptions].
	ReadPassword func(ID []byte, try int) string

	// PageNumbers restricts extraction to the given 0-based page
	// indices.  Nil means all pages.
	PageNumbers map[int]bool

	// MaxPages stops after the given number of extracted pages.
	// Zero means no limit.
	MaxPages int

	// Caching is not consulted: the resolver always keeps its object
	// cache, whatever the value.  The cache is purely an optimization;
	// results do not change.
	Caching bool

	// LAParams configures the layout analysis.  Nil uses the
	// defaults.
	LAParams *layout.Params

	// Threads is advisory; the extractor itself is single-threaded
	// per document, and callers parallelize across pages.
	Threads int
}

// AnalyzedPage is one page after interpretation and layout analysis.
type AnalyzedPage struct {
	// Index is the 0-based page index.
	Index int

	// Page is the underlying document page.
	Page *pdftext.Page

	// Chars lists the glyphs in content-stream order.
	Chars []*interp.Char

	// Paths lists the painted paths, with the line width active at
	// painting time in LineWidths.
	Paths      []*interp.Path
	LineWidths []float64

	// Layout is the result of the layout analysis.
	Layout *layout.Result
}

// Text returns the page text in reading order, with a trailing form
// feed.
func (p *AnalyzedPage) Text() string {
	return p.Layout.Text()
}

// aggregateDevice records everything the interpreter emits for one
// page.
type aggregateDevice struct {
	interp.NullDevice
	chars      []*interp.Char
	paths      []*interp.Path
	lineWidths []float64
}

func (d *aggregateDevice) BeginPage(page *pdftext.Page, ctm matrix.Matrix) {
	d.chars = nil
	d.paths = nil
	d.lineWidths = nil
}

func (d *aggregateDevice) Char(ch *interp.Char) {
	d.chars = append(d.chars, ch)
}

func (d *aggregateDevice) Paint(path *interp.Path, kind interp.PaintKind, g *interp.GraphicsState) {
	d.paths = append(d.paths, path)
	d.lineWidths = append(d.lineWidths, g.LineWidth)
}

// ExtractPages opens a document and yields one analyzed page at a
// time.  A failing page yields an error for its position and
// extraction continues with the next page.
func ExtractPages(data []byte, opt *Options) iter.Seq2[*AnalyzedPage, error] {
	if opt == nil {
		opt = &Options{Caching: true}
	}
	return func(yield func(*AnalyzedPage, error) bool) {
		r, err := pdftext.Open(data, &pdftext.ReaderOptions{
			Password:     opt.Password,
			ReadPassword: opt.ReadPassword,
		})
		if err != nil {
			yield(nil, err)
			return
		}

		dev := &aggregateDevice{}
		ip := interp.New(r, dev)

		index := -1
		done := 0
		for page, err := range r.Pages() {
			index++
			if opt.PageNumbers != nil && !opt.PageNumbers[index] {
				continue
			}
			if opt.MaxPages > 0 && done >= opt.MaxPages {
				return
			}
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			err = ip.ProcessPage(page)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			res, err := layout.Analyze(dev.chars, opt.LAParams)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			ap := &AnalyzedPage{
				Index:      index,
				Page:       page,
				Chars:      dev.chars,
				Paths:      dev.paths,
				LineWidths: dev.lineWidths,
				Layout:     res,
			}
			done++
			if !yield(ap, nil) {
				return
			}
		}
	}
}

// ExtractText extracts the plain text of a document: the text of every
// analyzed page in reading order, each page terminated by a form feed.
func ExtractText(data []byte, opt *Options) (string, error) {
	var res []byte
	for page, err := range ExtractPages(data, opt) {
		if err != nil {
			return "", err
		}
		res = append(res, page.Text()...)
	}
	return string(res), nil
}

// ExtractTables reconstructs the tables of an analyzed page.
func ExtractTables(page *AnalyzedPage, settings *table.Settings) []*table.Table {
	return table.Extract(page.Paths, page.LineWidths, page.Chars, settings)
}
