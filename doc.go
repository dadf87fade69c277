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

// Package pdftext reads PDF files and turns them into positioned glyphs,
// text lines, text boxes and tables.
//
// The root package contains the low-level machinery: the PDF object
// model, the tokenizer, the cross-reference table reader, the standard
// security handler and the stream filters.  A [Reader] gives access to
// the objects of a PDF file and to its pages.
//
// The subpackages build on this:
//
//   - font maps character codes in content streams to CIDs, widths
//     and Unicode text,
//   - interp walks page content streams and emits positioned glyphs
//     to a device,
//   - layout groups glyphs into lines, boxes and a reading order,
//   - table reconstructs tables from ruling lines.
//
// The extractor subpackage composes all of these into a single call,
// extractor.ExtractPages.
package pdftext
