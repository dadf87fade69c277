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

package pdftext

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"seehuhn.de/go/pdftext/ascii85"
	"seehuhn.de/go/pdftext/jbig2"
	"seehuhn.de/go/pdftext/lzw"
)

// FilterInfo describes one PDF stream filter together with its decode
// parameters.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// extractFilterInfo reads the /Filter and /DecodeParms entries of a
// stream dictionary.  Parameter dictionaries are matched to filters
// positionally.
func extractFilterInfo(r Getter, dict Dict) ([]*FilterInfo, error) {
	parms, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}
	filterObj, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}

	var filters []*FilterInfo
	switch f := filterObj.(type) {
	case nil:
		// pass
	case Array:
		pa, _ := parms.(Array)
		for i, fi := range f {
			name, err := GetName(r, fi)
			if err != nil {
				return nil, err
			}
			var pDict Dict
			if len(pa) > i {
				x, err := GetDict(r, pa[i])
				if err != nil {
					return nil, err
				}
				pDict = x
			}
			filters = append(filters, &FilterInfo{
				Name:  name,
				Parms: pDict,
			})
		}
	case Name:
		pDict, _ := parms.(Dict)
		filters = append(filters, &FilterInfo{
			Name:  f,
			Parms: pDict,
		})
	default:
		return nil, &MalformedFileError{
			Err: errors.New("invalid /Filter field"),
		}
	}
	return filters, nil
}

// Decode applies the filter to data and returns the decoded bytes.
func (fi *FilterInfo) Decode(data []byte) ([]byte, error) {
	switch fi.Name {
	case "FlateDecode", "Fl":
		return decodeFlate(data, fi.Parms)
	case "LZWDecode", "LZW":
		return decodeLZW(data, fi.Parms)
	case "ASCII85Decode", "A85":
		out, err := ascii85.Decode(data)
		if err != nil {
			return nil, &DecodeError{Filter: fi.Name, Err: err}
		}
		return out, nil
	case "ASCIIHexDecode", "AHx":
		return decodeASCIIHex(data)
	case "RunLengthDecode", "RL":
		return decodeRunLength(data)
	case "CCITTFaxDecode", "CCF":
		return decodeCCITT(data, fi.Parms)
	case "JBIG2Decode":
		// Segment framing is parsed to validate the stream, but bit
		// decoding needs an external decoder.
		_, err := jbig2.ParseSegments(data)
		if err != nil {
			return nil, &DecodeError{Filter: fi.Name, Err: err}
		}
		return nil, &UnsupportedError{Feature: "JBIG2 bit decoding"}
	case "DCTDecode", "DCT", "JPXDecode":
		// Compressed image data is passed through; the engine does not
		// rasterize images.
		return data, nil
	case "Crypt":
		if name, _ := fi.Parms["Name"].(Name); name == "" || name == "Identity" {
			return data, nil
		}
		return nil, &UnsupportedError{Feature: "Crypt filter"}
	default:
		return nil, &UnsupportedError{Feature: "filter " + string(fi.Name)}
	}
}

// predictorParams holds the parameters shared by the Flate and LZW
// filters.
type predictorParams struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      bool
}

func predictorFromDict(parms Dict) *predictorParams {
	res := &predictorParams{
		Predictor:        1,
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
		EarlyChange:      true,
	}
	if parms == nil {
		return res
	}
	if val, ok := parms["Predictor"].(Integer); ok && val >= 1 && val <= 15 {
		res.Predictor = int(val)
	}
	if val, ok := parms["Colors"].(Integer); ok && val >= 1 {
		res.Colors = int(val)
	}
	if val, ok := parms["BitsPerComponent"].(Integer); ok &&
		(val == 1 || val == 2 || val == 4 || val == 8 || val == 16) {
		res.BitsPerComponent = int(val)
	}
	if val, ok := parms["Columns"].(Integer); ok && val >= 0 && res.Predictor > 1 {
		res.Columns = int(val)
	}
	if val, ok := parms["EarlyChange"].(Integer); ok {
		res.EarlyChange = (val != 0)
	}
	return res
}

func decodeFlate(data []byte, parms Dict) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Filter: "FlateDecode", Err: err}
	}
	out, err := io.ReadAll(zr)
	if err != nil && len(out) == 0 {
		return nil, &DecodeError{Filter: "FlateDecode", Err: err}
	}
	// A truncated final block is tolerated; the data read so far is
	// used.
	return applyPredictor(out, predictorFromDict(parms))
}

func decodeLZW(data []byte, parms Dict) ([]byte, error) {
	pp := predictorFromDict(parms)
	out, err := lzw.Decode(data, pp.EarlyChange)
	if err != nil {
		return nil, &DecodeError{Filter: "LZWDecode", Err: err}
	}
	return applyPredictor(out, pp)
}

// applyPredictor undoes the TIFF or PNG predictor transformation.
func applyPredictor(data []byte, pp *predictorParams) ([]byte, error) {
	switch {
	case pp.Predictor == 1:
		return data, nil
	case pp.Predictor == 2:
		return applyTIFFPredictor(data, pp)
	case pp.Predictor >= 10:
		return applyPNGPredictor(data, pp)
	default:
		return nil, &DecodeError{
			Filter: "FlateDecode",
			Err:    errors.New("unsupported predictor"),
		}
	}
}

func applyTIFFPredictor(data []byte, pp *predictorParams) ([]byte, error) {
	if pp.BitsPerComponent != 8 {
		return nil, &DecodeError{
			Filter: "FlateDecode",
			Err:    errors.New("TIFF predictor requires 8 bits per component"),
		}
	}
	rowLen := pp.Columns * pp.Colors
	if rowLen <= 0 {
		return data, nil
	}
	for row := 0; row+rowLen <= len(data); row += rowLen {
		for i := pp.Colors; i < rowLen; i++ {
			data[row+i] += data[row+i-pp.Colors]
		}
	}
	return data, nil
}

func applyPNGPredictor(data []byte, pp *predictorParams) ([]byte, error) {
	bpp := (pp.Colors*pp.BitsPerComponent + 7) / 8
	rowLen := (pp.Columns*pp.Colors*pp.BitsPerComponent + 7) / 8
	if rowLen <= 0 {
		return data, nil
	}

	numRows := len(data) / (rowLen + 1)
	res := make([]byte, 0, numRows*rowLen)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)
	for pos := 0; pos+rowLen+1 <= len(data); pos += rowLen + 1 {
		ft := data[pos]
		copy(cur, data[pos+1:pos+1+rowLen])
		switch ft {
		case 0: // None
			// pass
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				cur[i] += cur[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				cur[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				var left byte
				if i >= bpp {
					left = cur[i-bpp]
				}
				cur[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = cur[i-bpp]
					upLeft = prev[i-bpp]
				}
				cur[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, &DecodeError{
				Filter: "FlateDecode",
				Err:    errors.New("invalid PNG predictor row filter"),
			}
		}
		res = append(res, cur...)
		prev, cur = cur, prev
	}
	return res, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
