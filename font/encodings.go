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

package font

// The tables in this file are taken from Appendix D of ISO 32000-1.
// Empty strings mark unused codes.

var asciiNames = [95]string{
	"space", "exclam", "quotedbl", "numbersign", "dollar", "percent",
	"ampersand", "quotesingle", "parenleft", "parenright", "asterisk",
	"plus", "comma", "hyphen", "period", "slash",
	"zero", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine",
	"colon", "semicolon", "less", "equal", "greater", "question", "at",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"bracketleft", "backslash", "bracketright", "asciicircum",
	"underscore", "grave",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"braceleft", "bar", "braceright", "asciitilde",
}

func baseASCII() [256]string {
	var enc [256]string
	for i, name := range asciiNames {
		enc[32+i] = name
	}
	return enc
}

// StandardEncoding is the Adobe standard encoding for Latin text.
var StandardEncoding = func() [256]string {
	enc := baseASCII()
	enc[39] = "quoteright"
	enc[96] = "quoteleft"
	high := map[byte]string{
		161: "exclamdown", 162: "cent", 163: "sterling", 164: "fraction",
		165: "yen", 166: "florin", 167: "section", 168: "currency",
		169: "quotesingle", 170: "quotedblleft", 171: "guillemotleft",
		172: "guilsinglleft", 173: "guilsinglright", 174: "fi", 175: "fl",
		177: "endash", 178: "dagger", 179: "daggerdbl", 180: "periodcentered",
		182: "paragraph", 183: "bullet", 184: "quotesinglbase",
		185: "quotedblbase", 186: "quotedblright", 187: "guillemotright",
		188: "ellipsis", 189: "perthousand", 191: "questiondown",
		193: "grave", 194: "acute", 195: "circumflex", 196: "tilde",
		197: "macron", 198: "breve", 199: "dotaccent", 200: "dieresis",
		202: "ring", 203: "cedilla", 205: "hungarumlaut", 206: "ogonek",
		207: "caron", 208: "emdash", 225: "AE", 227: "ordfeminine",
		232: "Lslash", 233: "Oslash", 234: "OE", 235: "ordmasculine",
		241: "ae", 245: "dotlessi", 248: "lslash", 249: "oslash",
		250: "oe", 251: "germandbls",
	}
	for code, name := range high {
		enc[code] = name
	}
	return enc
}()

// WinAnsiEncoding is the Windows code page 1252 encoding.
var WinAnsiEncoding = func() [256]string {
	enc := baseASCII()
	high := map[byte]string{
		128: "Euro", 130: "quotesinglbase", 131: "florin",
		132: "quotedblbase", 133: "ellipsis", 134: "dagger",
		135: "daggerdbl", 136: "circumflex", 137: "perthousand",
		138: "Scaron", 139: "guilsinglleft", 140: "OE", 142: "Zcaron",
		145: "quoteleft", 146: "quoteright", 147: "quotedblleft",
		148: "quotedblright", 149: "bullet", 150: "endash", 151: "emdash",
		152: "tilde", 153: "trademark", 154: "scaron",
		155: "guilsinglright", 156: "oe", 158: "zcaron", 159: "Ydieresis",
		160: "space", 161: "exclamdown", 162: "cent", 163: "sterling",
		164: "currency", 165: "yen", 166: "brokenbar", 167: "section",
		168: "dieresis", 169: "copyright", 170: "ordfeminine",
		171: "guillemotleft", 172: "logicalnot", 173: "hyphen",
		174: "registered", 175: "macron", 176: "degree", 177: "plusminus",
		178: "twosuperior", 179: "threesuperior", 180: "acute", 181: "mu",
		182: "paragraph", 183: "periodcentered", 184: "cedilla",
		185: "onesuperior", 186: "ordmasculine", 187: "guillemotright",
		188: "onequarter", 189: "onehalf", 190: "threequarters",
		191: "questiondown", 192: "Agrave", 193: "Aacute",
		194: "Acircumflex", 195: "Atilde", 196: "Adieresis", 197: "Aring",
		198: "AE", 199: "Ccedilla", 200: "Egrave", 201: "Eacute",
		202: "Ecircumflex", 203: "Edieresis", 204: "Igrave", 205: "Iacute",
		206: "Icircumflex", 207: "Idieresis", 208: "Eth", 209: "Ntilde",
		210: "Ograve", 211: "Oacute", 212: "Ocircumflex", 213: "Otilde",
		214: "Odieresis", 215: "multiply", 216: "Oslash", 217: "Ugrave",
		218: "Uacute", 219: "Ucircumflex", 220: "Udieresis", 221: "Yacute",
		222: "Thorn", 223: "germandbls", 224: "agrave", 225: "aacute",
		226: "acircumflex", 227: "atilde", 228: "adieresis", 229: "aring",
		230: "ae", 231: "ccedilla", 232: "egrave", 233: "eacute",
		234: "ecircumflex", 235: "edieresis", 236: "igrave", 237: "iacute",
		238: "icircumflex", 239: "idieresis", 240: "eth", 241: "ntilde",
		242: "ograve", 243: "oacute", 244: "ocircumflex", 245: "otilde",
		246: "odieresis", 247: "divide", 248: "oslash", 249: "ugrave",
		250: "uacute", 251: "ucircumflex", 252: "udieresis", 253: "yacute",
		254: "thorn", 255: "ydieresis",
	}
	for code, name := range high {
		enc[code] = name
	}
	return enc
}()

// MacRomanEncoding is the Mac OS standard encoding for Latin text.
var MacRomanEncoding = func() [256]string {
	enc := baseASCII()
	high := map[byte]string{
		128: "Adieresis", 129: "Aring", 130: "Ccedilla", 131: "Eacute",
		132: "Ntilde", 133: "Odieresis", 134: "Udieresis", 135: "aacute",
		136: "agrave", 137: "acircumflex", 138: "adieresis", 139: "atilde",
		140: "aring", 141: "ccedilla", 142: "eacute", 143: "egrave",
		144: "ecircumflex", 145: "edieresis", 146: "iacute", 147: "igrave",
		148: "icircumflex", 149: "idieresis", 150: "ntilde", 151: "oacute",
		152: "ograve", 153: "ocircumflex", 154: "odieresis", 155: "otilde",
		156: "uacute", 157: "ugrave", 158: "ucircumflex", 159: "udieresis",
		160: "dagger", 161: "degree", 162: "cent", 163: "sterling",
		164: "section", 165: "bullet", 166: "paragraph", 167: "germandbls",
		168: "registered", 169: "copyright", 170: "trademark", 171: "acute",
		172: "dieresis", 173: "notequal", 174: "AE", 175: "Oslash",
		176: "infinity", 177: "plusminus", 178: "lessequal",
		179: "greaterequal", 180: "yen", 181: "mu", 182: "partialdiff",
		183: "summation", 184: "product", 185: "pi", 186: "integral",
		187: "ordfeminine", 188: "ordmasculine", 189: "Omega", 190: "ae",
		191: "oslash", 192: "questiondown", 193: "exclamdown",
		194: "logicalnot", 195: "radical", 196: "florin",
		197: "approxequal", 198: "Delta", 199: "guillemotleft",
		200: "guillemotright", 201: "ellipsis", 202: "space",
		203: "Agrave", 204: "Atilde", 205: "Otilde", 206: "OE", 207: "oe",
		208: "endash", 209: "emdash", 210: "quotedblleft",
		211: "quotedblright", 212: "quoteleft", 213: "quoteright",
		214: "divide", 215: "lozenge", 216: "ydieresis", 217: "Ydieresis",
		218: "fraction", 219: "currency", 220: "guilsinglleft",
		221: "guilsinglright", 222: "fi", 223: "fl", 224: "daggerdbl",
		225: "periodcentered", 226: "quotesinglbase", 227: "quotedblbase",
		228: "perthousand", 229: "Acircumflex", 230: "Ecircumflex",
		231: "Aacute", 232: "Edieresis", 233: "Egrave", 234: "Iacute",
		235: "Icircumflex", 236: "Idieresis", 237: "Igrave", 238: "Oacute",
		239: "Ocircumflex", 240: "apple", 241: "Ograve", 242: "Uacute",
		243: "Ucircumflex", 244: "Ugrave", 245: "dotlessi",
		246: "circumflex", 247: "tilde", 248: "macron", 249: "breve",
		250: "dotaccent", 251: "ring", 252: "cedilla", 253: "hungarumlaut",
		254: "ogonek", 255: "caron",
	}
	for code, name := range high {
		enc[code] = name
	}
	return enc
}()

// MacExpertEncoding covers the "expert" glyph set: small caps,
// old-style figures, fractions and ornaments.  Only the commonly used
// subset is listed; unlisted codes have no glyph name.
var MacExpertEncoding = func() [256]string {
	var enc [256]string
	entries := map[byte]string{
		32: "space", 33: "exclamsmall", 34: "Hungarumlautsmall",
		36: "dollaroldstyle", 37: "dollarsuperior",
		38: "ampersandsmall", 39: "Acutesmall",
		40: "parenleftsuperior", 41: "parenrightsuperior",
		42: "twodotenleader", 43: "onedotenleader", 44: "comma",
		45: "hyphen", 46: "period", 47: "fraction",
		48: "zerooldstyle", 49: "oneoldstyle", 50: "twooldstyle",
		51: "threeoldstyle", 52: "fouroldstyle", 53: "fiveoldstyle",
		54: "sixoldstyle", 55: "sevenoldstyle", 56: "eightoldstyle",
		57: "nineoldstyle", 58: "colon", 59: "semicolon",
		61: "threequartersemdash", 63: "questionsmall",
		68: "Ethsmall", 71: "onequarter", 72: "onehalf",
		73: "threequarters", 74: "oneeighth", 75: "threeeighths",
		76: "fiveeighths", 77: "seveneighths", 78: "onethird",
		79: "twothirds", 86: "ff", 87: "fi", 88: "fl", 89: "ffi",
		90: "ffl", 91: "parenleftinferior", 93: "parenrightinferior",
		94: "Circumflexsmall", 95: "hypheninferior", 96: "Gravesmall",
		97: "Asmall", 98: "Bsmall", 99: "Csmall", 100: "Dsmall",
		101: "Esmall", 102: "Fsmall", 103: "Gsmall", 104: "Hsmall",
		105: "Ismall", 106: "Jsmall", 107: "Ksmall", 108: "Lsmall",
		109: "Msmall", 110: "Nsmall", 111: "Osmall", 112: "Psmall",
		113: "Qsmall", 114: "Rsmall", 115: "Ssmall", 116: "Tsmall",
		117: "Usmall", 118: "Vsmall", 119: "Wsmall", 120: "Xsmall",
		121: "Ysmall", 122: "Zsmall", 123: "colonmonetary",
		124: "onefitted", 125: "rupiah", 126: "Tildesmall",
	}
	for code, name := range entries {
		enc[code] = name
	}
	return enc
}()

// builtinEncoding returns the named base encoding, or nil.
func builtinEncoding(name string) *[256]string {
	switch name {
	case "StandardEncoding":
		return &StandardEncoding
	case "WinAnsiEncoding":
		return &WinAnsiEncoding
	case "MacRomanEncoding":
		return &MacRomanEncoding
	case "MacExpertEncoding":
		return &MacExpertEncoding
	default:
		return nil
	}
}
