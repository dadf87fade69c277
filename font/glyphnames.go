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

import (
	"strconv"
	"strings"
)

// GlyphToRune maps a glyph name to its Unicode value, following the
// Adobe Glyph List conventions: a lookup in the glyph list, then the
// uniXXXX and uXXXX[XX] forms, then name suffixes like ".sc" are
// stripped and the lookup is retried.  The second return value is false
// if no mapping exists.
func GlyphToRune(name string) (rune, bool) {
	if r, ok := glyphList[name]; ok {
		return r, true
	}

	if rest, ok := strings.CutPrefix(name, "uni"); ok && len(rest) >= 4 {
		if v, err := strconv.ParseUint(rest[:4], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if rest, ok := strings.CutPrefix(name, "u"); ok &&
		len(rest) >= 4 && len(rest) <= 6 {
		if v, err := strconv.ParseUint(rest, 16, 32); err == nil && v <= 0x10FFFF {
			return rune(v), true
		}
	}

	if idx := strings.IndexByte(name, '.'); idx > 0 {
		return GlyphToRune(name[:idx])
	}

	return 0, false
}

// glyphList is the subset of the Adobe Glyph List covering the glyph
// names used by the built-in encodings.
var glyphList = func() map[string]rune {
	m := map[string]rune{
		"quotesingle": '\'', "quoteright": '’', "quoteleft": '‘',
		"quotedblleft": '“', "quotedblright": '”',
		"quotesinglbase": '‚', "quotedblbase": '„',
		"grave": '`', "exclamdown": '¡', "cent": '¢',
		"sterling": '£', "fraction": '⁄', "yen": '¥',
		"florin": 'ƒ', "section": '§', "currency": '¤',
		"guillemotleft": '«', "guillemotright": '»',
		"guilsinglleft": '‹', "guilsinglright": '›',
		"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ',
		"ffi": 'ﬃ', "ffl": 'ﬄ',
		"endash": '–', "emdash": '—',
		"dagger": '†', "daggerdbl": '‡',
		"periodcentered": '·', "paragraph": '¶',
		"bullet": '•', "ellipsis": '…',
		"perthousand": '‰', "questiondown": '¿',
		"acute": '´', "circumflex": 'ˆ', "tilde": '˜',
		"macron": '¯', "breve": '˘', "dotaccent": '˙',
		"dieresis": '¨', "ring": '˚', "cedilla": '¸',
		"hungarumlaut": '˝', "ogonek": '˛', "caron": 'ˇ',
		"Lslash": 'Ł', "lslash": 'ł',
		"Oslash": 'Ø', "oslash": 'ø',
		"OE": 'Œ', "oe": 'œ', "AE": 'Æ', "ae": 'æ',
		"ordfeminine": 'ª', "ordmasculine": 'º',
		"dotlessi": 'ı', "germandbls": 'ß',
		"Euro": '€', "Scaron": 'Š', "scaron": 'š',
		"Zcaron": 'Ž', "zcaron": 'ž',
		"Ydieresis": 'Ÿ', "ydieresis": 'ÿ',
		"trademark": '™', "brokenbar": '¦',
		"copyright": '©', "logicalnot": '¬',
		"hyphen": '-', "registered": '®', "degree": '°',
		"plusminus": '±', "twosuperior": '²',
		"threesuperior": '³', "mu": 'µ',
		"onesuperior": '¹', "onequarter": '¼',
		"onehalf": '½', "threequarters": '¾',
		"multiply": '×', "divide": '÷',
		"Eth": 'Ð', "eth": 'ð',
		"Thorn": 'Þ', "thorn": 'þ',
		"notequal": '≠', "infinity": '∞',
		"lessequal": '≤', "greaterequal": '≥',
		"partialdiff": '∂', "summation": '∑',
		"product": '∏', "pi": 'π', "integral": '∫',
		"Omega": 'Ω', "radical": '√',
		"approxequal": '≈', "Delta": 'Δ',
		"lozenge": '◊', "apple": '',
		"nbspace": ' ', "space": ' ',
	}

	// the ASCII names map to themselves
	ascii := map[string]rune{
		"exclam": '!', "quotedbl": '"', "numbersign": '#', "dollar": '$',
		"percent": '%', "ampersand": '&', "parenleft": '(',
		"parenright": ')', "asterisk": '*', "plus": '+', "comma": ',',
		"period": '.', "slash": '/', "zero": '0', "one": '1', "two": '2',
		"three": '3', "four": '4', "five": '5', "six": '6', "seven": '7',
		"eight": '8', "nine": '9', "colon": ':', "semicolon": ';',
		"less": '<', "equal": '=', "greater": '>', "question": '?',
		"at": '@', "bracketleft": '[', "backslash": '\\',
		"bracketright": ']', "asciicircum": '^', "underscore": '_',
		"braceleft": '{', "bar": '|', "braceright": '}',
		"asciitilde": '~',
	}
	for name, r := range ascii {
		m[name] = r
	}
	for r := 'A'; r <= 'Z'; r++ {
		m[string(r)] = r
		m[string(r+32)] = r + 32
	}

	accented := map[string]rune{
		"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â',
		"Atilde": 'Ã', "Adieresis": 'Ä', "Aring": 'Å',
		"Ccedilla": 'Ç', "Egrave": 'È', "Eacute": 'É',
		"Ecircumflex": 'Ê', "Edieresis": 'Ë',
		"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î',
		"Idieresis": 'Ï', "Ntilde": 'Ñ', "Ograve": 'Ò',
		"Oacute": 'Ó', "Ocircumflex": 'Ô', "Otilde": 'Õ',
		"Odieresis": 'Ö', "Ugrave": 'Ù', "Uacute": 'Ú',
		"Ucircumflex": 'Û', "Udieresis": 'Ü',
		"Yacute": 'Ý',
		"agrave": 'à', "aacute": 'á', "acircumflex": 'â',
		"atilde": 'ã', "adieresis": 'ä', "aring": 'å',
		"ccedilla": 'ç', "egrave": 'è', "eacute": 'é',
		"ecircumflex": 'ê', "edieresis": 'ë',
		"igrave": 'ì', "iacute": 'í', "icircumflex": 'î',
		"idieresis": 'ï', "ntilde": 'ñ', "ograve": 'ò',
		"oacute": 'ó', "ocircumflex": 'ô', "otilde": 'õ',
		"odieresis": 'ö', "ugrave": 'ù', "uacute": 'ú',
		"ucircumflex": 'û', "udieresis": 'ü',
		"yacute": 'ý',
	}
	for name, r := range accented {
		m[name] = r
	}

	return m
}()
