package model

import (
	"strings"
	"unicode"
)

// fsLookalikes maps characters that are reserved on at least one common
// filesystem to visually similar characters that are safe everywhere.
var fsLookalikes = map[rune]rune{
	'/':  '∕', // U+2215 DIVISION SLASH
	'\\': '⧵', // U+29F5 REVERSE SOLIDUS OPERATOR
	':':  '꞉', // U+A789 MODIFIER LETTER COLON
	'*':  '∗', // U+2217 ASTERISK OPERATOR
	'?':  '？', // U+FF1F FULLWIDTH QUESTION MARK
	'"':  '＂', // U+FF02 FULLWIDTH QUOTATION MARK
	'<':  '＜', // U+FF1C FULLWIDTH LESS-THAN SIGN
	'>':  '＞', // U+FF1E FULLWIDTH GREATER-THAN SIGN
	'|':  'ǀ', // U+01C0 LATIN LETTER DENTAL CLICK
}

// trailingFiller is appended to names ending in a dot or space, which
// Windows silently strips.
const trailingFiller = "_"

// MakeFSSafe turns an arbitrary title into a single path component that is
// valid on Linux, macOS and Windows while staying readable.
//
// Unlike a plain sanitizer it does not drop information: reserved
// characters are swapped for lookalikes instead of underscores.
//
//   - / \ : * ? " < > | are replaced with Unicode lookalikes
//   - control characters are removed
//   - a trailing dot or space gets a filler character appended
//   - an empty result becomes the filler character
//
// Example:
//
//	MakeFSSafe("AC/DC: Back In Black?") // "AC∕DC꞉ Back In Black？"
//	MakeFSSafe("Vol. 2.")               // "Vol. 2._"
func MakeFSSafe(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if sub, ok := fsLookalikes[r]; ok {
			b.WriteRune(sub)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	safe := b.String()
	if safe == "" {
		return trailingFiller
	}
	if strings.HasSuffix(safe, ".") || strings.HasSuffix(safe, " ") {
		safe += trailingFiller
	}
	return safe
}
