package provider

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// ErrNotText is returned by ReadText for content that is not UTF-8 text.
var ErrNotText = errors.New("not a UTF-8 text file")

func checkText(content []byte) error {
	if !utf8.Valid(content) || isBinaryFile(content) {
		return ErrNotText
	}
	return nil
}

// isBinaryFile checks if content is likely binary by sampling the first 100 runes
// and checking if they are printable Unicode characters.
func isBinaryFile(content []byte) bool {
	const sampleSize = 100
	var nonPrintable int
	var totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	if totalRunes == 0 {
		return false
	}
	return float64(nonPrintable)/float64(totalRunes) > 0.1
}
