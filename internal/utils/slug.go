package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	separatorRun  = regexp.MustCompile(`[-_]{2,}`)
)

// SlugifyFilename converts a product name to a filename safe on every
// supported platform: whitespace becomes "-", illegal characters are
// stripped, separator runs collapse. Unicode input is NFC-normalized first
// so visually identical names map to the same file.
func SlugifyFilename(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return "unnamed-product"
	}

	name = whitespaceRun.ReplaceAllString(name, "-")
	name = illegalChars.ReplaceAllString(name, "")
	name = separatorRun.ReplaceAllString(name, "-")
	name = strings.TrimFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})

	if name == "" {
		return "unnamed-product"
	}
	return name
}
