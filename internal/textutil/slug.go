package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugReplacer = strings.NewReplacer(
	"&", "and",
	"-", " ",
)

// Slug lowercases title, replaces "&" with "and" and "-" with a space, strips
// every rune that is not a letter, number, underscore or whitespace, and
// joins the remaining words with single underscores.
func Slug(title string) string {
	lowered := cases.Lower(language.Und).String(title)
	replaced := slugReplacer.Replace(lowered)
	var b strings.Builder
	b.Grow(len(replaced))
	for _, r := range replaced {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
