package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var wordRE = regexp.MustCompile(`[a-z0-9']+`)

// foldTransform decomposes and strips combining marks so accented input
// ("éstressé") matches plain keyword stems.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeText strips HTML tags and entities from user-supplied message text
// and collapses whitespace.
func SanitizeText(s string) string {
	// Decode entities first (e.g. &lt; -> <) so tags are recognized
	s = html.UnescapeString(s)

	p := bluemonday.StripTagsPolicy()
	s = p.Sanitize(s)

	// bluemonday may re-escape entities; decode again for plain text
	s = html.UnescapeString(s)

	return strings.Join(strings.Fields(s), " ")
}

// FoldAccents removes diacritics from a string.
func FoldAccents(s string) string {
	out, _, err := transform.String(foldTransform, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize lowercases, folds accents and splits text into word tokens.
func Tokenize(s string) []string {
	s = FoldAccents(strings.ToLower(s))
	return wordRE.FindAllString(s, -1)
}
