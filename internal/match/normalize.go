package match

import (
	"strings"
	"unicode"
)

// NormalizeName folds a Fusion name to its lower-case words without
// separators, so "Acme.Site:BlogPost", "acme_site_blog-post" and
// "AcmeSiteBlogPost" compare equal.
func NormalizeName(s string) string {
	return strings.Join(Words(s), "")
}

// Words splits a name into lower-case words. Namespace dots, the package
// colon, the meta "@" and the usual identifier separators end a word, and so
// does a change of case or between letters and digits:
//
//	"Acme.Site:BlogPost" -> [acme site blog post]
//	"@position"          -> [position]
//	"HTMLTag2"           -> [html tag 2]
func Words(s string) []string {
	var (
		words   []string
		current []rune
	)

	flush := func() {
		if len(current) == 0 {
			return
		}

		words = append(words, strings.ToLower(string(current)))
		current = current[:0]
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && wordBoundary(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return words
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.', ':', '@':
		return true
	default:
		return false
	}
}

// wordBoundary reports whether runes[i] starts a new word. runes[i] is not a
// separator.
func wordBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]

	switch {
	case isSeparator(prev):
		return false
	case unicode.IsDigit(r) != unicode.IsDigit(prev):
		return true
	case unicode.IsUpper(r) && !unicode.IsUpper(prev):
		return true
	case unicode.IsUpper(r) && unicode.IsUpper(prev):
		// last capital of an acronym followed by a lower-case word: "HTMLTag"
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	default:
		return false
	}
}
