package references

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/maktaba-search-api/internal/arabic"
)

// numberPattern matches ASCII, Arabic-Indic and extended Arabic-Indic digits
const numberPattern = `[0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}]+`

// rangeSep separates the ends of a range
const rangeSep = `\s*[-\x{2013}\x{2014}]\s*`

// existingAnchor matches an anchor already present in the text
var existingAnchor = regexp.MustCompile(`(?is)<a\b[^>]*>.*?</a>`)

// parseNumber converts a run of digits in any supported script to an int
func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		default:
			return 0, false
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// surfaceForms returns name plus its spellings with plain alef for
// hamza-bearing alefs, with heh for a final teh marbuta and with yeh for a
// final alef maksura, in every combination. With dropArticle the forms
// without a leading definite article are included too
func surfaceForms(name string, dropArticle bool) []string {
	forms := []string{name}
	if rest, ok := strings.CutPrefix(name, "ال"); ok && dropArticle && utf8.RuneCountInString(rest) >= 2 {
		forms = append(forms, rest)
	}

	folds := []func(string) string{foldHamza, foldTehMarbuta, foldAlefMaksura}
	for _, fold := range folds {
		for _, f := range forms {
			forms = append(forms, fold(f))
		}
	}
	return uniqueStrings(forms)
}

var hamzaAlefs = strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا", "ٱ", "ا")

func foldHamza(s string) string { return hamzaAlefs.Replace(s) }

func foldTehMarbuta(s string) string {
	if rest, ok := strings.CutSuffix(s, "ة"); ok {
		return rest + "ه"
	}
	return s
}

func foldAlefMaksura(s string) string {
	if rest, ok := strings.CutSuffix(s, "ى"); ok {
		return rest + "ي"
	}
	return s
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// alternation quotes names and joins them longest first so a longer name
// wins over its own prefix
func alternation(names []string) string {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, n := range sorted {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return strings.Join(quoted, "|")
}

// letterBoundary reports whether the match [start, end) is not glued to a
// letter before it or to a digit or slash after it. A match opening with
// punctuation may follow a letter
func letterBoundary(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:])
	if start > 0 && isLetter(first) {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isLetter(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isDigit(r) {
			return false
		}
		if r, _ := utf8.DecodeRuneInString(strings.TrimLeft(text[end:], " ")); r == '/' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return arabic.IsArabicLetter(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= '٠' && r <= '٩') || (r >= '۰' && r <= '۹')
}
