// Package query turns normalized query tokens into the full-text engine's
// query syntax: quoted phrases, OR-joined quoted terms, and OR-joined
// quoted prefix terms.
package query

import (
	"strings"

	"github.com/maktaba-search-api/internal/arabic"
)

// Mode selects how tokens become an engine query string
type Mode string

const (
	// ModeExact matches the literal phrase only
	ModeExact Mode = "exact"
	// ModeWord matches any token independently
	ModeWord Mode = "word"
	// ModeRoot matches any inflected form sharing a stripped root
	ModeRoot Mode = "root"
)

// Modes lists every supported mode
var Modes = []Mode{ModeExact, ModeWord, ModeRoot}

// ParseMode maps a user-supplied mode name onto a Mode
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeExact:
		return ModeExact, true
	case ModeWord:
		return ModeWord, true
	case ModeRoot:
		return ModeRoot, true
	}
	return "", false
}

// Separator joins alternative units in word and root modes
const Separator = " OR "

// PrefixMarker follows a quoted unit to permit prefix matches
const PrefixMarker = "*"

// Build renders tokens as an engine query string for mode. Callers must
// reject blank input before calling Build; for any non-empty token list
// the result is non-empty
func Build(tokens []string, mode Mode) string {
	clean := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return ""
	}

	switch mode {
	case ModeWord:
		units := make([]string, 0, len(clean))
		for _, t := range uniq(clean) {
			units = append(units, quote(t))
		}
		return strings.Join(units, Separator)
	case ModeRoot:
		var family []string
		for _, t := range clean {
			family = append(family, arabic.Family(t)...)
		}
		units := make([]string, 0, len(family))
		for _, f := range uniq(family) {
			units = append(units, quote(f)+PrefixMarker)
		}
		return strings.Join(units, Separator)
	default:
		return quote(strings.Join(clean, " "))
	}
}

// quote wraps s in double quotes, doubling any embedded quote
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
