package arabic

import "strings"

// Affix lists are in normalized form and ordered longest first so the most
// specific affix is tried before its shorter tails
var (
	rootPrefixes = []string{
		"وبال", "فبال", "وال", "فال", "بال", "كال", "لل", "ال",
		"و", "ف", "ب", "ك", "ل",
	}
	rootSuffixes = []string{
		"هما", "كما", "تان", "تين", "ات", "ان", "ين", "ون", "وا",
		"ها", "هم", "هن", "كم", "كن", "نا", "يه", "ته", "ه", "ي", "ك",
	}
)

// verbEnding is the plural verb ending (waw followed by the separating alef)
const verbEnding = "وا"

const shortWordRunes = 4

// derivationPrefixes produce imperfect verb and mim-noun forms of a
// triliteral stem, e.g. كتب -> مكتب, يكتب, تكتب, نكتب
var derivationPrefixes = []string{"م", "ي", "ت", "ن"}

// ExpandRoot returns token followed by the variants obtained by stripping
// one known prefix, one known suffix, or a prefix and a suffix together.
// An affix is only stripped when the remaining stem is at least two
// characters longer than the affix. Results are unique, non-empty and in
// first-seen order
func ExpandRoot(token string) []string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	out := newOrderedSet(token)

	for _, p := range rootPrefixes {
		if stem, ok := stripPrefix(token, p); ok {
			out.add(stem)
		}
	}
	for _, s := range rootSuffixes {
		if stem, ok := stripSuffix(token, s); ok {
			out.add(stem)
		}
	}
	for _, p := range rootPrefixes {
		stem, ok := stripPrefix(token, p)
		if !ok {
			continue
		}
		for _, s := range rootSuffixes {
			if core, ok := stripSuffix(stem, s); ok {
				out.add(core)
			}
		}
	}
	return out.items
}

// Family returns ExpandRoot(token) plus, for every triliteral member,
// the imperfect and participle pattern forms that a prefix search on the
// bare root would otherwise miss (مكتبة, يكتب, كاتب for كتب)
func Family(token string) []string {
	members := ExpandRoot(token)
	if len(members) == 0 {
		return nil
	}
	out := newOrderedSet(members...)
	for _, m := range members {
		runes := []rune(m)
		if len(runes) != 3 {
			continue
		}
		for _, p := range derivationPrefixes {
			out.add(p + m)
		}
		out.add(string([]rune{runes[0], Alef, runes[1], runes[2]}))
	}
	return out.items
}

// VerbEndingVariants returns token plus its plural-verb alternation:
// tokens ending in وا gain a form without it, short tokens lacking it
// gain a form with it appended
func VerbEndingVariants(token string) []string {
	out := newOrderedSet(token)
	if strings.HasSuffix(token, verbEnding) {
		if stem := strings.TrimSuffix(token, verbEnding); runeLen(stem) >= 2 {
			out.add(stem)
		}
	} else if n := runeLen(token); n >= 2 && n <= shortWordRunes {
		out.add(token + verbEnding)
	}
	return out.items
}

// AlternateVerbEnding returns the alternation of token, or token itself
// when none applies
func AlternateVerbEnding(token string) string {
	if v := VerbEndingVariants(token); len(v) > 1 {
		return v[1]
	}
	return token
}

func stripPrefix(token, prefix string) (string, bool) {
	if !strings.HasPrefix(token, prefix) {
		return "", false
	}
	stem := strings.TrimPrefix(token, prefix)
	if runeLen(stem) < runeLen(prefix)+2 {
		return "", false
	}
	return stem, true
}

func stripSuffix(token, suffix string) (string, bool) {
	if !strings.HasSuffix(token, suffix) {
		return "", false
	}
	stem := strings.TrimSuffix(token, suffix)
	if runeLen(stem) < runeLen(suffix)+2 {
		return "", false
	}
	return stem, true
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet(initial ...string) *orderedSet {
	s := &orderedSet{seen: make(map[string]struct{})}
	for _, v := range initial {
		s.add(v)
	}
	return s
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
