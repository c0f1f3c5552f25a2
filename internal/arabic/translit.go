package arabic

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxVariants bounds the number of query variants produced for one input
	MaxVariants = 20

	maxWordCandidates   = 8
	maxWordsInProduct   = 5
	maxBranchNodes      = 4096
	maxCollectedLeaves  = 64
	maxCandidateCost    = 3
	digraphFallbackCost = 2
	minGluedArticleStem = 3
)

// QueryVariant is one candidate interpretation of a user query: an ordered
// list of normalized tokens. Variants are never modified after creation
type QueryVariant []string

// String joins the tokens with single spaces
func (v QueryVariant) String() string {
	return strings.Join(v, " ")
}

var latinInput = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// IsLatin reports whether s consists only of ASCII letters, whitespace,
// hyphens and apostrophes. Anything else is treated as Arabic input
func IsLatin(s string) bool {
	return latinInput.MatchString(s)
}

type letterOption struct {
	text string
	cost int
}

var digraphs = map[string][]letterOption{
	"kh": {{"خ", 0}},
	"sh": {{"ش", 0}},
	"th": {{"ث", 0}, {"ت", 1}},
	"gh": {{"غ", 0}},
	"dh": {{"ذ", 0}, {"ض", 1}},
	"ch": {{"ش", 0}},
	"zh": {{"ظ", 0}},
}

var vowelDigraphs = map[string][]letterOption{
	"aa": {{"ا", 0}},
	"ee": {{"ي", 0}},
	"ii": {{"ي", 0}},
	"oo": {{"و", 0}},
	"ou": {{"و", 0}},
	"uu": {{"و", 0}},
	"ai": {{"ي", 0}, {"اي", 1}},
	"ay": {{"ي", 0}, {"اي", 1}},
	"aw": {{"و", 0}, {"او", 1}},
	"au": {{"و", 0}, {"او", 1}},
}

var consonants = map[byte][]letterOption{
	'b':  {{"ب", 0}},
	'c':  {{"ك", 0}, {"س", 1}},
	'd':  {{"د", 0}, {"ض", 1}},
	'f':  {{"ف", 0}},
	'g':  {{"ج", 0}, {"غ", 1}},
	'h':  {{"ح", 0}, {"ه", 0}},
	'j':  {{"ج", 0}},
	'k':  {{"ك", 0}, {"ق", 1}},
	'l':  {{"ل", 0}},
	'm':  {{"م", 0}},
	'n':  {{"ن", 0}},
	'p':  {{"ب", 0}},
	'q':  {{"ق", 0}},
	'r':  {{"ر", 0}},
	's':  {{"س", 0}, {"ص", 1}},
	't':  {{"ت", 0}, {"ط", 1}},
	'v':  {{"ف", 0}},
	'w':  {{"و", 0}},
	'x':  {{"كس", 0}},
	'y':  {{"ي", 0}},
	'z':  {{"ز", 0}, {"ظ", 1}},
	'\'': {{"ع", 0}, {"ء", 1}, {"", 1}},
	'-':  {{"", 0}},
}

var (
	initialVowel = []letterOption{{"ا", 0}, {"ع", 1}}
	medialVowels = map[byte][]letterOption{
		'a': {{"", 0}, {"ا", 0}},
		'e': {{"", 0}, {"ي", 1}},
		'i': {{"", 0}, {"ي", 1}},
		'o': {{"", 0}, {"و", 1}},
		'u': {{"", 0}, {"و", 1}},
	}
	finalVowels = map[byte][]letterOption{
		'a': {{"ا", 0}, {"ه", 1}, {"ي", 1}, {"", 2}},
		'e': {{"", 0}, {"ه", 1}, {"ي", 1}},
		'i': {{"ي", 0}},
		'o': {{"و", 0}},
		'u': {{"و", 0}, {"", 1}},
	}
	finalH = []letterOption{{"ه", 0}, {"ح", 1}}
)

type articlePrefix struct {
	latin  string
	arabic string
}

// articlePrefixes is ordered longest first so "wal-" wins over "al-"
var articlePrefixes = []articlePrefix{
	{"wal-", "وال"},
	{"bil-", "بال"},
	{"lil-", "لل"},
	{"ash-", "ال"},
	{"ath-", "ال"},
	{"adh-", "ال"},
	{"al-", "ال"},
	{"el-", "ال"},
	{"ul-", "ال"},
	{"ar-", "ال"},
	{"as-", "ال"},
	{"at-", "ال"},
	{"ad-", "ال"},
	{"az-", "ال"},
	{"an-", "ال"},
}

var standaloneArticles = map[string]bool{"al": true, "el": true, "ul": true}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Transliterate converts Latin-script input into at most MaxVariants
// Arabic query variants. Dictionary spellings are preferred over generated
// ones; generated spellings come from a bounded backtracking search
func Transliterate(latin string) []QueryVariant {
	words := strings.Fields(strings.ToLower(latin))
	if len(words) == 0 {
		return nil
	}

	if spellings, ok := phrases[strings.Join(words, " ")]; ok {
		variants := make([]QueryVariant, 0, len(spellings))
		for _, s := range spellings {
			variants = append(variants, QueryVariant(strings.Fields(s)))
		}
		return variants
	}

	var perWord [][]string
	for i := 0; i < len(words); i++ {
		w := words[i]
		if standaloneArticles[w] && i+1 < len(words) {
			words[i+1] = "al-" + words[i+1]
			continue
		}
		if cands := wordCandidates(w); len(cands) > 0 {
			perWord = append(perWord, cands)
		}
	}
	return crossProduct(perWord)
}

// crossProduct combines per-word candidates into variants, taking at most
// maxWordsInProduct candidates per word and MaxVariants combinations
func crossProduct(perWord [][]string) []QueryVariant {
	if len(perWord) == 0 {
		return nil
	}
	combos := []QueryVariant{{}}
	for _, cands := range perWord {
		if len(cands) > maxWordsInProduct {
			cands = cands[:maxWordsInProduct]
		}
		next := make([]QueryVariant, 0, MaxVariants)
	outer:
		for _, prefix := range combos {
			for _, c := range cands {
				if len(next) >= MaxVariants {
					break outer
				}
				v := make(QueryVariant, 0, len(prefix)+1)
				v = append(v, prefix...)
				v = append(v, strings.Fields(c)...)
				next = append(next, v)
			}
		}
		combos = next
	}

	seen := make(map[string]struct{}, len(combos))
	out := combos[:0]
	for _, v := range combos {
		key := v.String()
		if _, dup := seen[key]; dup || len(v) == 0 {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// wordCandidates returns up to maxWordCandidates normalized Arabic
// spellings for one lowercase Latin word
func wordCandidates(word string) []string {
	if spellings, ok := dictionary[word]; ok {
		return spellings
	}

	prefix, stem := splitArticle(word)
	var stems []string
	if spellings, ok := dictionary[stem]; ok && prefix != "" {
		stems = spellings
	} else {
		stems = generate(stem)
	}

	out := make([]string, 0, len(stems))
	seen := make(map[string]struct{}, len(stems))
	for _, s := range stems {
		candidate := s
		if prefix != "" && !strings.HasPrefix(s, "ال") {
			candidate = prefix + s
		}
		candidate = Normalize(candidate)
		if candidate == "" {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
		if len(out) == maxWordCandidates {
			break
		}
	}
	return out
}

// splitArticle separates a recognized Latin article from the stem
func splitArticle(word string) (string, string) {
	for _, p := range articlePrefixes {
		if strings.HasPrefix(word, p.latin) && len(word) > len(p.latin) {
			return p.arabic, word[len(p.latin):]
		}
	}
	if strings.HasPrefix(word, "al") && len(word)-2 >= minGluedArticleStem && !isVowel(word[2]) {
		return "ال", word[2:]
	}
	return "", word
}

type leaf struct {
	text string
	cost int
	seq  int
}

// generate runs a cost-bounded backtracking search over the letter tables.
// Exploration stops after maxBranchNodes calls or maxCollectedLeaves leaves;
// the cheapest maxWordCandidates spellings are returned. The first path
// explored always uses every position's cheapest option, so at least one
// spelling is produced for any non-empty word of letters
func generate(stem string) []string {
	if stem == "" {
		return nil
	}
	var (
		leaves []leaf
		nodes  int
		buf    []string
	)

	var walk func(i, cost int)
	walk = func(i, cost int) {
		nodes++
		if nodes > maxBranchNodes || len(leaves) >= maxCollectedLeaves {
			return
		}
		if i >= len(stem) {
			text := strings.Join(buf, "")
			if text != "" {
				leaves = append(leaves, leaf{text: text, cost: cost, seq: len(leaves)})
			}
			return
		}
		for _, step := range optionsAt(stem, i) {
			c := cost + step.cost
			if c > maxCandidateCost {
				continue
			}
			buf = append(buf, step.text)
			walk(i+step.width, c)
			buf = buf[:len(buf)-1]
		}
	}
	walk(0, 0)

	sort.SliceStable(leaves, func(a, b int) bool {
		if leaves[a].cost != leaves[b].cost {
			return leaves[a].cost < leaves[b].cost
		}
		return leaves[a].seq < leaves[b].seq
	})

	out := make([]string, 0, maxWordCandidates)
	seen := make(map[string]struct{}, maxWordCandidates)
	for _, l := range leaves {
		if _, dup := seen[l.text]; dup {
			continue
		}
		seen[l.text] = struct{}{}
		out = append(out, l.text)
		if len(out) == maxWordCandidates {
			break
		}
	}
	return out
}

type step struct {
	text  string
	width int
	cost  int
}

// optionsAt lists the mappings for the Latin text at position i. Two-letter
// units come first; single-letter fallbacks at a digraph position carry an
// extra cost so the digraph reading ranks ahead
func optionsAt(word string, i int) []step {
	var out []step
	c := word[i]
	initial := i == 0
	final := i == len(word)-1

	penalty := 0
	if i+1 < len(word) {
		pair := word[i : i+2]
		if opts, ok := digraphs[pair]; ok {
			for _, o := range opts {
				out = append(out, step{o.text, 2, o.cost})
			}
			penalty = digraphFallbackCost
		} else if opts, ok := vowelDigraphs[pair]; ok {
			if initial {
				for _, o := range initialVowel {
					out = append(out, step{o.text, 2, o.cost})
				}
			} else {
				for _, o := range opts {
					out = append(out, step{o.text, 2, o.cost})
				}
			}
			penalty = digraphFallbackCost
		}
	}

	// doubled consonants are written once (shadda)
	if i > 0 && word[i-1] == c && !isVowel(c) && c != '\'' && c != '-' {
		out = append(out, step{"", 1, penalty})
	}

	var singles []letterOption
	switch {
	case isVowel(c) && initial:
		singles = initialVowel
	case isVowel(c) && final:
		singles = finalVowels[c]
	case isVowel(c):
		singles = medialVowels[c]
	case c == 'h' && final:
		singles = finalH
	default:
		singles = consonants[c]
	}
	for _, o := range singles {
		out = append(out, step{o.text, 1, o.cost + penalty})
	}
	return out
}
