// Package references detects scripture-verse and catalog-work citations in
// free text and rewrites them as hyperlinks. Text outside a recognized
// citation is never altered, and citations already inside an anchor are
// left alone so linking the same text twice is stable.
package references

import (
	"fmt"
	"regexp"
	"strings"
)

// verseKeyword matches the word for "verse" in its common spellings
const verseKeyword = `(?:الآية|الاية|الايه|الآيه|آية|اية|آيه|ايه)`

var (
	// chapterByName maps every surface form to its chapter number. When two
	// chapters share a form the earlier chapter keeps it
	chapterByName = map[string]int{}
	// maxVerse is indexed by chapter number
	maxVerse = make([]int, len(chapters)+1)

	versePatterns []*regexp.Regexp
)

func init() {
	var names []string
	for _, c := range chapters {
		maxVerse[c.number] = c.maxVerse
		for _, n := range append([]string{c.name}, c.aliases...) {
			for _, form := range surfaceForms(n, true) {
				if _, taken := chapterByName[form]; taken {
					continue
				}
				chapterByName[form] = c.number
				names = append(names, form)
			}
		}
	}

	name := `(?:سورة\s+|سوره\s+)?(?P<name>` + alternation(names) + `)`
	verse := `(?P<verse>` + numberPattern + `)(?:` + rangeSep + `(?P<end>` + numberPattern + `))?`
	chapterNo := `(?P<chapter>` + numberPattern + `)`

	for _, p := range []string{
		name + `\s*\(\s*` + chapterNo + `\s*\)\s*:\s*` + verse,
		name + `\s*[،,]\s*` + verseKeyword + `\s*:?\s*` + verse,
		name + `\s+` + verseKeyword + `\s*` + verse,
		`\(\s*` + name + `\s*:\s*` + verse + `\s*\)`,
		name + `\s+(?P<verse>` + numberPattern + `)\s*/\s*` + chapterNo,
	} {
		versePatterns = append(versePatterns, regexp.MustCompile(p))
	}
}

// VerseLinker links scripture-verse citations to a verse viewer
type VerseLinker struct {
	baseURL string
}

// NewVerseLinker returns a linker producing {baseURL}/{chapter}/{verse} targets
func NewVerseLinker(baseURL string) *VerseLinker {
	return &VerseLinker{baseURL: strings.TrimRight(baseURL, "/")}
}

// Find returns the valid verse citations in text ordered by position
func (l *VerseLinker) Find(text string) []Reference {
	return l.find(text, newSpanSet(text))
}

// Link rewrites every valid verse citation in text as an anchor
func (l *VerseLinker) Link(text string) (string, []Reference) {
	refs := l.Find(text)
	return rewrite(text, refs), refs
}

func (l *VerseLinker) find(text string, spans *spanSet) []Reference {
	var cands []candidate
	for i, re := range versePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if !spans.free(start, end) {
				continue
			}
			if !letterBoundary(text, start, end) {
				cands = append(cands, candidate{start: start, end: end, order: i})
				continue
			}
			ref, ok := l.resolve(text, re, m)
			cands = append(cands, candidate{start: start, end: end, order: i, ref: ref, valid: ok})
		}
	}
	return selectCandidates(cands, spans)
}

// resolve validates one candidate match against the chapter tables
func (l *VerseLinker) resolve(text string, re *regexp.Regexp, m []int) (Reference, bool) {
	group := func(name string) string {
		i := re.SubexpIndex(name)
		if i < 0 || m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	chapter, ok := chapterByName[group("name")]
	if !ok {
		return Reference{}, false
	}
	if c := group("chapter"); c != "" {
		if n, ok := parseNumber(c); !ok || n != chapter {
			return Reference{}, false
		}
	}
	verse, ok := parseNumber(group("verse"))
	if !ok || verse < 1 || verse > maxVerse[chapter] {
		return Reference{}, false
	}
	verseEnd := verse
	if e := group("end"); e != "" {
		if verseEnd, ok = parseNumber(e); !ok || verseEnd < verse || verseEnd > maxVerse[chapter] {
			return Reference{}, false
		}
	}

	ref := Reference{
		Kind:        KindVerse,
		UnitID:      chapter,
		Unit:        verse,
		DisplayText: text[m[0]:m[1]],
		TargetURL:   fmt.Sprintf("%s/%d/%d", l.baseURL, chapter, verse),
	}
	if verseEnd != verse {
		ref.UnitEnd = verseEnd
		ref.TargetURL = fmt.Sprintf("%s/%d/%d-%d", l.baseURL, chapter, verse, verseEnd)
	}
	return ref, true
}

// ChapterNumber returns the chapter number for a chapter name in any of its
// recognized spellings
func ChapterNumber(name string) (int, bool) {
	n, ok := chapterByName[strings.TrimSpace(name)]
	return n, ok
}
