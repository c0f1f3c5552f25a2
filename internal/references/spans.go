package references

import (
	"html"
	"sort"
	"strings"
)

// Reference is one citation found in text. For verses UnitID is the chapter
// and Unit the verse; for catalog works UnitID is the work, SubUnit the
// volume and Unit the page. UnitEnd is set for ranges
type Reference struct {
	Kind        string `json:"kind"`
	UnitID      int    `json:"unitId"`
	SubUnit     int    `json:"subUnit"`
	Unit        int    `json:"unit"`
	UnitEnd     int    `json:"unitEnd,omitempty"`
	DisplayText string `json:"displayText"`
	TargetURL   string `json:"targetUrl"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Reference kinds
const (
	KindVerse   = "verse"
	KindCatalog = "catalog"
)

// spanSet tracks accepted byte ranges so later patterns cannot claim text
// an earlier pattern already matched
type spanSet struct {
	blocked [][2]int
}

func newSpanSet(text string) *spanSet {
	s := &spanSet{}
	for _, loc := range existingAnchor.FindAllStringIndex(text, -1) {
		s.blocked = append(s.blocked, [2]int{loc[0], loc[1]})
	}
	return s
}

func (s *spanSet) free(start, end int) bool {
	for _, b := range s.blocked {
		if start < b[1] && b[0] < end {
			return false
		}
	}
	return true
}

func (s *spanSet) claim(start, end int) {
	s.blocked = append(s.blocked, [2]int{start, end})
}

// sortByStart orders refs by their start offset
func sortByStart(refs []Reference) []Reference {
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
	return refs
}

// rewrite replaces each reference span with an anchor; text outside the
// spans is copied unchanged
func rewrite(text string, refs []Reference) string {
	if len(refs) == 0 {
		return text
	}
	sorted := append([]Reference(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	b.Grow(len(text) + len(sorted)*64)
	last := 0
	for _, r := range sorted {
		b.WriteString(text[last:r.Start])
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(r.TargetURL))
		b.WriteString(`" class="`)
		b.WriteString(anchorClass(r.Kind))
		b.WriteString(`">`)
		b.WriteString(text[r.Start:r.End])
		b.WriteString(`</a>`)
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func anchorClass(kind string) string {
	if kind == KindVerse {
		return "quran-ref"
	}
	return "book-ref"
}

// candidate is one pattern match before overlaps are resolved. order is the
// pattern's position; valid is false when validation or the word boundary failed
type candidate struct {
	start, end int
	order      int
	ref        Reference
	valid      bool
}

// selectCandidates resolves overlaps leftmost first, preferring the longer
// match at an equal start and then the earlier pattern. A selected invalid
// candidate consumes its text without producing a reference
func selectCandidates(cands []candidate, spans *spanSet) []Reference {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end > b.end
		}
		return a.order < b.order
	})

	var refs []Reference
	for _, c := range cands {
		if !spans.free(c.start, c.end) {
			continue
		}
		spans.claim(c.start, c.end)
		if c.valid {
			c.ref.Start, c.ref.End = c.start, c.end
			refs = append(refs, c.ref)
		}
	}
	return refs
}
