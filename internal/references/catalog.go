package references

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Work is one catalog work that citations may name
type Work struct {
	ID            int      `yaml:"id"`
	Names         []string `yaml:"names"`
	DefaultVolume int      `yaml:"default_volume"`
	MaxVolume     int      `yaml:"max_volume"`
}

type catalogFile struct {
	Works []Work `yaml:"works"`
}

// citationShape is one volume/page layout following a work name
type citationShape struct {
	pattern string
	// hasVolume is false when the volume comes from the work's default
	hasVolume bool
}

var citationShapes = func() []citationShape {
	page := `(?P<page>` + numberPattern + `)(?:` + rangeSep + `(?P<end>` + numberPattern + `))?`
	volume := `(?P<volume>` + numberPattern + `)`
	return []citationShape{
		{pattern: `\s*[،,]?\s*ج\s*\.?\s*` + volume + `\s*[،,]?\s*ص\s*\.?\s*` + page, hasVolume: true},
		{pattern: `\s*:\s*` + volume + `\s*/\s*` + page, hasVolume: true},
		{pattern: `\s*[،,]?\s*ص\s*\.?\s*` + page},
		{pattern: `\s+(?P<page>` + numberPattern + `)\s*/\s*` + volume, hasVolume: true},
		{pattern: `\s*:\s*` + page},
	}
}()

// workPattern is one compiled citation shape for one work
type workPattern struct {
	work      Work
	re        *regexp.Regexp
	hasVolume bool
}

var defaultWorks = mustParseCatalog(catalogYAML)

// ParseCatalog reads a catalog table in the embedded YAML layout
func ParseCatalog(data []byte) ([]Work, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, w := range f.Works {
		if w.ID <= 0 || len(w.Names) == 0 {
			return nil, fmt.Errorf("parse catalog: work %d needs an id and at least one name", i)
		}
		if w.DefaultVolume <= 0 {
			f.Works[i].DefaultVolume = 1
		}
		if w.MaxVolume < f.Works[i].DefaultVolume {
			f.Works[i].MaxVolume = f.Works[i].DefaultVolume
		}
	}
	return f.Works, nil
}

func mustParseCatalog(data []byte) []Work {
	works, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return works
}

// CatalogLinker links catalog-work citations to the reader's page URLs
type CatalogLinker struct {
	baseURL  string
	patterns []workPattern
}

// NewCatalogLinker returns a linker over the embedded catalog producing
// {baseURL}/book/{work}/{volume}/{page} targets
func NewCatalogLinker(baseURL string) *CatalogLinker {
	return NewCatalogLinkerWithWorks(baseURL, defaultWorks)
}

// NewCatalogLinkerWithWorks returns a linker over works, matched in order
func NewCatalogLinkerWithWorks(baseURL string, works []Work) *CatalogLinker {
	l := &CatalogLinker{baseURL: strings.TrimRight(baseURL, "/")}
	for _, w := range works {
		var names []string
		for _, n := range w.Names {
			names = append(names, surfaceForms(n, false)...)
		}
		name := `(?i)(?P<name>` + alternation(uniqueStrings(names)) + `)`
		for _, shape := range citationShapes {
			l.patterns = append(l.patterns, workPattern{
				work:      w,
				re:        regexp.MustCompile(name + shape.pattern),
				hasVolume: shape.hasVolume,
			})
		}
	}
	return l
}

// Find returns the valid catalog citations in text ordered by position
func (l *CatalogLinker) Find(text string) []Reference {
	return l.find(text, newSpanSet(text))
}

// Link rewrites every valid catalog citation in text as an anchor
func (l *CatalogLinker) Link(text string) (string, []Reference) {
	refs := l.Find(text)
	return rewrite(text, refs), refs
}

// find gathers matches of every work before resolving overlaps, so a name
// that ends another work's longer name (الوسائل in مستدرك الوسائل) loses to it
func (l *CatalogLinker) find(text string, spans *spanSet) []Reference {
	var cands []candidate
	for i, p := range l.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if !spans.free(start, end) {
				continue
			}
			if !letterBoundary(text, start, end) {
				cands = append(cands, candidate{start: start, end: end, order: i})
				continue
			}
			ref, ok := l.resolve(text, p, m)
			cands = append(cands, candidate{start: start, end: end, order: i, ref: ref, valid: ok})
		}
	}
	return selectCandidates(cands, spans)
}

func (l *CatalogLinker) resolve(text string, p workPattern, m []int) (Reference, bool) {
	group := func(name string) string {
		i := p.re.SubexpIndex(name)
		if i < 0 || m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	volume := p.work.DefaultVolume
	if p.hasVolume {
		v, ok := parseNumber(group("volume"))
		if !ok {
			return Reference{}, false
		}
		volume = v
	}
	if volume < 1 || volume > p.work.MaxVolume {
		return Reference{}, false
	}
	page, ok := parseNumber(group("page"))
	if !ok || page < 1 {
		return Reference{}, false
	}
	ref := Reference{
		Kind:        KindCatalog,
		UnitID:      p.work.ID,
		SubUnit:     volume,
		Unit:        page,
		DisplayText: text[m[0]:m[1]],
		TargetURL:   fmt.Sprintf("%s/book/%d/%d/%d", l.baseURL, p.work.ID, volume, page),
	}
	if e := group("end"); e != "" {
		pageEnd, ok := parseNumber(e)
		if !ok || pageEnd < page {
			return Reference{}, false
		}
		if pageEnd != page {
			ref.UnitEnd = pageEnd
		}
	}
	return ref, true
}
