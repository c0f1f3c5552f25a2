package references

// Linker runs the verse and catalog detectors over the same text
type Linker struct {
	verses  *VerseLinker
	catalog *CatalogLinker
}

// NewLinker returns a Linker using verseBaseURL for verse targets and
// bookBaseURL as the prefix of catalog targets
func NewLinker(verseBaseURL, bookBaseURL string) *Linker {
	return &Linker{
		verses:  NewVerseLinker(verseBaseURL),
		catalog: NewCatalogLinker(bookBaseURL),
	}
}

// FindAll returns verse and catalog citations ordered by position. Verse
// citations are detected first and win overlapping text
func (l *Linker) FindAll(text string) []Reference {
	spans := newSpanSet(text)
	refs := l.verses.find(text, spans)
	refs = append(refs, l.catalog.find(text, spans)...)
	return sortByStart(refs)
}

// LinkAll rewrites verse citations then catalog citations as anchors
func (l *Linker) LinkAll(text string) (string, []Reference) {
	refs := l.FindAll(text)
	return rewrite(text, refs), refs
}
