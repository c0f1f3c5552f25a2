package models

// SearchHit is one full-text match. Hits are identified by (BookID, Volume, Page)
type SearchHit struct {
	BookID        int64  `json:"bookId" db:"book_id"`
	Volume        int    `json:"volume" db:"volume"`
	Page          int    `json:"page" db:"page"`
	Snippet       string `json:"snippet" db:"snippet"`
	SourceVariant string `json:"sourceVariant,omitempty" db:"-"`
}

// HitKey is the identity of a SearchHit
type HitKey struct {
	BookID int64
	Volume int
	Page   int
}

// Key returns the hit's identity
func (h SearchHit) Key() HitKey {
	return HitKey{BookID: h.BookID, Volume: h.Volume, Page: h.Page}
}

// VectorCandidate is a page returned by a vector backend with its similarity score
type VectorCandidate struct {
	PageID int64   `json:"pageId"`
	Score  float64 `json:"score"`
}

// PageEmbedding is a stored page vector
type PageEmbedding struct {
	PageID    int64
	Embedding []float32
}

// Page is a stored corpus page
type Page struct {
	ID     int64  `json:"id" db:"id"`
	BookID int64  `json:"bookId" db:"book_id"`
	Volume int    `json:"volume" db:"volume"`
	Page   int    `json:"page" db:"page"`
	Text   string `json:"text" db:"text"`
}

// WorkTitle holds the display titles of a catalog work
type WorkTitle struct {
	BookID  int64  `json:"bookId" db:"id"`
	TitleAr string `json:"titleAr" db:"title_ar"`
	TitleEn string `json:"titleEn" db:"title_en"`
}

// SearchResult is a hydrated hit returned by the API
type SearchResult struct {
	BookID      int64    `json:"bookId"`
	BookTitleAr string   `json:"bookTitleAr"`
	BookTitleEn string   `json:"bookTitleEn"`
	Volume      int      `json:"volume"`
	Page        int      `json:"page"`
	Snippet     string   `json:"snippet"`
	ShareURL    string   `json:"shareUrl"`
	Score       *float64 `json:"score,omitempty"`
}

// SearchResponse is the response for full-text and topic search
type SearchResponse struct {
	Query          string         `json:"query"`
	Total          int            `json:"total"`
	Results        []SearchResult `json:"results"`
	Mode           string         `json:"mode,omitempty"`
	Transliterated bool           `json:"transliterated"`
	SearchTerms    []string       `json:"searchTerms,omitempty"`
}

// ErrorResponse is returned when a search cannot be served
type ErrorResponse struct {
	Error string `json:"error"`
}

// LinkRequest is the request for reference linking
type LinkRequest struct {
	Text string `json:"text"`
}

// LinkedReference describes one rewritten citation
type LinkedReference struct {
	Kind        string `json:"kind"`
	UnitID      int    `json:"unitId"`
	SubUnit     int    `json:"subUnit"`
	Unit        int    `json:"unit"`
	UnitEnd     int    `json:"unitEnd,omitempty"`
	DisplayText string `json:"displayText"`
	TargetURL   string `json:"targetUrl"`
}

// LinkResponse is the response for reference linking
type LinkResponse struct {
	HTML       string            `json:"html"`
	References []LinkedReference `json:"references"`
}

// ScoredPage is a page returned by topic search with its similarity score
type ScoredPage struct {
	Page  Page
	Score float64
}
