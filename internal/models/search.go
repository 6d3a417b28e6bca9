package models

// SearchSource is a single document returned for a search query.
type SearchSource struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content,omitempty"`
}

// SearchResult holds the outcome of one web-search query. A failed query
// carries an Err string and an empty Results list; it never aborts the batch.
type SearchResult struct {
	Query   string         `json:"query"`
	Results []SearchSource `json:"results"`
	Err     string         `json:"error,omitempty"`
}

// OK reports whether the result carries usable content.
func (r SearchResult) OK() bool {
	return r.Err == "" && len(r.Results) > 0 && r.Results[0].Content != ""
}
