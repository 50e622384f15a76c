package domain

// TextSource is a unit of retrieved textual evidence. Its 1-based position
// inside a result set doubles as the citation index in generated prompts,
// so ordering is significant and append-only within a request.
type TextSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// ImageSource is a retrieved image result.
type ImageSource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// SearchResult is what a search capability returns for one query.
type SearchResult struct {
	Texts  []TextSource
	Images []ImageSource
}

// IsEmpty reports whether the result carries neither texts nor images.
func (r SearchResult) IsEmpty() bool {
	return len(r.Texts) == 0 && len(r.Images) == 0
}

// SearchOptions selects which upstream index a search source targets.
// At most the first category is honored when multiple are present.
type SearchOptions struct {
	Categories []Category
}

// Primary returns the first category, or CategoryAll when none is set.
func (o SearchOptions) Primary() Category {
	if len(o.Categories) == 0 {
		return CategoryAll
	}
	return o.Categories[0]
}
