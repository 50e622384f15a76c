package domain

// Category selects both the upstream search index and the prompt template.
type Category string

// Category constants.
const (
	// CategoryAll targets the general web index and is the only category
	// combined with the personal vector index.
	CategoryAll      Category = "all"
	CategoryImages   Category = "images"
	CategoryNews     Category = "news"
	CategoryAcademic Category = "academic"
	CategoryVideos   Category = "videos"
)

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAll, CategoryImages, CategoryNews, CategoryAcademic, CategoryVideos:
		return true
	}
	return false
}
