package genre

import "time"

// Genre is a fine-grained label attached to titles (e.g. "Drama").
// A title may carry several genres.
type Genre struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

const (
	MaxNameLength = 256
	MaxSlugLength = 50
)

const (
	FieldName = "name"
	FieldSlug = "slug"
)
