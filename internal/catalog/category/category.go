package category

import "time"

// Category is a coarse classification a Title belongs to (e.g. "Movies",
// "Books"). Exactly one category per title; shared reference, never owned.
type Category struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Field name limits, shared by the service and the HTTP layer.
const (
	MaxNameLength = 256
	MaxSlugLength = 50
)

// Field identifiers used in validation errors.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
