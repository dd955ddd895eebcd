// Copyright (c) 2026 Revuo. All rights reserved.

package title

import "time"

// Title is a reviewable work in the catalog (a film, a book, an album).
// Titles never hold review text themselves; they carry a derived rating
// that the review engine keeps in sync.
type Title struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Year        int         `json:"year"`
	Description string      `json:"description,omitempty"`
	Rating      *float64    `json:"rating"`
	Category    CategoryRef `json:"category"`
	Genres      []GenreRef  `json:"genre"`
	CreatedAt   time.Time   `json:"-"`

	// Junction state used on writes; hydrated refs are used on reads.
	CategoryID int64   `json:"-"`
	GenreIDs   []int64 `json:"-"`
}

// CategoryRef is the embedded category representation on a title.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GenreRef is the embedded genre representation on a title.
type GenreRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Filter narrows title listings. Zero values mean "no constraint".
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

const (
	MaxNameLength        = 256
	MaxDescriptionLength = 4000
)

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)
