package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:    "social.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",
}

// UniqueReviewPerAuthor is the unique constraint guarding one review
// per (title, author). The INSERT path relies on its name to translate
// duplicate-key races into validation errors.
const UniqueReviewPerAuthor = "uq_review_title_author"
