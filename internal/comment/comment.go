package comment

import "time"

// Comment is a short authored reply attached to a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}

const MaxTextLength = 2000

const FieldText = "text"
