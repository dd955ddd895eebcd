// Copyright (c) 2026 Revuo. All rights reserved.

package review

import "time"

// Review is an authored opinion about a title: free-form text plus a score.
// Each user holds at most one review per title; that single slot is what
// keeps the derived title rating honest.
type Review struct {
	ID        int64     `json:"id"`
	TitleID   int64     `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

const (
	MinScore      = 1
	MaxScore      = 10
	MaxTextLength = 10000
)

const (
	FieldText  = "text"
	FieldScore = "score"
)
