// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements user reviews and their comment threads.

Reviews are scored opinions attached to catalog titles; comments are
unscored replies attached to reviews. Both are owned content: the author,
the moderation roles, and nobody else may modify them.

# One Review Per Author

An author gets exactly one review per title, enforced twice: a friendly
existence check in the service and a database uniqueness constraint that
settles concurrent submissions.
*/
package review

import "time"

// # Domain Entities

// Review is a scored opinion on a title.
type Review struct {
	ID       string `json:"id"`
	TitleID  string `json:"-"`
	AuthorID string `json:"-"`
	// Author is the review author's username, hydrated on read.
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is an unscored reply on a review.
type Comment struct {
	ID       string `json:"id"`
	ReviewID string `json:"-"`
	AuthorID string `json:"-"`
	// Author is the comment author's username, hydrated on read.
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)
