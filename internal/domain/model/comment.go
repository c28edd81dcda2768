package model

import "time"

// Comment is a comment left on a transaction story.
type Comment struct {
	ID          string
	Message     string
	User        *User
	Mentions    []Mention
	DateCreated time.Time

	Raw map[string]any
}

// Mention is an @username reference inside a comment.
type Mention struct {
	Username string
	User     *User

	Raw map[string]any
}
