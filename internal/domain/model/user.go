package model

import "time"

// User is a Venmo account as returned by the user, friends, search and
// account endpoints. Zero-valued fields mean the payload did not carry them.
type User struct {
	ID                string
	Username          string
	FirstName         string
	LastName          string
	DisplayName       string
	Phone             string
	ProfilePictureURL string
	About             string
	DateJoined        time.Time // Zero when absent.
	IsGroup           bool
	IsActive          bool
	IsBusiness        bool

	// Raw is the JSON object the record was decoded from.
	Raw map[string]any
}
