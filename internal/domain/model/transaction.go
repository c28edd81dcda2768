package model

import "time"

// Transaction is one story from a user's feed. Only stories whose type is
// TransactionTypePayment are decoded into a Transaction.
type Transaction struct {
	ID            string // Story ID; used as the before_id cursor when paging.
	PaymentID     string
	Type          TransactionType
	Action        PaymentAction
	Amount        float64
	Audience      PaymentPrivacy
	Status        PaymentStatus
	Note          string
	DeviceUsed    string // "iPhone", "Android" or "undefined".
	Actor         *User
	Target        *User
	Comments      []Comment
	DateCreated   time.Time
	DateUpdated   time.Time
	DateCompleted time.Time

	Raw map[string]any
}
