package model

import "time"

// Payment is a payment or charge as returned by /payments. Pending charges
// are the ones that can be reminded or cancelled.
type Payment struct {
	ID            string
	Actor         *User
	Target        *User
	Action        PaymentAction
	Amount        float64
	Audience      PaymentPrivacy
	Note          string
	Status        PaymentStatus
	DateCreated   time.Time
	DateReminded  time.Time
	DateCompleted time.Time

	Raw map[string]any
}
