package model

import "time"

// Merchant describes the business side of a card or merchant transaction.
type Merchant struct {
	ID                   string
	BraintreeMerchantID  string
	PaypalMerchantID     string
	DisplayName          string
	IsSubscription       bool
	ImageURL             string
	ImageDatetimeUpdated string
	DatetimeCreated      time.Time
	DatetimeUpdated      time.Time

	Raw map[string]any
}
