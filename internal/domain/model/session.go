package model

import "time"

// Session is a persisted login: the access token issued for an account and the
// device id it was issued to. Reusing the device id lets a trusted device skip
// the two-factor challenge on the next login.
type Session struct {
	Account     string
	AccessToken string
	DeviceID    string
	UpdatedAt   time.Time
}
