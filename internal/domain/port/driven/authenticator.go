package driven

import "context"

// Authenticator logs an account in and out of the payments platform.
type Authenticator interface {
	// Login returns the access token and the device id the login was made
	// with. An empty deviceID asks the implementation to generate one.
	Login(ctx context.Context, username, password, deviceID string) (token, usedDeviceID string, err error)
	// LogOut revokes accessToken.
	LogOut(ctx context.Context, accessToken string) error
}
