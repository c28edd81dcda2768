package driven

import "context"

// OTPSource supplies the one-time password sent to the account holder during
// a two-factor login. OTP blocks until a candidate code is available; callers
// validate the result and ask again when it is malformed.
type OTPSource interface {
	OTP(ctx context.Context) (string, error)
}
