package venmo

import (
	"context"

	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

// Compile-time check that LoginGateway implements driven.Authenticator.
var _ driven.Authenticator = (*LoginGateway)(nil)

// LoginGateway runs an Authenticator per login so every login can use the
// device id stored with the account.
type LoginGateway struct {
	transport   *Transport
	otp         driven.OTPSource
	trustDevice bool
}

// NewLoginGateway creates a LoginGateway whose logins update transport.
func NewLoginGateway(transport *Transport, otp driven.OTPSource, trustDevice bool) *LoginGateway {
	return &LoginGateway{transport: transport, otp: otp, trustDevice: trustDevice}
}

// Login authenticates username from deviceID, generating a device id when it
// is empty.
func (g *LoginGateway) Login(ctx context.Context, username, password, deviceID string) (string, string, error) {
	auth := NewAuthenticator(g.transport, deviceID, g.otp, g.trustDevice)
	token, err := auth.Login(ctx, username, password)
	if err != nil {
		return "", "", err
	}
	return token, auth.DeviceID(), nil
}

// LogOut revokes accessToken.
func (g *LoginGateway) LogOut(ctx context.Context, accessToken string) error {
	return (&Authenticator{transport: g.transport}).LogOut(ctx, accessToken)
}
