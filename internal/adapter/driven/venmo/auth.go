package venmo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"

	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

const (
	// twoFactorErrorCode is returned by /oauth/access_token when the device
	// must complete a one-time-password challenge.
	twoFactorErrorCode = 81109

	otpSecretHeader = "venmo-otp-secret"
	otpHeader       = "venmo-otp"
	deviceIDHeader  = "device-id"
	clientID        = "1"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// Authenticator runs the password login flow including the two-factor
// challenge. A successful login updates the token of its Transport in place.
type Authenticator struct {
	transport   *Transport
	deviceID    string
	otp         driven.OTPSource
	trustDevice bool
}

// NewAuthenticator creates an Authenticator. An empty deviceID is replaced by
// a random one. When trustDevice is set, a device that passed the two-factor
// challenge is registered as trusted so later logins skip it.
func NewAuthenticator(transport *Transport, deviceID string, otp driven.OTPSource, trustDevice bool) *Authenticator {
	if deviceID == "" {
		deviceID = RandomDeviceID()
		slog.Info("generated a random device id; reuse it to skip two-factor on later logins",
			"device_id", deviceID)
	}
	return &Authenticator{
		transport:   transport,
		deviceID:    deviceID,
		otp:         otp,
		trustDevice: trustDevice,
	}
}

// DeviceID returns the device id sent with every authentication request.
func (a *Authenticator) DeviceID() string {
	return a.deviceID
}

// Login authenticates with username and password and returns the access
// token. When the platform answers with a two-factor challenge, the OTP is
// sent by SMS, read from the OTP source and exchanged for the token. Failing
// to trust the device afterwards is logged and does not fail the login.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	slog.Debug("login: submitting credentials", "device_id", a.deviceID)
	env, err := a.AuthenticateWithPassword(ctx, username, password)
	if err != nil {
		return "", err
	}

	if !env.HasError() {
		token := object(env.Body).str(path{"access_token"})
		if token == "" {
			return "", &AuthenticationFailedError{Reason: "login response carries no access token"}
		}
		slog.Debug("login: authenticated without two-factor challenge")
		a.transport.UpdateAccessToken(token)
		return token, nil
	}

	slog.Debug("login: two-factor challenge received")
	token, err := a.completeTwoFactor(ctx, env)
	if err != nil {
		return "", err
	}
	a.transport.UpdateAccessToken(token)
	slog.Debug("login: authenticated after two-factor challenge")

	if a.trustDevice {
		if err := a.TrustDevice(ctx); err != nil {
			slog.Warn("login succeeded but the device could not be trusted", "device_id", a.deviceID, "error", err)
		}
	}
	return token, nil
}

// AuthenticateWithPassword submits the credentials. A two-factor challenge is
// returned as a normal envelope whose body carries an error.
func (a *Authenticator) AuthenticateWithPassword(ctx context.Context, username, password string) (*Envelope, error) {
	env, err := a.transport.Call(ctx, Request{
		Path:   "/oauth/access_token",
		Method: http.MethodPost,
		Header: map[string]string{deviceIDHeader: a.deviceID},
		Body: map[string]string{
			"phone_email_or_username": username,
			"client_id":               clientID,
			"password":                password,
		},
		AcceptedErrorCodes: []int{twoFactorErrorCode},
	})
	if err != nil {
		return nil, fmt.Errorf("submitting credentials: %w", err)
	}
	return env, nil
}

func (a *Authenticator) completeTwoFactor(ctx context.Context, challenge *Envelope) (string, error) {
	secret := challenge.Headers.Get(otpSecretHeader)
	if secret == "" {
		return "", &AuthenticationFailedError{
			Reason: "failed to get the otp-secret for the two-factor authentication process (check your password)",
		}
	}

	if err := a.SendTextOTP(ctx, secret); err != nil {
		return "", err
	}
	slog.Debug("login: one-time password requested")

	code, err := a.readOTP(ctx)
	if err != nil {
		return "", err
	}

	return a.AuthenticateWithOTP(ctx, code, secret)
}

// SendTextOTP asks the platform to text a one-time password to the phone on
// the account.
func (a *Authenticator) SendTextOTP(ctx context.Context, otpSecret string) error {
	env, err := a.transport.Call(ctx, Request{
		Path:   "/account/two-factor/token",
		Method: http.MethodPost,
		Header: map[string]string{
			deviceIDHeader:  a.deviceID,
			otpSecretHeader: otpSecret,
		},
		Body: map[string]string{"via": "sms"},
	})
	if err != nil {
		var httpErr *HTTPCodeError
		if errors.As(err, &httpErr) {
			return &AuthenticationFailedError{Reason: otpSendFailure(httpErr.ErrorMessage())}
		}
		return fmt.Errorf("sending one-time password: %w", err)
	}

	if env.StatusCode != http.StatusOK {
		return &AuthenticationFailedError{
			Reason: otpSendFailure(object(env.Body).str(path{"error", "message"})),
		}
	}
	return nil
}

func otpSendFailure(reason string) string {
	if reason == "" {
		reason = "no reason given"
	}
	return "failed to send the one-time password to your phone number: " + reason
}

// readOTP asks the OTP source until it yields six digits.
func (a *Authenticator) readOTP(ctx context.Context) (string, error) {
	if a.otp == nil {
		return "", &AuthenticationFailedError{Reason: "two-factor challenge received but no one-time password source is configured"}
	}
	for {
		code, err := a.otp.OTP(ctx)
		if err != nil {
			return "", fmt.Errorf("reading one-time password: %w", err)
		}
		if otpPattern.MatchString(code) {
			return code, nil
		}
		slog.Debug("login: ignoring malformed one-time password")
	}
}

// AuthenticateWithOTP exchanges the one-time password and the challenge secret
// for an access token.
func (a *Authenticator) AuthenticateWithOTP(ctx context.Context, otp, otpSecret string) (string, error) {
	env, err := a.transport.Call(ctx, Request{
		Path:   "/oauth/access_token",
		Method: http.MethodPost,
		Header: map[string]string{
			deviceIDHeader:  a.deviceID,
			otpHeader:       otp,
			otpSecretHeader: otpSecret,
		},
		Query: url.Values{"client_id": {clientID}},
	})
	if err != nil {
		return "", fmt.Errorf("verifying one-time password: %w", err)
	}

	token := object(env.Body).str(path{"access_token"})
	if token == "" {
		return "", &AuthenticationFailedError{Reason: "one-time password response carries no access token"}
	}
	return token, nil
}

// TrustDevice registers the device id as trusted for the logged-in account.
func (a *Authenticator) TrustDevice(ctx context.Context) error {
	_, err := a.transport.Call(ctx, Request{
		Path:   "/users/devices",
		Method: http.MethodPost,
		Header: map[string]string{deviceIDHeader: a.deviceID},
	})
	if err != nil {
		return fmt.Errorf("trusting device: %w", err)
	}
	slog.Info("added device id to the trusted devices", "device_id", a.deviceID)
	return nil
}

// LogOut revokes accessToken. The Authenticator's own Transport keeps its
// token.
func (a *Authenticator) LogOut(ctx context.Context, accessToken string) error {
	_, err := a.transport.WithAccessToken(accessToken).Call(ctx, Request{
		Path:   "/oauth/access_token",
		Method: http.MethodDelete,
	})
	if err != nil {
		return fmt.Errorf("revoking access token: %w", err)
	}
	return nil
}
