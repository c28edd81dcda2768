package venmo_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
)

// eventLog records the order of login steps across the server and the OTP
// source.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// fakeOTP returns codes in order and records each prompt.
type fakeOTP struct {
	log   *eventLog
	codes []string
	err   error
}

func (f *fakeOTP) OTP(_ context.Context) (string, error) {
	f.log.add("prompt")
	if f.err != nil {
		return "", f.err
	}
	code := f.codes[0]
	f.codes = f.codes[1:]
	return code, nil
}

// twoFactorServer emulates the login endpoints.
type twoFactorServer struct {
	t          *testing.T
	log        *eventLog
	challenge  bool
	omitSecret bool
	sendFails  bool
	trustFails bool

	mu          sync.Mutex
	deviceIDs   []string
	verifiedOTP string
	lastAuth    string
}

func (s *twoFactorServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.deviceIDs = append(s.deviceIDs, r.Header.Get("device-id"))
	s.lastAuth = r.Header.Get("Authorization")
	s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/oauth/access_token" && r.Header.Get("venmo-otp") == "":
		s.log.add("credentials")
		if !s.challenge {
			writeJSON(s.t, w, http.StatusOK, map[string]any{"access_token": "direct-token"})
			return
		}
		if !s.omitSecret {
			w.Header().Set("venmo-otp-secret", "secret-1")
		}
		writeJSON(s.t, w, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{"code": 81109, "message": "Additional authentication is required"},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/account/two-factor/token":
		s.log.add("send-otp")
		assert.Equal(s.t, "secret-1", r.Header.Get("venmo-otp-secret"))
		if s.sendFails {
			writeJSON(s.t, w, http.StatusBadRequest, map[string]any{
				"error": map[string]any{"code": 1, "message": "phone unreachable"},
			})
			return
		}
		writeJSON(s.t, w, http.StatusOK, map[string]any{"data": map[string]any{"status": "sent"}})
	case r.Method == http.MethodPost && r.URL.Path == "/oauth/access_token":
		s.log.add("verify-otp")
		assert.Equal(s.t, "1", r.URL.Query().Get("client_id"))
		assert.Equal(s.t, "secret-1", r.Header.Get("venmo-otp-secret"))
		s.mu.Lock()
		s.verifiedOTP = r.Header.Get("venmo-otp")
		s.mu.Unlock()
		writeJSON(s.t, w, http.StatusOK, map[string]any{"access_token": "otp-token"})
	case r.Method == http.MethodPost && r.URL.Path == "/users/devices":
		s.log.add("trust")
		if s.trustFails {
			writeJSON(s.t, w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"code": 500, "message": "device service down"},
			})
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && r.URL.Path == "/oauth/access_token":
		s.log.add("logout")
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func newAuthTransport(t *testing.T, srv *twoFactorServer) *venmo.Transport {
	t.Helper()
	transport := newTestTransport(t, srv)
	transport.UpdateAccessToken("")
	return transport
}

func TestLogin_DirectSuccess(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log}
	transport := newAuthTransport(t, srv)
	auth := venmo.NewAuthenticator(transport, "device-1", &fakeOTP{log: log}, true)

	token, err := auth.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	assert.Equal(t, "direct-token", token)
	assert.Equal(t, "Bearer direct-token", transport.AccessToken())
	assert.Equal(t, []string{"credentials"}, log.all())
	assert.Equal(t, []string{"device-1"}, srv.deviceIDs)
}

func TestLogin_TwoFactor(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true}
	transport := newAuthTransport(t, srv)
	otp := &fakeOTP{log: log, codes: []string{"12ab", "1234567", "654321"}}
	auth := venmo.NewAuthenticator(transport, "device-1", otp, true)

	token, err := auth.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	assert.Equal(t, "otp-token", token)
	assert.Equal(t, "Bearer otp-token", transport.AccessToken())
	assert.Equal(t, "654321", srv.verifiedOTP)
	assert.Equal(t,
		[]string{"credentials", "send-otp", "prompt", "prompt", "prompt", "verify-otp", "trust"},
		log.all(),
	)
	assert.Equal(t, "Bearer otp-token", srv.lastAuth, "the device is trusted with the new token")
}

func TestLogin_TwoFactorWithoutTrust(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true}
	auth := venmo.NewAuthenticator(newAuthTransport(t, srv), "device-1",
		&fakeOTP{log: log, codes: []string{"111111"}}, false)

	_, err := auth.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.NotContains(t, log.all(), "trust")
}

func TestLogin_TrustFailureKeepsToken(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true, trustFails: true}
	transport := newAuthTransport(t, srv)
	auth := venmo.NewAuthenticator(transport, "device-1", &fakeOTP{log: log, codes: []string{"111111"}}, true)

	token, err := auth.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	assert.Equal(t, "otp-token", token)
	assert.Equal(t, "Bearer otp-token", transport.AccessToken())
	assert.Contains(t, log.all(), "trust")
}

func TestLogin_MissingOTPSecret(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true, omitSecret: true}
	transport := newAuthTransport(t, srv)
	auth := venmo.NewAuthenticator(transport, "device-1", &fakeOTP{log: log}, true)

	_, err := auth.Login(context.Background(), "alice", "wrong")

	var authErr *venmo.AuthenticationFailedError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "check your password")
	assert.Equal(t, []string{"credentials"}, log.all())
	assert.Empty(t, transport.AccessToken())
}

func TestLogin_SendOTPFails(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true, sendFails: true}
	auth := venmo.NewAuthenticator(newAuthTransport(t, srv), "device-1", &fakeOTP{log: log}, true)

	_, err := auth.Login(context.Background(), "alice", "pw")

	var authErr *venmo.AuthenticationFailedError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "phone unreachable")
	assert.Equal(t, []string{"credentials", "send-otp"}, log.all())
}

func TestLogin_OTPSourceError(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log, challenge: true}
	sourceErr := errors.New("stdin closed")
	auth := venmo.NewAuthenticator(newAuthTransport(t, srv), "device-1", &fakeOTP{log: log, err: sourceErr}, true)

	_, err := auth.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, sourceErr)
	assert.NotContains(t, log.all(), "verify-otp")
}

func TestLogOut_UsesGivenToken(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log}
	transport := newTestTransport(t, srv)
	auth := venmo.NewAuthenticator(transport, "device-1", nil, false)

	require.NoError(t, auth.LogOut(context.Background(), "old-token"))

	assert.Equal(t, []string{"logout"}, log.all())
	assert.Equal(t, "Bearer old-token", srv.lastAuth)
	assert.Equal(t, "Bearer test-token", transport.AccessToken())
}

func TestLoginGateway(t *testing.T) {
	log := &eventLog{}
	srv := &twoFactorServer{t: t, log: log}
	gateway := venmo.NewLoginGateway(newAuthTransport(t, srv), nil, true)

	token, deviceID, err := gateway.Login(context.Background(), "alice", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "direct-token", token)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{8}-[0-9A-Z]{4}-[0-9A-Z]{4}-[0-9A-Z]{4}-[0-9A-Z]{12}$`), deviceID)
	assert.Equal(t, []string{deviceID}, srv.deviceIDs)

	_, reused, err := gateway.Login(context.Background(), "alice", "pw", "stored-device")
	require.NoError(t, err)
	assert.Equal(t, "stored-device", reused)
}

func TestRandomDeviceID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{8}-[0-9]{2}[A-Z][0-9]-[0-9][A-Z][0-9]{2}-[0-9]{2}[A-Z][0-9]-[0-9][A-Z]{2}[0-9]{2}[A-Z][0-9]{3}[A-Z]{2}[0-9]$`)

	a := venmo.RandomDeviceID()
	assert.Regexp(t, pattern, a)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, venmo.RandomDeviceID())
}
