package venmo_test

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

// paymentServer serves the endpoints a send or request touches and records
// the decoded JSON bodies it receives by path.
type paymentServer struct {
	t          *testing.T
	bodies     map[string][]map[string]any
	methods    []any
	paymentRes map[string]any
	status     int
	requests   int
}

func newPaymentServer(t *testing.T) *paymentServer {
	return &paymentServer{
		t:      t,
		bodies: map[string][]map[string]any{},
		methods: []any{
			map[string]any{"id": "bank-1", "peer_payment_role": "backup", "name": "Bank", "type": "bank"},
			map[string]any{"id": "bal-1", "peer_payment_role": "default", "name": "Balance", "type": "balance"},
			map[string]any{"id": "odd-1", "peer_payment_role": "none", "name": "Odd", "type": "crypto"},
		},
		paymentRes: map[string]any{"data": map[string]any{
			"payment": map[string]any{"id": "pay-9", "status": "settled", "action": "pay"},
		}},
		status: http.StatusOK,
	}
}

func (s *paymentServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.requests++
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			var body map[string]any
			_ = json.Unmarshal(b, &body)
			s.bodies[r.URL.Path] = append(s.bodies[r.URL.Path], body)
		}
	}

	switch r.URL.Path {
	case "/payment-methods":
		writeJSON(s.t, w, http.StatusOK, map[string]any{"data": s.methods})
	case "/protection/eligibility":
		writeJSON(s.t, w, http.StatusOK, map[string]any{"data": map[string]any{"eligibility_token": "elig-1", "eligible": true}})
	case "/payments":
		writeJSON(s.t, w, s.status, s.paymentRes)
	default:
		http.NotFound(w, r)
	}
}

func TestSendMoney_PositiveAmount(t *testing.T) {
	for _, amount := range []float64{20, -20} {
		srv := newPaymentServer(t)
		client := newTestClient(t, srv)

		payment, err := client.SendMoney(context.Background(), venmo.SendMoneyRequest{
			TargetUserID: "u2",
			Amount:       amount,
			Note:         "lunch",
		})
		require.NoError(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, "pay-9", payment.ID)

		require.Len(t, srv.bodies["/payments"], 1)
		body := srv.bodies["/payments"][0]
		assert.InDelta(t, 20.0, body["amount"], 0.0001)
		assert.Equal(t, "u2", body["user_id"])
		assert.Equal(t, "private", body["audience"])
		assert.Equal(t, "lunch", body["note"])
		assert.Equal(t, "bal-1", body["funding_source_id"])
		assert.Equal(t, "elig-1", body["eligibility_token"])

		require.Len(t, srv.bodies["/protection/eligibility"], 1)
		elig := srv.bodies["/protection/eligibility"][0]
		assert.InDelta(t, 2000.0, elig["amount"], 0.0001)
		assert.Equal(t, "u2", elig["target_id"])
		assert.Equal(t, "pay", elig["action"])
		assert.Equal(t, "user_id", elig["target_type"])
		assert.Equal(t, "1", elig["country_code"])
	}
}

func TestSendMoney_SuppliedFundingSourceAndToken(t *testing.T) {
	srv := newPaymentServer(t)
	client := newTestClient(t, srv)

	_, err := client.SendMoney(context.Background(), venmo.SendMoneyRequest{
		TargetUser:       &model.User{ID: "u3"},
		Amount:           5,
		Privacy:          model.PaymentPrivacyFriends,
		FundingSourceID:  "bank-1",
		EligibilityToken: "given",
	})
	require.NoError(t, err)

	assert.Empty(t, srv.bodies["/protection/eligibility"])
	body := srv.bodies["/payments"][0]
	assert.Equal(t, "u3", body["user_id"])
	assert.Equal(t, "friends", body["audience"])
	assert.Equal(t, "bank-1", body["funding_source_id"])
	assert.Equal(t, "given", body["eligibility_token"])
}

func TestRequestMoney_NegativeAmount(t *testing.T) {
	for _, amount := range []float64{20, -20} {
		srv := newPaymentServer(t)
		client := newTestClient(t, srv)

		_, err := client.RequestMoney(context.Background(), venmo.RequestMoneyRequest{
			TargetUserID: "u2",
			Amount:       amount,
			Note:         "rent",
		})
		require.NoError(t, err)

		body := srv.bodies["/payments"][0]
		assert.InDelta(t, -20.0, body["amount"], 0.0001)
		assert.NotContains(t, body, "funding_source_id")
		assert.NotContains(t, body, "eligibility_token")
		assert.Empty(t, srv.bodies["/protection/eligibility"])
	}
}

func TestSendMoney_ArgumentErrors(t *testing.T) {
	srv := newPaymentServer(t)
	client := newTestClient(t, srv)
	ctx := context.Background()

	_, err := client.SendMoney(ctx, venmo.SendMoneyRequest{Amount: 1})
	var missing *venmo.ArgumentMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"target_user", "target_user_id"}, missing.Arguments)

	_, err = client.SendMoney(ctx, venmo.SendMoneyRequest{TargetUserID: "u", Amount: 1, Privacy: "everyone"})
	var invalid *venmo.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "privacy", invalid.Argument)

	_, err = client.RequestMoney(ctx, venmo.RequestMoneyRequest{TargetUserID: "u"})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "amount", invalid.Argument)

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = client.SendMoney(ctx, venmo.SendMoneyRequest{TargetUserID: "u", Amount: amount})
		require.ErrorAs(t, err, &invalid, "send %v", amount)
		assert.Equal(t, "amount", invalid.Argument)

		_, err = client.RequestMoney(ctx, venmo.RequestMoneyRequest{TargetUserID: "u", Amount: amount})
		require.ErrorAs(t, err, &invalid, "request %v", amount)
		assert.Equal(t, "amount", invalid.Argument)

		_, err = client.EligibilityToken(ctx, "u", amount, "")
		require.ErrorAs(t, err, &invalid, "eligibility %v", amount)
	}

	assert.Empty(t, srv.bodies)
	assert.Zero(t, srv.requests, "argument errors must not reach the server")
}

func TestSendMoney_BusinessFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		res    map[string]any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not enough balance in body",
			status: http.StatusOK,
			res:    map[string]any{"data": map[string]any{"error_code": 13006, "title": "x", "error_msg": "y"}},
			check: func(t *testing.T, err error) {
				var balErr *venmo.NotEnoughBalanceError
				require.ErrorAs(t, err, &balErr)
				assert.InDelta(t, 7.0, balErr.Amount, 0.0001)
				assert.Equal(t, "u2", balErr.TargetUserID)
			},
		},
		{
			name:   "not enough balance as error code",
			status: http.StatusBadRequest,
			res:    map[string]any{"error": map[string]any{"code": 13006, "message": "insufficient"}},
			check: func(t *testing.T, err error) {
				var balErr *venmo.NotEnoughBalanceError
				require.ErrorAs(t, err, &balErr)
			},
		},
		{
			name:   "general failure",
			status: http.StatusOK,
			res:    map[string]any{"data": map[string]any{"error_code": 1396, "title": "Payment failed", "error_msg": "Try later"}},
			check: func(t *testing.T, err error) {
				var genErr *venmo.GeneralPaymentError
				require.ErrorAs(t, err, &genErr)
				assert.Equal(t, "Payment failed", genErr.Title)
				assert.Equal(t, "Try later", genErr.Message)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newPaymentServer(t)
			srv.status = tt.status
			srv.paymentRes = tt.res
			client := newTestClient(t, srv)

			_, err := client.SendMoney(context.Background(), venmo.SendMoneyRequest{TargetUserID: "u2", Amount: 7})
			tt.check(t, err)
		})
	}
}

func TestDefaultPaymentMethod(t *testing.T) {
	srv := newPaymentServer(t)
	client := newTestClient(t, srv)

	methods, err := client.PaymentMethods(context.Background())
	require.NoError(t, err)
	assert.Len(t, methods, 2, "the unsupported method is skipped")

	m, err := client.DefaultPaymentMethod(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bal-1", m.ID)

	srv.methods = []any{map[string]any{"id": "bank-1", "peer_payment_role": "backup", "type": "bank"}}
	_, err = client.DefaultPaymentMethod(context.Background())
	var none *venmo.NoPaymentMethodFoundError
	assert.ErrorAs(t, err, &none)
}

func TestUpdatePayment(t *testing.T) {
	tests := []struct {
		name   string
		status int
		res    map[string]any
		remind bool
		check  func(t *testing.T, err error)
	}{
		{
			name:   "remind ok",
			status: http.StatusOK,
			res:    map[string]any{"data": map[string]any{"id": "p1"}},
			remind: true,
			check:  func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "already reminded",
			status: http.StatusBadRequest,
			res:    map[string]any{"error": map[string]any{"code": 2907}},
			remind: true,
			check: func(t *testing.T, err error) {
				var already *venmo.AlreadyRemindedPaymentError
				require.ErrorAs(t, err, &already)
				assert.Equal(t, "p1", already.PaymentID)
			},
		},
		{
			name:   "cancel without pending payment",
			status: http.StatusBadRequest,
			res:    map[string]any{"error": map[string]any{"code": 2901}},
			check: func(t *testing.T, err error) {
				var none *venmo.NoPendingPaymentToUpdateError
				require.ErrorAs(t, err, &none)
				assert.Equal(t, "cancel", none.Action)
			},
		},
		{
			name:   "remind without pending payment",
			status: http.StatusBadRequest,
			res:    map[string]any{"error": map[string]any{"code": 2905}},
			remind: true,
			check: func(t *testing.T, err error) {
				var none *venmo.NoPendingPaymentToUpdateError
				require.ErrorAs(t, err, &none)
				assert.Equal(t, "remind", none.Action)
			},
		},
		{
			name:   "other error",
			status: http.StatusBadRequest,
			res:    map[string]any{"error": map[string]any{"code": 1}},
			check: func(t *testing.T, err error) {
				var httpErr *venmo.HTTPCodeError
				require.ErrorAs(t, err, &httpErr)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod string
			var gotBody map[string]any
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				b, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(b, &gotBody)
				assert.Equal(t, "/payments/p1", r.URL.Path)
				writeJSON(t, w, tt.status, tt.res)
			}))

			var err error
			want := "cancel"
			if tt.remind {
				want = "remind"
				err = client.RemindPayment(context.Background(), "p1")
			} else {
				err = client.CancelPayment(context.Background(), "p1")
			}
			tt.check(t, err)
			assert.Equal(t, http.MethodPut, gotMethod)
			assert.Equal(t, want, gotBody["action"])
		})
	}
}

func TestPendingPayments(t *testing.T) {
	log := &requestLog{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.record(r)
		switch r.URL.Path {
		case "/account":
			writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]any{"user": map[string]any{"id": "me"}}})
		case "/payments":
			writeJSON(t, w, http.StatusOK, map[string]any{"data": []any{
				map[string]any{"id": "p1", "action": r.URL.Query().Get("action"), "status": "pending", "amount": 3},
			}})
		}
	}))
	ctx := context.Background()

	charges, err := client.ChargePayments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, model.PaymentActionCharge, charges[0].Action)
	q := log.last()
	assert.Equal(t, "charge", q.Get("action"))
	assert.Equal(t, "me", q.Get("actor"))
	assert.Equal(t, "100000", q.Get("limit"))

	pays, err := client.PayPayments(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, "pay", log.last().Get("action"))
	assert.Equal(t, "5", log.last().Get("limit"))
	assert.Equal(t, 3, log.count(), "the profile is fetched once")
}
