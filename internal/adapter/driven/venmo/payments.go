package venmo

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

const (
	notEnoughBalanceErrorCode = 13006
	alreadyRemindedErrorCode  = 2907
	noPendingPaymentCode      = 2901
	noPendingPaymentAltCode   = 2905

	pendingPaymentsDefaultLimit = 100000
)

// SendMoneyRequest describes a payment to another user. The target is taken
// from TargetUser when set, otherwise from TargetUserID.
type SendMoneyRequest struct {
	TargetUser   *model.User
	TargetUserID string
	// Amount is sent as a positive value whatever its sign.
	Amount  float64
	Note    string
	Privacy model.PaymentPrivacy
	// FundingSourceID defaults to the default payment method.
	FundingSourceID string
	// EligibilityToken is fetched for this payment when empty. Tokens are
	// never reused across calls.
	EligibilityToken string
}

// RequestMoneyRequest describes a charge to another user.
type RequestMoneyRequest struct {
	TargetUser   *model.User
	TargetUserID string
	// Amount is sent as a negative value whatever its sign.
	Amount  float64
	Note    string
	Privacy model.PaymentPrivacy
}

// PaymentMethods lists the funding sources of the account. Methods of an
// unsupported kind are skipped.
func (c *Client) PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	env, err := c.transport.Call(ctx, Request{Path: "/payment-methods", Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	methods, err := deserializeList(env, DecodePaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return methods, nil
}

// DefaultPaymentMethod returns the funding source used for peer payments.
func (c *Client) DefaultPaymentMethod(ctx context.Context) (*model.PaymentMethod, error) {
	methods, err := c.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].IsDefault() {
			return &methods[i], nil
		}
	}
	return nil, &NoPaymentMethodFoundError{}
}

// EligibilityToken asks the platform whether a payment of amount to
// targetUserID may proceed and returns the token authorizing it.
func (c *Client) EligibilityToken(ctx context.Context, targetUserID string, amount float64, note string) (*model.EligibilityToken, error) {
	if targetUserID == "" {
		return nil, &ArgumentMissingError{Arguments: []string{"target_user_id"}}
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	env, err := c.transport.Call(ctx, Request{
		Path:   "/protection/eligibility",
		Method: http.MethodPost,
		Body: map[string]any{
			"funding_source_id": "",
			"action":            "pay",
			"country_code":      "1",
			"target_type":       "user_id",
			"note":              note,
			"target_id":         targetUserID,
			"amount":            int64(math.Round(math.Abs(amount) * 100)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting eligibility token: %w", err)
	}
	token, err := deserializeOne(env, DecodeEligibilityToken)
	if err != nil {
		return nil, fmt.Errorf("getting eligibility token: %w", err)
	}
	if token == nil || token.Token == "" {
		return nil, &DeserializeError{Reason: "eligibility response carries no token"}
	}
	return token, nil
}

// SendMoney pays req.Amount to the target user.
func (c *Client) SendMoney(ctx context.Context, req SendMoneyRequest) (*model.Payment, error) {
	targetID, err := targetUserID(req.TargetUser, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	privacy, err := paymentPrivacy(req.Privacy)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(req.Amount); err != nil {
		return nil, err
	}

	amount := math.Abs(req.Amount)

	fundingSourceID := req.FundingSourceID
	if fundingSourceID == "" {
		method, err := c.DefaultPaymentMethod(ctx)
		if err != nil {
			return nil, err
		}
		fundingSourceID = method.ID
	}

	eligibilityToken := req.EligibilityToken
	if eligibilityToken == "" {
		token, err := c.EligibilityToken(ctx, targetID, amount, req.Note)
		if err != nil {
			return nil, err
		}
		eligibilityToken = token.Token
	}

	return c.postPayment(ctx, targetID, map[string]any{
		"user_id":           targetID,
		"audience":          string(privacy),
		"amount":            amount,
		"note":              req.Note,
		"funding_source_id": fundingSourceID,
		"eligibility_token": eligibilityToken,
	})
}

// RequestMoney charges req.Amount to the target user.
func (c *Client) RequestMoney(ctx context.Context, req RequestMoneyRequest) (*model.Payment, error) {
	targetID, err := targetUserID(req.TargetUser, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	privacy, err := paymentPrivacy(req.Privacy)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(req.Amount); err != nil {
		return nil, err
	}

	return c.postPayment(ctx, targetID, map[string]any{
		"user_id":  targetID,
		"audience": string(privacy),
		"amount":   -math.Abs(req.Amount),
		"note":     req.Note,
	})
}

func (c *Client) postPayment(ctx context.Context, targetID string, body map[string]any) (*model.Payment, error) {
	amount, _ := body["amount"].(float64)

	env, err := c.transport.Call(ctx, Request{
		Path:               "/payments",
		Method:             http.MethodPost,
		Body:               body,
		AcceptedErrorCodes: []int{notEnoughBalanceErrorCode},
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	if code, ok := env.ErrorCode(); ok && code == notEnoughBalanceErrorCode {
		return nil, &NotEnoughBalanceError{Amount: math.Abs(amount), TargetUserID: targetID}
	}

	data, err := extractData(env)
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}
	o, _ := asObject(data)
	if code, ok := o.integer(path{"error_code"}); ok {
		if code == notEnoughBalanceErrorCode {
			return nil, &NotEnoughBalanceError{Amount: math.Abs(amount), TargetUserID: targetID}
		}
		return nil, &GeneralPaymentError{Title: o.str(path{"title"}), Message: o.str(path{"error_msg"})}
	}

	return DecodePayment(o.obj(path{"payment"})), nil
}

// RemindPayment sends a reminder for a pending charge.
func (c *Client) RemindPayment(ctx context.Context, paymentID string) error {
	return c.updatePayment(ctx, paymentID, "remind")
}

// CancelPayment cancels a pending charge.
func (c *Client) CancelPayment(ctx context.Context, paymentID string) error {
	return c.updatePayment(ctx, paymentID, "cancel")
}

func (c *Client) updatePayment(ctx context.Context, paymentID, action string) error {
	if paymentID == "" {
		return &ArgumentMissingError{Arguments: []string{"payment_id"}}
	}

	env, err := c.transport.Call(ctx, Request{
		Path:               "/payments/" + url.PathEscape(paymentID),
		Method:             http.MethodPut,
		Body:               map[string]string{"action": action},
		AcceptedErrorCodes: []int{alreadyRemindedErrorCode, noPendingPaymentCode, noPendingPaymentAltCode},
	})
	if err != nil {
		return fmt.Errorf("updating payment %s: %w", paymentID, err)
	}

	code, ok := env.ErrorCode()
	if !ok {
		return nil
	}
	switch code {
	case alreadyRemindedErrorCode:
		return &AlreadyRemindedPaymentError{PaymentID: paymentID}
	case noPendingPaymentCode, noPendingPaymentAltCode:
		return &NoPendingPaymentToUpdateError{PaymentID: paymentID, Action: action}
	default:
		return nil
	}
}

// ChargePayments lists pending charges the logged-in user sent. A limit of
// zero selects the default.
func (c *Client) ChargePayments(ctx context.Context, limit int) ([]model.Payment, error) {
	return c.pendingPayments(ctx, model.PaymentActionCharge, limit)
}

// PayPayments lists pending payments the logged-in user owes.
func (c *Client) PayPayments(ctx context.Context, limit int) ([]model.Payment, error) {
	return c.pendingPayments(ctx, model.PaymentActionPay, limit)
}

func (c *Client) pendingPayments(ctx context.Context, action model.PaymentAction, limit int) ([]model.Payment, error) {
	if limit < 0 {
		return nil, &InvalidArgumentError{Argument: "limit", Reason: "must not be negative"}
	}
	if limit == 0 {
		limit = pendingPaymentsDefaultLimit
	}

	me, err := c.MyProfile(ctx, false)
	if err != nil {
		return nil, err
	}
	if me == nil || me.ID == "" {
		return nil, &DeserializeError{Reason: "my profile carries no user id"}
	}

	env, err := c.transport.Call(ctx, Request{
		Path:   "/payments",
		Method: http.MethodGet,
		Query: url.Values{
			"action": {string(action)},
			"actor":  {me.ID},
			"limit":  {strconv.Itoa(limit)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s payments: %w", action, err)
	}
	payments, err := deserializeList(env, DecodePayment)
	if err != nil {
		return nil, fmt.Errorf("listing %s payments: %w", action, err)
	}
	return payments, nil
}

// checkAmount rejects amounts that cannot be sent: zero, NaN and infinities.
func checkAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return &InvalidArgumentError{Argument: "amount", Reason: "must be a finite number"}
	case amount == 0:
		return &InvalidArgumentError{Argument: "amount", Reason: "must not be zero"}
	}
	return nil
}

func targetUserID(user *model.User, userID string) (string, error) {
	if user != nil && user.ID != "" {
		return user.ID, nil
	}
	if userID != "" {
		return userID, nil
	}
	return "", &ArgumentMissingError{Arguments: []string{"target_user", "target_user_id"}}
}

func paymentPrivacy(p model.PaymentPrivacy) (model.PaymentPrivacy, error) {
	if p == model.PaymentPrivacyUnknown {
		return model.PaymentPrivacyPrivate, nil
	}
	if !p.Valid() {
		return p, &InvalidArgumentError{Argument: "privacy", Reason: fmt.Sprintf("%q is not one of private, public or friends", p)}
	}
	return p, nil
}
