package venmo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyBody is returned when a response that should carry data has an
// absent or empty body.
var ErrEmptyBody = errors.New("venmo: empty response body")

// InvalidHTTPMethodError is returned before any network activity when a
// request uses a verb other than GET, POST, PUT or DELETE.
type InvalidHTTPMethodError struct {
	Method string
}

func (e *InvalidHTTPMethodError) Error() string {
	return fmt.Sprintf("invalid HTTP method %q: must be one of POST, PUT, GET or DELETE", e.Method)
}

// ResourceNotFoundError is returned for a 400 response carrying the
// platform's not-found error code.
type ResourceNotFoundError struct {
	Path string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("400 Bad Request: could not find the requested resource %s", e.Path)
}

// HTTPCodeError is returned for any non-success response whose error code was
// not accepted by the caller.
type HTTPCodeError struct {
	StatusCode int
	Reason     string
	// Body is the decoded error payload; nil when the body was not valid JSON.
	Body map[string]any
}

func (e *HTTPCodeError) Error() string {
	body := "undecodable body"
	if e.Body != nil {
		if b, err := json.Marshal(e.Body); err == nil {
			body = string(b)
		}
	}
	return fmt.Sprintf("HTTP status code is invalid: %d %s: %s", e.StatusCode, e.Reason, body)
}

// ErrorCode returns the platform error code from the payload, if any.
func (e *HTTPCodeError) ErrorCode() (int, bool) {
	return errorCode(e.Body)
}

// ErrorMessage returns the platform error message from the payload, if any.
func (e *HTTPCodeError) ErrorMessage() string {
	return object(e.Body).str(path{"error", "message"})
}

// AuthenticationFailedError is fatal to a single login attempt.
type AuthenticationFailedError struct {
	Reason string
}

func (e *AuthenticationFailedError) Error() string {
	return "authentication failed: " + e.Reason
}

// ArgumentMissingError is returned before any network call when none of the
// alternative arguments identifying a resource was supplied.
type ArgumentMissingError struct {
	Arguments []string
	Reason    string
}

func (e *ArgumentMissingError) Error() string {
	msg := fmt.Sprintf("one of [%s] must be passed", strings.Join(e.Arguments, ", "))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// InvalidArgumentError is returned before any network call when an argument
// is out of range.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

// DeserializeError is returned when a response envelope does not have the
// shape an operation expects.
type DeserializeError struct {
	Reason string
	Err    error
}

func (e *DeserializeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deserializing response: %s: %v", e.Reason, e.Err)
	}
	return "deserializing response: " + e.Reason
}

func (e *DeserializeError) Unwrap() error { return e.Err }

// NoPaymentMethodFoundError is returned when the account has no default
// funding source.
type NoPaymentMethodFoundError struct{}

func (e *NoPaymentMethodFoundError) Error() string {
	return "no eligible payment method found: set a default funding source or pass one explicitly"
}

// NotEnoughBalanceError is returned when the default funding source cannot
// cover a payment.
type NotEnoughBalanceError struct {
	Amount       float64
	TargetUserID string
}

func (e *NotEnoughBalanceError) Error() string {
	return fmt.Sprintf("failed to send $%.2f to user %s: not enough balance on the default funding source; "+
		"pass another funding source id", e.Amount, e.TargetUserID)
}

// GeneralPaymentError is a business failure reported inside a successful
// /payments response.
type GeneralPaymentError struct {
	Title   string
	Message string
}

func (e *GeneralPaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s: %s", e.Title, e.Message)
}

// AlreadyRemindedPaymentError is returned when a reminder was already sent for
// the payment.
type AlreadyRemindedPaymentError struct {
	PaymentID string
}

func (e *AlreadyRemindedPaymentError) Error() string {
	return fmt.Sprintf("a reminder has already been sent for payment %s", e.PaymentID)
}

// NoPendingPaymentToUpdateError is returned when there is no pending payment
// with the id to remind or cancel.
type NoPendingPaymentToUpdateError struct {
	PaymentID string
	Action    string
}

func (e *NoPendingPaymentToUpdateError) Error() string {
	return fmt.Sprintf("no pending payment %s to %s", e.PaymentID, e.Action)
}
