package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

func TestParsePaymentMethodKind(t *testing.T) {
	tests := []struct {
		in   string
		want model.PaymentMethodKind
	}{
		{"bank", model.PaymentMethodKindBank},
		{"balance", model.PaymentMethodKindBalance},
		{"card", model.PaymentMethodKindCard},
		{"crypto", model.PaymentMethodKindUnsupported},
		{"", model.PaymentMethodKindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ParsePaymentMethodKind(tt.in))
		})
	}
}

func TestParseTransactionType_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, model.TransactionTypePayment, model.ParseTransactionType("payment"))
	assert.Equal(t, model.TransactionTypeDisbursement, model.ParseTransactionType("disbursement"))
	assert.Equal(t, model.TransactionTypeUnknown, model.ParseTransactionType("gift_card"))
}

func TestPaymentPrivacy_Valid(t *testing.T) {
	assert.True(t, model.PaymentPrivacyPrivate.Valid())
	assert.True(t, model.PaymentPrivacyFriends.Valid())
	assert.False(t, model.PaymentPrivacy("everyone").Valid())
	assert.False(t, model.PaymentPrivacyUnknown.Valid())
}

func TestParsePaymentRole_DefaultsToNone(t *testing.T) {
	assert.Equal(t, model.PaymentRoleDefault, model.ParsePaymentRole("default"))
	assert.Equal(t, model.PaymentRoleNone, model.ParsePaymentRole("primary"))
	assert.True(t, model.PaymentMethod{Role: model.PaymentRoleDefault}.IsDefault())
}
