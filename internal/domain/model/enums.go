package model

// PaymentRole is the role a payment method plays for peer payments.
type PaymentRole string

const (
	PaymentRoleDefault PaymentRole = "default"
	PaymentRoleBackup  PaymentRole = "backup"
	PaymentRoleNone    PaymentRole = "none"
)

// ParsePaymentRole maps a wire value to a PaymentRole. Anything outside the
// known set is treated as PaymentRoleNone.
func ParsePaymentRole(s string) PaymentRole {
	switch r := PaymentRole(s); r {
	case PaymentRoleDefault, PaymentRoleBackup:
		return r
	default:
		return PaymentRoleNone
	}
}

// PaymentPrivacy is the audience a payment story is visible to.
type PaymentPrivacy string

const (
	PaymentPrivacyPrivate PaymentPrivacy = "private"
	PaymentPrivacyPublic  PaymentPrivacy = "public"
	PaymentPrivacyFriends PaymentPrivacy = "friends"
	PaymentPrivacyUnknown PaymentPrivacy = ""
)

// ParsePaymentPrivacy maps a wire value to a PaymentPrivacy.
func ParsePaymentPrivacy(s string) PaymentPrivacy {
	switch p := PaymentPrivacy(s); p {
	case PaymentPrivacyPrivate, PaymentPrivacyPublic, PaymentPrivacyFriends:
		return p
	default:
		return PaymentPrivacyUnknown
	}
}

// Valid reports whether p is one of the audiences accepted by /payments.
func (p PaymentPrivacy) Valid() bool {
	return p != PaymentPrivacyUnknown && ParsePaymentPrivacy(string(p)) == p
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusSettled   PaymentStatus = "settled"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusUnknown   PaymentStatus = ""
)

// ParsePaymentStatus maps a wire value to a PaymentStatus.
func ParsePaymentStatus(s string) PaymentStatus {
	switch st := PaymentStatus(s); st {
	case PaymentStatusSettled, PaymentStatusCancelled, PaymentStatusPending,
		PaymentStatusFailed, PaymentStatusExpired:
		return st
	default:
		return PaymentStatusUnknown
	}
}

// PaymentAction distinguishes sending money (pay) from requesting it (charge).
type PaymentAction string

const (
	PaymentActionPay     PaymentAction = "pay"
	PaymentActionCharge  PaymentAction = "charge"
	PaymentActionUnknown PaymentAction = ""
)

// ParsePaymentAction maps a wire value to a PaymentAction.
func ParsePaymentAction(s string) PaymentAction {
	switch a := PaymentAction(s); a {
	case PaymentActionPay, PaymentActionCharge:
		return a
	default:
		return PaymentActionUnknown
	}
}

// TransactionType is the story subtype discriminator.
type TransactionType string

const (
	TransactionTypePayment       TransactionType = "payment"
	TransactionTypeRefund        TransactionType = "refund"         // merchant refund
	TransactionTypeTransfer      TransactionType = "transfer"       // to/from bank account
	TransactionTypeTopUp         TransactionType = "top_up"         // add money to debit card
	TransactionTypeAuthorization TransactionType = "authorization"  // debit card purchase
	TransactionTypeATMWithdrawal TransactionType = "atm_withdrawal" // debit card atm withdrawal
	TransactionTypeDisbursement  TransactionType = "disbursement"
	TransactionTypeUnknown       TransactionType = ""
)

// ParseTransactionType maps a wire value to a TransactionType.
func ParseTransactionType(s string) TransactionType {
	switch t := TransactionType(s); t {
	case TransactionTypePayment, TransactionTypeRefund, TransactionTypeTransfer,
		TransactionTypeTopUp, TransactionTypeAuthorization, TransactionTypeATMWithdrawal,
		TransactionTypeDisbursement:
		return t
	default:
		return TransactionTypeUnknown
	}
}

// PaymentMethodKind is the funding source type.
type PaymentMethodKind string

const (
	PaymentMethodKindBank    PaymentMethodKind = "bank"
	PaymentMethodKindBalance PaymentMethodKind = "balance"
	PaymentMethodKindCard    PaymentMethodKind = "card"

	// PaymentMethodKindUnsupported marks a type outside the known set.
	// Production payloads contain such types; they are skipped on decode.
	PaymentMethodKindUnsupported PaymentMethodKind = "unsupported"
)

// ParsePaymentMethodKind maps a wire value to a PaymentMethodKind.
func ParsePaymentMethodKind(s string) PaymentMethodKind {
	switch k := PaymentMethodKind(s); k {
	case PaymentMethodKindBank, PaymentMethodKindBalance, PaymentMethodKindCard:
		return k
	default:
		return PaymentMethodKindUnsupported
	}
}
