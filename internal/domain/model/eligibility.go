package model

// EligibilityToken authorizes a single send-money call. Tokens are issued per
// payment and must not be reused.
type EligibilityToken struct {
	Token         string
	Eligible      bool
	Fees          []Fee
	FeeDisclaimer string

	Raw map[string]any
}

// Fee is a fee the platform would apply to a payment.
type Fee struct {
	ProductURI                 string
	AppliedTo                  string
	BaseFeeAmount              float64
	FeePercentage              float64
	CalculatedFeeAmountInCents int64
	FeeToken                   string

	Raw map[string]any
}
