package model

// PaymentMethod is a funding source attached to the account.
type PaymentMethod struct {
	ID   string
	Role PaymentRole
	Name string
	Kind PaymentMethodKind

	Raw map[string]any
}

// IsDefault reports whether the method is the account's default funding source.
func (m PaymentMethod) IsDefault() bool {
	return m.Role == PaymentRoleDefault
}
