package enums

import "fmt"

// PaymentMethodKind is the closed set of payment method families the
// storefront presents. Each kind is a discriminant for its own option shape;
// none of them trigger gateway calls.
type PaymentMethodKind string

const (
	PaymentMethodBankTransfer   PaymentMethodKind = "bank_transfer"
	PaymentMethodEWallet        PaymentMethodKind = "ewallet"
	PaymentMethodVirtualAccount PaymentMethodKind = "virtual_account"
	PaymentMethodCreditCard     PaymentMethodKind = "credit_card"
	PaymentMethodCOD            PaymentMethodKind = "cod"
	PaymentMethodInstallment    PaymentMethodKind = "installment"
)

var validPaymentMethodKinds = []PaymentMethodKind{
	PaymentMethodBankTransfer,
	PaymentMethodEWallet,
	PaymentMethodVirtualAccount,
	PaymentMethodCreditCard,
	PaymentMethodCOD,
	PaymentMethodInstallment,
}

// String implements fmt.Stringer.
func (p PaymentMethodKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethodKind.
func (p PaymentMethodKind) IsValid() bool {
	for _, candidate := range validPaymentMethodKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodKind converts raw input into a PaymentMethodKind.
func ParsePaymentMethodKind(value string) (PaymentMethodKind, error) {
	for _, candidate := range validPaymentMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method kind %q", value)
}
