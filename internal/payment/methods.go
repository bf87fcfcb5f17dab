package payment

import (
	"strings"

	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
)

// MaxCODTotal caps cash-on-delivery orders at Rp5.000.000.
const MaxCODTotal int64 = 5_000_000

// Option is one concrete channel under a payment method, e.g. BCA under
// bank transfer.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Method describes one payment method the storefront offers. Methods with no
// options accept an empty option code.
type Method struct {
	Kind        enums.PaymentMethodKind `json:"kind"`
	Label       string                  `json:"label"`
	Description string                  `json:"description"`
	Options     []Option                `json:"options,omitempty"`
	MaxTotal    int64                   `json:"max_total,omitempty"`
	// Instant methods settle at checkout; the rest stay unpaid until the
	// transfer lands or the courier collects.
	Instant bool `json:"instant"`
}

// Selection is the buyer's choice at checkout.
type Selection struct {
	Kind   enums.PaymentMethodKind `json:"kind"`
	Option string                  `json:"option"`
}

var catalog = []Method{
	{
		Kind:        enums.PaymentMethodBankTransfer,
		Label:       "Transfer Bank",
		Description: "Manual transfer, verified within one business day",
		Options: []Option{
			{Code: "bca", Label: "BCA"},
			{Code: "mandiri", Label: "Mandiri"},
			{Code: "bni", Label: "BNI"},
			{Code: "bri", Label: "BRI"},
		},
	},
	{
		Kind:        enums.PaymentMethodEWallet,
		Label:       "E-Wallet",
		Description: "Pay instantly from your wallet balance",
		Options: []Option{
			{Code: "gopay", Label: "GoPay"},
			{Code: "ovo", Label: "OVO"},
			{Code: "dana", Label: "DANA"},
			{Code: "shopeepay", Label: "ShopeePay"},
		},
		Instant: true,
	},
	{
		Kind:        enums.PaymentMethodVirtualAccount,
		Label:       "Virtual Account",
		Description: "Automatic confirmation after transfer",
		Options: []Option{
			{Code: "bca_va", Label: "BCA Virtual Account"},
			{Code: "briva", Label: "BRI Virtual Account"},
			{Code: "bni_va", Label: "BNI Virtual Account"},
			{Code: "permata_va", Label: "Permata Virtual Account"},
		},
	},
	{
		Kind:        enums.PaymentMethodCreditCard,
		Label:       "Kartu Kredit",
		Description: "Visa, Mastercard, and JCB",
		Options: []Option{
			{Code: "visa", Label: "Visa"},
			{Code: "mastercard", Label: "Mastercard"},
			{Code: "jcb", Label: "JCB"},
		},
		Instant: true,
	},
	{
		Kind:        enums.PaymentMethodCOD,
		Label:       "Bayar di Tempat (COD)",
		Description: "Cash on delivery, up to Rp5.000.000",
		MaxTotal:    MaxCODTotal,
	},
	{
		Kind:        enums.PaymentMethodInstallment,
		Label:       "Cicilan",
		Description: "Split payments over a fixed tenor",
		Options: []Option{
			{Code: "tenor_3", Label: "3 bulan"},
			{Code: "tenor_6", Label: "6 bulan"},
			{Code: "tenor_12", Label: "12 bulan"},
		},
		Instant: true,
	},
}

// Catalog returns the storefront payment methods in display order.
func Catalog() []Method {
	out := make([]Method, len(catalog))
	copy(out, catalog)
	return out
}

// MethodByKind looks up a catalog entry.
func MethodByKind(kind enums.PaymentMethodKind) (Method, bool) {
	for _, method := range catalog {
		if method.Kind == kind {
			return method, true
		}
	}
	return Method{}, false
}

// ValidateSelection checks the buyer's choice against the catalog and the
// order total, and returns the matched method.
func ValidateSelection(sel Selection, total int64) (Method, error) {
	if !sel.Kind.IsValid() {
		return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	method, ok := MethodByKind(sel.Kind)
	if !ok {
		return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method is not offered")
	}

	option := strings.TrimSpace(sel.Option)
	if len(method.Options) == 0 {
		if option != "" {
			return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method does not take an option")
		}
	} else {
		if option == "" {
			return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "payment option is required")
		}
		if !hasOption(method, option) {
			return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment option")
		}
	}

	if method.MaxTotal > 0 && total > method.MaxTotal {
		return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "order total exceeds the cash on delivery limit")
	}
	return method, nil
}

// SettlementStatus maps a method to the payment status a fresh order gets.
func SettlementStatus(method Method) enums.PaymentStatus {
	if method.Instant {
		return enums.PaymentStatusPaid
	}
	return enums.PaymentStatusUnpaid
}

func hasOption(method Method, code string) bool {
	for _, option := range method.Options {
		if option.Code == code {
			return true
		}
	}
	return false
}
