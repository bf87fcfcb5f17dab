package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoluma/luma-backend/pkg/enums"
)

func TestCatalogCoversEveryKind(t *testing.T) {
	methods := Catalog()
	require.Len(t, methods, 6)

	seen := map[enums.PaymentMethodKind]bool{}
	for _, method := range methods {
		assert.True(t, method.Kind.IsValid(), "kind %q", method.Kind)
		assert.NotEmpty(t, method.Label)
		seen[method.Kind] = true
	}
	assert.Len(t, seen, 6)
}

func TestValidateSelectionAcceptsKnownOption(t *testing.T) {
	method, err := ValidateSelection(Selection{Kind: enums.PaymentMethodBankTransfer, Option: "bca"}, 150_000)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodBankTransfer, method.Kind)
	assert.False(t, method.Instant)
}

func TestValidateSelectionRejectsUnknownKind(t *testing.T) {
	_, err := ValidateSelection(Selection{Kind: "crypto"}, 150_000)
	assert.Error(t, err)
}

func TestValidateSelectionRejectsUnknownOption(t *testing.T) {
	_, err := ValidateSelection(Selection{Kind: enums.PaymentMethodEWallet, Option: "linkaja"}, 150_000)
	assert.Error(t, err)
}

func TestValidateSelectionRequiresOptionWhenMethodHasSome(t *testing.T) {
	_, err := ValidateSelection(Selection{Kind: enums.PaymentMethodEWallet}, 150_000)
	assert.Error(t, err)
}

func TestValidateSelectionCODCap(t *testing.T) {
	_, err := ValidateSelection(Selection{Kind: enums.PaymentMethodCOD}, MaxCODTotal)
	require.NoError(t, err)

	_, err = ValidateSelection(Selection{Kind: enums.PaymentMethodCOD}, MaxCODTotal+1)
	assert.Error(t, err)
}

func TestValidateSelectionCODRejectsOption(t *testing.T) {
	_, err := ValidateSelection(Selection{Kind: enums.PaymentMethodCOD, Option: "cash"}, 100_000)
	assert.Error(t, err)
}

func TestSettlementStatus(t *testing.T) {
	instant, ok := MethodByKind(enums.PaymentMethodCreditCard)
	require.True(t, ok)
	assert.Equal(t, enums.PaymentStatusPaid, SettlementStatus(instant))

	deferred, ok := MethodByKind(enums.PaymentMethodVirtualAccount)
	require.True(t, ok)
	assert.Equal(t, enums.PaymentStatusUnpaid, SettlementStatus(deferred))
}
