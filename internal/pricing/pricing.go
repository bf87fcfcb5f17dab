package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tokoluma/luma-backend/pkg/config"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
)

// Quote is the derived money breakdown for a cart or order, in whole rupiah.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	ShippingFee int64 `json:"shipping_fee"`
	Total       int64 `json:"total"`
}

// Calculator derives totals from a cart subtotal using the configured tax
// rate and shipping rules.
type Calculator struct {
	taxRate               decimal.Decimal
	freeShippingThreshold int64
	flatShippingFee       int64
}

// NewCalculator validates the pricing knobs and builds a calculator.
func NewCalculator(cfg config.PricingConfig) (*Calculator, error) {
	if cfg.TaxRatePercent < 0 || cfg.TaxRatePercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate percent must be between 0 and 100")
	}
	if cfg.FreeShippingThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "free shipping threshold cannot be negative")
	}
	if cfg.FlatShippingFee < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flat shipping fee cannot be negative")
	}
	return &Calculator{
		taxRate:               decimal.NewFromInt(int64(cfg.TaxRatePercent)).Div(decimal.NewFromInt(100)),
		freeShippingThreshold: cfg.FreeShippingThreshold,
		flatShippingFee:       cfg.FlatShippingFee,
	}, nil
}

// Quote derives tax, shipping, and total from the subtotal. Tax is computed
// in decimal and rounded to whole rupiah, half away from zero. An empty cart
// quotes zero across the board, shipping included.
func (c *Calculator) Quote(subtotal int64) Quote {
	if subtotal <= 0 {
		return Quote{}
	}

	tax := decimal.NewFromInt(subtotal).Mul(c.taxRate).Round(0).IntPart()
	shipping := c.ShippingFee(subtotal)

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: shipping,
		Total:       subtotal + tax + shipping,
	}
}

// ShippingFee returns the flat fee, waived at or above the free threshold.
func (c *Calculator) ShippingFee(subtotal int64) int64 {
	if subtotal >= c.freeShippingThreshold {
		return 0
	}
	return c.flatShippingFee
}

// DiscountPercent returns the rounded percentage saved against the
// strike-through price, or 0 when there is no meaningful discount.
func DiscountPercent(price, comparePrice int64) int {
	if comparePrice <= 0 || price < 0 || price >= comparePrice {
		return 0
	}
	saved := decimal.NewFromInt(comparePrice - price)
	percent := saved.Div(decimal.NewFromInt(comparePrice)).Mul(decimal.NewFromInt(100))
	return int(percent.Round(0).IntPart())
}
