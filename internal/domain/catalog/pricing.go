package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// PricingRule computes a sale price from a wholesale cost price.
// The rule applies a margin rate on top of cost plus shipping, enforces a
// minimum absolute margin, and rounds up to a display-friendly unit.
type PricingRule struct {
	// MarginRate is the target margin as a ratio of cost (0.3 = 30%)
	MarginRate decimal.Decimal
	// MinMargin is the minimum absolute margin per unit
	MinMargin decimal.Decimal
	// IncludeShipping adds the wholesaler shipping fee into the cost base
	IncludeShipping bool
	// RoundTo rounds the final price up to a multiple of this unit (e.g. 100)
	RoundTo decimal.Decimal
}

// DefaultPricingRule returns the rule used when no custom rule is configured:
// 30% margin over cost+shipping with a 1000 KRW floor, rounded up to 100.
func DefaultPricingRule() PricingRule {
	return PricingRule{
		MarginRate:      decimal.NewFromFloat(0.3),
		MinMargin:       decimal.NewFromInt(1000),
		IncludeShipping: true,
		RoundTo:         decimal.NewFromInt(100),
	}
}

// Validate checks the rule parameters
func (r PricingRule) Validate() error {
	if r.MarginRate.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("margin rate cannot be negative")
	}
	if r.MinMargin.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("minimum margin cannot be negative")
	}
	if r.RoundTo.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("rounding unit cannot be negative")
	}
	return nil
}

// Apply computes the sale price for the given cost and shipping fee
func (r PricingRule) Apply(costPrice, shippingFee decimal.Decimal) decimal.Decimal {
	base := costPrice
	if r.IncludeShipping {
		base = base.Add(shippingFee)
	}

	margin := base.Mul(r.MarginRate)
	if margin.LessThan(r.MinMargin) {
		margin = r.MinMargin
	}

	price := base.Add(margin)
	return r.roundUp(price)
}

// roundUp rounds price up to the next multiple of RoundTo
func (r PricingRule) roundUp(price decimal.Decimal) decimal.Decimal {
	if r.RoundTo.IsZero() {
		return price
	}
	quotient := price.Div(r.RoundTo).Ceil()
	return quotient.Mul(r.RoundTo)
}
