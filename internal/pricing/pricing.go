package pricing

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Rules holds the two pricing knobs applied at order time: a bulk discount on
// large line items and a flat shipping fee waived above a subtotal threshold.
type Rules struct {
	BulkThreshold         int
	BulkDiscountPercent   int64
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultRules returns the standard shop rules: 10% off lines of 5 or more,
// $5.00 shipping on orders under $50.00.
func DefaultRules() Rules {
	return Rules{
		BulkThreshold:         5,
		BulkDiscountPercent:   10,
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.NewFromInt(5),
	}
}

// RulesFromEnv reads the pricing knobs from the environment, falling back to
// the defaults for anything unset or unparsable.
func RulesFromEnv() Rules {
	r := DefaultRules()
	if v := os.Getenv("BULK_DISCOUNT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			r.BulkThreshold = n
		}
	}
	if v := os.Getenv("BULK_DISCOUNT_PERCENT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n <= 100 {
			r.BulkDiscountPercent = n
		}
	}
	if v := os.Getenv("FREE_SHIPPING_THRESHOLD"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			r.FreeShippingThreshold = d
		}
	}
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			r.ShippingFee = d
		}
	}
	return r
}

// PriceLine returns the total for a line of quantity units at unitPrice and
// whether the bulk discount was applied. Callers must reject non-positive
// quantities before pricing.
func (r Rules) PriceLine(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, bool) {
	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if quantity >= r.BulkThreshold {
		factor := decimal.NewFromInt(100 - r.BulkDiscountPercent).Div(decimal.NewFromInt(100))
		return lineTotal.Mul(factor), true
	}
	return lineTotal, false
}

// ShippingFor returns the shipping fee for a subtotal. A subtotal at or above
// the threshold ships free; only strictly smaller subtotals pay the fee.
func (r Rules) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(r.FreeShippingThreshold) {
		return r.ShippingFee
	}
	return decimal.Zero
}
