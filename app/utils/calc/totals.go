package calc

import "github.com/shopspring/decimal"

var (
	taxPercent        = decimal.NewFromInt(5)
	shippingFee       = decimal.NewFromInt(100)
	freeShippingAbove = decimal.NewFromInt(5000)
)

func GetTaxPercent() decimal.Decimal {
	return taxPercent
}

func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxPercent).Div(hundred)
}

// ShippingFee is flat and waived once the subtotal crosses the free-shipping
// threshold.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeShippingAbove) {
		return decimal.Zero
	}
	return shippingFee
}

func GrandTotal(subtotal, tax, shipping, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Add(shipping).Sub(discount)
}
