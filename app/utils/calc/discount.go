package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func PercentageDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// CapDiscount bounds a computed discount; a zero cap means uncapped.
func CapDiscount(discount, maxDiscount decimal.Decimal) decimal.Decimal {
	if maxDiscount.IsPositive() && discount.GreaterThan(maxDiscount) {
		return maxDiscount
	}
	return discount
}

// BestOfferPrice resolves the effective discount as the larger of the
// product's own offer and its category's offer, and derives the sale price
// rounded to a whole amount.
func BestOfferPrice(regularPrice decimal.Decimal, productOffer, categoryOffer int) (decimal.Decimal, int) {
	effective := productOffer
	if categoryOffer > effective {
		effective = categoryOffer
	}

	multiplier := hundred.Sub(decimal.NewFromInt(int64(effective))).Div(hundred)
	return regularPrice.Mul(multiplier).Round(0), effective
}
