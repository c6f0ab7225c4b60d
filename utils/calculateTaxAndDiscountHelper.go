package utils

import "github.com/shopspring/decimal"

var decimalOneHundred = decimal.NewFromInt(100)

// CalculateDiscountAmount resolves a percentage ("P") or fixed-amount ("A")
// discount against a subtotal. Negative or zero discounts yield zero.
func CalculateDiscountAmount(subTotal decimal.Decimal, discount decimal.Decimal, discountType string) decimal.Decimal {
	if !discount.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	if discountType == "P" {
		return subTotal.Mul(discount).DivRound(decimalOneHundred, 4)
	}
	return discount
}

// ExclusiveTaxAmount computes the tax on a pre-tax base: base * rate / 100.
func ExclusiveTaxAmount(base decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).DivRound(decimalOneHundred, 4)
}

// InclusiveTaxAmount backs the tax out of a tax-included amount:
// (amount / (100 + rate)) * rate.
func InclusiveTaxAmount(taxIncluded decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return taxIncluded.DivRound(rate.Add(decimalOneHundred), 4).Mul(rate)
}

// RoundMoney rounds to 2 decimal places. Applied only at output boundaries
// so intermediate passes do not compound rounding error.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
