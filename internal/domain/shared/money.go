package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places amounts are rounded to
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to two places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// TaxFromInclusive extracts the tax portion of a tax-inclusive amount.
// tax = total - total/(1+rate/100)
func TaxFromInclusive(total, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.LessThanOrEqual(decimal.Zero) || total.IsZero() {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	return total.Sub(total.Div(divisor))
}

// SumMoney adds up a list of amounts
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FormatMoney renders an amount with exactly two decimals for API output
func FormatMoney(d decimal.Decimal) string {
	return RoundMoney(d).StringFixed(MoneyScale)
}
