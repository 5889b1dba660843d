package output

import (
	money "github.com/mapension/retirement-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a rate (0.0725) as a percentage with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string { return money.FormatRate(rate, 2) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
