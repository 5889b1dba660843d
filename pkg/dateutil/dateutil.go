package dateutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// Age calculates the age in whole years at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// MonthsBetween returns the number of whole calendar months from one date to another.
// A partial month is not counted. Negative spans return a negative count.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// ExactAge returns the age at a given date in years with whole months as a fraction
// (62 years 6 months = 62.5).
func ExactAge(birthDate, atDate time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(MonthsBetween(birthDate, atDate))).Div(decimal.NewFromInt(12))
}

// YearsOfService returns creditable service between two dates in years and months,
// expressed as a decimal (20 years 3 months = 20.25). Negative spans return zero.
func YearsOfService(hireDate, atDate time.Time) decimal.Decimal {
	months := MonthsBetween(hireDate, atDate)
	if months <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
}

// FullRetirementAgeMonths returns the Social Security Full Retirement Age in months
// for a birth year, per the SSA schedule.
func FullRetirementAgeMonths(birthYear int) int {
	switch {
	case birthYear <= 1937:
		return 65 * 12
	case birthYear <= 1942:
		return 65*12 + (birthYear-1937)*2 // 65y2m .. 65y10m
	case birthYear <= 1954:
		return 66 * 12
	case birthYear <= 1959:
		return 66*12 + (birthYear-1954)*2 // 66y2m .. 66y10m
	default: // 1960 and later
		return 67 * 12
	}
}

// FullRetirementAge returns the Full Retirement Age in fractional years
// (1955 = 66 years 2 months = 66.1666...).
func FullRetirementAge(birthYear int) decimal.Decimal {
	return decimal.NewFromInt(int64(FullRetirementAgeMonths(birthYear))).Div(decimal.NewFromInt(12))
}

// IsMedicareEligible checks if a person is eligible for Medicare (age 65+)
func IsMedicareEligible(birthDate, atDate time.Time) bool {
	return Age(birthDate, atDate) >= 65
}
