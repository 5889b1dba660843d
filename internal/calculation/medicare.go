package calculation

import (
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// MedicareCalculator handles Medicare Part B premium calculations including IRMAA
type MedicareCalculator struct {
	BasePremium     decimal.Decimal
	IRMAAThresholds []IRMAAThreshold
	// SeparateThresholds apply to married people filing separately who lived with
	// their spouse; they skip straight to the upper tiers.
	SeparateThresholds []IRMAAThreshold
}

// IRMAAThreshold is one IRMAA tier. MonthlySurcharge is the total adjustment for the
// tier, not an increment over the tier below.
type IRMAAThreshold struct {
	IncomeThresholdSingle decimal.Decimal
	IncomeThresholdJoint  decimal.Decimal
	MonthlySurcharge      decimal.Decimal
	Tier                  int
}

// NewMedicareCalculator creates a new Medicare calculator with 2024 rates
func NewMedicareCalculator() *MedicareCalculator {
	return &MedicareCalculator{
		BasePremium: dec("174.70"),
		IRMAAThresholds: []IRMAAThreshold{
			{IncomeThresholdSingle: decimal.NewFromInt(103000), IncomeThresholdJoint: decimal.NewFromInt(206000), MonthlySurcharge: dec("69.90"), Tier: 1},
			{IncomeThresholdSingle: decimal.NewFromInt(129000), IncomeThresholdJoint: decimal.NewFromInt(258000), MonthlySurcharge: dec("174.70"), Tier: 2},
			{IncomeThresholdSingle: decimal.NewFromInt(161000), IncomeThresholdJoint: decimal.NewFromInt(322000), MonthlySurcharge: dec("279.50"), Tier: 3},
			{IncomeThresholdSingle: decimal.NewFromInt(193000), IncomeThresholdJoint: decimal.NewFromInt(386000), MonthlySurcharge: dec("384.30"), Tier: 4},
			{IncomeThresholdSingle: decimal.NewFromInt(500000), IncomeThresholdJoint: decimal.NewFromInt(750000), MonthlySurcharge: dec("419.30"), Tier: 5},
		},
		SeparateThresholds: []IRMAAThreshold{
			{IncomeThresholdSingle: decimal.NewFromInt(103000), MonthlySurcharge: dec("384.30"), Tier: 4},
			{IncomeThresholdSingle: decimal.NewFromInt(397000), MonthlySurcharge: dec("419.30"), Tier: 5},
		},
	}
}

// Premium returns the monthly Part B premium for a MAGI and filing status. IRMAA is a step
// function: the highest tier whose threshold is exceeded sets the whole surcharge.
func (mc *MedicareCalculator) Premium(magi decimal.Decimal, status domain.FilingStatus) domain.MedicarePremium {
	thresholds := mc.IRMAAThresholds
	if status == domain.MarriedFilingSeparately && len(mc.SeparateThresholds) > 0 {
		thresholds = mc.SeparateThresholds
	}

	surcharge := decimal.Zero
	tier := 0
	for _, threshold := range thresholds {
		limit := threshold.IncomeThresholdSingle
		if status == domain.MarriedFilingJointly {
			limit = threshold.IncomeThresholdJoint
		}
		if !magi.GreaterThan(limit) {
			break
		}
		surcharge = threshold.MonthlySurcharge
		tier = threshold.Tier
	}

	return domain.MedicarePremium{
		PartB:           mc.BasePremium,
		IRMAAAdjustment: surcharge,
		TotalPremium:    mc.BasePremium.Add(surcharge),
		Tier:            tier,
	}
}

// AnnualPremium is twelve months of Premium.
func (mc *MedicareCalculator) AnnualPremium(magi decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return mc.Premium(magi, status).TotalPremium.Mul(twelve)
}

// CalculateMedicarePremium returns the monthly Part B premium for a single filer's income.
func CalculateMedicarePremium(income decimal.Decimal) domain.MedicarePremium {
	return NewMedicareCalculator().Premium(income, domain.Single)
}

// EstimateMAGI approximates modified adjusted gross income for IRMAA: everything
// federally taxable plus the taxable part of Social Security.
func EstimateMAGI(pensionIncome, taxableSSBenefits, otherIncome decimal.Decimal) decimal.Decimal {
	return pensionIncome.Add(taxableSSBenefits).Add(otherIncome)
}
