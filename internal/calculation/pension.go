package calculation

import (
	"math"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Public pension constants (FY2024).
var (
	NationalPensionFullAmount = decimal.NewFromInt(816000)
	EmployeePensionMultiplier = decimal.NewFromFloat(0.005481)
)

const (
	pensionMaxContributionYears = 40
	defaultRetirementAge        = 65.0
)

// PensionCalculator computes public pension income for each adult.
type PensionCalculator struct {
	config domain.PensionConfig
}

// NewPensionCalculator creates a pension calculator.
func NewPensionCalculator(config domain.PensionConfig) *PensionCalculator {
	return &PensionCalculator{config: config}
}

// NationalAmount returns the annual basic pension for the given contribution years.
func NationalAmount(contributionYears int) decimal.Decimal {
	years := contributionYears
	if years > pensionMaxContributionYears {
		years = pensionMaxContributionYears
	}
	if years < 0 {
		years = 0
	}
	return NationalPensionFullAmount.Mul(decimal.NewFromInt(int64(years))).Div(decimal.NewFromInt(pensionMaxContributionYears))
}

// EmployeeAmount returns the annual earnings-related pension.
func EmployeeAmount(avgMonthlySalary decimal.Decimal, contributionMonths int) decimal.Decimal {
	return avgMonthlySalary.Mul(decimal.NewFromInt(int64(contributionMonths))).Mul(EmployeePensionMultiplier)
}

// contributionMonths counts employee-pension months from work start to the end
// of employment. Employment ends at FI when fireDate is set, otherwise it runs
// to the current age capped at 65.
func contributionMonths(p domain.PensionPerson, date, fireDate time.Time) int {
	end := math.Min(dateutil.FractionalAge(p.Birthdate, date), defaultRetirementAge)
	if !fireDate.IsZero() {
		end = dateutil.FractionalAge(p.Birthdate, fireDate)
	}
	years := math.Max(0, end-float64(p.WorkStartAge))
	return int(years * 12)
}

// PersonAnnualAmount returns one person's annual pension on date.
func (pc *PensionCalculator) PersonAnnualAmount(p domain.PensionPerson, date, fireDate time.Time) decimal.Decimal {
	if p.Birthdate.IsZero() || dateutil.FractionalAge(p.Birthdate, date) < float64(pc.config.StartAge) {
		return decimal.Zero
	}
	switch p.PensionType {
	case domain.PensionNational:
		return NationalAmount(p.NationalContributionYears)
	case domain.PensionFixed:
		return p.AnnualAmount
	default:
		return NationalAmount(p.NationalContributionYears).
			Add(EmployeeAmount(p.AvgMonthlySalary, contributionMonths(p, date, fireDate)))
	}
}

// CalculateAnnualIncome returns the household's annual pension on date.
// fireDate is the zero time while the household is still working.
func (pc *PensionCalculator) CalculateAnnualIncome(date, fireDate time.Time) decimal.Decimal {
	total := decimal.Zero
	if !pc.config.Enabled {
		return total
	}
	for _, p := range pc.config.People {
		total = total.Add(pc.PersonAnnualAmount(p, date, fireDate))
	}
	return total
}
