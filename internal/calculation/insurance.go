package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// SocialInsuranceCalculator prices the premiums a household pays itself after
// leaving employment: national pension and national health insurance.
type SocialInsuranceCalculator struct {
	config   domain.SocialInsuranceConfig
	people   []domain.PensionPerson
	children []domain.Child
}

// NewSocialInsuranceCalculator creates a social insurance calculator.
func NewSocialInsuranceCalculator(config *domain.Configuration) *SocialInsuranceCalculator {
	return &SocialInsuranceCalculator{
		config:   config.SocialInsurance,
		people:   config.Pension.People,
		children: config.Education.Children,
	}
}

// NationalPensionPremium returns the annual premium for adults aged 20 to 59.
func (sc *SocialInsuranceCalculator) NationalPensionPremium(date time.Time) decimal.Decimal {
	total := decimal.Zero
	if !sc.config.Enabled {
		return total
	}
	annual := sc.config.NationalPensionMonthly.Mul(decimal.NewFromInt(12))
	for _, p := range sc.people {
		if p.Birthdate.IsZero() {
			continue
		}
		age := dateutil.FractionalAge(p.Birthdate, date)
		if age >= 20 && age < 60 {
			total = total.Add(annual)
		}
	}
	return total
}

// Members returns the number of insured household members on date.
func (sc *SocialInsuranceCalculator) Members(date time.Time) int {
	if n := sc.config.HealthInsurance.Members; n > 0 {
		return n
	}
	n := len(sc.people)
	for _, c := range sc.children {
		if !c.Birthdate.IsZero() && !c.Birthdate.After(date) {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}

// HealthInsurancePremium returns the annual national health insurance premium
// assessed on last year's income: side income plus realized capital gains.
func (sc *SocialInsuranceCalculator) HealthInsurancePremium(date time.Time, annualIncome, prevYearGains decimal.Decimal) decimal.Decimal {
	if !sc.config.Enabled {
		return decimal.Zero
	}
	hi := sc.config.HealthInsurance
	base := decimal.Max(decimal.Zero, annualIncome.Add(prevYearGains).Sub(hi.Deduction))
	premium := base.Mul(hi.Rate).
		Add(hi.PerMember.Mul(decimal.NewFromInt(int64(sc.Members(date))))).
		Add(hi.PerHousehold)
	if hi.MaxPremium.IsPositive() {
		premium = decimal.Min(premium, hi.MaxPremium)
	}
	return premium
}
