package config

import (
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func orDefault(v *decimal.Decimal, def decimal.Decimal) {
	if v.IsZero() {
		*v = def
	}
}

// DefaultEducationCosts is the annual cost per school type for each band.
func DefaultEducationCosts() map[string]map[string]decimal.Decimal {
	return map[string]map[string]decimal.Decimal{
		domain.BandNursery:      {"none": decimal.Zero, "public": dec(300000), "private": dec(500000)},
		domain.BandKindergarten: {"public": dec(165000), "private": dec(309000)},
		domain.BandElementary:   {"public": dec(353000), "private": dec(1667000)},
		domain.BandJuniorHigh:   {"public": dec(539000), "private": dec(1436000)},
		domain.BandHigh:         {"public": dec(513000), "private": dec(1054000)},
		domain.BandUniversity:   {"national": dec(1100000), "private_arts": dec(1600000), "private_science": dec(1900000)},
	}
}

var defaultChildPaths = map[string]string{
	domain.BandNursery:      "none",
	domain.BandKindergarten: "public",
	domain.BandElementary:   "public",
	domain.BandJuniorHigh:   "public",
	domain.BandHigh:         "public",
	domain.BandUniversity:   "national",
}

// ApplyDefaults fills zero-valued settings with the standard assumptions.
// Values that were set explicitly are left alone.
func ApplyDefaults(c *domain.Configuration) {
	if c.Simulation.StartAge == 0 {
		c.Simulation.StartAge = 35
	}
	if c.Simulation.LifeExpectancy == 0 {
		c.Simulation.LifeExpectancy = 90
	}

	f := &c.Fire
	orDefault(&f.SafetyBuffer, dec(1.2))
	orDefault(&f.Tolerance, dec(100000))
	orDefault(&f.QuickCheckMultiple, dec(10))
	if f.MaxIterations == 0 {
		f.MaxIterations = 100
	}

	a := &c.AssetAllocation
	if a.CashBufferMonths == 0 {
		a.CashBufferMonths = 6
	}
	orDefault(&a.MinCashBalance, dec(1000000))
	orDefault(&a.AutoInvestThreshold, dec(1.5))
	orDefault(&a.NISAAnnualLimit, dec(3600000))
	orDefault(&a.CapitalGainsTaxRate, dec(0.20315))

	r := &c.DynamicExpenseReduction
	if r.DrawdownThresholds == (domain.LevelThresholds{}) {
		r.DrawdownThresholds = domain.LevelThresholds{Warning: dec(-0.15), Concern: dec(-0.30), Crisis: dec(-0.50)}
	}
	if r.ReductionRates == (domain.LevelValues{}) {
		r.ReductionRates = domain.LevelValues{Normal: decimal.Zero, Warning: dec(0.30), Concern: dec(0.60), Crisis: dec(0.90)}
	}

	if c.Education.Costs == nil {
		c.Education.Costs = DefaultEducationCosts()
	}
	for i := range c.Education.Children {
		applyChildDefaults(&c.Education.Children[i])
	}

	p := &c.Pension
	if p.StartAge == 0 {
		p.StartAge = 65
	}
	for i := range p.People {
		person := &p.People[i]
		if person.PensionType == "" {
			person.PensionType = domain.PensionEmployee
		}
		if person.WorkStartAge == 0 {
			person.WorkStartAge = 23
		}
		if person.NationalContributionYears == 0 {
			person.NationalContributionYears = 40
		}
	}

	si := &c.SocialInsurance
	orDefault(&si.NationalPensionMonthly, dec(16980))
	hi := &si.HealthInsurance
	orDefault(&hi.Rate, dec(0.11))
	orDefault(&hi.Deduction, dec(430000))
	orDefault(&hi.PerMember, dec(50000))
	orDefault(&hi.PerHousehold, dec(30000))
	orDefault(&hi.MaxPremium, dec(1060000))

	applyMonteCarloDefaults(&c.MonteCarlo)
	for _, sp := range []*domain.ScenarioParameters{&c.Simulation.Standard, &c.Simulation.Optimistic, &c.Simulation.Pessimistic} {
		orDefault(&sp.AnnualReturnStd, decimal.NewFromFloat(c.MonteCarlo.ReturnStdDev))
	}
}

func applyChildDefaults(child *domain.Child) {
	set := func(field *string, band string) {
		if *field == "" {
			*field = defaultChildPaths[band]
		}
	}
	set(&child.Nursery, domain.BandNursery)
	set(&child.Kindergarten, domain.BandKindergarten)
	set(&child.Elementary, domain.BandElementary)
	set(&child.JuniorHigh, domain.BandJuniorHigh)
	set(&child.High, domain.BandHigh)
	set(&child.University, domain.BandUniversity)
}

func applyMonteCarloDefaults(mc *domain.MonteCarloConfig) {
	if mc.Iterations == 0 {
		mc.Iterations = 1000
	}
	if mc.ReturnStdDev == 0 {
		mc.ReturnStdDev = 0.15
	}
	if mc.Tolerance == 0 {
		mc.Tolerance = 0.10
	}
	em := &mc.EnhancedModel
	setF := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setF(&em.GarchOmega, 0.00001)
	setF(&em.GarchAlpha, 0.15)
	setF(&em.GarchBeta, 0.80)
	setF(&em.VolatilityFloor, 0.008)
	setF(&em.VolatilityCeiling, 0.035)
	setF(&em.CrashThreshold, -0.15)
	setF(&em.BubbleThreshold, 0.15)
	setF(&em.MRSpeedCrash, 0.15)
	setF(&em.MRSpeedNormal, 0.30)
	setF(&em.MRSpeedBubble, 0.10)
	if em.Window == 0 {
		em.Window = 12
	}
}
