package calculation

import (
	"math"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// AmortizationRow is one month of an amortized loan.
type AmortizationRow struct {
	Month     int
	Date      time.Time
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// AnnuityPayment returns the level monthly payment (whole yen) that repays
// principal over termMonths at annualRate.
func AnnuityPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	r := annualRate.InexactFloat64() / 12
	if r == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Ceil()
	}
	factor := r / (1 - math.Pow(1+r, -float64(termMonths)))
	return principal.Mul(decimal.NewFromFloat(factor)).Ceil()
}

// AmortizationSchedule lists every month of the loan. The last payment is
// trimmed so the balance ends at exactly zero.
func AmortizationSchedule(m domain.MortgageConfig) []AmortizationRow {
	n := m.TermYears * 12
	payment := AnnuityPayment(m.Principal, m.AnnualRate, n)
	if payment.IsZero() {
		return nil
	}
	rate := m.AnnualRate.Div(decimal.NewFromInt(12))
	balance := m.Principal
	rows := make([]AmortizationRow, 0, n)
	for i := 0; i < n && balance.IsPositive(); i++ {
		interest := balance.Mul(rate).Round(0)
		principal := payment.Sub(interest)
		if principal.GreaterThan(balance) || i == n-1 {
			principal = balance
		}
		balance = balance.Sub(principal)
		rows = append(rows, AmortizationRow{
			Month:     i,
			Date:      dateutil.AddMonths(m.StartDate, i),
			Payment:   principal.Add(interest),
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}
	return rows
}

// HousingCalculator covers mortgage service, maintenance and workation costs.
type HousingCalculator struct {
	mortgage    domain.MortgageConfig
	maintenance domain.HouseMaintenanceConfig
	workation   domain.WorkationConfig
	children    []domain.Child
	schedule    []AmortizationRow
}

// NewHousingCalculator creates a housing calculator. Amortized loans are
// scheduled once up front.
func NewHousingCalculator(config *domain.Configuration) *HousingCalculator {
	hc := &HousingCalculator{
		mortgage:    config.Mortgage,
		maintenance: config.HouseMaintenance,
		workation:   config.Workation,
		children:    config.Education.Children,
	}
	if hc.mortgage.Enabled && hc.mortgage.Principal.IsPositive() {
		hc.schedule = AmortizationSchedule(hc.mortgage)
	}
	return hc
}

// MortgagePayment returns the loan payment plus reserve due in the month of date.
func (hc *HousingCalculator) MortgagePayment(date time.Time) decimal.Decimal {
	m := hc.mortgage
	if !m.Enabled {
		return decimal.Zero
	}
	payment := decimal.Zero
	if hc.schedule != nil {
		idx := dateutil.MonthsBetween(m.StartDate, date)
		if idx >= 0 && idx < len(hc.schedule) {
			payment = hc.schedule[idx].Payment
		}
	} else if m.EndDate.IsZero() || !dateutil.BeginningOfMonth(date).After(m.EndDate) {
		payment = m.MonthlyPayment
	}
	return payment.Add(m.MonthlyReserve)
}

// MaintenanceCost returns the annual maintenance charged in the calendar year of date.
func (hc *HousingCalculator) MaintenanceCost(date time.Time) decimal.Decimal {
	total := decimal.Zero
	if !hc.maintenance.Enabled {
		return total
	}
	year := date.Year()
	for _, item := range hc.maintenance.Items {
		if item.FrequencyYears <= 0 || year < item.FirstYear {
			continue
		}
		if (year-item.FirstYear)%item.FrequencyYears == 0 {
			total = total.Add(item.Cost)
		}
	}
	return total
}

// WorkationCost returns the annual workation budget once the reference child
// reaches the configured age.
func (hc *HousingCalculator) WorkationCost(date time.Time) decimal.Decimal {
	w := hc.workation
	if !w.Enabled || w.StartChildIndex < 0 || w.StartChildIndex >= len(hc.children) {
		return decimal.Zero
	}
	child := hc.children[w.StartChildIndex]
	if child.Birthdate.IsZero() || dateutil.FractionalAge(child.Birthdate, date) < float64(w.StartChildAge) {
		return decimal.Zero
	}
	return w.AnnualCost
}
