package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// EducationCalculator prices schooling by child age band.
type EducationCalculator struct {
	enabled  bool
	children []domain.Child
	costs    map[string]map[string]decimal.Decimal
}

// NewEducationCalculator creates an education calculator.
func NewEducationCalculator(config domain.EducationConfig) *EducationCalculator {
	return &EducationCalculator{enabled: config.Enabled, children: config.Children, costs: config.Costs}
}

// EducationBand returns the school band for an age in years, or "" outside schooling age.
func EducationBand(age float64) string {
	switch {
	case age < 0:
		return ""
	case age < 3:
		return domain.BandNursery
	case age < 6:
		return domain.BandKindergarten
	case age < 12:
		return domain.BandElementary
	case age < 15:
		return domain.BandJuniorHigh
	case age < 18:
		return domain.BandHigh
	case age < 22:
		return domain.BandUniversity
	default:
		return ""
	}
}

// ChildCost returns the annual cost for one child on date.
func (ec *EducationCalculator) ChildCost(child domain.Child, date time.Time) decimal.Decimal {
	if child.Birthdate.IsZero() || child.Birthdate.After(date) {
		return decimal.Zero
	}
	band := EducationBand(dateutil.FractionalAge(child.Birthdate, date))
	if band == "" {
		return decimal.Zero
	}
	path := child.PathFor(band)
	if path == "" || path == "none" {
		return decimal.Zero
	}
	return ec.costs[band][path]
}

// CalculateAnnualCost returns the total annual education cost on date.
func (ec *EducationCalculator) CalculateAnnualCost(date time.Time) decimal.Decimal {
	total := decimal.Zero
	if !ec.enabled {
		return total
	}
	for _, child := range ec.children {
		total = total.Add(ec.ChildCost(child, date))
	}
	return total
}
