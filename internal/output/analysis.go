package output

import (
	"sort"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// Recommendation summarizes when and whether the scenarios reach FI.
type Recommendation struct {
	EarliestScenario string
	EarliestFireAge  float64
	LatestScenario   string
	LatestFireAge    float64
	SpreadMonths     int
	AllReachFI       bool
	AnyRuined        bool
}

// AnalyzeScenarios ranks the scenarios that reach FI by FI month.
// Extracted from embedded console logic for testability.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	var rec Recommendation
	if results == nil || len(results.Scenarios) == 0 {
		return rec
	}
	reached := make([]domain.ScenarioResult, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		if sc.Ruined {
			rec.AnyRuined = true
		}
		if sc.FireAchieved {
			reached = append(reached, sc)
		}
	}
	rec.AllReachFI = len(reached) == len(results.Scenarios)
	if len(reached) == 0 {
		return rec
	}
	sort.SliceStable(reached, func(i, j int) bool { return reached[i].FireMonth < reached[j].FireMonth })
	first, last := reached[0], reached[len(reached)-1]
	rec.EarliestScenario = first.Scenario
	rec.EarliestFireAge = first.FireAge
	rec.LatestScenario = last.Scenario
	rec.LatestFireAge = last.FireAge
	rec.SpreadMonths = last.FireMonth - first.FireMonth
	return rec
}
