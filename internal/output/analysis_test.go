package output

import (
	"testing"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeScenarios(t *testing.T) {
	t.Run("ranks by FI month", func(t *testing.T) {
		rec := AnalyzeScenarios(buildTestComparison())
		assert.Equal(t, "optimistic", rec.EarliestScenario)
		assert.Equal(t, "standard", rec.LatestScenario)
		assert.Equal(t, 1, rec.SpreadMonths)
		assert.False(t, rec.AllReachFI)
		assert.False(t, rec.AnyRuined)
	})

	t.Run("all reach FI", func(t *testing.T) {
		cmp := buildTestComparison()
		cmp.Scenarios[2] = scenarioResult(domain.ScenarioPessimistic, 2, 22000000)
		cmp.Scenarios[2].Ruined = true
		rec := AnalyzeScenarios(cmp)
		assert.True(t, rec.AllReachFI)
		assert.True(t, rec.AnyRuined)
		assert.Equal(t, "pessimistic", rec.LatestScenario)
	})

	t.Run("none reach FI", func(t *testing.T) {
		cmp := &domain.ScenarioComparison{Scenarios: []domain.ScenarioResult{scenarioResult("standard", -1, 0)}}
		rec := AnalyzeScenarios(cmp)
		assert.Empty(t, rec.EarliestScenario)
		assert.False(t, rec.AllReachFI)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Recommendation{}, AnalyzeScenarios(nil))
	})
}
