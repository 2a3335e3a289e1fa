package calculation

import (
	"math"

	"github.com/fireplan/fire-simulator/internal/domain"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ReturnGenerator produces a finite sequence of monthly return rates.
// Generate must be restartable: calling it twice yields the same sequence.
type ReturnGenerator interface {
	Generate(months int) []float64
}

// MonthlyMean converts an annual return to the equivalent compounded monthly rate.
func MonthlyMean(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

// MonthlyStd converts an annual volatility to a monthly one.
func MonthlyStd(annualStd float64) float64 {
	return annualStd / math.Sqrt(12)
}

// ConstantReturns is the deterministic mean path used by the scenario runner.
type ConstantReturns struct {
	AnnualRate float64
}

func (c ConstantReturns) Generate(months int) []float64 {
	rate := MonthlyMean(c.AnnualRate)
	out := make([]float64, months)
	for i := range out {
		out[i] = rate
	}
	return out
}

// IIDReturns draws independent normal monthly returns centred on the
// compounded monthly mean. A positive MeanReversionSpeed pulls each month's
// deviation against the previous one.
type IIDReturns struct {
	AnnualMean         float64
	AnnualStd          float64
	MeanReversionSpeed float64
	Seed               uint64
}

func (g IIDReturns) Generate(months int) []float64 {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(g.Seed)}
	mu := MonthlyMean(g.AnnualMean)
	sigma := MonthlyStd(g.AnnualStd)

	out := make([]float64, months)
	prev := 0.0
	for i := range out {
		dev := sigma*norm.Rand() - g.MeanReversionSpeed*prev
		out[i] = math.Max(mu+dev, -0.95)
		prev = dev
	}
	return out
}

// Regime classifies the trailing cumulative return.
type Regime int

const (
	RegimeNormal Regime = iota
	RegimeCrash
	RegimeBubble
)

func (r Regime) String() string {
	switch r {
	case RegimeCrash:
		return "crash"
	case RegimeBubble:
		return "bubble"
	default:
		return "normal"
	}
}

// EnhancedReturns is a GARCH(1,1) volatility process with regime-dependent
// mean reversion of the trailing cumulative return.
type EnhancedReturns struct {
	AnnualMean float64
	AnnualStd  float64
	Model      domain.EnhancedModelConfig
	Seed       uint64
}

func (g EnhancedReturns) Generate(months int) []float64 {
	rates, _ := g.GenerateWithRegimes(months)
	return rates
}

// classifyRegime maps a trailing cumulative return to a regime.
func classifyRegime(cumulative float64, m domain.EnhancedModelConfig) Regime {
	switch {
	case cumulative <= m.CrashThreshold:
		return RegimeCrash
	case cumulative >= m.BubbleThreshold:
		return RegimeBubble
	default:
		return RegimeNormal
	}
}

func reversionSpeed(r Regime, m domain.EnhancedModelConfig) float64 {
	switch r {
	case RegimeCrash:
		return m.MRSpeedCrash
	case RegimeBubble:
		return m.MRSpeedBubble
	default:
		return m.MRSpeedNormal
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// GenerateWithRegimes returns the monthly rates and the regime in force for each month.
func (g EnhancedReturns) GenerateWithRegimes(months int) ([]float64, []Regime) {
	m := g.Model
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(g.Seed)}
	mu := MonthlyMean(g.AnnualMean)
	window := m.Window
	if window <= 0 {
		window = 12
	}
	expectedCumulative := math.Pow(1+mu, float64(window)) - 1

	sigma := clamp(MonthlyStd(g.AnnualStd), m.VolatilityFloor, m.VolatilityCeiling)
	variance := sigma * sigma
	prevShock := 0.0

	rates := make([]float64, months)
	regimes := make([]Regime, months)
	for t := 0; t < months; t++ {
		if t > 0 {
			variance = m.GarchOmega + m.GarchAlpha*prevShock*prevShock + m.GarchBeta*variance
			sigma = clamp(math.Sqrt(variance), m.VolatilityFloor, m.VolatilityCeiling)
			variance = sigma * sigma
		}

		regime := RegimeNormal
		drift := mu
		if t >= window {
			growth := 1.0
			for _, r := range rates[t-window : t] {
				growth *= 1 + r
			}
			cumulative := growth - 1
			regime = classifyRegime(cumulative, m)
			drift += reversionSpeed(regime, m) * (expectedCumulative - cumulative) / float64(window)
		}

		shock := sigma * norm.Rand()
		rates[t] = math.Max(drift+shock, -0.95)
		regimes[t] = regime
		prevShock = shock
	}
	return rates, regimes
}

// NewReturnGenerator picks the stochastic generator configured for Monte Carlo.
func NewReturnGenerator(params domain.ScenarioParameters, mc domain.MonteCarloConfig, seed int64) ReturnGenerator {
	mean := params.AnnualReturnRate.InexactFloat64()
	std := mc.ReturnStdDev
	if std == 0 {
		std = params.AnnualReturnStd.InexactFloat64()
	}
	if mc.EnhancedModel.Enabled {
		return EnhancedReturns{AnnualMean: mean, AnnualStd: std, Model: mc.EnhancedModel, Seed: uint64(seed)}
	}
	return IIDReturns{AnnualMean: mean, AnnualStd: std, MeanReversionSpeed: mc.MeanReversionSpeed, Seed: uint64(seed)}
}
