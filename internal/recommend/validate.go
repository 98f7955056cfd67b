package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Tolerances around model-supplied estimates. Anything outside is replaced
// deterministically; everything inside is kept as the model wrote it.
const (
	treeToleranceLow     = 0.8
	treeToleranceHigh    = 1.2
	investToleranceLow   = 0.7
	investToleranceHigh  = 1.3
	forecastHours        = 5
	forecastPerturbation = 10
)

// Corrector rewrites every numeric claim of a candidate record that falls
// outside tolerance. Narrative fields pass through untouched.
type Corrector struct {
	rng *rand.Rand
}

// NewCorrector создает корректор с заданным источником случайности.
func NewCorrector(rng *rand.Rand) *Corrector {
	return &Corrector{rng: rng}
}

// Reconcile возвращает запись, удовлетворяющую всем инвариантам формул.
func (c *Corrector) Reconcile(cand candidate, data AQIData) Recommendation {
	aqi := data.AQIValue()

	trees := c.reconcileTreeCount(cand.Recommendations.NumberOfTrees, aqi)
	investment := c.reconcileInvestment(cand.Recommendations.InvestmentAmount, trees)

	rec := Recommendation{
		Summary:        stringOr(cand.Summary, defaultSummary(data.City, aqi, trees)),
		HourlyForecast: c.reconcileForecast(cand.HourlyForecast, aqi),
		Recommendations: Details{
			TreeTypes:        treeTypesOr(cand.Recommendations.TreeTypes),
			NumberOfTrees:    strconv.Itoa(trees),
			InvestmentAmount: FormatINR(investment),
			ROI: ROI{
				Timeframe: stringOr(cand.Recommendations.ROI.Timeframe, defaultROITimeframe),
				Benefits:  stringOr(cand.Recommendations.ROI.Benefits, defaultROIBenefits),
			},
			CarbonAnalysis: carbonAnalysisFor(trees),
			Comparison:     comparisonFor(data, trees),
			HumanImpact: HumanImpact{
				HealthBenefit:   stringOr(cand.Recommendations.HumanImpact.HealthBenefit, defaultHealthBenefit),
				EconomicBenefit: stringOr(cand.Recommendations.HumanImpact.EconomicBenefit, defaultEconomicBenefit),
			},
			Implementation: Implementation{
				Phases:      phasesOr(cand.Recommendations.Implementation.Phases),
				Timeline:    stringOr(cand.Recommendations.Implementation.Timeline, defaultTimeline),
				Maintenance: FormatINR(Maintenance(investment)),
			},
		},
	}

	return rec
}

// reconcileTreeCount keeps the model's count when it sits inside the widened
// tier band, otherwise replaces it with the band midpoint.
func (c *Corrector) reconcileTreeCount(value FlexNumber, aqi float64) int {
	expectedMin, expectedMax := TreeRange(aqi)

	claimed, ok := value.Value()
	if !ok {
		claimed = 0
	}

	if claimed < expectedMin*treeToleranceLow || claimed > expectedMax*treeToleranceHigh {
		return TreeMidpoint(aqi)
	}
	return int(math.Round(claimed))
}

// reconcileInvestment keeps the model's figure within ±30% of the recomputed
// cost, otherwise substitutes the recomputed cost.
func (c *Corrector) reconcileInvestment(value *string, trees int) int64 {
	expected := Investment(trees)

	if value == nil {
		return expected
	}
	claimed, ok := ParseAmount(*value)
	if !ok {
		return expected
	}

	low := float64(expected) * investToleranceLow
	high := float64(expected) * investToleranceHigh
	if claimed < low || claimed > high {
		return expected
	}
	return int64(math.Round(claimed))
}

// reconcileForecast accepts a well-formed five-entry forecast as-is and
// synthesizes one otherwise. Synthesis is the only non-deterministic path.
func (c *Corrector) reconcileForecast(entries []candidateForecast, aqi float64) []ForecastEntry {
	if len(entries) == forecastHours {
		out := make([]ForecastEntry, 0, forecastHours)
		for i, entry := range entries {
			value, ok := entry.AQI.Value()
			if !ok || value < 0 {
				return c.synthesizeForecast(aqi)
			}
			hourAQI := int(math.Round(value))
			out = append(out, ForecastEntry{
				Time:  stringOr(entry.Time, fmt.Sprintf("+%dh", i+1)),
				AQI:   hourAQI,
				Level: LevelForAQI(hourAQI),
			})
		}
		return out
	}

	return c.synthesizeForecast(aqi)
}

func (c *Corrector) synthesizeForecast(aqi float64) []ForecastEntry {
	current := int(math.Round(aqi))
	out := make([]ForecastEntry, 0, forecastHours)

	for i := 1; i <= forecastHours; i++ {
		perturbation := c.rng.Intn(2*forecastPerturbation+1) - forecastPerturbation
		hourAQI := current + perturbation
		if hourAQI < 0 {
			hourAQI = 0
		}
		out = append(out, ForecastEntry{
			Time:  fmt.Sprintf("+%dh", i),
			AQI:   hourAQI,
			Level: LevelForAQI(hourAQI),
		})
	}

	return out
}

// Derived fields are never trusted from the candidate: they are cheap to
// recompute and expensive to get wrong.
func carbonAnalysisFor(trees int) CarbonAnalysis {
	return CarbonAnalysis{
		AnnualCarbonSequestration:   fmt.Sprintf("%.1f tonnes CO2/year", AnnualCarbonTonnes(trees)),
		LifetimeCarbonSequestration: fmt.Sprintf("%.1f tonnes CO2", LifetimeCarbonTonnes(trees)),
		AirPollutionReduction:       fmt.Sprintf("%d%%", PollutionReductionPercent(trees)),
	}
}

func comparisonFor(data AQIData, trees int) Comparison {
	aqi := data.AQIValue()
	factor := ImprovementFactor(trees)

	return Comparison{
		Before: AQISnapshot{
			AQI:  int(math.Round(aqi)),
			PM25: int(math.Round(data.pm25Value())),
			PM10: int(math.Round(data.pm10Value())),
		},
		After: AQISnapshot{
			AQI:  ProjectedAQI(aqi, trees),
			PM25: ProjectedPollutant(data.pm25Value(), trees),
			PM10: ProjectedPollutant(data.pm10Value(), trees),
		},
		Improvement: fmt.Sprintf("%.1f%%", factor*100),
	}
}

func stringOr(value *string, fallback string) string {
	if value != nil && strings.TrimSpace(*value) != "" {
		return strings.TrimSpace(*value)
	}
	return fallback
}

func treeTypesOr(values FlexStringList) []string {
	if len(values) > 0 {
		return []string(values)
	}
	return defaultTreeTypes()
}

func phasesOr(values FlexStringList) []string {
	if len(values) > 0 {
		return []string(values)
	}
	return defaultPhases()
}
