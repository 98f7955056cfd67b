package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

const (
	defaultROITimeframe = "3-5 years"
	defaultROIBenefits  = "Cleaner air, cooler streets, higher property values and lower respiratory health costs."

	defaultHealthBenefit   = "Fewer respiratory illnesses and hospital visits as particulate levels drop."
	defaultEconomicBenefit = "Reduced public health spending and improved workforce productivity."

	defaultTimeline = "12-18 months from soil preparation to full planting"
)

func defaultTreeTypes() []string {
	return []string{"Neem", "Peepal", "Banyan", "Arjuna", "Gulmohar", "Jamun"}
}

func defaultPhases() []string {
	return []string{
		"Site survey and soil testing",
		"Sapling procurement and nursery staging",
		"Monsoon-aligned planting drive",
		"First-year watering and protection",
	}
}

func defaultSummary(city string, aqi float64, trees int) string {
	place := city
	if place == "" {
		place = "the selected area"
	}
	return fmt.Sprintf(
		"Air quality in %s currently reads AQI %d (%s). Planting %s native trees would measurably improve local air over the coming years.",
		place, int(math.Round(aqi)), LevelForAQI(int(math.Round(aqi))), strconv.Itoa(trees),
	)
}

// Generator builds a complete recommendation straight from the formula
// model, using the tier-band midpoint for the tree count. Output satisfies
// every invariant by construction and never goes through the corrector.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator создает детерминированный генератор рекомендаций.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate строит полную запись только из данных AQI, без модели.
func (g *Generator) Generate(data AQIData) Recommendation {
	aqi := data.AQIValue()
	trees := TreeMidpoint(aqi)
	investment := Investment(trees)

	corrector := Corrector{rng: g.rng}

	return Recommendation{
		Summary:        defaultSummary(data.City, aqi, trees),
		HourlyForecast: corrector.synthesizeForecast(aqi),
		Recommendations: Details{
			TreeTypes:        defaultTreeTypes(),
			NumberOfTrees:    strconv.Itoa(trees),
			InvestmentAmount: FormatINR(investment),
			ROI: ROI{
				Timeframe: defaultROITimeframe,
				Benefits:  defaultROIBenefits,
			},
			CarbonAnalysis: carbonAnalysisFor(trees),
			Comparison:     comparisonFor(data, trees),
			HumanImpact: HumanImpact{
				HealthBenefit:   defaultHealthBenefit,
				EconomicBenefit: defaultEconomicBenefit,
			},
			Implementation: Implementation{
				Phases:      defaultPhases(),
				Timeline:    defaultTimeline,
				Maintenance: FormatINR(Maintenance(investment)),
			},
		},
	}
}
