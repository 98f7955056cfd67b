package recommend

import "math"

// Fixed planting economics. The validator and the fallback generator both
// read these; they must never be duplicated elsewhere.
const (
	costPerTree     = 4000 // ₹ per sapling, planting included
	maintenanceRate = 0.05

	co2KgPerTreeYear  = 22.0
	treeLifetimeYears = 40

	pollutionReductionScale = 500
	pollutionReductionMin   = 5
	pollutionReductionMax   = 30

	improvementCapFactor  = 0.30
	improvementNormalizer = 100000
)

// tierBand maps one AQI range to a [low, high] trees-per-AQI-point
// multiplier. Bands are contiguous and monotonically increasing, so a worse
// AQI always calls for more trees.
type tierBand struct {
	maxAQI float64
	low    float64
	high   float64
}

var tierBands = []tierBand{
	{maxAQI: 50, low: 50, high: 100},
	{maxAQI: 100, low: 100, high: 150},
	{maxAQI: 150, low: 150, high: 200},
	{maxAQI: 200, low: 200, high: 250},
	{maxAQI: 300, low: 250, high: 300},
	{maxAQI: math.MaxFloat64, low: 300, high: 350},
}

// TreeRange возвращает ожидаемый диапазон деревьев для данного AQI.
func TreeRange(aqi float64) (min, max float64) {
	if aqi < 0 {
		aqi = 0
	}

	for _, band := range tierBands {
		if aqi <= band.maxAQI {
			return aqi * band.low, aqi * band.high
		}
	}

	last := tierBands[len(tierBands)-1]
	return aqi * last.low, aqi * last.high
}

// TreeMidpoint возвращает середину диапазона, округленную до целого.
func TreeMidpoint(aqi float64) int {
	min, max := TreeRange(aqi)
	return int(math.Round((min + max) / 2))
}

// Investment возвращает стоимость посадки в рупиях.
func Investment(trees int) int64 {
	return int64(trees) * costPerTree
}

// AnnualCarbonTonnes возвращает годовое поглощение CO2 в тоннах.
func AnnualCarbonTonnes(trees int) float64 {
	return float64(trees) * co2KgPerTreeYear / 1000
}

// LifetimeCarbonTonnes возвращает поглощение CO2 за срок жизни деревьев.
func LifetimeCarbonTonnes(trees int) float64 {
	return AnnualCarbonTonnes(trees) * treeLifetimeYears
}

// PollutionReductionPercent возвращает процент снижения загрязнения.
func PollutionReductionPercent(trees int) int {
	percent := int(math.Round(float64(trees) / pollutionReductionScale))
	if percent < pollutionReductionMin {
		return pollutionReductionMin
	}
	if percent > pollutionReductionMax {
		return pollutionReductionMax
	}
	return percent
}

// ImprovementFactor возвращает долю улучшения AQI, не выше 30%.
func ImprovementFactor(trees int) float64 {
	factor := float64(trees) / improvementNormalizer * improvementCapFactor
	if factor > improvementCapFactor {
		return improvementCapFactor
	}
	if factor < 0 {
		return 0
	}
	return factor
}

// ProjectedAQI возвращает прогнозный AQI после посадки деревьев.
// При ненулевом числе деревьев улучшение строго положительное.
func ProjectedAQI(aqi float64, trees int) int {
	before := int(math.Round(aqi))
	if before < 0 {
		before = 0
	}

	projected := int(math.Round(aqi * (1 - ImprovementFactor(trees))))
	if projected < 0 {
		projected = 0
	}
	if trees > 0 && before > 0 && projected >= before {
		projected = before - 1
	}
	return projected
}

// ProjectedPollutant применяет тот же фактор улучшения к PM-показателю.
func ProjectedPollutant(value float64, trees int) int {
	projected := int(math.Round(value * (1 - ImprovementFactor(trees))))
	if projected < 0 {
		return 0
	}
	return projected
}

// Maintenance возвращает годовое обслуживание как долю инвестиций.
func Maintenance(investment int64) int64 {
	return int64(math.Round(float64(investment) * maintenanceRate))
}

// LevelForAQI возвращает категорию качества воздуха по стандартным порогам.
func LevelForAQI(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}
