package recommend

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AQIData is the trusted input for one reconciliation pass. Readings are
// nullable; a missing reading is treated as zero, never as an error.
type AQIData struct {
	City     string   `json:"city"`
	AQI      *float64 `json:"aqi"`
	PM25     *float64 `json:"pm25"`
	PM10     *float64 `json:"pm10"`
	CO       *float64 `json:"co"`
	NO2      *float64 `json:"no2"`
	SO2      *float64 `json:"so2"`
	O3       *float64 `json:"o3"`
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Wind     *float64 `json:"wind"`
}

// AQIValue возвращает значение AQI, отсутствующее считается нулем.
func (d AQIData) AQIValue() float64 {
	if d.AQI == nil || *d.AQI < 0 {
		return 0
	}
	return *d.AQI
}

func (d AQIData) pm25Value() float64 {
	if d.PM25 == nil || *d.PM25 < 0 {
		return 0
	}
	return *d.PM25
}

func (d AQIData) pm10Value() float64 {
	if d.PM10 == nil || *d.PM10 < 0 {
		return 0
	}
	return *d.PM10
}

// Recommendation is the record produced by a reconciliation pass. Every
// numeric field satisfies the formula invariants regardless of whether the
// record came from a model or from the fallback generator.
type Recommendation struct {
	Summary         string          `json:"summary"`
	HourlyForecast  []ForecastEntry `json:"hourlyForecast"`
	Recommendations Details         `json:"recommendations"`
}

type ForecastEntry struct {
	Time  string `json:"time"`
	AQI   int    `json:"aqi"`
	Level string `json:"level"`
}

type Details struct {
	TreeTypes        []string       `json:"treeTypes"`
	NumberOfTrees    string         `json:"numberOfTrees"`
	InvestmentAmount string         `json:"investmentAmount"`
	ROI              ROI            `json:"roi"`
	CarbonAnalysis   CarbonAnalysis `json:"carbonAnalysis"`
	Comparison       Comparison     `json:"comparison"`
	HumanImpact      HumanImpact    `json:"humanImpact"`
	Implementation   Implementation `json:"implementation"`
}

type ROI struct {
	Timeframe string `json:"timeframe"`
	Benefits  string `json:"benefits"`
}

type CarbonAnalysis struct {
	AnnualCarbonSequestration   string `json:"annualCarbonSequestration"`
	LifetimeCarbonSequestration string `json:"lifetimeCarbonSequestration"`
	AirPollutionReduction       string `json:"airPollutionReduction"`
}

type Comparison struct {
	Before      AQISnapshot `json:"before"`
	After       AQISnapshot `json:"after"`
	Improvement string      `json:"improvement"`
}

type AQISnapshot struct {
	AQI  int `json:"aqi"`
	PM25 int `json:"pm25"`
	PM10 int `json:"pm10"`
}

type HumanImpact struct {
	HealthBenefit   string `json:"healthBenefit"`
	EconomicBenefit string `json:"economicBenefit"`
}

type Implementation struct {
	Phases      []string `json:"phases"`
	Timeline    string   `json:"timeline"`
	Maintenance string   `json:"maintenance"`
}

// candidate mirrors Recommendation with every field optional. Model output
// is duck-typed: numbers arrive as strings or numbers, lists sometimes as a
// single value, whole branches may be missing.
type candidate struct {
	Summary         *string             `json:"summary"`
	HourlyForecast  []candidateForecast `json:"hourlyForecast"`
	Recommendations candidateDetails    `json:"recommendations"`
}

type candidateForecast struct {
	Time  *string    `json:"time"`
	AQI   FlexNumber `json:"aqi"`
	Level *string    `json:"level"`
}

type candidateDetails struct {
	TreeTypes        FlexStringList          `json:"treeTypes"`
	NumberOfTrees    FlexNumber              `json:"numberOfTrees"`
	InvestmentAmount *string                 `json:"investmentAmount"`
	ROI              candidateROI            `json:"roi"`
	Comparison       candidateComparison     `json:"comparison"`
	HumanImpact      candidateHumanImpact    `json:"humanImpact"`
	Implementation   candidateImplementation `json:"implementation"`
}

type candidateROI struct {
	Timeframe *string `json:"timeframe"`
	Benefits  *string `json:"benefits"`
}

type candidateComparison struct {
	Before candidateSnapshot `json:"before"`
}

type candidateSnapshot struct {
	AQI  FlexNumber `json:"aqi"`
	PM25 FlexNumber `json:"pm25"`
	PM10 FlexNumber `json:"pm10"`
}

type candidateHumanImpact struct {
	HealthBenefit   *string `json:"healthBenefit"`
	EconomicBenefit *string `json:"economicBenefit"`
}

type candidateImplementation struct {
	Phases   FlexStringList `json:"phases"`
	Timeline *string        `json:"timeline"`
}

// FlexNumber accepts a JSON number, a numeric string (with optional
// currency markers or grouping), or null.
type FlexNumber struct {
	value float64
	ok    bool
}

// Value возвращает число и признак его наличия.
func (n FlexNumber) Value() (float64, bool) {
	return n.value, n.ok
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		if value, ok := ParseAmount(raw); ok {
			n.value = value
			n.ok = true
		}
		return nil
	}

	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		// Non-numeric garbage is treated as absent, not as a parse error.
		return nil
	}
	n.value = value
	n.ok = true
	return nil
}

// FlexStringList accepts a JSON array of strings or a single string.
type FlexStringList []string

func (l *FlexStringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) != "" {
			*l = FlexStringList{strings.TrimSpace(single)}
		}
		return nil
	}

	var values []string
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmedValue := strings.TrimSpace(value); trimmedValue != "" {
			out = append(out, trimmedValue)
		}
	}
	*l = FlexStringList(out)
	return nil
}
