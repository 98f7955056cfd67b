package recommend

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// toCandidate прогоняет готовую запись через JSON, имитируя ответ модели.
func toCandidate(t *testing.T, rec Recommendation) candidate {
	t.Helper()

	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal recommendation: %v", err)
	}

	var cand candidate
	if err := json.Unmarshal(payload, &cand); err != nil {
		t.Fatalf("unmarshal candidate: %v", err)
	}
	return cand
}

// TestReconcileIdempotent проверяет, что повторная коррекция ничего не меняет.
func TestReconcileIdempotent(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(180), PM25: floatPtr(90), PM10: floatPtr(140)}

	base := NewGenerator(rand.New(rand.NewSource(7))).Generate(data)

	corrector := NewCorrector(rand.New(rand.NewSource(7)))
	once := corrector.Reconcile(toCandidate(t, base), data)
	twice := corrector.Reconcile(toCandidate(t, once), data)

	if !reflect.DeepEqual(base, once) {
		t.Fatalf("correcting a generated record changed it:\n%+v\nvs\n%+v", base, once)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("correction drifted on second pass:\n%+v\nvs\n%+v", once, twice)
	}
}

// TestReconcileReplacesOutOfBandTreeCount проверяет замену числа деревьев.
func TestReconcileReplacesOutOfBandTreeCount(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(100)}

	cand := candidate{}
	cand.Recommendations.NumberOfTrees = FlexNumber{value: 1000000, ok: true}

	rec := NewCorrector(rand.New(rand.NewSource(1))).Reconcile(cand, data)

	if rec.Recommendations.NumberOfTrees != "12500" {
		t.Fatalf("expected midpoint 12500, got %s", rec.Recommendations.NumberOfTrees)
	}
	if rec.Recommendations.InvestmentAmount != "₹5,00,00,000" {
		t.Fatalf("expected recomputed investment, got %s", rec.Recommendations.InvestmentAmount)
	}
	if rec.Recommendations.Implementation.Maintenance != "₹25,00,000" {
		t.Fatalf("expected 5%% maintenance, got %s", rec.Recommendations.Implementation.Maintenance)
	}
}

// TestReconcileKeepsTolerableEstimates проверяет сохранение оценок в допуске.
func TestReconcileKeepsTolerableEstimates(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(100)}

	cand := candidate{}
	cand.Recommendations.NumberOfTrees = FlexNumber{value: 12000, ok: true}
	cand.Recommendations.InvestmentAmount = strPtr("$50,000,000")

	rec := NewCorrector(rand.New(rand.NewSource(1))).Reconcile(cand, data)

	if rec.Recommendations.NumberOfTrees != "12000" {
		t.Fatalf("expected model estimate 12000 kept, got %s", rec.Recommendations.NumberOfTrees)
	}
	// The dollar amount is inside the ±30% band around 48,000,000 and is
	// kept, but re-rendered with the canonical marker.
	if rec.Recommendations.InvestmentAmount != "₹5,00,00,000" {
		t.Fatalf("expected normalized investment, got %s", rec.Recommendations.InvestmentAmount)
	}
}

// TestReconcileSynthesizesForecast проверяет синтез прогноза из 5 записей.
func TestReconcileSynthesizesForecast(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(120)}

	rec := NewCorrector(rand.New(rand.NewSource(3))).Reconcile(candidate{}, data)

	if len(rec.HourlyForecast) != 5 {
		t.Fatalf("expected 5 forecast entries, got %d", len(rec.HourlyForecast))
	}
	for _, entry := range rec.HourlyForecast {
		if entry.AQI < 0 {
			t.Fatalf("negative forecast aqi: %+v", entry)
		}
		if entry.AQI < 110 || entry.AQI > 130 {
			t.Fatalf("perturbation outside ±10: %+v", entry)
		}
		if entry.Level == "" || entry.Time == "" {
			t.Fatalf("incomplete forecast entry: %+v", entry)
		}
	}
}

// TestReconcileSeededForecastDeterministic проверяет повторяемость при
// одинаковом сиде.
func TestReconcileSeededForecastDeterministic(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(120)}

	first := NewCorrector(rand.New(rand.NewSource(5))).Reconcile(candidate{}, data)
	second := NewCorrector(rand.New(rand.NewSource(5))).Reconcile(candidate{}, data)

	if !reflect.DeepEqual(first.HourlyForecast, second.HourlyForecast) {
		t.Fatalf("same seed produced different forecasts:\n%+v\nvs\n%+v", first.HourlyForecast, second.HourlyForecast)
	}
}

// TestReconcileNarrativePassThrough проверяет неизменность текстовых полей.
func TestReconcileNarrativePassThrough(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(80)}

	cand := candidate{Summary: strPtr("Custom narrative about Delhi air.")}
	cand.Recommendations.TreeTypes = FlexStringList{"Neem", "Ashoka"}
	cand.Recommendations.ROI.Timeframe = strPtr("4 years")
	cand.Recommendations.Implementation.Timeline = strPtr("two monsoon seasons")

	rec := NewCorrector(rand.New(rand.NewSource(1))).Reconcile(cand, data)

	if rec.Summary != "Custom narrative about Delhi air." {
		t.Fatalf("summary rewritten: %s", rec.Summary)
	}
	if !reflect.DeepEqual(rec.Recommendations.TreeTypes, []string{"Neem", "Ashoka"}) {
		t.Fatalf("tree types rewritten: %v", rec.Recommendations.TreeTypes)
	}
	if rec.Recommendations.ROI.Timeframe != "4 years" {
		t.Fatalf("roi timeframe rewritten: %s", rec.Recommendations.ROI.Timeframe)
	}
	if rec.Recommendations.Implementation.Timeline != "two monsoon seasons" {
		t.Fatalf("timeline rewritten: %s", rec.Recommendations.Implementation.Timeline)
	}
}

// TestReconcileDerivedFieldsNeverTrusted проверяет пересчет сравнений.
func TestReconcileDerivedFieldsNeverTrusted(t *testing.T) {
	data := AQIData{City: "Delhi", AQI: floatPtr(200), PM25: floatPtr(110)}

	cand := candidate{}
	cand.Recommendations.NumberOfTrees = FlexNumber{value: 45000, ok: true}

	rec := NewCorrector(rand.New(rand.NewSource(1))).Reconcile(cand, data)

	if rec.Recommendations.Comparison.Before.AQI != 200 {
		t.Fatalf("before.aqi must equal input, got %d", rec.Recommendations.Comparison.Before.AQI)
	}
	if rec.Recommendations.Comparison.After.AQI >= 200 {
		t.Fatalf("after.aqi must improve, got %d", rec.Recommendations.Comparison.After.AQI)
	}

	wantAfter := ProjectedAQI(200, 45000)
	if rec.Recommendations.Comparison.After.AQI != wantAfter {
		t.Fatalf("after.aqi not recomputed: expected %d, got %d", wantAfter, rec.Recommendations.Comparison.After.AQI)
	}
}

// TestFlexNumberCoercion проверяет разбор числа из строки и числа.
func TestFlexNumberCoercion(t *testing.T) {
	var payload struct {
		A FlexNumber `json:"a"`
		B FlexNumber `json:"b"`
		C FlexNumber `json:"c"`
		D FlexNumber `json:"d"`
	}

	raw := `{"a": 42, "b": "1,500", "c": null, "d": "many"}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := payload.A.Value(); !ok || v != 42 {
		t.Fatalf("expected 42, got %f (ok=%v)", v, ok)
	}
	if v, ok := payload.B.Value(); !ok || v != 1500 {
		t.Fatalf("expected 1500, got %f (ok=%v)", v, ok)
	}
	if _, ok := payload.C.Value(); ok {
		t.Fatal("expected null to be absent")
	}
	if _, ok := payload.D.Value(); ok {
		t.Fatal("expected non-numeric string to be absent")
	}
}
