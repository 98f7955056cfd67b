package recommend

import "testing"

// TestTreeRangeMonotonicity проверяет, что худший AQI требует больше деревьев.
func TestTreeRangeMonotonicity(t *testing.T) {
	values := []float64{10, 50, 51, 100, 101, 150, 151, 200, 201, 300, 301, 450}

	prevMin, prevMax := TreeRange(values[0])
	for _, aqi := range values[1:] {
		min, max := TreeRange(aqi)
		if min < prevMin || max < prevMax {
			t.Fatalf("tree range not monotone at aqi %.0f: [%.0f, %.0f] after [%.0f, %.0f]", aqi, min, max, prevMin, prevMax)
		}
		if min > max {
			t.Fatalf("inverted range at aqi %.0f: [%.0f, %.0f]", aqi, min, max)
		}
		prevMin, prevMax = min, max
	}
}

// TestTreeMidpoint проверяет середину диапазона для среднего AQI.
func TestTreeMidpoint(t *testing.T) {
	// AQI 100 sits in the [100, 150] band: [10000, 15000] trees.
	if got := TreeMidpoint(100); got != 12500 {
		t.Fatalf("expected 12500, got %d", got)
	}
}

// TestInvestment проверяет стоимость посадки.
func TestInvestment(t *testing.T) {
	if got := Investment(1000); got != 4000000 {
		t.Fatalf("expected 4000000, got %d", got)
	}
}

// TestMaintenance проверяет долю обслуживания от инвестиций.
func TestMaintenance(t *testing.T) {
	if got := Maintenance(4000000); got != 200000 {
		t.Fatalf("expected 200000, got %d", got)
	}
}

// TestProjectedAQIStrictImprovement проверяет строгое улучшение при посадке.
func TestProjectedAQIStrictImprovement(t *testing.T) {
	after := ProjectedAQI(300, TreeMidpoint(300))
	if after >= 300 {
		t.Fatalf("expected improvement below 300, got %d", after)
	}
	if after < 210 {
		t.Fatalf("improvement exceeds the 30%% cap: %d", after)
	}

	// Tiny tree counts barely move the formula; the guard still enforces
	// strict improvement.
	if after := ProjectedAQI(1, 10); after != 0 {
		t.Fatalf("expected 0 for aqi 1, got %d", after)
	}
}

// TestProjectedAQICap проверяет ограничение улучшения в 30%.
func TestProjectedAQICap(t *testing.T) {
	if got := ProjectedAQI(300, 1000000); got != 210 {
		t.Fatalf("expected 210, got %d", got)
	}
	if factor := ImprovementFactor(1000000); factor != 0.30 {
		t.Fatalf("expected factor 0.30, got %f", factor)
	}
}

// TestProjectedAQIZeroTrees проверяет отсутствие улучшения без деревьев.
func TestProjectedAQIZeroTrees(t *testing.T) {
	if got := ProjectedAQI(120, 0); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
}

// TestPollutionReductionClamp проверяет границы процента снижения.
func TestPollutionReductionClamp(t *testing.T) {
	if got := PollutionReductionPercent(100); got != 5 {
		t.Fatalf("expected lower bound 5, got %d", got)
	}
	if got := PollutionReductionPercent(1000000); got != 30 {
		t.Fatalf("expected upper bound 30, got %d", got)
	}
	if got := PollutionReductionPercent(5000); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

// TestLevelForAQI проверяет категории качества воздуха на границах.
func TestLevelForAQI(t *testing.T) {
	cases := []struct {
		aqi  int
		want string
	}{
		{0, "Good"},
		{50, "Good"},
		{51, "Moderate"},
		{100, "Moderate"},
		{150, "Unhealthy for Sensitive Groups"},
		{200, "Unhealthy"},
		{300, "Very Unhealthy"},
		{301, "Hazardous"},
	}

	for _, tc := range cases {
		if got := LevelForAQI(tc.aqi); got != tc.want {
			t.Fatalf("aqi %d: expected %s, got %s", tc.aqi, tc.want, got)
		}
	}
}

// TestCarbonLinear проверяет линейность расчета поглощения CO2.
func TestCarbonLinear(t *testing.T) {
	if got := AnnualCarbonTonnes(1000); got != 22.0 {
		t.Fatalf("expected 22.0, got %f", got)
	}
	if got := LifetimeCarbonTonnes(1000); got != 880.0 {
		t.Fatalf("expected 880.0, got %f", got)
	}
}
