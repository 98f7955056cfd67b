package handlers

import (
	"testing"
)

// TestToEngineInput проверяет маппинг запроса во входные данные движка.
func TestToEngineInput(t *testing.T) {
	aqi := 180.0
	pm25 := 95.5

	req := GenerateRequest{City: "  Delhi  ", AQI: &aqi, PM25: &pm25}
	data := toEngineInput(req)

	if data.City != "Delhi" {
		t.Fatalf("expected trimmed city, got %q", data.City)
	}
	if data.AQI == nil || *data.AQI != 180.0 {
		t.Fatalf("expected aqi 180, got %v", data.AQI)
	}
	if data.PM25 == nil || *data.PM25 != 95.5 {
		t.Fatalf("expected pm25 95.5, got %v", data.PM25)
	}
	if data.PM10 != nil {
		t.Fatalf("expected nil pm10, got %v", data.PM10)
	}
}

// TestToEngineInputMissingReadings проверяет передачу отсутствующих значений.
func TestToEngineInputMissingReadings(t *testing.T) {
	data := toEngineInput(GenerateRequest{City: "Pune"})

	if data.AQIValue() != 0 {
		t.Fatalf("expected missing aqi to read as 0, got %f", data.AQIValue())
	}
}
