package recommend

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"example.com/ai-green-advisor/backend/internal/ai"
)

type stubResponse struct {
	content string
	err     error
}

type stubClient struct {
	responses []stubResponse
	models    []string
}

func (s *stubClient) Generate(_ context.Context, model string, _ []ai.Message) (string, []byte, error) {
	s.models = append(s.models, model)

	index := len(s.models) - 1
	if index >= len(s.responses) {
		return "", nil, errors.New("unexpected extra call")
	}

	response := s.responses[index]
	return response.content, []byte(response.content), response.err
}

func notFoundErr() error {
	return &ai.APIError{Provider: "gemini", StatusCode: 404, Message: "model not found"}
}

// TestRecommendMissingCredential проверяет фатальную ошибку без ключа.
func TestRecommendMissingCredential(t *testing.T) {
	service := NewService(&stubClient{}, Config{Models: []string{"m1"}, APIKey: ""})

	_, _, err := service.Recommend(context.Background(), AQIData{City: "Delhi", AQI: floatPtr(100)})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

// TestRecommendExhaustionFallback проверяет фолбэк после перебора моделей.
func TestRecommendExhaustionFallback(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: notFoundErr()},
		{err: notFoundErr()},
		{err: notFoundErr()},
	}}
	service := NewService(client, Config{Models: []string{"m1", "m2", "m3"}, APIKey: "key", Seed: 42})

	data := AQIData{City: "Delhi", AQI: floatPtr(240)}
	rec, attempt, err := service.Recommend(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", attempt.Source)
	}
	if !reflect.DeepEqual(client.models, []string{"m1", "m2", "m3"}) {
		t.Fatalf("expected all models attempted in order, got %v", client.models)
	}

	want := NewGenerator(rand.New(rand.NewSource(42))).Generate(data)
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("fallback output differs from generator:\n%+v\nvs\n%+v", rec, want)
	}
}

// TestRecommendExtractionFailureStops проверяет немедленный фолбэк без
// перебора остальных моделей.
func TestRecommendExtractionFailureStops(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: "I could not produce JSON today, sorry."},
		{content: `{"summary": "never reached"}`},
	}}
	service := NewService(client, Config{Models: []string{"m1", "m2"}, APIKey: "key", Seed: 1})

	data := AQIData{City: "Delhi", AQI: floatPtr(120)}
	rec, attempt, err := service.Recommend(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", attempt.Source)
	}
	if len(client.models) != 1 {
		t.Fatalf("expected a single attempt, got %v", client.models)
	}
	if len(rec.HourlyForecast) != 5 {
		t.Fatalf("fallback record must carry 5 forecast entries, got %d", len(rec.HourlyForecast))
	}
}

// TestRecommendFatalFault проверяет распространение фатального сбоя.
func TestRecommendFatalFault(t *testing.T) {
	providerErr := &ai.APIError{Provider: "gemini", StatusCode: 401, Message: "invalid api key"}
	client := &stubClient{responses: []stubResponse{{err: providerErr}}}
	service := NewService(client, Config{Models: []string{"m1", "m2"}, APIKey: "key"})

	_, _, err := service.Recommend(context.Background(), AQIData{City: "Delhi", AQI: floatPtr(120)})
	if err == nil {
		t.Fatal("expected fatal error")
	}

	var apiErr *ai.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if len(client.models) != 1 {
		t.Fatalf("fatal fault must stop the pass, got attempts %v", client.models)
	}
}

// TestRecommendSuccess проверяет успешный проход с коррекцией ответа.
func TestRecommendSuccess(t *testing.T) {
	content := "```json\n" + `{
  "summary": "Delhi needs trees.",
  "hourlyForecast": [
    {"time": "+1h", "aqi": 118, "level": "Unhealthy for Sensitive Groups"},
    {"time": "+2h", "aqi": 121, "level": "Unhealthy for Sensitive Groups"},
    {"time": "+3h", "aqi": 119, "level": "Unhealthy for Sensitive Groups"},
    {"time": "+4h", "aqi": 125, "level": "Unhealthy for Sensitive Groups"},
    {"time": "+5h", "aqi": 116, "level": "Unhealthy for Sensitive Groups"}
  ],
  "recommendations": {
    "treeTypes": ["Neem", "Peepal"],
    "numberOfTrees": "20000",
    "investmentAmount": "$80,000,000",
    "roi": {"timeframe": "5 years", "benefits": "cleaner air"}
  }
}` + "\n```"

	client := &stubClient{responses: []stubResponse{{content: content}}}
	service := NewService(client, Config{Models: []string{"m1"}, APIKey: "key", Seed: 9})

	data := AQIData{City: "Delhi", AQI: floatPtr(120)}
	rec, attempt, err := service.Recommend(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Source != SourceModel || attempt.Model != "m1" {
		t.Fatalf("expected model source from m1, got %+v", attempt)
	}

	// aqi 120 sits in the [150, 200] band: 18000-24000 trees. The model's
	// 20000 is inside, so it survives correction.
	if rec.Recommendations.NumberOfTrees != "20000" {
		t.Fatalf("expected model estimate kept, got %s", rec.Recommendations.NumberOfTrees)
	}
	if rec.Recommendations.InvestmentAmount != "₹8,00,00,000" {
		t.Fatalf("expected normalized investment, got %s", rec.Recommendations.InvestmentAmount)
	}
	if rec.Summary != "Delhi needs trees." {
		t.Fatalf("summary rewritten: %s", rec.Summary)
	}
	if rec.Recommendations.Comparison.Before.AQI != 120 {
		t.Fatalf("before.aqi must equal input, got %d", rec.Recommendations.Comparison.Before.AQI)
	}
	if rec.Recommendations.Comparison.After.AQI >= 120 {
		t.Fatalf("after.aqi must improve, got %d", rec.Recommendations.Comparison.After.AQI)
	}
}
