package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"example.com/ai-green-advisor/backend/internal/ai"
)

// Source tells where a recommendation came from.
type Source string

const (
	SourceModel    Source = "ai"
	SourceFallback Source = "fallback"
)

// ErrMissingCredential is raised before any model attempt when the provider
// key is absent. It is the only pre-flight fatal error.
var ErrMissingCredential = errors.New("ai api key is not configured")

// Config is the explicit orchestrator configuration: the ordered model
// attempt list, the provider credential and the forecast seed (0 = time).
type Config struct {
	Models []string
	APIKey string
	Seed   int64
}

// Attempt describes the outcome of one reconciliation pass for audit logs.
type Attempt struct {
	Source Source
	Model  string
	Prompt string
	Raw    []byte
}

// Service drives the ordered model attempts and guarantees that every
// non-fatal outcome still yields an invariant-satisfying record.
type Service struct {
	client ai.Client
	cfg    Config
}

// NewService создает оркестратор реконсиляции рекомендаций.
func NewService(client ai.Client, cfg Config) *Service {
	return &Service{client: client, cfg: cfg}
}

// Recommend выполняет один проход реконсиляции для данных AQI.
// Ошибкой завершаются только отсутствие ключа и фатальный сбой провайдера.
func (s *Service) Recommend(ctx context.Context, data AQIData) (Recommendation, Attempt, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return Recommendation{}, Attempt{}, ErrMissingCredential
	}

	rng := s.newRand()
	prompt := buildPrompt(data)
	messages := []ai.Message{
		{Role: "system", Content: "You are an urban forestry advisor. Respond with JSON only, without extra text."},
		{Role: "user", Content: prompt},
	}

	for _, model := range s.cfg.Models {
		content, raw, err := s.client.Generate(ctx, model, messages)
		if err != nil {
			if ai.IsModelUnavailable(err) {
				slog.Warn("model unavailable, trying next",
					slog.String("model", model), slog.String("error", err.Error()))
				continue
			}
			return Recommendation{}, Attempt{Source: SourceModel, Model: model, Prompt: prompt, Raw: raw},
				fmt.Errorf("generate recommendation: %w", err)
		}

		payload, err := ExtractJSON(content)
		if err != nil {
			slog.Warn("model output unusable, using fallback",
				slog.String("model", model), slog.String("error", err.Error()))
			return NewGenerator(rng).Generate(data),
				Attempt{Source: SourceFallback, Model: model, Prompt: prompt, Raw: raw}, nil
		}

		var cand candidate
		if err := json.Unmarshal([]byte(payload), &cand); err != nil {
			slog.Warn("model payload unparseable, using fallback",
				slog.String("model", model), slog.String("error", err.Error()))
			return NewGenerator(rng).Generate(data),
				Attempt{Source: SourceFallback, Model: model, Prompt: prompt, Raw: raw}, nil
		}

		return NewCorrector(rng).Reconcile(cand, data),
			Attempt{Source: SourceModel, Model: model, Prompt: prompt, Raw: raw}, nil
	}

	// Every identifier was unavailable (or the list is empty).
	return NewGenerator(rng).Generate(data),
		Attempt{Source: SourceFallback, Prompt: prompt}, nil
}

func (s *Service) newRand() *rand.Rand {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func buildPrompt(data AQIData) string {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}

	return fmt.Sprintf(`Create an urban tree-planting recommendation as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- All monetary values in Indian Rupees.
- Schema:
{
  "summary": string,
  "hourlyForecast": [
    {"time": string, "aqi": integer, "level": string}
  ],
  "recommendations": {
    "treeTypes": [string],
    "numberOfTrees": string,
    "investmentAmount": string,
    "roi": {"timeframe": string, "benefits": string},
    "comparison": {"before": {"aqi": integer, "pm25": integer, "pm10": integer}},
    "humanImpact": {"healthBenefit": string, "economicBenefit": string},
    "implementation": {"phases": [string], "timeline": string}
  }
}
- Provide exactly 5 hourlyForecast entries.
- numberOfTrees must scale with the severity of the AQI reading.
- Keep narrative fields short and specific to the city.

Input:
%s`, string(payload))
}
