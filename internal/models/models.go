package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RecommendationSource string

const (
	RecommendationSourceAI       RecommendationSource = "ai"
	RecommendationSourceFallback RecommendationSource = "fallback"
)

// RecommendationRecord is a stored reconciliation result for one city.
type RecommendationRecord struct {
	ID        uuid.UUID            `json:"id"`
	City      string               `json:"city"`
	AQI       int                  `json:"aqi"`
	Source    RecommendationSource `json:"source"`
	Provider  string               `json:"provider"`
	Model     string               `json:"model,omitempty"`
	Payload   json.RawMessage      `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
}
