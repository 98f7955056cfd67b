package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/ai-green-advisor/backend/internal/models"
	"example.com/ai-green-advisor/backend/internal/notifications"
	"example.com/ai-green-advisor/backend/internal/recommend"
	"example.com/ai-green-advisor/backend/internal/repository"
)

type RecommendationHandler struct {
	Service  *recommend.Service
	Recs     *repository.RecommendationRepository
	AIRepo   *repository.AIRepository
	Notifier *notifications.Hub
	Provider string
}

// NewRecommendationHandler создает обработчик рекомендаций.
func NewRecommendationHandler(service *recommend.Service, recs *repository.RecommendationRepository, aiRepo *repository.AIRepository, notifier *notifications.Hub, provider string) *RecommendationHandler {
	return &RecommendationHandler{
		Service:  service,
		Recs:     recs,
		AIRepo:   aiRepo,
		Notifier: notifier,
		Provider: provider,
	}
}

type GenerateRequest struct {
	City     string   `json:"city" validate:"required,max=120"`
	AQI      *float64 `json:"aqi" validate:"omitempty,gte=0"`
	PM25     *float64 `json:"pm25" validate:"omitempty,gte=0"`
	PM10     *float64 `json:"pm10" validate:"omitempty,gte=0"`
	CO       *float64 `json:"co" validate:"omitempty,gte=0"`
	NO2      *float64 `json:"no2" validate:"omitempty,gte=0"`
	SO2      *float64 `json:"so2" validate:"omitempty,gte=0"`
	O3       *float64 `json:"o3" validate:"omitempty,gte=0"`
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	Wind     *float64 `json:"wind" validate:"omitempty,gte=0"`
}

type GenerateResponse struct {
	City           string                   `json:"city"`
	Source         string                   `json:"source"`
	Model          string                   `json:"model,omitempty"`
	Recommendation recommend.Recommendation `json:"recommendation"`
}

// Generate выполняет проход реконсиляции и сохраняет результат.
func (h *RecommendationHandler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	data := toEngineInput(req)

	inputPayload, _ := json.Marshal(data)

	rec, attempt, err := h.Service.Recommend(c.Request().Context(), data)
	if err != nil {
		h.logAIRequest(c.Request().Context(), data.City, attempt, inputPayload, nil, err)

		if errors.Is(err, recommend.ErrMissingCredential) {
			return serviceUnavailable(c, "ai credential is not configured")
		}

		slog.Error("recommendation pass failed",
			slog.String("city", data.City), slog.String("error", err.Error()))
		return badGateway(c, "ai provider error")
	}

	recPayload, _ := json.Marshal(rec)
	h.logAIRequest(c.Request().Context(), data.City, attempt, inputPayload, recPayload, nil)

	switch attempt.Source {
	case recommend.SourceFallback:
		slog.Warn("recommendation fallback used", slog.String("city", data.City))
	default:
		slog.Info("recommendation generated",
			slog.String("city", data.City), slog.String("model", attempt.Model))
	}

	record := models.RecommendationRecord{
		City:     data.City,
		AQI:      int(data.AQIValue()),
		Source:   models.RecommendationSource(attempt.Source),
		Provider: h.Provider,
		Model:    attempt.Model,
		Payload:  recPayload,
	}
	if _, err := h.Recs.Save(c.Request().Context(), record); err != nil {
		return serverError(c)
	}

	publishRecommendation(h.Notifier, data.City, string(attempt.Source), int(data.AQIValue()))

	return c.JSON(http.StatusOK, GenerateResponse{
		City:           data.City,
		Source:         string(attempt.Source),
		Model:          attempt.Model,
		Recommendation: rec,
	})
}

// Latest возвращает последнюю сохраненную рекомендацию для города.
func (h *RecommendationHandler) Latest(c echo.Context) error {
	city := strings.TrimSpace(c.Param("city"))
	if city == "" {
		return badRequest(c, "city is required")
	}

	record, err := h.Recs.LatestByCity(c.Request().Context(), city)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "no recommendation for city")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, record)
}

// History возвращает историю рекомендаций для города.
func (h *RecommendationHandler) History(c echo.Context) error {
	city := strings.TrimSpace(c.Param("city"))
	if city == "" {
		return badRequest(c, "city is required")
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid limit")
		}
		limit = parsed
	}

	records, err := h.Recs.HistoryByCity(c.Request().Context(), city, limit)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string][]models.RecommendationRecord{"recommendations": records})
}

func toEngineInput(req GenerateRequest) recommend.AQIData {
	return recommend.AQIData{
		City:     strings.TrimSpace(req.City),
		AQI:      req.AQI,
		PM25:     req.PM25,
		PM10:     req.PM10,
		CO:       req.CO,
		NO2:      req.NO2,
		SO2:      req.SO2,
		O3:       req.O3,
		Temp:     req.Temp,
		Humidity: req.Humidity,
		Wind:     req.Wind,
	}
}

func (h *RecommendationHandler) logAIRequest(ctx context.Context, city string, attempt recommend.Attempt, requestPayload, responsePayload []byte, err error) {
	log := repository.AIRequestLog{
		City:            city,
		Provider:        h.Provider,
		Model:           attempt.Model,
		Source:          string(attempt.Source),
		Prompt:          attempt.Prompt,
		RequestPayload:  requestPayload,
		ResponsePayload: responsePayload,
		RawResponse:     string(attempt.Raw),
		Success:         err == nil,
	}
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
	}

	_ = h.AIRepo.LogRequest(ctx, log)
}
