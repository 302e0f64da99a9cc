package prediction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	apperrors "github.com/yanqian/ppgi-advisor/pkg/errors"
	"github.com/yanqian/ppgi-advisor/pkg/util"
)

const defaultRecentLimit = 20

// Service exposes prediction form handling.
type Service interface {
	Predict(ctx context.Context, req Request) (Response, error)
	Interpret(ctx context.Context, req InterpretRequest) (glycemic.Interpretation, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
}

type service struct {
	cfg       Config
	catalog   *food.Catalog
	predictor Predictor
	cache     Cache
	history   HistoryRepository
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires up the prediction domain.
func NewService(cfg Config, catalog *food.Catalog, predictor Predictor, cache Cache, history HistoryRepository, logger *slog.Logger) Service {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaultRecentLimit
	}
	return &service{
		cfg:       cfg,
		catalog:   catalog,
		predictor: predictor,
		cache:     cache,
		history:   history,
		logger:    logger.With("component", "prediction.service"),
		now:       util.NowUTC,
		newID:     uuid.NewString,
	}
}

func (s *service) Predict(ctx context.Context, req Request) (Response, error) {
	if err := validate(req); err != nil {
		return Response{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}

	selection := s.resolveFood(req)
	upstream := UpstreamRequest{
		Gender:             req.Gender,
		Age:                req.Age,
		Weight:             req.Weight,
		WaistCircumference: req.WaistCircumference,
		BirthPlace:         strings.TrimSpace(req.BirthPlace),
		BloodGroup:         req.BloodGroup,
		FamilyHistory:      req.FamilyHistory,
		PhysicalActivity:   req.PhysicalActivity,
		FoodItem:           firstNonEmpty(strings.TrimSpace(req.FoodManualName), selection.Key, selection.Name),
		Carb:               selection.Nutrients.Carb,
		Protein:            selection.Nutrients.Protein,
		Fat:                selection.Nutrients.Fat,
		DietaryFiber:       selection.Nutrients.DietaryFiber,
	}

	result, cached, err := s.fetch(ctx, upstream)
	if err != nil {
		return Response{}, err
	}

	risk := RiskFromRequest(req)
	interpretation, err := glycemic.Interpret(result, risk)
	if err != nil {
		return Response{}, apperrors.Wrap("invalid_prediction", "prediction service returned an unusable response", err)
	}
	if interpretation.FallbackWarning {
		s.logger.Warn("prediction service answered with fallback estimate", "food", upstream.FoodItem)
	}

	record := Record{
		ID:             s.newID(),
		CreatedAt:      s.now(),
		Input:          upstream,
		Risk:           risk,
		Food:           selection,
		Interpretation: interpretation,
	}
	if err := s.history.Save(ctx, record); err != nil {
		s.logger.Error("save prediction history failed", "id", record.ID, "error", err)
	}
	s.logger.Info("prediction interpreted", "id", record.ID, "giBand", interpretation.GIBand, "cached", cached)

	return Response{Record: record, Cached: cached}, nil
}

func (s *service) fetch(ctx context.Context, upstream UpstreamRequest) (glycemic.PredictionResult, bool, error) {
	key, err := fingerprint(upstream)
	if err != nil {
		return glycemic.PredictionResult{}, false, apperrors.Wrap("prediction_error", "encode prediction request", err)
	}

	if hit, found, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("prediction cache lookup failed", "error", err)
	} else if found {
		return hit, true, nil
	}

	result, err := s.predictor.Predict(ctx, upstream)
	if err != nil {
		return glycemic.PredictionResult{}, false, apperrors.Wrap("prediction_error", "prediction service request failed", err)
	}

	// Fallback estimates are not cached so the next request can reach the real model.
	if result.Source != glycemic.SourceFallback && result.PPGI != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("prediction cache store failed", "error", err)
		}
	}
	return result, false, nil
}

func (s *service) Interpret(_ context.Context, req InterpretRequest) (glycemic.Interpretation, error) {
	if len(req.Prediction) == 0 || string(req.Prediction) == "null" {
		return glycemic.Interpretation{}, apperrors.Wrap("invalid_input", "prediction payload is required", nil)
	}
	result, err := glycemic.DecodePrediction(req.Prediction)
	if err != nil {
		return glycemic.Interpretation{}, apperrors.Wrap("invalid_input", "prediction payload is not a JSON object", err)
	}
	interpretation, err := glycemic.Interpret(result, req.Risk)
	if err != nil {
		return glycemic.Interpretation{}, apperrors.Wrap("invalid_prediction", "prediction payload is missing ppgi", err)
	}
	return interpretation, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load prediction history", err)
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, apperrors.Wrap("invalid_input", "id cannot be empty", nil)
	}
	record, found, err := s.history.Get(ctx, id)
	if err != nil {
		return Record{}, apperrors.Wrap("history_error", "failed to load prediction", err)
	}
	if !found {
		return Record{}, apperrors.Wrap("not_found", "prediction not found", nil)
	}
	return record, nil
}

func (s *service) resolveFood(req Request) FoodSelection {
	if manual := strings.TrimSpace(req.FoodManualName); manual != "" {
		return FoodSelection{Name: manual, Nutrients: fromRequest(req, food.Nutrients{})}
	}

	key := strings.TrimSpace(req.FoodItem)
	item, ok := s.catalog.Lookup(key)
	if !ok {
		return FoodSelection{Name: key, Nutrients: fromRequest(req, food.Nutrients{})}
	}
	return FoodSelection{
		Key:        item.Key,
		Name:       item.Label,
		Nutrients:  fromRequest(req, item.Nutrients),
		Autofilled: req.Carb == nil || req.Protein == nil || req.Fat == nil || req.DietaryFiber == nil,
	}
}

func fromRequest(req Request, defaults food.Nutrients) food.Nutrients {
	return food.Nutrients{
		Carb:         valueOr(req.Carb, defaults.Carb),
		Protein:      valueOr(req.Protein, defaults.Protein),
		Fat:          valueOr(req.Fat, defaults.Fat),
		DietaryFiber: valueOr(req.DietaryFiber, defaults.DietaryFiber),
	}
}

func validate(req Request) error {
	if req.Age < 0 || req.Age > 120 {
		return errors.New("age must be between 0 and 120")
	}
	if req.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if req.WaistCircumference < 0 {
		return errors.New("waist_circumference cannot be negative")
	}
	for name, v := range map[string]*float64{
		"carb":          req.Carb,
		"protein":       req.Protein,
		"fat":           req.Fat,
		"dietary_fiber": req.DietaryFiber,
	} {
		if v != nil && *v < 0 {
			return errors.New(name + " cannot be negative")
		}
	}
	return nil
}

func fingerprint(req UpstreamRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
