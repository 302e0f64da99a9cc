package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	apperrors "github.com/yanqian/ppgi-advisor/pkg/errors"
)

func TestServicePredictAutofillsFromCatalog(t *testing.T) {
	predictor := &stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(74.2), GL: floatPtr(21), Source: "lightgbm"}}
	history := newStubHistory()
	svc := newServiceUnderTest(predictor, newStubCache(), history)

	resp, err := svc.Predict(context.Background(), Request{
		Gender:           "Male",
		Age:              30,
		Weight:           70,
		BloodGroup:       "O+",
		FamilyHistory:    "Yes - Mother",
		PhysicalActivity: "Sedentary (little or no exercise)",
		FoodItem:         "white_bread",
		Fat:              floatPtr(1.5),
	})
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.Equal(t, "rec-1", resp.ID)
	require.Equal(t, fixedNow(), resp.CreatedAt)

	require.Equal(t, "white_bread", predictor.last.FoodItem)
	require.Equal(t, 49.0, predictor.last.Carb)
	require.Equal(t, 8.0, predictor.last.Protein)
	require.Equal(t, 1.5, predictor.last.Fat)
	require.Equal(t, 2.7, predictor.last.DietaryFiber)
	require.True(t, resp.Food.Autofilled)
	require.Equal(t, "White Bread", resp.Food.Name)

	require.Equal(t, glycemic.BandHigh, resp.Interpretation.GIBand)
	require.Equal(t, glycemic.BandHigh, *resp.Interpretation.GLBand)
	require.True(t, resp.Risk.FamilyDiabetes)
	require.Equal(t, "O", resp.Risk.BloodGroup)
	require.Equal(t, glycemic.ActivityLow, resp.Risk.PhysicalActivity)
	require.Equal(t, "male", resp.Risk.Gender)
	// 1 + 1 + 0.05 + 0.1 over 3.65
	require.InDelta(t, 2.15/3.65, resp.Interpretation.Adjustment.Normalized, 1e-9)

	require.Len(t, history.records, 1)
	require.Equal(t, resp.Record, history.records[0])
}

func TestServicePredictManualFoodWins(t *testing.T) {
	predictor := &stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(40)}}
	svc := newServiceUnderTest(predictor, newStubCache(), newStubHistory())

	resp, err := svc.Predict(context.Background(), Request{
		FoodItem:       "white_bread",
		FoodManualName: "  Jackfruit curry ",
		Carb:           floatPtr(12),
	})
	require.NoError(t, err)
	require.Equal(t, "Jackfruit curry", predictor.last.FoodItem)
	require.Equal(t, 12.0, predictor.last.Carb)
	require.Zero(t, predictor.last.Protein)
	require.False(t, resp.Food.Autofilled)
	require.Empty(t, resp.Food.Key)
	require.Equal(t, glycemic.BandLow, resp.Interpretation.GIBand)
}

func TestServicePredictUsesCache(t *testing.T) {
	predictor := &stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(60)}}
	cache := newStubCache()
	svc := newServiceUnderTest(predictor, cache, newStubHistory())

	req := Request{Age: 40, FoodItem: "rathu_suduru"}
	first, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, 1, predictor.calls)
	require.Equal(t, time.Hour, cache.lastTTL)
}

func TestServicePredictDoesNotCacheFallback(t *testing.T) {
	predictor := &stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(60), Source: "fallback"}}
	svc := newServiceUnderTest(predictor, newStubCache(), newStubHistory())

	for i := 0; i < 2; i++ {
		resp, err := svc.Predict(context.Background(), Request{FoodItem: "glucose_solution"})
		require.NoError(t, err)
		require.True(t, resp.Interpretation.FallbackWarning)
	}
	require.Equal(t, 2, predictor.calls)
}

func TestServicePredictCacheErrorsAreNotFatal(t *testing.T) {
	predictor := &stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(60)}}
	cache := newStubCache()
	cache.err = errors.New("valkey down")
	history := newStubHistory()
	history.err = errors.New("db down")
	svc := newServiceUnderTest(predictor, cache, history)

	resp, err := svc.Predict(context.Background(), Request{FoodItem: "glucose_solution"})
	require.NoError(t, err)
	require.Equal(t, glycemic.BandMedium, resp.Interpretation.GIBand)
}

func TestServicePredictInvalidInput(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{}, newStubCache(), newStubHistory())

	_, err := svc.Predict(context.Background(), Request{Age: 130})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Predict(context.Background(), Request{Carb: floatPtr(-1)})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.ErrorContains(t, err, "carb cannot be negative")
}

func TestServicePredictUpstreamFailure(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{err: errors.New("connection refused")}, newStubCache(), newStubHistory())

	_, err := svc.Predict(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, "prediction_error"))
	require.ErrorContains(t, err, "connection refused")
}

func TestServicePredictMissingPPGI(t *testing.T) {
	history := newStubHistory()
	svc := newServiceUnderTest(&stubPredictor{result: glycemic.PredictionResult{GL: floatPtr(10)}}, newStubCache(), history)

	_, err := svc.Predict(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, "invalid_prediction"))
	var missing *glycemic.MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Empty(t, history.records)
}

func TestServiceInterpret(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{}, newStubCache(), newStubHistory())

	got, err := svc.Interpret(context.Background(), InterpretRequest{
		Prediction: json.RawMessage(`{"ppgi_value":"50","gl":15,"source":"random_forest"}`),
		Risk: glycemic.RiskFactors{
			FamilyDiabetes:   true,
			HealthProblems:   true,
			Alcoholic:        true,
			Gender:           "male",
			BloodGroup:       "O",
			PhysicalActivity: "low",
		},
	})
	require.NoError(t, err)
	require.Equal(t, glycemic.BandLow, got.GIBand)
	require.Equal(t, glycemic.BandMedium, *got.GLBand)
	require.InDelta(t, 30.0, got.Adjustment.Low, 1e-9)
	require.InDelta(t, 70.0, got.Adjustment.High, 1e-9)
	require.False(t, got.FallbackWarning)
}

func TestServiceInterpretErrors(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{}, newStubCache(), newStubHistory())

	_, err := svc.Interpret(context.Background(), InterpretRequest{})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Interpret(context.Background(), InterpretRequest{Prediction: json.RawMessage(`[1,2]`)})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Interpret(context.Background(), InterpretRequest{Prediction: json.RawMessage(`{"gl":10}`)})
	require.True(t, apperrors.IsCode(err, "invalid_prediction"))
}

func TestServiceRecentAndGet(t *testing.T) {
	history := newStubHistory()
	svc := newServiceUnderTest(&stubPredictor{result: glycemic.PredictionResult{PPGI: floatPtr(58)}}, newStubCache(), history)

	resp, err := svc.Predict(context.Background(), Request{FoodItem: "kurakkan_bread"})
	require.NoError(t, err)

	records, err := svc.Recent(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 5, history.lastLimit)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, resp.Record, got)

	_, err = svc.Get(context.Background(), "missing")
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.Get(context.Background(), " ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestRiskFromRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want glycemic.RiskFactors
	}{
		{
			name: "empty form",
			req:  Request{},
			want: glycemic.RiskFactors{BloodGroup: "unknown", PhysicalActivity: "moderate"},
		},
		{
			name: "original form labels",
			req: Request{
				Gender:           "Female",
				BloodGroup:       "AB-",
				FamilyHistory:    "Yes - Father, Mother",
				PhysicalActivity: "Very active (hard exercise/sports 6-7 days a week)",
				Alcoholic:        true,
			},
			want: glycemic.RiskFactors{FamilyDiabetes: true, Alcoholic: true, Gender: "female", BloodGroup: "AB", PhysicalActivity: "high"},
		},
		{
			name: "short values",
			req: Request{
				Gender:           "Other",
				BloodGroup:       "Unknown",
				FamilyHistory:    "No",
				PhysicalActivity: "Lightly active (light exercise/sports 1-3 days/week)",
				HealthProblems:   true,
			},
			want: glycemic.RiskFactors{HealthProblems: true, Gender: "other", BloodGroup: "unknown", PhysicalActivity: "low"},
		},
		{
			name: "moderately active",
			req:  Request{PhysicalActivity: "Moderately active (moderate exercise/sports 3-5 days/week)", BloodGroup: "o"},
			want: glycemic.RiskFactors{BloodGroup: "O", PhysicalActivity: "moderate"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, RiskFromRequest(tc.req))
		})
	}
}

func newServiceUnderTest(predictor Predictor, cache Cache, history HistoryRepository) *service {
	ids := 0
	return &service{
		cfg:       Config{CacheTTL: time.Hour, RecentLimit: 5},
		catalog:   food.DefaultCatalog(),
		predictor: predictor,
		cache:     cache,
		history:   history,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       fixedNow,
		newID: func() string {
			ids++
			return "rec-" + string(rune('0'+ids))
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
}

type stubPredictor struct {
	result glycemic.PredictionResult
	err    error
	calls  int
	last   UpstreamRequest
}

func (s *stubPredictor) Predict(_ context.Context, req UpstreamRequest) (glycemic.PredictionResult, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return glycemic.PredictionResult{}, s.err
	}
	return s.result, nil
}

type stubCache struct {
	entries map[string]glycemic.PredictionResult
	err     error
	lastTTL time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]glycemic.PredictionResult)}
}

func (s *stubCache) Get(_ context.Context, key string) (glycemic.PredictionResult, bool, error) {
	if s.err != nil {
		return glycemic.PredictionResult{}, false, s.err
	}
	res, ok := s.entries[key]
	return res, ok, nil
}

func (s *stubCache) Set(_ context.Context, key string, result glycemic.PredictionResult, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.entries[key] = result
	s.lastTTL = ttl
	return nil
}

type stubHistory struct {
	records   []Record
	err       error
	lastLimit int
}

func newStubHistory() *stubHistory {
	return &stubHistory{}
}

func (s *stubHistory) Save(_ context.Context, record Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubHistory) Get(_ context.Context, id string) (Record, bool, error) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

func (s *stubHistory) Recent(_ context.Context, limit int) ([]Record, error) {
	s.lastLimit = limit
	if len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
