package prediction

import (
	"context"
	"time"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
)

// Predictor calls the external prediction service.
type Predictor interface {
	Predict(ctx context.Context, req UpstreamRequest) (glycemic.PredictionResult, error)
}

// Cache keeps upstream results keyed by request fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (glycemic.PredictionResult, bool, error)
	Set(ctx context.Context, key string, result glycemic.PredictionResult, ttl time.Duration) error
}

// HistoryRepository persists interpreted predictions.
type HistoryRepository interface {
	Save(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
}
