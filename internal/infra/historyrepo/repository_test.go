package historyrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	exerciseRepository(t, repo)
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), sampleRecord("a", 0, 61)))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, found, err := reopened.Get(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, glycemic.BandMedium, got.Interpretation.GIBand)
}

func exerciseRepository(t *testing.T, repo prediction.HistoryRepository) {
	t.Helper()
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	first := sampleRecord("a", 0, 48)
	second := sampleRecord("b", time.Minute, 75)
	third := sampleRecord("c", 2*time.Minute, 60)
	for _, rec := range []prediction.Record{first, second, third} {
		require.NoError(t, repo.Save(ctx, rec))
	}

	got, found, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, second, got)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "c", recent[0].ID)
	require.Equal(t, "b", recent[1].ID)

	updated := sampleRecord("a", 0, 90)
	require.NoError(t, repo.Save(ctx, updated))
	got, _, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, glycemic.BandHigh, got.Interpretation.GIBand)

	all, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func sampleRecord(id string, offset time.Duration, ppgi float64) prediction.Record {
	gl := 12.0
	risk := glycemic.RiskFactors{FamilyDiabetes: true, BloodGroup: "O", PhysicalActivity: "low"}
	interpretation, err := glycemic.Interpret(glycemic.PredictionResult{PPGI: &ppgi, GL: &gl, Source: "lightgbm"}, risk)
	if err != nil {
		panic(err)
	}
	return prediction.Record{
		ID:        id,
		CreatedAt: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC).Add(offset),
		Input: prediction.UpstreamRequest{
			Gender:   "Female",
			Age:      34,
			FoodItem: "rice_super_kernel",
			Carb:     28,
		},
		Risk: risk,
		Food: prediction.FoodSelection{
			Key:        "rice_super_kernel",
			Name:       "Rice - Super kernel",
			Nutrients:  food.Nutrients{Carb: 28, Protein: 2.7, Fat: 0.3, DietaryFiber: 0.4},
			Autofilled: true,
		},
		Interpretation: interpretation,
	}
}

func TestScanRecordUsesSharedCodec(t *testing.T) {
	want := sampleRecord("pg", time.Minute, 72)
	payload, err := encodeRecord(want)
	require.NoError(t, err)

	got, err := scanRecord(stubRow{payload: payload})
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, glycemic.BandHigh, got.Interpretation.GIBand)

	_, err = scanRecord(stubRow{payload: "{not json"})
	require.Error(t, err)

	_, err = scanRecord(stubRow{err: pgx.ErrNoRows})
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

type stubRow struct {
	payload string
	err     error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.payload
	return nil
}
