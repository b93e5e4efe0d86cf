//go:build integration_test || all_tests

package load

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/physioengine/internal/db"
)

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "physioengine_db",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func TestRepo_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	athleteID := gofakeit.UUID()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Upsert(ctx, Sample{
			AthleteID: athleteID,
			Day:       base.AddDate(0, 0, i),
			Load:      gofakeit.Float64Range(40, 120),
		}))
	}

	samples, err := repo.ListAll(ctx, athleteID)
	require.NoError(t, err)
	require.Len(t, samples, 5)

	for i := 1; i < len(samples); i++ {
		assert.True(t, samples[i-1].Day.Before(samples[i].Day))
	}
}

func TestRepo_Upsert_SameDayOverwrites(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	athleteID := gofakeit.UUID()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, Sample{AthleteID: athleteID, Day: day, Load: 80}))
	// same-day correction, the first value must not survive
	require.NoError(t, repo.Upsert(ctx, Sample{AthleteID: athleteID, Day: day, Load: 62}))

	samples, err := repo.ListAll(ctx, athleteID)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.InDelta(t, 62, samples[0].Load, 0.001)
}

func TestRepo_Upsert_TruncatesToDay(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	athleteID := gofakeit.UUID()
	morning := time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 19, 45, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, Sample{AthleteID: athleteID, Day: morning, Load: 55}))
	require.NoError(t, repo.Upsert(ctx, Sample{AthleteID: athleteID, Day: evening, Load: 70}))

	samples, err := repo.ListAll(ctx, athleteID)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.InDelta(t, 70, samples[0].Load, 0.001)
}

func TestRepo_ListRange(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	athleteID := gofakeit.UUID()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Upsert(ctx, Sample{
			AthleteID: athleteID,
			Day:       base.AddDate(0, 0, i),
			Load:      60,
		}))
	}

	samples, err := repo.ListRange(ctx, athleteID, base.AddDate(0, 0, 2), base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Len(t, samples, 4)
}

func TestRepo_ListAll_UnknownAthlete(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	samples, err := repo.ListAll(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, samples)
}
