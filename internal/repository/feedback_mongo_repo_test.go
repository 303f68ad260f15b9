package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"skinsense-backend/internal/database"
	"skinsense-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMongoTestRepo connects to MONGODB_TEST_URI and returns a repo on a
// throwaway database that is dropped when the test ends.
func newMongoTestRepo(t *testing.T) *MongoFeedbackRepo {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx := context.Background()
	db, err := database.ConnectMongo(ctx, uri)
	require.NoError(t, err)

	name := "skinsense_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	repo := NewMongoFeedbackRepo(db.Client().Database(name))
	t.Cleanup(func() {
		_ = repo.db.Drop(context.Background())
		_ = repo.Close(context.Background())
	})

	require.NoError(t, repo.Init(ctx))
	return repo
}

func TestMongoInitIsIdempotent(t *testing.T) {
	repo := newMongoTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Init(ctx))
	require.NoError(t, repo.Init(ctx))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMongoCreateAssignsMonotonicIDs(t *testing.T) {
	repo := newMongoTestRepo(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		fb := &models.Feedback{SkinType: "Dry", Confidence: 40 + float64(i), Helpful: "No"}
		require.NoError(t, repo.Create(ctx, fb))
		assert.Greater(t, fb.ID, last)
		assert.False(t, fb.Timestamp.IsZero())
		last = fb.ID
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, last, rows[4].ID)
	assert.Equal(t, "No", rows[0].Helpful)
	assert.Equal(t, 40.0, rows[0].Confidence)
}

func TestMongoListNewestFirst(t *testing.T) {
	repo := newMongoTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{2 * time.Hour, 0, 5 * time.Hour, 5 * time.Hour}
	step := 0
	repo.now = func() time.Time {
		ts := base.Add(offsets[step])
		step++
		return ts
	}
	// c and d share a timestamp; d has the larger id
	for _, label := range []string{"b", "a", "c", "d"} {
		require.NoError(t, repo.Create(ctx, &models.Feedback{SkinType: label}))
	}

	rows, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var labels []string
	for _, r := range rows {
		labels = append(labels, r.SkinType)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, labels)
	assert.WithinDuration(t, base.Add(5*time.Hour), rows[0].Timestamp, time.Millisecond)
}

func TestMongoListEmptyIsNotNil(t *testing.T) {
	repo := newMongoTestRepo(t)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
