package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/blogboost"
	"github.com/fwojciec/blogboost/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(id string, started time.Time) *blogboost.RunReport {
	return &blogboost.RunReport{
		ID:         id,
		Mode:       blogboost.SelectAll,
		Provider:   "groq",
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Targets: []blogboost.TargetReport{
			{
				ArticleID:   "7",
				Title:       "X",
				Status:      blogboost.StatusPublished,
				Slug:        "ai-enhanced-x-groq-1741944413",
				GeneratedID: "8",
				References:  []string{"https://b.example/post", "https://c.example/article"},
				ContentHash: "9f86d081884c7d65",
			},
			{
				ArticleID: "9",
				Title:     "Y",
				Status:    blogboost.StatusSkippedInsufficientReferences,
				Reason:    "found 1 of 2 references",
			},
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("round trips run and targets", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		started := time.Date(2025, 3, 14, 9, 26, 53, 123000000, time.UTC)

		run := testRun("run-1", started)
		run.Err = "quota exceeded"
		require.NoError(t, svc.CreateRun(ctx, run))

		id := "run-1"
		runs, err := svc.FindRuns(ctx, blogboost.RunFilter{ID: &id})
		require.NoError(t, err)
		require.Len(t, runs, 1)

		got := runs[0]
		assert.Equal(t, "run-1", got.ID)
		assert.Equal(t, blogboost.SelectAll, got.Mode)
		assert.Equal(t, "groq", got.Provider)
		assert.Equal(t, "quota exceeded", got.Err)
		assert.True(t, started.Equal(got.StartedAt))
		assert.True(t, started.Add(90*time.Second).Equal(got.FinishedAt))
		assert.Equal(t, run.Targets, got.Targets)
	})

	t.Run("generates missing ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		run := testRun("", time.Now())
		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
	})

	t.Run("stores run without targets", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := testRun("empty", time.Now())
		run.Targets = nil
		require.NoError(t, svc.CreateRun(ctx, run))

		runs, err := svc.FindRuns(ctx, blogboost.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Empty(t, runs[0].Targets)
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateRun(ctx, testRun("dup", time.Now())))
		require.Error(t, svc.CreateRun(ctx, testRun("dup", time.Now())))

		runs, err := svc.FindRuns(ctx, blogboost.RunFilter{})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("returns error for nil report", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), nil)

		assert.Equal(t, blogboost.EINVALID, blogboost.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *sqlite.RunService {
		t.Helper()
		svc := sqlite.NewRunService(setupTestDB(t))
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 5 {
			run := testRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
			if i%2 == 1 {
				run.Provider = "openai"
			}
			require.NoError(t, svc.CreateRun(context.Background(), run))
		}
		return svc
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := setup(t).FindRuns(context.Background(), blogboost.RunFilter{})

		require.NoError(t, err)
		require.Len(t, runs, 5)
		assert.Equal(t, "run-4", runs[0].ID)
		assert.Equal(t, "run-0", runs[4].ID)
	})

	t.Run("filters by provider", func(t *testing.T) {
		t.Parallel()

		provider := "openai"
		runs, err := setup(t).FindRuns(context.Background(), blogboost.RunFilter{Provider: &provider})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-1", runs[1].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		runs, err := setup(t).FindRuns(context.Background(), blogboost.RunFilter{Limit: 2, Offset: 1})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-2", runs[1].ID)
	})

	t.Run("applies offset without limit", func(t *testing.T) {
		t.Parallel()

		runs, err := setup(t).FindRuns(context.Background(), blogboost.RunFilter{Offset: 3})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-1", runs[0].ID)
	})

	t.Run("returns empty for unknown ID", func(t *testing.T) {
		t.Parallel()

		id := "missing"
		runs, err := setup(t).FindRuns(context.Background(), blogboost.RunFilter{ID: &id})

		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}
