package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/podrank/pkg/attribute"
	"github.com/elonfeng/podrank/pkg/platform"
	"github.com/elonfeng/podrank/pkg/ranking"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleShows() []*ranking.Show {
	return []*ranking.Show{
		{
			Key:   "the daily",
			Genre: attribute.GenreNewsPolitics, Country: "US",
			RawMetrics: map[platform.Platform]float64{platform.Spotify: 1000, platform.YouTube: 2000},
			Metrics:    map[platform.Platform]float64{platform.Spotify: 1000, platform.YouTube: 150},
			PlatformsPresent: 2, TotalConsumption: 1150,
			ConsumptionScore: 100, ReachScore: 100, PlatformCountScore: 100, GenreScore: 100,
			CompositeScore: 100, Rank: 1,
		},
		{
			Key:   "hidden brain",
			Genre: attribute.GenreEducation, Country: attribute.CountryUnknown,
			RawMetrics: map[platform.Platform]float64{platform.Apple: 500},
			Metrics:    map[platform.Platform]float64{platform.Apple: 500},
			PlatformsPresent: 1, TotalConsumption: 500,
			CompositeScore: 55.5, Rank: 2,
		},
	}
}

func TestSaveAndListEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleShows())
	require.NoError(t, err)
	require.NotZero(t, runID)

	entries, err := s.ListEntries(ctx, runID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "the daily", first.ShowKey)
	assert.Equal(t, attribute.GenreNewsPolitics, first.Genre)
	assert.Equal(t, "US", first.Country)
	assert.Equal(t, float64(1150), first.TotalConsumption)
	assert.Equal(t, 2, first.PlatformsPresent)
	assert.Equal(t, float64(2000), first.RawMetrics["youtube"])
	assert.Equal(t, float64(150), first.Metrics["youtube"])

	assert.Equal(t, "hidden brain", entries[1].ShowKey)
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)

	first, err := s.SaveRun(ctx, sampleShows())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, sampleShows()[:1])
	require.NoError(t, err)
	require.Greater(t, second, first)

	run, err = s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, second, run.ID)
	assert.Equal(t, 1, run.ShowCount)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, sampleShows())
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListEntriesLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleShows())
	require.NoError(t, err)

	entries, err := s.ListEntries(ctx, runID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "the daily", entries[0].ShowKey)
}

func TestSaveEmptyRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, nil)
	require.NoError(t, err)

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, runID, run.ID)
	assert.Zero(t, run.ShowCount)
}
