package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/podrank/pkg/attribute"
	"github.com/elonfeng/podrank/pkg/platform"
)

func show(key, genre string, metrics map[platform.Platform]float64) *Show {
	s := &Show{Key: key, Genre: genre, RawMetrics: metrics, Metrics: metrics}
	for _, v := range metrics {
		s.TotalConsumption += v
		if v > 0 {
			s.PlatformsPresent++
		}
	}
	return s
}

func TestScoreSingleShowTopsEverything(t *testing.T) {
	shows := []*Show{show("the daily", attribute.GenreOther, map[platform.Platform]float64{
		platform.Spotify: 1000,
		platform.Apple:   2000,
		platform.Amazon:  3000,
	})}

	NewScorer(DefaultWeights()).Score(shows)

	s := shows[0]
	assert.InDelta(t, 100, s.ConsumptionScore, 1e-9)
	assert.InDelta(t, 100, s.ReachScore, 1e-9)
	assert.InDelta(t, 100, s.PlatformCountScore, 1e-9)
	assert.InDelta(t, 100, s.GenreScore, 1e-9)
	assert.InDelta(t, 100, s.CompositeScore, 1e-9)
	assert.Equal(t, 1, s.Rank)
}

func TestScoreBoundsAndRanks(t *testing.T) {
	shows := []*Show{
		show("a", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 100}),
		show("b", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 500, platform.Apple: 500}),
		show("c", attribute.GenreTrueCrime, map[platform.Platform]float64{platform.Apple: 250}),
	}

	NewScorer(DefaultWeights()).Score(shows)

	for i, s := range shows {
		assert.GreaterOrEqual(t, s.ConsumptionScore, 0.0)
		assert.LessOrEqual(t, s.ConsumptionScore, 100.0)
		assert.GreaterOrEqual(t, s.ReachScore, 0.0)
		assert.LessOrEqual(t, s.ReachScore, 100.0)
		assert.LessOrEqual(t, s.CompositeScore, 100.0)
		assert.Equal(t, i+1, s.Rank)
	}
	assert.Equal(t, "b", shows[0].Key)
}

func TestScoreReachIsBestSinglePlatform(t *testing.T) {
	shows := []*Show{
		show("leader", attribute.GenreOther, map[platform.Platform]float64{
			platform.Spotify: 1000, platform.Apple: 1000,
		}),
		// Tops Apple while tiny on Spotify: reach should be 100, not averaged
		// down by the weak platform.
		show("apple topper", attribute.GenreComedy, map[platform.Platform]float64{
			platform.Spotify: 10, platform.Apple: 1000,
		}),
	}

	NewScorer(DefaultWeights()).Score(shows)

	for _, s := range shows {
		if s.Key == "apple topper" {
			assert.InDelta(t, 100, s.ReachScore, 1e-9)
		}
	}
}

func TestScoreGenrePercentile(t *testing.T) {
	shows := []*Show{
		show("low", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 100}),
		show("mid", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 200}),
		show("high", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 300}),
		show("solo", attribute.GenreSports, map[platform.Platform]float64{platform.Spotify: 1}),
	}

	NewScorer(DefaultWeights()).Score(shows)

	byKey := make(map[string]*Show)
	for _, s := range shows {
		byKey[s.Key] = s
	}
	assert.InDelta(t, 100.0/3, byKey["low"].GenreScore, 1e-9)
	assert.InDelta(t, 200.0/3, byKey["mid"].GenreScore, 1e-9)
	assert.InDelta(t, 100, byKey["high"].GenreScore, 1e-9)
	// A one-show genre is trivially topped.
	assert.InDelta(t, 100, byKey["solo"].GenreScore, 1e-9)
}

func TestScoreStableTieOrder(t *testing.T) {
	mk := func(key string) *Show {
		return show(key, attribute.GenreOther, map[platform.Platform]float64{platform.Spotify: 100})
	}
	shows := []*Show{mk("first"), mk("second"), mk("third")}

	NewScorer(DefaultWeights()).Score(shows)

	assert.Equal(t, "first", shows[0].Key)
	assert.Equal(t, "second", shows[1].Key)
	assert.Equal(t, "third", shows[2].Key)
	assert.Equal(t, []int{1, 2, 3}, []int{shows[0].Rank, shows[1].Rank, shows[2].Rank})
}

func TestScoreZeroConsumptionDoesNotDivideByZero(t *testing.T) {
	shows := []*Show{
		{Key: "a", Genre: attribute.GenreOther, Metrics: map[platform.Platform]float64{}},
		{Key: "b", Genre: attribute.GenreOther, Metrics: map[platform.Platform]float64{}},
	}

	require.NotPanics(t, func() { NewScorer(DefaultWeights()).Score(shows) })
	assert.Zero(t, shows[0].ConsumptionScore)
	assert.Zero(t, shows[0].ReachScore)
	assert.Zero(t, shows[0].PlatformCountScore)
}

func TestNewScorerZeroWeightsFallBack(t *testing.T) {
	shows := []*Show{show("only", attribute.GenreOther, map[platform.Platform]float64{platform.Spotify: 10})}
	NewScorer(Weights{}).Score(shows)
	assert.InDelta(t, 100, shows[0].CompositeScore, 1e-9)
}

func TestScoreCustomWeights(t *testing.T) {
	shows := []*Show{
		show("big", attribute.GenreOther, map[platform.Platform]float64{platform.Spotify: 200}),
		show("small", attribute.GenreComedy, map[platform.Platform]float64{platform.Spotify: 100}),
	}

	// Consumption-only blend: composite equals the consumption component.
	NewScorer(Weights{Consumption: 1}).Score(shows)

	assert.InDelta(t, 100, shows[0].CompositeScore, 1e-9)
	assert.InDelta(t, 50, shows[1].CompositeScore, 1e-9)
}
