package ranking

import (
	"sort"

	"github.com/elonfeng/podrank/pkg/platform"
)

// Weights control the composite blend. The four components and their 0-100
// normalization are fixed; only the split is tunable.
type Weights struct {
	Consumption   float64
	Reach         float64
	PlatformCount float64
	Genre         float64
}

// DefaultWeights is the reference split: consumption-dominant, rewarding
// peak single-platform reach and within-genre standing.
func DefaultWeights() Weights {
	return Weights{Consumption: 0.65, Reach: 0.20, PlatformCount: 0.05, Genre: 0.10}
}

// Scorer computes the four-component composite score and the final rank.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Zeroed weights fall back to DefaultWeights.
func NewScorer(w Weights) *Scorer {
	if w.Consumption+w.Reach+w.PlatformCount+w.Genre == 0 {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Score fills in all score fields, sorts descending by composite and assigns
// dense ranks 1..N. Ties keep their input order (stable sort), so re-running
// on identical input reproduces the same leaderboard. The input slice is
// mutated and returned.
func (s *Scorer) Score(shows []*Show) []*Show {
	if len(shows) == 0 {
		return shows
	}

	maxConsumption := 0.0
	maxPlatforms := 0
	platformMax := make(map[platform.Platform]float64)
	byGenre := make(map[string][]*Show)

	for _, show := range shows {
		if show.TotalConsumption > maxConsumption {
			maxConsumption = show.TotalConsumption
		}
		if show.PlatformsPresent > maxPlatforms {
			maxPlatforms = show.PlatformsPresent
		}
		for p, v := range show.Metrics {
			if v > platformMax[p] {
				platformMax[p] = v
			}
		}
		byGenre[show.Genre] = append(byGenre[show.Genre], show)
	}

	for _, show := range shows {
		// 1. Absolute consumption relative to the biggest show. All-zero
		// input scores 0 across the board instead of dividing by zero.
		if maxConsumption > 0 {
			show.ConsumptionScore = show.TotalConsumption / maxConsumption * 100
		}

		// 2. Best single-platform standing, not an average: a chart-topper
		// on one platform scores high even if invisible elsewhere.
		for p, v := range show.Metrics {
			if v <= 0 || platformMax[p] <= 0 {
				continue
			}
			if r := v / platformMax[p] * 100; r > show.ReachScore {
				show.ReachScore = r
			}
		}

		// 3. Platform breadth.
		if maxPlatforms > 0 {
			show.PlatformCountScore = float64(show.PlatformsPresent) / float64(maxPlatforms) * 100
		}

		// 4. Within-genre consumption percentile; a genre with a single show
		// is trivially topped.
		show.GenreScore = genrePercentile(show, byGenre[show.Genre])

		show.CompositeScore = show.ConsumptionScore*s.weights.Consumption +
			show.ReachScore*s.weights.Reach +
			show.PlatformCountScore*s.weights.PlatformCount +
			show.GenreScore*s.weights.Genre
	}

	sort.SliceStable(shows, func(i, j int) bool {
		return shows[i].CompositeScore > shows[j].CompositeScore
	})
	for i, show := range shows {
		show.Rank = i + 1
	}
	return shows
}

// genrePercentile is the fraction of same-genre shows whose consumption does
// not exceed this show's, scaled to 0-100. Ties share a percentile; the top
// show in every genre scores 100.
func genrePercentile(show *Show, bucket []*Show) float64 {
	if len(bucket) <= 1 {
		return 100
	}
	atOrBelow := 0
	for _, other := range bucket {
		if other.TotalConsumption <= show.TotalConsumption {
			atOrBelow++
		}
	}
	return float64(atOrBelow) / float64(len(bucket)) * 100
}
