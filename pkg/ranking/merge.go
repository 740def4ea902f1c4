// Package ranking merges per-platform record sets into one canonical show
// table and computes the weighted composite leaderboard.
package ranking

import (
	"sort"

	"github.com/elonfeng/podrank/pkg/attribute"
	"github.com/elonfeng/podrank/pkg/platform"
)

// Show is one canonical show after the cross-platform merge. RawMetrics hold
// the platform-native units; Metrics hold the unit-adjusted values that all
// aggregation uses. Genre, country and the score fields are attached by the
// later pipeline stages.
type Show struct {
	Key        string
	RawMetrics map[platform.Platform]float64
	Metrics    map[platform.Platform]float64

	Genre   string
	Country string

	PlatformsPresent int
	TotalConsumption float64

	ConsumptionScore   float64
	ReachScore         float64
	PlatformCountScore float64
	GenreScore         float64
	CompositeScore     float64
	Rank               int
}

// Multipliers are the explicit per-platform unit-reconciliation coefficients
// (e.g. discounting a global view count to a regional-equivalent figure).
// Missing platforms default to 1.
type Multipliers map[platform.Platform]float64

// For returns the coefficient for p.
func (m Multipliers) For(p platform.Platform) float64 {
	if m == nil {
		return 1
	}
	if v, ok := m[p]; ok {
		return v
	}
	return 1
}

// MergeReport describes what the merge did with the input rows.
type MergeReport struct {
	// Duplicates counts same-platform rows whose titles normalized to an
	// already-seen key and were summed into it.
	Duplicates map[platform.Platform]int
	// SuspectKeys are keys that aggregated three or more distinct raw titles
	// on a single platform. Aggressive normalization can fold genuinely
	// distinct shows together; these are surfaced for a human curator, not
	// resolved automatically. Title variance across platforms is expected
	// and never flagged.
	SuspectKeys []string
	// DroppedZero counts keys excluded because no platform reported a
	// positive metric.
	DroppedZero int
	// DroppedEmptyKey counts rows whose title normalized to an empty key
	// and could not be merged.
	DroppedEmptyKey int
}

// Merge unions the canonical keys of all record sets into one row per show.
// Same-key duplicates within a platform are summed, never overwritten.
// Multipliers are applied once here, before any aggregation; a key whose
// metrics are zero on every platform is excluded. Output preserves
// first-seen order across the input sets.
func Merge(sets []*platform.RecordSet, mult Multipliers) ([]*Show, *MergeReport) {
	report := &MergeReport{Duplicates: make(map[platform.Platform]int)}

	byKey := make(map[string]*Show)
	titles := make(map[string]map[platform.Platform]map[string]bool)
	var order []string

	for _, set := range sets {
		for _, rec := range set.Records {
			if rec.Key == "" {
				report.DroppedEmptyKey++
				continue
			}

			show, ok := byKey[rec.Key]
			if !ok {
				show = &Show{
					Key:        rec.Key,
					RawMetrics: make(map[platform.Platform]float64),
					Metrics:    make(map[platform.Platform]float64),
				}
				byKey[rec.Key] = show
				titles[rec.Key] = make(map[platform.Platform]map[string]bool)
				order = append(order, rec.Key)
			}

			if _, seen := show.RawMetrics[set.Platform]; seen {
				report.Duplicates[set.Platform]++
			}
			show.RawMetrics[set.Platform] += rec.Metric
			if titles[rec.Key][set.Platform] == nil {
				titles[rec.Key][set.Platform] = make(map[string]bool)
			}
			titles[rec.Key][set.Platform][rec.RawName] = true
		}
	}

	var shows []*Show
	for _, key := range order {
		show := byKey[key]

		for p, raw := range show.RawMetrics {
			show.Metrics[p] = raw * mult.For(p)
			if raw > 0 {
				show.PlatformsPresent++
			}
		}
		for _, v := range show.Metrics {
			show.TotalConsumption += v
		}

		if show.PlatformsPresent == 0 {
			report.DroppedZero++
			continue
		}
		for _, names := range titles[key] {
			if len(names) >= 3 {
				report.SuspectKeys = append(report.SuspectKeys, key)
				break
			}
		}
		shows = append(shows, show)
	}
	sort.Strings(report.SuspectKeys)

	return shows, report
}

// Classify attaches the resolved genre and country to every show. Defaults
// ("Other" / "Unknown") come from the resolver, so neither field is ever
// empty afterwards.
func Classify(shows []*Show, r *attribute.Resolver) {
	for _, s := range shows {
		s.Genre = r.Genre(s.Key)
		s.Country = r.Country(s.Key)
	}
}
