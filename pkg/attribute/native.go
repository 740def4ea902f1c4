package attribute

import (
	"strings"

	"github.com/elonfeng/podrank/pkg/platform"
)

// PriorityNative is the priority rank of platform-supplied attributes; they
// outrank every researched or derived table.
const PriorityNative = 0

// nativeGenreOrder: when two platforms both carry a category for the same
// key, the retailer feed wins over the chart feed.
var nativeGenreOrder = []platform.Platform{platform.Amazon, platform.Spotify}

// NativeSources extracts the platform-native genre and country claims from
// the loaded record sets. Category labels on the placeholder blocklist are
// skipped; only YouTube exposes an explicit country column.
func NativeSources(sets []*platform.RecordSet) []Source {
	byPlatform := make(map[platform.Platform]*platform.RecordSet)
	for _, set := range sets {
		byPlatform[set.Platform] = set
	}

	genres := make(map[string]string)
	for _, p := range nativeGenreOrder {
		set, ok := byPlatform[p]
		if !ok {
			continue
		}
		for _, rec := range set.Records {
			if rec.Key == "" || !ValidPlatformGenre(rec.Category) {
				continue
			}
			if _, claimed := genres[rec.Key]; !claimed {
				genres[rec.Key] = strings.TrimSpace(rec.Category)
			}
		}
	}

	countries := make(map[string]string)
	if set, ok := byPlatform[platform.YouTube]; ok {
		for _, rec := range set.Records {
			country := strings.TrimSpace(rec.Country)
			if rec.Key == "" || country == "" {
				continue
			}
			if _, claimed := countries[rec.Key]; !claimed {
				countries[rec.Key] = country
			}
		}
	}

	return []Source{
		{Name: "platform native", Field: FieldGenre, Priority: PriorityNative, Values: genres},
		{Name: "platform native", Field: FieldCountry, Priority: PriorityNative, Values: countries},
	}
}
