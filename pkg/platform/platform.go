// Package platform loads per-platform popularity exports into a uniform
// record shape. Each platform ships a differently-mangled tabular file; the
// loaders absorb the schema quirks so the rest of the pipeline only sees
// (raw name, canonical key, consumption metric) tuples.
package platform

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Platform identifies which distribution platform a record came from.
type Platform string

const (
	Spotify Platform = "spotify"
	YouTube Platform = "youtube"
	Amazon  Platform = "amazon"
	Apple   Platform = "apple"
	IHeart  Platform = "iheart"
)

// All returns the known platforms in stable output order.
func All() []Platform {
	return []Platform{Spotify, YouTube, Amazon, Apple, IHeart}
}

// MetricName is the platform's native unit label, used for output columns.
func MetricName(p Platform) string {
	switch p {
	case Spotify:
		return "spotify_plays"
	case YouTube:
		return "youtube_views"
	case Amazon:
		return "amazon_plays"
	case Apple:
		return "apple_plays"
	case IHeart:
		return "iheart_streams"
	}
	return string(p) + "_metric"
}

// Record is one show row after loading and cleanup. Key is derived from
// RawName by the shared normalizer; Category and Country carry the
// platform-native classification fields when the platform exposes them.
type Record struct {
	RawName    string
	Key        string
	Metric     float64
	Category   string
	Country    string
	Completion float64
}

// LoadReport counts what happened to the rows of one platform file, so
// silent data loss stays visible.
type LoadReport struct {
	Rows         int
	Loaded       int
	DroppedName  int
	ZeroedMetric int
}

func (r LoadReport) String() string {
	return fmt.Sprintf("%d rows: %d loaded, %d dropped (no name), %d zeroed metrics",
		r.Rows, r.Loaded, r.DroppedName, r.ZeroedMetric)
}

// RecordSet is one platform's fully loaded contribution.
type RecordSet struct {
	Platform Platform
	Records  []Record
	Report   LoadReport
}

// Loader is the interface every platform loader implements.
type Loader interface {
	Name() Platform
	Load() (*RecordSet, error)
}

// LoadAll runs every loader, skipping platforms whose file fails to load so
// one broken export never aborts the whole run. The ranking degrades to
// whichever platforms loaded.
func LoadAll(loaders []Loader) []*RecordSet {
	var sets []*RecordSet
	for _, l := range loaders {
		set, err := l.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", l.Name(), err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: %s\n", set.Platform, set.Report)
		sets = append(sets, set)
	}
	return sets
}

// cleanNumber parses a platform numeric string after best-effort cleanup:
// thousands separators, grouping spaces and a trailing percent sign are
// stripped. Returns false when the value still does not parse or is
// negative; callers treat that as zero rather than dropping the row.
func cleanNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.NewReplacer(",", "", " ", "", "%", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	if percent {
		v /= 100
	}
	return v, true
}
